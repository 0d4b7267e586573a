package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/AtivaInvest/crm-financeiro/internal/audit"
	"github.com/AtivaInvest/crm-financeiro/internal/middleware"
)

const testOwnerID = "11111111-1111-1111-1111-111111111111"

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New(
		sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 conn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gdb, mock
}

func newOpportunityRouter(gdb *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewOpportunityHandler(gdb, audit.NewDispatcher(audit.New(gdb)))

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, testOwnerID)
		c.Set(middleware.ContextUserName, "Assessor Teste")
	})
	r.POST("/opportunities", h.Create)
	r.PATCH("/opportunities/:id", h.Update)
	r.DELETE("/opportunities/:id", h.Delete)
	return r
}

func TestOpportunityCreateClientOfAnotherOwner(t *testing.T) {
	gdb, mock := newMockDB(t)
	r := newOpportunityRouter(gdb)

	// o cliente existe para outro dono: a consulta restrita não devolve linha
	// e nenhum INSERT chega a acontecer
	mock.ExpectQuery(`SELECT \* FROM "clients" WHERE id = .+ AND owner_id = .+`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	body := `{"title":"Previdência","clientId":"22222222-2222-2222-2222-222222222222","stage":"Prospecção"}`
	req := httptest.NewRequest(http.MethodPost, "/opportunities", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Cliente não encontrado.")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpportunityCreateMissingRequiredFields(t *testing.T) {
	gdb, _ := newMockDB(t)
	r := newOpportunityRouter(gdb)

	req := httptest.NewRequest(http.MethodPost, "/opportunities", strings.NewReader(`{"title":"Sem cliente"}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Título, cliente e estágio são obrigatórios.")
}

func TestOpportunityUpdateWithoutFields(t *testing.T) {
	gdb, _ := newMockDB(t)
	r := newOpportunityRouter(gdb)

	req := httptest.NewRequest(http.MethodPatch, "/opportunities/abc", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOpportunityUpdateInvalidCloseDate(t *testing.T) {
	gdb, _ := newMockDB(t)
	r := newOpportunityRouter(gdb)

	body := `{"expectedCloseDate":"não é data"}`
	req := httptest.NewRequest(http.MethodPatch, "/opportunities/abc", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Data de fechamento inválida.")
}

func TestOpportunityUpdateNullEstimatedValue(t *testing.T) {
	gdb, mock := newMockDB(t)
	r := newOpportunityRouter(gdb)

	// campo presente com null zera a coluna: o UPDATE é emitido (contra um id
	// alheio termina em 404), nunca o 400 de corpo sem campos
	mock.ExpectExec(`UPDATE "opportunities" SET .+ WHERE id = .+ AND owner_id = .+`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	req := httptest.NewRequest(http.MethodPatch, "/opportunities/abc", strings.NewReader(`{"estimatedValue":null}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpportunityUpdateNotOwned(t *testing.T) {
	gdb, mock := newMockDB(t)
	r := newOpportunityRouter(gdb)

	mock.ExpectExec(`UPDATE "opportunities" SET .+ WHERE id = .+ AND owner_id = .+`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	req := httptest.NewRequest(http.MethodPatch, "/opportunities/abc", strings.NewReader(`{"stage":"Proposta"}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Oportunidade não encontrada.")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpportunityDeleteNotOwned(t *testing.T) {
	gdb, mock := newMockDB(t)
	r := newOpportunityRouter(gdb)

	mock.ExpectExec(`DELETE FROM "opportunities" WHERE id = .+ AND owner_id = .+`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	req := httptest.NewRequest(http.MethodDelete, "/opportunities/abc", nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
