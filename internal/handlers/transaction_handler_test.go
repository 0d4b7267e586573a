package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/AtivaInvest/crm-financeiro/internal/audit"
	"github.com/AtivaInvest/crm-financeiro/internal/middleware"
)

func newTransactionRouter(gdb *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewTransactionHandler(gdb, audit.NewDispatcher(audit.New(gdb)))

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, testOwnerID)
	})
	r.PATCH("/transactions/:id", h.Update)
	return r
}

func TestTransactionUpdateNonNumericValues(t *testing.T) {
	gdb, mock := newMockDB(t)
	r := newTransactionRouter(gdb)

	// value presente e ininterpretável zera; unitValue com null vira NULL;
	// o UPDATE é emitido (contra um id alheio termina em 404), nunca o 400
	// de corpo sem campos
	mock.ExpectExec(`UPDATE "transactions" SET .+ WHERE id = .+ AND owner_id = .+`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	body := `{"value":"abc","unitValue":null}`
	req := httptest.NewRequest(http.MethodPatch, "/transactions/abc", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Transação não encontrada.")
	assert.NoError(t, mock.ExpectationsWereMet())
}
