package handlers

import (
	"errors"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AtivaInvest/crm-financeiro/internal/audit"
	"github.com/AtivaInvest/crm-financeiro/internal/httperr"
	"github.com/AtivaInvest/crm-financeiro/internal/httpresp"
	"github.com/AtivaInvest/crm-financeiro/internal/middleware"
	"github.com/AtivaInvest/crm-financeiro/internal/models"
	"github.com/AtivaInvest/crm-financeiro/internal/normalize"
)

const (
	clientListNoteLimit   = 5
	clientDetailNoteLimit = 50
)

type ClientHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewClientHandler(db *gorm.DB, audit *audit.Dispatcher) *ClientHandler {
	return &ClientHandler{db: db, audit: audit}
}

func (h *ClientHandler) baseQuery(ownerID string) *gorm.DB {
	return h.db.
		Preload("Partner").
		Preload("CollaborationNotes", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Where("owner_id = ?", ownerID)
}

// ======================================================
// LIST
// ======================================================

func (h *ClientHandler) List(c *gin.Context) {
	ownerID := c.MustGet(middleware.ContextUserID).(string)

	var clients []models.Client
	if err := h.baseQuery(ownerID).
		Order("created_at DESC").
		Find(&clients).Error; err != nil {

		log.Println("erro ao buscar clientes:", err)
		httperr.Internal(c, "Erro interno ao buscar clientes.")
		return
	}

	httpresp.OK(c, buildClientViews(clients, clientListNoteLimit))
}

// ======================================================
// GET BY ID
// ======================================================

func (h *ClientHandler) Get(c *gin.Context) {
	ownerID := c.MustGet(middleware.ContextUserID).(string)
	id := c.Param("id")

	var client models.Client
	err := h.baseQuery(ownerID).
		Where("id = ?", id).
		First(&client).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "Cliente não encontrado.")
		return
	}
	if err != nil {
		log.Println("erro ao buscar cliente:", err)
		httperr.Internal(c, "Erro interno ao buscar cliente.")
		return
	}

	httpresp.OK(c, buildClientView(&client, clientDetailNoteLimit))
}

// ======================================================
// CREATE
// ======================================================

func (h *ClientHandler) Create(c *gin.Context) {
	ownerID := c.MustGet(middleware.ContextUserID).(string)

	var body normalize.Input
	if err := c.ShouldBindJSON(&body); err != nil {
		httperr.BadRequest(c, "Dados inválidos na requisição.")
		return
	}

	name := normalize.String(body["name"])
	email := normalize.String(body["email"])
	clientType := normalize.String(body["type"])
	if name == "" || email == "" || clientType == "" {
		httperr.BadRequest(c, "Nome, e-mail e tipo sao obrigatorios.")
		return
	}

	if partnerID := normalize.Ref(body["partnerId"]); partnerID != nil {
		partner, err := ensurePartnerOwnership(h.db, *partnerID, ownerID)
		if err != nil {
			log.Println("erro ao validar parceiro:", err)
			httperr.Internal(c, "Erro ao criar cliente.")
			return
		}
		if partner == nil {
			httperr.NotFound(c, "Parceiro não encontrado.")
			return
		}
	}

	client, err := newClientFromInput(body, ownerID)
	if err != nil {
		httperr.BadRequest(c, "Data inválida.")
		return
	}

	if err := h.db.Create(client).Error; err != nil {
		log.Println("erro ao criar cliente:", err)
		httperr.Internal(c, "Erro ao criar cliente.")
		return
	}

	var created models.Client
	if err := h.baseQuery(ownerID).
		Where("id = ?", client.ID).
		First(&created).Error; err != nil {

		log.Println("erro ao recarregar cliente:", err)
		httperr.Internal(c, "Erro ao criar cliente.")
		return
	}

	h.audit.Dispatch(audit.Event{
		OwnerID:  ownerID,
		Action:   "client_created",
		Entity:   "client",
		EntityID: &created.ID,
	})

	httpresp.Created(c, buildClientView(&created, clientListNoteLimit))
}

// ======================================================
// UPDATE (parcial)
// ======================================================

func (h *ClientHandler) Update(c *gin.Context) {
	ownerID := c.MustGet(middleware.ContextUserID).(string)
	id := c.Param("id")

	var body normalize.Input
	if err := c.ShouldBindJSON(&body); err != nil {
		httperr.BadRequest(c, "Dados inválidos na requisição.")
		return
	}

	updates, err := buildClientUpdates(body)
	if err != nil {
		httperr.BadRequest(c, "Data inválida.")
		return
	}
	if len(updates) == 0 {
		httperr.BadRequest(c, "Nenhum campo foi enviado para atualizacao.")
		return
	}

	if partnerID, ok := updates["partner_id"].(*string); ok && partnerID != nil {
		partner, err := ensurePartnerOwnership(h.db, *partnerID, ownerID)
		if err != nil {
			log.Println("erro ao validar parceiro:", err)
			httperr.Internal(c, "Erro ao atualizar cliente.")
			return
		}
		if partner == nil {
			httperr.NotFound(c, "Parceiro não encontrado.")
			return
		}
	}

	// Predicado de dono embutido no UPDATE: sem corrida entre guarda e escrita
	res := h.db.Model(&models.Client{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(updates)
	if res.Error != nil {
		log.Println("erro ao atualizar cliente:", res.Error)
		httperr.Internal(c, "Erro ao atualizar cliente.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "Cliente não encontrado.")
		return
	}

	var updated models.Client
	if err := h.baseQuery(ownerID).
		Where("id = ?", id).
		First(&updated).Error; err != nil {

		log.Println("erro ao recarregar cliente:", err)
		httperr.Internal(c, "Erro ao atualizar cliente.")
		return
	}

	h.audit.Dispatch(audit.Event{
		OwnerID:  ownerID,
		Action:   "client_updated",
		Entity:   "client",
		EntityID: &updated.ID,
	})

	httpresp.OK(c, buildClientView(&updated, clientListNoteLimit))
}

// ======================================================
// DELETE
// ======================================================

func (h *ClientHandler) Delete(c *gin.Context) {
	ownerID := c.MustGet(middleware.ContextUserID).(string)
	id := c.Param("id")

	res := h.db.
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&models.Client{})
	if res.Error != nil {
		log.Println("erro ao remover cliente:", res.Error)
		httperr.Internal(c, "Erro ao remover cliente.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "Cliente não encontrado.")
		return
	}

	h.audit.Dispatch(audit.Event{
		OwnerID:  ownerID,
		Action:   "client_deleted",
		Entity:   "client",
		EntityID: &id,
	})

	httpresp.NoContent(c)
}

// ======================================================
// NORMALIZAÇÃO
// ======================================================

// newClientFromInput monta o cliente em modo completo: campo ausente recebe
// o valor padrão da criação.
func newClientFromInput(body normalize.Input, ownerID string) (*models.Client, error) {
	client := &models.Client{
		OwnerID: ownerID,

		Name:        normalize.String(body["name"]),
		Email:       normalize.String(body["email"]),
		Type:        normalize.String(body["type"]),
		Phone:       normalize.String(body["phone"]),
		CPF:         normalize.String(body["cpf"]),
		CNPJ:        normalize.String(body["cnpj"]),
		Sector:      normalize.String(body["sector"]),
		Citizenship: normalize.String(body["citizenship"]),

		ComplianceStatus: "Pendente",

		ServicePreferences: normalize.StringList(body["servicePreferences"]),
		Advisors:           normalize.StringList(body["advisors"]),

		ContactPersons:     models.JSON(`[]`),
		InteractionHistory: models.JSON(`[]`),
		Reminders:          models.JSON(`[]`),
		PartnerData:        models.JSON(`[]`),
	}

	if body.Has("complianceStatus") {
		client.ComplianceStatus = normalize.String(body["complianceStatus"])
	}

	if value, ok := normalize.Number(body["walletValue"]); ok {
		client.WalletValue = value
	}

	if body.Has("financialProfile") {
		client.FinancialProfile = normalize.JSONValue(body["financialProfile"])
	}
	if body.Has("address") {
		client.Address = normalize.JSONValue(body["address"])
	}
	if body.Has("contactPersons") {
		client.ContactPersons = normalize.JSONValue(body["contactPersons"])
	}
	if body.Has("interactionHistory") {
		client.InteractionHistory = normalize.JSONValue(body["interactionHistory"])
	}
	if body.Has("reminders") {
		client.Reminders = normalize.JSONValue(body["reminders"])
	}
	if body.Has("partnerData") {
		client.PartnerData = normalize.JSONValue(body["partnerData"])
	} else if body.Has("partners") {
		client.PartnerData = normalize.JSONValue(body["partners"])
	}

	client.PartnerID = normalize.Ref(body["partnerId"])

	if body.Has("lastActivity") {
		lastActivity, err := normalize.Date(body["lastActivity"])
		if err != nil {
			return nil, err
		}
		client.LastActivity = lastActivity
	} else {
		now := time.Now()
		client.LastActivity = &now
	}

	return client, nil
}

var clientStringColumns = map[string]string{
	"name":             "name",
	"email":            "email",
	"type":             "type",
	"phone":            "phone",
	"cpf":              "cpf",
	"cnpj":             "cnpj",
	"sector":           "sector",
	"complianceStatus": "compliance_status",
	"citizenship":      "citizenship",
}

// buildClientUpdates monta o conjunto de colunas do update parcial: campo
// ausente fica fora do mapa e não é tocado na escrita.
func buildClientUpdates(body normalize.Input) (map[string]any, error) {
	updates := map[string]any{}

	for field, column := range clientStringColumns {
		if body.Has(field) {
			updates[column] = normalize.String(body[field])
		}
	}

	if body.Has("walletValue") {
		if value, ok := normalize.Number(body["walletValue"]); ok {
			updates["wallet_value"] = value
		} else {
			// presente mas nulo ou ininterpretável zera a coluna (não nula)
			updates["wallet_value"] = float64(0)
		}
	}

	if body.Has("servicePreferences") {
		updates["service_preferences"] = normalize.StringList(body["servicePreferences"])
	}
	if body.Has("advisors") {
		updates["advisors"] = normalize.StringList(body["advisors"])
	}

	jsonColumns := map[string]string{
		"financialProfile":   "financial_profile",
		"address":            "address",
		"contactPersons":     "contact_persons",
		"interactionHistory": "interaction_history",
		"reminders":          "reminders",
	}
	for field, column := range jsonColumns {
		if body.Has(field) {
			updates[column] = normalize.JSONValue(body[field])
		}
	}

	if body.Has("partnerData") {
		updates["partner_data"] = normalize.JSONValue(body["partnerData"])
	} else if body.Has("partners") {
		updates["partner_data"] = normalize.JSONValue(body["partners"])
	}

	if body.Has("partnerId") {
		updates["partner_id"] = normalize.Ref(body["partnerId"])
	}

	if body.Has("lastActivity") {
		lastActivity, err := normalize.Date(body["lastActivity"])
		if err != nil {
			return nil, err
		}
		updates["last_activity"] = lastActivity
	}

	return updates, nil
}
