package handlers

import (
	"log"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AtivaInvest/crm-financeiro/internal/audit"
	"github.com/AtivaInvest/crm-financeiro/internal/httperr"
	"github.com/AtivaInvest/crm-financeiro/internal/httpresp"
	"github.com/AtivaInvest/crm-financeiro/internal/middleware"
	"github.com/AtivaInvest/crm-financeiro/internal/models"
	"github.com/AtivaInvest/crm-financeiro/internal/normalize"
)

type ActivityHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewActivityHandler(db *gorm.DB, audit *audit.Dispatcher) *ActivityHandler {
	return &ActivityHandler{db: db, audit: audit}
}

// Checa a propriedade das relações opcionais (cliente e oportunidade).
// Escreve a resposta 404/500 e devolve false quando a escrita deve abortar.
func (h *ActivityHandler) validateRelations(c *gin.Context, body normalize.Input, ownerID string) bool {
	if clientID := normalize.Ref(body["clientId"]); clientID != nil {
		client, err := ensureClientOwnership(h.db, *clientID, ownerID)
		if err != nil {
			log.Println("erro ao validar cliente:", err)
			httperr.Internal(c, "Erro ao validar atividade.")
			return false
		}
		if client == nil {
			httperr.NotFound(c, "Cliente não encontrado.")
			return false
		}
	}

	if opportunityID := normalize.Ref(body["opportunityId"]); opportunityID != nil {
		opportunity, err := ensureOpportunityOwnership(h.db, *opportunityID, ownerID)
		if err != nil {
			log.Println("erro ao validar oportunidade:", err)
			httperr.Internal(c, "Erro ao validar atividade.")
			return false
		}
		if opportunity == nil {
			httperr.NotFound(c, "Oportunidade não encontrada.")
			return false
		}
	}

	return true
}

// ======================================================
// LIST
// ======================================================

func (h *ActivityHandler) List(c *gin.Context) {
	ownerID := c.MustGet(middleware.ContextUserID).(string)

	var activities []models.Activity
	if err := h.db.
		Where("owner_id = ?", ownerID).
		Order("due_date DESC").
		Find(&activities).Error; err != nil {

		log.Println("erro ao buscar atividades:", err)
		httperr.Internal(c, "Erro ao buscar atividades.")
		return
	}

	httpresp.OK(c, activities)
}

// ======================================================
// CREATE
// ======================================================

func (h *ActivityHandler) Create(c *gin.Context) {
	ownerID := c.MustGet(middleware.ContextUserID).(string)

	var body normalize.Input
	if err := c.ShouldBindJSON(&body); err != nil {
		httperr.BadRequest(c, "Dados inválidos na requisição.")
		return
	}

	title := normalize.String(body["title"])
	activityType := normalize.String(body["type"])
	priority := normalize.String(body["priority"])
	status := normalize.String(body["status"])
	if title == "" || !body.Has("dueDate") || priority == "" || status == "" || activityType == "" {
		httperr.BadRequest(c, "Campos obrigatórios ausentes.")
		return
	}

	dueDate, err := normalize.Date(body["dueDate"])
	if err != nil || dueDate == nil {
		httperr.BadRequest(c, "Data de vencimento inválida.")
		return
	}

	if !h.validateRelations(c, body, ownerID) {
		return
	}

	activity := &models.Activity{
		OwnerID: ownerID,
		Title:   title,
		Type:    activityType,

		ClientID:      normalize.Ref(body["clientId"]),
		OpportunityID: normalize.Ref(body["opportunityId"]),

		Assessor: normalize.String(body["assessor"]),
		Guests:   normalize.StringList(body["guests"]),
		Location: normalize.String(body["location"]),

		DueDate:  *dueDate,
		Priority: priority,
		Status:   status,
		Notes:    normalize.String(body["notes"]),
	}

	if err := h.db.Create(activity).Error; err != nil {
		log.Println("erro ao criar atividade:", err)
		httperr.Internal(c, "Erro ao criar atividade.")
		return
	}

	h.audit.Dispatch(audit.Event{
		OwnerID:  ownerID,
		Action:   "activity_created",
		Entity:   "activity",
		EntityID: &activity.ID,
	})

	httpresp.Created(c, activity)
}

// ======================================================
// UPDATE (parcial)
// ======================================================

func (h *ActivityHandler) Update(c *gin.Context) {
	ownerID := c.MustGet(middleware.ContextUserID).(string)
	id := c.Param("id")

	var body normalize.Input
	if err := c.ShouldBindJSON(&body); err != nil {
		httperr.BadRequest(c, "Dados inválidos na requisição.")
		return
	}

	if !h.validateRelations(c, body, ownerID) {
		return
	}

	updates := map[string]any{}

	stringColumns := map[string]string{
		"title":    "title",
		"type":     "type",
		"assessor": "assessor",
		"location": "location",
		"priority": "priority",
		"status":   "status",
		"notes":    "notes",
	}
	for field, column := range stringColumns {
		if body.Has(field) {
			updates[column] = normalize.String(body[field])
		}
	}

	if body.Has("guests") {
		updates["guests"] = normalize.StringList(body["guests"])
	}

	// Referências opcionais: null limpa a relação, valor é mantido
	// (a propriedade já foi checada acima)
	if body.Has("clientId") {
		updates["client_id"] = normalize.Ref(body["clientId"])
	}
	if body.Has("opportunityId") {
		updates["opportunity_id"] = normalize.Ref(body["opportunityId"])
	}

	if body.Has("dueDate") {
		dueDate, err := normalize.Date(body["dueDate"])
		if err != nil || dueDate == nil {
			httperr.BadRequest(c, "Data de vencimento inválida.")
			return
		}
		updates["due_date"] = *dueDate
	}

	if len(updates) == 0 {
		httperr.BadRequest(c, "Nenhum campo foi enviado para atualizacao.")
		return
	}

	res := h.db.Model(&models.Activity{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(updates)
	if res.Error != nil {
		log.Println("erro ao atualizar atividade:", res.Error)
		httperr.Internal(c, "Erro ao atualizar atividade.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "Atividade não encontrada.")
		return
	}

	var updated models.Activity
	if err := h.db.
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&updated).Error; err != nil {

		log.Println("erro ao recarregar atividade:", err)
		httperr.Internal(c, "Erro ao atualizar atividade.")
		return
	}

	h.audit.Dispatch(audit.Event{
		OwnerID:  ownerID,
		Action:   "activity_updated",
		Entity:   "activity",
		EntityID: &updated.ID,
	})

	httpresp.OK(c, &updated)
}

// ======================================================
// DELETE
// ======================================================

func (h *ActivityHandler) Delete(c *gin.Context) {
	ownerID := c.MustGet(middleware.ContextUserID).(string)
	id := c.Param("id")

	res := h.db.
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&models.Activity{})
	if res.Error != nil {
		log.Println("erro ao remover atividade:", res.Error)
		httperr.Internal(c, "Erro ao remover atividade.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "Atividade não encontrada.")
		return
	}

	h.audit.Dispatch(audit.Event{
		OwnerID:  ownerID,
		Action:   "activity_deleted",
		Entity:   "activity",
		EntityID: &id,
	})

	httpresp.NoContent(c)
}
