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

type OpportunityHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewOpportunityHandler(db *gorm.DB, audit *audit.Dispatcher) *OpportunityHandler {
	return &OpportunityHandler{db: db, audit: audit}
}

// ======================================================
// LIST
// ======================================================

func (h *OpportunityHandler) List(c *gin.Context) {
	ownerID := c.MustGet(middleware.ContextUserID).(string)

	var opportunities []models.Opportunity
	if err := h.db.
		Preload("Client").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&opportunities).Error; err != nil {

		log.Println("erro ao buscar oportunidades:", err)
		httperr.Internal(c, "Erro ao buscar oportunidades.")
		return
	}

	httpresp.OK(c, buildOpportunityViews(opportunities))
}

// ======================================================
// CREATE
// ======================================================

func (h *OpportunityHandler) Create(c *gin.Context) {
	ownerID := c.MustGet(middleware.ContextUserID).(string)

	var body normalize.Input
	if err := c.ShouldBindJSON(&body); err != nil {
		httperr.BadRequest(c, "Dados inválidos na requisição.")
		return
	}

	title := normalize.String(body["title"])
	clientID := normalize.String(body["clientId"])
	stage := normalize.String(body["stage"])
	if title == "" || clientID == "" || stage == "" {
		httperr.BadRequest(c, "Título, cliente e estágio são obrigatórios.")
		return
	}

	client, err := ensureClientOwnership(h.db, clientID, ownerID)
	if err != nil {
		log.Println("erro ao validar cliente:", err)
		httperr.Internal(c, "Erro ao criar oportunidade.")
		return
	}
	if client == nil {
		httperr.NotFound(c, "Cliente não encontrado.")
		return
	}

	opportunity := &models.Opportunity{
		OwnerID:    ownerID,
		Title:      title,
		ClientID:   clientID,
		ClientName: client.Name,
		Source:     normalize.String(body["source"]),
		Stage:      stage,

		Responsible: normalize.String(body["responsible"]),
		NextAction:  normalize.String(body["nextAction"]),
	}

	if value, ok := normalize.Number(body["estimatedValue"]); ok {
		opportunity.EstimatedValue = value
	}
	if probability, ok := normalize.Number(body["probability"]); ok {
		opportunity.Probability = probability
	}

	if body.Has("expectedCloseDate") {
		expectedClose, err := normalize.Date(body["expectedCloseDate"])
		if err != nil {
			httperr.BadRequest(c, "Data de fechamento inválida.")
			return
		}
		opportunity.ExpectedClose = expectedClose
	}

	if err := h.db.Create(opportunity).Error; err != nil {
		log.Println("erro ao criar oportunidade:", err)
		httperr.Internal(c, "Erro ao criar oportunidade.")
		return
	}

	opportunity.Client = client

	h.audit.Dispatch(audit.Event{
		OwnerID:  ownerID,
		Action:   "opportunity_created",
		Entity:   "opportunity",
		EntityID: &opportunity.ID,
	})

	httpresp.Created(c, buildOpportunityView(opportunity))
}

// ======================================================
// UPDATE (parcial)
// ======================================================

func (h *OpportunityHandler) Update(c *gin.Context) {
	ownerID := c.MustGet(middleware.ContextUserID).(string)
	id := c.Param("id")

	var body normalize.Input
	if err := c.ShouldBindJSON(&body); err != nil {
		httperr.BadRequest(c, "Dados inválidos na requisição.")
		return
	}

	updates := map[string]any{}

	stringColumns := map[string]string{
		"title":       "title",
		"source":      "source",
		"stage":       "stage",
		"responsible": "responsible",
		"nextAction":  "next_action",
	}
	for field, column := range stringColumns {
		if body.Has(field) {
			updates[column] = normalize.String(body[field])
		}
	}

	// presente mas nulo ou ininterpretável zera a coluna (não nula)
	if body.Has("estimatedValue") {
		if value, ok := normalize.Number(body["estimatedValue"]); ok {
			updates["estimated_value"] = value
		} else {
			updates["estimated_value"] = float64(0)
		}
	}
	if body.Has("probability") {
		if probability, ok := normalize.Number(body["probability"]); ok {
			updates["probability"] = probability
		} else {
			updates["probability"] = float64(0)
		}
	}

	if body.Has("expectedCloseDate") {
		expectedClose, err := normalize.Date(body["expectedCloseDate"])
		if err != nil {
			httperr.BadRequest(c, "Data de fechamento inválida.")
			return
		}
		updates["expected_close_date"] = expectedClose
	}

	// Troca de cliente exige que o novo cliente também seja do dono
	if clientID := normalize.Ref(body["clientId"]); clientID != nil {
		client, err := ensureClientOwnership(h.db, *clientID, ownerID)
		if err != nil {
			log.Println("erro ao validar cliente:", err)
			httperr.Internal(c, "Erro ao atualizar oportunidade.")
			return
		}
		if client == nil {
			httperr.NotFound(c, "Cliente não encontrado.")
			return
		}
		updates["client_id"] = *clientID
		updates["client_name"] = client.Name
	}

	if len(updates) == 0 {
		httperr.BadRequest(c, "Nenhum campo foi enviado para atualizacao.")
		return
	}

	res := h.db.Model(&models.Opportunity{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(updates)
	if res.Error != nil {
		log.Println("erro ao atualizar oportunidade:", res.Error)
		httperr.Internal(c, "Erro ao atualizar oportunidade.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "Oportunidade não encontrada.")
		return
	}

	var updated models.Opportunity
	if err := h.db.
		Preload("Client").
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&updated).Error; err != nil {

		log.Println("erro ao recarregar oportunidade:", err)
		httperr.Internal(c, "Erro ao atualizar oportunidade.")
		return
	}

	h.audit.Dispatch(audit.Event{
		OwnerID:  ownerID,
		Action:   "opportunity_updated",
		Entity:   "opportunity",
		EntityID: &updated.ID,
	})

	httpresp.OK(c, buildOpportunityView(&updated))
}

// ======================================================
// DELETE
// ======================================================

func (h *OpportunityHandler) Delete(c *gin.Context) {
	ownerID := c.MustGet(middleware.ContextUserID).(string)
	id := c.Param("id")

	res := h.db.
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&models.Opportunity{})
	if res.Error != nil {
		log.Println("erro ao remover oportunidade:", res.Error)
		httperr.Internal(c, "Erro ao remover oportunidade.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "Oportunidade não encontrada.")
		return
	}

	h.audit.Dispatch(audit.Event{
		OwnerID:  ownerID,
		Action:   "opportunity_deleted",
		Entity:   "opportunity",
		EntityID: &id,
	})

	httpresp.NoContent(c)
}
