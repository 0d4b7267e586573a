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

type PartnerHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewPartnerHandler(db *gorm.DB, audit *audit.Dispatcher) *PartnerHandler {
	return &PartnerHandler{db: db, audit: audit}
}

func (h *PartnerHandler) List(c *gin.Context) {
	ownerID := c.MustGet(middleware.ContextUserID).(string)

	var partners []models.Partner
	if err := h.db.
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&partners).Error; err != nil {

		log.Println("erro ao buscar parceiros:", err)
		httperr.Internal(c, "Erro ao buscar parceiros.")
		return
	}

	httpresp.OK(c, partners)
}

func (h *PartnerHandler) Create(c *gin.Context) {
	ownerID := c.MustGet(middleware.ContextUserID).(string)

	var body normalize.Input
	if err := c.ShouldBindJSON(&body); err != nil {
		httperr.BadRequest(c, "Dados inválidos na requisição.")
		return
	}

	name := normalize.String(body["name"])
	if name == "" {
		httperr.BadRequest(c, "Nome é obrigatório.")
		return
	}

	partner := &models.Partner{
		OwnerID: ownerID,
		Name:    name,
		Email:   normalize.String(body["email"]),
		Phone:   normalize.String(body["phone"]),
		Type:    normalize.String(body["type"]),
		Company: normalize.String(body["company"]),
		Notes:   normalize.String(body["notes"]),
	}

	if err := h.db.Create(partner).Error; err != nil {
		log.Println("erro ao criar parceiro:", err)
		httperr.Internal(c, "Erro ao criar parceiro.")
		return
	}

	h.audit.Dispatch(audit.Event{
		OwnerID:  ownerID,
		Action:   "partner_created",
		Entity:   "partner",
		EntityID: &partner.ID,
	})

	httpresp.Created(c, partner)
}

var partnerStringColumns = map[string]string{
	"name":    "name",
	"email":   "email",
	"phone":   "phone",
	"type":    "type",
	"company": "company",
	"notes":   "notes",
}

func (h *PartnerHandler) Update(c *gin.Context) {
	ownerID := c.MustGet(middleware.ContextUserID).(string)
	id := c.Param("id")

	var body normalize.Input
	if err := c.ShouldBindJSON(&body); err != nil {
		httperr.BadRequest(c, "Dados inválidos na requisição.")
		return
	}

	updates := map[string]any{}
	for field, column := range partnerStringColumns {
		if body.Has(field) {
			updates[column] = normalize.String(body[field])
		}
	}

	if len(updates) == 0 {
		httperr.BadRequest(c, "Nenhum campo foi enviado para atualizacao.")
		return
	}

	res := h.db.Model(&models.Partner{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(updates)
	if res.Error != nil {
		log.Println("erro ao atualizar parceiro:", res.Error)
		httperr.Internal(c, "Erro ao atualizar parceiro.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "Parceiro não encontrado.")
		return
	}

	var updated models.Partner
	if err := h.db.
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&updated).Error; err != nil {

		log.Println("erro ao recarregar parceiro:", err)
		httperr.Internal(c, "Erro ao atualizar parceiro.")
		return
	}

	h.audit.Dispatch(audit.Event{
		OwnerID:  ownerID,
		Action:   "partner_updated",
		Entity:   "partner",
		EntityID: &updated.ID,
	})

	httpresp.OK(c, &updated)
}

func (h *PartnerHandler) Delete(c *gin.Context) {
	ownerID := c.MustGet(middleware.ContextUserID).(string)
	id := c.Param("id")

	res := h.db.
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&models.Partner{})
	if res.Error != nil {
		log.Println("erro ao remover parceiro:", res.Error)
		httperr.Internal(c, "Erro ao remover parceiro.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "Parceiro não encontrado.")
		return
	}

	h.audit.Dispatch(audit.Event{
		OwnerID:  ownerID,
		Action:   "partner_deleted",
		Entity:   "partner",
		EntityID: &id,
	})

	httpresp.NoContent(c)
}
