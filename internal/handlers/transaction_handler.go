package handlers

import (
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

type TransactionHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewTransactionHandler(db *gorm.DB, audit *audit.Dispatcher) *TransactionHandler {
	return &TransactionHandler{db: db, audit: audit}
}

// ======================================================
// LIST
// ======================================================

func (h *TransactionHandler) List(c *gin.Context) {
	ownerID := c.MustGet(middleware.ContextUserID).(string)

	var transactions []models.Transaction
	if err := h.db.
		Preload("Client").
		Where("owner_id = ?", ownerID).
		Order("timestamp DESC").
		Find(&transactions).Error; err != nil {

		log.Println("erro ao buscar transações:", err)
		httperr.Internal(c, "Erro ao buscar transações.")
		return
	}

	httpresp.OK(c, buildTransactionViews(transactions))
}

// ======================================================
// CREATE
// ======================================================

func (h *TransactionHandler) Create(c *gin.Context) {
	ownerID := c.MustGet(middleware.ContextUserID).(string)

	var body normalize.Input
	if err := c.ShouldBindJSON(&body); err != nil {
		httperr.BadRequest(c, "Dados inválidos na requisição.")
		return
	}

	clientID := normalize.String(body["clientId"])
	txType := normalize.String(body["type"])
	status := normalize.String(body["status"])
	if clientID == "" || txType == "" || status == "" {
		httperr.BadRequest(c, "Cliente, tipo e status são obrigatórios.")
		return
	}

	client, err := ensureClientOwnership(h.db, clientID, ownerID)
	if err != nil {
		log.Println("erro ao validar cliente:", err)
		httperr.Internal(c, "Erro ao criar transação.")
		return
	}
	if client == nil {
		httperr.NotFound(c, "Cliente não encontrado.")
		return
	}

	transaction := &models.Transaction{
		OwnerID:    ownerID,
		ClientID:   clientID,
		ClientName: client.Name,
		Type:       txType,
		Status:     status,

		Institution: normalize.String(body["institution"]),
		DocRef:      normalize.String(body["docRef"]),

		Product: normalize.Ref(body["product"]),
	}

	if value, ok := normalize.Number(body["value"]); ok {
		transaction.Value = value
	}
	if unitValue, ok := normalize.Number(body["unitValue"]); ok {
		transaction.UnitValue = &unitValue
	}
	if quantity, ok := normalize.Number(body["quantity"]); ok {
		transaction.Quantity = &quantity
	}

	dateFields := []struct {
		field  string
		target **time.Time
	}{
		{"reservationDate", &transaction.ReservationDate},
		{"liquidationDate", &transaction.LiquidationDate},
	}
	for _, df := range dateFields {
		if body.Has(df.field) {
			parsed, err := normalize.Date(body[df.field])
			if err != nil {
				httperr.BadRequest(c, "Data inválida.")
				return
			}
			*df.target = parsed
		}
	}

	if body.Has("timestamp") {
		timestamp, err := normalize.Date(body["timestamp"])
		if err != nil {
			httperr.BadRequest(c, "Data inválida.")
			return
		}
		if timestamp != nil {
			transaction.Timestamp = *timestamp
		}
	}

	if err := h.db.Create(transaction).Error; err != nil {
		log.Println("erro ao criar transação:", err)
		httperr.Internal(c, "Erro ao criar transação.")
		return
	}

	transaction.Client = client

	h.audit.Dispatch(audit.Event{
		OwnerID:  ownerID,
		Action:   "transaction_created",
		Entity:   "transaction",
		EntityID: &transaction.ID,
	})

	httpresp.Created(c, buildTransactionView(transaction))
}

// ======================================================
// UPDATE (parcial)
// ======================================================

func (h *TransactionHandler) Update(c *gin.Context) {
	ownerID := c.MustGet(middleware.ContextUserID).(string)
	id := c.Param("id")

	var body normalize.Input
	if err := c.ShouldBindJSON(&body); err != nil {
		httperr.BadRequest(c, "Dados inválidos na requisição.")
		return
	}

	updates := map[string]any{}

	stringColumns := map[string]string{
		"type":        "type",
		"status":      "status",
		"institution": "institution",
		"docRef":      "doc_ref",
	}
	for field, column := range stringColumns {
		if body.Has(field) {
			updates[column] = normalize.String(body[field])
		}
	}

	if body.Has("product") {
		updates["product"] = normalize.Ref(body["product"])
	}

	numberColumns := map[string]string{
		"value":     "value",
		"unitValue": "unit_value",
		"quantity":  "quantity",
	}
	for field, column := range numberColumns {
		if !body.Has(field) {
			continue
		}
		if value, ok := normalize.Number(body[field]); ok {
			updates[column] = value
		} else if field == "value" {
			// value é coluna não nula: nulo ou ininterpretável zera
			updates[column] = float64(0)
		} else {
			updates[column] = nil
		}
	}

	dateColumns := map[string]string{
		"reservationDate": "reservation_date",
		"liquidationDate": "liquidation_date",
		"timestamp":       "timestamp",
	}
	for field, column := range dateColumns {
		if body.Has(field) {
			parsed, err := normalize.Date(body[field])
			if err != nil {
				httperr.BadRequest(c, "Data inválida.")
				return
			}
			if field == "timestamp" && parsed == nil {
				continue
			}
			updates[column] = parsed
		}
	}

	if clientID := normalize.Ref(body["clientId"]); clientID != nil {
		client, err := ensureClientOwnership(h.db, *clientID, ownerID)
		if err != nil {
			log.Println("erro ao validar cliente:", err)
			httperr.Internal(c, "Erro ao atualizar transação.")
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

	res := h.db.Model(&models.Transaction{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(updates)
	if res.Error != nil {
		log.Println("erro ao atualizar transação:", res.Error)
		httperr.Internal(c, "Erro ao atualizar transação.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "Transação não encontrada.")
		return
	}

	var updated models.Transaction
	if err := h.db.
		Preload("Client").
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&updated).Error; err != nil {

		log.Println("erro ao recarregar transação:", err)
		httperr.Internal(c, "Erro ao atualizar transação.")
		return
	}

	h.audit.Dispatch(audit.Event{
		OwnerID:  ownerID,
		Action:   "transaction_updated",
		Entity:   "transaction",
		EntityID: &updated.ID,
	})

	httpresp.OK(c, buildTransactionView(&updated))
}

// ======================================================
// DELETE
// ======================================================

func (h *TransactionHandler) Delete(c *gin.Context) {
	ownerID := c.MustGet(middleware.ContextUserID).(string)
	id := c.Param("id")

	res := h.db.
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&models.Transaction{})
	if res.Error != nil {
		log.Println("erro ao remover transação:", res.Error)
		httperr.Internal(c, "Erro ao remover transação.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "Transação não encontrada.")
		return
	}

	h.audit.Dispatch(audit.Event{
		OwnerID:  ownerID,
		Action:   "transaction_deleted",
		Entity:   "transaction",
		EntityID: &id,
	})

	httpresp.NoContent(c)
}
