package handlers

import (
	"errors"
	"log"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AtivaInvest/crm-financeiro/internal/audit"
	"github.com/AtivaInvest/crm-financeiro/internal/httperr"
	"github.com/AtivaInvest/crm-financeiro/internal/httpresp"
	"github.com/AtivaInvest/crm-financeiro/internal/middleware"
	"github.com/AtivaInvest/crm-financeiro/internal/models"
	"github.com/AtivaInvest/crm-financeiro/internal/normalize"
)

// Teto do parâmetro limit do endpoint de notas por cliente.
const noteListMaxLimit = 100

type NoteHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewNoteHandler(db *gorm.DB, audit *audit.Dispatcher) *NoteHandler {
	return &NoteHandler{db: db, audit: audit}
}

// clampNoteLimit interpreta o limit da query string: inválido ou não
// positivo desliga o limite; acima do teto é rebaixado para o teto.
func clampNoteLimit(raw string) int {
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0
	}
	if limit > noteListMaxLimit {
		return noteListMaxLimit
	}
	return limit
}

// Subquery que restringe notas aos clientes do dono; usada para embutir o
// predicado de propriedade direto na sentença de escrita.
func (h *NoteHandler) ownedClients(ownerID string) *gorm.DB {
	return h.db.Model(&models.Client{}).Select("id").Where("owner_id = ?", ownerID)
}

// ======================================================
// LIST BY CLIENT
// ======================================================

func (h *NoteHandler) ListByClient(c *gin.Context) {
	ownerID := c.MustGet(middleware.ContextUserID).(string)
	clientID := c.Param("clientId")

	if clientID == "" {
		httperr.BadRequest(c, "O identificador do cliente é obrigatório.")
		return
	}

	client, err := ensureClientOwnership(h.db, clientID, ownerID)
	if err != nil {
		log.Println("erro ao validar cliente:", err)
		httperr.Internal(c, "Erro ao buscar notas de colaboração.")
		return
	}
	if client == nil {
		httperr.NotFound(c, "Cliente não encontrado.")
		return
	}

	q := h.db.
		Where("client_id = ?", clientID).
		Order("created_at DESC")
	if limit := clampNoteLimit(c.Query("limit")); limit > 0 {
		q = q.Limit(limit)
	}

	notes := []models.CollaborationNote{}
	if err := q.Find(&notes).Error; err != nil {
		log.Println("erro ao buscar notas de colaboração:", err)
		httperr.Internal(c, "Erro ao buscar notas de colaboração.")
		return
	}

	httpresp.OK(c, notes)
}

// ======================================================
// GET BY ID
// ======================================================

func (h *NoteHandler) Get(c *gin.Context) {
	ownerID := c.MustGet(middleware.ContextUserID).(string)

	note, err := ensureNoteOwnership(h.db, c.Param("id"), ownerID)
	if err != nil {
		log.Println("erro ao buscar nota:", err)
		httperr.Internal(c, "Erro ao buscar nota.")
		return
	}
	if note == nil {
		httperr.NotFound(c, "Nota não encontrada.")
		return
	}

	httpresp.OK(c, note)
}

// ======================================================
// CREATE
// ======================================================

func (h *NoteHandler) Create(c *gin.Context) {
	ownerID := c.MustGet(middleware.ContextUserID).(string)
	authorName := c.GetString(middleware.ContextUserName)
	clientID := c.Param("clientId")

	if clientID == "" {
		httperr.BadRequest(c, "O identificador do cliente é obrigatório.")
		return
	}

	client, err := ensureClientOwnership(h.db, clientID, ownerID)
	if err != nil {
		log.Println("erro ao validar cliente:", err)
		httperr.Internal(c, "Erro ao criar nota de colaboração.")
		return
	}
	if client == nil {
		httperr.NotFound(c, "Cliente não encontrado.")
		return
	}

	var body normalize.Input
	if err := c.ShouldBindJSON(&body); err != nil {
		httperr.BadRequest(c, "Dados inválidos na requisição.")
		return
	}

	content := normalize.TrimmedString(body["content"])
	if content == "" {
		httperr.BadRequest(c, "O conteúdo da nota é obrigatório.")
		return
	}

	note := &models.CollaborationNote{
		ClientID:   clientID,
		Content:    content,
		Mentions:   normalize.Mentions(body["mentions"]),
		AuthorID:   ownerID,
		AuthorName: authorName,
	}

	if err := h.db.Create(note).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			httperr.NotFound(c, "Cliente não encontrado para associar a nota.")
			return
		}
		log.Println("erro ao criar nota de colaboração:", err)
		httperr.Internal(c, "Erro ao criar nota de colaboração.")
		return
	}

	h.audit.Dispatch(audit.Event{
		OwnerID:  ownerID,
		Action:   "note_created",
		Entity:   "collaboration_note",
		EntityID: &note.ID,
	})

	httpresp.Created(c, note)
}

// ======================================================
// UPDATE (parcial)
// ======================================================

func (h *NoteHandler) Update(c *gin.Context) {
	ownerID := c.MustGet(middleware.ContextUserID).(string)
	id := c.Param("id")

	var body normalize.Input
	if err := c.ShouldBindJSON(&body); err != nil {
		httperr.BadRequest(c, "Dados inválidos na requisição.")
		return
	}

	updates := map[string]any{}

	if body.Has("content") {
		content := normalize.TrimmedString(body["content"])
		if content == "" {
			httperr.BadRequest(c, "O conteúdo não pode ficar vazio.")
			return
		}
		updates["content"] = content
	}

	if body.Has("mentions") {
		updates["mentions"] = normalize.Mentions(body["mentions"])
	}

	if body.Has("authorName") {
		if authorName := normalize.TrimmedString(body["authorName"]); authorName != "" {
			updates["author_name"] = authorName
		} else {
			updates["author_name"] = nil
		}
	}

	if len(updates) == 0 {
		httperr.BadRequest(c, "Nenhum campo válido foi enviado para atualização.")
		return
	}

	res := h.db.Model(&models.CollaborationNote{}).
		Where("id = ? AND client_id IN (?)", id, h.ownedClients(ownerID)).
		Updates(updates)
	if res.Error != nil {
		log.Println("erro ao atualizar nota de colaboração:", res.Error)
		httperr.Internal(c, "Erro ao atualizar nota de colaboração.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "Nota não encontrada.")
		return
	}

	var updated models.CollaborationNote
	if err := h.db.First(&updated, "id = ?", id).Error; err != nil {
		log.Println("erro ao recarregar nota:", err)
		httperr.Internal(c, "Erro ao atualizar nota de colaboração.")
		return
	}

	h.audit.Dispatch(audit.Event{
		OwnerID:  ownerID,
		Action:   "note_updated",
		Entity:   "collaboration_note",
		EntityID: &updated.ID,
	})

	httpresp.OK(c, &updated)
}

// ======================================================
// DELETE
// ======================================================

func (h *NoteHandler) Delete(c *gin.Context) {
	ownerID := c.MustGet(middleware.ContextUserID).(string)
	id := c.Param("id")

	res := h.db.
		Where("id = ? AND client_id IN (?)", id, h.ownedClients(ownerID)).
		Delete(&models.CollaborationNote{})
	if res.Error != nil {
		log.Println("erro ao remover nota de colaboração:", res.Error)
		httperr.Internal(c, "Erro ao remover nota de colaboração.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "Nota não encontrada.")
		return
	}

	h.audit.Dispatch(audit.Event{
		OwnerID:  ownerID,
		Action:   "note_deleted",
		Entity:   "collaboration_note",
		EntityID: &id,
	})

	httpresp.NoContent(c)
}
