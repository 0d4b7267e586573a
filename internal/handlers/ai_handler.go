package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AtivaInvest/crm-financeiro/internal/gemini"
)

// Endpoints assistivos: encaminham texto livre para a API generativa e
// repassam a saída sem validação profunda. Falhas do serviço externo nunca
// viram erro HTTP — o resultado degrada para o fallback de cada operação.
// Por contrato herdado do frontend, os erros aqui usam {"error": ...}.

type AIHandler struct {
	gemini *gemini.Client
}

func NewAIHandler(client *gemini.Client) *AIHandler {
	return &AIHandler{gemini: client}
}

// ======================================================
// POST /ai/summarize
// ======================================================

func (h *AIHandler) Summarize(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "O histórico de interações (um array) é obrigatório."})
		return
	}

	interactions, ok := body["interactions"].([]any)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "O histórico de interações (um array) é obrigatório."})
		return
	}

	result := h.gemini.Summarize(c.Request.Context(), interactions)
	c.JSON(http.StatusOK, result)
}

// ======================================================
// POST /search/search
// ======================================================

func (h *AIHandler) Search(c *gin.Context) {
	var body struct {
		Query   string         `json:"query"`
		Context map[string]any `json:"context"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Query == "" || body.Context == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query and context are required"})
		return
	}

	result := h.gemini.Search(c.Request.Context(), body.Query, body.Context)
	c.JSON(http.StatusOK, result)
}
