package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AtivaInvest/crm-financeiro/internal/httperr"
	"github.com/AtivaInvest/crm-financeiro/internal/middleware"
	"github.com/AtivaInvest/crm-financeiro/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(string)

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		httperr.Internal(c, "Erro ao buscar usuário.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}
