package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Parceiro comercial referenciado por clientes (CRUD simples)
type Partner struct {
	ID      string `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID string `gorm:"type:uuid;index;not null" json:"ownerId"`

	Name    string `gorm:"size:150;not null" json:"name"`
	Email   string `gorm:"size:150" json:"email"`
	Phone   string `gorm:"size:30" json:"phone"`
	Type    string `gorm:"size:50" json:"type"`
	Company string `gorm:"size:150" json:"company"`
	Notes   string `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *Partner) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
