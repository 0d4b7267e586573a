package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Nota de colaboração: comentário com menções, pertence a um cliente.
// A autorização passa sempre pelo dono do cliente.
type CollaborationNote struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	ClientID string  `gorm:"type:uuid;index;not null" json:"clientId"`
	Client   *Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Content  string      `gorm:"type:text;not null" json:"content"`
	Mentions MentionList `gorm:"type:jsonb" json:"mentions"`

	AuthorID   string `gorm:"type:uuid" json:"authorId"`
	AuthorName string `gorm:"size:150" json:"authorName"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (n *CollaborationNote) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
