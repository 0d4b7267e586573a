package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Transaction struct {
	ID      string `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID string `gorm:"type:uuid;index;not null" json:"ownerId"`

	ClientID string  `gorm:"type:uuid;not null" json:"clientId"`
	Client   *Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"client,omitempty"`

	// Nome denormalizado usado como fallback quando o join não vem carregado
	ClientName string `gorm:"size:150" json:"-"`

	Type    string  `gorm:"size:50;not null" json:"type"`
	Product *string `gorm:"size:150" json:"product"`

	Value     float64  `gorm:"type:numeric(14,2);default:0" json:"value"`
	UnitValue *float64 `gorm:"type:numeric(14,4)" json:"unitValue"`
	Quantity  *float64 `gorm:"type:numeric(14,4)" json:"quantity"`

	ReservationDate *time.Time `json:"reservationDate"`
	LiquidationDate *time.Time `json:"liquidationDate"`
	Timestamp       time.Time  `json:"timestamp"`

	Status      string `gorm:"size:50;not null" json:"status"`
	Institution string `gorm:"size:150" json:"institution"`
	DocRef      string `gorm:"size:150;column:doc_ref" json:"docRef"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Timestamp.IsZero() {
		t.Timestamp = time.Now()
	}
	return nil
}
