package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Opportunity struct {
	ID      string `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID string `gorm:"type:uuid;index;not null" json:"ownerId"`

	Title string `gorm:"size:200;not null" json:"title"`

	ClientID string  `gorm:"type:uuid;not null" json:"clientId"`
	Client   *Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"client,omitempty"`

	// Nome denormalizado usado como fallback quando o join não vem carregado
	ClientName string `gorm:"size:150" json:"-"`

	Source         string     `gorm:"size:100" json:"source"`
	EstimatedValue float64    `gorm:"type:numeric(14,2);default:0" json:"estimatedValue"`
	Stage          string     `gorm:"size:50;not null" json:"stage"`
	Probability    float64    `gorm:"default:0" json:"probability"`
	ExpectedClose  *time.Time `gorm:"column:expected_close_date" json:"expectedCloseDate"`
	Responsible    string     `gorm:"size:150" json:"responsible"`
	NextAction     string     `gorm:"size:255" json:"nextAction"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (o *Opportunity) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}
