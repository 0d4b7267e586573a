package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Activity struct {
	ID      string `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID string `gorm:"type:uuid;index;not null" json:"ownerId"`

	Title string `gorm:"size:200;not null" json:"title"`
	Type  string `gorm:"size:50;not null" json:"type"`

	ClientID      *string      `gorm:"type:uuid" json:"clientId"`
	Client        *Client      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client,omitempty"`
	OpportunityID *string      `gorm:"type:uuid" json:"opportunityId"`
	Opportunity   *Opportunity `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"opportunity,omitempty"`

	Assessor string     `gorm:"size:150" json:"assessor"`
	Guests   StringList `gorm:"type:jsonb" json:"guests"`
	Location string     `gorm:"size:200" json:"location"`

	DueDate  time.Time `gorm:"not null" json:"dueDate"`
	Priority string    `gorm:"size:30;not null" json:"priority"`
	Status   string    `gorm:"size:30;not null" json:"status"`
	Notes    string    `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
