package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cliente do CRM, sempre vinculado ao assessor dono (owner)
type Client struct {
	ID      string `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID string `gorm:"type:uuid;index;not null" json:"ownerId"`

	Name  string `gorm:"size:150;not null" json:"name"`
	Email string `gorm:"size:150;not null" json:"email"`
	Type  string `gorm:"size:50;not null" json:"type"`
	Phone string `gorm:"size:30" json:"phone"`
	CPF   string `gorm:"size:20;column:cpf" json:"cpf"`
	CNPJ  string `gorm:"size:20;column:cnpj" json:"cnpj"`

	Sector           string `gorm:"size:100" json:"sector"`
	ComplianceStatus string `gorm:"size:50;default:'Pendente'" json:"complianceStatus"`
	Citizenship      string `gorm:"size:100" json:"citizenship"`

	WalletValue float64 `gorm:"type:numeric(14,2);default:0" json:"walletValue"`

	ServicePreferences StringList `gorm:"type:jsonb" json:"servicePreferences"`
	Advisors           StringList `gorm:"type:jsonb" json:"advisors"`

	FinancialProfile   JSON `gorm:"type:jsonb" json:"financialProfile"`
	Address            JSON `gorm:"type:jsonb" json:"address"`
	ContactPersons     JSON `gorm:"type:jsonb" json:"contactPersons"`
	InteractionHistory JSON `gorm:"type:jsonb" json:"interactionHistory"`
	Reminders          JSON `gorm:"type:jsonb" json:"reminders"`
	PartnerData        JSON `gorm:"type:jsonb" json:"partnerData"`

	PartnerID *string  `gorm:"type:uuid" json:"partnerId"`
	Partner   *Partner `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"partner,omitempty"`

	LastActivity *time.Time `json:"lastActivity"`

	CollaborationNotes []CollaborationNote `gorm:"constraint:OnDelete:CASCADE;" json:"collaborationNotes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
