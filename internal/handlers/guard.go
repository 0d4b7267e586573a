package handlers

import (
	"errors"

	"gorm.io/gorm"

	"github.com/AtivaInvest/crm-financeiro/internal/models"
)

// ======================================================
// GUARDAS DE PROPRIEDADE
// ======================================================
//
// Cada guarda devolve (nil, nil) quando o registro não existe ou pertence a
// outro dono — o chamador transforma o não-encontrado em 404, sem distinguir
// as duas situações. Erro não nulo é falha de storage (vira 500).

func ensureClientOwnership(db *gorm.DB, clientID, ownerID string) (*models.Client, error) {
	var client models.Client
	err := db.
		Where("id = ? AND owner_id = ?", clientID, ownerID).
		First(&client).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func ensurePartnerOwnership(db *gorm.DB, partnerID, ownerID string) (*models.Partner, error) {
	var partner models.Partner
	err := db.
		Where("id = ? AND owner_id = ?", partnerID, ownerID).
		First(&partner).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &partner, nil
}

func ensureOpportunityOwnership(db *gorm.DB, opportunityID, ownerID string) (*models.Opportunity, error) {
	var opportunity models.Opportunity
	err := db.
		Where("id = ? AND owner_id = ?", opportunityID, ownerID).
		First(&opportunity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &opportunity, nil
}

// A nota não tem owner próprio: a autorização passa pelo dono do cliente.
func ensureNoteOwnership(db *gorm.DB, noteID, ownerID string) (*models.CollaborationNote, error) {
	var note models.CollaborationNote
	err := db.
		Joins("JOIN clients ON clients.id = collaboration_notes.client_id").
		Where("collaboration_notes.id = ? AND clients.owner_id = ?", noteID, ownerID).
		First(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &note, nil
}
