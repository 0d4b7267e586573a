package handlers

import (
	"encoding/json"

	"github.com/AtivaInvest/crm-financeiro/internal/models"
)

// ======================================================
// RESPONSE SHAPING
// ======================================================
//
// O contrato com o frontend garante tipos concretos: valores monetários
// sempre numéricos, listas sempre arrays (nunca null) e nomes de relação
// preenchidos a partir do join, com fallback para o nome denormalizado.

var defaultFinancialProfile = json.RawMessage(
	`{"investorProfile":"Moderado","assetPreferences":[],"financialNeeds":[],"meetingAgendaSuggestions":[]}`,
)

var emptyJSONArray = json.RawMessage(`[]`)

func jsonOr(value models.JSON, fallback json.RawMessage) json.RawMessage {
	if len(value) == 0 || string(value) == "null" {
		return fallback
	}
	return json.RawMessage(value)
}

type clientView struct {
	*models.Client

	FinancialProfile   json.RawMessage `json:"financialProfile"`
	ContactPersons     json.RawMessage `json:"contactPersons"`
	InteractionHistory json.RawMessage `json:"interactionHistory"`
	Reminders          json.RawMessage `json:"reminders"`
	Partners           json.RawMessage `json:"partners"`

	Partner            *models.Partner            `json:"partner"`
	CollaborationNotes []models.CollaborationNote `json:"collaborationNotes"`
}

func buildClientView(client *models.Client, noteLimit int) *clientView {
	if client == nil {
		return nil
	}

	notes := client.CollaborationNotes
	if notes == nil {
		notes = []models.CollaborationNote{}
	}
	if noteLimit > 0 && len(notes) > noteLimit {
		notes = notes[:noteLimit]
	}

	return &clientView{
		Client: client,

		FinancialProfile:   jsonOr(client.FinancialProfile, defaultFinancialProfile),
		ContactPersons:     jsonOr(client.ContactPersons, emptyJSONArray),
		InteractionHistory: jsonOr(client.InteractionHistory, emptyJSONArray),
		Reminders:          jsonOr(client.Reminders, emptyJSONArray),
		Partners:           jsonOr(client.PartnerData, emptyJSONArray),

		Partner:            client.Partner,
		CollaborationNotes: notes,
	}
}

func buildClientViews(clients []models.Client, noteLimit int) []*clientView {
	views := make([]*clientView, 0, len(clients))
	for i := range clients {
		views = append(views, buildClientView(&clients[i], noteLimit))
	}
	return views
}

type opportunityView struct {
	*models.Opportunity

	ClientName string         `json:"clientName"`
	Client     *models.Client `json:"client"`
}

func buildOpportunityView(o *models.Opportunity) *opportunityView {
	if o == nil {
		return nil
	}

	clientName := ""
	if o.Client != nil && o.Client.Name != "" {
		clientName = o.Client.Name
	} else if o.ClientName != "" {
		clientName = o.ClientName
	}

	return &opportunityView{
		Opportunity: o,
		ClientName:  clientName,
		Client:      o.Client,
	}
}

func buildOpportunityViews(opportunities []models.Opportunity) []*opportunityView {
	views := make([]*opportunityView, 0, len(opportunities))
	for i := range opportunities {
		views = append(views, buildOpportunityView(&opportunities[i]))
	}
	return views
}

type transactionView struct {
	*models.Transaction

	ClientName string         `json:"clientName"`
	Client     *models.Client `json:"client"`
}

func buildTransactionView(t *models.Transaction) *transactionView {
	if t == nil {
		return nil
	}

	clientName := ""
	if t.Client != nil && t.Client.Name != "" {
		clientName = t.Client.Name
	} else if t.ClientName != "" {
		clientName = t.ClientName
	}

	return &transactionView{
		Transaction: t,
		ClientName:  clientName,
		Client:      t.Client,
	}
}

func buildTransactionViews(transactions []models.Transaction) []*transactionView {
	views := make([]*transactionView, 0, len(transactions))
	for i := range transactions {
		views = append(views, buildTransactionView(&transactions[i]))
	}
	return views
}
