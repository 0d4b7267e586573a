package handlers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtivaInvest/crm-financeiro/internal/models"
)

func TestBuildClientViewDefaults(t *testing.T) {
	client := &models.Client{
		ID:    "c-1",
		Name:  "Ana Souza",
		Email: "ana@exemplo.com",
		Type:  "Pessoa Física",
	}

	view := buildClientView(client, 0)
	require.NotNil(t, view)

	body, err := json.Marshal(view)
	require.NoError(t, err)

	var out map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &out))

	// blocos ausentes ganham os padrões do contrato
	assert.JSONEq(t,
		`{"investorProfile":"Moderado","assetPreferences":[],"financialNeeds":[],"meetingAgendaSuggestions":[]}`,
		string(out["financialProfile"]),
	)
	assert.JSONEq(t, `[]`, string(out["contactPersons"]))
	assert.JSONEq(t, `[]`, string(out["interactionHistory"]))
	assert.JSONEq(t, `[]`, string(out["reminders"]))
	assert.JSONEq(t, `[]`, string(out["partners"]))

	// listas e relações nunca saem como null
	assert.JSONEq(t, `[]`, string(out["collaborationNotes"]))
	assert.Equal(t, "null", string(out["partner"]))
}

func TestBuildClientViewKeepsStoredBlobs(t *testing.T) {
	client := &models.Client{
		ID:               "c-2",
		Name:             "Empresa X",
		FinancialProfile: models.JSON(`{"investorProfile":"Arrojado"}`),
		ContactPersons:   models.JSON(`[{"name":"Pedro"}]`),
	}

	view := buildClientView(client, 0)

	assert.JSONEq(t, `{"investorProfile":"Arrojado"}`, string(view.FinancialProfile))
	assert.JSONEq(t, `[{"name":"Pedro"}]`, string(view.ContactPersons))
}

func TestBuildClientViewCapsNotes(t *testing.T) {
	notes := make([]models.CollaborationNote, 8)
	for i := range notes {
		notes[i] = models.CollaborationNote{ID: "n", Content: "nota"}
	}

	client := &models.Client{ID: "c-3", CollaborationNotes: notes}

	assert.Len(t, buildClientView(client, 5).CollaborationNotes, 5)
	assert.Len(t, buildClientView(client, 0).CollaborationNotes, 8)
	assert.Len(t, buildClientView(client, 50).CollaborationNotes, 8)
}

func TestBuildOpportunityViewClientName(t *testing.T) {
	t.Run("prefere o nome do join", func(t *testing.T) {
		o := &models.Opportunity{
			ClientName: "nome antigo",
			Client:     &models.Client{Name: "Nome Atual"},
		}
		assert.Equal(t, "Nome Atual", buildOpportunityView(o).ClientName)
	})

	t.Run("cai para o nome denormalizado", func(t *testing.T) {
		o := &models.Opportunity{ClientName: "Nome Guardado"}
		assert.Equal(t, "Nome Guardado", buildOpportunityView(o).ClientName)
	})

	t.Run("sem nenhum dos dois devolve vazio", func(t *testing.T) {
		view := buildOpportunityView(&models.Opportunity{})
		assert.Equal(t, "", view.ClientName)

		body, err := json.Marshal(view)
		require.NoError(t, err)
		assert.Contains(t, string(body), `"clientName":""`)
	})
}

func TestBuildTransactionViewClientName(t *testing.T) {
	tx := &models.Transaction{
		ClientName: "fallback",
		Client:     &models.Client{Name: "Cliente Atual"},
	}
	assert.Equal(t, "Cliente Atual", buildTransactionView(tx).ClientName)

	tx.Client = nil
	assert.Equal(t, "fallback", buildTransactionView(tx).ClientName)
}
