package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtivaInvest/crm-financeiro/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return New(&config.Config{
		GeminiAPIKey:  "test-key",
		GeminiModel:   "gemini-pro",
		GeminiBaseURL: server.URL,
	}, nil)
}

func candidateResponse(text string) []byte {
	body, _ := json.Marshal(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]string{{"text": text}}}},
		},
	})
	return body
}

func TestGenerate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "gemini-pro:generateContent")
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Write(candidateResponse("olá"))
	})

	text, err := client.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "olá", text)
}

func TestGenerateWithoutAPIKey(t *testing.T) {
	client := New(&config.Config{}, nil)

	_, err := client.Generate(context.Background(), "prompt")
	assert.Error(t, err)
}

func TestGenerateUpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"code":429,"message":"quota"}}`))
	})

	_, err := client.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota")
}

func TestSearchParsesThreeKeys(t *testing.T) {
	payload := `{"clients":[{"id":"c-1"}],"opportunities":[],"tasks":[{"id":"t-1"}]}`
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(candidateResponse(payload))
	})

	result := client.Search(context.Background(), "previdência", map[string]any{"clients": []any{}})

	assert.False(t, result.Degraded)
	assert.Len(t, result.Clients, 1)
	assert.Len(t, result.Opportunities, 0)
	assert.Len(t, result.Tasks, 1)
}

func TestSearchStripsCodeFence(t *testing.T) {
	payload := "```json\n{\"clients\":[],\"opportunities\":[],\"tasks\":[]}\n```"
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(candidateResponse(payload))
	})

	result := client.Search(context.Background(), "x", map[string]any{})

	assert.False(t, result.Degraded)
	require.NotNil(t, result.Clients)
	require.NotNil(t, result.Opportunities)
	require.NotNil(t, result.Tasks)
}

func TestSearchDegradesOnInvalidJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(candidateResponse("isto não é JSON"))
	})

	result := client.Search(context.Background(), "x", map[string]any{})

	assert.True(t, result.Degraded)
	assert.Len(t, result.Clients, 0)
	assert.Len(t, result.Opportunities, 0)
	assert.Len(t, result.Tasks, 0)

	// mesmo degradado, o corpo serializado mantém as três chaves como arrays
	body, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{"clients":[],"opportunities":[],"tasks":[]}`, string(body))
}

func TestSummarize(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(candidateResponse("- cliente pediu proposta"))
	})

	result := client.Summarize(context.Background(), []any{map[string]any{"type": "Reunião"}})

	assert.False(t, result.Degraded)
	assert.Equal(t, "- cliente pediu proposta", result.Summary)
}

func TestSummarizeFallback(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{}`))
	})

	result := client.Summarize(context.Background(), []any{})

	assert.True(t, result.Degraded)
	assert.Equal(t, FallbackSummary, result.Summary)
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence(`{"a":1}`))
}
