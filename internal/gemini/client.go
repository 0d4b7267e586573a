// Package gemini fala com a API de linguagem generativa (generateContent).
// As duas operações do CRM (busca assistida e resumo de interações) nunca
// propagam falha para o chamador: degradam para um payload de fallback e o
// resultado tipado marca o caminho degradado.
package gemini

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/AtivaInvest/crm-financeiro/internal/config"
)

const cacheTTL = 10 * time.Minute

var errMissingAPIKey = errors.New("gemini: GEMINI_API_KEY não configurada")

type Client struct {
	httpClient *http.Client
	apiKey     string
	model      string
	baseURL    string

	// cache opcional de respostas (nil quando REDIS_URL não está definida)
	cache *redis.Client
}

func New(cfg *config.Config, cache *redis.Client) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		apiKey:     cfg.GeminiAPIKey,
		model:      cfg.GeminiModel,
		baseURL:    cfg.GeminiBaseURL,
		cache:      cache,
	}
}

// ---------- wire types (generateContent) ----------

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate envia um prompt e devolve o texto bruto do primeiro candidato.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", errMissingAPIKey
	}

	if cached, ok := c.cacheGet(ctx, prompt); ok {
		return cached, nil
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf(
		"%s/v1beta/models/%s:generateContent?key=%s",
		c.baseURL, c.model, c.apiKey,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		if out.Error != nil {
			return "", fmt.Errorf("gemini: %s (status %d)", out.Error.Message, resp.StatusCode)
		}
		return "", fmt.Errorf("gemini: status %d", resp.StatusCode)
	}

	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("gemini: resposta sem candidatos")
	}

	text := out.Candidates[0].Content.Parts[0].Text
	c.cacheSet(ctx, prompt, text)
	return text, nil
}

// ---------- cache ----------

func cacheKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return "gemini:" + hex.EncodeToString(sum[:])
}

func (c *Client) cacheGet(ctx context.Context, prompt string) (string, bool) {
	if c.cache == nil {
		return "", false
	}
	val, err := c.cache.Get(ctx, cacheKey(prompt)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Println("gemini cache get:", err)
		}
		return "", false
	}
	return val, true
}

func (c *Client) cacheSet(ctx context.Context, prompt, text string) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Set(ctx, cacheKey(prompt), text, cacheTTL).Err(); err != nil {
		log.Println("gemini cache set:", err)
	}
}
