package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
)

// FallbackSummary é devolvido quando o resumo não pôde ser gerado.
const FallbackSummary = "Não foi possível gerar o resumo."

const searchPromptTemplate = `
Você é um assistente de busca para um CRM financeiro. Sua tarefa é buscar clientes, oportunidades e tarefas com base na consulta do usuário.
O contexto de dados é fornecido como um objeto JSON. Você deve retornar uma lista de resultados em formato JSON.

Contexto:
%s

Consulta: "%s"

Retorne uma lista de resultados no seguinte formato JSON:
{
    "clients": [],
    "opportunities": [],
    "tasks": []
}

Se nenhum resultado for encontrado, retorne um objeto JSON vazio com as chaves "clients", "opportunities" e "tasks".
`

const summaryPromptTemplate = `
Você é um assistente de CRM financeiro. Sua tarefa é resumir um histórico de interações com um cliente.
O histórico é fornecido como um array de objetos JSON.
Retorne um resumo conciso em bullet points (formato markdown) destacando os pontos mais importantes, as últimas decisões e os próximos passos acordados.

Histórico de Interações:
%s

Resumo:
`

// SearchResult é a resposta de três chaves da busca assistida. Degraded
// indica o caminho de fallback (falha engolida, listas vazias).
type SearchResult struct {
	Clients       []json.RawMessage `json:"clients"`
	Opportunities []json.RawMessage `json:"opportunities"`
	Tasks         []json.RawMessage `json:"tasks"`

	Degraded bool `json:"-"`
}

// SummaryResult é a resposta do resumo de interações.
type SummaryResult struct {
	Summary string `json:"summary"`

	Degraded bool `json:"-"`
}

func emptySearchResult(degraded bool) SearchResult {
	return SearchResult{
		Clients:       []json.RawMessage{},
		Opportunities: []json.RawMessage{},
		Tasks:         []json.RawMessage{},
		Degraded:      degraded,
	}
}

// Search encaminha a consulta e o contexto para o modelo e interpreta a
// resposta como JSON de três chaves. Qualquer falha degrada para listas
// vazias; o erro fica só no log.
func (c *Client) Search(ctx context.Context, query string, searchContext any) SearchResult {
	contextJSON, err := json.Marshal(searchContext)
	if err != nil {
		log.Println("gemini search: contexto inválido:", err)
		return emptySearchResult(true)
	}

	prompt := searchPrompt(string(contextJSON), query)

	text, err := c.Generate(ctx, prompt)
	if err != nil {
		log.Println("gemini search:", err)
		return emptySearchResult(true)
	}

	var result SearchResult
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &result); err != nil {
		log.Println("gemini search: resposta não é JSON:", err)
		return emptySearchResult(true)
	}

	if result.Clients == nil {
		result.Clients = []json.RawMessage{}
	}
	if result.Opportunities == nil {
		result.Opportunities = []json.RawMessage{}
	}
	if result.Tasks == nil {
		result.Tasks = []json.RawMessage{}
	}
	return result
}

// Summarize pede um resumo em bullet points do histórico de interações.
// Falhas degradam para a mensagem fixa de fallback.
func (c *Client) Summarize(ctx context.Context, interactions []any) SummaryResult {
	historyJSON, err := json.MarshalIndent(interactions, "", "  ")
	if err != nil {
		log.Println("gemini summarize: histórico inválido:", err)
		return SummaryResult{Summary: FallbackSummary, Degraded: true}
	}

	prompt := summaryPrompt(string(historyJSON))

	text, err := c.Generate(ctx, prompt)
	if err != nil {
		log.Println("gemini summarize:", err)
		return SummaryResult{Summary: FallbackSummary, Degraded: true}
	}

	return SummaryResult{Summary: text}
}

func searchPrompt(contextJSON, query string) string {
	return fmt.Sprintf(searchPromptTemplate, contextJSON, query)
}

func summaryPrompt(historyJSON string) string {
	return fmt.Sprintf(summaryPromptTemplate, historyJSON)
}

// stripCodeFence remove cercas markdown que o modelo às vezes devolve em
// volta do JSON.
func stripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
