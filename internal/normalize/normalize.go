// Package normalize converte corpos de requisição frouxamente tipados em
// valores canônicos prontos para persistência. Cada família de campo tem uma
// única função de canonicalização; a presença da chave no payload é sempre
// decidida pelo chamador via Input.Has (semântica undefined vs null).
package normalize

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/AtivaInvest/crm-financeiro/internal/models"
)

// ErrInvalidDate sinaliza valor de data que não pôde ser interpretado.
// Controllers transformam em 400, nunca em 500.
var ErrInvalidDate = errors.New("data inválida")

// Input é o corpo bruto da requisição (JSON decodificado em mapa).
type Input map[string]any

// Has distingue chave ausente (undefined) de chave presente com null.
func (in Input) Has(key string) bool {
	_, ok := in[key]
	return ok
}

// String devolve o valor como string (sem trim). Valores não textuais
// escalares são convertidos; null e tipos compostos viram "".
func String(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// TrimmedString devolve o valor textual com espaços aparados.
func TrimmedString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// Ref canonicaliza campos de referência opcionais (clientId, partnerId...):
// null ou string vazia limpam a relação (nil), valor não vazio é mantido
// como está, pendente de checagem de propriedade.
func Ref(v any) *string {
	s := strings.TrimSpace(String(v))
	if v == nil || s == "" {
		return nil
	}
	return &s
}

// Number coerce valores monetários/numéricos. Aceita número JSON ou string
// numérica; qualquer outra coisa (inclusive NaN) devolve ok=false e o
// chamador aplica o fallback do campo.
func Number(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return t, true
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Date canonicaliza campos de data. null e string vazia viram null explícito
// (limpa o campo); valor presente precisa ser interpretável, senão
// ErrInvalidDate. Números são aceitos como epoch em milissegundos.
func Date(v any) (*time.Time, error) {
	if v == nil {
		return nil, nil
	}
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil, nil
		}
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return &parsed, nil
			}
		}
		return nil, ErrInvalidDate
	case float64:
		parsed := time.UnixMilli(int64(t)).UTC()
		return &parsed, nil
	case json.Number:
		ms, err := t.Int64()
		if err != nil {
			return nil, ErrInvalidDate
		}
		parsed := time.UnixMilli(ms).UTC()
		return &parsed, nil
	default:
		return nil, ErrInvalidDate
	}
}

// List canonicaliza campos de lista de strings (guests, advisors,
// servicePreferences): aceita array (trim + descarta vazios), string
// separada por vírgula ou null (lista vazia). Nunca devolve nil.
func List(v any) []string {
	out := []string{}

	switch t := v.(type) {
	case []any:
		for _, item := range t {
			s := strings.TrimSpace(String(item))
			if s != "" {
				out = append(out, s)
			}
		}
	case string:
		for _, part := range strings.Split(t, ",") {
			s := strings.TrimSpace(part)
			if s != "" {
				out = append(out, s)
			}
		}
	}

	return out
}

// StringList é List com o tipo de coluna jsonb do modelo.
func StringList(v any) models.StringList {
	return models.StringList(List(v))
}

// JSONValue guarda blocos JSON livres como vieram (sem validação profunda).
// null vira NULL na coluna.
func JSONValue(v any) models.JSON {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return models.JSON(b)
}
