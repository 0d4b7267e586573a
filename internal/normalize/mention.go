package normalize

import (
	"strings"

	"github.com/AtivaInvest/crm-financeiro/internal/models"
)

// Mentions canonicaliza a lista de menções de uma nota de colaboração.
// Aceita array heterogêneo, string separada por vírgula ou valor falsy
// (lista vazia). Entradas que não rendem id, nome nem e-mail são descartadas.
func Mentions(v any) models.MentionList {
	out := models.MentionList{}

	var rawList []any
	switch t := v.(type) {
	case []any:
		rawList = t
	case string:
		for _, part := range strings.Split(t, ",") {
			rawList = append(rawList, strings.TrimSpace(part))
		}
	default:
		return out
	}

	for _, raw := range rawList {
		if m := MentionRecord(raw); m != nil {
			out = append(out, *m)
		}
	}
	return out
}

// MentionRecord canonicaliza uma única menção. Strings não vazias viram
// menção só com nome; objetos extraem id de (id | userId | value), nome de
// (name | fullName | label) e e-mail direto, nessa ordem de prioridade.
// Devolve nil quando a entrada não rende nada aproveitável.
func MentionRecord(raw any) *models.Mention {
	if raw == nil {
		return nil
	}

	if s, ok := raw.(string); ok {
		label := strings.TrimSpace(s)
		if label == "" {
			return nil
		}
		return &models.Mention{Name: &label}
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil
	}

	var id string
	for _, key := range []string{"id", "userId", "value"} {
		if v, present := obj[key]; present && v != nil {
			id = String(v)
			break
		}
	}

	var name string
	for _, key := range []string{"name", "fullName", "label"} {
		if s := TrimmedString(obj[key]); s != "" {
			name = s
			break
		}
	}

	email := TrimmedString(obj["email"])

	if id == "" && name == "" && email == "" {
		return nil
	}

	m := &models.Mention{}
	if id != "" {
		m.ID = &id
	}
	if name != "" {
		m.Name = &name
	}
	if email != "" {
		m.Email = &email
	}
	if role := truthyString(obj["role"]); role != "" {
		m.Role = &role
	}
	if avatar := truthyString(obj["avatar"]); avatar != "" {
		m.Avatar = &avatar
	}
	return m
}

// truthyString reproduz a coerção "valor truthy vira string, senão null".
func truthyString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case bool:
		if !t {
			return ""
		}
	case float64:
		if t == 0 {
			return ""
		}
	case string:
		if t == "" {
			return ""
		}
	}
	return String(v)
}
