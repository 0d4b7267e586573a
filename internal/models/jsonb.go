package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSON guarda um documento livre enviado pelo cliente em coluna jsonb,
// sem validação profunda (perfil financeiro, endereço, lembretes, etc).
type JSON json.RawMessage

func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSON) Scan(value any) error {
	if value == nil {
		*j = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*j = append((*j)[0:0], v...)
	case string:
		*j = JSON(v)
	default:
		return fmt.Errorf("jsonb: tipo de origem não suportado: %T", value)
	}
	return nil
}

func (j JSON) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *JSON) UnmarshalJSON(data []byte) error {
	*j = append((*j)[0:0], data...)
	return nil
}

// StringList guarda um array de strings em coluna jsonb.
// Nunca serializa como null: lista vazia vira [].
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(value any) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("jsonb: tipo de origem não suportado: %T", value)
	}
	out := []string{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	*l = out
	return nil
}

func (l StringList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

// Mention é um registro canônico de menção em nota de colaboração.
type Mention struct {
	ID     *string `json:"id"`
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Role   *string `json:"role"`
	Avatar *string `json:"avatar"`
}

// MentionList guarda as menções normalizadas em coluna jsonb.
type MentionList []Mention

func (m MentionList) Value() (driver.Value, error) {
	if m == nil {
		m = MentionList{}
	}
	b, err := json.Marshal([]Mention(m))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *MentionList) Scan(value any) error {
	if value == nil {
		*m = MentionList{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("jsonb: tipo de origem não suportado: %T", value)
	}
	out := []Mention{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	*m = out
	return nil
}

func (m MentionList) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Mention(m))
}
