package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMentionRecord(t *testing.T) {
	t.Run("string vira menção só com nome", func(t *testing.T) {
		m := MentionRecord("João Silva")
		require.NotNil(t, m)
		assert.Nil(t, m.ID)
		require.NotNil(t, m.Name)
		assert.Equal(t, "João Silva", *m.Name)
	})

	t.Run("string vazia é descartada", func(t *testing.T) {
		assert.Nil(t, MentionRecord(""))
		assert.Nil(t, MentionRecord("   "))
		assert.Nil(t, MentionRecord(nil))
	})

	t.Run("id vem da primeira chave presente", func(t *testing.T) {
		m := MentionRecord(map[string]any{"userId": "u-1", "value": "v-1"})
		require.NotNil(t, m)
		require.NotNil(t, m.ID)
		assert.Equal(t, "u-1", *m.ID)
	})

	t.Run("nome e e-mail sem id rendem id nulo", func(t *testing.T) {
		m := MentionRecord(map[string]any{"name": "Jane", "email": "j@x.com"})
		require.NotNil(t, m)
		assert.Nil(t, m.ID)
		require.NotNil(t, m.Name)
		assert.Equal(t, "Jane", *m.Name)
		require.NotNil(t, m.Email)
		assert.Equal(t, "j@x.com", *m.Email)
		assert.Nil(t, m.Role)
		assert.Nil(t, m.Avatar)
	})

	t.Run("só e-mail ainda é aproveitável", func(t *testing.T) {
		m := MentionRecord(map[string]any{"email": "ana@exemplo.com"})
		require.NotNil(t, m)
		assert.Nil(t, m.ID)
		require.NotNil(t, m.Email)
		assert.Equal(t, "ana@exemplo.com", *m.Email)
	})

	t.Run("nome segue a ordem name, fullName, label", func(t *testing.T) {
		m := MentionRecord(map[string]any{"fullName": "Ana Souza", "label": "ignorado"})
		require.NotNil(t, m)
		require.NotNil(t, m.Name)
		assert.Equal(t, "Ana Souza", *m.Name)
	})

	t.Run("objeto sem nada aproveitável é descartado", func(t *testing.T) {
		assert.Nil(t, MentionRecord(map[string]any{}))
		assert.Nil(t, MentionRecord(map[string]any{"name": "  ", "email": ""}))
	})

	t.Run("role e avatar só entram quando truthy", func(t *testing.T) {
		m := MentionRecord(map[string]any{
			"name":   "Ana",
			"role":   "assessor",
			"avatar": "",
		})
		require.NotNil(t, m)
		require.NotNil(t, m.Role)
		assert.Equal(t, "assessor", *m.Role)
		assert.Nil(t, m.Avatar)
	})
}

func TestMentions(t *testing.T) {
	t.Run("array heterogêneo", func(t *testing.T) {
		got := Mentions([]any{
			"Maria",
			map[string]any{"id": "u-2", "name": "Pedro"},
			map[string]any{},
			nil,
		})
		require.Len(t, got, 2)
		assert.Equal(t, "Maria", *got[0].Name)
		assert.Equal(t, "u-2", *got[1].ID)
	})

	t.Run("string separada por vírgula", func(t *testing.T) {
		got := Mentions("Ana, Pedro ,,")
		require.Len(t, got, 2)
		assert.Equal(t, "Ana", *got[0].Name)
		assert.Equal(t, "Pedro", *got[1].Name)
	})

	t.Run("valor falsy vira lista vazia", func(t *testing.T) {
		got := Mentions(nil)
		require.NotNil(t, got)
		assert.Len(t, got, 0)
	})
}
