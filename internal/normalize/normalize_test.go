package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputHas(t *testing.T) {
	in := Input{"name": "Ana", "phone": nil}

	assert.True(t, in.Has("name"))
	assert.True(t, in.Has("phone")) // presente com null
	assert.False(t, in.Has("email"))
}

func TestString(t *testing.T) {
	assert.Equal(t, "Ana", String("Ana"))
	assert.Equal(t, "42", String(float64(42)))
	assert.Equal(t, "3.5", String(float64(3.5)))
	assert.Equal(t, "true", String(true))
	assert.Equal(t, "", String(nil))
	assert.Equal(t, "", String([]any{"x"}))
	assert.Equal(t, "", String(map[string]any{"a": 1}))
}

func TestRef(t *testing.T) {
	got := Ref("abc-123")
	require.NotNil(t, got)
	assert.Equal(t, "abc-123", *got)

	assert.Nil(t, Ref(nil))
	assert.Nil(t, Ref(""))
	assert.Nil(t, Ref("   "))
}

func TestNumber(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  float64
		ok    bool
	}{
		{"número json", float64(1500.5), 1500.5, true},
		{"zero", float64(0), 0, true},
		{"string numérica", "2500.75", 2500.75, true},
		{"string com espaços", " 10 ", 10, true},
		{"string não numérica", "abc", 0, false},
		{"null", nil, 0, false},
		{"booleano", true, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Number(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDate(t *testing.T) {
	t.Run("null e string vazia limpam o campo", func(t *testing.T) {
		got, err := Date(nil)
		require.NoError(t, err)
		assert.Nil(t, got)

		got, err = Date("")
		require.NoError(t, err)
		assert.Nil(t, got)

		got, err = Date("   ")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("ISO completo", func(t *testing.T) {
		got, err := Date("2026-03-15T10:30:00Z")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 2026, got.Year())
		assert.Equal(t, time.March, got.Month())
		assert.Equal(t, 15, got.Day())
	})

	t.Run("só a data", func(t *testing.T) {
		got, err := Date("2026-03-15")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 15, got.Day())
	})

	t.Run("epoch em milissegundos", func(t *testing.T) {
		ref := time.Date(2026, time.March, 15, 10, 30, 0, 0, time.UTC)
		got, err := Date(float64(ref.UnixMilli()))
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.True(t, got.Equal(ref))
	})

	t.Run("valor ininterpretável vira erro", func(t *testing.T) {
		_, err := Date("não é data")
		assert.ErrorIs(t, err, ErrInvalidDate)

		_, err = Date(true)
		assert.ErrorIs(t, err, ErrInvalidDate)
	})
}

func TestList(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  []string
	}{
		{
			"array com vazios e null",
			[]any{"a", " b ", "", nil},
			[]string{"a", "b"},
		},
		{
			"string separada por vírgula",
			"a, b ,,c",
			[]string{"a", "b", "c"},
		},
		{"null", nil, []string{}},
		{"número", float64(7), []string{}},
		{"array vazio", []any{}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := List(tt.input)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJSONValue(t *testing.T) {
	assert.Nil(t, JSONValue(nil))

	got := JSONValue(map[string]any{"rua": "Augusta"})
	assert.JSONEq(t, `{"rua":"Augusta"}`, string(got))

	got = JSONValue([]any{1, 2})
	assert.JSONEq(t, `[1,2]`, string(got))
}
