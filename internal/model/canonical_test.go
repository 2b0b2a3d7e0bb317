package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", "hello", `"hello"`},
		{"int", int64(42), "42"},
		{"negative int", -100, "-100"},
		{"bool", true, "true"},
		{"null", nil, "null"},
		{"empty array", []any{}, "[]"},
		{"sorted keys", map[string]any{"zebra": 1, "alpha": 2}, `{"alpha":2,"zebra":1}`},
		{"nested", map[string]any{"z": map[string]any{"b": 1, "a": 2}, "a": 3}, `{"a":3,"z":{"a":2,"b":1}}`},
		{"no html escape", "<a&b>", `"<a&b>"`},
		{"nfc", "Cafe\u0301", "\"Caf\u00e9\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonicalStruct(t *testing.T) {
	result, err := MarshalCanonical(LineItem{Name: "Latte", UnitPrice: 130, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Latte","price":130,"quantity":2}`, string(result))
}

func TestMarshalCanonicalRejectsFractions(t *testing.T) {
	_, err := MarshalCanonical(map[string]any{"price": 1.5})
	assert.Error(t, err)
}

func TestMarshalCanonicalUTF16Ordering(t *testing.T) {
	obj := map[string]any{
		"\uE000":     1,
		"\U00010000": 2,
	}
	result, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, "{\"\U00010000\":2,\"\uE000\":1}", string(result))
}

func TestMarshalCanonicalLineSeparators(t *testing.T) {
	result, err := MarshalCanonical("a\u2028b\u2029c")
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\u2029c\"", string(result))

	// A literal backslash followed by u2028 text stays escaped.
	result, err = MarshalCanonical(`\u2028`)
	require.NoError(t, err)
	assert.Equal(t, `"\\u2028"`, string(result))
}
