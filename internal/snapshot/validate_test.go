package snapshot

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cafebill/internal/model"
)

const validBill = `{"id": "BILL-1", "tableNo": "1", "items": [{"name": "Latte", "price": 130, "quantity": 1}], "totalAmount": 130, "status": "PENDING", "createdAt": "2024-05-01T09:00:00Z"}`

func TestDecode_Valid(t *testing.T) {
	payload := `{"bills": [` + validBill + `], "menu": {"coffee": []}, "tables": ["1"]}`

	snap, err := Decode([]byte(payload), FormatJSON)
	require.NoError(t, err)
	assert.Len(t, snap.Bills, 1)
	assert.Equal(t, []string{"coffee"}, snap.Menu.Keys())
}

func TestDecode_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", `{bills`},
		{"top-level array", `[]`},
		{"missing bills", `{"menu": {}, "tables": []}`},
		{"missing menu", `{"bills": [], "tables": []}`},
		{"missing tables", `{"bills": [], "menu": {}}`},
		{"null bills", `{"bills": null, "menu": {}, "tables": []}`},
		{"null menu", `{"bills": [], "menu": null, "tables": []}`},
		{"null tables", `{"bills": [], "menu": {}, "tables": null}`},
		{"zero product price", `{"bills": [], "menu": {"coffee": [{"name": "Latte", "price": 0}]}, "tables": []}`},
		{"fractional product price", `{"bills": [], "menu": {"coffee": [{"name": "Latte", "price": 1.5}]}, "tables": []}`},
		{"blank product name", `{"bills": [], "menu": {"coffee": [{"name": " ", "price": 10}]}, "tables": []}`},
		{"tables not strings", `{"bills": [], "menu": {}, "tables": [1, 2]}`},
		{"unknown status", `{"bills": [{"id": "B", "tableNo": "1", "items": [], "totalAmount": 0, "status": "OPEN"}], "menu": {}, "tables": []}`},
		{"zero quantity", `{"bills": [{"id": "B", "tableNo": "1", "items": [{"name": "Tea", "price": 20, "quantity": 0}], "totalAmount": 0, "status": "PENDING"}], "menu": {}, "tables": []}`},
		{"stale total", `{"bills": [{"id": "B", "tableNo": "1", "items": [{"name": "Tea", "price": 20, "quantity": 2}], "totalAmount": 20, "status": "PENDING"}], "menu": {}, "tables": []}`},
		{"duplicate bill id", `{"bills": [` + validBill + `,` + validBill + `], "menu": {}, "tables": []}`},
		{"duplicate line name", `{"bills": [{"id": "B", "tableNo": "1", "items": [{"name": "Tea", "price": 20, "quantity": 1}, {"name": "Tea", "price": 20, "quantity": 1}], "totalAmount": 40, "status": "PENDING"}], "menu": {}, "tables": []}`},
		{"duplicate table", `{"bills": [], "menu": {}, "tables": ["1", "1"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.payload), FormatJSON)
			require.Error(t, err)
			assert.True(t, errors.Is(err, model.ErrInvalidSnapshot), "got %v", err)
		})
	}
}

func TestDecode_YAMLRejects(t *testing.T) {
	_, err := Decode([]byte("bills: [\n"), FormatYAML)
	assert.True(t, model.IsKind(err, model.KindInvalidSnapshot))

	_, err = Decode([]byte("bills: []\nmenu: {}\n"), FormatYAML)
	assert.True(t, model.IsKind(err, model.KindInvalidSnapshot))
}

func TestDecode_YAMLKeepsCategoryOrder(t *testing.T) {
	payload := `
bills: []
menu:
  snacks:
    - {name: Samosa, price: 30}
  coffee:
    - {name: Latte, price: 130}
    - {name: Espresso, price: 80}
  desserts: []
tables: ["1", "2"]
`
	snap, err := Decode([]byte(payload), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, []string{"snacks", "coffee", "desserts"}, snap.Menu.Keys())

	coffee, ok := snap.Menu.Products("coffee")
	require.True(t, ok)
	assert.Equal(t, "Latte", coffee[0].Name)
}

func TestYAMLToJSON(t *testing.T) {
	out, err := yamlToJSON([]byte("b: 1\na: [x, null, true]\nprice: &p 80\nagain: *p\n"))
	require.NoError(t, err)
	assert.Equal(t, `{"b":1,"a":["x",null,true],"price":80,"again":80}`, string(out))

	for name, payload := range map[string]string{
		"duplicate key": "a: 1\na: 2\n",
		"merge key":     "base: &b {x: 1}\nother:\n  <<: *b\n",
		"sequence key":  "? [a]\n: 1\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := yamlToJSON([]byte(payload))
			assert.True(t, model.IsKind(err, model.KindInvalidSnapshot), "got %v", err)
		})
	}
}

func TestSchemaErrorReportsPath(t *testing.T) {
	err := ValidateJSON([]byte(`{"bills": [], "menu": {"coffee": [{"name": "Latte", "price": 0}]}, "tables": []}`))
	require.Error(t, err)

	var de *model.Error
	require.True(t, errors.As(err, &de))
	assert.Contains(t, de.Details["path"], "menu")
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatJSON, "json": FormatJSON, "yaml": FormatYAML, "yml": FormatYAML} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}
