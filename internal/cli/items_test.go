package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cafebill/internal/catalog"
	"github.com/roach88/cafebill/internal/model"
)

func TestParseItemSpec(t *testing.T) {
	menu := catalog.DefaultMenu()

	tests := []struct {
		spec string
		want model.LineItem
	}{
		{"Espresso=80", model.LineItem{Name: "Espresso", UnitPrice: 80, Quantity: 1}},
		{"Flat White=150x2", model.LineItem{Name: "Flat White", UnitPrice: 150, Quantity: 2}},
		{"A=B=5", model.LineItem{Name: "A=B", UnitPrice: 5, Quantity: 1}},
		{"Tea/Lemon=45", model.LineItem{Name: "Tea/Lemon", UnitPrice: 45, Quantity: 1}},
		{"coffee/2", model.LineItem{Name: "Cappuccino", UnitPrice: 120, Quantity: 1}},
		{"Snacks/5x3", model.LineItem{Name: "Cookies", UnitPrice: 40, Quantity: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := parseItemSpec(tt.spec, menu)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseItemSpec_Errors(t *testing.T) {
	menu := catalog.DefaultMenu()

	tests := []struct {
		spec string
		code model.ErrorCode
	}{
		{"Espresso=", model.CodeInvalidPrice},
		{"Espresso=-3", model.CodeInvalidPrice},
		{"Espresso=80x", model.CodeInvalidQuantity},
		{"Espresso=80x0", model.CodeInvalidQuantity},
		{"coffee/0", model.CodeInvalidNumber},
		{"coffee/6", model.CodeItemIndexOutOfRange},
		{"drinks/1", model.CodeUnknownCategory},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			_, err := parseItemSpec(tt.spec, menu)
			var de *model.Error
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.code, de.Code)
		})
	}

	_, err := parseItemSpec("Espresso", menu)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
