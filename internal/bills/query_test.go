package bills

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/cafebill/internal/model"
)

func TestFilterBySearchTerm(t *testing.T) {
	bills := []model.Bill{
		{ID: "BILL-1715000000001", TableNo: "4"},
		{ID: "BILL-1715000000002", TableNo: "14"},
		{ID: "BILL-1715000000003", TableNo: "Patio"},
	}

	tests := []struct {
		name string
		term string
		want int
	}{
		{"empty matches all", "", 3},
		{"blank matches all", "   ", 3},
		{"table substring", "4", 2},
		{"id suffix", "0003", 1},
		{"case insensitive id", "bill-1715000000002", 1},
		{"case insensitive table", "PATIO", 1},
		{"trimmed", "  patio  ", 1},
		{"no match", "terrace", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterBySearchTerm(bills, tt.term)
			assert.Len(t, got, tt.want)
			assert.NotNil(t, got)
		})
	}
}

func TestFilterByStatus(t *testing.T) {
	bills := []model.Bill{
		{ID: "a", Status: model.StatusPending},
		{ID: "b", Status: model.StatusCompleted},
		{ID: "c", Status: model.StatusPending},
	}

	got := FilterByStatus(bills, model.StatusPending)
	assert.Equal(t, []string{"a", "c"}, []string{got[0].ID, got[1].ID})
	assert.Empty(t, FilterByStatus(nil, model.StatusCompleted))
}

func TestIndexOf(t *testing.T) {
	bills := []model.Bill{{ID: "a"}, {ID: "b"}}
	assert.Equal(t, 1, IndexOf(bills, "b"))
	assert.Equal(t, -1, IndexOf(bills, "z"))
}
