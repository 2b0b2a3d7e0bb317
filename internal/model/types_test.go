package model

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBillRecalculate(t *testing.T) {
	b := Bill{
		Items: []LineItem{
			{Name: "Latte", UnitPrice: 130, Quantity: 2},
			{Name: "Samosa", UnitPrice: 30, Quantity: 3},
		},
	}
	require.NoError(t, b.Recalculate())
	assert.Equal(t, int64(350), b.TotalAmount)

	b.Items = nil
	require.NoError(t, b.Recalculate())
	assert.Equal(t, int64(0), b.TotalAmount)
}

func TestBillRecalculate_Overflow(t *testing.T) {
	b := Bill{
		ID:          "BILL-1",
		Items:       []LineItem{{Name: "Espresso", UnitPrice: 80, Quantity: math.MaxInt64 / 40}},
		TotalAmount: 80,
	}
	err := b.Recalculate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Equal(t, int64(80), b.TotalAmount, "total untouched on overflow")
}

func TestCheckedSum(t *testing.T) {
	tests := []struct {
		name   string
		items  []LineItem
		want   int64
		wantOK bool
	}{
		{"empty", nil, 0, true},
		{"small", []LineItem{{UnitPrice: 80, Quantity: 2}, {UnitPrice: 30, Quantity: 3}}, 250, true},
		{"exact max", []LineItem{{UnitPrice: 1, Quantity: math.MaxInt64}}, math.MaxInt64, true},
		{"product overflows", []LineItem{{UnitPrice: 80, Quantity: math.MaxInt64 / 40}}, 0, false},
		{"sum overflows", []LineItem{{UnitPrice: 1, Quantity: math.MaxInt64}, {UnitPrice: 1, Quantity: 1}}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CheckedSum(tt.items)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAddQuantity(t *testing.T) {
	got, ok := AddQuantity(2, -3)
	assert.True(t, ok)
	assert.Equal(t, int64(-1), got)

	_, ok = AddQuantity(1, math.MaxInt64)
	assert.False(t, ok)

	_, ok = AddQuantity(-2, math.MinInt64)
	assert.False(t, ok)

	got, ok = AddQuantity(1, math.MinInt64)
	assert.True(t, ok)
	assert.Equal(t, int64(math.MinInt64+1), got)
}

func TestBillItemIndex(t *testing.T) {
	b := Bill{Items: []LineItem{{Name: "Latte"}, {Name: "Soup"}}}
	assert.Equal(t, 1, b.ItemIndex("Soup"))
	assert.Equal(t, -1, b.ItemIndex("Pizza Slice"))
}

func TestBillCloneIsDeep(t *testing.T) {
	done := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	orig := Bill{
		ID:          "BILL-1",
		Items:       []LineItem{{Name: "Latte", UnitPrice: 130, Quantity: 1}},
		CompletedAt: &done,
	}

	cp := orig.Clone()
	cp.Items[0].Quantity = 5
	*cp.CompletedAt = done.Add(time.Hour)

	assert.Equal(t, int64(1), orig.Items[0].Quantity)
	assert.Equal(t, done, *orig.CompletedAt)
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusCompleted.Valid())
	assert.False(t, Status("CANCELLED").Valid())
	assert.False(t, Status("").Valid())
}

func TestBillJSONFieldNames(t *testing.T) {
	created := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	b := Bill{
		ID:          "BILL-1714555800000",
		TableNo:     "4",
		Items:       []LineItem{{Name: "Espresso", UnitPrice: 80, Quantity: 2}},
		TotalAmount: 160,
		Status:      StatusPending,
		CreatedAt:   created,
	}

	data, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "BILL-1714555800000",
		"tableNo": "4",
		"items": [{"name": "Espresso", "price": 80, "quantity": 2}],
		"totalAmount": 160,
		"status": "PENDING",
		"createdAt": "2024-05-01T09:30:00Z"
	}`, string(data))

	var back Bill
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, b, back)
}
