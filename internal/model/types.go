package model

import (
	"math"
	"time"
)

// Status is the lifecycle state of a bill.
type Status string

const (
	// StatusPending is the initial state of every bill. Items may be edited.
	StatusPending Status = "PENDING"

	// StatusCompleted is terminal. Items, total and table are frozen.
	StatusCompleted Status = "COMPLETED"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

// Product is a purchasable menu entry.
type Product struct {
	Name  string `json:"name" yaml:"name"`
	Price int64  `json:"price" yaml:"price"`
}

// LineItem is one named product entry within a bill.
// Names are unique within a bill; Quantity is always > 0 once persisted.
type LineItem struct {
	Name      string `json:"name" yaml:"name"`
	UnitPrice int64  `json:"price" yaml:"price"`
	Quantity  int64  `json:"quantity" yaml:"quantity"`
}

// Subtotal returns UnitPrice × Quantity.
func (li LineItem) Subtotal() int64 {
	return li.UnitPrice * li.Quantity
}

// AddQuantity returns q+delta, or false if the sum does not fit in an int64.
func AddQuantity(q, delta int64) (int64, bool) {
	if (delta > 0 && q > math.MaxInt64-delta) || (delta < 0 && q < math.MinInt64-delta) {
		return 0, false
	}
	return q + delta, true
}

// Bill is one customer order record.
type Bill struct {
	// ID is assigned once at creation and never changes.
	ID string `json:"id" yaml:"id"`

	// TableNo identifies the table the bill belongs to.
	TableNo string `json:"tableNo" yaml:"tableNo"`

	// Items are the line items in display order.
	Items []LineItem `json:"items" yaml:"items"`

	// TotalAmount is the cached Σ(UnitPrice × Quantity) over Items.
	TotalAmount int64 `json:"totalAmount" yaml:"totalAmount"`

	Status Status `json:"status" yaml:"status"`

	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`

	// CompletedAt is set exactly once, on PENDING → COMPLETED.
	CompletedAt *time.Time `json:"completedAt,omitempty" yaml:"completedAt,omitempty"`
}

// IsPending reports whether the bill may still be edited.
func (b Bill) IsPending() bool {
	return b.Status == StatusPending
}

// IsCompleted reports whether the bill reached its terminal state.
func (b Bill) IsCompleted() bool {
	return b.Status == StatusCompleted
}

// Recalculate recomputes TotalAmount from Items. It fails with
// InvalidQuantity, leaving TotalAmount untouched, when the total does not
// fit in an int64.
func (b *Bill) Recalculate() error {
	total, ok := CheckedSum(b.Items)
	if !ok {
		return Errorf(ErrInvalidQuantity, "bill %q: total exceeds the largest representable amount", b.ID).
			WithDetail("bill_id", b.ID)
	}
	b.TotalAmount = total
	return nil
}

// ItemIndex returns the index of the line item with the given name, or -1.
func (b Bill) ItemIndex(name string) int {
	for i, item := range b.Items {
		if item.Name == name {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the bill.
func (b Bill) Clone() Bill {
	out := b
	out.Items = make([]LineItem, len(b.Items))
	copy(out.Items, b.Items)
	if b.CompletedAt != nil {
		t := *b.CompletedAt
		out.CompletedAt = &t
	}
	return out
}

// SumItems returns Σ(UnitPrice × Quantity).
func SumItems(items []LineItem) int64 {
	var total int64
	for _, item := range items {
		total += item.Subtotal()
	}
	return total
}

// CheckedSum is SumItems with overflow detection. Prices and quantities
// must be positive; ok is false if any product or the running total
// overflows int64.
func CheckedSum(items []LineItem) (total int64, ok bool) {
	for _, item := range items {
		if item.UnitPrice > 0 && item.Quantity > math.MaxInt64/item.UnitPrice {
			return 0, false
		}
		if total, ok = AddQuantity(total, item.Subtotal()); !ok {
			return 0, false
		}
	}
	return total, true
}

// CloneBills deep-copies a bill collection.
func CloneBills(bills []Bill) []Bill {
	out := make([]Bill, len(bills))
	for i, b := range bills {
		out[i] = b.Clone()
	}
	return out
}
