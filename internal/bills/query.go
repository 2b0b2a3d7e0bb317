package bills

import (
	"strings"

	"github.com/roach88/cafebill/internal/model"
)

// IndexOf returns the position of the bill with the given id, or -1.
func IndexOf(bills []model.Bill, id string) int {
	for i, b := range bills {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// FilterByStatus returns the bills with the given status, in order.
func FilterByStatus(bills []model.Bill, status model.Status) []model.Bill {
	out := []model.Bill{}
	for _, b := range bills {
		if b.Status == status {
			out = append(out, b)
		}
	}
	return out
}

// FilterBySearchTerm returns the bills whose id or table contains term,
// ignoring case and surrounding whitespace. A blank term matches every bill.
func FilterBySearchTerm(bills []model.Bill, term string) []model.Bill {
	needle := strings.ToLower(strings.TrimSpace(term))
	out := []model.Bill{}
	for _, b := range bills {
		if needle == "" ||
			strings.Contains(strings.ToLower(b.ID), needle) ||
			strings.Contains(strings.ToLower(b.TableNo), needle) {
			out = append(out, b)
		}
	}
	return out
}
