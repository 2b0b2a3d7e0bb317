package model

import (
	"strconv"
	"strings"
)

// Strict integer parsers for user input boundaries. Each rejects blanks,
// fractional values and non-digits with a typed ValidationError, so that no
// truthiness or partial parsing ("12abc" → 12) reaches the core.

// ParsePrice parses a unit price: a whole number ≥ 1.
func ParsePrice(s string) (int64, error) {
	n, err := parseInt(s)
	if err != nil {
		return 0, Errorf(ErrInvalidPrice, "price %q is not a whole number", s)
	}
	if n < 1 {
		return 0, Errorf(ErrInvalidPrice, "price must be at least 1, got %d", n)
	}
	return n, nil
}

// ParseQuantity parses an absolute quantity: a whole number ≥ 0.
// Zero is accepted; setting a quantity of zero removes the line item.
func ParseQuantity(s string) (int64, error) {
	n, err := parseInt(s)
	if err != nil {
		return 0, Errorf(ErrInvalidQuantity, "quantity %q is not a whole number", s)
	}
	if n < 0 {
		return 0, Errorf(ErrInvalidQuantity, "quantity must not be negative, got %d", n)
	}
	return n, nil
}

// ParseDelta parses a signed quantity change.
func ParseDelta(s string) (int64, error) {
	n, err := parseInt(s)
	if err != nil {
		return 0, Errorf(ErrInvalidQuantity, "quantity change %q is not a whole number", s)
	}
	return n, nil
}

// ParsePosition parses a 1-based list position and returns the 0-based index.
func ParsePosition(s string) (int, error) {
	n, err := parseInt(s)
	if err != nil || n < 1 {
		return 0, Errorf(ErrInvalidNumber, "position %q must be a whole number ≥ 1", s)
	}
	return int(n - 1), nil
}

// ParseDays parses a retention window in days: a whole number ≥ 1.
func ParseDays(s string) (int, error) {
	n, err := parseInt(s)
	if err != nil || n < 1 {
		return 0, Errorf(ErrInvalidNumber, "days %q must be a whole number ≥ 1", s)
	}
	return int(n), nil
}

func parseInt(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}
