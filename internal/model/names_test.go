package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "Latte", NormalizeName("  Latte \t"))
	// Decomposed é becomes the precomposed form.
	assert.Equal(t, "Caf\u00e9", NormalizeName("Cafe\u0301"))
	assert.Equal(t, "", NormalizeName("   "))
}

func TestCategoryKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Coffee", "coffee"},
		{"Hot Drinks", "hotdrinks"},
		{"  Cold\tBrew  ", "coldbrew"},
		{"MEALS", "meals"},
		{"   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CategoryKey(tt.in))
		})
	}
}

func TestCategoryTitle(t *testing.T) {
	assert.Equal(t, "Coffee", CategoryTitle("coffee"))
	assert.Equal(t, "", CategoryTitle(""))
}
