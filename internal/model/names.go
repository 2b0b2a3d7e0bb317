package model

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// NormalizeName trims surrounding whitespace and NFC-normalizes s.
// Product names, table identifiers and line item names all pass through it
// so that visually identical names compare equal.
func NormalizeName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// CategoryKey derives the storage key for a category display name:
// lower case, with all whitespace removed.
//
//	CategoryKey("Hot Drinks") // "hotdrinks"
func CategoryKey(name string) string {
	lowered := cases.Lower(language.Und).String(NormalizeName(name))
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, lowered)
}

// CategoryTitle is the display form of a category key: first letter upper
// cased, as the menu screens show it.
func CategoryTitle(key string) string {
	if key == "" {
		return ""
	}
	r := []rune(key)
	return cases.Title(language.Und).String(string(r[:1])) + string(r[1:])
}
