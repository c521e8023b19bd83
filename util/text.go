package util

import (
	"strings"
	"unicode"
)

// SanitizeString trims s and drops control characters, including embedded
// tabs and newlines.
func SanitizeString(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

// NormalizeEmail sanitizes and lower-cases an address so lookups and the
// uniqueness check are case-insensitive.
func NormalizeEmail(s string) string {
	return strings.ToLower(SanitizeString(s))
}

// SanitizeOptional sanitizes an optional string field. A nil pointer, or one
// that is blank once sanitized, yields nil so the field is treated as absent.
func SanitizeOptional(p *string) *string {
	v := SanitizeString(Deref(p))
	if v == "" {
		return nil
	}
	return &v
}
