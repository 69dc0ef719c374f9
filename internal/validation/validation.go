// Package validation checks operator input for the keywords API.
package validation

import (
	"strings"
	"time"
	"unicode"
)

// MaxKeywordLength bounds the search term; the API rejects longer queries
// anyway and extremely long terms are always operator mistakes.
const MaxKeywordLength = 200

// ValidateKeyword checks a search term. Search queries are free text
// (spaces and unicode are fine), but control characters and blank terms
// are rejected.
func ValidateKeyword(keyword string) (bool, string) {
	if strings.TrimSpace(keyword) == "" {
		return false, "keyword is required"
	}
	if len(keyword) > MaxKeywordLength {
		return false, "keyword is too long"
	}
	for _, r := range keyword {
		if unicode.IsControl(r) {
			return false, "keyword must not contain control characters"
		}
	}
	return true, ""
}

// NormalizeKeyword trims surrounding whitespace so equivalent terms
// compare equal.
func NormalizeKeyword(keyword string) string {
	return strings.TrimSpace(keyword)
}

// ValidateInterval checks a keyword's validity window.
func ValidateInterval(startsAt, endsAt time.Time) (bool, string) {
	if startsAt.IsZero() || endsAt.IsZero() {
		return false, "starts_at and ends_at are required"
	}
	if startsAt.After(endsAt) {
		return false, "starts_at must not be after ends_at"
	}
	return true, ""
}
