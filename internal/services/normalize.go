package services

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// normalizeName trims surrounding whitespace and NFC-normalizes
// user-supplied names so that visually identical strings hit the same
// uniqueness constraints regardless of how the client composed them.
func normalizeName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// normalizeNamePtr applies normalizeName through an optional value.
func normalizeNamePtr(s *string) *string {
	if s == nil {
		return nil
	}
	n := normalizeName(*s)
	return &n
}
