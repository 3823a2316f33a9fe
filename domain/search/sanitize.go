package search

import (
	"strings"
	"unicode"
)

// Sanitize trims surrounding whitespace and NUL bytes from a raw query.
// LIKE wildcards and boolean-mode operators are passed through untouched.
func Sanitize(raw string) string {
	return strings.TrimFunc(raw, func(r rune) bool {
		return unicode.IsSpace(r) || r == 0
	})
}

// Terms splits a sanitized query on single spaces. Empty terms left by
// consecutive spaces are dropped, so "a  b" yields ["a", "b"] and an empty
// query yields no terms.
func Terms(query string) []string {
	parts := strings.Split(query, " ")
	terms := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			terms = append(terms, p)
		}
	}
	return terms
}
