// Package textx provides small text utilities used across the project.
package textx

import (
	"strings"
	"unicode"
)

// SanitizeText removes control characters except tab/newline/CR and trims spaces.
func SanitizeText(s string) string {
	// strip control chars outside tab/newline/carriage return
	var b strings.Builder
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' || (r >= 32 && r != 127) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// Tokenize splits s into lowercase word tokens. A token is a maximal run of
// letters or digits, so accented words ("expérience", "à") stay intact.
func Tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// TokenSet returns the distinct tokens of s.
func TokenSet(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, tok := range Tokenize(s) {
		out[tok] = struct{}{}
	}
	return out
}

// NormalizeCompact lowercases s and strips whitespace, hyphens and slashes,
// collapsing notation variants like "CI/CD", "CI - CD" and "ci cd".
func NormalizeCompact(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsSpace(r), r == '-', r == '/':
			// dropped
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
