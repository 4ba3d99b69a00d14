package utils

import (
	"strings"
	"unicode/utf8"
)

// NormalizeName trims a full name and collapses inner runs of whitespace
func NormalizeName(fullName string) string {
	return strings.Join(strings.Fields(fullName), " ")
}

// NormalizeEmail trims and lower-cases an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// MaskName masks a full name for logging (e.g., "João Silva Santos" -> "João S**** Santos").
// Single names keep only their first letter.
func MaskName(fullName string) string {
	parts := strings.Fields(fullName)
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return maskWord(parts[0])
	}

	masked := make([]string, 0, len(parts))
	masked = append(masked, parts[0])
	for _, part := range parts[1 : len(parts)-1] {
		masked = append(masked, maskWord(part))
	}
	last := parts[len(parts)-1]
	if len(parts) == 2 {
		last = maskWord(last)
	}
	return strings.Join(append(masked, last), " ")
}

// maskWord keeps the first rune of word
func maskWord(word string) string {
	n := utf8.RuneCountInString(word)
	if n <= 1 {
		return word
	}
	first, _ := utf8.DecodeRuneInString(word)
	return string(first) + strings.Repeat("*", n-1)
}
