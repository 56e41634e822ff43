// Package utils provides small text helpers shared by the parsers
package utils

import "strings"

// IsValidIdentifier checks if a string is a valid C identifier
func IsValidIdentifier(name string) bool {
	if name == "" {
		return false
	}

	// Must start with letter or underscore
	if !isLetter(rune(name[0])) && name[0] != '_' {
		return false
	}

	// Rest must be letters, digits, or underscores
	for _, char := range name[1:] {
		if !isLetter(char) && !isDigit(char) && char != '_' {
			return false
		}
	}

	return true
}

// CollapseSpace replaces every run of whitespace with a single space and
// trims both ends.
func CollapseSpace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// isLetter checks if a rune is an ASCII letter
func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// isDigit checks if a rune is a digit
func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
