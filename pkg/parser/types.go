package parser

import (
	"sort"
	"strings"
)

// BasicTypes lists the C basic-type phrases the type grammar recognizes.
var BasicTypes = []string{
	"void",
	"_Bool",
	"char",
	"signed char",
	"unsigned char",
	"short",
	"short int",
	"signed short",
	"signed short int",
	"unsigned short",
	"unsigned short int",
	"int",
	"signed",
	"signed int",
	"unsigned",
	"unsigned int",
	"long",
	"long int",
	"signed long",
	"signed long int",
	"unsigned long",
	"unsigned long int",
	"long long",
	"long long int",
	"signed long long",
	"signed long long int",
	"unsigned long long",
	"unsigned long long int",
	"float",
	"double",
	"long double",
}

// basicTypePhrases holds BasicTypes split into words, in reverse lexicographic
// order. Every phrase sorts after its own prefixes, so reversing puts
// "unsigned long long int" ahead of "unsigned long long" ahead of "unsigned".
var basicTypePhrases = func() [][]string {
	sorted := append([]string(nil), BasicTypes...)
	sort.Sort(sort.Reverse(sort.StringSlice(sorted)))

	phrases := make([][]string, len(sorted))
	for i, phrase := range sorted {
		phrases[i] = strings.Fields(phrase)
	}
	return phrases
}()

// matchBasicType tries each phrase in order and consumes the first that matches.
func (tc *TokenCache) matchBasicType() ([]string, bool) {
	start := tc.getCurrentPosition()

	for _, words := range basicTypePhrases {
		if tc.matchWords(words) {
			return words, true
		}
		tc.setPosition(start)
	}
	return nil, false
}

// matchWords consumes the given words, allowing trivia between them
func (tc *TokenCache) matchWords(words []string) bool {
	for i, word := range words {
		if i > 0 {
			tc.skipTrivia()
		}
		token := tc.peek()
		if !token.IsWord() || token.Value != word {
			return false
		}
		tc.advance()
	}
	return true
}

// parseTypeTokens parses: ["const"] (basic-type phrase | identifier) {"*"}.
func (tc *TokenCache) parseTypeTokens() ([]string, bool) {
	var parts []string

	tc.skipTrivia()
	if token := tc.peek(); token.Type == TokenKeyword && token.Value == "const" {
		parts = append(parts, tc.advance().Value)
		tc.skipTrivia()
	}

	if words, ok := tc.matchBasicType(); ok {
		parts = append(parts, words...)
	} else if tc.check(TokenIdentifier) {
		parts = append(parts, tc.advance().Value)
	} else {
		return nil, false
	}

	for {
		checkpoint := tc.getCurrentPosition()
		tc.skipTrivia()
		if !tc.match(TokenStar) {
			tc.setPosition(checkpoint)
			break
		}
		parts = append(parts, "*")
	}

	return parts, true
}

// ParseType parses a standalone C type such as "const unsigned long int * *".
// The result joins every matched token with a single space.
func ParseType(text string) (string, error) {
	tc := NewTokenCache(text)

	parts, ok := tc.parseTypeTokens()
	if !ok {
		tc.skipTrivia()
		return "", syntaxErrorAt(text, tc.peek(), "expected type")
	}

	if err := expectEnd(text, tc); err != nil {
		return "", err
	}
	return strings.Join(parts, " "), nil
}

// expectEnd fails unless only trivia remains
func expectEnd(text string, tc *TokenCache) error {
	tc.skipTrivia()
	if !tc.isAtEnd() {
		return syntaxErrorAt(text, tc.peek(), "unexpected trailing input")
	}
	return nil
}
