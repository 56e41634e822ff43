package parser

import "fmt"

// SyntaxError reports where a declaration or expression stopped matching its grammar.
type SyntaxError struct {
	Message string
	Input   string
	Offset  int
	Line    int
	Column  int
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s in %q", e.Line, e.Column, e.Message, e.Input)
}

func syntaxErrorAt(input string, tok Token, format string, args ...any) *SyntaxError {
	var found string
	switch tok.Type {
	case TokenEOF:
		found = "end of input"
	case TokenError:
		found = tok.Value
	default:
		found = fmt.Sprintf("%q", tok.Value)
	}
	return &SyntaxError{
		Message: fmt.Sprintf(format, args...) + ", found " + found,
		Input:   input,
		Offset:  tok.Offset,
		Line:    tok.Line,
		Column:  tok.Column,
	}
}
