// Package parser - tokenizer for C declarations and test sources
package parser

import (
	"fmt"
	"strings"
)

// TokenType represents the type of a token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenError
	TokenWhitespace
	TokenNewline
	TokenLineComment  // //
	TokenBlockComment // /* */

	// Literals
	TokenIdentifier
	TokenKeyword
	TokenNumber
	TokenString
	TokenCharLiteral

	// Operators and punctuation
	TokenLeftParen    // (
	TokenRightParen   // )
	TokenLeftBrace    // {
	TokenRightBrace   // }
	TokenLeftBracket  // [
	TokenRightBracket // ]
	TokenSemicolon    // ;
	TokenColon        // :
	TokenComma        // ,
	TokenDot          // .
	TokenArrow        // ->
	TokenEquals       // =
	TokenDoubleEquals // ==
	TokenNotEquals    // !=
	TokenLess         // <
	TokenGreater      // >
	TokenLessEqual    // <=
	TokenGreaterEqual // >=
	TokenAmpersand    // &
	TokenDoubleAmp    // &&
	TokenPipe         // |
	TokenDoublePipe   // ||
	TokenCaret        // ^
	TokenTilde        // ~
	TokenExclamation  // !
	TokenQuestion     // ?
	TokenPlus         // +
	TokenMinus        // -
	TokenStar         // *
	TokenSlash        // /
	TokenPercent      // %
	TokenPlusPlus     // ++
	TokenMinusMinus   // --
	TokenLeftShift    // <<
	TokenRightShift   // >>
	TokenHash         // #
	TokenBackslash    // \
)

// Token represents a single token
type Token struct {
	Type   TokenType
	Value  string
	Line   int
	Column int
	Offset int
}

// End returns the byte offset just past the token.
func (t Token) End() int {
	return t.Offset + len(t.Value)
}

// IsTrivia reports whether the token carries no grammatical meaning.
func (t Token) IsTrivia() bool {
	switch t.Type {
	case TokenWhitespace, TokenNewline, TokenLineComment, TokenBlockComment:
		return true
	default:
		return false
	}
}

// IsWord reports whether the token is an identifier or a keyword.
func (t Token) IsWord() bool {
	return t.Type == TokenIdentifier || t.Type == TokenKeyword
}

// String returns a string representation of the token
func (t Token) String() string {
	switch t.Type {
	case TokenEOF:
		return "EOF"
	case TokenError:
		return fmt.Sprintf("ERROR:%s", t.Value)
	case TokenWhitespace:
		return "WHITESPACE"
	case TokenNewline:
		return "NEWLINE"
	case TokenLineComment:
		return fmt.Sprintf("LINE_COMMENT:%s", t.Value)
	case TokenBlockComment:
		return fmt.Sprintf("BLOCK_COMMENT:%s", t.Value)
	case TokenIdentifier:
		return fmt.Sprintf("IDENTIFIER:%s", t.Value)
	case TokenKeyword:
		return fmt.Sprintf("KEYWORD:%s", t.Value)
	case TokenNumber:
		return fmt.Sprintf("NUMBER:%s", t.Value)
	case TokenString:
		return fmt.Sprintf("STRING:%s", t.Value)
	case TokenCharLiteral:
		return fmt.Sprintf("CHAR:%s", t.Value)
	default:
		return fmt.Sprintf("%s:%s", tokenTypeNames[t.Type], t.Value)
	}
}

// tokenTypeNames maps token types to their names for debugging
var tokenTypeNames = map[TokenType]string{
	TokenLeftParen:    "LEFT_PAREN",
	TokenRightParen:   "RIGHT_PAREN",
	TokenLeftBrace:    "LEFT_BRACE",
	TokenRightBrace:   "RIGHT_BRACE",
	TokenLeftBracket:  "LEFT_BRACKET",
	TokenRightBracket: "RIGHT_BRACKET",
	TokenSemicolon:    "SEMICOLON",
	TokenColon:        "COLON",
	TokenComma:        "COMMA",
	TokenDot:          "DOT",
	TokenArrow:        "ARROW",
	TokenEquals:       "EQUALS",
	TokenDoubleEquals: "DOUBLE_EQUALS",
	TokenNotEquals:    "NOT_EQUALS",
	TokenLess:         "LESS",
	TokenGreater:      "GREATER",
	TokenLessEqual:    "LESS_EQUAL",
	TokenGreaterEqual: "GREATER_EQUAL",
	TokenAmpersand:    "AMPERSAND",
	TokenDoubleAmp:    "DOUBLE_AMP",
	TokenPipe:         "PIPE",
	TokenDoublePipe:   "DOUBLE_PIPE",
	TokenCaret:        "CARET",
	TokenTilde:        "TILDE",
	TokenExclamation:  "EXCLAMATION",
	TokenQuestion:     "QUESTION",
	TokenPlus:         "PLUS",
	TokenMinus:        "MINUS",
	TokenStar:         "STAR",
	TokenSlash:        "SLASH",
	TokenPercent:      "PERCENT",
	TokenPlusPlus:     "PLUS_PLUS",
	TokenMinusMinus:   "MINUS_MINUS",
	TokenLeftShift:    "LEFT_SHIFT",
	TokenRightShift:   "RIGHT_SHIFT",
	TokenHash:         "HASH",
	TokenBackslash:    "BACKSLASH",
}

// C89/C99 keywords. Anything else made of identifier characters is an identifier.
var keywords = map[string]bool{
	"auto": true, "break": true, "case": true, "char": true, "const": true,
	"continue": true, "default": true, "do": true, "double": true, "else": true,
	"enum": true, "extern": true, "float": true, "for": true, "goto": true,
	"if": true, "inline": true, "int": true, "long": true, "register": true,
	"restrict": true, "return": true, "short": true, "signed": true, "sizeof": true,
	"static": true, "struct": true, "switch": true, "typedef": true, "union": true,
	"unsigned": true, "void": true, "volatile": true, "while": true, "_Bool": true,
}

const (
	maxIdentifierLength = 1000
	maxNumberLength     = 100
	maxCommentLength    = 100000
	maxStringLength     = 100000
	maxTokensLimit      = 100000
)

// Tokenizer produces tokens on demand. It can start at any byte offset of the input,
// which is what the macro scanner relies on.
type Tokenizer struct {
	input     string
	pos       int // current position in input
	line      int // current line number
	column    int // current column number
	start     int // start position of current token
	startLine int
	startCol  int
	last      Token
}

// NewTokenizer creates a new tokenizer
func NewTokenizer(input string) *Tokenizer {
	return NewTokenizerAt(input, 0, 1)
}

// NewTokenizerAt creates a tokenizer that starts reading at offset. line is the
// line number of that offset and is only used for token positions.
func NewTokenizerAt(input string, offset, line int) *Tokenizer {
	var column int
	if nl := strings.LastIndexByte(input[:offset], '\n'); nl >= 0 {
		column = offset - nl
	} else {
		column = offset + 1
	}
	return &Tokenizer{
		input:  input,
		pos:    offset,
		line:   line,
		column: column,
	}
}

// next reads the next byte and advances position. The grammars only use ASCII,
// other bytes surface as error tokens.
func (t *Tokenizer) next() byte {
	if t.pos >= len(t.input) {
		return 0
	}

	b := t.input[t.pos]
	t.pos++

	if b == '\n' {
		t.line++
		t.column = 1
	} else {
		t.column++
	}

	return b
}

// peek returns the next byte without advancing position
func (t *Tokenizer) peek() byte {
	if t.pos >= len(t.input) {
		return 0
	}
	return t.input[t.pos]
}

// peekN returns the byte n positions ahead without advancing
func (t *Tokenizer) peekN(n int) byte {
	if t.pos+n >= len(t.input) {
		return 0
	}
	return t.input[t.pos+n]
}

// emit records the token spanning start..pos
func (t *Tokenizer) emit(tokenType TokenType) {
	t.last = Token{
		Type:   tokenType,
		Value:  t.input[t.start:t.pos],
		Line:   t.startLine,
		Column: t.startCol,
		Offset: t.start,
	}
}

// emitError records an error token carrying a message instead of source text
func (t *Tokenizer) emitError(message string) {
	t.last = Token{
		Type:   TokenError,
		Value:  message,
		Line:   t.startLine,
		Column: t.startCol,
		Offset: t.start,
	}
}

// Next scans and returns the next token. At end of input it keeps returning EOF.
func (t *Tokenizer) Next() Token {
	t.start = t.pos
	t.startLine = t.line
	t.startCol = t.column

	if t.pos >= len(t.input) {
		return Token{Type: TokenEOF, Line: t.line, Column: t.column, Offset: t.pos}
	}

	b := t.next()

	switch {
	case b == '\n':
		t.emit(TokenNewline)

	case isSpace(b):
		t.scanWhitespace()

	case b == '/':
		if !t.scanComment() {
			t.emit(TokenSlash)
		}

	case b == '"':
		t.scanQuoted('"', TokenString, "string literal")

	case b == '\'':
		t.scanQuoted('\'', TokenCharLiteral, "character literal")

	case isIdentStart(b):
		t.scanIdentifier()

	case isDigit(b):
		t.scanNumber()

	default:
		t.scanOperator(b)
	}

	return t.last
}

// scanWhitespace scans whitespace characters other than newlines
func (t *Tokenizer) scanWhitespace() {
	for {
		b := t.peek()
		if !isSpace(b) || b == '\n' {
			break
		}
		t.next()
	}
	t.emit(TokenWhitespace)
}

// scanComment scans comments and returns true if a comment was found
func (t *Tokenizer) scanComment() bool {
	// We've already consumed one '/'
	switch t.peek() {
	case '/':
		t.next()
		count := 0
		for {
			b := t.peek()
			if b == '\n' || b == 0 {
				break
			}
			count++
			if count > maxCommentLength {
				t.emitError("comment too long - possible infinite loop")
				return true
			}
			t.next()
		}
		t.emit(TokenLineComment)
		return true

	case '*':
		t.next()
		count := 0
		for {
			b := t.next()
			count++
			if count > maxCommentLength {
				t.emitError("block comment too long - possible infinite loop")
				return true
			}
			if b == 0 {
				t.emitError("unterminated block comment")
				return true
			}
			if b == '*' && t.peek() == '/' {
				t.next()
				break
			}
		}
		t.emit(TokenBlockComment)
		return true
	}

	return false
}

// scanQuoted scans a string or character literal
func (t *Tokenizer) scanQuoted(quote byte, tokenType TokenType, what string) {
	count := 0
	for {
		b := t.next()
		count++
		if count > maxStringLength {
			t.emitError(what + " too long - possible infinite loop")
			return
		}
		if b == 0 || b == '\n' {
			t.emitError("unterminated " + what)
			return
		}
		if b == quote {
			break
		}
		if b == '\\' {
			if t.next() == 0 {
				t.emitError("unterminated " + what + " - EOF after escape")
				return
			}
			count++
		}
	}
	t.emit(tokenType)
}

// scanIdentifier scans an identifier or keyword
func (t *Tokenizer) scanIdentifier() {
	count := 0
	for isIdentChar(t.peek()) {
		count++
		if count > maxIdentifierLength {
			t.emitError("identifier too long - possible infinite loop")
			return
		}
		t.next()
	}

	if keywords[t.input[t.start:t.pos]] {
		t.emit(TokenKeyword)
	} else {
		t.emit(TokenIdentifier)
	}
}

// scanNumber scans a decimal literal: digits, an optional fraction and an
// optional exponent. An 'e' that is not followed by digits is left for the next token.
func (t *Tokenizer) scanNumber() {
	for isDigit(t.peek()) {
		t.next()
	}

	if t.peek() == '.' {
		t.next()
		for isDigit(t.peek()) {
			t.next()
		}
	}

	if b := t.peek(); b == 'e' || b == 'E' {
		n := 1
		if s := t.peekN(1); s == '+' || s == '-' {
			n = 2
		}
		if isDigit(t.peekN(n)) {
			for i := 0; i < n; i++ {
				t.next()
			}
			for isDigit(t.peek()) {
				t.next()
			}
		}
	}

	if t.pos-t.start > maxNumberLength {
		t.emitError("number too long - possible infinite loop")
		return
	}
	t.emit(TokenNumber)
}

// scanOperator scans operators and punctuation
func (t *Tokenizer) scanOperator(b byte) {
	switch b {
	case '(':
		t.emit(TokenLeftParen)
	case ')':
		t.emit(TokenRightParen)
	case '{':
		t.emit(TokenLeftBrace)
	case '}':
		t.emit(TokenRightBrace)
	case '[':
		t.emit(TokenLeftBracket)
	case ']':
		t.emit(TokenRightBracket)
	case ';':
		t.emit(TokenSemicolon)
	case ',':
		t.emit(TokenComma)
	case ':':
		t.emit(TokenColon)
	case '.':
		t.emit(TokenDot)
	case '\\':
		t.emit(TokenBackslash)
	case '?':
		t.emit(TokenQuestion)
	case '~':
		t.emit(TokenTilde)
	case '^':
		t.emit(TokenCaret)
	case '%':
		t.emit(TokenPercent)
	case '#':
		t.emit(TokenHash)

	case '=':
		t.pair('=', TokenDoubleEquals, TokenEquals)
	case '!':
		t.pair('=', TokenNotEquals, TokenExclamation)
	case '&':
		t.pair('&', TokenDoubleAmp, TokenAmpersand)
	case '|':
		t.pair('|', TokenDoublePipe, TokenPipe)
	case '*':
		t.emit(TokenStar)
	case '+':
		t.pair('+', TokenPlusPlus, TokenPlus)

	case '<':
		switch t.peek() {
		case '=':
			t.next()
			t.emit(TokenLessEqual)
		case '<':
			t.next()
			t.emit(TokenLeftShift)
		default:
			t.emit(TokenLess)
		}

	case '>':
		switch t.peek() {
		case '=':
			t.next()
			t.emit(TokenGreaterEqual)
		case '>':
			t.next()
			t.emit(TokenRightShift)
		default:
			t.emit(TokenGreater)
		}

	case '-':
		switch t.peek() {
		case '-':
			t.next()
			t.emit(TokenMinusMinus)
		case '>':
			t.next()
			t.emit(TokenArrow)
		default:
			t.emit(TokenMinus)
		}

	default:
		t.emitError(fmt.Sprintf("unexpected character: %q", b))
	}
}

// pair emits double when the next byte is second, single otherwise
func (t *Tokenizer) pair(second byte, double, single TokenType) {
	if t.peek() == second {
		t.next()
		t.emit(double)
		return
	}
	t.emit(single)
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\v' || b == '\f'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentChar(b byte) bool {
	return isIdentStart(b) || isDigit(b)
}
