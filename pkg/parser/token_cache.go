package parser

// TokenCache pulls tokens from a Tokenizer on demand and keeps them so the
// grammars can checkpoint and backtrack.
type TokenCache struct {
	tokenizer *Tokenizer // The tokenizer used to generate tokens
	tokens    []Token    // Tokens read so far
	current   int        // Current position in the token array
	maxTokens int        // Maximum number of tokens read before giving up
}

// NewTokenCache creates a token cache reading content from the beginning
func NewTokenCache(content string) *TokenCache {
	return &TokenCache{tokenizer: NewTokenizer(content), maxTokens: maxTokensLimit}
}

// newTokenCacheAt creates a token cache reading content from offset
func newTokenCacheAt(content string, offset, line int) *TokenCache {
	return &TokenCache{tokenizer: NewTokenizerAt(content, offset, line), maxTokens: maxTokensLimit}
}

// fill makes sure the token at index i has been read. Once maxTokens tokens
// have been read, an error token takes the place of everything after them.
func (tc *TokenCache) fill(i int) {
	for len(tc.tokens) <= i {
		n := len(tc.tokens)
		if n > 0 && (tc.tokens[n-1].Type == TokenEOF || tc.tokens[n-1].Type == TokenError && n > tc.maxTokens) {
			tc.tokens = append(tc.tokens, tc.tokens[n-1])
			continue
		}
		if n > 0 && n >= tc.maxTokens {
			last := tc.tokens[n-1]
			tc.tokens = append(tc.tokens, Token{
				Type:   TokenError,
				Value:  "too many tokens - possible infinite loop or memory exhaustion",
				Line:   last.Line,
				Column: last.Column,
				Offset: last.End(),
			})
			continue
		}
		tc.tokens = append(tc.tokens, tc.tokenizer.Next())
	}
}

// advance returns the current token and moves to the next
func (tc *TokenCache) advance() Token {
	token := tc.peek()
	if token.Type != TokenEOF {
		tc.current++
	}
	return token
}

// isAtEnd checks if we're at the end of tokens
func (tc *TokenCache) isAtEnd() bool {
	return tc.peek().Type == TokenEOF
}

// peek returns the current token without advancing
func (tc *TokenCache) peek() Token {
	tc.fill(tc.current)
	return tc.tokens[tc.current]
}

// check returns true if current token is of given type
func (tc *TokenCache) check(tokenType TokenType) bool {
	return tc.peek().Type == tokenType
}

// match consumes the current token if it has one of the given types
func (tc *TokenCache) match(types ...TokenType) bool {
	for _, tokenType := range types {
		if tc.check(tokenType) {
			tc.advance()
			return true
		}
	}
	return false
}

// expect skips trivia, then consumes a token of the given type
func (tc *TokenCache) expect(tokenType TokenType) (Token, bool) {
	tc.skipTrivia()
	if !tc.check(tokenType) {
		return tc.peek(), false
	}
	return tc.advance(), true
}

// skipTrivia skips whitespace, newlines and comments
func (tc *TokenCache) skipTrivia() {
	for tc.peek().IsTrivia() {
		tc.advance()
	}
}

// getCurrentPosition returns the current position in the token array
func (tc *TokenCache) getCurrentPosition() int {
	return tc.current
}

// setPosition sets the current position (for checkpointing)
func (tc *TokenCache) setPosition(position int) {
	if position < 0 {
		position = 0
	}
	tc.current = position
}
