package parser

import (
	"strings"

	"sfgen/pkg/ast"
)

// exprParser implements the restricted expression grammar used inside test macros.
// Every rule is an ordered choice: on failure it restores the position it started
// from and reports false, so the caller can try the next alternative.
//
//	expr           = additive | multiplicative | primary
//	additive       = operand ("+" | "-") operand
//	operand        = multiplicative | primary
//	multiplicative = primary ("*" | "/") primary
//	primary        = call | "&" expr | "(" expr ")" | tuple | identifier | number
//	call           = identifier "(" [expr {"," expr}] ")"
//	tuple          = "(" [expr {"," expr}] ")"
type exprParser struct {
	*TokenCache
	primaries map[int]primaryResult
}

// primaryResult memoizes parsePrimary per start position. The ordered choices
// re-parse the same primary several times, which is exponential in the nesting
// depth without it.
type primaryResult struct {
	expr ast.Expr
	end  int
	ok   bool
}

func newExprParser(tc *TokenCache) *exprParser {
	return &exprParser{TokenCache: tc, primaries: make(map[int]primaryResult)}
}

func (p *exprParser) parseExpr() (ast.Expr, bool) {
	if e, ok := p.parseAdditive(); ok {
		return e, true
	}
	if e, ok := p.parseMultiplicative(); ok {
		return e, true
	}
	return p.parsePrimary()
}

func (p *exprParser) parseAdditive() (ast.Expr, bool) {
	start := p.getCurrentPosition()

	left, ok := p.parseOperand()
	if !ok {
		return nil, false
	}

	p.skipTrivia()
	var op ast.Op
	switch {
	case p.match(TokenPlus):
		op = ast.OpAdd
	case p.match(TokenMinus):
		op = ast.OpSub
	default:
		p.setPosition(start)
		return nil, false
	}

	right, ok := p.parseOperand()
	if !ok {
		p.setPosition(start)
		return nil, false
	}

	return ast.BinaryOp{Op: op, Left: left, Right: right}, true
}

func (p *exprParser) parseOperand() (ast.Expr, bool) {
	if e, ok := p.parseMultiplicative(); ok {
		return e, true
	}
	return p.parsePrimary()
}

func (p *exprParser) parseMultiplicative() (ast.Expr, bool) {
	start := p.getCurrentPosition()

	left, ok := p.parsePrimary()
	if !ok {
		return nil, false
	}

	p.skipTrivia()
	var op ast.Op
	switch {
	case p.match(TokenStar):
		op = ast.OpMul
	case p.match(TokenSlash):
		op = ast.OpDiv
	default:
		p.setPosition(start)
		return nil, false
	}

	right, ok := p.parsePrimary()
	if !ok {
		p.setPosition(start)
		return nil, false
	}

	return ast.BinaryOp{Op: op, Left: left, Right: right}, true
}

func (p *exprParser) parsePrimary() (ast.Expr, bool) {
	start := p.getCurrentPosition()
	if r, seen := p.primaries[start]; seen {
		p.setPosition(r.end)
		return r.expr, r.ok
	}

	alternatives := []func() (ast.Expr, bool){
		p.parseCall,
		p.parseReference,
		p.parseParenthesis,
		p.parseTuple,
		p.parseVariable,
		p.parseNumber,
	}

	for _, alt := range alternatives {
		if e, ok := alt(); ok {
			p.primaries[start] = primaryResult{expr: e, end: p.getCurrentPosition(), ok: true}
			return e, true
		}
		p.setPosition(start)
	}
	p.primaries[start] = primaryResult{end: start}
	return nil, false
}

func (p *exprParser) parseCall() (ast.Expr, bool) {
	name, ok := p.expect(TokenIdentifier)
	if !ok {
		return nil, false
	}
	args, ok := p.parseList()
	if !ok {
		return nil, false
	}
	return ast.FunctionCall{Name: name.Value, Args: args}, true
}

func (p *exprParser) parseReference() (ast.Expr, bool) {
	if _, ok := p.expect(TokenAmpersand); !ok {
		return nil, false
	}
	inner, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	return ast.Reference{Inner: inner}, true
}

func (p *exprParser) parseParenthesis() (ast.Expr, bool) {
	if _, ok := p.expect(TokenLeftParen); !ok {
		return nil, false
	}
	inner, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(TokenRightParen); !ok {
		return nil, false
	}
	return ast.Parenthesis{Inner: inner}, true
}

func (p *exprParser) parseTuple() (ast.Expr, bool) {
	elements, ok := p.parseList()
	if !ok {
		return nil, false
	}
	return ast.Tuple{Elements: elements}, true
}

func (p *exprParser) parseVariable() (ast.Expr, bool) {
	name, ok := p.expect(TokenIdentifier)
	if !ok {
		return nil, false
	}
	return ast.Variable{Name: name.Value}, true
}

// parseNumber accepts a numeric token with an optional minus sign written
// directly in front of it. A decimal point or an exponent makes it a Float.
func (p *exprParser) parseNumber() (ast.Expr, bool) {
	p.skipTrivia()

	sign := ""
	if minus := p.peek(); minus.Type == TokenMinus {
		p.advance()
		if next := p.peek(); next.Type != TokenNumber || next.Offset != minus.End() {
			return nil, false
		}
		sign = "-"
	}

	num, ok := p.expect(TokenNumber)
	if !ok {
		return nil, false
	}

	text := sign + num.Value
	if strings.ContainsAny(num.Value, ".eE") {
		return ast.Float{Text: text}, true
	}
	return ast.Integer{Text: text}, true
}

// parseList parses "(" [expr {"," expr}] ")".
func (p *exprParser) parseList() ([]ast.Expr, bool) {
	if _, ok := p.expect(TokenLeftParen); !ok {
		return nil, false
	}

	elements := []ast.Expr{}

	checkpoint := p.getCurrentPosition()
	if _, ok := p.expect(TokenRightParen); ok {
		return elements, true
	}
	p.setPosition(checkpoint)

	for {
		e, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		elements = append(elements, e)

		p.skipTrivia()
		if p.match(TokenComma) {
			continue
		}
		if p.match(TokenRightParen) {
			return elements, true
		}
		return nil, false
	}
}

// ParseExpr parses one standalone expression. The whole text must match.
func ParseExpr(text string) (ast.Expr, error) {
	p := newExprParser(NewTokenCache(text))

	e, ok := p.parseExpr()
	if !ok {
		p.skipTrivia()
		return nil, syntaxErrorAt(text, p.peek(), "expected expression")
	}
	if err := expectEnd(text, p.TokenCache); err != nil {
		return nil, err
	}
	return e, nil
}
