package parser

import (
	"strings"

	"sfgen/pkg/ast"
)

// declParser parses C function declarations of the form
//
//	type name ( [type name [ "[" "]" ] {, type name [ "[" "]" ]}] )
type declParser struct {
	*TokenCache
	input string
}

// ParseDeclaration parses a single, whitespace-flattened C function declaration.
// The whole input must match; there is no partial result.
func ParseDeclaration(text string) (ast.Signature, error) {
	p := &declParser{TokenCache: NewTokenCache(text), input: text}

	sig, err := p.parseSignature()
	if err != nil {
		return ast.Signature{}, err
	}
	if err := expectEnd(text, p.TokenCache); err != nil {
		return ast.Signature{}, err
	}
	return sig, nil
}

// ParseArgument parses one "type name" pair, optionally with an array suffix.
func ParseArgument(text string) (ast.Argument, error) {
	p := &declParser{TokenCache: NewTokenCache(text), input: text}

	arg, err := p.parseArgument()
	if err != nil {
		return ast.Argument{}, err
	}
	if err := expectEnd(text, p.TokenCache); err != nil {
		return ast.Argument{}, err
	}
	return arg, nil
}

func (p *declParser) parseSignature() (ast.Signature, error) {
	returnType, err := p.parseType()
	if err != nil {
		return ast.Signature{}, err
	}

	name, err := p.parseIdentifier("function name")
	if err != nil {
		return ast.Signature{}, err
	}

	if tok, ok := p.expect(TokenLeftParen); !ok {
		return ast.Signature{}, syntaxErrorAt(p.input, tok, "expected '(' after %s", name)
	}

	args, err := p.parseArgumentList()
	if err != nil {
		return ast.Signature{}, err
	}

	if tok, ok := p.expect(TokenRightParen); !ok {
		return ast.Signature{}, syntaxErrorAt(p.input, tok, "expected ',' or ')' in argument list of %s", name)
	}

	return ast.Signature{ReturnType: returnType, Name: name, Arguments: args}, nil
}

// parseArgumentList parses zero or more comma separated arguments. An empty list
// is only accepted when the closing parenthesis follows immediately.
func (p *declParser) parseArgumentList() ([]ast.Argument, error) {
	args := []ast.Argument{}

	p.skipTrivia()
	if p.check(TokenRightParen) {
		return args, nil
	}

	for {
		arg, err := p.parseArgument()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		checkpoint := p.getCurrentPosition()
		if _, ok := p.expect(TokenComma); !ok {
			p.setPosition(checkpoint)
			return args, nil
		}
	}
}

func (p *declParser) parseArgument() (ast.Argument, error) {
	typ, err := p.parseType()
	if err != nil {
		return ast.Argument{}, err
	}

	name, err := p.parseIdentifier("argument name")
	if err != nil {
		return ast.Argument{}, err
	}

	checkpoint := p.getCurrentPosition()
	if _, ok := p.expect(TokenLeftBracket); ok {
		if tok, ok := p.expect(TokenRightBracket); !ok {
			return ast.Argument{}, syntaxErrorAt(p.input, tok, "expected ']' after %s[", name)
		}
		typ += " []"
	} else {
		p.setPosition(checkpoint)
	}

	return ast.Argument{Type: typ, Name: name}, nil
}

func (p *declParser) parseType() (string, error) {
	p.skipTrivia()
	start := p.peek()

	parts, ok := p.parseTypeTokens()
	if !ok {
		return "", syntaxErrorAt(p.input, start, "expected type")
	}
	return strings.Join(parts, " "), nil
}

func (p *declParser) parseIdentifier(what string) (string, error) {
	tok, ok := p.expect(TokenIdentifier)
	if !ok {
		return "", syntaxErrorAt(p.input, tok, "expected %s", what)
	}
	return tok.Value, nil
}
