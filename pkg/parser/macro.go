package parser

import (
	"fmt"
	"strings"

	"sfgen/pkg/ast"
)

// DefaultMacro is the macro GSL's special-function tests are written with.
const DefaultMacro = "TEST_SF"

// Invocation is one matched MACRO(expr, ...); statement.
type Invocation struct {
	Elements []ast.Expr
	Offset   int
	Line     int
	Text     string
}

// Scanner finds macro invocations anywhere in a source text.
type Scanner struct {
	macro string
}

// NewScanner creates a scanner for the given macro name. An empty name selects DefaultMacro.
func NewScanner(macro string) *Scanner {
	if macro == "" {
		macro = DefaultMacro
	}
	return &Scanner{macro: macro}
}

// Macro returns the macro name the scanner looks for.
func (s *Scanner) Macro() string {
	return s.macro
}

// Scan returns every invocation that matches the macro grammar, in source order.
// Text that does not start a match is skipped one byte at a time, so malformed
// invocations are dropped without affecting the rest of the file. Scan never fails.
func (s *Scanner) Scan(text string) []Invocation {
	var invocations []Invocation

	lines := lineCounter{text: text, line: 1}
	pos := 0
	for pos < len(text) {
		// Positions that do not begin with the macro name cannot match.
		idx := strings.Index(text[pos:], s.macro)
		if idx < 0 {
			break
		}
		pos += idx

		inv, end, ok := s.matchAt(text, pos, lines.lineAt(pos))
		if !ok {
			pos++
			continue
		}
		invocations = append(invocations, inv)
		pos = end
	}

	return invocations
}

// TestCases scans text and builds a test case from every invocation. A matched
// invocation with the wrong shape is an error, not a skip.
func (s *Scanner) TestCases(text string) ([]ast.TestCase, error) {
	var cases []ast.TestCase
	for _, inv := range s.Scan(text) {
		tc, err := TestCaseFromInvocation(inv)
		if err != nil {
			return nil, err
		}
		cases = append(cases, tc)
	}
	return cases, nil
}

// matchAt tries MACRO "(" expr {"," expr} ")" ";" at offset.
func (s *Scanner) matchAt(text string, offset, line int) (Invocation, int, bool) {
	p := newExprParser(newTokenCacheAt(text, offset, line))

	if name := p.peek(); name.Type != TokenIdentifier || name.Value != s.macro {
		return Invocation{}, 0, false
	}
	p.advance()

	elements, ok := p.parseList()
	if !ok {
		return Invocation{}, 0, false
	}

	semi, ok := p.expect(TokenSemicolon)
	if !ok {
		return Invocation{}, 0, false
	}

	end := semi.End()
	return Invocation{
		Elements: elements,
		Offset:   offset,
		Line:     line,
		Text:     text[offset:end],
	}, end, true
}

// TestCaseFromInvocation turns TEST_SF(tag, (status, fn, (args...), expected, tol, code));
// into a test case.
func TestCaseFromInvocation(inv Invocation) (ast.TestCase, error) {
	if len(inv.Elements) != 2 {
		return ast.TestCase{}, fmt.Errorf("line %d: %w: expected (tag, (...)), got %d elements",
			inv.Line, ast.ErrMalformedTestCase, len(inv.Elements))
	}

	inner, ok := inv.Elements[1].(ast.Tuple)
	if !ok {
		return ast.TestCase{}, fmt.Errorf("line %d: %w: second element must be a tuple, got %q",
			inv.Line, ast.ErrMalformedTestCase, ast.Serialize(inv.Elements[1]))
	}

	tc, err := ast.NewTestCase(ast.Serialize(inv.Elements[0]), inner.Elements)
	if err != nil {
		return ast.TestCase{}, fmt.Errorf("line %d: %w", inv.Line, err)
	}
	tc.Line = inv.Line
	return tc, nil
}

// ScanMacros scans text for DefaultMacro invocations.
func ScanMacros(text string) []Invocation {
	return NewScanner(DefaultMacro).Scan(text)
}

// ParseTestCases scans text for DefaultMacro invocations and builds test cases.
func ParseTestCases(text string) ([]ast.TestCase, error) {
	return NewScanner(DefaultMacro).TestCases(text)
}

// lineCounter converts increasing byte offsets to line numbers in linear time.
type lineCounter struct {
	text   string
	offset int
	line   int
}

func (lc *lineCounter) lineAt(offset int) int {
	lc.line += strings.Count(lc.text[lc.offset:offset], "\n")
	lc.offset = offset
	return lc.line
}
