// Package coerce converts literal representations between integer and floating-point
// form according to the declared type of the parameter they are passed to.
package coerce

import (
	"math"
	"strconv"
	"strings"

	"sfgen/pkg/ast"
	"sfgen/pkg/parser"
)

// DefaultFloatTypes and DefaultIntTypes split the C basic types, plain and
// const-qualified, by whether their literals should be floats or integers.
// size_t counts as an integer type; void is in neither.
var DefaultFloatTypes, DefaultIntTypes = defaultTypes()

func defaultTypes() (floats, ints []string) {
	phrases := make([]string, 0, len(parser.BasicTypes)+1)
	phrases = append(phrases, parser.BasicTypes...)
	phrases = append(phrases, "size_t")

	for _, phrase := range phrases {
		switch {
		case phrase == "void":
		case strings.HasSuffix(phrase, "float") || strings.HasSuffix(phrase, "double"):
			floats = append(floats, phrase, "const "+phrase)
		default:
			ints = append(ints, phrase, "const "+phrase)
		}
	}
	return floats, ints
}

// ToFloat rewrites an Integer leaf as a Float by appending ".0" to its text.
func ToFloat(e ast.Expr) (ast.Expr, bool) {
	i, ok := e.(ast.Integer)
	if !ok {
		return nil, false
	}
	return ast.Float{Text: i.Text + ".0"}, true
}

// ToInt rewrites a Float leaf as an Integer, rounding half away from zero
// (2.5 becomes 3, -2.5 becomes -3). Text that does not parse is left alone.
func ToInt(e ast.Expr) (ast.Expr, bool) {
	f, ok := e.(ast.Float)
	if !ok {
		return nil, false
	}

	v, err := strconv.ParseFloat(f.Text, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return nil, false
	}

	rounded := math.Round(v)
	if rounded == 0 {
		rounded = 0 // drop the sign of -0
	}
	return ast.Integer{Text: strconv.FormatFloat(rounded, 'f', 0, 64)}, true
}

// Coercer decides which rule applies to a declared parameter type.
type Coercer struct {
	floatTypes map[string]bool
	intTypes   map[string]bool
}

// New creates a Coercer. Nil slices select the defaults.
func New(floatTypes, intTypes []string) *Coercer {
	if floatTypes == nil {
		floatTypes = DefaultFloatTypes
	}
	if intTypes == nil {
		intTypes = DefaultIntTypes
	}

	c := &Coercer{
		floatTypes: make(map[string]bool, len(floatTypes)),
		intTypes:   make(map[string]bool, len(intTypes)),
	}
	for _, t := range floatTypes {
		c.floatTypes[t] = true
	}
	for _, t := range intTypes {
		c.intTypes[t] = true
	}
	return c
}

// Default returns a Coercer with DefaultFloatTypes and DefaultIntTypes.
func Default() *Coercer {
	return New(nil, nil)
}

// Coerce adjusts expr for a parameter of the given argument's type. Types that
// are neither float nor integer (pointers, opaque types) leave expr unchanged.
func (c *Coercer) Coerce(arg ast.Argument, expr ast.Expr) ast.Expr {
	return c.CoerceType(arg.Type, expr)
}

// CoerceType is Coerce keyed by the type string alone.
func (c *Coercer) CoerceType(typ string, expr ast.Expr) ast.Expr {
	switch {
	case c.floatTypes[typ]:
		return ast.Rewrite(expr, ToFloat)
	case c.intTypes[typ]:
		return ast.Rewrite(expr, ToInt)
	default:
		return expr
	}
}

// CoerceTestCase coerces each argument against the parameter at the same position.
// Arguments beyond the signature are kept as they are. Expected values and
// tolerances are compared as doubles, so they are coerced to float.
func (c *Coercer) CoerceTestCase(sig ast.Signature, tc ast.TestCase) ast.TestCase {
	args := make([]ast.Expr, len(tc.Args))
	for i, arg := range tc.Args {
		if i < len(sig.Arguments) {
			args[i] = c.Coerce(sig.Arguments[i], arg)
		} else {
			args[i] = arg
		}
	}

	out := tc
	out.Args = args
	out.Expected = ast.Rewrite(tc.Expected, ToFloat)
	out.Tolerance = ast.Rewrite(tc.Tolerance, ToFloat)
	return out
}
