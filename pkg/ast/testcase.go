package ast

import (
	"errors"
	"fmt"
)

// ErrMalformedTestCase is returned when a matched macro invocation does not have the
// (status, function, (args...), expected, tolerance, status_code) shape.
var ErrMalformedTestCase = errors.New("malformed test case")

// TestCase is one numeric check taken from a TEST_SF style invocation.
type TestCase struct {
	Tag          string
	FunctionName string
	Args         []Expr
	Expected     Expr
	Tolerance    Expr
	Line         int
}

// NewTestCase destructures the inner tuple of a macro invocation. The status and
// status code elements are discarded.
func NewTestCase(tag string, elements []Expr) (TestCase, error) {
	if len(elements) != 6 {
		return TestCase{}, fmt.Errorf("%w: expected 6 elements, got %d", ErrMalformedTestCase, len(elements))
	}

	fn, ok := elements[1].(Variable)
	if !ok {
		return TestCase{}, fmt.Errorf("%w: function name must be an identifier, got %q",
			ErrMalformedTestCase, Serialize(elements[1]))
	}

	var args []Expr
	switch list := elements[2].(type) {
	case Tuple:
		args = list.Elements
	case Parenthesis:
		// A one-argument list such as (x) parses as a parenthesized expression.
		args = []Expr{list.Inner}
	default:
		return TestCase{}, fmt.Errorf("%w: arguments of %s must be a tuple, got %q",
			ErrMalformedTestCase, fn.Name, Serialize(elements[2]))
	}

	return TestCase{
		Tag:          tag,
		FunctionName: fn.Name,
		Args:         args,
		Expected:     elements[3],
		Tolerance:    elements[4],
	}, nil
}

// Equal compares two test cases structurally. Line is ignored.
func (tc TestCase) Equal(other TestCase) bool {
	return tc.Tag == other.Tag &&
		tc.FunctionName == other.FunctionName &&
		equalList(tc.Args, other.Args) &&
		Equal(tc.Expected, other.Expected) &&
		Equal(tc.Tolerance, other.Tolerance)
}
