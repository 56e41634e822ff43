// Package ast defines the data model shared by the declaration parser, the macro
// scanner and the coercion pass: C signatures and test-case expression trees.
package ast

// Op is a binary arithmetic operator.
type Op string

const (
	OpAdd Op = "+"
	OpSub Op = "-"
	OpMul Op = "*"
	OpDiv Op = "/"
)

// Expr is a node of a test-case expression tree.
type Expr interface {
	exprNode()
}

// Integer is an integer literal. Text is the source spelling.
type Integer struct {
	Text string
}

// Float is a floating-point literal. Text is the source spelling.
type Float struct {
	Text string
}

// Variable is a bare identifier such as TEST_TOL0 or M_PI.
type Variable struct {
	Name string
}

// Reference is an address-of expression (&r).
type Reference struct {
	Inner Expr
}

// Parenthesis wraps an explicitly parenthesized expression.
type Parenthesis struct {
	Inner Expr
}

// Tuple is a parenthesized, comma separated list. It may be empty.
type Tuple struct {
	Elements []Expr
}

// FunctionCall is name(args...).
type FunctionCall struct {
	Name string
	Args []Expr
}

// BinaryOp always has exactly two operands.
type BinaryOp struct {
	Op    Op
	Left  Expr
	Right Expr
}

func (Integer) exprNode()      {}
func (Float) exprNode()        {}
func (Variable) exprNode()     {}
func (Reference) exprNode()    {}
func (Parenthesis) exprNode()  {}
func (Tuple) exprNode()        {}
func (FunctionCall) exprNode() {}
func (BinaryOp) exprNode()     {}

// Equal reports whether two expression trees are structurally identical.
func Equal(a, b Expr) bool {
	switch x := a.(type) {
	case Integer:
		y, ok := b.(Integer)
		return ok && x.Text == y.Text
	case Float:
		y, ok := b.(Float)
		return ok && x.Text == y.Text
	case Variable:
		y, ok := b.(Variable)
		return ok && x.Name == y.Name
	case Reference:
		y, ok := b.(Reference)
		return ok && Equal(x.Inner, y.Inner)
	case Parenthesis:
		y, ok := b.(Parenthesis)
		return ok && Equal(x.Inner, y.Inner)
	case Tuple:
		y, ok := b.(Tuple)
		return ok && equalList(x.Elements, y.Elements)
	case FunctionCall:
		y, ok := b.(FunctionCall)
		return ok && x.Name == y.Name && equalList(x.Args, y.Args)
	case BinaryOp:
		y, ok := b.(BinaryOp)
		return ok && x.Op == y.Op && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case nil:
		return b == nil
	default:
		return false
	}
}

func equalList(a, b []Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
