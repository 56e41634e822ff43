package ast

// Rule inspects a node and either returns a replacement with ok set, or declines.
type Rule func(Expr) (replacement Expr, ok bool)

// Rewrite applies rule to e. A replacement is returned as is and never revisited.
// When the rule declines, Rewrite descends into BinaryOp operands and Parenthesis
// contents only. Tuples, call arguments and reference targets are left untouched.
func Rewrite(e Expr, rule Rule) Expr {
	if replacement, ok := rule(e); ok {
		return replacement
	}

	switch node := e.(type) {
	case BinaryOp:
		return BinaryOp{
			Op:    node.Op,
			Left:  Rewrite(node.Left, rule),
			Right: Rewrite(node.Right, rule),
		}
	case Parenthesis:
		return Parenthesis{Inner: Rewrite(node.Inner, rule)}
	default:
		return e
	}
}
