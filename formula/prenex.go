package formula

// MoveQuantifiersLeft pulls quantifiers out of conjunctions and
// disjunctions toward the front of the formula.
//
// For L op R, where R (after its own rewrite) is quantified, the
// quantifier prefixes of both sides are stripped and the joined bodies
// are wrapped in parentheses under the left prefix followed by the right
// prefix. The move only happens when it cannot capture a variable: no
// variable stripped from one side may occur free in the body of the
// other. Implications are left in place; run RemoveImplications first.
// Quantifiers never move across a negation.
//
// Bound variables should be distinct before calling this; see Rename.
func MoveQuantifiersLeft(n Node) Node {
	switch t := n.(type) {
	case BinaryExpression:
		return moveBinary(t)
	case QuantifiedExpression:
		return QuantifiedExpression{
			Quantifier: t.Quantifier,
			Variable:   t.Variable,
			Expression: MoveQuantifiersLeft(t.Expression),
			Span:       t.Span,
		}
	case ExpressionStatement:
		inner := MoveQuantifiersLeft(t.Expression)
		if _, ok := inner.(QuantifiedExpression); ok {
			return inner
		}
		return ExpressionStatement{Expression: inner, Span: t.Span}
	case UnaryExpression:
		return UnaryExpression{Operator: t.Operator, Argument: MoveQuantifiersLeft(t.Argument), Span: t.Span}
	default:
		return n
	}
}

func moveBinary(b BinaryExpression) Node {
	_, keepLeft := b.Left.(ExpressionStatement)
	_, keepRight := b.Right.(ExpressionStatement)

	left := MoveQuantifiersLeft(b.Left)
	right := MoveQuantifiersLeft(b.Right)
	joined := BinaryExpression{Operator: b.Operator, Left: left, Right: right, Span: b.Span}

	if b.Operator == Implication {
		return joined
	}
	if _, ok := right.(QuantifiedExpression); !ok {
		return joined
	}

	leftPrefix, leftBody := stripQuantifiers(left)
	rightPrefix, rightBody := stripQuantifiers(right)
	if capturesAny(rightPrefix, leftBody) || capturesAny(leftPrefix, rightBody) {
		return joined
	}

	if !keepLeft {
		leftBody = unwrapGroup(leftBody)
	}
	if !keepRight {
		rightBody = unwrapGroup(rightBody)
	}

	var result Node = ExpressionStatement{
		Expression: BinaryExpression{Operator: b.Operator, Left: leftBody, Right: rightBody, Span: b.Span},
		Span:       b.Span,
	}
	prefix := append(leftPrefix, rightPrefix...)
	for i := len(prefix) - 1; i >= 0; i-- {
		q := prefix[i]
		result = QuantifiedExpression{Quantifier: q.Quantifier, Variable: q.Variable, Expression: result, Span: b.Span}
	}
	return result
}

// stripQuantifiers splits the leading chain of quantifiers off n.
func stripQuantifiers(n Node) ([]QuantifiedExpression, Node) {
	var prefix []QuantifiedExpression
	for {
		q, ok := n.(QuantifiedExpression)
		if !ok {
			return prefix, n
		}
		prefix = append(prefix, q)
		n = q.Expression
	}
}

// capturesAny reports whether moving any quantifier in prefix over body
// would bind a free occurrence in body.
func capturesAny(prefix []QuantifiedExpression, body Node) bool {
	for _, q := range prefix {
		if ContainsFree(body, q.Variable.Name) {
			return true
		}
	}
	return false
}
