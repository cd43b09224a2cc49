package formula

// Negate applies one step of logical negation to the outermost layer of n.
//
//   - atoms are wrapped in a negation and literals are flipped
//   - a negation is removed (one level only: Negate(!!P) is !P)
//   - a group keeps its parentheses and negates its contents
//   - & and | are swapped with both sides negated (De Morgan)
//   - P -> Q becomes P & !Q
//   - A. and E. are swapped and the body negated
//
// Negate never collapses deeper negation chains; see CollapseNegations.
func Negate(n Node) Node {
	switch t := n.(type) {
	case Empty:
		return t
	case Literal:
		return Literal{Value: !t.Value, Span: t.Span}
	case VariableOrConstant, Predicate, FunctionExpression:
		return Not(n)
	case UnaryExpression:
		return t.Argument
	case ExpressionStatement:
		return ExpressionStatement{Expression: Negate(t.Expression), Span: t.Span}
	case BinaryExpression:
		switch t.Operator {
		case Conjunction:
			return BinaryExpression{Operator: Disjunction, Left: Negate(t.Left), Right: Negate(t.Right), Span: t.Span}
		case Disjunction:
			return BinaryExpression{Operator: Conjunction, Left: Negate(t.Left), Right: Negate(t.Right), Span: t.Span}
		default:
			return BinaryExpression{Operator: Conjunction, Left: t.Left, Right: Negate(t.Right), Span: t.Span}
		}
	case QuantifiedExpression:
		return QuantifiedExpression{
			Quantifier: t.Quantifier.Dual(),
			Variable:   t.Variable,
			Expression: Negate(t.Expression),
			Span:       t.Span,
		}
	default:
		return Not(n)
	}
}

// CollapseNegations removes redundant negations throughout n. A run of k
// nested negations over a core keeps the (collapsed) core when k is even
// and negates it once with Negate when k is odd, so negations in front of
// groups and quantifiers are pushed inside them.
//
// The result is a fixed point: CollapseNegations(CollapseNegations(n))
// equals CollapseNegations(n).
func CollapseNegations(n Node) Node {
	switch t := n.(type) {
	case UnaryExpression:
		count := 0
		var core Node = t
		for isNegation(core) {
			core = core.(UnaryExpression).Argument
			count++
		}
		collapsed := CollapseNegations(core)
		if count%2 == 0 {
			return collapsed
		}
		// Negate keeps a collapsed tree collapsed.
		return Negate(collapsed)
	case Predicate:
		return Predicate{Name: t.Name, Arguments: copyArguments(t.Arguments, CollapseNegations), Span: t.Span}
	case FunctionExpression:
		return FunctionExpression{Name: t.Name, Arguments: copyArguments(t.Arguments, CollapseNegations), Span: t.Span}
	case BinaryExpression:
		return BinaryExpression{
			Operator: t.Operator,
			Left:     CollapseNegations(t.Left),
			Right:    CollapseNegations(t.Right),
			Span:     t.Span,
		}
	case ExpressionStatement:
		return ExpressionStatement{Expression: CollapseNegations(t.Expression), Span: t.Span}
	case QuantifiedExpression:
		return QuantifiedExpression{
			Quantifier: t.Quantifier,
			Variable:   t.Variable,
			Expression: CollapseNegations(t.Expression),
			Span:       t.Span,
		}
	default:
		return n
	}
}

// RemoveImplications rewrites every P -> Q in n to !P | Q, working bottom
// up so implications nested in implications are removed too. The result
// contains no Implication operator.
func RemoveImplications(n Node) Node {
	switch t := n.(type) {
	case BinaryExpression:
		left := RemoveImplications(t.Left)
		right := RemoveImplications(t.Right)
		if t.Operator == Implication {
			return BinaryExpression{Operator: Disjunction, Left: Negate(left), Right: right, Span: t.Span}
		}
		return BinaryExpression{Operator: t.Operator, Left: left, Right: right, Span: t.Span}
	case UnaryExpression:
		return UnaryExpression{Operator: t.Operator, Argument: RemoveImplications(t.Argument), Span: t.Span}
	case ExpressionStatement:
		return ExpressionStatement{Expression: RemoveImplications(t.Expression), Span: t.Span}
	case QuantifiedExpression:
		return QuantifiedExpression{
			Quantifier: t.Quantifier,
			Variable:   t.Variable,
			Expression: RemoveImplications(t.Expression),
			Span:       t.Span,
		}
	default:
		return n
	}
}
