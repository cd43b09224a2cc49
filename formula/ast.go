package formula

// Node is a node of a parsed formula. The set of implementations is
// closed: Empty, Literal, VariableOrConstant, Predicate,
// FunctionExpression, UnaryExpression, BinaryExpression,
// ExpressionStatement and QuantifiedExpression.
//
// Nodes are values. Rewrites build new nodes and never modify the tree
// they were given; argument slices are copied before they change.
type Node interface {
	isNode()
	Range() Span
	String() string
}

// Span is the half-open byte range [Start, End) a node covers in the source.
// Nodes synthesized by a rewrite carry the span of the node they replace.
type Span struct {
	Start int
	End   int
}

func (s Span) Range() Span { return s }

// Operator is a logical connective.
type Operator int

const (
	_ Operator = iota
	Negation
	Conjunction
	Disjunction
	Implication
)

func (op Operator) String() string {
	switch op {
	case Negation:
		return "!"
	case Conjunction:
		return "&"
	case Disjunction:
		return "|"
	case Implication:
		return "->"
	default:
		return "?"
	}
}

// Quantifier is a variable binder.
type Quantifier int

const (
	_ Quantifier = iota
	Universal
	Existential
)

func (q Quantifier) String() string {
	switch q {
	case Universal:
		return "A."
	case Existential:
		return "E."
	default:
		return "?"
	}
}

// Dual returns the other quantifier.
func (q Quantifier) Dual() Quantifier {
	if q == Universal {
		return Existential
	}
	return Universal
}

// FreeMark records whether a variable occurrence is free. It stays
// Unmarked until MarkFree has run over the tree.
type FreeMark int8

const (
	Unmarked FreeMark = iota
	Free
	Bound
)

func (m FreeMark) String() string {
	switch m {
	case Free:
		return "free"
	case Bound:
		return "bound"
	default:
		return "unmarked"
	}
}

var (
	_ Node = Empty{}
	_ Node = Literal{}
	_ Node = VariableOrConstant{}
	_ Node = Predicate{}
	_ Node = FunctionExpression{}
	_ Node = UnaryExpression{}
	_ Node = BinaryExpression{}
	_ Node = ExpressionStatement{}
	_ Node = QuantifiedExpression{}
)

// Empty is the result of parsing input that holds no tokens.
type Empty struct{ Span }

func (Empty) isNode() {}
func (Empty) String() string { return "" }

// Literal is a boolean constant.
type Literal struct {
	Value bool
	Span
}

func (Literal) isNode() {}
func (n Literal) String() string { return Stringify(n) }

// VariableOrConstant is a lowercase identifier that is not applied to arguments.
type VariableOrConstant struct {
	Name string
	Free FreeMark
	Span
}

func (VariableOrConstant) isNode() {}
func (n VariableOrConstant) String() string { return Stringify(n) }

// Predicate is an uppercase-initial name with zero or more term arguments.
type Predicate struct {
	Name      string
	Arguments []Node
	Span
}

func (Predicate) isNode() {}
func (n Predicate) String() string { return Stringify(n) }

// FunctionExpression is a lowercase function symbol applied to at least one term.
type FunctionExpression struct {
	Name      string
	Arguments []Node
	Span
}

func (FunctionExpression) isNode() {}
func (n FunctionExpression) String() string { return Stringify(n) }

// UnaryExpression applies a prefix operator. Negation is the only one.
type UnaryExpression struct {
	Operator Operator
	Argument Node
	Span
}

func (UnaryExpression) isNode() {}
func (n UnaryExpression) String() string { return Stringify(n) }

// BinaryExpression joins two formulas with a conjunction, disjunction or implication.
type BinaryExpression struct {
	Operator Operator
	Left     Node
	Right    Node
	Span
}

func (BinaryExpression) isNode() {}
func (n BinaryExpression) String() string { return Stringify(n) }

// ExpressionStatement marks a parenthesized group so printing can
// reproduce the source grouping.
type ExpressionStatement struct {
	Expression Node
	Span
}

func (ExpressionStatement) isNode() {}
func (n ExpressionStatement) String() string { return Stringify(n) }

// QuantifiedExpression binds Variable over Expression.
type QuantifiedExpression struct {
	Quantifier Quantifier
	Variable   VariableOrConstant
	Expression Node
	Span
}

func (QuantifiedExpression) isNode() {}
func (n QuantifiedExpression) String() string { return Stringify(n) }

// Helper functions to construct nodes. They leave spans zeroed.

// Var creates a variable or constant.
func Var(name string) VariableOrConstant {
	return VariableOrConstant{Name: name}
}

// Pred creates a predicate.
func Pred(name string, args ...Node) Predicate {
	return Predicate{Name: name, Arguments: args}
}

// Func creates a function expression.
func Func(name string, args ...Node) FunctionExpression {
	return FunctionExpression{Name: name, Arguments: args}
}

// Not wraps n in a negation.
func Not(n Node) UnaryExpression {
	return UnaryExpression{Operator: Negation, Argument: n, Span: n.Range()}
}

// And creates a conjunction.
func And(left, right Node) BinaryExpression {
	return BinaryExpression{Operator: Conjunction, Left: left, Right: right}
}

// Or creates a disjunction.
func Or(left, right Node) BinaryExpression {
	return BinaryExpression{Operator: Disjunction, Left: left, Right: right}
}

// Implies creates an implication.
func Implies(left, right Node) BinaryExpression {
	return BinaryExpression{Operator: Implication, Left: left, Right: right}
}

// Group wraps n in parentheses.
func Group(n Node) ExpressionStatement {
	return ExpressionStatement{Expression: n, Span: n.Range()}
}

// ForAll creates a universally quantified expression.
func ForAll(v string, body Node) QuantifiedExpression {
	return QuantifiedExpression{Quantifier: Universal, Variable: Var(v), Expression: body}
}

// Exists creates an existentially quantified expression.
func Exists(v string, body Node) QuantifiedExpression {
	return QuantifiedExpression{Quantifier: Existential, Variable: Var(v), Expression: body}
}

// kindName names the variant of n for diagnostics.
func kindName(n Node) string {
	switch n.(type) {
	case Empty:
		return "Empty"
	case Literal:
		return "Literal"
	case VariableOrConstant:
		return "VariableOrConstant"
	case Predicate:
		return "Predicate"
	case FunctionExpression:
		return "FunctionExpression"
	case UnaryExpression:
		return "UnaryExpression"
	case BinaryExpression:
		return "BinaryExpression"
	case ExpressionStatement:
		return "ExpressionStatement"
	case QuantifiedExpression:
		return "QuantifiedExpression"
	default:
		return "Unknown"
	}
}

// isTerm reports whether n may appear as a predicate or function
// argument: a variable, a function expression, or negations of either.
func isTerm(n Node) bool {
	switch t := n.(type) {
	case VariableOrConstant, FunctionExpression:
		return true
	case UnaryExpression:
		return t.Operator == Negation && isTerm(t.Argument)
	default:
		return false
	}
}

// isNegation reports whether n is a negation.
func isNegation(n Node) bool {
	u, ok := n.(UnaryExpression)
	return ok && u.Operator == Negation
}

// unwrapGroup strips one pair of parentheses, if present.
func unwrapGroup(n Node) Node {
	if g, ok := n.(ExpressionStatement); ok {
		return g.Expression
	}
	return n
}

func copyArguments(args []Node, f func(Node) Node) []Node {
	out := make([]Node, len(args))
	for i, a := range args {
		out[i] = f(a)
	}
	return out
}
