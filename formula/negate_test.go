package formula

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

type rewriteCase struct {
	input    string
	expected string
}

func runRewrite(t *testing.T, rewrite func(Node) Node, tests []rewriteCase) {
	t.Helper()
	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			n := mustParse(t, tt.input)
			before := Stringify(n)

			got := rewrite(n)
			assert.Equal(t, tt.expected, Stringify(got))
			// input tree is left untouched
			assert.Equal(t, before, Stringify(n))
		})
	}
}

func TestNegate(t *testing.T) {
	t.Parallel()
	runRewrite(t, Negate, []rewriteCase{
		{"P", "!P"},
		{"x", "!x"},
		{"f(x)", "!f(x)"},
		{"!P", "P"},
		{"!!!Q", "!!Q"},
		{"(f(x))", "(!f(x))"},
		{"P & Q", "!P | !Q"},
		{"P | Q", "!P & !Q"},
		{"P -> Q", "P & !Q"},
		{"P | Q & R -> S", "P | Q & R & !S"},
		{"A.x f(x)", "E.x !f(x)"},
		{"E.x A.y R(x, y)", "A.x E.y !R(x, y)"},
		{"A.y P(f(y), z) | !!Q(x)", "E.y !P(f(y), z) & !Q(x)"},
		{"True", "False"},
		{"0 | P", "True & !P"},
		{"", ""},
	})
}

func TestNegateKeepsSpan(t *testing.T) {
	t.Parallel()
	n := mustParse(t, "P & Q")
	assert.Equal(t, n.Range(), Negate(n).Range())
}

func TestCollapseNegations(t *testing.T) {
	t.Parallel()
	runRewrite(t, CollapseNegations, []rewriteCase{
		{"P", "P"},
		{"!P", "!P"},
		{"!!P", "P"},
		{"!!!P", "!P"},
		{"!!!!P", "P"},
		{"!(P)", "(!P)"},
		{"!(P & Q)", "(!P | !Q)"},
		{"!!(P & !!Q)", "(P & Q)"},
		{"!A.x f(x)", "E.x !f(x)"},
		{"!!!E.x !!f(x)", "A.x !f(x)"},
		{"P(!!!f(x))", "P(!f(x))"},
		{"!!P(!!!f(x), !!g(x))", "P(!f(x), g(x))"},
		{"!!P -> !!!Q", "P -> !Q"},
		{"!(P -> !!Q)", "(P & !Q)"},
		{"!True", "False"},
	})
}

func TestCollapseNegationsIsIdempotent(t *testing.T) {
	t.Parallel()
	inputs := []string{
		"!!!(P & !(Q | !!R))",
		"!A.x !E.y !(P(x) -> !Q(y))",
		"P(!!!f(!!x)) | !!!!Q",
	}
	for _, input := range inputs {
		once := CollapseNegations(mustParse(t, input))
		twice := CollapseNegations(once)
		if diff := cmp.Diff(once, twice, ignoreSpans); diff != "" {
			t.Errorf("CollapseNegations(%q) not stable (-once +twice):\n%s", input, diff)
		}
	}
}

func TestRemoveImplications(t *testing.T) {
	t.Parallel()
	runRewrite(t, RemoveImplications, []rewriteCase{
		{"P", "P"},
		{"P -> Q", "!P | Q"},
		{"!P -> Q", "P | Q"},
		{"P & Q -> R", "!P | !Q | R"},
		{"A.x f(x) -> E.y g(y)", "E.x !f(x) | E.y g(y)"},
		{"(P -> Q) -> (R -> S)", "(P & !Q) | (!R | S)"},
		{"P -> Q -> R", "!P | !Q | R"},
		{"!(P -> Q)", "!(!P | Q)"},
		{"A.x (P(x) -> Q(x))", "A.x (!P(x) | Q(x))"},
	})
}

func TestRemoveImplicationsLeavesNone(t *testing.T) {
	t.Parallel()
	var hasImplication func(Node) bool
	hasImplication = func(n Node) bool {
		switch t := n.(type) {
		case BinaryExpression:
			return t.Operator == Implication || hasImplication(t.Left) || hasImplication(t.Right)
		case UnaryExpression:
			return hasImplication(t.Argument)
		case ExpressionStatement:
			return hasImplication(t.Expression)
		case QuantifiedExpression:
			return hasImplication(t.Expression)
		}
		return false
	}

	n := mustParse(t, "((P -> Q) -> R) -> !(A.x (S(x) -> T) -> U)")
	assert.True(t, hasImplication(n))
	assert.False(t, hasImplication(RemoveImplications(n)))
}
