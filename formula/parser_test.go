package formula

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ignoreSpans compares trees by shape only.
var ignoreSpans = cmp.Options{
	cmpopts.IgnoreTypes(Span{}),
	cmpopts.EquateEmpty(),
}

func mustParse(t *testing.T, input string) Node {
	t.Helper()
	n, err := Parse(input)
	require.NoError(t, err, "parse %q", input)
	return n
}

func TestParseTree(t *testing.T) {
	t.Parallel()
	x, y := Var("x"), Var("y")
	tests := []struct {
		name     string
		input    string
		expected Node
	}{
		{"empty", "", Empty{}},
		{"variable", "x", x},
		{"literal", "⊤", Literal{Value: true}},
		{"predicate", "P", Pred("P")},
		{"predicate with arguments", "P(x, f(y))", Pred("P", x, Func("f", y))},
		{"negated term argument", "P(!x)", Pred("P", Not(x))},
		{"right nested junctions", "P | Q & R", Or(Pred("P"), And(Pred("Q"), Pred("R")))},
		{"implication binds loosest", "P & Q -> R", Implies(And(Pred("P"), Pred("Q")), Pred("R"))},
		{"implication is right associative", "P -> Q -> R", Implies(Pred("P"), Implies(Pred("Q"), Pred("R")))},
		{"negation binds tightest", "!P & Q", And(Not(Pred("P")), Pred("Q"))},
		{"double negation", "!!P", Not(Not(Pred("P")))},
		{"group", "(P | Q) & R", And(Group(Or(Pred("P"), Pred("Q"))), Pred("R"))},
		{
			"quantifier takes one primary",
			"E.x f(x) | g(x)",
			Or(Exists("x", Func("f", x)), Func("g", x)),
		},
		{
			"quantifier over group",
			"A.x (P(x) -> Q(x))",
			ForAll("x", Group(Implies(Pred("P", x), Pred("Q", x)))),
		},
		{
			"nested quantifiers",
			"A.x E.y R(x, y)",
			ForAll("x", Exists("y", Pred("R", x, y))),
		},
		{
			"quantifier over negation",
			"E.y !P(y)",
			Exists("y", Not(Pred("P", y))),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := mustParse(t, tt.input)
			if diff := cmp.Diff(tt.expected, got, ignoreSpans); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestParseSpans(t *testing.T) {
	t.Parallel()

	n := mustParse(t, "P(x, !y)")
	assert.Equal(t, Span{0, 8}, n.Range())
	pred := n.(Predicate)
	assert.Equal(t, Span{2, 3}, pred.Arguments[0].Range())
	assert.Equal(t, Span{5, 7}, pred.Arguments[1].Range())

	n = mustParse(t, "E.x f(x) | g(x)")
	bin := n.(BinaryExpression)
	assert.Equal(t, Span{0, 15}, bin.Range())
	assert.Equal(t, Span{0, 8}, bin.Left.Range())
	assert.Equal(t, Span{11, 15}, bin.Right.Range())

	n = mustParse(t, "  (P)  ")
	assert.Equal(t, Span{2, 5}, n.Range())
}

func TestParseRoundTrip(t *testing.T) {
	t.Parallel()
	inputs := []string{
		"P",
		"P(x, y)",
		"!P(f(x))",
		"P | Q & R -> S",
		"(P -> Q) -> (R -> S)",
		"A.x E.y (P(x) & Q(y))",
		"P(x) & A.x (Q(x) -> E.y R(x, y) | !E.y P(y))",
		"P(!f(x), !!y)",
		"True & False",
	}
	for _, input := range inputs {
		n := mustParse(t, input)
		assert.Equal(t, input, Stringify(n))
		assert.Equal(t, input, n.String())
	}
}

func TestParseNormalizesNotation(t *testing.T) {
	t.Parallel()
	n := mustParse(t, "∀x (¬P(x) ∨ Q(x) → ~R ∧ 1)")
	assert.Equal(t, "A.x (!P(x) | Q(x) -> !R & True)", Stringify(n))
}

func TestParseErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		kind     ParseErrorKind
		contains string
	}{
		{"empty function", "f()", EmptyFunctionArguments, "functions should have at least one argument"},
		{"predicate inside function", "f(x, P)", InvalidArgument, "Function arguments should be variables, constants, or functions (got Predicate)"},
		{"predicate inside predicate", "P(x, Q)", InvalidArgument, "Predicate arguments should be variables, constants, or functions (got Predicate)"},
		{"formula inside predicate", "P(x & y)", InvalidArgument, "(got BinaryExpression)"},
		{"quantifier without variable", "A.f(x) P", MissingVariable, "expected a variable for quantification (got FunctionExpression)"},
		{"quantifier over predicate", "E.P Q", MissingVariable, "(got Predicate)"},
		{"missing closing paren", "(P & Q", UnexpectedEnd, "expected RightParen (got End)"},
		{"unclosed arguments", "P(x, y", UnexpectedEnd, "expected RightParen (got End)"},
		{"dangling operator", "P &", UnexpectedEnd, "unexpected end of input"},
		{"leading operator", "& P", UnexpectedToken, "unexpected Conjunction"},
		{"trailing token", "P Q", UnexpectedToken, "unexpected Predicate"},
		{"stray closing paren", "P)", UnexpectedToken, "unexpected RightParen"},
		{"quantifier without body", "A.x", UnexpectedEnd, "unexpected end of input"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(tt.input)
			require.Error(t, err)

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr), "got %T: %v", err, err)
			assert.Equal(t, tt.kind, parseErr.Kind, parseErr.Message)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestParseLexErrorPassesThrough(t *testing.T) {
	t.Parallel()
	_, err := Parse("P $ Q")
	var lexErr *LexError
	require.True(t, errors.As(err, &lexErr))
	assert.Equal(t, '$', lexErr.Char)
}

func TestParseMaxDepth(t *testing.T) {
	t.Parallel()
	deep := strings.Repeat("(", 40) + "P" + strings.Repeat(")", 40)

	_, err := NewParser().WithMaxDepth(10).Parse(deep)
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, TooDeep, parseErr.Kind)

	n, err := NewParser().Parse(deep)
	require.NoError(t, err)
	assert.Equal(t, deep, Stringify(n))

	quantifiers := strings.Repeat("A.x ", 20) + "P(x)"
	_, err = NewParser().WithMaxDepth(10).Parse(quantifiers)
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, TooDeep, parseErr.Kind)
}

func TestParserReuse(t *testing.T) {
	t.Parallel()
	p := NewParser()
	_, err := p.Parse("P &")
	require.Error(t, err)

	n, err := p.Parse("Q | R")
	require.NoError(t, err)
	assert.Equal(t, "Q | R", Stringify(n))
}
