package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoveQuantifiersLeft(t *testing.T) {
	t.Parallel()
	runRewrite(t, MoveQuantifiersLeft, []rewriteCase{
		{"P", "P"},
		{"A.x P(x)", "A.x P(x)"},
		{"P(y) | A.x Q(x)", "A.x (P(y) | Q(x))"},
		{"P(x) | A.x Q(x)", "P(x) | A.x Q(x)"},
		{"A.z h(z) & E.w k(w)", "A.z E.w (h(z) & k(w))"},
		{"E.x f(x) & A.y g(y) | A.z h(z)", "E.x A.y A.z (f(x) & g(y) | h(z))"},
		{
			"E.x f(x) & A.y g(y) | A.z h(z) & E.w k(w)",
			"E.x A.y A.z E.w (f(x) & g(y) | h(z) & k(w))",
		},
		{
			"A.x A.y (f(x, y) | E.z (f(x, z) & f(y, z)))",
			"A.x A.y E.z (f(x, y) | f(x, z) & f(y, z))",
		},
		{
			"A.z (P(x) & (!Q(z) | E.y R(z, y) | A.w !P(w)))",
			"A.z E.y A.w (P(x) & (!Q(z) | R(z, y) | !P(w)))",
		},
		{
			"A.z ((P(x) | R(x)) & (!Q(z) | E.y R(z, y) | A.w !P(w)))",
			"A.z E.y A.w ((P(x) | R(x)) & (!Q(z) | R(z, y) | !P(w)))",
		},
	})
}

func TestMoveQuantifiersLeftAvoidsCapture(t *testing.T) {
	t.Parallel()
	runRewrite(t, MoveQuantifiersLeft, []rewriteCase{
		// the left quantifier would capture the free y on the right
		{"A.y P(y) & E.x Q(x, y)", "A.y P(y) & E.x Q(x, y)"},
		{"A.x P(x) & A.x Q(x)", "A.x P(x) & A.x Q(x)"},
	})
}

func TestMoveQuantifiersLeftKeepsBoundaries(t *testing.T) {
	t.Parallel()
	runRewrite(t, MoveQuantifiersLeft, []rewriteCase{
		{"P -> A.x Q(x)", "P -> A.x Q(x)"},
		{"!(P | A.x Q(x))", "!A.x (P | Q(x))"},
		{"A.x P(x) | Q", "A.x P(x) | Q"},
	})
}

func TestMoveQuantifiersLeftAfterRename(t *testing.T) {
	t.Parallel()
	n := mustParse(t, "A.x P(x) & E.x Q(x)")
	assert.Equal(t, "A.x P(x) & E.x Q(x)", Stringify(MoveQuantifiersLeft(n)))

	renamed, err := Rename(n)
	assert.NoError(t, err)
	assert.Equal(t, "A.x E.z (P(x) & Q(z))", Stringify(MoveQuantifiersLeft(renamed)))
}
