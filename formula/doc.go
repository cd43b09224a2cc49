// Package formula parses first-order logic formulas and rewrites them.
//
// The accepted notation is ASCII or Unicode:
//
//	A.x E.y (P(x) & !Q(f(x, y)) -> R)
//	∀x ∃y (P(x) ∧ ¬Q(f(x, y)) → R)
//
// Uppercase-initial names are predicates, lowercase names are variables,
// constants or (when applied to arguments) functions. Negation binds
// tightest, then conjunction and disjunction, then implication. A
// quantifier covers exactly the one primary that follows it.
//
// Parse returns a tree of Node values. Every rewrite (Negate,
// CollapseNegations, RemoveImplications, MarkFree, Rename,
// MoveQuantifiersLeft) returns a new tree and leaves its input
// untouched. Stringify prints a tree in canonical ASCII notation.
package formula
