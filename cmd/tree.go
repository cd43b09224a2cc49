package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/gnolang/fol/formula"
)

// writeTree prints n one node per line, children indented below their
// parent, each with its byte span.
func writeTree(w io.Writer, n formula.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	span := n.Range()
	label := func(s string) {
		fmt.Fprintf(w, "%s%s [%d:%d]\n", indent, s, span.Start, span.End)
	}

	switch t := n.(type) {
	case formula.Empty:
		label("Empty")
	case formula.Literal:
		label(fmt.Sprintf("Literal(%s)", formula.Stringify(t)))
	case formula.VariableOrConstant:
		label(fmt.Sprintf("VariableOrConstant(%s)", t.Name))
	case formula.Predicate:
		label(fmt.Sprintf("Predicate(%s)", t.Name))
		for _, a := range t.Arguments {
			writeTree(w, a, depth+1)
		}
	case formula.FunctionExpression:
		label(fmt.Sprintf("FunctionExpression(%s)", t.Name))
		for _, a := range t.Arguments {
			writeTree(w, a, depth+1)
		}
	case formula.UnaryExpression:
		label(fmt.Sprintf("UnaryExpression(%s)", t.Operator))
		writeTree(w, t.Argument, depth+1)
	case formula.BinaryExpression:
		label(fmt.Sprintf("BinaryExpression(%s)", t.Operator))
		writeTree(w, t.Left, depth+1)
		writeTree(w, t.Right, depth+1)
	case formula.ExpressionStatement:
		label("ExpressionStatement")
		writeTree(w, t.Expression, depth+1)
	case formula.QuantifiedExpression:
		label(fmt.Sprintf("QuantifiedExpression(%s%s)", t.Quantifier, t.Variable.Name))
		writeTree(w, t.Expression, depth+1)
	}
}

// collectMarks returns the sorted names that occur free and bound in a
// tree produced by formula.MarkFree. A name can be in both lists.
func collectMarks(n formula.Node) (free, bound []string) {
	freeSet := make(map[string]bool)
	boundSet := make(map[string]bool)

	var walk func(formula.Node)
	walk = func(n formula.Node) {
		switch t := n.(type) {
		case formula.VariableOrConstant:
			switch t.Free {
			case formula.Free:
				freeSet[t.Name] = true
			case formula.Bound:
				boundSet[t.Name] = true
			}
		case formula.Predicate:
			for _, a := range t.Arguments {
				walk(a)
			}
		case formula.FunctionExpression:
			for _, a := range t.Arguments {
				walk(a)
			}
		case formula.UnaryExpression:
			walk(t.Argument)
		case formula.BinaryExpression:
			walk(t.Left)
			walk(t.Right)
		case formula.ExpressionStatement:
			walk(t.Expression)
		case formula.QuantifiedExpression:
			walk(t.Variable)
			walk(t.Expression)
		}
	}
	walk(n)

	return sortedKeys(freeSet), sortedKeys(boundSet)
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
