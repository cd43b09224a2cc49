package formula

import "strings"

// Stringify renders n in canonical notation: "&", "|", "->", "!",
// "A." and "E.", with parentheses only where the tree has an
// ExpressionStatement.
func Stringify(n Node) string {
	var sb strings.Builder
	writeNode(&sb, n)
	return sb.String()
}

func writeNode(sb *strings.Builder, n Node) {
	switch t := n.(type) {
	case Empty:
	case Literal:
		if t.Value {
			sb.WriteString("True")
		} else {
			sb.WriteString("False")
		}
	case VariableOrConstant:
		sb.WriteString(t.Name)
	case Predicate:
		writeApplication(sb, t.Name, t.Arguments)
	case FunctionExpression:
		writeApplication(sb, t.Name, t.Arguments)
	case UnaryExpression:
		sb.WriteString(t.Operator.String())
		writeNode(sb, t.Argument)
	case BinaryExpression:
		writeNode(sb, t.Left)
		sb.WriteByte(' ')
		sb.WriteString(t.Operator.String())
		sb.WriteByte(' ')
		writeNode(sb, t.Right)
	case ExpressionStatement:
		sb.WriteByte('(')
		writeNode(sb, t.Expression)
		sb.WriteByte(')')
	case QuantifiedExpression:
		sb.WriteString(t.Quantifier.String())
		sb.WriteString(t.Variable.Name)
		sb.WriteByte(' ')
		writeNode(sb, t.Expression)
	}
}

func writeApplication(sb *strings.Builder, name string, args []Node) {
	sb.WriteString(name)
	if len(args) == 0 {
		return
	}
	sb.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeNode(sb, a)
	}
	sb.WriteByte(')')
}
