package formula

import "sort"

// NameKind says how an identifier is used in a formula.
type NameKind int

const (
	NameVariable NameKind = iota
	NameFunction
)

func (k NameKind) String() string {
	if k == NameFunction {
		return "FunctionExpression"
	}
	return "VariableOrConstant"
}

// CollectNames returns every variable, constant and function name in n
// along with how it is used. Predicate names live in their own namespace
// and are not collected.
//
// A name used both as a function and as a variable is an error.
func CollectNames(n Node) (map[string]NameKind, error) {
	names := make(map[string]NameKind)
	if err := collectNames(n, names); err != nil {
		return nil, err
	}
	return names, nil
}

// SortedNames returns the keys of names in lexical order.
func SortedNames(names map[string]NameKind) []string {
	out := make([]string, 0, len(names))
	for name := range names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func collectNames(n Node, names map[string]NameKind) error {
	switch t := n.(type) {
	case VariableOrConstant:
		return record(names, t.Name, NameVariable)
	case FunctionExpression:
		if err := record(names, t.Name, NameFunction); err != nil {
			return err
		}
		return collectAll(t.Arguments, names)
	case Predicate:
		return collectAll(t.Arguments, names)
	case UnaryExpression:
		return collectNames(t.Argument, names)
	case BinaryExpression:
		if err := collectNames(t.Left, names); err != nil {
			return err
		}
		return collectNames(t.Right, names)
	case ExpressionStatement:
		return collectNames(t.Expression, names)
	case QuantifiedExpression:
		if err := record(names, t.Variable.Name, NameVariable); err != nil {
			return err
		}
		return collectNames(t.Expression, names)
	}
	return nil
}

func collectAll(args []Node, names map[string]NameKind) error {
	for _, a := range args {
		if err := collectNames(a, names); err != nil {
			return err
		}
	}
	return nil
}

func record(names map[string]NameKind, name string, kind NameKind) error {
	if seen, ok := names[name]; ok && seen != kind {
		return &NameConflictError{Name: name, First: seen, Second: kind}
	}
	names[name] = kind
	return nil
}
