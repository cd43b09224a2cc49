package formula

// MarkFree returns a copy of n in which every variable occurrence is
// marked Free or Bound. A quantifier's own variable is Bound, and an
// occurrence is Bound when an enclosing quantifier binds its name.
func MarkFree(n Node) Node {
	return markFree(n, nil)
}

func markFree(n Node, bound []string) Node {
	switch t := n.(type) {
	case VariableOrConstant:
		t.Free = Free
		if contains(bound, t.Name) {
			t.Free = Bound
		}
		return t
	case Predicate:
		return Predicate{Name: t.Name, Arguments: markAll(t.Arguments, bound), Span: t.Span}
	case FunctionExpression:
		return FunctionExpression{Name: t.Name, Arguments: markAll(t.Arguments, bound), Span: t.Span}
	case UnaryExpression:
		return UnaryExpression{Operator: t.Operator, Argument: markFree(t.Argument, bound), Span: t.Span}
	case BinaryExpression:
		return BinaryExpression{
			Operator: t.Operator,
			Left:     markFree(t.Left, bound),
			Right:    markFree(t.Right, bound),
			Span:     t.Span,
		}
	case ExpressionStatement:
		return ExpressionStatement{Expression: markFree(t.Expression, bound), Span: t.Span}
	case QuantifiedExpression:
		v := t.Variable
		v.Free = Bound
		return QuantifiedExpression{
			Quantifier: t.Quantifier,
			Variable:   v,
			Expression: markFree(t.Expression, append(bound[:len(bound):len(bound)], v.Name)),
			Span:       t.Span,
		}
	default:
		return n
	}
}

func markAll(args []Node, bound []string) []Node {
	return copyArguments(args, func(a Node) Node { return markFree(a, bound) })
}

// ContainsFree reports whether name occurs free anywhere in n.
func ContainsFree(n Node, name string) bool {
	return containsFree(n, name, nil)
}

func containsFree(n Node, name string, bound []string) bool {
	switch t := n.(type) {
	case VariableOrConstant:
		return t.Name == name && !contains(bound, name)
	case Predicate:
		return anyFree(t.Arguments, name, bound)
	case FunctionExpression:
		return anyFree(t.Arguments, name, bound)
	case UnaryExpression:
		return containsFree(t.Argument, name, bound)
	case BinaryExpression:
		return containsFree(t.Left, name, bound) || containsFree(t.Right, name, bound)
	case ExpressionStatement:
		return containsFree(t.Expression, name, bound)
	case QuantifiedExpression:
		return containsFree(t.Expression, name, append(bound[:len(bound):len(bound)], t.Variable.Name))
	default:
		return false
	}
}

func anyFree(args []Node, name string, bound []string) bool {
	for _, a := range args {
		if containsFree(a, name, bound) {
			return true
		}
	}
	return false
}

func contains(names []string, name string) bool {
	for _, s := range names {
		if s == name {
			return true
		}
	}
	return false
}

// DefaultNamePool is the set of names Rename draws fresh variables from.
// Names already present in the formula are removed first, and the rest are
// handed out from the end, so "z" comes before "y".
var DefaultNamePool = []string{
	"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l", "m",
	"n", "o", "p", "q", "r", "s", "t", "u", "v", "w", "x", "y", "z",
}

// Scope tracks the state of a renaming pass: names already used, the
// substitutions active at the current point, and the pool of fresh names.
type Scope struct {
	used      map[string]bool
	renames   map[string]string
	available []string
}

// NewScope prepares a renaming scope for n using DefaultNamePool.
func NewScope(n Node) (*Scope, error) {
	return NewScopeWithPool(n, DefaultNamePool)
}

// NewScopeWithPool is like NewScope but draws fresh names from pool.
// It fails if n uses a name both as a function and as a variable.
func NewScopeWithPool(n Node, pool []string) (*Scope, error) {
	names, err := CollectNames(n)
	if err != nil {
		return nil, err
	}
	available := make([]string, 0, len(pool))
	for _, name := range pool {
		if _, taken := names[name]; !taken {
			available = append(available, name)
		}
	}
	return &Scope{
		used:      make(map[string]bool),
		renames:   make(map[string]string),
		available: available,
	}, nil
}

// Rename renames bound variables so that no quantifier reuses a name seen
// earlier in the formula. Free variables and function names are never
// changed.
func Rename(n Node) (Node, error) {
	s, err := NewScope(n)
	if err != nil {
		return nil, err
	}
	return s.Rename(n)
}

// Rename applies the scope to n. Names allocated by earlier calls stay
// taken.
func (s *Scope) Rename(n Node) (Node, error) {
	switch t := n.(type) {
	case VariableOrConstant:
		s.used[t.Name] = true
		if sub, ok := s.renames[t.Name]; ok {
			t.Name = sub
		}
		return t, nil
	case Predicate:
		args, err := s.renameAll(t.Arguments)
		if err != nil {
			return nil, err
		}
		return Predicate{Name: t.Name, Arguments: args, Span: t.Span}, nil
	case FunctionExpression:
		args, err := s.renameAll(t.Arguments)
		if err != nil {
			return nil, err
		}
		return FunctionExpression{Name: t.Name, Arguments: args, Span: t.Span}, nil
	case UnaryExpression:
		arg, err := s.Rename(t.Argument)
		if err != nil {
			return nil, err
		}
		return UnaryExpression{Operator: t.Operator, Argument: arg, Span: t.Span}, nil
	case BinaryExpression:
		left, err := s.Rename(t.Left)
		if err != nil {
			return nil, err
		}
		right, err := s.Rename(t.Right)
		if err != nil {
			return nil, err
		}
		return BinaryExpression{Operator: t.Operator, Left: left, Right: right, Span: t.Span}, nil
	case ExpressionStatement:
		inner, err := s.Rename(t.Expression)
		if err != nil {
			return nil, err
		}
		return ExpressionStatement{Expression: inner, Span: t.Span}, nil
	case QuantifiedExpression:
		return s.renameQuantified(t)
	default:
		return n, nil
	}
}

func (s *Scope) renameQuantified(q QuantifiedExpression) (Node, error) {
	name := q.Variable.Name
	target := name
	if s.used[name] {
		fresh, err := s.fresh()
		if err != nil {
			return nil, err
		}
		target = fresh
	}
	s.used[name] = true
	s.used[target] = true

	prev, hadPrev := s.renames[name]
	if target != name {
		s.renames[name] = target
	} else {
		delete(s.renames, name)
	}

	body, err := s.Rename(q.Expression)

	if hadPrev {
		s.renames[name] = prev
	} else {
		delete(s.renames, name)
	}
	if err != nil {
		return nil, err
	}

	v := q.Variable
	v.Name = target
	return QuantifiedExpression{Quantifier: q.Quantifier, Variable: v, Expression: body, Span: q.Span}, nil
}

func (s *Scope) renameAll(args []Node) ([]Node, error) {
	out := make([]Node, len(args))
	for i, a := range args {
		r, err := s.Rename(a)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

// fresh pops the next unused name off the end of the pool.
func (s *Scope) fresh() (string, error) {
	for len(s.available) > 0 {
		name := s.available[len(s.available)-1]
		s.available = s.available[:len(s.available)-1]
		if !s.used[name] {
			return name, nil
		}
	}
	return "", ErrFormulaTooComplex
}
