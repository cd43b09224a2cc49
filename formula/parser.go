package formula

import "fmt"

// DefaultMaxDepth bounds how deeply expressions may nest before the
// parser gives up.
const DefaultMaxDepth = 256

// Binding powers.
const (
	bpImplication = 40
	bpJunction    = 50 // conjunction and disjunction
	bpNegation    = 70
)

type (
	nudFn func(p *Parser, t Token) (Node, error)
	ledFn func(p *Parser, t Token, left Node) (Node, error)
)

// symbol is the parser's view of a token type: its left binding power
// and the handlers used when it starts or continues an expression.
type symbol struct {
	lbp int
	nud nudFn
	led ledFn
}

// symbolTable is indexed by TokenType and filled once in init.
var symbolTable [numTokenTypes]symbol

func init() {
	prefix := func(t TokenType, nud nudFn) { symbolTable[t].nud = nud }
	infix := func(t TokenType, bp int, op Operator) {
		symbolTable[t].lbp = bp
		symbolTable[t].led = binaryLed(op, bp)
	}

	prefix(TokenVariableOrConstant, nudVariable)
	prefix(TokenTrue, nudLiteral)
	prefix(TokenFalse, nudLiteral)
	prefix(TokenPredicate, nudPredicate)
	prefix(TokenFunctionExpression, nudFunction)
	prefix(TokenNegation, nudNegation)
	prefix(TokenLeftParen, nudGroup)
	prefix(TokenUniversal, nudQuantifier(Universal))
	prefix(TokenExistential, nudQuantifier(Existential))

	infix(TokenDisjunction, bpJunction, Disjunction)
	infix(TokenConjunction, bpJunction, Conjunction)
	infix(TokenImplication, bpImplication, Implication)
}

// Parser builds a formula tree from source text using top-down operator
// precedence. A Parser may be reused but not shared between goroutines.
type Parser struct {
	maxDepth int

	tokens []Token
	index  int
	token  Token
	end    int
	depth  int
}

// NewParser creates a new parser with default configuration.
func NewParser() *Parser {
	return &Parser{maxDepth: DefaultMaxDepth}
}

// WithMaxDepth sets the maximum expression nesting depth.
func (p *Parser) WithMaxDepth(depth int) *Parser {
	p.maxDepth = depth
	return p
}

// Parse parses input with a default parser.
func Parse(input string) (Node, error) {
	return NewParser().Parse(input)
}

// Parse tokenizes and parses input. Empty input yields Empty{}.
func (p *Parser) Parse(input string) (Node, error) {
	tokens, err := Tokenize(input)
	if err != nil {
		return nil, err
	}
	p.tokens = tokens
	p.index = 0
	p.depth = 0
	p.end = len(input)

	if len(tokens) == 0 {
		return Empty{}, nil
	}

	if err := p.advance(TokenNone); err != nil {
		return nil, err
	}
	node, err := p.expression(0)
	if err != nil {
		return nil, err
	}
	if p.token.Type != TokenEnd {
		return nil, p.unexpected(p.token)
	}
	return node, nil
}

// advance checks that the current token is of the expected type (unless
// expected is TokenNone) and moves on to the next one.
func (p *Parser) advance(expected TokenType) error {
	if expected != TokenNone && p.token.Type != expected {
		if p.token.Type == TokenEnd {
			return &ParseError{
				Kind:    UnexpectedEnd,
				Token:   TokenEnd,
				Pos:     p.token.Start,
				End:     p.token.End,
				Message: fmt.Sprintf("expected %s (got End)", expected),
			}
		}
		return &ParseError{
			Kind:    UnexpectedToken,
			Token:   p.token.Type,
			Pos:     p.token.Start,
			End:     p.token.End,
			Message: fmt.Sprintf("expected %s (got %s)", expected, p.token.Type),
		}
	}
	if p.index >= len(p.tokens) {
		p.token = Token{Type: TokenEnd, Kind: KindOperator, Start: p.end, End: p.end}
		return nil
	}
	p.token = p.tokens[p.index]
	p.index++
	return nil
}

// expression parses until it meets a token whose left binding power is
// not greater than rbp.
func (p *Parser) expression(rbp int) (Node, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.maxDepth {
		return nil, &ParseError{
			Kind:    TooDeep,
			Token:   p.token.Type,
			Pos:     p.token.Start,
			End:     p.token.End,
			Message: fmt.Sprintf("expression nested deeper than %d levels", p.maxDepth),
		}
	}

	left, err := p.single()
	if err != nil {
		return nil, err
	}

	for rbp < symbolTable[p.token.Type].lbp {
		t := p.token
		if err := p.advance(TokenNone); err != nil {
			return nil, err
		}
		left, err = symbolTable[t.Type].led(p, t, left)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

// single parses exactly one prefix form without looking for trailing
// infix operators.
func (p *Parser) single() (Node, error) {
	t := p.token
	if t.Type == TokenEnd {
		return nil, &ParseError{
			Kind:    UnexpectedEnd,
			Token:   TokenEnd,
			Pos:     t.Start,
			End:     t.End,
			Message: "unexpected end of input",
		}
	}
	nud := symbolTable[t.Type].nud
	if nud == nil {
		return nil, p.unexpected(t)
	}
	if err := p.advance(TokenNone); err != nil {
		return nil, err
	}
	return nud(p, t)
}

func (p *Parser) unexpected(t Token) *ParseError {
	return &ParseError{
		Kind:    UnexpectedToken,
		Token:   t.Type,
		Pos:     t.Start,
		End:     t.End,
		Message: fmt.Sprintf("unexpected %s", t.Type),
	}
}

// arguments parses a comma separated term list after an opening
// parenthesis has been consumed, including the closing parenthesis.
// It returns the arguments and the end offset of the closing parenthesis.
func (p *Parser) arguments(parent string) ([]Node, int, error) {
	args := make([]Node, 0)
	if p.token.Type != TokenRightParen {
		for {
			at := p.token
			arg, err := p.expression(0)
			if err != nil {
				return nil, 0, err
			}
			if !isTerm(arg) {
				return nil, 0, &ParseError{
					Kind:  InvalidArgument,
					Token: at.Type,
					Pos:   at.Start,
					End:   arg.Range().End,
					Message: fmt.Sprintf("%s arguments should be variables, constants, or functions (got %s)",
						parent, kindName(arg)),
				}
			}
			args = append(args, arg)
			if p.token.Type != TokenComma {
				break
			}
			if err := p.advance(TokenComma); err != nil {
				return nil, 0, err
			}
		}
	}
	closing := p.token
	if err := p.advance(TokenRightParen); err != nil {
		return nil, 0, err
	}
	return args, closing.End, nil
}

func nudVariable(_ *Parser, t Token) (Node, error) {
	return VariableOrConstant{Name: t.Value, Span: Span{t.Start, t.End}}, nil
}

func nudLiteral(_ *Parser, t Token) (Node, error) {
	return Literal{Value: t.Type == TokenTrue, Span: Span{t.Start, t.End}}, nil
}

func nudPredicate(p *Parser, t Token) (Node, error) {
	pred := Predicate{Name: t.Value, Arguments: []Node{}, Span: Span{t.Start, t.End}}
	if p.token.Type != TokenLeftParen {
		return pred, nil
	}
	if err := p.advance(TokenLeftParen); err != nil {
		return nil, err
	}
	args, end, err := p.arguments("Predicate")
	if err != nil {
		return nil, err
	}
	pred.Arguments = args
	pred.End = end
	return pred, nil
}

func nudFunction(p *Parser, t Token) (Node, error) {
	open := p.token
	if err := p.advance(TokenLeftParen); err != nil {
		return nil, err
	}
	if p.token.Type == TokenRightParen {
		return nil, &ParseError{
			Kind:    EmptyFunctionArguments,
			Token:   TokenFunctionExpression,
			Pos:     t.Start,
			End:     p.token.End,
			Message: fmt.Sprintf("functions should have at least one argument (%s at %d)", t.Value, open.Start+1),
		}
	}
	args, end, err := p.arguments("Function")
	if err != nil {
		return nil, err
	}
	return FunctionExpression{Name: t.Value, Arguments: args, Span: Span{t.Start, end}}, nil
}

func nudNegation(p *Parser, t Token) (Node, error) {
	arg, err := p.expression(bpNegation)
	if err != nil {
		return nil, err
	}
	return UnaryExpression{
		Operator: Negation,
		Argument: arg,
		Span:     Span{t.Start, arg.Range().End},
	}, nil
}

func nudGroup(p *Parser, t Token) (Node, error) {
	inner, err := p.expression(0)
	if err != nil {
		return nil, err
	}
	closing := p.token
	if err := p.advance(TokenRightParen); err != nil {
		return nil, err
	}
	return ExpressionStatement{Expression: inner, Span: Span{t.Start, closing.End}}, nil
}

// nudQuantifier parses the bound variable and exactly one primary
// expression as the body, so that "E.x f(x) | g(x)" groups as
// "(E.x f(x)) | g(x)".
func nudQuantifier(q Quantifier) nudFn {
	return func(p *Parser, t Token) (Node, error) {
		if p.token.Type != TokenVariableOrConstant {
			return nil, &ParseError{
				Kind:    MissingVariable,
				Token:   p.token.Type,
				Pos:     p.token.Start,
				End:     p.token.End,
				Message: fmt.Sprintf("expected a variable for quantification (got %s)", p.token.Type),
			}
		}
		v, err := p.single()
		if err != nil {
			return nil, err
		}
		p.depth++
		defer func() { p.depth-- }()
		if p.depth > p.maxDepth {
			return nil, &ParseError{
				Kind:    TooDeep,
				Token:   p.token.Type,
				Pos:     p.token.Start,
				End:     p.token.End,
				Message: fmt.Sprintf("expression nested deeper than %d levels", p.maxDepth),
			}
		}
		body, err := p.single()
		if err != nil {
			return nil, err
		}
		return QuantifiedExpression{
			Quantifier: q,
			Variable:   v.(VariableOrConstant),
			Expression: body,
			Span:       Span{t.Start, body.Range().End},
		}, nil
	}
}

// binaryLed parses the right operand at bp-1.
func binaryLed(op Operator, bp int) ledFn {
	return func(p *Parser, _ Token, left Node) (Node, error) {
		right, err := p.expression(bp - 1)
		if err != nil {
			return nil, err
		}
		return BinaryExpression{
			Operator: op,
			Left:     left,
			Right:    right,
			Span:     Span{left.Range().Start, right.Range().End},
		}, nil
	}
}
