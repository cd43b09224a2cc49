package formula

// TokenType identifies a token. It doubles as the symbol id the parser
// uses to look up binding powers and denotation handlers.
type TokenType int

const (
	TokenNone TokenType = iota
	TokenTrue
	TokenFalse
	TokenVariableOrConstant
	TokenPredicate
	TokenFunctionExpression
	TokenConjunction
	TokenDisjunction
	TokenImplication
	TokenNegation
	TokenUniversal
	TokenExistential
	TokenLeftParen
	TokenRightParen
	TokenComma
	TokenEnd // end of input, never produced by the lexer

	numTokenTypes
)

func (t TokenType) String() string {
	switch t {
	case TokenTrue:
		return "True"
	case TokenFalse:
		return "False"
	case TokenVariableOrConstant:
		return "VariableOrConstant"
	case TokenPredicate:
		return "Predicate"
	case TokenFunctionExpression:
		return "FunctionExpression"
	case TokenConjunction:
		return "Conjunction"
	case TokenDisjunction:
		return "Disjunction"
	case TokenImplication:
		return "Implication"
	case TokenNegation:
		return "Negation"
	case TokenUniversal:
		return "Universal"
	case TokenExistential:
		return "Existential"
	case TokenLeftParen:
		return "LeftParen"
	case TokenRightParen:
		return "RightParen"
	case TokenComma:
		return "Comma"
	case TokenEnd:
		return "End"
	default:
		return "None"
	}
}

// TokenKind is the coarse lexical class of a token.
type TokenKind int

const (
	KindOperator TokenKind = iota
	KindName
	KindBoolean
)

func (k TokenKind) String() string {
	switch k {
	case KindOperator:
		return "operator"
	case KindName:
		return "name"
	case KindBoolean:
		return "boolean"
	default:
		return "unknown"
	}
}

// Token is a single lexical token. Start and End are byte offsets into
// the source; Value is set for name tokens only.
type Token struct {
	Type  TokenType
	Kind  TokenKind
	Start int
	End   int
	Value string
}

// symbols maps single-rune operators to their token type.
var symbols = map[rune]TokenType{
	'&': TokenConjunction,
	'∧': TokenConjunction,
	'|': TokenDisjunction,
	'∨': TokenDisjunction,
	'→': TokenImplication,
	'(': TokenLeftParen,
	')': TokenRightParen,
	',': TokenComma,
	'∃': TokenExistential,
	'∀': TokenUniversal,
	'!': TokenNegation,
	'¬': TokenNegation,
	'~': TokenNegation,
	'⊤': TokenTrue,
	'⊥': TokenFalse,
}
