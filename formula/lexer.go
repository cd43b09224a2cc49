package formula

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer is responsible for scanning the input string and producing tokens.
type Lexer struct {
	input    string // the entire input to tokenize
	position int    // current byte offset in input
	tokens   []Token
}

// NewLexer returns a new Lexer with the given input and initializes state.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:    input,
		position: 0,
		tokens:   make([]Token, 0),
	}
}

// Tokenize is shorthand for NewLexer(input).Tokenize().
func Tokenize(input string) ([]Token, error) {
	return NewLexer(input).Tokenize()
}

// Tokenize processes the entire input and produces the list of tokens.
// It stops at the first character that cannot start a token.
func (l *Lexer) Tokenize() ([]Token, error) {
	for {
		l.skipWhitespace()
		if l.done() {
			return l.tokens, nil
		}

		start := l.position
		c, size := utf8.DecodeRuneInString(l.input[l.position:])

		switch {
		case c == '0' || c == '1':
			l.position += size
			l.addBoolean(c == '1', start)

		case isAlpha(c):
			l.lexAlpha()

		case c == '-':
			if l.peekByte(1) != '>' {
				return nil, &LexError{Kind: MalformedOperator, Char: c, Pos: start}
			}
			l.position += 2
			l.addToken(TokenImplication, KindOperator, start, "")

		default:
			typ, ok := symbols[c]
			if !ok {
				return nil, &LexError{Kind: UnrecognizedSymbol, Char: c, Pos: start}
			}
			l.position += size
			if typ == TokenTrue || typ == TokenFalse {
				l.addBoolean(typ == TokenTrue, start)
				continue
			}
			l.addToken(typ, KindOperator, start, "")
		}
	}
}

// lexAlpha scans a run of ASCII letters and classifies it.
func (l *Lexer) lexAlpha() {
	start := l.position

	// ASCII quantifier shorthand: "A." and "E."
	if l.peekByte(1) == '.' {
		switch l.input[start] {
		case 'A':
			l.position += 2
			l.addToken(TokenUniversal, KindOperator, start, "")
			return
		case 'E':
			l.position += 2
			l.addToken(TokenExistential, KindOperator, start, "")
			return
		}
	}

	for l.position < len(l.input) && isAlpha(rune(l.input[l.position])) {
		l.position++
	}
	word := l.input[start:l.position]

	switch {
	case strings.EqualFold(word, "true"):
		l.addBoolean(true, start)
	case strings.EqualFold(word, "false"):
		l.addBoolean(false, start)
	case unicode.IsUpper(rune(word[0])):
		l.addToken(TokenPredicate, KindName, start, word)
	case l.peekByte(0) == '(':
		l.addToken(TokenFunctionExpression, KindName, start, word)
	default:
		l.addToken(TokenVariableOrConstant, KindName, start, word)
	}
}

func (l *Lexer) skipWhitespace() {
	for !l.done() {
		c, size := utf8.DecodeRuneInString(l.input[l.position:])
		if !unicode.IsSpace(c) {
			return
		}
		l.position += size
	}
}

func (l *Lexer) done() bool {
	return l.position >= len(l.input)
}

// peekByte returns the byte at offset n from the current position, or 0.
func (l *Lexer) peekByte(n int) byte {
	if l.position+n >= len(l.input) {
		return 0
	}
	return l.input[l.position+n]
}

func (l *Lexer) addBoolean(value bool, start int) {
	typ := TokenFalse
	if value {
		typ = TokenTrue
	}
	l.addToken(typ, KindBoolean, start, "")
}

// addToken is a helper to append a new token ending at the current position.
func (l *Lexer) addToken(typ TokenType, kind TokenKind, start int, value string) {
	l.tokens = append(l.tokens, Token{
		Type:  typ,
		Kind:  kind,
		Start: start,
		End:   l.position,
		Value: value,
	})
}

func isAlpha(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
