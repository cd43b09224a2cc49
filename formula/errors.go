package formula

import (
	"errors"
	"fmt"
)

// LexErrorKind categorizes lexical errors.
type LexErrorKind int

const (
	UnrecognizedSymbol LexErrorKind = iota
	MalformedOperator
)

// LexError reports a character the lexer could not turn into a token.
// Pos is the byte offset of the character.
type LexError struct {
	Kind LexErrorKind
	Char rune
	Pos  int
}

func (e *LexError) Error() string {
	if e.Kind == MalformedOperator {
		return fmt.Sprintf("malformed operator: '%c' (at %d), expected '->'", e.Char, e.Pos+1)
	}
	return fmt.Sprintf("unrecognized symbol: '%c' (at %d)", e.Char, e.Pos+1)
}

// ParseErrorKind categorizes syntax errors.
type ParseErrorKind int

const (
	UnexpectedToken ParseErrorKind = iota
	UnexpectedEnd
	InvalidArgument
	EmptyFunctionArguments
	MissingVariable
	TooDeep
)

func (k ParseErrorKind) String() string {
	switch k {
	case UnexpectedToken:
		return "unexpected token"
	case UnexpectedEnd:
		return "unexpected end of input"
	case InvalidArgument:
		return "invalid argument"
	case EmptyFunctionArguments:
		return "empty function arguments"
	case MissingVariable:
		return "missing variable"
	case TooDeep:
		return "nesting too deep"
	default:
		return "unknown"
	}
}

// ParseError reports a syntax error. Token is the offending token type
// and Pos its byte offset in the source.
type ParseError struct {
	Kind    ParseErrorKind
	Token   TokenType
	Pos     int
	End     int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s (at %d)", e.Message, e.Pos+1)
}

// NameConflictError is returned when one identifier is used both as a
// function symbol and as a variable or constant.
type NameConflictError struct {
	Name   string
	First  NameKind
	Second NameKind
}

func (e *NameConflictError) Error() string {
	return fmt.Sprintf("found conflict between variable and function name ('%s'): first seen as %s, then as %s",
		e.Name, e.First, e.Second)
}

// ErrFormulaTooComplex is returned by Rename when the pool of fresh
// single-letter names runs out.
var ErrFormulaTooComplex = errors.New("formula too complex: no fresh variable names left")
