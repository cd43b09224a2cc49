package internal

import (
	"errors"
	"go/token"
	"unicode/utf8"

	"github.com/gnolang/fol/formula"
	tt "github.com/gnolang/fol/internal/types"
)

// IssueFromError turns an error from the formula package into an Issue
// positioned on the given line. Columns are 1-based byte offsets.
func IssueFromError(err error, input string, line int) tt.Issue {
	issue := tt.Issue{
		Message:  err.Error(),
		Severity: tt.SeverityError,
		Start:    token.Position{Line: line, Column: 1},
		End:      token.Position{Line: line, Column: len(input) + 1},
	}

	var (
		lexErr      *formula.LexError
		parseErr    *formula.ParseError
		conflictErr *formula.NameConflictError
	)
	switch {
	case errors.As(err, &lexErr):
		issue.Rule = "lex-error"
		issue.Category = "syntax"
		issue.Start = position(line, lexErr.Pos)
		issue.End = position(line, lexErr.Pos+utf8.RuneLen(lexErr.Char))
		if lexErr.Kind == formula.MalformedOperator {
			issue.Suggestion = "use '->' for implication"
		}
	case errors.As(err, &parseErr):
		issue.Rule = "parse-error"
		issue.Category = "syntax"
		issue.Message = parseErr.Message
		end := parseErr.End
		if end <= parseErr.Pos {
			end = parseErr.Pos + 1
		}
		issue.Start = position(line, parseErr.Pos)
		issue.End = position(line, end)
		issue.Note = parseErr.Kind.String()
	case errors.As(err, &conflictErr):
		issue.Rule = "name-conflict"
		issue.Note = "rename the function or the variable so each name has one role"
	case errors.Is(err, formula.ErrFormulaTooComplex):
		issue.Rule = "formula-too-complex"
		issue.Note = "too many quantifiers need fresh names"
	default:
		issue.Rule = "transform-error"
	}
	return issue
}

func position(line, offset int) token.Position {
	return token.Position{Offset: offset, Line: line, Column: offset + 1}
}
