package token

import (
	"mocheck/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is a number, string, or boolean literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case NumberLit, StringLit, KwTrue, KwFalse:
		return true
	default:
		return false
	}
}

// IsPunctOrOp reports whether the token is a punctuation or operator.
func (t Token) IsPunctOrOp() bool {
	return t.Kind >= Plus && t.Kind <= Dot
}

// IsKeyword reports whether the token is a reserved word.
func (t Token) IsKeyword() bool { return IsKeywordKind(t.Kind) }

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsQuotedIdent reports whether the identifier was written as 'Q-IDENT'.
func (t Token) IsQuotedIdent() bool {
	return t.Kind == Ident && len(t.Text) >= 2 && t.Text[0] == '\''
}
