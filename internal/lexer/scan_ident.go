package lexer

import (
	"mocheck/internal/diag"
	"mocheck/internal/token"
)

const utf8RuneSelf = 0x80

// scanIdentOrKeyword scans NONDIGIT { DIGIT | NONDIGIT } and checks LookupKeyword.
// Token.Text is exactly the source slice.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}

	tok := lx.emit(token.Ident, start)
	if k, ok := token.LookupKeyword(tok.Text); ok {
		tok.Kind = k
	}
	return tok
}

// scanQuotedIdent scans a Q-IDENT: "'" { Q-CHAR | S-ESCAPE } "'".
// A newline or EOF before the closing quote is reported and the token ends there.
func (lx *Lexer) scanQuotedIdent() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '\''
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch b {
		case '\'':
			lx.cursor.Bump()
			tok := lx.emit(token.Ident, start)
			if len(tok.Text) == 2 {
				lx.errLex(diag.LexUnterminatedQIdent, tok.Span, "empty quoted identifier")
				tok.Kind = token.Invalid
			}
			return tok
		case '\\':
			lx.scanEscape()
			continue
		case '\n':
			tok := lx.emit(token.Invalid, start)
			lx.errLex(diag.LexUnterminatedQIdent, tok.Span, "newline in quoted identifier")
			return tok
		}
		lx.cursor.Bump()
	}
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnterminatedQIdent, tok.Span, "unterminated quoted identifier")
	return tok
}

// scanUnknownRune consumes one non-ASCII rune outside strings and comments.
func (lx *Lexer) scanUnknownRune() token.Token {
	start := lx.cursor.Mark()
	lx.bumpRune()
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnknownChar, tok.Span, "unexpected character "+quoteText(tok.Text))
	return tok
}
