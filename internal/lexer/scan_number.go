package lexer

import (
	"mocheck/internal/diag"
	"mocheck/internal/token"
)

// scanNumber scans UNSIGNED_NUMBER:
//
//	DIGIT { DIGIT } [ "." { DIGIT } ] [ ( "e" | "E" ) [ "+" | "-" ] DIGIT { DIGIT } ]
//
// A missing exponent digit is reported and the token is returned as Invalid.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()

	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}

	// "1." is a complete real literal; in "a[1].b" the dot belongs to the component reference
	if lx.cursor.Peek() == '.' && lx.dotContinuesNumber() {
		lx.cursor.Bump()
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}

	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		lx.cursor.Bump()
		if b := lx.cursor.Peek(); b == '+' || b == '-' {
			lx.cursor.Bump()
		}
		if !isDec(lx.cursor.Peek()) {
			tok := lx.emit(token.Invalid, start)
			lx.errLex(diag.LexBadNumber, tok.Span, "expected digit after exponent")
			return tok
		}
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}

	// "12abc" is not two tokens
	if isIdentStartByte(lx.cursor.Peek()) {
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		tok := lx.emit(token.Invalid, start)
		lx.errLex(diag.LexBadNumber, tok.Span, "invalid number literal "+quoteText(tok.Text))
		return tok
	}

	return lx.emit(token.NumberLit, start)
}

func (lx *Lexer) dotContinuesNumber() bool {
	next := lx.cursor.PeekAt(1)
	if !isIdentStartByte(next) {
		return true
	}
	if next != 'e' && next != 'E' {
		return false
	}
	after := lx.cursor.PeekAt(2)
	if after == '+' || after == '-' {
		after = lx.cursor.PeekAt(3)
	}
	return isDec(after)
}
