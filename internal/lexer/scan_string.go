package lexer

import (
	"mocheck/internal/diag"
	"mocheck/internal/token"
)

// scanString scans "..." with S-ESCAPE sequences. Strings may span lines.
// The token keeps the raw text including quotes and escapes.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'
	for !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case '"':
			lx.cursor.Bump()
			return lx.emit(token.StringLit, start)
		case '\\':
			lx.scanEscape()
		default:
			lx.cursor.Bump()
		}
	}
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnterminatedString, tok.Span, "unterminated string literal")
	return tok
}

// scanEscape consumes '\' and the escaped byte, reporting unknown escapes.
func (lx *Lexer) scanEscape() {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '\'
	if lx.cursor.EOF() {
		return
	}
	b := lx.cursor.Peek()
	if isSimpleEscape(b) {
		lx.cursor.Bump()
		return
	}
	if b >= utf8RuneSelf {
		lx.bumpRune()
	} else {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexBadEscape, sp, "unknown escape sequence "+quoteText(string(lx.file.Content[sp.Start:sp.End])))
}

func isSimpleEscape(b byte) bool {
	switch b {
	case '\'', '"', '?', '\\', 'a', 'b', 'f', 'n', 'r', 't', 'v':
		return true
	}
	return false
}
