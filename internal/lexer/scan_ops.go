package lexer

import (
	"mocheck/internal/diag"
	"mocheck/internal/token"
)

// scanOperatorOrPunct is greedy: two-byte operators are tried before single bytes.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()

	switch {
	case lx.try2('.', '+'):
		return lx.emit(token.DotPlus, start)
	case lx.try2('.', '-'):
		return lx.emit(token.DotMinus, start)
	case lx.try2('.', '*'):
		return lx.emit(token.DotStar, start)
	case lx.try2('.', '/'):
		return lx.emit(token.DotSlash, start)
	case lx.try2('.', '^'):
		return lx.emit(token.DotCaret, start)
	case lx.try2(':', '='):
		return lx.emit(token.ColonAssign, start)
	case lx.try2('=', '='):
		return lx.emit(token.EqEq, start)
	case lx.try2('<', '>'):
		return lx.emit(token.LtGt, start)
	case lx.try2('<', '='):
		return lx.emit(token.LtEq, start)
	case lx.try2('>', '='):
		return lx.emit(token.GtEq, start)
	}

	ch := lx.cursor.Bump()
	switch ch {
	case '+':
		return lx.emit(token.Plus, start)
	case '-':
		return lx.emit(token.Minus, start)
	case '*':
		return lx.emit(token.Star, start)
	case '/':
		return lx.emit(token.Slash, start)
	case '^':
		return lx.emit(token.Caret, start)
	case '=':
		return lx.emit(token.Assign, start)
	case '<':
		return lx.emit(token.Lt, start)
	case '>':
		return lx.emit(token.Gt, start)
	case ':':
		return lx.emit(token.Colon, start)
	case ';':
		return lx.emit(token.Semicolon, start)
	case ',':
		return lx.emit(token.Comma, start)
	case '.':
		return lx.emit(token.Dot, start)
	case '(':
		return lx.emit(token.LParen, start)
	case ')':
		return lx.emit(token.RParen, start)
	case '{':
		return lx.emit(token.LBrace, start)
	case '}':
		return lx.emit(token.RBrace, start)
	case '[':
		return lx.emit(token.LBracket, start)
	case ']':
		return lx.emit(token.RBracket, start)
	default:
		tok := lx.emit(token.Invalid, start)
		lx.errLex(diag.LexUnknownChar, tok.Span, "unexpected character "+quoteText(tok.Text))
		return tok
	}
}
