package parser

import (
	"slices"
	"strconv"

	"mocheck/internal/diag"
	"mocheck/internal/source"
	"mocheck/internal/token"
)

// peekN returns the n-th upcoming token (0 is the next one).
func (p *Parser) peekN(n int) token.Token {
	for len(p.la) <= n {
		tok := p.lx.Next()
		if tok.Kind == token.Invalid {
			// already reported by the lexer
			continue
		}
		p.la = append(p.la, tok)
	}
	return p.la[n]
}

func (p *Parser) peek() token.Token {
	return p.peekN(0)
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

// advance consumes the next token and updates lastSpan. EOF is never consumed.
func (p *Parser) advance() token.Token {
	tok := p.peek()
	if tok.Kind == token.EOF {
		return tok
	}
	copy(p.la, p.la[1:])
	p.la = p.la[:len(p.la)-1]
	p.lastSpan = tok.Span
	p.consumed++
	return tok
}

// eat consumes the next token if it has kind k.
func (p *Parser) eat(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

// getDiagnosticSpan returns the best span for a diagnostic at the current position.
// At EOF it points just past the last consumed token.
func (p *Parser) getDiagnosticSpan() source.Span {
	peek := p.peek()
	if peek.Kind == token.EOF && p.consumed > 0 {
		return p.lastSpan.At()
	}
	return peek.Span
}

// expect consumes a token of kind k or reports code with msg.
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	diagSpan := p.getDiagnosticSpan()
	p.report(code, diag.SevError, diagSpan, msg, nil)
	return token.Token{Kind: token.Invalid, Span: diagSpan}, false
}

// expectClose consumes the closing delimiter k or reports an unclosed
// delimiter with a note pointing at open.
func (p *Parser) expectClose(k token.Kind, open source.Span) bool {
	if p.eat(k) {
		return true
	}
	var code diag.Code
	switch k {
	case token.RBracket:
		code = diag.SynUnclosedBracket
	case token.RBrace:
		code = diag.SynUnclosedBrace
	default:
		code = diag.SynUnclosedParen
	}
	msg := "expected '" + k.Text() + "', got " + describe(p.peek())
	p.report(code, diag.SevError, p.getDiagnosticSpan(), msg, []diag.Note{{Span: open, Msg: "opened here"}})
	return false
}

func (p *Parser) expectSemicolon(context string) bool {
	_, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' "+context+", got "+describe(p.peek()))
	return ok
}

func (p *Parser) expectIdent(what string) (token.Token, bool) {
	return p.expect(token.Ident, diag.SynExpectIdentifier, "expected "+what+", got "+describe(p.peek()))
}

// err reports an error at the current position.
func (p *Parser) err(code diag.Code, msg string) bool {
	return p.report(code, diag.SevError, p.getDiagnosticSpan(), msg, nil)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string, notes []diag.Note) bool {
	suppressed := sev == diag.SevError && p.opts.Enough()
	if sev == diag.SevError {
		p.opts.CurrentErrors++
	}
	if suppressed || p.opts.Reporter == nil {
		return false
	}
	p.opts.Reporter.Report(code, sev, sp, msg, notes)
	return true
}

// resyncUntil skips tokens until one of stops or EOF. A ';' is consumed and ends the skip.
func (p *Parser) resyncUntil(stops ...token.Kind) {
	for !p.at(token.EOF) {
		k := p.peek().Kind
		if k == token.Semicolon {
			p.advance()
			return
		}
		if slices.Contains(stops, k) {
			return
		}
		p.advance()
	}
}

// atSectionBoundary reports whether the next tokens start a new class section
// or close the class.
func (p *Parser) atSectionBoundary() bool {
	switch p.peek().Kind {
	case token.EOF, token.KwPublic, token.KwProtected, token.KwEquation, token.KwAlgorithm, token.KwExternal:
		return true
	case token.KwInitial:
		return p.atInitialSection()
	case token.KwEnd:
		return p.atClassEnd()
	}
	return false
}

// atInitialSection distinguishes "initial equation" from the initial() operator.
func (p *Parser) atInitialSection() bool {
	if !p.at(token.KwInitial) {
		return false
	}
	next := p.peekN(1).Kind
	return next == token.KwEquation || next == token.KwAlgorithm
}

// atClassEnd reports "end" that is not "end if", "end for", "end when" or "end while".
func (p *Parser) atClassEnd() bool {
	if !p.at(token.KwEnd) {
		return false
	}
	switch p.peekN(1).Kind {
	case token.KwIf, token.KwFor, token.KwWhen, token.KwWhile:
		return false
	}
	return true
}

// skipBroken skips a broken element, equation or statement up to the next ';'.
// It stops early at a section boundary, and at a nested block keyword once
// something was skipped. At least one token is consumed unless at a boundary.
func (p *Parser) skipBroken(before uint64) {
	for !p.at(token.EOF) && !p.atSectionBoundary() {
		switch p.peek().Kind {
		case token.Semicolon:
			p.advance()
			return
		case token.KwEnd, token.KwElseif, token.KwElse, token.KwElsewhen:
			if p.consumed != before {
				return
			}
		}
		p.advance()
	}
}

func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of file"
	case token.Ident:
		return "identifier " + strconv.Quote(tok.Text)
	case token.NumberLit:
		return "number " + tok.Text
	case token.StringLit:
		return "string"
	}
	return "'" + tok.Text + "'"
}
