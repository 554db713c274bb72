package parser

import (
	"mocheck/internal/ast"
	"mocheck/internal/diag"
	"mocheck/internal/token"
)

// parseEquationSection parses equation { some_equation ";" }. A leading
// "initial" was already consumed by the caller.
func (p *Parser) parseEquationSection(owner ast.ClassID) {
	p.advance() // equation
	n := p.parseEquationList()
	p.arenas.Classes.Get(owner).Equations += n
}

// parseEquationList parses equations until a section boundary or a nested
// block keyword (elseif, else, elsewhen, end) and returns how many were read.
func (p *Parser) parseEquationList() int {
	n := 0
	for !p.atSectionBoundary() && !p.canceled() {
		if p.atOr(token.KwEnd, token.KwElseif, token.KwElse, token.KwElsewhen, token.KwAnnotation) {
			break
		}
		before := p.consumed
		if !p.parseEquation() {
			p.skipBroken(before)
			continue
		}
		n++
		p.expectSemicolon("after equation")
	}
	return n
}

// parseEquation parses
//
//	( simple_expression "=" expression | if_equation | for_equation
//	| connect_clause | when_equation | component_reference function_call_args ) comment
func (p *Parser) parseEquation() bool {
	ok := true
	switch p.peek().Kind {
	case token.KwIf:
		ok = p.parseIfBlock(p.parseEquationList)
	case token.KwFor:
		ok = p.parseForBlock(p.parseEquationList)
	case token.KwWhen:
		ok = p.parseWhenBlock(p.parseEquationList)
	case token.KwConnect:
		ok = p.parseConnectClause()
	default:
		lhs := p.parseSimpleExpression()
		if !lhs.ok {
			return false
		}
		if p.eat(token.Assign) {
			ok = p.parseExpression()
		} else if !lhs.call {
			if p.at(token.ColonAssign) {
				p.err(diag.SynExpectEquals, "':=' is not allowed in an equation, use '='")
			} else {
				p.err(diag.SynExpectEquals, "expected '=' in equation, got "+describe(p.peek()))
			}
			return false
		}
	}
	if !ok {
		return false
	}
	p.parseComment()
	return true
}

// parseConnectClause parses connect "(" component_reference "," component_reference ")".
func (p *Parser) parseConnectClause() bool {
	p.advance() // connect
	open, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after 'connect', got "+describe(p.peek()))
	if !ok {
		return false
	}
	if !p.parseComponentReference() {
		return false
	}
	if _, ok := p.expect(token.Comma, diag.SynUnexpectedToken, "expected ',' in connect, got "+describe(p.peek())); !ok {
		return false
	}
	if !p.parseComponentReference() {
		return false
	}
	return p.expectClose(token.RParen, open.Span)
}

// parseIfBlock parses
//
//	if expression then body { elseif expression then body } [ else body ] end if
//
// body parses the branch contents; it is shared by equations and statements.
func (p *Parser) parseIfBlock(body func() int) bool {
	open := p.advance() // if
	if !p.parseExpression() {
		return false
	}
	if _, ok := p.expect(token.KwThen, diag.SynExpectThen, "expected 'then' after if condition, got "+describe(p.peek())); !ok {
		return false
	}
	body()
	for p.at(token.KwElseif) {
		p.advance()
		if !p.parseExpression() {
			return false
		}
		if _, ok := p.expect(token.KwThen, diag.SynExpectThen, "expected 'then' after elseif condition, got "+describe(p.peek())); !ok {
			return false
		}
		body()
	}
	if p.eat(token.KwElse) {
		body()
	}
	return p.expectEndOf(token.KwIf, open)
}

// parseForBlock parses for for_indices loop body end for.
func (p *Parser) parseForBlock(body func() int) bool {
	open := p.advance() // for
	if !p.parseForIndices() {
		return false
	}
	if _, ok := p.expect(token.KwLoop, diag.SynExpectLoop, "expected 'loop' after for indices, got "+describe(p.peek())); !ok {
		return false
	}
	body()
	return p.expectEndOf(token.KwFor, open)
}

// parseWhenBlock parses when expression then body { elsewhen expression then body } end when.
func (p *Parser) parseWhenBlock(body func() int) bool {
	open := p.advance() // when
	if !p.parseExpression() {
		return false
	}
	if _, ok := p.expect(token.KwThen, diag.SynExpectThen, "expected 'then' after when condition, got "+describe(p.peek())); !ok {
		return false
	}
	body()
	for p.at(token.KwElsewhen) {
		p.advance()
		if !p.parseExpression() {
			return false
		}
		if _, ok := p.expect(token.KwThen, diag.SynExpectThen, "expected 'then' after elsewhen condition, got "+describe(p.peek())); !ok {
			return false
		}
		body()
	}
	return p.expectEndOf(token.KwWhen, open)
}

// parseForIndices parses for_index { "," for_index } where for_index is IDENT [ in expression ].
func (p *Parser) parseForIndices() bool {
	for {
		if _, ok := p.expectIdent("loop index"); !ok {
			return false
		}
		if p.eat(token.KwIn) && !p.parseExpression() {
			return false
		}
		if !p.eat(token.Comma) {
			return true
		}
	}
}

// expectEndOf parses "end <kw>" that closes the block opened by open.
// A missing close is reported without consuming, so the class "end" stays
// available to the enclosing definition.
func (p *Parser) expectEndOf(kw token.Kind, open token.Token) bool {
	if p.at(token.KwEnd) && p.peekN(1).Kind == kw {
		p.advance()
		p.advance()
		return true
	}
	p.report(diag.SynExpectEnd, diag.SevError, p.getDiagnosticSpan(),
		"expected 'end "+kw.Text()+"', got "+describe(p.peek()),
		[]diag.Note{{Span: open.Span, Msg: "'" + open.Text + "' opened here"}})
	return false
}
