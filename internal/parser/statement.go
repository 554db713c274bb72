package parser

import (
	"mocheck/internal/ast"
	"mocheck/internal/diag"
	"mocheck/internal/token"
)

// parseAlgorithmSection parses algorithm { statement ";" }.
func (p *Parser) parseAlgorithmSection(owner ast.ClassID) {
	p.advance() // algorithm
	n := p.parseStatementList()
	p.arenas.Classes.Get(owner).Statements += n
}

func (p *Parser) parseStatementList() int {
	n := 0
	for !p.atSectionBoundary() && !p.canceled() {
		if p.atOr(token.KwEnd, token.KwElseif, token.KwElse, token.KwElsewhen, token.KwAnnotation) {
			break
		}
		before := p.consumed
		if !p.parseStatement() {
			p.skipBroken(before)
			continue
		}
		n++
		p.expectSemicolon("after statement")
	}
	return n
}

// parseStatement parses
//
//	( component_reference ( ":=" expression | function_call_args )
//	| "(" output_expression_list ")" ":=" component_reference function_call_args
//	| break | return | if_statement | for_statement | while_statement | when_statement ) comment
func (p *Parser) parseStatement() bool {
	ok := true
	switch p.peek().Kind {
	case token.KwBreak, token.KwReturn:
		p.advance()
	case token.KwIf:
		ok = p.parseIfBlock(p.parseStatementList)
	case token.KwFor:
		ok = p.parseForBlock(p.parseStatementList)
	case token.KwWhen:
		ok = p.parseWhenBlock(p.parseStatementList)
	case token.KwWhile:
		ok = p.parseWhileBlock()
	case token.LParen:
		ok = p.parseMultiAssignment()
	case token.Ident, token.Dot:
		ok = p.parseAssignmentOrCall()
	default:
		p.err(diag.SynUnexpectedToken, "expected statement, got "+describe(p.peek()))
		return false
	}
	if !ok {
		return false
	}
	p.parseComment()
	return true
}

func (p *Parser) parseAssignmentOrCall() bool {
	if !p.parseComponentReference() {
		return false
	}
	switch {
	case p.eat(token.ColonAssign):
		return p.parseExpression()
	case p.at(token.LParen):
		return p.parseFunctionCallArgs()
	case p.at(token.Assign):
		p.err(diag.SynExpectAssign, "'=' is not allowed in an algorithm, use ':='")
		return false
	}
	p.err(diag.SynExpectAssign, "expected ':=' or function call, got "+describe(p.peek()))
	return false
}

// parseMultiAssignment parses "(" output_expression_list ")" ":=" component_reference function_call_args.
func (p *Parser) parseMultiAssignment() bool {
	open := p.advance() // (
	if !p.parseOutputExpressionList() {
		return false
	}
	if !p.expectClose(token.RParen, open.Span) {
		return false
	}
	if _, ok := p.expect(token.ColonAssign, diag.SynExpectAssign, "expected ':=' after output list, got "+describe(p.peek())); !ok {
		return false
	}
	if !p.parseComponentReference() {
		return false
	}
	if !p.at(token.LParen) {
		p.err(diag.SynUnexpectedToken, "expected function call on the right of a multiple assignment, got "+describe(p.peek()))
		return false
	}
	return p.parseFunctionCallArgs()
}

// parseWhileBlock parses while expression loop { statement ";" } end while.
func (p *Parser) parseWhileBlock() bool {
	open := p.advance() // while
	if !p.parseExpression() {
		return false
	}
	if _, ok := p.expect(token.KwLoop, diag.SynExpectLoop, "expected 'loop' after while condition, got "+describe(p.peek())); !ok {
		return false
	}
	p.parseStatementList()
	return p.expectEndOf(token.KwWhile, open)
}
