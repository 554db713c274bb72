package parser

import (
	"mocheck/internal/diag"
	"mocheck/internal/token"
)

// exprInfo describes a parsed expression. call is true when the whole
// expression is a single function call, which may stand alone as an equation.
type exprInfo struct {
	ok   bool
	call bool
}

var (
	failed = exprInfo{}
	plain  = exprInfo{ok: true}
)

// parseExpression parses
//
//	simple_expression
//	| if expression then expression { elseif expression then expression } else expression
func (p *Parser) parseExpression() bool {
	if !p.at(token.KwIf) {
		return p.parseSimpleExpression().ok
	}
	p.advance() // if
	if !p.parseExpression() {
		return false
	}
	if _, ok := p.expect(token.KwThen, diag.SynExpectThen, "expected 'then' in if-expression, got "+describe(p.peek())); !ok {
		return false
	}
	if !p.parseExpression() {
		return false
	}
	for p.eat(token.KwElseif) {
		if !p.parseExpression() {
			return false
		}
		if _, ok := p.expect(token.KwThen, diag.SynExpectThen, "expected 'then' in if-expression, got "+describe(p.peek())); !ok {
			return false
		}
		if !p.parseExpression() {
			return false
		}
	}
	if _, ok := p.expect(token.KwElse, diag.SynUnexpectedToken, "expected 'else' in if-expression, got "+describe(p.peek())); !ok {
		return false
	}
	return p.parseExpression()
}

// parseSimpleExpression parses logical_expression [ ":" logical_expression [ ":" logical_expression ] ].
func (p *Parser) parseSimpleExpression() exprInfo {
	info := p.parseLogicalExpression()
	if !info.ok {
		return failed
	}
	for range 2 {
		if !p.eat(token.Colon) {
			break
		}
		if !p.parseLogicalExpression().ok {
			return failed
		}
		info = plain
	}
	return info
}

// parseLogicalExpression parses logical_term { or logical_term }.
func (p *Parser) parseLogicalExpression() exprInfo {
	info := p.parseLogicalTerm()
	for info.ok && p.eat(token.KwOr) {
		if !p.parseLogicalTerm().ok {
			return failed
		}
		info = plain
	}
	return info
}

// parseLogicalTerm parses logical_factor { and logical_factor }.
func (p *Parser) parseLogicalTerm() exprInfo {
	info := p.parseLogicalFactor()
	for info.ok && p.eat(token.KwAnd) {
		if !p.parseLogicalFactor().ok {
			return failed
		}
		info = plain
	}
	return info
}

// parseLogicalFactor parses [ not ] relation.
func (p *Parser) parseLogicalFactor() exprInfo {
	if p.eat(token.KwNot) {
		if !p.parseRelation().ok {
			return failed
		}
		return plain
	}
	return p.parseRelation()
}

func isRelOp(k token.Kind) bool {
	switch k {
	case token.Lt, token.LtEq, token.Gt, token.GtEq, token.EqEq, token.LtGt:
		return true
	}
	return false
}

// parseRelation parses arithmetic_expression [ relational_operator arithmetic_expression ].
func (p *Parser) parseRelation() exprInfo {
	info := p.parseArithmeticExpression()
	if info.ok && isRelOp(p.peek().Kind) {
		p.advance()
		if !p.parseArithmeticExpression().ok {
			return failed
		}
		return plain
	}
	return info
}

func isAddOp(k token.Kind) bool {
	switch k {
	case token.Plus, token.Minus, token.DotPlus, token.DotMinus:
		return true
	}
	return false
}

func isMulOp(k token.Kind) bool {
	switch k {
	case token.Star, token.Slash, token.DotStar, token.DotSlash:
		return true
	}
	return false
}

// parseArithmeticExpression parses [ add_operator ] term { add_operator term }.
func (p *Parser) parseArithmeticExpression() exprInfo {
	unary := false
	if isAddOp(p.peek().Kind) {
		p.advance()
		unary = true
	}
	info := p.parseTerm()
	if !info.ok {
		return failed
	}
	if unary {
		info = plain
	}
	for isAddOp(p.peek().Kind) {
		p.advance()
		if !p.parseTerm().ok {
			return failed
		}
		info = plain
	}
	return info
}

// parseTerm parses factor { mul_operator factor }.
func (p *Parser) parseTerm() exprInfo {
	info := p.parseFactor()
	for info.ok && isMulOp(p.peek().Kind) {
		p.advance()
		if !p.parseFactor().ok {
			return failed
		}
		info = plain
	}
	return info
}

// parseFactor parses primary [ ( "^" | ".^" ) primary ].
func (p *Parser) parseFactor() exprInfo {
	info := p.parsePrimary()
	if info.ok && p.atOr(token.Caret, token.DotCaret) {
		p.advance()
		if !p.parsePrimary().ok {
			return failed
		}
		return plain
	}
	return info
}

// parsePrimary parses
//
//	UNSIGNED_NUMBER | STRING | false | true
//	| ( component_reference | der | initial | pure ) function_call_args
//	| component_reference
//	| "(" output_expression_list ")" [ array_subscripts ]
//	| "[" expression_list { ";" expression_list } "]"
//	| "{" array_arguments "}"
//	| end
func (p *Parser) parsePrimary() exprInfo {
	switch p.peek().Kind {
	case token.NumberLit, token.StringLit, token.KwTrue, token.KwFalse:
		p.advance()
		return plain

	case token.Ident, token.Dot:
		if !p.parseComponentReference() {
			return failed
		}
		if p.at(token.LParen) {
			if !p.parseFunctionCallArgs() {
				return failed
			}
			return exprInfo{ok: true, call: true}
		}
		return plain

	case token.KwDer, token.KwInitial, token.KwPure:
		kw := p.advance()
		if !p.at(token.LParen) {
			p.err(diag.SynUnexpectedToken, "expected '(' after '"+kw.Text+"', got "+describe(p.peek()))
			return failed
		}
		if !p.parseFunctionCallArgs() {
			return failed
		}
		return exprInfo{ok: true, call: true}

	case token.LParen:
		open := p.advance()
		if !p.parseOutputExpressionList() {
			return failed
		}
		if !p.expectClose(token.RParen, open.Span) {
			return failed
		}
		if p.at(token.LBracket) && !p.parseArraySubscripts() {
			return failed
		}
		return plain

	case token.LBracket:
		open := p.advance()
		for {
			if !p.parseExpressionList() {
				return failed
			}
			if !p.eat(token.Semicolon) {
				break
			}
		}
		if !p.expectClose(token.RBracket, open.Span) {
			return failed
		}
		return plain

	case token.LBrace:
		open := p.advance()
		if !p.parseArrayArguments() {
			return failed
		}
		if !p.expectClose(token.RBrace, open.Span) {
			return failed
		}
		return plain

	case token.KwEnd:
		if p.subscriptDepth > 0 {
			p.advance()
			return plain
		}
	}

	p.err(diag.SynExpectExpression, "expected expression, got "+describe(p.peek()))
	return failed
}

// parseExpressionList parses expression { "," expression }.
func (p *Parser) parseExpressionList() bool {
	for {
		if !p.parseExpression() {
			return false
		}
		if !p.eat(token.Comma) {
			return true
		}
	}
}

// parseOutputExpressionList parses [ expression ] { "," [ expression ] }.
func (p *Parser) parseOutputExpressionList() bool {
	for {
		if !p.atOr(token.Comma, token.RParen) && !p.parseExpression() {
			return false
		}
		if !p.eat(token.Comma) {
			return true
		}
	}
}

// parseArrayArguments parses expression [ { "," expression } | for for_indices ].
func (p *Parser) parseArrayArguments() bool {
	if !p.parseExpression() {
		return false
	}
	if p.eat(token.KwFor) {
		return p.parseForIndices()
	}
	for p.eat(token.Comma) {
		if !p.parseExpression() {
			return false
		}
	}
	return true
}

// parseFunctionCallArgs parses "(" [ function_arguments ] ")".
func (p *Parser) parseFunctionCallArgs() bool {
	open := p.advance() // (
	if p.eat(token.RParen) {
		return true
	}
	if !p.parseFunctionArguments() {
		return false
	}
	return p.expectClose(token.RParen, open.Span)
}

func (p *Parser) atNamedArgument() bool {
	return p.at(token.Ident) && p.peekN(1).Kind == token.Assign
}

// parseFunctionArguments parses
//
//	function_argument [ "," function_arguments_non_first | for for_indices ]
//	| named_arguments
func (p *Parser) parseFunctionArguments() bool {
	if p.atNamedArgument() {
		return p.parseNamedArguments()
	}
	if !p.parseFunctionArgument() {
		return false
	}
	if p.eat(token.KwFor) {
		return p.parseForIndices()
	}
	for p.eat(token.Comma) {
		if p.atNamedArgument() {
			return p.parseNamedArguments()
		}
		if !p.parseFunctionArgument() {
			return false
		}
	}
	return true
}

// parseNamedArguments parses IDENT "=" function_argument { "," IDENT "=" function_argument }.
func (p *Parser) parseNamedArguments() bool {
	for {
		if _, ok := p.expectIdent("argument name"); !ok {
			return false
		}
		if _, ok := p.expect(token.Assign, diag.SynExpectEquals, "expected '=' after argument name, got "+describe(p.peek())); !ok {
			return false
		}
		if !p.parseFunctionArgument() {
			return false
		}
		if !p.eat(token.Comma) {
			return true
		}
	}
}

// parseFunctionArgument parses function type_specifier "(" [ named_arguments ] ")" | expression.
func (p *Parser) parseFunctionArgument() bool {
	if !p.eat(token.KwFunction) {
		return p.parseExpression()
	}
	if _, ok := p.parseTypeSpecifier(); !ok {
		return false
	}
	open, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' in partial function application, got "+describe(p.peek()))
	if !ok {
		return false
	}
	if !p.at(token.RParen) && !p.parseNamedArguments() {
		return false
	}
	return p.expectClose(token.RParen, open.Span)
}

// parseArraySubscripts parses "[" subscript { "," subscript } "]" where subscript is ":" | expression.
func (p *Parser) parseArraySubscripts() bool {
	open := p.advance() // [
	p.subscriptDepth++
	defer func() { p.subscriptDepth-- }()

	for {
		if !p.eat(token.Colon) && !p.parseExpression() {
			return false
		}
		if !p.eat(token.Comma) {
			break
		}
	}
	return p.expectClose(token.RBracket, open.Span)
}
