package parser

import (
	"mocheck/internal/ast"
	"mocheck/internal/diag"
	"mocheck/internal/source"
	"mocheck/internal/token"
)

// atClassStart reports whether the next token can begin class_prefixes.
func (p *Parser) atClassStart() bool {
	switch p.peek().Kind {
	case token.KwEncapsulated, token.KwPartial, token.KwClass, token.KwModel, token.KwRecord,
		token.KwBlock, token.KwConnector, token.KwExpandable, token.KwType, token.KwPackage,
		token.KwFunction, token.KwOperator, token.KwPure, token.KwImpure:
		return true
	}
	return false
}

// parseClassDefinition parses [ encapsulated ] class_prefixes class_specifier.
// The returned id is valid whenever a class name was read, even if ok is false.
func (p *Parser) parseClassDefinition(prefix ast.Prefix) (ast.ClassID, bool) {
	start := p.peek().Span
	if p.eat(token.KwEncapsulated) {
		prefix |= ast.PrefixEncapsulated
	}
	kind, prefix, ok := p.parseClassPrefixes(prefix)
	if !ok {
		return ast.NoClassID, false
	}
	return p.parseClassSpecifier(kind, prefix, start)
}

// parseClassPrefixes parses
//
//	[ partial ] ( class | model | [ operator ] record | block | [ expandable ] connector
//	| type | package | [ pure | impure ] [ operator ] function | operator )
func (p *Parser) parseClassPrefixes(prefix ast.Prefix) (ast.ClassKind, ast.Prefix, bool) {
	if p.eat(token.KwPartial) {
		prefix |= ast.PrefixPartial
	}

	switch p.peek().Kind {
	case token.KwClass:
		p.advance()
		return ast.ClassClass, prefix, true
	case token.KwModel:
		p.advance()
		return ast.ClassModel, prefix, true
	case token.KwRecord:
		p.advance()
		return ast.ClassRecord, prefix, true
	case token.KwBlock:
		p.advance()
		return ast.ClassBlock, prefix, true
	case token.KwConnector:
		p.advance()
		return ast.ClassConnector, prefix, true
	case token.KwType:
		p.advance()
		return ast.ClassType, prefix, true
	case token.KwPackage:
		p.advance()
		return ast.ClassPackage, prefix, true
	case token.KwFunction:
		p.advance()
		return ast.ClassFunction, prefix, true
	case token.KwExpandable:
		p.advance()
		if _, ok := p.expect(token.KwConnector, diag.SynExpectClassSpecifier,
			"expected 'connector' after 'expandable', got "+describe(p.peek())); !ok {
			return ast.ClassUnknown, prefix, false
		}
		return ast.ClassExpandableConnector, prefix, true
	case token.KwPure, token.KwImpure:
		if p.advance().Kind == token.KwPure {
			prefix |= ast.PrefixPure
		} else {
			prefix |= ast.PrefixImpure
		}
		kind := ast.ClassFunction
		if p.eat(token.KwOperator) {
			kind = ast.ClassOperatorFunction
		}
		if _, ok := p.expect(token.KwFunction, diag.SynExpectClassSpecifier,
			"expected 'function', got "+describe(p.peek())); !ok {
			return ast.ClassUnknown, prefix, false
		}
		return kind, prefix, true
	case token.KwOperator:
		p.advance()
		switch {
		case p.eat(token.KwRecord):
			return ast.ClassOperatorRecord, prefix, true
		case p.eat(token.KwFunction):
			return ast.ClassOperatorFunction, prefix, true
		}
		return ast.ClassOperator, prefix, true
	}

	p.err(diag.SynExpectClassSpecifier, "expected class kind (model, package, function, ...), got "+describe(p.peek()))
	return ast.ClassUnknown, prefix, false
}

// parseClassSpecifier parses long, short, enumeration, der and extends specifiers.
func (p *Parser) parseClassSpecifier(kind ast.ClassKind, prefix ast.Prefix, start source.Span) (ast.ClassID, bool) {
	spec := ast.SpecLong
	if p.eat(token.KwExtends) {
		spec = ast.SpecExtends
	}

	nameTok, ok := p.expectIdent("class name")
	if !ok {
		return ast.NoClassID, false
	}
	id := p.arenas.NewClass(ast.Class{
		Name:     nameTok.Text,
		Kind:     kind,
		Spec:     spec,
		Prefixes: prefix,
		NameSpan: nameTok.Span,
	})

	if spec == ast.SpecLong && p.at(token.Assign) {
		p.advance()
		ok = p.parseShortSpecifier(id)
	} else {
		if spec == ast.SpecExtends && p.at(token.LParen) {
			p.parseClassModification()
		}
		p.parseDescriptionString()
		p.parseComposition(id)
		ok = p.parseEndName(nameTok)
	}

	cls := p.arenas.Classes.Get(id)
	cls.Span = start.Cover(p.lastSpan)
	return id, ok
}

// parseShortSpecifier parses the part after "IDENT =".
func (p *Parser) parseShortSpecifier(id ast.ClassID) bool {
	switch p.peek().Kind {
	case token.KwEnumeration:
		p.advance()
		cls := p.arenas.Classes.Get(id)
		cls.Spec = ast.SpecEnumeration
		open, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after 'enumeration', got "+describe(p.peek()))
		if !ok {
			return false
		}
		var literals []string
		if !p.eat(token.Colon) && !p.at(token.RParen) {
			for {
				lit, ok := p.expectIdent("enumeration literal")
				if !ok {
					return false
				}
				literals = append(literals, lit.Text)
				p.parseComment()
				if !p.eat(token.Comma) {
					break
				}
			}
		}
		p.arenas.Classes.Get(id).Literals = literals
		if !p.expectClose(token.RParen, open.Span) {
			return false
		}

	case token.KwDer:
		p.advance()
		p.arenas.Classes.Get(id).Spec = ast.SpecDer
		open, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after 'der', got "+describe(p.peek()))
		if !ok {
			return false
		}
		base, ok := p.parseTypeSpecifier()
		if !ok {
			return false
		}
		p.arenas.Classes.Get(id).Base = base
		for p.eat(token.Comma) {
			if _, ok := p.expectIdent("identifier in der()"); !ok {
				return false
			}
		}
		if !p.expectClose(token.RParen, open.Span) {
			return false
		}

	default:
		p.arenas.Classes.Get(id).Spec = ast.SpecShort
		// base_prefix
		if !p.eat(token.KwInput) {
			p.eat(token.KwOutput)
		}
		base, ok := p.parseTypeSpecifier()
		if !ok {
			return false
		}
		p.arenas.Classes.Get(id).Base = base
		if p.at(token.LBracket) && !p.parseArraySubscripts() {
			return false
		}
		if p.at(token.LParen) && !p.parseClassModification() {
			return false
		}
	}

	p.parseComment()
	return true
}

// parseEndName parses "end IDENT" and checks the name against the opening one.
func (p *Parser) parseEndName(open token.Token) bool {
	if !p.at(token.KwEnd) {
		p.report(diag.SynExpectEnd, diag.SevError, p.getDiagnosticSpan(),
			"expected 'end "+open.Text+"', got "+describe(p.peek()),
			[]diag.Note{{Span: open.Span, Msg: "class " + open.Text + " opened here"}})
		return false
	}
	p.advance()

	closeTok, ok := p.expectIdent("'" + open.Text + "' after 'end'")
	if !ok {
		return false
	}
	if closeTok.Text != open.Text {
		p.report(diag.SynEndNameMismatch, diag.SevError, closeTok.Span,
			"end name '"+closeTok.Text+"' does not match class name '"+open.Text+"'",
			[]diag.Note{{Span: open.Span, Msg: "class " + open.Text + " opened here"}})
	}
	return true
}

// parseComposition parses
//
//	element_list { public element_list | protected element_list
//	| equation_section | algorithm_section }
//	[ external ... ";" ] [ annotation_clause ";" ]
//
// It stops at the class "end" or EOF.
func (p *Parser) parseComposition(id ast.ClassID) {
	p.parseElementList(id)
	for !p.canceled() {
		switch p.peek().Kind {
		case token.EOF:
			return
		case token.KwEnd:
			if p.atClassEnd() {
				return
			}
		case token.KwPublic, token.KwProtected:
			p.advance()
			p.parseElementList(id)
			continue
		case token.KwEquation:
			p.parseEquationSection(id)
			continue
		case token.KwAlgorithm:
			p.parseAlgorithmSection(id)
			continue
		case token.KwInitial:
			if p.atInitialSection() {
				p.advance()
				if p.at(token.KwEquation) {
					p.parseEquationSection(id)
				} else {
					p.parseAlgorithmSection(id)
				}
				continue
			}
		case token.KwExternal:
			p.parseExternal(id)
			continue
		case token.KwAnnotation:
			p.parseAnnotation()
			p.expectSemicolon("after annotation")
			continue
		}

		before := p.consumed
		p.err(diag.SynUnexpectedToken, "unexpected "+describe(p.peek())+" in class body")
		p.skipBroken(before)
	}
}

// parseExternal parses
//
//	external [ STRING ] [ external_function_call ] [ annotation_clause ] ";"
func (p *Parser) parseExternal(id ast.ClassID) {
	before := p.consumed
	p.advance() // external
	p.arenas.Classes.Get(id).External = true
	p.eat(token.StringLit)

	if p.at(token.Ident) || p.at(token.Dot) {
		if !p.parseComponentReference() {
			p.skipBroken(before)
			return
		}
		if p.eat(token.Assign) {
			if _, ok := p.expectIdent("external function name"); !ok {
				p.skipBroken(before)
				return
			}
		}
		open, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' in external function call, got "+describe(p.peek()))
		if !ok {
			p.skipBroken(before)
			return
		}
		if !p.at(token.RParen) && !p.parseExpressionList() {
			p.skipBroken(before)
			return
		}
		if !p.expectClose(token.RParen, open.Span) {
			p.skipBroken(before)
			return
		}
	}

	if p.at(token.KwAnnotation) {
		p.parseAnnotation()
	}
	p.expectSemicolon("after external clause")
}
