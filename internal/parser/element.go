package parser

import (
	"strings"

	"mocheck/internal/ast"
	"mocheck/internal/diag"
	"mocheck/internal/token"
)

// parseElementList parses { element ";" | annotation_clause ";" } up to a section boundary.
func (p *Parser) parseElementList(owner ast.ClassID) {
	for !p.atSectionBoundary() && !p.canceled() {
		before := p.consumed
		if p.at(token.KwAnnotation) {
			p.parseAnnotation()
			p.expectSemicolon("after annotation")
			continue
		}
		if !p.parseElement(owner) {
			p.skipBroken(before)
			continue
		}
		p.expectSemicolon("after element")
	}
}

// parseElement parses
//
//	import_clause | extends_clause
//	| [ redeclare ] [ final ] [ inner ] [ outer ]
//	  ( class_definition | component_clause
//	  | replaceable ( class_definition | component_clause ) [ constraining_clause comment ] )
func (p *Parser) parseElement(owner ast.ClassID) bool {
	switch p.peek().Kind {
	case token.KwImport:
		return p.parseImportClause(owner)
	case token.KwExtends:
		return p.parseExtendsClause(owner)
	}

	var prefix ast.Prefix
	if p.eat(token.KwRedeclare) {
		prefix |= ast.PrefixRedeclare
	}
	if p.eat(token.KwFinal) {
		prefix |= ast.PrefixFinal
	}
	if p.eat(token.KwInner) {
		prefix |= ast.PrefixInner
	}
	if p.eat(token.KwOuter) {
		prefix |= ast.PrefixOuter
	}
	if p.eat(token.KwReplaceable) {
		prefix |= ast.PrefixReplaceable
	}

	if p.atClassStart() {
		child, ok := p.parseClassDefinition(prefix)
		if child != ast.NoClassID {
			p.arenas.PushChild(owner, child)
		}
		if !ok {
			return false
		}
	} else if !p.parseComponentClause(owner, prefix) {
		return false
	}

	if prefix.Has(ast.PrefixReplaceable) && p.at(token.KwConstrainedby) {
		if !p.parseConstrainingClause() {
			return false
		}
		p.parseComment()
	}
	return true
}

// parseImportClause parses
//
//	import ( IDENT "=" name | name [ ".*" | "." "{" IDENT { "," IDENT } "}" ] ) comment
func (p *Parser) parseImportClause(owner ast.ClassID) bool {
	p.advance() // import

	first, ok := p.expectIdent("import name")
	if !ok {
		return false
	}

	var sb strings.Builder
	if p.eat(token.Assign) {
		target, ok := p.parseName()
		if !ok {
			return false
		}
		sb.WriteString(first.Text + " = " + target)
	} else {
		sb.WriteString(first.Text)
	loop:
		for {
			switch {
			case p.at(token.DotStar):
				p.advance()
				sb.WriteString(".*")
				break loop
			case p.at(token.Dot) && p.peekN(1).Kind == token.LBrace:
				p.advance()
				open := p.advance()
				names := make([]string, 0, 4)
				for {
					id, ok := p.expectIdent("name in import list")
					if !ok {
						return false
					}
					names = append(names, id.Text)
					if !p.eat(token.Comma) {
						break
					}
				}
				if !p.expectClose(token.RBrace, open.Span) {
					return false
				}
				sb.WriteString(".{" + strings.Join(names, ",") + "}")
				break loop
			case p.at(token.Dot):
				p.advance()
				seg, ok := p.expectIdent("name after '.'")
				if !ok {
					return false
				}
				sb.WriteString("." + seg.Text)
			default:
				break loop
			}
		}
	}

	cls := p.arenas.Classes.Get(owner)
	cls.Imports = append(cls.Imports, sb.String())
	p.parseComment()
	return true
}

// parseExtendsClause parses extends type_specifier [ class_or_inheritance_modification ] [ annotation_clause ].
func (p *Parser) parseExtendsClause(owner ast.ClassID) bool {
	p.advance() // extends
	base, ok := p.parseTypeSpecifier()
	if !ok {
		return false
	}
	cls := p.arenas.Classes.Get(owner)
	cls.Extends = append(cls.Extends, base)

	if p.at(token.LParen) && !p.parseClassModification() {
		return false
	}
	if p.at(token.KwAnnotation) {
		return p.parseAnnotation()
	}
	return true
}

// parseConstrainingClause parses constrainedby type_specifier [ class_modification ].
func (p *Parser) parseConstrainingClause() bool {
	p.advance() // constrainedby
	if _, ok := p.parseTypeSpecifier(); !ok {
		return false
	}
	if p.at(token.LParen) {
		return p.parseClassModification()
	}
	return true
}

// parseTypePrefix parses [ flow | stream ] [ discrete | parameter | constant ] [ input | output ].
func (p *Parser) parseTypePrefix() (variability, causality string) {
	if !p.eat(token.KwFlow) {
		p.eat(token.KwStream)
	}
	switch p.peek().Kind {
	case token.KwDiscrete, token.KwParameter, token.KwConstant:
		variability = p.advance().Text
	}
	switch p.peek().Kind {
	case token.KwInput, token.KwOutput:
		causality = p.advance().Text
	}
	return variability, causality
}

// parseComponentClause parses type_prefix type_specifier [ array_subscripts ] component_list.
func (p *Parser) parseComponentClause(owner ast.ClassID, prefix ast.Prefix) bool {
	variability, causality := p.parseTypePrefix()

	if !p.at(token.Ident) && !p.at(token.Dot) {
		p.err(diag.SynExpectComponent, "expected component declaration or class definition, got "+describe(p.peek()))
		return false
	}
	typeName, ok := p.parseTypeSpecifier()
	if !ok {
		return false
	}
	if p.at(token.LBracket) && !p.parseArraySubscripts() {
		return false
	}

	for {
		nameTok, ok := p.expectIdent("component name")
		if !ok {
			return false
		}
		if !p.parseDeclarationRest() {
			return false
		}
		// condition_attribute
		if p.eat(token.KwIf) && !p.parseExpression() {
			return false
		}
		cls := p.arenas.Classes.Get(owner)
		cls.Components = append(cls.Components, ast.Component{
			Name:        nameTok.Text,
			TypeName:    typeName,
			Prefixes:    prefix,
			Variability: variability,
			Causality:   causality,
			Span:        nameTok.Span.Cover(p.lastSpan),
		})
		p.parseComment()
		if !p.eat(token.Comma) {
			return true
		}
	}
}

// parseDeclarationRest parses [ array_subscripts ] [ modification ] after the declared name.
func (p *Parser) parseDeclarationRest() bool {
	if p.at(token.LBracket) && !p.parseArraySubscripts() {
		return false
	}
	return p.parseModification()
}

// parseModification parses
//
//	class_modification [ "=" expression ] | "=" expression | ":=" expression
//
// An absent modification is fine.
func (p *Parser) parseModification() bool {
	switch {
	case p.at(token.LParen):
		if !p.parseClassModification() {
			return false
		}
		if p.eat(token.Assign) {
			return p.parseModificationExpression()
		}
	case p.eat(token.Assign), p.eat(token.ColonAssign):
		return p.parseModificationExpression()
	}
	return true
}

// parseModificationExpression parses expression | break.
func (p *Parser) parseModificationExpression() bool {
	if p.eat(token.KwBreak) {
		return true
	}
	return p.parseExpression()
}

// parseClassModification parses "(" [ argument { "," argument } ] ")".
func (p *Parser) parseClassModification() bool {
	open := p.advance() // (
	if p.eat(token.RParen) {
		return true
	}
	for {
		if !p.parseArgument() {
			return false
		}
		if !p.eat(token.Comma) {
			break
		}
	}
	return p.expectClose(token.RParen, open.Span)
}

// parseArgument parses one modification argument:
//
//	[ each ] [ final ] ( element_modification | element_replaceable )
//	| redeclare [ each ] [ final ] ( short_class_definition | component_clause1 | element_replaceable )
//	| break ( connect "(" component_reference "," component_reference ")" | IDENT )
func (p *Parser) parseArgument() bool {
	if p.eat(token.KwBreak) {
		if p.at(token.KwConnect) {
			return p.parseConnectClause()
		}
		_, ok := p.expectIdent("name after 'break'")
		return ok
	}

	redeclare := p.eat(token.KwRedeclare)
	p.eat(token.KwEach)
	p.eat(token.KwFinal)

	if p.eat(token.KwReplaceable) {
		if !p.parseArgumentDefinition() {
			return false
		}
		if p.at(token.KwConstrainedby) {
			if !p.parseConstrainingClause() {
				return false
			}
			p.parseComment()
		}
		return true
	}
	if redeclare {
		return p.parseArgumentDefinition()
	}

	// element_modification: name [ modification ] description_string
	if !p.at(token.Ident) {
		p.err(diag.SynBadModification, "expected modification name, got "+describe(p.peek()))
		return false
	}
	if _, ok := p.parseName(); !ok {
		return false
	}
	if !p.parseModification() {
		return false
	}
	p.parseDescriptionString()
	return true
}

// parseArgumentDefinition parses short_class_definition | component_clause1.
func (p *Parser) parseArgumentDefinition() bool {
	if p.atClassStart() {
		kind, _, ok := p.parseClassPrefixes(0)
		if !ok {
			return false
		}
		nameTok, ok := p.expectIdent("class name")
		if !ok {
			return false
		}
		if _, ok := p.expect(token.Assign, diag.SynExpectEquals, "expected '=' in short class definition, got "+describe(p.peek())); !ok {
			return false
		}
		id := p.arenas.NewClass(ast.Class{Name: nameTok.Text, Kind: kind, NameSpan: nameTok.Span})
		return p.parseShortSpecifier(id)
	}

	// component_clause1: type_prefix type_specifier component_declaration1
	p.parseTypePrefix()
	if _, ok := p.parseTypeSpecifier(); !ok {
		return false
	}
	if _, ok := p.expectIdent("component name"); !ok {
		return false
	}
	if !p.parseDeclarationRest() {
		return false
	}
	p.parseComment()
	return true
}

// parseComment parses description_string [ annotation_clause ].
func (p *Parser) parseComment() {
	p.parseDescriptionString()
	if p.at(token.KwAnnotation) {
		p.parseAnnotation()
	}
}

// parseDescriptionString parses [ STRING { "+" STRING } ].
func (p *Parser) parseDescriptionString() {
	if !p.eat(token.StringLit) {
		return
	}
	for p.at(token.Plus) {
		p.advance()
		if _, ok := p.expect(token.StringLit, diag.SynExpectString, "expected string after '+' in description, got "+describe(p.peek())); !ok {
			return
		}
	}
}

// parseAnnotation parses annotation class_modification.
func (p *Parser) parseAnnotation() bool {
	p.advance() // annotation
	if !p.at(token.LParen) {
		p.err(diag.SynUnexpectedToken, "expected '(' after 'annotation', got "+describe(p.peek()))
		return false
	}
	return p.parseClassModification()
}
