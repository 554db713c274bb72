package parser

import (
	"strings"

	"mocheck/internal/token"
)

// parseName parses IDENT { "." IDENT } and returns it dotted.
func (p *Parser) parseName() (string, bool) {
	first, ok := p.expectIdent("name")
	if !ok {
		return "", false
	}
	var sb strings.Builder
	sb.WriteString(first.Text)
	for p.at(token.Dot) && p.peekN(1).Kind == token.Ident {
		p.advance()
		sb.WriteByte('.')
		sb.WriteString(p.advance().Text)
	}
	return sb.String(), true
}

// parseTypeSpecifier parses [ "." ] name.
func (p *Parser) parseTypeSpecifier() (string, bool) {
	global := p.eat(token.Dot)
	name, ok := p.parseName()
	if global {
		name = "." + name
	}
	return name, ok
}

// parseComponentReference parses [ "." ] IDENT [ array_subscripts ] { "." IDENT [ array_subscripts ] }.
func (p *Parser) parseComponentReference() bool {
	p.eat(token.Dot)
	if _, ok := p.expectIdent("component reference"); !ok {
		return false
	}
	if p.at(token.LBracket) && !p.parseArraySubscripts() {
		return false
	}
	for p.at(token.Dot) && p.peekN(1).Kind == token.Ident {
		p.advance()
		p.advance()
		if p.at(token.LBracket) && !p.parseArraySubscripts() {
			return false
		}
	}
	return true
}
