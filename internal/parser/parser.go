package parser

import (
	"context"

	"mocheck/internal/ast"
	"mocheck/internal/diag"
	"mocheck/internal/lexer"
	"mocheck/internal/source"
	"mocheck/internal/token"
)

type Options struct {
	// MaxErrors stops reporting (not parsing) once reached; 0 means unlimited.
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough reports whether the error limit was reached.
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	File ast.FileID
	Bag  *diag.Bag
	// Errors is the number of syntax errors the parser itself found.
	// Lexical errors go straight to the reporter and are not included.
	Errors uint
	// Err is set when parsing stopped early because ctx was done.
	Err error
}

// Parser holds the state for parsing one file.
type Parser struct {
	ctx      context.Context
	lx       *lexer.Lexer
	arenas   *ast.Builder
	file     ast.FileID
	fs       *source.FileSet
	opts     Options
	la       []token.Token // lookahead buffer, Invalid tokens already dropped
	lastSpan source.Span   // span of the last consumed token
	consumed uint64
	// subscriptDepth > 0 while inside [...], where 'end' is an expression.
	subscriptDepth int
	aborted        bool
}

// ParseFile parses one stored_definition from lx into arenas.
// Lexical errors are reported by the lexer itself; Invalid tokens are
// skipped here so each one is counted once.
func ParseFile(
	ctx context.Context,
	fs *source.FileSet,
	lx *lexer.Lexer,
	arenas *ast.Builder,
	opts Options,
) Result {
	if ctx == nil {
		ctx = context.Background()
	}
	empty := source.Span{File: lx.File().ID}
	p := Parser{
		ctx:      ctx,
		lx:       lx,
		arenas:   arenas,
		file:     arenas.NewFile(empty),
		fs:       fs,
		opts:     opts,
		lastSpan: empty,
	}

	p.parseStoredDefinition()

	var bag *diag.Bag
	if br, ok := opts.Reporter.(*diag.BagReporter); ok {
		bag = br.Bag
	}
	res := Result{
		File:   p.file,
		Bag:    bag,
		Errors: p.opts.CurrentErrors,
	}
	if p.aborted {
		res.Err = ctx.Err()
	}
	return res
}

// canceled latches ctx cancellation; every loop checks it.
func (p *Parser) canceled() bool {
	if p.aborted {
		return true
	}
	if p.ctx.Err() != nil {
		p.aborted = true
	}
	return p.aborted
}

// parseStoredDefinition parses
//
//	[ within [ name ] ";" ] { [ final ] class_definition ";" }
func (p *Parser) parseStoredDefinition() {
	f := p.arenas.Files.Get(p.file)
	start := p.peek().Span

	if p.at(token.KwWithin) {
		p.advance()
		f.HasWithin = true
		if p.at(token.Ident) {
			name, _ := p.parseName()
			f.Within = name
		}
		p.expectSemicolon("after within clause")
	}

	for !p.at(token.EOF) && !p.canceled() {
		before := p.consumed
		p.parseTopLevelClass()
		if p.consumed == before {
			p.advance()
		}
	}

	f = p.arenas.Files.Get(p.file)
	f.Span = start.Cover(p.lastSpan)
}

func (p *Parser) parseTopLevelClass() {
	if p.at(token.KwWithin) {
		p.err(diag.SynMisplacedWithin, "'within' must be the first clause of the file")
		p.resyncUntil()
		return
	}

	var prefix ast.Prefix
	if p.eat(token.KwFinal) {
		prefix |= ast.PrefixFinal
	}
	if !p.atClassStart() {
		p.err(diag.SynUnexpectedTopLevel, "expected class definition, got "+describe(p.peek()))
		p.resyncTop()
		return
	}

	id, ok := p.parseClassDefinition(prefix)
	if id != ast.NoClassID {
		p.arenas.PushClass(p.file, id)
	}
	if !ok {
		p.resyncTop()
		return
	}
	p.expectSemicolon("after class definition")
}

// resyncTop skips to the next ';' (consumed) or the start of a class definition.
func (p *Parser) resyncTop() {
	for !p.at(token.EOF) {
		if p.at(token.Semicolon) {
			p.advance()
			return
		}
		if p.atClassStart() || p.at(token.KwFinal) {
			return
		}
		p.advance()
	}
}
