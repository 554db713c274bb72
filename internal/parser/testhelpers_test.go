package parser_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"mocheck/internal/ast"
	"mocheck/internal/diag"
	"mocheck/internal/lexer"
	"mocheck/internal/parser"
	"mocheck/internal/source"
)

type parsed struct {
	res    parser.Result
	bag    *diag.Bag
	arenas *ast.Builder
	fs     *source.FileSet
	file   *source.File
}

func parseSourceWith(t *testing.T, ctx context.Context, input string, opts parser.Options) parsed {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.mo", []byte(input)))

	bag := diag.NewBag(100)
	reporter := &diag.BagReporter{Bag: bag}
	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	arenas := ast.NewBuilder(ast.Hints{})

	opts.Reporter = reporter
	res := parser.ParseFile(ctx, fs, lx, arenas, opts)
	return parsed{res: res, bag: bag, arenas: arenas, fs: fs, file: file}
}

func parseSource(t *testing.T, input string) parsed {
	t.Helper()
	return parseSourceWith(t, context.Background(), input, parser.Options{})
}

func (p parsed) codes() []diag.Code {
	out := make([]diag.Code, 0, p.bag.Len())
	for _, d := range p.bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func (p parsed) summary() string {
	diags := p.bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

// top returns the top-level classes of the parsed file.
func (p parsed) top() []*ast.Class {
	f := p.arenas.Files.Get(p.res.File)
	out := make([]*ast.Class, 0, len(f.Classes))
	for _, id := range f.Classes {
		out = append(out, p.arenas.Classes.Get(id))
	}
	return out
}

func expectClean(t *testing.T, input string) parsed {
	t.Helper()
	p := parseSource(t, input)
	if p.bag.HasErrors() {
		t.Fatalf("unexpected diagnostics for %q: %s", input, p.summary())
	}
	return p
}

func expectCode(t *testing.T, input string, code diag.Code) parsed {
	t.Helper()
	p := parseSource(t, input)
	for _, c := range p.codes() {
		if c == code {
			return p
		}
	}
	t.Fatalf("expected %s for %q, got %s", code.ID(), input, p.summary())
	return p
}
