package driver

import (
	"context"
	"fmt"

	"fortio.org/safecast"

	"mocheck/internal/ast"
	"mocheck/internal/diag"
	"mocheck/internal/lexer"
	"mocheck/internal/parser"
	"mocheck/internal/source"
)

// Engine parses one source text and reports how many syntax errors it found.
// A non-nil error means the engine itself failed, not the input.
type Engine interface {
	Parse(ctx context.Context, path string, src []byte) (int, error)
}

// EngineFunc adapts a function to Engine.
type EngineFunc func(ctx context.Context, path string, src []byte) (int, error)

func (f EngineFunc) Parse(ctx context.Context, path string, src []byte) (int, error) {
	return f(ctx, path, src)
}

// DiagnosticsHook receives the diagnostics of a parsed file. It runs before
// Parse returns, on the goroutine that parsed the file.
type DiagnosticsHook func(path string, bag *diag.Bag, fs *source.FileSet)

// ModelicaEngine is the default Engine backed by the in-repo lexer and parser.
type ModelicaEngine struct {
	// MaxDiagnostics bounds how many diagnostics are kept per file; the
	// returned count still includes the dropped ones.
	MaxDiagnostics int
	// Hook, when set, is called for every file with at least one diagnostic.
	Hook DiagnosticsHook
}

// NewModelicaEngine returns an engine keeping up to maxDiagnostics diagnostics per file.
func NewModelicaEngine(maxDiagnostics int, hook DiagnosticsHook) *ModelicaEngine {
	return &ModelicaEngine{MaxDiagnostics: maxDiagnostics, Hook: hook}
}

// Parse counts lexical and syntactic errors in src.
func (e *ModelicaEngine) Parse(ctx context.Context, path string, src []byte) (int, error) {
	limit := e.MaxDiagnostics
	if limit <= 0 {
		limit = defaultMaxDiagnostics
	}

	fs := source.NewFileSet()
	file := fs.Get(fs.AddSource(path, src, 0))

	bag := diag.NewBag(limit)
	reporter := &diag.BagReporter{Bag: bag}
	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	builder := ast.NewBuilder(ast.Hints{})

	res := parser.ParseFile(ctx, fs, lx, builder, parser.Options{Reporter: reporter})
	if res.Err != nil {
		return 0, res.Err
	}

	if e.Hook != nil && bag.Len() > 0 {
		bag.Sort()
		e.Hook(path, bag, fs)
	}
	return bag.ErrorCount(), nil
}

const defaultMaxDiagnostics = 100

// maxErrors converts a diagnostics limit to the parser's unsigned bound.
func maxErrors(maxDiagnostics int) (uint, error) {
	n, err := safecast.Conv[uint](maxDiagnostics)
	if err != nil {
		return 0, fmt.Errorf("max diagnostics %d: %w", maxDiagnostics, err)
	}
	return n, nil
}
