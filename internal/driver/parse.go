package driver

import (
	"context"

	"fortio.org/safecast"

	"mocheck/internal/ast"
	"mocheck/internal/diag"
	"mocheck/internal/lexer"
	"mocheck/internal/parser"
	"mocheck/internal/source"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Builder *ast.Builder
	FileID  ast.FileID
	Bag     *diag.Bag
	// Errors counts every syntax error, including those past maxDiagnostics.
	Errors int
}

// Parse loads path through enc and parses it, keeping the outline and up to
// maxDiagnostics diagnostics.
func Parse(ctx context.Context, path string, enc source.Encoding, maxDiagnostics int) (*ParseResult, error) {
	if maxDiagnostics <= 0 {
		maxDiagnostics = defaultMaxDiagnostics
	}
	fs := source.NewFileSet()
	fs.SetEncoding(enc)
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	file := fs.Get(fileID)

	limit, err := maxErrors(maxDiagnostics)
	if err != nil {
		return nil, err
	}

	bag := diag.NewBag(maxDiagnostics)
	reporter := &diag.BagReporter{Bag: bag}
	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	builder := ast.NewBuilder(ast.Hints{})

	result := parser.ParseFile(ctx, fs, lx, builder, parser.Options{
		Reporter:  reporter,
		MaxErrors: limit,
	})
	if result.Err != nil {
		return nil, result.Err
	}
	bag.Sort()

	// the parser stops reporting at the limit but keeps counting
	reported := result.Errors
	if limit > 0 {
		reported = min(reported, limit)
	}
	suppressed, err := safecast.Conv[int](result.Errors - reported)
	if err != nil {
		return nil, err
	}

	return &ParseResult{
		FileSet: fs,
		File:    file,
		Builder: builder,
		FileID:  result.File,
		Bag:     bag,
		Errors:  bag.ErrorCount() + suppressed,
	}, nil
}
