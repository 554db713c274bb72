package driver

import (
	"mocheck/internal/diag"
	"mocheck/internal/lexer"
	"mocheck/internal/source"
	"mocheck/internal/token"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize loads path through enc and lexes it to EOF.
func Tokenize(path string, enc source.Encoding, maxDiagnostics int) (*TokenizeResult, error) {
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

	bag := diag.NewBag(maxDiagnostics)
	lx := lexer.New(file, lexer.Options{Reporter: &diag.BagReporter{Bag: bag}})

	var tokens []token.Token
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}

	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  tokens,
		Bag:     bag,
	}, nil
}
