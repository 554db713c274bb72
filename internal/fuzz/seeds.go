// Package fuzztests holds fuzz harnesses for the source, lexer and parser
// chain. They guard against panics, hangs and inconsistent error counts on
// arbitrary input.
package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10
	maxFuzzInput = 1 << 16
)

// inlineSeeds cover syntax the file seeds do not, including broken input.
var inlineSeeds = []string{
	"",
	"model A end A;",
	"model Motor\nend Motr;\n",
	"within;\npackage P\n  constant Real c = 1e-3;\nend P;\n",
	"model M\n  Real x\n  Real y;\nequation\n  x := 1;\n  y = ;\nend M;\n",
	"record R extends Base(k = 2); Real 'quoted ident'; end R;",
	"connector C = input Real[3] \"c\";",
	"model M Real x(; end M;",
	"model M equation x = (1 + [2, 3; 4, 5]; end M;",
	"/* unterminated",
	"model M \"unterminated",
	"partial model M replaceable package P = Q constrainedby R; end M;",
	"model M $ end M;",
	"\ufeffmodel A\r\nend A;\r\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range inlineSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("testdata", "seeds")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".mo" {
			return nil
		}
		// #nosec G304 -- path comes from the package testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}
