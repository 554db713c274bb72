package driver_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	validModel    = "model A\n  Real x;\nequation\n  x = 1;\nend A;\n"
	mismatchModel = "model Motor\nend Motr;\n"
	threeErrors   = "model M\n  Real x\n  Real y;\nequation\n  x := 1;\n  y = ;\nend M;\n"
)

// writeTree creates files (relative path -> content) under a fresh temp dir.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

// recordingEngine returns a fixed count per base name and records every call.
type recordingEngine struct {
	mu     sync.Mutex
	counts map[string]int
	calls  []string
	srcs   map[string][]byte
}

func newRecordingEngine(counts map[string]int) *recordingEngine {
	return &recordingEngine{counts: counts, srcs: make(map[string][]byte)}
}

func (e *recordingEngine) Parse(_ context.Context, path string, src []byte) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, filepath.Base(path))
	e.srcs[filepath.Base(path)] = append([]byte(nil), src...)
	return e.counts[filepath.Base(path)], nil
}

func (e *recordingEngine) Calls() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.calls...)
}

func collect(t *testing.T, seq func(func(string, error) bool)) ([]string, []error) {
	t.Helper()
	var paths []string
	var errs []error
	for path, err := range seq {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		paths = append(paths, path)
	}
	return paths, errs
}

func rel(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		r, err := filepath.Rel(root, p)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(r))
	}
	return out
}
