package driver

import (
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync/atomic"
)

// DefaultSuffix is the file name suffix selected when none is configured.
const DefaultSuffix = ".mo"

// Selector enumerates candidate source files below a root directory.
type Selector struct {
	// Suffix is matched against the base name; empty means DefaultSuffix.
	Suffix string
	// Exclude patterns are matched against slash-separated paths relative to
	// the root. A matching directory is pruned, a matching file is skipped.
	Exclude []*regexp.Regexp
}

// NewSelector compiles the exclude patterns and returns a Selector.
func NewSelector(suffix string, exclude []string) (*Selector, error) {
	s := &Selector{Suffix: suffix}
	for _, pattern := range exclude {
		if pattern == "" {
			continue
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		s.Exclude = append(s.Exclude, re)
	}
	return s, nil
}

func (s *Selector) suffix() string {
	if s == nil || s.Suffix == "" {
		return DefaultSuffix
	}
	return s.Suffix
}

// Excluded reports whether rel, relative to the selection root, matches an
// exclude pattern.
func (s *Selector) Excluded(rel string) bool {
	if s == nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, re := range s.Exclude {
		if re.MatchString(rel) {
			return true
		}
	}
	return false
}

// Match reports whether a file at path (relative to the selection root) would be selected
// on name alone. It does not stat the file.
func (s *Selector) Match(rel string) bool {
	return strings.HasSuffix(filepath.Base(rel), s.suffix()) && !s.Excluded(rel)
}

// Select checks root and returns a lazy sequence of matching regular files in
// lexical order. The sequence can be ranged once; a second range yields
// ErrSequenceConsumed. Traversal failures below root are yielded as *IOError
// values, a missing or non-directory root is returned as an *IOError.
func (s *Selector) Select(root string) (iter.Seq2[string, error], error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, &IOError{Op: "stat", Path: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &IOError{Op: "select", Path: root, Err: fmt.Errorf("not a directory")}
	}

	// WalkDir does not descend into a symlinked root, so walk its target and
	// report paths under the name the caller used.
	walkRoot := root
	if resolved, evalErr := filepath.EvalSymlinks(root); evalErr == nil {
		walkRoot = resolved
	}
	display := func(path string) string {
		if walkRoot == root {
			return path
		}
		rel, relErr := filepath.Rel(walkRoot, path)
		if relErr != nil {
			return path
		}
		return filepath.Join(root, rel)
	}

	var used atomic.Bool
	seq := func(yield func(string, error) bool) {
		if !used.CompareAndSwap(false, true) {
			yield("", ErrSequenceConsumed)
			return
		}
		_ = filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if !yield(display(path), &IOError{Op: "walk", Path: display(path), Err: err}) {
					return filepath.SkipAll
				}
				return nil
			}
			rel, relErr := filepath.Rel(walkRoot, path)
			if relErr != nil {
				rel = path
			}
			if d.IsDir() {
				if path != walkRoot && s.Excluded(rel) {
					return filepath.SkipDir
				}
				return nil
			}
			// symlinks, devices, sockets and pipes are never yielded
			if !d.Type().IsRegular() {
				return nil
			}
			if !s.Match(rel) {
				return nil
			}
			if !yield(display(path), nil) {
				return filepath.SkipAll
			}
			return nil
		})
	}
	return seq, nil
}
