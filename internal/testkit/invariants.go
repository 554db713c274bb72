// Package testkit holds checks shared by parser and driver tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"mocheck/internal/ast"
	"mocheck/internal/source"
)

// CheckSpanInvariants verifies the spans of a parsed file:
// the file span is non-empty and within the content, every class span is
// non-empty and nested in its parent, and every class name span lies inside
// its class.
func CheckSpanInvariants(b *ast.Builder, fileID ast.FileID, sf *source.File) error {
	if b == nil || sf == nil {
		return fmt.Errorf("nil builder or file")
	}
	f := b.Files.Get(fileID)
	if f == nil {
		return fmt.Errorf("file node not found")
	}

	if len(f.Classes) > 0 && f.Span.End <= f.Span.Start {
		return fmt.Errorf("file span is empty: %v", f.Span)
	}
	if f.Span.File != sf.ID {
		return fmt.Errorf("file span points to different file id: got=%d want=%d", f.Span.File, sf.ID)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if f.Span.End > lenContent {
		return fmt.Errorf("file span end beyond content: %d > %d", f.Span.End, lenContent)
	}

	for _, id := range f.Classes {
		if err := checkClass(b, id, f.Span, sf.ID); err != nil {
			return err
		}
	}
	return nil
}

func checkClass(b *ast.Builder, id ast.ClassID, parent source.Span, file source.FileID) error {
	cls := b.Classes.Get(id)
	if cls == nil {
		return fmt.Errorf("nil class for id=%d", id)
	}
	sp := cls.Span
	if sp.End <= sp.Start {
		return fmt.Errorf("class %s: empty span %v", cls.Name, sp)
	}
	if sp.File != file {
		return fmt.Errorf("class %s: span file mismatch: got=%d want=%d", cls.Name, sp.File, file)
	}
	if sp.Start < parent.Start || sp.End > parent.End {
		return fmt.Errorf("class %s: span %v is outside parent span %v", cls.Name, sp, parent)
	}
	if cls.NameSpan.End > cls.NameSpan.Start &&
		(cls.NameSpan.Start < sp.Start || cls.NameSpan.End > sp.End) {
		return fmt.Errorf("class %s: name span %v is outside class span %v", cls.Name, cls.NameSpan, sp)
	}
	for _, child := range cls.Children {
		if err := checkClass(b, child, sp, file); err != nil {
			return err
		}
	}
	return nil
}
