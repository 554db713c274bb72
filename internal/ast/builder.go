package ast

import (
	"mocheck/internal/source"
)

type Hints struct{ Files, Classes uint }

type Builder struct {
	Files   *Files
	Classes *Classes
}

func NewBuilder(hints Hints) *Builder {
	if hints.Files == 0 {
		hints.Files = 1 << 4
	}
	if hints.Classes == 0 {
		hints.Classes = 1 << 6
	}
	return &Builder{
		Files:   NewFiles(hints.Files),
		Classes: NewClasses(hints.Classes),
	}
}

func (b *Builder) NewFile(sp source.Span) FileID {
	return b.Files.New(sp)
}

func (b *Builder) NewClass(cls Class) ClassID {
	return b.Classes.New(cls)
}

// PushClass appends a top-level class to file.
func (b *Builder) PushClass(file FileID, id ClassID) {
	f := b.Files.Get(file)
	f.Classes = append(f.Classes, id)
}

// PushChild appends a nested class to parent.
func (b *Builder) PushChild(parent, child ClassID) {
	c := b.Classes.Get(parent)
	c.Children = append(c.Children, child)
}

// Walk visits every class of file depth-first. depth is 0 for top-level classes.
// Returning false from fn skips the children of that class.
func (b *Builder) Walk(file FileID, fn func(id ClassID, cls *Class, depth int) bool) {
	f := b.Files.Get(file)
	if f == nil {
		return
	}
	var visit func(id ClassID, depth int)
	visit = func(id ClassID, depth int) {
		cls := b.Classes.Get(id)
		if cls == nil || !fn(id, cls, depth) {
			return
		}
		for _, child := range cls.Children {
			visit(child, depth+1)
		}
	}
	for _, id := range f.Classes {
		visit(id, 0)
	}
}
