package ast

import (
	"mocheck/internal/source"
)

// File is a parsed stored_definition.
type File struct {
	Span source.Span
	// Within is the dotted package path of the within clause. HasWithin
	// distinguishes "within;" (top level) from no clause at all.
	Within    string
	HasWithin bool
	Classes   []ClassID
}

type Files struct {
	Arena *Arena[File]
}

func NewFiles(capHint uint) *Files {
	return &Files{
		Arena: NewArena[File](capHint),
	}
}

func (f *Files) New(sp source.Span) FileID {
	return FileID(f.Arena.Allocate(File{
		Span:    sp,
		Classes: make([]ClassID, 0),
	}))
}

func (f *Files) Get(id FileID) *File {
	return f.Arena.Get(uint32(id))
}
