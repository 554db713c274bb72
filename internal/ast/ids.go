package ast

type (
	FileID  uint32
	ClassID uint32
)

const (
	NoFileID  FileID  = 0
	NoClassID ClassID = 0
)
