package lexer

import (
	"mocheck/internal/diag"
	"mocheck/internal/source"
)

type Options struct {
	Reporter diag.Reporter // nil drops lexical errors; scanning continues
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter == nil {
		return
	}
	diag.ReportError(lx.opts.Reporter, code, sp, msg).Emit()
}
