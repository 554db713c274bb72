package diag

import (
	"testing"

	"mocheck/internal/source"
)

func TestFormatShortDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	userFile := fs.Add("/workspace/lib/sample.mo", []byte("a\nb\n"), 0)

	diags := []Diagnostic{
		{
			Severity: SevWarning,
			Code:     SynInfo,
			Message:  "another",
			Primary:  source.Span{File: userFile, Start: 2, End: 3},
		},
		{
			Severity: SevError,
			Code:     SynUnexpectedToken,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: userFile, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: userFile, Start: 2, End: 3}, Msg: "note line"},
				{Span: source.Span{File: 99, Start: 0, End: 0}, Msg: "unknown file"},
			},
		},
	}

	expected := "error SYN2001 lib/sample.mo:1:1 first line second\n" +
		"note SYN2001 lib/sample.mo:2:1 note line\n" +
		"warning SYN2000 lib/sample.mo:2:1 another"

	if got := FormatShortDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestFormatShortVirtualPath(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.mo", []byte("model\n"))
	diags := []Diagnostic{New(SevError, SynExpectIdentifier, source.Span{File: id, Start: 6, End: 6}, "expected class name")}

	want := "error SYN2003 test.mo:2:1 expected class name"
	if got := FormatShortDiagnostics(diags, fs, false); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
