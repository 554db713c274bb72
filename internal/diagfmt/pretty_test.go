package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"mocheck/internal/diag"
	"mocheck/internal/source"
)

// TestPathModes checks every path display mode.
func TestPathModes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("model M\n  String s = \"unterminated\nend M;\n")
	fileID := fs.AddVirtual("/home/user/project/src/test.mo", content)
	fs.SetBaseDir("/home/user/project")

	bag := diag.NewBag(10)
	bag.Add(diag.New(
		diag.SevError,
		diag.LexUnterminatedString,
		source.Span{File: fileID, Start: 21, End: 34},
		"Unterminated string literal",
	))

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/src/test.mo:2:14"},
		{"Relative path", PathModeRelative, "src/test.mo:2:14"},
		{"Basename only", PathModeBasename, "test.mo:2:14"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: tt.mode})
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("expected output to contain %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "ERROR LEX1002") {
				t.Error("expected severity and code in output")
			}
			if !strings.Contains(output, "Unterminated string") {
				t.Error("expected error message in output")
			}
		})
	}
}

// TestPathModeAuto keeps short paths and collapses long absolute ones.
func TestPathModeAuto(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{"Short path - as is", "test.mo", "test.mo:1:"},
		{"Long absolute path - basename", "/very/long/absolute/path/to/some/nested/directory/file.mo", "file.mo:1:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := source.NewFileSet()
			fileID := fs.AddVirtual(tt.path, []byte("model M $ end M;\n"))

			bag := diag.NewBag(10)
			bag.Add(diag.New(diag.SevWarning, diag.LexUnknownChar, source.Span{File: fileID, Start: 8, End: 9}, "test warning"))

			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeAuto})
			output := buf.String()

			if !strings.Contains(output, tt.expected) {
				t.Errorf("expected output to contain %q, got:\n%s", tt.expected, output)
			}
			if strings.Contains(output, "/very/long") {
				t.Errorf("long path should be collapsed, got:\n%s", output)
			}
		})
	}
}

func TestPrettySnippetAndCaret(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.mo", []byte("model Motor\nend Motr;\n"))

	bag := diag.NewBag(4)
	d := diag.New(diag.SevError, diag.SynEndNameMismatch,
		source.Span{File: fileID, Start: 16, End: 20},
		"end name 'Motr' does not match class name 'Motor'").
		WithNote(source.Span{File: fileID, Start: 6, End: 11}, "class Motor opened here")
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: PathModeBasename, ShowNotes: true})

	want := strings.Join([]string{
		"test.mo:2:5: ERROR SYN2008: end name 'Motr' does not match class name 'Motor'",
		"1 | model Motor",
		"2 | end Motr;",
		"  |     ^~~~",
		"  note: test.mo:1:7: class Motor opened here",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyEmptySpanAndWideRunes(t *testing.T) {
	fs := source.NewFileSet()
	// "界" is two columns wide and three bytes long
	fileID := fs.AddVirtual("wide.mo", []byte("x = \"界\" y"))

	bag := diag.NewBag(2)
	bag.Add(diag.New(diag.SevError, diag.SynExpectSemicolon, source.Span{File: fileID, Start: 9, End: 9}, "expected ';'"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got:\n%s", buf.String())
	}
	// `x = "界"` is 8 columns wide, plus the space after the gutter
	if lines[2] != "  |         ^" {
		t.Errorf("caret misplaced: %q", lines[2])
	}
}

func TestPrettyHidesNotesByDefault(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.mo", []byte("model M\n"))

	bag := diag.NewBag(2)
	bag.Add(diag.New(diag.SevError, diag.SynExpectEnd, source.Span{File: fileID, Start: 7, End: 7}, "expected 'end M'").
		WithNote(source.Span{File: fileID, Start: 6, End: 7}, "class M opened here"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	if strings.Contains(buf.String(), "note:") {
		t.Errorf("notes should be hidden:\n%s", buf.String())
	}
}

func TestParsePathMode(t *testing.T) {
	for in, want := range map[string]PathMode{
		"":           PathModeAuto,
		"auto":       PathModeAuto,
		"Absolute":   PathModeAbsolute,
		" relative ": PathModeRelative,
		"basename":   PathModeBasename,
	} {
		got, err := ParsePathMode(in)
		if err != nil || got != want {
			t.Errorf("ParsePathMode(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParsePathMode("short"); err == nil {
		t.Error("expected an error for an unknown mode")
	}
}
