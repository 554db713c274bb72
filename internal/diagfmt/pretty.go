package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"mocheck/internal/diag"
	"mocheck/internal/source"
)

type palette struct {
	err, warn, info, note, gutter, bold *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue, color.Bold),
		gutter: color.New(color.FgBlue),
		bold:   color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.gutter, p.bold} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty renders diagnostics for humans. It walks bag.Items() in order
// (call bag.Sort() first for positional order) and prints for each:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//
// followed by the source line with a ^~~~ underline under the span and,
// when enabled, the notes in the same location format.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	pal := newPalette(opts.Color)
	for _, d := range bag.Items() {
		sevColor := pal.severity(d.Severity)
		loc := locationString(fs, d.Primary, opts.PathMode)
		fmt.Fprintf(w, "%s: %s: %s\n",
			pal.bold.Sprint(loc),
			sevColor.Sprintf("%s %s", d.Severity, d.Code.ID()),
			d.Message)
		writeSnippet(w, fs, d.Primary, opts.Context, pal, sevColor)

		if !opts.ShowNotes {
			continue
		}
		for _, note := range d.Notes {
			fmt.Fprintf(w, "  %s %s: %s\n",
				pal.note.Sprint("note:"),
				locationString(fs, note.Span, opts.PathMode),
				note.Msg)
		}
	}
}

func validSpan(fs *source.FileSet, sp source.Span) bool {
	return int(sp.File) < fs.Len()
}

func locationString(fs *source.FileSet, sp source.Span, mode PathMode) string {
	if !validSpan(fs, sp) {
		return "<unknown>"
	}
	f := fs.Get(sp.File)
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", formatPath(f, fs, mode), start.Line, start.Col)
}

// writeSnippet prints the primary line, up to context lines above it, and
// an underline below. Multi-line spans are underlined to the end of the first line.
func writeSnippet(w io.Writer, fs *source.FileSet, sp source.Span, context int8, pal palette, sevColor *color.Color) {
	if !validSpan(fs, sp) {
		return
	}
	f := fs.Get(sp.File)
	start, end := fs.Resolve(sp)
	if start.Line == 0 {
		return
	}

	first := start.Line
	if context > 0 {
		back := uint32(context)
		if back >= first {
			first = 1
		} else {
			first -= back
		}
	}

	numWidth := len(fmt.Sprint(start.Line))
	for ln := first; ln <= start.Line; ln++ {
		fmt.Fprintf(w, "%s %s\n", pal.gutter.Sprintf("%*d |", numWidth, ln), f.GetLine(ln))
	}

	line := f.GetLine(start.Line)
	startByte := clampIndex(int(start.Col)-1, len(line))
	endByte := len(line)
	if end.Line == start.Line {
		endByte = clampIndex(int(end.Col)-1, len(line))
	}
	if endByte < startByte {
		endByte = startByte
	}

	width := max(runewidth.StringWidth(line[startByte:endByte]), 1)
	underline := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, "%s %s%s\n",
		pal.gutter.Sprintf("%*s |", numWidth, ""),
		padFor(line[:startByte]),
		sevColor.Sprint(underline))
}

// padFor returns whitespace as wide as prefix, keeping tabs so the caret lines up.
func padFor(prefix string) string {
	var sb strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			sb.WriteByte('\t')
			continue
		}
		sb.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return sb.String()
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}
