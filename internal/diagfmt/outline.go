package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"mocheck/internal/ast"
	"mocheck/internal/source"
)

// OutlineNode is the JSON form of a parsed file or class.
type OutlineNode struct {
	Type     string         `json:"type"`
	Kind     string         `json:"kind,omitempty"`
	Name     string         `json:"name,omitempty"`
	Span     source.Span    `json:"span"`
	Fields   map[string]any `json:"fields,omitempty"`
	Children []OutlineNode  `json:"children,omitempty"`
}

// formatSpan formats a span as "startLine:startCol-endLine:endCol", or
// "span(start-end)" without a FileSet.
func formatSpan(span source.Span, fs *source.FileSet) string {
	if fs != nil && validSpan(fs, span) {
		start, end := fs.Resolve(span)
		return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
	}
	return fmt.Sprintf("span(%d-%d)", span.Start, span.End)
}

func classHeader(cls *ast.Class) string {
	var sb strings.Builder
	if p := cls.Prefixes.String(); p != "" {
		sb.WriteString(p)
		sb.WriteByte(' ')
	}
	sb.WriteString(cls.Kind.String())
	sb.WriteByte(' ')
	sb.WriteString(cls.Name)
	return sb.String()
}

// classDetails lists the non-empty facts about cls, one per line.
func classDetails(cls *ast.Class) []string {
	var out []string
	if cls.Spec != ast.SpecLong {
		out = append(out, "Spec: "+cls.Spec.String())
	}
	if cls.Base != "" {
		out = append(out, "Base: "+cls.Base)
	}
	if len(cls.Literals) > 0 {
		out = append(out, "Literals: "+strings.Join(cls.Literals, ", "))
	}
	if len(cls.Imports) > 0 {
		out = append(out, "Imports: "+strings.Join(cls.Imports, "; "))
	}
	if len(cls.Extends) > 0 {
		out = append(out, "Extends: "+strings.Join(cls.Extends, ", "))
	}
	if len(cls.Components) > 0 {
		names := make([]string, 0, len(cls.Components))
		for _, c := range cls.Components {
			names = append(names, c.TypeName+" "+c.Name)
		}
		out = append(out, "Components: "+strings.Join(names, ", "))
	}
	if cls.Equations > 0 {
		out = append(out, fmt.Sprintf("Equations: %d", cls.Equations))
	}
	if cls.Statements > 0 {
		out = append(out, fmt.Sprintf("Statements: %d", cls.Statements))
	}
	if cls.External {
		out = append(out, "External: true")
	}
	return out
}

// FormatOutlinePretty prints the class tree of fileID with box-drawing connectors.
func FormatOutlinePretty(w io.Writer, builder *ast.Builder, fileID ast.FileID, fs *source.FileSet) error {
	file := builder.Files.Get(fileID)
	if file == nil {
		return fmt.Errorf("file not found")
	}

	header := "File"
	if fs != nil && validSpan(fs, file.Span) {
		header = fs.Get(file.Span.File).FormatPath("auto", fs.BaseDir())
	}
	fmt.Fprintf(w, "%s (span: %s)\n", header, formatSpan(file.Span, fs))
	if file.HasWithin {
		fmt.Fprintf(w, "within %s\n", file.Within)
	}

	for i, id := range file.Classes {
		writeClassPretty(w, builder, id, fs, "", i == len(file.Classes)-1)
	}
	return nil
}

func writeClassPretty(w io.Writer, builder *ast.Builder, id ast.ClassID, fs *source.FileSet, prefix string, last bool) {
	branch, next := "├─ ", "│  "
	if last {
		branch, next = "└─ ", "   "
	}
	cls := builder.Classes.Get(id)
	if cls == nil {
		fmt.Fprintf(w, "%s%s<nil class>\n", prefix, branch)
		return
	}
	fmt.Fprintf(w, "%s%s%s (span: %s)\n", prefix, branch, classHeader(cls), formatSpan(cls.Span, fs))

	inner := prefix + next
	details := classDetails(cls)
	for i, line := range details {
		mark := "├─ "
		if i == len(details)-1 && len(cls.Children) == 0 {
			mark = "└─ "
		}
		fmt.Fprintf(w, "%s%s%s\n", inner, mark, line)
	}
	for i, child := range cls.Children {
		writeClassPretty(w, builder, child, fs, inner, i == len(cls.Children)-1)
	}
}

// FormatOutlineJSON prints the class tree of fileID as JSON.
func FormatOutlineJSON(w io.Writer, builder *ast.Builder, fileID ast.FileID) error {
	file := builder.Files.Get(fileID)
	if file == nil {
		return fmt.Errorf("file not found")
	}

	output := OutlineNode{
		Type: "File",
		Span: file.Span,
	}
	if file.HasWithin {
		output.Fields = map[string]any{"within": file.Within}
	}
	for _, id := range file.Classes {
		output.Children = append(output.Children, classJSON(builder, id))
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func classJSON(builder *ast.Builder, id ast.ClassID) OutlineNode {
	cls := builder.Classes.Get(id)
	if cls == nil {
		return OutlineNode{Type: "Class"}
	}
	fields := map[string]any{
		"spec": cls.Spec.String(),
	}
	if p := cls.Prefixes.String(); p != "" {
		fields["prefixes"] = p
	}
	if cls.Base != "" {
		fields["base"] = cls.Base
	}
	if len(cls.Literals) > 0 {
		fields["literals"] = cls.Literals
	}
	if len(cls.Imports) > 0 {
		fields["imports"] = cls.Imports
	}
	if len(cls.Extends) > 0 {
		fields["extends"] = cls.Extends
	}
	if len(cls.Components) > 0 {
		comps := make([]map[string]string, 0, len(cls.Components))
		for _, c := range cls.Components {
			m := map[string]string{"name": c.Name, "type": c.TypeName}
			if c.Variability != "" {
				m["variability"] = c.Variability
			}
			if c.Causality != "" {
				m["causality"] = c.Causality
			}
			comps = append(comps, m)
		}
		fields["components"] = comps
	}
	fields["equations"] = cls.Equations
	fields["statements"] = cls.Statements
	if cls.External {
		fields["external"] = true
	}

	node := OutlineNode{
		Type:   "Class",
		Kind:   cls.Kind.String(),
		Name:   cls.Name,
		Span:   cls.Span,
		Fields: fields,
	}
	for _, child := range cls.Children {
		node.Children = append(node.Children, classJSON(builder, child))
	}
	return node
}

// FormatOutlineTree draws the class tree top-down as ASCII art.
func FormatOutlineTree(w io.Writer, builder *ast.Builder, fileID ast.FileID, fs *source.FileSet) error {
	file := builder.Files.Get(fileID)
	if file == nil {
		return fmt.Errorf("file not found")
	}

	header := "File"
	if fs != nil && validSpan(fs, file.Span) {
		header = fs.Get(file.Span.File).FormatPath("auto", fs.BaseDir())
	}
	root := &treeNode{label: header}
	for _, id := range file.Classes {
		root.children = append(root.children, buildClassTreeNode(builder, id))
	}

	for _, line := range renderTree(root).lines {
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

type treeNode struct {
	label    string
	children []*treeNode
}

type treeBlock struct {
	lines []string
	width int
	root  int
}

func buildClassTreeNode(builder *ast.Builder, id ast.ClassID) *treeNode {
	cls := builder.Classes.Get(id)
	if cls == nil {
		return &treeNode{label: "<nil>"}
	}
	node := &treeNode{label: cls.Kind.String() + " " + cls.Name}
	for _, child := range cls.Children {
		node.children = append(node.children, buildClassTreeNode(builder, child))
	}
	return node
}

// renderTree converts a treeNode into lines of ASCII art. root is the column
// of the node's vertical connector within the returned block.
func renderTree(node *treeNode) treeBlock {
	label := node.label
	labelWidth := len(label)

	if len(node.children) == 0 {
		return treeBlock{
			lines: []string{label},
			width: labelWidth,
			root:  labelWidth / 2,
		}
	}

	childBlocks := make([]treeBlock, len(node.children))
	maxChildHeight := 0
	for i, child := range node.children {
		childBlocks[i] = renderTree(child)
		maxChildHeight = max(maxChildHeight, len(childBlocks[i].lines))
	}

	const spacing = 3

	positions := make([]int, len(childBlocks))
	totalWidth := 0
	for i, block := range childBlocks {
		positions[i] = totalWidth + block.root
		totalWidth += block.width
		if i != len(childBlocks)-1 {
			totalWidth += spacing
		}
	}

	childrenCenter := (positions[0] + positions[len(positions)-1]) / 2
	rootPos := labelWidth / 2
	shift := childrenCenter - rootPos

	childPrefix := 0
	if shift < 0 {
		childPrefix = -shift
		for i := range positions {
			positions[i] += childPrefix
		}
		totalWidth += childPrefix
		shift = 0
	} else {
		rootPos += shift
	}

	width := max(totalWidth, shift+labelWidth, rootPos+1)
	rootLine := strings.Repeat(" ", shift) + label
	rootLine += strings.Repeat(" ", width-len(rootLine))

	connector := []byte(strings.Repeat(" ", width))
	connector[rootPos] = '|'
	for _, pos := range positions {
		switch {
		case pos < rootPos:
			connector[pos] = '/'
		case pos > rootPos:
			connector[pos] = '\\'
		default:
			connector[pos] = '|'
		}
	}

	childLines := make([]string, maxChildHeight)
	for row := range maxChildHeight {
		var sb strings.Builder
		sb.WriteString(strings.Repeat(" ", childPrefix))
		for i, block := range childBlocks {
			line := ""
			if row < len(block.lines) {
				line = block.lines[row]
			}
			sb.WriteString(line)
			sb.WriteString(strings.Repeat(" ", block.width-len(line)))
			if i != len(childBlocks)-1 {
				sb.WriteString(strings.Repeat(" ", spacing))
			}
		}
		rowStr := sb.String()
		if len(rowStr) < width {
			rowStr += strings.Repeat(" ", width-len(rowStr))
		}
		childLines[row] = rowStr
	}

	lines := make([]string, 0, 2+len(childLines))
	lines = append(lines, rootLine, string(connector))
	lines = append(lines, childLines...)

	return treeBlock{
		lines: lines,
		width: width,
		root:  rootPos,
	}
}
