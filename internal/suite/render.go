package suite

import (
	"fmt"
	"html/template"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

func resultLabel(r CaseResult) string {
	if r.Passed() {
		return "ok"
	}
	return "MISMATCH"
}

func actualLabel(r CaseResult) string {
	if r.Err != nil {
		return "error"
	}
	return string(r.Actual)
}

func rows(report *Report) [][]string {
	out := make([][]string, 0, len(report.Results))
	for _, r := range report.Results {
		out = append(out, []string{
			r.Case.Label(),
			string(r.Case.Expect),
			actualLabel(r),
			strconv.Itoa(r.Files),
			strconv.Itoa(r.Errors),
			resultLabel(r),
		})
	}
	return out
}

var header = []string{"Case", "Expect", "Actual", "Files", "Errors", "Result"}

// WriteTable prints the report as an aligned terminal table with a totals footer.
func WriteTable(w io.Writer, report *Report) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT,
	})
	table.AppendBulk(rows(report))
	table.SetFooter([]string{
		fmt.Sprintf("Total Cases %d", len(report.Results)),
		"", "", "", "",
		fmt.Sprintf("%d failed", report.Failed()),
	})
	table.Render()

	for _, r := range report.Results {
		if r.Err != nil {
			fmt.Fprintf(w, "%s: %v\n", r.Case.Label(), r.Err)
		}
	}
}

// WriteMarkdown prints the report as a GitHub-flavoured markdown table.
func WriteMarkdown(w io.Writer, report *Report) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")
	table.AppendBulk(rows(report))
	table.Render()
}

var htmlPage = template.Must(template.New("suite").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Name}}</title>
<style>
table { border-collapse: collapse; font-family: sans-serif; }
th, td { border: 1px solid #ccc; padding: 4px 8px; }
tr.mismatch td { background: #fdd; }
</style>
</head>
<body>
<h1>{{.Name}}</h1>
<p>{{.Passed}} of {{.Total}} cases passed</p>
<table>
<tr>{{range .Header}}<th>{{.}}</th>{{end}}</tr>
{{- range .Rows}}
<tr{{if .Mismatch}} class="mismatch"{{end}}>{{range .Cells}}<td>{{.}}</td>{{end}}</tr>
{{- end}}
</table>
</body>
</html>
`))

type htmlRow struct {
	Cells    []string
	Mismatch bool
}

// WriteHTML renders the report as a standalone HTML page.
func WriteHTML(w io.Writer, report *Report) error {
	data := struct {
		Name   string
		Passed int
		Total  int
		Header []string
		Rows   []htmlRow
	}{
		Name:   report.Name,
		Passed: report.Passed(),
		Total:  len(report.Results),
		Header: header,
	}
	for i, cells := range rows(report) {
		data.Rows = append(data.Rows, htmlRow{Cells: cells, Mismatch: !report.Results[i].Passed()})
	}
	return htmlPage.Execute(w, data)
}
