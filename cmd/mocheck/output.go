package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"mocheck/internal/diag"
	"mocheck/internal/diagfmt"
	"mocheck/internal/driver"
	"mocheck/internal/source"
)

// checkReport is the json and yaml form of a check run.
type checkReport struct {
	Mode        string       `json:"mode" yaml:"mode"`
	Root        string       `json:"root" yaml:"root"`
	Processed   int          `json:"processed" yaml:"processed"`
	Failed      int          `json:"failed" yaml:"failed"`
	TotalErrors int          `json:"total_errors" yaml:"total_errors"`
	ExitCode    int          `json:"exit_code" yaml:"exit_code"`
	Files       []fileReport `json:"files" yaml:"files"`
}

type fileReport struct {
	Path        string                   `json:"path" yaml:"path"`
	Status      string                   `json:"status" yaml:"status"`
	Errors      int                      `json:"errors" yaml:"errors"`
	Error       string                   `json:"error,omitempty" yaml:"error,omitempty"`
	Cached      bool                     `json:"cached,omitempty" yaml:"cached,omitempty"`
	Diagnostics []diagfmt.DiagnosticJSON `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

func buildCheckReport(result *driver.BatchResult, details *detailCollector, maxDiagnostics int) checkReport {
	report := checkReport{
		Mode:        result.Mode.String(),
		Root:        result.Root,
		Processed:   result.Processed,
		Failed:      result.FailedCount(),
		TotalErrors: result.TotalErrors(),
		ExitCode:    result.ExitCode(),
		Files:       make([]fileReport, 0, len(result.Outcomes)),
	}
	for _, o := range result.Outcomes {
		fr := fileReport{
			Path:   o.Path,
			Status: o.Status(),
			Errors: o.Errors,
			Cached: o.Cached,
		}
		if o.Err != nil {
			fr.Error = o.Err.Error()
		}
		if d, ok := details.get(o.Path); ok {
			out := diagfmt.BuildDiagnosticsOutput(d.bag, d.fs, diagfmt.JSONOpts{
				IncludePositions: true,
				PathMode:         diagfmt.PathModeRelative,
				Max:              maxDiagnostics,
				IncludeNotes:     true,
			})
			fr.Diagnostics = out.Diagnostics
		}
		report.Files = append(report.Files, fr)
	}
	return report
}

func (a *app) renderCheck(stdout, stderr io.Writer, format string, result *driver.BatchResult, details *detailCollector, baseDir string) error {
	if details != nil {
		details.setBaseDir(baseDir)
	}

	switch format {
	case "json":
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(buildCheckReport(result, details, a.cfg.GetInt(maxDiagnosticsKey)))
	case "yaml":
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		if err := enc.Encode(buildCheckReport(result, details, a.cfg.GetInt(maxDiagnosticsKey))); err != nil {
			return err
		}
		return enc.Close()
	case "table":
		writeCheckTable(stdout, result, baseDir)
		return nil
	}

	if details != nil {
		if err := a.writeDetails(stderr, format, result, details); err != nil {
			return err
		}
	}
	if !a.quiet {
		writeSummary(stdout, result)
	}
	return nil
}

// writeDetails prints collected diagnostics of failing files in selection order.
func (a *app) writeDetails(w io.Writer, format string, result *driver.BatchResult, details *detailCollector) error {
	for _, o := range result.FailedOutcomes() {
		d, ok := details.get(o.Path)
		if !ok {
			continue
		}
		if format == "short" {
			if err := diagfmt.Short(w, d.bag, d.fs, false); err != nil {
				return err
			}
			continue
		}
		diagfmt.Pretty(w, d.bag, d.fs, diagfmt.PrettyOpts{
			Color:     a.useColor(w),
			Context:   1,
			PathMode:  a.pathMode,
			ShowNotes: true,
		})
	}
	return nil
}

// writeFileDiagnostics prints the diagnostics of a single-file command,
// as a JSON document when the command output is JSON.
func (a *app) writeFileDiagnostics(w io.Writer, asJSON bool, bag *diag.Bag, fs *source.FileSet) error {
	if asJSON {
		return diagfmt.JSON(w, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         a.pathMode,
			Max:              a.cfg.GetInt(maxDiagnosticsKey),
			IncludeNotes:     true,
		})
	}
	diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
		Color:     a.useColor(w),
		Context:   2,
		PathMode:  a.pathMode,
		ShowNotes: true,
	})
	return nil
}

func writeSummary(w io.Writer, result *driver.BatchResult) {
	files := "file"
	if result.Processed != 1 {
		files = "files"
	}
	status := color.New(color.FgGreen, color.Bold).Sprint("ok")
	if result.ExitCode() != 0 {
		status = color.New(color.FgRed, color.Bold).Sprint("FAILED")
	}
	fmt.Fprintf(w, "%s: %d %s checked, %d failed, %d syntax error(s)\n",
		status, result.Processed, files, result.FailedCount(), result.TotalErrors())
}

func writeCheckTable(w io.Writer, result *driver.BatchResult, baseDir string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"File", "Status", "Errors"})
	table.SetBorder(false)
	table.SetCenterSeparator(" ")
	table.SetColumnSeparator(" ")
	table.SetRowSeparator("-")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
	})

	rows := make([][]string, 0, len(result.Outcomes))
	for _, o := range result.Outcomes {
		status := o.Status()
		if o.Cached && !o.Failed() {
			status = "cached"
		}
		rows = append(rows, []string{relPath(baseDir, o.Path), status, strconv.Itoa(o.Errors)})
	}
	table.AppendBulk(rows)
	table.SetFooter([]string{
		fmt.Sprintf("%d files", result.Processed),
		fmt.Sprintf("%d failed", result.FailedCount()),
		strconv.Itoa(result.TotalErrors()),
	})
	table.Render()
}

func relPath(base, path string) string {
	if base == "" {
		return path
	}
	rel, err := filepath.Rel(base, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}
