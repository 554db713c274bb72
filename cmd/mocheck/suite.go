package main

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"mocheck/internal/driver"
	"mocheck/internal/source"
	"mocheck/internal/suite"
)

type suiteFlags struct {
	format   string
	html     string
	markdown string
}

func newSuiteCmd(a *app) *cobra.Command {
	var flags suiteFlags
	cmd := &cobra.Command{
		Use:   "suite [flags] <manifest.toml>",
		Short: "Run a conformance suite of expected pass/fail cases",
		Long: `Suite reads a TOML manifest of [[case]] entries, checks each case path
and compares the outcome with its expect value (pass|fail).

Exit status is 1 when any case does not match its expectation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSuite(cmd, args[0], flags)
		},
	}
	cmd.Flags().StringVar(&flags.format, "format", "table", "output format (table|markdown)")
	cmd.Flags().StringVar(&flags.html, "html", "", "also write the results as an HTML page to this file")
	cmd.Flags().StringVar(&flags.markdown, "markdown", "", "also write the results as a markdown table to this file")
	return cmd
}

func (a *app) runSuite(cmd *cobra.Command, path string, flags suiteFlags) error {
	if flags.format != "table" && flags.format != "markdown" {
		return fmt.Errorf("unknown format %q (expected table|markdown)", flags.format)
	}
	manifest, err := suite.Load(path)
	if err != nil {
		return err
	}
	enc, err := source.LookupEncoding(a.cfg.GetString(encodingKey))
	if err != nil {
		return err
	}
	sel, err := driver.NewSelector(a.cfg.GetString(suffixKey), a.cfg.GetStringSlice(excludeKey))
	if err != nil {
		return err
	}
	jobs := a.cfg.GetInt(jobsKey)
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	opts := driver.DefaultOptions(driver.NewModelicaEngine(a.cfg.GetInt(maxDiagnosticsKey), nil))
	opts.Selector = sel
	opts.Encoding = enc
	opts.Jobs = jobs
	opts.Logger = a.log

	stderr := cmd.ErrOrStderr()
	runner := suite.Runner{Options: opts}
	if !a.quiet {
		runner.OnResult = caseEcho(stderr, a.useColor(stderr))
	}
	a.log.Info("suite started", "name", manifest.Name(), "cases", len(manifest.Cases))

	report, err := runner.Run(cmd.Context(), manifest)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flags.format == "markdown" {
		suite.WriteMarkdown(out, report)
	} else {
		suite.WriteTable(out, report)
	}
	if flags.markdown != "" {
		if err := writeFile(flags.markdown, func(w io.Writer) error {
			suite.WriteMarkdown(w, report)
			return nil
		}); err != nil {
			return err
		}
	}
	if flags.html != "" {
		if err := writeFile(flags.html, func(w io.Writer) error {
			return suite.WriteHTML(w, report)
		}); err != nil {
			return err
		}
	}

	a.log.Info("suite finished", "name", report.Name, "passed", report.Passed(), "failed", report.Failed())
	if code := report.ExitCode(); code != 0 {
		return exitError{code: code}
	}
	return nil
}

func caseEcho(w io.Writer, useColor bool) func(suite.CaseResult) {
	pass := color.New(color.FgGreen)
	fail := color.New(color.FgRed, color.Bold)
	if !useColor {
		pass.DisableColor()
		fail.DisableColor()
	}
	return func(r suite.CaseResult) {
		if r.Passed() {
			fmt.Fprintf(w, "%s %s\n", pass.Sprint("PASS"), r.Case.Label())
			return
		}
		fmt.Fprintf(w, "%s %s (expected %s, got %s)\n", fail.Sprint("FAIL"), r.Case.Label(), r.Case.Expect, caseActual(r))
	}
}

func caseActual(r suite.CaseResult) string {
	if r.Err != nil {
		return r.Err.Error()
	}
	return string(r.Actual)
}

func writeFile(path string, render func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return render(f)
}
