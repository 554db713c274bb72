package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mocheck/internal/diagfmt"
	"mocheck/internal/driver"
	"mocheck/internal/source"
)

func newParseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [flags] <file.mo>",
		Short: "Parse a Modelica source file and print its class outline",
		Long: `Parse analyzes a Modelica source file and prints the outline of its
classes. Syntax errors go to stderr and make the command exit 1. With
--format json the diagnostics are written to stderr as a JSON document.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runParse(cmd, args[0])
		},
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json|tree)")
	return cmd
}

func (a *app) runParse(cmd *cobra.Command, path string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "json", "tree":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	enc, err := source.LookupEncoding(a.cfg.GetString(encodingKey))
	if err != nil {
		return err
	}

	result, err := driver.Parse(cmd.Context(), path, enc, a.cfg.GetInt(maxDiagnosticsKey))
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	stderr := cmd.ErrOrStderr()
	if result.Bag.Len() > 0 {
		if err := a.writeFileDiagnostics(stderr, format == "json", result.Bag, result.FileSet); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		err = diagfmt.FormatOutlineJSON(out, result.Builder, result.FileID)
	case "tree":
		err = diagfmt.FormatOutlineTree(out, result.Builder, result.FileID, result.FileSet)
	default:
		err = diagfmt.FormatOutlinePretty(out, result.Builder, result.FileID, result.FileSet)
	}
	if err != nil {
		return err
	}
	if result.Errors > 0 {
		if !a.quiet && format != "json" {
			fmt.Fprintf(stderr, "%s: %d syntax error(s)\n", path, result.Errors)
		}
		return exitError{code: 1}
	}
	return nil
}
