package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mocheck/internal/diagfmt"
	"mocheck/internal/driver"
	"mocheck/internal/source"
)

func newTokenizeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] <file.mo>",
		Short: "Tokenize a Modelica source file",
		Long:  `Tokenize breaks a Modelica source file down into its tokens`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTokenize(cmd, args[0])
		},
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func (a *app) runTokenize(cmd *cobra.Command, path string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	enc, err := source.LookupEncoding(a.cfg.GetString(encodingKey))
	if err != nil {
		return err
	}

	result, err := driver.Tokenize(path, enc, a.cfg.GetInt(maxDiagnosticsKey))
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	stderr := cmd.ErrOrStderr()
	if result.Bag.Len() > 0 {
		if err := a.writeFileDiagnostics(stderr, format == "json", result.Bag, result.FileSet); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		err = diagfmt.FormatTokensJSON(out, result.Tokens)
	} else {
		err = diagfmt.FormatTokensPretty(out, result.Tokens, result.FileSet)
	}
	if err != nil {
		return err
	}
	if result.Bag.HasErrors() {
		return exitError{code: 1}
	}
	return nil
}
