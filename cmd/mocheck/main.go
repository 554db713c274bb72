package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"mocheck/internal/diagfmt"
	"mocheck/internal/prof"
	"mocheck/internal/version"
)

// app carries the state shared by every command of one invocation.
type app struct {
	cfg    *viper.Viper
	log    *slog.Logger
	closer io.Closer

	configPath string
	verbose    bool
	quiet      bool
	pathMode   diagfmt.PathMode

	profOpts prof.Options
	profile  *prof.Session
}

// exitError ends the process with code without printing anything further.
type exitError struct {
	code int
}

func (e exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func newApp() *app {
	return &app{cfg: newConfig(), log: slog.New(slog.DiscardHandler)}
}

func (a *app) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mocheck",
		Short: "Modelica syntax checker",
		Long: `mocheck parses Modelica (.mo) sources and reports syntax errors.
Given a directory it checks every matching file below it and exits 1 if any
file has syntax errors.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default ./.mocheck.yaml)")
	flags.String("color", "auto", "colorize output (auto|on|off)")
	bindFlagToConfig(a.cfg, flags.Lookup("color"), colorKey)
	flags.BoolVar(&a.quiet, "quiet", false, "suppress non-essential output")
	flags.Int("max-diagnostics", defaultMaxDiagnostics, "maximum number of diagnostics to keep per file")
	bindFlagToConfig(a.cfg, flags.Lookup("max-diagnostics"), maxDiagnosticsKey)
	flags.String("encoding", defaultEncoding, "source encoding (utf-8|latin1|windows-1252)")
	bindFlagToConfig(a.cfg, flags.Lookup("encoding"), encodingKey)
	flags.String("path-mode", "auto", "how diagnostic paths are shown (auto|absolute|relative|basename)")
	bindFlagToConfig(a.cfg, flags.Lookup("path-mode"), pathModeKey)
	flags.String("log-file", "", "write logs to this file (rotated)")
	bindFlagToConfig(a.cfg, flags.Lookup("log-file"), logFilenameKey)
	flags.BoolVar(&a.verbose, "verbose", false, "log at debug level")
	flags.StringVar(&a.profOpts.CPUProfile, "cpu-profile", "", "write a CPU profile to this file")
	flags.StringVar(&a.profOpts.MemProfile, "mem-profile", "", "write a heap profile to this file on exit")
	flags.StringVar(&a.profOpts.Trace, "runtime-trace", "", "write a runtime trace to this file")

	rootCmd.AddCommand(
		newCheckCmd(a),
		newTokenizeCmd(a),
		newParseCmd(a),
		newSuiteCmd(a),
		newWatchCmd(a),
		newVersionCmd(a),
	)
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	if err := readConfig(a.cfg, a.configPath); err != nil {
		return err
	}
	switch mode := a.cfg.GetString(colorKey); mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto", "":
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
	pathMode, err := diagfmt.ParsePathMode(a.cfg.GetString(pathModeKey))
	if err != nil {
		return err
	}
	a.pathMode = pathMode
	a.log, a.closer = configureLogger(a.cfg, a.verbose)
	if a.profOpts.Enabled() {
		session, err := prof.Start(a.profOpts)
		if err != nil {
			return err
		}
		a.profile = session
	}
	a.log.Debug("starting", "command", cmd.CommandPath(), "version", version.Version, "config", a.cfg.ConfigFileUsed())
	return nil
}

func (a *app) close() error {
	err := a.profile.Stop()
	a.profile = nil
	if a.closer != nil {
		err = errors.Join(err, a.closer.Close())
		a.closer = nil
	}
	return err
}

// useColor resolves --color for output written to w.
func (a *app) useColor(w io.Writer) bool {
	switch a.cfg.GetString(colorKey) {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(w)
	}
}

// execute runs the CLI and maps the outcome to a process exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := newApp()
	defer func() {
		if err := a.close(); err != nil {
			fmt.Fprintf(stderr, "mocheck: %v\n", err)
		}
	}()

	rootCmd := a.rootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var exit exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	fmt.Fprintf(stderr, "mocheck: %v\n", err)
	return 1
}

// main runs the CLI; any command error exits with status 1.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// isTerminal reports whether w is an *os.File attached to a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
