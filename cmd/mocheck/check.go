package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"mocheck/internal/diag"
	"mocheck/internal/driver"
	"mocheck/internal/source"
	"mocheck/internal/version"
)

type checkFlags struct {
	details      bool
	clearCache   bool
	timings      bool
	verbosePaths bool
}

var checkBindings = []flagBinding{
	{"suffix", suffixKey},
	{"exclude", excludeKey},
	{"jobs", jobsKey},
	{"continue-on-error", continueKey},
	{"halt-on-io-error", haltOnIOKey},
	{"format", formatKey},
	{"cache", cacheKey},
	{"ui", uiKey},
}

func newCheckCmd(a *app) *cobra.Command {
	var opts checkFlags
	cmd := &cobra.Command{
		Use:   "check [flags] <file.mo|directory>",
		Short: "Check Modelica sources for syntax errors",
		Long: `Check parses one file, or every matching file below a directory, and
prints one line per file with syntax errors to stderr.

Exit status is 0 when every file parsed cleanly (or nothing matched) and 1 on
syntax errors, unreadable input or an internal parser failure.`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindCommandFlags(a.cfg, cmd.Flags(), checkBindings)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCheck(cmd, args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.String("suffix", defaultSuffix, "file name suffix to select in directory mode")
	flags.StringArrayP("exclude", "x", nil, "exclude paths matching regex, relative to the root (can be repeated)")
	flags.IntP("jobs", "j", defaultJobs, "files checked concurrently (0=GOMAXPROCS)")
	flags.Bool("continue-on-error", true, "keep checking after a file with syntax errors")
	flags.Bool("halt-on-io-error", true, "abort on the first unreadable file instead of counting it as failed")
	flags.String("format", defaultFormat, "output format (text|short|pretty|json|yaml|table)")
	flags.Bool("cache", false, "reuse results for unchanged files")
	flags.String("ui", string(uiModeAuto), "progress UI (auto|on|off)")

	flags.BoolVar(&opts.details, "details", false, "print the diagnostics of failing files")
	flags.BoolVar(&opts.clearCache, "clear-cache", false, "drop cached results before checking")
	flags.BoolVar(&opts.timings, "timings", false, "print phase timings to stderr")
	flags.BoolVarP(&opts.verbosePaths, "verbose-paths", "p", false, "print each path before it is checked")
	return cmd
}

var checkFormats = map[string]bool{
	"text": true, "short": true, "pretty": true, "json": true, "yaml": true, "table": true,
}

func (a *app) runCheck(cmd *cobra.Command, root string, flags checkFlags) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	format := strings.ToLower(strings.TrimSpace(a.cfg.GetString(formatKey)))
	if !checkFormats[format] {
		return fmt.Errorf("unknown format %q (expected text|short|pretty|json|yaml|table)", format)
	}
	mode, err := readUIMode(a.cfg.GetString(uiKey))
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

	details := flags.details || format == "short" || format == "pretty"
	var collector *detailCollector
	var hook driver.DiagnosticsHook
	if details {
		collector = newDetailCollector()
		hook = collector.hook
	}

	opts := driver.DefaultOptions(driver.NewModelicaEngine(a.cfg.GetInt(maxDiagnosticsKey), hook))
	opts.Selector = sel
	opts.Encoding = enc
	opts.Jobs = jobs
	opts.ContinueOnParseError = a.cfg.GetBool(continueKey)
	opts.HaltOnFirstIOError = a.cfg.GetBool(haltOnIOKey)
	opts.Logger = a.log

	if err := a.configureCache(&opts, details, flags.clearCache); err != nil {
		return err
	}

	// the progress view owns the terminal; failure lines wait until it exits
	useUI := format == "text" && !a.quiet && !flags.verbosePaths && isDir(root) && shouldUseTUI(mode, stdout)
	var pending bytes.Buffer
	if useUI {
		opts.Reporter = driver.NewLineReporter(&pending)
	} else {
		opts.Reporter = driver.NewLineReporter(stderr)
	}
	var events chan driver.Event
	switch {
	case useUI:
		events = make(chan driver.Event, 256)
		opts.Observer = driver.ChannelObserver(events)
	case flags.verbosePaths:
		opts.Observer = pathEcho(stdout)
	}

	validator := driver.NewValidator(opts)
	var result *driver.BatchResult
	if useUI {
		result, err = runCheckWithUI(cmd.Context(), validator, root, events, stdout)
	} else {
		result, err = validator.Run(cmd.Context(), root)
	}
	if _, copyErr := pending.WriteTo(stderr); copyErr != nil && err == nil {
		err = copyErr
	}
	if err != nil {
		return err
	}

	baseDir := root
	if result.Mode == driver.ModeSingleFile {
		baseDir = filepath.Dir(root)
	}
	if err := a.renderCheck(stdout, stderr, format, result, collector, baseDir); err != nil {
		return err
	}
	if flags.timings {
		fmt.Fprint(stderr, validator.Timings().Summary())
	}
	if code := result.ExitCode(); code != 0 {
		return exitError{code: code}
	}
	return nil
}

// configureCache opens the outcome cache when enabled. Cached hits skip the
// parser, so the cache is bypassed when diagnostics must be printed.
func (a *app) configureCache(opts *driver.Options, details, clear bool) error {
	if !a.cfg.GetBool(cacheKey) && !clear {
		return nil
	}
	cache, err := driver.OpenOutcomeCache("mocheck", version.CacheSalt())
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	if clear {
		if err := cache.DropAll(); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		a.log.Info("cache cleared", "dir", cache.Dir())
	}
	if !a.cfg.GetBool(cacheKey) {
		return nil
	}
	if details {
		a.log.Debug("cache bypassed: diagnostics requested")
		return nil
	}
	opts.Cache = cache
	return nil
}

func pathEcho(w io.Writer) driver.Observer {
	var mu sync.Mutex
	return func(ev driver.Event) {
		if ev.Kind != driver.EventStarted {
			return
		}
		mu.Lock()
		fmt.Fprintln(w, ev.Path)
		mu.Unlock()
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

type fileDetail struct {
	bag *diag.Bag
	fs  *source.FileSet
}

// detailCollector keeps the diagnostics of every file, keyed by path.
// The engine hook may run on several workers at once.
type detailCollector struct {
	mu    sync.Mutex
	files map[string]fileDetail
}

func newDetailCollector() *detailCollector {
	return &detailCollector{files: make(map[string]fileDetail)}
}

func (c *detailCollector) hook(path string, bag *diag.Bag, fs *source.FileSet) {
	c.mu.Lock()
	c.files[path] = fileDetail{bag: bag, fs: fs}
	c.mu.Unlock()
}

func (c *detailCollector) get(path string) (fileDetail, bool) {
	if c == nil {
		return fileDetail{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.files[path]
	return d, ok
}

// setBaseDir makes relative path display resolve against dir.
func (c *detailCollector) setBaseDir(dir string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range c.files {
		d.fs.SetBaseDir(dir)
	}
}
