package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"mocheck/internal/observ"
	"mocheck/internal/source"
)

// Mode is how the validator interpreted its root path.
type Mode uint8

const (
	// ModeSingleFile validates exactly the root file, bypassing the selector.
	ModeSingleFile Mode = iota
	// ModeDirectory validates every file the selector yields.
	ModeDirectory
)

func (m Mode) String() string {
	if m == ModeSingleFile {
		return "file"
	}
	return "directory"
}

// Outcome is the result of validating one file.
type Outcome struct {
	Path string
	// Errors is the syntax error count reported by the engine.
	Errors int
	// Err is set only for I/O failures downgraded by HaltOnFirstIOError=false.
	Err      error
	Cached   bool
	Duration time.Duration
}

// Failed reports whether the file counts against the batch.
func (o Outcome) Failed() bool {
	return o.Errors > 0 || o.Err != nil
}

// Status is a short label for tables and progress views.
func (o Outcome) Status() string {
	switch {
	case o.Err != nil:
		return "error"
	case o.Errors > 0:
		return "fail"
	default:
		return "ok"
	}
}

// BatchResult aggregates the outcomes of one run.
type BatchResult struct {
	Mode      Mode
	Root      string
	Processed int
	Failed    bool
	// Outcomes are stored in selection order.
	Outcomes []Outcome
}

func (r *BatchResult) add(o Outcome) {
	r.Processed++
	if o.Failed() {
		r.Failed = true
	}
	r.Outcomes = append(r.Outcomes, o)
}

// ExitCode is 1 if any file failed and 0 otherwise. A nil result is a fatal run.
func (r *BatchResult) ExitCode() int {
	if r == nil || r.Failed {
		return 1
	}
	return 0
}

// TotalErrors sums the syntax errors of every outcome.
func (r *BatchResult) TotalErrors() int {
	if r == nil {
		return 0
	}
	total := 0
	for _, o := range r.Outcomes {
		total += o.Errors
	}
	return total
}

// FailedCount is the number of failed outcomes.
func (r *BatchResult) FailedCount() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, o := range r.Outcomes {
		if o.Failed() {
			n++
		}
	}
	return n
}

// FailedOutcomes returns the failed outcomes in selection order.
func (r *BatchResult) FailedOutcomes() []Outcome {
	if r == nil {
		return nil
	}
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Failed() {
			out = append(out, o)
		}
	}
	return out
}

// Options configures a Validator.
type Options struct {
	Engine   Engine
	Selector *Selector
	Encoding source.Encoding
	// Reporter receives failed outcomes; nil discards them.
	Reporter Reporter
	// Observer receives progress events; nil disables them.
	Observer Observer
	Cache    *OutcomeCache
	Logger   *slog.Logger

	// ContinueOnParseError keeps traversing after a file with syntax errors.
	ContinueOnParseError bool
	// HaltOnFirstIOError aborts the run on the first unreadable path. When
	// false the path becomes a failed outcome with Err set.
	HaltOnFirstIOError bool
	// Jobs bounds concurrent validations; values below 2 run sequentially.
	Jobs int
}

// DefaultOptions returns sequential, fail-fast-on-I/O options for engine.
func DefaultOptions(engine Engine) Options {
	return Options{
		Engine:               engine,
		Selector:             &Selector{Suffix: DefaultSuffix},
		Encoding:             source.UTF8,
		ContinueOnParseError: true,
		HaltOnFirstIOError:   true,
		Jobs:                 1,
	}
}

// Validator runs one batch validation. It is single-shot.
type Validator struct {
	opts  Options
	log   *slog.Logger
	timer *observ.Timer

	mu    sync.Mutex
	state State
}

// NewValidator returns an idle validator.
func NewValidator(opts Options) *Validator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.Selector == nil {
		opts.Selector = &Selector{}
	}
	return &Validator{
		opts:  opts,
		log:   logger,
		timer: observ.NewTimer(),
	}
}

// State returns the current lifecycle state.
func (v *Validator) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

func (v *Validator) setState(s State) {
	v.mu.Lock()
	v.state = s
	v.mu.Unlock()
}

// Timings reports the phase durations of the finished run.
func (v *Validator) Timings() observ.Report {
	return v.timer.Report()
}

// Run validates root. A regular file is validated on its own; a directory is
// traversed with the selector. A fatal error (I/O, traversal, engine fault,
// cancellation) returns a nil result.
func (v *Validator) Run(ctx context.Context, root string) (*BatchResult, error) {
	v.mu.Lock()
	if v.state != StateIdle {
		v.mu.Unlock()
		return nil, ErrValidatorUsed
	}
	v.state = StateValidating
	v.mu.Unlock()
	defer v.setState(StateTerminated)

	if v.opts.Engine == nil {
		return nil, ErrNoEngine
	}

	info, err := os.Stat(root)
	if err != nil {
		ioErr := &IOError{Op: "stat", Path: root, Err: err}
		v.log.Error("cannot access root", "path", root, "err", err)
		return nil, ioErr
	}

	if !info.IsDir() && !info.Mode().IsRegular() {
		ioErr := &IOError{Op: "stat", Path: root, Err: errors.New("not a regular file")}
		v.log.Error("cannot validate root", "path", root, "mode", info.Mode().String())
		return nil, ioErr
	}

	var result *BatchResult
	if info.IsDir() {
		result, err = v.runDirectory(ctx, root)
	} else {
		result, err = v.runSingle(ctx, root)
	}
	if err != nil {
		v.log.Error("validation aborted", "root", root, "err", err)
		return nil, err
	}

	v.setState(StateFinalizing)
	idx := v.timer.Begin("finalize")
	v.log.Info("validation finished",
		"root", root,
		"mode", result.Mode.String(),
		"processed", result.Processed,
		"failed", len(result.FailedOutcomes()),
		"exit", result.ExitCode(),
	)
	v.timer.End(idx, "")
	return result, nil
}

func (v *Validator) runSingle(ctx context.Context, path string) (*BatchResult, error) {
	result := &BatchResult{Mode: ModeSingleFile, Root: path}
	idx := v.timer.Begin("validate")
	out, err := v.validateOne(ctx, path)
	v.timer.End(idx, "1 file")
	if err != nil {
		return nil, err
	}
	v.finish(out)
	result.add(out)
	return result, nil
}

func (v *Validator) runDirectory(ctx context.Context, root string) (*BatchResult, error) {
	v.setState(StateSelecting)
	paths, err := v.opts.Selector.Select(root)
	if err != nil {
		return nil, err
	}

	result := &BatchResult{Mode: ModeDirectory, Root: root}
	idx := v.timer.Begin("validate")
	if v.opts.Jobs > 1 {
		err = v.validateParallel(ctx, paths, result)
	} else {
		err = v.validateSequential(ctx, paths, result)
	}
	v.timer.End(idx, fmt.Sprintf("%d files", result.Processed))
	if err != nil {
		return nil, err
	}
	if result.Processed == 0 {
		v.log.Info("no matching files", "root", root, "suffix", v.opts.Selector.suffix())
	}
	return result, nil
}

func (v *Validator) validateSequential(ctx context.Context, paths iter.Seq2[string, error], result *BatchResult) error {
	for path, walkErr := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			out, err := v.walkFailure(path, walkErr)
			if err != nil {
				return err
			}
			v.finish(out)
			result.add(out)
			continue
		}

		v.setState(StateValidating)
		out, err := v.validateOne(ctx, path)
		if err != nil {
			return err
		}
		v.finish(out)
		result.add(out)
		if out.Errors > 0 && !v.opts.ContinueOnParseError {
			v.log.Debug("stopping after first syntax failure", "path", path)
			break
		}
		v.setState(StateSelecting)
	}
	return nil
}

// validateParallel consumes paths lazily on the calling goroutine and
// validates up to Jobs files at once. Outcomes keep selection order.
func (v *Validator) validateParallel(ctx context.Context, paths iter.Seq2[string, error], result *BatchResult) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.opts.Jobs)
	v.setState(StateValidating)

	var (
		mu    sync.Mutex
		slots []Outcome
		stop  atomic.Bool
		fatal error
	)
	for path, walkErr := range paths {
		if gctx.Err() != nil || stop.Load() {
			break
		}
		if walkErr != nil {
			out, err := v.walkFailure(path, walkErr)
			if err != nil {
				fatal = err
				break
			}
			v.finish(out)
			mu.Lock()
			slots = append(slots, out)
			mu.Unlock()
			continue
		}

		mu.Lock()
		slot := len(slots)
		slots = append(slots, Outcome{Path: path})
		mu.Unlock()

		g.Go(func() error {
			out, err := v.validateOne(gctx, path)
			if err != nil {
				return err
			}
			v.finish(out)
			mu.Lock()
			slots[slot] = out
			mu.Unlock()
			if out.Errors > 0 && !v.opts.ContinueOnParseError {
				stop.Store(true)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if fatal != nil {
		return fatal
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, out := range slots {
		result.add(out)
	}
	return nil
}

// walkFailure applies the I/O policy to an error yielded by the selector.
func (v *Validator) walkFailure(path string, err error) (Outcome, error) {
	var ioErr *IOError
	if !errors.As(err, &ioErr) || v.opts.HaltOnFirstIOError {
		return Outcome{}, err
	}
	v.log.Warn("skipping unreadable path", "path", path, "err", err)
	return Outcome{Path: path, Err: err}, nil
}

// validateOne reads path, consults the cache and runs the engine.
func (v *Validator) validateOne(ctx context.Context, path string) (Outcome, error) {
	v.observe(Event{Kind: EventStarted, Path: path})
	start := time.Now()

	src, err := v.readSource(path)
	if err != nil {
		ioErr := &IOError{Op: "read", Path: path, Err: err}
		if v.opts.HaltOnFirstIOError {
			return Outcome{}, ioErr
		}
		v.log.Warn("skipping unreadable file", "path", path, "err", err)
		return Outcome{Path: path, Err: ioErr, Duration: time.Since(start)}, nil
	}

	if count, ok, cacheErr := v.opts.Cache.Get(src); cacheErr != nil {
		v.log.Debug("cache read failed", "path", path, "err", cacheErr)
	} else if ok {
		v.log.Debug("cache hit", "path", path, "errors", count)
		return Outcome{Path: path, Errors: count, Cached: true, Duration: time.Since(start)}, nil
	}

	count, err := v.parse(ctx, path, src)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return Outcome{}, ctxErr
		}
		return Outcome{}, &EngineError{Path: path, Err: err}
	}
	if count < 0 {
		return Outcome{}, &EngineError{Path: path, Err: fmt.Errorf("negative error count %d", count)}
	}

	if err := v.opts.Cache.Put(path, src, count); err != nil {
		v.log.Debug("cache write failed", "path", path, "err", err)
	}
	out := Outcome{Path: path, Errors: count, Duration: time.Since(start)}
	v.log.Debug("validated", "path", path, "errors", count, "duration", out.Duration)
	return out, nil
}

// readSource opens, decodes and closes path before the engine runs.
func (v *Validator) readSource(path string) ([]byte, error) {
	// #nosec G304 -- path comes from the selector or the command line
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	return io.ReadAll(v.opts.Encoding.Reader(f))
}

// parse calls the engine, turning a panic into an error.
func (v *Validator) parse(ctx context.Context, path string, src []byte) (count int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError{value: r}
		}
	}()
	return v.opts.Engine.Parse(ctx, path, src)
}

func (v *Validator) finish(out Outcome) {
	if out.Failed() && v.opts.Reporter != nil {
		v.opts.Reporter.Report(out)
	}
	v.observe(Event{Kind: EventFinished, Path: out.Path, Outcome: out})
}

func (v *Validator) observe(ev Event) {
	if v.opts.Observer != nil {
		v.opts.Observer(ev)
	}
}
