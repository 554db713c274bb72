package suite

import (
	"context"
	"errors"
	"time"

	"mocheck/internal/driver"
)

// CaseResult is the verdict of one case.
type CaseResult struct {
	Case   Case
	Path   string
	Files  int
	Errors int
	// Actual is empty when Err is set.
	Actual Expectation
	// Err is an I/O or engine failure that prevented a verdict.
	Err      error
	Duration time.Duration
}

// Passed reports whether the case produced its expected verdict.
func (r CaseResult) Passed() bool {
	return r.Err == nil && r.Actual == r.Case.Expect
}

// Report collects the results of a suite run in manifest order.
type Report struct {
	Name    string
	Results []CaseResult
}

// Passed counts cases that met their expectation.
func (r *Report) Passed() int {
	n := 0
	for _, res := range r.Results {
		if res.Passed() {
			n++
		}
	}
	return n
}

// Failed counts cases that did not.
func (r *Report) Failed() int {
	return len(r.Results) - r.Passed()
}

// ExitCode is 0 when every case passed.
func (r *Report) ExitCode() int {
	if r.Failed() > 0 {
		return 1
	}
	return 0
}

// Runner validates every case of a manifest with a fresh Validator.
type Runner struct {
	// Options is the template for each case's validator.
	Options driver.Options
	// OnResult, when set, is called after each case.
	OnResult func(CaseResult)
}

// Run executes the cases in order. Only cancellation aborts the run; other
// failures are recorded on the case.
func (r *Runner) Run(ctx context.Context, m *Manifest) (*Report, error) {
	opts := r.Options
	if m.Suite.Suffix != "" {
		sel := driver.Selector{Suffix: m.Suite.Suffix}
		if opts.Selector != nil {
			sel.Exclude = opts.Selector.Exclude
		}
		opts.Selector = &sel
	}

	report := &Report{Name: m.Name(), Results: make([]CaseResult, 0, len(m.Cases))}
	for _, c := range m.Cases {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res := runCase(ctx, opts, c, m.Resolve(c))
		if res.Err != nil && (errors.Is(res.Err, context.Canceled) || errors.Is(res.Err, context.DeadlineExceeded)) {
			return nil, res.Err
		}
		report.Results = append(report.Results, res)
		if r.OnResult != nil {
			r.OnResult(res)
		}
	}
	return report, nil
}

func runCase(ctx context.Context, opts driver.Options, c Case, path string) CaseResult {
	start := time.Now()
	res := CaseResult{Case: c, Path: path}
	batch, err := driver.NewValidator(opts).Run(ctx, path)
	res.Duration = time.Since(start)
	if err != nil {
		res.Err = err
		return res
	}
	res.Files = batch.Processed
	res.Errors = batch.TotalErrors()
	res.Actual = ExpectPass
	if batch.ExitCode() != 0 {
		res.Actual = ExpectFail
	}
	return res
}
