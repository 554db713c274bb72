package driver_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mocheck/internal/driver"
	"mocheck/internal/source"
)

func TestProjectExample(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.mo":      validModel,
		"b.mo":      mismatchModel,
		"notes.txt": "not a model",
	})

	var calls []string
	engine := driver.NewModelicaEngine(0, nil)
	counting := driver.EngineFunc(func(ctx context.Context, path string, src []byte) (int, error) {
		calls = append(calls, filepath.Base(path))
		return engine.Parse(ctx, path, src)
	})

	var stderr bytes.Buffer
	opts := driver.DefaultOptions(counting)
	opts.Reporter = driver.NewLineReporter(&stderr)

	result, err := driver.NewValidator(opts).Run(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, []string{"a.mo", "b.mo"}, calls)
	assert.Equal(t, driver.ModeDirectory, result.Mode)
	assert.Equal(t, 2, result.Processed)
	assert.True(t, result.Failed)
	assert.Equal(t, 1, result.FailedCount())
	assert.Equal(t, 1, result.ExitCode())
	assert.Equal(t, filepath.Join(root, "b.mo")+": 1 syntax error(s)\n", stderr.String())

	require.Len(t, result.Outcomes, 2)
	assert.False(t, result.Outcomes[0].Failed())
	assert.Equal(t, "ok", result.Outcomes[0].Status())
	assert.Equal(t, 1, result.Outcomes[1].Errors)
	assert.Equal(t, "fail", result.Outcomes[1].Status())
}

func TestAllValidExitsZero(t *testing.T) {
	root := writeTree(t, map[string]string{"a.mo": validModel, "pkg/b.mo": "package P\nend P;\n"})

	var stderr bytes.Buffer
	opts := driver.DefaultOptions(driver.NewModelicaEngine(0, nil))
	opts.Reporter = driver.NewLineReporter(&stderr)

	result, err := driver.NewValidator(opts).Run(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Processed)
	assert.False(t, result.Failed)
	assert.Zero(t, result.ExitCode())
	assert.Empty(t, stderr.String())
}

func TestZeroMatchesExitsZero(t *testing.T) {
	root := writeTree(t, map[string]string{"README.md": "# models"})
	engine := newRecordingEngine(nil)

	result, err := driver.NewValidator(driver.DefaultOptions(engine)).Run(context.Background(), root)
	require.NoError(t, err)
	assert.Zero(t, result.Processed)
	assert.False(t, result.Failed)
	assert.Zero(t, result.ExitCode())
	assert.Empty(t, engine.Calls())
}

func TestSingleFileModeBypassesSelector(t *testing.T) {
	root := writeTree(t, map[string]string{"model.txt": mismatchModel, "other.mo": validModel})
	engine := newRecordingEngine(map[string]int{"model.txt": 2})

	var stderr bytes.Buffer
	opts := driver.DefaultOptions(engine)
	opts.Reporter = driver.NewLineReporter(&stderr)

	path := filepath.Join(root, "model.txt")
	result, err := driver.NewValidator(opts).Run(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, driver.ModeSingleFile, result.Mode)
	assert.Equal(t, []string{"model.txt"}, engine.Calls())
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 1, result.ExitCode())
	assert.Equal(t, path+": 2 syntax error(s)\n", stderr.String())
}

func TestMissingRootIsFatal(t *testing.T) {
	engine := newRecordingEngine(nil)
	missing := filepath.Join(t.TempDir(), "missing")

	result, err := driver.NewValidator(driver.DefaultOptions(engine)).Run(context.Background(), missing)
	assert.Nil(t, result)
	var ioErr *driver.IOError
	require.True(t, errors.As(err, &ioErr), "got %v", err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Empty(t, engine.Calls())
}

func TestValidatorIsSingleShot(t *testing.T) {
	root := writeTree(t, map[string]string{"a.mo": validModel})
	v := driver.NewValidator(driver.DefaultOptions(newRecordingEngine(nil)))
	assert.Equal(t, driver.StateIdle, v.State())

	_, err := v.Run(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, driver.StateTerminated, v.State())

	result, err := v.Run(context.Background(), root)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, driver.ErrValidatorUsed)
}

func TestNoEngine(t *testing.T) {
	_, err := driver.NewValidator(driver.Options{}).Run(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, driver.ErrNoEngine)
}

func TestEngineErrorIsFatal(t *testing.T) {
	root := writeTree(t, map[string]string{"a.mo": "", "b.mo": "", "c.mo": ""})
	boom := errors.New("boom")
	var calls []string
	engine := driver.EngineFunc(func(_ context.Context, path string, _ []byte) (int, error) {
		calls = append(calls, filepath.Base(path))
		if filepath.Base(path) == "b.mo" {
			return 0, boom
		}
		return 0, nil
	})

	result, err := driver.NewValidator(driver.DefaultOptions(engine)).Run(context.Background(), root)
	assert.Nil(t, result)
	var engErr *driver.EngineError
	require.True(t, errors.As(err, &engErr), "got %v", err)
	assert.Equal(t, filepath.Join(root, "b.mo"), engErr.Path)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"a.mo", "b.mo"}, calls)
}

func TestEnginePanicIsFatal(t *testing.T) {
	root := writeTree(t, map[string]string{"a.mo": ""})
	engine := driver.EngineFunc(func(context.Context, string, []byte) (int, error) {
		panic("parser bug")
	})

	result, err := driver.NewValidator(driver.DefaultOptions(engine)).Run(context.Background(), root)
	assert.Nil(t, result)
	var engErr *driver.EngineError
	require.True(t, errors.As(err, &engErr), "got %v", err)
	assert.Contains(t, err.Error(), "parser bug")
}

func TestNegativeCountIsEngineError(t *testing.T) {
	root := writeTree(t, map[string]string{"a.mo": ""})
	engine := driver.EngineFunc(func(context.Context, string, []byte) (int, error) { return -1, nil })

	_, err := driver.NewValidator(driver.DefaultOptions(engine)).Run(context.Background(), root)
	var engErr *driver.EngineError
	assert.True(t, errors.As(err, &engErr), "got %v", err)
}

func TestStopOnFirstParseError(t *testing.T) {
	root := writeTree(t, map[string]string{"a.mo": "", "b.mo": "", "c.mo": ""})
	engine := newRecordingEngine(map[string]int{"b.mo": 1, "c.mo": 1})

	opts := driver.DefaultOptions(engine)
	opts.ContinueOnParseError = false
	result, err := driver.NewValidator(opts).Run(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.mo", "b.mo"}, engine.Calls())
	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 1, result.ExitCode())
}

func TestContinuesPastParseErrorsByDefault(t *testing.T) {
	root := writeTree(t, map[string]string{"a.mo": "", "b.mo": "", "c.mo": ""})
	engine := newRecordingEngine(map[string]int{"a.mo": 4, "b.mo": 1})

	result, err := driver.NewValidator(driver.DefaultOptions(engine)).Run(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.mo", "b.mo", "c.mo"}, engine.Calls())
	assert.Equal(t, 5, result.TotalErrors())
	assert.Len(t, result.FailedOutcomes(), 2)
}

func unreadableTree(t *testing.T) string {
	t.Helper()
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	root := writeTree(t, map[string]string{"a.mo": "", "b.mo": "", "c.mo": ""})
	locked := filepath.Join(root, "b.mo")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o644) })
	return root
}

func TestUnreadableFileHaltsByDefault(t *testing.T) {
	root := unreadableTree(t)
	engine := newRecordingEngine(nil)

	result, err := driver.NewValidator(driver.DefaultOptions(engine)).Run(context.Background(), root)
	assert.Nil(t, result)
	var ioErr *driver.IOError
	require.True(t, errors.As(err, &ioErr), "got %v", err)
	assert.Equal(t, filepath.Join(root, "b.mo"), ioErr.Path)
	assert.Equal(t, []string{"a.mo"}, engine.Calls())
}

func TestUnreadableFileDowngraded(t *testing.T) {
	root := unreadableTree(t)
	engine := newRecordingEngine(nil)

	var stderr bytes.Buffer
	opts := driver.DefaultOptions(engine)
	opts.HaltOnFirstIOError = false
	opts.Reporter = driver.NewLineReporter(&stderr)

	result, err := driver.NewValidator(opts).Run(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.mo", "c.mo"}, engine.Calls())
	assert.Equal(t, 3, result.Processed)
	assert.Equal(t, 1, result.ExitCode())
	assert.Equal(t, "error", result.Outcomes[1].Status())
	assert.Contains(t, stderr.String(), "b.mo: read ")
}

func TestCancelledContextAborts(t *testing.T) {
	root := writeTree(t, map[string]string{"a.mo": ""})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := driver.NewValidator(driver.DefaultOptions(newRecordingEngine(nil))).Run(ctx, root)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEncodingDecodesInput(t *testing.T) {
	root := t.TempDir()
	raw := []byte("model M \"caf\xe9\"\nend M;\n")
	require.NoError(t, os.WriteFile(filepath.Join(root, "m.mo"), raw, 0o644))

	enc, err := source.LookupEncoding("latin1")
	require.NoError(t, err)
	engine := newRecordingEngine(nil)
	opts := driver.DefaultOptions(engine)
	opts.Encoding = enc

	_, err = driver.NewValidator(opts).Run(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, "model M \"café\"\nend M;\n", string(engine.srcs["m.mo"]))
}

func TestObserverSeesEveryFile(t *testing.T) {
	root := writeTree(t, map[string]string{"a.mo": "", "b.mo": ""})
	engine := newRecordingEngine(map[string]int{"b.mo": 1})

	var (
		v      *driver.Validator
		events []string
	)
	opts := driver.DefaultOptions(engine)
	opts.Observer = func(ev driver.Event) {
		kind := "start"
		if ev.Kind == driver.EventFinished {
			kind = ev.Outcome.Status()
		}
		events = append(events, fmt.Sprintf("%s %s %s", kind, filepath.Base(ev.Path), v.State()))
	}
	v = driver.NewValidator(opts)

	_, err := v.Run(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"start a.mo validating",
		"ok a.mo validating",
		"start b.mo validating",
		"fail b.mo validating",
	}, events)
	assert.Equal(t, driver.StateTerminated, v.State())
}

func TestParallelMatchesSequential(t *testing.T) {
	files := make(map[string]string)
	counts := make(map[string]int)
	for i := range 24 {
		name := fmt.Sprintf("m%02d.mo", i)
		files[fmt.Sprintf("d%d/%s", i%3, name)] = ""
		if i%5 == 0 {
			counts[name] = i + 1
		}
	}
	root := writeTree(t, files)

	run := func(jobs int) *driver.BatchResult {
		opts := driver.DefaultOptions(newRecordingEngine(counts))
		opts.Jobs = jobs
		var mu sync.Mutex
		var reported int
		opts.Reporter = driver.ReporterFunc(func(driver.Outcome) {
			mu.Lock()
			reported++
			mu.Unlock()
		})
		result, err := driver.NewValidator(opts).Run(context.Background(), root)
		require.NoError(t, err)
		assert.Equal(t, len(result.FailedOutcomes()), reported)
		return result
	}

	sequential := run(1)
	parallel := run(4)

	require.Equal(t, 24, sequential.Processed)
	assert.Equal(t, sequential.Processed, parallel.Processed)
	assert.Equal(t, sequential.Failed, parallel.Failed)
	assert.Equal(t, sequential.TotalErrors(), parallel.TotalErrors())
	for i := range sequential.Outcomes {
		assert.Equal(t, sequential.Outcomes[i].Path, parallel.Outcomes[i].Path)
		assert.Equal(t, sequential.Outcomes[i].Errors, parallel.Outcomes[i].Errors)
	}
}

func TestParallelEngineErrorIsFatal(t *testing.T) {
	files := make(map[string]string)
	for i := range 10 {
		files[fmt.Sprintf("m%d.mo", i)] = ""
	}
	root := writeTree(t, files)
	engine := driver.EngineFunc(func(_ context.Context, path string, _ []byte) (int, error) {
		if filepath.Base(path) == "m3.mo" {
			panic("bad input")
		}
		return 0, nil
	})

	opts := driver.DefaultOptions(engine)
	opts.Jobs = 3
	result, err := driver.NewValidator(opts).Run(context.Background(), root)
	assert.Nil(t, result)
	var engErr *driver.EngineError
	assert.True(t, errors.As(err, &engErr), "got %v", err)
}

func TestCacheHitSkipsEngine(t *testing.T) {
	root := writeTree(t, map[string]string{"a.mo": validModel, "b.mo": mismatchModel})
	cache, err := driver.NewOutcomeCache(t.TempDir(), "test")
	require.NoError(t, err)

	run := func() (*driver.BatchResult, *recordingEngine) {
		engine := newRecordingEngine(map[string]int{"b.mo": 1})
		opts := driver.DefaultOptions(engine)
		opts.Cache = cache
		result, err := driver.NewValidator(opts).Run(context.Background(), root)
		require.NoError(t, err)
		return result, engine
	}

	first, engine := run()
	assert.Len(t, engine.Calls(), 2)
	assert.False(t, first.Outcomes[0].Cached)

	second, engine := run()
	assert.Empty(t, engine.Calls())
	require.Len(t, second.Outcomes, 2)
	assert.True(t, second.Outcomes[0].Cached)
	assert.True(t, second.Outcomes[1].Cached)
	assert.Equal(t, 1, second.Outcomes[1].Errors)
	assert.Equal(t, first.ExitCode(), second.ExitCode())
}

func TestBatchResultNilIsFatal(t *testing.T) {
	var r *driver.BatchResult
	assert.Equal(t, 1, r.ExitCode())
	assert.Zero(t, r.TotalErrors())
	assert.Nil(t, r.FailedOutcomes())
}
