package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	validModel    = "model A\n  Real x;\nequation\n  x = 1;\nend A;\n"
	mismatchModel = "model Motor\nend Motr;\n"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

// run executes the CLI in-process with isolated config and cache locations.
func run(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	var out, errOut bytes.Buffer
	code = execute(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func projectTree(t *testing.T) string {
	return writeTree(t, map[string]string{
		"a.mo":      validModel,
		"b.mo":      mismatchModel,
		"notes.txt": "not modelica",
	})
}

func TestCheckProjectExample(t *testing.T) {
	root := projectTree(t)

	code, stdout, stderr := run(t, "check", "--ui", "off", root)

	assert.Equal(t, 1, code)
	assert.Equal(t, filepath.Join(root, "b.mo")+": 1 syntax error(s)\n", stderr)
	assert.Contains(t, stdout, "2 files checked, 1 failed, 1 syntax error(s)")
}

func TestCheckCleanTree(t *testing.T) {
	root := writeTree(t, map[string]string{"a.mo": validModel, "pkg/b.mo": validModel})

	code, stdout, stderr := run(t, "check", "--ui", "off", root)

	assert.Equal(t, 0, code)
	assert.Empty(t, stderr)
	assert.Contains(t, stdout, "2 files checked, 0 failed")
}

func TestCheckZeroMatchesSucceeds(t *testing.T) {
	root := writeTree(t, map[string]string{"readme.txt": "hi"})

	code, stdout, stderr := run(t, "check", "--ui", "off", root)

	assert.Equal(t, 0, code)
	assert.Empty(t, stderr)
	assert.Contains(t, stdout, "0 files checked")
}

func TestCheckSingleFileIgnoresSuffix(t *testing.T) {
	root := writeTree(t, map[string]string{"model.txt": mismatchModel})

	code, _, stderr := run(t, "check", "--quiet", filepath.Join(root, "model.txt"))

	assert.Equal(t, 1, code)
	assert.Equal(t, filepath.Join(root, "model.txt")+": 1 syntax error(s)\n", stderr)
}

func TestCheckMissingRoot(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")

	code, stdout, stderr := run(t, "check", "--ui", "off", missing)

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.True(t, strings.HasPrefix(stderr, "mocheck: stat "+missing), stderr)
}

func TestCheckRequiresOnePath(t *testing.T) {
	code, _, stderr := run(t, "check")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "accepts 1 arg(s)")
}

func TestCheckJSONReport(t *testing.T) {
	root := projectTree(t)

	code, stdout, _ := run(t, "check", "--format", "json", "--details", root)
	require.Equal(t, 1, code)

	var report checkReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, "directory", report.Mode)
	assert.Equal(t, 2, report.Processed)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, report.ExitCode)
	require.Len(t, report.Files, 2)
	assert.Equal(t, "ok", report.Files[0].Status)
	assert.Empty(t, report.Files[0].Diagnostics)
	assert.Equal(t, "fail", report.Files[1].Status)
	require.Len(t, report.Files[1].Diagnostics, 1)
	assert.Equal(t, "b.mo", report.Files[1].Diagnostics[0].Location.File)
}

func TestCheckYAMLReport(t *testing.T) {
	root := writeTree(t, map[string]string{"a.mo": validModel})

	code, stdout, _ := run(t, "check", "--format", "yaml", root)

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "mode: directory")
	assert.Contains(t, stdout, "status: ok")
}

func TestCheckTableReport(t *testing.T) {
	root := projectTree(t)

	code, stdout, _ := run(t, "check", "--format", "table", root)

	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "a.mo")
	assert.Contains(t, stdout, "b.mo")
	assert.Contains(t, stdout, "fail")
	assert.Contains(t, stdout, "1 FAILED")
}

func TestCheckShortDetails(t *testing.T) {
	root := projectTree(t)

	code, _, stderr := run(t, "check", "--quiet", "--format", "short", root)

	assert.Equal(t, 1, code)
	lines := strings.Split(strings.TrimRight(stderr, "\n"), "\n")
	require.Len(t, lines, 2, stderr)
	assert.Equal(t, filepath.Join(root, "b.mo")+": 1 syntax error(s)", lines[0])
	assert.Contains(t, lines[1], "b.mo:2:")
}

func TestCheckPrettyDetailsPathMode(t *testing.T) {
	root := projectTree(t)

	code, _, stderr := run(t, "check", "--quiet", "--format", "pretty", "--path-mode", "basename", root)

	assert.Equal(t, 1, code)
	found := false
	for _, line := range strings.Split(stderr, "\n") {
		if strings.HasPrefix(line, "b.mo:2:") {
			found = true
		}
	}
	assert.True(t, found, stderr)
}

func TestCheckUnknownFormat(t *testing.T) {
	root := projectTree(t)

	code, _, stderr := run(t, "check", "--format", "xml", root)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, `unknown format "xml"`)
}

func TestCheckExcludeAndJobs(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.mo":         validModel,
		"vendor/b.mo":  mismatchModel,
		"models/c.mo":  validModel,
		"models/d.mo":  validModel,
		"models/e.mo":  validModel,
		"models/f.txt": mismatchModel,
	})

	code, stdout, stderr := run(t, "check", "--ui", "off", "-j", "4", "-x", "^vendor", root)

	assert.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "4 files checked, 0 failed")
}

func TestCheckStopOnFirstError(t *testing.T) {
	root := writeTree(t, map[string]string{"a.mo": mismatchModel, "b.mo": mismatchModel})

	code, stdout, stderr := run(t, "check", "--ui", "off", "--continue-on-error=false", root)

	assert.Equal(t, 1, code)
	assert.Equal(t, filepath.Join(root, "a.mo")+": 1 syntax error(s)\n", stderr)
	assert.Contains(t, stdout, "1 file checked")
}

func TestCheckVerbosePaths(t *testing.T) {
	root := projectTree(t)

	_, stdout, _ := run(t, "check", "-p", root)

	assert.Contains(t, stdout, filepath.Join(root, "a.mo")+"\n")
	assert.Contains(t, stdout, filepath.Join(root, "b.mo")+"\n")
}

func TestCheckConfigFile(t *testing.T) {
	root := writeTree(t, map[string]string{"a.mop": validModel, "b.mo": mismatchModel})
	cfg := filepath.Join(t.TempDir(), "mocheck.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("check:\n  suffix: .mop\n"), 0o644))

	code, stdout, stderr := run(t, "--config", cfg, "check", "--ui", "off", root)

	assert.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "1 file checked")
}

func TestCheckMissingConfigFile(t *testing.T) {
	root := projectTree(t)

	code, _, stderr := run(t, "--config", filepath.Join(t.TempDir(), "none.yaml"), "check", root)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "failed to read config")
}

func TestCheckEnvOverride(t *testing.T) {
	root := writeTree(t, map[string]string{"a.mop": mismatchModel, "b.mo": validModel})
	t.Setenv("MOCHECK_CHECK_SUFFIX", ".mop")

	code, _, stderr := run(t, "check", "--ui", "off", root)

	assert.Equal(t, 1, code)
	assert.Equal(t, filepath.Join(root, "a.mop")+": 1 syntax error(s)\n", stderr)
}

func TestCheckFlagBeatsEnv(t *testing.T) {
	root := writeTree(t, map[string]string{"a.mop": mismatchModel, "b.mo": validModel})
	t.Setenv("MOCHECK_CHECK_SUFFIX", ".mop")

	code, _, _ := run(t, "check", "--ui", "off", "--suffix", ".mo", root)

	assert.Equal(t, 0, code)
}

func TestCheckCacheReusesOutcomes(t *testing.T) {
	root := projectTree(t)
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	var out, errOut bytes.Buffer
	require.Equal(t, 1, execute(context.Background(), []string{"check", "--cache", "--quiet", root}, &out, &errOut))

	out.Reset()
	code := execute(context.Background(), []string{"check", "--cache", "--format", "json", root}, &out, &errOut)
	require.Equal(t, 1, code)

	var report checkReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	require.Len(t, report.Files, 2)
	for _, f := range report.Files {
		assert.True(t, f.Cached, f.Path)
	}
	assert.Equal(t, 1, report.Files[1].Errors)
}

func TestCheckTimings(t *testing.T) {
	root := projectTree(t)

	_, _, stderr := run(t, "check", "--quiet", "--timings", root)

	assert.Contains(t, stderr, "validate")
	assert.Contains(t, stderr, "2 files")
	assert.Contains(t, stderr, "finalize")
}

func TestCheckLogFile(t *testing.T) {
	root := projectTree(t)
	logPath := filepath.Join(t.TempDir(), "mocheck.log")

	code, _, _ := run(t, "--log-file", logPath, "--verbose", "check", "--quiet", root)
	require.Equal(t, 1, code)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "level=DEBUG")
}

func TestInvalidColorValue(t *testing.T) {
	code, _, stderr := run(t, "--color", "sometimes", "version")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "invalid --color value")
}
