package suite_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mocheck/internal/driver"
	"mocheck/internal/suite"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func fixture(t *testing.T, manifest string) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "models", "ok", "A.mo"), "model A\n  Real x;\nequation\n  x = 1;\nend A;\n")
	writeFile(t, filepath.Join(dir, "models", "ok", "B.mo"), "package B\nend B;\n")
	writeFile(t, filepath.Join(dir, "models", "bad", "C.mo"), "model C\nend D;\n")
	path := filepath.Join(dir, "suite.toml")
	writeFile(t, path, manifest)
	return path
}

const manifest = `
[suite]
name = "grammar"
root = "models"

[[case]]
path = "ok"
expect = "pass"

[[case]]
name = "end mismatch"
path = "bad/C.mo"
expect = "fail"

[[case]]
path = "bad"
expect = "pass"
note = "known gap"
`

func TestLoadManifest(t *testing.T) {
	path := fixture(t, manifest)

	m, err := suite.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "grammar", m.Name())
	require.Len(t, m.Cases, 3)
	assert.Equal(t, suite.ExpectFail, m.Cases[1].Expect)
	assert.Equal(t, "end mismatch", m.Cases[1].Label())
	assert.Equal(t, "known gap", m.Cases[2].Note)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "models", "bad", "C.mo"), m.Resolve(m.Cases[1]))
}

func TestLoadManifestDefaults(t *testing.T) {
	path := fixture(t, "[[case]]\npath = \"models/ok/A.mo\"\n")

	m, err := suite.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "suite", m.Name())
	assert.Equal(t, suite.ExpectPass, m.Cases[0].Expect)
	assert.Equal(t, filepath.Dir(path), m.Root())
}

func TestLoadManifestErrors(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		want     string
	}{
		{"no cases", "[suite]\nname = \"x\"\n", "no [[case]] entries"},
		{"missing path", "[[case]]\nexpect = \"pass\"\n", "missing path"},
		{"bad expect", "[[case]]\npath = \"a\"\nexpect = \"maybe\"\n", "invalid expect"},
		{"duplicate", "[[case]]\npath = \"a\"\n[[case]]\npath = \"a\"\n", "duplicates case 1"},
		{"unknown key", "[[case]]\npath = \"a\"\nexpected = \"pass\"\n", "unknown keys"},
		{"bad toml", "[[case]\n", "failed to parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := suite.Load(fixture(t, tt.manifest))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRunnerVerdicts(t *testing.T) {
	m, err := suite.Load(fixture(t, manifest))
	require.NoError(t, err)

	var seen []string
	runner := &suite.Runner{
		Options:  driver.DefaultOptions(driver.NewModelicaEngine(0, nil)),
		OnResult: func(r suite.CaseResult) { seen = append(seen, r.Case.Label()) },
	}
	report, err := runner.Run(context.Background(), m)
	require.NoError(t, err)

	require.Len(t, report.Results, 3)
	assert.Equal(t, []string{"ok", "end mismatch", "bad"}, seen)

	ok := report.Results[0]
	assert.True(t, ok.Passed())
	assert.Equal(t, 2, ok.Files)
	assert.Equal(t, suite.ExpectPass, ok.Actual)

	mismatch := report.Results[1]
	assert.True(t, mismatch.Passed())
	assert.Equal(t, 1, mismatch.Errors)

	gap := report.Results[2]
	assert.False(t, gap.Passed())
	assert.Equal(t, suite.ExpectFail, gap.Actual)

	assert.Equal(t, 2, report.Passed())
	assert.Equal(t, 1, report.Failed())
	assert.Equal(t, 1, report.ExitCode())
}

func TestRunnerRecordsMissingPath(t *testing.T) {
	m, err := suite.Load(fixture(t, "[[case]]\npath = \"nowhere\"\n"))
	require.NoError(t, err)

	report, err := (&suite.Runner{Options: driver.DefaultOptions(driver.NewModelicaEngine(0, nil))}).Run(context.Background(), m)
	require.NoError(t, err)
	var ioErr *driver.IOError
	assert.True(t, errors.As(report.Results[0].Err, &ioErr))
	assert.False(t, report.Results[0].Passed())
	assert.Equal(t, 1, report.ExitCode())
}

func TestRunnerStopsOnCancel(t *testing.T) {
	m, err := suite.Load(fixture(t, manifest))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = (&suite.Runner{Options: driver.DefaultOptions(driver.NewModelicaEngine(0, nil))}).Run(ctx, m)
	assert.ErrorIs(t, err, context.Canceled)
}

func sampleReport() *suite.Report {
	return &suite.Report{
		Name: "grammar <v1>",
		Results: []suite.CaseResult{
			{Case: suite.Case{Path: "ok", Expect: suite.ExpectPass}, Actual: suite.ExpectPass, Files: 2},
			{Case: suite.Case{Name: "bad", Path: "bad", Expect: suite.ExpectPass}, Actual: suite.ExpectFail, Files: 1, Errors: 3},
		},
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	suite.WriteTable(&buf, sampleReport())
	out := buf.String()
	for _, want := range []string{"CASE", "EXPECT", "MISMATCH", "TOTAL CASES 2", "1 FAILED"} {
		assert.Contains(t, out, want)
	}
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	suite.WriteMarkdown(&buf, sampleReport())
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "|") && strings.HasSuffix(line, "|"), "line %q", line)
	}
	assert.Contains(t, lines[0], "Case")
	assert.Contains(t, lines[1], "---")
	assert.Contains(t, lines[3], "MISMATCH")
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, suite.WriteHTML(&buf, sampleReport()))
	out := buf.String()
	assert.Contains(t, out, "<title>grammar &lt;v1&gt;</title>")
	assert.Contains(t, out, "<p>1 of 2 cases passed</p>")
	assert.Contains(t, out, `<tr class="mismatch"><td>bad</td>`)
	assert.Contains(t, out, "<th>Case</th>")
}
