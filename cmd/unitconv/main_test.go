package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) string { return "" }

// isolate keeps auto-detected config files out of the test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	return dir
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr, noEnv)
	return stdout.String(), stderr.String(), err
}

func TestRunVersion(t *testing.T) {
	isolate(t)
	out, _, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "unitconv version dev")
}

func TestRunVersion_IgnoresMissingConfig(t *testing.T) {
	isolate(t)
	_, _, err := runCLI(t, "--config", "/nonexistent/unitconv.yaml", "version")
	assert.NoError(t, err)
}

func TestRunHelp(t *testing.T) {
	isolate(t)
	out, _, err := runCLI(t, "--help")
	require.NoError(t, err)
	for _, want := range []string{"convert", "categories", "serve", "prefs", "--config", "--log-level"} {
		assert.Contains(t, out, want)
	}
}

func TestRunMissingConfig(t *testing.T) {
	isolate(t)
	_, _, err := runCLI(t, "--config", "/nonexistent/unitconv.yaml", "categories")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestRunInvalidLogLevel(t *testing.T) {
	isolate(t)
	_, _, err := runCLI(t, "--log-level", "loud", "categories")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestConvert(t *testing.T) {
	isolate(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"hours to seconds", []string{"convert", "1", "hours", "seconds"}, "3600\n"},
		{"boolean source", []string{"convert", "42", "onOff"}, "1\n"},
		{"unknown unit is zero", []string{"convert", "12", "nope", "seconds"}, "0\n"},
		{"cross category", []string{"convert", "7", "seconds", "bytesIEC"}, "7\n"},
		{"strict", []string{"convert", "--strict", "1", "meter", "kilometer"}, "0.001\n"},
		{"legacy", []string{"convert", "--legacy", "60", "countsPerMin", "countsPerSec"}, "60\n"},
		{"fixed", []string{"convert", "60", "countsPerMin", "countsPerSec"}, "1\n"},
		{"negative value", []string{"convert", "--", "-3", "minutes", "seconds"}, "-180\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := runCLI(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestConvert_Errors(t *testing.T) {
	isolate(t)

	_, _, err := runCLI(t, "convert", "--strict", "1", "seconds", "bytesIEC")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "UNIT-0002"), err.Error())

	_, _, err = runCLI(t, "convert", "abc", "hours", "seconds")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UNIT-0005")

	_, _, err = runCLI(t, "convert", "1")
	assert.Error(t, err)
}

func TestConvert_ConfigDefaults(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unitconv.yaml"), []byte("engine:\n  strict: true\n  legacy_target_fallback: true\n"), 0644))

	_, _, err := runCLI(t, "convert", "1", "seconds", "bytesIEC")
	require.Error(t, err, "strict comes from config")

	out, _, err := runCLI(t, "convert", "--strict=false", "60", "countsPerMin", "countsPerSec")
	require.NoError(t, err)
	assert.Equal(t, "60\n", out, "legacy comes from config")

	out, _, err = runCLI(t, "convert", "--strict=false", "--legacy=false", "60", "countsPerMin", "countsPerSec")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)
}

func TestCategories(t *testing.T) {
	isolate(t)
	out, _, err := runCLI(t, "categories")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 25)
	assert.True(t, strings.HasPrefix(lines[0], "Time"))
}

func TestOptions(t *testing.T) {
	isolate(t)
	out, _, err := runCLI(t, "options", "Boolean")
	require.NoError(t, err)
	assert.Contains(t, out, "trueFalse")
	assert.Contains(t, out, "On / Off")

	_, _, err = runCLI(t, "options", "Tmie")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CAT-0001")
}

func TestFind(t *testing.T) {
	isolate(t)
	out, _, err := runCLI(t, "find", "kilowattHour")
	require.NoError(t, err)
	assert.Equal(t, "Energy\n", out)

	_, _, err = runCLI(t, "find", "secnds")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Did you mean `seconds`?")
}

func TestCatalog(t *testing.T) {
	isolate(t)
	out, _, err := runCLI(t, "catalog")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# Unit catalog"))

	out, _, err = runCLI(t, "catalog", "--html")
	require.NoError(t, err)
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "<table>")
}

func TestPrefs(t *testing.T) {
	dir := isolate(t)
	dsn := filepath.Join(dir, "prefs.db")

	out, _, err := runCLI(t, "prefs", "--dsn", dsn, "list")
	require.NoError(t, err)
	assert.Equal(t, "No preferences stored.\n", out)

	out, _, err = runCLI(t, "prefs", "--dsn", dsn, "set", "cpu-panel", "percent")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "cpu-panel\tMiscellaneous/percent\t"), out)

	out, _, err = runCLI(t, "prefs", "--dsn", dsn, "set", "--category", "Data", "disk-panel", "gibibytes")
	require.NoError(t, err)
	assert.Contains(t, out, "Data/gibibytes")

	_, _, err = runCLI(t, "prefs", "--dsn", dsn, "set", "--category", "Time", "bad-panel", "gibibytes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PREF-0001")

	out, _, err = runCLI(t, "prefs", "--dsn", dsn, "get", "disk-panel")
	require.NoError(t, err)
	assert.Contains(t, out, "Data/gibibytes")

	out, _, err = runCLI(t, "prefs", "--dsn", dsn, "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "cpu-panel"))

	out, _, err = runCLI(t, "prefs", "--dsn", dsn, "audit")
	require.NoError(t, err)
	assert.Equal(t, "All preferences are valid.\n", out)

	out, _, err = runCLI(t, "prefs", "--dsn", dsn, "delete", "cpu-panel")
	require.NoError(t, err)
	assert.Equal(t, "Deleted preference for cpu-panel\n", out)

	_, _, err = runCLI(t, "prefs", "--dsn", dsn, "get", "cpu-panel")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PREF-0003")
}

func TestPrefs_NotConfigured(t *testing.T) {
	isolate(t)
	_, _, err := runCLI(t, "prefs", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestLogger_File(t *testing.T) {
	dir := isolate(t)
	logFile := filepath.Join(dir, "unitconv.log")
	cfg := "logging:\n  level: debug\n  format: json\n  output: " + logFile + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unitconv.yaml"), []byte(cfg), 0644))

	_, stderr, err := runCLI(t, "convert", "1", "nope", "seconds")
	require.NoError(t, err)
	assert.Empty(t, stderr)

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"configuration loaded"`)
	assert.Contains(t, string(data), `"msg":"unresolved source unit"`)
}
