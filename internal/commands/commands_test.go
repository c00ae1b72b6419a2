package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"expiremap/internal/config"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	oldwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(oldwd) })
	t.Setenv(config.EnvConfigPath, "")
	return dir
}

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd("test")
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestShellCmd_ScriptedSession(t *testing.T) {
	isolate(t)

	out, _, err := run(t, "set a 1\nset b 2 none\nkeys\nttl\n", "shell")
	require.NoError(t, err)
	require.Equal(t, "OK\nOK\na\nb\nnone\n", out)
}

func TestShellCmd_DefaultTTLFlag(t *testing.T) {
	isolate(t)

	out, _, err := run(t, "ttl\nset a 1 -1s\nhas a\n", "shell", "--default-ttl", "250ms")
	require.NoError(t, err)
	require.Equal(t, "250ms\nOK\nfalse\n", out)
}

func TestShellCmd_ConfigFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_ttl: 3s\nlog_format: json\n"), 0o600))

	out, _, err := run(t, "ttl\n", "shell", "--config", path)
	require.NoError(t, err)
	require.Equal(t, "3s\n", out)

	// Flags win over the file.
	out, _, err = run(t, "ttl\n", "shell", "--config", path, "--default-ttl", "none")
	require.NoError(t, err)
	require.Equal(t, "none\n", out)
}

func TestRootCmd_RejectsBadFlags(t *testing.T) {
	isolate(t)

	_, _, err := run(t, "", "shell", "--default-ttl", "soon")
	require.ErrorContains(t, err, "--default-ttl")

	_, _, err = run(t, "", "shell", "--log-format", "xml")
	require.ErrorContains(t, err, "--log-format")

	_, _, err = run(t, "", "shell", "--config", "missing.yaml")
	require.Error(t, err)
}

func TestDemoCmd_RunsToCompletion(t *testing.T) {
	isolate(t)

	out, logs, err := run(t, "", "demo", "--short", "10ms", "--long", "5s", "--log-format", "json")
	require.NoError(t, err)
	require.Equal(t, "Done.\n", out)
	require.Contains(t, logs, `"msg":"keys after sweep"`)
	require.Contains(t, logs, `"keys":["c","pinned"]`)
}

func TestDemoCmd_ValidatesDurations(t *testing.T) {
	isolate(t)

	_, _, err := run(t, "", "demo", "--short", "1s", "--long", "10ms")
	require.Error(t, err)
}

func TestRunDemo_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	logger := newLogger(&buf, config.Defaults(), false)
	require.NoError(t, runDemo(ctx, logger, time.Hour, 2*time.Hour))
	require.Contains(t, buf.String(), "received shutdown signal")
}
