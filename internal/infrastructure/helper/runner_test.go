package helper

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bnema/pipewin/internal/application/port"
	"github.com/bnema/pipewin/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext() context.Context {
	return logging.WithContext(context.Background(), logging.NewFromConfigValues("debug", "console", nil))
}

// writeScript creates an executable shell script in a temp dir.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "helper.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func TestRunner_PassesArgumentsInOrder(t *testing.T) {
	script := writeScript(t, `printf '%s|' "$@"`)
	r := NewRunner(Options{Command: "/bin/sh", Args: []string{script}})

	res, err := r.Invoke(testContext(), []string{"open", "foo bar", "baz"})

	require.NoError(t, err)
	assert.Equal(t, "open|foo bar|baz|", string(res.Stdout))
	assert.Empty(t, res.Stderr)
	assert.Equal(t, 0, res.ExitCode)
}

func TestRunner_NoArguments(t *testing.T) {
	script := writeScript(t, `echo "$#"`)
	r := NewRunner(Options{Command: script})

	res, err := r.Invoke(testContext(), []string{})

	require.NoError(t, err)
	assert.Equal(t, "0\n", string(res.Stdout))
}

func TestRunner_CapturesStderrSeparately(t *testing.T) {
	script := writeScript(t, `echo '{"config":{"id":"w1"}}'; echo 'unknown command' >&2; exit 3`)
	r := NewRunner(Options{Command: script})

	res, err := r.Invoke(testContext(), []string{"bad"})

	require.NoError(t, err)
	assert.Equal(t, "{\"config\":{\"id\":\"w1\"}}\n", string(res.Stdout))
	assert.Equal(t, "unknown command\n", string(res.Stderr))
	assert.Equal(t, 3, res.ExitCode)
}

func TestRunner_WorkDir(t *testing.T) {
	dir := t.TempDir()
	r := NewRunner(Options{Command: "/bin/sh", Args: []string{"-c", "pwd"}, WorkDir: dir})

	res, err := r.Invoke(testContext(), nil)

	require.NoError(t, err)
	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Equal(t, resolved+"\n", string(res.Stdout))
}

func TestRunner_StartFailure(t *testing.T) {
	r := NewRunner(Options{Command: filepath.Join(t.TempDir(), "missing")})

	_, err := r.Invoke(testContext(), []string{"x"})

	assert.ErrorIs(t, err, port.ErrHelperStart)
}

func TestRunner_EmptyCommand(t *testing.T) {
	_, err := NewRunner(Options{}).Invoke(testContext(), nil)
	assert.ErrorIs(t, err, port.ErrHelperStart)
}

func TestRunner_TimeoutKillsProcessGroup(t *testing.T) {
	// The child sleep keeps stdout open; killing only the shell would leave Wait hanging.
	script := writeScript(t, `sleep 30 & wait`)
	r := NewRunner(Options{Command: script, Timeout: 200 * time.Millisecond})

	start := time.Now()
	_, err := r.Invoke(testContext(), nil)

	require.ErrorIs(t, err, port.ErrHelperDeadline)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestRunner_ParentCancellation(t *testing.T) {
	script := writeScript(t, `sleep 30`)
	r := NewRunner(Options{Command: script})

	ctx, cancel := context.WithCancel(testContext())
	time.AfterFunc(100*time.Millisecond, cancel)

	_, err := r.Invoke(ctx, nil)

	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, port.ErrHelperDeadline)
}

func TestRunner_SetOptions(t *testing.T) {
	r := NewRunner(Options{Command: "a", Args: []string{"x"}})
	r.SetOptions(Options{Command: "/bin/echo", Timeout: time.Second})

	opts := r.Options()
	assert.Equal(t, "/bin/echo", opts.Command)
	assert.Empty(t, opts.Args)
	assert.Equal(t, time.Second, opts.Timeout)

	res, err := r.Invoke(testContext(), []string{"hi"})
	require.NoError(t, err)
	assert.Equal(t, "hi\n", string(res.Stdout))
}
