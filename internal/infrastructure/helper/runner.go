// Package helper runs the external helper program that turns a command
// line into a window directive.
package helper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/bnema/pipewin/internal/application/port"
	"github.com/bnema/pipewin/internal/logging"
)

// waitDelay bounds how long Wait keeps reading output from grandchildren
// that inherited the pipes after the helper itself was killed.
const waitDelay = 2 * time.Second

// Options configures a Runner.
type Options struct {
	Command string
	// Args are placed before the per-command tokens.
	Args    []string
	WorkDir string
	// Timeout bounds a single run; zero disables it.
	Timeout time.Duration
}

// Runner starts one process per Invoke in its own process group.
type Runner struct {
	mu   sync.RWMutex
	opts Options
}

var _ port.HelperRunner = (*Runner)(nil)

// NewRunner creates a Runner.
func NewRunner(opts Options) *Runner {
	r := &Runner{}
	r.SetOptions(opts)
	return r
}

// SetOptions replaces the options used by subsequent runs.
func (r *Runner) SetOptions(opts Options) {
	opts.Args = append([]string(nil), opts.Args...)
	r.mu.Lock()
	r.opts = opts
	r.mu.Unlock()
}

// Options returns the current options.
func (r *Runner) Options() Options {
	r.mu.RLock()
	defer r.mu.RUnlock()
	opts := r.opts
	opts.Args = append([]string(nil), opts.Args...)
	return opts
}

// Invoke runs the helper with argv appended to the configured arguments.
// Stdout and stderr are captured separately. On timeout the whole process
// group is killed.
func (r *Runner) Invoke(ctx context.Context, argv []string) (port.HelperResult, error) {
	opts := r.Options()
	log := logging.FromContext(ctx)

	if opts.Command == "" {
		return port.HelperResult{}, fmt.Errorf("%w: no helper command configured", port.ErrHelperStart)
	}

	runCtx := ctx
	cancel := context.CancelFunc(func() {})
	if opts.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
	}
	defer cancel()

	args := make([]string, 0, len(opts.Args)+len(argv))
	args = append(args, opts.Args...)
	args = append(args, argv...)

	cmd := exec.CommandContext(runCtx, opts.Command, args...)
	cmd.Dir = opts.WorkDir
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return port.HelperResult{}, fmt.Errorf("%w: %s: %w", port.ErrHelperStart, opts.Command, err)
	}
	log.Debug().Int("pid", cmd.Process.Pid).Strs("args", args).Msg("helper started")

	waitErr := cmd.Wait()
	result := port.HelperResult{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: cmd.ProcessState.ExitCode(),
	}

	switch {
	case errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
		return result, fmt.Errorf("%w after %s", port.ErrHelperDeadline, opts.Timeout)
	case ctx.Err() != nil:
		return result, fmt.Errorf("helper interrupted: %w", ctx.Err())
	}

	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		return result, fmt.Errorf("wait for helper: %w", waitErr)
	}
	return result, nil
}
