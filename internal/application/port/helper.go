package port

import (
	"context"
	"errors"
)

// HelperResult is the captured outcome of one helper process.
type HelperResult struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

var (
	// ErrHelperStart is wrapped by runners when the process could not be started.
	ErrHelperStart = errors.New("helper could not be started")
	// ErrHelperDeadline is wrapped by runners when a run exceeded its time limit.
	ErrHelperDeadline = errors.New("helper exceeded its time limit")
)

// HelperRunner runs the external helper once with the given arguments and
// waits for it to exit. A non-zero exit status is not an error; callers look
// at Stderr and ExitCode.
type HelperRunner interface {
	Invoke(ctx context.Context, argv []string) (HelperResult, error)
}
