package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/pipewin/internal/application/port"
	"github.com/bnema/pipewin/internal/logging"
)

// DispatchCommandUseCase runs the helper for one command line.
type DispatchCommandUseCase struct {
	runner port.HelperRunner
}

// NewDispatchCommandUseCase creates a new DispatchCommandUseCase.
func NewDispatchCommandUseCase(runner port.HelperRunner) *DispatchCommandUseCase {
	return &DispatchCommandUseCase{runner: runner}
}

// Tokenize splits a command line on ASCII whitespace. Runs of separators
// collapse and an empty or blank line yields an empty, non-nil slice.
func Tokenize(line string) []string {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		switch r {
		case ' ', '\t', '\n', '\v', '\f', '\r':
			return true
		}
		return false
	})
	if fields == nil {
		return []string{}
	}
	return fields
}

// Execute runs exactly one helper process for line and waits for it.
// A blank line still runs the helper, with no arguments.
func (uc *DispatchCommandUseCase) Execute(ctx context.Context, line string) (port.HelperResult, error) {
	log := logging.FromContext(ctx)

	argv := Tokenize(line)

	start := time.Now()
	result, err := uc.runner.Invoke(ctx, argv)
	if err != nil {
		if errors.Is(err, port.ErrHelperDeadline) {
			return result, fmt.Errorf("%w: %w", ErrHelperTimeout, err)
		}
		return result, fmt.Errorf("%w: %w", ErrSpawnFailed, err)
	}

	log.Debug().
		Strs("argv", argv).
		Int("exit_code", result.ExitCode).
		Int("stdout_bytes", len(result.Stdout)).
		Int("stderr_bytes", len(result.Stderr)).
		Dur("elapsed", time.Since(start)).
		Msg("helper finished")

	return result, nil
}
