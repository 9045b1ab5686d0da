package port

import (
	"context"
	"errors"
)

// Errors for lines a source discarded. The stream stays usable after either.
var (
	ErrInvalidEncoding = errors.New("line is not valid UTF-8")
	ErrLineTooLong     = errors.New("line exceeds maximum length")
)

// CommandSource yields raw command lines. Next returns io.EOF once the stream
// has ended and ErrInvalidEncoding or ErrLineTooLong for a dropped line; any
// other error is fatal for the stream.
type CommandSource interface {
	Next(ctx context.Context) (string, error)
	Close() error
}

// ControlChannel carries out-of-band notifications back to the command writer.
type ControlChannel interface {
	Send(ctx context.Context, line string) error
}
