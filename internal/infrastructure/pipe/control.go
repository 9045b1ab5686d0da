package pipe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bnema/pipewin/internal/application/port"
	"golang.org/x/sys/unix"
)

const filePerm = 0o644

var (
	// ErrNoReader is returned when a FIFO has nobody reading from it.
	ErrNoReader = errors.New("no reader on pipe")
	// ErrMultiline rejects lines that would split into several commands.
	ErrMultiline = errors.New("line must not contain a newline")
)

// ControlWriter appends single lines to the control path without ever
// blocking. A FIFO with no reader fails immediately with ErrNoReader.
type ControlWriter struct {
	path string
}

var _ port.ControlChannel = (*ControlWriter)(nil)

// NewControlWriter creates a writer for path.
func NewControlWriter(path string) *ControlWriter {
	return &ControlWriter{path: path}
}

// Path returns the control path.
func (w *ControlWriter) Path() string {
	return w.path
}

// Send writes line followed by a newline.
func (w *ControlWriter) Send(ctx context.Context, line string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.ContainsAny(line, "\r\n") {
		return ErrMultiline
	}

	fd, err := unix.Open(w.path, unix.O_WRONLY|unix.O_APPEND|unix.O_CREAT|unix.O_NONBLOCK|unix.O_CLOEXEC, filePerm)
	if err != nil {
		if errors.Is(err, unix.ENXIO) {
			return fmt.Errorf("%w: %s", ErrNoReader, w.path)
		}
		return fmt.Errorf("open control path: %w", err)
	}
	defer unix.Close(fd)

	if _, err := unix.Write(fd, []byte(line+"\n")); err != nil {
		return fmt.Errorf("write control path: %w", err)
	}
	return nil
}

// SendLine writes one command line to the FIFO at path. With wait set it
// blocks until a reader opens the pipe or ctx is done; without it a missing
// reader is reported as ErrNoReader.
func SendLine(ctx context.Context, path, line string, wait bool) error {
	if strings.ContainsAny(line, "\r\n") {
		return ErrMultiline
	}
	if !IsFIFO(path) {
		return fmt.Errorf("%w: %s", ErrNotFIFO, path)
	}
	if !wait {
		return NewControlWriter(path).Send(ctx, line)
	}

	type opened struct {
		f   *os.File
		err error
	}
	ch := make(chan opened, 1)
	go func() {
		f, err := os.OpenFile(path, os.O_WRONLY, 0)
		ch <- opened{f: f, err: err}
	}()

	var res opened
	select {
	case res = <-ch:
	case <-ctx.Done():
		// Briefly become a reader so the blocked open returns, then discard it.
		if fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0); err == nil {
			late := <-ch
			if late.f != nil {
				_ = late.f.Close()
			}
			_ = unix.Close(fd)
		}
		return ctx.Err()
	}
	if res.err != nil {
		return fmt.Errorf("open pipe: %w", res.err)
	}
	defer res.f.Close()

	if _, err := res.f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("write pipe: %w", err)
	}
	return nil
}
