// Package pipe implements the named-pipe command channel: the FIFO the
// external writer feeds, the control path the shutdown sentinel goes to,
// and the lock that keeps a single reader per pipe.
package pipe

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

const (
	fifoPerm = 0o600
	dirPerm  = 0o755
)

// ErrNotFIFO is returned when the pipe path exists but is something else.
var ErrNotFIFO = errors.New("path exists and is not a FIFO")

// EnsureFIFO creates a FIFO at path unless one already exists.
func EnsureFIFO(path string) error {
	info, err := os.Stat(path)
	switch {
	case err == nil:
		if info.Mode()&os.ModeNamedPipe == 0 {
			return fmt.Errorf("%w: %s", ErrNotFIFO, path)
		}
		return nil
	case !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("stat pipe: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("create pipe directory: %w", err)
	}
	if err := unix.Mkfifo(path, fifoPerm); err != nil && !errors.Is(err, unix.EEXIST) {
		return fmt.Errorf("mkfifo %s: %w", path, err)
	}
	return nil
}

// IsFIFO reports whether path is an existing FIFO.
func IsFIFO(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode()&os.ModeNamedPipe != 0
}
