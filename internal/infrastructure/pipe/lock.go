package pipe

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// ErrAlreadyRunning is returned when another process already reads the pipe.
var ErrAlreadyRunning = errors.New("pipewin already running for this pipe")

// InstanceLock is an exclusive flock held for the lifetime of a reader.
type InstanceLock struct {
	file *os.File
	path string
}

// LockPathFor returns the lock file used for the pipe at pipePath.
func LockPathFor(pipePath string) string {
	return pipePath + ".lock"
}

// AcquireLock takes the lock at path without waiting and writes our pid into it.
func AcquireLock(path string) (*InstanceLock, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, filePerm)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		_ = file.Close()
		if errors.Is(err, unix.EWOULDBLOCK) || errors.Is(err, unix.EAGAIN) {
			return nil, fmt.Errorf("%w (%s held by pid %s)", ErrAlreadyRunning, path, readPID(path))
		}
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}

	lock := &InstanceLock{file: file, path: path}
	if err := file.Truncate(0); err != nil {
		_ = lock.Release()
		return nil, fmt.Errorf("truncate lock file: %w", err)
	}
	if _, err := file.WriteAt([]byte(strconv.Itoa(os.Getpid())+"\n"), 0); err != nil {
		_ = lock.Release()
		return nil, fmt.Errorf("write lock file: %w", err)
	}
	return lock, nil
}

// Path returns the lock file path.
func (l *InstanceLock) Path() string {
	return l.path
}

// Release drops the lock and removes the lock file. It is safe to call twice.
func (l *InstanceLock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}

	var releaseErr error
	if err := unix.Flock(int(l.file.Fd()), unix.LOCK_UN); err != nil {
		releaseErr = errors.Join(releaseErr, fmt.Errorf("unlock: %w", err))
	}
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		releaseErr = errors.Join(releaseErr, fmt.Errorf("remove lock file: %w", err))
	}
	if err := l.file.Close(); err != nil {
		releaseErr = errors.Join(releaseErr, fmt.Errorf("close lock file: %w", err))
	}
	l.file = nil
	return releaseErr
}

func readPID(path string) string {
	data, err := os.ReadFile(path)
	if err != nil || len(data) == 0 {
		return "unknown"
	}
	return strings.TrimSpace(string(data))
}
