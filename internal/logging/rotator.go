package logging

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

const logFilePerm = 0o600

// RotatorConfig configures size based log file rotation.
type RotatorConfig struct {
	Dir        string
	FileName   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// LogRotator is an io.Writer that rotates the file once it grows past MaxSizeMB.
type LogRotator struct {
	mu      sync.Mutex
	cfg     RotatorConfig
	maxSize int64
	maxAge  time.Duration
	now     func() time.Time

	file *os.File
	size int64
}

func NewLogRotator(cfg RotatorConfig) (*LogRotator, error) {
	if cfg.FileName == "" {
		cfg.FileName = "pipewin.log"
	}
	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = 10
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	r := &LogRotator{
		cfg:     cfg,
		maxSize: int64(cfg.MaxSizeMB) * 1024 * 1024,
		maxAge:  time.Duration(cfg.MaxAgeDays) * 24 * time.Hour,
		now:     time.Now,
	}
	if err := r.open(); err != nil {
		return nil, err
	}
	return r, nil
}

// Path returns the active log file path.
func (r *LogRotator) Path() string {
	return filepath.Join(r.cfg.Dir, r.cfg.FileName)
}

func (r *LogRotator) open() error {
	if info, err := os.Stat(r.Path()); err == nil {
		r.size = info.Size()
	} else {
		r.size = 0
	}

	file, err := os.OpenFile(r.Path(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePerm)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	r.file = file
	return nil
}

func (r *LogRotator) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		if err := r.open(); err != nil {
			return 0, err
		}
	}

	if r.size > 0 && r.size+int64(len(p)) > r.maxSize {
		if err := r.rotate(); err != nil {
			return 0, err
		}
	}

	n, err := r.file.Write(p)
	r.size += int64(n)
	return n, err
}

func (r *LogRotator) rotate() error {
	if err := r.file.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to close log file: %v\n", err)
	}
	r.file = nil

	backup := fmt.Sprintf("%s.%s", r.Path(), r.now().Format("20060102-150405.000"))
	if err := os.Rename(r.Path(), backup); err != nil {
		return fmt.Errorf("failed to rotate log file: %w", err)
	}

	if r.cfg.Compress {
		if err := gzipFile(backup); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to compress %s: %v\n", backup, err)
		} else if err := os.Remove(backup); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to remove %s: %v\n", backup, err)
		}
	}

	r.prune()
	return r.open()
}

func gzipFile(path string) (err error) {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(path+".gz", os.O_CREATE|os.O_WRONLY|os.O_TRUNC, logFilePerm)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	gz := gzip.NewWriter(out)
	if _, err = io.Copy(gz, in); err != nil {
		_ = gz.Close()
		return err
	}
	return gz.Close()
}

// prune removes backups older than MaxAgeDays, then the oldest ones beyond MaxBackups.
func (r *LogRotator) prune() {
	entries, err := os.ReadDir(r.cfg.Dir)
	if err != nil {
		return
	}

	prefix := r.cfg.FileName + "."
	now := r.now()
	var backups []os.FileInfo

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if r.maxAge > 0 && now.Sub(info.ModTime()) > r.maxAge {
			_ = os.Remove(filepath.Join(r.cfg.Dir, entry.Name()))
			continue
		}
		backups = append(backups, info)
	}

	if r.cfg.MaxBackups <= 0 || len(backups) <= r.cfg.MaxBackups {
		return
	}
	sort.Slice(backups, func(i, j int) bool {
		if backups[i].ModTime().Equal(backups[j].ModTime()) {
			return backups[i].Name() < backups[j].Name()
		}
		return backups[i].ModTime().Before(backups[j].ModTime())
	})
	for _, info := range backups[:len(backups)-r.cfg.MaxBackups] {
		_ = os.Remove(filepath.Join(r.cfg.Dir, info.Name()))
	}
}

func (r *LogRotator) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}
