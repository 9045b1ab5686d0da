package pipe

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"github.com/bnema/pipewin/internal/application/port"
	"github.com/bnema/pipewin/internal/logging"
	"golang.org/x/sys/unix"
)

// Policy decides what happens to a line that is not valid UTF-8.
type Policy string

const (
	PolicyDrop    Policy = "drop"
	PolicyReplace Policy = "replace"
)

const defaultMaxLineBytes = 1 << 20

// ErrClosed is returned by Next after Close.
var ErrClosed = errors.New("command source closed")

// SourceOptions configures a LineSource.
type SourceOptions struct {
	Policy       Policy
	ReopenOnEOF  bool
	MaxLineBytes int
}

// SourceStats counts what the source has seen so far.
type SourceStats struct {
	Lines    int64
	Dropped  int64
	Replaced int64
	Reopens  int64
}

// LineSource reads newline-delimited commands from a FIFO.
// Next must not be called concurrently; Close may be called from any goroutine.
type LineSource struct {
	path        string
	reopenOnEOF bool
	maxLine     int
	policy      atomic.Value

	mu     sync.Mutex
	file   *os.File
	reader *bufio.Reader
	closed bool
	done   chan struct{}

	lines    atomic.Int64
	dropped  atomic.Int64
	replaced atomic.Int64
	reopens  atomic.Int64
}

var _ port.CommandSource = (*LineSource)(nil)

// NewLineSource creates a source for the FIFO at path. The FIFO is opened
// lazily by the first Next call, which blocks until a writer shows up.
func NewLineSource(path string, opts SourceOptions) *LineSource {
	if opts.MaxLineBytes <= 0 {
		opts.MaxLineBytes = defaultMaxLineBytes
	}
	s := &LineSource{
		path:        path,
		reopenOnEOF: opts.ReopenOnEOF,
		maxLine:     opts.MaxLineBytes,
		done:        make(chan struct{}),
	}
	s.SetPolicy(opts.Policy)
	return s
}

// SetPolicy changes the invalid UTF-8 policy for subsequent lines.
func (s *LineSource) SetPolicy(p Policy) {
	if p != PolicyReplace {
		p = PolicyDrop
	}
	s.policy.Store(p)
}

// Policy returns the active invalid UTF-8 policy.
func (s *LineSource) Policy() Policy {
	return s.policy.Load().(Policy)
}

// Stats returns a snapshot of the counters.
func (s *LineSource) Stats() SourceStats {
	return SourceStats{
		Lines:    s.lines.Load(),
		Dropped:  s.dropped.Load(),
		Replaced: s.replaced.Load(),
		Reopens:  s.reopens.Load(),
	}
}

// Next returns the next line without its terminator.
func (s *LineSource) Next(ctx context.Context) (string, error) {
	log := logging.FromContext(ctx)

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		r, err := s.ensureOpen()
		if err != nil {
			return "", err
		}

		raw, err := s.readLine(r)
		switch {
		case err == nil:
			s.lines.Add(1)
			return s.decode(ctx, raw)
		case errors.Is(err, port.ErrLineTooLong):
			s.dropped.Add(1)
			log.Warn().Int("max_bytes", s.maxLine).Msg("dropping oversized command line")
			return "", err
		case errors.Is(err, io.EOF):
			if !s.reopenOnEOF {
				return "", io.EOF
			}
			s.closeFile()
			s.reopens.Add(1)
			log.Debug().Str("path", s.path).Msg("writer closed pipe, reopening")
		default:
			if s.isClosed() {
				return "", ErrClosed
			}
			return "", fmt.Errorf("read pipe: %w", err)
		}
	}
}

func (s *LineSource) decode(ctx context.Context, raw []byte) (string, error) {
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	log := logging.FromContext(ctx)

	if s.Policy() == PolicyReplace {
		s.replaced.Add(1)
		log.Warn().Int("bytes", len(raw)).Msg("replacing invalid UTF-8 in command line")
		return string(bytes.ToValidUTF8(raw, []byte("\uFFFD"))), nil
	}
	s.dropped.Add(1)
	log.Warn().Int("bytes", len(raw)).Msg("dropping command line with invalid UTF-8")
	return "", port.ErrInvalidEncoding
}

// readLine returns one line without "\n" or "\r\n". A final unterminated
// line is returned before io.EOF. The size limit applies to the content,
// never to the terminator.
func (s *LineSource) readLine(r *bufio.Reader) ([]byte, error) {
	// Room for a "\r\n" that may arrive split across chunks.
	const eolBytes = 2

	var line []byte
	tooLong := false

	for {
		chunk, err := r.ReadSlice('\n')
		if !tooLong {
			if len(line)+len(chunk) > s.maxLine+eolBytes {
				tooLong = true
				line = nil
			} else {
				line = append(line, chunk...)
			}
		}

		switch {
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case err == nil:
			return s.finishLine(line, tooLong)
		default:
			if tooLong {
				return nil, port.ErrLineTooLong
			}
			if len(line) > 0 && errors.Is(err, io.EOF) {
				return s.finishLine(line, false)
			}
			return nil, err
		}
	}
}

func (s *LineSource) finishLine(line []byte, tooLong bool) ([]byte, error) {
	if tooLong {
		return nil, port.ErrLineTooLong
	}
	content := trimEOL(line)
	if len(content) > s.maxLine {
		return nil, port.ErrLineTooLong
	}
	return content, nil
}

func trimEOL(line []byte) []byte {
	line = bytes.TrimSuffix(line, []byte("\n"))
	return bytes.TrimSuffix(line, []byte("\r"))
}

// ensureOpen opens the FIFO for reading. Opening blocks until a writer
// connects, so it runs on its own goroutine and gives up when Close is called.
func (s *LineSource) ensureOpen() (*bufio.Reader, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	if s.reader != nil {
		r := s.reader
		s.mu.Unlock()
		return r, nil
	}
	s.mu.Unlock()

	type opened struct {
		f   *os.File
		err error
	}
	ch := make(chan opened, 1)
	go func() {
		f, err := os.OpenFile(s.path, os.O_RDONLY, 0)
		ch <- opened{f: f, err: err}
	}()

	var res opened
	select {
	case res = <-ch:
	case <-s.done:
		go func() {
			if late := <-ch; late.f != nil {
				_ = late.f.Close()
			}
		}()
		return nil, ErrClosed
	}
	if res.err != nil {
		return nil, fmt.Errorf("open pipe: %w", res.err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		_ = res.f.Close()
		return nil, ErrClosed
	}
	s.file = res.f
	s.reader = bufio.NewReaderSize(res.f, 64*1024)
	return s.reader, nil
}

func (s *LineSource) closeFile() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file != nil {
		_ = s.file.Close()
	}
	s.file = nil
	s.reader = nil
}

func (s *LineSource) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close stops the source and unblocks a pending Next.
func (s *LineSource) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.done)
	f := s.file
	s.file = nil
	s.reader = nil
	s.mu.Unlock()

	if f != nil {
		return f.Close()
	}
	wakeOpener(s.path)
	return nil
}

// wakeOpener briefly opens the write end so a reader blocked in open returns.
func wakeOpener(path string) {
	fd, err := unix.Open(path, unix.O_WRONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return
	}
	_ = unix.Close(fd)
}
