// Package control runs the background loop that feeds pipe commands into
// the window orchestrator.
package control

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/bnema/pipewin/internal/application/port"
	"github.com/bnema/pipewin/internal/application/usecase"
	"github.com/bnema/pipewin/internal/domain/entity"
	"github.com/bnema/pipewin/internal/logging"
)

// CommandProcessor handles one line end to end.
type CommandProcessor interface {
	Execute(ctx context.Context, line string) (*usecase.ProcessCommandOutput, error)
	RecordDropped(ctx context.Context, reason error)
}

// Stats is a snapshot of the listener counters.
type Stats struct {
	Received         int64
	Created          int64
	Reused           int64
	HelperErrors     int64
	Malformed        int64
	EncodingDropped  int64
	OversizeDropped  int64
	SpawnFailures    int64
	Timeouts         int64
	CreationFailures int64
	DeliveryFailures int64
}

// Listener reads commands one at a time and hands each to the processor.
type Listener struct {
	source    port.CommandSource
	processor CommandProcessor

	running atomic.Bool

	received         atomic.Int64
	created          atomic.Int64
	reused           atomic.Int64
	helperErrors     atomic.Int64
	malformed        atomic.Int64
	encodingDropped  atomic.Int64
	oversizeDropped  atomic.Int64
	spawnFailures    atomic.Int64
	timeouts         atomic.Int64
	creationFailures atomic.Int64
	deliveryFailures atomic.Int64
}

// NewListener creates a listener. It owns source and closes it when Run returns.
func NewListener(source port.CommandSource, processor CommandProcessor) *Listener {
	return &Listener{source: source, processor: processor}
}

// ErrAlreadyRunning is returned by Run when the listener is already active.
var ErrAlreadyRunning = errors.New("listener already running")

// Run blocks until the source ends, ctx is cancelled or a read fails.
// End of stream and cancellation return nil.
func (l *Listener) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer l.running.Store(false)

	ctx = logging.WithComponent(ctx, "listener")
	log := logging.FromContext(ctx)
	start := time.Now()

	stop := context.AfterFunc(ctx, func() {
		_ = l.source.Close()
	})
	defer func() {
		stop()
		_ = l.source.Close()
		l.logSummary(ctx, time.Since(start))
	}()

	log.Info().Msg("listening for commands")

	for {
		line, err := l.source.Next(ctx)
		if ctx.Err() != nil {
			log.Debug().Msg("listener cancelled")
			return nil
		}

		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			log.Info().Msg("command pipe closed by writer")
			return nil
		case errors.Is(err, port.ErrInvalidEncoding):
			l.encodingDropped.Add(1)
			l.processor.RecordDropped(ctx, err)
			continue
		case errors.Is(err, port.ErrLineTooLong):
			l.oversizeDropped.Add(1)
			l.processor.RecordDropped(ctx, err)
			continue
		default:
			return fmt.Errorf("read command: %w", err)
		}

		l.received.Add(1)
		out, _ := l.processor.Execute(ctx, line)
		if out != nil {
			l.count(out.Outcome)
		}
	}
}

// Running reports whether Run is active.
func (l *Listener) Running() bool {
	return l.running.Load()
}

func (l *Listener) count(outcome entity.CommandOutcome) {
	switch outcome {
	case entity.OutcomeCreated:
		l.created.Add(1)
	case entity.OutcomeReused:
		l.reused.Add(1)
	case entity.OutcomeHelperReported:
		l.helperErrors.Add(1)
	case entity.OutcomeMalformed:
		l.malformed.Add(1)
	case entity.OutcomeEncoding:
		l.encodingDropped.Add(1)
	case entity.OutcomeSpawnFailed:
		l.spawnFailures.Add(1)
	case entity.OutcomeTimeout:
		l.timeouts.Add(1)
	case entity.OutcomeCreationFailed:
		l.creationFailures.Add(1)
	case entity.OutcomeDeliveryFailed:
		l.deliveryFailures.Add(1)
	}
}

// Stats returns the current counters.
func (l *Listener) Stats() Stats {
	return Stats{
		Received:         l.received.Load(),
		Created:          l.created.Load(),
		Reused:           l.reused.Load(),
		HelperErrors:     l.helperErrors.Load(),
		Malformed:        l.malformed.Load(),
		EncodingDropped:  l.encodingDropped.Load(),
		OversizeDropped:  l.oversizeDropped.Load(),
		SpawnFailures:    l.spawnFailures.Load(),
		Timeouts:         l.timeouts.Load(),
		CreationFailures: l.creationFailures.Load(),
		DeliveryFailures: l.deliveryFailures.Load(),
	}
}

func (l *Listener) logSummary(ctx context.Context, elapsed time.Duration) {
	s := l.Stats()
	logging.FromContext(ctx).Info().
		Int64("received", s.Received).
		Int64("created", s.Created).
		Int64("reused", s.Reused).
		Int64("helper_errors", s.HelperErrors).
		Int64("malformed", s.Malformed).
		Int64("encoding_dropped", s.EncodingDropped).
		Int64("oversize_dropped", s.OversizeDropped).
		Int64("spawn_failures", s.SpawnFailures).
		Int64("timeouts", s.Timeouts).
		Int64("creation_failures", s.CreationFailures).
		Int64("delivery_failures", s.DeliveryFailures).
		Dur("uptime", elapsed).
		Msg("listener stopped")
}
