// Package bootstrap prepares and wires the long-lived parts of pipewin.
package bootstrap

import (
	"context"
	"sync"
	"time"

	"github.com/bnema/pipewin/internal/logging"
)

// StartupTimer records how long each startup phase took.
// Safe for use from the goroutines of a parallel phase.
type StartupTimer struct {
	mu     sync.Mutex
	start  time.Time
	last   time.Time
	phases map[string]time.Duration
	order  []string
	now    func() time.Time
}

// NewStartupTimer creates a timer starting now.
func NewStartupTimer() *StartupTimer {
	return newStartupTimer(time.Now)
}

func newStartupTimer(now func() time.Time) *StartupTimer {
	t := now()
	return &StartupTimer{
		start:  t,
		last:   t,
		phases: make(map[string]time.Duration),
		now:    now,
	}
}

// Mark records the time since the previous mark for phase.
func (t *StartupTimer) Mark(phase string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.record(phase, now.Sub(t.last))
	t.last = now
}

// MarkDuration records d for phase without moving the mark.
func (t *StartupTimer) MarkDuration(phase string, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.record(phase, d)
}

func (t *StartupTimer) record(phase string, d time.Duration) {
	if _, seen := t.phases[phase]; !seen {
		t.order = append(t.order, phase)
	}
	t.phases[phase] = d
}

// Phase returns the duration recorded for phase.
func (t *StartupTimer) Phase(phase string) (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	d, ok := t.phases[phase]
	return d, ok
}

// Phases returns phase names in the order they were first recorded.
func (t *StartupTimer) Phases() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.order...)
}

// Total returns the time since the timer was created.
func (t *StartupTimer) Total() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.now().Sub(t.start)
}

// Log writes all phases on one debug line.
func (t *StartupTimer) Log(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	event := logging.FromContext(ctx).Debug().Dur("total", t.now().Sub(t.start))
	for _, phase := range t.order {
		event = event.Dur(phase, t.phases[phase])
	}
	event.Msg("startup timing")
}
