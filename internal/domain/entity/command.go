package entity

import (
	"errors"
	"time"
)

// CommandID correlates a pipe line with its helper run, log lines and journal row.
type CommandID string

// CommandOutcome summarizes what a command line led to.
type CommandOutcome string

const (
	OutcomeCreated        CommandOutcome = "created"
	OutcomeReused         CommandOutcome = "reused"
	OutcomeHelperReported CommandOutcome = "helper_reported"
	OutcomeMalformed      CommandOutcome = "malformed"
	OutcomeEncoding       CommandOutcome = "encoding"
	OutcomeSpawnFailed    CommandOutcome = "spawn_failed"
	OutcomeTimeout        CommandOutcome = "timeout"
	OutcomeCreationFailed CommandOutcome = "creation_failed"
	OutcomeDeliveryFailed CommandOutcome = "delivery_failed"
	OutcomeDropped        CommandOutcome = "dropped"
)

// Outcomes lists every known outcome, in display order.
func Outcomes() []CommandOutcome {
	return []CommandOutcome{
		OutcomeCreated,
		OutcomeReused,
		OutcomeHelperReported,
		OutcomeMalformed,
		OutcomeEncoding,
		OutcomeSpawnFailed,
		OutcomeTimeout,
		OutcomeCreationFailed,
		OutcomeDeliveryFailed,
		OutcomeDropped,
	}
}

// Succeeded reports whether the command reached a window.
func (o CommandOutcome) Succeeded() bool {
	return o == OutcomeCreated || o == OutcomeReused
}

var ErrInvalidCommandRecord = errors.New("invalid command record")

// CommandRecord is one journal row.
type CommandRecord struct {
	ID         CommandID
	ReceivedAt time.Time
	Line       string
	WindowID   WindowID
	Outcome    CommandOutcome
	Detail     string
	Duration   time.Duration
}

func (r *CommandRecord) Validate() error {
	if r == nil || r.ID == "" || r.Outcome == "" || r.ReceivedAt.IsZero() {
		return ErrInvalidCommandRecord
	}
	return nil
}
