package repository

import (
	"context"

	"github.com/bnema/pipewin/internal/domain/entity"
)

//go:generate mockgen -destination=mocks/mock_command_journal.go -package=mocks . CommandJournal

// CommandJournal persists the outcome of processed command lines.
type CommandJournal interface {
	Record(ctx context.Context, record *entity.CommandRecord) error

	// Recent returns the newest records first. An empty outcome matches all.
	Recent(ctx context.Context, limit int, outcome entity.CommandOutcome) ([]*entity.CommandRecord, error)

	// Prune keeps the newest keep records and returns how many were removed.
	Prune(ctx context.Context, keep int) (int64, error)

	// CountByOutcome aggregates the whole journal.
	CountByOutcome(ctx context.Context) (map[entity.CommandOutcome]int64, error)
}
