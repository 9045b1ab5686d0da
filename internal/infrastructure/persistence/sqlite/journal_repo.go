package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bnema/pipewin/internal/domain/entity"
	"github.com/bnema/pipewin/internal/domain/repository"
)

const (
	insertRecordSQL = `INSERT INTO command_journal
		(command_id, received_at, line, window_id, outcome, detail, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	selectRecentSQL = `SELECT command_id, received_at, line, window_id, outcome, detail, duration_ms
		FROM command_journal
		WHERE (? = '' OR outcome = ?)
		ORDER BY seq DESC
		LIMIT ?`

	pruneSQL = `DELETE FROM command_journal
		WHERE seq <= (SELECT seq FROM command_journal ORDER BY seq DESC LIMIT 1 OFFSET ?)`

	countByOutcomeSQL = `SELECT outcome, COUNT(*) FROM command_journal GROUP BY outcome`
)

const defaultRecentLimit = 50

type journalRepo struct {
	db *sql.DB
}

// NewCommandJournal creates a SQLite-backed command journal.
func NewCommandJournal(db *sql.DB) repository.CommandJournal {
	return &journalRepo{db: db}
}

func (r *journalRepo) Record(ctx context.Context, rec *entity.CommandRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, insertRecordSQL,
		string(rec.ID),
		rec.ReceivedAt.UnixMilli(),
		rec.Line,
		string(rec.WindowID),
		string(rec.Outcome),
		rec.Detail,
		rec.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert journal record: %w", err)
	}
	return nil
}

func (r *journalRepo) Recent(ctx context.Context, limit int, outcome entity.CommandOutcome) ([]*entity.CommandRecord, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	rows, err := r.db.QueryContext(ctx, selectRecentSQL, string(outcome), string(outcome), limit)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	records := make([]*entity.CommandRecord, 0, limit)
	for rows.Next() {
		var (
			id, line, windowID, outcomeStr, detail string
			receivedMs, durationMs                 int64
		)
		if err := rows.Scan(&id, &receivedMs, &line, &windowID, &outcomeStr, &detail, &durationMs); err != nil {
			return nil, fmt.Errorf("scan journal row: %w", err)
		}
		records = append(records, &entity.CommandRecord{
			ID:         entity.CommandID(id),
			ReceivedAt: time.UnixMilli(receivedMs),
			Line:       line,
			WindowID:   entity.WindowID(windowID),
			Outcome:    entity.CommandOutcome(outcomeStr),
			Detail:     detail,
			Duration:   time.Duration(durationMs) * time.Millisecond,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal rows: %w", err)
	}
	return records, nil
}

func (r *journalRepo) Prune(ctx context.Context, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}
	res, err := r.db.ExecContext(ctx, pruneSQL, keep)
	if err != nil {
		return 0, fmt.Errorf("prune journal: %w", err)
	}
	return res.RowsAffected()
}

func (r *journalRepo) CountByOutcome(ctx context.Context) (map[entity.CommandOutcome]int64, error) {
	rows, err := r.db.QueryContext(ctx, countByOutcomeSQL)
	if err != nil {
		return nil, fmt.Errorf("count journal outcomes: %w", err)
	}
	defer rows.Close()

	counts := make(map[entity.CommandOutcome]int64)
	for rows.Next() {
		var outcome string
		var n int64
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, fmt.Errorf("scan outcome count: %w", err)
		}
		counts[entity.CommandOutcome(outcome)] = n
	}
	return counts, rows.Err()
}
