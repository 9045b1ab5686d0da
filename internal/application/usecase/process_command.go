package usecase

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/bnema/pipewin/internal/domain/entity"
	"github.com/bnema/pipewin/internal/domain/repository"
	"github.com/bnema/pipewin/internal/logging"
	"github.com/google/uuid"
)

const defaultPruneEvery = 100

// ProcessCommandUseCase runs one pipe line through dispatch, parsing and
// orchestration, then journals the outcome.
type ProcessCommandUseCase struct {
	dispatch    *DispatchCommandUseCase
	orchestrate *OrchestrateWindowUseCase
	journal     repository.CommandJournal

	journalKeep int
	pruneEvery  int64
	recorded    atomic.Int64

	now   func() time.Time
	newID func() entity.CommandID
}

// NewProcessCommandUseCase creates a new ProcessCommandUseCase.
// journal may be nil; journalKeep <= 0 disables pruning.
func NewProcessCommandUseCase(
	dispatch *DispatchCommandUseCase,
	orchestrate *OrchestrateWindowUseCase,
	journal repository.CommandJournal,
	journalKeep int,
) *ProcessCommandUseCase {
	return &ProcessCommandUseCase{
		dispatch:    dispatch,
		orchestrate: orchestrate,
		journal:     journal,
		journalKeep: journalKeep,
		pruneEvery:  defaultPruneEvery,
		now:         time.Now,
		newID:       func() entity.CommandID { return entity.CommandID(uuid.NewString()) },
	}
}

// ProcessCommandOutput summarizes one processed line.
type ProcessCommandOutput struct {
	CommandID entity.CommandID
	WindowID  entity.WindowID
	Outcome   entity.CommandOutcome
}

// Execute handles one line. The returned error is informational: it has
// already been logged and journaled, and the caller should move on.
func (uc *ProcessCommandUseCase) Execute(ctx context.Context, line string) (*ProcessCommandOutput, error) {
	id := uc.newID()
	ctx = logging.WithCommandID(ctx, string(id))
	log := logging.FromContext(ctx)
	start := uc.now()

	out := &ProcessCommandOutput{CommandID: id}
	directive, err := uc.resolve(ctx, line)
	if err == nil {
		out.WindowID = directive.WindowID
		var res *OrchestrateResult
		res, err = uc.orchestrate.Execute(ctx, directive)
		if err == nil {
			out.Outcome = entity.OutcomeReused
			if res.Created {
				out.Outcome = entity.OutcomeCreated
			}
		}
	}

	detail := ""
	if err != nil {
		out.Outcome = OutcomeForError(err)
		detail = err.Error()
	}
	elapsed := uc.now().Sub(start)

	event := log.Info()
	if err != nil {
		event = log.Error().Err(err)
	}
	event.Str("line", line).
		Str("window_id", string(out.WindowID)).
		Str("outcome", string(out.Outcome)).
		Dur("duration", elapsed).
		Msg("command processed")

	uc.record(ctx, &entity.CommandRecord{
		ID:         id,
		ReceivedAt: start,
		Line:       line,
		WindowID:   out.WindowID,
		Outcome:    out.Outcome,
		Detail:     detail,
		Duration:   elapsed,
	})
	return out, err
}

func (uc *ProcessCommandUseCase) resolve(ctx context.Context, line string) (entity.WindowDirective, error) {
	result, err := uc.dispatch.Execute(ctx, line)
	if err != nil {
		return entity.WindowDirective{}, err
	}
	return ParseHelperResponse(result)
}

// RecordDropped journals a line the source discarded before dispatch.
func (uc *ProcessCommandUseCase) RecordDropped(ctx context.Context, reason error) {
	id := uc.newID()
	logging.FromContext(ctx).Warn().
		Str("command_id", string(id)).
		Err(reason).
		Msg("command line dropped")

	uc.record(ctx, &entity.CommandRecord{
		ID:         id,
		ReceivedAt: uc.now(),
		Outcome:    entity.OutcomeDropped,
		Detail:     reason.Error(),
	})
}

// Journal failures never affect window orchestration.
func (uc *ProcessCommandUseCase) record(ctx context.Context, rec *entity.CommandRecord) {
	if uc.journal == nil {
		return
	}
	log := logging.FromContext(ctx)

	if err := uc.journal.Record(ctx, rec); err != nil {
		log.Warn().Err(err).Msg("failed to journal command")
		return
	}
	if uc.journalKeep <= 0 {
		return
	}
	if n := uc.recorded.Add(1); n%uc.pruneEvery != 0 {
		return
	}
	removed, err := uc.journal.Prune(ctx, uc.journalKeep)
	if err != nil {
		log.Warn().Err(err).Msg("failed to prune command journal")
		return
	}
	if removed > 0 {
		log.Debug().Int64("removed", removed).Msg("pruned command journal")
	}
}
