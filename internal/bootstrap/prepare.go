package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/pipewin/internal/domain/repository"
	"github.com/bnema/pipewin/internal/infrastructure/config"
	"github.com/bnema/pipewin/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/pipewin/internal/infrastructure/pipe"
	"github.com/bnema/pipewin/internal/logging"
	"golang.org/x/sync/errgroup"
)

// Resources are the process-wide handles acquired before the GUI starts.
type Resources struct {
	Lock *pipe.InstanceLock
	// DB and Journal are nil when the journal is disabled.
	DB      *sql.DB
	Journal repository.CommandJournal

	Duration time.Duration
}

// Prepare creates the command FIFO, takes the single-reader lock and opens
// the journal, concurrently. On error everything acquired so far is released.
func Prepare(ctx context.Context, cfg *config.Config) (*Resources, error) {
	log := logging.FromContext(ctx)
	res := &Resources{}
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := pipe.EnsureFIFO(cfg.Pipe.Path); err != nil {
			return fmt.Errorf("prepare command pipe %s: %w", cfg.Pipe.Path, err)
		}
		lock, err := pipe.AcquireLock(pipe.LockPathFor(cfg.Pipe.Path))
		if err != nil {
			return err
		}
		res.Lock = lock
		return nil
	})

	if cfg.Journal.Enabled {
		g.Go(func() error {
			db, err := sqlite.NewConnection(gctx, cfg.Journal.Path)
			if err != nil {
				return fmt.Errorf("open command journal at %s: %w", cfg.Journal.Path, err)
			}
			res.DB = db
			res.Journal = sqlite.NewCommandJournal(db)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		_ = res.Close()
		return nil, err
	}

	res.Duration = time.Since(start)
	log.Debug().
		Str("pipe", cfg.Pipe.Path).
		Bool("journal", res.Journal != nil).
		Dur("duration", res.Duration).
		Msg("resources ready")
	return res, nil
}

// Close releases the lock and closes the journal database.
func (r *Resources) Close() error {
	if r == nil {
		return nil
	}
	var err error
	if r.DB != nil {
		err = errors.Join(err, sqlite.Close(r.DB))
		r.DB = nil
		r.Journal = nil
	}
	if r.Lock != nil {
		err = errors.Join(err, r.Lock.Release())
		r.Lock = nil
	}
	return err
}
