// Package cli holds the shared state of the pipewin subcommands.
package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bnema/pipewin/internal/cli/styles"
	"github.com/bnema/pipewin/internal/domain/build"
	"github.com/bnema/pipewin/internal/domain/repository"
	"github.com/bnema/pipewin/internal/infrastructure/config"
	"github.com/bnema/pipewin/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/pipewin/internal/logging"
)

// ErrJournalDisabled is returned by Journal when the journal is switched off.
var ErrJournalDisabled = errors.New("command journal is disabled in the configuration")

// App holds CLI dependencies.
type App struct {
	Config     *config.Config
	ConfigFile string
	Theme      *styles.Theme
	BuildInfo  build.Info

	ctx     context.Context
	db      *sql.DB
	journal repository.CommandJournal
}

// NewApp loads the configuration and prepares a quiet logger. configFile
// may be empty to use the XDG location.
func NewApp(configFile string) (*App, error) {
	cfg, resolved, err := loadConfig(configFile)
	if err != nil {
		return nil, err
	}

	logger := logging.New(logging.Config{
		Level:      logging.ParseLevel(cfg.Logging.Level),
		Format:     cfg.Logging.Format,
		TimeFormat: "15:04:05",
	})

	return &App{
		Config:     cfg,
		ConfigFile: resolved,
		Theme:      styles.NewTheme(),
		ctx:        logging.WithContext(context.Background(), logger),
	}, nil
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}

// Journal opens the command journal on first use.
func (a *App) Journal() (repository.CommandJournal, error) {
	if a.journal != nil {
		return a.journal, nil
	}
	if !a.Config.Journal.Enabled {
		return nil, ErrJournalDisabled
	}

	path := a.Config.Journal.Path
	if path == "" {
		var err error
		if path, err = config.GetJournalFile(); err != nil {
			return nil, fmt.Errorf("resolve journal path: %w", err)
		}
	}

	db, err := sqlite.NewConnection(a.ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open command journal at %s: %w", path, err)
	}
	a.db = db
	a.journal = sqlite.NewCommandJournal(db)
	return a.journal, nil
}

// Close releases all resources.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	err := sqlite.Close(a.db)
	a.db = nil
	a.journal = nil
	return err
}

// loadConfig reads the configuration, falling back to defaults when the
// XDG file cannot be loaded. An explicit file that fails to load is an error.
func loadConfig(configFile string) (*config.Config, string, error) {
	if configFile != "" {
		mgr, err := config.NewManagerAt(configFile)
		if err != nil {
			return nil, "", err
		}
		if err := mgr.Load(); err != nil {
			return nil, "", err
		}
		return mgr.Get(), mgr.GetConfigFile(), nil
	}

	mgr, err := config.NewManager()
	if err != nil {
		return config.DefaultConfig(), "", nil
	}
	if err := mgr.Load(); err != nil {
		return config.DefaultConfig(), mgr.GetConfigFile(), nil
	}
	return mgr.Get(), mgr.GetConfigFile(), nil
}
