package bootstrap

import (
	"fmt"
	"io"

	"github.com/bnema/pipewin/internal/infrastructure/config"
	"github.com/bnema/pipewin/internal/logging"
	"github.com/rs/zerolog"
)

// NewLogger builds the process logger from the logging section. When file
// logging is enabled, events are also written as JSON to a rotated file in
// log_dir. The returned cleanup closes that file.
func NewLogger(cfg config.LoggingConfig, runID string) (zerolog.Logger, func(), error) {
	var (
		extra   io.Writer
		cleanup = func() {}
	)

	if cfg.EnableFileLog {
		rotator, err := logging.NewLogRotator(logging.RotatorConfig{
			Dir:        cfg.LogDir,
			MaxSizeMB:  cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAgeDays: cfg.MaxAgeDays,
			Compress:   true,
		})
		if err != nil {
			fallback := logging.NewFromConfigValues(cfg.Level, cfg.Format, nil)
			return fallback, cleanup, fmt.Errorf("open log file: %w", err)
		}
		extra = rotator
		cleanup = func() { _ = rotator.Close() }
	}

	logger := logging.NewFromConfigValues(cfg.Level, cfg.Format, extra)
	if runID != "" {
		logger = logger.With().Str("run_id", logging.ShortRunID(runID)).Logger()
	}
	return logger, cleanup, nil
}
