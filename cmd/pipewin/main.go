package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/bnema/pipewin/internal/bootstrap"
	"github.com/bnema/pipewin/internal/cli/cmd"
	"github.com/bnema/pipewin/internal/domain/build"
	"github.com/bnema/pipewin/internal/infrastructure/config"
	"github.com/bnema/pipewin/internal/infrastructure/pipe"
	"github.com/bnema/pipewin/internal/logging"
	"github.com/bnema/pipewin/internal/ui"
)

// Build-time variables (set via ldflags).
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	enableCrashForensics()

	// GTK must own the main thread, so run skips cobra entirely.
	if len(os.Args) > 1 && os.Args[1] == "run" {
		os.Args = os.Args[:1]
		os.Exit(runGUI())
		return
	}

	cmd.SetBuildInfo(buildInfo())
	cmd.Execute()
}

func buildInfo() build.Info {
	return build.Info{
		Version:   version,
		Commit:    commit,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
	}
}

func runGUI() int {
	runtime.LockOSThread()
	timer := bootstrap.NewStartupTimer()

	cfg := initConfig()
	timer.Mark("config")

	logger, logCleanup, logErr := bootstrap.NewLogger(cfg.Logging, logging.GenerateRunID())
	defer logCleanup()
	ctx := logging.WithContext(context.Background(), logger)
	log := logging.FromContext(ctx)
	if logErr != nil {
		log.Warn().Err(logErr).Msg("file logging disabled")
	}
	log.Info().
		Str("version", version).
		Str("commit", commit).
		Str("build_date", buildDate).
		Str("pipe", cfg.Pipe.Path).
		Msg("starting pipewin")
	logCoreDumpLimits(ctx)
	timer.Mark("logger")

	res, err := bootstrap.Prepare(ctx, cfg)
	if err != nil {
		handlePrepareError(ctx, err)
		return 1
	}
	defer func() {
		if err := res.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to release resources")
		}
	}()
	timer.MarkDuration("prepare", res.Duration)

	app, err := ui.New(&ui.Dependencies{
		Ctx:           ctx,
		Config:        cfg,
		Resources:     res,
		ConfigManager: config.GetManager(),
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to create application")
		return 1
	}
	timer.Mark("ui_deps")
	timer.Log(ctx)

	setupSignalHandler(ctx, app)

	return app.Run(os.Args)
}

func initConfig() *config.Config {
	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize configuration: %v\n", err)
		os.Exit(1)
	}
	return config.Get()
}

func handlePrepareError(ctx context.Context, err error) {
	log := logging.FromContext(ctx)
	switch {
	case errors.Is(err, pipe.ErrAlreadyRunning):
		log.Error().Err(err).
			Str("hint", "another pipewin reads this pipe; set pipe.path or PIPEWIN_PIPE_PATH to run a second one").
			Msg("cannot start")
	case errors.Is(err, pipe.ErrNotFIFO):
		log.Error().Err(err).
			Str("hint", "remove the file or point pipe.path elsewhere").
			Msg("cannot start")
	default:
		log.Error().Err(err).Msg("initialization failed")
	}
}

func setupSignalHandler(ctx context.Context, app *ui.App) {
	log := logging.FromContext(ctx)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		signal.Stop(sigCh)
		log.Info().Str("signal", sig.String()).Msg("received interrupt, quitting")
		app.Quit()
	}()
}
