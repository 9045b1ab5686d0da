package ui

import (
	"context"
	"sync"
	"time"

	"github.com/bnema/pipewin/internal/bootstrap"
	"github.com/bnema/pipewin/internal/infrastructure/config"
	"github.com/bnema/pipewin/internal/infrastructure/webkit"
	"github.com/bnema/pipewin/internal/logging"
	"github.com/diamondburned/gotk4/pkg/gio/v2"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
)

// AppID is the application identifier for GTK.
const AppID = "io.github.bnema.pipewin"

// listenerDrainTimeout bounds how long shutdown waits for the listener.
const listenerDrainTimeout = 2 * time.Second

// App wraps the GTK application. The application is held open while the
// command listener runs and exits once the listener stopped and the last
// window closed.
type App struct {
	deps     *Dependencies
	gtkApp   *gtk.Application
	host     *webkit.Host
	pipeline *bootstrap.Pipeline

	ctx    context.Context
	cancel context.CancelFunc

	activateOnce sync.Once
	shutdownOnce sync.Once
	listenerDone chan struct{}
}

// New creates the GTK application, the window host and the command pipeline.
func New(deps *Dependencies) (*App, error) {
	if err := deps.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(deps.Ctx)
	gtkApp := gtk.NewApplication(AppID, gtkApplicationFlags())
	host := webkit.NewHost(ctx, gtkApp, HostOptions(deps.Config))

	return &App{
		deps:     deps,
		gtkApp:   gtkApp,
		host:     host,
		pipeline: bootstrap.NewPipeline(deps.Config, deps.Resources, host),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// The instance lock already guarantees one reader per pipe, and distinct
// pipes must be able to run side by side.
func gtkApplicationFlags() gio.ApplicationFlags {
	return gio.ApplicationNonUnique
}

// Pipeline returns the command pipeline.
func (a *App) Pipeline() *bootstrap.Pipeline {
	return a.pipeline
}

// Run starts the GTK main loop and blocks until the application exits.
// Returns the exit code.
func (a *App) Run(args []string) int {
	log := logging.FromContext(a.ctx)

	a.gtkApp.ConnectActivate(a.onActivate)
	a.gtkApp.ConnectShutdown(a.onShutdown)

	log.Info().Msg("starting GTK main loop")
	return a.gtkApp.Run(args)
}

// onActivate runs on the GTK thread. Activation can repeat; the listener
// starts only once.
func (a *App) onActivate() {
	a.activateOnce.Do(func() {
		log := logging.FromContext(a.ctx)
		log.Debug().Msg("GTK application activated")

		a.watchConfig()

		a.gtkApp.Hold()
		a.listenerDone = make(chan struct{})
		go a.runListener()
	})
}

func (a *App) runListener() {
	defer close(a.listenerDone)
	log := logging.FromContext(a.ctx)

	if err := a.pipeline.Listener.Run(a.ctx); err != nil {
		log.Error().Err(err).Msg("command listener failed")
	}

	glib.IdleAdd(func() bool {
		log.Debug().Int("live_windows", a.host.LiveWindows()).Msg("listener finished, releasing application")
		a.gtkApp.Release()
		return false
	})
}

func (a *App) watchConfig() {
	mgr := a.deps.ConfigManager
	if mgr == nil {
		return
	}
	mgr.OnConfigChange(a.applyConfig)
	if err := mgr.Watch(); err != nil {
		logging.FromContext(a.ctx).Warn().Err(err).Msg("config hot-reload disabled")
	}
}

func (a *App) applyConfig(cfg *config.Config) {
	a.pipeline.ApplyConfig(a.ctx, cfg)
	a.host.SetOptions(HostOptions(cfg))
}

// onShutdown runs on the GTK thread as the application exits.
func (a *App) onShutdown() {
	a.shutdownOnce.Do(func() {
		log := logging.FromContext(a.ctx)
		log.Debug().Msg("GTK application shutting down")

		a.cancel()
		a.pipeline.Notify.Execute(a.deps.Ctx)

		if a.listenerDone == nil {
			return
		}
		select {
		case <-a.listenerDone:
		case <-time.After(listenerDrainTimeout):
			log.Warn().Msg("command listener did not stop in time")
		}
	})
}

// Quit asks the application to exit. Safe to call from any goroutine.
func (a *App) Quit() {
	glib.IdleAdd(func() bool {
		a.gtkApp.Quit()
		return false
	})
}
