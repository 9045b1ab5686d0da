// Package ui runs the GTK4 application that hosts orchestrated windows.
package ui

import (
	"context"

	"github.com/bnema/pipewin/internal/bootstrap"
	"github.com/bnema/pipewin/internal/infrastructure/config"
	"github.com/bnema/pipewin/internal/infrastructure/webkit"
)

// Dependencies holds everything the UI layer needs at startup.
type Dependencies struct {
	Ctx    context.Context
	Config *config.Config

	// Resources may be nil when running without a journal or lock, as in tests.
	Resources *bootstrap.Resources

	// ConfigManager, when set, is watched and reloads apply to new commands.
	ConfigManager *config.Manager
}

// Validate checks that required dependencies are present.
func (d *Dependencies) Validate() error {
	if d.Ctx == nil {
		return ErrMissingDependency("Ctx")
	}
	if d.Config == nil {
		return ErrMissingDependency("Config")
	}
	return nil
}

// DependencyError indicates a missing required dependency.
type DependencyError struct {
	Name string
}

func (e DependencyError) Error() string {
	return "missing required dependency: " + e.Name
}

// ErrMissingDependency creates a DependencyError.
func ErrMissingDependency(name string) error {
	return DependencyError{Name: name}
}

// HostOptions maps the window and orchestrator sections onto the WebKit host.
func HostOptions(cfg *config.Config) webkit.HostOptions {
	return webkit.HostOptions{
		BaseURL:        cfg.Window.BaseURL,
		Title:          cfg.Window.Title,
		Width:          cfg.Window.Width,
		Height:         cfg.Window.Height,
		EnableDevTools: cfg.Window.EnableDevTools,
		ReadyEvent:     bootstrap.OrchestratorOptions(cfg.Orchestrator).ReadyEvent,
	}
}
