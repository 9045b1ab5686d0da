// Package webkit hosts orchestrated windows as GTK4 application windows
// with a WebKitGTK view each.
package webkit

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/bnema/pipewin/internal/application/port"
	"github.com/bnema/pipewin/internal/infrastructure/webkit/bridge"
	"github.com/bnema/pipewin/internal/logging"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
)

// HostOptions configures new windows.
type HostOptions struct {
	BaseURL        string
	Title          string
	Width          int
	Height         int
	EnableDevTools bool
	// ReadyEvent is wired into every page before it loads.
	ReadyEvent string
}

// Host implements port.WindowHost on a running gtk.Application. Every
// GTK call happens on the GTK thread; CreateWindow blocks its caller until
// the window exists.
type Host struct {
	app     *gtk.Application
	baseCtx context.Context

	mu   sync.RWMutex
	opts HostOptions

	live atomic.Int64
}

var _ port.WindowHost = (*Host)(nil)

// NewHost creates a host for app. ctx carries the logger used by GTK callbacks.
func NewHost(ctx context.Context, app *gtk.Application, opts HostOptions) *Host {
	return &Host{app: app, baseCtx: ctx, opts: opts}
}

// SetOptions changes the options used for windows created afterwards.
func (h *Host) SetOptions(opts HostOptions) {
	h.mu.Lock()
	h.opts = opts
	h.mu.Unlock()
}

// Options returns the current window options.
func (h *Host) Options() HostOptions {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.opts
}

// LiveWindows returns the number of windows not yet destroyed.
func (h *Host) LiveWindows() int {
	return int(h.live.Load())
}

const (
	createPending int32 = iota
	createTaken
	createAbandoned
)

// CreateWindow opens a window for spec and loads its target.
func (h *Host) CreateWindow(ctx context.Context, spec port.WindowSpec) (port.WindowHandle, error) {
	opts := h.Options()
	uri, err := bridge.ResolveTarget(opts.BaseURL, spec.Target)
	if err != nil {
		return nil, err
	}

	type result struct {
		handle *bridge.Handle
		err    error
	}
	var state atomic.Int32
	done := make(chan result, 1)

	glib.IdleAdd(func() bool {
		if !state.CompareAndSwap(createPending, createTaken) {
			return false
		}
		handle, err := h.buildWindow(spec, uri, opts)
		done <- result{handle: handle, err: err}
		return false
	})

	select {
	case res := <-done:
		if res.err != nil {
			return nil, res.err
		}
		return res.handle, nil
	case <-ctx.Done():
		if state.CompareAndSwap(createPending, createAbandoned) {
			return nil, fmt.Errorf("create window %s: %w", spec.Label, ctx.Err())
		}
		// The GTK thread already started; take what it builds.
		res := <-done
		if res.err != nil {
			return nil, res.err
		}
		return res.handle, nil
	}
}

// buildWindow runs on the GTK thread.
func (h *Host) buildWindow(spec port.WindowSpec, uri string, opts HostOptions) (*bridge.Handle, error) {
	log := logging.FromContext(h.baseCtx).With().
		Str("component", "window-host").
		Str("window_id", string(spec.Label)).
		Logger()

	if h.app == nil {
		return nil, fmt.Errorf("no GTK application to attach window %s to", spec.Label)
	}

	win := newWindow(h.app, spec.Label, opts)
	surface := newViewSurface(win.view, log)
	handle := bridge.NewHandle(spec.Label, surface, opts.ReadyEvent)
	surface.attach(handle)
	surface.injectBridge(opts.ReadyEvent)
	if opts.ReadyEvent != "" {
		surface.watch(opts.ReadyEvent)
	}

	h.live.Add(1)
	win.window.ConnectDestroy(func() {
		h.live.Add(-1)
		log.Debug().Msg("window destroyed")
		handle.MarkDestroyed()
	})

	win.load(uri)
	win.window.Present()

	log.Info().Str("uri", uri).Msg("window created")
	return handle, nil
}
