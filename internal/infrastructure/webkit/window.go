package webkit

import (
	"context"
	"fmt"

	"github.com/bnema/pipewin/internal/domain/entity"
	"github.com/bnema/pipewin/internal/infrastructure/webkit/bridge"
	webkit "github.com/diamondburned/gotk4-webkitgtk/pkg/webkit/v6"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"github.com/rs/zerolog"
)

// window is one top-level GTK window holding a single web view.
type window struct {
	window *gtk.ApplicationWindow
	view   *webkit.WebView
}

func newWindow(app *gtk.Application, label entity.WindowID, opts HostOptions) *window {
	win := gtk.NewApplicationWindow(app)
	win.SetTitle(windowTitle(opts.Title, label))
	if opts.Width > 0 && opts.Height > 0 {
		win.SetDefaultSize(opts.Width, opts.Height)
	}

	view := webkit.NewWebView()
	if settings := view.Settings(); settings != nil {
		settings.SetEnableJavascript(true)
		settings.SetEnableDeveloperExtras(opts.EnableDevTools)
	}
	view.SetHExpand(true)
	view.SetVExpand(true)
	win.SetChild(view)

	return &window{window: win, view: view}
}

func (w *window) load(uri string) {
	w.view.LoadURI(uri)
}

func windowTitle(title string, label entity.WindowID) string {
	if title == "" {
		return string(label)
	}
	return fmt.Sprintf("%s - %s", title, label)
}

// viewSurface implements bridge.Surface for a web view. Public methods may
// be called from any goroutine and queue their work on the GTK thread.
type viewSurface struct {
	view   *webkit.WebView
	ucm    *webkit.UserContentManager
	handle *bridge.Handle
	log    zerolog.Logger
}

func newViewSurface(view *webkit.WebView, log zerolog.Logger) *viewSurface {
	return &viewSurface{view: view, ucm: view.UserContentManager(), log: log}
}

func (s *viewSurface) attach(h *bridge.Handle) {
	s.handle = h
}

// injectBridge adds the page-side helper before any page script runs.
func (s *viewSurface) injectBridge(events ...string) {
	if s.ucm == nil {
		s.log.Warn().Msg("user content manager unavailable, page bridge not injected")
		return
	}
	s.ucm.AddScript(webkit.NewUserScript(
		bridge.UserScript(events...),
		webkit.UserContentInjectTopFrame,
		webkit.UserScriptInjectAtDocumentStart,
		nil,
		nil,
	))
}

func (s *viewSurface) WatchEvent(name string) {
	glib.IdleAdd(func() bool {
		s.watch(name)
		return false
	})
}

// watch runs on the GTK thread. The signal is connected before the
// handler is registered so no message is lost in between.
func (s *viewSurface) watch(name string) {
	if s.ucm == nil {
		return
	}
	s.ucm.Connect("script-message-received::"+name, func() {
		s.log.Debug().Str("event", name).Msg("page event")
		s.handle.Dispatch(name)
	})
	if !s.ucm.RegisterScriptMessageHandler(name, "") {
		s.log.Warn().Str("event", name).Msg("failed to register script message handler")
	}
}

func (s *viewSurface) Evaluate(script string) {
	glib.IdleAdd(func() bool {
		if s.handle != nil && s.handle.Destroyed() {
			return false
		}
		s.view.EvaluateJavascript(context.Background(), script, -1, "", "", nil)
		return false
	})
}
