package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"sync"

	"github.com/bnema/pipewin/internal/application/port"
	"github.com/bnema/pipewin/internal/domain/entity"
	"github.com/bnema/pipewin/internal/logging"
)

func testContext() context.Context {
	logger := logging.NewFromConfigValues("debug", "console", nil)
	return logging.WithContext(context.Background(), logger)
}

// capturingContext returns a context whose logger also writes JSON into buf.
func capturingContext(buf *bytes.Buffer) context.Context {
	logger := logging.NewFromConfigValues("debug", "console", buf)
	return logging.WithContext(context.Background(), logger)
}

type emitted struct {
	Event   string
	Payload string
}

type listener struct {
	event   string
	handler func()
}

// fakeWindow records subscriptions and emissions. Fire and Destroy call
// handlers synchronously, the way GUI callbacks arrive on the GUI thread.
type fakeWindow struct {
	mu        sync.Mutex
	label     entity.WindowID
	target    string
	nextID    port.ListenerID
	listeners map[port.ListenerID]listener
	onDestroy map[port.ListenerID]func()
	emits     []emitted
	destroyed bool
	listenErr error
	emitErr   error
}

func newFakeWindow(spec port.WindowSpec) *fakeWindow {
	return &fakeWindow{
		label:     spec.Label,
		target:    spec.Target,
		listeners: make(map[port.ListenerID]listener),
		onDestroy: make(map[port.ListenerID]func()),
	}
}

func (w *fakeWindow) Label() entity.WindowID { return w.label }

func (w *fakeWindow) Listen(event string, handler func()) (port.ListenerID, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.listenErr != nil {
		return 0, w.listenErr
	}
	w.nextID++
	w.listeners[w.nextID] = listener{event: event, handler: handler}
	return w.nextID, nil
}

func (w *fakeWindow) Unlisten(id port.ListenerID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.listeners, id)
}

func (w *fakeWindow) OnDestroyed(handler func()) port.ListenerID {
	w.mu.Lock()
	w.nextID++
	id := w.nextID
	if w.destroyed {
		w.mu.Unlock()
		handler()
		return id
	}
	w.onDestroy[id] = handler
	w.mu.Unlock()
	return id
}

func (w *fakeWindow) Emit(_ context.Context, event, payload string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.emitErr != nil {
		return w.emitErr
	}
	w.emits = append(w.emits, emitted{Event: event, Payload: payload})
	return nil
}

// Fire raises event from the window content.
func (w *fakeWindow) Fire(event string) {
	w.mu.Lock()
	var handlers []func()
	for _, l := range w.listeners {
		if l.event == event {
			handlers = append(handlers, l.handler)
		}
	}
	w.mu.Unlock()

	for _, h := range handlers {
		h()
	}
}

// Destroy tears the window down once.
func (w *fakeWindow) Destroy() {
	w.mu.Lock()
	if w.destroyed {
		w.mu.Unlock()
		return
	}
	w.destroyed = true
	handlers := w.onDestroy
	w.onDestroy = map[port.ListenerID]func(){}
	w.mu.Unlock()

	for _, h := range handlers {
		h()
	}
}

func (w *fakeWindow) Emits() []emitted {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]emitted(nil), w.emits...)
}

func (w *fakeWindow) ListenerCount(event string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	n := 0
	for _, l := range w.listeners {
		if l.event == event {
			n++
		}
	}
	return n
}

// fakeHost creates fakeWindows and remembers every creation request.
type fakeHost struct {
	mu        sync.Mutex
	created   []port.WindowSpec
	windows   map[entity.WindowID]*fakeWindow
	createErr error
	// configure runs on each new window before it is returned.
	configure func(*fakeWindow)
}

func newFakeHost() *fakeHost {
	return &fakeHost{windows: make(map[entity.WindowID]*fakeWindow)}
}

func (h *fakeHost) CreateWindow(_ context.Context, spec port.WindowSpec) (port.WindowHandle, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.createErr != nil {
		return nil, h.createErr
	}
	h.created = append(h.created, spec)
	w := newFakeWindow(spec)
	if h.configure != nil {
		h.configure(w)
	}
	h.windows[spec.Label] = w
	return w, nil
}

func (h *fakeHost) Created() []port.WindowSpec {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]port.WindowSpec(nil), h.created...)
}

func (h *fakeHost) Window(id entity.WindowID) *fakeWindow {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.windows[id]
}

var errBoom = errors.New("boom")
