package bridge

import (
	"context"
	"sort"
	"sync"

	"github.com/bnema/pipewin/internal/application/port"
	"github.com/bnema/pipewin/internal/domain/entity"
)

// Surface is the GUI side of a window. Both calls must return without
// waiting for the GUI thread; implementations queue the work.
type Surface interface {
	// WatchEvent makes page emits of name reach Handle.Dispatch.
	WatchEvent(name string)
	// Evaluate runs script in the page.
	Evaluate(script string)
}

type listener struct {
	event   string
	handler func()
}

// Handle implements port.WindowHandle on top of a Surface. The GUI layer
// calls Dispatch when the page emits an event and MarkDestroyed when the
// window goes away.
type Handle struct {
	label   entity.WindowID
	surface Surface

	mu        sync.Mutex
	nextID    port.ListenerID
	listeners map[port.ListenerID]listener
	onDestroy map[port.ListenerID]func()
	watched   map[string]bool
	destroyed bool
}

var _ port.WindowHandle = (*Handle)(nil)

// NewHandle creates a handle for the window label. Events in watched are
// assumed to be wired by the surface already.
func NewHandle(label entity.WindowID, surface Surface, watched ...string) *Handle {
	h := &Handle{
		label:     label,
		surface:   surface,
		listeners: make(map[port.ListenerID]listener),
		onDestroy: make(map[port.ListenerID]func()),
		watched:   make(map[string]bool),
	}
	for _, ev := range watched {
		h.watched[ev] = true
	}
	return h
}

func (h *Handle) Label() entity.WindowID { return h.label }

// Listen subscribes handler to event until Unlisten or destruction.
func (h *Handle) Listen(event string, handler func()) (port.ListenerID, error) {
	h.mu.Lock()
	if h.destroyed {
		h.mu.Unlock()
		return 0, port.ErrWindowGone
	}
	h.nextID++
	id := h.nextID
	h.listeners[id] = listener{event: event, handler: handler}
	watch := !h.watched[event]
	h.watched[event] = true
	h.mu.Unlock()

	if watch {
		h.surface.WatchEvent(event)
	}
	return id, nil
}

// Unlisten removes a subscription. Unknown ids are ignored.
func (h *Handle) Unlisten(id port.ListenerID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.listeners, id)
	delete(h.onDestroy, id)
}

// OnDestroyed registers handler for window destruction. If the window is
// already gone the handler runs before OnDestroyed returns.
func (h *Handle) OnDestroyed(handler func()) port.ListenerID {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	if h.destroyed {
		h.mu.Unlock()
		handler()
		return id
	}
	h.onDestroy[id] = handler
	h.mu.Unlock()
	return id
}

// Emit queues a CustomEvent dispatch in the page.
func (h *Handle) Emit(ctx context.Context, event, payload string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	script, err := EmitScript(event, payload)
	if err != nil {
		return err
	}

	h.mu.Lock()
	gone := h.destroyed
	h.mu.Unlock()
	if gone {
		return port.ErrWindowGone
	}

	h.surface.Evaluate(script)
	return nil
}

// Dispatch runs the handlers subscribed to event, in subscription order.
// Handlers run without the handle lock held and may call back into it.
func (h *Handle) Dispatch(event string) int {
	h.mu.Lock()
	if h.destroyed {
		h.mu.Unlock()
		return 0
	}
	ids := make([]port.ListenerID, 0, len(h.listeners))
	for id, l := range h.listeners {
		if l.event == event {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	handlers := make([]func(), 0, len(ids))
	for _, id := range ids {
		handlers = append(handlers, h.listeners[id].handler)
	}
	h.mu.Unlock()

	for _, fn := range handlers {
		fn()
	}
	return len(handlers)
}

// MarkDestroyed flips the handle to destroyed and runs destroy handlers once.
func (h *Handle) MarkDestroyed() {
	h.mu.Lock()
	if h.destroyed {
		h.mu.Unlock()
		return
	}
	h.destroyed = true
	ids := make([]port.ListenerID, 0, len(h.onDestroy))
	for id := range h.onDestroy {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	handlers := make([]func(), 0, len(ids))
	for _, id := range ids {
		handlers = append(handlers, h.onDestroy[id])
	}
	h.onDestroy = make(map[port.ListenerID]func())
	h.listeners = make(map[port.ListenerID]listener)
	h.mu.Unlock()

	for _, fn := range handlers {
		fn()
	}
}

// Destroyed reports whether the window is gone.
func (h *Handle) Destroyed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.destroyed
}

// ListenerCount returns the number of live subscriptions for event.
func (h *Handle) ListenerCount(event string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, l := range h.listeners {
		if l.event == event {
			n++
		}
	}
	return n
}
