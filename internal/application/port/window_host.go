// Package port defines application-layer interfaces for external capabilities.
// Ports abstract infrastructure concerns, allowing the application layer to
// remain independent of specific implementations (GTK, WebKit, FIFOs, exec).
package port

import (
	"context"
	"errors"

	"github.com/bnema/pipewin/internal/domain/entity"
)

// ListenerID identifies a subscription on a window handle.
type ListenerID uint64

// ErrWindowGone is returned by handle operations after the window was destroyed.
var ErrWindowGone = errors.New("window destroyed")

// WindowSpec describes a window to create.
type WindowSpec struct {
	Label entity.WindowID
	// Target is a navigation target, either absolute or relative to the host base URL.
	Target string
}

// WindowHost creates windows. Implementations must be safe to call from any goroutine.
type WindowHost interface {
	CreateWindow(ctx context.Context, spec WindowSpec) (WindowHandle, error)
}

// WindowHandle is the orchestrator's view of a live window.
// Handlers run on the GUI thread and must not block.
type WindowHandle interface {
	Label() entity.WindowID

	// Listen subscribes to a named event raised by the window content.
	Listen(event string, handler func()) (ListenerID, error)
	// Unlisten is a no-op for unknown or already removed ids.
	Unlisten(id ListenerID)

	// OnDestroyed runs handler once when the window is torn down.
	OnDestroyed(handler func()) ListenerID

	// Emit delivers a named event with a string payload to the window content.
	Emit(ctx context.Context, event, payload string) error
}
