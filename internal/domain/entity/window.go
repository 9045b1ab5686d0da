package entity

import (
	"errors"
	"fmt"
)

// WindowID is the key helpers use to address a window. It doubles as the
// window label in the GUI host.
type WindowID string

// ErrInvalidDirective is returned when a directive cannot be acted upon.
var ErrInvalidDirective = errors.New("invalid window directive")

// WindowDirective is the parsed helper answer for one command line.
type WindowDirective struct {
	WindowID WindowID
	// NavigationTarget is empty when the helper did not provide a url.
	NavigationTarget string
	// Payload is the helper stdout, verbatim.
	Payload string
}

// Validate rejects directives without a window id.
func (d WindowDirective) Validate() error {
	if d.WindowID == "" {
		return fmt.Errorf("%w: empty window id", ErrInvalidDirective)
	}
	return nil
}

// TargetOr returns the navigation target, or fallback when none was given.
func (d WindowDirective) TargetOr(fallback string) string {
	if d.NavigationTarget == "" {
		return fallback
	}
	return d.NavigationTarget
}

// WindowState is the lifecycle stage of a registered window.
type WindowState int

const (
	WindowCreated WindowState = iota
	WindowAwaitingReady
	WindowReadyDelivered
	WindowDestroyed
)

func (s WindowState) String() string {
	switch s {
	case WindowCreated:
		return "created"
	case WindowAwaitingReady:
		return "awaiting_ready"
	case WindowReadyDelivered:
		return "ready_delivered"
	case WindowDestroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// ErrInvalidTransition is returned for lifecycle moves the state machine forbids.
var ErrInvalidTransition = errors.New("invalid window state transition")

// WindowLifecycle tracks a window through
// Created -> AwaitingReady -> ReadyDelivered, with Destroyed reachable from
// any state and terminal. A delivered window goes back to AwaitingReady when a
// new directive re-arms it.
type WindowLifecycle struct {
	state      WindowState
	deliveries int
}

// NewWindowLifecycle starts a lifecycle in the Created state.
func NewWindowLifecycle() *WindowLifecycle {
	return &WindowLifecycle{state: WindowCreated}
}

func (l *WindowLifecycle) State() WindowState { return l.state }

// Deliveries counts payloads handed to the window so far.
func (l *WindowLifecycle) Deliveries() int { return l.deliveries }

// Mounted reports whether the window content signalled ready at least once.
func (l *WindowLifecycle) Mounted() bool { return l.deliveries > 0 }

// Arm waits for the next ready signal. It fails once the window is destroyed.
func (l *WindowLifecycle) Arm() error {
	switch l.state {
	case WindowCreated, WindowAwaitingReady, WindowReadyDelivered:
		l.state = WindowAwaitingReady
		return nil
	default:
		return fmt.Errorf("%w: arm from %s", ErrInvalidTransition, l.state)
	}
}

// Deliver records a payload handed over after a ready signal.
func (l *WindowLifecycle) Deliver() error {
	if l.state != WindowAwaitingReady {
		return fmt.Errorf("%w: deliver from %s", ErrInvalidTransition, l.state)
	}
	l.state = WindowReadyDelivered
	l.deliveries++
	return nil
}

// Destroy moves to the terminal state. It returns false when already destroyed.
func (l *WindowLifecycle) Destroy() bool {
	if l.state == WindowDestroyed {
		return false
	}
	l.state = WindowDestroyed
	return true
}
