package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/bnema/pipewin/internal/application/port"
	"github.com/bnema/pipewin/internal/domain/entity"
	"github.com/bnema/pipewin/internal/logging"
)

// PayloadEnvelope selects how the helper stdout is wrapped before emission.
type PayloadEnvelope string

const (
	EnvelopeRaw     PayloadEnvelope = "raw"
	EnvelopeMessage PayloadEnvelope = "message"
)

// OrchestratorOptions are the variation points of window orchestration.
type OrchestratorOptions struct {
	ReadyEvent    string
	PayloadEvent  string
	DefaultTarget string
	// DeliverWhenMounted emits right away to a window whose content already
	// signalled ready once, instead of waiting for another ready event.
	DeliverWhenMounted bool
	Envelope           PayloadEnvelope
}

// DefaultOrchestratorOptions returns the "mounted" / "cmd-args" contract.
func DefaultOrchestratorOptions() OrchestratorOptions {
	return OrchestratorOptions{
		ReadyEvent:    "mounted",
		PayloadEvent:  "cmd-args",
		DefaultTarget: "/",
		Envelope:      EnvelopeRaw,
	}
}

// OrchestrateResult describes what a directive did.
type OrchestrateResult struct {
	WindowID entity.WindowID
	Created  bool
	// DeliveredNow is set when the payload was emitted without waiting for ready.
	DeliveredNow bool
}

var errRecordGone = errors.New("window record destroyed")

// OrchestrateWindowUseCase creates or reuses windows and wires payload delivery.
//
// The registry mutex is never held while calling the window host: host calls
// may block on the GUI thread, and GUI callbacks take the same mutex.
type OrchestrateWindowUseCase struct {
	host     port.WindowHost
	registry *WindowRegistry

	optsMu sync.RWMutex
	opts   OrchestratorOptions

	// execMu serializes Execute so lookup-then-create is atomic per directive.
	execMu sync.Mutex
}

// NewOrchestrateWindowUseCase creates a new OrchestrateWindowUseCase.
func NewOrchestrateWindowUseCase(
	host port.WindowHost,
	registry *WindowRegistry,
	opts OrchestratorOptions,
) *OrchestrateWindowUseCase {
	return &OrchestrateWindowUseCase{
		host:     host,
		registry: registry,
		opts:     opts,
	}
}

// Options returns the options used for the next directive.
func (uc *OrchestrateWindowUseCase) Options() OrchestratorOptions {
	uc.optsMu.RLock()
	defer uc.optsMu.RUnlock()
	return uc.opts
}

// SetOptions replaces the options; armed subscriptions keep their old event names.
func (uc *OrchestrateWindowUseCase) SetOptions(opts OrchestratorOptions) {
	uc.optsMu.Lock()
	defer uc.optsMu.Unlock()
	uc.opts = opts
}

// Registry exposes the registry for inspection.
func (uc *OrchestrateWindowUseCase) Registry() *WindowRegistry {
	return uc.registry
}

// Execute applies a directive: it creates the window if its id is unknown,
// then arms a one-shot ready subscription carrying the payload. A newer
// directive replaces a subscription that has not fired yet.
func (uc *OrchestrateWindowUseCase) Execute(ctx context.Context, directive entity.WindowDirective) (*OrchestrateResult, error) {
	if err := directive.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	uc.execMu.Lock()
	defer uc.execMu.Unlock()

	opts := uc.Options()
	payload, err := wrapPayload(opts.Envelope, directive.Payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDelivery, err)
	}

	ctx = logging.WithWindowID(ctx, string(directive.WindowID))

	// A window destroyed between lookup and arming is recreated once.
	for attempt := 0; attempt < 2; attempt++ {
		rec, created, err := uc.ensureWindow(ctx, directive, opts)
		if err != nil {
			return nil, err
		}

		deliveredNow, err := uc.armReady(ctx, rec, payload, opts)
		if errors.Is(err, errRecordGone) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return &OrchestrateResult{
			WindowID:     directive.WindowID,
			Created:      created,
			DeliveredNow: deliveredNow,
		}, nil
	}
	return nil, fmt.Errorf("%w: window %s destroyed while arming", ErrDelivery, directive.WindowID)
}

func (uc *OrchestrateWindowUseCase) ensureWindow(
	ctx context.Context,
	directive entity.WindowDirective,
	opts OrchestratorOptions,
) (*WindowRecord, bool, error) {
	log := logging.FromContext(ctx)

	if rec, ok := uc.registry.lookup(directive.WindowID); ok {
		log.Debug().Msg("reusing window")
		return rec, false, nil
	}

	spec := port.WindowSpec{
		Label:  directive.WindowID,
		Target: directive.TargetOr(opts.DefaultTarget),
	}
	handle, err := uc.host.CreateWindow(ctx, spec)
	if err == nil && handle == nil {
		err = errors.New("host returned no window")
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s: %w", ErrWindowCreation, directive.WindowID, err)
	}

	rec := uc.registry.insert(newWindowRecord(directive.WindowID, handle))

	cbCtx := context.WithoutCancel(ctx)
	destroyListener := handle.OnDestroyed(func() { uc.handleDestroyed(cbCtx, rec) })

	uc.registry.mu.Lock()
	rec.destroyListener = destroyListener
	uc.registry.mu.Unlock()

	log.Info().Str("target", spec.Target).Msg("window created")
	return rec, true, nil
}

func (uc *OrchestrateWindowUseCase) armReady(
	ctx context.Context,
	rec *WindowRecord,
	payload string,
	opts OrchestratorOptions,
) (bool, error) {
	reg := uc.registry

	reg.mu.Lock()
	if rec.lifecycle.State() == entity.WindowDestroyed {
		reg.mu.Unlock()
		return false, errRecordGone
	}
	var previousID port.ListenerID
	if rec.ready != nil {
		previousID = rec.ready.id
	}
	rec.ready = nil

	immediate := opts.DeliverWhenMounted && rec.lifecycle.Mounted()
	_ = rec.lifecycle.Arm()

	var sub *readySubscription
	if immediate {
		_ = rec.lifecycle.Deliver()
	} else {
		sub = &readySubscription{payload: payload}
		rec.ready = sub
	}
	reg.mu.Unlock()

	if previousID != 0 {
		rec.Handle.Unlisten(previousID)
		logging.FromContext(ctx).Debug().Msg("replaced pending payload")
	}

	if immediate {
		if err := rec.Handle.Emit(ctx, opts.PayloadEvent, payload); err != nil {
			return false, fmt.Errorf("%w: %w", ErrDelivery, err)
		}
		logging.FromContext(ctx).Info().Str("event", opts.PayloadEvent).Msg("payload delivered to mounted window")
		return true, nil
	}

	cbCtx := context.WithoutCancel(ctx)
	payloadEvent := opts.PayloadEvent
	id, err := rec.Handle.Listen(opts.ReadyEvent, func() { uc.handleReady(cbCtx, rec, sub, payloadEvent) })
	if err != nil {
		reg.mu.Lock()
		if rec.ready == sub {
			rec.ready = nil
		}
		reg.mu.Unlock()
		return false, fmt.Errorf("%w: subscribe %q: %w", ErrDelivery, opts.ReadyEvent, err)
	}

	reg.mu.Lock()
	sub.id = id
	// Fired, superseded or destroyed before Listen returned.
	stale := sub.fired || rec.ready != sub
	reg.mu.Unlock()

	if stale {
		rec.Handle.Unlisten(id)
	}
	return false, nil
}

// handleReady runs on the GUI thread when the window content signals ready.
func (uc *OrchestrateWindowUseCase) handleReady(ctx context.Context, rec *WindowRecord, sub *readySubscription, event string) {
	reg := uc.registry

	reg.mu.Lock()
	if sub.fired || rec.ready != sub {
		reg.mu.Unlock()
		return
	}
	sub.fired = true
	rec.ready = nil
	_ = rec.lifecycle.Deliver()
	id := sub.id
	reg.mu.Unlock()

	if id != 0 {
		rec.Handle.Unlisten(id)
	}

	log := logging.FromContext(ctx)
	if err := rec.Handle.Emit(ctx, event, sub.payload); err != nil {
		log.Warn().Err(err).Str("event", event).Msg("failed to deliver payload")
		return
	}
	log.Info().Str("event", event).Msg("payload delivered")
}

// handleDestroyed runs on the GUI thread once the window is torn down.
func (uc *OrchestrateWindowUseCase) handleDestroyed(ctx context.Context, rec *WindowRecord) {
	reg := uc.registry

	reg.mu.Lock()
	if !rec.lifecycle.Destroy() {
		reg.mu.Unlock()
		return
	}
	var readyID port.ListenerID
	if rec.ready != nil && !rec.ready.fired {
		readyID = rec.ready.id
	}
	rec.ready = nil
	removed := reg.removeLocked(rec)
	reg.mu.Unlock()

	if readyID != 0 {
		rec.Handle.Unlisten(readyID)
	}
	logging.FromContext(ctx).Info().Bool("removed", removed).Msg("window destroyed")
}

func wrapPayload(envelope PayloadEnvelope, raw string) (string, error) {
	if envelope != EnvelopeMessage {
		return raw, nil
	}
	data, err := json.Marshal(struct {
		Message string `json:"message"`
	}{Message: raw})
	if err != nil {
		return "", err
	}
	return string(data), nil
}
