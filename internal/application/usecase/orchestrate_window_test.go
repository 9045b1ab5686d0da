package usecase_test

import (
	"sync"
	"testing"

	"github.com/bnema/pipewin/internal/application/port"
	"github.com/bnema/pipewin/internal/application/usecase"
	"github.com/bnema/pipewin/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrchestrator(host port.WindowHost) *usecase.OrchestrateWindowUseCase {
	return usecase.NewOrchestrateWindowUseCase(host, usecase.NewWindowRegistry(), usecase.DefaultOrchestratorOptions())
}

func directive(id, target, payload string) entity.WindowDirective {
	return entity.WindowDirective{WindowID: entity.WindowID(id), NavigationTarget: target, Payload: payload}
}

func TestOrchestrate_FreshIDCreatesOneWindow(t *testing.T) {
	ctx := testContext()
	host := newFakeHost()
	uc := newOrchestrator(host)

	res, err := uc.Execute(ctx, directive("w1", "/foo", "p1"))

	require.NoError(t, err)
	assert.True(t, res.Created)
	require.Len(t, host.Created(), 1)
	assert.Equal(t, port.WindowSpec{Label: "w1", Target: "/foo"}, host.Created()[0])
	assert.Equal(t, 1, uc.Registry().Len())
	assert.True(t, uc.Registry().Contains("w1"))
}

func TestOrchestrate_DefaultTarget(t *testing.T) {
	ctx := testContext()
	host := newFakeHost()
	uc := newOrchestrator(host)

	_, err := uc.Execute(ctx, directive("w1", "", "p1"))

	require.NoError(t, err)
	assert.Equal(t, "/", host.Created()[0].Target)
}

func TestOrchestrate_RepeatedIDReusesWindow(t *testing.T) {
	ctx := testContext()
	host := newFakeHost()
	uc := newOrchestrator(host)

	first, err := uc.Execute(ctx, directive("w2", "/a", "p1"))
	require.NoError(t, err)
	second, err := uc.Execute(ctx, directive("w2", "/b", "p2"))
	require.NoError(t, err)

	assert.True(t, first.Created)
	assert.False(t, second.Created)
	assert.Len(t, host.Created(), 1)
	assert.Equal(t, 1, uc.Registry().Len())
}

func TestOrchestrate_MountedDeliversPayloadOnce(t *testing.T) {
	ctx := testContext()
	host := newFakeHost()
	uc := newOrchestrator(host)

	_, err := uc.Execute(ctx, directive("w1", "/foo", `{"config":{"id":"w1"}}`))
	require.NoError(t, err)
	w := host.Window("w1")

	w.Fire("mounted")
	w.Fire("mounted")

	assert.Equal(t, []emitted{{Event: "cmd-args", Payload: `{"config":{"id":"w1"}}`}}, w.Emits())
	assert.Equal(t, 0, w.ListenerCount("mounted"))

	snap, ok := uc.Registry().Snapshot("w1")
	require.True(t, ok)
	assert.Equal(t, entity.WindowReadyDelivered, snap.State)
	assert.Equal(t, 1, snap.Deliveries)
	assert.False(t, snap.ReadyArmed)
}

func TestOrchestrate_NoEmitBeforeMounted(t *testing.T) {
	ctx := testContext()
	host := newFakeHost()
	uc := newOrchestrator(host)

	_, err := uc.Execute(ctx, directive("w1", "", "p1"))
	require.NoError(t, err)

	w := host.Window("w1")
	w.Fire("other-event")
	assert.Empty(t, w.Emits())

	snap, _ := uc.Registry().Snapshot("w1")
	assert.Equal(t, entity.WindowAwaitingReady, snap.State)
	assert.True(t, snap.ReadyArmed)
}

func TestOrchestrate_LatestDirectiveWins(t *testing.T) {
	ctx := testContext()
	host := newFakeHost()
	uc := newOrchestrator(host)

	_, err := uc.Execute(ctx, directive("w2", "", "first"))
	require.NoError(t, err)
	_, err = uc.Execute(ctx, directive("w2", "", "second"))
	require.NoError(t, err)

	w := host.Window("w2")
	assert.Equal(t, 1, w.ListenerCount("mounted"))

	w.Fire("mounted")
	assert.Equal(t, []emitted{{Event: "cmd-args", Payload: "second"}}, w.Emits())
}

func TestOrchestrate_ReArmAfterDelivery(t *testing.T) {
	ctx := testContext()
	host := newFakeHost()
	uc := newOrchestrator(host)

	_, err := uc.Execute(ctx, directive("w1", "", "first"))
	require.NoError(t, err)
	w := host.Window("w1")
	w.Fire("mounted")

	_, err = uc.Execute(ctx, directive("w1", "", "second"))
	require.NoError(t, err)
	assert.Len(t, w.Emits(), 1)

	w.Fire("mounted")
	assert.Equal(t, []emitted{
		{Event: "cmd-args", Payload: "first"},
		{Event: "cmd-args", Payload: "second"},
	}, w.Emits())
}

func TestOrchestrate_DeliverWhenMounted(t *testing.T) {
	ctx := testContext()
	host := newFakeHost()
	opts := usecase.DefaultOrchestratorOptions()
	opts.DeliverWhenMounted = true
	uc := usecase.NewOrchestrateWindowUseCase(host, usecase.NewWindowRegistry(), opts)

	res, err := uc.Execute(ctx, directive("w1", "", "first"))
	require.NoError(t, err)
	assert.False(t, res.DeliveredNow)
	w := host.Window("w1")
	w.Fire("mounted")

	res, err = uc.Execute(ctx, directive("w1", "", "second"))
	require.NoError(t, err)
	assert.True(t, res.DeliveredNow)
	assert.Equal(t, 0, w.ListenerCount("mounted"))
	assert.Equal(t, []emitted{
		{Event: "cmd-args", Payload: "first"},
		{Event: "cmd-args", Payload: "second"},
	}, w.Emits())
}

func TestOrchestrate_MessageEnvelope(t *testing.T) {
	ctx := testContext()
	host := newFakeHost()
	opts := usecase.DefaultOrchestratorOptions()
	opts.Envelope = usecase.EnvelopeMessage
	uc := usecase.NewOrchestrateWindowUseCase(host, usecase.NewWindowRegistry(), opts)

	_, err := uc.Execute(ctx, directive("w1", "", `{"a":"b"}`))
	require.NoError(t, err)
	host.Window("w1").Fire("mounted")

	assert.Equal(t, []emitted{{Event: "cmd-args", Payload: `{"message":"{\"a\":\"b\"}"}`}}, host.Window("w1").Emits())
}

func TestOrchestrate_DestroyRemovesRecord(t *testing.T) {
	tests := []struct {
		name         string
		mountedFirst bool
	}{
		{name: "before ready", mountedFirst: false},
		{name: "after ready", mountedFirst: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext()
			host := newFakeHost()
			uc := newOrchestrator(host)

			_, err := uc.Execute(ctx, directive("w1", "", "p"))
			require.NoError(t, err)
			w := host.Window("w1")
			if tt.mountedFirst {
				w.Fire("mounted")
			}

			w.Destroy()

			assert.False(t, uc.Registry().Contains("w1"))
			assert.Equal(t, 0, uc.Registry().Len())
			assert.Equal(t, 0, w.ListenerCount("mounted"))
		})
	}
}

func TestOrchestrate_ReadyAfterRemovalIsNoop(t *testing.T) {
	ctx := testContext()
	host := newFakeHost()
	var captured func()
	uc := newOrchestrator(host)

	_, err := uc.Execute(ctx, directive("w1", "", "p"))
	require.NoError(t, err)
	w := host.Window("w1")

	// Keep a reference to the ready handler so it can be invoked after teardown.
	w.mu.Lock()
	for _, l := range w.listeners {
		if l.event == "mounted" {
			captured = l.handler
		}
	}
	w.mu.Unlock()
	require.NotNil(t, captured)

	w.Destroy()
	captured()

	assert.Empty(t, w.Emits())
	assert.False(t, uc.Registry().Contains("w1"))
}

func TestOrchestrate_RecreatesAfterDestroy(t *testing.T) {
	ctx := testContext()
	host := newFakeHost()
	uc := newOrchestrator(host)

	_, err := uc.Execute(ctx, directive("w1", "", "p1"))
	require.NoError(t, err)
	old := host.Window("w1")

	old.mu.Lock()
	var staleHandlers []func()
	for _, h := range old.onDestroy {
		staleHandlers = append(staleHandlers, h)
	}
	old.mu.Unlock()
	old.Destroy()

	res, err := uc.Execute(ctx, directive("w1", "", "p2"))
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Len(t, host.Created(), 2)

	// A late duplicate destroy of the old window must not remove the new record.
	for _, h := range staleHandlers {
		h()
	}
	assert.True(t, uc.Registry().Contains("w1"))
}

func TestOrchestrate_CreationFailureLeavesRegistryUnchanged(t *testing.T) {
	ctx := testContext()
	host := newFakeHost()
	host.createErr = errBoom
	uc := newOrchestrator(host)

	_, err := uc.Execute(ctx, directive("w1", "", "p"))

	require.ErrorIs(t, err, usecase.ErrWindowCreation)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 0, uc.Registry().Len())
}

func TestOrchestrate_ListenFailure(t *testing.T) {
	ctx := testContext()
	host := newFakeHost()
	host.configure = func(w *fakeWindow) { w.listenErr = errBoom }
	uc := newOrchestrator(host)

	_, err := uc.Execute(ctx, directive("w1", "", "p"))

	require.ErrorIs(t, err, usecase.ErrDelivery)
	snap, ok := uc.Registry().Snapshot("w1")
	require.True(t, ok)
	assert.False(t, snap.ReadyArmed)
}

func TestOrchestrate_WindowAlreadyGoneIsRecreated(t *testing.T) {
	ctx := testContext()
	host := newFakeHost()
	calls := 0
	host.configure = func(w *fakeWindow) {
		calls++
		if calls == 1 {
			// First window dies before the destroy subscription is attached.
			w.destroyed = true
		}
	}
	uc := newOrchestrator(host)

	res, err := uc.Execute(ctx, directive("w1", "", "p"))

	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Len(t, host.Created(), 2)
	assert.True(t, uc.Registry().Contains("w1"))
}

func TestOrchestrate_EmptyIDRejected(t *testing.T) {
	ctx := testContext()
	host := newFakeHost()
	uc := newOrchestrator(host)

	_, err := uc.Execute(ctx, entity.WindowDirective{Payload: "x"})

	require.ErrorIs(t, err, usecase.ErrMalformedResponse)
	assert.Empty(t, host.Created())
}

func TestWindowRegistry_IDsSorted(t *testing.T) {
	ctx := testContext()
	host := newFakeHost()
	uc := newOrchestrator(host)

	for _, id := range []string{"c", "a", "b"} {
		_, err := uc.Execute(ctx, directive(id, "", "p"))
		require.NoError(t, err)
	}

	assert.Equal(t, []entity.WindowID{"a", "b", "c"}, uc.Registry().IDs())
}

func TestOrchestrate_ConcurrentExecuteFireDestroy(t *testing.T) {
	for i := 0; i < 200; i++ {
		ctx := testContext()
		host := newFakeHost()
		var windows []*fakeWindow
		host.configure = func(w *fakeWindow) { windows = append(windows, w) }
		uc := newOrchestrator(host)

		_, err := uc.Execute(ctx, directive("w1", "/a", "p1"))
		require.NoError(t, err)
		first := host.Window("w1")

		var wg sync.WaitGroup
		wg.Add(3)
		go func() {
			defer wg.Done()
			_, _ = uc.Execute(ctx, directive("w1", "/b", "p2"))
		}()
		go func() {
			defer wg.Done()
			first.Fire("mounted")
			first.Fire("mounted")
		}()
		go func() {
			defer wg.Done()
			first.Destroy()
		}()
		wg.Wait()

		delivered := map[string]int{}
		for _, w := range windows {
			for _, e := range w.Emits() {
				assert.Equal(t, "cmd-args", e.Event)
				delivered[e.Payload]++
			}
		}
		for payload, n := range delivered {
			assert.LessOrEqual(t, n, 1, "payload %s delivered more than once", payload)
		}

		switch len(host.Created()) {
		case 1:
			assert.False(t, uc.Registry().Contains("w1"), "destroyed window left in registry")
		case 2:
			assert.True(t, uc.Registry().Contains("w1"), "recreated window missing from registry")
		default:
			t.Fatalf("unexpected creation count %d", len(host.Created()))
		}
	}
}
