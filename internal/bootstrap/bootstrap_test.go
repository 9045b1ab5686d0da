package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/bnema/pipewin/internal/application/port"
	"github.com/bnema/pipewin/internal/application/usecase"
	"github.com/bnema/pipewin/internal/domain/entity"
	"github.com/bnema/pipewin/internal/infrastructure/config"
	"github.com/bnema/pipewin/internal/infrastructure/pipe"
	"github.com/bnema/pipewin/internal/infrastructure/webkit/bridge"
	"github.com/bnema/pipewin/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext() context.Context {
	return logging.WithContext(context.Background(), logging.NewFromConfigValues("debug", "console", nil))
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Pipe.Path = filepath.Join(dir, "run", "pipewin")
	cfg.Pipe.ControlPath = config.ControlPathFor(cfg.Pipe.Path)
	cfg.Journal.Path = filepath.Join(dir, "data", "journal.db")
	cfg.Logging.LogDir = filepath.Join(dir, "logs")
	return cfg
}

type recordingSurface struct {
	mu      sync.Mutex
	scripts []string
}

func (s *recordingSurface) WatchEvent(string) {}

func (s *recordingSurface) Evaluate(script string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scripts = append(s.scripts, script)
}

func (s *recordingSurface) Scripts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.scripts...)
}

// bridgeHost hands out real bridge handles backed by recording surfaces.
type bridgeHost struct {
	mu       sync.Mutex
	specs    []port.WindowSpec
	handles  map[entity.WindowID]*bridge.Handle
	surfaces map[entity.WindowID]*recordingSurface
}

func newBridgeHost() *bridgeHost {
	return &bridgeHost{
		handles:  make(map[entity.WindowID]*bridge.Handle),
		surfaces: make(map[entity.WindowID]*recordingSurface),
	}
}

func (h *bridgeHost) CreateWindow(_ context.Context, spec port.WindowSpec) (port.WindowHandle, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	surface := &recordingSurface{}
	handle := bridge.NewHandle(spec.Label, surface, "mounted")
	h.specs = append(h.specs, spec)
	h.handles[spec.Label] = handle
	h.surfaces[spec.Label] = surface
	return handle, nil
}

func (h *bridgeHost) Specs() []port.WindowSpec {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]port.WindowSpec(nil), h.specs...)
}

func (h *bridgeHost) Window(id entity.WindowID) (*bridge.Handle, *recordingSurface) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.handles[id], h.surfaces[id]
}

func writeHelper(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "helper.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func TestStartupTimer(t *testing.T) {
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	timer := newStartupTimer(func() time.Time { return clock })

	clock = clock.Add(10 * time.Millisecond)
	timer.Mark("config")
	clock = clock.Add(5 * time.Millisecond)
	timer.Mark("logger")
	timer.MarkDuration("prepare", 42*time.Millisecond)
	timer.Mark("config")

	d, ok := timer.Phase("logger")
	require.True(t, ok)
	assert.Equal(t, 5*time.Millisecond, d)

	d, _ = timer.Phase("config")
	assert.Equal(t, time.Duration(0), d)
	assert.Equal(t, []string{"config", "logger", "prepare"}, timer.Phases())
	assert.Equal(t, 15*time.Millisecond, timer.Total())

	timer.Log(testContext())
}

func TestNewLogger_FileOutput(t *testing.T) {
	cfg := config.DefaultConfig().Logging
	cfg.LogDir = t.TempDir()
	cfg.EnableFileLog = true
	cfg.Format = "json"

	logger, cleanup, err := NewLogger(cfg, "20250101_000000_beef")
	require.NoError(t, err)
	logger.Info().Msg("hello file")
	cleanup()

	data, err := os.ReadFile(filepath.Join(cfg.LogDir, "pipewin.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"hello file"`)
	assert.Contains(t, string(data), `"run_id":"beef"`)
}

func TestNewLogger_UnwritableDirFallsBack(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	cfg := config.DefaultConfig().Logging
	cfg.LogDir = filepath.Join(blocker, "logs")
	cfg.EnableFileLog = true

	_, cleanup, err := NewLogger(cfg, "")
	assert.Error(t, err)
	require.NotNil(t, cleanup)
	cleanup()
}

func TestPrepare_CreatesFIFOLockAndJournal(t *testing.T) {
	cfg := testConfig(t)

	res, err := Prepare(testContext(), cfg)
	require.NoError(t, err)

	assert.True(t, pipe.IsFIFO(cfg.Pipe.Path))
	require.NotNil(t, res.Lock)
	assert.FileExists(t, pipe.LockPathFor(cfg.Pipe.Path))
	require.NotNil(t, res.Journal)
	assert.FileExists(t, cfg.Journal.Path)

	_, err = Prepare(testContext(), cfg)
	assert.ErrorIs(t, err, pipe.ErrAlreadyRunning)

	require.NoError(t, res.Close())
	require.NoError(t, res.Close())
	assert.NoFileExists(t, pipe.LockPathFor(cfg.Pipe.Path))

	again, err := Prepare(testContext(), cfg)
	require.NoError(t, err)
	require.NoError(t, again.Close())
}

func TestPrepare_JournalDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Journal.Enabled = false

	res, err := Prepare(testContext(), cfg)
	require.NoError(t, err)
	defer res.Close()

	assert.Nil(t, res.DB)
	assert.Nil(t, res.Journal)
	assert.NoFileExists(t, cfg.Journal.Path)
}

func TestPrepare_PathIsNotFIFO(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(cfg.Pipe.Path), 0o755))
	require.NoError(t, os.WriteFile(cfg.Pipe.Path, []byte("regular"), 0o600))

	res, err := Prepare(testContext(), cfg)

	assert.Nil(t, res)
	assert.ErrorIs(t, err, pipe.ErrNotFIFO)
	assert.NoFileExists(t, pipe.LockPathFor(cfg.Pipe.Path))
}

func TestOptionMapping(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Pipe.InvalidUTF8 = config.InvalidUTF8Replace
	cfg.Pipe.MaxLineBytes = 64
	cfg.Helper.Args = []string{"--json"}
	cfg.Orchestrator.ReadyEvent = "ready"
	cfg.Orchestrator.PayloadEnvelope = config.PayloadEnvelopeMessage
	cfg.Orchestrator.DeliverWhenMounted = true

	src := SourceOptions(cfg.Pipe)
	assert.Equal(t, pipe.PolicyReplace, src.Policy)
	assert.Equal(t, 64, src.MaxLineBytes)

	h := HelperOptions(cfg.Helper)
	assert.Equal(t, cfg.Helper.Command, h.Command)
	assert.Equal(t, []string{"--json"}, h.Args)
	assert.Equal(t, 30*time.Second, h.Timeout)

	o := OrchestratorOptions(cfg.Orchestrator)
	assert.Equal(t, "ready", o.ReadyEvent)
	assert.Equal(t, "cmd-args", o.PayloadEvent)
	assert.Equal(t, "/", o.DefaultTarget)
	assert.True(t, o.DeliverWhenMounted)
	assert.Equal(t, usecase.EnvelopeMessage, o.Envelope)

	empty := OrchestratorOptions(config.OrchestratorConfig{})
	assert.Equal(t, usecase.DefaultOrchestratorOptions(), empty)
}

func TestPipeline_ApplyConfig(t *testing.T) {
	cfg := testConfig(t)
	p := NewPipeline(cfg, nil, newBridgeHost())

	next := *cfg
	next.Helper.Command = "/usr/bin/other"
	next.Helper.Timeout = time.Second
	next.Pipe.InvalidUTF8 = config.InvalidUTF8Replace
	next.Orchestrator.PayloadEvent = "payload"

	p.ApplyConfig(testContext(), &next)

	assert.Equal(t, "/usr/bin/other", p.Runner.Options().Command)
	assert.Equal(t, time.Second, p.Runner.Options().Timeout)
	assert.Equal(t, pipe.PolicyReplace, p.Source.Policy())
	assert.Equal(t, "payload", p.Orchestrate.Options().PayloadEvent)
}

func TestPipeline_EndToEnd(t *testing.T) {
	cfg := testConfig(t)
	cfg.Helper.Command = writeHelper(t, `
case "$1" in
  open) printf '{"config":{"id":"w1"},"url":"/%s"}' "$2" ;;
  *) echo "unknown command" >&2 ;;
esac`)

	ctx := testContext()
	res, err := Prepare(ctx, cfg)
	require.NoError(t, err)
	defer res.Close()

	host := newBridgeHost()
	p := NewPipeline(cfg, res, host)

	go func() {
		w, err := os.OpenFile(cfg.Pipe.Path, os.O_WRONLY, 0)
		if err != nil {
			return
		}
		_, _ = w.WriteString("open foo\nbad\nopen foo\n")
		_ = w.Close()
	}()

	require.NoError(t, p.Listener.Run(ctx))

	stats := p.Listener.Stats()
	assert.Equal(t, int64(3), stats.Received)
	assert.Equal(t, int64(1), stats.Created)
	assert.Equal(t, int64(1), stats.Reused)
	assert.Equal(t, int64(1), stats.HelperErrors)

	require.Equal(t, []port.WindowSpec{{Label: "w1", Target: "/foo"}}, host.Specs())
	assert.True(t, p.Registry.Contains("w1"))

	handle, surface := host.Window("w1")
	assert.Equal(t, 1, handle.Dispatch("mounted"))
	assert.Equal(t, 0, handle.Dispatch("mounted"))
	scripts := surface.Scripts()
	require.Len(t, scripts, 1)
	assert.Contains(t, scripts[0], `"cmd-args"`)
	assert.Contains(t, scripts[0], `\"url\":\"/foo\"`)

	records, err := res.Journal.Recent(ctx, 10, "")
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, entity.OutcomeReused, records[0].Outcome)
	assert.Equal(t, entity.OutcomeHelperReported, records[1].Outcome)
	assert.Contains(t, records[1].Detail, "unknown command")
	assert.Equal(t, entity.OutcomeCreated, records[2].Outcome)
	assert.Equal(t, entity.WindowID("w1"), records[2].WindowID)

	handle.MarkDestroyed()
	assert.False(t, p.Registry.Contains("w1"))
}
