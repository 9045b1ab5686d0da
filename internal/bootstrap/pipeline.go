package bootstrap

import (
	"context"

	"github.com/bnema/pipewin/internal/app/control"
	"github.com/bnema/pipewin/internal/application/port"
	"github.com/bnema/pipewin/internal/application/usecase"
	"github.com/bnema/pipewin/internal/domain/repository"
	"github.com/bnema/pipewin/internal/infrastructure/config"
	"github.com/bnema/pipewin/internal/infrastructure/helper"
	"github.com/bnema/pipewin/internal/infrastructure/pipe"
	"github.com/bnema/pipewin/internal/logging"
)

// Pipeline is the command path from the FIFO to the window host.
type Pipeline struct {
	Source   *pipe.LineSource
	Control  *pipe.ControlWriter
	Runner   *helper.Runner
	Registry *usecase.WindowRegistry

	Dispatch    *usecase.DispatchCommandUseCase
	Orchestrate *usecase.OrchestrateWindowUseCase
	Process     *usecase.ProcessCommandUseCase
	Notify      *usecase.NotifyShutdownUseCase

	Listener *control.Listener
}

// NewPipeline wires the use cases around host. res may be nil, in which
// case nothing is journaled.
func NewPipeline(cfg *config.Config, res *Resources, host port.WindowHost) *Pipeline {
	p := &Pipeline{
		Source:   pipe.NewLineSource(cfg.Pipe.Path, SourceOptions(cfg.Pipe)),
		Control:  pipe.NewControlWriter(cfg.Pipe.ControlPath),
		Runner:   helper.NewRunner(HelperOptions(cfg.Helper)),
		Registry: usecase.NewWindowRegistry(),
	}

	p.Dispatch = usecase.NewDispatchCommandUseCase(p.Runner)
	p.Orchestrate = usecase.NewOrchestrateWindowUseCase(host, p.Registry, OrchestratorOptions(cfg.Orchestrator))

	var (
		journal repository.CommandJournal
		keep    int
	)
	if res != nil && res.Journal != nil {
		journal, keep = res.Journal, cfg.Journal.MaxEntries
	}
	p.Process = usecase.NewProcessCommandUseCase(p.Dispatch, p.Orchestrate, journal, keep)

	p.Notify = usecase.NewNotifyShutdownUseCase(p.Control)
	p.Listener = control.NewListener(p.Source, p.Process)
	return p
}

// ApplyConfig pushes reloadable settings into the running pipeline. The
// pipe path, control path and journal location need a restart.
func (p *Pipeline) ApplyConfig(ctx context.Context, cfg *config.Config) {
	p.Runner.SetOptions(HelperOptions(cfg.Helper))
	p.Source.SetPolicy(pipe.Policy(cfg.Pipe.InvalidUTF8))
	p.Orchestrate.SetOptions(OrchestratorOptions(cfg.Orchestrator))

	logging.FromContext(ctx).Info().
		Str("helper", cfg.Helper.Command).
		Dur("helper_timeout", cfg.Helper.Timeout).
		Str("invalid_utf8", string(cfg.Pipe.InvalidUTF8)).
		Msg("configuration reloaded")
}

// SourceOptions maps the pipe section onto the line source.
func SourceOptions(cfg config.PipeConfig) pipe.SourceOptions {
	return pipe.SourceOptions{
		Policy:       pipe.Policy(cfg.InvalidUTF8),
		ReopenOnEOF:  cfg.ReopenOnEOF,
		MaxLineBytes: cfg.MaxLineBytes,
	}
}

// HelperOptions maps the helper section onto the runner.
func HelperOptions(cfg config.HelperConfig) helper.Options {
	return helper.Options{
		Command: cfg.Command,
		Args:    cfg.Args,
		WorkDir: cfg.WorkDir,
		Timeout: cfg.Timeout,
	}
}

// OrchestratorOptions maps the orchestrator section onto the use case.
func OrchestratorOptions(cfg config.OrchestratorConfig) usecase.OrchestratorOptions {
	opts := usecase.DefaultOrchestratorOptions()
	if cfg.ReadyEvent != "" {
		opts.ReadyEvent = cfg.ReadyEvent
	}
	if cfg.PayloadEvent != "" {
		opts.PayloadEvent = cfg.PayloadEvent
	}
	if cfg.DefaultTarget != "" {
		opts.DefaultTarget = cfg.DefaultTarget
	}
	opts.DeliverWhenMounted = cfg.DeliverWhenMounted
	if cfg.PayloadEnvelope == config.PayloadEnvelopeMessage {
		opts.Envelope = usecase.EnvelopeMessage
	}
	return opts
}
