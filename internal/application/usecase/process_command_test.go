package usecase_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/bnema/pipewin/internal/application/port"
	"github.com/bnema/pipewin/internal/application/port/mocks"
	"github.com/bnema/pipewin/internal/application/usecase"
	"github.com/bnema/pipewin/internal/domain/entity"
	repomocks "github.com/bnema/pipewin/internal/domain/repository/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type pipeline struct {
	runner  *mocks.MockHelperRunner
	host    *fakeHost
	orch    *usecase.OrchestrateWindowUseCase
	process *usecase.ProcessCommandUseCase
}

func newPipeline(t *testing.T, journal *repomocks.MockCommandJournal, keep int) *pipeline {
	t.Helper()
	runner := mocks.NewMockHelperRunner(t)
	host := newFakeHost()
	orch := newOrchestrator(host)

	p := &pipeline{runner: runner, host: host, orch: orch}
	if journal == nil {
		p.process = usecase.NewProcessCommandUseCase(usecase.NewDispatchCommandUseCase(runner), orch, nil, 0)
	} else {
		p.process = usecase.NewProcessCommandUseCase(usecase.NewDispatchCommandUseCase(runner), orch, journal, keep)
	}
	return p
}

func stdout(s string) port.HelperResult {
	return port.HelperResult{Stdout: []byte(s)}
}

func TestProcessCommand_OpenFooScenario(t *testing.T) {
	ctx := testContext()
	p := newPipeline(t, nil, 0)

	response := `{"config":{"id":"w1"},"url":"/foo"}`
	p.runner.EXPECT().Invoke(mock.Anything, []string{"open", "foo"}).Return(stdout(response), nil).Once()

	out, err := p.process.Execute(ctx, "open foo")

	require.NoError(t, err)
	assert.Equal(t, entity.OutcomeCreated, out.Outcome)
	assert.Equal(t, entity.WindowID("w1"), out.WindowID)
	assert.NotEmpty(t, out.CommandID)
	require.Len(t, p.host.Created(), 1)
	assert.Equal(t, port.WindowSpec{Label: "w1", Target: "/foo"}, p.host.Created()[0])

	p.host.Window("w1").Fire("mounted")
	assert.Equal(t, []emitted{{Event: "cmd-args", Payload: response}}, p.host.Window("w1").Emits())
}

func TestProcessCommand_HelperStderrScenario(t *testing.T) {
	var logs bytes.Buffer
	ctx := capturingContext(&logs)
	p := newPipeline(t, nil, 0)

	p.runner.EXPECT().Invoke(mock.Anything, []string{"bad"}).
		Return(port.HelperResult{Stderr: []byte("unknown command"), ExitCode: 1}, nil).Once()

	out, err := p.process.Execute(ctx, "bad")

	require.ErrorIs(t, err, usecase.ErrHelperReported)
	assert.Equal(t, entity.OutcomeHelperReported, out.Outcome)
	assert.Empty(t, p.host.Created())
	assert.Equal(t, 0, p.orch.Registry().Len())
	assert.Contains(t, logs.String(), "unknown command")
}

func TestProcessCommand_TwoLinesSameWindowScenario(t *testing.T) {
	ctx := testContext()
	p := newPipeline(t, nil, 0)

	p.runner.EXPECT().Invoke(mock.Anything, []string{"show", "a"}).
		Return(stdout(`{"config":{"id":"w2"}}`), nil).Once()
	p.runner.EXPECT().Invoke(mock.Anything, []string{"show", "b"}).
		Return(stdout(`{"config":{"id":"w2"},"url":"/b"}`), nil).Once()

	first, err := p.process.Execute(ctx, "show a")
	require.NoError(t, err)
	second, err := p.process.Execute(ctx, "show b")
	require.NoError(t, err)

	assert.Equal(t, entity.OutcomeCreated, first.Outcome)
	assert.Equal(t, entity.OutcomeReused, second.Outcome)
	assert.Len(t, p.host.Created(), 1)
	assert.Equal(t, 1, p.host.Window("w2").ListenerCount("mounted"))
}

func TestProcessCommand_MalformedAndSpawnFailuresContinue(t *testing.T) {
	ctx := testContext()
	p := newPipeline(t, nil, 0)

	p.runner.EXPECT().Invoke(mock.Anything, []string{"one"}).Return(stdout(`{"url":"/x"}`), nil).Once()
	p.runner.EXPECT().Invoke(mock.Anything, []string{"two"}).Return(port.HelperResult{}, port.ErrHelperStart).Once()
	p.runner.EXPECT().Invoke(mock.Anything, []string{"three"}).Return(stdout(`{"config":{"id":"w3"}}`), nil).Once()

	out, err := p.process.Execute(ctx, "one")
	require.ErrorIs(t, err, usecase.ErrMalformedResponse)
	assert.Equal(t, entity.OutcomeMalformed, out.Outcome)

	out, err = p.process.Execute(ctx, "two")
	require.ErrorIs(t, err, usecase.ErrSpawnFailed)
	assert.Equal(t, entity.OutcomeSpawnFailed, out.Outcome)

	out, err = p.process.Execute(ctx, "three")
	require.NoError(t, err)
	assert.Equal(t, entity.OutcomeCreated, out.Outcome)
}

func TestProcessCommand_JournalsOutcome(t *testing.T) {
	ctx := testContext()
	ctrl := gomock.NewController(t)
	journal := repomocks.NewMockCommandJournal(ctrl)
	p := newPipeline(t, journal, 10)

	p.runner.EXPECT().Invoke(mock.Anything, []string{"open", "x"}).
		Return(stdout(`{"config":{"id":"wx"}}`), nil).Once()

	journal.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, rec *entity.CommandRecord) error {
			assert.Equal(t, "open x", rec.Line)
			assert.Equal(t, entity.WindowID("wx"), rec.WindowID)
			assert.Equal(t, entity.OutcomeCreated, rec.Outcome)
			assert.Empty(t, rec.Detail)
			assert.NoError(t, rec.Validate())
			return nil
		})

	_, err := p.process.Execute(ctx, "open x")
	require.NoError(t, err)
}

func TestProcessCommand_JournalFailureIsIgnored(t *testing.T) {
	ctx := testContext()
	ctrl := gomock.NewController(t)
	journal := repomocks.NewMockCommandJournal(ctrl)
	p := newPipeline(t, journal, 10)

	p.runner.EXPECT().Invoke(mock.Anything, mock.Anything).Return(stdout(`{"config":{"id":"w1"}}`), nil).Once()
	journal.EXPECT().Record(gomock.Any(), gomock.Any()).Return(errBoom)

	out, err := p.process.Execute(ctx, "open")
	require.NoError(t, err)
	assert.Equal(t, entity.OutcomeCreated, out.Outcome)
}

func TestProcessCommand_PrunesPeriodically(t *testing.T) {
	ctx := testContext()
	ctrl := gomock.NewController(t)
	journal := repomocks.NewMockCommandJournal(ctrl)
	p := newPipeline(t, journal, 50)

	p.runner.EXPECT().Invoke(mock.Anything, mock.Anything).Return(stdout(`{"config":{"id":"w1"}}`), nil).Times(100)
	journal.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil).Times(100)
	journal.EXPECT().Prune(gomock.Any(), 50).Return(int64(50), nil).Times(1)

	for i := 0; i < 100; i++ {
		_, err := p.process.Execute(ctx, "again")
		require.NoError(t, err)
	}
}

func TestProcessCommand_RecordDropped(t *testing.T) {
	ctx := testContext()
	ctrl := gomock.NewController(t)
	journal := repomocks.NewMockCommandJournal(ctrl)
	p := newPipeline(t, journal, 0)

	journal.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, rec *entity.CommandRecord) error {
			assert.Equal(t, entity.OutcomeDropped, rec.Outcome)
			assert.Contains(t, rec.Detail, "UTF-8")
			return nil
		})

	p.process.RecordDropped(ctx, port.ErrInvalidEncoding)
}
