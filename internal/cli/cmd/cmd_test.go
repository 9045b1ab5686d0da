package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/bnema/pipewin/internal/cli/styles"
	"github.com/bnema/pipewin/internal/domain/build"
	"github.com/bnema/pipewin/internal/domain/entity"
	"github.com/bnema/pipewin/internal/infrastructure/pipe"
)

func TestSendCommand_DeliversLineToReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipewin")
	require.NoError(t, pipe.EnsureFIFO(path))

	reader, err := os.OpenFile(path, os.O_RDONLY|unix.O_NONBLOCK, 0)
	require.NoError(t, err)
	defer reader.Close()

	require.NoError(t, sendCommand(context.Background(), path, "open settings", true, time.Second))

	buf := make([]byte, 64)
	n, err := reader.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "open settings\n", string(buf[:n]))
}

func TestSendCommand_NoWaitWithoutReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipewin")
	require.NoError(t, pipe.EnsureFIFO(path))

	err := sendCommand(context.Background(), path, "open settings", false, time.Second)
	assert.ErrorIs(t, err, pipe.ErrNoReader)
}

func TestSendCommand_TimesOutWaitingForReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipewin")
	require.NoError(t, pipe.EnsureFIFO(path))

	err := sendCommand(context.Background(), path, "open settings", true, 50*time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSendCommand_RejectsRegularFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	err := sendCommand(context.Background(), path, "open", false, 0)
	assert.ErrorIs(t, err, pipe.ErrNotFIFO)
}

func TestParseOutcome(t *testing.T) {
	got, err := parseOutcome("")
	require.NoError(t, err)
	assert.Equal(t, entity.CommandOutcome(""), got)

	got, err = parseOutcome(" Timeout ")
	require.NoError(t, err)
	assert.Equal(t, entity.OutcomeTimeout, got)

	_, err = parseOutcome("exploded")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "helper_reported")
}

type fakeJournal struct {
	limit   int
	outcome entity.CommandOutcome
	records []*entity.CommandRecord
	counts  map[entity.CommandOutcome]int64
}

func (f *fakeJournal) Recent(_ context.Context, limit int, outcome entity.CommandOutcome) ([]*entity.CommandRecord, error) {
	f.limit = limit
	f.outcome = outcome
	return f.records, nil
}

func (f *fakeJournal) CountByOutcome(_ context.Context) (map[entity.CommandOutcome]int64, error) {
	return f.counts, nil
}

func setJournalFlags(t *testing.T, limit int, outcome string, stats bool) {
	t.Helper()
	prevLimit, prevOutcome, prevStats := journalLimit, journalOutcome, journalStats
	journalLimit, journalOutcome, journalStats = limit, outcome, stats
	t.Cleanup(func() {
		journalLimit, journalOutcome, journalStats = prevLimit, prevOutcome, prevStats
	})
}

func TestShowJournal_Recent(t *testing.T) {
	setJournalFlags(t, 5, "created", false)
	journal := &fakeJournal{records: []*entity.CommandRecord{
		{ReceivedAt: time.Now(), Line: "open foo", WindowID: "w1", Outcome: entity.OutcomeCreated},
	}}

	var out bytes.Buffer
	require.NoError(t, showJournal(context.Background(), &out, journal, styles.NewJournalRenderer(styles.NewTheme())))

	assert.Equal(t, 5, journal.limit)
	assert.Equal(t, entity.OutcomeCreated, journal.outcome)
	assert.Contains(t, out.String(), "open foo")
}

func TestShowJournal_Stats(t *testing.T) {
	setJournalFlags(t, 5, "", true)
	journal := &fakeJournal{counts: map[entity.CommandOutcome]int64{entity.OutcomeReused: 3}}

	var out bytes.Buffer
	require.NoError(t, showJournal(context.Background(), &out, journal, styles.NewJournalRenderer(styles.NewTheme())))

	assert.Contains(t, out.String(), "3 commands")
	assert.Zero(t, journal.limit)
}

func TestShowJournal_InvalidFlags(t *testing.T) {
	r := styles.NewJournalRenderer(styles.NewTheme())

	setJournalFlags(t, 0, "", false)
	assert.Error(t, showJournal(context.Background(), &bytes.Buffer{}, &fakeJournal{}, r))

	setJournalFlags(t, 10, "nope", false)
	assert.Error(t, showJournal(context.Background(), &bytes.Buffer{}, &fakeJournal{}, r))
}

func TestVersionCommand_Short(t *testing.T) {
	prev := buildInfo
	t.Cleanup(func() { buildInfo = prev; versionShort = false })
	SetBuildInfo(build.Info{Version: "v0.3.0"})
	versionShort = true

	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)

	assert.Equal(t, "pipewin v0.3.0\n", out.String())
}
