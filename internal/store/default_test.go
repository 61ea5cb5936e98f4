package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"git.lost.host/meutraa/eote/internal/game"
	"git.lost.host/meutraa/eote/internal/testdata"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"
)

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func openTestStore(t *testing.T) (*DefaultStore, *testingclock.FakeClock) {
	t.Helper()
	cl := testingclock.NewFakeClock(epoch)
	s, err := Open(filepath.Join(t.TempDir(), "revisions.db"), cl)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, cl
}

func TestOpenCreatesDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "revisions.db")

	for i := 0; i < 2; i++ {
		s, err := Open(path, nil)
		require.NoError(t, err)
		require.NoError(t, s.Close())
	}

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestSaveAndRestore(t *testing.T) {
	s, _ := openTestStore(t)
	chart, err := testdata.GetChart()
	require.NoError(t, err)

	rev, err := s.Save(chart)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, rev.ID)
	assert.Equal(t, epoch, rev.Created)
	assert.Equal(t, chart.Len(), rev.Notes)
	assert.Equal(t, Sum(chart), rev.Sum)

	restored, err := s.Restore(rev.ID)
	require.NoError(t, err)
	assert.Equal(t, chart.Title(), restored.Title())
	assert.Equal(t, chart.TempoMap(), restored.TempoMap())
	require.Equal(t, chart.Len(), restored.Len())
	for i, n := range restored.Notes() {
		want := chart.Notes()[i]
		assert.Equal(t, want.Timestamp, n.Timestamp)
		assert.Equal(t, want.Lane, n.Lane)
		assert.Equal(t, want.Duration, n.Duration)
	}
	assert.False(t, restored.Dirty())
}

func TestHistoryNewestFirst(t *testing.T) {
	s, cl := openTestStore(t)
	chart, err := testdata.GetChart()
	require.NoError(t, err)

	first, err := s.Save(chart)
	require.NoError(t, err)

	cl.Step(time.Minute)
	_, err = chart.Insert(game.Note{Lane: 1, Timestamp: 6000})
	require.NoError(t, err)
	second, err := s.Save(chart)
	require.NoError(t, err)

	other, err := game.NewChart("Other Song", "", "", 90)
	require.NoError(t, err)
	_, err = s.Save(other)
	require.NoError(t, err)

	history, err := s.History(chart)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, second.ID, history[0].ID)
	assert.Equal(t, first.ID, history[1].ID)
	assert.Equal(t, first.Notes+1, history[0].Notes)
	assert.Equal(t, epoch.Add(time.Minute), history[0].Created)

	latest, ok, err := s.Latest(chart)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, second.ID, latest.ID)
}

func TestLatestWithoutRevisions(t *testing.T) {
	s, _ := openTestStore(t)
	chart, err := game.NewChart("Nothing Saved", "", "", 120)
	require.NoError(t, err)

	_, ok, err := s.Latest(chart)
	require.NoError(t, err)
	assert.False(t, ok)

	history, err := s.History(chart)
	require.NoError(t, err)
	assert.Empty(t, history)

	_, err = s.Restore(uuid.New())
	assert.Error(t, err)
}
