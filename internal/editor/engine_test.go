package editor

import (
	"errors"
	"io"
	"testing"

	"git.lost.host/meutraa/eote/internal/game"
	"git.lost.host/meutraa/eote/internal/timeline"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, d timeline.Division) *Engine {
	t.Helper()

	chart, err := game.NewChart("Song", "Artist", "song.ogg", 120)
	require.NoError(t, err)

	log := logrus.New()
	log.SetOutput(io.Discard)

	e, err := NewEngine(chart, game.DefaultSettings(), logrus.NewEntry(log))
	require.NoError(t, err)
	e.SetDivision(d)
	return e
}

func TestLongNoteNormalCase(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, timeline.None)

	out, err := e.BeginLong(0, 1000)
	require.NoError(t, err)
	assert.Equal(t, LongStarted, out)
	assert.Equal(t, Pending, e.LaneState(0))

	out, err = e.EndLong(0, 1200)
	require.NoError(t, err)
	assert.Equal(t, LongFinished, out)
	assert.Equal(t, Idle, e.LaneState(0))

	notes := e.Chart().Notes()
	require.Len(t, notes, 1)
	assert.Equal(t, game.Long, notes[0].Type)
	assert.Equal(t, 0, notes[0].Lane)
	assert.Equal(t, int64(1000), notes[0].Timestamp)
	assert.Equal(t, int64(200), notes[0].Duration)
}

func TestLongNoteUsesSnappedTimes(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, timeline.Sixteenth)

	_, err := e.BeginLong(1, 1010)
	require.NoError(t, err)
	_, err = e.EndLong(1, 1200)
	require.NoError(t, err)

	notes := e.Chart().Notes()
	require.Len(t, notes, 1)
	assert.Equal(t, int64(1000), notes[0].Timestamp)
	assert.Equal(t, int64(250), notes[0].Duration)
}

func TestShortLongNoteIsDiscarded(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, timeline.None)

	_, err := e.BeginLong(0, 1000)
	require.NoError(t, err)
	require.Equal(t, 1, e.Chart().Len())

	out, err := e.EndLong(0, 1030)
	require.NoError(t, err)
	assert.Equal(t, LongNoteDiscarded, out)
	assert.Equal(t, 0, e.Chart().Len())
	assert.Equal(t, Idle, e.LaneState(0))
}

func TestLongNoteAtThresholdIsKept(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, timeline.None)

	_, _ = e.BeginLong(2, 1000)
	out, err := e.EndLong(2, 1000+MinLongNoteDuration)
	require.NoError(t, err)
	assert.Equal(t, LongFinished, out)
	assert.Equal(t, 1, e.Chart().Len())
}

func TestReleaseBeforeStartIsDiscarded(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, timeline.None)

	_, _ = e.BeginLong(0, 1000)
	out, err := e.EndLong(0, 400)
	require.NoError(t, err)
	assert.Equal(t, LongNoteDiscarded, out)
	assert.Equal(t, 0, e.Chart().Len())
}

func TestReentrantBeginIsRejected(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, timeline.None)

	_, err := e.BeginLong(0, 1000)
	require.NoError(t, err)

	out, err := e.BeginLong(0, 1100)
	assert.True(t, errors.Is(err, game.ErrLaneAlreadyPending))
	assert.Equal(t, Rejected, out)

	notes := e.Chart().Notes()
	require.Len(t, notes, 1)
	assert.Equal(t, int64(1000), notes[0].Timestamp)
	assert.Equal(t, Pending, e.LaneState(0))

	pending, ok := e.PendingNote(0)
	require.True(t, ok)
	assert.Equal(t, notes[0].ID, pending.ID)
}

func TestLanesAreIndependent(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, timeline.None)

	_, err := e.BeginLong(0, 1000)
	require.NoError(t, err)
	_, err = e.BeginLong(1, 1100)
	require.NoError(t, err)
	_, err = e.PlaceNormal(2, 1050)
	require.NoError(t, err)

	_, err = e.EndLong(1, 1500)
	require.NoError(t, err)
	_, err = e.EndLong(0, 2000)
	require.NoError(t, err)

	notes := e.Chart().Notes()
	require.Len(t, notes, 3)
	assert.Equal(t, int64(1000), notes[0].Duration)
	assert.Equal(t, game.Normal, notes[1].Type)
	assert.Equal(t, int64(400), notes[2].Duration)
}

func TestEndLongOnIdleLane(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, timeline.None)

	out, err := e.EndLong(3, 1000)
	assert.True(t, errors.Is(err, game.ErrLaneNotPending))
	assert.Equal(t, Rejected, out)
	assert.False(t, e.Chart().Dirty())
}

func TestPlaceNormalOnPendingLaneIsRejected(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, timeline.None)

	_, _ = e.BeginLong(0, 1000)
	out, err := e.PlaceNormal(0, 1100)
	assert.True(t, errors.Is(err, game.ErrLaneAlreadyPending))
	assert.Equal(t, Rejected, out)
	assert.Equal(t, 1, e.Chart().Len())

	out, err = e.PlaceNormal(1, 1100)
	require.NoError(t, err)
	assert.Equal(t, Placed, out)
}

func TestPlaceNormalSnaps(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, timeline.Sixteenth)

	for _, raw := range []int64{130, 190, 0} {
		_, err := e.PlaceNormal(1, raw)
		require.NoError(t, err)
	}
	times := []int64{}
	for _, n := range e.Chart().Notes() {
		times = append(times, n.Timestamp)
	}
	assert.Equal(t, []int64{0, 125, 250}, times)
	assert.True(t, e.Chart().Dirty())
}

func TestInvalidInputLeavesChartUntouched(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, timeline.None)

	for _, ev := range []Event{
		{Kind: PlaceNormal, Lane: -1, Time: 100},
		{Kind: PlaceNormal, Lane: 4, Time: 100},
		{Kind: PlaceNormal, Lane: 0, Time: -100},
		{Kind: BeginLong, Lane: 9, Time: 100},
		{Kind: BeginLong, Lane: 0, Time: -1},
		{Kind: DeleteAt, Lane: 5, Time: 100, PixelTolerance: 10},
	} {
		out, err := e.Handle(ev)
		assert.True(t, errors.Is(err, game.ErrInvalidNote), "%+v", ev)
		assert.Equal(t, Rejected, out)
	}
	assert.Equal(t, 0, e.Chart().Len())
	assert.False(t, e.Chart().Dirty())
	assert.Equal(t, Idle, e.LaneState(0))
}

func TestDeleteAtNearest(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, timeline.None)
	for _, at := range []int64{1000, 1008, 1020} {
		_, err := e.PlaceNormal(0, at)
		require.NoError(t, err)
	}
	_, _ = e.PlaceNormal(1, 1006)

	// One pixel is one millisecond at the default zoom.
	out, err := e.DeleteAt(0, 1006, 10)
	require.NoError(t, err)
	assert.Equal(t, Deleted, out)

	times := []int64{}
	for _, n := range e.Chart().LaneNotes(0) {
		times = append(times, n.Timestamp)
	}
	assert.Equal(t, []int64{1000, 1020}, times)
	assert.Len(t, e.Chart().LaneNotes(1), 1)
}

func TestDeleteAtTieGoesToEarlierNote(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, timeline.None)
	_, _ = e.PlaceNormal(0, 1000)
	_, _ = e.PlaceNormal(0, 1010)

	out, err := e.DeleteAt(0, 1005, 10)
	require.NoError(t, err)
	assert.Equal(t, Deleted, out)

	notes := e.Chart().Notes()
	require.Len(t, notes, 1)
	assert.Equal(t, int64(1010), notes[0].Timestamp)
}

func TestDeleteAtOutsideToleranceIsNotFound(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, timeline.None)
	_, _ = e.PlaceNormal(0, 1000)
	e.Chart().MarkClean()

	out, err := e.DeleteAt(0, 1010, 10)
	require.NoError(t, err)
	assert.Equal(t, NotFound, out)

	out, err = e.DeleteAt(1, 1000, 10)
	require.NoError(t, err)
	assert.Equal(t, NotFound, out)

	assert.Equal(t, 1, e.Chart().Len())
	assert.False(t, e.Chart().Dirty())
}

func TestDeleteAtFollowsZoom(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, timeline.None)
	_, _ = e.PlaceNormal(0, 1000)

	// At zoom 0.5, 10 pixels cover 20ms.
	e.SetZoom(0.5)
	out, err := e.DeleteAt(0, 1015, 10)
	require.NoError(t, err)
	assert.Equal(t, Deleted, out)
}

func TestDeletingPendingNoteFreesLane(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, timeline.None)
	_, _ = e.BeginLong(0, 1000)

	out, err := e.DeleteAt(0, 1000, 5)
	require.NoError(t, err)
	assert.Equal(t, Deleted, out)
	assert.Equal(t, Idle, e.LaneState(0))

	_, err = e.BeginLong(0, 2000)
	assert.NoError(t, err)
}

func TestAbandonClearsPendingState(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, timeline.None)
	_, _ = e.BeginLong(0, 1000)
	_, _ = e.BeginLong(3, 1000)

	replacement, err := game.NewChart("Other", "", "", 90)
	require.NoError(t, err)
	e.Load(replacement)

	for lane := 0; lane < 4; lane++ {
		assert.Equal(t, Idle, e.LaneState(lane))
	}
	assert.Equal(t, 0, e.Chart().Len())

	_, err = e.EndLong(0, 2000)
	assert.True(t, errors.Is(err, game.ErrLaneNotPending))
}

func TestSetLaneCountResetsPending(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, timeline.None)
	_, _ = e.BeginLong(1, 1000)

	require.NoError(t, e.SetLaneCount(7))
	assert.Equal(t, Idle, e.LaneState(1))
	assert.Len(t, e.Settings().KeyBindings, 7)

	_, err := e.PlaceNormal(6, 500)
	assert.NoError(t, err)

	assert.True(t, errors.Is(e.SetLaneCount(12), game.ErrInvalidLaneCount))
	assert.Equal(t, 7, e.Settings().LaneCount)
}

func TestHandleDispatches(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, timeline.None)
	steps := []struct {
		event   Event
		outcome Outcome
	}{
		{Event{Kind: PlaceNormal, Lane: 0, Time: 0}, Placed},
		{Event{Kind: BeginLong, Lane: 1, Time: 500}, LongStarted},
		{Event{Kind: EndLong, Lane: 1, Time: 900}, LongFinished},
		{Event{Kind: DeleteAt, Lane: 0, Time: 3, PixelTolerance: 5}, Deleted},
		{Event{Kind: DeleteAt, Lane: 0, Time: 3, PixelTolerance: 5}, NotFound},
	}
	for _, step := range steps {
		out, err := e.Handle(step.event)
		require.NoError(t, err, step.event.Kind.String())
		assert.Equal(t, step.outcome, out, step.event.Kind.String())
	}

	_, err := e.Handle(Event{Kind: Kind(42)})
	assert.Error(t, err)
}
