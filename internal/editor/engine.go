package editor

import (
	"fmt"
	"math"

	"git.lost.host/meutraa/eote/internal/game"
	"git.lost.host/meutraa/eote/internal/timeline"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// MinLongNoteDuration is the shortest long note kept. Anything shorter is
// treated as an accidental tap and removed.
const MinLongNoteDuration = 50

// Engine applies editing events to a chart. It holds no rendering state and
// is driven one event at a time from the host's update tick.
type Engine struct {
	chart    *game.Chart
	settings *game.GameSettings
	division timeline.Division
	view     timeline.Viewport

	// pending holds the long note in progress on each lane, uuid.Nil if idle.
	pending []uuid.UUID

	log *logrus.Entry
}

func NewEngine(chart *game.Chart, settings *game.GameSettings, log *logrus.Entry) (*Engine, error) {
	if err := settings.Validate(); nil != err {
		return nil, fmt.Errorf("unable to use settings: %w", err)
	}
	return &Engine{
		chart:    chart,
		settings: settings,
		division: timeline.Sixteenth,
		view:     timeline.NewViewport(1000, float64(settings.LaneCount)),
		pending:  make([]uuid.UUID, settings.LaneCount),
		log:      log,
	}, nil
}

func (e *Engine) Chart() *game.Chart                { return e.chart }
func (e *Engine) Settings() *game.GameSettings      { return e.settings }
func (e *Engine) Division() timeline.Division       { return e.division }
func (e *Engine) Viewport() timeline.Viewport       { return e.view }
func (e *Engine) SetDivision(d timeline.Division)   { e.division = d }
func (e *Engine) SetPlayhead(ms int64)              { e.view.Playhead = ms }
func (e *Engine) SetZoom(z float64)                 { e.view.Zoom = timeline.ClampZoom(z) }
func (e *Engine) SetViewport(v timeline.Viewport)   { v.Zoom = timeline.ClampZoom(v.Zoom); e.view = v }
func (e *Engine) Snap(t int64) (int64, error)       { return timeline.Snap(t, e.division, e.chart.TempoMap()) }
func (e *Engine) LaneState(lane int) LaneState      { return e.state(lane) }
func (e *Engine) pendingID(lane int) uuid.UUID      { return e.pending[lane] }
func (e *Engine) setPending(lane int, id uuid.UUID) { e.pending[lane] = id }

func (e *Engine) state(lane int) LaneState {
	if lane < 0 || lane >= len(e.pending) || e.pending[lane] == uuid.Nil {
		return Idle
	}
	return Pending
}

// PendingNote returns the long note in progress on a lane.
func (e *Engine) PendingNote(lane int) (game.Note, bool) {
	if e.state(lane) != Pending {
		return game.Note{}, false
	}
	return e.chart.Note(e.pendingID(lane))
}

// SetLaneCount changes the number of lanes. Long notes in progress are
// abandoned.
func (e *Engine) SetLaneCount(n int) error {
	if err := e.settings.SetLaneCount(n); nil != err {
		return err
	}
	e.pending = make([]uuid.UUID, n)
	return nil
}

// Load replaces the chart being edited, abandoning any long notes in progress.
func (e *Engine) Load(chart *game.Chart) {
	e.chart = chart
	e.Abandon()
}

// Abandon forgets every long note in progress without finishing it.
func (e *Engine) Abandon() {
	e.pending = make([]uuid.UUID, e.settings.LaneCount)
}

func (e *Engine) Handle(ev Event) (Outcome, error) {
	switch ev.Kind {
	case PlaceNormal:
		return e.PlaceNormal(ev.Lane, ev.Time)
	case BeginLong:
		return e.BeginLong(ev.Lane, ev.Time)
	case EndLong:
		return e.EndLong(ev.Lane, ev.Time)
	case DeleteAt:
		return e.DeleteAt(ev.Lane, ev.Time, ev.PixelTolerance)
	}
	return Rejected, fmt.Errorf("unknown event kind %v", ev.Kind)
}

func (e *Engine) checkLane(lane int) error {
	if lane < 0 || lane >= e.settings.LaneCount {
		return fmt.Errorf("%w: lane %d outside of %d lanes", game.ErrInvalidNote, lane, e.settings.LaneCount)
	}
	return nil
}

func (e *Engine) reject(kind Kind, lane int, t int64, err error) (Outcome, error) {
	e.log.WithFields(logrus.Fields{
		"event": kind.String(),
		"lane":  lane,
		"time":  t,
	}).WithError(err).Debug("event rejected")
	return Rejected, err
}

// PlaceNormal adds a normal note at the snapped time. A lane holding a long
// note in progress does not accept normal notes.
func (e *Engine) PlaceNormal(lane int, t int64) (Outcome, error) {
	if err := e.checkLane(lane); nil != err {
		return e.reject(PlaceNormal, lane, t, err)
	}
	if e.state(lane) == Pending {
		return e.reject(PlaceNormal, lane, t, fmt.Errorf("unable to place note: %w", game.ErrLaneAlreadyPending))
	}
	at, err := e.Snap(t)
	if nil != err {
		return e.reject(PlaceNormal, lane, t, err)
	}
	if _, err := e.chart.Insert(game.Note{Type: game.Normal, Lane: lane, Timestamp: at}); nil != err {
		return e.reject(PlaceNormal, lane, t, err)
	}
	return Placed, nil
}

// BeginLong starts a long note of zero length at the snapped time.
func (e *Engine) BeginLong(lane int, t int64) (Outcome, error) {
	if err := e.checkLane(lane); nil != err {
		return e.reject(BeginLong, lane, t, err)
	}
	if e.state(lane) == Pending {
		return e.reject(BeginLong, lane, t, fmt.Errorf("unable to begin long note: %w", game.ErrLaneAlreadyPending))
	}
	at, err := e.Snap(t)
	if nil != err {
		return e.reject(BeginLong, lane, t, err)
	}
	id, err := e.chart.Insert(game.Note{Type: game.Long, Lane: lane, Timestamp: at})
	if nil != err {
		return e.reject(BeginLong, lane, t, err)
	}
	e.setPending(lane, id)
	return LongStarted, nil
}

// EndLong finishes the long note in progress on a lane. Notes shorter than
// MinLongNoteDuration are removed and reported as LongNoteDiscarded.
func (e *Engine) EndLong(lane int, t int64) (Outcome, error) {
	if err := e.checkLane(lane); nil != err {
		return e.reject(EndLong, lane, t, err)
	}
	if e.state(lane) != Pending {
		return e.reject(EndLong, lane, t, fmt.Errorf("unable to end long note: %w", game.ErrLaneNotPending))
	}
	at, err := e.Snap(t)
	if nil != err {
		return e.reject(EndLong, lane, t, err)
	}
	id := e.pendingID(lane)
	note, ok := e.chart.Note(id)
	if !ok {
		e.setPending(lane, uuid.Nil)
		return e.reject(EndLong, lane, t, fmt.Errorf("unable to end long note: %w", game.ErrLaneNotPending))
	}

	duration := at - note.Timestamp
	if duration < MinLongNoteDuration {
		e.chart.Remove(id)
		e.setPending(lane, uuid.Nil)
		e.log.WithFields(logrus.Fields{
			"lane":     lane,
			"time":     note.Timestamp,
			"duration": duration,
		}).Debug("long note too short, discarded")
		return LongNoteDiscarded, nil
	}
	if err := e.chart.SetDuration(id, duration); nil != err {
		return e.reject(EndLong, lane, t, err)
	}
	e.setPending(lane, uuid.Nil)
	return LongFinished, nil
}

// DeleteAt removes the note on a lane closest to t, if one lies closer than
// pixelTolerance at the current zoom. Equal distances go to the earlier note
// in chart order. Finding nothing is not an error.
func (e *Engine) DeleteAt(lane int, t int64, pixelTolerance float64) (Outcome, error) {
	if err := e.checkLane(lane); nil != err {
		return e.reject(DeleteAt, lane, t, err)
	}
	tolerance := e.view.ToleranceMs(pixelTolerance)

	var closest *game.Note
	best := math.Inf(1)
	for _, n := range e.chart.LaneNotes(lane) {
		d := math.Abs(float64(n.Timestamp - t))
		if d < tolerance && d < best {
			n := n
			closest = &n
			best = d
		}
	}
	if nil == closest {
		return NotFound, nil
	}

	e.chart.Remove(closest.ID)
	if e.pendingID(lane) == closest.ID {
		e.setPending(lane, uuid.Nil)
	}
	return Deleted, nil
}
