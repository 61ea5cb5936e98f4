package editor

import "fmt"

type Kind int

const (
	PlaceNormal Kind = iota
	BeginLong
	EndLong
	DeleteAt
)

var kindNames = [...]string{"place-normal", "begin-long", "end-long", "delete-at"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Event is one discrete input from the host. Time is the raw, unsnapped time
// in ms. PixelTolerance is only used by DeleteAt.
type Event struct {
	Kind           Kind
	Lane           int
	Time           int64
	PixelTolerance float64
}

// Outcome describes what an event did to the chart.
type Outcome int

const (
	Rejected Outcome = iota
	Placed
	LongStarted
	LongFinished
	// LongNoteDiscarded means a long note was released too soon and removed.
	LongNoteDiscarded
	Deleted
	NotFound
)

var outcomeNames = [...]string{"rejected", "placed", "long-started", "long-finished", "long-discarded", "deleted", "not-found"}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
	return outcomeNames[o]
}

// LaneState is the long note state of one lane.
type LaneState int

const (
	Idle LaneState = iota
	Pending
)

func (s LaneState) String() string {
	if s == Pending {
		return "pending"
	}
	return "idle"
}
