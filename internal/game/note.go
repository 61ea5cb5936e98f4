package game

import (
	"fmt"

	"github.com/google/uuid"
)

type NoteType int

const (
	Normal NoteType = iota
	Long
)

func (t NoteType) String() string {
	switch t {
	case Normal:
		return "normal"
	case Long:
		return "long"
	}
	return fmt.Sprintf("NoteType(%d)", int(t))
}

type Note struct {
	ID        uuid.UUID `json:"-"`
	Type      NoteType  `json:"type"`
	Lane      int       `json:"laneIndex"` // The chart column, 0 is the leftmost lane
	Timestamp int64     `json:"timestamp"` // The time the note should be hit, in ms
	Duration  int64     `json:"duration"`  // How long a long note is held, in ms
}

// End is the time the note should be released. Normal notes end where they start.
func (n Note) End() int64 {
	return n.Timestamp + n.Duration
}

func (n Note) Validate() error {
	if n.Lane < 0 {
		return fmt.Errorf("%w: negative lane %d", ErrInvalidNote, n.Lane)
	}
	if n.Timestamp < 0 {
		return fmt.Errorf("%w: negative timestamp %d", ErrInvalidNote, n.Timestamp)
	}
	if n.Duration < 0 {
		return fmt.Errorf("%w: negative duration %d", ErrInvalidNote, n.Duration)
	}
	switch n.Type {
	case Normal:
		if n.Duration != 0 {
			return fmt.Errorf("%w: normal note with duration %d", ErrInvalidNote, n.Duration)
		}
	case Long:
	default:
		return fmt.Errorf("%w: unknown type %d", ErrInvalidNote, int(n.Type))
	}
	return nil
}

// before orders notes by time, then by lane.
func (n Note) before(o Note) bool {
	if n.Timestamp != o.Timestamp {
		return n.Timestamp < o.Timestamp
	}
	return n.Lane < o.Lane
}
