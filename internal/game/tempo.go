package game

import (
	"fmt"
	"sort"
)

type TempoChange struct {
	Timestamp int64   `json:"timestamp"` // The time the new tempo takes effect, in ms
	NewBpm    float64 `json:"newBpm"`
}

// TempoMap is a step function of beats per minute over track time.
// Changes must be sorted by timestamp.
type TempoMap struct {
	Initial float64
	Changes []TempoChange
}

// index returns the position of the last change at or before ms, or -1.
func (m TempoMap) index(ms int64) int {
	i := sort.Search(len(m.Changes), func(i int) bool {
		return m.Changes[i].Timestamp > ms
	})
	return i - 1
}

func (m TempoMap) BpmAt(ms int64) (float64, error) {
	bpm := m.Initial
	if i := m.index(ms); i >= 0 {
		bpm = m.Changes[i].NewBpm
	}
	if bpm <= 0 {
		return 0, fmt.Errorf("%w: %v bpm at %vms", ErrInvalidTempo, bpm, ms)
	}
	return bpm, nil
}

// BeatDuration returns the length of one beat in ms at the given time.
func (m TempoMap) BeatDuration(ms int64) (float64, error) {
	bpm, err := m.BpmAt(ms)
	if nil != err {
		return 0, err
	}
	return 60000.0 / bpm, nil
}

// SegmentAt returns the bounds of the constant tempo segment containing ms.
// next is -1 when no later change exists.
func (m TempoMap) SegmentAt(ms int64) (start, next int64, bpm float64, err error) {
	bpm, err = m.BpmAt(ms)
	if nil != err {
		return 0, 0, 0, err
	}
	i := m.index(ms)
	if i >= 0 {
		start = m.Changes[i].Timestamp
	}
	next = -1
	if i+1 < len(m.Changes) {
		next = m.Changes[i+1].Timestamp
	}
	return start, next, bpm, nil
}
