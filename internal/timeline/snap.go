package timeline

import (
	"fmt"
	"math"
	"strings"

	"git.lost.host/meutraa/eote/internal/game"
)

// Division is the snapping grid, named by the note length of one grid step.
type Division int

const (
	None Division = iota
	Quarter
	Eighth
	Sixteenth
	ThirtySecond
)

var divisionNames = [...]string{"none", "1/4", "1/8", "1/16", "1/32"}

func (d Division) String() string {
	if d < 0 || int(d) >= len(divisionNames) {
		return fmt.Sprintf("Division(%d)", int(d))
	}
	return divisionNames[d]
}

// Factor is the number of grid steps per beat.
func (d Division) Factor() int {
	switch d {
	case Quarter:
		return 1
	case Eighth:
		return 2
	case Sixteenth:
		return 4
	case ThirtySecond:
		return 8
	}
	return 0
}

// Denom is the note denominator of one grid step, 4 = 1/4.
func (d Division) Denom() int {
	return 4 * d.Factor()
}

func ParseDivision(s string) (Division, error) {
	for i, name := range divisionNames {
		if strings.EqualFold(s, name) {
			return Division(i), nil
		}
	}
	return None, fmt.Errorf("unknown snap division %q", s)
}

// Divisions lists the snapping grids from coarsest to finest.
var Divisions = []Division{Quarter, Eighth, Sixteenth, ThirtySecond}

// roundHalfUp rounds to the nearest integer, with halves going up.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

// SnapBpm rounds t to the nearest step of a grid anchored at 0 with a
// constant tempo. A time exactly between two steps goes to the later one.
func SnapBpm(t int64, d Division, bpm float64) (int64, error) {
	if d == None {
		return t, nil
	}
	if bpm <= 0 {
		return 0, fmt.Errorf("%w: %v bpm", game.ErrInvalidTempo, bpm)
	}
	step := 60000.0 / bpm / float64(d.Factor())
	return snapFrom(0, t, step), nil
}

// Snap rounds t to the nearest grid step of the tempo segment containing t.
// The grid restarts at every tempo change, and a time is never snapped past
// the next change, so snapping a snapped time returns it unchanged.
func Snap(t int64, d Division, m game.TempoMap) (int64, error) {
	if d == None {
		return t, nil
	}
	start, next, bpm, err := m.SegmentAt(t)
	if nil != err {
		return 0, err
	}
	step := 60000.0 / bpm / float64(d.Factor())
	snapped := snapFrom(start, t, step)
	if next >= 0 && snapped > next {
		snapped = next
	}
	return snapped, nil
}

func snapFrom(origin, t int64, step float64) int64 {
	k := roundHalfUp(float64(t-origin) / step)
	return origin + int64(math.Round(k*step))
}

// Denominator returns the denominator of the coarsest grid t lies on,
// or -1 if it lies on none of them.
func Denominator(t int64, m game.TempoMap) int {
	for _, d := range Divisions {
		s, err := Snap(t, d, m)
		if nil != err {
			return -1
		}
		if s == t {
			return d.Denom()
		}
	}
	return -1
}
