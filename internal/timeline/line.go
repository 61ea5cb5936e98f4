package timeline

import (
	"math"

	"git.lost.host/meutraa/eote/internal/game"
)

type Strength int

const (
	Sub Strength = iota
	Beat
	Bar
)

const beatsPerBar = 4

// maxLines bounds the lines generated for one view.
const maxLines = 4096

type Line struct {
	Denom    int   // The beat length, as a denominator, 1 = bar, 4 = beat
	Time     int64 // The time of the line in ms
	Strength Strength
}

// Lines returns the grid lines in [from, to]. Each tempo segment starts its
// own grid. With no division the 1/16 grid is drawn.
func Lines(from, to int64, m game.TempoMap, d Division) ([]Line, error) {
	if d == None {
		d = Sixteenth
	}
	if from < 0 {
		from = 0
	}
	f := d.Factor()
	lines := []Line{}
	t := from
	for t <= to && len(lines) < maxLines {
		start, next, bpm, err := m.SegmentAt(t)
		if nil != err {
			return nil, err
		}
		step := 60000.0 / bpm / float64(f)
		i := int64(math.Ceil(float64(t-start) / step))
		for len(lines) < maxLines {
			at := start + int64(math.Round(float64(i)*step))
			if at > to || (next >= 0 && at >= next) {
				break
			}
			line := Line{Denom: d.Denom(), Time: at, Strength: Sub}
			if i%int64(f*beatsPerBar) == 0 {
				line.Denom, line.Strength = 1, Bar
			} else if i%int64(f) == 0 {
				line.Denom, line.Strength = 4, Beat
			}
			lines = append(lines, line)
			i++
		}
		if next < 0 {
			break
		}
		t = next
	}
	return lines, nil
}
