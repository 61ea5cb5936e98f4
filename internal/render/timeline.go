package render

import (
	"fmt"
	"math"
	"strings"

	"git.lost.host/meutraa/eote/internal/game"
	"git.lost.host/meutraa/eote/internal/theme"
	"git.lost.host/meutraa/eote/internal/timeline"
)

// Scene is one frame of the editor timeline. Time runs left to right with
// the playhead in the middle column, and each lane is a row.
type Scene struct {
	View     timeline.Viewport
	Chart    *game.Chart
	Lanes    int
	Division timeline.Division
	Cursor   int    // the lane edits apply to
	Pending  []bool // lanes with a long note in progress
	Top      uint16 // terminal row of the ruler
	Spacing  int    // rows per lane
	Status   string
}

const cursorSym = "◇"

func (s Scene) laneRow(lane int) uint16 {
	return s.Top + 1 + uint16(lane*s.Spacing)
}

// StatusRow is the terminal row below the last lane.
func (s Scene) StatusRow() uint16 {
	return s.laneRow(s.Lanes-1) + 2
}

func (s Scene) column(t int64) int {
	return int(math.Round(s.View.XAt(t) - s.View.Left))
}

func blank(width int, fill string) []string {
	cells := make([]string, width)
	for i := range cells {
		cells[i] = fill
	}
	return cells
}

// DrawTimeline fills r with the scene. Nothing is written to the terminal
// until the renderer is flushed.
func DrawTimeline(r Renderer, th theme.Theme, s Scene) error {
	width := int(s.View.Width)
	if width <= 0 || s.Lanes <= 0 {
		return nil
	}
	if s.Spacing < 1 {
		s.Spacing = 1
	}
	tm := s.Chart.TempoMap()
	from, to := s.View.Span()

	ruler := blank(width, " ")
	rows := make([][]string, s.Lanes)
	for i := range rows {
		rows[i] = blank(width, " ")
	}
	inView := func(x int) bool { return x >= 0 && x < width }

	lines, err := timeline.Lines(from, to, tm, s.Division)
	if nil != err {
		return err
	}
	for _, l := range lines {
		x := s.column(l.Time)
		if !inView(x) {
			continue
		}
		glyph := th.RenderLine(int(l.Strength))
		ruler[x] = glyph
		for i := range rows {
			rows[i][x] = glyph
		}
	}

	playX := s.column(s.View.Playhead)
	heads := map[[2]int]bool{}
	for _, n := range s.Chart.Window(from, to) {
		if n.Lane >= s.Lanes {
			continue
		}
		denom := timeline.Denominator(n.Timestamp, tm)
		head := s.column(n.Timestamp)
		if n.Type == game.Long {
			pending := n.Lane < len(s.Pending) && s.Pending[n.Lane] && n.Duration == 0
			end := s.column(n.End())
			body := th.RenderHold(n.Lane, denom)
			if pending {
				end = playX
				body = th.RenderPending(n.Lane)
			}
			for x := head + 1; x <= end; x++ {
				if inView(x) {
					rows[n.Lane][x] = body
				}
			}
		}
		if inView(head) {
			rows[n.Lane][head] = th.RenderNote(n.Lane, denom)
			heads[[2]int{n.Lane, head}] = true
		}
	}

	if inView(playX) {
		ruler[playX] = th.RenderPlayhead()
		// the cursor gives way to a note under it
		if s.Cursor >= 0 && s.Cursor < s.Lanes && !heads[[2]int{s.Cursor, playX}] {
			rows[s.Cursor][playX] = cursorSym
		}
	}

	r.Fill(s.Top, 1, strings.Join(ruler, ""))
	for i, row := range rows {
		r.Fill(s.laneRow(i), 1, strings.Join(row, ""))
	}
	r.Fill(s.StatusRow(), 1, "\033[K"+s.Status)
	return nil
}

// StatusLine summarises the editor state for the bottom of the screen.
func StatusLine(position int64, d timeline.Division, zoom float64, dirty bool, extra string) string {
	mark := " "
	if dirty {
		mark = "*"
	}
	return fmt.Sprintf("%s %02d:%06.3f  snap %-4v  zoom %4.1fx  %s",
		mark, position/60000, float64(position%60000)/1000, d, zoom, extra)
}
