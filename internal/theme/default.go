package theme

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

type DefaultTheme struct{}

func ansi(c colorful.Color, s string) string {
	r, g, b := c.RGB255()
	return fmt.Sprintf("\033[38;2;%v;%v;%vm%v\033[0m", r, g, b, s)
}

func (t *DefaultTheme) NoteColor(denom int) colorful.Color {
	col, ok := noteColors[denom]
	if !ok {
		return noteColors[-1]
	}
	return col
}

func (t *DefaultTheme) RenderNote(lane int, denom int) string {
	return ansi(t.NoteColor(denom), noteSym)
}

// RenderHold draws the body of a long note, faded towards the background.
func (t *DefaultTheme) RenderHold(lane int, denom int) string {
	return ansi(t.NoteColor(denom).BlendLab(background, 0.45).Clamped(), holdSym)
}

func (t *DefaultTheme) RenderPending(lane int) string {
	return ansi(pending, holdSym)
}

func (t *DefaultTheme) RenderLine(strength int) string {
	if strength < 0 || strength >= len(lineSyms) {
		strength = 0
	}
	return ansi(lineColors[strength], lineSyms[strength])
}

func (t *DefaultTheme) RenderPlayhead() string {
	return ansi(playhead, playheadSym)
}

const (
	noteSym     = "⬤"
	holdSym     = "━"
	playheadSym = "▼"
)

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if nil != err {
		panic(err)
	}
	return c
}

var (
	background = mustHex("#101010")
	pending    = mustHex("#ff5f87")
	playhead   = mustHex("#ffffff")

	// sub division, beat, bar
	lineSyms   = [...]string{"·", "┆", "│"}
	lineColors = [...]colorful.Color{
		mustHex("#3a3a3a"),
		mustHex("#6a6a6a"),
		mustHex("#b0b0b0"),
	}

	noteColors = map[int]colorful.Color{
		4:  mustHex("#ec1e00"), // 1/4 red
		8:  mustHex("#0076ec"), // 1/8 blue
		16: mustHex("#ecc300"), // 1/16 yellow
		32: mustHex("#ec8000"), // 1/32 orange
		-1: mustHex("#ffffff"), // other white
	}
)
