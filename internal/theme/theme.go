package theme

import colorful "github.com/lucasb-eyer/go-colorful"

type Theme interface {
	NoteColor(denom int) colorful.Color
	RenderNote(lane int, denom int) string
	RenderHold(lane int, denom int) string
	RenderPending(lane int) string
	RenderLine(strength int) string
	RenderPlayhead() string
}
