package input

import (
	"unicode"

	"git.lost.host/meutraa/eote/internal/game"
	"github.com/eiannone/keyboard"
)

type Action int

const (
	None Action = iota
	Quit
	TogglePlay
	Stop
	StepBack    // one grid step earlier
	StepForward // one grid step later
	SeekBack    // one second earlier
	SeekForward // one second later
	LaneUp
	LaneDown
	ZoomIn
	ZoomOut
	NextDivision
	Save
	ToggleTestPlay
	CycleMode

	// The actions below apply to a lane.
	Place
	ToggleLong
	Delete
)

// Command is a key press translated into an editor action.
type Command struct {
	Action Action
	// Lane is the lane a bound key was pressed for, or -1 for the cursor lane.
	Lane int
}

// Open starts reading the keyboard. Call Close when done.
func Open(bufferSize int) (<-chan keyboard.KeyEvent, error) {
	return keyboard.GetKeys(bufferSize)
}

func Close() error {
	return keyboard.Close()
}

// Translate maps a key press to a command. A key bound to a lane places a
// note on that lane, and the same key with shift starts or finishes a long
// note there. Bound keys take priority over the fixed editor keys.
func Translate(settings *game.GameSettings, ev keyboard.KeyEvent) Command {
	if nil != ev.Err {
		return Command{Action: None, Lane: -1}
	}

	switch ev.Key {
	case keyboard.KeyEsc, keyboard.KeyCtrlC:
		return Command{Action: Quit, Lane: -1}
	case keyboard.KeySpace:
		return Command{Action: TogglePlay, Lane: -1}
	case keyboard.KeyEnter:
		return Command{Action: Place, Lane: -1}
	case keyboard.KeyBackspace, keyboard.KeyBackspace2, keyboard.KeyDelete:
		return Command{Action: Delete, Lane: -1}
	case keyboard.KeyArrowUp:
		return Command{Action: LaneUp, Lane: -1}
	case keyboard.KeyArrowDown:
		return Command{Action: LaneDown, Lane: -1}
	case keyboard.KeyArrowLeft:
		return Command{Action: StepBack, Lane: -1}
	case keyboard.KeyArrowRight:
		return Command{Action: StepForward, Lane: -1}
	case keyboard.KeyPgup:
		return Command{Action: SeekBack, Lane: -1}
	case keyboard.KeyPgdn:
		return Command{Action: SeekForward, Lane: -1}
	case keyboard.KeyTab:
		return Command{Action: NextDivision, Lane: -1}
	case keyboard.KeyCtrlS:
		return Command{Action: Save, Lane: -1}
	}

	if ev.Rune == 0 {
		return Command{Action: None, Lane: -1}
	}
	if lane := settings.LaneForKey(string(ev.Rune)); lane >= 0 {
		return Command{Action: Place, Lane: lane}
	}
	if unicode.IsUpper(ev.Rune) {
		if lane := settings.LaneForKey(string(unicode.ToLower(ev.Rune))); lane >= 0 {
			return Command{Action: ToggleLong, Lane: lane}
		}
	}

	switch ev.Rune {
	case '+', '=':
		return Command{Action: ZoomIn, Lane: -1}
	case '-', '_':
		return Command{Action: ZoomOut, Lane: -1}
	case 'l':
		return Command{Action: ToggleLong, Lane: -1}
	case 's':
		return Command{Action: Stop, Lane: -1}
	case 't':
		return Command{Action: ToggleTestPlay, Lane: -1}
	case 'm':
		return Command{Action: CycleMode, Lane: -1}
	case 'q':
		return Command{Action: Quit, Lane: -1}
	}
	return Command{Action: None, Lane: -1}
}
