package game

import (
	"fmt"
	"strings"
)

type Mode int

const (
	NormalMode Mode = iota
	HardMode
	SuperMode
)

var modeNames = [...]string{"normal", "hard", "super"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if strings.EqualFold(s, name) {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// JudgmentConfig holds the ± window in ms of each grade for one mode.
// A window of 0 means the grade is not checked for that mode.
type JudgmentConfig struct {
	Name     string  `yaml:"name"`
	SPerfect float64 `yaml:"s_perfect"`
	Perfect  float64 `yaml:"perfect"`
	Great    float64 `yaml:"great"`
	Good     float64 `yaml:"good"`
	Bad      float64 `yaml:"bad"`
}

// Windows returns the tier windows from tightest to loosest.
func (c JudgmentConfig) Windows() [5]float64 {
	return [5]float64{c.SPerfect, c.Perfect, c.Great, c.Good, c.Bad}
}

// Validate checks that windows are not negative and that the windows in use
// never shrink from one grade to the next.
func (c JudgmentConfig) Validate() error {
	last := 0.0
	for i, w := range c.Windows() {
		if w < 0 {
			return fmt.Errorf("judgement %q: window %d is negative", c.Name, i)
		}
		if w == 0 {
			continue
		}
		if w < last {
			return fmt.Errorf("judgement %q: window %d (%vms) is tighter than %vms", c.Name, i, w, last)
		}
		last = w
	}
	return nil
}

func DefaultNormalConfig() JudgmentConfig {
	return JudgmentConfig{Name: "Normal", SPerfect: 0, Perfect: 41.66, Great: 83.33, Good: 120, Bad: 150}
}

func DefaultHardConfig() JudgmentConfig {
	return JudgmentConfig{Name: "Hard", SPerfect: 16.67, Perfect: 32.25, Great: 62.49, Good: 100, Bad: 120}
}

// Super has no Bad window; anything past Good is a miss.
func DefaultSuperConfig() JudgmentConfig {
	return JudgmentConfig{Name: "Super", SPerfect: 4.17, Perfect: 12.50, Great: 25.00, Good: 62.49, Bad: 0}
}
