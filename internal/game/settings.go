package game

import "fmt"

const (
	MinLanes = 4
	MaxLanes = 8

	// Unbound marks a lane with no key assigned.
	Unbound = ""
)

// GameSettings are the rules a chart is played with, kept apart from the
// chart so one chart can be played with several key layouts and modes.
type GameSettings struct {
	LaneCount   int            `yaml:"lanes"`
	KeyBindings []string       `yaml:"keys"`
	Normal      JudgmentConfig `yaml:"normal"`
	Hard        JudgmentConfig `yaml:"hard"`
	Super       JudgmentConfig `yaml:"super"`
}

func DefaultSettings() *GameSettings {
	return &GameSettings{
		LaneCount:   4,
		KeyBindings: []string{"d", "f", "j", "k"},
		Normal:      DefaultNormalConfig(),
		Hard:        DefaultHardConfig(),
		Super:       DefaultSuperConfig(),
	}
}

func (s *GameSettings) ConfigFor(mode Mode) (JudgmentConfig, error) {
	switch mode {
	case NormalMode:
		return s.Normal, nil
	case HardMode:
		return s.Hard, nil
	case SuperMode:
		return s.Super, nil
	}
	return JudgmentConfig{}, fmt.Errorf("%w: %v", ErrUnknownMode, mode)
}

// SetLaneCount resizes the key bindings to n lanes, dropping trailing
// bindings or padding with Unbound.
func (s *GameSettings) SetLaneCount(n int) error {
	if n < MinLanes || n > MaxLanes {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidLaneCount, n, MinLanes, MaxLanes)
	}
	for len(s.KeyBindings) < n {
		s.KeyBindings = append(s.KeyBindings, Unbound)
	}
	s.KeyBindings = s.KeyBindings[:n]
	s.LaneCount = n
	return nil
}

// LaneForKey returns the lane bound to key, or -1.
func (s *GameSettings) LaneForKey(key string) int {
	if key == Unbound {
		return -1
	}
	for i, k := range s.KeyBindings {
		if i >= s.LaneCount {
			break
		}
		if k == key {
			return i
		}
	}
	return -1
}

func (s *GameSettings) Validate() error {
	if s.LaneCount < MinLanes || s.LaneCount > MaxLanes {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidLaneCount, s.LaneCount, MinLanes, MaxLanes)
	}
	if len(s.KeyBindings) != s.LaneCount {
		return fmt.Errorf("%w: %d key bindings for %d lanes", ErrInvalidLaneCount, len(s.KeyBindings), s.LaneCount)
	}
	for _, c := range []JudgmentConfig{s.Normal, s.Hard, s.Super} {
		if err := c.Validate(); nil != err {
			return err
		}
	}
	return nil
}
