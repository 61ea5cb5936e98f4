package score

import (
	"fmt"
	"time"

	"git.lost.host/meutraa/eote/internal/game"
)

type Scorer interface {
	// Classify grades an absolute timing error.
	Classify(cfg game.JudgmentConfig, absDistance time.Duration) Tier

	// Judge matches a key press to the closest unjudged note on its lane.
	Judge(notes []game.Note, judged map[int]bool, hit Hit, rate float64, cfg game.JudgmentConfig) (Result, bool)

	Score(notes []game.Note, hits []Hit, rate float64, cfg game.JudgmentConfig) Score

	Distance(rate float64, expected, hitTime time.Duration) time.Duration
}

type Tier int

const (
	SPerfect Tier = iota
	Perfect
	Great
	Good
	Bad
	Miss
)

var tierNames = [...]string{"S-Perfect", "Perfect", "Great", "Good", "Bad", "Miss"}

func (t Tier) String() string {
	if t < 0 || int(t) >= len(tierNames) {
		return fmt.Sprintf("Tier(%d)", int(t))
	}
	return tierNames[t]
}

// Hit is one key press during test play, at song time HitTime.
type Hit struct {
	Lane    int
	HitTime time.Duration
}

type Result struct {
	Index    int // position of the judged note in the note list
	Tier     Tier
	Distance time.Duration
}

type Score struct {
	Counts     [Miss + 1]uint64
	TotalError time.Duration
}

func (s Score) MissCount() uint64 { return s.Counts[Miss] }
