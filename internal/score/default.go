package score

import (
	"math"
	"time"

	"git.lost.host/meutraa/eote/internal/game"
)

type DefaultScorer struct{}

func abs(x time.Duration) time.Duration {
	if x < 0 {
		return -x
	}
	return x
}

func ms(d float64) time.Duration {
	return time.Duration(math.Round(d * float64(time.Millisecond)))
}

// Classify walks the windows from tightest to loosest. Windows of 0 are not
// checked, so a config without a Bad window turns everything past Good into
// a Miss.
func (s *DefaultScorer) Classify(cfg game.JudgmentConfig, absDistance time.Duration) Tier {
	absDistance = abs(absDistance)
	for i, w := range cfg.Windows() {
		if w == 0 {
			continue
		}
		if absDistance <= ms(w) {
			return Tier(i)
		}
	}
	return Miss
}

// loosest is the widest window a press can still be matched within.
func loosest(cfg game.JudgmentConfig) time.Duration {
	widest := 0.0
	for _, w := range cfg.Windows() {
		if w > widest {
			widest = w
		}
	}
	return ms(widest)
}

// Distance returns the signed error of a press at hitTime against a note at
// expected, with the song playing at rate (1 is normal speed).
func (s *DefaultScorer) Distance(rate float64, expected, hitTime time.Duration) time.Duration {
	return time.Duration(int64(math.Round(float64(expected.Nanoseconds())/rate)) - hitTime.Nanoseconds())
}

func noteTime(n game.Note) time.Duration {
	return time.Duration(n.Timestamp) * time.Millisecond
}

func (s *DefaultScorer) Judge(notes []game.Note, judged map[int]bool, hit Hit, rate float64, cfg game.JudgmentConfig) (Result, bool) {
	closest := -1
	absDistance := time.Hour * 24
	distance := time.Hour * 24

	for i, note := range notes {
		if judged[i] || note.Lane != hit.Lane {
			continue
		}
		dd := s.Distance(rate, noteTime(note), hit.HitTime)
		d := abs(dd)
		if d < absDistance {
			distance = dd
			absDistance = d
			closest = i
		} else if closest >= 0 {
			// notes are in time order, so they only get further away
			break
		}
	}

	if closest < 0 || absDistance > loosest(cfg) {
		return Result{}, false
	}
	judged[closest] = true
	return Result{
		Index:    closest,
		Tier:     s.Classify(cfg, absDistance),
		Distance: distance,
	}, true
}

// Score replays hits against the notes. Notes never hit count as misses.
func (s *DefaultScorer) Score(notes []game.Note, hits []Hit, rate float64, cfg game.JudgmentConfig) Score {
	var score Score
	judged := map[int]bool{}
	for _, hit := range hits {
		r, ok := s.Judge(notes, judged, hit, rate, cfg)
		if !ok {
			continue
		}
		score.Counts[r.Tier]++
		score.TotalError += abs(r.Distance)
	}
	score.Counts[Miss] += uint64(len(notes) - len(judged))
	return score
}
