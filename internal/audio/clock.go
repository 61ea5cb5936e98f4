package audio

import (
	"time"

	"k8s.io/utils/clock"
)

// ClockTransport keeps time without any audio, for charts with no song or
// when no output device is available.
type ClockTransport struct {
	clock   clock.PassiveClock
	total   int64
	rate    float64
	started time.Time
	base    int64 // position when started
	playing bool
}

func NewClockTransport(cl clock.PassiveClock, totalMs int64, rate float64) *ClockTransport {
	if nil == cl {
		cl = clock.RealClock{}
	}
	if rate <= 0 {
		rate = 1
	}
	return &ClockTransport{clock: cl, total: totalMs, rate: rate}
}

func (t *ClockTransport) position() int64 {
	if !t.playing {
		return t.base
	}
	elapsed := t.clock.Since(t.started)
	pos := t.base + int64(float64(elapsed.Milliseconds())*t.rate)
	if pos >= t.total {
		return t.total
	}
	return pos
}

func (t *ClockTransport) Play() error {
	if t.playing {
		return nil
	}
	if t.base >= t.total {
		t.base = 0
	}
	t.started = t.clock.Now()
	t.playing = true
	return nil
}

func (t *ClockTransport) Pause() {
	t.base = t.position()
	t.playing = false
}

func (t *ClockTransport) Resume() error { return t.Play() }

func (t *ClockTransport) Stop() error {
	t.playing = false
	t.base = 0
	return nil
}

func (t *ClockTransport) Seek(ms int64) error {
	if ms < 0 {
		ms = 0
	}
	if ms > t.total {
		ms = t.total
	}
	t.base = ms
	t.started = t.clock.Now()
	return nil
}

func (t *ClockTransport) CurrentPositionMs() int64 { return t.position() }
func (t *ClockTransport) TotalDurationMs() int64   { return t.total }

func (t *ClockTransport) IsPlaying() bool {
	if t.playing && t.position() >= t.total {
		t.base = t.total
		t.playing = false
	}
	return t.playing
}

func (t *ClockTransport) Close() error { return nil }
