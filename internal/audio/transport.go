package audio

import (
	"fmt"
	"math"
	"time"

	"github.com/faiface/beep"
)

// Transport plays one song and reports where playback is. Positions are in
// song time, so they do not change with the playback rate.
type Transport struct {
	speaker  Speaker
	streamer beep.StreamSeekCloser
	format   beep.Format
	rate     float64

	ctrl        *beep.Ctrl
	initialized bool
	// queued is false once the speaker has drained the stream.
	queued bool
}

// NewTransport takes ownership of streamer. rate scales the playback speed,
// 1 is normal speed.
func NewTransport(s Speaker, streamer beep.StreamSeekCloser, format beep.Format, rate float64) *Transport {
	if rate <= 0 {
		rate = 1
	}
	return &Transport{
		speaker:  s,
		streamer: streamer,
		format:   format,
		rate:     rate,
		ctrl:     &beep.Ctrl{Streamer: streamer, Paused: true},
	}
}

func (t *Transport) init() error {
	if t.initialized {
		return nil
	}
	sr := beep.SampleRate(math.Round(float64(t.format.SampleRate) * t.rate))
	if err := t.speaker.Init(sr, sr.N(time.Second/60)); nil != err {
		return fmt.Errorf("unable to initialise speaker: %w", err)
	}
	t.initialized = true
	return nil
}

func (t *Transport) finished() {
	// called by the speaker with its lock held
	t.queued = false
	t.ctrl.Paused = true
}

// Play starts playback from the current position, or from the start if the
// song has ended.
func (t *Transport) Play() error {
	if err := t.init(); nil != err {
		return err
	}
	t.speaker.Lock()
	queued := t.queued
	if t.streamer.Position() >= t.streamer.Len() {
		if err := t.streamer.Seek(0); nil != err {
			t.speaker.Unlock()
			return fmt.Errorf("unable to rewind: %w", err)
		}
	}
	t.ctrl.Paused = false
	t.queued = true
	t.speaker.Unlock()

	if !queued {
		t.speaker.Play(beep.Seq(t.ctrl, beep.Callback(t.finished)))
	}
	return nil
}

func (t *Transport) Pause() {
	t.speaker.Lock()
	t.ctrl.Paused = true
	t.speaker.Unlock()
}

func (t *Transport) Resume() error {
	return t.Play()
}

// Stop pauses and rewinds to the start.
func (t *Transport) Stop() error {
	t.speaker.Lock()
	defer t.speaker.Unlock()
	t.ctrl.Paused = true
	if err := t.streamer.Seek(0); nil != err {
		return fmt.Errorf("unable to rewind: %w", err)
	}
	return nil
}

// Seek moves playback to ms, clamped to the song.
func (t *Transport) Seek(ms int64) error {
	t.speaker.Lock()
	defer t.speaker.Unlock()
	n := t.format.SampleRate.N(time.Duration(ms) * time.Millisecond)
	if n < 0 {
		n = 0
	}
	if n > t.streamer.Len() {
		n = t.streamer.Len()
	}
	if err := t.streamer.Seek(n); nil != err {
		return fmt.Errorf("unable to seek to %vms: %w", ms, err)
	}
	return nil
}

func (t *Transport) CurrentPositionMs() int64 {
	t.speaker.Lock()
	defer t.speaker.Unlock()
	return t.format.SampleRate.D(t.streamer.Position()).Milliseconds()
}

func (t *Transport) TotalDurationMs() int64 {
	t.speaker.Lock()
	defer t.speaker.Unlock()
	return t.format.SampleRate.D(t.streamer.Len()).Milliseconds()
}

func (t *Transport) IsPlaying() bool {
	t.speaker.Lock()
	defer t.speaker.Unlock()
	return t.queued && !t.ctrl.Paused
}

func (t *Transport) Close() error {
	t.Pause()
	return t.streamer.Close()
}
