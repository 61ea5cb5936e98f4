package audio

import (
	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

// Speaker is the output device. DefaultSpeaker plays through the beep
// speaker package, which owns a single global output.
type Speaker interface {
	Init(sampleRate beep.SampleRate, bufferSize int) error
	Play(s ...beep.Streamer)
	Lock()
	Unlock()
}

type DefaultSpeaker struct{}

func (DefaultSpeaker) Init(sr beep.SampleRate, bufferSize int) error {
	return speaker.Init(sr, bufferSize)
}

func (DefaultSpeaker) Play(s ...beep.Streamer) { speaker.Play(s...) }
func (DefaultSpeaker) Lock()                   { speaker.Lock() }
func (DefaultSpeaker) Unlock()                 { speaker.Unlock() }
