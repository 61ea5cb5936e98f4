package editor

// Transport is the part of the audio player the editor reads the playback
// position from.
type Transport interface {
	CurrentPositionMs() int64
	TotalDurationMs() int64
	IsPlaying() bool
	Seek(ms int64) error
}

// Playhead is the editor's view of the playback position. The position is
// taken from the transport once per frame, except while the user is seeking,
// when the transport is ignored so the two do not fight over the position.
type Playhead struct {
	transport Transport
	position  int64
	total     int64
	seeking   bool
}

func NewPlayhead(t Transport) *Playhead {
	return &Playhead{transport: t}
}

func (p *Playhead) Position() int64 { return p.position }
func (p *Playhead) Total() int64    { return p.total }
func (p *Playhead) Seeking() bool   { return p.seeking }

// Sync reads the transport for this frame and returns the position.
func (p *Playhead) Sync() int64 {
	if p.seeking || nil == p.transport {
		return p.position
	}
	p.total = p.transport.TotalDurationMs()
	if p.transport.IsPlaying() {
		p.position = p.transport.CurrentPositionMs()
	}
	return p.position
}

// BeginSeek moves the playhead and holds it there until EndSeek.
func (p *Playhead) BeginSeek(ms int64) error {
	p.seeking = true
	if ms < 0 {
		ms = 0
	}
	if p.total > 0 && ms > p.total {
		ms = p.total
	}
	p.position = ms
	if nil == p.transport {
		return nil
	}
	return p.transport.Seek(ms)
}

func (p *Playhead) EndSeek() {
	p.seeking = false
}

// Reset puts the playhead back to the start, as when playback stops.
func (p *Playhead) Reset() {
	p.position = 0
	p.seeking = false
}
