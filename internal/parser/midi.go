package parser

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.lost.host/meutraa/eote/internal/game"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	defaultMIDIBpm = 120
	// DefaultHoldThreshold is the shortest MIDI note turned into a long note.
	DefaultHoldThreshold = 200
)

// MIDIParser turns the notes of a standard MIDI file into a chart. Keys are
// folded onto lanes by key modulo the lane count.
type MIDIParser struct {
	LaneCount     int
	HoldThreshold int64
}

func NewMIDIParser(laneCount int) *MIDIParser {
	return &MIDIParser{LaneCount: laneCount, HoldThreshold: DefaultHoldThreshold}
}

type midiEvent struct {
	ms  int64
	off bool
	key uint8
}

func (p *MIDIParser) Parse(file string) (charts []*game.Chart, e error) {
	// smf panics on some malformed files
	defer func() {
		if r := recover(); nil != r {
			charts, e = nil, fmt.Errorf("unable to parse %s: %v", file, r)
		}
	}()

	data, err := os.ReadFile(file)
	if nil != err {
		return nil, err
	}
	s, err := smf.ReadFrom(bytes.NewReader(data))
	if nil != err {
		return nil, fmt.Errorf("unable to parse %s: %w", file, err)
	}

	title := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	chart, err := p.build(s, title)
	if nil != err {
		return nil, err
	}
	return []*game.Chart{chart}, nil
}

func (p *MIDIParser) build(s *smf.SMF, title string) (*game.Chart, error) {
	if p.LaneCount < game.MinLanes || p.LaneCount > game.MaxLanes {
		return nil, fmt.Errorf("%w: %d", game.ErrInvalidLaneCount, p.LaneCount)
	}

	tempos := []game.TempoChange{}
	events := []midiEvent{}
	for _, track := range s.Tracks {
		var absTicks int64
		for _, event := range track {
			absTicks += int64(event.Delta)
			ms := int64(math.Round(float64(s.TimeAt(absTicks)) / 1000))
			var channel, key, velocity uint8
			var bpm float64
			switch {
			case event.Message.GetMetaTempo(&bpm):
				tempos = append(tempos, game.TempoChange{Timestamp: ms, NewBpm: bpm})
			case event.Message.GetNoteOn(&channel, &key, &velocity):
				events = append(events, midiEvent{ms: ms, off: velocity == 0, key: key})
			case event.Message.GetNoteOff(&channel, &key, &velocity):
				events = append(events, midiEvent{ms: ms, off: true, key: key})
			}
		}
	}

	initial := float64(defaultMIDIBpm)
	sort.SliceStable(tempos, func(i, j int) bool { return tempos[i].Timestamp < tempos[j].Timestamp })
	if len(tempos) > 0 && tempos[0].Timestamp == 0 {
		initial = tempos[0].NewBpm
		tempos = tempos[1:]
	}
	chart, err := game.NewChart(title, "", "", initial)
	if nil != err {
		return nil, err
	}
	for _, tc := range tempos {
		if err := chart.AddTempoChange(tc); nil != err {
			return nil, err
		}
	}

	// note offs first, so a key struck again at the same time starts a new note
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].ms != events[j].ms {
			return events[i].ms < events[j].ms
		}
		return events[i].off && !events[j].off
	})

	pressed := map[uint8]int64{}
	for _, ev := range events {
		if !ev.off {
			if _, ok := pressed[ev.key]; !ok {
				pressed[ev.key] = ev.ms
			}
			continue
		}
		start, ok := pressed[ev.key]
		if !ok {
			continue
		}
		delete(pressed, ev.key)
		if err := p.insert(chart, ev.key, start, ev.ms-start); nil != err {
			return nil, err
		}
	}
	// keys never released become taps
	for key, start := range pressed {
		if err := p.insert(chart, key, start, 0); nil != err {
			return nil, err
		}
	}
	if chart.Len() == 0 {
		return nil, errors.New("no notes found")
	}
	return chart, nil
}

func (p *MIDIParser) insert(chart *game.Chart, key uint8, start, duration int64) error {
	n := game.Note{Type: game.Normal, Lane: int(key) % p.LaneCount, Timestamp: start}
	if p.HoldThreshold > 0 && duration >= p.HoldThreshold {
		n.Type = game.Long
		n.Duration = duration
	}
	_, err := chart.Insert(n)
	return err
}
