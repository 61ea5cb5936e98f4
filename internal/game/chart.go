package game

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/exp/slices"
)

// Chart is the editable document for one song. Notes are always kept sorted
// by timestamp then lane, and are only handed out as copies.
type Chart struct {
	title      string
	artist     string
	audio      string
	initialBpm float64

	notes        []Note
	tempoChanges []TempoChange

	dirty bool
}

func NewChart(title, artist, audio string, initialBpm float64) (*Chart, error) {
	if initialBpm <= 0 {
		return nil, fmt.Errorf("%w: initial bpm %v", ErrInvalidTempo, initialBpm)
	}
	return &Chart{
		title:      title,
		artist:     artist,
		audio:      audio,
		initialBpm: initialBpm,
	}, nil
}

func (c *Chart) Title() string          { return c.title }
func (c *Chart) Artist() string         { return c.artist }
func (c *Chart) AudioReference() string { return c.audio }
func (c *Chart) InitialBpm() float64    { return c.initialBpm }

func (c *Chart) SetTitle(title string) {
	c.title = title
	c.dirty = true
}

func (c *Chart) SetArtist(artist string) {
	c.artist = artist
	c.dirty = true
}

func (c *Chart) SetAudioReference(audio string) {
	c.audio = audio
	c.dirty = true
}

func (c *Chart) SetInitialBpm(bpm float64) error {
	if bpm <= 0 {
		return fmt.Errorf("%w: initial bpm %v", ErrInvalidTempo, bpm)
	}
	c.initialBpm = bpm
	c.dirty = true
	return nil
}

// Dirty reports whether the chart changed since the last MarkClean.
func (c *Chart) Dirty() bool { return c.dirty }
func (c *Chart) MarkClean()  { c.dirty = false }

func (c *Chart) Len() int { return len(c.notes) }

// Notes returns a copy of the notes in chart order.
func (c *Chart) Notes() []Note {
	out := make([]Note, len(c.notes))
	copy(out, c.notes)
	return out
}

func (c *Chart) Note(id uuid.UUID) (Note, bool) {
	i := c.find(id)
	if i < 0 {
		return Note{}, false
	}
	return c.notes[i], true
}

// LaneNotes returns the notes of one lane in chart order.
func (c *Chart) LaneNotes(lane int) []Note {
	out := []Note{}
	for _, n := range c.notes {
		if n.Lane == lane {
			out = append(out, n)
		}
	}
	return out
}

// Window returns the notes that are sounding at any point in [from, to].
func (c *Chart) Window(from, to int64) []Note {
	end := sort.Search(len(c.notes), func(i int) bool {
		return c.notes[i].Timestamp > to
	})
	out := []Note{}
	for _, n := range c.notes[:end] {
		if n.End() >= from {
			out = append(out, n)
		}
	}
	return out
}

func (c *Chart) find(id uuid.UUID) int {
	if id == uuid.Nil {
		return -1
	}
	return slices.IndexFunc(c.notes, func(n Note) bool { return n.ID == id })
}

// Insert adds a note in order, after any notes with the same time and lane.
// The note is given a fresh identity, which is returned.
func (c *Chart) Insert(n Note) (uuid.UUID, error) {
	if err := n.Validate(); nil != err {
		return uuid.Nil, err
	}
	n.ID = uuid.New()
	i := sort.Search(len(c.notes), func(i int) bool {
		return n.before(c.notes[i])
	})
	c.notes = slices.Insert(c.notes, i, n)
	c.dirty = true
	return n.ID, nil
}

// Remove deletes the note with the given identity, if present.
func (c *Chart) Remove(id uuid.UUID) bool {
	i := c.find(id)
	if i < 0 {
		return false
	}
	c.notes = slices.Delete(c.notes, i, i+1)
	c.dirty = true
	return true
}

// SetDuration updates a long note in place.
func (c *Chart) SetDuration(id uuid.UUID, duration int64) error {
	i := c.find(id)
	if i < 0 {
		return fmt.Errorf("%w: no note %v", ErrInvalidNote, id)
	}
	n := c.notes[i]
	n.Duration = duration
	if err := n.Validate(); nil != err {
		return err
	}
	c.notes[i] = n
	c.dirty = true
	return nil
}

// Reorder restores note order. The order only changes through Insert, so
// this is needed after notes are loaded from elsewhere.
func (c *Chart) Reorder() {
	sort.SliceStable(c.notes, func(i, j int) bool {
		return c.notes[i].before(c.notes[j])
	})
}

func (c *Chart) TempoMap() TempoMap {
	changes := make([]TempoChange, len(c.tempoChanges))
	copy(changes, c.tempoChanges)
	return TempoMap{Initial: c.initialBpm, Changes: changes}
}

// AddTempoChange inserts a tempo change, replacing any at the same time.
func (c *Chart) AddTempoChange(tc TempoChange) error {
	if tc.NewBpm <= 0 {
		return fmt.Errorf("%w: %v bpm at %vms", ErrInvalidTempo, tc.NewBpm, tc.Timestamp)
	}
	if tc.Timestamp < 0 {
		return fmt.Errorf("%w: negative tempo change time %v", ErrInvalidTempo, tc.Timestamp)
	}
	i := sort.Search(len(c.tempoChanges), func(i int) bool {
		return c.tempoChanges[i].Timestamp >= tc.Timestamp
	})
	if i < len(c.tempoChanges) && c.tempoChanges[i].Timestamp == tc.Timestamp {
		c.tempoChanges[i] = tc
	} else {
		c.tempoChanges = slices.Insert(c.tempoChanges, i, tc)
	}
	c.dirty = true
	return nil
}

func (c *Chart) RemoveTempoChange(timestamp int64) bool {
	i := slices.IndexFunc(c.tempoChanges, func(tc TempoChange) bool {
		return tc.Timestamp == timestamp
	})
	if i < 0 {
		return false
	}
	c.tempoChanges = slices.Delete(c.tempoChanges, i, i+1)
	c.dirty = true
	return true
}

// chartFile is the persisted shape of a chart.
type chartFile struct {
	Title        string        `json:"songName"`
	Artist       string        `json:"artistName"`
	Audio        string        `json:"fmodEventPath"`
	InitialBpm   float64       `json:"initialBpm"`
	Notes        []Note        `json:"notes"`
	TempoChanges []TempoChange `json:"bpmChanges"`
}

func (c *Chart) MarshalJSON() ([]byte, error) {
	f := chartFile{
		Title:        c.title,
		Artist:       c.artist,
		Audio:        c.audio,
		InitialBpm:   c.initialBpm,
		Notes:        c.notes,
		TempoChanges: c.tempoChanges,
	}
	if f.Notes == nil {
		f.Notes = []Note{}
	}
	if f.TempoChanges == nil {
		f.TempoChanges = []TempoChange{}
	}
	return json.Marshal(f)
}

// UnmarshalJSON replaces the chart with the decoded one. The whole document
// is validated before anything is replaced.
func (c *Chart) UnmarshalJSON(data []byte) error {
	var f chartFile
	if err := json.Unmarshal(data, &f); nil != err {
		return err
	}
	loaded, err := NewChart(f.Title, f.Artist, f.Audio, f.InitialBpm)
	if nil != err {
		return err
	}
	for _, tc := range f.TempoChanges {
		if err := loaded.AddTempoChange(tc); nil != err {
			return err
		}
	}
	loaded.notes = make([]Note, 0, len(f.Notes))
	for _, n := range f.Notes {
		if err := n.Validate(); nil != err {
			return err
		}
		n.ID = uuid.New()
		loaded.notes = append(loaded.notes, n)
	}
	loaded.Reorder()
	loaded.dirty = false
	*c = *loaded
	return nil
}
