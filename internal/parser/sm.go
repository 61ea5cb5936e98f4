package parser

import (
	"fmt"
	"math"
	"math/big"
	"os"
	"sort"
	"strconv"
	"strings"

	"git.lost.host/meutraa/eote/internal/game"
)

// NKeyMap gives the lane count of each StepMania chart type.
var NKeyMap = map[string]int{
	"dance-single": 4,
	"dance-solo":   6,
	"dance-double": 8,
}

// Difficulty is one chart of a StepMania file.
type Difficulty struct {
	Name  string
	Meter string
	Lanes int
	Chart *game.Chart
}

type bpmChange struct {
	beat, bpm float64
}

// SMParser imports StepMania .sm files.
type SMParser struct{}

func (p *SMParser) Parse(file string) ([]*game.Chart, error) {
	difficulties, err := p.ParseDifficulties(file)
	if nil != err {
		return nil, err
	}
	charts := make([]*game.Chart, len(difficulties))
	for i, d := range difficulties {
		charts[i] = d.Chart
	}
	return charts, nil
}

// msAtBeat returns the time of a beat in ms from beat 0.
func msAtBeat(bpms []bpmChange, beat float64) float64 {
	ms := 0.0
	for i, b := range bpms {
		if i+1 < len(bpms) && bpms[i+1].beat <= beat {
			ms += (bpms[i+1].beat - b.beat) * 60000.0 / b.bpm
			continue
		}
		return ms + (beat-b.beat)*60000.0/b.bpm
	}
	return ms
}

// 0 – No note
// 1 – Normal note
// 2 – Hold head
// 3 – Hold/Roll tail
// 4 – Roll head
// M – Mine (or other negative note)
// K – Automatic keysound
// L – Lift note
// F – Fake note
//
// Only 1 to 4 have an equivalent in the editor.

func parseBpms(value string) ([]bpmChange, error) {
	bpms := []bpmChange{}
	for _, bpm := range strings.Split(value, ",") {
		bpm = strings.TrimSpace(bpm)
		if bpm == "" {
			continue
		}
		as := strings.SplitN(bpm, "=", 2)
		if len(as) != 2 {
			return nil, fmt.Errorf("unable to parse bpm %q", bpm)
		}
		beat, err := strconv.ParseFloat(strings.TrimSpace(as[0]), 64)
		if nil != err {
			return nil, err
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(as[1]), 64)
		if nil != err {
			return nil, err
		}
		if value <= 0 {
			return nil, fmt.Errorf("%w: %v bpm at beat %v", game.ErrInvalidTempo, value, beat)
		}
		bpms = append(bpms, bpmChange{beat: beat, bpm: value})
	}
	if len(bpms) == 0 {
		return nil, fmt.Errorf("%w: no bpms", game.ErrInvalidTempo)
	}
	sort.SliceStable(bpms, func(i, j int) bool { return bpms[i].beat < bpms[j].beat })
	if bpms[0].beat > 0 {
		bpms = append([]bpmChange{{beat: 0, bpm: bpms[0].bpm}}, bpms...)
	}
	return bpms, nil
}

type smMeta struct {
	title, artist, music string
	offset               float64
	bpms                 []bpmChange
}

func parseMeta(meta string) (smMeta, error) {
	m := smMeta{}
	for _, mdl := range strings.Split(meta, "\n#") {
		mdl = strings.TrimPrefix(strings.TrimSpace(mdl), "#")
		kv := strings.SplitN(mdl, ":", 2)
		if len(kv) != 2 {
			continue
		}
		value := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(kv[1]), ";"))
		switch strings.ToUpper(kv[0]) {
		case "TITLE":
			m.title = value
		case "ARTIST":
			m.artist = value
		case "MUSIC":
			m.music = value
		case "OFFSET":
			offs, err := strconv.ParseFloat(value, 64)
			if nil != err {
				return m, fmt.Errorf("unable to parse offset: %w", err)
			}
			m.offset = offs
		case "BPMS":
			bpms, err := parseBpms(strings.ReplaceAll(value, "\n", ""))
			if nil != err {
				return m, err
			}
			m.bpms = bpms
		}
	}
	if nil == m.bpms {
		return m, fmt.Errorf("%w: missing #BPMS", game.ErrInvalidTempo)
	}
	return m, nil
}

func (p *SMParser) ParseDifficulties(file string) ([]Difficulty, error) {
	data, err := os.ReadFile(file)
	if nil != err {
		return nil, err
	}

	str := strings.ReplaceAll(string(data), "\r", "")
	sections := strings.Split(str, "#NOTES:")
	meta, err := parseMeta(sections[0])
	if nil != err {
		return nil, fmt.Errorf("unable to parse %s: %w", file, err)
	}

	difficulties := []Difficulty{}
	for _, section := range sections[1:] {
		lines := strings.SplitN(section, "\n", 7)
		if len(lines) < 7 {
			continue
		}
		chartType := strings.TrimSuffix(strings.TrimSpace(lines[1]), ":")
		nKeys, ok := NKeyMap[chartType]
		if !ok || nKeys > game.MaxLanes {
			continue
		}
		d := Difficulty{
			Name:  strings.TrimSuffix(strings.TrimSpace(lines[3]), ":"),
			Meter: strings.TrimSuffix(strings.TrimSpace(lines[4]), ":"),
			Lanes: nKeys,
		}
		d.Chart, err = buildChart(meta, lines[6], nKeys)
		if nil != err {
			return nil, fmt.Errorf("unable to parse %s %s: %w", file, d.Name, err)
		}
		difficulties = append(difficulties, d)
	}
	return difficulties, nil
}

func buildChart(meta smMeta, section string, nKeys int) (*game.Chart, error) {
	chart, err := game.NewChart(meta.title, meta.artist, meta.music, meta.bpms[0].bpm)
	if nil != err {
		return nil, err
	}

	// Start time of beat 0
	base := -meta.offset * 1000
	at := func(beat float64) int64 {
		return int64(math.Round(base + msAtBeat(meta.bpms, beat)))
	}

	// The grid restarts at a tempo change, so one at the first beat lines
	// the grid up with the music.
	if at(0) > 0 {
		if err := chart.AddTempoChange(game.TempoChange{Timestamp: at(0), NewBpm: meta.bpms[0].bpm}); nil != err {
			return nil, err
		}
	}
	for _, b := range meta.bpms[1:] {
		ts := at(b.beat)
		if ts < 0 {
			continue
		}
		if err := chart.AddTempoChange(game.TempoChange{Timestamp: ts, NewBpm: b.bpm}); nil != err {
			return nil, err
		}
	}

	notes := []game.Note{}
	heads := make([]int, nKeys)
	for i := range heads {
		heads[i] = -1
	}

	section = strings.SplitN(section, ";", 2)[0]
	for m, block := range strings.Split(section, ",") {
		rows := []string{}
		for _, l := range strings.Split(block, "\n") {
			l = strings.TrimSpace(l)
			if strings.HasPrefix(l, "//") {
				continue
			}
			if len(l) == nKeys {
				rows = append(rows, l)
			}
		}

		// Beat count is 4 per block
		rowCount := int64(len(rows))
		for i, row := range rows {
			beat := new(big.Rat).Add(big.NewRat(int64(m*4), 1), big.NewRat(int64(i*4), rowCount))
			b, _ := beat.Float64()
			ts := at(b)

			for col, c := range []byte(row) {
				switch c {
				case '1':
					notes = append(notes, game.Note{Type: game.Normal, Lane: col, Timestamp: ts})
				case '2', '4':
					heads[col] = len(notes)
					notes = append(notes, game.Note{Type: game.Long, Lane: col, Timestamp: ts})
				case '3':
					// This is a release note of a previous head
					if h := heads[col]; h >= 0 {
						notes[h].Duration = ts - notes[h].Timestamp
						heads[col] = -1
					}
				}
			}
		}
	}

	for _, n := range notes {
		if n.Timestamp < 0 {
			continue
		}
		if n.Type == game.Long && n.Duration == 0 {
			n.Type = game.Normal
		}
		if _, err := chart.Insert(n); nil != err {
			return nil, err
		}
	}
	return chart, nil
}
