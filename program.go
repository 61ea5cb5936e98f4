package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"git.lost.host/meutraa/eote/internal/audio"
	"git.lost.host/meutraa/eote/internal/autosave"
	"git.lost.host/meutraa/eote/internal/config"
	"git.lost.host/meutraa/eote/internal/editor"
	"git.lost.host/meutraa/eote/internal/game"
	"git.lost.host/meutraa/eote/internal/input"
	"git.lost.host/meutraa/eote/internal/logger"
	"git.lost.host/meutraa/eote/internal/obfuscate"
	"git.lost.host/meutraa/eote/internal/parser"
	"git.lost.host/meutraa/eote/internal/render"
	"git.lost.host/meutraa/eote/internal/score"
	"git.lost.host/meutraa/eote/internal/store"
	"git.lost.host/meutraa/eote/internal/theme"
	"git.lost.host/meutraa/eote/internal/timeline"
	"github.com/eiannone/keyboard"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

const (
	framePeriod = time.Second / 60
	zoomStep    = 1.25
	seekStep    = 1000
	// silentLength pads the last note when there is no song to play.
	silentLength = 10000
)

// Transport is the audio player as the editor drives it.
type Transport interface {
	editor.Transport
	Play() error
	Pause()
	Stop() error
	Close() error
}

type Program struct {
	Parser   *parser.DefaultParser
	Scorer   *score.DefaultScorer
	Theme    *theme.DefaultTheme
	Renderer render.Renderer
	Store    store.Store
	Autosave *autosave.Autosaver

	opts      *config.Options
	log       *logrus.Entry
	chartFile string

	engine    *editor.Engine
	playhead  *editor.Playhead
	transport Transport
	keys      <-chan keyboard.KeyEvent

	cursor   int
	mode     game.Mode
	testPlay bool
	judged   map[int]bool
	message  string
}

func (p *Program) Init(opts *config.Options) error {
	// Ensure our Default implementations are used as interfaces
	p.Parser = &parser.DefaultParser{}
	p.Scorer = &score.DefaultScorer{}
	p.Theme = &theme.DefaultTheme{}
	p.Renderer = render.NewDefaultRenderer(os.Stdout)

	p.opts = opts
	p.log = logger.GetProjectLogger()
	p.chartFile = opts.Chart
	p.mode = opts.Mode

	settings, err := config.LoadSettings(opts.SettingsFile)
	if nil != err {
		return err
	}
	charts, err := p.Parser.Parse(opts.Chart)
	if nil != err {
		return err
	}
	chart := charts[0]

	p.engine, err = editor.NewEngine(chart, settings, p.log)
	if nil != err {
		return err
	}
	p.engine.SetDivision(opts.Division)

	s, err := openStore(opts.Database)
	if nil != err {
		return err
	}
	p.Store = s

	if opts.Autosave > 0 {
		p.Autosave = autosave.New(opts.Autosave)
	}

	p.transport, err = p.openAudio(chart)
	if nil != err {
		return err
	}
	p.playhead = editor.NewPlayhead(p.transport)
	return nil
}

// openAudio plays the song next to the chart. Without one, time is kept by
// the clock alone.
func (p *Program) openAudio(chart *game.Chart) (Transport, error) {
	file := p.opts.Audio
	if file == "" && chart.AudioReference() != "" {
		file = filepath.Join(filepath.Dir(p.chartFile), chart.AudioReference())
	}
	if file != "" {
		if _, err := os.Stat(file); nil == err {
			streamer, format, err := audio.Decode(file, obfuscate.DefaultKey)
			if nil != err {
				return nil, err
			}
			p.log.WithField("audio", file).Info("opened audio")
			return audio.NewTransport(audio.DefaultSpeaker{}, streamer, format, p.opts.Rate), nil
		}
		p.log.WithField("audio", file).Warn("audio not found, playing silently")
	}

	total := int64(silentLength)
	for _, n := range chart.Notes() {
		if n.End()+silentLength > total {
			total = n.End() + silentLength
		}
	}
	return audio.NewClockTransport(clock.RealClock{}, total, p.opts.Rate), nil
}

func (p *Program) Deinit() {
	if nil != p.transport {
		if err := p.transport.Close(); nil != err {
			p.log.WithError(err).Warn("unable to close audio")
		}
	}
	if nil != p.Store {
		if err := p.Store.Close(); nil != err {
			p.log.WithError(err).Warn("unable to close revision store")
		}
	}
}

func (p *Program) Run() error {
	keys, err := input.Open(128)
	if nil != err {
		return fmt.Errorf("unable to open keyboard: %w", err)
	}
	p.keys = keys
	defer func() {
		if err := input.Close(); nil != err {
			p.log.WithError(err).Warn("unable to close keyboard")
		}
	}()

	if err := p.Renderer.Init(); nil != err {
		return err
	}
	defer func() {
		// Restore the terminal state
		p.Renderer.Deinit()
	}()

	var frameErr error
	p.Renderer.RenderLoop(framePeriod, func(now time.Time) bool {
		cont := p.Update()
		if err := p.Render(); nil != err {
			frameErr = err
			return false
		}
		return cont
	})
	if nil != frameErr {
		return frameErr
	}

	if p.engine.Chart().Dirty() {
		return p.save()
	}
	return nil
}

// Update applies the key presses of this frame and moves the playhead.
func (p *Program) Update() bool {
	// get the key inputs that occured so far
	for i := len(p.keys); i > 0; i-- {
		ev := <-p.keys
		if !p.Handle(input.Translate(p.engine.Settings(), ev)) {
			return false
		}
	}

	pos := p.playhead.Sync()
	if p.playhead.Seeking() {
		p.playhead.EndSeek()
	}
	p.engine.SetPlayhead(pos)

	if nil != p.Autosave {
		select {
		case <-p.Autosave.Requests():
			if p.engine.Chart().Dirty() {
				if err := p.save(); nil != err {
					p.log.WithError(err).Error("autosave failed")
					p.message = "autosave failed"
				}
			}
		default:
		}
	}
	return true
}

func (p *Program) Render() error {
	columns, rows, err := p.Renderer.Size()
	if nil != err {
		return fmt.Errorf("unable to get terminal size: %w", err)
	}
	lanes := p.engine.Settings().LaneCount
	spacing := p.opts.Spacing
	if spacing < 1 {
		spacing = 1
	}
	for spacing > 1 && lanes*spacing+4 > rows {
		spacing--
	}

	view := p.engine.Viewport()
	view.Width = float64(columns)
	view.Height = float64(lanes * spacing)
	p.engine.SetViewport(view)

	pending := make([]bool, lanes)
	for i := range pending {
		pending[i] = p.engine.LaneState(i) == editor.Pending
	}

	extra := p.message
	if p.testPlay {
		extra = fmt.Sprintf("test play (%v)  %v", p.mode, p.message)
	}
	return render.DrawTimeline(p.Renderer, p.Theme, render.Scene{
		View:     p.engine.Viewport(),
		Chart:    p.engine.Chart(),
		Lanes:    lanes,
		Division: p.engine.Division(),
		Cursor:   p.cursor,
		Pending:  pending,
		Top:      1,
		Spacing:  spacing,
		Status: render.StatusLine(p.playhead.Position(), p.engine.Division(), view.Zoom,
			p.engine.Chart().Dirty(), extra),
	})
}

func (p *Program) save() error {
	chart := p.engine.Chart()
	if err := p.Parser.Write(p.chartFile, chart); nil != err {
		return err
	}
	rev, err := p.Store.Save(chart)
	if nil != err {
		return err
	}
	p.log.WithFields(logrus.Fields{
		"chart":    p.chartFile,
		"revision": rev.ID,
		"notes":    rev.Notes,
	}).Info("saved chart")
	p.message = "saved"
	return nil
}

// step is one grid step at the playhead, or 10ms with no snapping.
func (p *Program) step(pos int64) int64 {
	d := p.engine.Division()
	if d == timeline.None {
		return 10
	}
	beat, err := p.engine.Chart().TempoMap().BeatDuration(pos)
	if nil != err {
		return 10
	}
	return int64(beat / float64(d.Factor()))
}

func (p *Program) seek(to int64) {
	if err := p.playhead.BeginSeek(to); nil != err {
		p.log.WithError(err).Warn("unable to seek")
	}
	p.engine.SetPlayhead(p.playhead.Position())
}

func nextDivision(d timeline.Division) timeline.Division {
	if d == timeline.ThirtySecond {
		return timeline.None
	}
	return d + 1
}

// Handle applies one command. It returns false when the editor should close.
func (p *Program) Handle(cmd input.Command) bool {
	pos := p.playhead.Position()
	lane := cmd.Lane
	if lane < 0 {
		lane = p.cursor
	}

	var outcome editor.Outcome
	var err error
	switch cmd.Action {
	case input.None:
		return true
	case input.Quit:
		return false
	case input.TogglePlay:
		if p.transport.IsPlaying() {
			p.transport.Pause()
		} else {
			err = p.transport.Play()
		}
	case input.Stop:
		err = p.transport.Stop()
		p.playhead.Reset()
		p.engine.SetPlayhead(0)
	case input.StepBack, input.StepForward:
		step := p.step(pos)
		if cmd.Action == input.StepBack {
			step = -step
		}
		to, snapErr := p.engine.Snap(pos + step)
		if nil != snapErr || to == pos {
			to = pos + step
		}
		p.seek(to)
	case input.SeekBack:
		p.seek(pos - seekStep)
	case input.SeekForward:
		p.seek(pos + seekStep)
	case input.LaneUp:
		if p.cursor > 0 {
			p.cursor--
		}
	case input.LaneDown:
		if p.cursor < p.engine.Settings().LaneCount-1 {
			p.cursor++
		}
	case input.ZoomIn:
		p.engine.SetZoom(p.engine.Viewport().Zoom * zoomStep)
	case input.ZoomOut:
		p.engine.SetZoom(p.engine.Viewport().Zoom / zoomStep)
	case input.NextDivision:
		p.engine.SetDivision(nextDivision(p.engine.Division()))
	case input.Save:
		err = p.save()
	case input.ToggleTestPlay:
		p.testPlay = !p.testPlay
		p.judged = map[int]bool{}
		p.engine.Abandon()
		p.message = ""
	case input.CycleMode:
		p.mode = (p.mode + 1) % (game.SuperMode + 1)
	case input.Place:
		if p.testPlay {
			p.judge(lane, pos)
			return true
		}
		outcome, err = p.engine.PlaceNormal(lane, pos)
	case input.ToggleLong:
		if p.testPlay {
			return true
		}
		if p.engine.LaneState(lane) == editor.Pending {
			outcome, err = p.engine.EndLong(lane, pos)
		} else {
			outcome, err = p.engine.BeginLong(lane, pos)
		}
	case input.Delete:
		if p.testPlay {
			return true
		}
		outcome, err = p.engine.DeleteAt(lane, pos, p.opts.Tolerance)
	}

	if nil != err {
		p.message = err.Error()
		if !errors.Is(err, game.ErrLaneAlreadyPending) && !errors.Is(err, game.ErrLaneNotPending) {
			p.log.WithError(err).Warn("command failed")
		}
		return true
	}
	switch outcome {
	case editor.Placed, editor.LongStarted, editor.LongFinished, editor.LongNoteDiscarded, editor.Deleted:
		p.message = outcome.String()
		if nil != p.Autosave {
			p.Autosave.Touch()
		}
	case editor.NotFound:
		p.message = outcome.String()
	}
	return true
}

// judge grades a key press during test play. Timing is compared in real
// time, so a slowed down song is judged as the player hears it.
func (p *Program) judge(lane int, pos int64) {
	cfg, err := p.engine.Settings().ConfigFor(p.mode)
	if nil != err {
		p.message = err.Error()
		return
	}
	if nil == p.judged {
		p.judged = map[int]bool{}
	}
	rate := p.opts.Rate
	if rate <= 0 {
		rate = 1
	}
	hit := score.Hit{
		Lane:    lane,
		HitTime: time.Duration(float64(pos)/rate*float64(time.Millisecond)),
	}
	r, ok := p.Scorer.Judge(p.engine.Chart().Notes(), p.judged, hit, rate, cfg)
	if !ok {
		p.message = "no note"
		return
	}
	p.message = fmt.Sprintf("%v %+dms", r.Tier, r.Distance.Milliseconds())
}
