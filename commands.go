package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"git.lost.host/meutraa/eote/internal/config"
	"git.lost.host/meutraa/eote/internal/game"
	"git.lost.host/meutraa/eote/internal/logger"
	"git.lost.host/meutraa/eote/internal/obfuscate"
	"git.lost.host/meutraa/eote/internal/parser"
	"git.lost.host/meutraa/eote/internal/store"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

func openStore(path string) (*store.DefaultStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); nil != err {
		return nil, fmt.Errorf("unable to create database directory: %w", err)
	}
	return store.Open(path, clock.RealClock{})
}

func loadChart(file string) (*game.Chart, error) {
	charts, err := (&parser.DefaultParser{}).Parse(file)
	if nil != err {
		return nil, err
	}
	return charts[0], nil
}

func newChart(opts *config.Options, out io.Writer) error {
	if _, err := os.Stat(opts.Chart); nil == err {
		return fmt.Errorf("%s already exists", opts.Chart)
	}
	chart, err := game.NewChart(opts.Title, opts.Artist, opts.Audio, opts.Bpm)
	if nil != err {
		return err
	}
	if err := (&parser.DefaultParser{}).Write(opts.Chart, chart); nil != err {
		return err
	}
	fmt.Fprintf(out, "created %s\n", opts.Chart)
	return nil
}

func importChart(opts *config.Options, out io.Writer) error {
	log := logger.GetProjectLogger()

	p, err := parser.ForFile(opts.Source)
	if nil != err {
		return err
	}

	var chart *game.Chart
	switch psr := p.(type) {
	case *parser.SMParser:
		difficulties, err := psr.ParseDifficulties(opts.Source)
		if nil != err {
			return err
		}
		for i, d := range difficulties {
			fmt.Fprintf(out, "%2v) %3v  %5v  %vk  %v\n", i, d.Meter, d.Chart.Len(), d.Lanes, d.Name)
		}
		if opts.Difficulty < 0 || opts.Difficulty >= len(difficulties) {
			return fmt.Errorf("no difficulty %d in %s", opts.Difficulty, opts.Source)
		}
		chart = difficulties[opts.Difficulty].Chart
	case *parser.MIDIParser:
		psr.LaneCount = opts.Lanes
		psr.HoldThreshold = opts.HoldThreshold
		charts, err := psr.Parse(opts.Source)
		if nil != err {
			return err
		}
		chart = charts[0]
	default:
		charts, err := psr.Parse(opts.Source)
		if nil != err {
			return err
		}
		chart = charts[0]
	}

	if err := (&parser.DefaultParser{}).Write(opts.Chart, chart); nil != err {
		return err
	}
	log.WithFields(logrus.Fields{
		"source": opts.Source,
		"chart":  opts.Chart,
		"notes":  chart.Len(),
	}).Info("imported chart")
	fmt.Fprintf(out, "wrote %v notes to %s\n", chart.Len(), opts.Chart)
	return nil
}

func obfuscateAudio(opts *config.Options, out io.Writer) error {
	dst, err := obfuscate.File(opts.Audio, opts.Key)
	if nil != err {
		return err
	}
	logger.GetProjectLogger().WithField("file", dst).Info("obfuscated audio")
	fmt.Fprintf(out, "%s -> %s\n", opts.Audio, dst)
	return nil
}

func history(opts *config.Options, out io.Writer) error {
	chart, err := loadChart(opts.Chart)
	if nil != err {
		return err
	}
	s, err := openStore(opts.Database)
	if nil != err {
		return err
	}
	defer s.Close()

	if opts.Restore == "" {
		revisions, err := s.History(chart)
		if nil != err {
			return err
		}
		if len(revisions) == 0 {
			fmt.Fprintln(out, "no saved revisions")
		}
		for _, rev := range revisions {
			fmt.Fprintf(out, "%v  %v  %5v notes\n", rev.ID, rev.Created.Local().Format(time.RFC3339), rev.Notes)
		}
		return nil
	}

	id, err := uuid.Parse(opts.Restore)
	if nil != err {
		return fmt.Errorf("unable to parse revision id: %w", err)
	}
	restored, err := s.Restore(id)
	if nil != err {
		return err
	}
	// keep what is being replaced
	if _, err := s.Save(chart); nil != err {
		return err
	}
	if err := (&parser.DefaultParser{}).Write(opts.Chart, restored); nil != err {
		return err
	}
	fmt.Fprintf(out, "restored %v to %s\n", id, opts.Chart)
	return nil
}

func settings(opts *config.Options, out io.Writer) error {
	s, err := config.LoadSettings(opts.SettingsFile)
	if nil != err {
		return err
	}

	changed := false
	if opts.SetLanes != 0 {
		if err := s.SetLaneCount(opts.SetLanes); nil != err {
			return err
		}
		changed = true
	}
	if len(opts.SetKeys) > 0 {
		if len(opts.SetKeys) > s.LaneCount {
			return fmt.Errorf("%w: %d keys for %d lanes", game.ErrInvalidLaneCount, len(opts.SetKeys), s.LaneCount)
		}
		copy(s.KeyBindings, opts.SetKeys)
		changed = true
	}
	if changed {
		if err := config.SaveSettings(opts.SettingsFile, s); nil != err {
			return err
		}
	}

	fmt.Fprintf(out, "lanes: %v\nkeys:  %q\n", s.LaneCount, s.KeyBindings)
	for _, mode := range []game.Mode{game.NormalMode, game.HardMode, game.SuperMode} {
		cfg, err := s.ConfigFor(mode)
		if nil != err {
			return err
		}
		fmt.Fprintf(out, "%-7v %v\n", mode, cfg.Windows())
	}
	return nil
}
