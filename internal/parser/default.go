package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"git.lost.host/meutraa/eote/internal/game"
)

// DefaultParser reads and writes the editor's own JSON chart files.
type DefaultParser struct{}

func (p *DefaultParser) Parse(file string) ([]*game.Chart, error) {
	data, err := os.ReadFile(file)
	if nil != err {
		return nil, err
	}
	var chart game.Chart
	if err := json.Unmarshal(data, &chart); nil != err {
		return nil, fmt.Errorf("unable to parse %s: %w", file, err)
	}
	return []*game.Chart{&chart}, nil
}

// Encode writes the chart as indented JSON.
func (p *DefaultParser) Encode(w io.Writer, chart *game.Chart) error {
	data, err := json.Marshal(chart)
	if nil != err {
		return fmt.Errorf("unable to marshal chart: %w", err)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "  "); nil != err {
		return err
	}
	out.WriteByte('\n')
	_, err = out.WriteTo(w)
	return err
}

// Write replaces file with the chart. The file is written next to the
// destination first so an interrupted save leaves the old chart intact.
func (p *DefaultParser) Write(file string, chart *game.Chart) error {
	tmp, err := os.CreateTemp(filepath.Dir(file), filepath.Base(file)+".*.tmp")
	if nil != err {
		return fmt.Errorf("unable to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := p.Encode(tmp, chart); nil != err {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); nil != err {
		return err
	}
	if err := os.Rename(tmp.Name(), file); nil != err {
		return fmt.Errorf("unable to replace %s: %w", file, err)
	}
	chart.MarkClean()
	return nil
}
