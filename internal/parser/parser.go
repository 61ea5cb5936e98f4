package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"git.lost.host/meutraa/eote/internal/game"
)

type Parser interface {
	Parse(file string) ([]*game.Chart, error)
}

// Writer is implemented by parsers whose format can be saved back.
type Writer interface {
	Write(file string, chart *game.Chart) error
}

// ForFile picks a parser by file extension.
func ForFile(file string) (Parser, error) {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".json":
		return &DefaultParser{}, nil
	case ".sm":
		return &SMParser{}, nil
	case ".mid", ".midi":
		return NewMIDIParser(game.MinLanes), nil
	}
	return nil, fmt.Errorf("no parser for %q", file)
}
