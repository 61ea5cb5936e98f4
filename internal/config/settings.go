package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"git.lost.host/meutraa/eote/internal/game"
	"gopkg.in/yaml.v3"
)

// LoadSettings reads game settings from a YAML file. A missing file gives
// the defaults.
func LoadSettings(path string) (*game.GameSettings, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return game.DefaultSettings(), nil
	}
	if nil != err {
		return nil, fmt.Errorf("unable to read settings: %w", err)
	}

	settings := game.DefaultSettings()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(settings); nil != err {
		return nil, fmt.Errorf("unable to parse settings: %w", err)
	}
	if err := settings.Validate(); nil != err {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return settings, nil
}

func SaveSettings(path string, settings *game.GameSettings) error {
	if err := settings.Validate(); nil != err {
		return fmt.Errorf("invalid settings: %w", err)
	}
	data, err := yaml.Marshal(settings)
	if nil != err {
		return fmt.Errorf("unable to marshal settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); nil != err {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
