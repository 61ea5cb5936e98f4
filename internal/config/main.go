package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"git.lost.host/meutraa/eote/internal/game"
	"git.lost.host/meutraa/eote/internal/obfuscate"
	"git.lost.host/meutraa/eote/internal/timeline"
	"gopkg.in/alecthomas/kingpin.v2"
)

const Version = "0.3.0"

type Command string

const (
	Edit      Command = "edit"
	New       Command = "new"
	Import    Command = "import"
	Obfuscate Command = "obfuscate"
	History   Command = "history"
	Settings  Command = "settings"
)

// Options is everything read from the command line.
type Options struct {
	Command Command

	LogLevel     string
	LogFile      string
	SettingsFile string
	Database     string

	// edit, new, import, history
	Chart string

	// edit
	Audio     string
	Division  timeline.Division
	Mode      game.Mode
	Rate      float64
	Autosave  time.Duration
	Spacing   int
	Tolerance float64

	// new
	Title  string
	Artist string
	Bpm    float64

	// import
	Source        string
	Difficulty    int
	Lanes         int
	HoldThreshold int64

	// obfuscate
	Key string

	// history
	Restore string

	// settings
	SetLanes int
	SetKeys  []string
}

func configDir() string {
	dir, err := os.UserConfigDir()
	if nil != err {
		return "."
	}
	return filepath.Join(dir, "eote")
}

func divisionNames() []string {
	names := []string{timeline.None.String()}
	for _, d := range timeline.Divisions {
		names = append(names, d.String())
	}
	return names
}

// Parse reads the command line, without the program name.
func Parse(args []string) (*Options, error) {
	app := kingpin.New("eote", "A terminal chart editor for lane based rhythm games.")
	app.Version(Version)

	logLevel := app.Flag("log-level", "Log level").Default("info").Enum("trace", "debug", "info", "warn", "error")
	logFile := app.Flag("log-file", "Write logs here instead of stderr").Default(filepath.Join(configDir(), "eote.log")).String()
	settingsFile := app.Flag("settings", "Game settings file").Default(filepath.Join(configDir(), "settings.yaml")).String()
	database := app.Flag("db", "Chart revision database").Default(filepath.Join(configDir(), "revisions.db")).String()

	edit := app.Command("edit", "Edit a chart").Default()
	editChart := edit.Arg("chart", "Chart file").Required().ExistingFile()
	editAudio := edit.Flag("audio", "Audio file, defaults to the chart's audio next to the chart").Short('a').String()
	editDivision := edit.Flag("division", "Initial snap division").Default(timeline.Sixteenth.String()).Short('g').Enum(divisionNames()...)
	editMode := edit.Flag("mode", "Judgement mode for test play").Default(game.NormalMode.String()).Short('m').Enum("normal", "hard", "super")
	editRate := edit.Flag("rate", "Playback rate").Default("1.0").Short('r').Float64()
	editAutosave := edit.Flag("autosave", "Save this long after the last edit, 0 to disable").Default("3s").Duration()
	editSpacing := edit.Flag("spacing", "Rows between lanes").Default("2").Short('S').Int()
	editTolerance := edit.Flag("tolerance", "Columns around the cursor a delete reaches").Default("2").Float64()

	create := app.Command("new", "Create an empty chart")
	newChart := create.Arg("chart", "Chart file to create").Required().String()
	newTitle := create.Flag("title", "Song title").Required().String()
	newArtist := create.Flag("artist", "Song artist").String()
	newAudio := create.Flag("audio", "Audio reference").String()
	newBpm := create.Flag("bpm", "Initial tempo").Default("120").Float64()

	imp := app.Command("import", "Convert a StepMania or MIDI file into a chart")
	impSource := imp.Arg("source", ".sm or .mid file").Required().ExistingFile()
	impChart := imp.Arg("chart", "Chart file to write").Required().String()
	impDifficulty := imp.Flag("difficulty", "Index of the StepMania difficulty").Default("0").Int()
	impLanes := imp.Flag("lanes", "Lanes to fold MIDI keys onto").Default("4").Int()
	impHold := imp.Flag("hold-threshold", "Shortest MIDI note in ms imported as a long note").Default("200").Int64()

	obf := app.Command("obfuscate", "Write a scrambled .bytes copy of an audio file")
	obfFile := obf.Arg("audio", "Audio file").Required().ExistingFile()
	obfKey := obf.Flag("key", "Scrambling key").Default(obfuscate.DefaultKey).String()

	hist := app.Command("history", "List or restore saved revisions of a chart")
	histChart := hist.Arg("chart", "Chart file").Required().ExistingFile()
	histRestore := hist.Flag("restore", "Revision id to write back to the chart").String()

	set := app.Command("settings", "Show or change game settings")
	setLanes := set.Flag("lanes", "Lane count").Int()
	setKeys := set.Flag("key", "Key for the next lane, repeat for each lane").Strings()

	command, err := app.Parse(args)
	if nil != err {
		return nil, err
	}

	o := &Options{
		Command:      Command(command),
		LogLevel:     *logLevel,
		LogFile:      *logFile,
		SettingsFile: *settingsFile,
		Database:     *database,
	}

	switch o.Command {
	case Edit:
		o.Chart = *editChart
		o.Audio = *editAudio
		o.Rate = *editRate
		o.Autosave = *editAutosave
		o.Spacing = *editSpacing
		o.Tolerance = *editTolerance
		if o.Division, err = timeline.ParseDivision(*editDivision); nil != err {
			return nil, err
		}
		if o.Mode, err = game.ParseMode(*editMode); nil != err {
			return nil, err
		}
		if o.Rate <= 0 {
			return nil, fmt.Errorf("rate must be positive, got %v", o.Rate)
		}
	case New:
		o.Chart = *newChart
		o.Title = *newTitle
		o.Artist = *newArtist
		o.Audio = *newAudio
		o.Bpm = *newBpm
	case Import:
		o.Source = *impSource
		o.Chart = *impChart
		o.Difficulty = *impDifficulty
		o.Lanes = *impLanes
		o.HoldThreshold = *impHold
	case Obfuscate:
		o.Audio = *obfFile
		o.Key = *obfKey
	case History:
		o.Chart = *histChart
		o.Restore = *histRestore
	case Settings:
		o.SetLanes = *setLanes
		o.SetKeys = *setKeys
	}
	return o, nil
}
