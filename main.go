package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"git.lost.host/meutraa/eote/internal/config"
	"git.lost.host/meutraa/eote/internal/logger"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); nil != err {
		logger.SetOutput(os.Stderr)
		logger.GetProjectLogger().Fatal(err)
	}
}

func run(args []string, out io.Writer) error {
	opts, err := config.Parse(args)
	if nil != err {
		return err
	}
	if err := logger.SetLevel(opts.LogLevel); nil != err {
		return err
	}

	switch opts.Command {
	case config.Edit:
		// The terminal is raw while editing, so logs go to a file.
		if err := os.MkdirAll(filepath.Dir(opts.LogFile), 0o755); nil != err {
			return fmt.Errorf("unable to create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if nil != err {
			return fmt.Errorf("unable to open log file: %w", err)
		}
		defer f.Close()
		logger.SetOutput(f)
		return edit(opts)
	case config.New:
		return newChart(opts, out)
	case config.Import:
		return importChart(opts, out)
	case config.Obfuscate:
		return obfuscateAudio(opts, out)
	case config.History:
		return history(opts, out)
	case config.Settings:
		return settings(opts, out)
	}
	return fmt.Errorf("unknown command %q", opts.Command)
}

func edit(opts *config.Options) error {
	p := &Program{}
	if err := p.Init(opts); nil != err {
		return err
	}
	defer p.Deinit()
	return p.Run()
}
