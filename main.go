package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/olivier-w/timeline/internal/config"
	"github.com/olivier-w/timeline/internal/logging"
	"github.com/olivier-w/timeline/internal/recorder"
	"github.com/olivier-w/timeline/internal/timeline"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := config.NewFlags("timeline")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	closeLog, err := logging.Setup(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	var path string
	if len(flags.Args) > 0 {
		path = flags.Args[0]
	}

	a := app{
		cfg:      cfg,
		timeline: timeline.NewController(cfg.User),
		recorder: recorder.New(cfg.RecordingsDir),
		open:     openPlayback,
	}
	log.Info("starting", "user", cfg.User, "recordings", cfg.RecordingsDir)

	program := tea.NewProgram(newStartupModel(a, path), tea.WithAltScreen())
	_, err = program.Run()
	return err
}

// loadConfig reads the config file and applies flag overrides. Only an
// explicitly named file has to exist.
func loadConfig(flags *config.Flags) (*config.Config, error) {
	cfg, err := config.Load(flags.ConfigPath)
	if err != nil && (flags.ConfigSet() || !errors.Is(err, fs.ErrNotExist)) {
		return nil, err
	}
	flags.Apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
