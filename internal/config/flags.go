package config

import (
	"time"

	"github.com/spf13/pflag"
)

// Flags holds the command line. Only flags the user set override the file.
type Flags struct {
	fs *pflag.FlagSet

	ConfigPath string
	Args       []string

	user          string
	recordingsDir string
	imagesDir     string
	logFile       string
	logLevel      levelFlag
	barWidth      float64
	cornerRadius  float64
	barSpacing    float64
	barColor      Color
	decaySpeed    time.Duration
	decayAmount   float64
}

// NewFlags registers the command line flags.
func NewFlags(name string) *Flags {
	d := Default()
	f := &Flags{
		fs:       pflag.NewFlagSet(name, pflag.ContinueOnError),
		logLevel: levelFlag{name: d.LogLevel},
		barColor: d.Visualizer.BarColor,
	}

	f.fs.StringVarP(&f.ConfigPath, "config", "c", DefaultPath(), "config file")
	f.fs.StringVarP(&f.user, "user", "u", d.User, "user name for posts")
	f.fs.StringVar(&f.recordingsDir, "recordings", d.RecordingsDir, "directory for recorded clips")
	f.fs.StringVar(&f.imagesDir, "images", d.ImagesDir, "directory for filtered post images")
	f.fs.StringVar(&f.logFile, "log-file", "", "write logs to this file")
	f.fs.Var(&f.logLevel, "log-level", "log level (debug, info, warn, error, fatal)")
	f.fs.Float64Var(&f.barWidth, "bar-width", d.Visualizer.BarWidth, "visualizer bar width")
	f.fs.Float64Var(&f.cornerRadius, "corner-radius", d.Visualizer.CornerRadius, "bar corner radius, negative for width/3")
	f.fs.Float64Var(&f.barSpacing, "bar-spacing", d.Visualizer.BarSpacing, "gap between bars")
	f.fs.Var(&f.barColor, "bar-color", "bar colour as #rrggbb or ANSI index")
	f.fs.DurationVar(&f.decaySpeed, "decay-speed", d.Visualizer.DecaySpeed, "interval between decay steps")
	f.fs.Float64Var(&f.decayAmount, "decay-amount", d.Visualizer.DecayAmount, "level multiplier per decay step")
	return f
}

// Parse parses args, excluding the program name.
func (f *Flags) Parse(args []string) error {
	if err := f.fs.Parse(args); err != nil {
		return err
	}
	f.Args = f.fs.Args()
	return nil
}

// ConfigSet reports whether --config was given.
func (f *Flags) ConfigSet() bool {
	return f.fs.Changed("config")
}

// Usage returns the flag help text.
func (f *Flags) Usage() string {
	return f.fs.FlagUsages()
}

// Apply copies every flag the user set into cfg.
func (f *Flags) Apply(cfg *Config) {
	set := func(name string, apply func()) {
		if f.fs.Changed(name) {
			apply()
		}
	}
	set("user", func() { cfg.User = f.user })
	set("recordings", func() { cfg.RecordingsDir = f.recordingsDir })
	set("images", func() { cfg.ImagesDir = f.imagesDir })
	set("log-file", func() { cfg.LogFile = f.logFile })
	set("log-level", func() { cfg.LogLevel = f.logLevel.name })
	set("bar-width", func() { cfg.Visualizer.BarWidth = f.barWidth })
	set("corner-radius", func() { cfg.Visualizer.CornerRadius = f.cornerRadius })
	set("bar-spacing", func() { cfg.Visualizer.BarSpacing = f.barSpacing })
	set("bar-color", func() { cfg.Visualizer.BarColor = f.barColor })
	set("decay-speed", func() { cfg.Visualizer.DecaySpeed = f.decaySpeed })
	set("decay-amount", func() { cfg.Visualizer.DecayAmount = f.decayAmount })
}
