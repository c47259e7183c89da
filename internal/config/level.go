package config

import (
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
)

// levelFlag is the --log-level value. It accepts whatever the logger
// understands and keeps the canonical name.
type levelFlag struct {
	name string
}

var _ pflag.Value = (*levelFlag)(nil)

func (l *levelFlag) Set(s string) error {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return err
	}
	l.name = lvl.String()
	return nil
}

func (l *levelFlag) String() string {
	return l.name
}

func (l *levelFlag) Type() string {
	return "level"
}
