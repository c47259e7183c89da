package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Color is a terminal colour that implements pflag.Value. It accepts
// "#rgb", "#rrggbb" or an ANSI palette index.
type Color string

var _ pflag.Value = (*Color)(nil)

// ParseColor parses a hexadecimal colour or ANSI index.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}

	if !strings.HasPrefix(s, "#") {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 || n > 255 {
			return "", fmt.Errorf("invalid color: %q", s)
		}
		return Color(strconv.Itoa(n)), nil
	}

	hex := s[1:]
	var r, g, b uint8
	var err error
	switch len(hex) {
	case 3:
		_, err = fmt.Sscanf(hex, "%1x%1x%1x", &r, &g, &b)
		r *= 17
		g *= 17
		b *= 17
	case 6:
		_, err = fmt.Sscanf(hex, "%2x%2x%2x", &r, &g, &b)
	default:
		return "", fmt.Errorf("invalid hexadecimal color %q", s)
	}
	if err != nil {
		return "", fmt.Errorf("invalid hexadecimal color %q: %w", s, err)
	}
	return Color(fmt.Sprintf("#%02X%02X%02X", r, g, b)), nil
}

func (c *Color) Set(s string) error {
	cc, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = cc
	return nil
}

func (c *Color) String() string {
	return string(*c)
}

func (c *Color) Type() string {
	return "color"
}

// Lipgloss returns the colour for styling.
func (c Color) Lipgloss() lipgloss.Color {
	return lipgloss.Color(c)
}

func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return c.Set(s)
}

func (c Color) MarshalYAML() (any, error) {
	return string(c), nil
}
