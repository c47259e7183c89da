package ui

import (
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/harmonica"
)

// slider shows the playback position. It eases towards its target with a
// spring stepped once per meter tick.
type slider struct {
	bar     progress.Model
	spring  harmonica.Spring
	pos     float64
	vel     float64
	target  float64
	enabled bool
}

func newSlider() slider {
	return slider{
		bar: progress.New(
			progress.WithScaledGradient("#FF8C00", "#FF5F1F"),
			progress.WithoutPercentage(),
		),
		spring:  harmonica.NewSpring(harmonica.FPS(int(1/meterInterval.Seconds())), 12.0, 1.0),
		enabled: true,
	}
}

func clampRatio(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func (s *slider) setTarget(v float64) {
	s.target = clampRatio(v)
}

// snap jumps straight to v.
func (s *slider) snap(v float64) {
	s.target = clampRatio(v)
	s.pos = s.target
	s.vel = 0
}

func (s *slider) step() {
	s.pos, s.vel = s.spring.Update(s.pos, s.vel, s.target)
	s.pos = clampRatio(s.pos)
}

func (s slider) view(width int) string {
	if width < 10 {
		width = 10
	}
	s.bar.Width = width
	if !s.enabled {
		s.bar.Full = '─'
		s.bar.Empty = '─'
	}
	return s.bar.ViewAs(s.pos)
}
