package visualizer

import (
	"math"

	"github.com/charmbracelet/lipgloss"
)

// Rect is a bar rectangle in container coordinates. Y grows downwards.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Bar is one rendered column of the visualizer.
type Bar struct {
	Offset       int // signed distance from the centre bar
	Rect         Rect
	CornerRadius float64
	Color        lipgloss.Color
}

type geometry struct {
	barWidth float64
	spacing  float64
	width    float64
	height   float64
}

func (g geometry) valid() bool {
	return math.Round(g.barWidth) > 0 && g.spacing >= 0 && g.width > 0 && g.height > 0
}

func (g geometry) step() float64 {
	return g.barWidth + g.spacing
}

// frame computes the rectangle of the bar at offset p for energy v. Bars lose
// amplitude linearly with distance from the centre.
func (g geometry) frame(p int, v float64) Rect {
	mag := math.Abs(float64(p))
	maxHeight := (1 - mag*g.step()/g.width/2) * g.height / 2
	h := v * maxHeight
	return Rect{
		X:      math.Floor(g.width/2) + float64(p)*g.step() - g.barWidth/2,
		Y:      math.Floor(g.height/2) - h,
		Width:  g.barWidth,
		Height: h * 2,
	}
}

// offsets returns bar offsets in storage order: 0, -1, +1, -2, +2, ...
// The requested count is rounded up to the next odd number, so a container
// narrower than one step still gets its centre bar.
func (g geometry) offsets() []int {
	if !g.valid() {
		return nil
	}
	remaining := int(g.width / g.step())

	out := []int{0}
	remaining--
	for p := 1; remaining > 0; p++ {
		out = append(out, -p, p)
		remaining -= 2
	}
	return out
}

// storageIndex maps a bar offset to its index in storage order.
func storageIndex(p int) int {
	switch {
	case p == 0:
		return 0
	case p < 0:
		return -p*2 - 1
	default:
		return p * 2
	}
}

func cornerRadius(configured, barWidth float64) float64 {
	if configured < 0 || configured > barWidth/2 {
		return math.Floor(barWidth / 3)
	}
	return configured
}
