package visualizer

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Each terminal cell is one unit wide and two units tall; the halves are drawn
// with block glyphs.
const cellHeight = 2

// Size returns the container bounds for a cols x rows cell area.
func Size(cols, rows int) (width, height float64) {
	return float64(cols), float64(rows * cellHeight)
}

type cell struct {
	upper, lower bool
	color        lipgloss.Color
}

func (c cell) glyph() rune {
	switch {
	case c.upper && c.lower:
		return '█'
	case c.upper:
		return '▀'
	case c.lower:
		return '▄'
	default:
		return ' '
	}
}

// Render rasterizes bars into a cols x rows block of text.
func Render(bars []Bar, cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}

	grid := make([][]cell, rows)
	for r := range grid {
		grid[r] = make([]cell, cols)
	}

	for _, b := range bars {
		c0 := int(math.Round(b.Rect.X))
		c1 := int(math.Round(b.Rect.X + b.Rect.Width))
		if c0 < 0 {
			c0 = 0
		}
		if c1 > cols {
			c1 = cols
		}
		top, bottom := b.Rect.Y, b.Rect.Y+b.Rect.Height
		for r := range rows {
			upper := lit(float64(r*cellHeight)+0.5, top, bottom)
			lower := lit(float64(r*cellHeight)+1.5, top, bottom)
			if !upper && !lower {
				continue
			}
			for c := c0; c < c1; c++ {
				grid[r][c] = cell{upper: upper, lower: lower, color: b.Color}
			}
		}
	}

	lines := make([]string, rows)
	for r, row := range grid {
		lines[r] = renderRow(row)
	}
	return strings.Join(lines, "\n")
}

func lit(center, top, bottom float64) bool {
	return center >= top && center < bottom
}

// renderRow styles runs of equally coloured cells together.
func renderRow(row []cell) string {
	var sb strings.Builder
	var run strings.Builder
	var runColor lipgloss.Color

	flush := func() {
		if run.Len() == 0 {
			return
		}
		if runColor == "" {
			sb.WriteString(run.String())
		} else {
			sb.WriteString(lipgloss.NewStyle().Foreground(runColor).Render(run.String()))
		}
		run.Reset()
	}

	for _, c := range row {
		color := c.color
		if !c.upper && !c.lower {
			color = ""
		}
		if color != runColor {
			flush()
			runColor = color
		}
		run.WriteRune(c.glyph())
	}
	flush()
	return sb.String()
}
