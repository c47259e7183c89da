package imagefx

import (
	"image"
	"image/draw"
	"math"

	"github.com/disintegration/gift"
)

// Control describes one adjustable filter.
type Control struct {
	Name     string
	Min, Max float64
	Step     float64
	Neutral  float64
}

// Controls lists the filters in the order they are applied.
var Controls = []Control{
	{Name: "exposure", Min: -2, Max: 2, Step: 0.1},
	{Name: "hue", Min: -math.Pi, Max: math.Pi, Step: 0.1},
	{Name: "bloom", Min: 0, Max: 1, Step: 0.05},
	{Name: "gamma", Min: 0.25, Max: 3, Step: 0.05, Neutral: 1},
	{Name: "gloom", Min: 0, Max: 1, Step: 0.05},
	{Name: "sharpen", Min: 0, Max: 2, Step: 0.1},
}

const (
	exposure = iota
	hue
	bloom
	gamma
	gloom
	sharpen
)

// glowSigma is the blur radius bloom and gloom spread highlights over.
const glowSigma = 10

// Settings holds one value per entry of Controls.
type Settings [6]float64

// DefaultSettings returns settings that leave an image unchanged.
func DefaultSettings() Settings {
	var s Settings
	for i, c := range Controls {
		s[i] = c.Neutral
	}
	return s
}

// Adjust moves control i by steps, staying inside its range.
func (s *Settings) Adjust(i, steps int) {
	c := Controls[i]
	v := s[i] + float64(steps)*c.Step
	v = math.Round(v/c.Step) * c.Step
	s[i] = math.Max(c.Min, math.Min(c.Max, v))
}

// Identity reports whether s leaves an image unchanged.
func (s Settings) Identity() bool {
	return s == DefaultSettings()
}

// Apply runs the filter chain over src: exposure, hue, bloom, gamma, gloom,
// then unsharp mask. Neutral stages are skipped, so with default settings the
// result may share pixels with src.
func Apply(src image.Image, s Settings) *image.NRGBA {
	img := toNRGBA(src)

	if ev := s[exposure]; ev != 0 {
		k := float32(math.Exp2(ev))
		img = run(img, gift.ColorFunc(func(r, g, b, a float32) (float32, float32, float32, float32) {
			return clampf(r * k), clampf(g * k), clampf(b * k), a
		}))
	}
	if angle := s[hue]; angle != 0 {
		img = run(img, gift.Hue(float32(angle*180/math.Pi)))
	}
	if i := s[bloom]; i > 0 {
		img = blend(img, run(img, gift.GaussianBlur(glowSigma)), func(base, glow float64) float64 {
			return base + i*glow
		})
	}
	if p := s[gamma]; p != 1 && p > 0 {
		// gift brightens for gamma > 1; a power curve does the opposite.
		img = run(img, gift.Gamma(float32(1/p)))
	}
	if i := s[gloom]; i > 0 {
		img = blend(img, run(img, gift.GaussianBlur(glowSigma)), func(base, glow float64) float64 {
			return base*(1-i) + i*math.Min(base, glow)
		})
	}
	if amount := s[sharpen]; amount > 0 {
		img = run(img, gift.UnsharpMask(2.5, float32(amount), 0))
	}
	return img
}

func run(src *image.NRGBA, filters ...gift.Filter) *image.NRGBA {
	g := gift.New(filters...)
	dst := image.NewNRGBA(g.Bounds(src.Bounds()))
	g.Draw(dst, src)
	return dst
}

// blend mixes the colour channels of glow into base pixel by pixel. Both
// images share bounds.
func blend(base, glow *image.NRGBA, mix func(base, glow float64) float64) *image.NRGBA {
	out := image.NewNRGBA(base.Bounds())
	for i := 0; i < len(base.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			v := mix(float64(base.Pix[i+c])/255, float64(glow.Pix[i+c])/255)
			out.Pix[i+c] = uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
		}
		out.Pix[i+3] = base.Pix[i+3]
	}
	return out
}

func toNRGBA(src image.Image) *image.NRGBA {
	if img, ok := src.(*image.NRGBA); ok && img.Rect.Min == (image.Point{}) {
		return img
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

func clampf(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
