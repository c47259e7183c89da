package imagefx

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func grey(w, h int, v uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

func near(a, b uint8) bool {
	d := int(a) - int(b)
	return d >= -1 && d <= 1
}

func TestDefaultSettingsLeaveImageUnchanged(t *testing.T) {
	s := DefaultSettings()
	if !s.Identity() {
		t.Fatal("expected default settings to be the identity")
	}
	out := Apply(grey(3, 2, 90), s)
	if got := out.NRGBAAt(2, 1); got != (color.NRGBA{90, 90, 90, 255}) {
		t.Fatalf("expected unchanged pixel, got %v", got)
	}
}

func TestExposureDoublesPerStop(t *testing.T) {
	s := DefaultSettings()
	s[exposure] = 1
	out := Apply(grey(2, 2, 60), s)
	if got := out.NRGBAAt(0, 0).R; !near(got, 120) {
		t.Fatalf("expected one stop to double 60, got %d", got)
	}

	s[exposure] = 2
	out = Apply(grey(2, 2, 200), s)
	if got := out.NRGBAAt(0, 0).R; got != 255 {
		t.Fatalf("expected exposure to clip at 255, got %d", got)
	}
}

func TestGammaIsAPowerCurve(t *testing.T) {
	s := DefaultSettings()
	s[gamma] = 2
	out := Apply(grey(2, 2, 128), s)
	if got := out.NRGBAAt(1, 1).R; !near(got, 64) {
		t.Fatalf("expected power 2 to darken 128 to about 64, got %d", got)
	}
}

func TestBloomBrightensAndGloomDarkensFlatImage(t *testing.T) {
	s := DefaultSettings()
	s[bloom] = 0.5
	if got := Apply(grey(8, 8, 100), s).NRGBAAt(4, 4).R; !near(got, 150) {
		t.Fatalf("expected bloom to add half the glow, got %d", got)
	}

	s = DefaultSettings()
	s[gloom] = 1
	if got := Apply(grey(8, 8, 100), s).NRGBAAt(4, 4).R; !near(got, 100) {
		t.Fatalf("expected gloom to leave a flat image alone, got %d", got)
	}
}

func TestAdjustStaysInRange(t *testing.T) {
	s := DefaultSettings()
	s.Adjust(gamma, -100)
	if s[gamma] != Controls[gamma].Min {
		t.Fatalf("expected gamma clamped to %v, got %v", Controls[gamma].Min, s[gamma])
	}
	s.Adjust(bloom, 3)
	if s[bloom] < 0.149 || s[bloom] > 0.151 {
		t.Fatalf("expected bloom 0.15, got %v", s[bloom])
	}
	if s.Identity() {
		t.Fatal("expected adjusted settings not to be the identity")
	}
}

func TestExportWritesJPEGAndReportsRatio(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.png")
	f, err := os.Create(src)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, grey(40, 20, 30)); err != nil {
		t.Fatal(err)
	}
	f.Close()

	dst := filepath.Join(dir, "out", "post.jpg")
	s := DefaultSettings()
	s[exposure] = 1
	ratio, err := Export(src, dst, s)
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}
	if ratio != 0.5 {
		t.Fatalf("expected ratio 0.5, got %v", ratio)
	}

	img, err := Load(dst)
	if err != nil {
		t.Fatalf("reloading export: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 20 {
		t.Fatalf("unexpected exported size %v", b)
	}
}

func TestLoadRejectsNonImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrNotImage) {
		t.Fatalf("expected ErrNotImage, got %v", err)
	}
}
