package imagefx

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ErrNotImage is returned for files no registered decoder understands.
var ErrNotImage = errors.New("not a supported image")

const jpegQuality = 85

// Load decodes a png, jpeg, bmp or webp file.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if errors.Is(err, image.ErrFormat) {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrNotImage)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

// Ratio returns height over width, the aspect a post is laid out with.
func Ratio(r image.Rectangle) float64 {
	if r.Dx() == 0 {
		return 0
	}
	return float64(r.Dy()) / float64(r.Dx())
}

// Export filters the image at src with s and writes it to dst as JPEG. It
// returns the aspect ratio of the written image.
func Export(src, dst string, s Settings) (float64, error) {
	img, err := Load(src)
	if err != nil {
		return 0, err
	}
	out := Apply(img, s)

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, fmt.Errorf("creating image directory: %w", err)
	}
	f, err := os.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("creating image: %w", err)
	}
	if err := jpeg.Encode(f, out, &jpeg.Options{Quality: jpegQuality}); err != nil {
		f.Close()
		return 0, fmt.Errorf("encoding image: %w", err)
	}
	if err := f.Close(); err != nil {
		return 0, err
	}
	return Ratio(out.Bounds()), nil
}
