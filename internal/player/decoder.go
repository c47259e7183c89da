package player

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
)

// ErrUnsupportedFormat is returned for files no decoder handles.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// clip is fully decoded interleaved 16-bit audio at its native rate.
type clip struct {
	samples    []int16
	sampleRate int
	channels   int
}

// decodeFile picks a decoder by file extension and decodes the whole file.
// Clips are short, so holding them in memory keeps seeking trivial.
func decodeFile(path string) (clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return clip{}, err
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(path))
	var c clip
	switch ext {
	case ".mp3":
		c, err = decodeMP3(f)
	case ".wav":
		c, err = decodeWAV(f)
	case ".flac":
		c, err = decodeFLAC(f)
	case ".ogg":
		c, err = decodeOGG(f)
	default:
		return clip{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return clip{}, err
	}
	if c.sampleRate <= 0 || c.channels < 1 || c.channels > 2 {
		return clip{}, fmt.Errorf("%w: %d Hz, %d channels", ErrUnsupportedFormat, c.sampleRate, c.channels)
	}
	return c, nil
}

// go-mp3 always yields 16-bit stereo.
func decodeMP3(r io.Reader) (clip, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return clip{}, fmt.Errorf("decoding MP3: %w", err)
	}
	raw, err := io.ReadAll(dec)
	if err != nil {
		return clip{}, fmt.Errorf("decoding MP3: %w", err)
	}
	return clip{samples: bytesToSamples(raw), sampleRate: dec.SampleRate(), channels: 2}, nil
}

func decodeWAV(r io.ReadSeeker) (clip, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return clip{}, fmt.Errorf("invalid WAV file")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return clip{}, fmt.Errorf("reading WAV PCM data: %w", err)
	}

	depth := int(dec.BitDepth)
	samples := make([]int16, len(buf.Data))
	for i, s := range buf.Data {
		switch {
		case depth == 8:
			// 8-bit WAV is unsigned
			s = (s - 128) << 8
		case depth > 16:
			s >>= depth - 16
		}
		samples[i] = clamp16(s)
	}
	return clip{samples: samples, sampleRate: int(dec.SampleRate), channels: int(dec.NumChans)}, nil
}

func decodeFLAC(r io.Reader) (clip, error) {
	stream, err := flac.New(r)
	if err != nil {
		return clip{}, fmt.Errorf("decoding FLAC: %w", err)
	}
	defer stream.Close()

	info := stream.Info
	channels := int(info.NChannels)
	bps := int(info.BitsPerSample)
	samples := make([]int16, 0, int(info.NSamples)*channels)

	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return clip{}, fmt.Errorf("decoding FLAC frame: %w", err)
		}
		n := int(frame.Subframes[0].NSamples)
		for i := range n {
			for ch := range channels {
				s := int(frame.Subframes[ch].Samples[i])
				switch {
				case bps > 16:
					s >>= bps - 16
				case bps < 16:
					s <<= 16 - bps
				}
				samples = append(samples, clamp16(s))
			}
		}
	}
	return clip{samples: samples, sampleRate: int(info.SampleRate), channels: channels}, nil
}

func decodeOGG(r io.Reader) (clip, error) {
	data, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return clip{}, fmt.Errorf("decoding OGG: %w", err)
	}
	samples := make([]int16, len(data))
	for i, s := range data {
		samples[i] = clamp16(int(max(-1, min(1, s)) * 32767))
	}
	return clip{samples: samples, sampleRate: format.SampleRate, channels: format.Channels}, nil
}

func clamp16(s int) int16 {
	if s > 32767 {
		return 32767
	}
	if s < -32768 {
		return -32768
	}
	return int16(s)
}
