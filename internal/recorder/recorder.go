package recorder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gen2brain/malgo"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/olivier-w/timeline/internal/meter"
)

const (
	sampleRate = 44100
	channels   = 1
	bitDepth   = 16
)

// ErrNotRecording is returned by Stop when no capture is running.
var ErrNotRecording = errors.New("not recording")

// Device is a running capture stream.
type Device interface {
	Stop() error
}

// OpenFunc starts capture and delivers interleaved s16le PCM to onData.
type OpenFunc func(sampleRate, channels int, onData func(pcm []byte)) (Device, error)

// Recorder captures microphone input into WAV clips.
type Recorder struct {
	dir  string
	open OpenFunc
	now  func() time.Time

	mu        sync.Mutex
	device    Device
	pcm       []byte
	tap       *meter.Tap
	startedAt time.Time
	path      string
}

// New creates a recorder that writes clips into dir using the default
// capture device.
func New(dir string) *Recorder {
	return NewWithDevice(dir, openMalgo)
}

// NewWithDevice creates a recorder on a custom capture backend.
func NewWithDevice(dir string, open OpenFunc) *Recorder {
	return &Recorder{
		dir:  dir,
		open: open,
		now:  time.Now,
		tap:  meter.NewTap(channels, meter.DefaultWindow),
	}
}

// Start begins a new clip. Starting while recording is a no-op.
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.device != nil {
		return nil
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("creating recordings directory: %w", err)
	}

	r.pcm = r.pcm[:0]
	r.tap.Reset()
	r.startedAt = r.now()
	r.path = filepath.Join(r.dir, clipName(r.startedAt))

	dev, err := r.open(sampleRate, channels, r.write)
	if err != nil {
		return fmt.Errorf("starting capture: %w", err)
	}
	r.device = dev
	log.Debug("recording started", "path", r.path)
	return nil
}

func (r *Recorder) write(pcm []byte) {
	r.mu.Lock()
	r.pcm = append(r.pcm, pcm...)
	r.mu.Unlock()
	r.tap.Write(pcm)
}

// Stop ends the clip and writes it to disk, returning its path.
func (r *Recorder) Stop() (string, error) {
	r.mu.Lock()
	dev := r.device
	r.device = nil
	r.mu.Unlock()

	if dev == nil {
		return "", ErrNotRecording
	}
	if err := dev.Stop(); err != nil {
		log.Warn("stopping capture device", "err", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := writeWAV(r.path, r.pcm); err != nil {
		return "", err
	}
	log.Info("recording saved", "path", r.path, "bytes", len(r.pcm))
	return r.path, nil
}

// Recording reports whether capture is running.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.device != nil
}

// Elapsed returns the length of the current clip.
func (r *Recorder) Elapsed() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	frames := len(r.pcm) / (channels * bitDepth / 8)
	return time.Duration(frames) * time.Second / sampleRate
}

// Size returns the number of PCM bytes captured so far.
func (r *Recorder) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pcm)
}

// AveragePower returns the recent input level in dBFS.
func (r *Recorder) AveragePower(channel int) float64 {
	return r.tap.AveragePower(channel)
}

// clipName names a clip after its start time, keeping the name free of
// characters some file systems reject.
func clipName(t time.Time) string {
	return strings.ReplaceAll(t.Format(time.RFC3339), ":", "-") + ".wav"
}

func writeWAV(path string, pcm []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating clip: %w", err)
	}

	enc := wav.NewEncoder(f, sampleRate, bitDepth, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           make([]int, len(pcm)/2),
		SourceBitDepth: bitDepth,
	}
	for i := range buf.Data {
		buf.Data[i] = int(int16(uint16(pcm[i*2]) | uint16(pcm[i*2+1])<<8))
	}

	if err := enc.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("encoding clip: %w", err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("finalizing clip: %w", err)
	}
	return f.Close()
}

type malgoDevice struct {
	ctx    *malgo.AllocatedContext
	device *malgo.Device
}

func (d *malgoDevice) Stop() error {
	err := d.device.Stop()
	d.device.Uninit()
	if uerr := d.ctx.Uninit(); uerr != nil && err == nil {
		err = uerr
	}
	d.ctx.Free()
	return err
}

func openMalgo(rate, chans int, onData func(pcm []byte)) (Device, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("initializing audio context: %w", err)
	}

	cfg := malgo.DefaultDeviceConfig(malgo.Capture)
	cfg.Capture.Format = malgo.FormatS16
	cfg.Capture.Channels = uint32(chans)
	cfg.SampleRate = uint32(rate)
	cfg.Alsa.NoMMap = 1

	device, err := malgo.InitDevice(ctx.Context, cfg, malgo.DeviceCallbacks{
		Data: func(_, input []byte, _ uint32) {
			onData(input)
		},
	})
	if err != nil {
		ctx.Uninit()
		ctx.Free()
		return nil, fmt.Errorf("initializing capture device: %w", err)
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		ctx.Uninit()
		ctx.Free()
		return nil, fmt.Errorf("starting capture device: %w", err)
	}
	return &malgoDevice{ctx: ctx, device: device}, nil
}
