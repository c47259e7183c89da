package recorder

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/wav"
	"github.com/olivier-w/timeline/internal/meter"
)

type fakeDevice struct {
	onData  func([]byte)
	stopped bool
}

func (d *fakeDevice) Stop() error {
	d.stopped = true
	return nil
}

func newFakeRecorder(t *testing.T) (*Recorder, *fakeDevice) {
	t.Helper()
	dev := &fakeDevice{}
	r := NewWithDevice(t.TempDir(), func(rate, chans int, onData func([]byte)) (Device, error) {
		if rate != sampleRate || chans != channels {
			t.Fatalf("unexpected capture format %d Hz x%d", rate, chans)
		}
		dev.onData = onData
		return dev, nil
	})
	r.now = func() time.Time {
		return time.Date(2021, 3, 13, 10, 4, 5, 0, time.UTC)
	}
	return r, dev
}

func pcm16(samples ...int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

func TestClipNameUsesStartTime(t *testing.T) {
	got := clipName(time.Date(2021, 3, 13, 10, 4, 5, 0, time.UTC))
	if got != "2021-03-13T10-04-05Z.wav" {
		t.Fatalf("unexpected clip name %q", got)
	}
}

func TestStopWithoutStartFails(t *testing.T) {
	r, _ := newFakeRecorder(t)
	if _, err := r.Stop(); !errors.Is(err, ErrNotRecording) {
		t.Fatalf("expected ErrNotRecording, got %v", err)
	}
}

func TestRecordWritesWAV(t *testing.T) {
	r, dev := newFakeRecorder(t)
	if err := r.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if !r.Recording() {
		t.Fatal("expected recording after Start")
	}

	dev.onData(pcm16(-32768, 16384))
	dev.onData(pcm16(0, 100))

	if got := r.Size(); got != 8 {
		t.Fatalf("expected 8 captured bytes, got %d", got)
	}
	if got := r.AveragePower(0); got <= meter.Floor {
		t.Fatalf("expected audible input level, got %v", got)
	}

	path, err := r.Stop()
	if err != nil {
		t.Fatalf("Stop returned error: %v", err)
	}
	if !dev.stopped {
		t.Fatal("expected capture device stopped")
	}
	if r.Recording() {
		t.Fatal("expected recording to end")
	}
	if filepath.Base(path) != "2021-03-13T10-04-05Z.wav" {
		t.Fatalf("unexpected clip path %q", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening clip: %v", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("decoding clip: %v", err)
	}
	if dec.SampleRate != sampleRate || dec.NumChans != channels || dec.BitDepth != bitDepth {
		t.Fatalf("unexpected format %d Hz x%d %d-bit", dec.SampleRate, dec.NumChans, dec.BitDepth)
	}
	want := []int{-32768, 16384, 0, 100}
	if len(buf.Data) != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), len(buf.Data))
	}
	for i := range want {
		if buf.Data[i] != want[i] {
			t.Fatalf("sample %d: expected %d, got %d", i, want[i], buf.Data[i])
		}
	}
}

func TestElapsedCountsCapturedFrames(t *testing.T) {
	r, dev := newFakeRecorder(t)
	r.Start()
	dev.onData(make([]byte, sampleRate*2))
	if got := r.Elapsed(); got != time.Second {
		t.Fatalf("expected 1s elapsed, got %v", got)
	}
}

func TestStartTwiceIsNoop(t *testing.T) {
	opens := 0
	r := NewWithDevice(t.TempDir(), func(int, int, func([]byte)) (Device, error) {
		opens++
		return &fakeDevice{}, nil
	})
	r.Start()
	r.Start()
	if opens != 1 {
		t.Fatalf("expected one capture device, got %d", opens)
	}
}

func TestStartReportsDeviceError(t *testing.T) {
	r := NewWithDevice(t.TempDir(), func(int, int, func([]byte)) (Device, error) {
		return nil, errors.New("no microphone")
	})
	if err := r.Start(); err == nil {
		t.Fatal("expected capture error")
	}
	if r.Recording() {
		t.Fatal("expected no recording after failed start")
	}
}
