package player

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/olivier-w/timeline/internal/meter"
)

const (
	sampleRate   = 44100
	channelCount = 2
	bitDepth     = 2 // 16-bit = 2 bytes
	frameSize    = channelCount * bitDepth
	bytesPerSec  = sampleRate * frameSize
)

// countingReader wraps the PCM source, tracks the read position and copies
// everything handed to the audio device into the level tap.
type countingReader struct {
	reader io.ReadSeeker
	tap    io.Writer
	pos    int64
	mu     sync.Mutex
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.reader.Read(p)
	if n > 0 && cr.tap != nil {
		cr.tap.Write(p[:n])
	}
	cr.mu.Lock()
	cr.pos += int64(n)
	cr.mu.Unlock()
	return n, err
}

func (cr *countingReader) Pos() int64 {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	return cr.pos
}

func (cr *countingReader) SetPos(pos int64) {
	cr.mu.Lock()
	cr.pos = pos
	cr.mu.Unlock()
}

// Player plays one audio clip. It opens paused.
type Player struct {
	path      string
	source    io.ReadSeeker
	length    int64
	counter   *countingReader
	tap       *meter.Tap
	otoCtx    *oto.Context
	otoPlayer *oto.Player
	duration  time.Duration
	paused    bool
	finished  bool
	done      chan struct{}
	mu        sync.Mutex
	closed    bool
}

var (
	globalOtoCtx *oto.Context
	otoOnce      sync.Once
	otoInitErr   error
)

func initOto() (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channelCount,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		globalOtoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr == nil {
			<-ready
		}
	})
	return globalOtoCtx, otoInitErr
}

// New decodes the clip at path and prepares it for playback.
func New(path string) (*Player, error) {
	c, err := decodeFile(path)
	if err != nil {
		return nil, err
	}

	ctx, err := initOto()
	if err != nil {
		return nil, fmt.Errorf("opening audio device: %w", err)
	}

	p := newPlayer(path, normalize(c))
	p.otoCtx = ctx
	p.otoPlayer = ctx.NewPlayer(p.counter)

	go p.monitor()

	return p, nil
}

func newPlayer(path string, pcm []byte) *Player {
	tap := meter.NewTap(channelCount, meter.DefaultWindow)
	src := bytes.NewReader(pcm)
	length := int64(len(pcm))
	return &Player{
		path:     path,
		source:   src,
		length:   length,
		counter:  &countingReader{reader: src, tap: tap},
		tap:      tap,
		duration: time.Duration(float64(length) / float64(bytesPerSec) * float64(time.Second)),
		paused:   true,
		done:     make(chan struct{}),
	}
}

func (p *Player) monitor() {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			return
		}
		p.checkFinishedLocked()
		p.mu.Unlock()
	}
}

func (p *Player) checkFinishedLocked() {
	if p.paused || p.finished || p.counter.Pos() < p.length {
		return
	}
	p.paused = true
	p.finished = true
	if p.otoPlayer != nil {
		p.otoPlayer.Pause()
	}
	close(p.done)
}

// Path returns the file the player was opened with.
func (p *Player) Path() string {
	return p.path
}

// Done returns a channel that closes when playback reaches the end. Playing
// again after that hands out a fresh channel.
func (p *Player) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Play starts or resumes playback. A finished clip starts over.
func (p *Player) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || !p.paused || p.length == 0 {
		return
	}
	if p.finished {
		p.seekLocked(0)
	}
	p.paused = false
	if p.otoPlayer != nil {
		p.otoPlayer.Play()
	}
}

// Restart plays the clip from the beginning.
func (p *Player) Restart() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.seekLocked(0)
	p.mu.Unlock()
	p.Play()
}

// Pause pauses playback without toggling.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || p.paused {
		return
	}
	p.paused = true
	if p.otoPlayer != nil {
		p.otoPlayer.Pause()
	}
}

// Playing reports whether audio is currently being played.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.closed && !p.paused
}

// Position returns the current playback position.
func (p *Player) Position() time.Duration {
	pos := p.counter.Pos()
	secs := float64(pos) / float64(bytesPerSec)
	return time.Duration(secs * float64(time.Second))
}

// Duration returns the total duration of the clip.
func (p *Player) Duration() time.Duration {
	return p.duration
}

// SeekTo moves playback to an absolute position, clamped to the clip and
// aligned to a frame boundary. The paused state is kept.
func (p *Player) SeekTo(target time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	return p.seekLocked(clampSeekByteOffset(target, p.length))
}

func clampSeekByteOffset(target time.Duration, length int64) int64 {
	pos := int64(target.Seconds() * float64(bytesPerSec))
	if pos < 0 {
		pos = 0
	}
	if pos > length {
		pos = length
	}
	return pos - pos%frameSize
}

func (p *Player) seekLocked(pos int64) error {
	if _, err := p.source.Seek(pos, io.SeekStart); err != nil {
		return fmt.Errorf("seeking: %w", err)
	}
	p.counter.SetPos(pos)
	p.tap.Reset()

	if p.finished && pos < p.length {
		p.finished = false
		p.done = make(chan struct{})
	}

	// Recreate the Oto player to flush buffers
	if p.otoCtx != nil {
		p.otoPlayer.Pause()
		p.otoPlayer = p.otoCtx.NewPlayer(p.counter)
		if !p.paused {
			p.otoPlayer.Play()
		}
	}
	return nil
}

// AveragePower returns the level of recently played audio in dBFS.
func (p *Player) AveragePower(channel int) float64 {
	return p.tap.AveragePower(channel)
}

// Close releases the audio device. Anyone waiting on Done is woken.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	if p.otoPlayer != nil {
		p.otoPlayer.Pause()
	}
	if !p.finished {
		close(p.done)
	}
}
