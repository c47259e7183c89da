package meter

import "sync"

// DefaultWindow is the number of frames a Tap measures over.
const DefaultWindow = 1024

// Tap keeps the most recent PCM written to it so the level can be sampled
// from another goroutine. It is an io.Writer.
type Tap struct {
	mu       sync.Mutex
	buf      []byte
	w        int   // write position
	len      int   // current fill level
	written  int64 // total bytes written, for frame alignment
	channels int
	window   int
}

// NewTap creates a tap for interleaved 16-bit PCM with the given channel
// count, measuring over the last window frames.
func NewTap(channels, window int) *Tap {
	if channels < 1 {
		channels = 1
	}
	if window < 1 {
		window = DefaultWindow
	}
	return &Tap{
		buf:      make([]byte, window*channels*2*2),
		channels: channels,
		window:   window,
	}
}

// Write appends PCM, overwriting the oldest data once full.
func (t *Tap) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	size := len(t.buf)
	for _, b := range p {
		t.buf[t.w] = b
		t.w = (t.w + 1) % size
	}
	t.len += len(p)
	if t.len > size {
		t.len = size
	}
	t.written += int64(len(p))
	return len(p), nil
}

// Recent returns the most recent whole frames, up to the window size.
func (t *Tap) Recent() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()

	frameSize := t.channels * 2
	tail := int(t.written % int64(frameSize))
	n := t.window*frameSize + tail
	if n > t.len {
		n = t.len
	}
	if n <= tail {
		return nil
	}

	size := len(t.buf)
	out := make([]byte, n)
	start := (t.w - n + size) % size
	for i := range n {
		out[i] = t.buf[(start+i)%size]
	}
	return out[:n-tail]
}

// AveragePower returns the level of one channel over the recent window.
func (t *Tap) AveragePower(channel int) float64 {
	return AveragePower(t.Recent(), t.channels, channel)
}

// Reset drops all buffered audio.
func (t *Tap) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.w = 0
	t.len = 0
	t.written = 0
}
