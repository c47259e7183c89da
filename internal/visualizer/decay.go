package visualizer

import (
	"math"
	"runtime"
	"sync"
	"time"
	"weak"

	"github.com/charmbracelet/lipgloss"
)

// Config holds the visualizer settings. Every field may change while the
// visualizer is live.
type Config struct {
	BarWidth     float64
	CornerRadius float64 // negative selects floor(BarWidth/3)
	BarSpacing   float64
	BarColor     lipgloss.Color
	DecaySpeed   time.Duration // interval between decay ticks
	DecayAmount  float64       // multiplier applied to the newest value per tick
}

// DefaultConfig returns the stock settings.
func DefaultConfig() Config {
	return Config{
		BarWidth:     10,
		CornerRadius: -1,
		BarSpacing:   4,
		BarColor:     lipgloss.Color("#8E8E93"),
		DecaySpeed:   10 * time.Millisecond,
		DecayAmount:  0.8,
	}
}

// LevelDecay renders recent audio levels as a symmetric bar graph. The newest
// level sits in the centre bar and ages outwards one bar per tick while it
// decays towards zero. The tick loop runs only while there is energy left to
// show.
type LevelDecay struct {
	mu sync.Mutex

	cfg    Config
	width  float64
	height float64

	bars   []Bar
	values []float64 // newest first
	newest float64

	sched   Scheduler
	timer   Timer
	cleanup runtime.Cleanup
	gen     uint64
	closed  bool
}

// New creates a visualizer that schedules its decay ticks on sched. A nil
// scheduler leaves ticking to explicit Tick calls.
func New(cfg Config, sched Scheduler) *LevelDecay {
	v := &LevelDecay{cfg: cfg, sched: sched}
	v.rebuild()
	return v
}

// Config returns the current settings.
func (v *LevelDecay) Config() Config {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cfg
}

// Configure replaces all settings at once, rebuilding at most once.
func (v *LevelDecay) Configure(cfg Config) {
	v.mu.Lock()
	defer v.mu.Unlock()

	old := v.cfg
	v.cfg = cfg

	if old.DecaySpeed != cfg.DecaySpeed {
		v.stopTimer()
	}
	switch {
	case old.BarWidth != cfg.BarWidth, old.CornerRadius != cfg.CornerRadius, old.BarSpacing != cfg.BarSpacing:
		v.rebuild()
	case old.BarColor != cfg.BarColor:
		v.recolor()
	}
}

// SetBarWidth sets the bar width and rebuilds the bars.
func (v *LevelDecay) SetBarWidth(w float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cfg.BarWidth = w
	v.rebuild()
}

// SetCornerRadius sets the bar corner radius and rebuilds the bars.
func (v *LevelDecay) SetCornerRadius(r float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cfg.CornerRadius = r
	v.rebuild()
}

// SetBarSpacing sets the gap between bars and rebuilds the bars.
func (v *LevelDecay) SetBarSpacing(s float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cfg.BarSpacing = s
	v.rebuild()
}

// SetBarColor recolours the existing bars in place.
func (v *LevelDecay) SetBarColor(c lipgloss.Color) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cfg.BarColor = c
	v.recolor()
}

// SetDecaySpeed changes the tick interval. A running loop is cancelled and
// restarts with the new interval on the next AddValue.
func (v *LevelDecay) SetDecaySpeed(d time.Duration) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cfg.DecaySpeed = d
	v.stopTimer()
}

// SetDecayAmount sets the per-tick multiplier for the newest value.
func (v *LevelDecay) SetDecayAmount(m float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cfg.DecayAmount = m
}

// Resize sets the container bounds and rebuilds the bars.
func (v *LevelDecay) Resize(width, height float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.width = width
	v.height = height
	v.rebuild()
}

// AddValue records a decibel reading as the newest level and makes sure the
// decay loop is running. Readings with no finite energy (NaN, or large
// enough to overflow) are dropped; -Inf counts as silence.
func (v *LevelDecay) AddValue(decibels float64) {
	e := Energy(decibels)
	if math.IsNaN(e) || math.IsInf(e, 0) {
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.newest = e
	v.startTimer()
}

// Tick advances the visualizer by one decay step. The scheduler calls it on
// every interval; it may also be called directly.
func (v *LevelDecay) Tick() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.tick()
}

// Close stops the decay loop for good. Later readings are ignored.
func (v *LevelDecay) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.stopTimer()
	v.closed = true
}

// Bars returns a copy of the bars in storage order.
func (v *LevelDecay) Bars() []Bar {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]Bar, len(v.bars))
	copy(out, v.bars)
	return out
}

// History returns a copy of the level history, newest first.
func (v *LevelDecay) History() []float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]float64, len(v.values))
	copy(out, v.values)
	return out
}

// Pending returns the value the next tick will insert.
func (v *LevelDecay) Pending() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.newest
}

// Running reports whether the decay loop is scheduled.
func (v *LevelDecay) Running() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.timer != nil
}

func (v *LevelDecay) geometry() geometry {
	return geometry{
		barWidth: v.cfg.BarWidth,
		spacing:  v.cfg.BarSpacing,
		width:    v.width,
		height:   v.height,
	}
}

func (v *LevelDecay) valueAt(i int) float64 {
	if i < len(v.values) {
		return v.values[i]
	}
	return 0
}

func (v *LevelDecay) rebuild() {
	g := v.geometry()
	offsets := g.offsets()
	radius := cornerRadius(v.cfg.CornerRadius, v.cfg.BarWidth)

	bars := make([]Bar, 0, len(offsets))
	for _, p := range offsets {
		bars = append(bars, Bar{
			Offset:       p,
			Rect:         g.frame(p, v.valueAt(int(math.Abs(float64(p))))),
			CornerRadius: radius,
			Color:        v.cfg.BarColor,
		})
	}
	v.bars = bars
}

func (v *LevelDecay) recolor() {
	for i := range v.bars {
		v.bars[i].Color = v.cfg.BarColor
	}
}

func (v *LevelDecay) setFrame(p int, value float64, g geometry) {
	i := storageIndex(p)
	if i >= len(v.bars) {
		return
	}
	v.bars[i].Rect = g.frame(p, value)
}

func (v *LevelDecay) tick() {
	v.values = append(v.values, 0)
	copy(v.values[1:], v.values)
	v.values[0] = v.newest

	if limit := (len(v.bars) + 1) / 2; len(v.values) > limit {
		v.values = v.values[:limit]
	}

	g := v.geometry()
	for k, value := range v.values {
		if k == 0 {
			v.setFrame(0, value, g)
			continue
		}
		v.setFrame(-k, value, g)
		v.setFrame(k, value, g)
	}

	v.newest *= v.cfg.DecayAmount

	if totalEnergy(v.values) <= SilenceEpsilon {
		v.stopTimer()
	}
}

// startTimer schedules the decay loop unless one is already running. The
// callback only holds a weak pointer, so a dropped visualizer is collected and
// its cleanup stops the timer.
func (v *LevelDecay) startTimer() {
	if v.timer != nil || v.closed || v.sched == nil {
		return
	}

	v.gen++
	gen := v.gen
	wp := weak.Make(v)

	timer := v.sched.Schedule(v.cfg.DecaySpeed, true, func() {
		if vis := wp.Value(); vis != nil {
			vis.tickFrom(gen)
		}
	})
	v.timer = timer
	v.cleanup = runtime.AddCleanup(v, func(t Timer) { t.Stop() }, timer)
}

// tickFrom ignores callbacks from timers that have since been stopped.
func (v *LevelDecay) tickFrom(gen uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.timer == nil || gen != v.gen {
		return
	}
	v.tick()
}

func (v *LevelDecay) stopTimer() {
	if v.timer == nil {
		return
	}
	v.timer.Stop()
	v.cleanup.Stop()
	v.timer = nil
}
