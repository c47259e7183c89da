package ui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/timeline/internal/visualizer"
)

// scheduledMsg carries a timer callback onto the Bubbletea loop.
type scheduledMsg struct {
	from *LoopScheduler
	fn   func()
}

// LoopScheduler is a visualizer.Scheduler whose callbacks run inside Update,
// so the visualizer only ever changes on the UI goroutine. Timers tick on
// their own goroutines and hand the callback over a channel.
type LoopScheduler struct {
	fires chan func()
	done  chan struct{}
	once  sync.Once
}

var _ visualizer.Scheduler = (*LoopScheduler)(nil)

// NewLoopScheduler creates a scheduler with a small backlog. Ticks that
// arrive while the backlog is full are dropped.
func NewLoopScheduler() *LoopScheduler {
	return &LoopScheduler{fires: make(chan func(), 8), done: make(chan struct{})}
}

// Schedule implements visualizer.Scheduler.
func (s *LoopScheduler) Schedule(interval time.Duration, repeating bool, fn func()) visualizer.Timer {
	return visualizer.TickerScheduler{}.Schedule(interval, repeating, func() {
		select {
		case s.fires <- fn:
		default:
		}
	})
}

// Wait returns a command that delivers the next pending callback. It yields
// nothing once the scheduler is closed.
func (s *LoopScheduler) Wait() tea.Cmd {
	fires, done := s.fires, s.done
	return func() tea.Msg {
		select {
		case fn := <-fires:
			return scheduledMsg{from: s, fn: fn}
		case <-done:
			return nil
		}
	}
}

// Close releases the pending Wait.
func (s *LoopScheduler) Close() {
	s.once.Do(func() { close(s.done) })
}

// Run executes a delivered callback and waits for the next one. Callbacks
// from another scheduler are dropped without waiting again.
func (s *LoopScheduler) Run(msg scheduledMsg) tea.Cmd {
	if msg.from != s {
		return nil
	}
	if msg.fn != nil {
		msg.fn()
	}
	return s.Wait()
}
