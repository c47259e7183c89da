package visualizer

import (
	"sync"
	"time"
)

// Timer is a handle to a scheduled callback.
type Timer interface {
	// Stop cancels the timer. It never blocks on a running callback and is
	// safe to call more than once.
	Stop()
}

// Scheduler runs fn after each interval until the returned Timer is stopped.
// A non-repeating schedule fires once.
type Scheduler interface {
	Schedule(interval time.Duration, repeating bool, fn func()) Timer
}

// minInterval keeps time.NewTicker away from non-positive durations.
const minInterval = time.Millisecond

// TickerScheduler fires callbacks from a dedicated goroutine per timer.
type TickerScheduler struct{}

// Schedule implements Scheduler.
func (TickerScheduler) Schedule(interval time.Duration, repeating bool, fn func()) Timer {
	if interval < minInterval {
		interval = minInterval
	}
	t := &tickerTimer{done: make(chan struct{})}
	go t.run(interval, repeating, fn)
	return t
}

type tickerTimer struct {
	once sync.Once
	done chan struct{}
}

func (t *tickerTimer) Stop() {
	t.once.Do(func() { close(t.done) })
}

func (t *tickerTimer) run(interval time.Duration, repeating bool, fn func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.done:
			return
		case <-ticker.C:
		}

		// Stop may have raced with the tick.
		select {
		case <-t.done:
			return
		default:
		}

		fn()
		if !repeating {
			t.Stop()
			return
		}
	}
}
