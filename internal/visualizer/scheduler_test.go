package visualizer

import (
	"testing"
	"time"
)

func TestTickerSchedulerFiresOnce(t *testing.T) {
	fired := make(chan struct{}, 4)
	TickerScheduler{}.Schedule(time.Millisecond, false, func() {
		fired <- struct{}{}
	})

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("expected one-shot timer to fire")
	}

	select {
	case <-fired:
		t.Fatal("expected one-shot timer to fire only once")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestTickerSchedulerStopHaltsRepeats(t *testing.T) {
	fired := make(chan struct{}, 64)
	timer := TickerScheduler{}.Schedule(time.Millisecond, true, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("expected repeating timer to fire")
	}

	timer.Stop()
	timer.Stop()
	time.Sleep(5 * time.Millisecond)
	for len(fired) > 0 {
		<-fired
	}

	select {
	case <-fired:
		t.Fatal("expected no ticks after stop")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestVisualizerDecaysOnTickerScheduler(t *testing.T) {
	v := New(DefaultConfig(), TickerScheduler{})
	defer v.Close()
	v.Resize(100, 50)
	v.AddValue(-40)

	deadline := time.Now().Add(2 * time.Second)
	for v.Running() {
		if time.Now().After(deadline) {
			t.Fatal("expected decay loop to finish")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if n := len(v.History()); n == 0 {
		t.Fatal("expected ticks to fill history")
	}
}
