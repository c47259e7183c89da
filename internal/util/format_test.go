package util

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	cases := map[time.Duration]string{
		0:                         "0:00",
		1500 * time.Millisecond:   "0:01",
		65 * time.Second:          "1:05",
		-time.Second:              "0:00",
		time.Hour + 2*time.Second: "1:00:02",
	}
	for in, want := range cases {
		if got := FormatDuration(in); got != want {
			t.Fatalf("FormatDuration(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatRemainingUsesWholeElapsedSeconds(t *testing.T) {
	got := FormatRemaining(1900*time.Millisecond, 10*time.Second)
	if got != "-0:09" {
		t.Fatalf("expected -0:09, got %q", got)
	}
	if got := FormatRemaining(0, 0); got != "-0:00" {
		t.Fatalf("expected -0:00, got %q", got)
	}
}

func TestProgressClamps(t *testing.T) {
	if got := Progress(time.Second, 4*time.Second); got != 0.25 {
		t.Fatalf("expected 0.25, got %v", got)
	}
	if got := Progress(5*time.Second, 4*time.Second); got != 1 {
		t.Fatalf("expected 1 past the end, got %v", got)
	}
	if got := Progress(time.Second, 0); got != 0 {
		t.Fatalf("expected 0 for an empty clip, got %v", got)
	}
}
