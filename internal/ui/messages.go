package ui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/timeline/internal/player"
)

// meterInterval is how often levels and labels refresh while audio is live.
const meterInterval = 30 * time.Millisecond

type meterTickMsg struct {
	screen uint64
	seq    int
}

type playbackEndedMsg struct {
	player Playback
}

// screenIDs numbers audio screens so a clip opened for one screen is never
// handed to another.
var screenIDs atomic.Uint64

type clipOpenedMsg struct {
	screen uint64
	player Playback
	meta   player.Metadata
	err    error
}

type statusClearMsg struct {
	screen uint64
	seq    int
}

// LeaveMsg is sent when the audio screen is dismissed.
type LeaveMsg struct {
	// Posted is set when the screen closed because audio was attached.
	Posted bool
}

// Orphaned frees what msg carries if it is audio screen output that nobody
// will read. It reports whether msg was such output.
func Orphaned(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case clipOpenedMsg:
		releaseClip(msg)
		return true
	case scheduledMsg, meterTickMsg, playbackEndedMsg, statusClearMsg:
		return true
	}
	return false
}

func releaseClip(msg clipOpenedMsg) {
	if msg.player != nil {
		msg.player.Close()
	}
}

func meterCmd(screen uint64, seq int) tea.Cmd {
	return tea.Tick(meterInterval, func(time.Time) tea.Msg {
		return meterTickMsg{screen: screen, seq: seq}
	})
}

func checkDone(p Playback) tea.Cmd {
	done := p.Done()
	return func() tea.Msg {
		<-done
		return playbackEndedMsg{player: p}
	}
}

func clearStatusCmd(screen uint64, seq int) tea.Cmd {
	return tea.Tick(5*time.Second, func(time.Time) tea.Msg {
		return statusClearMsg{screen: screen, seq: seq}
	})
}

func leaveCmd(posted bool) tea.Cmd {
	return func() tea.Msg {
		return LeaveMsg{Posted: posted}
	}
}
