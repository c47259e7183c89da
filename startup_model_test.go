package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/timeline/internal/config"
	"github.com/olivier-w/timeline/internal/player"
	"github.com/olivier-w/timeline/internal/timeline"
	"github.com/olivier-w/timeline/internal/ui"
)

type stubPlayback struct {
	path   string
	done   chan struct{}
	closed bool
}

func (p *stubPlayback) Play()                      {}
func (p *stubPlayback) Pause()                     {}
func (p *stubPlayback) Playing() bool              { return false }
func (p *stubPlayback) Position() time.Duration    { return 0 }
func (p *stubPlayback) Duration() time.Duration    { return time.Second }
func (p *stubPlayback) SeekTo(time.Duration) error { return nil }
func (p *stubPlayback) Done() <-chan struct{}      { return p.done }
func (p *stubPlayback) AveragePower(int) float64   { return -160 }
func (p *stubPlayback) Path() string               { return p.path }
func (p *stubPlayback) Restart()                   {}
func (p *stubPlayback) Close()                     { p.closed = true }

type stubCapture struct {
	path      string
	recording bool
}

func (c *stubCapture) Recording() bool          { return c.recording }
func (c *stubCapture) Elapsed() time.Duration   { return 0 }
func (c *stubCapture) Size() int                { return 0 }
func (c *stubCapture) AveragePower(int) float64 { return -160 }

func (c *stubCapture) Start() error {
	c.recording = true
	return nil
}

func (c *stubCapture) Stop() (string, error) {
	c.recording = false
	return c.path, nil
}

// runCmds runs cmd and any batched commands concurrently, sending each
// result to out.
func runCmds(cmd tea.Cmd, out chan<- tea.Msg) {
	if cmd == nil {
		return
	}
	go func() {
		msg := cmd()
		if batch, ok := msg.(tea.BatchMsg); ok {
			for _, c := range batch {
				runCmds(c, out)
			}
			return
		}
		out <- msg
	}()
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func testApp(t *testing.T) app {
	t.Helper()
	cfg := config.Default()
	cfg.RecordingsDir = t.TempDir()
	return app{
		cfg:      cfg,
		timeline: timeline.NewController("spencer"),
		open: func(path string) (ui.Playback, error) {
			return &stubPlayback{path: path, done: make(chan struct{})}, nil
		},
	}
}

func TestStartupModelSelectionEntersOpeningPhase(t *testing.T) {
	model, cmd := newStartupModel(testApp(t), "").Update(ui.BrowserSelectedMsg{Path: "song.mp3"})
	if cmd == nil {
		t.Fatal("expected opening command")
	}

	startup, ok := model.(startupModel)
	if !ok {
		t.Fatalf("expected startupModel, got %T", model)
	}
	if startup.phase != phaseOpening {
		t.Fatalf("expected phaseOpening, got %v", startup.phase)
	}
}

func TestStartupModelNewRecordingOpensAudioScreen(t *testing.T) {
	model, cmd := newStartupModel(testApp(t), "").Update(ui.BrowserSelectedMsg{})
	if cmd == nil {
		t.Fatal("expected audio screen init command")
	}
	startup := model.(startupModel)
	if startup.phase != phaseAudio {
		t.Fatalf("expected phaseAudio, got %v", startup.phase)
	}
	if !strings.Contains(startup.View(), "New recording") {
		t.Fatalf("expected new recording screen, got:\n%s", startup.View())
	}
}

func TestStartupModelErrorReturnsToBrowsePhase(t *testing.T) {
	m := newStartupModel(testApp(t), "")
	m.phase = phaseOpening

	model, cmd := m.Update(startupResolvedMsg{err: errors.New("boom")})
	if cmd != nil {
		t.Fatal("expected no command on error return")
	}

	startup := model.(startupModel)
	if startup.phase != phaseBrowse {
		t.Fatalf("expected phaseBrowse, got %v", startup.phase)
	}
	if startup.errMsg != "boom" {
		t.Fatalf("expected error message, got %q", startup.errMsg)
	}
}

func TestStartupModelResolvedClipOpensAudioScreen(t *testing.T) {
	m := newStartupModel(testApp(t), "")
	m.phase = phaseOpening

	p := &stubPlayback{path: "/clips/memo.wav", done: make(chan struct{})}
	model, _ := m.Update(startupResolvedMsg{player: p, meta: player.Metadata{Title: "Memo"}})
	startup := model.(startupModel)
	if startup.phase != phaseAudio {
		t.Fatalf("expected phaseAudio, got %v", startup.phase)
	}
	if !strings.Contains(startup.View(), "Memo") {
		t.Fatalf("expected clip title in view:\n%s", startup.View())
	}
}

func TestStartupModelLeaveReturnsToBrowserWithPost(t *testing.T) {
	a := testApp(t)
	m := newStartupModel(a, "")
	p := &stubPlayback{path: "/clips/memo.wav", done: make(chan struct{})}
	model, _ := m.Update(startupResolvedMsg{player: p, meta: player.Metadata{Title: "Memo"}})
	m = model.(startupModel)

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	m = model.(startupModel)
	if cmd == nil {
		t.Fatal("expected leave command")
	}
	model, _ = m.Update(cmd())
	m = model.(startupModel)

	if m.phase != phaseBrowse {
		t.Fatalf("expected phaseBrowse, got %v", m.phase)
	}
	if m.post == nil || m.post.Title() != "Memo" {
		t.Fatalf("expected post titled Memo, got %+v", m.post)
	}
	if len(a.timeline.Posts()) != 1 {
		t.Fatalf("expected one post on the timeline, got %d", len(a.timeline.Posts()))
	}
	if !strings.Contains(m.View(), "Added audio to Memo") {
		t.Fatalf("expected notice in view:\n%s", m.View())
	}
}

func TestStartupModelPendingPathSelectsOnInit(t *testing.T) {
	m := newStartupModel(testApp(t), "memo.wav")
	if m.Init() == nil {
		t.Fatal("expected init command")
	}
	if m.pending != "memo.wav" {
		t.Fatalf("expected pending path, got %q", m.pending)
	}
}

func TestOpenClipRejectsUnsupportedAndDirectories(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "notes.txt")
	os.WriteFile(txt, []byte("x"), 0o644)
	open := testApp(t).open

	if _, _, err := openClip(txt, open); err == nil || !strings.Contains(err.Error(), "unsupported format") {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
	if _, _, err := openClip(dir, open); err == nil || !strings.Contains(err.Error(), "is a directory") {
		t.Fatalf("expected directory error, got %v", err)
	}
	if _, _, err := openClip(filepath.Join(dir, "missing.wav"), open); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}

	wav := filepath.Join(dir, "memo.wav")
	os.WriteFile(wav, []byte("x"), 0o644)
	p, meta, err := openClip(wav, open)
	if err != nil {
		t.Fatalf("openClip returned error: %v", err)
	}
	if p.Path() != wav || meta.Title != "memo" {
		t.Fatalf("unexpected clip %q %+v", p.Path(), meta)
	}
}

func TestLoadConfigToleratesMissingDefaultFile(t *testing.T) {
	flags := config.NewFlags("timeline")
	if err := flags.Parse([]string{"--recordings", t.TempDir()}); err != nil {
		t.Fatal(err)
	}
	flags.ConfigPath = filepath.Join(t.TempDir(), "absent.yaml")
	if _, err := loadConfig(flags); err != nil {
		t.Fatalf("expected defaults when default file is missing, got %v", err)
	}

	flags = config.NewFlags("timeline")
	if err := flags.Parse([]string{"--config", filepath.Join(t.TempDir(), "absent.yaml")}); err != nil {
		t.Fatal(err)
	}
	if _, err := loadConfig(flags); err == nil {
		t.Fatal("expected error for a missing explicit config file")
	}
}

func TestClipOpenedAfterLeavingAudioScreenIsClosed(t *testing.T) {
	a := testApp(t)
	late := &stubPlayback{path: "/clips/new.wav", done: make(chan struct{})}
	a.open = func(string) (ui.Playback, error) { return late, nil }
	a.recorder = &stubCapture{path: "/clips/new.wav"}

	var model tea.Model = newStartupModel(a, "")
	model, _ = model.Update(ui.BrowserSelectedMsg{})
	model, _ = model.Update(runeKey('r'))
	model, stop := model.Update(runeKey('r'))
	if stop == nil {
		t.Fatal("expected commands after stopping the recording")
	}
	model, leave := model.Update(runeKey('q'))
	model, _ = model.Update(leave())
	if phase := model.(startupModel).phase; phase != phaseBrowse {
		t.Fatalf("expected phaseBrowse, got %v", phase)
	}

	out := make(chan tea.Msg, 16)
	runCmds(stop, out)
	deadline := time.After(2 * time.Second)
	for !late.closed {
		select {
		case msg := <-out:
			model, _ = model.Update(msg)
		case <-deadline:
			t.Fatal("expected the clip opened after leaving to be closed")
		}
	}
}

func TestStartupModelTimelineFlow(t *testing.T) {
	a := testApp(t)
	var model tea.Model = newStartupModel(a, "")

	model, cmd := model.Update(runeKey('t'))
	if cmd == nil {
		t.Fatal("expected timeline request from the browser")
	}
	model, _ = model.Update(cmd())
	if phase := model.(startupModel).phase; phase != phaseTimeline {
		t.Fatalf("expected phaseTimeline, got %v", phase)
	}

	model, _ = model.Update(ui.TimelineImageMsg{})
	if phase := model.(startupModel).phase; phase != phaseImage {
		t.Fatalf("expected phaseImage, got %v", phase)
	}

	post, err := a.timeline.CreateImagePost("Sunset", "/images/sunset.jpg", 0.5)
	if err != nil {
		t.Fatal(err)
	}
	model, _ = model.Update(ui.ImagePostedMsg{Post: post})
	m := model.(startupModel)
	if m.phase != phaseTimeline {
		t.Fatalf("expected return to the timeline, got %v", m.phase)
	}
	if view := m.View(); !strings.Contains(view, "Posted Sunset") || !strings.Contains(view, "ratio 0.50") {
		t.Fatalf("expected the new post opened:\n%s", view)
	}

	model, _ = m.Update(ui.TimelineAudioMsg{Post: post})
	m = model.(startupModel)
	if m.phase != phaseBrowse || m.post != post {
		t.Fatalf("expected browser picking audio for the post, phase %v", m.phase)
	}

	model, _ = m.Update(ui.TimelineClosedMsg{})
	if phase := model.(startupModel).phase; phase != phaseBrowse {
		t.Fatalf("expected phaseBrowse, got %v", phase)
	}
}

func TestStartupModelTimelineAsksForSignIn(t *testing.T) {
	a := testApp(t)
	a.timeline = timeline.NewController("")
	model, _ := newStartupModel(a, "").Update(ui.BrowserTimelineMsg{})
	if view := model.(startupModel).View(); !strings.Contains(view, "Sign in") {
		t.Fatalf("expected sign-in prompt:\n%s", view)
	}
}
