package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/olivier-w/timeline/internal/player"
	"github.com/olivier-w/timeline/internal/timeline"
	"github.com/olivier-w/timeline/internal/util"
	"github.com/olivier-w/timeline/internal/visualizer"
)

const (
	seekStep     = 5 * time.Second
	visualRows   = 6
	defaultWidth = 50
)

// Playback is the clip player driven by the audio screen.
type Playback interface {
	Play()
	Pause()
	Restart()
	Playing() bool
	Position() time.Duration
	Duration() time.Duration
	SeekTo(time.Duration) error
	Done() <-chan struct{}
	AveragePower(channel int) float64
	Path() string
	Close()
}

// Capture is the microphone recorder driven by the audio screen.
type Capture interface {
	Start() error
	Stop() (string, error)
	Recording() bool
	Elapsed() time.Duration
	Size() int
	AveragePower(channel int) float64
}

// OpenFunc opens a clip for playback.
type OpenFunc func(path string) (Playback, error)

// Options configures the audio screen.
type Options struct {
	Player     Playback // may be nil when starting a new recording
	Metadata   player.Metadata
	Recorder   Capture
	Open       OpenFunc
	Timeline   *timeline.Controller
	Post       *timeline.Post // audio is added here; nil creates a new post
	Visualizer visualizer.Config
}

// Model is the Bubbletea model for the audio screen.
type Model struct {
	id       uint64
	player   Playback
	meta     player.Metadata
	recorder Capture
	open     OpenFunc
	timeline *timeline.Controller
	post     *timeline.Post

	vis    *visualizer.LevelDecay
	sched  *LoopScheduler
	slider slider
	keys   keyMap
	help   help.Model

	meterSeq  int
	metering  bool
	elapsed   string
	remaining string

	status    string
	statusSeq int

	width  int
	closed bool
}

// New creates the audio screen.
func New(opts Options) Model {
	sched := NewLoopScheduler()
	m := Model{
		id:       screenIDs.Add(1),
		player:   opts.Player,
		meta:     opts.Metadata,
		recorder: opts.Recorder,
		open:     opts.Open,
		timeline: opts.Timeline,
		post:     opts.Post,
		vis:      visualizer.New(opts.Visualizer, sched),
		sched:    sched,
		slider:   newSlider(),
		keys:     newKeyMap(),
		help:     help.New(),
		width:    defaultWidth,
	}
	m.resizeVisualizer()
	m.refresh(false)
	m.updateButtons()
	return m
}

// Post returns the post audio was added to, if any.
func (m Model) Post() *timeline.Post {
	return m.post
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.sched.Wait(), tea.SetWindowTitle(windowTitle(m.title(), m.stateLabel())))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case scheduledMsg:
		return m, m.sched.Run(msg)

	case meterTickMsg:
		if msg.screen != m.id || !m.metering || msg.seq != m.meterSeq {
			return m, nil
		}
		m.sampleLevel()
		m.refresh(true)
		m.slider.step()
		return m, meterCmd(m.id, m.meterSeq)

	case playbackEndedMsg:
		if m.closed || msg.player != m.player || m.player.Playing() {
			return m, nil
		}
		m.stopMeter()
		m.refresh(false)
		m.updateButtons()
		return m, tea.SetWindowTitle(windowTitle(m.title(), m.stateLabel()))

	case clipOpenedMsg:
		if msg.screen != m.id {
			releaseClip(msg)
			return m, nil
		}
		if msg.err != nil {
			log.Error("opening clip", "err", msg.err)
			return m, m.setStatus("Could not open clip: " + msg.err.Error())
		}
		if m.closed {
			msg.player.Close()
			return m, nil
		}
		if m.player != nil {
			m.player.Close()
		}
		m.player = msg.player
		m.meta = msg.meta
		m.refresh(false)
		m.updateButtons()
		return m, tea.SetWindowTitle(windowTitle(m.title(), m.stateLabel()))

	case statusClearMsg:
		if msg.screen == m.id && msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.resizeVisualizer()
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if isForceQuit(msg) {
		m.teardown()
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
	}

	switch {
	case key.Matches(msg, m.keys.Leave):
		m.teardown()
		return m, leaveCmd(false)

	case key.Matches(msg, m.keys.Play):
		return m.togglePlayback()

	case key.Matches(msg, m.keys.Restart):
		return m.restart()

	case key.Matches(msg, m.keys.Record):
		return m.toggleRecording()

	case key.Matches(msg, m.keys.Back):
		return m.seekBy(-seekStep)

	case key.Matches(msg, m.keys.Forward):
		return m.seekBy(seekStep)

	case key.Matches(msg, m.keys.AddAudio):
		return m.addAudio()
	}
	return m, nil
}

func (m Model) togglePlayback() (tea.Model, tea.Cmd) {
	if m.player == nil {
		return m, nil
	}

	var cmd tea.Cmd
	if m.player.Playing() {
		m.player.Pause()
		m.stopMeter()
	} else {
		m.player.Play()
		cmd = tea.Batch(m.startMeter(), checkDone(m.player))
	}
	m.refresh(false)
	m.updateButtons()
	return m, tea.Batch(cmd, tea.SetWindowTitle(windowTitle(m.title(), m.stateLabel())))
}

func (m Model) restart() (tea.Model, tea.Cmd) {
	if m.player == nil || m.recording() {
		return m, nil
	}
	m.player.Restart()
	cmd := tea.Batch(m.startMeter(), checkDone(m.player))
	m.refresh(false)
	m.updateButtons()
	return m, tea.Batch(cmd, tea.SetWindowTitle(windowTitle(m.title(), m.stateLabel())))
}

func (m Model) toggleRecording() (tea.Model, tea.Cmd) {
	if m.recorder == nil {
		return m, nil
	}

	if m.recorder.Recording() {
		path, err := m.recorder.Stop()
		m.stopMeter()
		m.refresh(false)
		m.updateButtons()
		if err != nil {
			log.Error("saving recording", "err", err)
			return m, m.setStatus("Recording failed: " + err.Error())
		}
		return m, tea.Batch(
			m.setStatus("Saved "+filepath.Base(path)),
			openClipCmd(m.id, m.open, path),
			tea.SetWindowTitle(windowTitle(m.title(), m.stateLabel())),
		)
	}

	if err := m.recorder.Start(); err != nil {
		log.Error("starting recording", "err", err)
		return m, m.setStatus("Cannot record audio: " + err.Error())
	}
	cmd := m.startMeter()
	m.refresh(false)
	m.updateButtons()
	return m, tea.Batch(cmd, tea.SetWindowTitle(windowTitle(m.title(), m.stateLabel())))
}

// seekBy pauses before moving, like dragging the slider.
func (m Model) seekBy(delta time.Duration) (tea.Model, tea.Cmd) {
	if m.player == nil {
		return m, nil
	}
	if m.player.Playing() {
		m.player.Pause()
		m.stopMeter()
	}
	if err := m.player.SeekTo(m.player.Position() + delta); err != nil {
		return m, m.setStatus("Seek failed: " + err.Error())
	}
	m.refresh(false)
	m.updateButtons()
	return m, tea.SetWindowTitle(windowTitle(m.title(), m.stateLabel()))
}

func (m Model) addAudio() (tea.Model, tea.Cmd) {
	if m.player == nil {
		return m, nil
	}
	if m.timeline == nil {
		return m, m.setStatus("No timeline to post to")
	}

	path := m.player.Path()
	var err error
	if m.post == nil {
		m.post, err = m.timeline.CreateAudioPost(m.title(), path)
	} else {
		_, err = m.timeline.AddAudio(m.post, path)
	}
	if err != nil {
		log.Warn("adding audio", "path", path, "err", err)
		return m, m.setStatus("Could not add audio: " + err.Error())
	}
	log.Info("audio added", "post", m.post.ID, "path", path)
	m.teardown()
	return m, leaveCmd(true)
}

func openClipCmd(screen uint64, open OpenFunc, path string) tea.Cmd {
	if open == nil {
		return nil
	}
	return func() tea.Msg {
		p, err := open(path)
		if err != nil {
			return clipOpenedMsg{screen: screen, err: fmt.Errorf("%s: %w", filepath.Base(path), err)}
		}
		return clipOpenedMsg{screen: screen, player: p, meta: player.ReadMetadata(path)}
	}
}

func (m *Model) startMeter() tea.Cmd {
	m.meterSeq++
	m.metering = true
	return meterCmd(m.id, m.meterSeq)
}

func (m *Model) stopMeter() {
	m.meterSeq++
	m.metering = false
}

// sampleLevel feeds the level of whichever device is live.
func (m *Model) sampleLevel() {
	switch {
	case m.recording():
		m.vis.AddValue(m.recorder.AveragePower(0))
	case m.playing():
		m.vis.AddValue(m.player.AveragePower(0))
	}
}

func (m *Model) recording() bool {
	return m.recorder != nil && m.recorder.Recording()
}

func (m *Model) playing() bool {
	return m.player != nil && m.player.Playing()
}

// refresh recomputes the time labels and slider target.
func (m *Model) refresh(animate bool) {
	if m.recording() {
		m.elapsed = util.Unknown
		m.remaining = util.FormatDuration(m.recorder.Elapsed())
		m.slider.snap(0)
		return
	}

	var elapsed, duration time.Duration
	if m.player != nil {
		elapsed = m.player.Position()
		duration = m.player.Duration()
	}
	m.elapsed = util.FormatDuration(elapsed)
	m.remaining = util.FormatRemaining(elapsed, duration)

	ratio := util.Progress(elapsed, duration)
	if animate {
		m.slider.setTarget(ratio)
	} else {
		m.slider.snap(ratio)
	}
}

func (m *Model) updateButtons() {
	recording := m.recording()
	canPlay := !recording && m.player != nil

	m.keys.Play.SetEnabled(canPlay)
	m.keys.Restart.SetEnabled(canPlay)
	m.keys.Record.SetEnabled(!m.playing() && m.recorder != nil)
	m.keys.Back.SetEnabled(canPlay)
	m.keys.Forward.SetEnabled(canPlay)
	m.keys.AddAudio.SetEnabled(canPlay)
	m.slider.enabled = !recording
}

func (m *Model) setStatus(s string) tea.Cmd {
	m.statusSeq++
	m.status = s
	return clearStatusCmd(m.id, m.statusSeq)
}

func (m *Model) resizeVisualizer() {
	m.vis.Resize(visualizer.Size(m.contentWidth(), visualRows))
}

func (m *Model) contentWidth() int {
	w := m.width
	if w < 30 {
		w = defaultWidth
	}
	return w - 4
}

// teardown stops everything the screen started. A clip being recorded is
// still saved.
func (m *Model) teardown() {
	if m.closed {
		return
	}
	m.closed = true
	m.stopMeter()
	m.vis.Close()
	m.sched.Close()
	if m.recording() {
		if _, err := m.recorder.Stop(); err != nil {
			log.Warn("saving recording on exit", "err", err)
		}
	}
	if m.player != nil {
		m.player.Close()
	}
}

func (m Model) title() string {
	if m.meta.Title != "" {
		return m.meta.Title
	}
	if m.player != nil {
		return strings.TrimSuffix(filepath.Base(m.player.Path()), filepath.Ext(m.player.Path()))
	}
	return "New recording"
}

func (m Model) stateLabel() string {
	switch {
	case m.recording():
		return "recording"
	case m.playing():
		return "playing"
	case m.player != nil:
		return "paused"
	default:
		return "ready"
	}
}

func (m Model) View() string {
	if m.closed {
		return ""
	}

	w := m.contentWidth()

	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(headerStyle.Render("timeline"))
	b.WriteString("\n\n  ")
	b.WriteString(titleStyle.Render(m.title()))
	b.WriteString("\n")

	subtitle := m.meta.Artist
	if m.post != nil {
		if subtitle != "" {
			subtitle += "  ·  "
		}
		subtitle += "posting to " + m.post.Title()
	}
	if subtitle != "" {
		b.WriteString("  ")
		b.WriteString(artistStyle.Render(subtitle))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	bars := visualizer.Render(m.vis.Bars(), w, visualRows)
	for _, line := range strings.Split(bars, "\n") {
		b.WriteString("  ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	barWidth := w - len(m.elapsed) - len(m.remaining) - 2
	b.WriteString("  ")
	b.WriteString(timeStyle.Render(m.elapsed))
	b.WriteString(" ")
	b.WriteString(m.slider.view(barWidth))
	b.WriteString(" ")
	b.WriteString(timeStyle.Render(m.remaining))
	b.WriteString("\n\n  ")
	b.WriteString(m.renderState())
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString("  ")
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n  ")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderState() string {
	switch m.stateLabel() {
	case "recording":
		return recordingStyle.Render("●  recording  ·  " + humanize.Bytes(uint64(m.recorder.Size())))
	case "playing":
		return statusStyle.Render("▶  playing")
	case "paused":
		return statusStyle.Render("❚❚  paused")
	default:
		return statusStyle.Render("r to record")
	}
}

func windowTitle(title, state string) string {
	return title + " (" + state + ") · timeline"
}
