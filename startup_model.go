package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/olivier-w/timeline/internal/config"
	"github.com/olivier-w/timeline/internal/player"
	"github.com/olivier-w/timeline/internal/timeline"
	"github.com/olivier-w/timeline/internal/ui"
)

type startupPhase uint8

const (
	phaseBrowse startupPhase = iota
	phaseOpening
	phaseAudio
	phaseTimeline
	phaseImage
)

type startupResolvedMsg struct {
	player ui.Playback
	meta   player.Metadata
	err    error
}

// app bundles what every screen shares.
type app struct {
	cfg      *config.Config
	timeline *timeline.Controller
	recorder ui.Capture
	open     ui.OpenFunc
}

type startupModel struct {
	app     app
	browser ui.BrowserModel
	audio   ui.Model
	feed    ui.TimelineModel
	image   ui.ImagePostModel
	post    *timeline.Post
	pending string
	phase   startupPhase
	errMsg  string
	notice  string
	width   int
	height  int
	spinner spinner.Model
}

func newStartupModel(a app, path string) startupModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})

	m := startupModel{
		app:     a,
		pending: path,
		phase:   phaseBrowse,
		spinner: s,
	}
	m.browser = m.newBrowser()
	return m
}

func (m startupModel) newBrowser() ui.BrowserModel {
	b := ui.NewBrowser(m.app.cfg.RecordingsDir)
	if m.post != nil {
		b.SetTitle(fmt.Sprintf("timeline · %s (%d audio)", m.post.Title(), len(m.post.AudioComments())))
	}
	return b
}

func (m startupModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.browser.Init(), m.spinner.Tick}
	if m.pending != "" {
		path := m.pending
		cmds = append(cmds, func() tea.Msg {
			return ui.BrowserSelectedMsg{Path: path}
		})
	}
	return tea.Batch(cmds...)
}

func (m startupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		switch m.phase {
		case phaseBrowse:
			return m.updateBrowser(msg)
		case phaseAudio:
			return m.updateAudio(msg)
		case phaseTimeline:
			return m.updateFeed(msg)
		case phaseImage:
			return m.updateImage(msg)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.phase == phaseOpening {
			return m, cmd
		}
		return m, nil

	case ui.BrowserCancelledMsg:
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)

	case ui.BrowserSelectedMsg:
		m.errMsg = ""
		m.notice = ""
		if msg.Path == "" {
			return m.enterAudio(nil, player.Metadata{})
		}
		m.phase = phaseOpening
		return m, tea.Batch(m.spinner.Tick, openSelectionCmd(msg.Path, m.app.open))

	case startupResolvedMsg:
		if msg.err != nil {
			m.phase = phaseBrowse
			m.errMsg = msg.err.Error()
			return m, nil
		}
		return m.enterAudio(msg.player, msg.meta)

	case ui.LeaveMsg:
		if post := m.audio.Post(); msg.Posted && post != nil {
			m.post = post
			m.notice = "Added audio to " + post.Title()
		}
		m.phase = phaseBrowse
		m.browser = m.newBrowser()
		return m, tea.Batch(m.browser.Init(), m.sizeCmd())

	case ui.BrowserTimelineMsg:
		m.errMsg = ""
		m.notice = ""
		return m.enterTimeline("")

	case ui.TimelineClosedMsg:
		m.phase = phaseBrowse
		m.browser = m.newBrowser()
		return m, tea.Batch(m.browser.Init(), m.sizeCmd())

	case ui.TimelineAudioMsg:
		m.post = msg.Post
		m.notice = "Pick a clip or record one for " + msg.Post.Title()
		m.phase = phaseBrowse
		m.browser = m.newBrowser()
		return m, tea.Batch(m.browser.Init(), m.sizeCmd())

	case ui.TimelineImageMsg:
		m.image = ui.NewImagePost(m.app.timeline, m.app.cfg.ImagesDir)
		m.phase = phaseImage
		return m, tea.Batch(m.image.Init(), m.sizeCmd())

	case ui.ImagePostCancelledMsg:
		return m.enterTimeline("")

	case ui.ImagePostedMsg:
		return m.enterTimeline(msg.Post.ID)

	case tea.KeyMsg:
		if m.phase == phaseOpening && startupIsQuit(msg) {
			return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
		}
	}

	if m.phase != phaseAudio && ui.Orphaned(msg) {
		return m, nil
	}

	switch m.phase {
	case phaseBrowse:
		return m.updateBrowser(msg)
	case phaseAudio:
		return m.updateAudio(msg)
	case phaseTimeline:
		return m.updateFeed(msg)
	case phaseImage:
		return m.updateImage(msg)
	}
	return m, nil
}

func (m startupModel) updateFeed(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := m.feed.Update(msg)
	if feed, ok := model.(ui.TimelineModel); ok {
		m.feed = feed
	}
	return m, cmd
}

func (m startupModel) updateImage(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := m.image.Update(msg)
	if image, ok := model.(ui.ImagePostModel); ok {
		m.image = image
	}
	return m, cmd
}

// enterTimeline shows the timeline, opening the post with id when given.
func (m startupModel) enterTimeline(id string) (tea.Model, tea.Cmd) {
	m.feed = ui.NewTimeline(m.app.timeline)
	if id != "" {
		if post, ok := m.app.timeline.Find(id); ok {
			m.feed.SelectPost(id)
			m.feed.SetStatus("Posted " + post.Title())
		}
	}
	m.phase = phaseTimeline
	return m, tea.Batch(m.feed.Init(), m.sizeCmd())
}

func (m startupModel) updateBrowser(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := m.browser.Update(msg)
	if browser, ok := model.(ui.BrowserModel); ok {
		m.browser = browser
	}
	return m, cmd
}

func (m startupModel) updateAudio(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := m.audio.Update(msg)
	if audio, ok := model.(ui.Model); ok {
		m.audio = audio
	}
	return m, cmd
}

func (m startupModel) enterAudio(p ui.Playback, meta player.Metadata) (tea.Model, tea.Cmd) {
	m.audio = ui.New(ui.Options{
		Player:     p,
		Metadata:   meta,
		Recorder:   m.app.recorder,
		Open:       m.app.open,
		Timeline:   m.app.timeline,
		Post:       m.post,
		Visualizer: m.app.cfg.Visualizer.Decay(),
	})
	m.phase = phaseAudio
	return m, tea.Batch(m.audio.Init(), m.sizeCmd())
}

func (m startupModel) sizeCmd() tea.Cmd {
	if m.width == 0 && m.height == 0 {
		return nil
	}
	w, h := m.width, m.height
	return func() tea.Msg {
		return tea.WindowSizeMsg{Width: w, Height: h}
	}
}

func (m startupModel) View() string {
	switch m.phase {
	case phaseAudio:
		return m.audio.View()
	case phaseOpening:
		return m.renderOpeningView()
	case phaseTimeline:
		return m.feed.View()
	case phaseImage:
		return m.image.View()
	}

	if m.browser.HasError() {
		return "\n  timeline\n\n  " + m.browser.Error().Error() + "\n"
	}
	switch {
	case m.errMsg != "":
		return "\n  timeline\n\n  " + startupErrorStyle.Render(m.errMsg) + "\n\n" + indentBlock(m.browser.View(), "  ")
	case m.notice != "":
		return "\n  timeline\n\n  " + startupStatusStyle.Render(m.notice) + "\n\n" + indentBlock(m.browser.View(), "  ")
	}
	return m.browser.View()
}

func (m startupModel) renderOpeningView() string {
	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(startupHeaderStyle.Render("timeline"))
	b.WriteString("\n\n  ")
	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(startupStatusStyle.Render("Opening..."))
	b.WriteString("\n\n  ")
	b.WriteString(startupHelpStyle.Render("q quit"))
	b.WriteString("\n")
	return b.String()
}

func openSelectionCmd(path string, open ui.OpenFunc) tea.Cmd {
	return func() tea.Msg {
		p, meta, err := openClip(path, open)
		return startupResolvedMsg{player: p, meta: meta, err: err}
	}
}

func indentBlock(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

func startupIsQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return true
	}
	return false
}

var (
	startupHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"})
	startupStatusStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"})
	startupHelpStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#999999", Dark: "#666666"})
	startupErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#A00000", Dark: "#FF8080"})
)
