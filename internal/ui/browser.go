package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/olivier-w/timeline/internal/media"
)

// BrowserSelectedMsg is sent when a clip, or a new recording, is chosen.
// Path is empty for a new recording.
type BrowserSelectedMsg struct {
	Path string
}

// BrowserCancelledMsg is sent when the browser is dismissed.
type BrowserCancelledMsg struct{}

// BrowserTimelineMsg asks for the timeline screen.
type BrowserTimelineMsg struct{}

var timelineKey = key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "timeline"))

type clipItem struct {
	clip media.Clip
}

func (i clipItem) Title() string { return i.clip.Name }
func (i clipItem) Description() string {
	return fmt.Sprintf("%s  ·  %s", humanize.Bytes(uint64(i.clip.Size)), humanize.Time(time.Unix(i.clip.ModTime, 0)))
}
func (i clipItem) FilterValue() string { return i.clip.Name }

type newRecordingItem struct{}

func (i newRecordingItem) Title() string       { return "New recording" }
func (i newRecordingItem) Description() string { return "record a clip from the microphone" }
func (i newRecordingItem) FilterValue() string { return "new recording" }

// BrowserModel lists the recorded clips.
type BrowserModel struct {
	list list.Model
	err  error
}

// NewBrowser creates a browser over the clips in dir.
func NewBrowser(dir string) BrowserModel {
	clips, err := media.ScanClips(dir)
	if err != nil {
		return BrowserModel{err: fmt.Errorf("cannot read recordings: %w", err)}
	}

	items := []list.Item{newRecordingItem{}}
	for _, c := range clips {
		items = append(items, clipItem{clip: c})
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#FFFFFF"}).
		BorderLeftForeground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}).
		BorderLeftForeground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})

	l := list.New(items, delegate, 80, 20)
	l.Title = "timeline"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = headerStyle
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{timelineKey} }

	return BrowserModel{list: l}
}

// HasError returns true if the browser could not be initialized.
func (m BrowserModel) HasError() bool {
	return m.err != nil
}

// Error returns the initialization error, if any.
func (m BrowserModel) Error() error {
	return m.err
}

// SetTitle replaces the list title.
func (m *BrowserModel) SetTitle(title string) {
	m.list.Title = title
}

func (m BrowserModel) Init() tea.Cmd {
	return tea.SetWindowTitle("timeline")
}

func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.err != nil {
		if k, ok := msg.(tea.KeyMsg); ok && k.String() != "" {
			return m, cancelCmd
		}
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Don't intercept keys when filtering
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "enter":
			switch item := m.list.SelectedItem().(type) {
			case newRecordingItem:
				return m, selectCmd("")
			case clipItem:
				return m, selectCmd(item.clip.Path)
			}
		case "t":
			return m, func() tea.Msg { return BrowserTimelineMsg{} }
		case "q", "esc", "ctrl+c":
			return m, cancelCmd
		}

	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height)
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func selectCmd(path string) tea.Cmd {
	return func() tea.Msg {
		return BrowserSelectedMsg{Path: path}
	}
}

func cancelCmd() tea.Msg {
	return BrowserCancelledMsg{}
}

func (m BrowserModel) View() string {
	return m.list.View()
}
