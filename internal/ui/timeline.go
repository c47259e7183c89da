package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/olivier-w/timeline/internal/timeline"
)

// TimelineClosedMsg is sent when the timeline screen is dismissed.
type TimelineClosedMsg struct{}

// TimelineAudioMsg asks for a clip to be attached to Post.
type TimelineAudioMsg struct {
	Post *timeline.Post
}

// TimelineImageMsg asks for the image post screen.
type TimelineImageMsg struct{}

type timelineMode uint8

const (
	modeSignIn timelineMode = iota
	modePosts
	modePost
	modeComment
)

type postItem struct {
	post *timeline.Post
}

func (i postItem) Title() string { return i.post.Title() }
func (i postItem) Description() string {
	return fmt.Sprintf("%s · %s · %s · %d comments",
		i.post.Media.Kind, i.post.Author, humanize.Time(i.post.Timestamp), len(i.post.Comments)-1)
}
func (i postItem) FilterValue() string { return i.post.Title() }

type timelineKeys struct {
	Open    key.Binding
	Image   key.Binding
	Comment key.Binding
	Audio   key.Binding
	Back    key.Binding
}

func newTimelineKeys() timelineKeys {
	return timelineKeys{
		Open:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Image:   key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "image post")),
		Comment: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "comment")),
		Audio:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "audio comment")),
		Back:    key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("esc", "back")),
	}
}

// TimelineModel lists posts and their comments. It asks for a name first
// when nobody is signed in.
type TimelineModel struct {
	ctl      *timeline.Controller
	list     list.Model
	input    textinput.Model
	keys     timelineKeys
	mode     timelineMode
	selected string // post ID shown in modePost and modeComment
	status   string
	width    int
}

// NewTimeline creates the timeline screen over ctl.
func NewTimeline(ctl *timeline.Controller) TimelineModel {
	keys := newTimelineKeys()
	l := list.New(nil, list.NewDefaultDelegate(), 80, 20)
	l.Title = "timeline · posts"
	l.Styles.Title = headerStyle
	l.SetFilteringEnabled(true)
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{keys.Image} }

	in := textinput.New()
	in.CharLimit = 280

	m := TimelineModel{ctl: ctl, list: l, input: in, keys: keys, mode: modePosts, width: 80}
	if ctl.User() == "" {
		m.mode = modeSignIn
		m.input.Placeholder = "your name"
		m.input.Focus()
	}
	m.reload()
	return m
}

// SelectPost opens the post with id, if the timeline has it.
func (m *TimelineModel) SelectPost(id string) {
	if _, ok := m.ctl.Find(id); ok && m.mode != modeSignIn {
		m.selected = id
		m.mode = modePost
	}
}

// SetStatus shows a one-line notice above the screen.
func (m *TimelineModel) SetStatus(s string) {
	m.status = s
}

func (m *TimelineModel) reload() {
	posts := m.ctl.Posts()
	items := make([]list.Item, 0, len(posts))
	for i := len(posts) - 1; i >= 0; i-- {
		items = append(items, postItem{post: posts[i]})
	}
	m.list.SetItems(items)
}

func (m TimelineModel) current() *timeline.Post {
	p, _ := m.ctl.Find(m.selected)
	return p
}

func (m TimelineModel) Init() tea.Cmd {
	if m.mode == modeSignIn {
		return tea.Batch(textinput.Blink, tea.SetWindowTitle("sign in · timeline"))
	}
	return tea.SetWindowTitle("timeline")
}

func (m TimelineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.list.SetSize(msg.Width, max(msg.Height-2, 5))
		m.input.Width = max(msg.Width-8, 10)
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
		}
		switch m.mode {
		case modeSignIn:
			return m.updateSignIn(msg)
		case modePosts:
			return m.updatePosts(msg)
		case modePost:
			return m.updatePost(msg)
		case modeComment:
			return m.updateComment(msg)
		}
	}

	var cmd tea.Cmd
	switch m.mode {
	case modeSignIn, modeComment:
		m.input, cmd = m.input.Update(msg)
	case modePosts:
		m.list, cmd = m.list.Update(msg)
	}
	return m, cmd
}

func (m TimelineModel) updateSignIn(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m, func() tea.Msg { return TimelineClosedMsg{} }
	case tea.KeyEnter:
		name := strings.TrimSpace(m.input.Value())
		if name == "" {
			m.status = "Enter a name to sign in"
			return m, nil
		}
		m.ctl.SignIn(name)
		log.Info("signed in", "user", name)
		m.input.Reset()
		m.input.Blur()
		m.input.Placeholder = ""
		m.status = "Signed in as " + name
		m.mode = modePosts
		m.reload()
		return m, tea.SetWindowTitle("timeline")
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m TimelineModel) updatePosts(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Open):
		if item, ok := m.list.SelectedItem().(postItem); ok {
			m.status = ""
			m.SelectPost(item.post.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.Image):
		return m, func() tea.Msg { return TimelineImageMsg{} }
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return TimelineClosedMsg{} }
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m TimelineModel) updatePost(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	post := m.current()
	switch {
	case post == nil || key.Matches(msg, m.keys.Back):
		m.mode = modePosts
		m.selected = ""
		m.reload()
	case key.Matches(msg, m.keys.Comment):
		m.mode = modeComment
		m.status = ""
		m.input.Reset()
		m.input.Placeholder = "add a comment"
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Audio):
		return m, func() tea.Msg { return TimelineAudioMsg{Post: post} }
	}
	return m, nil
}

func (m TimelineModel) updateComment(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modePost
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil
		}
		if _, err := m.ctl.AddComment(m.current(), text); err != nil {
			log.Warn("adding comment", "err", err)
			m.status = "Could not comment: " + err.Error()
			return m, nil
		}
		m.input.Reset()
		m.input.Blur()
		m.mode = modePost
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m TimelineModel) View() string {
	var b strings.Builder
	if m.status != "" {
		b.WriteString("\n  ")
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}

	switch m.mode {
	case modeSignIn:
		b.WriteString("\n  ")
		b.WriteString(headerStyle.Render("timeline"))
		b.WriteString("\n\n  ")
		b.WriteString(titleStyle.Render("Sign in"))
		b.WriteString("\n\n  ")
		b.WriteString(m.input.View())
		b.WriteString("\n\n  ")
		b.WriteString(timeStyle.Render("enter continue · esc back"))
		b.WriteString("\n")
	case modePosts:
		if len(m.list.Items()) == 0 {
			b.WriteString("\n  ")
			b.WriteString(headerStyle.Render("timeline · " + m.ctl.User()))
			b.WriteString("\n\n  ")
			b.WriteString(artistStyle.Render("No posts yet. Press i for an image post, or esc and record a clip."))
			b.WriteString("\n")
			return b.String()
		}
		b.WriteString(m.list.View())
	default:
		b.WriteString(m.postView())
	}
	return b.String()
}

func (m TimelineModel) postView() string {
	post := m.current()
	if post == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(headerStyle.Render("timeline"))
	b.WriteString("\n\n  ")
	b.WriteString(titleStyle.Render(post.Title()))
	b.WriteString("\n  ")
	media := fmt.Sprintf("%s · %s", post.Media.Kind, filepath.Base(post.Media.Path))
	if post.Ratio > 0 {
		media += fmt.Sprintf(" · ratio %.2f", post.Ratio)
	}
	b.WriteString(artistStyle.Render(media))
	b.WriteString("\n\n")

	for _, c := range post.Comments[1:] {
		b.WriteString("  ")
		b.WriteString(authorStyle.Render(c.Author))
		b.WriteString(" ")
		if c.IsAudio() {
			b.WriteString(audioStyle.Render("♪ " + filepath.Base(c.AudioPath)))
		} else {
			b.WriteString(commentStyle.Render(c.Text))
		}
		b.WriteString(" ")
		b.WriteString(timeStyle.Render(humanize.Time(c.Timestamp)))
		b.WriteString("\n")
	}
	if len(post.Comments) == 1 {
		b.WriteString("  ")
		b.WriteString(timeStyle.Render("No comments yet"))
		b.WriteString("\n")
	}

	b.WriteString("\n  ")
	if m.mode == modeComment {
		b.WriteString(m.input.View())
		b.WriteString("\n\n  ")
		b.WriteString(timeStyle.Render("enter post · esc cancel"))
	} else {
		b.WriteString(timeStyle.Render("c comment · a audio comment · esc back"))
	}
	b.WriteString("\n")
	return b.String()
}
