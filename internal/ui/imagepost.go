package ui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/olivier-w/timeline/internal/imagefx"
	"github.com/olivier-w/timeline/internal/timeline"
)

// ImagePostedMsg is sent once an image post has been published.
type ImagePostedMsg struct {
	Post *timeline.Post
}

// ImagePostCancelledMsg is sent when the image post screen is dismissed.
type ImagePostCancelledMsg struct{}

type imagePublishedMsg struct {
	post *timeline.Post
	err  error
}

const (
	fieldPath = iota
	fieldTitle
	fieldFilters
	fieldCount
)

// ImagePostModel picks an image, captions it and tunes the filters before
// publishing it as a post.
type ImagePostModel struct {
	ctl      *timeline.Controller
	dir      string
	path     textinput.Model
	title    textinput.Model
	settings imagefx.Settings
	control  int
	focus    int
	busy     bool
	err      string
	bar      progress.Model
	now      func() time.Time
}

// NewImagePost creates the image post screen. Filtered images are written
// into dir.
func NewImagePost(ctl *timeline.Controller, dir string) ImagePostModel {
	path := textinput.New()
	path.Placeholder = "path to a png, jpeg, bmp or webp image"
	path.Focus()

	title := textinput.New()
	title.Placeholder = "caption"
	title.CharLimit = 120

	return ImagePostModel{
		ctl:      ctl,
		dir:      dir,
		path:     path,
		title:    title,
		settings: imagefx.DefaultSettings(),
		bar:      progress.New(progress.WithSolidFill(string(inkAccent.Dark)), progress.WithoutPercentage(), progress.WithWidth(20)),
		now:      time.Now,
	}
}

func (m ImagePostModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.SetWindowTitle("new image post · timeline"))
}

func (m ImagePostModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case imagePublishedMsg:
		m.busy = false
		if msg.err != nil {
			log.Warn("publishing image", "err", msg.err)
			m.err = msg.err.Error()
			return m, nil
		}
		post := msg.post
		return m, func() tea.Msg { return ImagePostedMsg{Post: post} }

	case tea.WindowSizeMsg:
		m.path.Width = max(msg.Width-16, 10)
		m.title.Width = max(msg.Width-16, 10)
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
		case "esc":
			return m, func() tea.Msg { return ImagePostCancelledMsg{} }
		case "tab", "down":
			if msg.String() == "tab" || m.focus != fieldFilters {
				return m, m.moveFocus(1)
			}
		case "shift+tab", "up":
			if msg.String() == "shift+tab" || m.focus != fieldFilters {
				return m, m.moveFocus(-1)
			}
		case "enter":
			return m.publish()
		}
		if m.focus == fieldFilters {
			m.adjust(msg.String())
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case fieldPath:
		m.path, cmd = m.path.Update(msg)
	case fieldTitle:
		m.title, cmd = m.title.Update(msg)
	}
	return m, cmd
}

func (m *ImagePostModel) moveFocus(delta int) tea.Cmd {
	m.focus = (m.focus + delta + fieldCount) % fieldCount
	m.path.Blur()
	m.title.Blur()
	switch m.focus {
	case fieldPath:
		return m.path.Focus()
	case fieldTitle:
		return m.title.Focus()
	}
	return nil
}

// adjust handles keys while the filter list has focus: up and down pick a
// filter, left and right move it, 0 resets it.
func (m *ImagePostModel) adjust(k string) {
	switch k {
	case "up", "k":
		m.control = max(m.control-1, 0)
	case "down", "j":
		m.control = min(m.control+1, len(imagefx.Controls)-1)
	case "left", "h":
		m.settings.Adjust(m.control, -1)
	case "right", "l":
		m.settings.Adjust(m.control, 1)
	case "0":
		m.settings[m.control] = imagefx.Controls[m.control].Neutral
	}
}

func (m ImagePostModel) publish() (tea.Model, tea.Cmd) {
	src := strings.TrimSpace(m.path.Value())
	title := strings.TrimSpace(m.title.Value())
	if src == "" || title == "" {
		m.err = "Make sure that you add an image and a caption before posting."
		return m, nil
	}
	if m.ctl.User() == "" {
		m.err = timeline.ErrNoUser.Error()
		return m, nil
	}

	m.busy = true
	m.err = ""
	dst := filepath.Join(m.dir, imageName(src, m.now()))
	return m, publishImageCmd(m.ctl, src, dst, title, m.settings)
}

func publishImageCmd(ctl *timeline.Controller, src, dst, title string, s imagefx.Settings) tea.Cmd {
	return func() tea.Msg {
		ratio, err := imagefx.Export(src, dst, s)
		if err != nil {
			return imagePublishedMsg{err: err}
		}
		post, err := ctl.CreateImagePost(title, dst, ratio)
		if err != nil {
			if rmErr := os.Remove(dst); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				log.Warn("removing unposted image", "path", dst, "err", rmErr)
			}
			return imagePublishedMsg{err: err}
		}
		log.Info("image posted", "post", post.ID, "path", dst, "ratio", ratio)
		return imagePublishedMsg{post: post}
	}
}

// imageName keeps the source name and stamps it with the post time.
func imageName(src string, t time.Time) string {
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	return fmt.Sprintf("%s-%s.jpg", base, t.UTC().Format("20060102T150405"))
}

func (m ImagePostModel) View() string {
	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(headerStyle.Render("timeline"))
	b.WriteString("\n\n  ")
	b.WriteString(titleStyle.Render("New image post"))
	b.WriteString("\n\n  ")
	b.WriteString(labelStyle.Render("image"))
	b.WriteString(m.path.View())
	b.WriteString("\n  ")
	b.WriteString(labelStyle.Render("caption"))
	b.WriteString(m.title.View())
	b.WriteString("\n\n")

	for i, c := range imagefx.Controls {
		name := labelStyle.Render(c.Name)
		if m.focus == fieldFilters && i == m.control {
			name = selectedStyle.Width(10).Render(c.Name)
		}
		v := m.settings[i]
		b.WriteString("  ")
		b.WriteString(name)
		b.WriteString(m.bar.ViewAs((v - c.Min) / (c.Max - c.Min)))
		b.WriteString(timeStyle.Render(fmt.Sprintf(" %5.2f", v)))
		b.WriteString("\n")
	}
	b.WriteString("\n  ")

	switch {
	case m.busy:
		b.WriteString(statusStyle.Render("Posting..."))
	case m.err != "":
		b.WriteString(errorStyle.Render(m.err))
	default:
		b.WriteString(timeStyle.Render("tab next field · ←/→ adjust filter · enter post · esc cancel"))
	}
	b.WriteString("\n")
	return b.String()
}
