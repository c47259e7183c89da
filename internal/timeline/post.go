package timeline

import (
	"time"

	"github.com/google/uuid"
)

// MediaKind identifies what a post carries.
type MediaKind int

const (
	MediaImage MediaKind = iota
	MediaAudio
)

func (k MediaKind) String() string {
	switch k {
	case MediaImage:
		return "image"
	case MediaAudio:
		return "audio"
	default:
		return "unknown"
	}
}

// Media is the file attached to a post.
type Media struct {
	Kind MediaKind
	Path string
}

// Comment is a text or audio reply on a post.
type Comment struct {
	Text      string
	Author    string
	Timestamp time.Time
	AudioPath string
}

// Same reports whether two comments are the same reply. Comments are
// identified by author and timestamp.
func (c Comment) Same(other Comment) bool {
	return c.Author == other.Author && c.Timestamp.Equal(other.Timestamp)
}

// IsAudio reports whether the comment carries a recording.
func (c Comment) IsAudio() bool {
	return c.AudioPath != ""
}

// Post is a timeline entry. Its title is stored as the first comment.
type Post struct {
	ID        string
	Author    string
	Timestamp time.Time
	Media     Media
	Ratio     float64 // height / width, zero when unknown
	Comments  []Comment
}

func newPost(title string, media Media, ratio float64, author string, now time.Time) *Post {
	return &Post{
		ID:        uuid.NewString(),
		Author:    author,
		Timestamp: now,
		Media:     media,
		Ratio:     ratio,
		Comments:  []Comment{{Text: title, Author: author, Timestamp: now}},
	}
}

// Title returns the text of the first comment.
func (p *Post) Title() string {
	if len(p.Comments) == 0 {
		return ""
	}
	return p.Comments[0].Text
}

// AudioComments returns the comments that carry recordings, oldest first.
func (p *Post) AudioComments() []Comment {
	var out []Comment
	for _, c := range p.Comments {
		if c.IsAudio() {
			out = append(out, c)
		}
	}
	return out
}
