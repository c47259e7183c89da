package timeline

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// ErrNoUser is returned when an operation needs a signed-in user.
var ErrNoUser = errors.New("no user signed in")

// ErrUnknownPost is returned when a post does not belong to the controller.
var ErrUnknownPost = errors.New("unknown post")

// Controller owns the in-memory timeline.
type Controller struct {
	mu    sync.Mutex
	user  string
	posts []*Post
	now   func() time.Time
}

// NewController creates a timeline for user. An empty user means nobody is
// signed in.
func NewController(user string) *Controller {
	return &Controller{user: user, now: time.Now}
}

// User returns the signed-in user.
func (c *Controller) User() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

// SignIn sets the current user.
func (c *Controller) SignIn(user string) {
	c.mu.Lock()
	c.user = user
	c.mu.Unlock()
}

// CreateImagePost adds an image post titled title.
func (c *Controller) CreateImagePost(title, path string, ratio float64) (*Post, error) {
	return c.create(title, Media{Kind: MediaImage, Path: path}, ratio)
}

// CreateAudioPost adds an audio post titled title.
func (c *Controller) CreateAudioPost(title, path string) (*Post, error) {
	return c.create(title, Media{Kind: MediaAudio, Path: path}, 0)
}

func (c *Controller) create(title string, media Media, ratio float64) (*Post, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.user == "" {
		return nil, ErrNoUser
	}
	p := newPost(title, media, ratio, c.user, c.now())
	c.posts = append(c.posts, p)
	log.Debug("post created", "id", p.ID, "kind", media.Kind, "title", title)
	return p, nil
}

// AddComment appends a text comment to post.
func (c *Controller) AddComment(post *Post, text string) (Comment, error) {
	return c.comment(post, Comment{Text: text})
}

// AddAudio appends an audio comment pointing at the clip at path.
func (c *Controller) AddAudio(post *Post, path string) (Comment, error) {
	return c.comment(post, Comment{AudioPath: path})
}

func (c *Controller) comment(post *Post, cm Comment) (Comment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.user == "" {
		return Comment{}, ErrNoUser
	}
	if !c.ownsLocked(post) {
		return Comment{}, fmt.Errorf("%w: %v", ErrUnknownPost, postID(post))
	}
	cm.Author = c.user
	cm.Timestamp = c.now()
	post.Comments = append(post.Comments, cm)
	log.Debug("comment added", "post", post.ID, "audio", cm.IsAudio())
	return cm, nil
}

func (c *Controller) ownsLocked(post *Post) bool {
	if post == nil {
		return false
	}
	for _, p := range c.posts {
		if p.ID == post.ID {
			return true
		}
	}
	return false
}

func postID(p *Post) string {
	if p == nil {
		return "<nil>"
	}
	return p.ID
}

// Posts returns the posts, oldest first.
func (c *Controller) Posts() []*Post {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*Post(nil), c.posts...)
}

// Find returns the post with id.
func (c *Controller) Find(id string) (*Post, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.posts {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}
