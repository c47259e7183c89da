package timeline

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func fixedController(user string) *Controller {
	c := NewController(user)
	base := time.Date(2018, 10, 11, 9, 0, 0, 0, time.UTC)
	n := 0
	c.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
	return c
}

func TestCreateWithoutUserFails(t *testing.T) {
	c := fixedController("")
	if _, err := c.CreateImagePost("sunset", "sunset.png", 0.75); !errors.Is(err, ErrNoUser) {
		t.Fatalf("expected ErrNoUser, got %v", err)
	}
	if _, err := c.CreateAudioPost("memo", "memo.wav"); !errors.Is(err, ErrNoUser) {
		t.Fatalf("expected ErrNoUser, got %v", err)
	}
	if len(c.Posts()) != 0 {
		t.Fatal("expected no posts")
	}
}

func TestCreateImagePostStoresTitleAsFirstComment(t *testing.T) {
	c := fixedController("spencer")
	p, err := c.CreateImagePost("sunset", "sunset.png", 0.75)
	if err != nil {
		t.Fatalf("CreateImagePost returned error: %v", err)
	}
	if p.Title() != "sunset" {
		t.Fatalf("expected title sunset, got %q", p.Title())
	}
	if len(p.Comments) != 1 || p.Comments[0].Author != "spencer" {
		t.Fatalf("unexpected comments %+v", p.Comments)
	}
	if p.Media.Kind != MediaImage || p.Media.Path != "sunset.png" || p.Ratio != 0.75 {
		t.Fatalf("unexpected post media %+v ratio %v", p.Media, p.Ratio)
	}
	if p.ID == "" {
		t.Fatal("expected post id")
	}
	if got, ok := c.Find(p.ID); !ok || got != p {
		t.Fatal("expected Find to return the post")
	}
}

func TestPostIDsAreUnique(t *testing.T) {
	c := fixedController("spencer")
	a, _ := c.CreateAudioPost("a", "a.wav")
	b, _ := c.CreateAudioPost("b", "b.wav")
	if a.ID == b.ID {
		t.Fatalf("expected distinct ids, both %q", a.ID)
	}
	if _, err := uuid.Parse(a.ID); err != nil {
		t.Fatalf("expected a UUID id, got %q: %v", a.ID, err)
	}
	if posts := c.Posts(); len(posts) != 2 || posts[0] != a || posts[1] != b {
		t.Fatal("expected posts in creation order")
	}
}

func TestAddCommentAndAudio(t *testing.T) {
	c := fixedController("spencer")
	p, _ := c.CreateAudioPost("memo", "memo.wav")

	if _, err := c.AddComment(p, "nice"); err != nil {
		t.Fatalf("AddComment returned error: %v", err)
	}
	cm, err := c.AddAudio(p, "reply.wav")
	if err != nil {
		t.Fatalf("AddAudio returned error: %v", err)
	}
	if !cm.IsAudio() || cm.Author != "spencer" {
		t.Fatalf("unexpected audio comment %+v", cm)
	}
	if len(p.Comments) != 3 {
		t.Fatalf("expected 3 comments, got %d", len(p.Comments))
	}
	if p.Title() != "memo" {
		t.Fatalf("expected title to stay memo, got %q", p.Title())
	}
	audio := p.AudioComments()
	if len(audio) != 1 || audio[0].AudioPath != "reply.wav" {
		t.Fatalf("unexpected audio comments %+v", audio)
	}
}

func TestCommentWithoutUserFails(t *testing.T) {
	c := fixedController("spencer")
	p, _ := c.CreateAudioPost("memo", "memo.wav")
	c.SignIn("")
	if _, err := c.AddComment(p, "hi"); !errors.Is(err, ErrNoUser) {
		t.Fatalf("expected ErrNoUser, got %v", err)
	}
	if _, err := c.AddAudio(p, "x.wav"); !errors.Is(err, ErrNoUser) {
		t.Fatalf("expected ErrNoUser, got %v", err)
	}
	if len(p.Comments) != 1 {
		t.Fatalf("expected comments untouched, got %d", len(p.Comments))
	}
}

func TestCommentOnForeignPostFails(t *testing.T) {
	c := fixedController("spencer")
	other := fixedController("spencer")
	p, _ := other.CreateAudioPost("memo", "memo.wav")
	if _, err := c.AddComment(p, "hi"); !errors.Is(err, ErrUnknownPost) {
		t.Fatalf("expected ErrUnknownPost, got %v", err)
	}
	if _, err := c.AddComment(nil, "hi"); !errors.Is(err, ErrUnknownPost) {
		t.Fatalf("expected ErrUnknownPost for nil post, got %v", err)
	}
}

func TestCommentSameByAuthorAndTimestamp(t *testing.T) {
	ts := time.Date(2018, 10, 11, 9, 0, 0, 0, time.UTC)
	a := Comment{Text: "a", Author: "x", Timestamp: ts}
	b := Comment{Text: "b", Author: "x", Timestamp: ts}
	if !a.Same(b) {
		t.Fatal("expected comments with same author and time to match")
	}
	b.Author = "y"
	if a.Same(b) {
		t.Fatal("expected different authors not to match")
	}
}
