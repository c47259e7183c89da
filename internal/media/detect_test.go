package media

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestIsSupportedExtCoversDecoders(t *testing.T) {
	for _, ext := range []string{".mp3", ".WAV", ".flac", ".ogg"} {
		if !IsSupportedExt(ext) {
			t.Fatalf("expected %s to be supported", ext)
		}
	}
	for _, ext := range []string{".aac", ".m4a", ".txt", ""} {
		if IsSupportedExt(ext) {
			t.Fatalf("expected %s to be unsupported", ext)
		}
	}
}

func TestSupportedExtsListMatchesDecoders(t *testing.T) {
	list := SupportedExtsList()
	for _, ext := range []string{".mp3", ".wav", ".flac", ".ogg"} {
		if !strings.Contains(list, ext) {
			t.Fatalf("expected supported ext list to include %s, got %q", ext, list)
		}
	}
}

func TestScanClipsNewestFirst(t *testing.T) {
	dir := t.TempDir()
	write := func(name string, age time.Duration) {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
			t.Fatal(err)
		}
		ts := time.Now().Add(-age)
		os.Chtimes(path, ts, ts)
	}
	write("old.wav", time.Hour)
	write("new.mp3", time.Minute)
	write("notes.txt", 0)
	os.Mkdir(filepath.Join(dir, "sub.wav"), 0o755)

	clips, err := ScanClips(dir)
	if err != nil {
		t.Fatalf("ScanClips returned error: %v", err)
	}
	if len(clips) != 2 {
		t.Fatalf("expected 2 clips, got %+v", clips)
	}
	if clips[0].Name != "new" || clips[1].Name != "old" {
		t.Fatalf("expected newest first, got %q then %q", clips[0].Name, clips[1].Name)
	}
	if clips[0].Size != 4 || clips[0].Path != filepath.Join(dir, "new.mp3") {
		t.Fatalf("unexpected clip %+v", clips[0])
	}
}

func TestScanClipsMissingDir(t *testing.T) {
	clips, err := ScanClips(filepath.Join(t.TempDir(), "missing"))
	if err != nil || clips != nil {
		t.Fatalf("expected no clips and no error, got %v %v", clips, err)
	}
}
