package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/olivier-w/timeline/internal/media"
	"github.com/olivier-w/timeline/internal/player"
	"github.com/olivier-w/timeline/internal/ui"
)

// openClip checks that path is a playable clip and opens it paused.
func openClip(path string, open ui.OpenFunc) (ui.Playback, player.Metadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, player.Metadata{}, err
	}
	if info.IsDir() {
		return nil, player.Metadata{}, fmt.Errorf("%s is a directory", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !media.IsSupportedExt(ext) {
		return nil, player.Metadata{}, fmt.Errorf("unsupported format %s (supported: %s)", ext, media.SupportedExtsList())
	}

	p, err := open(path)
	if err != nil {
		return nil, player.Metadata{}, fmt.Errorf("error creating player: %w", err)
	}
	return p, player.ReadMetadata(path), nil
}

// openPlayback adapts player.New to ui.OpenFunc.
func openPlayback(path string) (ui.Playback, error) {
	p, err := player.New(path)
	if err != nil {
		return nil, err
	}
	return p, nil
}
