package media

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var audioExts = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".flac": true,
	".ogg":  true,
}

// IsSupportedExt returns true if the extension is a supported clip format.
func IsSupportedExt(ext string) bool {
	return audioExts[strings.ToLower(ext)]
}

// SupportedExtsList returns a human-readable list of supported clip formats.
func SupportedExtsList() string {
	return ".mp3, .wav, .flac, .ogg"
}

// Clip is a playable file found on disk.
type Clip struct {
	Path    string
	Name    string
	Size    int64
	ModTime int64 // unix seconds
}

// ScanClips lists the supported clips in dir, newest first. A missing
// directory yields no clips.
func ScanClips(dir string) ([]Clip, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var clips []Clip
	for _, e := range entries {
		if e.IsDir() || !IsSupportedExt(filepath.Ext(e.Name())) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		clips = append(clips, Clip{
			Path:    filepath.Join(dir, e.Name()),
			Name:    strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())),
			Size:    info.Size(),
			ModTime: info.ModTime().Unix(),
		})
	}

	sort.Slice(clips, func(i, j int) bool {
		if clips[i].ModTime != clips[j].ModTime {
			return clips[i].ModTime > clips[j].ModTime
		}
		return strings.ToLower(clips[i].Name) > strings.ToLower(clips[j].Name)
	})
	return clips, nil
}
