package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/LazyFu/auto-subtitle/internal/config"
)

var videoExtensions = map[string]struct{}{
	".mp4":  {},
	".mkv":  {},
	".mov":  {},
	".m4v":  {},
	".avi":  {},
	".webm": {},
	".ts":   {},
}

func isVideoFile(path string) bool {
	_, ok := videoExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// collectVideos expands arguments into video paths. Directories contribute
// their video files (non-recursive, sorted). Missing files are passed through
// so the pipeline reports them as per-video failures.
func collectVideos(args []string) ([]string, error) {
	if len(args) == 0 {
		return nil, errors.New("at least one video is required")
	}
	var videos []string
	for _, arg := range args {
		path, err := config.ExpandPath(strings.TrimSpace(arg))
		if err != nil {
			return nil, fmt.Errorf("resolve %q: %w", arg, err)
		}
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			videos = append(videos, path)
			continue
		}
		found, err := videosInDir(path)
		if err != nil {
			return nil, err
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("no video files in %s", path)
		}
		videos = append(videos, found...)
	}
	return videos, nil
}

func videosInDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}
	var out []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !isVideoFile(name) {
			continue
		}
		out = append(out, filepath.Join(dir, name))
	}
	sort.Strings(out)
	return out, nil
}
