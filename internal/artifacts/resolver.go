package artifacts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const srtExt = ".srt"

// Paths holds the artifact locations for one video. Translated is empty when
// no target language was requested.
type Paths struct {
	Original   string
	Translated string
}

// Artifact describes one subtitle file as found on disk.
type Artifact struct {
	Path    string
	Exists  bool
	ModTime time.Time
	Fresh   bool
}

// Options configures Resolve.
type Options struct {
	// BaseDir holds the artifacts, see BaseDir.
	BaseDir string
	// Target is the normalized target language; empty means no translation.
	Target string
}

// Decision is the resolved cache state for one video.
type Decision struct {
	Video          string
	VideoModTime   time.Time
	Paths          Paths
	Original       Artifact
	Translated     Artifact
	Classification Classification
}

// Stem returns the video file name without directory and extension.
func Stem(video string) string {
	base := filepath.Base(video)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// BaseDir picks where artifacts live: the output directory when they should
// persist, the scratch directory otherwise.
func BaseDir(outputDir, tempDir string, persist bool) string {
	if persist {
		return outputDir
	}
	return tempDir
}

// PathsFor returns the artifact paths for video under base.
func PathsFor(video, base, target string) Paths {
	stem := Stem(video)
	paths := Paths{Original: filepath.Join(base, stem+srtExt)}
	if target != "" {
		paths.Translated = filepath.Join(base, stem+"_"+target+srtExt)
	}
	return paths
}

// IsFresh probes path. Missing or unreadable files are reported as not fresh.
func IsFresh(path string, videoModTime time.Time) Artifact {
	artifact := Artifact{Path: path}
	if path == "" {
		return artifact
	}
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return artifact
	}
	artifact.Exists = true
	artifact.ModTime = info.ModTime()
	artifact.Fresh = !artifact.ModTime.Before(videoModTime)
	return artifact
}

// Resolve classifies video against the artifacts in opts.BaseDir. It fails
// only when the video itself cannot be stat-ed.
func Resolve(video string, opts Options) (Decision, error) {
	info, err := os.Stat(video)
	if err != nil {
		return Decision{}, fmt.Errorf("stat video %q: %w", video, err)
	}
	if info.IsDir() {
		return Decision{}, fmt.Errorf("stat video %q: is a directory", video)
	}

	paths := PathsFor(video, opts.BaseDir, opts.Target)
	decision := Decision{
		Video:        video,
		VideoModTime: info.ModTime(),
		Paths:        paths,
		Original:     IsFresh(paths.Original, info.ModTime()),
		Translated:   IsFresh(paths.Translated, info.ModTime()),
	}
	decision.Classification = Classify(decision.Original.Fresh, decision.Translated.Fresh, opts.Target != "")
	return decision, nil
}

// Reason describes why the decision was made, for decision logs.
func (d Decision) Reason() string {
	switch d.Classification {
	case ReuseTranslated:
		return "translated subtitles are newer than the video"
	case TranslateExisting:
		if d.Translated.Exists {
			return "original subtitles are current; translation is stale"
		}
		return "original subtitles are current; no translation yet"
	case ReuseOriginal:
		return "original subtitles are newer than the video"
	default:
		if d.Original.Exists {
			return "original subtitles are older than the video"
		}
		return "no subtitles found"
	}
}
