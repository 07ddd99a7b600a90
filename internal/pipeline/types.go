package pipeline

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/LazyFu/auto-subtitle/internal/artifacts"
	"github.com/LazyFu/auto-subtitle/internal/language"
	"github.com/LazyFu/auto-subtitle/internal/services/whisperx"
	"github.com/LazyFu/auto-subtitle/internal/subtitles"
)

// ErrNoSubtitleFound marks a video that reached the embed stage without any
// usable subtitle file.
var ErrNoSubtitleFound = errors.New("no subtitle found")

// AudioExtractor writes a mono 16 kHz PCM rendition of a video's dialogue.
type AudioExtractor interface {
	ExtractAudio(ctx context.Context, video, dest string) error
}

// Transcriber turns audio into ordered segments.
type Transcriber interface {
	Transcribe(ctx context.Context, audio string, opts whisperx.Options) ([]subtitles.Segment, error)
}

// Translator translates every segment of a file, returning a new slice.
type Translator interface {
	TranslateSegments(ctx context.Context, segments []subtitles.Segment, target string) ([]subtitles.Segment, error)
}

// Muxer burns a subtitle file into a video.
type Muxer interface {
	Burn(ctx context.Context, video, subtitle, output string) error
}

// Dependencies bundles the collaborators used by a run. Translator may be nil
// when no target language is configured; Muxer may be nil for subtitle-only
// runs.
type Dependencies struct {
	Extractor   AudioExtractor
	Transcriber Transcriber
	Translator  Translator
	Muxer       Muxer
}

// Options is the read-only configuration of a run.
type Options struct {
	// TargetLanguage is the translation target; "" or "none" disables translation.
	TargetLanguage string
	OutputDir      string
	TempDir        string
	// PersistIntermediates keeps artifacts in OutputDir instead of TempDir.
	PersistIntermediates bool
	// SubtitlesOnly stops after the embed map is built; implies persistence.
	SubtitlesOnly bool
	// KeepAudio leaves extracted audio in TempDir.
	KeepAudio     bool
	Transcription whisperx.Options
	// Verbose lifts the quiet scope around transcription.
	Verbose bool
	// LockTimeout bounds the wait for a concurrent run on the same artifacts.
	LockTimeout time.Duration
}

// Target returns the normalized target language, "" when translation is off.
func (o Options) Target() string {
	target := strings.TrimSpace(o.TargetLanguage)
	if strings.EqualFold(target, language.NoTarget) {
		return ""
	}
	return target
}

// ArtifactDir is where subtitle artifacts are read and written.
func (o Options) ArtifactDir() string {
	return artifacts.BaseDir(o.OutputDir, o.TempDir, o.PersistIntermediates || o.SubtitlesOnly)
}

// State is the progress of one video through a run.
type State int

const (
	StateClassified State = iota
	StateAudioExtracted
	StateTranscribed
	StateTranslated
	StateEmbedded
	StateDone
	StateSkipped
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateClassified:
		return "classified"
	case StateAudioExtracted:
		return "audio_extracted"
	case StateTranscribed:
		return "transcribed"
	case StateTranslated:
		return "translated"
	case StateEmbedded:
		return "embedded"
	case StateDone:
		return "done"
	case StateSkipped:
		return "skipped"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// VideoResult records what a run did for one input video.
type VideoResult struct {
	Video          string
	Classification artifacts.Classification
	Decision       artifacts.Decision
	State          State
	// Demoted is set when translating an existing transcript failed and the
	// video was transcribed again instead.
	Demoted bool
	// Original and Translated are the artifacts produced or reused by this run.
	Original   string
	Translated string
	// Subtitle is the embed map entry, empty when none was selected.
	Subtitle string
	// Output is the subtitled video, empty for subtitle-only runs.
	Output         string
	SourceLanguage string
	Warnings       []string
	Err            error
	Elapsed        time.Duration
}

func (r *VideoResult) warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

func (r *VideoResult) fail(err error) {
	r.State = StateFailed
	r.Err = err
}

// Report summarises a run.
type Report struct {
	RunID      string
	Target     string
	StartedAt  time.Time
	FinishedAt time.Time
	Videos     []*VideoResult
	// Warnings are run-level notices that concern more than one video.
	Warnings []string
}

// EmbedMap returns the subtitle chosen for every video that has one.
func (r *Report) EmbedMap() map[string]string {
	out := make(map[string]string, len(r.Videos))
	for _, v := range r.Videos {
		if v.Subtitle != "" {
			out[v.Video] = v.Subtitle
		}
	}
	return out
}

// Counts returns how many videos finished, were skipped and failed.
func (r *Report) Counts() (done, skipped, failed int) {
	for _, v := range r.Videos {
		switch v.State {
		case StateDone:
			done++
		case StateSkipped:
			skipped++
		case StateFailed:
			failed++
		}
	}
	return done, skipped, failed
}

// Result returns the result for video, or nil.
func (r *Report) Result(video string) *VideoResult {
	for _, v := range r.Videos {
		if v.Video == video {
			return v
		}
	}
	return nil
}
