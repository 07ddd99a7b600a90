package audio

import (
	"strings"

	"github.com/LazyFu/auto-subtitle/internal/language"
	"github.com/LazyFu/auto-subtitle/internal/media/ffprobe"
)

// Selection is the audio stream chosen for speech recognition.
type Selection struct {
	Stream ffprobe.Stream
	// Index is the container stream index, -1 when the media has no audio.
	Index  int
	Reason string
}

// Found reports whether an audio stream was selected.
func (s Selection) Found() bool {
	return s.Index >= 0
}

// Label returns a short human-readable summary of the selected stream.
func (s Selection) Label() string {
	if !s.Found() {
		return ""
	}
	parts := make([]string, 0, 4)
	if lang := s.Stream.Tag("language"); lang != "" {
		parts = append(parts, strings.ToLower(lang))
	}
	if s.Stream.CodecName != "" {
		parts = append(parts, s.Stream.CodecName)
	}
	if title := s.Stream.Tag("title"); title != "" {
		parts = append(parts, title)
	}
	if len(parts) == 0 {
		return "audio"
	}
	return strings.Join(parts, " | ")
}

var nonDialogueKeywords = []string{
	"commentary",
	"descriptive",
	"description",
	"audio description",
	"director",
	"karaoke",
	"instrumental",
}

// Select picks the stream most likely to carry the main dialogue. Tracks
// whose title marks them as commentary or narration lose to any main track;
// among the rest a language match with hint wins, then the default flag,
// then container order. hint may be empty or "auto".
func Select(streams []ffprobe.Stream, hint string) Selection {
	want := language.ToISO2(hint)

	best := Selection{Index: -1}
	bestScore := -1
	order := 0
	for _, stream := range streams {
		if !stream.IsAudio() {
			continue
		}
		score, reason := scoreStream(stream, want, order)
		if score > bestScore {
			best = Selection{Stream: stream, Index: stream.Index, Reason: reason}
			bestScore = score
		}
		order++
	}
	return best
}

func scoreStream(stream ffprobe.Stream, want string, order int) (int, string) {
	score := 1000
	reason := "first audio stream"

	title := strings.ToLower(stream.Tag("title", "handler_name"))
	for _, keyword := range nonDialogueKeywords {
		if strings.Contains(title, keyword) {
			score -= 800
			break
		}
	}
	if want != "" && language.ToISO2(stream.Tag("language", "language_ietf")) == want {
		score += 100
		reason = "language matches hint"
	}
	if stream.IsDefault() {
		score += 10
		if reason == "first audio stream" {
			reason = "default audio stream"
		}
	}
	// Earlier streams win ties.
	score -= order
	return score, reason
}
