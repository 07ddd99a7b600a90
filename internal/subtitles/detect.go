package subtitles

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

// DetectLanguage guesses the ISO 639-1 language of the segment text by a
// per-segment vote. It returns "" when nothing could be detected, along with
// the share of voting segments that agreed with the winner.
func DetectLanguage(segments []Segment) (string, float64) {
	votes := make(map[string]int)
	total := 0
	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		code := whatlanggo.DetectLang(text).Iso6391()
		if code == "" {
			continue
		}
		votes[code]++
		total++
	}
	if total == 0 {
		return "", 0
	}

	var best string
	var bestCount int
	for code, count := range votes {
		if count > bestCount || (count == bestCount && code < best) {
			best = code
			bestCount = count
		}
	}
	return best, float64(bestCount) / float64(total)
}
