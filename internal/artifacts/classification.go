package artifacts

// Classification is the action the pipeline takes for one video.
type Classification int

const (
	// TranscribeFresh runs speech recognition from scratch.
	TranscribeFresh Classification = iota
	// ReuseOriginal embeds the existing original transcript.
	ReuseOriginal
	// ReuseTranslated embeds the existing translated transcript.
	ReuseTranslated
	// TranslateExisting translates the existing original transcript.
	TranslateExisting
)

func (c Classification) String() string {
	switch c {
	case ReuseOriginal:
		return "reuse_original"
	case ReuseTranslated:
		return "reuse_translated"
	case TranslateExisting:
		return "translate_existing"
	default:
		return "transcribe_fresh"
	}
}

// Classify applies cache precedence. A fresh translation wins when a target
// is requested; otherwise a fresh original is either reused or translated.
func Classify(originalFresh, translatedFresh, targetRequested bool) Classification {
	switch {
	case targetRequested && translatedFresh:
		return ReuseTranslated
	case targetRequested && originalFresh:
		return TranslateExisting
	case !targetRequested && originalFresh:
		return ReuseOriginal
	default:
		return TranscribeFresh
	}
}
