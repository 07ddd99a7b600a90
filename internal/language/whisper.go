package language

import (
	"fmt"
	"strings"
)

// AutoDetect asks the recognizer to detect the spoken language itself.
const AutoDetect = "auto"

var whisperLanguages = map[string]struct{}{}

func init() {
	for _, code := range strings.Fields(`af am ar as az ba be bg bn bo br bs ca cs cy da de el en es
		et eu fa fi fo fr gl gu ha haw he hi hr ht hu hy id is it ja jw ka kk km kn ko la lb ln lo
		lt lv mg mi mk ml mn mr ms mt my ne nl nn no oc pa pl ps pt ro ru sa sd si sk sl sn so sq
		sr su sv sw ta te tg th tk tl tr tt uk ur uz vi yi yo zh`) {
		whisperLanguages[code] = struct{}{}
	}
}

// IsWhisperLanguage reports whether Whisper models accept code as a
// source-language hint.
func IsWhisperLanguage(code string) bool {
	_, ok := whisperLanguages[strings.ToLower(strings.TrimSpace(code))]
	return ok
}

// NormalizeSourceHint maps a user supplied spoken-language hint onto the code
// Whisper expects. "auto" and "" yield "" (detect automatically). Word forms
// and ISO 639-2 codes are accepted for the languages this package knows.
func NormalizeSourceHint(value string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" || trimmed == AutoDetect {
		return "", nil
	}
	if IsWhisperLanguage(trimmed) {
		return trimmed, nil
	}
	if code := ToISO2(trimmed); code != "" && IsWhisperLanguage(code) {
		return code, nil
	}
	return "", fmt.Errorf("unsupported transcription language %q", value)
}
