package language

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// ErrInvalidTarget reports a translation target that is not a usable BCP 47 tag.
var ErrInvalidTarget = errors.New("invalid target language")

// NoTarget is the spelling users pass to disable translation explicitly.
const NoTarget = "none"

// NormalizeTarget validates a translation target code and returns its
// canonical spelling ("zh-cn" becomes "zh-CN"). Empty input and "none" mean
// no translation and return "".
func NormalizeTarget(code string) (string, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" || strings.EqualFold(trimmed, NoTarget) {
		return "", nil
	}
	if strings.ContainsAny(trimmed, `/\ `) {
		return "", fmt.Errorf("%w: %q", ErrInvalidTarget, code)
	}
	tag, err := language.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidTarget, code, err)
	}
	if tag == language.Und {
		return "", fmt.Errorf("%w: %q is undetermined", ErrInvalidTarget, code)
	}
	return tag.String(), nil
}
