package artifacts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyPrecedence(t *testing.T) {
	tests := []struct {
		name            string
		originalFresh   bool
		translatedFresh bool
		target          bool
		want            Classification
	}{
		{"no target, original fresh", true, false, false, ReuseOriginal},
		{"no target, nothing fresh", false, false, false, TranscribeFresh},
		{"no target ignores translation", false, true, false, TranscribeFresh},
		{"target, both fresh", true, true, true, ReuseTranslated},
		{"target, translated fresh original stale", false, true, true, ReuseTranslated},
		{"target, only original fresh", true, false, true, TranslateExisting},
		{"target, nothing fresh", false, false, true, TranscribeFresh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.originalFresh, tt.translatedFresh, tt.target))
		})
	}
}

func TestClassificationString(t *testing.T) {
	assert.Equal(t, "reuse_original", ReuseOriginal.String())
	assert.Equal(t, "reuse_translated", ReuseTranslated.String())
	assert.Equal(t, "translate_existing", TranslateExisting.String())
	assert.Equal(t, "transcribe_fresh", TranscribeFresh.String())
}
