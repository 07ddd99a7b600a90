package translation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/LazyFu/auto-subtitle/internal/logging"
	"github.com/LazyFu/auto-subtitle/internal/subtitles"
)

// ErrTranslationFailed marks any failure reported by the translation provider.
var ErrTranslationFailed = errors.New("translation failed")

// minHintConfidence is the share of segments that must agree before a
// detected source language is forwarded to the provider.
const minHintConfidence = 0.6

// Client is a translation provider. Implementations auto-detect the source
// language unless a hint is attached to ctx.
type Client interface {
	Translate(ctx context.Context, text, target string) (string, error)
}

// Adapter applies shared translation rules on top of a Client.
type Adapter struct {
	client Client
	logger *slog.Logger
}

// NewAdapter wraps client.
func NewAdapter(client Client, logger *slog.Logger) *Adapter {
	return &Adapter{
		client: client,
		logger: logging.NewComponentLogger(logger, "translation"),
	}
}

// Translate returns text in target. Empty or whitespace-only text is returned
// unchanged without calling the provider.
func (a *Adapter) Translate(ctx context.Context, text, target string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}
	if a == nil || a.client == nil {
		return "", fmt.Errorf("%w: no provider configured", ErrTranslationFailed)
	}
	translated, err := a.client.Translate(ctx, text, target)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTranslationFailed, err)
	}
	return translated, nil
}

// TranslateSegments translates every segment in order and returns a new slice
// with the same timing. The first failure aborts the whole file.
func (a *Adapter) TranslateSegments(ctx context.Context, segments []subtitles.Segment, target string) ([]subtitles.Segment, error) {
	if lang, share := subtitles.DetectLanguage(segments); lang != "" && share >= minHintConfidence {
		ctx = WithSourceHint(ctx, lang)
		if a != nil {
			a.logger.DebugContext(ctx, "source language detected",
				logging.String("source_language", lang),
				logging.Float64("confidence", share),
				logging.String("target_language", target),
			)
		}
	}

	out := make([]subtitles.Segment, len(segments))
	for i, seg := range segments {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrTranslationFailed, err)
		}
		translated, err := a.Translate(ctx, seg.Text, target)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i+1, err)
		}
		out[i] = seg.WithText(translated)
	}
	return out, nil
}
