package translation

import "context"

type hintKey struct{}

// WithSourceHint records the detected source language for providers that can
// use it.
func WithSourceHint(ctx context.Context, lang string) context.Context {
	if lang == "" {
		return ctx
	}
	return context.WithValue(ctx, hintKey{}, lang)
}

// SourceHint returns the source language recorded by WithSourceHint.
func SourceHint(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	lang, _ := ctx.Value(hintKey{}).(string)
	return lang
}
