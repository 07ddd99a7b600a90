package translation

import (
	"context"
)

// textTranslator is the subset of the llm client used for translation.
type textTranslator interface {
	TranslateText(ctx context.Context, text, sourceHint, target string) (string, error)
}

// LLMClient adapts the chat-completion client to Client. It forwards the
// source hint from ctx when one was detected.
type LLMClient struct {
	llm textTranslator
}

// NewLLMClient wraps an llm translator.
func NewLLMClient(llm textTranslator) *LLMClient {
	return &LLMClient{llm: llm}
}

// Translate implements Client.
func (c *LLMClient) Translate(ctx context.Context, text, target string) (string, error) {
	return c.llm.TranslateText(ctx, text, SourceHint(ctx), target)
}
