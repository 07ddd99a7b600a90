package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const translationPrompt = `You translate subtitle lines. Reply with JSON only: {"translation": "<text>"}.
Translate the user's line into the requested target language. Keep meaning and tone,
keep it about as short as the source, and do not add notes or quotes.`

// TranslateText asks the model to translate a single subtitle line into
// target. sourceHint may be empty when the source language is unknown.
func (c *Client) TranslateText(ctx context.Context, text, sourceHint, target string) (string, error) {
	text = strings.TrimSpace(text)
	target = strings.TrimSpace(target)
	if text == "" {
		return "", errors.New("llm translate: text required")
	}
	if target == "" {
		return "", errors.New("llm translate: target language required")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Target language: %s\n", target)
	if hint := strings.TrimSpace(sourceHint); hint != "" {
		fmt.Fprintf(&b, "Source language: %s\n", hint)
	}
	fmt.Fprintf(&b, "Line: %s", text)

	content, err := c.CompleteJSON(ctx, translationPrompt, b.String())
	if err != nil {
		return "", fmt.Errorf("llm translate: %w", err)
	}
	var parsed struct {
		Translation string `json:"translation"`
	}
	if err := DecodeLLMJSON(content, &parsed); err != nil {
		return "", fmt.Errorf("llm translate: parse payload: %w", err)
	}
	translated := strings.TrimSpace(parsed.Translation)
	if translated == "" {
		return "", errors.New("llm translate: empty translation")
	}
	return translated, nil
}
