package translation

import (
	"fmt"
	"time"

	"github.com/LazyFu/auto-subtitle/internal/config"
	"github.com/LazyFu/auto-subtitle/internal/services"
	"github.com/LazyFu/auto-subtitle/internal/services/llm"
)

// NewClient builds the provider selected by translation.provider.
func NewClient(cfg *config.Config) (Client, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "translation", "select provider", "config is nil", nil)
	}
	switch cfg.Translation.Provider {
	case config.ProviderGoogle, "":
		return NewGoogleClient(
			WithEndpoint(cfg.Translation.Endpoint),
			WithTimeout(time.Duration(cfg.Translation.TimeoutSeconds)*time.Second),
		), nil
	case config.ProviderLLM:
		return NewLLMClient(llm.NewClient(llm.Config{
			APIKey:         cfg.LLM.APIKey,
			BaseURL:        cfg.LLM.BaseURL,
			Model:          cfg.LLM.Model,
			Referer:        cfg.LLM.Referer,
			Title:          cfg.LLM.Title,
			TimeoutSeconds: cfg.LLM.TimeoutSeconds,
		})), nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, "translation", "select provider",
			fmt.Sprintf("unknown provider %q", cfg.Translation.Provider), nil)
	}
}
