package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/LazyFu/auto-subtitle/internal/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateTranslation(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return errors.New("paths.output_dir must be set")
	}
	if strings.TrimSpace(c.Paths.TempDir) == "" {
		return errors.New("paths.temp_dir must be set")
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return errors.New("paths.state_dir must be set")
	}
	return nil
}

func (c *Config) validateTranscription() error {
	switch c.Transcription.Task {
	case taskTranscribe, taskTranslate:
	default:
		return fmt.Errorf("transcription.task must be %q or %q, got %q", taskTranscribe, taskTranslate, c.Transcription.Task)
	}
	if _, err := language.NormalizeSourceHint(c.Transcription.Language); err != nil {
		return fmt.Errorf("transcription.language: %w", err)
	}
	switch c.Transcription.VADMethod {
	case "silero", "pyannote":
	default:
		return fmt.Errorf("transcription.vad_method must be silero or pyannote, got %q", c.Transcription.VADMethod)
	}
	if c.Transcription.VADMethod == "pyannote" && c.Transcription.HFToken == "" {
		return errors.New("transcription.hf_token must be set when transcription.vad_method is pyannote (or set HF_TOKEN)")
	}
	return nil
}

func (c *Config) validateTranslation() error {
	switch c.Translation.Provider {
	case ProviderGoogle:
	case ProviderLLM:
		if c.Translation.Target != "" && c.LLM.APIKey == "" {
			return errors.New("llm.api_key must be set when translation.provider is llm (or set OPENROUTER_API_KEY)")
		}
	default:
		return fmt.Errorf("translation.provider must be %q or %q, got %q", ProviderGoogle, ProviderLLM, c.Translation.Provider)
	}
	return nil
}

func (c *Config) validateOutput() error {
	if strings.ContainsAny(c.Output.BurnStyle, "'\n") {
		return errors.New("output.burn_style must not contain quotes or newlines")
	}
	return nil
}
