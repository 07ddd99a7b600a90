package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultConfigPath          = "~/.config/autosubtitle/config.toml"
	defaultOutputDir           = "."
	defaultStateDir            = "~/.local/share/autosubtitle"
	defaultLogDir              = "~/.local/share/autosubtitle/logs"
	defaultModel               = "small"
	defaultTask                = "transcribe"
	defaultVADMethod           = "silero"
	defaultProvider            = "google"
	defaultGoogleEndpoint      = "https://translate.googleapis.com/translate_a/single"
	defaultTranslationTimeout  = 30
	defaultLLMBaseURL          = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel            = "google/gemini-3-flash-preview"
	defaultLLMReferer          = "https://github.com/LazyFu/auto-subtitle"
	defaultLLMTitle            = "autosubtitle"
	defaultLLMTimeoutSeconds   = 60
	defaultBurnStyle           = "OutlineColour=&H40000000,BorderStyle=1,Outline=0.5"
	defaultLockTimeoutSeconds  = 600
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultTempDirName         = "autosubtitle"
	defaultLanguageAutoDetect  = "auto"
	taskTranscribe             = "transcribe"
	taskTranslate              = "translate"
	englishOnlyModelSuffix     = ".en"
	englishOnlyModelForcedLang = "en"
)

// Translation providers accepted by translation.provider.
const (
	ProviderGoogle = "google"
	ProviderLLM    = "llm"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			TempDir:   defaultTempDir(),
			StateDir:  defaultStateDir,
			LogDir:    defaultLogDir,
		},
		Transcription: Transcription{
			Model:     defaultModel,
			Language:  defaultLanguageAutoDetect,
			Task:      defaultTask,
			VADMethod: defaultVADMethod,
		},
		Translation: Translation{
			Provider:       defaultProvider,
			Endpoint:       defaultGoogleEndpoint,
			TimeoutSeconds: defaultTranslationTimeout,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Referer:        defaultLLMReferer,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Output: Output{
			BurnStyle:          defaultBurnStyle,
			LockTimeoutSeconds: defaultLockTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		History: History{
			Enabled: true,
		},
	}
}

func defaultTempDir() string {
	base := os.TempDir()
	if strings.TrimSpace(base) == "" {
		base = "/tmp"
	}
	return filepath.Join(base, defaultTempDirName)
}
