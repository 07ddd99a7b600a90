package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/LazyFu/auto-subtitle/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("HF_TOKEN", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != filepath.Join(tempHome, ".config", "autosubtitle", "config.toml") {
		t.Fatalf("unexpected resolved path %q", resolved)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "share", "autosubtitle")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if !filepath.IsAbs(cfg.Paths.OutputDir) {
		t.Fatalf("expected absolute output dir, got %q", cfg.Paths.OutputDir)
	}
	if cfg.Transcription.Model != "small" {
		t.Fatalf("unexpected model %q", cfg.Transcription.Model)
	}
	if cfg.Transcription.Language != "auto" {
		t.Fatalf("unexpected language %q", cfg.Transcription.Language)
	}
	if cfg.Translation.Target != "" {
		t.Fatalf("expected no translation target by default, got %q", cfg.Translation.Target)
	}
	if cfg.ArtifactDir() != cfg.Paths.TempDir {
		t.Fatalf("expected temp dir as artifact dir, got %q", cfg.ArtifactDir())
	}
	if cfg.HistoryPath() != filepath.Join(wantState, "history.db") {
		t.Fatalf("unexpected history path %q", cfg.HistoryPath())
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.OutputDir, cfg.Paths.TempDir, cfg.Paths.StateDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "autosubtitle.toml")

	type payload struct {
		Paths struct {
			OutputDir string `toml:"output_dir"`
		} `toml:"paths"`
		Translation struct {
			Target string `toml:"target"`
		} `toml:"translation"`
		Output struct {
			SRTOnly bool `toml:"srt_only"`
		} `toml:"output"`
	}
	custom := payload{}
	custom.Paths.OutputDir = filepath.Join(tempDir, "out")
	custom.Translation.Target = "zh-cn"
	custom.Output.SRTOnly = true
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Translation.Target != "zh-CN" {
		t.Fatalf("expected canonical target, got %q", cfg.Translation.Target)
	}
	if cfg.ArtifactDir() != filepath.Join(tempDir, "out") {
		t.Fatalf("srt_only should keep artifacts in output dir, got %q", cfg.ArtifactDir())
	}
}

func TestEnvFallbacksFillEmptyCredentials(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("HF_TOKEN", "env-hf")
	t.Setenv("OPENROUTER_API_KEY", "env-llm")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Transcription.HFToken != "env-hf" {
		t.Errorf("expected HF token from env, got %q", cfg.Transcription.HFToken)
	}
	if cfg.LLM.APIKey != "env-llm" {
		t.Errorf("expected LLM key from env, got %q", cfg.LLM.APIKey)
	}
}

func TestDotEnvFileIsLoaded(t *testing.T) {
	workDir := t.TempDir()
	t.Chdir(workDir)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("AUTOSUBTITLE_LLM_API_KEY", "")
	os.Unsetenv("AUTOSUBTITLE_LLM_API_KEY")
	if err := os.WriteFile(filepath.Join(workDir, ".env"), []byte("AUTOSUBTITLE_LLM_API_KEY=from-dotenv\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("AUTOSUBTITLE_LLM_API_KEY") })

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LLM.APIKey != "from-dotenv" {
		t.Fatalf("expected key from .env, got %q", cfg.LLM.APIKey)
	}
}

func TestEnglishOnlyModelForcesEnglish(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[transcription]\nmodel = \"base.en\"\nlanguage = \"de\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Transcription.Language != "en" {
		t.Fatalf("expected forced English, got %q", cfg.Transcription.Language)
	}
	if len(cfg.Warnings) != 1 || !strings.Contains(cfg.Warnings[0], "English-only") {
		t.Fatalf("expected English-only warning, got %v", cfg.Warnings)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "your_openrouter_api_key_here") {
		t.Fatalf("sample config missing placeholder key: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Output.BurnStyle != config.Default().Output.BurnStyle {
		t.Fatalf("sample burn style drifted from default: %q", cfg.Output.BurnStyle)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cfg := config.Default()
	cfg.Transcription.Task = "summarize"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown task")
	}

	cfg = config.Default()
	cfg.Transcription.Language = "klingon"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unsupported language hint")
	}

	cfg = config.Default()
	cfg.Translation.Provider = "babelfish"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown provider")
	}

	cfg = config.Default()
	cfg.Translation.Provider = "llm"
	cfg.Translation.Target = "es"
	cfg.LLM.APIKey = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when llm provider lacks api key")
	}

	cfg = config.Default()
	cfg.Transcription.VADMethod = "pyannote"
	cfg.Transcription.HFToken = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when pyannote lacks token")
	}

	cfg = config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadRejectsInvalidTarget(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[translation]\ntarget = \"not a language\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected invalid target to fail loading")
	}
}
