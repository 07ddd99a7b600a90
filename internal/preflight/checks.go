package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"github.com/LazyFu/auto-subtitle/internal/config"
	"github.com/LazyFu/auto-subtitle/internal/deps"
	"github.com/LazyFu/auto-subtitle/internal/services/llm"
	"github.com/LazyFu/auto-subtitle/internal/translation"
)

const providerCheckTimeout = 30 * time.Second

// CheckLLM verifies that the LLM API is reachable and the key is valid.
// It makes a single attempt with no retries.
func CheckLLM(ctx context.Context, cfg config.LLM) Result {
	const name = "LLM translation"
	if strings.TrimSpace(cfg.APIKey) == "" {
		return Result{Name: name, Detail: "API key missing"}
	}
	checkCtx, cancel := context.WithTimeout(ctx, providerCheckTimeout)
	defer cancel()

	client := llm.NewClient(llm.Config{
		APIKey:         cfg.APIKey,
		BaseURL:        cfg.BaseURL,
		Model:          cfg.Model,
		Referer:        cfg.Referer,
		Title:          cfg.Title,
		TimeoutSeconds: cfg.TimeoutSeconds,
	}, llm.WithRetryMaxAttempts(1))
	if err := client.HealthCheck(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeProviderError(err)}
	}
	return Result{Name: name, Passed: true, Detail: "API reachable (" + client.Model() + ")"}
}

// CheckTranslator sends a one-word request through client.
func CheckTranslator(ctx context.Context, name string, client translation.Client, target string) Result {
	if client == nil {
		return Result{Name: name, Detail: "not configured"}
	}
	checkCtx, cancel := context.WithTimeout(ctx, providerCheckTimeout)
	defer cancel()
	out, err := client.Translate(checkCtx, "Hello", target)
	if err != nil {
		return Result{Name: name, Detail: summarizeProviderError(err)}
	}
	if strings.TrimSpace(out) == "" {
		return Result{Name: name, Detail: "empty translation returned"}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("Hello -> %s", strings.TrimSpace(out))}
}

// CheckTranslationProvider runs the check matching the configured provider.
// It passes trivially when no target language is configured.
func CheckTranslationProvider(ctx context.Context, cfg *config.Config) Result {
	target := strings.TrimSpace(cfg.Translation.Target)
	if target == "" || strings.EqualFold(target, "none") {
		return Result{Name: "Translation", Passed: true, Detail: "Disabled"}
	}
	if cfg.Translation.Provider == config.ProviderLLM {
		return CheckLLM(ctx, cfg.LLM)
	}
	client, err := translation.NewClient(cfg)
	if err != nil {
		return Result{Name: "Translation", Detail: err.Error()}
	}
	return CheckTranslator(ctx, "Google translation", client, target)
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSystemDeps evaluates the external binaries a run needs. Burn-in also
// needs the libass subtitles filter, which is skipped for subtitle-only
// configurations.
func CheckSystemDeps(ctx context.Context, cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.FFmpegBinary(),
			Description: "Required for audio extraction and burn-in",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.FFprobeBinary(),
			Description: "Required for audio stream selection",
		},
		{
			Name:        "uvx",
			Command:     "uvx",
			Description: "Required for WhisperX-driven transcription",
		},
	}
	statuses := deps.CheckBinaries(requirements)
	if !cfg.Output.SRTOnly && statuses[0].Available {
		statuses = append(statuses, deps.CheckSubtitleFilter(ctx, statuses[0].Command))
	}
	return statuses
}

// summarizeProviderError produces a human-readable summary for provider
// health check failures.
func summarizeProviderError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "health check timed out (API unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "health check timed out (API unreachable)"
	}
	return err.Error()
}
