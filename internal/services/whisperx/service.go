package whisperx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/LazyFu/auto-subtitle/internal/logging"
	"github.com/LazyFu/auto-subtitle/internal/media/ffprobe"
	"github.com/LazyFu/auto-subtitle/internal/services"
)

// CommandRunner executes an external tool.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// ProbeFunc inspects a media file.
type ProbeFunc func(ctx context.Context, path string) (ffprobe.Result, error)

// Service provides audio extraction and WhisperX transcription.
type Service struct {
	cfg           Config
	logger        *slog.Logger
	commandRunner CommandRunner
	probe         ProbeFunc
	verboseOutput io.Writer
}

// Option customizes a Service.
type Option func(*Service)

// WithCommandRunner sets a custom command runner (for testing).
func WithCommandRunner(runner CommandRunner) Option {
	return func(s *Service) {
		if runner != nil {
			s.commandRunner = runner
		}
	}
}

// WithProbe replaces the ffprobe inspection (for testing).
func WithProbe(probe ProbeFunc) Option {
	return func(s *Service) {
		if probe != nil {
			s.probe = probe
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logging.NewComponentLogger(logger, "whisperx")
	}
}

// WithVerboseOutput sets where tool output goes outside a quiet scope.
func WithVerboseOutput(w io.Writer) Option {
	return func(s *Service) {
		if w != nil {
			s.verboseOutput = w
		}
	}
}

// NewService creates a WhisperX service with the given configuration.
func NewService(cfg Config, opts ...Option) *Service {
	if strings.TrimSpace(cfg.FFmpegBinary) == "" {
		cfg.FFmpegBinary = FFmpegCommand
	}
	if strings.TrimSpace(cfg.FFprobeBinary) == "" {
		cfg.FFprobeBinary = FFprobeCommand
	}
	s := &Service{
		cfg:           cfg,
		logger:        logging.NewComponentLogger(nil, "whisperx"),
		verboseOutput: os.Stderr,
	}
	s.commandRunner = s.runCommand
	s.probe = func(ctx context.Context, path string) (ffprobe.Result, error) {
		return ffprobe.Inspect(ctx, s.cfg.FFprobeBinary, path)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Model returns the configured model name for logging.
func (s *Service) Model() string {
	if s.cfg.Model != "" {
		return s.cfg.Model
	}
	return DefaultModel
}

// CUDAEnabled returns whether CUDA is enabled.
func (s *Service) CUDAEnabled() bool {
	return s.cfg.CUDAEnabled
}

// runCommand executes name. Inside a quiet scope the tool's chatter is captured
// and only surfaced when the command fails; otherwise it streams to the
// verbose writer.
func (s *Service) runCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	cmd.Env = commandEnv(ctx, os.Environ())

	if services.IsQuiet(ctx) {
		var output bytes.Buffer
		cmd.Stdout = &output
		cmd.Stderr = &output
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("%s: %w: %s", name, err, tail(output.String(), 20))
		}
		return nil
	}

	cmd.Stdout = s.verboseOutput
	cmd.Stderr = s.verboseOutput
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// commandEnv returns the environment for external tools. Torch 2.6 changed
// torch.load to weights_only=true, which breaks WhisperX/pyannote checkpoints,
// so legacy loading is forced unless the caller set it. A quiet scope also
// silences Python warnings.
func commandEnv(ctx context.Context, base []string) []string {
	env := append([]string(nil), base...)
	if os.Getenv("TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD") == "" {
		env = append(env, "TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD=1")
	}
	if services.IsQuiet(ctx) {
		env = append(env, "PYTHONWARNINGS=ignore", "TQDM_DISABLE=1")
	}
	return env
}

// tail keeps the last n non-empty lines of output.
func tail(output string, n int) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	if len(kept) > n {
		kept = kept[len(kept)-n:]
	}
	return strings.Join(kept, " | ")
}
