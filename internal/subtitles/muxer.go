package subtitles

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/LazyFu/auto-subtitle/internal/fileutil"
	"github.com/LazyFu/auto-subtitle/internal/logging"
	"github.com/LazyFu/auto-subtitle/internal/services"
)

// ErrMuxingFailed marks failures while burning subtitles into a video.
var ErrMuxingFailed = errors.New("muxing failed")

// DefaultBurnStyle is the libass force_style applied to burned-in subtitles.
const DefaultBurnStyle = "OutlineColour=&H40000000,BorderStyle=1,Outline=0.5"

type commandRunner func(ctx context.Context, name string, args ...string) error

// Muxer burns SRT subtitles into video frames using ffmpeg's subtitles filter.
type Muxer struct {
	logger *slog.Logger
	run    commandRunner
	ffmpeg string
	style  string
}

// MuxerOption customizes a Muxer.
type MuxerOption func(*Muxer)

// WithMuxerCommandRunner allows injecting a custom command runner for tests.
func WithMuxerCommandRunner(r commandRunner) MuxerOption {
	return func(m *Muxer) {
		if r != nil {
			m.run = r
		}
	}
}

// WithFFmpegBinary overrides the ffmpeg executable.
func WithFFmpegBinary(binary string) MuxerOption {
	return func(m *Muxer) {
		if strings.TrimSpace(binary) != "" {
			m.ffmpeg = binary
		}
	}
}

// WithBurnStyle overrides the force_style passed to libass.
func WithBurnStyle(style string) MuxerOption {
	return func(m *Muxer) {
		if strings.TrimSpace(style) != "" {
			m.style = style
		}
	}
}

// NewMuxer constructs a subtitle muxer.
func NewMuxer(logger *slog.Logger, opts ...MuxerOption) *Muxer {
	m := &Muxer{
		logger: logging.NewComponentLogger(logger, "muxer"),
		run:    defaultMuxerCommandRunner,
		ffmpeg: "ffmpeg",
		style:  DefaultBurnStyle,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Burn renders subtitlePath onto videoPath and writes the result to
// outputPath, replacing any existing file. ffmpeg writes to a temporary
// sibling that is renamed into place only on success.
func (m *Muxer) Burn(ctx context.Context, videoPath, subtitlePath, outputPath string) error {
	if m == nil {
		return fmt.Errorf("%w: muxer not initialized", ErrMuxingFailed)
	}
	if strings.TrimSpace(outputPath) == "" {
		return services.Wrap(ErrMuxingFailed, "mux", "burn subtitles", "output path is required", nil)
	}
	if _, err := os.Stat(videoPath); err != nil {
		return services.Wrap(ErrMuxingFailed, "mux", "burn subtitles", "source video not found", err)
	}
	if _, err := os.Stat(subtitlePath); err != nil {
		return services.Wrap(ErrMuxingFailed, "mux", "burn subtitles", "subtitle file not found", err)
	}

	tmpPath := fileutil.TempSibling(outputPath, "burn")
	args := m.buildArgs(videoPath, subtitlePath, tmpPath)

	m.logger.DebugContext(ctx, "executing ffmpeg burn-in",
		logging.String("video_path", videoPath),
		logging.String("subtitle_path", subtitlePath),
		logging.String("command", m.ffmpeg+" "+strings.Join(args, " ")),
	)

	if err := m.run(ctx, m.ffmpeg, args...); err != nil {
		_ = os.Remove(tmpPath)
		return services.Wrap(ErrMuxingFailed, "mux", "burn subtitles", "ffmpeg failed", err)
	}
	if _, err := os.Stat(tmpPath); err != nil {
		return services.Wrap(ErrMuxingFailed, "mux", "burn subtitles", "ffmpeg did not produce output", err)
	}
	if err := os.Rename(tmpPath, outputPath); err != nil {
		_ = os.Remove(tmpPath)
		return services.Wrap(ErrMuxingFailed, "mux", "burn subtitles", "replace output", err)
	}

	m.logger.InfoContext(ctx, "subtitles burned into video",
		logging.String(logging.FieldEventType, "subtitle_burn_complete"),
		logging.String("output_path", outputPath),
	)
	return nil
}

func (m *Muxer) buildArgs(videoPath, subtitlePath, outputPath string) []string {
	filter := "subtitles=filename=" + escapeFilterValue(subtitlePath) +
		":force_style=" + escapeFilterValue(m.style)
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-nostdin",
		"-y",
		"-i", videoPath,
		"-map", "0:v:0",
		"-map", "0:a?",
		"-vf", filter,
		outputPath,
	}
}

// escapeFilterValue escapes a filter option value for both levels of ffmpeg
// parsing: the option list and the surrounding filtergraph.
func escapeFilterValue(value string) string {
	return escapeChars(escapeChars(value, `\':`), `\'[],;`)
}

func escapeChars(value, special string) string {
	var b strings.Builder
	b.Grow(len(value) + 8)
	for _, r := range value {
		if strings.ContainsRune(special, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func defaultMuxerCommandRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "mux", name, strings.TrimSpace(string(output)), err)
	}
	return nil
}
