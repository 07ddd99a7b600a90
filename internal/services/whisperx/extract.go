package whisperx

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/LazyFu/auto-subtitle/internal/fileutil"
	"github.com/LazyFu/auto-subtitle/internal/logging"
	"github.com/LazyFu/auto-subtitle/internal/media/audio"
	"github.com/LazyFu/auto-subtitle/internal/services"
)

// ExtractAudio writes the dialogue track of video to dest as a mono 16 kHz
// WAV file. dest only appears once ffmpeg has finished successfully.
func (s *Service) ExtractAudio(ctx context.Context, video, dest string) error {
	if strings.TrimSpace(video) == "" || strings.TrimSpace(dest) == "" {
		return services.Wrap(services.ErrValidation, "extract", "audio", "video and destination paths required", nil)
	}

	probe, err := s.probe(ctx, video)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "extract", "ffprobe", "inspect video", err)
	}
	selection := audio.Select(probe.Streams, s.cfg.Language)
	if !selection.Found() {
		return services.Wrap(services.ErrValidation, "extract", "select audio",
			fmt.Sprintf("%s has no audio stream", filepath.Base(video)), nil)
	}
	s.logger.DebugContext(ctx, "audio stream selected",
		logging.Int("stream_index", selection.Index),
		logging.String("stream", selection.Label()),
		logging.String("reason", selection.Reason),
		logging.Float64("duration_seconds", probe.DurationSeconds()),
	)

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "extract", "ensure audio dir", filepath.Dir(dest), err)
	}
	tmp := fileutil.TempSibling(dest, "audio")
	_ = os.Remove(tmp)
	args := buildFFmpegExtractArgs(video, selection.Index, tmp)
	if err := s.commandRunner(ctx, s.cfg.FFmpegBinary, args...); err != nil {
		_ = os.Remove(tmp)
		return services.Wrap(services.ErrExternalTool, "extract", "ffmpeg", "extract audio", err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		_ = os.Remove(tmp)
		return services.Wrap(services.ErrExternalTool, "extract", "finalize audio", dest, err)
	}
	return nil
}

func buildFFmpegExtractArgs(source string, streamIndex int, dest string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-nostdin",
		"-i", source,
		"-map", "0:" + strconv.Itoa(streamIndex),
		"-vn",
		"-sn",
		"-dn",
		"-ac", AudioChannels,
		"-ar", AudioSampleRate,
		"-c:a", AudioCodec,
		dest,
	}
}
