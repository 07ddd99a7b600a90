package whisperx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	langpkg "github.com/LazyFu/auto-subtitle/internal/language"
	"github.com/LazyFu/auto-subtitle/internal/logging"
	"github.com/LazyFu/auto-subtitle/internal/services"
	"github.com/LazyFu/auto-subtitle/internal/subtitles"
)

// Transcribe runs WhisperX on audio and returns the recognised segments in
// order. WhisperX writes its JSON into a scratch directory next to the audio,
// which is removed afterwards.
func (s *Service) Transcribe(ctx context.Context, audioPath string, opts Options) ([]subtitles.Segment, error) {
	if strings.TrimSpace(audioPath) == "" {
		return nil, services.Wrap(services.ErrValidation, "transcribe", "whisperx", "audio path required", nil)
	}
	if _, err := os.Stat(audioPath); err != nil {
		return nil, services.Wrap(services.ErrNotFound, "transcribe", "whisperx", "audio file", err)
	}

	outputDir, err := os.MkdirTemp(filepath.Dir(audioPath), ".whisperx-")
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "transcribe", "whisperx", "create output dir", err)
	}
	defer os.RemoveAll(outputDir)

	args := s.buildArgs(audioPath, outputDir, opts)
	started := time.Now()
	if err := s.commandRunner(ctx, UVXCommand, args...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, services.Wrap(services.ErrExternalTool, "transcribe", "whisperx", "run", err)
	}

	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	raw, err := LoadSegments(filepath.Join(outputDir, base+".json"))
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "transcribe", "whisperx", "load output", err)
	}
	segments := toSubtitleSegments(raw)
	s.logger.InfoContext(ctx, "transcription complete",
		logging.String(logging.FieldEventType, "transcription_complete"),
		logging.Int("segments", len(segments)),
		logging.String("model", s.modelFor(opts)),
		logging.Duration("elapsed", time.Since(started)),
	)
	return segments, nil
}

func (s *Service) modelFor(opts Options) string {
	if m := strings.TrimSpace(opts.Model); m != "" {
		return m
	}
	return s.Model()
}

// buildArgs constructs the uvx command arguments for WhisperX.
func (s *Service) buildArgs(source, outputDir string, opts Options) []string {
	args := make([]string, 0, 40)

	if s.cfg.CUDAEnabled {
		args = append(args, "--index-url", CUDAIndexURL, "--extra-index-url", PypiIndexURL)
	} else {
		args = append(args, "--index-url", PypiIndexURL)
	}

	task := strings.ToLower(strings.TrimSpace(opts.Task))
	if task != TaskTranslate {
		task = TaskTranscribe
	}

	args = append(args,
		"whisperx",
		source,
		"--model", s.modelFor(opts),
		"--task", task,
		"--batch_size", BatchSize,
		"--output_dir", outputDir,
		"--output_format", OutputFormat,
		"--segment_resolution", SegmentResolution,
		"--chunk_size", ChunkSize,
		"--vad_onset", VADOnset,
		"--vad_offset", VADOffset,
		"--beam_size", BeamSize,
		"--temperature", Temperature,
	)

	vadMethod := s.cfg.VADMethod
	if vadMethod == "" {
		vadMethod = VADMethodSilero
	}
	args = append(args, "--vad_method", vadMethod)
	if vadMethod == VADMethodPyannote && s.cfg.HFToken != "" {
		args = append(args, "--hf_token", s.cfg.HFToken)
	}

	if lang := s.languageFor(opts); lang != "" {
		args = append(args, "--language", lang)
	}

	if s.cfg.CUDAEnabled {
		args = append(args, "--device", CUDADevice)
	} else {
		args = append(args, "--device", CPUDevice, "--compute_type", CPUComputeType)
	}
	return args
}

// languageFor picks the --language value. Codes Whisper accepts are forwarded
// as given (including three-letter ones such as "haw"); anything else is
// mapped to ISO 639-1 and dropped when unknown.
func (s *Service) languageFor(opts Options) string {
	hint := strings.ToLower(strings.TrimSpace(opts.Language))
	if hint == "" {
		hint = strings.ToLower(strings.TrimSpace(s.cfg.Language))
	}
	if langpkg.IsWhisperLanguage(hint) {
		return hint
	}
	return langpkg.ToISO2(hint)
}

// Segment represents a transcribed segment from WhisperX JSON output.
type Segment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type whisperXPayload struct {
	Segments []Segment `json:"segments"`
	Language string    `json:"language"`
}

// LoadSegments loads segments from a WhisperX JSON file.
func LoadSegments(jsonPath string) ([]Segment, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, err
	}
	var payload whisperXPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse whisperx json: %w", err)
	}
	if payload.Segments == nil {
		return nil, errors.New("parse whisperx json: no segments field")
	}
	return payload.Segments, nil
}

// toSubtitleSegments trims text and repairs timing WhisperX occasionally emits
// out of range, so every result passes Segment.Validate.
func toSubtitleSegments(raw []Segment) []subtitles.Segment {
	out := make([]subtitles.Segment, 0, len(raw))
	for _, seg := range raw {
		start := seg.Start
		if start < 0 {
			start = 0
		}
		end := seg.End
		if end < start {
			end = start
		}
		out = append(out, subtitles.Segment{
			Start: start,
			End:   end,
			Text:  strings.TrimSpace(seg.Text),
		})
	}
	return out
}
