package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/LazyFu/auto-subtitle/internal/artifacts"
	"github.com/LazyFu/auto-subtitle/internal/logging"
	"github.com/LazyFu/auto-subtitle/internal/runlock"
	"github.com/LazyFu/auto-subtitle/internal/services"
	"github.com/LazyFu/auto-subtitle/internal/subtitles"
)

// Orchestrator runs the subtitle pipeline over a batch of videos.
type Orchestrator struct {
	opts   Options
	deps   Dependencies
	logger *slog.Logger
	newID  func() string
	now    func() time.Time
}

// New constructs an orchestrator. opts must not be modified afterwards.
func New(opts Options, deps Dependencies, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		opts:   opts,
		deps:   deps,
		logger: logging.NewComponentLogger(logger, "pipeline"),
		newID:  uuid.NewString,
		now:    time.Now,
	}
}

// Run processes videos and reports per-video outcomes. The returned report is
// non-nil whenever a run ID was assigned, including when an error is returned.
func (o *Orchestrator) Run(ctx context.Context, videos []string) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	target := o.opts.Target()
	report := &Report{RunID: o.newID(), Target: target, StartedAt: o.now()}
	defer func() { report.FinishedAt = o.now() }()
	ctx = services.WithRunID(ctx, report.RunID)

	if err := o.checkDependencies(target); err != nil {
		return report, err
	}
	if err := o.prepareDirectories(); err != nil {
		return report, err
	}
	lock, err := runlock.Acquire(ctx, o.opts.ArtifactDir(), o.opts.LockTimeout)
	if err != nil {
		return report, fmt.Errorf("lock artifact directory: %w", err)
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logging.WarnWithContext(ctx, o.logger, "artifact lock release failed", "lock_release_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "remove "+lock.Path()+" if no run is active"),
				logging.String(logging.FieldImpact, "a later run may wait for the lock"),
			)
		}
	}()

	o.logger.InfoContext(ctx, "run started",
		logging.String(logging.FieldEventType, "run_started"),
		logging.Int("videos", len(videos)),
		logging.String("target_language", displayTarget(target)),
		logging.String("artifact_dir", o.opts.ArtifactDir()),
	)

	var translateList, transcribeList []*VideoResult
	for _, in := range o.dedupe(videos) {
		var res *VideoResult
		if in.collidesWith != "" {
			res = o.rejectCollision(ctx, report, in)
		} else {
			res = o.classify(ctx, in.video, target)
		}
		report.Videos = append(report.Videos, res)
		if res.State == StateFailed {
			continue
		}
		switch res.Classification {
		case artifacts.ReuseTranslated:
			res.Translated = res.Decision.Paths.Translated
		case artifacts.ReuseOriginal:
			res.Original = res.Decision.Paths.Original
		case artifacts.TranslateExisting:
			translateList = append(translateList, res)
		case artifacts.TranscribeFresh:
			transcribeList = append(transcribeList, res)
		}
	}

	for _, res := range translateList {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if !o.translateExisting(ctx, res, target) {
			res.Demoted = true
			transcribeList = append(transcribeList, res)
		}
	}

	for _, res := range transcribeList {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		o.transcribe(ctx, res, target)
	}

	for _, res := range report.Videos {
		o.selectSubtitle(ctx, res, target)
	}

	for _, res := range report.Videos {
		if res.Subtitle == "" || res.State == StateFailed {
			continue
		}
		if o.opts.SubtitlesOnly {
			res.State = StateDone
			continue
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}
		o.embed(ctx, res)
	}

	done, skipped, failed := report.Counts()
	o.logger.InfoContext(ctx, "run complete",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Int("done", done),
		logging.Int("skipped", skipped),
		logging.Int("failed", failed),
		logging.Duration("elapsed", o.now().Sub(report.StartedAt)),
	)
	return report, nil
}

func (o *Orchestrator) checkDependencies(target string) error {
	missing := func(name string) error {
		return services.Wrap(services.ErrConfiguration, "pipeline", "dependencies", name+" not configured", nil)
	}
	switch {
	case o.deps.Extractor == nil:
		return missing("audio extractor")
	case o.deps.Transcriber == nil:
		return missing("transcriber")
	case target != "" && o.deps.Translator == nil:
		return missing("translator")
	case !o.opts.SubtitlesOnly && o.deps.Muxer == nil:
		return missing("muxer")
	}
	return nil
}

func (o *Orchestrator) prepareDirectories() error {
	for _, dir := range []string{o.opts.TempDir, o.opts.OutputDir} {
		if dir == "" {
			return services.Wrap(services.ErrConfiguration, "pipeline", "prepare directories", "output and temp directories are required", nil)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return services.Wrap(services.ErrConfiguration, "pipeline", "prepare directories", dir, err)
		}
	}
	return nil
}

type input struct {
	video string
	// collidesWith names an earlier input with the same artifact stem.
	collidesWith string
}

// dedupe drops repeated inputs and flags videos whose artifact names are
// already taken by an earlier input.
func (o *Orchestrator) dedupe(videos []string) []input {
	seen := make(map[string]struct{}, len(videos))
	stems := make(map[string]string, len(videos))
	out := make([]input, 0, len(videos))
	for _, video := range videos {
		key := filepath.Clean(video)
		if abs, err := filepath.Abs(key); err == nil {
			key = abs
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		stem := artifacts.Stem(video)
		if first, ok := stems[stem]; ok {
			out = append(out, input{video: video, collidesWith: first})
			continue
		}
		stems[stem] = video
		out = append(out, input{video: video})
	}
	return out
}

// rejectCollision fails a video whose subtitle artifacts would overwrite
// those of an earlier input in the same run.
func (o *Orchestrator) rejectCollision(ctx context.Context, report *Report, in input) *VideoResult {
	res := &VideoResult{Video: in.video, State: StateClassified}
	ctx = services.WithStage(services.WithVideo(ctx, in.video), "classify")
	stem := artifacts.Stem(in.video)
	msg := fmt.Sprintf("subtitle name %s.srt is already used by %s", stem, in.collidesWith)
	res.fail(services.Wrap(services.ErrValidation, "classify", "check artifact name", msg, nil))
	report.Warnings = append(report.Warnings, fmt.Sprintf("%s skipped: %s", in.video, msg))
	logging.WarnWithContext(ctx, o.logger, "artifact name collision", "artifact_collision",
		logging.String("first", in.collidesWith),
		logging.String(logging.FieldErrorHint, "rename one of the videos or run them separately"),
		logging.String(logging.FieldImpact, "video skipped so its subtitles cannot replace the other video's"),
	)
	return res
}

func (o *Orchestrator) classify(ctx context.Context, video, target string) *VideoResult {
	res := &VideoResult{Video: video, State: StateClassified}
	ctx = services.WithStage(services.WithVideo(ctx, video), "classify")

	decision, err := artifacts.Resolve(video, artifacts.Options{BaseDir: o.opts.ArtifactDir(), Target: target})
	if err != nil {
		marker := services.ErrValidation
		if errors.Is(err, fs.ErrNotExist) {
			marker = services.ErrNotFound
		}
		res.fail(services.Wrap(marker, "classify", "stat video", "", err))
		logging.ErrorWithContext(ctx, o.logger, "video cannot be read", "video_unreadable",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the path and permissions"),
		)
		return res
	}
	res.Decision = decision
	res.Classification = decision.Classification

	attrs := logging.DecisionAttrs("artifact_cache", decision.Classification.String(), decision.Reason())
	attrs = append(attrs,
		logging.String("original", decision.Paths.Original),
		logging.Bool("original_fresh", decision.Original.Fresh),
	)
	if decision.Paths.Translated != "" {
		attrs = append(attrs,
			logging.String("translated", decision.Paths.Translated),
			logging.Bool("translated_fresh", decision.Translated.Fresh),
		)
	}
	o.logger.InfoContext(ctx, "artifact cache decision", logging.Args(attrs...)...)
	return res
}

// translateExisting translates a fresh original transcript. It reports false
// when the video has to be transcribed instead; no translated file is written
// in that case.
func (o *Orchestrator) translateExisting(ctx context.Context, res *VideoResult, target string) bool {
	ctx = services.WithStage(services.WithVideo(ctx, res.Video), "translate")
	started := time.Now()
	defer func() { res.Elapsed += time.Since(started) }()

	paths := res.Decision.Paths
	segments, err := subtitles.ReadFile(paths.Original)
	var translated []subtitles.Segment
	if err == nil {
		translated, err = o.deps.Translator.TranslateSegments(ctx, segments, target)
	}
	if err == nil {
		err = subtitles.WriteFile(paths.Translated, translated)
	}
	if err != nil {
		res.warn(fmt.Sprintf("translating existing subtitles failed, transcribing again: %v", err))
		logging.WarnWithContext(ctx, o.logger, "translation of existing subtitles failed", "translation_fallback",
			logging.Error(err),
			logging.String("original", paths.Original),
			logging.String(logging.FieldErrorHint, "check the translation provider"),
			logging.String(logging.FieldImpact, "video will be transcribed again"),
		)
		return false
	}

	res.Original = paths.Original
	res.Translated = paths.Translated
	res.State = StateTranslated
	o.logger.InfoContext(ctx, "existing subtitles translated",
		logging.String(logging.FieldEventType, "translation_complete"),
		logging.Int("segments", len(translated)),
		logging.String("translated", paths.Translated),
	)
	return true
}

func (o *Orchestrator) transcribe(ctx context.Context, res *VideoResult, target string) {
	ctx = services.WithStage(services.WithVideo(ctx, res.Video), "transcribe")
	started := time.Now()
	defer func() { res.Elapsed += time.Since(started) }()

	paths := res.Decision.Paths
	audioPath := filepath.Join(o.opts.TempDir, artifacts.Stem(res.Video)+".wav")
	if err := o.deps.Extractor.ExtractAudio(ctx, res.Video, audioPath); err != nil {
		o.transcriptionFailed(ctx, res, fmt.Errorf("extract audio: %w", err))
		return
	}
	res.State = StateAudioExtracted
	if !o.opts.KeepAudio {
		defer func() {
			if err := os.Remove(audioPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
				o.logger.DebugContext(ctx, "audio cleanup failed", logging.Error(err))
			}
		}()
	}

	transcribeCtx := ctx
	if !o.opts.Verbose {
		transcribeCtx = services.WithQuiet(ctx)
	}
	segments, err := o.deps.Transcriber.Transcribe(transcribeCtx, audioPath, o.opts.Transcription)
	if err != nil {
		o.transcriptionFailed(ctx, res, fmt.Errorf("transcribe: %w", err))
		return
	}
	if err := subtitles.WriteFile(paths.Original, segments); err != nil {
		o.transcriptionFailed(ctx, res, fmt.Errorf("write subtitles: %w", err))
		return
	}
	res.Original = paths.Original
	res.State = StateTranscribed

	lang, confidence := subtitles.DetectLanguage(segments)
	res.SourceLanguage = lang
	o.logger.InfoContext(ctx, "subtitles written",
		logging.String(logging.FieldEventType, "subtitles_written"),
		logging.String("path", paths.Original),
		logging.Int("segments", len(segments)),
		logging.String("detected_language", lang),
		logging.Float64("detection_confidence", confidence),
	)

	if target == "" {
		return
	}
	ctx = services.WithStage(ctx, "translate")
	translated, err := o.deps.Translator.TranslateSegments(ctx, segments, target)
	if err == nil {
		err = subtitles.WriteFile(paths.Translated, translated)
	}
	if err != nil {
		res.warn(fmt.Sprintf("translation failed, original subtitles will be used: %v", err))
		logging.WarnWithContext(ctx, o.logger, "translation failed", "translation_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the translation provider and rerun to retry"),
			logging.String(logging.FieldImpact, "original-language subtitles will be embedded"),
		)
		return
	}
	res.Translated = paths.Translated
	res.State = StateTranslated
}

// transcriptionFailed records a transcription failure. A demoted video still
// has its fresh original transcript, so it falls back to that instead of
// failing.
func (o *Orchestrator) transcriptionFailed(ctx context.Context, res *VideoResult, err error) {
	if res.Demoted && res.Decision.Original.Fresh {
		res.Original = res.Decision.Paths.Original
		res.State = StateClassified
		res.warn(fmt.Sprintf("transcription failed, existing original subtitles will be used: %v", err))
		logging.WarnWithContext(ctx, o.logger, "transcription failed", "transcription_fallback",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check ffmpeg and whisperx output"),
			logging.String(logging.FieldImpact, "existing original-language subtitles will be embedded"),
		)
		return
	}
	res.fail(err)
	logging.ErrorWithContext(ctx, o.logger, "transcription failed", "transcription_failed",
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check ffmpeg and whisperx output; rerun with --verbose"),
	)
}

// selectSubtitle fills the embed map entry: the translated artifact when a
// target was requested and one exists, else the original.
func (o *Orchestrator) selectSubtitle(ctx context.Context, res *VideoResult, target string) {
	if res.State == StateFailed {
		return
	}
	ctx = services.WithStage(services.WithVideo(ctx, res.Video), "select")

	candidates := make([]string, 0, 3)
	if target != "" && res.Translated != "" {
		candidates = append(candidates, res.Translated)
	}
	if res.Original != "" {
		candidates = append(candidates, res.Original)
	}
	if res.Decision.Original.Fresh {
		candidates = append(candidates, res.Decision.Paths.Original)
	}
	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			res.Subtitle = path
			o.logger.DebugContext(ctx, "subtitle selected", logging.String("subtitle", path))
			return
		}
	}

	res.State = StateSkipped
	res.Err = fmt.Errorf("%w for %s", ErrNoSubtitleFound, filepath.Base(res.Video))
	res.warn(res.Err.Error())
	logging.WarnWithContext(ctx, o.logger, "no subtitle found", "no_subtitle_found",
		logging.String(logging.FieldErrorHint, "rerun to transcribe the video again"),
		logging.String(logging.FieldImpact, "video skipped"),
	)
}

func (o *Orchestrator) embed(ctx context.Context, res *VideoResult) {
	ctx = services.WithStage(services.WithVideo(ctx, res.Video), "embed")
	started := time.Now()
	defer func() { res.Elapsed += time.Since(started) }()

	output := OutputPath(o.opts.OutputDir, res.Video)
	if err := o.deps.Muxer.Burn(ctx, res.Video, res.Subtitle, output); err != nil {
		if !errors.Is(err, subtitles.ErrMuxingFailed) {
			err = fmt.Errorf("%w: %w", subtitles.ErrMuxingFailed, err)
		}
		res.fail(err)
		logging.ErrorWithContext(ctx, o.logger, "embedding subtitles failed", "muxing_failed",
			logging.Error(err),
			logging.String("subtitle", res.Subtitle),
			logging.String(logging.FieldErrorHint, "check ffmpeg output and the subtitle file"),
		)
		return
	}
	res.State = StateEmbedded
	res.Output = output
	o.logger.InfoContext(ctx, "subtitled video written",
		logging.String(logging.FieldEventType, "video_written"),
		logging.String("output", output),
		logging.String("subtitle", res.Subtitle),
	)
	res.State = StateDone
}

// OutputPath is where the subtitled rendition of video is written:
// <outputDir>/<stem>.mp4, or <stem>_subtitled.mp4 when that would replace
// the source itself.
func OutputPath(outputDir, video string) string {
	stem := artifacts.Stem(video)
	out := filepath.Join(outputDir, stem+".mp4")
	if samePath(out, video) {
		out = filepath.Join(outputDir, stem+"_subtitled.mp4")
	}
	return out
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

func displayTarget(target string) string {
	if target == "" {
		return "none"
	}
	return target
}
