package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/LazyFu/auto-subtitle/internal/config"
	"github.com/LazyFu/auto-subtitle/internal/history"
	"github.com/LazyFu/auto-subtitle/internal/language"
	"github.com/LazyFu/auto-subtitle/internal/logging"
	"github.com/LazyFu/auto-subtitle/internal/pipeline"
	"github.com/LazyFu/auto-subtitle/internal/preflight"
	"github.com/LazyFu/auto-subtitle/internal/services/whisperx"
	"github.com/LazyFu/auto-subtitle/internal/subtitles"
	"github.com/LazyFu/auto-subtitle/internal/translation"
)

type runFlags struct {
	target        string
	outputDir     string
	model         string
	language      string
	task          string
	outputSRT     bool
	srtOnly       bool
	keepAudio     bool
	skipPreflight bool
	jsonOutput    bool
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run [flags] VIDEO|DIR...",
		Short: "Transcribe, translate, and burn subtitles into videos",
		Long: "Processes each video through the subtitle cache: fresh .srt files are reused,\n" +
			"stale or missing ones are regenerated with WhisperX, and the chosen subtitles\n" +
			"are burned into <output-dir>/<name>.mp4.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg := *base
			if err := flags.apply(cmd, &cfg); err != nil {
				return err
			}
			videos, err := collectVideos(args)
			if err != nil {
				return err
			}
			logger, err := ctx.logger(&cfg)
			if err != nil {
				return err
			}

			stderr := cmd.ErrOrStderr()
			colorize := shouldColorize(cmd.OutOrStdout())
			printWarnings(stderr, cfg.Warnings, shouldColorize(stderr))

			if !flags.skipPreflight {
				if err := cfg.EnsureDirectories(); err != nil {
					return err
				}
				if failed := preflight.Failed(preflight.RunAll(cmd.Context(), &cfg)); len(failed) > 0 {
					for _, line := range resultLines(failed, shouldColorize(stderr)) {
						fmt.Fprintln(stderr, line)
					}
					return fmt.Errorf("preflight failed; run `autosubtitle check` for details")
				}
			}

			deps, err := buildDependencies(&cfg, logger, stderr)
			if err != nil {
				return err
			}
			orchestrator := pipeline.New(pipelineOptions(&cfg, ctx.verbose()), deps, logger)
			report, runErr := orchestrator.Run(cmd.Context(), videos)
			if report != nil && cfg.History.Enabled {
				recordHistory(cmd.Context(), &cfg, report, logger)
			}
			if runErr != nil {
				return runErr
			}

			if flags.jsonOutput {
				if err := writeJSON(cmd, historyRun(report)); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), renderReport(report, colorize))
			}
			if _, _, failed := report.Counts(); failed > 0 {
				return fmt.Errorf("%d of %d videos failed", failed, len(report.Videos))
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.target, "target", "t", "", `Translation target language code ("none" disables translation)`)
	f.StringVarP(&flags.outputDir, "output-dir", "o", "", "Directory for subtitled videos")
	f.StringVarP(&flags.model, "model", "m", "", "WhisperX model name")
	f.StringVarP(&flags.language, "language", "l", "", `Spoken language hint ("auto" to detect)`)
	f.StringVar(&flags.task, "task", "", `"transcribe" or "translate" (speech to English)`)
	f.BoolVar(&flags.outputSRT, "output-srt", false, "Keep .srt files in the output directory")
	f.BoolVar(&flags.srtOnly, "srt-only", false, "Only write subtitles; do not produce videos")
	f.BoolVar(&flags.keepAudio, "keep-audio", false, "Keep extracted audio in the temp directory")
	f.BoolVar(&flags.skipPreflight, "skip-preflight", false, "Do not check tools and directories before running")
	f.BoolVar(&flags.jsonOutput, "json", false, "Print the run report as JSON")
	return cmd
}

// apply copies explicitly set flags over the loaded config and revalidates.
func (f runFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	changed := cmd.Flags().Changed
	if changed("target") {
		target, err := language.NormalizeTarget(f.target)
		if err != nil {
			return err
		}
		cfg.Translation.Target = target
	}
	if changed("output-dir") {
		dir, err := config.ExpandPath(strings.TrimSpace(f.outputDir))
		if err != nil {
			return fmt.Errorf("resolve output dir: %w", err)
		}
		cfg.Paths.OutputDir = dir
	}
	if changed("model") {
		cfg.Transcription.Model = strings.TrimSpace(f.model)
	}
	if changed("language") {
		cfg.Transcription.Language = strings.ToLower(strings.TrimSpace(f.language))
	}
	if changed("task") {
		cfg.Transcription.Task = strings.ToLower(strings.TrimSpace(f.task))
	}
	if f.outputSRT {
		cfg.Output.PersistSRT = true
	}
	if f.srtOnly {
		cfg.Output.SRTOnly = true
	}
	if f.keepAudio {
		cfg.Transcription.KeepAudio = true
	}
	cfg.Warnings = append([]string(nil), cfg.Warnings...)
	cfg.ApplyModelLanguage()
	return cfg.Validate()
}

func pipelineOptions(cfg *config.Config, verbose bool) pipeline.Options {
	hint, _ := language.NormalizeSourceHint(cfg.Transcription.Language)
	return pipeline.Options{
		TargetLanguage:       cfg.Translation.Target,
		OutputDir:            cfg.Paths.OutputDir,
		TempDir:              cfg.Paths.TempDir,
		PersistIntermediates: cfg.Output.PersistSRT,
		SubtitlesOnly:        cfg.Output.SRTOnly,
		KeepAudio:            cfg.Transcription.KeepAudio,
		Transcription: whisperx.Options{
			Language: hint,
			Task:     cfg.Transcription.Task,
			Model:    cfg.Transcription.Model,
		},
		Verbose:     verbose,
		LockTimeout: time.Duration(cfg.Output.LockTimeoutSeconds) * time.Second,
	}
}

func buildDependencies(cfg *config.Config, logger *slog.Logger, verboseOutput io.Writer) (pipeline.Dependencies, error) {
	svc := whisperx.NewService(whisperx.Config{
		Model:         cfg.Transcription.Model,
		Language:      cfg.Transcription.Language,
		CUDAEnabled:   cfg.Transcription.CUDAEnabled,
		VADMethod:     cfg.Transcription.VADMethod,
		HFToken:       cfg.Transcription.HFToken,
		FFmpegBinary:  cfg.FFmpegBinary(),
		FFprobeBinary: cfg.FFprobeBinary(),
	}, whisperx.WithLogger(logger), whisperx.WithVerboseOutput(verboseOutput))

	deps := pipeline.Dependencies{Extractor: svc, Transcriber: svc}
	if cfg.Translation.Target != "" {
		client, err := translation.NewClient(cfg)
		if err != nil {
			return deps, err
		}
		deps.Translator = translation.NewAdapter(client, logger)
	}
	if !cfg.Output.SRTOnly {
		deps.Muxer = subtitles.NewMuxer(logger,
			subtitles.WithFFmpegBinary(cfg.FFmpegBinary()),
			subtitles.WithBurnStyle(cfg.Output.BurnStyle),
		)
	}
	return deps, nil
}

// recordHistory stores the report even when the run was interrupted.
func recordHistory(ctx context.Context, cfg *config.Config, report *pipeline.Report, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	store, err := history.Open(ctx, cfg.HistoryPath())
	if err == nil {
		err = store.Record(ctx, historyRun(report))
		if closeErr := store.Close(); err == nil {
			err = closeErr
		}
	}
	if err != nil {
		logging.WarnWithContext(ctx, logger, "run history not recorded", "history_record_failed",
			logging.Error(err),
			logging.String("path", cfg.HistoryPath()),
			logging.String(logging.FieldErrorHint, "check state_dir permissions or disable [history]"),
			logging.String(logging.FieldImpact, "this run will not appear in `autosubtitle history`"),
		)
	}
}
