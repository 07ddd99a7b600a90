package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/LazyFu/auto-subtitle/internal/artifacts"
	"github.com/LazyFu/auto-subtitle/internal/language"
	"github.com/LazyFu/auto-subtitle/internal/logging"
)

type planEntry struct {
	Video           string `json:"video"`
	Classification  string `json:"classification"`
	Reason          string `json:"reason"`
	Original        string `json:"original"`
	OriginalFresh   bool   `json:"original_fresh"`
	Translated      string `json:"translated,omitempty"`
	TranslatedFresh bool   `json:"translated_fresh,omitempty"`
	Error           string `json:"error,omitempty"`
}

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "plan [flags] VIDEO|DIR...",
		Short: "Show which subtitles a run would reuse, translate, or regenerate",
		Args:  cobra.MinimumNArgs(1),
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
			logger, err := ctx.quietLogger(&cfg)
			if err != nil {
				return err
			}
			logger = logging.NewComponentLogger(logger, "plan")

			opts := artifacts.Options{BaseDir: cfg.ArtifactDir(), Target: cfg.Translation.Target}
			entries := make([]planEntry, 0, len(videos))
			for _, video := range videos {
				entry := planEntry{Video: video}
				decision, err := artifacts.Resolve(video, opts)
				if err != nil {
					entry.Error = err.Error()
					logger.WarnContext(cmd.Context(), "video cannot be planned",
						logging.String(logging.FieldVideo, video),
						logging.Error(err),
					)
					entries = append(entries, entry)
					continue
				}
				entry.Classification = decision.Classification.String()
				entry.Reason = decision.Reason()
				entry.Original = decision.Paths.Original
				entry.OriginalFresh = decision.Original.Fresh
				entry.Translated = decision.Paths.Translated
				entry.TranslatedFresh = decision.Translated.Fresh
				entries = append(entries, entry)
			}

			if flags.jsonOutput {
				return writeJSON(cmd, entries)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Subtitle directory: %s\n", opts.BaseDir)
			if opts.Target != "" {
				fmt.Fprintf(out, "Target language: %s (%s)\n", opts.Target, language.DisplayName(opts.Target))
			}
			fmt.Fprintln(out, renderPlan(entries))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.target, "target", "t", "", `Translation target language code ("none" disables translation)`)
	f.StringVarP(&flags.outputDir, "output-dir", "o", "", "Directory for subtitled videos")
	f.BoolVar(&flags.outputSRT, "output-srt", false, "Look for .srt files in the output directory")
	f.BoolVar(&flags.srtOnly, "srt-only", false, "Plan a subtitle-only run")
	f.BoolVar(&flags.jsonOutput, "json", false, "Print the plan as JSON")
	return cmd
}

func renderPlan(entries []planEntry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		if e.Error != "" {
			rows = append(rows, []string{filepath.Base(e.Video), "error", e.Error, "-", "-"})
			continue
		}
		translated := "-"
		if e.Translated != "" {
			translated = fmt.Sprintf("%s (%s)", filepath.Base(e.Translated), freshLabel(e.TranslatedFresh))
		}
		rows = append(rows, []string{
			filepath.Base(e.Video),
			e.Classification,
			e.Reason,
			fmt.Sprintf("%s (%s)", filepath.Base(e.Original), freshLabel(e.OriginalFresh)),
			translated,
		})
	}
	return renderTable([]string{"Video", "Action", "Reason", "Original", "Translated"}, rows, nil)
}

func freshLabel(fresh bool) string {
	if fresh {
		return "fresh"
	}
	return "missing/stale"
}
