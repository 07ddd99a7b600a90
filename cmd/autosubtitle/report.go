package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/LazyFu/auto-subtitle/internal/history"
	"github.com/LazyFu/auto-subtitle/internal/pipeline"
	"github.com/LazyFu/auto-subtitle/internal/services"
	"github.com/LazyFu/auto-subtitle/internal/subtitles"
	"github.com/LazyFu/auto-subtitle/internal/translation"
)

// failureKind extends services.FailureKind with the pipeline's own markers.
func failureKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, pipeline.ErrNoSubtitleFound):
		return "no_subtitle"
	case errors.Is(err, subtitles.ErrMuxingFailed):
		return "muxing"
	case errors.Is(err, translation.ErrTranslationFailed):
		return "translation"
	default:
		return services.FailureKind(err)
	}
}

func historyRun(report *pipeline.Report) history.Run {
	run := history.Run{
		ID:         report.RunID,
		Target:     report.Target,
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
		Warnings:   append([]string(nil), report.Warnings...),
	}
	for _, v := range report.Videos {
		entry := history.Video{
			Path:           v.Video,
			Classification: v.Classification.String(),
			State:          v.State.String(),
			Demoted:        v.Demoted,
			Subtitle:       v.Subtitle,
			Output:         v.Output,
			SourceLanguage: v.SourceLanguage,
			Elapsed:        v.Elapsed,
		}
		if v.Err != nil {
			entry.ErrorKind = failureKind(v.Err)
			entry.ErrorMessage = v.Err.Error()
		}
		run.Videos = append(run.Videos, entry)
	}
	return run
}

func renderReport(report *pipeline.Report, colorize bool) string {
	rows := make([][]string, 0, len(report.Videos))
	for _, v := range report.Videos {
		rows = append(rows, []string{
			filepath.Base(v.Video),
			v.Classification.String(),
			stateLabel(v.State, v.Demoted),
			baseOrDash(v.Subtitle),
			baseOrDash(v.Output),
			formatElapsed(v.Elapsed),
		})
	}

	var b strings.Builder
	b.WriteString(renderTable(
		[]string{"Video", "Cache", "State", "Subtitle", "Output", "Time"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
	))
	b.WriteString("\n")

	for _, warning := range report.Warnings {
		b.WriteString(renderStatusLine("Warning", statusWarn, warning, colorize) + "\n")
	}
	for _, v := range report.Videos {
		name := filepath.Base(v.Video)
		for _, warning := range v.Warnings {
			if v.Err != nil && warning == v.Err.Error() {
				continue
			}
			b.WriteString(renderStatusLine(name, statusWarn, warning, colorize) + "\n")
		}
		if v.Err != nil {
			kind := statusError
			if v.State == pipeline.StateSkipped {
				kind = statusWarn
			}
			b.WriteString(renderStatusLine(name, kind, v.Err.Error(), colorize) + "\n")
		}
	}

	done, skipped, failed := report.Counts()
	kind := statusOK
	switch {
	case failed > 0:
		kind = statusError
	case skipped > 0:
		kind = statusWarn
	}
	summary := fmt.Sprintf("%d done, %d skipped, %d failed (run %s)", done, skipped, failed, shortID(report.RunID))
	b.WriteString(renderStatusLine("Summary", kind, summary, colorize))
	return b.String()
}

func stateLabel(state pipeline.State, demoted bool) string {
	if demoted {
		return state.String() + " (retranscribed)"
	}
	return state.String()
}

func baseOrDash(path string) string {
	if path == "" {
		return "-"
	}
	return filepath.Base(path)
}

func formatElapsed(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(time.Second).String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
