package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LazyFu/auto-subtitle/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(ctx, cmd, func(store *history.Store) error {
				runs, err := store.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if jsonOutput {
					if runs == nil {
						runs = []history.Summary{}
					}
					return writeJSON(cmd, runs)
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded")
					return nil
				}
				rows := make([][]string, 0, len(runs))
				for _, r := range runs {
					rows = append(rows, []string{
						r.ID,
						r.StartedAt.Local().Format("2006-01-02 15:04"),
						targetLabel(r.Target),
						strconv.Itoa(r.Videos),
						strconv.Itoa(r.Done),
						strconv.Itoa(r.Skipped),
						strconv.Itoa(r.Failed),
						formatElapsed(r.Duration()),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Run", "Started", "Target", "Videos", "Done", "Skipped", "Failed", "Duration"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
				))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print runs as JSON")
	cmd.AddCommand(newHistoryShowCommand(ctx))
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show RUN_ID",
		Short: "Show the per-video outcomes of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(ctx, cmd, func(store *history.Store) error {
				run, err := store.Get(cmd.Context(), strings.TrimSpace(args[0]))
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, run)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Run %s (target %s)\n", run.ID, targetLabel(run.Target))
				fmt.Fprintf(out, "Started %s, took %s\n",
					run.StartedAt.Local().Format("2006-01-02 15:04:05"),
					formatElapsed(run.FinishedAt.Sub(run.StartedAt)))
				rows := make([][]string, 0, len(run.Videos))
				for _, v := range run.Videos {
					state := v.State
					if v.Demoted {
						state += " (retranscribed)"
					}
					detail := v.ErrorMessage
					if v.ErrorKind != "" {
						detail = v.ErrorKind + ": " + detail
					}
					rows = append(rows, []string{
						filepath.Base(v.Path),
						v.Classification,
						state,
						baseOrDash(v.Subtitle),
						formatElapsed(v.Elapsed),
						detail,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Video", "Cache", "State", "Subtitle", "Time", "Detail"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
				))
				colorize := shouldColorize(out)
				for _, w := range run.Warnings {
					fmt.Fprintln(out, renderStatusLine("Warning", statusWarn, w, colorize))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the run as JSON")
	return cmd
}

func withHistory(ctx *commandContext, cmd *cobra.Command, fn func(*history.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	store, err := history.Open(cmd.Context(), cfg.HistoryPath())
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func targetLabel(target string) string {
	if target == "" {
		return "none"
	}
	return target
}
