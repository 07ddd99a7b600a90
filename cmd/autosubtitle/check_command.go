package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LazyFu/auto-subtitle/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var skipProvider bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify external tools, directories, and the translation provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			if ctx.configPath != "" {
				fmt.Fprintln(out, renderStatusLine("Config", statusInfo, ctx.configPath, colorize))
			}
			printWarnings(out, cfg.Warnings, colorize)

			statuses := preflight.CheckSystemDeps(cmd.Context(), cfg)
			var failed []string
			for _, s := range statuses {
				if !s.Available && !s.Optional {
					failed = append(failed, s.Name)
				}
			}
			writeSection(out, "Dependencies", dependencyLines(statuses, colorize), colorize)

			dirs := []preflight.Result{
				preflight.CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir),
				preflight.CheckDirectoryAccess("Temp directory", cfg.Paths.TempDir),
			}
			if cfg.History.Enabled {
				dirs = append(dirs, preflight.CheckDirectoryAccess("State directory", cfg.Paths.StateDir))
			}
			writeSection(out, "Directories", resultLines(dirs, colorize), colorize)
			for _, r := range preflight.Failed(dirs) {
				failed = append(failed, r.Name)
			}

			if !skipProvider {
				provider := preflight.CheckTranslationProvider(cmd.Context(), cfg)
				writeSection(out, "Translation", resultLines([]preflight.Result{provider}, colorize), colorize)
				if !provider.Passed {
					failed = append(failed, provider.Name)
				}
			}

			if len(failed) > 0 {
				return fmt.Errorf("%d check(s) failed: %s", len(failed), strings.Join(failed, ", "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipProvider, "offline", false, "Skip the translation provider request")
	return cmd
}

func writeSection(w io.Writer, title string, lines []string, colorize bool) {
	for _, line := range renderSectionHeader(title, colorize) {
		fmt.Fprintln(w, line)
	}
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)
}
