package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"roughcut/internal/config"
	"roughcut/internal/deps"
	"roughcut/internal/preflight"
	"roughcut/internal/runstore"
)

const defaultOutputName = "final_video.mp4"

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var title string
	var outputFlag string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a narrated video for a topic title",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(title) == "" {
				return fmt.Errorf("--title is required")
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			target, err := resolveOutputPath(cfg, outputFlag)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			results := preflight.RunAll(cfg, target)
			fmt.Fprintln(out, renderSectionHeader("Preflight", colorize))
			for _, result := range results {
				kind := statusOK
				if !result.Passed {
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}
			for _, line := range toolchainLines(cfg, colorize) {
				fmt.Fprintln(out, line)
			}
			for _, line := range credentialLines(cfg, colorize) {
				fmt.Fprintln(out, line)
			}
			if !preflight.AllPassed(results) {
				return fmt.Errorf("preflight failed; resolve the errors above and retry")
			}

			logger, err := ctx.newLogger()
			if err != nil {
				return err
			}

			store, err := runstore.Open(cfg.DatabasePath())
			if err != nil {
				fmt.Fprintln(out, renderStatusLine("Run history", statusWarn, "unavailable: "+err.Error(), colorize))
				store = nil
			} else {
				defer store.Close()
			}

			p := buildPipeline(cfg, store, logger)
			result, err := p.Run(cmd.Context(), title, target)
			if err != nil {
				return err
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, renderSectionHeader("Result", colorize))
			statusLineKind := statusOK
			if result.Status != runstore.StatusAssembled {
				statusLineKind = statusWarn
			}
			fmt.Fprintln(out, renderStatusLine("Status", statusLineKind, displayStatus(result.Status), colorize))
			fmt.Fprintln(out, renderStatusLine("Output", statusInfo, result.OutputPath, colorize))
			fmt.Fprintln(out, renderStatusLine("Manifest", statusInfo, result.ManifestPath, colorize))
			fmt.Fprintln(out, renderStatusLine("Scenes", statusInfo, fmt.Sprintf("%d", result.SceneCount), colorize))
			degradedKind := statusOK
			if result.DegradedAudio > 0 {
				degradedKind = statusWarn
			}
			fmt.Fprintln(out, renderStatusLine("Degraded audio", degradedKind, fmt.Sprintf("%d", result.DegradedAudio), colorize))
			missingKind := statusOK
			if result.MissingImages > 0 {
				missingKind = statusWarn
			}
			fmt.Fprintln(out, renderStatusLine("Missing images", missingKind, fmt.Sprintf("%d", result.MissingImages), colorize))
			fmt.Fprintln(out, renderStatusLine("Run ID", statusInfo, result.RunID, colorize))
			fmt.Fprintln(out, renderStatusLine("Elapsed", statusInfo, result.Elapsed.Round(time.Millisecond).String(), colorize))
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Topic title to generate a video for (required)")
	cmd.Flags().StringVarP(&outputFlag, "out", "o", "", "Output video path (default <workspace>/"+defaultOutputName+")")
	return cmd
}

func resolveOutputPath(cfg *config.Config, flagValue string) (string, error) {
	target := strings.TrimSpace(flagValue)
	if target == "" {
		return filepath.Join(cfg.Paths.Workspace, defaultOutputName), nil
	}
	expanded, err := config.ExpandPath(target)
	if err != nil {
		return "", fmt.Errorf("resolve output path: %w", err)
	}
	return expanded, nil
}

func toolchainLines(cfg *config.Config, colorize bool) []string {
	statuses := deps.CheckBinaries(deps.Requirements(cfg.FFmpegBinary(), cfg.FFprobeBinary()))
	lines := make([]string, 0, len(statuses))
	for _, status := range statuses {
		switch {
		case status.Available:
			lines = append(lines, renderStatusLine(status.Name, statusOK, status.Command, colorize))
		case status.Optional:
			lines = append(lines, renderStatusLine(status.Name, statusInfo, status.Detail+"; durations will use the nominal value", colorize))
		default:
			lines = append(lines, renderStatusLine(status.Name, statusWarn, status.Detail+"; a placeholder file will be written", colorize))
		}
	}
	return lines
}

func credentialLines(cfg *config.Config, colorize bool) []string {
	results := preflight.CheckProviderCredentials(cfg)
	lines := make([]string, 0, len(results))
	for _, result := range results {
		kind := statusOK
		if !result.Passed {
			kind = statusWarn
		}
		lines = append(lines, renderStatusLine(result.Name, kind, result.Detail, colorize))
	}
	return lines
}
