package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"roughcut/internal/preflight"
	"roughcut/internal/runstore"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configuration, toolchain, and provider readiness",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			fmt.Fprintln(out, renderSectionHeader("Configuration", colorize))
			configDetail := ctx.configPath
			if !ctx.configExists {
				configDetail += " (not found, defaults in use)"
			}
			fmt.Fprintln(out, renderStatusLine("Config", statusInfo, configDetail, colorize))
			workspace := preflight.CheckDirectoryAccess("Workspace", cfg.Paths.Workspace)
			workspaceKind := statusOK
			if !workspace.Passed {
				workspaceKind = statusError
			}
			fmt.Fprintln(out, renderStatusLine(workspace.Name, workspaceKind, workspace.Detail, colorize))

			fmt.Fprintln(out)
			fmt.Fprintln(out, renderSectionHeader("Toolchain", colorize))
			for _, line := range toolchainLines(cfg, colorize) {
				fmt.Fprintln(out, line)
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, renderSectionHeader("Providers", colorize))
			for _, line := range credentialLines(cfg, colorize) {
				fmt.Fprintln(out, line)
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, renderSectionHeader("Runs", colorize))
			fmt.Fprintln(out, runCountLine(cmd, cfg.DatabasePath(), colorize))
			return nil
		},
	}
}

func runCountLine(cmd *cobra.Command, databasePath string, colorize bool) string {
	store, err := runstore.Open(databasePath)
	if err != nil {
		return renderStatusLine("Recorded", statusWarn, "history unavailable: "+err.Error(), colorize)
	}
	defer store.Close()

	count, err := store.Count(cmd.Context())
	if err != nil {
		return renderStatusLine("Recorded", statusWarn, "history unavailable: "+err.Error(), colorize)
	}
	return renderStatusLine("Recorded", statusInfo, fmt.Sprintf("%d", count), colorize)
}
