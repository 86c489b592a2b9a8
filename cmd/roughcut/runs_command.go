package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"roughcut/internal/runstore"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show recent run history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := runstore.Open(cfg.DatabasePath())
			if err != nil {
				return fmt.Errorf("open run history: %w", err)
			}
			defer store.Close()

			runs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded yet")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					shortID(run.ID),
					run.Title,
					displayStatus(run.Status),
					strconv.Itoa(run.SceneCount),
					strconv.Itoa(run.DegradedAudio),
					strconv.Itoa(run.MissingImages),
					formatDisplayTime(run.CreatedAt),
				})
			}
			rendered := renderTable(
				[]string{"ID", "Title", "Status", "Scenes", "Degraded", "No Image", "Created"},
				rows, 3, 4, 5)
			fmt.Fprintln(out, rendered)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of runs to display")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func displayStatus(status runstore.Status) string {
	label := strings.ReplaceAll(strings.TrimSpace(string(status)), "_", " ")
	if label == "" {
		return ""
	}
	return cases.Title(language.Und).String(label)
}

func formatDisplayTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04")
}
