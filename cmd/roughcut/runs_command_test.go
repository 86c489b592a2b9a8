package main

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"roughcut/internal/runstore"
)

func seedRun(t *testing.T, store *runstore.Store, id, title string, status runstore.Status, createdAt time.Time) {
	t.Helper()
	ctx := context.Background()
	run := &runstore.Run{
		ID:         id,
		Title:      title,
		OutputPath: "/tmp/" + id + ".mp4",
		SceneCount: 2,
		CreatedAt:  createdAt,
	}
	if err := store.Create(ctx, run); err != nil {
		t.Fatalf("seed create: %v", err)
	}
	if err := store.Finish(ctx, id, status, 2, 1, 0, "", ""); err != nil {
		t.Fatalf("seed finish: %v", err)
	}
}

func TestRunsListsHistory(t *testing.T) {
	env := setupCLITestEnv(t, "")

	store, err := runstore.Open(filepath.Join(env.workspace, "runs.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	base := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	seedRun(t, store, "11111111-aaaa-bbbb-cccc-000000000001", "First Topic", runstore.StatusAssembled, base)
	seedRun(t, store, "22222222-aaaa-bbbb-cccc-000000000002", "Second Topic", runstore.StatusPlaceholderWritten, base.Add(time.Minute))
	if err := store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	out, _, err := runCLI(t, []string{"runs"}, env.configPath)
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	requireContains(t, out, "First Topic")
	requireContains(t, out, "Second Topic")
	requireContains(t, out, "Assembled")
	requireContains(t, out, "Placeholder Written")
	requireContains(t, out, "11111111")
	if strings.Contains(out, "11111111-aaaa") {
		t.Fatalf("expected shortened run IDs, got:\n%s", out)
	}

	limited, _, err := runCLI(t, []string{"runs", "--limit", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("runs --limit: %v", err)
	}
	requireContains(t, limited, "Second Topic")
	if strings.Contains(limited, "First Topic") {
		t.Fatalf("expected only the newest run, got:\n%s", limited)
	}
}

func TestRunsEmptyHistory(t *testing.T) {
	env := setupCLITestEnv(t, "")

	out, _, err := runCLI(t, []string{"runs"}, env.configPath)
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	requireContains(t, out, "No runs recorded yet")
}
