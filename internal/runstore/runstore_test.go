package runstore_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"roughcut/internal/runstore"
	"roughcut/internal/testsupport"
)

func mustOpen(t *testing.T) *runstore.Store {
	t.Helper()
	return testsupport.MustOpenStore(t, "")
}

func TestOpenInitializesSchema(t *testing.T) {
	store := mustOpen(t)

	ctx := context.Background()
	run := &runstore.Run{ID: "run-1", Title: "Container Shipping"}
	if err := store.Create(ctx, run); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if run.Status != runstore.StatusBuilding {
		t.Fatalf("expected default status building, got %q", run.Status)
	}
	if run.CreatedAt.IsZero() || run.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps to be filled")
	}

	fetched, err := store.Get(ctx, "run-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if fetched == nil || fetched.Title != "Container Shipping" || fetched.Status != runstore.StatusBuilding {
		t.Fatalf("unexpected fetched run: %#v", fetched)
	}
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "runs.db")
	store, err := runstore.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()
	if store.Path() != path {
		t.Fatalf("unexpected store path %q", store.Path())
	}
}

func TestCreateRequiresID(t *testing.T) {
	store := mustOpen(t)
	if err := store.Create(context.Background(), &runstore.Run{Title: "x"}); err == nil {
		t.Fatal("expected error for missing run id")
	}
	if err := store.Create(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil run")
	}
}

func TestSetStatusAndFinish(t *testing.T) {
	store := mustOpen(t)
	ctx := context.Background()

	if err := store.Create(ctx, &runstore.Run{ID: "run-1", Title: "Topic"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.SetStatus(ctx, "run-1", runstore.StatusAssemblyAttempted); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}

	fetched, err := store.Get(ctx, "run-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if fetched.Status != runstore.StatusAssemblyAttempted {
		t.Fatalf("expected assembly_attempted, got %q", fetched.Status)
	}

	if err := store.Finish(ctx, "run-1", runstore.StatusAssembled, 5, 1, 2, "", ""); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	fetched, err = store.Get(ctx, "run-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if fetched.Status != runstore.StatusAssembled {
		t.Fatalf("expected assembled, got %q", fetched.Status)
	}
	if fetched.SceneCount != 5 || fetched.DegradedAudio != 1 || fetched.MissingImages != 2 {
		t.Fatalf("unexpected counters: %#v", fetched)
	}
	if fetched.ErrorMessage != "" {
		t.Fatalf("expected empty error message, got %q", fetched.ErrorMessage)
	}
}

func TestFinishRecordsErrorKindAndMessage(t *testing.T) {
	store := mustOpen(t)
	ctx := context.Background()

	if err := store.Create(ctx, &runstore.Run{ID: "run-1", Title: "Topic"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.Finish(ctx, "run-1", runstore.StatusPlaceholderWritten, 3, 3, 3, "assembly", "assembly: mux: boom"); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}

	fetched, err := store.Get(ctx, "run-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if fetched.ErrorKind != "assembly" {
		t.Fatalf("unexpected error kind %q", fetched.ErrorKind)
	}
	if fetched.ErrorMessage != "assembly: mux: boom" {
		t.Fatalf("unexpected error message %q", fetched.ErrorMessage)
	}
	if !fetched.Status.Terminal() {
		t.Fatalf("expected terminal status, got %q", fetched.Status)
	}
}

func TestGetMissingRunReturnsNil(t *testing.T) {
	store := mustOpen(t)
	run, err := store.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if run != nil {
		t.Fatalf("expected nil for missing run, got %#v", run)
	}
}

func TestRecentOrdersNewestFirst(t *testing.T) {
	store := mustOpen(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 1; i <= 5; i++ {
		run := &runstore.Run{
			ID:        fmt.Sprintf("run-%d", i),
			Title:     fmt.Sprintf("Topic %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			UpdatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.Create(ctx, run); err != nil {
			t.Fatalf("Create %d failed: %v", i, err)
		}
	}

	runs, err := store.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	for i, wantID := range []string{"run-5", "run-4", "run-3"} {
		if runs[i].ID != wantID {
			t.Fatalf("run %d: expected %s, got %s", i, wantID, runs[i].ID)
		}
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 5 {
		t.Fatalf("expected 5 runs, got %d", count)
	}
}

func TestStatusTerminal(t *testing.T) {
	terminal := []runstore.Status{runstore.StatusAssembled, runstore.StatusPlaceholderWritten}
	for _, status := range terminal {
		if !status.Terminal() {
			t.Fatalf("expected %q to be terminal", status)
		}
	}
	active := []runstore.Status{runstore.StatusBuilding, runstore.StatusAssemblyAttempted, runstore.StatusAssemblySkipped}
	for _, status := range active {
		if status.Terminal() {
			t.Fatalf("expected %q to be non-terminal", status)
		}
	}
}
