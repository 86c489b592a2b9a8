package testsupport

import (
	"path/filepath"
	"testing"

	"roughcut/internal/runstore"
)

// MustOpenStore opens a run store at path and registers cleanup. An empty
// path opens a store in a fresh temp directory.
func MustOpenStore(t testing.TB, path string) *runstore.Store {
	t.Helper()

	if path == "" {
		path = filepath.Join(t.TempDir(), "runs.db")
	}
	store, err := runstore.Open(path)
	if err != nil {
		t.Fatalf("runstore.Open: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("store.Close: %v", err)
		}
	})
	return store
}
