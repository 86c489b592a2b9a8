// Package runstore persists run history in a SQLite database inside the
// workspace. Pipeline writes are best-effort; the CLI reads history for the
// runs and status commands.
package runstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Status tracks a run through the pipeline state machine. Transitions are
// strictly linear and never revisit a state.
type Status string

const (
	StatusBuilding           Status = "building"
	StatusAssemblyAttempted  Status = "assembly_attempted"
	StatusAssemblySkipped    Status = "assembly_skipped"
	StatusAssembled          Status = "assembled"
	StatusPlaceholderWritten Status = "placeholder_written"
)

// Terminal reports whether the status ends a run.
func (s Status) Terminal() bool {
	return s == StatusAssembled || s == StatusPlaceholderWritten
}

// Run is one pipeline invocation as recorded in the store. ErrorKind holds
// the failure class from services.Kind when assembly fell back to a
// placeholder; ErrorMessage holds the wrapped error chain.
type Run struct {
	ID            string
	Title         string
	Status        Status
	OutputPath    string
	SceneCount    int
	DegradedAudio int
	MissingImages int
	ErrorKind     string
	ErrorMessage  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Store manages run persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    status TEXT NOT NULL,
    output_path TEXT,
    scene_count INTEGER NOT NULL DEFAULT 0,
    degraded_audio INTEGER NOT NULL DEFAULT 0,
    missing_images INTEGER NOT NULL DEFAULT 0,
    error_kind TEXT,
    error_message TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

// Open initializes or connects to the run database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("run database path is required")
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.execWithoutResult(context.Background(), schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Create inserts a new run record. Zero timestamps are filled with the
// current time and an empty status defaults to building.
func (s *Store) Create(ctx context.Context, run *Run) error {
	if run == nil {
		return errors.New("run is nil")
	}
	if strings.TrimSpace(run.ID) == "" {
		return errors.New("run id is required")
	}
	now := time.Now().UTC()
	if run.CreatedAt.IsZero() {
		run.CreatedAt = now
	}
	if run.UpdatedAt.IsZero() {
		run.UpdatedAt = run.CreatedAt
	}
	if run.Status == "" {
		run.Status = StatusBuilding
	}

	return s.execWithoutResult(
		ctx,
		`INSERT INTO runs (
            id, title, status, output_path, scene_count,
            degraded_audio, missing_images, error_kind, error_message, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.Title,
		string(run.Status),
		nullableString(run.OutputPath),
		run.SceneCount,
		run.DegradedAudio,
		run.MissingImages,
		nullableString(run.ErrorKind),
		nullableString(run.ErrorMessage),
		run.CreatedAt.Format(time.RFC3339Nano),
		run.UpdatedAt.Format(time.RFC3339Nano),
	)
}

// SetStatus advances a run to the given status.
func (s *Store) SetStatus(ctx context.Context, id string, status Status) error {
	return s.execWithoutResult(
		ctx,
		`UPDATE runs SET status = ?, updated_at = ? WHERE id = ?`,
		string(status),
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
}

// Finish records the terminal status and final counters for a run.
func (s *Store) Finish(ctx context.Context, id string, status Status, sceneCount, degradedAudio, missingImages int, errorKind, errorMessage string) error {
	return s.execWithoutResult(
		ctx,
		`UPDATE runs
         SET status = ?, scene_count = ?, degraded_audio = ?, missing_images = ?,
             error_kind = ?, error_message = ?, updated_at = ?
         WHERE id = ?`,
		string(status),
		sceneCount,
		degradedAudio,
		missingImages,
		nullableString(errorKind),
		nullableString(errorMessage),
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
}

// Get fetches a run by identifier. A missing run returns nil with no error.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// Recent returns the newest runs, most recent first.
func (s *Store) Recent(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Count returns the total number of recorded runs.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return count, nil
}

const runColumns = "id, title, status, output_path, scene_count, degraded_audio, missing_images, error_kind, error_message, created_at, updated_at"

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		id            string
		title         string
		statusStr     string
		outputPath    sql.NullString
		sceneCount    int
		degradedAudio int
		missingImages int
		errorKind     sql.NullString
		errorMessage  sql.NullString
		createdRaw    string
		updatedRaw    string
	)

	if err := scanner.Scan(
		&id,
		&title,
		&statusStr,
		&outputPath,
		&sceneCount,
		&degradedAudio,
		&missingImages,
		&errorKind,
		&errorMessage,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	run := &Run{
		ID:            id,
		Title:         title,
		Status:        Status(statusStr),
		OutputPath:    outputPath.String,
		SceneCount:    sceneCount,
		DegradedAudio: degradedAudio,
		MissingImages: missingImages,
		ErrorKind:     errorKind.String,
		ErrorMessage:  errorMessage.String,
	}
	if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		run.CreatedAt = created
	}
	if updated, err := time.Parse(time.RFC3339Nano, updatedRaw); err == nil {
		run.UpdatedAt = updated
	}
	return run, nil
}

func (s *Store) execWithoutResult(ctx context.Context, query string, args ...any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
