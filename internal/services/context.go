package services

import "context"

type contextKey string

const (
	runIDKey contextKey = "run_id"
	sceneKey contextKey = "scene"
)

// WithRunID annotates context with the pipeline run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithScene annotates context with the 1-based scene number being processed.
func WithScene(ctx context.Context, number int) context.Context {
	if number <= 0 {
		return ctx
	}
	return context.WithValue(ctx, sceneKey, number)
}

// SceneFromContext returns the scene number if present.
func SceneFromContext(ctx context.Context) (int, bool) {
	if v, ok := ctx.Value(sceneKey).(int); ok && v > 0 {
		return v, true
	}
	return 0, false
}
