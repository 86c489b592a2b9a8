package services_test

import (
	"context"
	"testing"

	"roughcut/internal/services"
)

func TestRunIDContextRoundTrip(t *testing.T) {
	ctx := services.WithRunID(context.Background(), "run-123")
	id, ok := services.RunIDFromContext(ctx)
	if !ok || id != "run-123" {
		t.Fatalf("expected run-123, got %q (ok=%v)", id, ok)
	}

	if _, ok := services.RunIDFromContext(context.Background()); ok {
		t.Fatal("expected no run id on empty context")
	}

	if _, ok := services.RunIDFromContext(services.WithRunID(context.Background(), "")); ok {
		t.Fatal("empty run id should not be stored")
	}
}

func TestSceneContextRoundTrip(t *testing.T) {
	ctx := services.WithScene(context.Background(), 3)
	n, ok := services.SceneFromContext(ctx)
	if !ok || n != 3 {
		t.Fatalf("expected scene 3, got %d (ok=%v)", n, ok)
	}

	if _, ok := services.SceneFromContext(context.Background()); ok {
		t.Fatal("expected no scene on empty context")
	}

	ctx = services.WithScene(context.Background(), 0)
	if _, ok := services.SceneFromContext(ctx); ok {
		t.Fatal("non-positive scene should not be stored")
	}
}
