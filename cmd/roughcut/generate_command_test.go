package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGenerateWritesPlaceholderEndToEnd(t *testing.T) {
	var narrationRequests int
	speechServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		narrationRequests++
		_, _ = w.Write(bytes.Repeat([]byte("mp3"), 600))
	}))
	defer speechServer.Close()

	env := setupCLITestEnv(t, speechServer.URL)
	outputPath := filepath.Join(env.base, "render", "video.mp4")

	out, _, err := runCLI(t, []string{"generate", "--title", "Ocean Currents", "--out", outputPath}, env.configPath)
	if err != nil {
		t.Fatalf("generate: %v\noutput:\n%s", err, out)
	}

	requireContains(t, out, "Preflight")
	requireContains(t, out, "FFmpeg")
	requireContains(t, out, "not found")
	requireContains(t, out, "Result")
	requireContains(t, out, "Placeholder Written")
	requireContains(t, out, "Scenes")

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	content := string(data)
	if !strings.HasPrefix(content, "FAKE_MP4_PLACEHOLDER\nManifest scenes: 2\n") {
		t.Fatalf("unexpected placeholder content:\n%s", content)
	}
	if !strings.Contains(content, "scene_1_gtts.mp3 (5.00s)") {
		t.Fatalf("expected gtts clip in placeholder, got:\n%s", content)
	}

	if narrationRequests == 0 {
		t.Fatal("expected narration requests against the speech server")
	}
	clipPath := filepath.Join(env.workspace, "assets", "audio_clips", "scene_1_gtts.mp3")
	if _, err := os.Stat(clipPath); err != nil {
		t.Fatalf("expected narration clip at %s: %v", clipPath, err)
	}

	manifestData, err := os.ReadFile(filepath.Join(env.workspace, "manifest.json"))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var records []map[string]any
	if err := json.Unmarshal(manifestData, &records); err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 manifest records, got %d", len(records))
	}

	histOut, _, err := runCLI(t, []string{"runs"}, env.configPath)
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	requireContains(t, histOut, "Ocean Currents")
	requireContains(t, histOut, "Placeholder Written")
}

func TestGenerateRequiresTitle(t *testing.T) {
	env := setupCLITestEnv(t, "")

	_, _, err := runCLI(t, []string{"generate"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "--title is required") {
		t.Fatalf("expected missing title error, got %v", err)
	}
}

func TestGenerateRejectsUnwritableOutput(t *testing.T) {
	env := setupCLITestEnv(t, "")

	blocker := filepath.Join(env.base, "not-a-dir")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	outputPath := filepath.Join(blocker, "video.mp4")

	out, _, err := runCLI(t, []string{"generate", "--title", "Blocked", "--out", outputPath}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "preflight failed") {
		t.Fatalf("expected preflight failure, got %v\noutput:\n%s", err, out)
	}
	requireContains(t, out, "Output directory")
}
