package preflight

import (
	"os"
	"path/filepath"
	"testing"

	"roughcut/internal/config"
	"roughcut/internal/testsupport"
)

func TestCheckDirectoryAccessOK(t *testing.T) {
	result := CheckDirectoryAccess("test", t.TempDir())
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccessNotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccessNotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckOutputTargetCreatesParent(t *testing.T) {
	out := filepath.Join(t.TempDir(), "videos", "final.mp4")
	result := CheckOutputTarget("output", out)
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if _, err := os.Stat(filepath.Dir(out)); err != nil {
		t.Fatalf("expected parent directory created: %v", err)
	}
}

func TestCheckOutputTargetRejectsDirectoryTarget(t *testing.T) {
	dir := t.TempDir()
	result := CheckOutputTarget("output", dir)
	if result.Passed {
		t.Fatal("expected failure when output path is an existing directory")
	}
}

func TestRunAllCoversWorkspaceAndOutput(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	out := filepath.Join(t.TempDir(), "final.mp4")
	results := RunAll(cfg, out)
	if len(results) != 4 {
		t.Fatalf("expected 4 checks, got %d", len(results))
	}
	if !AllPassed(results) {
		t.Fatalf("expected all checks to pass: %#v", results)
	}

	results = RunAll(cfg, "")
	if len(results) != 3 {
		t.Fatalf("expected 3 checks without output path, got %d", len(results))
	}
}

func TestRunAllFlagsMissingWorkspace(t *testing.T) {
	cfgVal := config.Default()
	cfgVal.Paths.Workspace = filepath.Join(t.TempDir(), "never-created")

	results := RunAll(&cfgVal, "")
	if AllPassed(results) {
		t.Fatal("expected failures for missing workspace directories")
	}
}

func TestCheckProviderCredentials(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Script.APIKey = "script-key"
	cfg.Image.APIKey = ""
	cfg.Speech.ElevenLabsAPIKey = "xi-key"
	cfg.Speech.VoiceID = "voice-1"

	results := CheckProviderCredentials(cfg)
	if len(results) != 3 {
		t.Fatalf("expected 3 provider checks, got %d", len(results))
	}
	if !results[0].Passed {
		t.Fatalf("expected script credentials to pass: %#v", results[0])
	}
	if results[1].Passed {
		t.Fatalf("expected image credentials to fail: %#v", results[1])
	}
	if !results[2].Passed {
		t.Fatalf("expected elevenlabs credentials to pass: %#v", results[2])
	}

	cfg.Speech.VoiceID = "  "
	results = CheckProviderCredentials(cfg)
	if results[2].Passed {
		t.Fatalf("expected missing voice id to fail: %#v", results[2])
	}
}
