package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	base       string
	workspace  string
	configPath string
}

// setupCLITestEnv writes a config pointing at a temp workspace with missing
// toolchain binaries and no provider credentials. gttsBaseURL may be empty
// for commands that never synthesize speech.
func setupCLITestEnv(t *testing.T, gttsBaseURL string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	home := filepath.Join(base, "home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", home)
	for _, key := range []string{
		"GEMINI_API_KEY", "OPENAI_API_KEY", "GOOGLE_API_KEY",
		"ELEVENLABS_API_KEY", "ELEVENLABS_VOICE_ID", "ELEVENLABS_MODEL_ID",
		"ROUGHCUT_WORKSPACE", "GEMINI_IMAGE_SIZE",
	} {
		t.Setenv(key, "")
	}

	workspace := filepath.Join(base, "workspace")
	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, workspace, gttsBaseURL)

	return &cliTestEnv{
		base:       base,
		workspace:  workspace,
		configPath: configPath,
	}
}

func writeTestConfig(t *testing.T, path, workspace, gttsBaseURL string) {
	t.Helper()

	var sb strings.Builder
	fmt.Fprintf(&sb, "[paths]\nworkspace = %q\n\n", workspace)
	sb.WriteString("[pipeline]\nscene_count = 2\n\n")
	sb.WriteString("[speech]\n")
	if gttsBaseURL != "" {
		fmt.Fprintf(&sb, "gtts_base_url = %q\n", gttsBaseURL)
	}
	sb.WriteString("min_clip_bytes = 16\ntimeout_seconds = 5\n\n")
	sb.WriteString("[assembly]\nffmpeg_binary = \"roughcut-test-missing-ffmpeg\"\nffprobe_binary = \"roughcut-test-missing-ffprobe\"\n\n")
	sb.WriteString("[logging]\nformat = \"json\"\nlevel = \"error\"\n")

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		t.Fatalf("write test config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Fatalf("expected output to contain %q, got:\n%s", want, output)
	}
}
