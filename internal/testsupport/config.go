// Package testsupport holds helpers shared by tests across packages:
// temp-workspace configs, stub toolchain binaries, and run store setup.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"roughcut/internal/config"
)

// ConfigOption customizes the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config rooted in a unique temp workspace with the
// asset directories already created.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.Workspace = filepath.Join(base, "workspace")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithSceneCount overrides the configured scene count.
func WithSceneCount(count int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Pipeline.SceneCount = count
	}
}

// WithStubbedBinaries writes stub ffmpeg and ffprobe executables and points
// the assembly config at them.
func WithStubbedBinaries() ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		b.cfg.Assembly.FFmpegBinary = writeStub(b.t, binDir, "ffmpeg")
		b.cfg.Assembly.FFprobeBinary = writeStub(b.t, binDir, "ffprobe")
	}
}

// WithMissingBinaries points the assembly config at binaries that do not
// exist so assembly is skipped.
func WithMissingBinaries() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Assembly.FFmpegBinary = "roughcut-test-missing-ffmpeg"
		b.cfg.Assembly.FFprobeBinary = "roughcut-test-missing-ffprobe"
	}
}

// StubBinary writes an executable stub named name into a fresh temp
// directory and returns its absolute path.
func StubBinary(t testing.TB, name string) string {
	t.Helper()
	return writeStub(t, t.TempDir(), name)
}

func writeStub(t testing.TB, dir, name string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	return path
}
