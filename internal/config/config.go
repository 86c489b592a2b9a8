package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains workspace directory configuration. All per-run artifacts
// (audio clips, images, manifest, run database, lock file) live under the
// workspace.
type Paths struct {
	Workspace string `toml:"workspace"`
}

// Pipeline contains top-level generation settings.
type Pipeline struct {
	SceneCount int `toml:"scene_count"`
}

// Script contains configuration for the storyboard-generation model.
type Script struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Image contains configuration for the image-synthesis model.
type Image struct {
	APIKey           string `toml:"api_key"`
	BaseURL          string `toml:"base_url"`
	Model            string `toml:"model"`
	Size             string `toml:"size"`
	MaxAttempts      int    `toml:"max_attempts"`
	RetryBaseSeconds int    `toml:"retry_base_seconds"`
	TimeoutSeconds   int    `toml:"timeout_seconds"`
}

// Speech contains configuration for the text-to-speech fallback chain.
type Speech struct {
	ElevenLabsAPIKey   string  `toml:"elevenlabs_api_key"`
	ElevenLabsBaseURL  string  `toml:"elevenlabs_base_url"`
	VoiceID            string  `toml:"voice_id"`
	ModelID            string  `toml:"model_id"`
	GTTSBaseURL        string  `toml:"gtts_base_url"`
	Language           string  `toml:"language"`
	MinClipBytes       int     `toml:"min_clip_bytes"`
	NominalClipSeconds float64 `toml:"nominal_clip_seconds"`
	TimeoutSeconds     int     `toml:"timeout_seconds"`
}

// Assembly contains configuration for the media assembly toolchain.
type Assembly struct {
	FFmpegBinary  string `toml:"ffmpeg_binary"`
	FFprobeBinary string `toml:"ffprobe_binary"`
	Width         int    `toml:"width"`
	Height        int    `toml:"height"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for roughcut.
//
// Configuration sections by subsystem:
//   - Paths: workspace directory holding all generated artifacts
//   - Pipeline: scene count per generated video
//   - Script: storyboard model connection (Gemini text)
//   - Image: image model connection and retry policy (Gemini image)
//   - Speech: TTS provider chain, validity threshold, nominal duration
//   - Assembly: ffmpeg/ffprobe binaries and output frame geometry
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Pipeline Pipeline `toml:"pipeline"`
	Script   Script   `toml:"script"`
	Image    Image    `toml:"image"`
	Speech   Speech   `toml:"speech"`
	Assembly Assembly `toml:"assembly"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/roughcut/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. A missing file is not
// an error; defaults apply.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("roughcut.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the workspace and asset directories required for
// a pipeline run.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.Workspace, c.AudioDir(), c.ImageDir(), c.LogDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// AudioDir returns the directory holding per-scene narration clips.
func (c *Config) AudioDir() string {
	return filepath.Join(c.Paths.Workspace, "assets", "audio_clips")
}

// ImageDir returns the directory holding per-scene still images.
func (c *Config) ImageDir() string {
	return filepath.Join(c.Paths.Workspace, "assets", "images")
}

// LogDir returns the directory holding run logs.
func (c *Config) LogDir() string {
	if strings.TrimSpace(c.Paths.Workspace) == "" {
		return ""
	}
	return filepath.Join(c.Paths.Workspace, "logs")
}

// ManifestPath returns the location the manifest JSON is persisted to after
// construction.
func (c *Config) ManifestPath() string {
	return filepath.Join(c.Paths.Workspace, "manifest.json")
}

// DatabasePath returns the sqlite run-history database location.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.Workspace, "runs.db")
}

// LockPath returns the workspace lock file location guarding against
// concurrent runs.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.Workspace, "roughcut.lock")
}

// FFmpegBinary returns the ffmpeg executable name used for assembly.
func (c *Config) FFmpegBinary() string {
	if bin := strings.TrimSpace(c.Assembly.FFmpegBinary); bin != "" {
		return bin
	}
	return defaultFFmpegBinary
}

// FFprobeBinary returns the ffprobe executable name used for duration
// probing.
func (c *Config) FFprobeBinary() string {
	if bin := strings.TrimSpace(c.Assembly.FFprobeBinary); bin != "" {
		return bin
	}
	return defaultFFprobeBinary
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
