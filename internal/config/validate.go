package config

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Validate checks the configuration for invalid values. It assumes normalize
// has already run.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	if err := c.validateScript(); err != nil {
		return err
	}
	if err := c.validateImage(); err != nil {
		return err
	}
	if err := c.validateSpeech(); err != nil {
		return err
	}
	if err := c.validateAssembly(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.Workspace) == "" {
		return fmt.Errorf("paths.workspace must not be empty")
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.SceneCount < 1 {
		return fmt.Errorf("pipeline.scene_count must be at least 1, got %d", c.Pipeline.SceneCount)
	}
	return nil
}

func (c *Config) validateScript() error {
	if c.Script.BaseURL == "" {
		return fmt.Errorf("script.base_url must not be empty")
	}
	if c.Script.Model == "" {
		return fmt.Errorf("script.model must not be empty")
	}
	if c.Script.TimeoutSeconds <= 0 {
		return fmt.Errorf("script.timeout_seconds must be positive, got %d", c.Script.TimeoutSeconds)
	}
	return nil
}

func (c *Config) validateImage() error {
	if c.Image.BaseURL == "" {
		return fmt.Errorf("image.base_url must not be empty")
	}
	if c.Image.Model == "" {
		return fmt.Errorf("image.model must not be empty")
	}
	if c.Image.MaxAttempts < 1 {
		return fmt.Errorf("image.max_attempts must be at least 1, got %d", c.Image.MaxAttempts)
	}
	if c.Image.RetryBaseSeconds < 1 {
		return fmt.Errorf("image.retry_base_seconds must be at least 1, got %d", c.Image.RetryBaseSeconds)
	}
	if c.Image.TimeoutSeconds <= 0 {
		return fmt.Errorf("image.timeout_seconds must be positive, got %d", c.Image.TimeoutSeconds)
	}
	return nil
}

func (c *Config) validateSpeech() error {
	if c.Speech.ElevenLabsBaseURL == "" {
		return fmt.Errorf("speech.elevenlabs_base_url must not be empty")
	}
	if c.Speech.GTTSBaseURL == "" {
		return fmt.Errorf("speech.gtts_base_url must not be empty")
	}
	if c.Speech.VoiceID == "" {
		return fmt.Errorf("speech.voice_id must not be empty")
	}
	if c.Speech.ModelID == "" {
		return fmt.Errorf("speech.model_id must not be empty")
	}
	if _, err := language.Parse(c.Speech.Language); err != nil {
		return fmt.Errorf("speech.language %q is not a valid language tag: %w", c.Speech.Language, err)
	}
	if c.Speech.MinClipBytes < 1 {
		return fmt.Errorf("speech.min_clip_bytes must be at least 1, got %d", c.Speech.MinClipBytes)
	}
	if c.Speech.NominalClipSeconds <= 0 {
		return fmt.Errorf("speech.nominal_clip_seconds must be positive, got %g", c.Speech.NominalClipSeconds)
	}
	if c.Speech.TimeoutSeconds <= 0 {
		return fmt.Errorf("speech.timeout_seconds must be positive, got %d", c.Speech.TimeoutSeconds)
	}
	return nil
}

func (c *Config) validateAssembly() error {
	if c.Assembly.FFmpegBinary == "" {
		return fmt.Errorf("assembly.ffmpeg_binary must not be empty")
	}
	if c.Assembly.Width < 2 || c.Assembly.Height < 2 {
		return fmt.Errorf("assembly frame must be at least 2x2, got %dx%d", c.Assembly.Width, c.Assembly.Height)
	}
	// yuv420p chroma subsampling requires even dimensions.
	if c.Assembly.Width%2 != 0 || c.Assembly.Height%2 != 0 {
		return fmt.Errorf("assembly frame dimensions must be even, got %dx%d", c.Assembly.Width, c.Assembly.Height)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "pretty", "json":
	default:
		return fmt.Errorf("logging.format must be \"pretty\" or \"json\", got %q", c.Logging.Format)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	return nil
}
