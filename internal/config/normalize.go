package config

import (
	"os"
	"strings"
)

// normalize applies environment fallbacks, trims user-supplied strings, and
// expands filesystem paths. It runs after decoding and before validation so
// Validate sees final values.
func (c *Config) normalize() error {
	c.normalizePaths()
	c.normalizeScript()
	c.normalizeImage()
	c.normalizeSpeech()
	c.normalizeAssembly()
	c.normalizeLogging()
	return c.expandPaths()
}

func (c *Config) normalizePaths() {
	c.Paths.Workspace = strings.TrimSpace(c.Paths.Workspace)
	if c.Paths.Workspace == "" {
		if env, ok := os.LookupEnv("ROUGHCUT_WORKSPACE"); ok && strings.TrimSpace(env) != "" {
			c.Paths.Workspace = strings.TrimSpace(env)
		} else {
			c.Paths.Workspace = defaultWorkspace
		}
	}
}

func (c *Config) normalizeScript() {
	// Environment wins over the config file for secrets.
	if env, ok := os.LookupEnv("GEMINI_API_KEY"); ok && strings.TrimSpace(env) != "" {
		c.Script.APIKey = strings.TrimSpace(env)
	} else if env, ok := os.LookupEnv("OPENAI_API_KEY"); ok && strings.TrimSpace(env) != "" {
		c.Script.APIKey = strings.TrimSpace(env)
	}
	c.Script.APIKey = strings.TrimSpace(c.Script.APIKey)

	c.Script.BaseURL = strings.TrimRight(strings.TrimSpace(c.Script.BaseURL), "/")
	if c.Script.BaseURL == "" {
		c.Script.BaseURL = defaultScriptBaseURL
	}

	c.Script.Model = strings.TrimSpace(c.Script.Model)
	if c.Script.Model == "" {
		c.Script.Model = defaultScriptModel
	}

	if c.Script.TimeoutSeconds <= 0 {
		c.Script.TimeoutSeconds = defaultScriptTimeoutSeconds
	}
}

func (c *Config) normalizeImage() {
	if env, ok := os.LookupEnv("GOOGLE_API_KEY"); ok && strings.TrimSpace(env) != "" {
		c.Image.APIKey = strings.TrimSpace(env)
	}
	c.Image.APIKey = strings.TrimSpace(c.Image.APIKey)

	c.Image.BaseURL = strings.TrimRight(strings.TrimSpace(c.Image.BaseURL), "/")
	if c.Image.BaseURL == "" {
		c.Image.BaseURL = defaultImageBaseURL
	}

	c.Image.Model = strings.TrimSpace(c.Image.Model)
	if c.Image.Model == "" {
		c.Image.Model = defaultImageModel
	}

	c.Image.Size = strings.TrimSpace(c.Image.Size)
	if c.Image.Size == "" {
		if env, ok := os.LookupEnv("GEMINI_IMAGE_SIZE"); ok && strings.TrimSpace(env) != "" {
			c.Image.Size = strings.TrimSpace(env)
		} else {
			c.Image.Size = defaultImageSize
		}
	}

	if c.Image.MaxAttempts <= 0 {
		c.Image.MaxAttempts = defaultImageMaxAttempts
	}
	if c.Image.RetryBaseSeconds <= 0 {
		c.Image.RetryBaseSeconds = defaultImageRetryBaseSeconds
	}
	if c.Image.TimeoutSeconds <= 0 {
		c.Image.TimeoutSeconds = defaultImageTimeoutSeconds
	}
}

func (c *Config) normalizeSpeech() {
	if env, ok := os.LookupEnv("ELEVENLABS_API_KEY"); ok && strings.TrimSpace(env) != "" {
		c.Speech.ElevenLabsAPIKey = strings.TrimSpace(env)
	}
	c.Speech.ElevenLabsAPIKey = strings.TrimSpace(c.Speech.ElevenLabsAPIKey)

	c.Speech.ElevenLabsBaseURL = strings.TrimRight(strings.TrimSpace(c.Speech.ElevenLabsBaseURL), "/")
	if c.Speech.ElevenLabsBaseURL == "" {
		c.Speech.ElevenLabsBaseURL = defaultElevenLabsBaseURL
	}

	c.Speech.GTTSBaseURL = strings.TrimRight(strings.TrimSpace(c.Speech.GTTSBaseURL), "/")
	if c.Speech.GTTSBaseURL == "" {
		c.Speech.GTTSBaseURL = defaultGTTSBaseURL
	}

	c.Speech.VoiceID = strings.TrimSpace(c.Speech.VoiceID)
	if c.Speech.VoiceID == "" {
		if env, ok := os.LookupEnv("ELEVENLABS_VOICE_ID"); ok && strings.TrimSpace(env) != "" {
			c.Speech.VoiceID = strings.TrimSpace(env)
		} else {
			c.Speech.VoiceID = defaultVoiceID
		}
	}

	c.Speech.ModelID = strings.TrimSpace(c.Speech.ModelID)
	if c.Speech.ModelID == "" {
		if env, ok := os.LookupEnv("ELEVENLABS_MODEL_ID"); ok && strings.TrimSpace(env) != "" {
			c.Speech.ModelID = strings.TrimSpace(env)
		} else {
			c.Speech.ModelID = defaultSpeechModelID
		}
	}

	c.Speech.Language = strings.TrimSpace(c.Speech.Language)
	if c.Speech.Language == "" {
		c.Speech.Language = defaultSpeechLanguage
	}

	if c.Speech.MinClipBytes <= 0 {
		c.Speech.MinClipBytes = defaultMinClipBytes
	}
	if c.Speech.NominalClipSeconds <= 0 {
		c.Speech.NominalClipSeconds = defaultNominalClipSeconds
	}
	if c.Speech.TimeoutSeconds <= 0 {
		c.Speech.TimeoutSeconds = defaultSpeechTimeout
	}
}

func (c *Config) normalizeAssembly() {
	c.Assembly.FFmpegBinary = strings.TrimSpace(c.Assembly.FFmpegBinary)
	if c.Assembly.FFmpegBinary == "" {
		c.Assembly.FFmpegBinary = defaultFFmpegBinary
	}

	c.Assembly.FFprobeBinary = strings.TrimSpace(c.Assembly.FFprobeBinary)
	if c.Assembly.FFprobeBinary == "" {
		c.Assembly.FFprobeBinary = defaultFFprobeBinary
	}

	if c.Assembly.Width <= 0 {
		c.Assembly.Width = defaultFrameWidth
	}
	if c.Assembly.Height <= 0 {
		c.Assembly.Height = defaultFrameHeight
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}

	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) expandPaths() error {
	expanded, err := expandPath(c.Paths.Workspace)
	if err != nil {
		return err
	}
	c.Paths.Workspace = expanded
	return nil
}
