package config

// Default configuration values.
const (
	defaultWorkspace = "~/.local/share/roughcut"

	defaultSceneCount = 5

	defaultScriptBaseURL        = "https://generativelanguage.googleapis.com/v1beta"
	defaultScriptModel          = "gemini-2.5-flash"
	defaultScriptTimeoutSeconds = 120

	defaultImageBaseURL          = "https://generativelanguage.googleapis.com/v1beta"
	defaultImageModel            = "gemini-2.5-flash-image"
	defaultImageSize             = "1024x1024"
	defaultImageMaxAttempts      = 3
	defaultImageRetryBaseSeconds = 1
	defaultImageTimeoutSeconds   = 120

	defaultElevenLabsBaseURL  = "https://api.elevenlabs.io/v1"
	defaultVoiceID            = "R2e83kjR96zNPDiAnQl3"
	defaultSpeechModelID      = "eleven_multilingual_v2"
	defaultGTTSBaseURL        = "https://translate.google.com/translate_tts"
	defaultSpeechLanguage     = "en"
	defaultMinClipBytes       = 1000
	defaultNominalClipSeconds = 5.0
	defaultSpeechTimeout      = 120

	defaultFFmpegBinary  = "ffmpeg"
	defaultFFprobeBinary = "ffprobe"
	defaultFrameWidth    = 1280
	defaultFrameHeight   = 720

	defaultLogFormat = "pretty"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with default values. The workspace is
// left empty here; normalize fills it from the environment or the built-in
// default and expands it.
func Default() Config {
	return Config{
		Paths: Paths{
			Workspace: "",
		},
		Pipeline: Pipeline{
			SceneCount: defaultSceneCount,
		},
		Script: Script{
			BaseURL:        defaultScriptBaseURL,
			Model:          defaultScriptModel,
			TimeoutSeconds: defaultScriptTimeoutSeconds,
		},
		Image: Image{
			BaseURL:          defaultImageBaseURL,
			Model:            defaultImageModel,
			Size:             defaultImageSize,
			MaxAttempts:      defaultImageMaxAttempts,
			RetryBaseSeconds: defaultImageRetryBaseSeconds,
			TimeoutSeconds:   defaultImageTimeoutSeconds,
		},
		Speech: Speech{
			ElevenLabsBaseURL:  defaultElevenLabsBaseURL,
			VoiceID:            defaultVoiceID,
			ModelID:            defaultSpeechModelID,
			GTTSBaseURL:        defaultGTTSBaseURL,
			Language:           defaultSpeechLanguage,
			MinClipBytes:       defaultMinClipBytes,
			NominalClipSeconds: defaultNominalClipSeconds,
			TimeoutSeconds:     defaultSpeechTimeout,
		},
		Assembly: Assembly{
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
			Width:         defaultFrameWidth,
			Height:        defaultFrameHeight,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
