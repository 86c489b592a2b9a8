package preflight

import (
	"strings"

	"roughcut/internal/config"
)

// CheckProviderCredentials reports credential presence per provider for the
// status display. It never touches the network; gTTS and the silent
// placeholder keep a run viable even with everything below missing.
func CheckProviderCredentials(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	if strings.TrimSpace(cfg.Script.APIKey) == "" {
		results = append(results, Result{
			Name:   "Gemini script",
			Detail: "missing api key (GEMINI_API_KEY), heuristic storyboard will be used",
		})
	} else {
		results = append(results, Result{Name: "Gemini script", Passed: true, Detail: "api key configured"})
	}

	if strings.TrimSpace(cfg.Image.APIKey) == "" {
		results = append(results, Result{
			Name:   "Gemini image",
			Detail: "missing api key (GOOGLE_API_KEY), scenes will use fallback frames",
		})
	} else {
		results = append(results, Result{Name: "Gemini image", Passed: true, Detail: "api key configured"})
	}

	switch {
	case strings.TrimSpace(cfg.Speech.ElevenLabsAPIKey) == "":
		results = append(results, Result{
			Name:   "ElevenLabs",
			Detail: "missing api key (ELEVENLABS_API_KEY), gTTS fallback will be used",
		})
	case strings.TrimSpace(cfg.Speech.VoiceID) == "":
		results = append(results, Result{
			Name:   "ElevenLabs",
			Detail: "missing voice id (ELEVENLABS_VOICE_ID), gTTS fallback will be used",
		})
	default:
		results = append(results, Result{Name: "ElevenLabs", Passed: true, Detail: "api key and voice configured"})
	}

	return results
}
