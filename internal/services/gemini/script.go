package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"roughcut/internal/manifest"
	"roughcut/internal/services"
	"roughcut/internal/services/httpx"
)

// DefaultScriptModel is the text model used for storyboard generation.
const DefaultScriptModel = "gemini-2.5-flash"

// ScriptConfig captures the settings required to generate storyboards.
type ScriptConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// ScriptClient generates structured storyboards from a title.
type ScriptClient struct {
	cfg  ScriptConfig
	http *httpx.Client
}

// NewScriptClient constructs a storyboard client. httpClient may be nil, in
// which case the default retry policy applies.
func NewScriptClient(cfg ScriptConfig, httpClient *httpx.Client) *ScriptClient {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	cfg.Model = strings.TrimSpace(cfg.Model)
	if cfg.Model == "" {
		cfg.Model = DefaultScriptModel
	}
	if httpClient == nil {
		httpClient = httpx.NewClient()
	}
	return &ScriptClient{cfg: cfg, http: httpClient}
}

type scenePayload struct {
	Scene       int      `json:"scene"`
	Narration   string   `json:"narration"`
	ImagePrompt string   `json:"image_prompt"`
	ShotType    string   `json:"shot_type"`
	Duration    *float64 `json:"duration"`
}

// GenerateScenes asks the model for a storyboard of exactly count scenes.
// Entries are trimmed and renumbered candidates; the manifest builder owns
// final truncation and padding.
func (c *ScriptClient) GenerateScenes(ctx context.Context, title string, count int) ([]manifest.SceneSpec, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, services.Wrap(services.ErrCaller, "gemini", "generate scenes", "title is required", nil)
	}
	if c.cfg.APIKey == "" {
		return nil, services.Wrap(services.ErrPermanentProvider, "gemini", "generate scenes", "api key not configured", nil)
	}

	payload := request{
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: storyboardPrompt(title, count)}},
		}},
		GenerationConfig: &generationConfig{
			ResponseMimeType: "application/json",
		},
	}

	body, err := c.http.PostJSON(ctx, endpoint(c.cfg.BaseURL, c.cfg.Model), authHeader(c.cfg.APIKey), payload)
	if err != nil {
		return nil, wrapTransportError("generate scenes", err)
	}

	var resp response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, services.Wrap(services.ErrPermanentProvider, "gemini", "generate scenes", "decode response envelope", err)
	}
	if resp.Error != nil {
		return nil, services.Wrap(services.ErrPermanentProvider, "gemini", "generate scenes",
			fmt.Sprintf("api error %d: %s", resp.Error.Code, resp.Error.Message), nil)
	}

	text := resp.firstText()
	if text == "" {
		return nil, services.Wrap(services.ErrPermanentProvider, "gemini", "generate scenes", "response carried no text candidates", nil)
	}

	var scenes []scenePayload
	if err := DecodeModelJSON(text, &scenes); err != nil {
		return nil, services.Wrap(services.ErrPermanentProvider, "gemini", "generate scenes", "decode storyboard payload", err)
	}

	specs := make([]manifest.SceneSpec, 0, len(scenes))
	for i, scene := range scenes {
		number := scene.Scene
		if number <= 0 {
			number = i + 1
		}
		duration := scene.Duration
		if duration != nil && *duration <= 0 {
			duration = nil
		}
		specs = append(specs, manifest.SceneSpec{
			Number:          number,
			Narration:       strings.TrimSpace(scene.Narration),
			ImagePrompt:     strings.TrimSpace(scene.ImagePrompt),
			ShotType:        strings.TrimSpace(scene.ShotType),
			DesiredDuration: duration,
		})
	}
	return specs, nil
}

func storyboardPrompt(title string, count int) string {
	var sb strings.Builder
	sb.WriteString("You are a professional video scriptwriter and storyboard artist.\n\n")
	fmt.Fprintf(&sb, "Create a structured storyboard for a video about:\n%q\n\n", title)
	fmt.Fprintf(&sb, "Break it into EXACTLY %d scenes.\n\n", count)
	sb.WriteString("Return STRICTLY a JSON array (no extra text, no explanations), where each element has:\n\n")
	sb.WriteString(`{
  "scene": 1,
  "narration": "An 80-150 word voiceover narration, cinematic, engaging, natural, as if spoken by a narrator. No bullet points, no scene labels, just the narration.",
  "image_prompt": "A concise visual description of what should be shown in this scene. Do NOT include narration here. Just describe the visuals.",
  "shot_type": "One of: 'wide', 'medium', 'close-up', 'aerial', 'POV'. Pick what best fits the scene.",
  "duration": 6.5
}`)
	sb.WriteString("\n\nRules:\n")
	sb.WriteString("- \"narration\": 80-150 words, flowing, cinematic, no scene numbers.\n")
	sb.WriteString("- \"image_prompt\": ONLY visuals, no dialogue, no camera directions. Just what we see.\n")
	sb.WriteString("- \"shot_type\": a single short lowercase word.\n")
	sb.WriteString("- \"duration\": a reasonable float number in seconds for how long this scene should be on screen.\n\n")
	sb.WriteString("VERY IMPORTANT:\n")
	sb.WriteString("- Return ONLY valid JSON.\n")
	sb.WriteString("- DO NOT wrap it in markdown.\n")
	sb.WriteString("- DO NOT add any commentary before or after the JSON.\n")
	return sb.String()
}
