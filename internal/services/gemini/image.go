package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"roughcut/internal/services"
	"roughcut/internal/services/httpx"
)

// DefaultImageModel is the image-capable model used for scene renders.
const DefaultImageModel = "gemini-2.5-flash-image"

// ImageConfig captures the settings required to render scene images.
type ImageConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	// Size is accepted for forward compatibility but not transmitted: the
	// generateContent endpoint rejects size parameters for image models.
	Size string
}

// ImageClient renders still images from scene prompts.
type ImageClient struct {
	cfg  ImageConfig
	http *httpx.Client
}

// NewImageClient constructs an image client. httpClient may be nil, in which
// case the default retry policy applies.
func NewImageClient(cfg ImageConfig, httpClient *httpx.Client) *ImageClient {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	cfg.Model = strings.TrimSpace(cfg.Model)
	cfg.Size = strings.TrimSpace(cfg.Size)
	if cfg.Model == "" {
		cfg.Model = DefaultImageModel
	}
	if httpClient == nil {
		httpClient = httpx.NewClient()
	}
	return &ImageClient{cfg: cfg, http: httpClient}
}

// GenerateImage renders a single image for prompt and returns the decoded
// bytes. The prompt is sent verbatim; stylistic framing belongs to the caller.
func (c *ImageClient) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, services.Wrap(services.ErrCaller, "gemini", "generate image", "prompt is required", nil)
	}
	if c.cfg.APIKey == "" {
		return nil, services.Wrap(services.ErrPermanentProvider, "gemini", "generate image", "api key not configured", nil)
	}

	payload := request{
		Contents: []content{{
			Parts: []part{{Text: prompt}},
		}},
		GenerationConfig: &generationConfig{
			ResponseModalities: []string{"IMAGE"},
		},
	}

	body, err := c.http.PostJSON(ctx, endpoint(c.cfg.BaseURL, c.cfg.Model), authHeader(c.cfg.APIKey), payload)
	if err != nil {
		return nil, wrapTransportError("generate image", err)
	}

	var resp response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, services.Wrap(services.ErrPermanentProvider, "gemini", "generate image", "decode response envelope", err)
	}
	if resp.Error != nil {
		return nil, services.Wrap(services.ErrPermanentProvider, "gemini", "generate image",
			fmt.Sprintf("api error %d: %s", resp.Error.Code, resp.Error.Message), nil)
	}

	encoded := resp.firstInlineImage()
	if encoded == "" {
		return nil, services.Wrap(services.ErrPermanentProvider, "gemini", "generate image", "response carried no image data", nil)
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, services.Wrap(services.ErrPermanentProvider, "gemini", "generate image", "decode image payload", err)
	}
	if len(data) == 0 {
		return nil, services.Wrap(services.ErrPermanentProvider, "gemini", "generate image", "image payload was empty", nil)
	}
	return data, nil
}
