// Package elevenlabs synthesizes narration audio through the ElevenLabs
// text-to-speech API.
package elevenlabs

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"roughcut/internal/services"
	"roughcut/internal/services/httpx"
)

// DefaultBaseURL is the public ElevenLabs API root.
const DefaultBaseURL = "https://api.elevenlabs.io/v1"

// DefaultModelID is the multilingual model used when none is configured.
const DefaultModelID = "eleven_multilingual_v2"

// Config captures the settings required to reach the ElevenLabs API.
type Config struct {
	APIKey  string
	VoiceID string
	ModelID string
	BaseURL string
}

// Client synthesizes speech through ElevenLabs.
type Client struct {
	cfg  Config
	http *httpx.Client
}

// New constructs an ElevenLabs client. httpClient may be nil, in which case
// the default retry policy applies.
func New(cfg Config, httpClient *httpx.Client) *Client {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.VoiceID = strings.TrimSpace(cfg.VoiceID)
	cfg.ModelID = strings.TrimSpace(cfg.ModelID)
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.ModelID == "" {
		cfg.ModelID = DefaultModelID
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = httpx.NewClient()
	}
	return &Client{cfg: cfg, http: httpClient}
}

// Name identifies this provider in clip filenames and logs.
func (c *Client) Name() string { return "elevenlabs" }

// Configured reports whether the client has the credentials it needs.
func (c *Client) Configured() bool {
	return c.cfg.APIKey != "" && c.cfg.VoiceID != ""
}

type synthesisRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

// Synthesize converts text into MP3 bytes.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, services.Wrap(services.ErrCaller, "elevenlabs", "synthesize", "text is required", nil)
	}
	if c.cfg.APIKey == "" {
		return nil, services.Wrap(services.ErrPermanentProvider, "elevenlabs", "synthesize", "api key not configured", nil)
	}
	if c.cfg.VoiceID == "" {
		return nil, services.Wrap(services.ErrPermanentProvider, "elevenlabs", "synthesize", "voice id not configured", nil)
	}

	endpoint := c.cfg.BaseURL + "/text-to-speech/" + url.PathEscape(c.cfg.VoiceID)
	header := http.Header{}
	header.Set("xi-api-key", c.cfg.APIKey)
	header.Set("Accept", "audio/mpeg")

	body, err := c.http.PostJSON(ctx, endpoint, header, synthesisRequest{Text: text, ModelID: c.cfg.ModelID})
	if err != nil {
		marker := services.ErrPermanentProvider
		if httpx.Transient(err) {
			marker = services.ErrTransientProvider
		}
		return nil, services.Wrap(marker, "elevenlabs", "synthesize", "text-to-speech request failed", err)
	}
	return body, nil
}
