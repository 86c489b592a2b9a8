// Package gtts synthesizes narration audio through the unofficial Google
// Translate text-to-speech endpoint.
package gtts

import (
	"context"
	"net/url"
	"strings"

	"roughcut/internal/services"
	"roughcut/internal/services/httpx"
)

// DefaultBaseURL is the Google Translate TTS endpoint.
const DefaultBaseURL = "https://translate.google.com/translate_tts"

// maxChunkRunes is the longest text the endpoint accepts per request.
const maxChunkRunes = 200

// Config captures the settings for the Translate TTS endpoint.
type Config struct {
	Language string
	BaseURL  string
}

// Client synthesizes speech through Google Translate.
type Client struct {
	cfg  Config
	http *httpx.Client
}

// New constructs a Translate TTS client. httpClient may be nil, in which
// case the default retry policy applies.
func New(cfg Config, httpClient *httpx.Client) *Client {
	cfg.Language = strings.TrimSpace(cfg.Language)
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.Language == "" {
		cfg.Language = "en"
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
func (c *Client) Name() string { return "gtts" }

// Synthesize converts text into MP3 bytes. Long narration is split into
// chunks the endpoint accepts and the returned audio is appended in order.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, services.Wrap(services.ErrCaller, "gtts", "synthesize", "text is required", nil)
	}

	var audio []byte
	for _, chunk := range splitChunks(text, maxChunkRunes) {
		data, err := c.fetchChunk(ctx, chunk)
		if err != nil {
			marker := services.ErrPermanentProvider
			if httpx.Transient(err) {
				marker = services.ErrTransientProvider
			}
			return nil, services.Wrap(marker, "gtts", "synthesize", "translate request failed", err)
		}
		audio = append(audio, data...)
	}
	return audio, nil
}

func (c *Client) fetchChunk(ctx context.Context, chunk string) ([]byte, error) {
	query := url.Values{}
	query.Set("ie", "UTF-8")
	query.Set("client", "tw-ob")
	query.Set("tl", c.cfg.Language)
	query.Set("q", chunk)
	return c.http.Get(ctx, c.cfg.BaseURL+"?"+query.Encode(), nil)
}

// splitChunks breaks text into pieces of at most limit runes, preferring
// word boundaries. Words longer than the limit are split mid-word.
func splitChunks(text string, limit int) []string {
	if limit < 1 {
		limit = 1
	}

	var chunks []string
	var current strings.Builder
	currentRunes := 0

	flush := func() {
		if currentRunes > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			currentRunes = 0
		}
	}

	for _, word := range strings.Fields(text) {
		runes := []rune(word)
		for len(runes) > limit {
			flush()
			chunks = append(chunks, string(runes[:limit]))
			runes = runes[limit:]
		}
		if len(runes) == 0 {
			continue
		}

		needed := len(runes)
		if currentRunes > 0 {
			needed++
		}
		if currentRunes+needed > limit {
			flush()
		}
		if currentRunes > 0 {
			current.WriteByte(' ')
			currentRunes++
		}
		current.WriteString(string(runes))
		currentRunes += len(runes)
	}
	flush()
	return chunks
}
