// Package gemini integrates the Gemini generateContent API for storyboard
// generation and image synthesis.
package gemini

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"roughcut/internal/services"
	"roughcut/internal/services/httpx"
)

// DefaultBaseURL is the public Gemini REST endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

type request struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseMimeType   string   `json:"responseMimeType,omitempty"`
	ResponseModalities []string `json:"responseModalities,omitempty"`
}

type response struct {
	Candidates []candidate `json:"candidates"`
	// Some deployments answer with a prediction-style body instead of
	// candidates; both shapes are accepted.
	Predictions []prediction `json:"predictions"`
	Error       *apiError    `json:"error"`
}

type candidate struct {
	Content      content `json:"content"`
	FinishReason string  `json:"finishReason"`
}

type prediction struct {
	BytesBase64Encoded string `json:"bytesBase64Encoded"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

func endpoint(baseURL, model string) string {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	return fmt.Sprintf("%s/models/%s:generateContent", base, url.PathEscape(model))
}

func authHeader(apiKey string) http.Header {
	header := http.Header{}
	header.Set("x-goog-api-key", apiKey)
	return header
}

func (r response) firstText() string {
	for _, cand := range r.Candidates {
		for _, p := range cand.Content.Parts {
			if text := strings.TrimSpace(p.Text); text != "" {
				return text
			}
		}
	}
	return ""
}

func (r response) firstInlineImage() string {
	for _, cand := range r.Candidates {
		for _, p := range cand.Content.Parts {
			if p.InlineData != nil && strings.TrimSpace(p.InlineData.Data) != "" {
				return p.InlineData.Data
			}
		}
	}
	for _, pred := range r.Predictions {
		if strings.TrimSpace(pred.BytesBase64Encoded) != "" {
			return pred.BytesBase64Encoded
		}
	}
	return ""
}

// wrapTransportError classifies a transport failure as transient or
// permanent based on the retry policy the request already exhausted.
func wrapTransportError(op string, err error) error {
	marker := services.ErrPermanentProvider
	if httpx.Transient(err) {
		marker = services.ErrTransientProvider
	}
	return services.Wrap(marker, "gemini", op, "request failed", err)
}
