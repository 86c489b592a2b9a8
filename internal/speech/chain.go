// Package speech wraps the prioritized text-to-speech providers behind one
// call that never fails. Providers are tried in order; undersized or failed
// output falls through to the next provider, and a silent placeholder
// artifact is the terminal fallback.
package speech

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"roughcut/internal/logging"
	"roughcut/internal/services"
)

// SourcePlaceholder is the source label for clips written by the terminal
// silent-placeholder fallback.
const SourcePlaceholder = "placeholder"

const (
	defaultMinClipBytes = 1000
	defaultNominal      = 5.0
)

// Synthesizer converts text into encoded audio bytes. Name identifies the
// provider in artifact filenames and logs.
type Synthesizer interface {
	Name() string
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Prober measures the playback duration of an audio file.
type Prober interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// Options configures the fallback chain.
type Options struct {
	AudioDir           string
	MinClipBytes       int
	NominalClipSeconds float64
}

// Chain is the provider fallback adapter. The zero value is not usable;
// construct with NewChain.
type Chain struct {
	providers []Synthesizer
	prober    Prober
	audioDir  string
	minBytes  int
	nominal   float64
	logger    *slog.Logger
}

// NewChain builds a fallback chain over the supplied providers, tried in
// order. prober may be nil, in which case every clip reports the nominal
// duration.
func NewChain(providers []Synthesizer, prober Prober, opts Options, logger *slog.Logger) *Chain {
	if logger == nil {
		logger = logging.NewNop()
	}
	minBytes := opts.MinClipBytes
	if minBytes <= 0 {
		minBytes = defaultMinClipBytes
	}
	nominal := opts.NominalClipSeconds
	if nominal <= 0 {
		nominal = defaultNominal
	}
	return &Chain{
		providers: providers,
		prober:    prober,
		audioDir:  opts.AudioDir,
		minBytes:  minBytes,
		nominal:   nominal,
		logger:    logging.NewComponentLogger(logger, "speech"),
	}
}

// Synthesize produces an audio artifact for text and returns its path,
// measured duration, and the source that produced it. It never fails: the
// worst case is an empty placeholder clip reporting the nominal duration.
func (c *Chain) Synthesize(ctx context.Context, text string, sceneNumber int) (string, float64, string) {
	log := logging.WithContext(ctx, c.logger)

	if err := os.MkdirAll(c.audioDir, 0o755); err != nil {
		log.Error("audio directory unavailable", logging.Error(err))
	}

	for _, provider := range c.providers {
		if provider == nil {
			continue
		}
		data, err := provider.Synthesize(ctx, text)
		if err != nil {
			log.Warn("speech provider failed, falling back",
				logging.String("provider", provider.Name()),
				logging.String("kind", services.Kind(err)),
				logging.Error(err))
			continue
		}
		if len(data) < c.minBytes {
			// An HTTP 200 with a tiny body is the usual symptom of an auth or
			// quota failure that the provider reported as success.
			log.Warn("speech provider returned undersized clip, falling back",
				logging.String("provider", provider.Name()),
				logging.Int("bytes", len(data)),
				logging.Int("min_bytes", c.minBytes))
			continue
		}

		path := c.clipPath(sceneNumber, provider.Name())
		if err := os.WriteFile(path, data, 0o644); err != nil {
			log.Warn("speech artifact write failed, falling back",
				logging.String("provider", provider.Name()),
				logging.String("path", path),
				logging.Error(err))
			continue
		}
		return path, c.clipDuration(ctx, log, path), provider.Name()
	}

	return c.placeholder(log, sceneNumber)
}

func (c *Chain) clipPath(sceneNumber int, source string) string {
	return filepath.Join(c.audioDir, fmt.Sprintf("scene_%d_%s.mp3", sceneNumber, source))
}

func (c *Chain) clipDuration(ctx context.Context, log *slog.Logger, path string) float64 {
	if c.prober == nil {
		return c.nominal
	}
	duration, err := c.prober.Duration(ctx, path)
	if err != nil || duration <= 0 {
		log.Debug("duration probe failed, using nominal duration",
			logging.String("path", path),
			logging.Float64("nominal", c.nominal),
			logging.Error(err))
		return c.nominal
	}
	return duration
}

// placeholder writes an empty clip so the manifest always carries a real
// audio path. Write failure is logged and the path is still returned.
func (c *Chain) placeholder(log *slog.Logger, sceneNumber int) (string, float64, string) {
	path := c.clipPath(sceneNumber, SourcePlaceholder)
	log.Warn("all speech providers failed, writing silent placeholder",
		logging.String("path", path))
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		log.Error("placeholder clip write failed", logging.Error(err))
	}
	return path, c.nominal, SourcePlaceholder
}
