package manifest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"roughcut/internal/logging"
	"roughcut/internal/services"
	"roughcut/internal/speech"
)

// ScriptService produces scene specs for a title. Implementations may fail;
// the builder substitutes the heuristic storyboard.
type ScriptService interface {
	GenerateScenes(ctx context.Context, title string, count int) ([]SceneSpec, error)
}

// SpeechService converts narration text into an audio artifact. It never
// fails: the worst case is a placeholder clip with the nominal duration.
type SpeechService interface {
	Synthesize(ctx context.Context, text string, sceneNumber int) (path string, duration float64, source string)
}

// ImageService renders an image for a prompt, returning the encoded bytes.
type ImageService interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
}

// Builder drives per-scene generation and assembles the manifest.
type Builder struct {
	script       ScriptService
	speech       SpeechService
	images       ImageService
	imageDir     string
	manifestPath string
	logger       *slog.Logger
}

// NewBuilder constructs a manifest builder. script and images may be nil
// when the corresponding capability is not configured; speech must not be.
func NewBuilder(script ScriptService, speechSvc SpeechService, images ImageService, imageDir, manifestPath string, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Builder{
		script:       script,
		speech:       speechSvc,
		images:       images,
		imageDir:     imageDir,
		manifestPath: manifestPath,
		logger:       logging.NewComponentLogger(logger, "manifest"),
	}
}

// Build produces a manifest with exactly sceneCount records for title. It
// fails only when title is empty; provider failures degrade individual
// records instead of aborting the manifest. The finished manifest is
// persisted to the configured path best-effort.
func (b *Builder) Build(ctx context.Context, title string, sceneCount int) (*Manifest, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, services.Wrap(services.ErrCaller, "manifest", "build", "title is required", nil)
	}

	b.logger.Info("building manifest",
		logging.String("title", title),
		logging.Int("scenes", sceneCount))

	specs := Normalize(b.storyboard(ctx, title, sceneCount), title, sceneCount)

	m := &Manifest{Title: title}
	for _, spec := range specs {
		sceneCtx := services.WithScene(ctx, spec.Number)
		record, audioSource := b.buildScene(sceneCtx, title, spec)
		if audioSource == speech.SourcePlaceholder {
			m.DegradedAudio++
		}
		if record.ImagePath == "" {
			m.MissingImages++
		}
		m.Scenes = append(m.Scenes, record)
	}

	if b.manifestPath != "" {
		if err := m.Save(b.manifestPath); err != nil {
			b.logger.Warn("manifest persistence failed", logging.Error(err))
		} else {
			b.logger.Info("manifest persisted", logging.String("path", b.manifestPath))
		}
	}

	b.logger.Info("manifest complete",
		logging.Int("scenes", m.Len()),
		logging.Int("degraded_audio", m.DegradedAudio),
		logging.Int("missing_images", m.MissingImages))
	return m, nil
}

func (b *Builder) storyboard(ctx context.Context, title string, count int) []SceneSpec {
	if b.script == nil {
		b.logger.Warn("script capability not configured, using heuristic storyboard")
		return HeuristicScenes(title, count)
	}
	specs, err := b.script.GenerateScenes(ctx, title, count)
	if err != nil {
		b.logger.Warn("storyboard generation failed, using heuristic storyboard",
			logging.String("kind", services.Kind(err)),
			logging.Error(err))
		return HeuristicScenes(title, count)
	}
	if len(specs) == 0 {
		b.logger.Warn("storyboard generation returned no scenes, using heuristic storyboard")
		return HeuristicScenes(title, count)
	}
	return specs
}

func (b *Builder) buildScene(ctx context.Context, title string, spec SceneSpec) (SceneRecord, string) {
	log := logging.WithContext(ctx, b.logger)

	narration := spec.Narration
	if narration == "" {
		narration = fallbackNarration(spec.Number, title)
	}

	log.Info("synthesizing narration", logging.Int("chars", len(narration)))
	audioPath, duration, source := b.speech.Synthesize(ctx, narration, spec.Number)
	log.Info("narration ready",
		logging.String("source", source),
		logging.String("path", audioPath),
		logging.Float64("duration", duration))

	imagePrompt := spec.ImagePrompt
	if imagePrompt == "" {
		imagePrompt = deriveImagePrompt(narration)
	}

	record := SceneRecord{
		Number:          spec.Number,
		Narration:       narration,
		ImagePrompt:     imagePrompt,
		ShotType:        spec.ShotType,
		DesiredDuration: spec.DesiredDuration,
		AudioPath:       audioPath,
		Duration:        duration,
	}
	record.ImagePath = b.renderImage(ctx, log, imagePrompt, spec.Number)
	return record, source
}

// renderImage requests the scene image and writes it to the image asset
// directory. Any failure leaves the record without an image; the scene keeps
// its timeline slot and assembly renders a fallback frame.
func (b *Builder) renderImage(ctx context.Context, log *slog.Logger, prompt string, sceneNumber int) string {
	if b.images == nil {
		log.Warn("image capability not configured, scene will use fallback frame")
		return ""
	}

	log.Info("generating image")
	data, err := b.images.GenerateImage(ctx, prompt)
	if err != nil {
		log.Warn("image generation failed, scene will use fallback frame",
			logging.String("kind", services.Kind(err)),
			logging.Error(err))
		return ""
	}

	if err := os.MkdirAll(b.imageDir, 0o755); err != nil {
		log.Warn("image directory unavailable, scene will use fallback frame",
			logging.String("dir", b.imageDir),
			logging.Error(err))
		return ""
	}
	path := filepath.Join(b.imageDir, fmt.Sprintf("scene_%d_gemini.png", sceneNumber))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Warn("image write failed, scene will use fallback frame",
			logging.String("path", path),
			logging.Error(err))
		return ""
	}
	log.Info("image saved", logging.String("path", path))
	return path
}
