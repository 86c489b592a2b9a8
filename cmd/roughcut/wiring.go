package main

import (
	"log/slog"
	"time"

	"roughcut/internal/config"
	"roughcut/internal/manifest"
	"roughcut/internal/media/ffmpeg"
	"roughcut/internal/media/ffprobe"
	"roughcut/internal/pipeline"
	"roughcut/internal/runstore"
	"roughcut/internal/services/elevenlabs"
	"roughcut/internal/services/gemini"
	"roughcut/internal/services/gtts"
	"roughcut/internal/services/httpx"
	"roughcut/internal/speech"
)

// buildPipeline wires providers, the speech fallback chain, the assembly
// engine, and the run store into one pipeline. store may be nil; history is
// simply not recorded then.
func buildPipeline(cfg *config.Config, store *runstore.Store, logger *slog.Logger) *pipeline.Pipeline {
	builder := buildManifestBuilder(cfg, logger)
	engine := ffmpeg.NewEngine(ffmpeg.Options{
		Binary: cfg.FFmpegBinary(),
		Width:  cfg.Assembly.Width,
		Height: cfg.Assembly.Height,
	}, logger)

	var recorder pipeline.RunRecorder
	if store != nil {
		recorder = store
	}

	return pipeline.New(builder, engine, recorder, pipeline.Options{
		SceneCount:   cfg.Pipeline.SceneCount,
		LockPath:     cfg.LockPath(),
		ManifestPath: cfg.ManifestPath(),
	}, logger)
}

func buildManifestBuilder(cfg *config.Config, logger *slog.Logger) *manifest.Builder {
	var script manifest.ScriptService
	if cfg.Script.APIKey != "" {
		client := httpx.NewClient(
			httpx.WithTimeout(time.Duration(cfg.Script.TimeoutSeconds)*time.Second),
			httpx.WithLogger(logger),
		)
		script = gemini.NewScriptClient(gemini.ScriptConfig{
			APIKey:  cfg.Script.APIKey,
			BaseURL: cfg.Script.BaseURL,
			Model:   cfg.Script.Model,
		}, client)
	}

	var images manifest.ImageService
	if cfg.Image.APIKey != "" {
		client := httpx.NewClient(
			httpx.WithTimeout(time.Duration(cfg.Image.TimeoutSeconds)*time.Second),
			httpx.WithMaxAttempts(cfg.Image.MaxAttempts),
			httpx.WithBackoff(time.Duration(cfg.Image.RetryBaseSeconds)*time.Second, 10*time.Second),
			httpx.WithLogger(logger),
		)
		images = gemini.NewImageClient(gemini.ImageConfig{
			APIKey:  cfg.Image.APIKey,
			BaseURL: cfg.Image.BaseURL,
			Model:   cfg.Image.Model,
			Size:    cfg.Image.Size,
		}, client)
	}

	chain := buildSpeechChain(cfg, logger)
	return manifest.NewBuilder(script, chain, images, cfg.ImageDir(), cfg.ManifestPath(), logger)
}

func buildSpeechChain(cfg *config.Config, logger *slog.Logger) *speech.Chain {
	httpClient := httpx.NewClient(
		httpx.WithTimeout(time.Duration(cfg.Speech.TimeoutSeconds)*time.Second),
		httpx.WithLogger(logger),
	)

	var providers []speech.Synthesizer
	eleven := elevenlabs.New(elevenlabs.Config{
		APIKey:  cfg.Speech.ElevenLabsAPIKey,
		VoiceID: cfg.Speech.VoiceID,
		ModelID: cfg.Speech.ModelID,
		BaseURL: cfg.Speech.ElevenLabsBaseURL,
	}, httpClient)
	if eleven.Configured() {
		providers = append(providers, eleven)
	}
	providers = append(providers, gtts.New(gtts.Config{
		Language: cfg.Speech.Language,
		BaseURL:  cfg.Speech.GTTSBaseURL,
	}, httpClient))

	var prober speech.Prober
	if probe := ffprobe.New(cfg.FFprobeBinary()); probe.Available() {
		prober = probe
	}

	return speech.NewChain(providers, prober, speech.Options{
		AudioDir:           cfg.AudioDir(),
		MinClipBytes:       cfg.Speech.MinClipBytes,
		NominalClipSeconds: cfg.Speech.NominalClipSeconds,
	}, logger)
}
