// Package pipeline sequences a full run: manifest build, assembly attempt,
// and the placeholder fallback that guarantees an output artifact exists
// even when every provider and the toolchain are unavailable.
package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"roughcut/internal/logging"
	"roughcut/internal/manifest"
	"roughcut/internal/runstore"
	"roughcut/internal/services"
)

// ManifestBuilder produces the ordered scene records for a title.
type ManifestBuilder interface {
	Build(ctx context.Context, title string, sceneCount int) (*manifest.Manifest, error)
}

// Assembler renders a manifest into the final video.
type Assembler interface {
	Available() bool
	Assemble(ctx context.Context, m *manifest.Manifest, outputPath string) error
}

// RunRecorder persists run history. All calls are best-effort; a failing
// recorder never fails the run.
type RunRecorder interface {
	Create(ctx context.Context, run *runstore.Run) error
	SetStatus(ctx context.Context, id string, status runstore.Status) error
	Finish(ctx context.Context, id string, status runstore.Status, sceneCount, degradedAudio, missingImages int, errorKind, errorMessage string) error
}

// Options configures the orchestrator.
type Options struct {
	SceneCount   int
	LockPath     string
	ManifestPath string
}

// Pipeline owns the run sequence from title to output file.
type Pipeline struct {
	builder      ManifestBuilder
	engine       Assembler
	store        RunRecorder
	sceneCount   int
	lockPath     string
	manifestPath string
	logger       *slog.Logger
}

// Result summarizes a completed run.
type Result struct {
	RunID         string
	Status        runstore.Status
	OutputPath    string
	ManifestPath  string
	SceneCount    int
	DegradedAudio int
	MissingImages int
	Elapsed       time.Duration
}

// New constructs a pipeline. engine and store may be nil: a nil engine
// always skips assembly and a nil store records nothing.
func New(builder ManifestBuilder, engine Assembler, store RunRecorder, opts Options, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	sceneCount := opts.SceneCount
	if sceneCount < 1 {
		sceneCount = 5
	}
	return &Pipeline{
		builder:      builder,
		engine:       engine,
		store:        store,
		sceneCount:   sceneCount,
		lockPath:     opts.LockPath,
		manifestPath: opts.ManifestPath,
		logger:       logging.NewComponentLogger(logger, "pipeline"),
	}
}

// Run executes the pipeline for title and guarantees a file at outputPath on
// every non-caller error path. The returned error is non-nil only for empty
// input or workspace lock contention.
func (p *Pipeline) Run(ctx context.Context, title, outputPath string) (*Result, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, services.Wrap(services.ErrCaller, "pipeline", "run", "title is required", nil)
	}
	outputPath = strings.TrimSpace(outputPath)
	if outputPath == "" {
		return nil, services.Wrap(services.ErrCaller, "pipeline", "run", "output path is required", nil)
	}

	if p.lockPath != "" {
		release, err := p.acquireLock()
		if err != nil {
			return nil, err
		}
		defer release()
	}

	start := time.Now()
	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	log := logging.WithContext(ctx, p.logger)
	log.Info("run started",
		logging.String("title", title),
		logging.String("output", outputPath),
		logging.Int("scenes", p.sceneCount))

	p.recordCreate(ctx, log, &runstore.Run{
		ID:         runID,
		Title:      title,
		Status:     runstore.StatusBuilding,
		OutputPath: outputPath,
		SceneCount: p.sceneCount,
	})

	m, err := p.builder.Build(ctx, title, p.sceneCount)
	if err != nil {
		return nil, err
	}

	status, assembleErr := p.assemble(ctx, log, runID, m, outputPath)

	if status != runstore.StatusAssembled {
		if err := writePlaceholder(outputPath, m); err != nil {
			log.Warn("placeholder write failed", logging.Error(err))
		}
		status = runstore.StatusPlaceholderWritten
	}

	errorKind, errorMessage := "", ""
	if assembleErr != nil {
		errorKind = services.Kind(assembleErr)
		errorMessage = assembleErr.Error()
	}
	p.recordFinish(ctx, log, runID, status, m, errorKind, errorMessage)

	result := &Result{
		RunID:         runID,
		Status:        status,
		OutputPath:    outputPath,
		ManifestPath:  p.manifestPath,
		SceneCount:    m.Len(),
		DegradedAudio: m.DegradedAudio,
		MissingImages: m.MissingImages,
		Elapsed:       time.Since(start),
	}
	log.Info("run finished",
		logging.String("status", string(status)),
		logging.Int("scenes", result.SceneCount),
		logging.Int("degraded_audio", result.DegradedAudio),
		logging.Int("missing_images", result.MissingImages),
		logging.Duration("elapsed", result.Elapsed))
	return result, nil
}

// assemble runs the assembly stage and reports the state it reached:
// Assembled on success, AssemblyAttempted when the engine failed, and
// AssemblySkipped when the toolchain is absent or the manifest is empty.
// The intermediate state is recorded before the attempt so run history
// shows whether assembly ran at all.
func (p *Pipeline) assemble(ctx context.Context, log *slog.Logger, runID string, m *manifest.Manifest, outputPath string) (runstore.Status, error) {
	switch {
	case m.Empty():
		log.Warn("manifest has no scenes, skipping assembly")
		p.recordStatus(ctx, log, runID, runstore.StatusAssemblySkipped)
		return runstore.StatusAssemblySkipped, nil
	case p.engine == nil || !p.engine.Available():
		log.Warn("ffmpeg unavailable, skipping assembly")
		p.recordStatus(ctx, log, runID, runstore.StatusAssemblySkipped)
		return runstore.StatusAssemblySkipped, nil
	}

	p.recordStatus(ctx, log, runID, runstore.StatusAssemblyAttempted)
	if err := p.engine.Assemble(ctx, m, outputPath); err != nil {
		log.Warn("assembly failed, falling back to placeholder",
			logging.String("kind", services.Kind(err)),
			logging.Error(err))
		return runstore.StatusAssemblyAttempted, err
	}
	return runstore.StatusAssembled, nil
}

func (p *Pipeline) acquireLock() (func(), error) {
	if dir := filepath.Dir(p.lockPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, services.Wrap(services.ErrCaller, "pipeline", "run", "create lock directory", err)
		}
	}
	lock := flock.New(p.lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrCaller, "pipeline", "run", "acquire workspace lock", err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrCaller, "pipeline", "run", "another run is already in progress", nil)
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			p.logger.Warn("failed to release workspace lock", logging.Error(err))
		}
	}, nil
}

func (p *Pipeline) recordCreate(ctx context.Context, log *slog.Logger, run *runstore.Run) {
	if p.store == nil {
		return
	}
	if err := p.store.Create(ctx, run); err != nil {
		log.Warn("run record creation failed", logging.Error(err))
	}
}

func (p *Pipeline) recordStatus(ctx context.Context, log *slog.Logger, runID string, status runstore.Status) {
	if p.store == nil {
		return
	}
	if err := p.store.SetStatus(ctx, runID, status); err != nil {
		log.Warn("run status update failed",
			logging.String("status", string(status)),
			logging.Error(err))
	}
}

func (p *Pipeline) recordFinish(ctx context.Context, log *slog.Logger, runID string, status runstore.Status, m *manifest.Manifest, errorKind, errorMessage string) {
	if p.store == nil {
		return
	}
	if err := p.store.Finish(ctx, runID, status, m.Len(), m.DegradedAudio, m.MissingImages, errorKind, errorMessage); err != nil {
		log.Warn("run completion update failed", logging.Error(err))
	}
}
