// Package ffmpeg renders a finished manifest into a single video file. Every
// scene becomes one segment (still image or black filler), segments and audio
// clips are concatenated with the concat demuxer, and the final mux pairs the
// video with the narration track.
package ffmpeg

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"roughcut/internal/logging"
	"roughcut/internal/manifest"
	"roughcut/internal/services"
)

type commandRunner func(ctx context.Context, name string, args ...string) error

// fallbackSegmentSeconds is used when a record carries no usable duration.
const fallbackSegmentSeconds = 5.0

// Options configures the assembly engine.
type Options struct {
	Binary string
	Width  int
	Height int
}

// Engine drives ffmpeg subprocesses to assemble the final video.
type Engine struct {
	binary string
	width  int
	height int
	logger *slog.Logger
	run    commandRunner
}

// NewEngine constructs an assembly engine. Zero options fall back to the
// ffmpeg binary on PATH and 1280x720 output.
func NewEngine(opts Options, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = logging.NewNop()
	}
	binary := strings.TrimSpace(opts.Binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	width, height := opts.Width, opts.Height
	if width <= 0 {
		width = 1280
	}
	if height <= 0 {
		height = 720
	}
	return &Engine{
		binary: binary,
		width:  width,
		height: height,
		logger: logging.NewComponentLogger(logger, "assembly"),
		run:    defaultCommandRunner,
	}
}

// WithCommandRunner allows injecting a custom command runner for tests.
func (e *Engine) WithCommandRunner(r commandRunner) {
	if e != nil && r != nil {
		e.run = r
	}
}

// Available reports whether the ffmpeg binary can be resolved.
func (e *Engine) Available() bool {
	if e == nil {
		return false
	}
	_, err := exec.LookPath(e.binary)
	return err == nil
}

// Assemble renders manifest into a video at outputPath. Any subprocess
// failure aborts the whole assembly; intermediates never outlive the call.
func (e *Engine) Assemble(ctx context.Context, m *manifest.Manifest, outputPath string) error {
	if m.Empty() {
		return services.Wrap(services.ErrToolchain, "assembly", "assemble", "manifest has no scenes", nil)
	}
	if strings.TrimSpace(outputPath) == "" {
		return services.Wrap(services.ErrCaller, "assembly", "assemble", "output path is required", nil)
	}
	if _, err := exec.LookPath(e.binary); err != nil {
		return services.Wrap(services.ErrToolchain, "assembly", "assemble",
			fmt.Sprintf("ffmpeg binary %q not found", e.binary), err)
	}

	workDir, err := os.MkdirTemp("", "roughcut-assembly-")
	if err != nil {
		return services.Wrap(services.ErrAssembly, "assembly", "assemble", "create scratch directory", err)
	}
	defer os.RemoveAll(workDir)

	e.logger.Info("assembling video",
		logging.Int("scenes", m.Len()),
		logging.String("output", outputPath))

	segments, err := e.renderSegments(ctx, m, workDir)
	if err != nil {
		return err
	}

	combinedVideo := filepath.Join(workDir, "combined_video.mp4")
	if err := e.concat(ctx, segments, filepath.Join(workDir, "segments.txt"), combinedVideo, "concatenate segments"); err != nil {
		return err
	}

	audioPaths := make([]string, 0, m.Len())
	for _, record := range m.Scenes {
		audioPaths = append(audioPaths, record.AudioPath)
	}
	combinedAudio := filepath.Join(workDir, "combined_audio.mp3")
	if err := e.concat(ctx, audioPaths, filepath.Join(workDir, "audio.txt"), combinedAudio, "concatenate audio"); err != nil {
		return err
	}

	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return services.Wrap(services.ErrAssembly, "assembly", "mux", "create output directory", err)
		}
	}
	muxArgs := []string{
		"-y",
		"-i", combinedVideo,
		"-i", combinedAudio,
		"-c:v", "copy",
		"-c:a", "aac",
		"-b:a", "192k",
		"-shortest",
		outputPath,
	}
	if err := e.run(ctx, e.binary, muxArgs...); err != nil {
		return services.Wrap(services.ErrAssembly, "assembly", "mux", "mux video and audio", err)
	}

	e.logger.Info("video assembled", logging.String("output", outputPath))
	return nil
}

// renderSegments produces one video segment per scene record, in order.
func (e *Engine) renderSegments(ctx context.Context, m *manifest.Manifest, workDir string) ([]string, error) {
	segments := make([]string, 0, m.Len())
	for i, record := range m.Scenes {
		segPath := filepath.Join(workDir, fmt.Sprintf("seg_%03d.mp4", i))
		duration := record.Duration
		if duration <= 0 {
			duration = fallbackSegmentSeconds
		}

		log := e.logger.With(logging.Int("scene", record.Number))
		args := e.fillerArgs(duration, segPath)
		if record.ImagePath != "" {
			if _, err := os.Stat(record.ImagePath); err == nil {
				args = e.stillArgs(record.ImagePath, duration, segPath)
			} else {
				log.Warn("scene image missing, rendering filler frame",
					logging.String("path", record.ImagePath))
			}
		}

		log.Debug("rendering segment",
			logging.String("segment", segPath),
			logging.Float64("duration", duration))
		if err := e.run(ctx, e.binary, args...); err != nil {
			return nil, services.Wrap(services.ErrAssembly, "assembly", "render segment",
				fmt.Sprintf("scene %d", record.Number), err)
		}
		segments = append(segments, segPath)
	}
	return segments, nil
}

func (e *Engine) stillArgs(imagePath string, duration float64, segPath string) []string {
	return []string{
		"-y",
		"-loop", "1",
		"-i", imagePath,
		"-t", formatSeconds(duration),
		"-vf", fmt.Sprintf("scale=%d:%d,format=yuv420p", e.width, e.height),
		"-c:v", "libx264",
		"-preset", "fast",
		"-crf", "23",
		segPath,
	}
}

func (e *Engine) fillerArgs(duration float64, segPath string) []string {
	return []string{
		"-y",
		"-f", "lavfi",
		"-i", fmt.Sprintf("color=black:s=%dx%d:d=%s", e.width, e.height, formatSeconds(duration)),
		"-c:v", "libx264",
		"-t", formatSeconds(duration),
		"-pix_fmt", "yuv420p",
		segPath,
	}
}

// concat joins inputs via the concat demuxer with stream copy. The list file
// lives in the scratch directory alongside the intermediates.
func (e *Engine) concat(ctx context.Context, inputs []string, listPath, outPath, op string) error {
	var list strings.Builder
	for _, input := range inputs {
		abs, err := filepath.Abs(input)
		if err != nil {
			abs = input
		}
		fmt.Fprintf(&list, "file '%s'\n", escapeConcatPath(abs))
	}
	if err := os.WriteFile(listPath, []byte(list.String()), 0o644); err != nil {
		return services.Wrap(services.ErrAssembly, "assembly", op, "write concat list", err)
	}

	args := []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		outPath,
	}
	if err := e.run(ctx, e.binary, args...); err != nil {
		return services.Wrap(services.ErrAssembly, "assembly", op, "run concat", err)
	}
	return nil
}

// escapeConcatPath escapes single quotes for the concat demuxer list format.
func escapeConcatPath(path string) string {
	return strings.ReplaceAll(path, "'", `'\''`)
}

func formatSeconds(d float64) string {
	return strconv.FormatFloat(d, 'f', -1, 64)
}

func defaultCommandRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
