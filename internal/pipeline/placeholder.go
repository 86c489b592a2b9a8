package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"roughcut/internal/manifest"
)

const placeholderHeader = "FAKE_MP4_PLACEHOLDER"

// writePlaceholder writes a human-readable stand-in for the final video.
// The file always exists and is non-empty so downstream tooling can treat
// the run as producing an artifact regardless of what failed upstream.
func writePlaceholder(outputPath string, m *manifest.Manifest) error {
	var sb strings.Builder
	sb.WriteString(placeholderHeader)
	sb.WriteByte('\n')
	fmt.Fprintf(&sb, "Manifest scenes: %d\n", m.Len())
	if m != nil {
		for _, record := range m.Scenes {
			fmt.Fprintf(&sb, "%d: %s (%.2fs)\n", record.Number, record.AudioPath, record.Duration)
		}
	}

	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("write placeholder: %w", err)
	}
	return nil
}
