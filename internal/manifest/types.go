// Package manifest builds and models the ordered record of per-scene
// artifacts that drives media assembly. The builder tolerates partial
// provider failure: a scene may lose its image or fall back to placeholder
// audio, but it is never dropped from the manifest.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SceneSpec describes one scene as produced by the script capability,
// before any artifacts exist.
type SceneSpec struct {
	Number          int
	Narration       string
	ImagePrompt     string
	ShotType        string
	DesiredDuration *float64
}

// SceneRecord is one element of the manifest. Records are immutable once
// appended. The JSON field names are the manifest wire format.
type SceneRecord struct {
	Number          int      `json:"scene"`
	Narration       string   `json:"narration"`
	ImagePrompt     string   `json:"image_prompt"`
	ShotType        string   `json:"shot_type"`
	DesiredDuration *float64 `json:"desired_duration"`
	AudioPath       string   `json:"audio_path"`
	Duration        float64  `json:"duration"`
	ImagePath       string   `json:"image_path"`
}

// Manifest is the ordered sequence of scene records for one run. Record
// order is generation order is playback order.
type Manifest struct {
	Title  string
	Scenes []SceneRecord

	// DegradedAudio counts scenes whose narration fell through to the
	// silent placeholder. MissingImages counts scenes left without an
	// image artifact.
	DegradedAudio int
	MissingImages int
}

// Len returns the number of scene records.
func (m *Manifest) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Scenes)
}

// Empty reports whether the manifest holds no scene records.
func (m *Manifest) Empty() bool {
	return m.Len() == 0
}

// Save writes the manifest to path as an ordered JSON array of scene
// records.
func (m *Manifest) Save(path string) error {
	if path == "" {
		return fmt.Errorf("manifest save: path must not be empty")
	}
	data, err := json.MarshalIndent(m.Scenes, "", "  ")
	if err != nil {
		return fmt.Errorf("manifest save: encode: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("manifest save: create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("manifest save: write: %w", err)
	}
	return nil
}
