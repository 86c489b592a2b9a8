package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestManifestSaveWireFormat(t *testing.T) {
	desired := 6.5
	m := &Manifest{
		Title: "Topic",
		Scenes: []SceneRecord{
			{
				Number:          1,
				Narration:       "First narration.",
				ImagePrompt:     "A harbor",
				ShotType:        "wide",
				DesiredDuration: &desired,
				AudioPath:       "/audio/scene_1_elevenlabs.mp3",
				Duration:        4.25,
				ImagePath:       "/images/scene_1_gemini.png",
			},
			{
				Number:    2,
				Narration: "Second narration.",
				ShotType:  "medium",
				AudioPath: "/audio/scene_2_placeholder.mp3",
				Duration:  5,
			},
		},
	}

	path := filepath.Join(t.TempDir(), "nested", "manifest.json")
	if err := m.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 records, got %d", len(decoded))
	}

	first := decoded[0]
	if first["scene"] != float64(1) {
		t.Fatalf("unexpected scene field %v", first["scene"])
	}
	for _, key := range []string{"narration", "image_prompt", "shot_type", "desired_duration", "audio_path", "duration", "image_path"} {
		if _, ok := first[key]; !ok {
			t.Fatalf("record missing %q: %v", key, first)
		}
	}
	if _, ok := first["text"]; ok {
		t.Fatal("legacy text field must not be written")
	}
	second, ok := decoded[1]["desired_duration"]
	if !ok {
		t.Fatalf("desired_duration key must be present even when unset: %v", decoded[1])
	}
	if second != nil {
		t.Fatalf("desired_duration should be null when unset, got %v", second)
	}
}

func TestManifestSaveRequiresPath(t *testing.T) {
	m := &Manifest{}
	if err := m.Save(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestManifestLenAndEmpty(t *testing.T) {
	var nilManifest *Manifest
	if nilManifest.Len() != 0 || !nilManifest.Empty() {
		t.Fatal("nil manifest should be empty")
	}
	m := &Manifest{Scenes: []SceneRecord{{Number: 1}}}
	if m.Len() != 1 || m.Empty() {
		t.Fatalf("unexpected Len/Empty for %+v", m)
	}
}
