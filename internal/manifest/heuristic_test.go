package manifest

import (
	"strings"
	"testing"
)

func TestHeuristicScenesShape(t *testing.T) {
	scenes := HeuristicScenes("Ocean Currents", 4)
	if len(scenes) != 4 {
		t.Fatalf("expected 4 scenes, got %d", len(scenes))
	}

	if scenes[0].ShotType != "wide" || !strings.Contains(scenes[0].Narration, "introduction to Ocean Currents") {
		t.Fatalf("unexpected opener %+v", scenes[0])
	}
	if scenes[3].ShotType != "wide" || !strings.Contains(scenes[3].Narration, "final scene") {
		t.Fatalf("unexpected closer %+v", scenes[3])
	}
	for _, middle := range scenes[1:3] {
		if middle.ShotType != "medium" || !strings.Contains(middle.Narration, "dive deeper") {
			t.Fatalf("unexpected middle scene %+v", middle)
		}
	}
	for i, scene := range scenes {
		if scene.Number != i+1 {
			t.Fatalf("scene %d has number %d", i, scene.Number)
		}
		if !strings.Contains(scene.ImagePrompt, "Ocean Currents") {
			t.Fatalf("scene %d image prompt %q", i, scene.ImagePrompt)
		}
	}
}

func TestHeuristicScenesSingleScene(t *testing.T) {
	scenes := HeuristicScenes("Topic", 1)
	if len(scenes) != 1 {
		t.Fatalf("expected 1 scene, got %d", len(scenes))
	}
	if !strings.Contains(scenes[0].Narration, "introduction to Topic") {
		t.Fatalf("single scene should open the topic, got %q", scenes[0].Narration)
	}
}

func TestNormalizeTruncatesAndRenumbers(t *testing.T) {
	specs := []SceneSpec{
		{Number: 10, Narration: "first"},
		{Number: 20, Narration: "second"},
		{Number: 30, Narration: "third"},
		{Number: 40, Narration: "fourth"},
	}
	got := Normalize(specs, "Topic", 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 specs, got %d", len(got))
	}
	for i, spec := range got {
		if spec.Number != i+1 {
			t.Fatalf("spec %d has number %d", i, spec.Number)
		}
	}
	if got[2].Narration != "third" {
		t.Fatalf("expected truncation to keep leading specs, got %q", got[2].Narration)
	}
}

func TestNormalizePadsWithPositionAwareScenes(t *testing.T) {
	specs := []SceneSpec{{Number: 1, Narration: "real opener"}}
	got := Normalize(specs, "Topic", 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 specs, got %d", len(got))
	}
	if got[0].Narration != "real opener" {
		t.Fatalf("expected original opener kept, got %q", got[0].Narration)
	}
	if !strings.Contains(got[1].Narration, "dive deeper") {
		t.Fatalf("expected heuristic middle, got %q", got[1].Narration)
	}
	if !strings.Contains(got[2].Narration, "final scene") {
		t.Fatalf("expected heuristic closer, got %q", got[2].Narration)
	}
}

func TestNormalizeTrimsFieldsAndDurations(t *testing.T) {
	bad := -1.5
	good := 6.5
	specs := []SceneSpec{
		{Number: 1, Narration: "  padded  ", ImagePrompt: " prompt ", ShotType: " wide ", DesiredDuration: &bad},
		{Number: 2, Narration: "fine", DesiredDuration: &good},
	}
	got := Normalize(specs, "Topic", 2)
	if got[0].Narration != "padded" || got[0].ImagePrompt != "prompt" || got[0].ShotType != "wide" {
		t.Fatalf("expected trimmed fields, got %+v", got[0])
	}
	if got[0].DesiredDuration != nil {
		t.Fatalf("expected non-positive duration dropped, got %v", *got[0].DesiredDuration)
	}
	if got[1].DesiredDuration == nil || *got[1].DesiredDuration != 6.5 {
		t.Fatalf("expected positive duration kept, got %+v", got[1].DesiredDuration)
	}
}

func TestNormalizeRejectsNonPositiveCount(t *testing.T) {
	if got := Normalize(nil, "Topic", 0); got != nil {
		t.Fatalf("expected nil for zero count, got %v", got)
	}
	if got := Normalize([]SceneSpec{{Number: 1}}, "Topic", -2); got != nil {
		t.Fatalf("expected nil for negative count, got %v", got)
	}
}

func TestDeriveImagePromptAppendsStyleOnce(t *testing.T) {
	prompt := deriveImagePrompt("A quiet harbor.")
	if prompt != "A quiet harbor., "+styleSuffix {
		t.Fatalf("unexpected derived prompt %q", prompt)
	}
	if strings.Count(prompt, styleSuffix) != 1 {
		t.Fatalf("style suffix applied more than once: %q", prompt)
	}
}
