package manifest

import (
	"fmt"
	"strings"
)

// styleSuffix is appended when a scene arrives without its own image prompt.
const styleSuffix = "cinematic, high quality, visually expressive, 16:9 composition"

// HeuristicScenes returns a deterministic storyboard for title. It is the
// substitute used when the script capability is unreachable or returns
// unusable data. The first scene frames an introduction, the last a recap
// with a call to action, and every scene in between a deep dive.
func HeuristicScenes(title string, count int) []SceneSpec {
	scenes := make([]SceneSpec, 0, count)
	for number := 1; number <= count; number++ {
		scenes = append(scenes, heuristicScene(number, count, title))
	}
	return scenes
}

func heuristicScene(number, count int, title string) SceneSpec {
	var narration, shotType string
	switch {
	case number == 1:
		narration = fmt.Sprintf(
			"This is the introduction to %s. In this opening scene, we set the context, "+
				"explain why this topic matters, and give the viewer a clear idea of what they will "+
				"gain from watching the video from start to finish.", title)
		shotType = "wide"
	case number == count:
		narration = fmt.Sprintf(
			"In this final scene, we wrap up our exploration of %s. We briefly recap the key "+
				"points, highlight the most important takeaway for the viewer, and end with a clear, "+
				"motivating call to action that encourages them to apply what they've learned.", title)
		shotType = "wide"
	default:
		narration = fmt.Sprintf(
			"In this scene, we dive deeper into one important aspect of %s. We explain it in a "+
				"clear and relatable way, using simple language and concrete examples so that any viewer "+
				"can understand and stay engaged with the story.", title)
		shotType = "medium"
	}

	return SceneSpec{
		Number:      number,
		Narration:   narration,
		ImagePrompt: fmt.Sprintf("A cinematic %s shot illustrating scene %d about %s.", shotType, number, title),
		ShotType:    shotType,
	}
}

// Normalize forces the scene list to exactly count entries: extras are
// truncated, shortfall is padded with position-aware heuristic scenes, and
// numbers are reassigned densely from 1 regardless of what the script
// capability claimed.
func Normalize(specs []SceneSpec, title string, count int) []SceneSpec {
	if count < 1 {
		return nil
	}
	if len(specs) > count {
		specs = specs[:count]
	}
	for number := len(specs) + 1; number <= count; number++ {
		specs = append(specs, heuristicScene(number, count, title))
	}
	for i := range specs {
		specs[i].Number = i + 1
		specs[i].Narration = strings.TrimSpace(specs[i].Narration)
		specs[i].ImagePrompt = strings.TrimSpace(specs[i].ImagePrompt)
		specs[i].ShotType = strings.TrimSpace(specs[i].ShotType)
		if specs[i].DesiredDuration != nil && *specs[i].DesiredDuration <= 0 {
			specs[i].DesiredDuration = nil
		}
	}
	return specs
}

// fallbackNarration is substituted when a scene arrives with empty
// narration, so synthesis never receives empty text.
func fallbackNarration(number int, title string) string {
	return fmt.Sprintf("This is scene %d for the topic: %s.", number, title)
}

// deriveImagePrompt builds an image prompt from narration when the scene
// arrived without one. The style suffix is applied here and nowhere else.
func deriveImagePrompt(narration string) string {
	return narration + ", " + styleSuffix
}
