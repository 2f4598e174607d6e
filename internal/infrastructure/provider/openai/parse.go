package openai

import (
	"encoding/json"
	"strings"

	"github.com/lucidlog/dream-diary/internal/core/domain"
)

// parseStructured never fails: a response that is not valid JSON, or
// that lacks the required summary and scenes, is replaced by a
// degraded fallback so the pipeline keeps moving.
func parseStructured(raw string) *domain.StructuredDream {
	clean := stripCodeFence(strings.TrimSpace(raw))

	var data domain.StructuredDream
	if err := json.Unmarshal([]byte(extractJSONObject(clean)), &data); err != nil {
		return fallbackStructure()
	}
	if data.Summary == "" || len(data.Scenes) == 0 {
		return fallbackStructure()
	}

	for i := range data.Scenes {
		normalizeScene(&data.Scenes[i], i)
	}
	if data.Title == "" {
		data.Title = "Untitled Dream"
	}
	if data.Mood == "" {
		data.Mood = "neutral"
	}
	if data.Themes == nil {
		data.Themes = []string{}
	}
	if data.Characters == nil {
		data.Characters = []string{}
	}
	return &data
}

func normalizeScene(scene *domain.Scene, index int) {
	if scene.Sequence == 0 {
		scene.Sequence = index + 1
	}
	if scene.Description == "" {
		scene.Description = "Scene description missing"
	}
	if scene.Action == "" {
		scene.Action = "Action not specified"
	}
	if scene.Setting == "" {
		scene.Setting = "Setting not specified"
	}
	if scene.Emotion == "" {
		scene.Emotion = "neutral"
	}
	if scene.VisualStyle == "" {
		scene.VisualStyle = "realistic"
	}
	if scene.ImagePrompt == "" {
		scene.ImagePrompt = scene.Description
	}
}

func fallbackStructure() *domain.StructuredDream {
	return &domain.StructuredDream{
		Title:      "Untitled Dream",
		Summary:    "Dream processing completed but formatting failed. Please try again.",
		Mood:       "unknown",
		Themes:     []string{},
		Characters: []string{},
		Scenes: []domain.Scene{
			{
				Sequence:    1,
				Description: "Dream scene could not be processed properly",
				Action:      "Processing error occurred",
				Setting:     "Unknown",
				Emotion:     "neutral",
				VisualStyle: "realistic",
				ImagePrompt: "Dream scene visualization",
			},
		},
		Degraded: true,
	}
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}
