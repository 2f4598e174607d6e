package domain

import "strings"

// ProcessingStats summarizes a structuring result for the stage
// response body.
type ProcessingStatsResult struct {
	SceneCount         int    `json:"sceneCount"`
	AverageSceneLength int    `json:"averageSceneLength"`
	TotalWords         int    `json:"totalWords"`
	Themes             int    `json:"themes"`
	Characters         int    `json:"characters"`
	Mood               string `json:"mood"`
	Degraded           bool   `json:"degraded"`
}

func ProcessingStats(data *StructuredDream) ProcessingStatsResult {
	out := ProcessingStatsResult{}
	if data == nil || len(data.Scenes) == 0 {
		return out
	}
	totalLen := 0
	totalWords := 0
	for _, scene := range data.Scenes {
		totalLen += len(scene.Description)
		totalWords += len(strings.Fields(scene.Description)) + len(strings.Fields(scene.ImagePrompt))
	}
	out.SceneCount = len(data.Scenes)
	out.AverageSceneLength = totalLen / len(data.Scenes)
	out.TotalWords = totalWords
	out.Themes = len(data.Themes)
	out.Characters = len(data.Characters)
	out.Mood = data.Mood
	out.Degraded = data.Degraded
	return out
}
