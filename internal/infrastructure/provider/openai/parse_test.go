package openai

import (
	"strings"
	"testing"
)

func TestParseStructuredValidResponse(t *testing.T) {
	raw := `{
		"title": "Glass City",
		"summary": "A flight over a glass city.",
		"mood": "wonder",
		"themes": ["flight"],
		"characters": ["the dreamer"],
		"scenes": [
			{"sequence": 1, "description": "Flying high", "action": "flying", "setting": "sky", "emotion": "awe", "visual_style": "surreal", "image_prompt": "a figure soaring over glass towers"},
			{"description": "The city shatters"}
		]
	}`

	data := parseStructured(raw)
	if data.Degraded {
		t.Fatal("valid response marked degraded")
	}
	if data.Title != "Glass City" || len(data.Scenes) != 2 {
		t.Fatalf("parsed title=%q scenes=%d", data.Title, len(data.Scenes))
	}
	second := data.Scenes[1]
	if second.Sequence != 2 {
		t.Fatalf("missing sequence defaulted to %d, want position", second.Sequence)
	}
	if second.Emotion != "neutral" || second.VisualStyle != "realistic" {
		t.Fatalf("scene defaults not applied: %+v", second)
	}
	if second.ImagePrompt != "The city shatters" {
		t.Fatalf("image prompt = %q, want description fallback", second.ImagePrompt)
	}
}

func TestParseStructuredStripsCodeFence(t *testing.T) {
	raw := "```json\n{\"title\":\"T\",\"summary\":\"S\",\"scenes\":[{\"sequence\":1,\"description\":\"d\"}]}\n```"

	data := parseStructured(raw)
	if data.Degraded {
		t.Fatal("fenced response marked degraded")
	}
	if data.Summary != "S" {
		t.Fatalf("summary = %q", data.Summary)
	}
}

func TestParseStructuredSurroundingProse(t *testing.T) {
	raw := "Here is your dream:\n{\"title\":\"T\",\"summary\":\"S\",\"scenes\":[{\"description\":\"d\"}]}\nEnjoy!"

	data := parseStructured(raw)
	if data.Degraded {
		t.Fatal("response with prose marked degraded")
	}
}

func TestParseStructuredFallback(t *testing.T) {
	cases := map[string]string{
		"not json":        "I could not produce JSON for this dream.",
		"missing scenes":  `{"title":"T","summary":"S","scenes":[]}`,
		"missing summary": `{"title":"T","scenes":[{"description":"d"}]}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			data := parseStructured(raw)
			if !data.Degraded {
				t.Fatal("fallback not marked degraded")
			}
			if len(data.Scenes) != 1 || data.Scenes[0].Sequence != 1 {
				t.Fatalf("fallback scenes = %+v", data.Scenes)
			}
			if data.Mood != "unknown" {
				t.Fatalf("fallback mood = %q", data.Mood)
			}
			if !strings.Contains(data.Summary, "formatting failed") {
				t.Fatalf("fallback summary = %q", data.Summary)
			}
		})
	}
}

func TestStyledPromptFallsBackToWatercolor(t *testing.T) {
	got := StyledPrompt("a floating door", "oilpaint")
	want := StyledPrompt("a floating door", "watercolor")
	if got != want {
		t.Fatalf("unknown style prompt = %q", got)
	}
	if !strings.Contains(got, "a floating door") {
		t.Fatal("base prompt missing from styled prompt")
	}
}

func TestSupportedStyles(t *testing.T) {
	styles := SupportedStyles()
	if len(styles) != 4 {
		t.Fatalf("styles = %v", styles)
	}
	for _, s := range styles {
		if _, ok := styleTemplates[s]; !ok {
			t.Fatalf("unknown style %q", s)
		}
	}
}

func TestMimeTypeFor(t *testing.T) {
	cases := map[string]string{
		"a.mp3":     "audio/mp3",
		"a.WAV":     "audio/wav",
		"a.m4a":     "audio/mp4",
		"a.ogg":     "audio/ogg",
		"a.webm":    "audio/webm",
		"a.unknown": "audio/webm",
		"noext":     "audio/webm",
	}
	for path, want := range cases {
		if got := mimeTypeFor(path); got != want {
			t.Fatalf("mimeTypeFor(%q) = %q, want %q", path, got, want)
		}
	}
}
