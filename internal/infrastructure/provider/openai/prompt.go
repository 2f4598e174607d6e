package openai

import (
	"fmt"
	"strings"

	"github.com/lucidlog/dream-diary/internal/core/domain"
)

func buildStructurePrompt(transcription string, opts domain.StructureOptions) string {
	var b strings.Builder

	b.WriteString("You are a dream analyst and visual storyteller. Your task is to process this dream transcription and create a structured output for comic strip generation.\n\n")
	b.WriteString("DREAM TRANSCRIPTION:\n")
	fmt.Fprintf(&b, "%q\n\n", transcription)
	b.WriteString("Please analyze this dream and provide a structured response in the following JSON format:\n\n")

	b.WriteString("{\n")
	b.WriteString(`  "title": "A catchy, descriptive title for this dream (3-8 words, evocative and memorable)",` + "\n")
	b.WriteString(`  "summary": "A concise 2-3 sentence summary of the overall dream",` + "\n")
	b.WriteString(`  "mood": "primary emotional tone (happy, mysterious, scary, surreal, peaceful, chaotic, etc.)",` + "\n")
	b.WriteString(`  "themes": ["theme1", "theme2", "theme3"],` + "\n")
	if opts.IncludeCharacters {
		b.WriteString(`  "characters": ["character1", "character2"],` + "\n")
	}
	b.WriteString(`  "scenes": [` + "\n")
	b.WriteString("    {\n")
	b.WriteString(`      "sequence": 1,` + "\n")
	b.WriteString(`      "description": "Detailed visual description of this scene (50-80 words)",` + "\n")
	b.WriteString(`      "action": "What is happening in this scene",` + "\n")
	b.WriteString(`      "setting": "Where this scene takes place",` + "\n")
	if opts.IncludeEmotions {
		b.WriteString(`      "emotion": "emotional tone of this specific scene",` + "\n")
	}
	b.WriteString(`      "visual_style": "suggested art style or mood (realistic, surreal, dark, bright, etc.)",` + "\n")
	b.WriteString(`      "image_prompt": "Optimized prompt for AI image generation (30-50 words, vivid and specific)"` + "\n")
	b.WriteString("    }\n")
	b.WriteString("  ]\n")
	b.WriteString("}\n\n")

	b.WriteString("IMPORTANT GUIDELINES:\n")
	fmt.Fprintf(&b, "1. Create exactly %d scenes that tell the dream story chronologically\n", opts.SceneCount)
	b.WriteString("2. Each scene should be visually distinct and interesting for comic panels\n")
	b.WriteString("3. Focus on the most vivid, memorable, or significant moments\n")
	b.WriteString("4. Make image prompts specific and visual (avoid abstract concepts)\n")
	b.WriteString("5. Ensure scenes flow logically from one to the next\n")
	b.WriteString("6. Include visual details like lighting, colors, atmosphere\n")
	b.WriteString("7. Keep descriptions engaging but concise\n")
	b.WriteString("8. Make sure the JSON is valid and properly formatted\n\n")
	b.WriteString("Return ONLY the JSON response, no additional text or formatting.")

	return b.String()
}
