package openai

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/lucidlog/dream-diary/internal/core/domain"
)

// styleTemplates renders one comic panel per scene. All panels are
// square so a multi-scene dream lays out as a regular strip.
var styleTemplates = map[string]string{
	"watercolor": "A dreamy watercolor illustration, surreal, soft and slightly abstract, as if taken from a vivid dream. Muted pastel tones and fluid brushstrokes, centered and balanced composition evoking emotion and wonder. Scene: %s",
	"vintage":    "A vintage comic book illustration with a nostalgic, dream-like quality. Soft, faded colors, gentle linework and subtle paper texture, centered composition. Scene: %s",
	"minimal":    "A minimalist illustration, simple yet evocative, clean lines and soft colors, capturing the essence of a dream. Scene: %s",
	"comic":      "A comic book illustration capturing a dream-like narrative with vibrant colors and clear, balanced composition. Scene: %s",
}

// StyledPrompt wraps a scene prompt in the named style template;
// unknown styles fall back to watercolor.
func StyledPrompt(basePrompt, style string) string {
	tmpl, ok := styleTemplates[style]
	if !ok {
		tmpl = styleTemplates["watercolor"]
	}
	return fmt.Sprintf(tmpl, basePrompt)
}

func SupportedStyles() []string {
	styles := make([]string, 0, len(styleTemplates))
	for s := range styleTemplates {
		styles = append(styles, s)
	}
	sort.Strings(styles)
	return styles
}

type Synthesizer struct {
	client *Client
}

func NewSynthesizer(client *Client) *Synthesizer {
	return &Synthesizer{client: client}
}

func (s *Synthesizer) Configured() bool {
	return s.client.Configured()
}

// SynthesizeScene renders one scene. Retry policy lives with the
// caller, which decides per batch whether a scene failure is tolerated.
func (s *Synthesizer) SynthesizeScene(ctx context.Context, scene domain.Scene, style string) (*domain.GeneratedImage, error) {
	prompt := StyledPrompt(scene.ImagePrompt, style)

	ctx, cancel := context.WithTimeout(ctx, s.client.cfg.RequestTimeout)
	defer cancel()

	start := time.Now()
	resp, err := s.client.api.CreateImage(ctx, goopenai.ImageRequest{
		Model:          s.client.cfg.ImageModel,
		Prompt:         prompt,
		N:              1,
		Size:           goopenai.CreateImageSize1024x1024,
		ResponseFormat: goopenai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return nil, wrapProviderError("generate scene image", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, domain.WrapError(domain.ErrProcessingFailed, "generate scene image", errors.New("no image payload in response"))
	}

	return &domain.GeneratedImage{
		SceneSequence:    scene.Sequence,
		SceneDescription: scene.Description,
		StyledPrompt:     prompt,
		B64JSON:          resp.Data[0].B64JSON,
		Model:            s.client.cfg.ImageModel,
		GenerationTimeMS: time.Since(start).Milliseconds(),
	}, nil
}
