package openai

import (
	"context"
	"errors"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/lucidlog/dream-diary/internal/core/domain"
)

type Structurer struct {
	client *Client
}

func NewStructurer(client *Client) *Structurer {
	return &Structurer{client: client}
}

func (s *Structurer) Configured() bool {
	return s.client.Configured()
}

// Structure turns a transcript into titled scenes. The provider call
// is single-shot with a hard deadline; a response that cannot be
// parsed degrades to a valid fallback shape instead of failing, so
// downstream stages always get well-formed data.
func (s *Structurer) Structure(ctx context.Context, transcription string, opts domain.StructureOptions) (*domain.StructuredDream, error) {
	ctx, cancel := context.WithTimeout(ctx, s.client.cfg.RequestTimeout)
	defer cancel()

	resp, err := s.client.api.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: s.client.cfg.StructureModel,
		Messages: []goopenai.ChatCompletionMessage{
			{
				Role:    goopenai.ChatMessageRoleUser,
				Content: buildStructurePrompt(transcription, opts),
			},
		},
	})
	if err != nil {
		return nil, wrapProviderError("structure dream", err)
	}
	if len(resp.Choices) == 0 {
		return nil, domain.WrapError(domain.ErrProcessingFailed, "structure dream", errors.New("empty completion response"))
	}

	data := parseStructured(resp.Choices[0].Message.Content)
	data.Metadata = &domain.StructureMetadata{
		OriginalLength: len(transcription),
		ProcessedAt:    time.Now().UTC(),
		Model:          s.client.cfg.StructureModel,
		SceneCount:     len(data.Scenes),
	}
	return data, nil
}
