package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/lucidlog/dream-diary/internal/core/domain"
)

func (uc *PipelineUseCase) Transcribe(ctx context.Context, dreamID string) (*domain.TranscribeResult, error) {
	dream, err := uc.repo.GetByID(ctx, dreamID)
	if err != nil {
		return nil, err
	}

	if dream.AudioFilePath == "" {
		return nil, domain.WrapError(domain.ErrPreconditionFailed, "transcribe dream", errors.New("no audio file found for this dream"))
	}
	if !uc.transcriber.Configured() {
		return nil, domain.WrapError(domain.ErrNotConfigured, "transcribe dream", errors.New("transcription service missing credentials"))
	}

	if err := uc.repo.UpdateStatus(ctx, dreamID, domain.StatusTranscribing); err != nil {
		return nil, fmt.Errorf("set status=transcribing: %w", err)
	}

	result, err := uc.transcriber.Transcribe(ctx, dream.AudioFilePath)
	if err != nil {
		return nil, uc.failStage(ctx, dreamID, err)
	}

	if err := uc.repo.SaveTranscription(ctx, dreamID, result.Text); err != nil {
		return nil, uc.failStage(ctx, dreamID, fmt.Errorf("save transcription: %w", err))
	}

	updated, err := uc.repo.GetByID(ctx, dreamID)
	if err != nil {
		return nil, err
	}

	return &domain.TranscribeResult{
		Transcription: result.Text,
		Metadata:      result.Metadata,
		Dream:         updated,
	}, nil
}
