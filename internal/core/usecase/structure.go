package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lucidlog/dream-diary/internal/core/domain"
)

func (uc *PipelineUseCase) Process(ctx context.Context, dreamID string, opts domain.StructureOptions) (*domain.ProcessResult, error) {
	dream, err := uc.repo.GetByID(ctx, dreamID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(dream.Transcription) == "" {
		return nil, domain.WrapError(domain.ErrPreconditionFailed, "process dream", errors.New("dream must be transcribed before processing"))
	}
	if !uc.structurer.Configured() {
		return nil, domain.WrapError(domain.ErrNotConfigured, "process dream", errors.New("dream processing service missing credentials"))
	}

	if opts.SceneCount <= 0 {
		opts.SceneCount = domain.DefaultStructureOptions().SceneCount
	}

	if err := uc.repo.UpdateStatus(ctx, dreamID, domain.StatusProcessing); err != nil {
		return nil, fmt.Errorf("set status=processing: %w", err)
	}

	data, err := uc.structurer.Structure(ctx, dream.Transcription, opts)
	if err != nil {
		return nil, uc.failStage(ctx, dreamID, err)
	}

	title := data.Title
	if title == "" {
		title = "Untitled Dream"
	}
	if err := uc.repo.SaveStructuredResult(ctx, dreamID, data, title); err != nil {
		return nil, uc.failStage(ctx, dreamID, fmt.Errorf("save structured result: %w", err))
	}

	updated, err := uc.repo.GetByID(ctx, dreamID)
	if err != nil {
		return nil, err
	}

	return &domain.ProcessResult{
		ProcessedData: data,
		Stats:         domain.ProcessingStats(data),
		Dream:         updated,
	}, nil
}
