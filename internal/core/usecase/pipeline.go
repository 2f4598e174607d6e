package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lucidlog/dream-diary/internal/core/domain"
	"github.com/lucidlog/dream-diary/internal/core/ports"
)

// PipelineUseCase drives a dream through the three stages. Every stage
// follows the same discipline: check preconditions without touching
// status, mark the active status before the provider call, and force
// status=error when the stage fails while keeping earlier stage
// outputs intact.
type PipelineUseCase struct {
	repo        ports.DreamRepository
	transcriber ports.Transcriber
	structurer  ports.NarrativeStructurer
	synthesizer ports.ImageSynthesizer
	images      ports.FileStore
}

func NewPipelineUseCase(
	repo ports.DreamRepository,
	transcriber ports.Transcriber,
	structurer ports.NarrativeStructurer,
	synthesizer ports.ImageSynthesizer,
	images ports.FileStore,
) *PipelineUseCase {
	return &PipelineUseCase{
		repo:        repo,
		transcriber: transcriber,
		structurer:  structurer,
		synthesizer: synthesizer,
		images:      images,
	}
}

// failStage force-sets the error status after a stage failure. The
// original error is returned even when the status write also fails.
func (uc *PipelineUseCase) failStage(ctx context.Context, dreamID string, stageErr error) error {
	if err := uc.repo.UpdateStatus(ctx, dreamID, domain.StatusError); err != nil {
		slog.Error("mark_error_status_failed", "dream_id", dreamID, "error", err)
		return fmt.Errorf("%w; mark error status: %v", stageErr, err)
	}
	return stageErr
}
