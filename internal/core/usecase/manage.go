package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lucidlog/dream-diary/internal/core/domain"
	"github.com/lucidlog/dream-diary/internal/core/ports"
)

type ManageDreamsUseCase struct {
	repo   ports.DreamRepository
	audio  ports.FileStore
	images ports.FileStore
}

func NewManageDreamsUseCase(repo ports.DreamRepository, audio, images ports.FileStore) *ManageDreamsUseCase {
	return &ManageDreamsUseCase{
		repo:   repo,
		audio:  audio,
		images: images,
	}
}

func (uc *ManageDreamsUseCase) Get(ctx context.Context, id string) (*domain.Dream, error) {
	return uc.repo.GetByID(ctx, id)
}

func (uc *ManageDreamsUseCase) List(ctx context.Context, filter domain.DreamFilter) ([]domain.Dream, error) {
	return uc.repo.List(ctx, filter)
}

// Update applies only the whitelisted fields through the domain
// mutators, then persists the whole record. Concurrent updates to the
// same id are last-writer-wins.
func (uc *ManageDreamsUseCase) Update(ctx context.Context, id string, fields domain.UpdateFields) (*domain.Dream, error) {
	dream, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	dream.ApplyUpdate(fields, time.Now().UTC())
	if err := uc.repo.Update(ctx, dream); err != nil {
		return nil, fmt.Errorf("persist dream update: %w", err)
	}
	return dream, nil
}

// Delete removes the record and best-effort removes the owned files,
// both the uploaded audio and any generated scene images; a failed
// file removal is logged, never propagated.
func (uc *ManageDreamsUseCase) Delete(ctx context.Context, id string) (*domain.Dream, error) {
	dream, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return nil, err
	}

	if dream.AudioFilePath != "" {
		if err := uc.audio.Remove(ctx, dream.AudioFilePath); err != nil {
			slog.Warn("delete_audio_file_failed", "dream_id", id, "path", dream.AudioFilePath, "error", err)
		}
	}

	names, err := uc.images.Glob(fmt.Sprintf("dream_%s_scene_*.png", id))
	if err != nil {
		slog.Warn("list_scene_images_failed", "dream_id", id, "error", err)
		return dream, nil
	}
	for _, name := range names {
		if err := uc.images.Remove(ctx, name); err != nil {
			slog.Warn("delete_scene_image_failed", "dream_id", id, "file", name, "error", err)
		}
	}
	return dream, nil
}

func (uc *ManageDreamsUseCase) Stats(ctx context.Context) (*domain.DreamStats, error) {
	return uc.repo.Stats(ctx)
}
