package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/lucidlog/dream-diary/internal/core/domain"
	"github.com/lucidlog/dream-diary/internal/core/ports"
)

type CreateDreamUseCase struct {
	repo  ports.DreamRepository
	audio ports.FileStore
}

func NewCreateDreamUseCase(repo ports.DreamRepository, audio ports.FileStore) *CreateDreamUseCase {
	return &CreateDreamUseCase{
		repo:  repo,
		audio: audio,
	}
}

func (uc *CreateDreamUseCase) UploadAudio(ctx context.Context, in ports.UploadInput) (*domain.Dream, error) {
	if in.Body == nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload dream", fmt.Errorf("audio file is required"))
	}

	id := uuid.NewString()
	storageKey := fmt.Sprintf("dream-audio-%s%s", id, filepath.Ext(in.Filename))
	now := time.Now().UTC()

	if err := uc.audio.Save(ctx, storageKey, in.Body); err != nil {
		return nil, fmt.Errorf("save audio upload: %w", err)
	}

	dream := domain.NewDream(id, defaultTitle(in.Title, now), uc.audio.Path(storageKey), in.Tags, in.Mood, in.UserID, "", now)
	if err := uc.repo.Create(ctx, dream); err != nil {
		return nil, fmt.Errorf("create dream record: %w", err)
	}
	return dream, nil
}

// CreateManual creates a dream without audio, optionally seeding a
// transcription. This is the manual/testing path; status still starts
// at uploaded.
func (uc *CreateDreamUseCase) CreateManual(ctx context.Context, in ports.CreateInput) (*domain.Dream, error) {
	now := time.Now().UTC()
	dream := domain.NewDream(uuid.NewString(), defaultTitle(in.Title, now), "", in.Tags, in.Mood, in.UserID, in.Transcription, now)
	if err := uc.repo.Create(ctx, dream); err != nil {
		return nil, fmt.Errorf("create dream record: %w", err)
	}
	return dream, nil
}

func defaultTitle(title string, now time.Time) string {
	if title != "" {
		return title
	}
	return fmt.Sprintf("Dream %s", now.Format("1/2/2006"))
}
