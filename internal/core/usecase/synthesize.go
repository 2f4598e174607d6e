package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/lucidlog/dream-diary/internal/core/domain"
)

func (uc *PipelineUseCase) GenerateImages(ctx context.Context, dreamID string, opts domain.SynthesizeOptions) (*domain.SynthesizeResult, error) {
	dream, err := uc.repo.GetByID(ctx, dreamID)
	if err != nil {
		return nil, err
	}

	if dream.ProcessedData == nil || len(dream.ProcessedData.Scenes) == 0 {
		return nil, domain.WrapError(domain.ErrPreconditionFailed, "generate images", errors.New("dream must be processed before generating images"))
	}
	if !uc.synthesizer.Configured() {
		return nil, domain.WrapError(domain.ErrNotConfigured, "generate images", errors.New("image generation service missing credentials"))
	}

	if opts.Style == "" {
		opts.Style = domain.DefaultSynthesizeOptions().Style
	}
	if opts.DelayMS < 0 {
		opts.DelayMS = 0
	}

	if err := uc.repo.UpdateStatus(ctx, dreamID, domain.StatusGeneratingImages); err != nil {
		return nil, fmt.Errorf("set status=generating_images: %w", err)
	}

	scenes := dream.ProcessedData.Scenes
	start := time.Now()

	var images []domain.GeneratedImage
	if opts.Concurrent {
		images, err = uc.renderConcurrent(ctx, scenes, opts.Style)
	} else {
		images, err = uc.renderSequential(ctx, scenes, opts.Style, opts.DelayMS)
	}
	if err != nil {
		return nil, uc.failStage(ctx, dreamID, err)
	}

	var savedFiles []domain.SavedImageFile
	if opts.SaveToFile {
		savedFiles = uc.saveImages(ctx, images, dreamID)
	}

	success, failed := 0, 0
	model := ""
	for _, img := range images {
		if img.Failed {
			failed++
			continue
		}
		success++
		if model == "" {
			model = img.Model
		}
	}

	meta := domain.GenerationMetadata{
		Concurrent:  opts.Concurrent,
		DelayMS:     opts.DelayMS,
		Style:       opts.Style,
		Model:       model,
		TotalTimeMS: time.Since(start).Milliseconds(),
		SavedFiles:  savedFiles,
	}
	comic := &domain.ComicImages{Images: images, GenerationMetadata: meta}

	if err := uc.repo.SaveComicImages(ctx, dreamID, comic.StripPayloads()); err != nil {
		return nil, uc.failStage(ctx, dreamID, fmt.Errorf("save comic images: %w", err))
	}

	updated, err := uc.repo.GetByID(ctx, dreamID)
	if err != nil {
		return nil, err
	}

	return &domain.SynthesizeResult{
		Summary:            dream.ProcessedData.Summary,
		TotalScenes:        len(scenes),
		SuccessfulImages:   success,
		FailedImages:       failed,
		TotalTimeMS:        meta.TotalTimeMS,
		Images:             images,
		SavedFiles:         savedFiles,
		GenerationMetadata: meta,
		Dream:              updated,
	}, nil
}

// renderSequential walks scenes in order, throttled between requests.
// A per-scene failure is recorded in place and the batch carries on;
// every scene keeps its slot in the output.
func (uc *PipelineUseCase) renderSequential(ctx context.Context, scenes []domain.Scene, style string, delayMS int) ([]domain.GeneratedImage, error) {
	limit := rate.Inf
	if delayMS > 0 {
		limit = rate.Every(time.Duration(delayMS) * time.Millisecond)
	}
	limiter := rate.NewLimiter(limit, 1)

	images := make([]domain.GeneratedImage, 0, len(scenes))
	for _, scene := range scenes {
		if err := limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("throttle wait: %w", err)
		}

		img, err := uc.synthesizer.SynthesizeScene(ctx, scene, style)
		if err != nil {
			slog.Warn("scene_image_failed", "scene", scene.Sequence, "error", err)
			images = append(images, domain.GeneratedImage{
				SceneSequence: scene.Sequence,
				Failed:        true,
				Error:         err.Error(),
			})
			continue
		}
		images = append(images, *img)
	}
	return images, nil
}

// renderConcurrent fires all scene requests at once. Any failure fails
// the whole batch with no partial result; this is deliberately a
// different contract from sequential mode.
func (uc *PipelineUseCase) renderConcurrent(ctx context.Context, scenes []domain.Scene, style string) ([]domain.GeneratedImage, error) {
	images := make([]domain.GeneratedImage, len(scenes))
	g, gctx := errgroup.WithContext(ctx)

	for i, scene := range scenes {
		g.Go(func() error {
			img, err := uc.synthesizer.SynthesizeScene(gctx, scene, style)
			if err != nil {
				return fmt.Errorf("scene %d: %w", scene.Sequence, err)
			}
			images[i] = *img
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return images, nil
}

// saveImages persists successful payloads; failed or payload-less
// entries are skipped silently, and a write failure only costs that
// one file.
func (uc *PipelineUseCase) saveImages(ctx context.Context, images []domain.GeneratedImage, dreamID string) []domain.SavedImageFile {
	saved := make([]domain.SavedImageFile, 0, len(images))
	for _, img := range images {
		if img.Failed || img.B64JSON == "" {
			continue
		}

		data, err := base64.StdEncoding.DecodeString(img.B64JSON)
		if err != nil {
			slog.Warn("decode_image_payload_failed", "dream_id", dreamID, "scene", img.SceneSequence, "error", err)
			continue
		}

		filename := fmt.Sprintf("dream_%s_scene_%d.png", dreamID, img.SceneSequence)
		size, err := uc.images.SaveBytes(ctx, filename, data)
		if err != nil {
			slog.Warn("save_image_failed", "dream_id", dreamID, "scene", img.SceneSequence, "error", err)
			continue
		}

		saved = append(saved, domain.SavedImageFile{
			SceneSequence: img.SceneSequence,
			Filename:      filename,
			Size:          size,
		})
	}
	return saved
}
