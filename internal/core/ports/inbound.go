package ports

import (
	"context"
	"io"

	"github.com/lucidlog/dream-diary/internal/core/domain"
)

type UploadInput struct {
	Title    string
	Tags     []string
	Mood     string
	UserID   string
	Filename string
	MimeType string
	Body     io.Reader
}

type CreateInput struct {
	Title         string
	Tags          []string
	Mood          string
	UserID        string
	Transcription string
}

// DreamCreator covers the two entry points into the pipeline: the
// multipart audio upload and the manual (audio-less) creation path.
type DreamCreator interface {
	UploadAudio(ctx context.Context, in UploadInput) (*domain.Dream, error)
	CreateManual(ctx context.Context, in CreateInput) (*domain.Dream, error)
}

// DreamManager exposes CRUD and aggregate queries over dreams.
type DreamManager interface {
	Get(ctx context.Context, id string) (*domain.Dream, error)
	List(ctx context.Context, filter domain.DreamFilter) ([]domain.Dream, error)
	Update(ctx context.Context, id string, fields domain.UpdateFields) (*domain.Dream, error)
	Delete(ctx context.Context, id string) (*domain.Dream, error)
	Stats(ctx context.Context) (*domain.DreamStats, error)
}

// PipelineDriver triggers the three stages. Each call drives exactly
// one stage; the pipeline never self-advances.
type PipelineDriver interface {
	Transcribe(ctx context.Context, dreamID string) (*domain.TranscribeResult, error)
	Process(ctx context.Context, dreamID string, opts domain.StructureOptions) (*domain.ProcessResult, error)
	GenerateImages(ctx context.Context, dreamID string, opts domain.SynthesizeOptions) (*domain.SynthesizeResult, error)
}
