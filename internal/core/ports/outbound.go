package ports

import (
	"context"
	"io"

	"github.com/lucidlog/dream-diary/internal/core/domain"
)

// DreamRepository persists and reads dream state. Stage results are
// saved through dedicated operations so the payload field and the
// status transition always land together.
type DreamRepository interface {
	Create(ctx context.Context, dream *domain.Dream) error
	GetByID(ctx context.Context, id string) (*domain.Dream, error)
	List(ctx context.Context, filter domain.DreamFilter) ([]domain.Dream, error)
	Update(ctx context.Context, dream *domain.Dream) error
	Delete(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id string, status domain.DreamStatus) error
	SaveTranscription(ctx context.Context, id, text string) error
	SaveStructuredResult(ctx context.Context, id string, data *domain.StructuredDream, title string) error
	SaveComicImages(ctx context.Context, id string, images *domain.ComicImages) error
	Stats(ctx context.Context) (*domain.DreamStats, error)
}

// FileStore stores uploaded audio and generated images on disk.
type FileStore interface {
	Save(ctx context.Context, key string, data io.Reader) error
	SaveBytes(ctx context.Context, key string, data []byte) (int, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, key string) error
	Glob(pattern string) ([]string, error)
	Path(key string) string
}

// Transcriber wraps the remote speech-to-text provider.
type Transcriber interface {
	Transcribe(ctx context.Context, audioFilePath string) (*domain.Transcription, error)
	Configured() bool
	Info() domain.TranscriptionServiceInfo
}

// NarrativeStructurer turns a raw transcription into a structured
// scene breakdown. It degrades instead of failing on unparseable
// provider output.
type NarrativeStructurer interface {
	Structure(ctx context.Context, transcription string, opts domain.StructureOptions) (*domain.StructuredDream, error)
	Configured() bool
}

// ImageSynthesizer renders a single scene; batch semantics (ordering,
// throttling, partial-failure collection) live in the use case.
type ImageSynthesizer interface {
	SynthesizeScene(ctx context.Context, scene domain.Scene, style string) (*domain.GeneratedImage, error)
	Configured() bool
}
