package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"time"

	"github.com/lucidlog/dream-diary/internal/core/domain"
)

type statusCall struct {
	dreamID string
	status  domain.DreamStatus
}

type repoFake struct {
	dreams      map[string]*domain.Dream
	statusCalls []statusCall

	createErr error
	updateErr error
	saveErr   error
	statusErr error
}

func newRepoFake(dreams ...*domain.Dream) *repoFake {
	f := &repoFake{dreams: map[string]*domain.Dream{}}
	for _, d := range dreams {
		f.dreams[d.ID] = d
	}
	return f
}

func (f *repoFake) Create(_ context.Context, dream *domain.Dream) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.dreams[dream.ID] = dream
	return nil
}

func (f *repoFake) GetByID(_ context.Context, id string) (*domain.Dream, error) {
	d, ok := f.dreams[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrDreamNotFound, "get dream", fmt.Errorf("id=%s", id))
	}
	cp := *d
	return &cp, nil
}

func (f *repoFake) List(_ context.Context, _ domain.DreamFilter) ([]domain.Dream, error) {
	out := make([]domain.Dream, 0, len(f.dreams))
	for _, d := range f.dreams {
		out = append(out, *d)
	}
	return out, nil
}

func (f *repoFake) Update(_ context.Context, dream *domain.Dream) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	cp := *dream
	f.dreams[dream.ID] = &cp
	return nil
}

func (f *repoFake) Delete(_ context.Context, id string) error {
	if _, ok := f.dreams[id]; !ok {
		return domain.WrapError(domain.ErrDreamNotFound, "delete dream", fmt.Errorf("id=%s", id))
	}
	delete(f.dreams, id)
	return nil
}

func (f *repoFake) UpdateStatus(_ context.Context, id string, status domain.DreamStatus) error {
	f.statusCalls = append(f.statusCalls, statusCall{dreamID: id, status: status})
	if f.statusErr != nil {
		return f.statusErr
	}
	d, ok := f.dreams[id]
	if !ok {
		return domain.WrapError(domain.ErrDreamNotFound, "update status", fmt.Errorf("id=%s", id))
	}
	d.UpdateStatus(status, time.Now().UTC())
	return nil
}

func (f *repoFake) SaveTranscription(_ context.Context, id, text string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	d, ok := f.dreams[id]
	if !ok {
		return domain.WrapError(domain.ErrDreamNotFound, "save transcription", fmt.Errorf("id=%s", id))
	}
	d.SetTranscription(text, time.Now().UTC())
	return nil
}

func (f *repoFake) SaveStructuredResult(_ context.Context, id string, data *domain.StructuredDream, title string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	d, ok := f.dreams[id]
	if !ok {
		return domain.WrapError(domain.ErrDreamNotFound, "save structured result", fmt.Errorf("id=%s", id))
	}
	d.SetProcessedData(data, time.Now().UTC())
	d.Title = title
	return nil
}

func (f *repoFake) SaveComicImages(_ context.Context, id string, images *domain.ComicImages) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	d, ok := f.dreams[id]
	if !ok {
		return domain.WrapError(domain.ErrDreamNotFound, "save comic images", fmt.Errorf("id=%s", id))
	}
	d.SetComicImages(images, time.Now().UTC())
	return nil
}

func (f *repoFake) Stats(_ context.Context) (*domain.DreamStats, error) {
	return &domain.DreamStats{TotalDreams: len(f.dreams)}, nil
}

func (f *repoFake) lastStatus() domain.DreamStatus {
	if len(f.statusCalls) == 0 {
		return ""
	}
	return f.statusCalls[len(f.statusCalls)-1].status
}

type fileStoreFake struct {
	saved     map[string][]byte
	removed   []string
	removeErr error
	saveErr   error
}

func newFileStoreFake() *fileStoreFake {
	return &fileStoreFake{saved: map[string][]byte{}}
}

func (f *fileStoreFake) Save(_ context.Context, key string, data io.Reader) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	b, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.saved[key] = b
	return nil
}

func (f *fileStoreFake) SaveBytes(_ context.Context, key string, data []byte) (int, error) {
	if f.saveErr != nil {
		return 0, f.saveErr
	}
	f.saved[key] = data
	return len(data), nil
}

func (f *fileStoreFake) Open(_ context.Context, key string) (io.ReadCloser, error) {
	b, ok := f.saved[key]
	if !ok {
		return nil, errors.New("not found")
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (f *fileStoreFake) Remove(_ context.Context, key string) error {
	f.removed = append(f.removed, key)
	if f.removeErr != nil {
		return f.removeErr
	}
	delete(f.saved, key)
	return nil
}

func (f *fileStoreFake) Glob(pattern string) ([]string, error) {
	var names []string
	for key := range f.saved {
		if ok, _ := path.Match(pattern, key); ok {
			names = append(names, key)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (f *fileStoreFake) Path(key string) string { return "/data/" + key }

type transcriberFake struct {
	configured bool
	result     *domain.Transcription
	err        error
}

func (f *transcriberFake) Transcribe(context.Context, string) (*domain.Transcription, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *transcriberFake) Configured() bool { return f.configured }

func (f *transcriberFake) Info() domain.TranscriptionServiceInfo {
	return domain.TranscriptionServiceInfo{Configured: f.configured}
}

type structurerFake struct {
	configured bool
	result     *domain.StructuredDream
	err        error
}

func (f *structurerFake) Structure(context.Context, string, domain.StructureOptions) (*domain.StructuredDream, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *structurerFake) Configured() bool { return f.configured }

type synthesizerFake struct {
	configured bool
	failSeq    map[int]error
	calls      int
}

func (f *synthesizerFake) SynthesizeScene(_ context.Context, scene domain.Scene, style string) (*domain.GeneratedImage, error) {
	f.calls++
	if err, ok := f.failSeq[scene.Sequence]; ok {
		return nil, err
	}
	return &domain.GeneratedImage{
		SceneSequence:    scene.Sequence,
		SceneDescription: scene.Description,
		StyledPrompt:     style + ": " + scene.ImagePrompt,
		B64JSON:          "aW1n",
		Model:            "test-image-model",
	}, nil
}

func (f *synthesizerFake) Configured() bool { return f.configured }
