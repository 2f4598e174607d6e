package openai

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/lucidlog/dream-diary/internal/core/domain"
)

const defaultTranscribeMaxBytes = 20 << 20

// audioMIMETypes lists the accepted upload formats. Unknown extensions
// fall back to audio/webm, the browser recorder default.
var audioMIMETypes = map[string]string{
	".mp3":  "audio/mp3",
	".wav":  "audio/wav",
	".webm": "audio/webm",
	".m4a":  "audio/mp4",
	".ogg":  "audio/ogg",
}

func mimeTypeFor(path string) string {
	if mt, ok := audioMIMETypes[strings.ToLower(filepath.Ext(path))]; ok {
		return mt
	}
	return "audio/webm"
}

type Transcriber struct {
	client   *Client
	maxBytes int64
}

func NewTranscriber(client *Client, maxBytes int64) *Transcriber {
	if maxBytes <= 0 {
		maxBytes = defaultTranscribeMaxBytes
	}
	return &Transcriber{client: client, maxBytes: maxBytes}
}

func (t *Transcriber) Configured() bool {
	return t.client.Configured()
}

func (t *Transcriber) Info() domain.TranscriptionServiceInfo {
	formats := make([]string, 0, len(audioMIMETypes))
	for ext := range audioMIMETypes {
		formats = append(formats, strings.TrimPrefix(ext, "."))
	}
	sort.Strings(formats)
	return domain.TranscriptionServiceInfo{
		Configured:       t.Configured(),
		SupportedFormats: formats,
		MaxFileSize:      fmt.Sprintf("%dMB", t.maxBytes>>20),
		Model:            t.client.cfg.TranscribeModel,
		Provider:         "openai",
	}
}

// Transcribe checks the file before spending provider budget: a
// missing or oversized file fails fast without any API call. The call
// itself goes through the shared executor, so transient failures are
// retried with the per-attempt deadline applied.
func (t *Transcriber) Transcribe(ctx context.Context, filePath string) (*domain.Transcription, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "transcribe audio", fmt.Errorf("audio file not found: %s", filePath))
	}
	if info.Size() > t.maxBytes {
		return nil, domain.WrapError(domain.ErrFileTooLarge, "transcribe audio",
			fmt.Errorf("file is %.2fMB, limit is %dMB", float64(info.Size())/(1<<20), t.maxBytes>>20))
	}

	start := time.Now()
	var resp goopenai.AudioResponse
	err = t.client.exec.Execute(ctx, "transcribe", func(ctx context.Context) error {
		var callErr error
		resp, callErr = t.client.api.CreateTranscription(ctx, goopenai.AudioRequest{
			Model:    t.client.cfg.TranscribeModel,
			FilePath: filePath,
		})
		return callErr
	}, classifyProviderError)
	if err != nil {
		return nil, wrapProviderError("transcribe audio", err)
	}

	text := strings.TrimSpace(resp.Text)
	return &domain.Transcription{
		Text: text,
		Metadata: domain.TranscriptionMetadata{
			FilePath:          filePath,
			FileName:          filepath.Base(filePath),
			FileSize:          info.Size(),
			FileSizeMB:        fmt.Sprintf("%.2f", float64(info.Size())/(1<<20)),
			TranscriptionTime: time.Since(start).Milliseconds(),
			Timestamp:         time.Now().UTC(),
			WordCount:         len(strings.Fields(text)),
			Model:             t.client.cfg.TranscribeModel,
			Provider:          "openai",
		},
	}, nil
}
