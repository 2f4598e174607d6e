package httpadapter

import (
	"net/http"
	"time"

	"github.com/lucidlog/dream-diary/internal/core/ports"
	"github.com/lucidlog/dream-diary/internal/observability/metrics"
)

const serviceName = "api"

type Options struct {
	MaxUploadBytes int64
	RateLimitRPS   float64
	RateLimitBurst int
	MaxInFlight    int
	QueueWait      time.Duration
}

type Router struct {
	creator     ports.DreamCreator
	manager     ports.DreamManager
	pipeline    ports.PipelineDriver
	transcriber ports.Transcriber
	images      ports.FileStore
	metrics     *metrics.HTTPServerMetrics
	opts        Options
}

func NewRouter(
	creator ports.DreamCreator,
	manager ports.DreamManager,
	pipeline ports.PipelineDriver,
	transcriber ports.Transcriber,
	images ports.FileStore,
	m *metrics.HTTPServerMetrics,
	opts Options,
) *Router {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 50 << 20
	}
	if opts.QueueWait <= 0 {
		opts.QueueWait = 5 * time.Second
	}
	return &Router{
		creator:     creator,
		manager:     manager,
		pipeline:    pipeline,
		transcriber: transcriber,
		images:      images,
		metrics:     m,
		opts:        opts,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", rt.healthz)
	mux.Handle("GET /metrics", rt.metrics.Handler())

	mux.HandleFunc("POST /api/dreams/upload", rt.uploadDream)
	mux.HandleFunc("POST /api/dreams", rt.createDream)
	mux.HandleFunc("GET /api/dreams", rt.listDreams)
	mux.HandleFunc("GET /api/dreams/stats/overview", rt.statsOverview)
	mux.HandleFunc("GET /api/dreams/transcription/info", rt.transcriptionInfo)
	mux.HandleFunc("GET /api/dreams/{id}", rt.getDream)
	mux.HandleFunc("PUT /api/dreams/{id}", rt.updateDream)
	mux.HandleFunc("DELETE /api/dreams/{id}", rt.deleteDream)
	mux.HandleFunc("POST /api/dreams/{id}/transcribe", rt.transcribeDream)
	mux.HandleFunc("POST /api/dreams/{id}/process", rt.processDream)
	mux.HandleFunc("POST /api/dreams/{id}/generate-images", rt.generateImages)
	mux.HandleFunc("GET /api/dreams/{id}/image/{scene}", rt.serveSceneImage)

	var handler http.Handler = mux
	handler = backpressureMiddleware(handler, rt.opts.MaxInFlight, rt.opts.QueueWait)
	handler = rateLimitMiddleware(handler, rt.opts.RateLimitRPS, rt.opts.RateLimitBurst)
	handler = rt.metrics.Middleware(serviceName, handler)
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
