package bootstrap

import (
	"context"
	"fmt"
	"time"

	httpadapter "github.com/lucidlog/dream-diary/internal/adapters/http"
	"github.com/lucidlog/dream-diary/internal/config"
	"github.com/lucidlog/dream-diary/internal/core/usecase"
	"github.com/lucidlog/dream-diary/internal/infrastructure/provider/openai"
	"github.com/lucidlog/dream-diary/internal/infrastructure/repository/postgres"
	"github.com/lucidlog/dream-diary/internal/infrastructure/resilience"
	"github.com/lucidlog/dream-diary/internal/infrastructure/storage/localfs"
	"github.com/lucidlog/dream-diary/internal/observability/metrics"
)

type App struct {
	Config config.Config
	Router *httpadapter.Router

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewDreamRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	uploads, err := localfs.New(cfg.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("init upload storage: %w", err)
	}
	images, err := localfs.New(cfg.ImageOutputDir)
	if err != nil {
		return nil, fmt.Errorf("init image storage: %w", err)
	}

	exec := resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts: cfg.ProviderMaxRetries,
		RetryBackoffStep: time.Duration(cfg.ProviderRetryBackoffSeconds) * time.Second,
		AttemptTimeout:   time.Duration(cfg.ProviderTimeoutSeconds) * time.Second,
		BreakerEnabled:   cfg.BreakerEnabled,
	})

	client := openai.New(openai.Config{
		APIKey:          cfg.OpenAIAPIKey,
		BaseURL:         cfg.OpenAIBaseURL,
		TranscribeModel: cfg.TranscribeModel,
		StructureModel:  cfg.StructureModel,
		ImageModel:      cfg.ImageModel,
		RequestTimeout:  time.Duration(cfg.ProviderTimeoutSeconds) * time.Second,
	}, exec)
	transcriber := openai.NewTranscriber(client, cfg.TranscribeMaxBytes)
	structurer := openai.NewStructurer(client)
	synthesizer := openai.NewSynthesizer(client)

	creator := usecase.NewCreateDreamUseCase(repo, uploads)
	manager := usecase.NewManageDreamsUseCase(repo, uploads, images)
	pipeline := usecase.NewPipelineUseCase(repo, transcriber, structurer, synthesizer, images)

	m := metrics.NewHTTPServerMetrics("api")
	router := httpadapter.NewRouter(creator, manager, pipeline, transcriber, images, m, httpadapter.Options{
		MaxUploadBytes: cfg.MaxUploadBytes,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		MaxInFlight:    cfg.MaxInFlight,
		QueueWait:      time.Duration(cfg.QueueWaitSeconds) * time.Second,
	})

	return &App{
		Config: cfg,
		Router: router,

		closeFn: func() {
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
