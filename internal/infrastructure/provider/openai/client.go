package openai

import (
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/lucidlog/dream-diary/internal/infrastructure/resilience"
)

type Config struct {
	APIKey  string
	BaseURL string

	TranscribeModel string
	StructureModel  string
	ImageModel      string

	// RequestTimeout bounds a single provider call. The transcriber
	// additionally retries through the shared executor, which carries
	// its own per-attempt deadline.
	RequestTimeout time.Duration
}

// Client wraps one configured API connection shared by the three
// pipeline services. A custom BaseURL points it at any
// OpenAI-compatible gateway.
type Client struct {
	api  *goopenai.Client
	cfg  Config
	exec *resilience.Executor
}

func New(cfg Config, exec *resilience.Executor) *Client {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}
	apiCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	return &Client{
		api:  goopenai.NewClientWithConfig(apiCfg),
		cfg:  cfg,
		exec: exec,
	}
}

func (c *Client) Configured() bool {
	return c.cfg.APIKey != ""
}
