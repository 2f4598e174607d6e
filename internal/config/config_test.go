package config

import "testing"

func TestLoadProviderDefaults(t *testing.T) {
	t.Setenv("TRANSCRIBE_MODEL", "")
	t.Setenv("STRUCTURE_MODEL", "")
	t.Setenv("IMAGE_MODEL", "")
	t.Setenv("PROVIDER_TIMEOUT_SECONDS", "")
	t.Setenv("PROVIDER_MAX_RETRIES", "")
	t.Setenv("PROVIDER_RETRY_BACKOFF_SECONDS", "")
	t.Setenv("BREAKER_ENABLED", "")

	cfg := Load()
	if cfg.TranscribeModel != "whisper-1" {
		t.Fatalf("expected default transcribe model whisper-1, got %q", cfg.TranscribeModel)
	}
	if cfg.StructureModel != "gpt-4o-mini" {
		t.Fatalf("expected default structure model gpt-4o-mini, got %q", cfg.StructureModel)
	}
	if cfg.ImageModel != "gpt-image-1" {
		t.Fatalf("expected default image model gpt-image-1, got %q", cfg.ImageModel)
	}
	if cfg.ProviderTimeoutSeconds != 60 {
		t.Fatalf("expected default provider timeout 60, got %d", cfg.ProviderTimeoutSeconds)
	}
	if cfg.ProviderMaxRetries != 3 {
		t.Fatalf("expected default max retries 3, got %d", cfg.ProviderMaxRetries)
	}
	if cfg.ProviderRetryBackoffSeconds != 2 {
		t.Fatalf("expected default retry backoff 2, got %d", cfg.ProviderRetryBackoffSeconds)
	}
	if !cfg.BreakerEnabled {
		t.Fatal("expected breaker enabled by default")
	}
}

func TestLoadUploadDefaults(t *testing.T) {
	t.Setenv("UPLOAD_DIR", "")
	t.Setenv("IMAGE_OUTPUT_DIR", "")
	t.Setenv("MAX_UPLOAD_BYTES", "")
	t.Setenv("TRANSCRIBE_MAX_BYTES", "")

	cfg := Load()
	if cfg.UploadDir != "./data/uploads" {
		t.Fatalf("expected default upload dir, got %q", cfg.UploadDir)
	}
	if cfg.ImageOutputDir != "./data/generated_images" {
		t.Fatalf("expected default image output dir, got %q", cfg.ImageOutputDir)
	}
	if cfg.MaxUploadBytes != 50<<20 {
		t.Fatalf("expected default max upload 50MB, got %d", cfg.MaxUploadBytes)
	}
	if cfg.TranscribeMaxBytes != 20<<20 {
		t.Fatalf("expected default transcribe cap 20MB, got %d", cfg.TranscribeMaxBytes)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_BASE_URL", "https://proxy.example.com/v1")
	t.Setenv("PROVIDER_MAX_RETRIES", "5")
	t.Setenv("MAX_UPLOAD_BYTES", "1048576")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("MAX_IN_FLIGHT", "8")
	t.Setenv("BREAKER_ENABLED", "false")

	cfg := Load()
	if cfg.OpenAIAPIKey != "sk-test" {
		t.Fatalf("expected api key override, got %q", cfg.OpenAIAPIKey)
	}
	if cfg.OpenAIBaseURL != "https://proxy.example.com/v1" {
		t.Fatalf("expected base url override, got %q", cfg.OpenAIBaseURL)
	}
	if cfg.ProviderMaxRetries != 5 {
		t.Fatalf("expected max retries 5, got %d", cfg.ProviderMaxRetries)
	}
	if cfg.MaxUploadBytes != 1<<20 {
		t.Fatalf("expected max upload 1MB, got %d", cfg.MaxUploadBytes)
	}
	if cfg.RateLimitRPS != 2.5 {
		t.Fatalf("expected rate limit 2.5, got %v", cfg.RateLimitRPS)
	}
	if cfg.MaxInFlight != 8 {
		t.Fatalf("expected max in flight 8, got %d", cfg.MaxInFlight)
	}
	if cfg.BreakerEnabled {
		t.Fatal("expected breaker disabled")
	}
}

func TestLoadFallsBackOnUnparsableValues(t *testing.T) {
	t.Setenv("PROVIDER_TIMEOUT_SECONDS", "soon")
	t.Setenv("MAX_UPLOAD_BYTES", "lots")
	t.Setenv("BREAKER_ENABLED", "maybe")

	cfg := Load()
	if cfg.ProviderTimeoutSeconds != 60 {
		t.Fatalf("expected fallback timeout 60, got %d", cfg.ProviderTimeoutSeconds)
	}
	if cfg.MaxUploadBytes != 50<<20 {
		t.Fatalf("expected fallback max upload, got %d", cfg.MaxUploadBytes)
	}
	if !cfg.BreakerEnabled {
		t.Fatal("expected fallback breaker enabled")
	}
}
