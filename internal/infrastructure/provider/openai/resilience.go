package openai

import (
	"context"
	"errors"
	"net"
	"net/http"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/lucidlog/dream-diary/internal/core/domain"
	"github.com/lucidlog/dream-diary/internal/infrastructure/resilience"
)

func providerStatusCode(err error) (int, bool) {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode, true
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode, true
	}
	return 0, false
}

// classifyProviderError decides retry behavior from the typed SDK
// errors, never from message text. A deadline on the attempt context
// counts as transient; parent cancellation is handled by the executor
// loop itself.
func classifyProviderError(err error) resilience.ErrorClassification {
	if err == nil {
		return resilience.ErrorClassification{}
	}
	if errors.Is(err, context.Canceled) {
		return resilience.ErrorClassification{
			Retryable:     false,
			RecordFailure: false,
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return resilience.ErrorClassification{
			Retryable:     true,
			RecordFailure: true,
		}
	}
	if resilience.IsCircuitOpen(err) {
		return resilience.ErrorClassification{
			Retryable:     true,
			RecordFailure: true,
		}
	}

	if code, ok := providerStatusCode(err); ok {
		switch {
		case code == http.StatusUnauthorized || code == http.StatusForbidden:
			return resilience.ErrorClassification{
				Retryable:     false,
				RecordFailure: false,
			}
		case code == http.StatusTooManyRequests:
			// Quota exhaustion is terminal for the request but still a
			// health signal for the breaker.
			return resilience.ErrorClassification{
				Retryable:     false,
				RecordFailure: true,
			}
		case code == http.StatusRequestTimeout || code >= http.StatusInternalServerError:
			return resilience.ErrorClassification{
				Retryable:     true,
				RecordFailure: true,
			}
		default:
			return resilience.ErrorClassification{
				Retryable:     false,
				RecordFailure: false,
			}
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return resilience.ErrorClassification{
			Retryable:     true,
			RecordFailure: true,
		}
	}

	return resilience.ErrorClassification{
		Retryable:     false,
		RecordFailure: true,
	}
}

func wrapProviderError(operation string, err error) error {
	if err == nil {
		return nil
	}
	if code, ok := providerStatusCode(err); ok {
		switch {
		case code == http.StatusUnauthorized || code == http.StatusForbidden:
			return domain.WrapError(domain.ErrPermissionDenied, operation, err)
		case code == http.StatusTooManyRequests:
			return domain.WrapError(domain.ErrQuotaExceeded, operation, err)
		}
	}

	class := classifyProviderError(err)
	if class.Retryable || resilience.IsCircuitOpen(err) {
		return domain.WrapError(domain.ErrTemporary, operation, err)
	}
	return err
}
