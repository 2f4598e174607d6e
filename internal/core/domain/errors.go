package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDreamNotFound      = errors.New("dream not found")
	ErrImageNotFound      = errors.New("image not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrNotConfigured      = errors.New("service not configured")
	ErrFileTooLarge       = errors.New("file too large")
	ErrQuotaExceeded      = errors.New("provider quota exceeded")
	ErrPermissionDenied   = errors.New("provider permission denied")
	ErrTemporary          = errors.New("temporary failure")
	ErrProcessingFailed   = errors.New("processing failed")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
