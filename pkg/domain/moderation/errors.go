package moderation

import (
	"errors"
	"fmt"
)

var (
	ErrProviderTimeout       = errors.New("provider timeout")
	ErrProviderError         = errors.New("provider error")
	ErrInsufficientProviders = errors.New("insufficient providers")
	ErrNoProvidersAvailable  = errors.New("no providers available")
	ErrCancelled             = errors.New("analysis cancelled")
	ErrActionExecutionFailed = errors.New("action execution failed")
	ErrRoomPolicyNotFound    = errors.New("room policy not found")
	ErrInvalidContent        = errors.New("invalid content")
)

// ProviderError ties a failure to the provider that produced it.
type ProviderError struct {
	ProviderID string
	Err        error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.ProviderID, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func NewProviderError(providerID string, err error) error {
	return &ProviderError{ProviderID: providerID, Err: err}
}

// IsSystemic reports whether err is a failure that must reach the caller of the pipeline.
func IsSystemic(err error) bool {
	return errors.Is(err, ErrInsufficientProviders) ||
		errors.Is(err, ErrNoProvidersAvailable) ||
		errors.Is(err, ErrActionExecutionFailed)
}
