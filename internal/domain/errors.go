package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is.
var (
	ErrNotConfigured   = errors.New("no venue provider configured")
	ErrUnknownProvider = errors.New("unknown provider type")
	ErrInvalidParams   = errors.New("invalid search parameters")
)

// ConfigError reports a venue client that cannot reach any provider. It
// matches ErrNotConfigured.
type ConfigError struct {
	Provider ProviderType
	Reason   string
}

func (e *ConfigError) Error() string {
	if e.Reason == "" {
		return ErrNotConfigured.Error()
	}
	return fmt.Sprintf("%s: %s", ErrNotConfigured, e.Reason)
}

// Is allows errors.Is() to match against ErrNotConfigured.
func (e *ConfigError) Is(target error) bool {
	return target == ErrNotConfigured
}

// UpstreamError is a non-success response from a provider API.
type UpstreamError struct {
	Provider   ProviderType
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s API error: status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s API error: status %d: %s", e.Provider, e.StatusCode, e.Message)
}

// Temporary reports whether retrying the request may succeed.
func (e *UpstreamError) Temporary() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}
