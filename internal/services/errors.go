package services

import (
	"fmt"
)

// ConfigurationError reports missing credentials. It is raised before any
// network call and is not retryable.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing required configuration: %v", e.Missing)
}

// UpstreamAuthError reports a failed token exchange with the commerce
// platform. Body carries the raw response for diagnostics.
type UpstreamAuthError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamAuthError) Error() string {
	return fmt.Sprintf("token exchange failed with status %d: %s", e.StatusCode, e.Body)
}

// UpstreamError reports a non-success or malformed response from an
// external API. Retry policy is left to the caller.
type UpstreamError struct {
	API        string
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s API error (status %d): %s", e.API, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s API error: %s", e.API, e.Message)
}

// InvalidURLError reports a deck-import URL that does not match any
// known provider shape. Surfaced to the caller as a 400.
type InvalidURLError struct {
	Provider string
	URL      string
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("not a valid %s deck URL: %s", e.Provider, e.URL)
}

// DeckNotFoundError reports a deck id the provider does not know.
type DeckNotFoundError struct {
	Provider string
	DeckID   string
}

func (e *DeckNotFoundError) Error() string {
	return fmt.Sprintf("%s deck %s not found", e.Provider, e.DeckID)
}

// SyncError wraps any failure during an inventory sync run.
type SyncError struct {
	Err error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("inventory sync failed: %v", e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}
