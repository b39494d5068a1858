package dto

import "fmt"

// ErrorResponse represents a generic error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// FetchError reports a catalog feed request that failed with a non-2xx
// status. Network-level failures are wrapped separately.
type FetchError struct {
	URL        string
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("catalog fetch %s returned status %d", e.URL, e.StatusCode)
}

// ReasoningServiceError wraps the last failure after the reasoning client has
// exhausted all attempts.
type ReasoningServiceError struct {
	Attempts int
	Err      error
}

func (e *ReasoningServiceError) Error() string {
	return fmt.Sprintf("reasoning service failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ReasoningServiceError) Unwrap() error {
	return e.Err
}
