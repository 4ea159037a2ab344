package fetch

import "fmt"

// TransportError reports a network-level failure while fetching a tile:
// DNS resolution, connection reset, timeout, or a failed body read.
// It wraps the underlying error for errors.Is/As inspection.
type TransportError struct {
	URL string
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying transport error.
func (e *TransportError) Unwrap() error { return e.Err }

// HTTPError reports a response with a status outside the success range.
type HTTPError struct {
	URL        string
	Status     int
	StatusText string
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("fetching %s: HTTP %d %s", e.URL, e.Status, e.StatusText)
}
