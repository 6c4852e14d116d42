package api

import "fmt"

// FetchError is the single failure kind returned by the catalog client.
// It covers transport failures, timeouts, non-success statuses and decode failures.
type FetchError struct {
	Op         string
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
