package fetcher

import (
	"errors"
	"fmt"
)

// ErrNotSuccessful means the backend answered with success=false.
// Callers treat it as "nothing to update this cycle".
var ErrNotSuccessful = errors.New("response reported success=false")

// NetworkError means the request never produced a response
type NetworkError struct {
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// DecodeError means the response was not the JSON the endpoint promises
type DecodeError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s response (status %d): %v", e.Endpoint, e.StatusCode, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsLogicalFailure reports whether err is a success=false envelope
func IsLogicalFailure(err error) bool {
	return errors.Is(err, ErrNotSuccessful)
}
