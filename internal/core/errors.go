package core

import (
	"errors"
	"fmt"
)

// ErrReviewNotFound signals that a requested history id does not exist.
var ErrReviewNotFound = errors.New("review not found")

// UpstreamError reports a failed call to the inference provider: unreachable
// host, a timeout, or a non-success status. The pipeline recovers from it by
// returning a degraded result instead of failing the request.
type UpstreamError struct {
	Status int // HTTP status from the provider, 0 if the call never completed
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("inference provider returned status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("inference call failed: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// ParseError reports model output that is not valid JSON even after
// normalization. Raw carries the offending text for diagnosis.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("model output is not valid JSON: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// PersistenceError reports a failed review-store read or write.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("review store %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
