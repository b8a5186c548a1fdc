package redact

import (
	"errors"
	"fmt"
)

var (
	// ErrSpanOutOfRange is returned when a span does not fit the document.
	ErrSpanOutOfRange = errors.New("span out of range")

	// ErrDetector is matched by every DetectorError.
	ErrDetector = errors.New("detector failed")
)

// DetectorError records which detector stopped the redaction of a document.
type DetectorError struct {
	// Detector is the name of the failing detector.
	Detector string

	// Err is the underlying failure.
	Err error
}

// Error implements the error interface.
func (e *DetectorError) Error() string {
	return fmt.Sprintf("detector %s: %v", e.Detector, e.Err)
}

// Unwrap returns the underlying failure.
func (e *DetectorError) Unwrap() error {
	return e.Err
}

// Is reports ErrDetector as a match so callers can test for any detector
// failure without a type assertion.
func (e *DetectorError) Is(target error) bool {
	return target == ErrDetector
}
