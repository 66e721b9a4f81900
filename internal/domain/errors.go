package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrLocationNotFound is returned for landmark names outside the known set.
var ErrLocationNotFound = errors.New("Location not found") //nolint:staticcheck // user-facing sentinel text

// ValidationError reports a submission that failed the intake gate. Nothing
// is persisted or rendered for it.
type ValidationError struct {
	Flow       Flow
	Missing    []string // required fields left empty
	Violations []string // out-of-range or malformed values
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("please fill in all required fields (%s)", strings.Join(e.Missing, ", ")))
	}
	parts = append(parts, e.Violations...)
	if len(parts) == 0 {
		return fmt.Sprintf("invalid %s application", e.Flow)
	}
	return strings.Join(parts, "; ")
}

// StoreError wraps a failure of the backing store.
type StoreError struct {
	Op  string // "load" or "submit"
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// RenderError wraps a failure to generate a summary document. The record it
// describes has already been persisted when this error is returned.
type RenderError struct {
	Filename string
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Filename, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// IsValidation reports whether err is (or wraps) a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
