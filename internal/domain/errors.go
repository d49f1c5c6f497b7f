package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrApplicationNotFound is returned when an application id is unknown
	ErrApplicationNotFound = errors.New("application not found")

	// ErrVendorNotFound is returned when an SNP id is not in the vendor directory
	ErrVendorNotFound = errors.New("SNP not found")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCollaboratorDisabled is returned when an optional external collaborator is not configured
	ErrCollaboratorDisabled = errors.New("collaborator not configured")

	// ErrStorageFailure is returned when the persistence layer cannot read or write
	ErrStorageFailure = errors.New("storage failure")
)

// ErrorKind classifies failures of external collaborators (LLM, web search,
// taxonomy source). None of these kinds ever reach a caller of the core
// pipelines; they only drive the fallback decision.
type ErrorKind string

const (
	KindUnavailable   ErrorKind = "unavailable"
	KindMalformed     ErrorKind = "malformed"
	KindLowConfidence ErrorKind = "low_confidence"
	KindNoMatch       ErrorKind = "no_match"
	KindConfigMissing ErrorKind = "config_missing"
)

// CollaboratorError is the typed failure returned by external-call wrappers.
type CollaboratorError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *CollaboratorError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

// NewCollaboratorError builds a CollaboratorError for op.
func NewCollaboratorError(kind ErrorKind, op string, err error) *CollaboratorError {
	return &CollaboratorError{Kind: kind, Op: op, Err: err}
}

// KindOf extracts the ErrorKind from err, or "" if err is not a CollaboratorError.
func KindOf(err error) ErrorKind {
	var ce *CollaboratorError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}
