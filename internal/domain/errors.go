package domain

import (
	"context"
	"errors"
	"fmt"
)

// FailureKind classifies why a backend sub-query did not produce data.
// NotFound is success-shaped: the backend answered and the entity is absent.
type FailureKind string

const (
	FailureNotFound         FailureKind = "not_found"
	FailureNodeUnavailable  FailureKind = "node_unavailable"
	FailureIndexUnavailable FailureKind = "index_unavailable"
	FailureQueryRejected    FailureKind = "query_rejected"
	FailureDecodeError      FailureKind = "decode_error"
	FailureTimeout          FailureKind = "timeout"

	// WarningStaleIndex is attached as envelope metadata, never as a failure.
	WarningStaleIndex FailureKind = "staleness_warning"
)

// Failure is a typed backend failure. Adapters classify errors into a
// Failure at the boundary; the resolver never inspects raw backend errors.
type Failure struct {
	Kind    FailureKind
	Message string
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// NewFailure creates a typed failure with a formatted message.
func NewFailure(kind FailureKind, format string, args ...any) *Failure {
	return &Failure{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the failure kind from an error. Deadline expiry maps to
// Timeout regardless of which layer surfaced it; anything unclassified gets
// the given fallback kind.
func KindOf(err error, fallback FailureKind) FailureKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTimeout
	}

	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}

	return fallback
}

// IsNotFound reports whether the error is a NotFound failure.
func IsNotFound(err error) bool {
	var f *Failure
	return errors.As(err, &f) && f.Kind == FailureNotFound
}
