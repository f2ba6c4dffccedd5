package engine

import (
	"errors"
	"fmt"
)

// RoutingError represents an error detected while routing a message.
//
// Routing errors include:
//   - Missing sender: the message names no node_from
//   - Guard failure: a guard raised an error (lookup failure, contract
//     violation, or an error returned by a leaf function)
//
// RoutingError wraps the underlying error so predicate.IsContractViolation
// and friends still match.
type RoutingError struct {
	// Code identifies the error category.
	Code RoutingErrorCode

	// Message is a human-readable description.
	Message string

	// Node is the node whose guard was being evaluated.
	Node string

	// Edge is the edge being evaluated, empty for node conditions.
	Edge string

	// Kind is the evaluation kind (see store.Kind*).
	Kind string

	// Err is the underlying cause.
	Err error
}

// RoutingErrorCode categorizes routing errors.
type RoutingErrorCode string

const (
	// ErrCodeMissingSender indicates the message has no sending node.
	ErrCodeMissingSender RoutingErrorCode = "MISSING_SENDER"

	// ErrCodeGuardFailed indicates a guard evaluation returned an error.
	ErrCodeGuardFailed RoutingErrorCode = "GUARD_FAILED"
)

// Error implements the error interface.
func (e *RoutingError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Edge != "" {
		msg = fmt.Sprintf("%s (node=%s, edge=%s, kind=%s)", msg, e.Node, e.Edge, e.Kind)
	} else if e.Node != "" {
		msg = fmt.Sprintf("%s (node=%s, kind=%s)", msg, e.Node, e.Kind)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *RoutingError) Unwrap() error {
	return e.Err
}

// IsGuardFailed returns true if the error is a guard evaluation failure.
// Uses errors.As to handle wrapped errors.
func IsGuardFailed(err error) bool {
	var re *RoutingError
	if errors.As(err, &re) {
		return re.Code == ErrCodeGuardFailed
	}
	return false
}

// IsMissingSender returns true if the message had no sending node.
// Uses errors.As to handle wrapped errors.
func IsMissingSender(err error) bool {
	var re *RoutingError
	if errors.As(err, &re) {
		return re.Code == ErrCodeMissingSender
	}
	return false
}
