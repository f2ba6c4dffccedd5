package predicate

import (
	"errors"
	"fmt"
)

// Error is returned for every failure this package detects.
//
// Errors are never retried or recovered internally; they propagate to
// the immediate caller.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Function is the leaf function identifier involved, if any.
	Function string

	// Tree is the indented rendering of the offending declarative
	// subtree (MALFORMED_TREE only).
	Tree string
}

// ErrorCode categorizes predicate errors.
type ErrorCode string

const (
	// ErrCodeMalformedTree indicates a declarative description with the wrong shape.
	ErrCodeMalformedTree ErrorCode = "MALFORMED_TREE"

	// ErrCodeLookupFailure indicates a leaf function identifier the registry cannot resolve.
	ErrCodeLookupFailure ErrorCode = "LOOKUP_FAILURE"

	// ErrCodeContractViolation indicates a leaf function returned a non-boolean.
	ErrCodeContractViolation ErrorCode = "CONTRACT_VIOLATION"
)

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Function != "" {
		msg = fmt.Sprintf("%s (function=%s)", msg, e.Function)
	}
	if e.Tree != "" {
		msg = fmt.Sprintf("%s:\n%s", msg, e.Tree)
	}
	return msg
}

// IsMalformedTree returns true if err is a MALFORMED_TREE error.
// Uses errors.As to handle wrapped errors.
func IsMalformedTree(err error) bool {
	return hasCode(err, ErrCodeMalformedTree)
}

// IsLookupFailure returns true if err is a LOOKUP_FAILURE error.
func IsLookupFailure(err error) bool {
	return hasCode(err, ErrCodeLookupFailure)
}

// IsContractViolation returns true if err is a CONTRACT_VIOLATION error.
func IsContractViolation(err error) bool {
	return hasCode(err, ErrCodeContractViolation)
}

func hasCode(err error, code ErrorCode) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code == code
	}
	return false
}

// NewMalformedTreeError creates a MALFORMED_TREE error carrying a
// rendering of the offending subtree.
func NewMalformedTreeError(message string, tree any) *Error {
	return &Error{
		Code:    ErrCodeMalformedTree,
		Message: message,
		Tree:    renderTree(tree),
	}
}

// NewLookupFailureError creates a LOOKUP_FAILURE error for function.
func NewLookupFailureError(function string) *Error {
	return &Error{
		Code:     ErrCodeLookupFailure,
		Message:  "unknown predicate function",
		Function: function,
	}
}

// NewContractViolationError creates a CONTRACT_VIOLATION error for a
// leaf function that returned got instead of a bool.
func NewContractViolationError(function string, got any) *Error {
	return &Error{
		Code:     ErrCodeContractViolation,
		Message:  fmt.Sprintf("predicate must return boolean, got %T", got),
		Function: function,
	}
}
