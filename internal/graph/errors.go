package graph

import (
	"errors"
	"fmt"
)

// ConfigError is returned when a node, edge or graph is assembled from
// invalid configuration. It is always raised at construction time, never
// when the graph is later used.
type ConfigError struct {
	// Code identifies the error category.
	Code ConfigErrorCode

	// Message is a human-readable description.
	Message string

	// Node names the node involved, if any.
	Node string

	// Edge names the edge involved, if any.
	Edge string
}

// ConfigErrorCode categorizes configuration errors.
type ConfigErrorCode string

const (
	// ErrCodeInvalidConfiguration indicates a bad node attribute such as an
	// unsupported comparison policy.
	ErrCodeInvalidConfiguration ConfigErrorCode = "INVALID_CONFIGURATION"

	// ErrCodeInvalidGraph indicates a structural problem: a duplicate node
	// name or an edge endpoint that is not part of the graph.
	ErrCodeInvalidGraph ConfigErrorCode = "INVALID_GRAPH"
)

// Error implements the error interface.
func (e *ConfigError) Error() string {
	switch {
	case e.Node != "" && e.Edge != "":
		return fmt.Sprintf("%s: %s (node=%s, edge=%s)", e.Code, e.Message, e.Node, e.Edge)
	case e.Node != "":
		return fmt.Sprintf("%s: %s (node=%s)", e.Code, e.Message, e.Node)
	case e.Edge != "":
		return fmt.Sprintf("%s: %s (edge=%s)", e.Code, e.Message, e.Edge)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// IsInvalidConfiguration returns true if err is an INVALID_CONFIGURATION error.
// Uses errors.As to handle wrapped errors.
func IsInvalidConfiguration(err error) bool {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeInvalidConfiguration
	}
	return false
}

// IsInvalidGraph returns true if err is an INVALID_GRAPH error.
func IsInvalidGraph(err error) bool {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeInvalidGraph
	}
	return false
}

func invalidConfiguration(node, format string, args ...any) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidConfiguration,
		Message: fmt.Sprintf(format, args...),
		Node:    node,
	}
}

func invalidGraph(format string, args ...any) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidGraph,
		Message: fmt.Sprintf(format, args...),
	}
}
