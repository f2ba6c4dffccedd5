package compiler

import (
	"fmt"
	"strings"

	"github.com/fridex/nodenator/internal/graph"
)

// Validation error codes (E100-E199)
const (
	// Node errors (E101-E109)
	ErrNodeNameEmpty       = "E101" // node name is required
	ErrDuplicateNodeName   = "E102" // node names are unique
	ErrInvalidComparison   = "E103" // unsupported comparison policy
	ErrInvalidConditionKey = "E104" // condition is not a mapping

	// Edge errors (E110-E119)
	ErrEdgeMissingEndpoint = "E110" // from/to is empty
	ErrEdgeUnknownNode     = "E111" // from/to names no node
	ErrEdgeMissingGuard    = "E112" // condition is required
	ErrDuplicateEdgeName   = "E113" // explicit edge names are unique
)

// ValidationError represents a document validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ValidationErrors is the error returned by Compile when Validate finds
// problems.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.Error()
	}
	return fmt.Sprintf("%d validation error(s):\n  %s", len(errs), strings.Join(parts, "\n  "))
}

// Validate checks the shape of doc. Returns all errors found (does not
// fail-fast). Predicate trees are only checked to be mappings here; their
// full shape is checked when Compile builds them.
func Validate(doc *Document) []ValidationError {
	var errs []ValidationError

	names := make(map[string]int, len(doc.Nodes))
	for i, n := range doc.Nodes {
		field := fmt.Sprintf("nodes[%d]", i)
		if strings.TrimSpace(n.Name) == "" {
			errs = append(errs, ValidationError{Field: field + ".name", Message: "node name is required", Code: ErrNodeNameEmpty})
			continue
		}
		if first, dup := names[n.Name]; dup {
			errs = append(errs, ValidationError{
				Field:   field + ".name",
				Message: fmt.Sprintf("duplicate node name %q (first defined at nodes[%d])", n.Name, first),
				Code:    ErrDuplicateNodeName,
			})
		} else {
			names[n.Name] = i
		}
		if n.Comparison != nil {
			if _, err := graph.ParseComparison(n.Name, *n.Comparison); err != nil {
				errs = append(errs, ValidationError{Field: field + ".comparison", Message: err.Error(), Code: ErrInvalidComparison})
			}
		}
		errs = append(errs, validateCondition(field+".input_condition", n.InputCondition, false)...)
		errs = append(errs, validateCondition(field+".output_condition", n.OutputCondition, false)...)
	}

	edgeNames := make(map[string]int, len(doc.Edges))
	for i, e := range doc.Edges {
		field := fmt.Sprintf("edges[%d]", i)
		if e.Name != "" {
			if first, dup := edgeNames[e.Name]; dup {
				errs = append(errs, ValidationError{
					Field:   field + ".name",
					Message: fmt.Sprintf("duplicate edge name %q (first defined at edges[%d])", e.Name, first),
					Code:    ErrDuplicateEdgeName,
				})
			} else {
				edgeNames[e.Name] = i
			}
		}
		errs = append(errs, validateEndpoint(field+".from", e.From, names)...)
		errs = append(errs, validateEndpoint(field+".to", e.To, names)...)
		errs = append(errs, validateCondition(field+".condition", e.Condition, true)...)
	}

	return errs
}

func validateEndpoint(field, name string, names map[string]int) []ValidationError {
	if name == "" {
		return []ValidationError{{Field: field, Message: "edge endpoint is required", Code: ErrEdgeMissingEndpoint}}
	}
	if _, ok := names[name]; !ok {
		return []ValidationError{{Field: field, Message: fmt.Sprintf("unknown node %q", name), Code: ErrEdgeUnknownNode}}
	}
	return nil
}

func validateCondition(field string, cond any, required bool) []ValidationError {
	if cond == nil {
		if required {
			return []ValidationError{{Field: field, Message: "condition is required", Code: ErrEdgeMissingGuard}}
		}
		return nil
	}
	switch cond.(type) {
	case map[string]any, map[any]any:
		return nil
	default:
		return []ValidationError{{
			Field:   field,
			Message: fmt.Sprintf("condition must be a mapping, got %T", cond),
			Code:    ErrInvalidConditionKey,
		}}
	}
}
