package graph

import (
	"github.com/google/uuid"

	"github.com/fridex/nodenator/internal/predicate"
)

// Edge is a directed, guarded transition between two nodes.
type Edge struct {
	name        string
	generated   bool
	description string
	from        *Node
	to          *Node
	condition   predicate.Predicate
}

// NewEdge creates an edge from one node to another guarded by condition.
//
// An empty name is replaced by a generated "edge-<uuid>" token. Such
// tokens are local to the current run and must not be persisted as
// stable identifiers.
func NewEdge(name string, from, to *Node, condition predicate.Predicate, description string) (*Edge, error) {
	if from == nil || to == nil {
		return nil, invalidGraph("edge %q requires both endpoints", name)
	}
	if condition == nil {
		return nil, &ConfigError{
			Code:    ErrCodeInvalidConfiguration,
			Message: "edge requires a condition",
			Edge:    name,
		}
	}

	generated := false
	if name == "" {
		name = "edge-" + uuid.NewString()
		generated = true
	}

	return &Edge{
		name:        name,
		generated:   generated,
		description: description,
		from:        from,
		to:          to,
		condition:   condition,
	}, nil
}

// Name returns the edge name or its run-local generated token.
func (e *Edge) Name() string { return e.name }

// NameGenerated reports whether Name is a run-local token.
func (e *Edge) NameGenerated() bool { return e.generated }

// Description returns the description, possibly empty.
func (e *Edge) Description() string { return e.description }

// From returns the node the edge starts in.
func (e *Edge) From() *Node { return e.from }

// To returns the node the edge ends in.
func (e *Edge) To() *Node { return e.to }

// Condition returns the edge guard.
func (e *Edge) Condition() predicate.Predicate { return e.condition }
