package graph

import (
	"github.com/fridex/nodenator/internal/expr"
	"github.com/fridex/nodenator/internal/predicate"
)

// Node is a vertex of the transition system.
//
// The name, conditions and comparison policy are fixed at construction.
// Edges are attached afterwards and only ever appended.
type Node struct {
	name            string
	description     string
	sourcePath      string
	inputCondition  predicate.Predicate
	outputCondition predicate.Predicate
	comparison      ComparisonPolicy
	inputEdges      []*Edge
	outputEdges     []*Edge
}

// NodeOption configures optional Node attributes.
type NodeOption func(*nodeConfig)

type nodeConfig struct {
	description     string
	sourcePath      string
	inputCondition  predicate.Predicate
	outputCondition predicate.Predicate
	comparison      *ComparisonDescriptor
}

// WithDescription sets a human-readable description.
func WithDescription(d string) NodeOption {
	return func(c *nodeConfig) { c.description = d }
}

// WithSourcePath sets where generated code for the node is emitted.
func WithSourcePath(p string) NodeOption {
	return func(c *nodeConfig) { c.sourcePath = p }
}

// WithInputCondition guards messages the node accepts.
func WithInputCondition(p predicate.Predicate) NodeOption {
	return func(c *nodeConfig) { c.inputCondition = p }
}

// WithOutputCondition guards messages the node emits.
func WithOutputCondition(p predicate.Predicate) NodeOption {
	return func(c *nodeConfig) { c.outputCondition = p }
}

// WithComparison sets the comparison policy descriptor. It is validated
// by NewNode.
func WithComparison(d ComparisonDescriptor) NodeOption {
	return func(c *nodeConfig) { c.comparison = &d }
}

// NewNode creates a node. The name is required. A supplied comparison
// descriptor must be valid; without one the node compares by name.
func NewNode(name string, opts ...NodeOption) (*Node, error) {
	if name == "" {
		return nil, invalidConfiguration("", "node name is required")
	}

	var cfg nodeConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	policy := ByName()
	if cfg.comparison != nil {
		p, err := ParseComparison(name, *cfg.comparison)
		if err != nil {
			return nil, err
		}
		policy = p
	}

	return &Node{
		name:            name,
		description:     cfg.description,
		sourcePath:      cfg.sourcePath,
		inputCondition:  cfg.inputCondition,
		outputCondition: cfg.outputCondition,
		comparison:      policy,
	}, nil
}

// Name returns the node name.
func (n *Node) Name() string { return n.name }

// Description returns the description, possibly empty.
func (n *Node) Description() string { return n.description }

// SourcePath returns the output path for generated code, possibly empty.
func (n *Node) SourcePath() string { return n.sourcePath }

// InputCondition returns the input guard or nil.
func (n *Node) InputCondition() predicate.Predicate { return n.inputCondition }

// OutputCondition returns the output guard or nil.
func (n *Node) OutputCondition() predicate.Predicate { return n.outputCondition }

// Comparison returns the node's comparison policy.
func (n *Node) Comparison() ComparisonPolicy { return n.comparison }

// ComparisonIsByName reports whether generated code identifies this node
// by name.
func (n *Node) ComparisonIsByName() bool { return n.comparison.IsByName() }

// ComparisonImport returns the import path generated code needs to
// identify this node by instance.
func (n *Node) ComparisonImport() (string, bool) { return n.comparison.Import() }

// AddInputEdge appends e to the incoming edges. No validation is done.
func (n *Node) AddInputEdge(e *Edge) { n.inputEdges = append(n.inputEdges, e) }

// AddOutputEdge appends e to the outgoing edges. No validation is done.
func (n *Node) AddOutputEdge(e *Edge) { n.outputEdges = append(n.outputEdges, e) }

// InputEdges returns the incoming edges in attachment order.
func (n *Node) InputEdges() []*Edge { return append([]*Edge(nil), n.inputEdges...) }

// OutputEdges returns the outgoing edges in attachment order.
func (n *Node) OutputEdges() []*Edge { return append([]*Edge(nil), n.outputEdges...) }

// IdentityTest returns an expression that is true when the identifier
// sender refers to this node in generated code.
func (n *Node) IdentityTest(sender string) expr.Expr {
	return n.comparison.identityTest(sender, n.name)
}
