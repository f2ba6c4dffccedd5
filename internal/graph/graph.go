package graph

import (
	"log/slog"

	"github.com/fridex/nodenator/internal/ir"
)

// Graph owns the nodes and edges of one transition system, in insertion
// order, with nodes indexed by name.
type Graph struct {
	nodes  []*Node
	edges  []*Edge
	byName map[string]*Node
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{byName: make(map[string]*Node)}
}

// AddNode registers n. Node names are unique within a graph; a second
// node with the same name is rejected rather than shadowing the first.
func (g *Graph) AddNode(n *Node) error {
	if n == nil {
		return invalidGraph("nil node")
	}
	if _, exists := g.byName[n.Name()]; exists {
		err := invalidGraph("duplicate node name")
		err.Node = n.Name()
		return err
	}
	g.nodes = append(g.nodes, n)
	g.byName[n.Name()] = n
	return nil
}

// AddEdge registers e and attaches it to both endpoints: as an output
// edge of its source node and an input edge of its destination. Both
// endpoints must already belong to this graph.
func (g *Graph) AddEdge(e *Edge) error {
	if e == nil {
		return invalidGraph("nil edge")
	}
	for _, end := range []*Node{e.From(), e.To()} {
		if g.byName[end.Name()] != end {
			err := invalidGraph("edge endpoint is not part of the graph")
			err.Node = end.Name()
			err.Edge = e.Name()
			return err
		}
	}

	e.From().AddOutputEdge(e)
	e.To().AddInputEdge(e)
	g.edges = append(g.edges, e)

	slog.Debug("edge added", "edge", e.Name(), "from", e.From().Name(), "to", e.To().Name())
	return nil
}

// NodeByName returns the node called name.
func (g *Graph) NodeByName(name string) (*Node, bool) {
	n, ok := g.byName[name]
	return n, ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node { return append([]*Node(nil), g.nodes...) }

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []*Edge { return append([]*Edge(nil), g.edges...) }

// Describe returns a canonical, JSON-compatible description of the graph
// with every guard in its canonical string form. Generated edge names
// are left out since they differ between runs.
func (g *Graph) Describe() map[string]any {
	nodes := make([]any, len(g.nodes))
	for i, n := range g.nodes {
		node := map[string]any{
			"name":       n.Name(),
			"comparison": comparisonDescription(n.Comparison()),
		}
		setString(node, "description", n.Description())
		setString(node, "source_path", n.SourcePath())
		if c := n.InputCondition(); c != nil {
			node["input_condition"] = c.String()
		}
		if c := n.OutputCondition(); c != nil {
			node["output_condition"] = c.String()
		}
		nodes[i] = node
	}

	edges := make([]any, len(g.edges))
	for i, e := range g.edges {
		edge := map[string]any{
			"from":      e.From().Name(),
			"to":        e.To().Name(),
			"condition": e.Condition().String(),
		}
		if !e.NameGenerated() {
			edge["name"] = e.Name()
		}
		setString(edge, "description", e.Description())
		edges[i] = edge
	}

	return map[string]any{"nodes": nodes, "edges": edges}
}

// Fingerprint returns a content hash of Describe. Graphs that differ only
// in generated edge names share a fingerprint.
func (g *Graph) Fingerprint() (string, error) {
	return ir.Fingerprint(ir.DomainGraph, g.Describe())
}

func comparisonDescription(p ComparisonPolicy) map[string]any {
	out := map[string]any{"type": string(p.Type())}
	if imp, ok := p.Import(); ok {
		out["import"] = imp
	}
	return out
}

func setString(m map[string]any, key, value string) {
	if value != "" {
		m[key] = value
	}
}
