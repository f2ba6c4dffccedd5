// Package dispatch synthesizes the message dispatch code of a node: one
// guarded branch per incoming edge, tested in edge order.
package dispatch

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/fridex/nodenator/internal/expr"
	"github.com/fridex/nodenator/internal/graph"
	"github.com/fridex/nodenator/internal/predicate"
)

// DefaultSender is the identifier generated code uses for the sending
// node.
const DefaultSender = "node_from"

// Options configures Synthesize.
type Options struct {
	// Sender is the identifier holding the sending node. Defaults to
	// DefaultSender.
	Sender string

	// Message is the identifier holding the message passed to every leaf
	// call. Defaults to predicate.DefaultMessageIdentifier.
	Message string

	// Body returns the statements run when e fires. Defaults to a single
	// Pass.
	Body func(e *graph.Edge) []expr.Stmt
}

func (o Options) withDefaults() Options {
	if o.Sender == "" {
		o.Sender = DefaultSender
	}
	if o.Message == "" {
		o.Message = predicate.DefaultMessageIdentifier
	}
	if o.Body == nil {
		o.Body = func(*graph.Edge) []expr.Stmt { return []expr.Stmt{expr.Pass{}} }
	}
	return o
}

// Dispatch is the synthesized dispatch code of one node.
type Dispatch struct {
	Node *graph.Node

	// Stmts holds a single if/else chain, or nothing when the node has no
	// incoming edges.
	Stmts []expr.Stmt

	// Imports lists the symbols the chain's instance tests need, sorted
	// and without duplicates.
	Imports []expr.Import
}

// Synthesize builds the dispatch chain of node.
//
// Each incoming edge becomes one branch whose test identifies the
// edge's source node. The edge guard is nested inside that branch
// rather than and-ed into its test, so the first branch whose sender
// matches wins even when its guard is false. Branch order is edge order.
func Synthesize(node *graph.Node, opts Options) (*Dispatch, error) {
	if node == nil {
		return nil, fmt.Errorf("synthesize: nil node")
	}
	opts = opts.withDefaults()
	if opts.Sender == opts.Message {
		return nil, fmt.Errorf("synthesize %s: sender and message identifiers are both %q", node.Name(), opts.Sender)
	}
	// A leaf named like either identifier would be shadowed by it in the
	// generated code.
	for _, name := range Used(node) {
		if name == opts.Sender || name == opts.Message {
			return nil, fmt.Errorf("synthesize %s: leaf %q collides with a dispatch identifier", node.Name(), name)
		}
	}

	edges := node.InputEdges()
	d := &Dispatch{Node: node}

	var chain []expr.Stmt
	for i := len(edges) - 1; i >= 0; i-- {
		e := edges[i]
		body := opts.Body(e)
		if len(body) == 0 {
			body = []expr.Stmt{expr.Pass{}}
		}
		chain = []expr.Stmt{expr.If{
			Test: e.From().IdentityTest(opts.Sender),
			Body: []expr.Stmt{expr.If{
				Test: predicate.SynthesizeWith(e.Condition(), opts.Message),
				Body: body,
			}},
			Else: chain,
		}}
	}
	d.Stmts = chain
	d.Imports = imports(edges)

	if err := expr.ValidateStmts(d.Stmts); err != nil {
		return nil, fmt.Errorf("synthesize %s: %w", node.Name(), err)
	}

	slog.Debug("dispatch synthesized", "node", node.Name(), "branches", len(edges), "imports", len(d.Imports))
	return d, nil
}

// Used returns the leaf function identifiers referenced by the guards of
// the node's incoming edges, in branch order with duplicates kept.
func Used(node *graph.Node) []string {
	var names []string
	for _, e := range node.InputEdges() {
		names = append(names, predicate.Used(e.Condition())...)
	}
	return names
}

func imports(edges []*graph.Edge) []expr.Import {
	seen := make(map[expr.Import]bool)
	var out []expr.Import
	for _, e := range edges {
		from := e.From()
		module, ok := from.ComparisonImport()
		if !ok {
			continue
		}
		imp := expr.Import{Module: module, Name: from.Name()}
		if seen[imp] {
			continue
		}
		seen[imp] = true
		out = append(out, imp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Module != out[j].Module {
			return out[i].Module < out[j].Module
		}
		return out[i].Name < out[j].Name
	})
	return out
}
