package compiler

import (
	"fmt"
	"log/slog"

	"github.com/fridex/nodenator/internal/graph"
	"github.com/fridex/nodenator/internal/predicate"
)

// Compile validates doc and builds its graph, resolving every leaf
// predicate through b.
//
// Validation problems are returned together as ValidationErrors.
// Predicate and configuration errors are returned as soon as they are
// found, wrapped with the field they came from.
func Compile(doc *Document, b *predicate.Builder) (*graph.Graph, error) {
	if errs := Validate(doc); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	g := graph.New()
	for i, nd := range doc.Nodes {
		field := fmt.Sprintf("nodes[%d]", i)

		opts := []graph.NodeOption{
			graph.WithDescription(nd.Description),
			graph.WithSourcePath(nd.SourcePath),
		}
		if nd.InputCondition != nil {
			p, err := b.Construct(nd.InputCondition)
			if err != nil {
				return nil, fmt.Errorf("%s.input_condition: %w", field, err)
			}
			opts = append(opts, graph.WithInputCondition(p))
		}
		if nd.OutputCondition != nil {
			p, err := b.Construct(nd.OutputCondition)
			if err != nil {
				return nil, fmt.Errorf("%s.output_condition: %w", field, err)
			}
			opts = append(opts, graph.WithOutputCondition(p))
		}
		if nd.Comparison != nil {
			opts = append(opts, graph.WithComparison(*nd.Comparison))
		}

		n, err := graph.NewNode(nd.Name, opts...)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", field, err)
		}
		if err := g.AddNode(n); err != nil {
			return nil, fmt.Errorf("%s: %w", field, err)
		}
	}

	for i, ed := range doc.Edges {
		field := fmt.Sprintf("edges[%d]", i)

		cond, err := b.Construct(ed.Condition)
		if err != nil {
			return nil, fmt.Errorf("%s.condition: %w", field, err)
		}
		from, _ := g.NodeByName(ed.From)
		to, _ := g.NodeByName(ed.To)

		e, err := graph.NewEdge(ed.Name, from, to, cond, ed.Description)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", field, err)
		}
		if err := g.AddEdge(e); err != nil {
			return nil, fmt.Errorf("%s: %w", field, err)
		}
	}

	slog.Debug("graph compiled", "nodes", len(doc.Nodes), "edges", len(doc.Edges))
	return g, nil
}

// CompileFile loads path and compiles it.
func CompileFile(path string, b *predicate.Builder) (*graph.Graph, error) {
	doc, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	g, err := Compile(doc, b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}
