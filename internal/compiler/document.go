package compiler

import (
	"github.com/fridex/nodenator/internal/graph"
)

// Document is the decoded form of a graph description.
type Document struct {
	Nodes []NodeDoc `yaml:"nodes" json:"nodes"`
	Edges []EdgeDoc `yaml:"edges" json:"edges"`
}

// NodeDoc describes one node. Conditions hold declarative predicate
// trees exactly as decoded.
type NodeDoc struct {
	Name            string                      `yaml:"name" json:"name"`
	Description     string                      `yaml:"description,omitempty" json:"description,omitempty"`
	SourcePath      string                      `yaml:"source_path,omitempty" json:"source_path,omitempty"`
	InputCondition  any                         `yaml:"input_condition,omitempty" json:"input_condition,omitempty"`
	OutputCondition any                         `yaml:"output_condition,omitempty" json:"output_condition,omitempty"`
	Comparison      *graph.ComparisonDescriptor `yaml:"comparison,omitempty" json:"comparison,omitempty"`
}

// EdgeDoc describes one edge between two named nodes.
type EdgeDoc struct {
	Name        string `yaml:"name,omitempty" json:"name,omitempty"`
	From        string `yaml:"from" json:"from"`
	To          string `yaml:"to" json:"to"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Condition   any    `yaml:"condition" json:"condition"`
}
