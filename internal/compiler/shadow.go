package compiler

import (
	"fmt"

	"github.com/fridex/nodenator/internal/graph"
)

// ShadowWarning reports an input edge whose dispatch branch never runs.
//
// Dispatch tests senders in input edge order and the first matching
// branch wins, so a later edge from an already-seen sender is dead.
type ShadowWarning struct {
	Node       string `json:"node"`        // Receiving node
	Edge       string `json:"edge"`        // Unreachable edge
	ShadowedBy string `json:"shadowed_by"` // Earlier edge from the same sender
	Sender     string `json:"sender"`
	Message    string `json:"message"`
	Level      string `json:"level"` // "warning"
}

// AnalyzeShadowing reports every input edge that shares its sender with
// an earlier input edge of the same node. Nodes and edges are visited in
// insertion order.
func AnalyzeShadowing(g *graph.Graph) []ShadowWarning {
	warnings := []ShadowWarning{}
	if g == nil {
		return warnings
	}
	for _, n := range g.Nodes() {
		first := make(map[string]string)
		for _, e := range n.InputEdges() {
			sender := e.From().Name()
			earlier, seen := first[sender]
			if !seen {
				first[sender] = e.Name()
				continue
			}
			warnings = append(warnings, ShadowWarning{
				Node:       n.Name(),
				Edge:       e.Name(),
				ShadowedBy: earlier,
				Sender:     sender,
				Message: fmt.Sprintf("Edge %s (%s → %s) is shadowed by %s and never dispatches",
					e.Name(), sender, n.Name(), earlier),
				Level: "warning",
			})
		}
	}
	return warnings
}
