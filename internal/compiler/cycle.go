package compiler

import (
	"fmt"
	"strings"

	"github.com/fridex/nodenator/internal/graph"
)

// CycleWarning represents a cycle in the transition graph.
//
// Cycles are warnings, not errors, because they may be intentional:
//   - Retry loops guarded by an attempt counter
//   - Polling nodes that feed themselves until a field appears
type CycleWarning struct {
	Path    []string `json:"path"`    // Cycle path: ["A", "B", "A"]
	Message string   `json:"message"` // Human-readable description
	Level   string   `json:"level"`   // "warning"
}

// AnalyzeCycles finds strongly connected components of the node graph
// with Tarjan's algorithm and reports each SCC with more than one node,
// or with a self-loop, as a potential cycle.
//
// Nodes are visited in insertion order so the result is deterministic.
// A DAG returns an empty warning list.
func AnalyzeCycles(g *graph.Graph) []CycleWarning {
	if g == nil {
		return []CycleWarning{}
	}
	adj, order := adjacency(g)

	warnings := []CycleWarning{}
	for _, scc := range tarjanSCC(adj, order) {
		if len(scc) > 1 || (len(scc) == 1 && hasSelfLoop(scc[0], adj)) {
			warnings = append(warnings, cycleSCCToWarning(scc, adj))
		}
	}
	return warnings
}

// adjacency maps node name → names of the nodes its output edges reach,
// in edge order.
type adjacencyMap map[string][]string

func adjacency(g *graph.Graph) (adjacencyMap, []string) {
	adj := make(adjacencyMap)
	var order []string
	for _, n := range g.Nodes() {
		order = append(order, n.Name())
		adj[n.Name()] = []string{}
		for _, e := range n.OutputEdges() {
			adj[n.Name()] = append(adj[n.Name()], e.To().Name())
		}
	}
	return adj, order
}

// hasSelfLoop checks if a node has an edge to itself.
func hasSelfLoop(node string, adj adjacencyMap) bool {
	for _, neighbor := range adj[node] {
		if neighbor == node {
			return true
		}
	}
	return false
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
//
// Single-node SCCs without self-loops are NOT cycles.
func tarjanSCC(adj adjacencyMap, order []string) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range adj[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		// v is a root node: pop the stack and emit an SCC
		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, node := range order {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}
	return sccs
}

// cycleSCCToWarning converts an SCC to a CycleWarning.
func cycleSCCToWarning(scc []string, adj adjacencyMap) CycleWarning {
	if len(scc) == 1 {
		node := scc[0]
		return CycleWarning{
			Path:    []string{node, node},
			Message: fmt.Sprintf("Self-transition detected: %s → %s", node, node),
			Level:   "warning",
		}
	}

	path := reconstructCyclePath(scc, adj)
	return CycleWarning{
		Path:    path,
		Message: fmt.Sprintf("Potential cycle detected: %s", strings.Join(path, " → ")),
		Level:   "warning",
	}
}

// reconstructCyclePath builds a cycle path from an SCC.
//
// Starts at the last node Tarjan popped (the SCC root, earliest in
// insertion order) and follows edges to other SCC members until it
// returns to the start.
func reconstructCyclePath(scc []string, adj adjacencyMap) []string {
	if len(scc) == 0 {
		return []string{}
	}

	sccSet := make(map[string]bool)
	for _, node := range scc {
		sccSet[node] = true
	}

	start := scc[len(scc)-1]
	current := start
	path := []string{current}
	visited := make(map[string]bool)

	for {
		visited[current] = true

		var next string
		for _, neighbor := range adj[current] {
			if sccSet[neighbor] && (!visited[neighbor] || neighbor == start) {
				next = neighbor
				break
			}
		}
		if next == "" {
			break
		}

		path = append(path, next)
		if next == start {
			break
		}
		current = next
	}
	return path
}
