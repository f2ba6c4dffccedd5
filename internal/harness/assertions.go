package harness

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fridex/nodenator/internal/graph"
	"github.com/fridex/nodenator/internal/jsvm"
	"github.com/fridex/nodenator/internal/predicate"
	"github.com/fridex/nodenator/internal/store"
)

// AssertionContext provides what assertions need beyond the trace.
type AssertionContext struct {
	Ctx      context.Context
	Graph    *graph.Graph
	Messages []*graph.Message
	Registry *predicate.Registry
}

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s %s %s=%t\n", event.Seq, event.Kind, event.Edge, event.Guard, event.Result)
		}
	}

	return buf.String()
}

// EvaluateAssertions runs every assertion against result and returns the
// failure messages. An empty slice means all assertions hold.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errs []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, a)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, a)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, a)
		case AssertJSAgrees:
			err = assertJSAgrees(actx)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

// assertTraceContains checks if the trace contains an evaluation of the
// edge with the given kind and, when set, result.
func assertTraceContains(trace []TraceEvent, a Assertion) error {
	kind := a.Kind
	if kind == "" {
		kind = store.KindEdge
	}
	for _, event := range trace {
		if event.Edge != a.Edge || event.Kind != kind {
			continue
		}
		if a.Result == nil || *a.Result == event.Result {
			return nil
		}
	}

	expected := fmt.Sprintf("%s evaluation of edge %s", kind, a.Edge)
	if a.Result != nil {
		expected = fmt.Sprintf("%s with result %t", expected, *a.Result)
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: expected,
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks if edge guards are first evaluated in the
// specified order. Other evaluations may come in between.
func assertTraceOrder(trace []TraceEvent, a Assertion) error {
	positions := make(map[string]int)
	for i, event := range trace {
		if event.Kind != store.KindEdge {
			continue
		}
		if _, seen := positions[event.Edge]; !seen {
			positions[event.Edge] = i + 1 // 1-indexed for readability
		}
	}

	for _, edge := range a.Edges {
		if positions[edge] == 0 {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("all edges evaluated: %v", a.Edges),
				Actual:   fmt.Sprintf("missing edge: %s", edge),
				Trace:    trace,
			}
		}
	}

	for i := 1; i < len(a.Edges); i++ {
		prev, curr := a.Edges[i-1], a.Edges[i]
		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("edges in order: %v", a.Edges),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					prev, positions[prev], curr, positions[curr]),
				Trace: trace,
			}
		}
	}

	return nil
}

// assertTraceCount checks if the edge guard is evaluated exactly the
// specified number of times.
func assertTraceCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, event := range trace {
		if event.Kind == store.KindEdge && event.Edge == a.Edge {
			count++
		}
	}

	if count != a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d evaluations of %s", a.Count, a.Edge),
			Actual:   fmt.Sprintf("%d evaluations", count),
			Trace:    trace,
		}
	}
	return nil
}

// assertJSAgrees renders every guard of the graph to JavaScript and checks
// it against direct evaluation for every scenario message. Guards whose
// direct evaluation fails are skipped; error propagation is not a
// property of the rendered code.
func assertJSAgrees(actx *AssertionContext) error {
	if actx == nil || actx.Graph == nil {
		return fmt.Errorf("js_agrees requires a compiled graph")
	}
	vm := jsvm.New(actx.Registry)

	for _, p := range guards(actx.Graph) {
		for i, msg := range actx.Messages {
			_, err := vm.Check(actx.Ctx, p, msg)
			if jsvm.IsMismatch(err) {
				return &AssertionError{
					Type:     AssertJSAgrees,
					Expected: fmt.Sprintf("JavaScript agrees with direct evaluation for messages[%d]", i),
					Actual:   err.Error(),
				}
			}
			if err != nil {
				slog.Debug("js_agrees skipped guard", "guard", p.String(), "message", i, "error", err)
			}
		}
	}
	return nil
}

// guards lists every predicate in the graph: node conditions in node
// order, then edge guards in edge order.
func guards(g *graph.Graph) []predicate.Predicate {
	var ps []predicate.Predicate
	for _, n := range g.Nodes() {
		if p := n.InputCondition(); p != nil {
			ps = append(ps, p)
		}
		if p := n.OutputCondition(); p != nil {
			ps = append(ps, p)
		}
	}
	for _, e := range g.Edges() {
		ps = append(ps, e.Condition())
	}
	return ps
}
