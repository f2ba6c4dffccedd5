package harness

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/fridex/nodenator/internal/compiler"
	"github.com/fridex/nodenator/internal/engine"
	"github.com/fridex/nodenator/internal/graph"
	"github.com/fridex/nodenator/internal/predicate"
	"github.com/fridex/nodenator/internal/predicates"
	"github.com/fridex/nodenator/internal/store"
	"github.com/fridex/nodenator/internal/testutil"
)

// Options configures a harness run.
type Options struct {
	// Registry resolves leaf predicates. Default: the built-ins.
	Registry *predicate.Registry
}

// Run executes a test scenario with the built-in leaf predicates.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithOptions(scenario, Options{})
}

// RunWithOptions executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
// Deterministic helpers ensure reproducible results.
//
// Execution flow:
// 1. Create fresh in-memory evaluation log
// 2. Compile the scenario graph
// 3. Route every message, checking expect clauses
// 4. Read the trace back from the log and evaluate assertions
//
// An error is returned only when the scenario cannot be executed at all
// (bad graph, unknown node names). Failed expectations are reported in
// Result.Errors.
func RunWithOptions(scenario *Scenario, opts Options) (*Result, error) {
	reg := opts.Registry
	if reg == nil {
		reg = predicates.NewRegistry()
	}

	st, err := store.Open(":memory:", store.WithIDGenerator(store.NewFixedGenerator(scenario.Name)))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	g, err := compiler.CompileFile(scenario.Graph, predicate.NewBuilder(reg))
	if err != nil {
		return nil, fmt.Errorf("failed to compile graph: %w", err)
	}
	for _, e := range g.Edges() {
		if e.NameGenerated() {
			return nil, fmt.Errorf("edge %s -> %s has no name; scenario graphs must name every edge",
				e.From().Name(), e.To().Name())
		}
	}

	ctx := context.Background()
	hash, err := g.Fingerprint()
	if err != nil {
		return nil, fmt.Errorf("failed to fingerprint graph: %w", err)
	}
	runID, err := st.BeginRun(ctx, hash, scenario.Name)
	if err != nil {
		return nil, err
	}

	router := engine.NewRouter(
		engine.WithRecorder(st, runID),
		engine.WithClock(testutil.NewDeterministicClock()),
	)

	result := NewResult()
	messages := make([]*graph.Message, len(scenario.Messages))
	for i, step := range scenario.Messages {
		msg, err := graph.NewMessageFromRaw(step.Raw(), g)
		if err != nil {
			return nil, fmt.Errorf("messages[%d]: %w", i, err)
		}
		messages[i] = msg

		transitions, routeErr := router.Route(ctx, msg)
		sr := StepResult{Transitions: transitionNames(transitions)}
		if routeErr != nil {
			sr.Error = routeErr.Error()
		}
		result.Steps = append(result.Steps, sr)

		for _, problem := range checkExpect(i, step.Expect, sr) {
			result.AddError(problem)
		}

		slog.Debug("scenario message routed",
			"scenario", scenario.Name,
			"step", i,
			"transitions", sr.Transitions,
			"error", sr.Error,
		)
	}

	evals, err := st.Evaluations(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to read trace: %w", err)
	}
	for _, ev := range evals {
		result.Trace = append(result.Trace, traceEvent(ev))
	}

	actx := &AssertionContext{
		Ctx:      ctx,
		Graph:    g,
		Messages: messages,
		Registry: reg,
	}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	return result, nil
}

func transitionNames(ts []engine.Transition) []string {
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = t.Edge.Name()
	}
	return names
}

// checkExpect compares one routed message against its expect clause.
func checkExpect(index int, expect *ExpectClause, sr StepResult) []string {
	if expect == nil {
		if sr.Error != "" {
			return []string{fmt.Sprintf("messages[%d]: unexpected error: %s", index, sr.Error)}
		}
		return nil
	}

	if expect.Error != "" {
		if sr.Error == "" {
			return []string{fmt.Sprintf("messages[%d]: expected error containing %q, got transitions %v",
				index, expect.Error, sr.Transitions)}
		}
		if !strings.Contains(sr.Error, expect.Error) {
			return []string{fmt.Sprintf("messages[%d]: expected error containing %q, got %q",
				index, expect.Error, sr.Error)}
		}
		return nil
	}

	if sr.Error != "" {
		return []string{fmt.Sprintf("messages[%d]: unexpected error: %s", index, sr.Error)}
	}
	want := expect.Transitions
	if want == nil {
		want = []string{}
	}
	if !slices.Equal(want, sr.Transitions) {
		return []string{fmt.Sprintf("messages[%d]: expected transitions %v, got %v", index, want, sr.Transitions)}
	}
	return nil
}
