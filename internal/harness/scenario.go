package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/fridex/nodenator/internal/graph"
)

// Scenario defines a routing test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. It is also the run id and
	// the golden file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Graph is the path to the graph description (YAML, JSON or CUE).
	// Relative paths are resolved against the scenario file location.
	Graph string `yaml:"graph"`

	// Messages are routed in order through the graph.
	Messages []MessageStep `yaml:"messages"`

	// Assertions validate the final trace.
	// Supported types: trace_contains, trace_order, trace_count, js_agrees
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// MessageStep is one message to route, in raw message form.
type MessageStep struct {
	From    string         `yaml:"node_from"`
	To      string         `yaml:"node_to,omitempty"`
	Message map[string]any `yaml:"message"`

	// Expect specifies the expected routing outcome.
	// If nil, no validation is performed beyond routing without error.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// Raw returns the step as a raw message description.
func (m MessageStep) Raw() map[string]any {
	raw := map[string]any{
		graph.RawKeyFrom:    m.From,
		graph.RawKeyMessage: m.Message,
	}
	if m.To != "" {
		raw[graph.RawKeyTo] = m.To
	}
	return raw
}

// ExpectClause specifies the expected outcome of routing one message.
type ExpectClause struct {
	// Transitions are the edge names the message takes, in order.
	Transitions []string `yaml:"transitions"`

	// Error, when set, is a substring the routing error must contain.
	// Transitions are not checked when an error is expected.
	Error string `yaml:"error,omitempty"`
}

// Assertion validates the trace.
type Assertion struct {
	// Type specifies the assertion type:
	// - "trace_contains": Check an evaluation of an edge exists
	// - "trace_order": Check edges are first evaluated in order
	// - "trace_count": Check an edge guard is evaluated exactly N times
	// - "js_agrees": Cross-check every guard in the JavaScript VM
	Type string `yaml:"type"`

	// Edge is the edge name (used by trace_contains, trace_count).
	Edge string `yaml:"edge,omitempty"`

	// Kind restricts trace_contains to one evaluation kind
	// (output_condition, edge, input_condition). Default: edge.
	Kind string `yaml:"kind,omitempty"`

	// Result is the expected evaluation result (used by trace_contains).
	Result *bool `yaml:"result,omitempty"`

	// Count is the expected number of evaluations (used by trace_count).
	Count int `yaml:"count,omitempty"`

	// Edges is the expected evaluation order (used by trace_order).
	Edges []string `yaml:"edges,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertJSAgrees      = "js_agrees"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
//
// The graph path is resolved relative to the scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Graph != "" && !filepath.IsAbs(scenario.Graph) {
		scenario.Graph = filepath.Join(filepath.Dir(path), scenario.Graph)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Graph == "" {
		return fmt.Errorf("graph is required")
	}
	if _, err := os.Stat(s.Graph); os.IsNotExist(err) {
		return fmt.Errorf("graph file not found: %s", s.Graph)
	}

	if len(s.Messages) == 0 {
		return fmt.Errorf("messages list is required and must be non-empty")
	}

	for i, step := range s.Messages {
		if step.From == "" {
			return fmt.Errorf("messages[%d]: node_from is required", i)
		}
		if step.Message == nil {
			return fmt.Errorf("messages[%d]: message is required (use empty map if no content)", i)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Edge == "" {
			return fmt.Errorf("assertions[%d]: edge is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Edges) == 0 {
			return fmt.Errorf("assertions[%d]: edges list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Edge == "" {
			return fmt.Errorf("assertions[%d]: edge is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertJSAgrees:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
