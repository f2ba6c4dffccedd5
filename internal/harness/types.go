package harness

import "github.com/fridex/nodenator/internal/store"

// TraceEvent is one guard evaluation in a scenario trace.
type TraceEvent struct {
	Seq      int64  `json:"seq"`
	Kind     string `json:"kind"`
	Edge     string `json:"edge,omitempty"`
	NodeFrom string `json:"node_from"`
	NodeTo   string `json:"node_to,omitempty"`
	Guard    string `json:"guard"`
	Result   bool   `json:"result"`
	Error    string `json:"error,omitempty"`
}

// traceEvent converts a stored evaluation to a trace event.
func traceEvent(ev store.Evaluation) TraceEvent {
	return TraceEvent{
		Seq:      ev.Seq,
		Kind:     ev.Kind,
		Edge:     ev.Edge,
		NodeFrom: ev.NodeFrom,
		NodeTo:   ev.NodeTo,
		Guard:    ev.Guard,
		Result:   ev.Result,
		Error:    ev.Error,
	}
}

// StepResult is the outcome of routing one scenario message.
type StepResult struct {
	Transitions []string `json:"transitions"`
	Error       string   `json:"error,omitempty"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if all expect clauses and assertions hold.
	Pass bool `json:"pass"`

	// Trace contains every guard evaluation in seq order.
	Trace []TraceEvent `json:"trace"`

	// Steps holds one entry per scenario message.
	Steps []StepResult `json:"steps"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Steps:  []StepResult{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
