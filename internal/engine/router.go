package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fridex/nodenator/internal/graph"
	"github.com/fridex/nodenator/internal/predicate"
	"github.com/fridex/nodenator/internal/store"
)

// Recorder receives every guard evaluation made while routing.
// Implemented by *store.Store.
type Recorder interface {
	Record(ctx context.Context, ev store.Evaluation) error
}

// Transition is one edge a message may follow.
type Transition struct {
	Edge *graph.Edge
	To   *graph.Node
}

// Router evaluates node conditions and edge guards for messages.
//
// A Router holds no per-message state; the same Router can route any
// number of messages. Route is not safe for concurrent use when a
// Recorder is set, because evaluations share one run.
type Router struct {
	clock    Clock
	recorder Recorder
	runID    string
	metrics  *Metrics
}

// Option configures a Router.
type Option func(*Router)

// WithClock sets the clock used to stamp evaluations.
//
// Default: NewClock()
// Use NewClockAt(store.LastSeq) to continue numbering an existing log.
func WithClock(c Clock) Option {
	return func(r *Router) {
		r.clock = c
	}
}

// WithRecorder logs every evaluation to rec under runID.
func WithRecorder(rec Recorder, runID string) Option {
	return func(r *Router) {
		r.recorder = rec
		r.runID = runID
	}
}

// WithMetrics counts routes, evaluations and transitions in m.
func WithMetrics(m *Metrics) Option {
	return func(r *Router) {
		r.metrics = m
	}
}

// NewRouter creates a Router.
func NewRouter(opts ...Option) *Router {
	r := &Router{clock: NewClock()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Route returns the transitions msg may take from its sender.
//
// When msg names a recipient, only edges into that node are considered.
// Returns an empty slice (not nil) when no transition applies. The first
// guard error aborts routing and is returned as a *RoutingError. ctx is
// checked between edges and passed to the Recorder.
func (r *Router) Route(ctx context.Context, msg *graph.Message) ([]Transition, error) {
	if msg == nil || msg.From == nil {
		return nil, &RoutingError{Code: ErrCodeMissingSender, Message: "message has no sending node"}
	}

	transitions, err := r.route(ctx, msg)
	r.metrics.observeRoute(msg.From.Name(), err)
	if err != nil {
		return nil, err
	}
	return transitions, nil
}

func (r *Router) route(ctx context.Context, msg *graph.Message) ([]Transition, error) {
	from := msg.From
	payload, err := r.payload(msg)
	if err != nil {
		return nil, err
	}

	transitions := []Transition{}

	if cond := from.OutputCondition(); cond != nil {
		ok, err := r.evaluate(ctx, guard{
			kind:      store.KindOutputCondition,
			node:      from.Name(),
			nodeFrom:  from.Name(),
			condition: cond,
		}, msg, payload)
		if err != nil {
			return nil, err
		}
		if !ok {
			slog.Debug("output condition rejected message", "node", from.Name())
			return transitions, nil
		}
	}

	for _, e := range from.OutputEdges() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if msg.To != nil && e.To() != msg.To {
			continue
		}

		ok, err := r.evaluate(ctx, guard{
			kind:      store.KindEdge,
			node:      from.Name(),
			edge:      e.Name(),
			nodeFrom:  from.Name(),
			nodeTo:    e.To().Name(),
			condition: e.Condition(),
		}, msg, payload)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		if cond := e.To().InputCondition(); cond != nil {
			ok, err := r.evaluate(ctx, guard{
				kind:      store.KindInputCondition,
				node:      e.To().Name(),
				edge:      e.Name(),
				nodeFrom:  from.Name(),
				nodeTo:    e.To().Name(),
				condition: cond,
			}, msg, payload)
			if err != nil {
				return nil, err
			}
			if !ok {
				slog.Debug("input condition rejected message", "node", e.To().Name(), "edge", e.Name())
				continue
			}
		}

		slog.Debug("transition", "edge", e.Name(), "from", from.Name(), "to", e.To().Name())
		r.metrics.observeTransition(from.Name(), e.To().Name())
		transitions = append(transitions, Transition{Edge: e, To: e.To()})
	}

	return transitions, nil
}

// guard identifies one predicate evaluation within a route.
type guard struct {
	kind      string
	node      string // node owning the predicate (for errors)
	edge      string
	nodeFrom  string
	nodeTo    string
	condition predicate.Predicate
}

func (r *Router) evaluate(ctx context.Context, g guard, msg *graph.Message, payload string) (bool, error) {
	seq := r.clock.Next()
	result, evalErr := predicate.Evaluate(g.condition, msg)
	r.metrics.observeEvaluation(g.kind, result, evalErr)

	if r.recorder != nil {
		ev := store.Evaluation{
			RunID:    r.runID,
			Seq:      seq,
			Kind:     g.kind,
			Edge:     g.edge,
			NodeFrom: g.nodeFrom,
			NodeTo:   g.nodeTo,
			Guard:    predicate.Format(g.condition),
			Message:  payload,
			Result:   result,
		}
		if evalErr != nil {
			ev.Error = evalErr.Error()
		}
		if err := r.recorder.Record(ctx, ev); err != nil {
			return false, fmt.Errorf("record evaluation %d: %w", seq, err)
		}
	}

	if evalErr != nil {
		return false, &RoutingError{
			Code:    ErrCodeGuardFailed,
			Message: "guard evaluation failed",
			Node:    g.node,
			Edge:    g.edge,
			Kind:    g.kind,
			Err:     evalErr,
		}
	}
	return result, nil
}

// payload serializes the message once per route, only when a Recorder
// needs it.
func (r *Router) payload(msg *graph.Message) (string, error) {
	if r.recorder == nil {
		return "", nil
	}
	data, err := store.MarshalPayload(msg.Payload())
	if err != nil {
		return "", fmt.Errorf("route: %w", err)
	}
	return data, nil
}
