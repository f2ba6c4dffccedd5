package engine

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides Prometheus counters for routing.
//
// Metrics exposed (all namespaced with "nodenator_"):
//
// 1. routes_total (counter): Messages routed.
// Labels: node_from, status (ok/error).
//
// 2. guard_evaluations_total (counter): Guard evaluations.
// Labels: kind (output_condition/edge/input_condition), result (true/false/error).
//
// 3. transitions_total (counter): Transitions emitted.
// Labels: node_from, node_to.
//
// Usage:
//
//	registry := prometheus.NewRegistry()
//	router := NewRouter(WithMetrics(NewMetrics(registry)))
//
// A nil *Metrics records nothing.
type Metrics struct {
	routes      *prometheus.CounterVec
	evaluations *prometheus.CounterVec
	transitions *prometheus.CounterVec
}

// NewMetrics creates and registers the routing metrics with registry.
// A nil registry means prometheus.DefaultRegisterer.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &Metrics{
		routes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nodenator",
			Name:      "routes_total",
			Help:      "Messages routed through the graph",
		}, []string{"node_from", "status"}),
		evaluations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nodenator",
			Name:      "guard_evaluations_total",
			Help:      "Guard predicates evaluated while routing",
		}, []string{"kind", "result"}),
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nodenator",
			Name:      "transitions_total",
			Help:      "Transitions emitted by routing",
		}, []string{"node_from", "node_to"}),
	}
}

func (m *Metrics) observeRoute(nodeFrom string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.routes.WithLabelValues(nodeFrom, status).Inc()
}

func (m *Metrics) observeEvaluation(kind string, result bool, err error) {
	if m == nil {
		return
	}
	label := strconv.FormatBool(result)
	if err != nil {
		label = "error"
	}
	m.evaluations.WithLabelValues(kind, label).Inc()
}

func (m *Metrics) observeTransition(nodeFrom, nodeTo string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(nodeFrom, nodeTo).Inc()
}
