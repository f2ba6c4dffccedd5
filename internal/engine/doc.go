// Package engine routes messages through a compiled graph.
//
// Routing a message from node A evaluates, in order:
//  1. A's output condition, if any. False means the message goes nowhere.
//  2. For each output edge of A in declaration order (restricted to the
//     message's recipient when it names one): the edge guard, then the
//     destination's input condition, if any.
//
// Every edge whose guard and destination input condition both hold
// yields a Transition.
//
// Each guard evaluation is stamped with a seq from a logical Clock,
// optionally written to a Recorder (the store's evaluation log) and
// counted in prometheus Metrics.
//
// CRITICAL PATTERNS:
//
// Logical clock:
// Evaluations are ordered by seq from Clock.Next(), never by wall time.
//
// Deterministic scheduling:
// Edges are evaluated in declaration order. The first error aborts the
// route; nothing is retried.
package engine
