// Package harness provides scenario testing for graph descriptions.
//
// The harness compiles a graph, routes a list of messages through it with
// the real engine, and validates the resulting evaluation trace.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	graph: ../graphs/boiler.yaml     # relative to the scenario file
//	messages:
//	  - node_from: Sensor
//	    node_to: Alarm                 # optional
//	    message: { temp: 120 }
//	    expect:
//	      transitions: [hot, log]      # edge names, in order
//	  - node_from: Sensor
//	    message: { temp: 1 }
//	    expect:
//	      error: GUARD_FAILED          # substring of the routing error
//	assertions:
//	  - type: trace_contains
//	    edge: hot
//	    result: true
//	  - type: trace_order
//	    edges: [hot, log]
//	  - type: trace_count
//	    edge: hot
//	    count: 1
//	  - type: js_agrees
//
// # Assertion Types
//
//   - trace_contains: an evaluation of the edge (and kind) exists, with the
//     given result when one is set
//   - trace_order: edges are first evaluated in the given order
//   - trace_count: the edge guard is evaluated exactly N times
//   - js_agrees: every guard, synthesized to JavaScript and run in the
//     embedded VM, agrees with direct evaluation for every message
//
// # Deterministic Testing
//
// Every scenario runs with:
//   - A fixed run id (the scenario name)
//   - Deterministic logical clock (testutil.DeterministicClock)
//   - In-memory SQLite evaluation log (isolated per run)
//
// Scenario graphs must name every edge, since generated edge names are
// random and would make traces unreproducible.
package harness
