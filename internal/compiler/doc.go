// Package compiler loads graph descriptions and compiles them into a
// validated graph.Graph.
//
// Descriptions come as YAML, JSON or CUE and share one structure:
//
//	nodes:
//	  - name: Sensor
//	    input_condition: {name: fieldExist, args: {key: reading}}
//	    comparison: {type: instance, import: plant.sensors}
//	edges:
//	  - name: alarm
//	    from: Sensor
//	    to: Alarm
//	    condition: {and: [...]}
//
// Compilation runs in three passes. Validate checks the document shape
// and collects every problem instead of stopping at the first. Compile
// then builds predicates, nodes and edges, failing fast on the first
// predicate or configuration error. AnalyzeCycles finally reports
// transition cycles as warnings.
package compiler
