// Package graph holds the guarded transition system: nodes, the directed
// edges between them and the messages that travel along those edges.
//
// A Graph owns its nodes and edges. Edges reference their endpoints by
// pointer but never own them; a node may be the endpoint of any number
// of edges. Construction is single-writer: nodes and edges are added by
// one loader and the graph is read-only afterwards.
//
// Every node carries a comparison policy that tells dispatch synthesis
// how generated code recognises the node as a message sender: by its
// name, or by an instance check against a symbol imported from the
// node's configured module path.
package graph
