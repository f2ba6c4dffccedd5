// Package predicate implements guard conditions: boolean expression trees
// over named, externally resolved leaf functions.
//
// A tree is built once from declarative data by a Builder and is
// immutable afterwards. Four operations walk it:
//
//	Evaluate(p, msg)  short-circuit evaluation against a runtime message
//	Format(p)         canonical string form, e.g. (isHigh(key='temp') and (not isError()))
//	Used(p)           leaf function names, in order, duplicates kept
//	Synthesize(p)     equivalent expr tree for code generation
//
// # Variants
//
// Predicate is sealed over *Leaf, *And, *Or and *Not. Every operation
// is a type switch over exactly these four; there is no dynamic dispatch.
//
// # Declarative form
//
// Each level of the description is a mapping with one recognized key,
// checked in this order:
//
//	{name: fieldEqual, args: {key: temp, value: 100}}   leaf
//	{or: [<tree>, ...]}                                 at least one child
//	{not: <tree>}                                       exactly one child
//	{and: [<tree>, ...]}                                at least one child
//
// # Errors
//
// MALFORMED_TREE and LOOKUP_FAILURE surface at construction time,
// CONTRACT_VIOLATION at evaluation time when a leaf function returns
// anything other than a bool. See Error.
//
// # Argument order
//
// Leaf arguments are rendered and synthesized in RFC 8785 key order
// (ir.Object.SortedKeys), never in declaration order.
package predicate
