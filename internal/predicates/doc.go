// Package predicates provides the built-in leaf functions every graph
// can reference without registering its own.
//
// All built-ins address message payload fields by key. A key is either
// a single string or a list of path segments walked through nested
// mappings and lists; any failure to walk the path makes the leaf
// evaluate to false rather than erroring.
package predicates
