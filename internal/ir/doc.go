// Package ir provides the literal value model shared by predicate
// arguments, synthesized expressions and canonical serialization.
//
// This package imports nothing internal. Every other internal package
// may import ir; ir stays the foundational layer.
//
// Key design constraints:
//   - Value is sealed: String, Int, Float, Bool and List only
//   - Maps and nulls are not literals; FromAny rejects them
//   - Object keys are always visited in RFC 8785 order (SortedKeys)
//   - Canonical JSON is the only encoding used for fingerprints
package ir
