// Package expr provides the target-agnostic expression tree produced by
// predicate synthesis and consumed by source renderers.
//
// ARCHITECTURE:
//
//	[predicate tree] → [expr tree] → [Python renderer]
//	                               → [JavaScript renderer]
//
// The tree mirrors the semantics of direct predicate evaluation: a
// BooleanAnd/BooleanOr keeps operand order, so any target language with
// short-circuit boolean operators reproduces the same evaluation order.
//
// NODE KINDS:
//
// Expressions produced by predicate synthesis:
//   - BooleanAnd, BooleanOr: n-ary short-circuit operators
//   - UnaryNot: logical negation
//   - Call: leaf predicate call with one positional message argument and
//     named literal arguments
//   - Literal: a wrapped ir.Value
//   - Identifier: a bare name
//
// Expressions produced only by dispatch synthesis:
//   - Equal: value equality (sender name test)
//   - IsInstance: type/capability test (sender instance test)
//
// Statements (dispatch synthesis only):
//   - If: conditional with optional else branch
//   - Return: return a value
//   - Pass: empty body
//
// SEALED INTERFACES:
//
// Expr and Stmt are sealed with marker methods. Renderers switch over
// the complete set of node types:
//
//	switch e := node.(type) {
//	case BooleanAnd:
//	case BooleanOr:
//	case UnaryNot:
//	case Call:
//	case Literal:
//	case Identifier:
//	case Equal:
//	case IsInstance:
//	}
package expr
