package predicate

import (
	"github.com/fridex/nodenator/internal/ir"
)

// Message is the runtime value a guard is evaluated against.
//
// The graph package supplies the concrete type; predicates only hand it
// through to leaf functions.
type Message interface {
	// Payload returns the message content.
	Payload() map[string]any

	// Sender returns the name of the node the message originated from.
	Sender() string

	// Recipient returns the name of the destination node, or "" if the
	// message is not addressed.
	Recipient() string
}

// Func is a leaf predicate function.
//
// It receives the message and the leaf's named arguments. It must return
// a bool; any other result is a contract violation. A returned error
// aborts evaluation and propagates unchanged.
type Func func(msg Message, args ir.Object) (any, error)

// Predicate is a node of a guard expression tree.
//
// This is a sealed interface: *Leaf, *And, *Or and *Not are the only
// implementations.
type Predicate interface {
	String() string
	predicateNode() // Marker method - seals interface to this package
}

// Leaf calls one resolved function with named literal arguments.
type Leaf struct {
	function string
	fn       Func
	args     ir.Object
}

func (*Leaf) predicateNode() {}

// String returns the canonical form of the leaf.
func (l *Leaf) String() string { return Format(l) }

// Function returns the function identifier.
func (l *Leaf) Function() string { return l.function }

// Args returns a copy of the named arguments.
func (l *Leaf) Args() ir.Object { return l.args.Clone() }

// And is true when every child is true. Children are evaluated in order
// and evaluation stops at the first false child.
type And struct {
	children []Predicate
}

func (*And) predicateNode() {}

// String returns the canonical form of the conjunction.
func (a *And) String() string { return Format(a) }

// Children returns a copy of the child list.
func (a *And) Children() []Predicate { return append([]Predicate(nil), a.children...) }

// Or is true when any child is true. Children are evaluated in order and
// evaluation stops at the first true child.
type Or struct {
	children []Predicate
}

func (*Or) predicateNode() {}

// String returns the canonical form of the disjunction.
func (o *Or) String() string { return Format(o) }

// Children returns a copy of the child list.
func (o *Or) Children() []Predicate { return append([]Predicate(nil), o.children...) }

// Not negates its single child.
type Not struct {
	child Predicate
}

func (*Not) predicateNode() {}

// String returns the canonical form of the negation.
func (n *Not) String() string { return Format(n) }

// Child returns the negated predicate.
func (n *Not) Child() Predicate { return n.child }

// NewLeaf creates a leaf for function, already resolved to fn.
// A nil args map is treated as no arguments.
func NewLeaf(function string, fn Func, args ir.Object) (*Leaf, error) {
	if function == "" {
		return nil, NewMalformedTreeError("leaf predicate requires a function name", map[string]any{"name": function})
	}
	if fn == nil {
		return nil, NewLookupFailureError(function)
	}
	if args == nil {
		args = ir.Object{}
	}
	return &Leaf{function: function, fn: fn, args: args.Clone()}, nil
}

// NewAnd creates a conjunction over at least one child.
func NewAnd(children ...Predicate) (*And, error) {
	if err := checkChildren("and", children); err != nil {
		return nil, err
	}
	return &And{children: append([]Predicate(nil), children...)}, nil
}

// NewOr creates a disjunction over at least one child.
func NewOr(children ...Predicate) (*Or, error) {
	if err := checkChildren("or", children); err != nil {
		return nil, err
	}
	return &Or{children: append([]Predicate(nil), children...)}, nil
}

// NewNot creates a negation of child.
func NewNot(child Predicate) (*Not, error) {
	if child == nil {
		return nil, NewMalformedTreeError("unary operator expects exactly one child", map[string]any{"not": nil})
	}
	return &Not{child: child}, nil
}

func checkChildren(op string, children []Predicate) error {
	if len(children) == 0 {
		return NewMalformedTreeError("nary operator expects a list of children", map[string]any{op: []any{}})
	}
	for _, c := range children {
		if c == nil {
			return NewMalformedTreeError("nary operator child is empty", map[string]any{op: nil})
		}
	}
	return nil
}
