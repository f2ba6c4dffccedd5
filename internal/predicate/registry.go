package predicate

import (
	"fmt"
	"sort"

	"github.com/fridex/nodenator/internal/expr"
	"github.com/fridex/nodenator/internal/ir"
)

// Resolver resolves a leaf function identifier to its implementation.
// An unknown identifier must produce a LOOKUP_FAILURE error.
type Resolver interface {
	Lookup(name string) (Func, error)
}

// Registry is an explicit, per-load table of leaf functions.
//
// Registration is expected to finish before the registry is shared;
// concurrent Register calls are not synchronized.
type Registry struct {
	funcs map[string]Func
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]Func)}
}

// Register adds fn under name. Names are unique, and must be
// identifiers since synthesized code calls them by name.
func (r *Registry) Register(name string, fn Func) error {
	if name == "" {
		return fmt.Errorf("register: empty predicate name")
	}
	if !expr.IsIdentifier(name) {
		return fmt.Errorf("register %q: predicate name is not a valid identifier", name)
	}
	if fn == nil {
		return fmt.Errorf("register %s: nil function", name)
	}
	if _, exists := r.funcs[name]; exists {
		return fmt.Errorf("register %s: already registered", name)
	}
	r.funcs[name] = fn
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, fn Func) {
	if err := r.Register(name, fn); err != nil {
		panic(err)
	}
}

// Lookup implements Resolver.
func (r *Registry) Lookup(name string) (Func, error) {
	fn, ok := r.funcs[name]
	if !ok {
		return nil, NewLookupFailureError(name)
	}
	return fn, nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BoolFunc adapts a function that cannot fail into a Func.
func BoolFunc(fn func(msg Message, args ir.Object) bool) Func {
	return func(msg Message, args ir.Object) (any, error) {
		return fn(msg, args), nil
	}
}
