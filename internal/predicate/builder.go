package predicate

import (
	"encoding/json"
	"fmt"

	"github.com/fridex/nodenator/internal/ir"
)

// Keys recognized in a declarative predicate description.
const (
	KeyName = "name"
	KeyArgs = "args"
	KeyOr   = "or"
	KeyNot  = "not"
	KeyAnd  = "and"
)

// Builder constructs predicate trees from declarative descriptions,
// resolving leaf functions through its Resolver.
type Builder struct {
	resolver Resolver
}

// NewBuilder creates a Builder that resolves leaves through r.
func NewBuilder(r Resolver) *Builder {
	return &Builder{resolver: r}
}

// Construct builds a predicate from tree, a nested mapping as produced by
// YAML, JSON or CUE decoding.
//
// Shapes are checked in precedence order name, or, not, and. Any other
// shape is a MALFORMED_TREE error carrying a rendering of the offending
// subtree. Leaf functions are resolved immediately, so an unknown
// function fails here rather than at evaluation time.
func (b *Builder) Construct(tree any) (Predicate, error) {
	m, ok := asMapping(tree)
	if !ok {
		return nil, NewMalformedTreeError("unrecognized predicate shape", tree)
	}

	if name, ok := m[KeyName]; ok {
		return b.constructLeaf(m, name)
	}
	if children, ok := m[KeyOr]; ok {
		preds, err := b.constructChildren(KeyOr, children)
		if err != nil {
			return nil, err
		}
		return &Or{children: preds}, nil
	}
	if child, ok := m[KeyNot]; ok {
		if _, isList := asSequence(child); isList {
			return nil, NewMalformedTreeError("unary operator expects exactly one child", m)
		}
		pred, err := b.Construct(child)
		if err != nil {
			return nil, fmt.Errorf("not: %w", err)
		}
		return &Not{child: pred}, nil
	}
	if children, ok := m[KeyAnd]; ok {
		preds, err := b.constructChildren(KeyAnd, children)
		if err != nil {
			return nil, err
		}
		return &And{children: preds}, nil
	}

	return nil, NewMalformedTreeError("unrecognized predicate shape", m)
}

func (b *Builder) constructLeaf(m map[string]any, name any) (Predicate, error) {
	function, ok := name.(string)
	if !ok || function == "" {
		return nil, NewMalformedTreeError("leaf predicate name must be a non-empty string", m)
	}

	var args ir.Object
	if raw, present := m[KeyArgs]; present && raw != nil {
		argMap, ok := asMapping(raw)
		if !ok {
			return nil, NewMalformedTreeError("leaf predicate arguments must be a mapping", m)
		}
		obj, err := ir.ObjectFromMap(argMap)
		if err != nil {
			return nil, NewMalformedTreeError(fmt.Sprintf("invalid argument %v", err), m)
		}
		args = obj
	}

	fn, err := b.resolver.Lookup(function)
	if err != nil {
		if IsLookupFailure(err) {
			return nil, err
		}
		lf := NewLookupFailureError(function)
		lf.Message = fmt.Sprintf("unknown predicate function: %v", err)
		return nil, lf
	}

	return NewLeaf(function, fn, args)
}

func (b *Builder) constructChildren(op string, raw any) ([]Predicate, error) {
	seq, ok := asSequence(raw)
	if !ok || len(seq) == 0 {
		return nil, NewMalformedTreeError("nary operator expects a list of children", map[string]any{op: raw})
	}

	preds := make([]Predicate, len(seq))
	for i, child := range seq {
		pred, err := b.Construct(child)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", op, i, err)
		}
		preds[i] = pred
	}
	return preds, nil
}

// asMapping accepts the mapping types produced by the supported decoders.
func asMapping(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	default:
		return nil, false
	}
}

// asSequence accepts the sequence types produced by the supported decoders.
func asSequence(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []map[string]any:
		out := make([]any, len(s))
		for i, m := range s {
			out[i] = m
		}
		return out, true
	default:
		return nil, false
	}
}

// renderTree renders a declarative subtree as indented JSON with sorted
// keys for diagnostics. Values JSON cannot represent fall back to %v.
func renderTree(tree any) string {
	data, err := json.MarshalIndent(jsonable(tree), "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", tree)
	}
	return string(data)
}

// jsonable rewrites map[any]any levels so encoding/json can marshal them.
func jsonable(v any) any {
	switch val := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[fmt.Sprint(k)] = jsonable(elem)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = jsonable(elem)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = jsonable(elem)
		}
		return out
	default:
		return v
	}
}
