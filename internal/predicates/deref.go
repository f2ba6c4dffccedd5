package predicates

import (
	"fmt"
	"strconv"

	"github.com/fridex/nodenator/internal/ir"
)

// Path is a parsed key argument: the ordered segments to walk from the
// payload root.
type Path []ir.Value

// ParsePath converts a key argument into a Path. A string is a single
// segment; a list is taken segment by segment. Segments must be strings
// (mapping keys) or integers (list indices).
func ParsePath(key ir.Value) (Path, error) {
	switch k := key.(type) {
	case ir.String:
		return Path{k}, nil
	case ir.List:
		if len(k) == 0 {
			return nil, fmt.Errorf("key path is empty")
		}
		for i, seg := range k {
			switch seg.(type) {
			case ir.String, ir.Int:
			default:
				return nil, fmt.Errorf("key[%d]: segment must be a string or integer, got %T", i, seg)
			}
		}
		return Path(k), nil
	default:
		return nil, fmt.Errorf("key must be a string or a list, got %T", key)
	}
}

// Deref walks p through payload and returns the value found. The bool
// result is false when any segment is missing or addresses a scalar.
func (p Path) Deref(payload map[string]any) (any, bool) {
	var cur any = payload
	for _, seg := range p {
		next, ok := step(cur, seg)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

func step(cur any, seg ir.Value) (any, bool) {
	switch c := cur.(type) {
	case map[string]any:
		key, ok := segmentKey(seg)
		if !ok {
			return nil, false
		}
		v, ok := c[key]
		return v, ok
	case map[any]any:
		key, ok := segmentKey(seg)
		if !ok {
			return nil, false
		}
		v, ok := c[key]
		return v, ok
	case []any:
		idx, ok := seg.(ir.Int)
		if !ok || idx < 0 || int(idx) >= len(c) {
			return nil, false
		}
		return c[idx], true
	default:
		return nil, false
	}
}

// segmentKey maps a segment to a mapping key. Integer segments address
// mappings by their decimal form, matching JSON object keys.
func segmentKey(seg ir.Value) (string, bool) {
	switch s := seg.(type) {
	case ir.String:
		return string(s), true
	case ir.Int:
		return strconv.FormatInt(int64(s), 10), true
	default:
		return "", false
	}
}

// String renders the path as dotted segments for diagnostics.
func (p Path) String() string {
	out := ""
	for i, seg := range p {
		if i > 0 {
			out += "."
		}
		switch s := seg.(type) {
		case ir.String:
			out += string(s)
		case ir.Int:
			out += strconv.FormatInt(int64(s), 10)
		}
	}
	return out
}
