package predicates

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/fridex/nodenator/internal/ir"
	"github.com/fridex/nodenator/internal/predicate"
)

// Names of the built-in leaf functions.
const (
	FieldEqual   = "fieldEqual"
	FieldExist   = "fieldExist"
	FieldContain = "fieldContain"
)

// Register installs every built-in into reg.
func Register(reg *predicate.Registry) error {
	builtins := []struct {
		name string
		fn   predicate.Func
	}{
		{FieldEqual, fieldEqual},
		{FieldExist, fieldExist},
		{FieldContain, fieldContain},
	}
	for _, b := range builtins {
		if err := reg.Register(b.name, b.fn); err != nil {
			return fmt.Errorf("register built-ins: %w", err)
		}
	}
	return nil
}

// NewRegistry returns a registry holding only the built-ins.
func NewRegistry() *predicate.Registry {
	reg := predicate.NewRegistry()
	if err := Register(reg); err != nil {
		panic(err)
	}
	return reg
}

// fieldEqual(key, value) is true iff the payload value at key equals
// value. Int and float compare numerically.
func fieldEqual(msg predicate.Message, args ir.Object) (any, error) {
	path, want, err := keyValueArgs(FieldEqual, args)
	if err != nil {
		return nil, err
	}
	got, ok := path.Deref(msg.Payload())
	if !ok {
		slog.Debug("field missing", "predicate", FieldEqual, "key", path.String())
		return false, nil
	}
	lit, err := ir.FromAny(got)
	if err != nil {
		return false, nil
	}
	return ir.Equal(lit, want), nil
}

// fieldExist(key) is true iff key can be dereferenced in the payload.
func fieldExist(msg predicate.Message, args ir.Object) (any, error) {
	path, err := keyArg(FieldExist, args)
	if err != nil {
		return nil, err
	}
	_, ok := path.Deref(msg.Payload())
	return ok, nil
}

// fieldContain(key, value) is true iff the payload value at key is a
// list holding value or a string containing value as a substring.
func fieldContain(msg predicate.Message, args ir.Object) (any, error) {
	path, want, err := keyValueArgs(FieldContain, args)
	if err != nil {
		return nil, err
	}
	got, ok := path.Deref(msg.Payload())
	if !ok {
		return false, nil
	}

	switch g := got.(type) {
	case string:
		sub, ok := want.(ir.String)
		return ok && strings.Contains(g, string(sub)), nil
	case []any:
		for _, elem := range g {
			lit, err := ir.FromAny(elem)
			if err != nil {
				continue
			}
			if ir.Equal(lit, want) {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, nil
	}
}

func keyArg(fn string, args ir.Object) (Path, error) {
	key, ok := args["key"]
	if !ok {
		return nil, fmt.Errorf("%s: missing argument key", fn)
	}
	path, err := ParsePath(key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	return path, nil
}

func keyValueArgs(fn string, args ir.Object) (Path, ir.Value, error) {
	path, err := keyArg(fn, args)
	if err != nil {
		return nil, nil, err
	}
	value, ok := args["value"]
	if !ok {
		return nil, nil, fmt.Errorf("%s: missing argument value", fn)
	}
	return path, value, nil
}
