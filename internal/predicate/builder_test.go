package predicate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fridex/nodenator/internal/ir"
	"github.com/fridex/nodenator/internal/predicate"
	"github.com/fridex/nodenator/internal/testutil"
)

func newBuilder(results map[string]any) (*predicate.Builder, *testutil.CallLog) {
	log := testutil.NewCallLog()
	return predicate.NewBuilder(testutil.Registry(log, results)), log
}

func TestConstruct_NestedAndNot(t *testing.T) {
	b, _ := newBuilder(map[string]any{"isHigh": true, "isError": false})

	tree := map[string]any{
		"and": []any{
			map[string]any{"name": "isHigh", "args": map[string]any{"key": "temp", "value": 100}},
			map[string]any{"not": map[string]any{"name": "isError"}},
		},
	}

	p, err := b.Construct(tree)
	require.NoError(t, err)

	and, ok := p.(*predicate.And)
	require.True(t, ok, "expected *And, got %T", p)
	children := and.Children()
	require.Len(t, children, 2)

	leaf, ok := children[0].(*predicate.Leaf)
	require.True(t, ok)
	assert.Equal(t, "isHigh", leaf.Function())
	assert.Equal(t, ir.Object{"key": ir.String("temp"), "value": ir.Int(100)}, leaf.Args())

	not, ok := children[1].(*predicate.Not)
	require.True(t, ok)
	inner, ok := not.Child().(*predicate.Leaf)
	require.True(t, ok)
	assert.Equal(t, "isError", inner.Function())
	assert.Empty(t, inner.Args())
}

func TestConstruct_Or(t *testing.T) {
	b, _ := newBuilder(map[string]any{"a": true})

	p, err := b.Construct(map[string]any{"or": []any{map[string]any{"name": "a"}}})
	require.NoError(t, err)

	or, ok := p.(*predicate.Or)
	require.True(t, ok)
	assert.Len(t, or.Children(), 1)
}

func TestConstruct_Precedence(t *testing.T) {
	b, _ := newBuilder(map[string]any{"a": true, "b": true})

	// name wins over every operator key
	p, err := b.Construct(map[string]any{
		"name": "a",
		"and":  []any{map[string]any{"name": "b"}},
	})
	require.NoError(t, err)
	assert.IsType(t, &predicate.Leaf{}, p)

	// or wins over not and and
	p, err = b.Construct(map[string]any{
		"and": []any{map[string]any{"name": "b"}},
		"not": map[string]any{"name": "b"},
		"or":  []any{map[string]any{"name": "a"}},
	})
	require.NoError(t, err)
	assert.IsType(t, &predicate.Or{}, p)

	// not wins over and
	p, err = b.Construct(map[string]any{
		"and": []any{map[string]any{"name": "b"}},
		"not": map[string]any{"name": "a"},
	})
	require.NoError(t, err)
	assert.IsType(t, &predicate.Not{}, p)
}

func TestConstruct_Malformed(t *testing.T) {
	b, _ := newBuilder(map[string]any{"x": true})

	tests := []struct {
		name string
		tree any
		msg  string
	}{
		{"and given a mapping", map[string]any{"and": map[string]any{"name": "x"}}, "nary operator expects a list of children"},
		{"or given a mapping", map[string]any{"or": map[string]any{"name": "x"}}, "nary operator expects a list of children"},
		{"and given an empty list", map[string]any{"and": []any{}}, "nary operator expects a list of children"},
		{"not given a list", map[string]any{"not": []any{map[string]any{"name": "x"}}}, "unary operator expects exactly one child"},
		{"empty mapping", map[string]any{}, "unrecognized predicate shape"},
		{"unknown key", map[string]any{"xor": []any{}}, "unrecognized predicate shape"},
		{"not a mapping", "x", "unrecognized predicate shape"},
		{"not given a scalar", map[string]any{"not": "x"}, "unrecognized predicate shape"},
		{"nested child", map[string]any{"or": []any{map[string]any{"name": "x"}, map[string]any{}}}, "unrecognized predicate shape"},
		{"name not a string", map[string]any{"name": 5}, "name must be a non-empty string"},
		{"empty name", map[string]any{"name": ""}, "name must be a non-empty string"},
		{"args not a mapping", map[string]any{"name": "x", "args": []any{1}}, "arguments must be a mapping"},
		{"args with nested mapping", map[string]any{"name": "x", "args": map[string]any{"k": map[string]any{}}}, "invalid argument"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Construct(tt.tree)
			require.Error(t, err)
			assert.True(t, predicate.IsMalformedTree(err), "expected MALFORMED_TREE, got %v", err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestConstruct_MalformedRendersTree(t *testing.T) {
	b, _ := newBuilder(nil)

	_, err := b.Construct(map[string]any{"nand": []any{"p", "q"}})
	require.Error(t, err)

	var pe *predicate.Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, predicate.ErrCodeMalformedTree, pe.Code)
	assert.Equal(t, "{\n  \"nand\": [\n    \"p\",\n    \"q\"\n  ]\n}", pe.Tree)
}

func TestConstruct_NestedErrorKeepsPath(t *testing.T) {
	b, _ := newBuilder(map[string]any{"x": true})

	_, err := b.Construct(map[string]any{
		"and": []any{
			map[string]any{"name": "x"},
			map[string]any{"not": []any{}},
		},
	})
	require.Error(t, err)
	assert.True(t, predicate.IsMalformedTree(err))
	assert.Contains(t, err.Error(), "and[1]")
}

func TestConstruct_LookupFailure(t *testing.T) {
	b, _ := newBuilder(map[string]any{"known": true})

	_, err := b.Construct(map[string]any{
		"or": []any{
			map[string]any{"name": "known"},
			map[string]any{"name": "missing"},
		},
	})
	require.Error(t, err)
	assert.True(t, predicate.IsLookupFailure(err))
	assert.False(t, predicate.IsMalformedTree(err))

	var pe *predicate.Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "missing", pe.Function)
}

func TestConstruct_LookupDoesNotEvaluate(t *testing.T) {
	b, log := newBuilder(map[string]any{"a": true})

	_, err := b.Construct(map[string]any{"name": "a"})
	require.NoError(t, err)
	assert.Empty(t, log.Names())
}

type failingResolver struct{}

func (failingResolver) Lookup(string) (predicate.Func, error) {
	return nil, assert.AnError
}

func TestConstruct_ForeignResolverErrorBecomesLookupFailure(t *testing.T) {
	b := predicate.NewBuilder(failingResolver{})

	_, err := b.Construct(map[string]any{"name": "f"})
	require.Error(t, err)
	assert.True(t, predicate.IsLookupFailure(err))
}

func TestConstruct_YAMLStyleMappings(t *testing.T) {
	b, _ := newBuilder(map[string]any{"a": true})

	tree := map[any]any{
		"not": map[any]any{
			"name": "a",
			"args": map[any]any{"keys": []any{"x", "y"}},
		},
	}

	p, err := b.Construct(tree)
	require.NoError(t, err)
	assert.Equal(t, "(not a(keys=['x', 'y']))", predicate.Format(p))
}

func TestConstruct_NullArgsMeansNone(t *testing.T) {
	b, _ := newBuilder(map[string]any{"a": true})

	p, err := b.Construct(map[string]any{"name": "a", "args": nil})
	require.NoError(t, err)
	assert.Equal(t, "a()", predicate.Format(p))
}

func TestConstruct_DeepNesting(t *testing.T) {
	b, _ := newBuilder(map[string]any{"a": true})

	var tree any = map[string]any{"name": "a"}
	for i := 0; i < 1000; i++ {
		tree = map[string]any{"not": tree}
	}

	p, err := b.Construct(tree)
	require.NoError(t, err)

	got, err := predicate.Evaluate(p, testutil.Message{})
	require.NoError(t, err)
	// An even number of negations leaves the leaf result unchanged.
	assert.True(t, got)
	assert.Len(t, predicate.Used(p), 1)
}
