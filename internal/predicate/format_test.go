package predicate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fridex/nodenator/internal/ir"
	"github.com/fridex/nodenator/internal/predicate"
	"github.com/fridex/nodenator/internal/testutil"
)

func TestFormat(t *testing.T) {
	b := predicate.NewBuilder(testutil.Registry(testutil.NewCallLog(), map[string]any{
		"isHigh": true, "isError": false, "a": true, "b": true,
	}))

	tests := []struct {
		name string
		tree map[string]any
		want string
	}{
		{
			name: "example tree",
			tree: map[string]any{"and": []any{
				map[string]any{"name": "isHigh", "args": map[string]any{"value": 100, "key": "temp"}},
				map[string]any{"not": map[string]any{"name": "isError"}},
			}},
			want: "(isHigh(key='temp', value=100) and (not isError()))",
		},
		{
			name: "single child has no parentheses",
			tree: map[string]any{"or": []any{map[string]any{"name": "a"}}},
			want: "a()",
		},
		{
			name: "or of three",
			tree: map[string]any{"or": []any{
				map[string]any{"name": "a"},
				map[string]any{"name": "b"},
				map[string]any{"name": "a"},
			}},
			want: "(a() or b() or a())",
		},
		{
			name: "literal kinds",
			tree: map[string]any{"name": "a", "args": map[string]any{
				"s": "it's",
				"f": 1.5,
				"w": 2.0,
				"t": true,
				"l": []any{1, "x", false},
			}},
			want: "a(f=1.5, l=[1, 'x', false], s='it\\'s', t=true, w=2.0)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := b.Construct(tt.tree)
			require.NoError(t, err)
			assert.Equal(t, tt.want, predicate.Format(p))
			assert.Equal(t, tt.want, p.String())
		})
	}
}

func TestFormat_Deterministic(t *testing.T) {
	args := ir.NewObject(
		ir.O("zeta", ir.Int(1)),
		ir.O("alpha", ir.Int(2)),
		ir.O("mid", ir.Int(3)),
	)
	l, err := predicate.NewLeaf("f", testutil.Forbidden("f"), args)
	require.NoError(t, err)

	first := predicate.Format(l)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, predicate.Format(l))
	}
	assert.Equal(t, "f(alpha=2, mid=3, zeta=1)", first)
}

func TestFormatLiteral_Escapes(t *testing.T) {
	assert.Equal(t, `'a\\b'`, predicate.FormatLiteral(ir.String(`a\b`)))
	assert.Equal(t, `'line\nnext'`, predicate.FormatLiteral(ir.String("line\nnext")))
	assert.Equal(t, "[]", predicate.FormatLiteral(ir.List{}))
	assert.Equal(t, "-3", predicate.FormatLiteral(ir.Int(-3)))
}
