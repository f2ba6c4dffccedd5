package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueSealed(t *testing.T) {
	var _ Value = String("test")
	var _ Value = Int(42)
	var _ Value = Float(1.5)
	var _ Value = Bool(true)
	var _ Value = List{String("a"), Int(1)}
}

func TestObjectSortedKeys(t *testing.T) {
	obj := Object{
		"zebra":  String("z"),
		"apple":  String("a"),
		"banana": String("b"),
	}

	assert.Equal(t, []string{"apple", "banana", "zebra"}, obj.SortedKeys())
}

func TestObjectSortedKeysRFC8785Order(t *testing.T) {
	obj := Object{
		"a":  Int(1),
		"A":  Int(2),
		"aa": Int(3),
		"aA": Int(4),
		"Aa": Int(5),
		"AA": Int(6),
	}

	// 'A' = 65, 'a' = 97
	assert.Equal(t, []string{"A", "AA", "Aa", "a", "aA", "aa"}, obj.SortedKeys())
}

func TestObjectSortedKeysSupplementaryPlane(t *testing.T) {
	// U+1F600 encodes as surrogates 0xD83D 0xDE00 in UTF-16, which sorts
	// before U+FF5E (0xFF5E). UTF-8 byte order would put it after.
	obj := Object{
		"\U0001F600": Int(1),
		"\uFF5E":     Int(2),
	}

	assert.Equal(t, []string{"\U0001F600", "\uFF5E"}, obj.SortedKeys())
}

func TestFromAny(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  Value
	}{
		{"string", "temp", String("temp")},
		{"bool", true, Bool(true)},
		{"int", 100, Int(100)},
		{"int64", int64(-7), Int(-7)},
		{"uint8", uint8(3), Int(3)},
		{"float64", 2.5, Float(2.5)},
		{"json int", json.Number("12"), Int(12)},
		{"json float", json.Number("1.25"), Float(1.25)},
		{"list", []any{"a", 1, false}, List{String("a"), Int(1), Bool(false)}},
		{"nested list", []any{[]any{"x"}}, List{List{String("x")}}},
		{"string slice", []string{"a", "b"}, List{String("a"), String("b")}},
		{"already literal", Int(9), Int(9)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromAny(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromAnyRejects(t *testing.T) {
	tests := []struct {
		name  string
		input any
	}{
		{"nil", nil},
		{"map", map[string]any{"a": 1}},
		{"map in list", []any{map[string]any{"a": 1}}},
		{"struct", struct{}{}},
		{"uint64 overflow", uint64(1 << 63)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromAny(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestObjectFromMap(t *testing.T) {
	obj, err := ObjectFromMap(map[string]any{"key": "temp", "value": 100})
	require.NoError(t, err)
	assert.Equal(t, NewObject(O("key", String("temp")), O("value", Int(100))), obj)

	empty, err := ObjectFromMap(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = ObjectFromMap(map[string]any{"bad": nil})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"bad"`)
}

func TestToAny(t *testing.T) {
	assert.Equal(t, "s", ToAny(String("s")))
	assert.Equal(t, int64(3), ToAny(Int(3)))
	assert.Equal(t, 0.5, ToAny(Float(0.5)))
	assert.Equal(t, true, ToAny(Bool(true)))
	assert.Equal(t, []any{"a", int64(1)}, ToAny(List{String("a"), Int(1)}))
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "1.5", FormatFloat(1.5))
	assert.Equal(t, "100.0", FormatFloat(100))
	assert.Equal(t, "1e+21", FormatFloat(1e21))
	assert.Equal(t, "-0.25", FormatFloat(-0.25))
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(Int(1), Float(1)))
	assert.True(t, Equal(Float(2), Int(2)))
	assert.True(t, Equal(String("a"), String("a")))
	assert.True(t, Equal(List{Int(1), String("x")}, List{Float(1), String("x")}))

	assert.False(t, Equal(String("1"), Int(1)))
	assert.False(t, Equal(Bool(true), Int(1)))
	assert.False(t, Equal(List{Int(1)}, List{Int(1), Int(2)}))
	assert.False(t, Equal(nil, Int(1)))
}
