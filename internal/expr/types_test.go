package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fridex/nodenator/internal/ir"
)

func call(name string, kws ...Keyword) Call {
	return Call{Callee: Ident(name), Message: Ident("message"), Keywords: kws}
}

func TestSealedInterfaces(t *testing.T) {
	var _ Expr = BooleanAnd{}
	var _ Expr = BooleanOr{}
	var _ Expr = UnaryNot{}
	var _ Expr = Call{}
	var _ Expr = Literal{}
	var _ Expr = Identifier{}
	var _ Expr = Equal{}
	var _ Expr = IsInstance{}

	var _ Stmt = If{}
	var _ Stmt = Return{}
	var _ Stmt = Pass{}
}

func TestCalleesKeepsOrderAndDuplicates(t *testing.T) {
	e := BooleanAnd{Operands: []Expr{
		call("a"),
		BooleanOr{Operands: []Expr{call("b"), UnaryNot{Operand: call("a")}}},
	}}

	assert.Equal(t, []string{"a", "b", "a"}, Callees(e))
}

func TestWalkStopsDescending(t *testing.T) {
	e := UnaryNot{Operand: call("hidden")}

	var seen int
	Walk(e, func(node Expr) bool {
		seen++
		_, isNot := node.(UnaryNot)
		return !isNot
	})

	assert.Equal(t, 1, seen)
}

func TestValidate(t *testing.T) {
	valid := BooleanOr{Operands: []Expr{
		call("isHigh", Keyword{Name: "key", Value: Lit(ir.String("temp"))}),
		UnaryNot{Operand: call("isError")},
		Equal{Left: Ident("node_from"), Right: Lit(ir.String("A"))},
		IsInstance{Subject: Ident("node_from"), Type: Ident("A")},
	}}
	require.NoError(t, Validate(valid))

	tests := []struct {
		name string
		expr Expr
		msg  string
	}{
		{"nil", nil, "nil expression"},
		{"empty and", BooleanAnd{}, "and: no operands"},
		{"empty or", BooleanOr{}, "or: no operands"},
		{"nested nil", BooleanAnd{Operands: []Expr{call("a"), nil}}, "and[1]"},
		{"not nil", UnaryNot{}, "not:"},
		{"empty callee", Call{Message: Ident("m")}, "empty callee"},
		{"empty message", Call{Callee: Ident("f")}, "empty message"},
		{"keyword without value", call("f", Keyword{Name: "k"}), "keyword k has no value"},
		{"empty keyword", call("f", Keyword{Value: Lit(ir.Int(1))}), "empty keyword name"},
		{"literal", Literal{}, "literal without value"},
		{"identifier", Identifier{}, "empty identifier"},
		{"isinstance type", IsInstance{Subject: Ident("x")}, "empty type"},
		{"hyphenated type", IsInstance{Subject: Ident("node_from"), Type: Ident("Dry-Pump")}, `type "Dry-Pump" is not a valid identifier`},
		{"dotted callee", call("plant.isHot"), `callee "plant.isHot" is not a valid identifier`},
		{"spaced message", Call{Callee: Ident("f"), Message: Ident("the message")}, `message identifier "the message"`},
		{"leading digit", Equal{Left: Ident("1st"), Right: Lit(ir.Int(1))}, `identifier "1st"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.expr)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestIsIdentifier(t *testing.T) {
	for _, name := range []string{"a", "_x", "fieldEqual", "node_from", "A1"} {
		assert.True(t, IsIdentifier(name), name)
	}
	for _, name := range []string{"", "1a", "Dry-Pump", "a.b", "a b", "$x", "café"} {
		assert.False(t, IsIdentifier(name), name)
	}
}

func TestIsDottedName(t *testing.T) {
	for _, path := range []string{"plant", "plant.heaters", "a._b.c1"} {
		assert.True(t, IsDottedName(path), path)
	}
	for _, path := range []string{"", ".plant", "plant.", "plant..heaters", "plant/heaters", "plant.dry-pump"} {
		assert.False(t, IsDottedName(path), path)
	}
}

func TestValidateStmts(t *testing.T) {
	ok := []Stmt{
		If{
			Test: Equal{Left: Ident("node_from"), Right: Lit(ir.String("A"))},
			Body: []Stmt{Pass{}},
			Else: []Stmt{Return{Value: Lit(ir.Bool(false))}},
		},
	}
	assert.NoError(t, ValidateStmts(ok))

	err := ValidateStmts([]Stmt{If{Test: Ident("x")}})
	assert.ErrorContains(t, err, "if[0]: empty body")

	err = ValidateStmts([]Stmt{If{Test: Ident("x"), Body: []Stmt{Pass{}}, Else: []Stmt{Return{}}}})
	assert.ErrorContains(t, err, "if[0] else: return[0]: nil expression")
}
