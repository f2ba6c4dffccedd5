package expr

import (
	"fmt"

	"github.com/fridex/nodenator/internal/ir"
)

// Expr is an expression node.
//
// This is a sealed interface - only types in this package implement it.
type Expr interface {
	exprNode() // Marker method - seals interface to this package
}

// Stmt is a statement node used by dispatch synthesis.
//
// This is a sealed interface - only types in this package implement it.
type Stmt interface {
	stmtNode() // Marker method - seals interface to this package
}

// BooleanAnd evaluates operands left to right and stops at the first
// false one.
type BooleanAnd struct {
	Operands []Expr
}

func (BooleanAnd) exprNode() {}

// BooleanOr evaluates operands left to right and stops at the first
// true one.
type BooleanOr struct {
	Operands []Expr
}

func (BooleanOr) exprNode() {}

// UnaryNot negates its operand.
type UnaryNot struct {
	Operand Expr
}

func (UnaryNot) exprNode() {}

// Keyword is a named literal argument of a Call.
type Keyword struct {
	Name  string
	Value Literal
}

// Call invokes a leaf predicate: Callee(Message, Keywords...).
//
// Keywords are kept in canonical (sorted) order by the synthesizer;
// renderers emit them in slice order.
type Call struct {
	Callee   Identifier
	Message  Identifier
	Keywords []Keyword
}

func (Call) exprNode() {}

// Literal wraps a literal value.
type Literal struct {
	Value ir.Value
}

func (Literal) exprNode() {}

// Identifier is a bare name in the target program.
type Identifier struct {
	Name string
}

func (Identifier) exprNode() {}

// Equal tests Left and Right for equality.
type Equal struct {
	Left  Expr
	Right Expr
}

func (Equal) exprNode() {}

// IsInstance tests whether Subject is an instance of Type.
type IsInstance struct {
	Subject Expr
	Type    Identifier
}

func (IsInstance) exprNode() {}

// If runs Body when Test holds and Else otherwise. An empty Else means
// no else branch.
type If struct {
	Test Expr
	Body []Stmt
	Else []Stmt
}

func (If) stmtNode() {}

// Return returns Value from the enclosing function.
type Return struct {
	Value Expr
}

func (Return) stmtNode() {}

// Pass is an empty statement.
type Pass struct{}

func (Pass) stmtNode() {}

// Import names a symbol the generated program must import: Name from
// Module.
type Import struct {
	Module string
	Name   string
}

// Ident creates an Identifier.
func Ident(name string) Identifier {
	return Identifier{Name: name}
}

// Lit creates a Literal.
func Lit(v ir.Value) Literal {
	return Literal{Value: v}
}

// Walk visits e and every expression below it in depth-first, left to
// right order. Visiting stops early when fn returns false.
func Walk(e Expr, fn func(Expr) bool) {
	if e == nil || !fn(e) {
		return
	}

	switch node := e.(type) {
	case BooleanAnd:
		for _, op := range node.Operands {
			Walk(op, fn)
		}
	case BooleanOr:
		for _, op := range node.Operands {
			Walk(op, fn)
		}
	case UnaryNot:
		Walk(node.Operand, fn)
	case Call:
		Walk(node.Callee, fn)
		Walk(node.Message, fn)
		for _, kw := range node.Keywords {
			Walk(kw.Value, fn)
		}
	case Equal:
		Walk(node.Left, fn)
		Walk(node.Right, fn)
	case IsInstance:
		Walk(node.Subject, fn)
		Walk(node.Type, fn)
	}
}

// Callees returns the callee names of every Call in e, in visiting order,
// with duplicates kept.
func Callees(e Expr) []string {
	var names []string
	Walk(e, func(node Expr) bool {
		if call, ok := node.(Call); ok {
			names = append(names, call.Callee.Name)
		}
		return true
	})
	return names
}

// Validate checks structural rules renderers rely on: n-ary operators
// have at least one operand, no operand is nil and every name printed
// bare (callees, the message argument, identifiers, instance types)
// is identifier-shaped.
func Validate(e Expr) error {
	if e == nil {
		return fmt.Errorf("nil expression")
	}

	switch node := e.(type) {
	case BooleanAnd:
		return validateOperands("and", node.Operands)
	case BooleanOr:
		return validateOperands("or", node.Operands)
	case UnaryNot:
		if err := Validate(node.Operand); err != nil {
			return fmt.Errorf("not: %w", err)
		}
	case Call:
		if err := checkIdentifier("callee", node.Callee.Name); err != nil {
			return fmt.Errorf("call: %w", err)
		}
		if err := checkIdentifier("message identifier", node.Message.Name); err != nil {
			return fmt.Errorf("call %s: %w", node.Callee.Name, err)
		}
		for _, kw := range node.Keywords {
			if kw.Name == "" {
				return fmt.Errorf("call %s: empty keyword name", node.Callee.Name)
			}
			if kw.Value.Value == nil {
				return fmt.Errorf("call %s: keyword %s has no value", node.Callee.Name, kw.Name)
			}
		}
	case Literal:
		if node.Value == nil {
			return fmt.Errorf("literal without value")
		}
	case Identifier:
		if err := checkIdentifier("identifier", node.Name); err != nil {
			return err
		}
	case Equal:
		if err := Validate(node.Left); err != nil {
			return fmt.Errorf("equal left: %w", err)
		}
		if err := Validate(node.Right); err != nil {
			return fmt.Errorf("equal right: %w", err)
		}
	case IsInstance:
		if err := Validate(node.Subject); err != nil {
			return fmt.Errorf("isinstance subject: %w", err)
		}
		if err := checkIdentifier("type", node.Type.Name); err != nil {
			return fmt.Errorf("isinstance: %w", err)
		}
	default:
		return fmt.Errorf("unknown expression type: %T", e)
	}
	return nil
}

func validateOperands(op string, operands []Expr) error {
	if len(operands) == 0 {
		return fmt.Errorf("%s: no operands", op)
	}
	for i, operand := range operands {
		if err := Validate(operand); err != nil {
			return fmt.Errorf("%s[%d]: %w", op, i, err)
		}
	}
	return nil
}

// ValidateStmts checks every statement and the expressions inside them.
func ValidateStmts(stmts []Stmt) error {
	for i, st := range stmts {
		switch node := st.(type) {
		case If:
			if err := Validate(node.Test); err != nil {
				return fmt.Errorf("if[%d] test: %w", i, err)
			}
			if len(node.Body) == 0 {
				return fmt.Errorf("if[%d]: empty body", i)
			}
			if err := ValidateStmts(node.Body); err != nil {
				return fmt.Errorf("if[%d] body: %w", i, err)
			}
			if err := ValidateStmts(node.Else); err != nil {
				return fmt.Errorf("if[%d] else: %w", i, err)
			}
		case Return:
			if err := Validate(node.Value); err != nil {
				return fmt.Errorf("return[%d]: %w", i, err)
			}
		case Pass:
		default:
			return fmt.Errorf("unknown statement type: %T", st)
		}
	}
	return nil
}
