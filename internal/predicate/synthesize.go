package predicate

import (
	"github.com/fridex/nodenator/internal/expr"
)

// DefaultMessageIdentifier is the name the synthesized code uses for the
// message parameter passed to every leaf call.
const DefaultMessageIdentifier = "message"

// Used returns the function identifiers of every leaf in p, in child
// order. Duplicates are kept: the length always equals the number of
// leaves in the tree.
func Used(p Predicate) []string {
	switch pred := p.(type) {
	case *Leaf:
		return []string{pred.function}
	case *And:
		return usedChildren(pred.children)
	case *Or:
		return usedChildren(pred.children)
	case *Not:
		return Used(pred.child)
	default:
		return nil
	}
}

func usedChildren(children []Predicate) []string {
	var names []string
	for _, child := range children {
		names = append(names, Used(child)...)
	}
	return names
}

// Synthesize returns an expression tree equivalent to p, using
// DefaultMessageIdentifier for the message parameter.
func Synthesize(p Predicate) expr.Expr {
	return SynthesizeWith(p, DefaultMessageIdentifier)
}

// SynthesizeWith returns an expression tree equivalent to p whose leaf
// calls pass the identifier message as their positional argument.
//
// Operand order is preserved so that executing the rendered expression
// in a short-circuiting target language invokes leaves in the same order
// as Evaluate.
func SynthesizeWith(p Predicate, message string) expr.Expr {
	switch pred := p.(type) {
	case *Leaf:
		keys := pred.args.SortedKeys()
		kws := make([]expr.Keyword, len(keys))
		for i, k := range keys {
			kws[i] = expr.Keyword{Name: k, Value: expr.Lit(pred.args[k])}
		}
		return expr.Call{
			Callee:   expr.Ident(pred.function),
			Message:  expr.Ident(message),
			Keywords: kws,
		}
	case *And:
		return expr.BooleanAnd{Operands: synthesizeChildren(pred.children, message)}
	case *Or:
		return expr.BooleanOr{Operands: synthesizeChildren(pred.children, message)}
	case *Not:
		return expr.UnaryNot{Operand: SynthesizeWith(pred.child, message)}
	default:
		return nil
	}
}

func synthesizeChildren(children []Predicate, message string) []expr.Expr {
	out := make([]expr.Expr, len(children))
	for i, child := range children {
		out[i] = SynthesizeWith(child, message)
	}
	return out
}
