package predicate

import (
	"context"
	"fmt"
	"log/slog"
)

// Evaluate evaluates p against msg with short-circuit semantics.
//
// And stops at the first false child, Or at the first true child;
// skipped children are never invoked. A leaf that returns a non-bool
// yields a CONTRACT_VIOLATION error. A leaf that returns an error aborts
// the whole evaluation.
func Evaluate(p Predicate, msg Message) (bool, error) {
	switch pred := p.(type) {
	case *Leaf:
		return evaluateLeaf(pred, msg)
	case *And:
		slog.Debug("and", "children", len(pred.children))
		for _, child := range pred.children {
			ok, err := Evaluate(child, msg)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil
	case *Or:
		slog.Debug("or", "children", len(pred.children))
		for _, child := range pred.children {
			ok, err := Evaluate(child, msg)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	case *Not:
		slog.Debug("not")
		ok, err := Evaluate(pred.child, msg)
		if err != nil {
			return false, err
		}
		return !ok, nil
	default:
		return false, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func evaluateLeaf(l *Leaf, msg Message) (bool, error) {
	ret, err := l.fn(msg, l.args.Clone())
	if err != nil {
		return false, fmt.Errorf("%s: %w", l.function, err)
	}

	// Format walks the argument tree, so skip it unless debug is on.
	if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		slog.Debug("predicate", "call", Format(l), "result", ret)
	}

	b, ok := ret.(bool)
	if !ok {
		return false, NewContractViolationError(l.function, ret)
	}
	return b, nil
}
