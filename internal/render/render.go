// Package render prints synthesized expression trees as source text of
// a target language.
//
// Every renderer switches over the complete set of expr node types.
// Operand order is kept exactly, so the short-circuit order of the
// printed code matches direct predicate evaluation. N-ary operators are
// parenthesized only with two or more operands, mirroring the canonical
// predicate string form.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fridex/nodenator/internal/expr"
)

// Target names accepted by For.
const (
	TargetPython     = "python"
	TargetJavaScript = "javascript"
)

// Renderer prints expression trees in one target language.
type Renderer interface {
	// Expr renders a single expression.
	Expr(e expr.Expr) (string, error)

	// Stmts renders statements, one per line, with a trailing newline.
	Stmts(stmts []expr.Stmt) (string, error)

	// Imports renders import declarations grouped per module, with a
	// trailing newline, or "" when imps is empty.
	Imports(imps []expr.Import) string

	// CheckIdentifier reports whether name can be printed as a bare
	// identifier: identifier-shaped and not a reserved word.
	CheckIdentifier(name string) error
}

// For returns the renderer for target.
func For(target string) (Renderer, error) {
	switch strings.ToLower(target) {
	case TargetPython, "py":
		return NewPython(), nil
	case TargetJavaScript, "js":
		return NewJavaScript(), nil
	default:
		return nil, fmt.Errorf("unsupported render target %q", target)
	}
}

// Targets lists the supported target names.
func Targets() []string {
	return []string{TargetJavaScript, TargetPython}
}

// groupImports maps each module to its sorted, de-duplicated names, and
// returns the modules in sorted order.
func groupImports(imps []expr.Import) ([]string, map[string][]string) {
	byModule := make(map[string][]string)
	seen := make(map[expr.Import]bool)
	for _, imp := range imps {
		if seen[imp] {
			continue
		}
		seen[imp] = true
		byModule[imp.Module] = append(byModule[imp.Module], imp.Name)
	}

	modules := make([]string, 0, len(byModule))
	for m, names := range byModule {
		sort.Strings(names)
		modules = append(modules, m)
	}
	sort.Strings(modules)
	return modules, byModule
}

// writer accumulates indented lines.
type writer struct {
	sb     strings.Builder
	indent string
	depth  int
}

func (w *writer) line(s string) {
	for i := 0; i < w.depth; i++ {
		w.sb.WriteString(w.indent)
	}
	w.sb.WriteString(s)
	w.sb.WriteByte('\n')
}

// simple reports whether e renders as a single token or call that never
// needs parentheses under a prefix operator.
func simple(e expr.Expr) bool {
	switch node := e.(type) {
	case expr.Call, expr.Identifier, expr.Literal, expr.UnaryNot:
		return true
	case expr.BooleanAnd:
		return len(node.Operands) > 1
	case expr.BooleanOr:
		return len(node.Operands) > 1
	default:
		return false
	}
}
