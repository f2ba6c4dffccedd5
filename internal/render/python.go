package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/fridex/nodenator/internal/expr"
	"github.com/fridex/nodenator/internal/ir"
)

// Python renders Python 3 source.
type Python struct {
	// Indent is one level of block indentation.
	Indent string
}

// NewPython creates a Python renderer indenting with four spaces.
func NewPython() *Python {
	return &Python{Indent: "    "}
}

// CheckIdentifier implements Renderer.
func (p *Python) CheckIdentifier(name string) error {
	return checkName(TargetPython, pythonKeywords, name)
}

// keywordArg reports whether name can be passed as name=value. Other
// names, reserved words included, go through a ** mapping.
func (p *Python) keywordArg(name string) bool {
	return p.CheckIdentifier(name) == nil
}

// Expr implements Renderer.
func (p *Python) Expr(e expr.Expr) (string, error) {
	switch node := e.(type) {
	case expr.BooleanAnd:
		return p.nary(" and ", node.Operands, true)
	case expr.BooleanOr:
		return p.nary(" or ", node.Operands, true)
	case expr.UnaryNot:
		operand, err := p.Expr(node.Operand)
		if err != nil {
			return "", fmt.Errorf("not: %w", err)
		}
		if !simple(node.Operand) {
			operand = "(" + operand + ")"
		}
		return "(not " + operand + ")", nil
	case expr.Call:
		if err := p.CheckIdentifier(node.Callee.Name); err != nil {
			return "", fmt.Errorf("callee: %w", err)
		}
		if err := p.CheckIdentifier(node.Message.Name); err != nil {
			return "", fmt.Errorf("call %s: message: %w", node.Callee.Name, err)
		}
		args := []string{node.Message.Name}
		var extra []string
		for _, kw := range node.Keywords {
			lit, err := p.literal(kw.Value.Value)
			if err != nil {
				return "", fmt.Errorf("call %s: keyword %s: %w", node.Callee.Name, kw.Name, err)
			}
			if p.keywordArg(kw.Name) {
				args = append(args, kw.Name+"="+lit)
			} else {
				extra = append(extra, pyQuote(kw.Name)+": "+lit)
			}
		}
		if len(extra) > 0 {
			args = append(args, "**{"+strings.Join(extra, ", ")+"}")
		}
		return node.Callee.Name + "(" + strings.Join(args, ", ") + ")", nil
	case expr.Literal:
		return p.literal(node.Value)
	case expr.Identifier:
		if err := p.CheckIdentifier(node.Name); err != nil {
			return "", err
		}
		return node.Name, nil
	case expr.Equal:
		left, err := p.Expr(node.Left)
		if err != nil {
			return "", err
		}
		right, err := p.Expr(node.Right)
		if err != nil {
			return "", err
		}
		return left + " == " + right, nil
	case expr.IsInstance:
		subject, err := p.Expr(node.Subject)
		if err != nil {
			return "", err
		}
		if err := p.CheckIdentifier(node.Type.Name); err != nil {
			return "", fmt.Errorf("isinstance: %w", err)
		}
		return "isinstance(" + subject + ", " + node.Type.Name + ")", nil
	default:
		return "", fmt.Errorf("unsupported expression type: %T", e)
	}
}

func (p *Python) nary(op string, operands []expr.Expr, wrap bool) (string, error) {
	if len(operands) == 0 {
		return "", fmt.Errorf("boolean operator without operands")
	}
	parts := make([]string, len(operands))
	for i, operand := range operands {
		s, err := p.Expr(operand)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	if len(parts) == 1 || !wrap {
		return strings.Join(parts, op), nil
	}
	return "(" + strings.Join(parts, op) + ")", nil
}

// test renders the condition of an if statement. A top-level boolean
// operator needs no parentheses there.
func (p *Python) test(e expr.Expr) (string, error) {
	switch node := e.(type) {
	case expr.BooleanAnd:
		return p.nary(" and ", node.Operands, false)
	case expr.BooleanOr:
		return p.nary(" or ", node.Operands, false)
	default:
		return p.Expr(e)
	}
}

func (p *Python) literal(v ir.Value) (string, error) {
	switch val := v.(type) {
	case ir.String:
		return pyQuote(string(val)), nil
	case ir.Int:
		return strconv.FormatInt(int64(val), 10), nil
	case ir.Float:
		f := float64(val)
		switch {
		case math.IsNaN(f):
			return "float('nan')", nil
		case math.IsInf(f, 1):
			return "float('inf')", nil
		case math.IsInf(f, -1):
			return "float('-inf')", nil
		}
		return ir.FormatFloat(f), nil
	case ir.Bool:
		if val {
			return "True", nil
		}
		return "False", nil
	case ir.List:
		parts := make([]string, len(val))
		for i, elem := range val {
			s, err := p.literal(elem)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return "[" + strings.Join(parts, ", ") + "]", nil
	default:
		return "", fmt.Errorf("unsupported literal type: %T", v)
	}
}

var pyReplacer = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

func pyQuote(s string) string {
	return "'" + pyReplacer.Replace(s) + "'"
}

// Stmts implements Renderer. An else branch holding exactly one If is
// rendered as elif.
func (p *Python) Stmts(stmts []expr.Stmt) (string, error) {
	w := &writer{indent: p.Indent}
	if err := p.writeStmts(w, stmts); err != nil {
		return "", err
	}
	return w.sb.String(), nil
}

func (p *Python) writeStmts(w *writer, stmts []expr.Stmt) error {
	for _, st := range stmts {
		if err := p.writeStmt(w, st); err != nil {
			return err
		}
	}
	return nil
}

func (p *Python) writeStmt(w *writer, st expr.Stmt) error {
	switch node := st.(type) {
	case expr.If:
		return p.writeIf(w, node, "if")
	case expr.Return:
		v, err := p.Expr(node.Value)
		if err != nil {
			return err
		}
		w.line("return " + v)
	case expr.Pass:
		w.line("pass")
	default:
		return fmt.Errorf("unsupported statement type: %T", st)
	}
	return nil
}

func (p *Python) writeIf(w *writer, node expr.If, keyword string) error {
	test, err := p.test(node.Test)
	if err != nil {
		return err
	}
	w.line(keyword + " " + test + ":")
	if err := p.writeBlock(w, node.Body); err != nil {
		return err
	}

	if len(node.Else) == 0 {
		return nil
	}
	if len(node.Else) == 1 {
		if next, ok := node.Else[0].(expr.If); ok {
			return p.writeIf(w, next, "elif")
		}
	}
	w.line("else:")
	return p.writeBlock(w, node.Else)
}

func (p *Python) writeBlock(w *writer, body []expr.Stmt) error {
	w.depth++
	defer func() { w.depth-- }()
	if len(body) == 0 {
		w.line("pass")
		return nil
	}
	return p.writeStmts(w, body)
}

// Imports implements Renderer.
func (p *Python) Imports(imps []expr.Import) string {
	modules, byModule := groupImports(imps)
	var sb strings.Builder
	for _, m := range modules {
		fmt.Fprintf(&sb, "from %s import %s\n", m, strings.Join(byModule[m], ", "))
	}
	return sb.String()
}
