package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/fridex/nodenator/internal/expr"
	"github.com/fridex/nodenator/internal/ir"
)

// JavaScript renders ECMAScript source. Leaf calls pass their keyword
// arguments as a single object literal after the message.
type JavaScript struct {
	// Indent is one level of block indentation.
	Indent string
}

// NewJavaScript creates a JavaScript renderer indenting with two spaces.
func NewJavaScript() *JavaScript {
	return &JavaScript{Indent: "  "}
}

// Property names outside this set are quoted.
var jsIdentifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// CheckIdentifier implements Renderer.
func (j *JavaScript) CheckIdentifier(name string) error {
	return checkName(TargetJavaScript, javaScriptKeywords, name)
}

// Expr implements Renderer.
func (j *JavaScript) Expr(e expr.Expr) (string, error) {
	switch node := e.(type) {
	case expr.BooleanAnd:
		return j.nary(" && ", node.Operands, true)
	case expr.BooleanOr:
		return j.nary(" || ", node.Operands, true)
	case expr.UnaryNot:
		operand, err := j.Expr(node.Operand)
		if err != nil {
			return "", fmt.Errorf("not: %w", err)
		}
		if !simple(node.Operand) {
			operand = "(" + operand + ")"
		}
		return "!" + operand, nil
	case expr.Call:
		if err := j.CheckIdentifier(node.Callee.Name); err != nil {
			return "", fmt.Errorf("callee: %w", err)
		}
		if err := j.CheckIdentifier(node.Message.Name); err != nil {
			return "", fmt.Errorf("call %s: message: %w", node.Callee.Name, err)
		}
		args := node.Message.Name
		if len(node.Keywords) > 0 {
			props := make([]string, len(node.Keywords))
			for i, kw := range node.Keywords {
				lit, err := j.literal(kw.Value.Value)
				if err != nil {
					return "", fmt.Errorf("call %s: keyword %s: %w", node.Callee.Name, kw.Name, err)
				}
				props[i] = j.propertyName(kw.Name) + ": " + lit
			}
			args += ", {" + strings.Join(props, ", ") + "}"
		}
		return node.Callee.Name + "(" + args + ")", nil
	case expr.Literal:
		return j.literal(node.Value)
	case expr.Identifier:
		if err := j.CheckIdentifier(node.Name); err != nil {
			return "", err
		}
		return node.Name, nil
	case expr.Equal:
		left, err := j.Expr(node.Left)
		if err != nil {
			return "", err
		}
		right, err := j.Expr(node.Right)
		if err != nil {
			return "", err
		}
		return left + " === " + right, nil
	case expr.IsInstance:
		subject, err := j.Expr(node.Subject)
		if err != nil {
			return "", err
		}
		if err := j.CheckIdentifier(node.Type.Name); err != nil {
			return "", fmt.Errorf("instanceof: %w", err)
		}
		return subject + " instanceof " + node.Type.Name, nil
	default:
		return "", fmt.Errorf("unsupported expression type: %T", e)
	}
}

func (j *JavaScript) nary(op string, operands []expr.Expr, wrap bool) (string, error) {
	if len(operands) == 0 {
		return "", fmt.Errorf("boolean operator without operands")
	}
	parts := make([]string, len(operands))
	for i, operand := range operands {
		s, err := j.Expr(operand)
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
func (j *JavaScript) test(e expr.Expr) (string, error) {
	switch node := e.(type) {
	case expr.BooleanAnd:
		return j.nary(" && ", node.Operands, false)
	case expr.BooleanOr:
		return j.nary(" || ", node.Operands, false)
	default:
		return j.Expr(e)
	}
}

func (j *JavaScript) propertyName(name string) string {
	if jsIdentifier.MatchString(name) {
		return name
	}
	return jsQuote(name)
}

func (j *JavaScript) literal(v ir.Value) (string, error) {
	switch val := v.(type) {
	case ir.String:
		return jsQuote(string(val)), nil
	case ir.Int:
		return strconv.FormatInt(int64(val), 10), nil
	case ir.Float:
		f := float64(val)
		switch {
		case math.IsNaN(f):
			return "NaN", nil
		case math.IsInf(f, 1):
			return "Infinity", nil
		case math.IsInf(f, -1):
			return "-Infinity", nil
		}
		return strconv.FormatFloat(f, 'g', -1, 64), nil
	case ir.Bool:
		return strconv.FormatBool(bool(val)), nil
	case ir.List:
		parts := make([]string, len(val))
		for i, elem := range val {
			s, err := j.literal(elem)
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

// jsQuote renders s as a double-quoted string literal. JSON string
// syntax is a subset of JavaScript's.
func jsQuote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return strconv.Quote(s)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// Stmts implements Renderer. An else branch holding exactly one If is
// rendered as else if.
func (j *JavaScript) Stmts(stmts []expr.Stmt) (string, error) {
	w := &writer{indent: j.Indent}
	if err := j.writeStmts(w, stmts); err != nil {
		return "", err
	}
	return w.sb.String(), nil
}

func (j *JavaScript) writeStmts(w *writer, stmts []expr.Stmt) error {
	for _, st := range stmts {
		switch node := st.(type) {
		case expr.If:
			if err := j.writeIf(w, node, "if ("); err != nil {
				return err
			}
			w.line("}")
		case expr.Return:
			v, err := j.Expr(node.Value)
			if err != nil {
				return err
			}
			w.line("return " + v + ";")
		case expr.Pass:
			// empty statement
		default:
			return fmt.Errorf("unsupported statement type: %T", st)
		}
	}
	return nil
}

// writeIf writes the opening of node and its branches, leaving the final
// closing brace to the caller.
func (j *JavaScript) writeIf(w *writer, node expr.If, opener string) error {
	test, err := j.test(node.Test)
	if err != nil {
		return err
	}
	w.line(opener + test + ") {")
	if err := j.writeBlock(w, node.Body); err != nil {
		return err
	}

	if len(node.Else) == 0 {
		return nil
	}
	if len(node.Else) == 1 {
		if next, ok := node.Else[0].(expr.If); ok {
			return j.writeIf(w, next, "} else if (")
		}
	}
	w.line("} else {")
	return j.writeBlock(w, node.Else)
}

func (j *JavaScript) writeBlock(w *writer, body []expr.Stmt) error {
	w.depth++
	defer func() { w.depth-- }()
	return j.writeStmts(w, body)
}

// Imports implements Renderer.
func (j *JavaScript) Imports(imps []expr.Import) string {
	modules, byModule := groupImports(imps)
	var sb strings.Builder
	for _, m := range modules {
		fmt.Fprintf(&sb, "import { %s } from %s;\n", strings.Join(byModule[m], ", "), jsQuote(m))
	}
	return sb.String()
}
