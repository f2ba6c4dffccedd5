package predicate

import (
	"strconv"
	"strings"

	"github.com/fridex/nodenator/internal/ir"
)

// Format returns the canonical string form of p.
//
//	leaf:  fn(k1=v1, k2=v2)        arguments in sorted key order
//	and:   (a and b)               parentheses only with two or more children
//	or:    (a or b)
//	not:   (not a)
//
// The output is deterministic: formatting the same tree twice always
// yields the same string.
func Format(p Predicate) string {
	var sb strings.Builder
	writePredicate(&sb, p)
	return sb.String()
}

func writePredicate(sb *strings.Builder, p Predicate) {
	switch pred := p.(type) {
	case *Leaf:
		sb.WriteString(pred.function)
		sb.WriteByte('(')
		for i, k := range pred.args.SortedKeys() {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(k)
			sb.WriteByte('=')
			sb.WriteString(FormatLiteral(pred.args[k]))
		}
		sb.WriteByte(')')
	case *And:
		writeNary(sb, " and ", pred.children)
	case *Or:
		writeNary(sb, " or ", pred.children)
	case *Not:
		sb.WriteString("(not ")
		writePredicate(sb, pred.child)
		sb.WriteByte(')')
	default:
		sb.WriteString("<invalid>")
	}
}

func writeNary(sb *strings.Builder, op string, children []Predicate) {
	wrap := len(children) > 1
	if wrap {
		sb.WriteByte('(')
	}
	for i, child := range children {
		if i > 0 {
			sb.WriteString(op)
		}
		writePredicate(sb, child)
	}
	if wrap {
		sb.WriteByte(')')
	}
}

// FormatLiteral renders a literal the way it appears in the canonical
// string form: strings single-quoted, lists bracketed, everything else
// in its natural textual form.
func FormatLiteral(v ir.Value) string {
	switch val := v.(type) {
	case ir.String:
		return quoteSingle(string(val))
	case ir.Int:
		return strconv.FormatInt(int64(val), 10)
	case ir.Float:
		return ir.FormatFloat(float64(val))
	case ir.Bool:
		return strconv.FormatBool(bool(val))
	case ir.List:
		parts := make([]string, len(val))
		for i, elem := range val {
			parts[i] = FormatLiteral(elem)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return "<invalid>"
	}
}

var singleQuoteReplacer = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

func quoteSingle(s string) string {
	return "'" + singleQuoteReplacer.Replace(s) + "'"
}
