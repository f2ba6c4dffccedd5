package render

import (
	"fmt"

	"github.com/fridex/nodenator/internal/expr"
)

// Python 3 keyword.kwlist. Soft keywords (match, case, type, _) stay
// usable as names.
var pythonKeywords = wordSet(
	"False", "None", "True", "and", "as", "assert", "async", "await",
	"break", "class", "continue", "def", "del", "elif", "else", "except",
	"finally", "for", "from", "global", "if", "import", "in", "is",
	"lambda", "nonlocal", "not", "or", "pass", "raise", "return", "try",
	"while", "with", "yield",
)

// ECMAScript reserved words, including the strict-mode and future
// reserved ones, plus the literals null, true and false.
var javaScriptKeywords = wordSet(
	"await", "break", "case", "catch", "class", "const", "continue",
	"debugger", "default", "delete", "do", "else", "enum", "export",
	"extends", "false", "finally", "for", "function", "if", "implements",
	"import", "in", "instanceof", "interface", "let", "new", "null",
	"package", "private", "protected", "public", "return", "static",
	"super", "switch", "this", "throw", "true", "try", "typeof", "var",
	"void", "while", "with", "yield",
)

func wordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// checkName rejects names that cannot be printed bare in target.
func checkName(target string, reserved map[string]bool, name string) error {
	if !expr.IsIdentifier(name) {
		return fmt.Errorf("%q is not a valid identifier", name)
	}
	if reserved[name] {
		return fmt.Errorf("%q is a reserved word in %s", name, target)
	}
	return nil
}
