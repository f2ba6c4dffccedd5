package expr

import (
	"fmt"
	"regexp"
	"strings"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// IsIdentifier reports whether name can be printed as a bare identifier
// by every renderer: ASCII letters, digits and underscores, not starting
// with a digit. Reserved words are checked by each renderer.
func IsIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}

// IsDottedName reports whether path is one or more identifiers joined by
// dots, the shape of an importable module path.
func IsDottedName(path string) bool {
	for _, part := range strings.Split(path, ".") {
		if !IsIdentifier(part) {
			return false
		}
	}
	return true
}

func checkIdentifier(what, name string) error {
	if name == "" {
		return fmt.Errorf("empty %s", what)
	}
	if !IsIdentifier(name) {
		return fmt.Errorf("%s %q is not a valid identifier", what, name)
	}
	return nil
}
