package graph

import (
	"github.com/fridex/nodenator/internal/expr"
	"github.com/fridex/nodenator/internal/ir"
)

// ComparisonType selects how generated code recognises a sender node.
type ComparisonType string

const (
	// CompareByName tests the sender's name for string equality.
	CompareByName ComparisonType = "name"

	// CompareByInstance tests the sender with an instance check against a
	// symbol that the generated program imports.
	CompareByInstance ComparisonType = "instance"
)

// ComparisonDescriptor is the declarative form of a comparison policy as
// it appears in graph descriptions.
type ComparisonDescriptor struct {
	Type   string `yaml:"type" json:"type"`
	Import string `yaml:"import,omitempty" json:"import,omitempty"`
}

// ComparisonPolicy is a validated comparison descriptor. The zero value
// compares by name.
type ComparisonPolicy struct {
	typ        ComparisonType
	importPath string
}

// ByName returns the default name-comparison policy.
func ByName() ComparisonPolicy {
	return ComparisonPolicy{typ: CompareByName}
}

// ByInstance returns an instance-comparison policy importing from
// importPath.
func ByInstance(importPath string) ComparisonPolicy {
	return ComparisonPolicy{typ: CompareByInstance, importPath: importPath}
}

// ParseComparison validates d for the node named node. An instance
// policy prints the node name as a symbol, so the name must be an
// identifier.
func ParseComparison(node string, d ComparisonDescriptor) (ComparisonPolicy, error) {
	switch ComparisonType(d.Type) {
	case CompareByName:
		return ByName(), nil
	case CompareByInstance:
		if d.Import == "" {
			return ComparisonPolicy{}, invalidConfiguration(node, "instance comparison requires an import path")
		}
		if !expr.IsDottedName(d.Import) {
			return ComparisonPolicy{}, invalidConfiguration(node, "instance comparison import %q is not a dotted module path", d.Import)
		}
		if !expr.IsIdentifier(node) {
			return ComparisonPolicy{}, invalidConfiguration(node, "instance comparison requires a node name usable as an identifier")
		}
		return ByInstance(d.Import), nil
	case "":
		return ComparisonPolicy{}, invalidConfiguration(node, "unsupported comparison type: type is required")
	default:
		return ComparisonPolicy{}, invalidConfiguration(node, "unsupported comparison type %q", d.Type)
	}
}

// Type returns the comparison type.
func (p ComparisonPolicy) Type() ComparisonType {
	if p.typ == "" {
		return CompareByName
	}
	return p.typ
}

// IsByName reports whether the policy compares by name.
func (p ComparisonPolicy) IsByName() bool { return p.Type() == CompareByName }

// Import returns the import path of an instance policy and false for a
// name policy.
func (p ComparisonPolicy) Import() (string, bool) {
	if p.Type() != CompareByInstance {
		return "", false
	}
	return p.importPath, true
}

// Descriptor returns the declarative form of p.
func (p ComparisonPolicy) Descriptor() ComparisonDescriptor {
	return ComparisonDescriptor{Type: string(p.Type()), Import: p.importPath}
}

// identityTest builds the expression that is true when sender refers to
// the node called name.
func (p ComparisonPolicy) identityTest(sender, name string) expr.Expr {
	if p.IsByName() {
		return expr.Equal{Left: expr.Ident(sender), Right: expr.Lit(ir.String(name))}
	}
	return expr.IsInstance{Subject: expr.Ident(sender), Type: expr.Ident(name)}
}
