// Package rule defines the rule model: descriptions, per-rule configuration,
// the evaluation context and the closed set of rule variants.
//
// A rule is either structural (it inspects nodes of the structural tree) or
// textual (it scans the masked text). Textual rules may also be correctable.
// The variant set is sealed: implementations embed Structural or Textual,
// and the engine dispatches on the variant with a type switch.
package rule

import (
	"github.com/rbrovko/SwiftLint/internal/diag"
	"github.com/rbrovko/SwiftLint/internal/source"
	"github.com/rbrovko/SwiftLint/internal/syntax"
)

// Kind names a rule variant.
type Kind uint8

const (
	KindStructural Kind = iota
	KindTextual
)

func (k Kind) String() string {
	switch k {
	case KindStructural:
		return "structural"
	case KindTextual:
		return "textual"
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Rule is implemented by every rule. The unexported method restricts the
// implementations to the variants below.
type Rule interface {
	Description() Description
	variant() Kind
}

// Structural is embedded by rules that inspect the structural tree.
type Structural struct{}

func (Structural) variant() Kind { return KindStructural }

// Textual is embedded by rules that scan masked text.
type Textual struct{}

func (Textual) variant() Kind { return KindTextual }

// StructuralRule is called once per node of the tree. Nodes the rule does
// not care about yield nothing.
type StructuralRule interface {
	Rule
	ValidateNode(ctx *Context, node, parent *syntax.Node) []diag.Diagnostic
}

// TextualRule evaluates the whole file independently of the tree.
type TextualRule interface {
	Rule
	Validate(ctx *Context) []diag.Diagnostic
}

// CorrectableRule is a textual rule that can rewrite its own violations.
type CorrectableRule interface {
	TextualRule
	// Replacement returns the canonical text for the violation at span.
	Replacement(ctx *Context, span source.Span) string
}

// KindOf returns the variant of r.
func KindOf(r Rule) Kind {
	return r.variant()
}
