package rules

import (
	"github.com/rbrovko/SwiftLint/internal/diag"
	"github.com/rbrovko/SwiftLint/internal/fix"
	"github.com/rbrovko/SwiftLint/internal/match"
	"github.com/rbrovko/SwiftLint/internal/rule"
	"github.com/rbrovko/SwiftLint/internal/source"
)

// VoidReturn reports `-> ()` return types and rewrites them to `-> Void`.
// A `()` that is itself followed by an arrow is a parameter list of a
// curried function type and is left alone.
type VoidReturn struct {
	rule.Textual
}

const voidReplacement = "Void"

var emptyTupleReturn = match.MustCompile(`->\s*(\(\s*\))`, `\s*->`, 1)

func (VoidReturn) Description() rule.Description {
	return rule.Description{
		ID:          "void_return",
		Name:        "Void Return",
		Summary:     "Prefer `-> Void` over `-> ()`",
		Kind:        rule.KindTextual,
		Severity:    diag.SevWarning,
		Correctable: true,
		NonTriggering: []string{
			"let abc: () -> Void = {}\n",
			"let abc: () -> (VoidVoid) = {}\n",
			"func foo(completion: () -> Void)\n",
			"let foo: (ConfigurationTests) -> () -> Void\n",
			"let foo: (ConfigurationTests) ->   () -> Void\n",
			"let foo: (ConfigurationTests) ->() -> Void\n",
			"// let abc: () -> () = {}\n",
			"let s = \"() -> ()\"\n",
		},
		Triggering: []string{
			"let abc: () -> ↓() = {}\n",
			"func foo(completion: () -> ↓())\n",
			"func foo(completion: () -> ↓(   ))\n",
			"let a: () -> ↓(), b: () -> ↓()\n",
		},
		Corrections: []rule.CorrectionExample{
			{Before: "let abc: () -> ↓() = {}\n", After: "let abc: () -> Void = {}\n"},
			{Before: "func foo(completion: () -> ↓())\n", After: "func foo(completion: () -> Void)\n"},
			{Before: "func foo(completion: () -> ↓(   ))\n", After: "func foo(completion: () -> Void)\n"},
			{Before: "let a: () -> ↓(), b: () -> ↓()\n", After: "let a: () -> Void, b: () -> Void\n"},
		},
	}
}

// Validate reports every unmasked `-> ()` at the start of the parentheses.
func (r VoidReturn) Validate(ctx *rule.Context) []diag.Diagnostic {
	d := r.Description()
	spans := emptyTupleReturn.FindAll(ctx.File, ctx.NonCode)
	out := make([]diag.Diagnostic, 0, len(spans))
	for _, sp := range spans {
		v := ctx.Violation(d, sp, "")
		v.Fixes = append(v.Fixes, fix.ReplaceSpan("Use Void", sp, voidReplacement, ctx.File.Text(sp)))
		out = append(out, v)
	}
	return out
}

// Replacement returns the canonical spelling of an empty return type.
func (VoidReturn) Replacement(*rule.Context, source.Span) string {
	return voidReplacement
}
