package rules

import (
	"github.com/rbrovko/SwiftLint/internal/diag"
	"github.com/rbrovko/SwiftLint/internal/match"
	"github.com/rbrovko/SwiftLint/internal/rule"
	"github.com/rbrovko/SwiftLint/internal/source"
	"github.com/rbrovko/SwiftLint/internal/syntax"
)

// ClosureParameterPosition reports closure parameters that are not on the
// line of the closure's opening brace.
type ClosureParameterPosition struct {
	rule.Structural
}

var (
	closureParameters = syntax.Query{
		Target:      syntax.KindParameter,
		Transparent: syntax.NewKindSet(syntax.KindArgument, syntax.KindClosure),
	}
	openingBrace = match.MustCompile(`\{`, "", 0)
)

func (ClosureParameterPosition) Description() rule.Description {
	return rule.Description{
		ID:       "closure_parameter_position",
		Name:     "Closure Parameter Position",
		Summary:  "Closure parameters should be on the same line as opening brace",
		Kind:     rule.KindStructural,
		Severity: diag.SevWarning,
		NonTriggering: []string{
			"[1, 2].map { $0 + 1 }\n",
			"[1, 2].map({ $0 + 1 })\n",
			"[1, 2].map { number in\n number + 1 \n}\n",
			"[1, 2].map { number -> Int in\n number + 1 \n}\n",
			"[1, 2].map { (number: Int) -> Int in\n number + 1 \n}\n",
			"[1, 2].map { [weak self] number in\n number + 1 \n}\n",
			"[1, 2].something(closure: { number in\n number + 1 \n})\n",
			"let isEmpty = [1, 2].isEmpty()\n",
			"[1, 2].reduce(0) { sum, number in\n number + sum \n}\n",
		},
		Triggering: []string{
			"[1, 2].map {\n ↓number in\n number + 1 \n}\n",
			"[1, 2].map {\n ↓number -> Int in\n number + 1 \n}\n",
			"[1, 2].map {\n (↓number: Int) -> Int in\n number + 1 \n}\n",
			"[1, 2].map {\n [weak self] ↓number in\n number + 1 \n}\n",
			"[1, 2].map { [weak self]\n ↓number in\n number + 1 \n}\n",
			"[1, 2].map({\n ↓number in\n number + 1 \n})\n",
			"[1, 2].something(closure: {\n ↓number in\n number + 1 \n})\n",
			"[1, 2].reduce(0) {\n ↓sum, ↓number in\n number + sum \n}\n",
			"[1, 2].map {\n /* { */ ↓number in\n number + 1 \n}\n",
		},
	}
}

// ValidateNode checks the closure parameters below a call node.
func (r ClosureParameterPosition) ValidateNode(ctx *rule.Context, node, _ *syntax.Node) []diag.Diagnostic {
	if node == nil || node.Kind != syntax.KindCall || !node.HasBody() {
		return nil
	}
	nameEnd, ok := node.NameEnd()
	if !ok {
		return nil
	}

	var out []diag.Diagnostic
	for _, param := range closureParameters.Find(node) {
		span, brace, ok := r.misplaced(ctx.File, ctx.NonCode, nameEnd, param)
		if ok {
			out = append(out, ctx.Violation(r.Description(), span, "").WithNote(brace, "closure opens here"))
		}
	}
	return out
}

// misplaced returns the parameter's range and the brace it was measured
// against when that brace is on another line. Any position that does not
// resolve drops the parameter.
func (ClosureParameterPosition) misplaced(f *source.File, mask match.Mask, nameEnd uint32, param *syntax.Node) (span, brace source.Span, ok bool) {
	if param.Range == nil || param.Range.Offset < nameEnd {
		return source.Span{}, source.Span{}, false
	}
	window := source.Span{File: f.ID, Start: nameEnd, End: param.Range.Offset}
	braces := openingBrace.Find(f, mask, window)
	if len(braces) == 0 {
		return source.Span{}, source.Span{}, false
	}
	brace = braces[len(braces)-1]

	braceAt, ok := f.LineCol(brace.Start)
	if !ok {
		return source.Span{}, source.Span{}, false
	}
	paramAt, ok := f.LineCol(param.Range.Offset)
	if !ok || braceAt.Line == paramAt.Line {
		return source.Span{}, source.Span{}, false
	}
	span, ok = f.Span(param.Range.Offset, param.Range.Length)
	if !ok {
		return source.Span{}, source.Span{}, false
	}
	return span, brace, true
}
