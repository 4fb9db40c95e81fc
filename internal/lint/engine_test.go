package lint

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbrovko/SwiftLint/internal/diag"
	"github.com/rbrovko/SwiftLint/internal/fix"
	"github.com/rbrovko/SwiftLint/internal/match"
	"github.com/rbrovko/SwiftLint/internal/rule"
	"github.com/rbrovko/SwiftLint/internal/source"
	"github.com/rbrovko/SwiftLint/internal/syntax"
	"github.com/rbrovko/SwiftLint/internal/trace"
)

// unitRule reports every unmasked "()" and rewrites it to "Void".
type unitRule struct {
	rule.Textual
	withFix bool
}

var unitPattern = match.MustCompile(`\(\)`, "", 0)

func (unitRule) Description() rule.Description {
	return rule.Description{
		ID:          "unit",
		Summary:     "unit literal",
		Kind:        rule.KindTextual,
		Severity:    diag.SevWarning,
		Correctable: true,
	}
}

func (r unitRule) Validate(ctx *rule.Context) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, sp := range unitPattern.FindAll(ctx.File, ctx.NonCode) {
		d := ctx.Violation(r.Description(), sp, "")
		if r.withFix {
			d.Fixes = append(d.Fixes, fix.ReplaceSpan("Void", sp, "Void", "()"))
		}
		out = append(out, d)
	}
	return out
}

func (unitRule) Replacement(*rule.Context, source.Span) string { return "Void" }

// callRule reports every call node at its name.
type callRule struct {
	rule.Structural
}

func (callRule) Description() rule.Description {
	return rule.Description{ID: "call", Summary: "call", Kind: rule.KindStructural, Severity: diag.SevError}
}

func (r callRule) ValidateNode(ctx *rule.Context, n, parent *syntax.Node) []diag.Diagnostic {
	if n.Kind != syntax.KindCall || n.Name == nil || parent == nil {
		return nil
	}
	return []diag.Diagnostic{ctx.Violation(r.Description(), n.Name.Span(ctx.File.ID), "")}
}

func newEngine(t *testing.T, opts Options, rules ...rule.Rule) *Engine {
	t.Helper()
	reg, err := rule.NewRegistry(rules...)
	require.NoError(t, err)
	return New(reg, opts)
}

func load(text string) (*source.FileSet, *source.File) {
	fs := source.NewFileSet()
	return fs, fs.Get(fs.AddVirtual("a.swift", []byte(text)))
}

func offsets(b *diag.Bag) []uint32 {
	var out []uint32
	for _, d := range b.Items() {
		out = append(out, d.Primary.Start)
	}
	return out
}

func TestLintDispatchesVariants(t *testing.T) {
	eng := newEngine(t, Options{}, unitRule{}, callRule{})
	_, f := load("run(())\n")
	tree := &syntax.Node{
		Kind:  syntax.KindFile,
		Range: &syntax.Extent{Offset: 0, Length: f.Len()},
		Children: []*syntax.Node{{
			Kind:  syntax.KindCall,
			Range: &syntax.Extent{Offset: 0, Length: 7},
			Name:  &syntax.Extent{Offset: 0, Length: 3},
		}},
	}

	res := eng.Lint(context.Background(), Input{File: f, Tree: tree})
	items := res.Diagnostics.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "call", items[0].Rule)
	assert.Equal(t, diag.SevError, items[0].Severity)
	assert.Equal(t, "unit", items[1].Rule)
	assert.Equal(t, uint32(4), items[1].Primary.Start)

	// without a tree structural rules are skipped
	res = eng.Lint(context.Background(), Input{File: f})
	assert.Equal(t, []uint32{4}, offsets(res.Diagnostics))
}

func TestLintConfiguration(t *testing.T) {
	off := false
	sev := diag.SevError
	eng := newEngine(t, Options{Configs: rule.Configs{
		"call": {Enabled: &off},
		"unit": {Severity: &sev},
	}}, unitRule{}, callRule{})
	require.Len(t, eng.Rules(), 1)

	_, f := load("a()\n")
	res := eng.Lint(context.Background(), Input{File: f})
	require.Equal(t, 1, res.Diagnostics.Len())
	assert.True(t, res.Diagnostics.HasErrors())
}

func TestLintMaxDiagnostics(t *testing.T) {
	eng := newEngine(t, Options{MaxDiagnostics: 2}, unitRule{})
	_, f := load("() () () ()\n")
	res := eng.Lint(context.Background(), Input{File: f})
	assert.Equal(t, 2, res.Diagnostics.Len())
}

func TestLintDirectives(t *testing.T) {
	eng := newEngine(t, Options{}, unitRule{})
	text := "a()\n" +
		"// swiftlint:disable unit\n" +
		"b()\n" +
		"// swiftlint:enable unit\n" +
		"c() // swiftlint:disable:this unit\n" +
		"// swiftlint:disable:next unit\n" +
		"d()\n" +
		"e()\n"
	_, f := load(text)
	res := eng.Lint(context.Background(), Input{File: f})

	var lines []uint32
	for _, d := range res.Diagnostics.Items() {
		pos, ok := f.LineCol(d.Primary.Start)
		require.True(t, ok)
		lines = append(lines, pos.Line)
	}
	assert.Equal(t, []uint32{1, 8}, lines)
	assert.NotNil(t, res.Regions)
}

func TestLintExternalSyntaxMap(t *testing.T) {
	eng := newEngine(t, Options{}, unitRule{})
	_, f := load("x() y()\n")
	sm := &syntax.SyntaxMap{Tokens: []syntax.Token{{Offset: 4, Length: 3, Type: "source.lang.swift.syntaxtype.string"}}}
	res := eng.Lint(context.Background(), Input{File: f, Syntax: sm})
	assert.Equal(t, []uint32{1}, offsets(res.Diagnostics))
}

func TestLintTracesRules(t *testing.T) {
	ring := trace.NewRingTracer(16, trace.LevelDebug)
	ctx := trace.WithTracer(context.Background(), ring)
	eng := newEngine(t, Options{}, unitRule{})
	_, f := load("()\n")
	eng.Lint(ctx, Input{File: f})

	events := ring.Snapshot()
	require.Len(t, events, 2)
	assert.Equal(t, "rule:unit", events[0].Name)
	assert.Equal(t, "1", events[1].Extra["violations"])
}

func TestCorrectUsesAttachedFixes(t *testing.T) {
	eng := newEngine(t, Options{}, unitRule{withFix: true}, callRule{})
	fs, f := load("a() // ()\nb()\n")

	res, err := eng.Correct(context.Background(), fs, Input{File: f})
	require.NoError(t, err)
	assert.Equal(t, "aVoid // ()\nbVoid\n", string(res.File.Content))
	assert.True(t, res.Changed())
	require.Len(t, res.Corrections, 2)
	assert.Equal(t, uint32(1), res.Corrections[0].Primary.Start)
	assert.Equal(t, uint32(11), res.Corrections[1].Primary.Start)

	// the input snapshot is untouched and the new one is the latest version
	assert.Equal(t, "a() // ()\nb()\n", string(fs.Get(f.ID).Content))
	latest, ok := fs.GetLatest("a.swift")
	require.True(t, ok)
	assert.Equal(t, res.File.ID, latest)
}

func TestCorrectFallsBackToReplacement(t *testing.T) {
	eng := newEngine(t, Options{}, unitRule{})
	fs, f := load("x()\n")
	res, err := eng.Correct(context.Background(), fs, Input{File: f})
	require.NoError(t, err)
	assert.Equal(t, "xVoid\n", string(res.File.Content))
}

func TestCorrectRespectsDirectives(t *testing.T) {
	eng := newEngine(t, Options{}, unitRule{withFix: true})
	fs, f := load("a() // swiftlint:disable:this unit\nb()\n")
	res, err := eng.Correct(context.Background(), fs, Input{File: f})
	require.NoError(t, err)
	assert.Equal(t, "a() // swiftlint:disable:this unit\nbVoid\n", string(res.File.Content))
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "disabled by directive", res.Skipped[0].Reason)
}

func TestCorrectNothingToDo(t *testing.T) {
	eng := newEngine(t, Options{}, unitRule{withFix: true})
	fs, f := load("let x = 1\n")
	res, err := eng.Correct(context.Background(), fs, Input{File: f})
	require.NoError(t, err)
	assert.False(t, res.Changed())
	assert.Same(t, f, res.File)
	assert.Equal(t, 1, fs.Len())
}

// secondUnit runs after unitRule and must see the rewritten snapshot with a
// remapped lexical map.
type secondUnit struct {
	rule.Textual
	seen *[]string
}

func (secondUnit) Description() rule.Description {
	return rule.Description{ID: "second", Summary: "second", Kind: rule.KindTextual, Correctable: true}
}

func (r secondUnit) Validate(ctx *rule.Context) []diag.Diagnostic {
	*r.seen = append(*r.seen, string(ctx.File.Content))
	var out []diag.Diagnostic
	for _, sp := range match.MustCompile(`Void`, "", 0).FindAll(ctx.File, ctx.NonCode) {
		out = append(out, ctx.Violation(r.Description(), sp, ""))
	}
	return out
}

func (secondUnit) Replacement(*rule.Context, source.Span) string { return "V" }

func TestCorrectSerializesRules(t *testing.T) {
	var seen []string
	eng := newEngine(t, Options{}, unitRule{withFix: true}, secondUnit{seen: &seen})
	fs, f := load("a() \"Void\" b()\n")
	sm := &syntax.SyntaxMap{Tokens: []syntax.Token{{Offset: 4, Length: 6, Type: "string"}}}

	res, err := eng.Correct(context.Background(), fs, Input{File: f, Syntax: sm})
	require.NoError(t, err)
	assert.Equal(t, []string{"aVoid \"Void\" bVoid\n"}, seen)
	assert.Equal(t, "aV \"Void\" bV\n", string(res.File.Content))
	require.Len(t, res.Corrections, 4)
	assert.Equal(t, "unit", res.Corrections[0].Rule)
	assert.Equal(t, "second", res.Corrections[3].Rule)
	assert.Equal(t, 3, fs.Len())
}
