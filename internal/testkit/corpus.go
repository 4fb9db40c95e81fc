package testkit

import (
	"context"
	"slices"
	"strings"
	"testing"

	"github.com/rbrovko/SwiftLint/internal/lint"
	"github.com/rbrovko/SwiftLint/internal/match"
	"github.com/rbrovko/SwiftLint/internal/rule"
	"github.com/rbrovko/SwiftLint/internal/source"
	"github.com/rbrovko/SwiftLint/internal/syntax"
)

// TreeBuilder produces the structural tree of an example.
type TreeBuilder func(f *source.File, nonCode match.Mask) (*syntax.Node, error)

// Option adjusts Verify.
type Option func(*verifier)

// WithTrees supplies trees for structural rules.
func WithTrees(b TreeBuilder) Option {
	return func(v *verifier) { v.trees = b }
}

// WithConfigs overrides rule configuration during replay.
func WithConfigs(c rule.Configs) Option {
	return func(v *verifier) { v.configs = c }
}

type verifier struct {
	rule    rule.Rule
	trees   TreeBuilder
	configs rule.Configs
	engine  *lint.Engine
}

// Verify replays the example corpora of r:
// non-triggering examples yield no violations, triggering examples yield
// violations exactly at the markers, correction examples rewrite to the
// expected text with corrections at the markers and are stable on a second
// pass.
func Verify(t *testing.T, r rule.Rule, opts ...Option) {
	t.Helper()
	v := &verifier{rule: r}
	for _, opt := range opts {
		opt(v)
	}
	reg, err := rule.NewRegistry(r)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	v.engine = lint.New(reg, lint.Options{Configs: v.configs})

	d := r.Description()
	if rule.KindOf(r) == rule.KindStructural && v.trees == nil {
		t.Fatalf("%s: structural rule needs WithTrees", d.ID)
	}

	t.Run("non-triggering", func(t *testing.T) {
		for _, ex := range d.NonTriggering {
			if got := v.violations(t, ex); len(got) != 0 {
				t.Errorf("%q: unexpected violations at %v", ex, got)
			}
		}
	})
	t.Run("triggering", func(t *testing.T) {
		for _, ex := range d.Triggering {
			want := Markers(ex)
			if len(want) == 0 {
				t.Errorf("%q: triggering example has no marker", ex)
				continue
			}
			if got := v.violations(t, ex); !slices.Equal(got, want) {
				t.Errorf("%q: violations at %v, want %v", ex, got, want)
			}
		}
	})
	if len(d.Corrections) == 0 {
		return
	}
	t.Run("corrections", func(t *testing.T) {
		for _, ex := range d.Corrections {
			v.correction(t, ex)
		}
	})
}

// violations lints the stripped example and returns the violation offsets.
func (v *verifier) violations(t *testing.T, example string) []uint32 {
	t.Helper()
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("example.swift", []byte(Strip(example))))
	in := v.input(t, f)

	res := v.engine.Lint(context.Background(), in)
	diags := res.Diagnostics.Items()
	if err := CheckDiagnosticInvariants(f, diags); err != nil {
		t.Errorf("%q: %v", example, err)
	}
	var out []uint32
	for _, d := range diags {
		out = append(out, d.Primary.Start)
	}
	return out
}

func (v *verifier) correction(t *testing.T, ex rule.CorrectionExample) {
	t.Helper()
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("example.swift", []byte(Strip(ex.Before))))

	res, err := v.engine.Correct(context.Background(), fs, v.input(t, f))
	if err != nil {
		t.Errorf("%q: %v", ex.Before, err)
		return
	}
	if got := string(res.File.Content); got != ex.After {
		t.Errorf("%q: corrected to %q, want %q", ex.Before, got, ex.After)
	}
	var at []uint32
	for _, c := range res.Corrections {
		at = append(at, c.Primary.Start)
	}
	if want := Markers(ex.Before); !slices.Equal(at, want) {
		t.Errorf("%q: corrections at %v, want %v", ex.Before, at, want)
	}

	again, err := v.engine.Correct(context.Background(), fs, lint.Input{File: res.File})
	if err != nil {
		t.Errorf("%q: second pass: %v", ex.Before, err)
		return
	}
	if again.Changed() || string(again.File.Content) != ex.After {
		t.Errorf("%q: second pass is not stable: %q", ex.Before, again.File.Content)
	}
}

func (v *verifier) input(t *testing.T, f *source.File) lint.Input {
	t.Helper()
	in := lint.Input{File: f}
	if v.trees == nil {
		return in
	}
	sm := syntax.Classify(f)
	tree, err := v.trees(f, match.NewMask(sm.NonCode(f.ID)))
	if err != nil {
		t.Fatalf("%q: tree: %v", f.Content, err)
	}
	if err := CheckTreeInvariants(tree, f); err != nil {
		t.Fatalf("%q: tree: %v", f.Content, err)
	}
	in.Tree = tree
	in.Syntax = sm
	return in
}

// Strip removes every marker from example.
func Strip(example string) string {
	return strings.ReplaceAll(example, rule.Marker, "")
}

// Markers returns the byte offsets of the markers in the stripped example.
func Markers(example string) []uint32 {
	var out []uint32
	removed := 0
	rest := example
	for {
		i := strings.Index(rest, rule.Marker)
		if i < 0 {
			return out
		}
		pos := len(example) - len(rest) + i - removed
		out = append(out, uint32(pos))
		removed += len(rule.Marker)
		rest = rest[i+len(rule.Marker):]
	}
}
