package lint

import (
	"context"
	"errors"
	"fmt"

	"github.com/rbrovko/SwiftLint/internal/diag"
	"github.com/rbrovko/SwiftLint/internal/directive"
	"github.com/rbrovko/SwiftLint/internal/fix"
	"github.com/rbrovko/SwiftLint/internal/match"
	"github.com/rbrovko/SwiftLint/internal/rule"
	"github.com/rbrovko/SwiftLint/internal/source"
	"github.com/rbrovko/SwiftLint/internal/syntax"
	"github.com/rbrovko/SwiftLint/internal/trace"
)

// Input is one file snapshot with the data produced by the external parser.
type Input struct {
	File *source.File
	// Tree is the structural tree of File; nil skips structural rules.
	Tree *syntax.Node
	// Syntax is the lexical classification of File; nil falls back to
	// syntax.Classify.
	Syntax *syntax.SyntaxMap
}

// Options configures an Engine.
type Options struct {
	Configs rule.Configs
	// MaxDiagnostics caps the diagnostics kept per file (0 = unlimited).
	MaxDiagnostics int
}

// Engine runs a fixed rule set with a fixed configuration.
type Engine struct {
	rules   []rule.Rule
	configs rule.Configs
	max     int
}

// New creates an engine over the rules of reg enabled by opts.Configs.
func New(reg *rule.Registry, opts Options) *Engine {
	return &Engine{
		rules:   reg.Enabled(opts.Configs),
		configs: opts.Configs,
		max:     opts.MaxDiagnostics,
	}
}

// Rules returns the enabled rules in registration order.
func (e *Engine) Rules() []rule.Rule {
	return append([]rule.Rule(nil), e.rules...)
}

// Result is the outcome of linting one snapshot.
type Result struct {
	File        *source.File
	Diagnostics *diag.Bag
	Regions     *directive.Regions
}

// Lint evaluates every enabled rule against in and returns the unsuppressed
// violations sorted by position.
func (e *Engine) Lint(ctx context.Context, in Input) *Result {
	tracer := trace.FromContext(ctx)
	parent := trace.CurrentSpan(ctx).SpanID

	lex := newLexical(in.File, in.Syntax)
	bag := diag.NewBag(e.max)
	rep := diag.NewDedupReporter(diag.BagReporter{Bag: bag})

	for _, r := range e.rules {
		d := r.Description()
		rctx := &rule.Context{
			File:    in.File,
			Tree:    in.Tree,
			NonCode: lex.mask,
			Config:  e.configs.For(d),
		}
		span := trace.Begin(tracer, trace.ScopeRule, "rule:"+d.ID, parent)
		n := 0
		for _, v := range evaluate(r, rctx) {
			if lex.regions.Suppressed(v.Rule, v.Primary) {
				continue
			}
			rep.Report(v.Rule, v.Severity, v.Primary, v.Message, v.Fixes)
			n++
		}
		span.WithExtra("violations", fmt.Sprint(n)).End("")
	}

	bag.Sort()
	return &Result{File: in.File, Diagnostics: bag, Regions: lex.regions}
}

// evaluate dispatches on the rule variant.
func evaluate(r rule.Rule, ctx *rule.Context) []diag.Diagnostic {
	switch r := r.(type) {
	case rule.StructuralRule:
		if ctx.Tree == nil {
			return nil
		}
		var out []diag.Diagnostic
		syntax.Walk(ctx.Tree, func(n, parent *syntax.Node) bool {
			out = append(out, r.ValidateNode(ctx, n, parent)...)
			return true
		})
		return out
	case rule.TextualRule:
		return r.Validate(ctx)
	}
	return nil
}

// Correction is the outcome of correcting one file.
type Correction struct {
	// File is the final snapshot; it equals the input snapshot when nothing
	// was applied.
	File *source.File
	// Corrections are grouped per rule in evaluation order and ascending
	// within a rule. Each span refers to the snapshot the rule ran against.
	Corrections []diag.Correction
	Skipped     []fix.SkippedFix
}

// Changed reports whether any fix was applied.
func (c *Correction) Changed() bool {
	return len(c.Corrections) > 0
}

// Correct applies the fixes of every enabled correctable rule, one rule at a
// time. Each rule that changes the text produces a new snapshot in fs. The
// structural tree describes only the input snapshot and is not passed on to
// later snapshots.
func (e *Engine) Correct(ctx context.Context, fs *source.FileSet, in Input) (*Correction, error) {
	tracer := trace.FromContext(ctx)
	parent := trace.CurrentSpan(ctx).SpanID

	out := &Correction{File: in.File}
	lex := newLexical(in.File, in.Syntax)
	tree := in.Tree

	for _, r := range e.rules {
		cr, ok := r.(rule.CorrectableRule)
		if !ok {
			continue
		}
		d := r.Description()
		rctx := &rule.Context{
			File:    out.File,
			Tree:    tree,
			NonCode: lex.mask,
			Config:  e.configs.For(d),
		}
		span := trace.Begin(tracer, trace.ScopeRule, "fix:"+d.ID, parent)

		cands := candidates(cr, rctx, cr.Validate(rctx))
		kept, skipped := fix.Select(cands, lex.regions)
		out.Skipped = append(out.Skipped, skipped...)
		if len(kept) == 0 {
			span.End("nothing to fix")
			continue
		}

		res, err := fix.Rewrite(out.File.Content, kept)
		if res != nil {
			out.Skipped = append(out.Skipped, res.Skipped...)
		}
		if errors.Is(err, fix.ErrNoFixes) {
			span.End("all fixes stale")
			continue
		}
		if err != nil {
			span.End(err.Error())
			return out, fmt.Errorf("%s: %w", d.ID, err)
		}

		out.Corrections = append(out.Corrections, res.Corrections()...)
		next := fs.Get(fs.Update(out.File.ID, res.Content))
		lex = lex.rewritten(next, res.Applied)
		out.File = next
		tree = nil
		span.WithExtra("applied", fmt.Sprint(len(res.Applied))).End("")
	}
	return out, nil
}

// candidates collects the edits attached to diags. A violation without a fix
// is corrected with the rule's canonical replacement.
func candidates(r rule.CorrectableRule, ctx *rule.Context, diags []diag.Diagnostic) []fix.Candidate {
	out := fix.Candidates(diags)
	for _, d := range diags {
		if len(d.Fixes) > 0 {
			continue
		}
		out = append(out, fix.Candidate{
			Rule:    d.Rule,
			Primary: d.Primary,
			Edit: diag.TextEdit{
				Span:    d.Primary,
				NewText: r.Replacement(ctx, d.Primary),
				OldText: ctx.File.Text(d.Primary),
			},
		})
	}
	return out
}

// lexical bundles the per-snapshot data derived from the lexical map.
type lexical struct {
	syntax   *syntax.SyntaxMap
	external bool
	mask     match.Mask
	regions  *directive.Regions
}

func newLexical(f *source.File, sm *syntax.SyntaxMap) *lexical {
	external := sm != nil
	if sm == nil {
		sm = syntax.Classify(f)
	}
	return &lexical{
		syntax:   sm,
		external: external,
		mask:     match.NewMask(sm.NonCode(f.ID)),
		regions:  directive.Scan(f, sm.Comments(f.ID)),
	}
}

// rewritten derives the lexical data of next, the result of applying
// applied to the previous snapshot. An external map is carried over by
// remapping its tokens; tokens cut by an edit are dropped.
func (l *lexical) rewritten(next *source.File, applied []fix.Candidate) *lexical {
	if !l.external {
		return newLexical(next, nil)
	}
	moved := &syntax.SyntaxMap{Tokens: make([]syntax.Token, 0, len(l.syntax.Tokens))}
	for _, t := range l.syntax.Tokens {
		start, ok := fix.MapOffset(applied, t.Offset)
		if !ok {
			continue
		}
		end, ok := fix.MapOffset(applied, t.Offset+t.Length)
		if !ok || end < start {
			continue
		}
		moved.Tokens = append(moved.Tokens, syntax.Token{Offset: start, Length: end - start, Type: t.Type})
	}
	return newLexical(next, moved)
}
