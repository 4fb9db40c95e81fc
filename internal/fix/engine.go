package fix

import (
	"errors"
	"sort"

	"github.com/rbrovko/SwiftLint/internal/diag"
	"github.com/rbrovko/SwiftLint/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// Candidate is one edit proposed by a rule. Primary is the location the
// resulting correction is reported at.
type Candidate struct {
	Rule    string
	Primary source.Span
	Edit    diag.TextEdit
}

// SkippedFix captures a candidate that was not applied and why.
type SkippedFix struct {
	Rule    string
	Primary source.Span
	Reason  string
}

// Suppressor reports ranges where a rule is disabled by an inline directive.
type Suppressor interface {
	Suppressed(rule string, span source.Span) bool
}

// Result is the outcome of Rewrite.
type Result struct {
	Content []byte
	// Applied holds the applied candidates in ascending original offset order.
	Applied []Candidate
	Skipped []SkippedFix
}

// Corrections converts the applied candidates into correction records.
func (r *Result) Corrections() []diag.Correction {
	out := make([]diag.Correction, 0, len(r.Applied))
	for _, c := range r.Applied {
		out = append(out, diag.Correction{Rule: c.Rule, Primary: c.Primary})
	}
	return out
}

// Candidates collects the edits of every fix attached to diagnostics.
func Candidates(diagnostics []diag.Diagnostic) []Candidate {
	var out []Candidate
	for _, d := range diagnostics {
		for _, e := range d.Edits() {
			out = append(out, Candidate{Rule: d.Rule, Primary: d.Primary, Edit: e})
		}
	}
	return out
}

// Select keeps the candidates that are not suppressed and that do not
// conflict with a previously kept candidate, visiting them in ascending start
// order so that the first of two conflicting edits wins. The kept candidates
// are returned in ascending order.
func Select(candidates []Candidate, suppressed Suppressor) ([]Candidate, []SkippedFix) {
	sorted := append([]Candidate(nil), candidates...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Edit.Span, sorted[j].Edit.Span
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.End < b.End
	})

	kept := make([]Candidate, 0, len(sorted))
	var skipped []SkippedFix
	for _, c := range sorted {
		if suppressed != nil && (suppressed.Suppressed(c.Rule, c.Edit.Span) || suppressed.Suppressed(c.Rule, c.Primary)) {
			skipped = append(skipped, skip(c, "disabled by directive"))
			continue
		}
		conflict := false
		for i := len(kept) - 1; i >= 0; i-- {
			if spansConflict(kept[i].Edit, c.Edit) {
				conflict = true
				break
			}
		}
		if conflict {
			skipped = append(skipped, skip(c, "overlaps another fix"))
			continue
		}
		kept = append(kept, c)
	}
	return kept, skipped
}

// Rewrite applies candidates to content and returns the rewritten copy.
// Candidates are applied in descending start order so that the original
// offsets of the remaining ones stay valid. Before each application the
// range is checked against the live buffer: out of bounds, overlapping an
// edit already applied or not matching the OldText guard means the
// candidate is stale and is skipped. content is never modified.
// ErrNoFixes is returned when nothing was applied.
func Rewrite(content []byte, candidates []Candidate) (*Result, error) {
	order := append([]Candidate(nil), candidates...)
	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i].Edit.Span, order[j].Edit.Span
		if a.Start != b.Start {
			return a.Start > b.Start
		}
		return a.End > b.End
	})

	working := append([]byte(nil), content...)
	result := &Result{}
	// lowest start applied so far; everything from here on has been rewritten
	limit := uint32(len(content))

	for _, c := range order {
		sp := c.Edit.Span
		switch {
		case sp.End < sp.Start || sp.End > uint32(len(content)):
			result.Skipped = append(result.Skipped, skip(c, "edit span out of range"))
			continue
		case sp.End > limit || (sp.Empty() && sp.Start == limit && len(result.Applied) > 0):
			result.Skipped = append(result.Skipped, skip(c, "conflicts with an applied edit"))
			continue
		case c.Edit.OldText != "" && string(working[sp.Start:sp.End]) != c.Edit.OldText:
			result.Skipped = append(result.Skipped, skip(c, "existing text does not match expected content"))
			continue
		}
		suffix := append([]byte(nil), working[sp.End:]...)
		working = append(append(working[:sp.Start], c.Edit.NewText...), suffix...)
		limit = sp.Start
		result.Applied = append(result.Applied, c)
	}

	// applied in descending order; report ascending
	for i, j := 0, len(result.Applied)-1; i < j; i, j = i+1, j-1 {
		result.Applied[i], result.Applied[j] = result.Applied[j], result.Applied[i]
	}
	result.Content = working
	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}
	return result, nil
}

func skip(c Candidate, reason string) SkippedFix {
	return SkippedFix{Rule: c.Rule, Primary: c.Primary, Reason: reason}
}

// spansConflict reports whether two text edits' spans overlap.
// Spans are treated as half-open intervals [Start, End). Two zero-length edits
// never conflict unless they insert at the same position. A zero-length edit
// conflicts with a non-zero span if its position is within that span
// (Start <= pos < End). For two non-zero spans, any overlap yields a conflict.
func spansConflict(a, b diag.TextEdit) bool {
	aStart, aEnd := a.Span.Start, a.Span.End
	bStart, bEnd := b.Span.Start, b.Span.End

	if aStart == aEnd && bStart == bEnd {
		return aStart == bStart
	}
	if aStart == aEnd {
		return bStart <= aStart && aStart < bEnd
	}
	if bStart == bEnd {
		return aStart <= bStart && bStart < aEnd
	}
	return aStart < bEnd && bStart < aEnd
}
