package diag

import (
	"testing"

	"github.com/rbrovko/SwiftLint/internal/source"
)

func TestBagLimitAndSort(t *testing.T) {
	b := NewBag(3)
	b.Add(NewWarning("b_rule", source.Span{File: 1, Start: 5, End: 6}, "x"))
	b.Add(New(SevError, "a_rule", source.Span{File: 0, Start: 9, End: 10}, "y"))
	b.Add(NewWarning("a_rule", source.Span{File: 1, Start: 5, End: 6}, "z"))
	if b.Add(NewWarning("c_rule", source.Span{}, "dropped")) {
		t.Fatal("expected limit to reject the fourth diagnostic")
	}

	b.Sort()
	items := b.Items()
	if items[0].Rule != "a_rule" || items[0].Primary.File != 0 {
		t.Fatalf("unexpected first item %+v", items[0])
	}
	if items[1].Rule != "a_rule" || items[2].Rule != "b_rule" {
		t.Fatalf("unexpected rule order: %s, %s", items[1].Rule, items[2].Rule)
	}
	if !b.HasErrors() {
		t.Fatal("expected HasErrors")
	}
}

func TestBagDedupAndFilter(t *testing.T) {
	b := NewBag(0)
	sp := source.Span{File: 0, Start: 1, End: 2}
	b.Add(NewWarning("r", sp, "m"))
	b.Add(NewWarning("r", sp, "m"))
	b.Add(NewWarning("q", sp, "m"))
	b.Dedup()
	if b.Len() != 2 {
		t.Fatalf("expected 2 after dedup, got %d", b.Len())
	}

	b.Filter(func(d Diagnostic) bool { return d.Rule != "q" })
	if b.Len() != 1 || b.Items()[0].Rule != "r" {
		t.Fatalf("unexpected items after filter: %+v", b.Items())
	}

	b.Transform(func(d Diagnostic) Diagnostic { d.Severity = SevError; return d })
	if !b.HasErrors() {
		t.Fatal("expected transform to raise severity")
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: bag})
	sp := source.Span{File: 0, Start: 1, End: 2}
	r.Report("r", SevWarning, sp, "m", nil)
	r.Report("r", SevWarning, sp, "m", nil)
	r.Report("r", SevWarning, sp, "other", nil)
	if bag.Len() != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", bag.Len())
	}
}

func TestParseSeverity(t *testing.T) {
	for in, want := range map[string]Severity{"warning": SevWarning, "ERROR": SevError, " Error ": SevError} {
		got, err := ParseSeverity(in)
		if err != nil || got != want {
			t.Fatalf("ParseSeverity(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseSeverity("fatal"); err == nil {
		t.Fatal("expected error for unknown severity")
	}
	if !(SevWarning < SevError) {
		t.Fatal("warning must order below error")
	}
}
