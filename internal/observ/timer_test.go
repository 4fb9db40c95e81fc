package observ

import (
	"strings"
	"testing"
)

func TestTimerPhases(t *testing.T) {
	tm := NewTimer()
	load := tm.Begin("load")
	tm.End(load, "12 bytes")
	lint := tm.Begin("lint")
	tm.End(lint, "")
	tm.End(99, "ignored")

	r := tm.Report()
	if len(r.Phases) != 2 || r.Phases[0].Name != "load" || r.Phases[1].Name != "lint" {
		t.Fatalf("unexpected phases: %+v", r.Phases)
	}
	if r.Phases[0].Note != "12 bytes" {
		t.Fatalf("note lost: %+v", r.Phases[0])
	}
	s := tm.Summary()
	for _, want := range []string{"load", "// 12 bytes", "total"} {
		if !strings.Contains(s, want) {
			t.Errorf("summary missing %q:\n%s", want, s)
		}
	}
}

func TestEmptyReport(t *testing.T) {
	if r := NewTimer().Report(); r.TotalMS != 0 || r.Phases != nil {
		t.Fatalf("expected zero report, got %+v", r)
	}
}

func TestAggregate(t *testing.T) {
	a := Report{TotalMS: 3, Phases: []PhaseReport{{Name: "load", DurationMS: 1}, {Name: "lint", DurationMS: 2}}}
	b := Report{TotalMS: 5, Phases: []PhaseReport{{Name: "lint", DurationMS: 4}, {Name: "fix", DurationMS: 1, Note: "x"}}}

	got := Aggregate(a, b)
	if got.TotalMS != 8 {
		t.Fatalf("total = %v", got.TotalMS)
	}
	want := []PhaseReport{{Name: "load", DurationMS: 1}, {Name: "lint", DurationMS: 6}, {Name: "fix", DurationMS: 1}}
	if len(got.Phases) != len(want) {
		t.Fatalf("phases = %+v", got.Phases)
	}
	for i := range want {
		if got.Phases[i] != want[i] {
			t.Errorf("phase %d = %+v, want %+v", i, got.Phases[i], want[i])
		}
	}
}
