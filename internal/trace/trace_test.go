package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
)

func TestLevelFiltersScopes(t *testing.T) {
	cases := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDriver, false},
		{LevelPhase, ScopeDriver, true},
		{LevelPhase, ScopeFile, false},
		{LevelDetail, ScopeFile, true},
		{LevelDetail, ScopeRule, false},
		{LevelDebug, ScopeRule, true},
	}
	for _, tc := range cases {
		if got := tc.level.ShouldEmit(tc.scope); got != tc.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tc.level, tc.scope, got, tc.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	if l, err := ParseLevel("DETAIL"); err != nil || l != LevelDetail {
		t.Fatalf("ParseLevel(DETAIL) = %v, %v", l, err)
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)

	outer := Begin(tr, ScopeDriver, "lint", 0)
	inner := Begin(tr, ScopeFile, "file:a.swift", outer.ID())
	Begin(tr, ScopeRule, "rule:void_return", inner.ID()).End("")
	inner.WithExtra("violations", "2").End("")
	outer.End("done")

	out := buf.String()
	if strings.Contains(out, "rule:void_return") {
		t.Fatalf("rule scope leaked at detail level:\n%s", out)
	}
	for _, want := range []string{"→ lint", "→ file:a.swift", "← file:a.swift {violations=2}", "← lint (done)"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatNDJSON)
	Begin(tr, ScopeDriver, "discover", 0).End("3 files")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	var ev map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &ev); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if ev["kind"] != "end" || ev["scope"] != "driver" || ev["detail"] != "3 files" {
		t.Fatalf("unexpected event: %v", ev)
	}
}

func TestRingTracerWraps(t *testing.T) {
	tr := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		tr.Emit(&Event{Kind: KindPoint, Scope: ScopeRule, Name: name})
	}
	snap := tr.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("expected 3 events, got %d", len(snap))
	}
	got := []string{snap[0].Name, snap[1].Name, snap[2].Name}
	if strings.Join(got, "") != "cde" {
		t.Fatalf("unexpected order: %v", got)
	}

	var buf bytes.Buffer
	if err := tr.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "\n") != 3 {
		t.Fatalf("unexpected dump:\n%s", buf.String())
	}
}

func TestNewFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces", "run.ndjson")
	tr, err := New(Config{Level: LevelPhase, Mode: ModeBoth, OutputPath: path})
	if err != nil {
		t.Fatal(err)
	}
	Begin(tr, ScopeDriver, "lint", 0).End("")
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestContextPropagation(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatal("expected Nop from empty context")
	}
	ring := NewRingTracer(8, LevelDebug)
	ctx := WithTracer(context.Background(), ring)
	if FromContext(ctx) != Tracer(ring) {
		t.Fatal("tracer lost in context")
	}
	ctx = WithSpanContext(ctx, SpanContext{SpanID: 7})
	if CurrentSpan(ctx).SpanID != 7 {
		t.Fatal("span context lost")
	}
}

func TestDisabledSpanIsSafe(t *testing.T) {
	sp := Begin(Nop, ScopeDriver, "x", 0)
	if sp.WithExtra("k", "v").End("") != 0 {
		t.Fatal("nop span should report zero duration")
	}
}
