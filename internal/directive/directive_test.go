package directive

import (
	"strings"
	"testing"

	"github.com/rbrovko/SwiftLint/internal/source"
	"github.com/rbrovko/SwiftLint/internal/syntax"
)

func scan(t *testing.T, content string) (*source.File, *Regions) {
	t.Helper()
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("d.swift", []byte(content)))
	return f, Scan(f, syntax.Classify(f).Comments(f.ID))
}

// at returns a span at the n-th (0-based) occurrence of needle.
func at(t *testing.T, f *source.File, needle string, n int) source.Span {
	t.Helper()
	content := string(f.Content)
	off := 0
	for i := 0; ; i++ {
		j := strings.Index(content[off:], needle)
		if j < 0 {
			t.Fatalf("occurrence %d of %q not found", n, needle)
		}
		if i == n {
			start := uint32(off + j)
			return source.Span{File: f.ID, Start: start, End: start + uint32(len(needle))}
		}
		off += j + len(needle)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		text string
		want []Command
		bad  int
	}{
		{"// swiftlint:disable void_return", []Command{{Action: Disable, Rules: []string{"void_return"}}}, 0},
		{"// swiftlint:disable:next a b - because", []Command{{Action: Disable, Modifier: ModNext, Rules: []string{"a", "b"}}}, 0},
		{"/* swiftlint:enable:this all */", []Command{{Action: Enable, Modifier: ModThis, Rules: []string{"all"}}}, 0},
		{"// swiftlint:disable:previous x swiftlint:enable y", []Command{
			{Action: Disable, Modifier: ModPrevious, Rules: []string{"x"}},
			{Action: Enable, Rules: []string{"y"}},
		}, 0},
		{"// swiftlint:disable", nil, 1},
		{"// swiftlint:disable:later x", nil, 1},
		{"// swiftlint:ignore x", nil, 1},
		{"// nothing here", nil, 0},
	}
	for _, tt := range tests {
		cmds, bad := Parse(0, 10, tt.text)
		if len(cmds) != len(tt.want) || len(bad) != tt.bad {
			t.Fatalf("Parse(%q) = %d cmds, %d bad; want %d, %d", tt.text, len(cmds), len(bad), len(tt.want), tt.bad)
		}
		for i, c := range cmds {
			w := tt.want[i]
			if c.Action != w.Action || c.Modifier != w.Modifier || strings.Join(c.Rules, ",") != strings.Join(w.Rules, ",") {
				t.Errorf("Parse(%q)[%d] = %+v, want %+v", tt.text, i, c, w)
			}
			if c.Span.Start < 10 || !strings.HasPrefix(tt.text[c.Span.Start-10:], "swiftlint:") {
				t.Errorf("Parse(%q)[%d] span %v does not point at the command", tt.text, i, c.Span)
			}
		}
	}
}

func TestScanDisableEnable(t *testing.T) {
	content := "a()\n// swiftlint:disable r1\nb()\n// swiftlint:enable r1\nc()\n"
	f, r := scan(t, content)

	if r.Suppressed("r1", at(t, f, "a()", 0)) {
		t.Error("a() must not be suppressed")
	}
	if !r.Suppressed("r1", at(t, f, "b()", 0)) {
		t.Error("b() must be suppressed")
	}
	if r.Suppressed("r2", at(t, f, "b()", 0)) {
		t.Error("other rules must not be suppressed")
	}
	if r.Suppressed("r1", at(t, f, "c()", 0)) {
		t.Error("c() must not be suppressed after enable")
	}
}

func TestScanOpenToEOF(t *testing.T) {
	f, r := scan(t, "// swiftlint:disable all\nx()\ny()")
	if !r.Suppressed("anything", at(t, f, "y()", 0)) {
		t.Error("disable all must run to end of file")
	}
}

func TestScanLineModifiers(t *testing.T) {
	content := "one()\n" +
		"two() // swiftlint:disable:this r\n" +
		"// swiftlint:disable:next r\n" +
		"three()\n" +
		"four()\n" +
		"// swiftlint:disable:previous r\n"
	f, r := scan(t, content)

	cases := map[string]bool{"one()": false, "two()": true, "three()": true, "four()": true}
	for needle, want := range cases {
		if got := r.Suppressed("r", at(t, f, needle, 0)); got != want {
			t.Errorf("Suppressed at %s = %v, want %v", needle, got, want)
		}
	}
}

func TestScanEnableInsideAll(t *testing.T) {
	content := "// swiftlint:disable all\n" +
		"a()\n" +
		"// swiftlint:enable r\n" +
		"b()\n" +
		"// swiftlint:enable all\n" +
		"c()\n"
	f, r := scan(t, content)

	if !r.Suppressed("r", at(t, f, "a()", 0)) {
		t.Error("a() must be suppressed for r")
	}
	if r.Suppressed("r", at(t, f, "b()", 0)) {
		t.Error("b() must be enabled for r")
	}
	if !r.Suppressed("q", at(t, f, "b()", 0)) {
		t.Error("b() must stay suppressed for q")
	}
	if r.Suppressed("q", at(t, f, "c()", 0)) {
		t.Error("c() must be enabled for everything")
	}
}

func TestScanEnableModifiersInsideRuleRegion(t *testing.T) {
	content := "// swiftlint:disable void_return\n" +
		"let a: () -> ()\n" +
		"// swiftlint:enable:next void_return\n" +
		"let b: () -> ()\n" +
		"let c: () -> () // swiftlint:enable:this void_return\n" +
		"let d: () -> ()\n" +
		"// swiftlint:enable:previous void_return\n" +
		"let e: () -> ()\n"
	f, r := scan(t, content)

	cases := map[string]bool{"let a": true, "let b": false, "let c": false, "let d": false, "let e": true}
	for needle, want := range cases {
		if got := r.Suppressed("void_return", at(t, f, needle, 0)); got != want {
			t.Errorf("Suppressed at %s = %v, want %v", needle, got, want)
		}
	}
	if r.Suppressed("other", at(t, f, "let a", 0)) {
		t.Error("a single-rule region must not disable other rules")
	}
}

func TestScanIgnoresDirectivesInStrings(t *testing.T) {
	f, r := scan(t, "let s = \"// swiftlint:disable all\"\nx()\n")
	if r.Suppressed("r", at(t, f, "x()", 0)) {
		t.Error("a directive inside a string literal must be ignored")
	}
	if len(r.Commands()) != 0 {
		t.Errorf("unexpected commands %+v", r.Commands())
	}
}

func TestScanReportsMalformed(t *testing.T) {
	_, r := scan(t, "// swiftlint:disable\n")
	if len(r.Invalid()) != 1 {
		t.Fatalf("expected one malformed command, got %d", len(r.Invalid()))
	}
	var nilRegions *Regions
	if nilRegions.Suppressed("r", source.Span{}) {
		t.Fatal("nil regions suppress nothing")
	}
}
