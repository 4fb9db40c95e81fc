package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rbrovko/SwiftLint/internal/diag"
	"github.com/rbrovko/SwiftLint/internal/source"
)

const voidSource = "func foo(completion: () -> ())\n"

func voidBag(fs *source.FileSet, path string) (*diag.Bag, source.FileID) {
	id := fs.AddVirtual(path, []byte(voidSource))
	sp := source.Span{File: id, Start: 27, End: 29}
	d := diag.NewWarning("void_return", sp, "Prefer `-> Void` over `-> ()`").
		WithFix("Use Void", diag.TextEdit{Span: sp, NewText: "Void", OldText: "()"})
	bag := diag.NewBag(0)
	bag.Add(d)
	return bag, id
}

func TestPretty(t *testing.T) {
	fs := source.NewFileSet()
	bag, _ := voidBag(fs, "/home/user/project/Sources/App/a.swift")

	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowFixes: true}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"a.swift:1:28: warning: Prefer `-> Void` over `-> ()` [void_return]\n",
		"1 | func foo(completion: () -> ())\n",
		"  | " + strings.Repeat(" ", 27) + "^~\n",
		"fix #1: Use Void\n",
		"- func foo(completion: () -> ())\n",
		"+ func foo(completion: () -> Void)\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("unexpected escape codes without color:\n%s", out)
	}
}

func TestPrettyColor(t *testing.T) {
	fs := source.NewFileSet()
	bag, _ := voidBag(fs, "a.swift")

	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{Color: true}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected escape codes:\n%s", buf.String())
	}
}

func TestPrettyCaretAlignment(t *testing.T) {
	tests := []struct {
		name    string
		content string
		start   uint32
		pad     int
	}{
		{"wide characters", "let s = \"日本\"; let f: () -> ()\n", 31, 29},
		{"tab", "\tlet f: () -> ()\n", 14, 17},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := source.NewFileSet()
			id := fs.AddVirtual("a.swift", []byte(tt.content))
			bag := diag.NewBag(0)
			bag.Add(diag.NewWarning("void_return", source.Span{File: id, Start: tt.start, End: tt.start + 2}, "msg"))

			var buf bytes.Buffer
			if err := Pretty(&buf, bag, fs, PrettyOpts{}); err != nil {
				t.Fatal(err)
			}
			want := "  | " + strings.Repeat(" ", tt.pad) + "^~\n"
			if !strings.Contains(buf.String(), want) {
				t.Fatalf("expected caret line %q in:\n%s", want, buf.String())
			}
		})
	}
}

func TestPrettyContextAndNotes(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.swift", []byte("let a = 1\nlet b = 2\nlet c = 3\n"))
	sp := source.Span{File: id, Start: 24, End: 25}
	d := diag.New(diag.SevError, "some_rule", sp, "bad c").
		WithNote(source.Span{File: id, Start: 4, End: 5}, "see a")
	bag := diag.NewBag(0)
	bag.Add(d)

	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{Context: 1, ShowNotes: true}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Contains(out, "1 | let a") {
		t.Errorf("line 1 should be outside the context:\n%s", out)
	}
	for _, want := range []string{"a.swift:3:5: error: bad c [some_rule]", "2 | let b = 2", "3 | let c = 3", "note: a.swift:1:5: see a"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPathModes(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/home/user/project")
	bag, _ := voidBag(fs, "/home/user/project/Sources/App/a.swift")

	tests := []struct {
		mode PathMode
		want string
	}{
		{PathModeAbsolute, "/home/user/project/Sources/App/a.swift:1:28"},
		{PathModeRelative, "Sources/App/a.swift:1:28"},
		{PathModeBasename, "a.swift:1:28"},
		{PathModeAuto, "/home/user/project/Sources/App/a.swift:1:28"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		if err := Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode}); err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(buf.String(), tt.want) {
			t.Errorf("mode %d: got %q, want prefix %q", tt.mode, buf.String(), tt.want)
		}
	}
}

func TestSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := Summary(&buf, 2, 1, 3, false); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "Done linting! Found 2 violations, 1 serious in 3 files.\n" {
		t.Fatalf("got %q", got)
	}
	buf.Reset()
	if err := Summary(&buf, 1, 0, 1, false); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "Done linting! Found 1 violation, 0 serious in 1 file.\n" {
		t.Fatalf("got %q", got)
	}
}

func TestShort(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/proj")
	bag, _ := voidBag(fs, "/proj/Sources/a.swift")

	var buf bytes.Buffer
	if err := Short(&buf, bag, fs); err != nil {
		t.Fatal(err)
	}
	want := "Sources/a.swift:1:28: warning: Prefer `-> Void` over `-> ()` (void_return)\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}

	buf.Reset()
	if err := Short(&buf, diag.NewBag(0), fs); err != nil || buf.Len() != 0 {
		t.Fatalf("empty bag wrote %q (%v)", buf.String(), err)
	}
}

func TestCorrections(t *testing.T) {
	fs := source.NewFileSet()
	first := fs.AddVirtual("a.swift", []byte("x\nfunc f() -> () {}\n"))
	second := fs.Update(first, []byte("x\nfunc f() -> Void {}\n"))
	corrections := []diag.Correction{
		{Rule: "void_return", Primary: source.Span{File: first, Start: 14, End: 14}},
		{Rule: "other_rule", Primary: source.Span{File: second, Start: 2, End: 2}},
	}

	var buf bytes.Buffer
	if err := Corrections(&buf, corrections, fs, PrettyOpts{}); err != nil {
		t.Fatal(err)
	}
	want := "a.swift:2:13 Corrected void_return\na.swift:2:1 Corrected other_rule\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}
