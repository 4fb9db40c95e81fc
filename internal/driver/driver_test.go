package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rbrovko/SwiftLint/internal/config"
	"github.com/rbrovko/SwiftLint/internal/lint"
	"github.com/rbrovko/SwiftLint/internal/rules"
	"github.com/rbrovko/SwiftLint/internal/source"
	"github.com/rbrovko/SwiftLint/internal/syntax"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newEngine(t *testing.T) *lint.Engine {
	t.Helper()
	reg, err := rules.NewRegistry()
	if err != nil {
		t.Fatal(err)
	}
	return lint.New(reg, lint.Options{})
}

const closureSource = "[1, 2].map {\n number in\n number + 1 \n}\n"

func closureStructure(hash string) string {
	return fmt.Sprintf(`{
  "source_sha256": %q,
  "key.offset": 0, "key.length": 39,
  "key.substructure": [{
    "key.kind": "source.lang.swift.expr.call",
    "key.offset": 0, "key.length": 38,
    "key.nameoffset": 0, "key.namelength": 10,
    "key.bodyoffset": 12, "key.bodylength": 25,
    "key.substructure": [{
      "key.kind": "source.lang.swift.expr.closure",
      "key.offset": 11, "key.length": 27,
      "key.substructure": [{
        "key.kind": "source.lang.swift.decl.var.parameter",
        "key.offset": 14, "key.length": 6
      }]
    }]
  }]
}`, hash)
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	for _, p := range []string{
		"Sources/App/a.swift",
		"Sources/App/b.txt",
		"Sources/Gen/g.swift",
		"Sources/App/skip.swift",
		".build/x.swift",
		"Pods/Lib/y.swift",
		"Tests/t.swift",
	} {
		writeFile(t, filepath.Join(root, p), "")
	}
	writeFile(t, filepath.Join(root, ".gitignore"), "Sources/Gen/\n")

	cfg := config.Default(root)
	cfg.Excluded = []string{"skip.swift"}
	files, err := Discover(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(root, "Sources/App/a.swift"),
		filepath.Join(root, "Tests/t.swift"),
	}
	if strings.Join(files, "\n") != strings.Join(want, "\n") {
		t.Fatalf("Discover = %v, want %v", files, want)
	}

	cfg.Included = []string{"Sources/"}
	files, err = Discover(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || !strings.HasSuffix(files[0], "a.swift") {
		t.Fatalf("Discover with included = %v", files)
	}

	// explicit files are kept regardless of extension
	explicit := filepath.Join(root, "Sources/App/b.txt")
	files, err = Discover(cfg, []string{explicit, explicit})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0] != explicit {
		t.Fatalf("Discover explicit = %v", files)
	}

	if _, err := Discover(cfg, []string{filepath.Join(root, "missing")}); err == nil {
		t.Fatal("expected error for missing path")
	}
}

func TestSidecarProvider(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.swift")
	writeFile(t, path, closureSource)

	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	f := fs.Get(id)

	trees, err := SidecarProvider{}.Trees(f)
	if err != nil || trees.Tree != nil || trees.Syntax != nil || trees.Stale {
		t.Fatalf("no sidecars: %+v, %v", trees, err)
	}
	empty := trees.Digest

	writeFile(t, path+StructureSuffix, closureStructure(syntax.HashHex(f.Content)))
	writeFile(t, path+SyntaxSuffix, `[{"offset": 25, "length": 6, "type": "source.lang.swift.syntaxtype.identifier"}]`)
	trees, err = SidecarProvider{}.Trees(f)
	if err != nil {
		t.Fatal(err)
	}
	if trees.Tree == nil || trees.Syntax == nil || trees.Stale {
		t.Fatalf("expected fresh trees: %+v", trees)
	}
	if trees.Digest == empty {
		t.Fatal("digest should cover sidecar bytes")
	}

	writeFile(t, path+StructureSuffix, closureStructure(strings.Repeat("0", 64)))
	trees, err = SidecarProvider{}.Trees(f)
	if err != nil {
		t.Fatal(err)
	}
	if trees.Tree != nil || !trees.Stale {
		t.Fatalf("expected stale tree: %+v", trees)
	}

	writeFile(t, path+StructureSuffix, `{"key.substructure": [`)
	if _, err := (SidecarProvider{}).Trees(f); !errors.Is(err, syntax.ErrMalformedTree) {
		t.Fatalf("expected malformed tree error, got %v", err)
	}
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) OnEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func TestLintBatch(t *testing.T) {
	dir := t.TempDir()
	withTree := filepath.Join(dir, "closure.swift")
	writeFile(t, withTree, closureSource)
	plain := filepath.Join(dir, "void.swift")
	writeFile(t, plain, "let f: () -> () = {}\n")
	missing := filepath.Join(dir, "missing.swift")

	writeFile(t, withTree+StructureSuffix, closureStructure(syntax.HashHex([]byte(closureSource))))

	sink := &recordingSink{}
	results, err := Lint(context.Background(), source.NewFileSet(), []string{withTree, missing, plain}, Options{
		Engine: newEngine(t),
		Jobs:   2,
		Sink:   sink,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	closure := results[0]
	if closure.Err != nil || closure.Diagnostics.Len() != 1 {
		t.Fatalf("closure result: err=%v diags=%v", closure.Err, closure.Diagnostics)
	}
	d := closure.Diagnostics.Items()[0]
	if d.Rule != "closure_parameter_position" || d.Primary.Start != 14 {
		t.Fatalf("unexpected diagnostic: %+v", d)
	}
	if len(d.Notes) != 1 || d.Notes[0].Span.Start != 11 {
		t.Fatalf("expected a note at the opening brace: %+v", d.Notes)
	}

	if results[1].Err == nil {
		t.Fatal("expected load error for missing file")
	}

	void := results[2]
	if void.Err != nil || void.Diagnostics.Len() != 1 || void.Diagnostics.Items()[0].Rule != "void_return" {
		t.Fatalf("void result: %+v", void)
	}
	if len(void.Timing.Phases) == 0 {
		t.Fatal("expected timings")
	}

	var errorsSeen, done int
	for _, ev := range sink.events {
		switch ev.Status {
		case StatusError:
			errorsSeen++
		case StatusDone:
			done++
		}
	}
	if errorsSeen != 1 || done != 2 {
		t.Fatalf("events: %d errors, %d done", errorsSeen, done)
	}
}

func TestLintStaleTreeSkipsStructuralRules(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "closure.swift")
	writeFile(t, path, closureSource)
	writeFile(t, path+StructureSuffix, closureStructure(strings.Repeat("ab", 32)))

	results, err := Lint(context.Background(), source.NewFileSet(), []string{path}, Options{Engine: newEngine(t)})
	if err != nil {
		t.Fatal(err)
	}
	if !results[0].Stale || results[0].Diagnostics.Len() != 0 {
		t.Fatalf("expected stale result without violations: %+v", results[0])
	}
}

func TestLintCache(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "void.swift")
	writeFile(t, path, "func f(c: () -> ())\n")
	cache, err := OpenDiskCacheAt(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{Engine: newEngine(t), Cache: cache, CacheSalt: "v1"}

	first, err := Lint(context.Background(), source.NewFileSet(), []string{path}, opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Lint(context.Background(), source.NewFileSet(), []string{path}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first[0].Cached || !second[0].Cached {
		t.Fatalf("cached flags: first=%v second=%v", first[0].Cached, second[0].Cached)
	}
	a, b := first[0].Diagnostics.Items(), second[0].Diagnostics.Items()
	if len(a) != 1 || len(b) != 1 {
		t.Fatalf("diagnostics: %v / %v", a, b)
	}
	if a[0].Primary.Start != b[0].Primary.Start || a[0].Message != b[0].Message || len(b[0].Edits()) != 1 {
		t.Fatalf("cached diagnostic differs: %+v vs %+v", a[0], b[0])
	}

	opts.CacheSalt = "v2"
	third, err := Lint(context.Background(), source.NewFileSet(), []string{path}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third[0].Cached {
		t.Fatal("a different salt must miss")
	}

	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	trees, err := SidecarProvider{}.Trees(first[0].File)
	if err != nil {
		t.Fatal(err)
	}
	var payload DiskPayload
	if hit, err := cache.Get(Key(first[0].File.Hash, trees.Digest, "v1"), &payload); hit || err != nil {
		t.Fatalf("expected miss after DropAll: %v %v", hit, err)
	}
}

func TestLintCacheKeepsNotes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "closure.swift")
	writeFile(t, path, closureSource)
	writeFile(t, path+StructureSuffix, closureStructure(syntax.HashHex([]byte(closureSource))))
	cache, err := OpenDiskCacheAt(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{Engine: newEngine(t), Cache: cache, CacheSalt: "v1"}

	if _, err := Lint(context.Background(), source.NewFileSet(), []string{path}, opts); err != nil {
		t.Fatal(err)
	}
	again, err := Lint(context.Background(), source.NewFileSet(), []string{path}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !again[0].Cached || again[0].Diagnostics.Len() != 1 {
		t.Fatalf("expected one cached diagnostic: %+v", again[0])
	}
	notes := again[0].Diagnostics.Items()[0].Notes
	if len(notes) != 1 || notes[0].Span.Start != 11 || notes[0].Msg != "closure opens here" {
		t.Fatalf("notes lost in cache: %+v", notes)
	}
}

func TestFix(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "void.swift")
	writeFile(t, path, "func f(c: () -> ( ))\nlet g: () -> () = {}\n")
	clean := filepath.Join(dir, "clean.swift")
	writeFile(t, clean, "let x = 1\n")

	opts := FixOptions{Options: Options{Engine: newEngine(t)}, DryRun: true}
	results, err := Fix(context.Background(), source.NewFileSet(), []string{path, clean}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !results[0].Changed() || results[0].Written || len(results[0].Corrections) != 2 {
		t.Fatalf("dry run: %+v", results[0])
	}
	if data, _ := os.ReadFile(path); string(data) != "func f(c: () -> ( ))\nlet g: () -> () = {}\n" {
		t.Fatalf("dry run wrote the file: %q", data)
	}
	if results[1].Changed() || results[1].Err != nil {
		t.Fatalf("clean file: %+v", results[1])
	}

	opts.DryRun = false
	results, err = Fix(context.Background(), source.NewFileSet(), []string{path}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !results[0].Written {
		t.Fatalf("expected write: %+v", results[0])
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "func f(c: () -> Void)\nlet g: () -> Void = {}\n" {
		t.Fatalf("unexpected content: %q", data)
	}
}

func TestFixKeepsBOM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bom.swift")
	writeFile(t, path, "\xEF\xBB\xBFlet g: () -> () = {}\n")

	_, err := Fix(context.Background(), source.NewFileSet(), []string{path}, FixOptions{Options: Options{Engine: newEngine(t)}})
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "\xEF\xBB\xBFlet g: () -> Void = {}\n" {
		t.Fatalf("unexpected content: %q", data)
	}
}

func utf16LE(s string) []byte {
	out := []byte{0xFF, 0xFE}
	for _, b := range []byte(s) {
		out = append(out, b, 0)
	}
	return out
}

func TestFixKeepsUTF16(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wide.swift")
	if err := os.WriteFile(path, utf16LE("let f: () -> ()\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	results, err := Fix(context.Background(), source.NewFileSet(), []string{path}, FixOptions{Options: Options{Engine: newEngine(t)}})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || !results[0].Written {
		t.Fatalf("expected the file to be written, got %+v", results)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := utf16LE("let f: () -> Void\n"); string(data) != string(want) {
		t.Fatalf("encoding changed: % x", data)
	}
}

func TestLintCancelled(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.swift")
	writeFile(t, path, "let x = 1\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Lint(ctx, source.NewFileSet(), []string{path}, Options{Engine: newEngine(t)})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
