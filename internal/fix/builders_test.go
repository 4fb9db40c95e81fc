package fix

import (
	"testing"

	"github.com/rbrovko/SwiftLint/internal/source"
)

func TestReplaceSpan(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.swift", []byte("func f() -> () {}"))

	span := source.Span{File: fileID, Start: 12, End: 14}
	fix := ReplaceSpan("Use Void", span, "Void", "()")

	if fix.Title != "Use Void" {
		t.Errorf("unexpected title %q", fix.Title)
	}
	if len(fix.Edits) != 1 {
		t.Fatalf("expected 1 edit, got %d", len(fix.Edits))
	}
	edit := fix.Edits[0]
	if edit.Span != span || edit.NewText != "Void" || edit.OldText != "()" {
		t.Errorf("unexpected edit %+v", edit)
	}
}
