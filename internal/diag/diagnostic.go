package diag

import (
	"github.com/rbrovko/SwiftLint/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

// TextEdit replaces Span with NewText. OldText, when set, must equal the
// current content of Span for the edit to apply.
type TextEdit struct {
	Span    source.Span
	NewText string
	OldText string
}

type Fix struct {
	Title string
	Edits []TextEdit
}

type Diagnostic struct {
	Severity Severity
	Rule     string
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []Fix
}

// Correction records one applied fix at its pre-rewrite location.
type Correction struct {
	Rule    string
	Primary source.Span
}
