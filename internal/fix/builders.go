package fix

import (
	"github.com/rbrovko/SwiftLint/internal/diag"
	"github.com/rbrovko/SwiftLint/internal/source"
)

// ReplaceSpan builds a single-edit correction that swaps the text under span
// for newText. expect is the text the span must still hold when the edit is
// applied; an empty expect skips that check.
func ReplaceSpan(title string, span source.Span, newText, expect string) diag.Fix {
	return diag.Fix{
		Title: title,
		Edits: []diag.TextEdit{{Span: span, NewText: newText, OldText: expect}},
	}
}
