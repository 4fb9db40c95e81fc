package rule

import (
	"github.com/rbrovko/SwiftLint/internal/diag"
	"github.com/rbrovko/SwiftLint/internal/match"
	"github.com/rbrovko/SwiftLint/internal/source"
	"github.com/rbrovko/SwiftLint/internal/syntax"
)

// Context is everything a rule may read while evaluating one file snapshot.
// It is read-only for rules.
type Context struct {
	File *source.File
	// Tree is nil when no structural tree is available for the snapshot.
	Tree *syntax.Node
	// NonCode masks comments and strings.
	NonCode match.Mask
	Config  Config
}

// Violation builds a diagnostic for d at span with the configured severity.
func (c *Context) Violation(d Description, span source.Span, msg string) diag.Diagnostic {
	if msg == "" {
		msg = d.Summary
	}
	return diag.New(c.Config.Severity, d.ID, span, msg)
}
