// Package diag defines the finding model shared by rules, the lint engine and
// the output layers.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity: Warning or Error, ordered Warning < Error (severity.go).
//   - Rule: the stable identifier of the rule that produced it.
//   - Message: human oriented text; keep it short and actionable.
//   - Primary span: the source.Span of the violation in byte coordinates.
//     Line and column are resolved through source.File only at output time.
//   - Notes: optional secondary spans/messages.
//   - Fixes: for correctable rules, the edits that would fix the finding.
//
// TextEdit carries a span in byte coordinates, the replacement text and an
// optional OldText guard that internal/fix checks against the live buffer
// before applying the edit. A Correction is produced only after an edit was
// applied and always points at the pre-rewrite location.
//
// # Emitting diagnostics
//
// Rules report through a diag.Reporter so that storage stays decoupled from
// evaluation. BagReporter aggregates into a Bag, which supports sorting,
// deduplication, filtering and transformation; DedupReporter drops repeats
// before they reach the next reporter.
//
// Package diag does not format or perform IO. Rendering lives in
// internal/diagfmt; applying fixes lives in internal/fix.
package diag
