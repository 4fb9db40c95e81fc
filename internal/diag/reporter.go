package diag

import "github.com/rbrovko/SwiftLint/internal/source"

// Reporter receives the violations a rule invocation produced. The engine
// chains a DedupReporter in front of a BagReporter.
type Reporter interface {
	Report(rule string, sev Severity, primary source.Span, msg string, fixes []Fix)
}

// BagReporter stores every report in Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(rule string, sev Severity, primary source.Span, msg string, fixes []Fix) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(Diagnostic{
		Severity: sev, Rule: rule, Message: msg,
		Primary: primary, Fixes: fixes,
	})
}
