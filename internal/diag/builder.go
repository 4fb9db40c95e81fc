package diag

import "github.com/rbrovko/SwiftLint/internal/source"

func New(sev Severity, rule string, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Rule:     rule,
		Primary:  primary,
		Message:  msg,
		Notes:    nil,
		Fixes:    nil,
	}
}

func NewWarning(rule string, primary source.Span, msg string) Diagnostic {
	return New(SevWarning, rule, primary, msg)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

func (d Diagnostic) WithFix(title string, edits ...TextEdit) Diagnostic {
	d.Fixes = append(d.Fixes, Fix{Title: title, Edits: edits})
	return d
}

// Edits returns the edits of every fix attached to d in order.
func (d Diagnostic) Edits() []TextEdit {
	var out []TextEdit
	for _, f := range d.Fixes {
		out = append(out, f.Edits...)
	}
	return out
}
