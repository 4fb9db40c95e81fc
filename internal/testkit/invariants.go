package testkit

import (
	"fmt"

	"github.com/rbrovko/SwiftLint/internal/diag"
	"github.com/rbrovko/SwiftLint/internal/source"
	"github.com/rbrovko/SwiftLint/internal/syntax"
)

// CheckDiagnosticInvariants runs a minimal set of span invariants on the
// diagnostics produced for sf:
// 1) every primary span points at sf and lies within its content
// 2) both ends of every primary span fall on code point boundaries
// 3) every fix edit lies within sf and carries an OldText guard matching sf
func CheckDiagnosticInvariants(sf *source.File, diags []diag.Diagnostic) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	for i, d := range diags {
		sp := d.Primary
		if sp.File != sf.ID {
			return fmt.Errorf("diagnostic %d (%s): span file mismatch: got=%d want=%d", i, d.Rule, sp.File, sf.ID)
		}
		if sp.End < sp.Start || sp.End > sf.Len() {
			return fmt.Errorf("diagnostic %d (%s): span %v outside content of length %d", i, d.Rule, sp, sf.Len())
		}
		if !sf.IsBoundary(sp.Start) || !sf.IsBoundary(sp.End) {
			return fmt.Errorf("diagnostic %d (%s): span %v splits a code point", i, d.Rule, sp)
		}
		for _, e := range d.Edits() {
			if e.Span.File != sf.ID || e.Span.End > sf.Len() || e.Span.End < e.Span.Start {
				return fmt.Errorf("diagnostic %d (%s): edit span %v outside file", i, d.Rule, e.Span)
			}
			if e.OldText != "" && sf.Text(e.Span) != e.OldText {
				return fmt.Errorf("diagnostic %d (%s): edit guard %q does not match %q", i, d.Rule, e.OldText, sf.Text(e.Span))
			}
		}
	}
	return nil
}

// CheckTreeInvariants checks the containment rules of a structural tree and
// that every call with a body also has a name.
func CheckTreeInvariants(root *syntax.Node, sf *source.File) error {
	if root == nil || sf == nil {
		return fmt.Errorf("nil tree or file")
	}
	if root.Kind != syntax.KindFile {
		return fmt.Errorf("root kind is %s, want %s", root.Kind, syntax.KindFile)
	}
	if err := syntax.Validate(root, sf.Len()); err != nil {
		return err
	}
	var err error
	syntax.Walk(root, func(n, _ *syntax.Node) bool {
		if err != nil {
			return false
		}
		if n.Kind == syntax.KindCall && n.HasBody() && n.Name == nil {
			off, _ := n.Offset()
			err = fmt.Errorf("call at %d has a body but no name", off)
		}
		return true
	})
	return err
}
