package diagfmt

import (
	"io"

	"github.com/rbrovko/SwiftLint/internal/diag"
	"github.com/rbrovko/SwiftLint/internal/source"
)

// Short writes one line per diagnostic:
//
//	path:line:col: severity: message (rule)
//
// which is the form editors and CI annotators parse.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	items := bag.Items()
	ptrs := make([]*diag.Diagnostic, len(items))
	for i := range items {
		ptrs[i] = &items[i]
	}
	text := diag.FormatShortDiagnostics(ptrs, fs, false)
	if text == "" {
		return nil
	}
	_, err := io.WriteString(w, text+"\n")
	return err
}
