package diagfmt

import (
	"fmt"
	"io"

	"github.com/rbrovko/SwiftLint/internal/diag"
	"github.com/rbrovko/SwiftLint/internal/source"
)

// CorrectionJSON is one applied correction at its pre-rewrite location.
type CorrectionJSON struct {
	Rule     string       `json:"rule"`
	Location LocationJSON `json:"location"`
}

// Corrections writes one line per applied correction:
//
//	path:line:col Corrected <rule>
//
// Each span is resolved against the snapshot its rule saw, so positions
// refer to the content before that rule's rewrite.
func Corrections(w io.Writer, corrections []diag.Correction, fs *source.FileSet, opts PrettyOpts) error {
	pal := newPalette(opts.Color)
	for _, c := range corrections {
		f := fs.Get(c.Primary.File)
		if f == nil {
			continue
		}
		pos, _ := fs.Resolve(c.Primary)
		if _, err := fmt.Fprintf(w, "%s:%d:%d %s %s\n",
			formatPath(f, fs, opts.PathMode), pos.Line, pos.Col,
			pal.added.Sprint("Corrected"), c.Rule); err != nil {
			return err
		}
	}
	return nil
}

// CorrectionsJSON writes corrections as a JSON array.
func CorrectionsJSON(w io.Writer, corrections []diag.Correction, fs *source.FileSet, pathMode PathMode) error {
	out := make([]CorrectionJSON, 0, len(corrections))
	for _, c := range corrections {
		out = append(out, CorrectionJSON{Rule: c.Rule, Location: makeLocation(c.Primary, fs, pathMode, true)})
	}
	return encode(w, out)
}
