package diagfmt

import (
	"fmt"
	"strings"

	"github.com/rbrovko/SwiftLint/internal/diag"
	"github.com/rbrovko/SwiftLint/internal/source"
)

// fixEditPreview holds the whole lines touched by one edit, before and after
// applying it.
type fixEditPreview struct {
	before []string
	after  []string
}

func buildFixEditPreview(fs *source.FileSet, edit diag.TextEdit) (fixEditPreview, error) {
	if fs == nil {
		return fixEditPreview{}, fmt.Errorf("nil FileSet")
	}
	file := fs.Get(edit.Span.File)
	if file == nil {
		return fixEditPreview{}, fmt.Errorf("file %d not found in FileSet", edit.Span.File)
	}
	if edit.Span.End < edit.Span.Start {
		return fixEditPreview{}, fmt.Errorf("edit span end %d before start %d", edit.Span.End, edit.Span.Start)
	}
	from, ok := file.LineCol(edit.Span.Start)
	if !ok {
		return fixEditPreview{}, fmt.Errorf("edit start %d is not a character boundary", edit.Span.Start)
	}
	to, ok := file.LineCol(edit.Span.End)
	if !ok {
		return fixEditPreview{}, fmt.Errorf("edit end %d is not a character boundary", edit.Span.End)
	}

	var p fixEditPreview
	for n := from.Line; n <= to.Line; n++ {
		p.before = append(p.before, file.GetLine(n))
	}
	first, last := p.before[0], p.before[len(p.before)-1]
	head := first[:min(int(from.Col-1), len(first))]
	tail := last[min(int(to.Col-1), len(last)):]
	p.after = strings.Split(head+strings.ReplaceAll(edit.NewText, "\r\n", "\n")+tail, "\n")
	return p, nil
}
