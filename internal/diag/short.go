package diag

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rbrovko/SwiftLint/internal/source"
)

// shortLine is one resolved line of the short report.
type shortLine struct {
	path     string
	line     uint32
	col      uint32
	severity string
	rule     string
	msg      string
}

func (l shortLine) String() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s (%s)", l.path, l.line, l.col, l.severity, l.msg, l.rule)
}

func compareShortLines(a, b shortLine) int {
	return cmp.Or(
		cmp.Compare(a.path, b.path),
		cmp.Compare(a.line, b.line),
		cmp.Compare(a.col, b.col),
		cmp.Compare(a.severity, b.severity),
		cmp.Compare(a.rule, b.rule),
		cmp.Compare(a.msg, b.msg),
	)
}

// FormatShortDiagnostics renders "path:line:col: severity: message (rule)"
// lines sorted by position, joined without a trailing newline. Paths are
// relative to the file set base. With includeNotes each note becomes a
// "note" line carrying its diagnostic's rule. Spans that do not resolve are
// skipped.
func FormatShortDiagnostics(diags []*Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil {
		return ""
	}
	var lines []shortLine
	add := func(span source.Span, severity, rule, msg string) {
		f := fs.Get(span.File)
		if f == nil {
			return
		}
		pos, ok := f.LineCol(span.Start)
		if !ok {
			return
		}
		lines = append(lines, shortLine{
			path:     displayPath(f.FormatPath("relative", fs.BaseDir())),
			line:     pos.Line,
			col:      pos.Col,
			severity: severity,
			rule:     rule,
			msg:      oneLine(msg),
		})
	}
	for _, d := range diags {
		add(d.Primary, d.Severity.String(), d.Rule, d.Message)
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			add(n.Span, "note", d.Rule, n.Msg)
		}
	}

	slices.SortStableFunc(lines, compareShortLines)
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return strings.Join(out, "\n")
}

// displayPath uses forward slashes and drops leading "./" segments.
func displayPath(p string) string {
	p = filepath.ToSlash(p)
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	return p
}

// oneLine folds any line breaks in msg into spaces.
func oneLine(msg string) string {
	return strings.TrimSpace(strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(msg))
}
