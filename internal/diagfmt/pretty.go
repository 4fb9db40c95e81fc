package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/rbrovko/SwiftLint/internal/diag"
	"github.com/rbrovko/SwiftLint/internal/source"
)

const tabWidth = 4

type palette struct {
	warning *color.Color
	error   *color.Color
	note    *color.Color
	rule    *color.Color
	gutter  *color.Color
	removed *color.Color
	added   *color.Color
	bold    *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		warning: mk(color.FgYellow, color.Bold),
		error:   mk(color.FgRed, color.Bold),
		note:    mk(color.FgCyan, color.Bold),
		rule:    mk(color.Faint),
		gutter:  mk(color.FgBlue),
		removed: mk(color.FgRed),
		added:   mk(color.FgGreen),
		bold:    mk(color.Bold),
	}
}

func (p palette) severity(s diag.Severity) *color.Color {
	if s >= diag.SevError {
		return p.error
	}
	return p.warning
}

// Pretty renders diagnostics in a human readable form. The bag is expected
// to be sorted. For each diagnostic it prints
//
//	<path>:<line>:<col>: <severity>: <message> [<rule>]
//
// followed by the source line with the primary span underlined. Notes and
// fix previews are printed when enabled.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	if bag == nil || fs == nil {
		return nil
	}
	pal := newPalette(opts.Color)
	var b strings.Builder
	for i, d := range bag.Items() {
		if i > 0 {
			b.WriteByte('\n')
		}
		writeDiagnostic(&b, d, fs, opts, pal)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeDiagnostic(b *strings.Builder, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	f := fs.Get(d.Primary.File)
	if f == nil {
		fmt.Fprintf(b, "%s: %s %s\n", pal.severity(d.Severity).Sprint(d.Severity.String()), d.Message, pal.rule.Sprintf("[%s]", d.Rule))
		return
	}
	start, _ := fs.Resolve(d.Primary)
	fmt.Fprintf(b, "%s:%d:%d: %s: %s %s\n",
		pal.bold.Sprint(formatPath(f, fs, opts.PathMode)), start.Line, start.Col,
		pal.severity(d.Severity).Sprint(d.Severity.String()),
		d.Message,
		pal.rule.Sprintf("[%s]", d.Rule),
	)
	writeSnippet(b, f, d.Primary, opts.Context, pal, pal.severity(d.Severity))

	if opts.ShowNotes {
		for _, n := range d.Notes {
			nf := fs.Get(n.Span.File)
			if nf == nil {
				fmt.Fprintf(b, "  %s %s\n", pal.note.Sprint("note:"), n.Msg)
				continue
			}
			pos, _ := fs.Resolve(n.Span)
			fmt.Fprintf(b, "  %s %s:%d:%d: %s\n", pal.note.Sprint("note:"), formatPath(nf, fs, opts.PathMode), pos.Line, pos.Col, n.Msg)
		}
	}

	if opts.ShowFixes {
		for i, fx := range d.Fixes {
			fmt.Fprintf(b, "  %s %s\n", pal.note.Sprintf("fix #%d:", i+1), fx.Title)
			for _, e := range fx.Edits {
				preview, err := buildFixEditPreview(fs, e)
				if err != nil {
					fmt.Fprintf(b, "    (no preview: %v)\n", err)
					continue
				}
				for _, line := range preview.before {
					fmt.Fprintf(b, "    %s\n", pal.removed.Sprint("- "+expandTabs(line)))
				}
				for _, line := range preview.after {
					fmt.Fprintf(b, "    %s\n", pal.added.Sprint("+ "+expandTabs(line)))
				}
			}
		}
	}
}

// writeSnippet prints the line holding span.Start, up to context lines above
// it, and a caret line under the span. Spans that continue past the line are
// underlined to its end.
func writeSnippet(b *strings.Builder, f *source.File, span source.Span, context int, pal palette, mark *color.Color) {
	start, ok := f.LineCol(span.Start)
	if !ok {
		return
	}
	first := start.Line
	if context > 0 {
		if uint32(context) >= first {
			first = 1
		} else {
			first -= uint32(context)
		}
	}
	width := len(strconv.FormatUint(uint64(start.Line), 10))
	for ln := first; ln <= start.Line; ln++ {
		gutter := fmt.Sprintf("%*d |", width, ln)
		fmt.Fprintf(b, "%s %s\n", pal.gutter.Sprint(gutter), expandTabs(f.GetLine(ln)))
	}

	line := f.GetLine(start.Line)
	col := min(int(start.Col-1), len(line))
	prefix := expandTabs(line[:col])
	rest := line[col:]
	if span.End > span.Start {
		if n := int(span.End - span.Start); n < len(rest) {
			rest = rest[:n]
		}
	} else {
		rest = ""
	}
	underline := max(1, runewidth.StringWidth(expandTabs(rest)))
	marker := "^" + strings.Repeat("~", underline-1)
	fmt.Fprintf(b, "%s %s%s\n",
		pal.gutter.Sprint(strings.Repeat(" ", width)+" |"),
		strings.Repeat(" ", runewidth.StringWidth(prefix)),
		mark.Sprint(marker),
	)
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

// Summary prints the closing line of a lint run.
func Summary(w io.Writer, violations, serious, files int, colored bool) error {
	pal := newPalette(colored)
	noun := "violations"
	if violations == 1 {
		noun = "violation"
	}
	fileNoun := "files"
	if files == 1 {
		fileNoun = "file"
	}
	text := fmt.Sprintf("Done linting! Found %d %s, %d serious in %d %s.", violations, noun, serious, files, fileNoun)
	switch {
	case serious > 0:
		text = pal.error.Sprint(text)
	case violations > 0:
		text = pal.warning.Sprint(text)
	default:
		text = pal.added.Sprint(text)
	}
	_, err := fmt.Fprintln(w, text)
	return err
}
