package directive

import (
	"sort"

	"github.com/rbrovko/SwiftLint/internal/source"
)

// Regions holds disabled byte ranges per rule ID. The All key applies to
// every rule. The zero value suppresses nothing.
type Regions struct {
	byRule   map[string][]source.Span
	commands []Command
	bad      []source.Span
}

// Scan parses the directives found in comments and resolves them into
// regions of f. comments must be ascending.
func Scan(f *source.File, comments []source.Span) *Regions {
	r := &Regions{byRule: make(map[string][]source.Span)}
	for _, c := range comments {
		cmds, bad := Parse(f.ID, c.Start, f.Text(c))
		r.commands = append(r.commands, cmds...)
		r.bad = append(r.bad, bad...)
	}

	open := make(map[string]uint32)   // rule -> start of the active disable
	carved := make(map[string]uint32) // rule -> start of an enable inside "all"
	closeCarves := func(at uint32) {
		for id, start := range carved {
			r.carve(id, source.Span{File: f.ID, Start: start, End: at})
			delete(carved, id)
		}
	}
	for _, cmd := range r.commands {
		if cmd.Modifier != ModNone {
			line, ok := lineSpan(f, cmd)
			if !ok {
				continue
			}
			for _, id := range cmd.Rules {
				if cmd.Action == Disable {
					r.add(id, line)
				} else {
					r.carve(id, line)
				}
			}
			continue
		}
		at := cmd.Span.Start
		for _, id := range cmd.Rules {
			switch cmd.Action {
			case Disable:
				if start, ok := carved[id]; ok {
					r.carve(id, source.Span{File: f.ID, Start: start, End: at})
					delete(carved, id)
				}
				if _, ok := open[id]; !ok {
					open[id] = at
				}
			case Enable:
				if id == All {
					for other, start := range open {
						r.add(other, source.Span{File: f.ID, Start: start, End: at})
						delete(open, other)
					}
					closeCarves(at)
					continue
				}
				if start, ok := open[id]; ok {
					r.add(id, source.Span{File: f.ID, Start: start, End: at})
					delete(open, id)
				}
				if _, ok := open[All]; ok {
					if _, ok := carved[id]; !ok {
						carved[id] = at
					}
				}
			}
		}
	}
	for id, start := range open {
		r.add(id, source.Span{File: f.ID, Start: start, End: f.Len()})
	}
	closeCarves(f.Len())
	for id := range r.byRule {
		spans := r.byRule[id]
		sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
	}
	return r
}

// lineSpan returns the line a modified command targets, newline included.
func lineSpan(f *source.File, cmd Command) (source.Span, bool) {
	pos, ok := f.LineCol(cmd.Span.Start)
	if !ok {
		return source.Span{}, false
	}
	line := pos.Line
	switch cmd.Modifier {
	case ModNext:
		line++
	case ModPrevious:
		if line == 1 {
			return source.Span{}, false
		}
		line--
	}
	start, ok := f.Offset(source.LineCol{Line: line, Col: 1})
	if !ok {
		return source.Span{}, false
	}
	end := f.Len()
	if int(line-1) < len(f.LineIdx) {
		end = f.LineIdx[line-1] + 1
	}
	return source.Span{File: f.ID, Start: start, End: end}, true
}

func (r *Regions) add(id string, sp source.Span) {
	if sp.End <= sp.Start {
		return
	}
	r.byRule[id] = append(r.byRule[id], sp)
}

// carve exempts id inside sp from both its own and "all" regions; used by
// enable commands that re-enable a rule while a wider disable stays open.
func (r *Regions) carve(id string, sp source.Span) {
	if sp.End <= sp.Start {
		return
	}
	r.byRule[enabledKey(id)] = append(r.byRule[enabledKey(id)], sp)
}

func enabledKey(id string) string {
	return "+" + id
}

// Suppressed reports whether rule is disabled at the start of span.
func (r *Regions) Suppressed(rule string, span source.Span) bool {
	if r == nil {
		return false
	}
	at := span.Start
	disabled := contains(r.byRule[rule], at) || contains(r.byRule[All], at)
	return disabled && !contains(r.byRule[enabledKey(rule)], at)
}

func contains(spans []source.Span, off uint32) bool {
	for _, sp := range spans {
		if sp.Start > off {
			return false
		}
		if off < sp.End {
			return true
		}
	}
	return false
}

// Spans returns the regions disabling rule, including "all" regions.
func (r *Regions) Spans(rule string) []source.Span {
	if r == nil {
		return nil
	}
	out := append([]source.Span(nil), r.byRule[rule]...)
	return append(out, r.byRule[All]...)
}

// Commands returns every parsed command in source order.
func (r *Regions) Commands() []Command {
	if r == nil {
		return nil
	}
	return r.commands
}

// Invalid returns the spans of malformed commands.
func (r *Regions) Invalid() []source.Span {
	if r == nil {
		return nil
	}
	return r.bad
}
