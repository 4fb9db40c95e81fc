package match

import (
	"fmt"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/rbrovko/SwiftLint/internal/source"
)

// DefaultTimeout bounds a single search. A search that times out yields the
// matches found so far.
const DefaultTimeout = 2 * time.Second

// Pattern is a compiled primary pattern with an optional veto. A primary
// match qualifies when it does not intersect the mask and the veto does not
// match immediately at its end. The reported range is the capture group.
type Pattern struct {
	primary *regexp2.Regexp
	veto    *regexp2.Regexp
	capture int
}

// Compile compiles primary and, when non-empty, veto. capture selects the
// reported group; 0 reports the whole match.
func Compile(primary, veto string, capture int) (*Pattern, error) {
	re, err := regexp2.Compile(primary, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", primary, err)
	}
	re.MatchTimeout = DefaultTimeout
	if capture < 0 || capture >= len(re.GetGroupNumbers()) {
		return nil, fmt.Errorf("pattern %q has no capture group %d", primary, capture)
	}
	p := &Pattern{primary: re, capture: capture}
	if veto != "" {
		v, err := regexp2.Compile(`^(?:`+veto+`)`, regexp2.None)
		if err != nil {
			return nil, fmt.Errorf("compile veto %q: %w", veto, err)
		}
		v.MatchTimeout = DefaultTimeout
		p.veto = v
	}
	return p, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(primary, veto string, capture int) *Pattern {
	p, err := Compile(primary, veto, capture)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Pattern) String() string {
	return p.primary.String()
}

// Whole returns the window covering all of f.
func Whole(f *source.File) source.Span {
	return source.Span{File: f.ID, Start: 0, End: f.Len()}
}

// FindAll searches the whole file.
func (p *Pattern) FindAll(f *source.File, mask Mask) []source.Span {
	return p.Find(f, mask, Whole(f))
}

// Find returns the capture ranges of all qualifying matches that lie inside
// window, in ascending order. Windows that do not resolve to code point
// boundaries produce no matches. Matches whose offsets cannot be converted
// back to bytes are dropped.
func (p *Pattern) Find(f *source.File, mask Mask, window source.Span) []source.Span {
	if f == nil {
		return nil
	}
	start, length, ok := f.ScanRange(window)
	if !ok {
		return nil
	}
	runes := f.Runes()
	input := runes[:start+length]

	var out []source.Span
	m, err := p.primary.FindRunesMatchStartingAt(input, start)
	for err == nil && m != nil {
		if sp, ok := p.qualify(f, mask, runes, m); ok {
			out = append(out, sp)
		}
		m, err = p.primary.FindNextMatch(m)
	}
	return out
}

func (p *Pattern) qualify(f *source.File, mask Mask, runes []rune, m *regexp2.Match) (source.Span, bool) {
	whole, ok := f.ByteSpan(m.Index, m.Length)
	if !ok || mask.Intersects(whole.Start, whole.End) {
		return source.Span{}, false
	}
	if p.veto != nil {
		end := m.Index + m.Length
		vetoed, err := p.veto.MatchRunes(runes[end:])
		if err != nil || vetoed {
			return source.Span{}, false
		}
	}
	g := m.GroupByNumber(p.capture)
	if g == nil || len(g.Captures) == 0 {
		return source.Span{}, false
	}
	return f.ByteSpan(g.Index, g.Length)
}
