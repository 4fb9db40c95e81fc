package match

import (
	"sort"

	"github.com/rbrovko/SwiftLint/internal/source"
)

// Mask is a sorted set of disjoint byte ranges excluded from matching.
// The zero Mask excludes nothing.
type Mask struct {
	spans []source.Span
}

// NewMask sorts and merges spans into a Mask. Empty spans are ignored.
// Overlapping and touching spans are merged.
func NewMask(spans ...[]source.Span) Mask {
	var all []source.Span
	for _, group := range spans {
		for _, sp := range group {
			if !sp.Empty() {
				all = append(all, sp)
			}
		}
	}
	if len(all) == 0 {
		return Mask{}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Start != all[j].Start {
			return all[i].Start < all[j].Start
		}
		return all[i].End < all[j].End
	})
	merged := all[:1]
	for _, sp := range all[1:] {
		last := &merged[len(merged)-1]
		if sp.Start <= last.End {
			if sp.End > last.End {
				last.End = sp.End
			}
			continue
		}
		merged = append(merged, sp)
	}
	return Mask{spans: merged}
}

// Spans returns the merged ranges in ascending order.
func (m Mask) Spans() []source.Span {
	return m.spans
}

// Len returns the number of merged ranges.
func (m Mask) Len() int {
	return len(m.spans)
}

// Intersects reports whether [start, end) shares at least one byte with a
// masked range. An empty range intersects when it lies strictly inside one.
func (m Mask) Intersects(start, end uint32) bool {
	// first range ending after start
	i := sort.Search(len(m.spans), func(i int) bool { return m.spans[i].End > start })
	if i == len(m.spans) {
		return false
	}
	sp := m.spans[i]
	if start == end {
		return sp.Start < start
	}
	return sp.Start < end
}

// Covers reports whether off lies inside a masked range.
func (m Mask) Covers(off uint32) bool {
	return m.Intersects(off, off+1)
}
