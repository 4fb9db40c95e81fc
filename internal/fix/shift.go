package fix

// MapOffset translates an offset of the content Rewrite was given into the
// rewritten content. applied must be ascending and disjoint, as returned in
// Result.Applied. Offsets strictly inside a replaced range have no image and
// report false.
func MapOffset(applied []Candidate, off uint32) (uint32, bool) {
	delta := 0
	for _, c := range applied {
		sp := c.Edit.Span
		if sp.Start >= off && !(sp.Empty() && sp.Start == off) {
			break
		}
		if off < sp.End {
			return 0, false
		}
		delta += len(c.Edit.NewText) - int(sp.End-sp.Start)
	}
	mapped := int(off) + delta
	if mapped < 0 {
		return 0, false
	}
	return uint32(mapped), true
}
