package source

import (
	"sort"
	"unicode/utf8"
)

// The position index maps between three coordinate systems over one snapshot:
//
//   - byte offsets, used by the structural tree and by edits;
//   - scan offsets (code point indexes), used by the pattern matcher;
//   - 1-based line/column, used in reports.
//
// Lookups of offsets that do not fall on a code point boundary, or lie past
// the end of the content, report ok == false.

func buildScanIndex(content []byte) ([]rune, []uint32) {
	ascii := true
	for _, b := range content {
		if b >= utf8.RuneSelf {
			ascii = false
			break
		}
	}
	if ascii {
		runes := make([]rune, len(content))
		for i, b := range content {
			runes[i] = rune(b)
		}
		return runes, nil
	}

	runes := make([]rune, 0, len(content))
	starts := make([]uint32, 0, len(content)+1)
	for i := 0; i < len(content); {
		r, size := utf8.DecodeRune(content[i:])
		runes = append(runes, r)
		starts = append(starts, uint32(i))
		i += size
	}
	starts = append(starts, uint32(len(content)))
	return runes, starts
}

// Runes returns the decoded text scanned by the pattern matcher. The slice
// must not be modified.
func (f *File) Runes() []rune {
	return f.runes
}

// Len returns the content length in bytes.
func (f *File) Len() uint32 {
	return uint32(len(f.Content))
}

// IsBoundary reports whether off is a valid code point boundary (EOF included).
func (f *File) IsBoundary(off uint32) bool {
	_, ok := f.ScanOffset(off)
	return ok
}

// ScanOffset converts a byte offset into a scan offset.
func (f *File) ScanOffset(off uint32) (int, bool) {
	if off > f.Len() {
		return 0, false
	}
	if f.runeStart == nil {
		return int(off), true
	}
	i := sort.Search(len(f.runeStart), func(i int) bool { return f.runeStart[i] >= off })
	if i < len(f.runeStart) && f.runeStart[i] == off {
		return i, true
	}
	return 0, false
}

// ByteOffset converts a scan offset back into a byte offset.
func (f *File) ByteOffset(scan int) (uint32, bool) {
	if scan < 0 || scan > len(f.runes) {
		return 0, false
	}
	if f.runeStart == nil {
		return uint32(scan), true
	}
	return f.runeStart[scan], true
}

// ScanRange converts a byte span of this file into a scan range.
func (f *File) ScanRange(span Span) (start, length int, ok bool) {
	if span.End < span.Start {
		return 0, 0, false
	}
	start, ok = f.ScanOffset(span.Start)
	if !ok {
		return 0, 0, false
	}
	end, ok := f.ScanOffset(span.End)
	if !ok {
		return 0, 0, false
	}
	return start, end - start, true
}

// ByteSpan converts a scan range into a byte span of this file.
func (f *File) ByteSpan(start, length int) (Span, bool) {
	if length < 0 {
		return Span{}, false
	}
	from, ok := f.ByteOffset(start)
	if !ok {
		return Span{}, false
	}
	to, ok := f.ByteOffset(start + length)
	if !ok {
		return Span{}, false
	}
	return Span{File: f.ID, Start: from, End: to}, true
}

// LineCol resolves a byte offset into a 1-based line and byte column.
func (f *File) LineCol(off uint32) (LineCol, bool) {
	if !f.IsBoundary(off) {
		return LineCol{}, false
	}
	return toLineCol(f.LineIdx, off), true
}

// Offset is the inverse of LineCol.
func (f *File) Offset(pos LineCol) (uint32, bool) {
	if pos.Line == 0 || pos.Col == 0 {
		return 0, false
	}
	nLines := uint32(len(f.LineIdx)) + 1
	if pos.Line > nLines {
		return 0, false
	}
	var start uint32
	if pos.Line > 1 {
		start = f.LineIdx[pos.Line-2] + 1
	}
	end := f.Len()
	if pos.Line-1 < uint32(len(f.LineIdx)) {
		end = f.LineIdx[pos.Line-1]
	}
	off := start + pos.Col - 1
	if off > end || !f.IsBoundary(off) {
		return 0, false
	}
	return off, true
}

// Span returns the span [start, start+length) in this file, or false when
// it does not fit the content.
func (f *File) Span(start, length uint32) (Span, bool) {
	end := start + length
	if end < start || end > f.Len() {
		return Span{}, false
	}
	return Span{File: f.ID, Start: start, End: end}, true
}

// Text returns the bytes covered by span as a string.
func (f *File) Text(span Span) string {
	if span.End > f.Len() || span.Start > span.End {
		return ""
	}
	return string(f.Content[span.Start:span.End])
}
