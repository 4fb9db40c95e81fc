package source

import (
	"testing"
)

func newFile(t *testing.T, content string) *File {
	t.Helper()
	fs := NewFileSet()
	return fs.Get(fs.AddVirtual("pos.swift", []byte(content)))
}

func TestLineColASCII(t *testing.T) {
	f := newFile(t, "a\nb\n")

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{Line: 1, Col: 1}},
		{1, LineCol{Line: 1, Col: 2}},
		{2, LineCol{Line: 2, Col: 1}},
		{3, LineCol{Line: 2, Col: 2}},
		{4, LineCol{Line: 3, Col: 1}},
	}
	for _, tt := range tests {
		got, ok := f.LineCol(tt.off)
		if !ok {
			t.Fatalf("LineCol(%d) failed", tt.off)
		}
		if got != tt.want {
			t.Errorf("LineCol(%d) = %+v, want %+v", tt.off, got, tt.want)
		}
		back, ok := f.Offset(got)
		if !ok || back != tt.off {
			t.Errorf("Offset(%+v) = %d,%v, want %d", got, back, ok, tt.off)
		}
	}

	if _, ok := f.LineCol(5); ok {
		t.Error("offset past EOF must not resolve")
	}
}

func TestScanOffsetMultibyte(t *testing.T) {
	// "é" is two bytes, "😀" is four bytes.
	f := newFile(t, "é😀x\n")

	tests := []struct {
		off  uint32
		scan int
		ok   bool
	}{
		{0, 0, true},
		{1, 0, false},
		{2, 1, true},
		{3, 0, false},
		{5, 0, false},
		{6, 2, true},
		{7, 3, true},
		{8, 4, true},
		{9, 0, false},
	}
	for _, tt := range tests {
		scan, ok := f.ScanOffset(tt.off)
		if ok != tt.ok {
			t.Fatalf("ScanOffset(%d) ok = %v, want %v", tt.off, ok, tt.ok)
		}
		if !ok {
			if _, lok := f.LineCol(tt.off); lok {
				t.Errorf("LineCol(%d) must fail on a non-boundary offset", tt.off)
			}
			continue
		}
		if scan != tt.scan {
			t.Errorf("ScanOffset(%d) = %d, want %d", tt.off, scan, tt.scan)
		}
		back, ok := f.ByteOffset(scan)
		if !ok || back != tt.off {
			t.Errorf("ByteOffset(%d) = %d,%v, want %d", scan, back, ok, tt.off)
		}
	}

	if _, ok := f.ByteOffset(5); ok {
		t.Error("scan offset past EOF must not resolve")
	}
	if _, ok := f.ByteOffset(-1); ok {
		t.Error("negative scan offset must not resolve")
	}
}

func TestScanRangeRoundTrip(t *testing.T) {
	f := newFile(t, "let é = \"ü\"\n")

	span := Span{File: f.ID, Start: 4, End: 6} // "é"
	start, length, ok := f.ScanRange(span)
	if !ok {
		t.Fatal("ScanRange failed")
	}
	if start != 4 || length != 1 {
		t.Fatalf("ScanRange = (%d,%d), want (4,1)", start, length)
	}
	back, ok := f.ByteSpan(start, length)
	if !ok || back != span {
		t.Fatalf("ByteSpan = %+v,%v, want %+v", back, ok, span)
	}

	if _, _, ok := f.ScanRange(Span{File: f.ID, Start: 5, End: 6}); ok {
		t.Fatal("ScanRange must fail when the span starts inside a code point")
	}
	if got := string(f.Runes()[start : start+length]); got != "é" {
		t.Fatalf("runes slice = %q", got)
	}
}

func TestOffsetRejectsOutOfLine(t *testing.T) {
	f := newFile(t, "ab\ncd")

	if _, ok := f.Offset(LineCol{Line: 1, Col: 5}); ok {
		t.Error("column past line end must not resolve")
	}
	if _, ok := f.Offset(LineCol{Line: 3, Col: 1}); ok {
		t.Error("missing line must not resolve")
	}
	if off, ok := f.Offset(LineCol{Line: 2, Col: 3}); !ok || off != 5 {
		t.Errorf("end of last line = %d,%v, want 5", off, ok)
	}
}

func TestFileSpanAndText(t *testing.T) {
	f := newFile(t, "hello world")

	sp, ok := f.Span(6, 5)
	if !ok {
		t.Fatal("Span failed")
	}
	if got := f.Text(sp); got != "world" {
		t.Fatalf("Text = %q", got)
	}
	if _, ok := f.Span(8, 10); ok {
		t.Fatal("Span past EOF must fail")
	}
}
