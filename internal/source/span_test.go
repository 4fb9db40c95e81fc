package source

import (
	"testing"
)

func TestSpan_ShiftLeft(t *testing.T) {
	tests := []struct {
		name     string
		span     Span
		shift    uint32
		expected Span
	}{
		{
			name:     "shift normal span left by 5",
			span:     Span{File: 1, Start: 10, End: 20},
			shift:    5,
			expected: Span{File: 1, Start: 5, End: 15},
		},
		{
			name:     "shift span left by 0",
			span:     Span{File: 1, Start: 10, End: 20},
			shift:    0,
			expected: Span{File: 1, Start: 10, End: 20},
		},
		{
			name:     "shift equals start - boundary case",
			span:     Span{File: 1, Start: 10, End: 20},
			shift:    10,
			expected: Span{File: 1, Start: 0, End: 10},
		},
		{
			name:     "shift larger than start - returns original",
			span:     Span{File: 1, Start: 10, End: 20},
			shift:    15,
			expected: Span{File: 1, Start: 10, End: 20},
		},
		{
			name:     "shift zero-length span",
			span:     Span{File: 1, Start: 10, End: 10},
			shift:    3,
			expected: Span{File: 1, Start: 7, End: 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.span.ShiftLeft(tt.shift)
			if result != tt.expected {
				t.Errorf("ShiftLeft() = %+v, want %+v", result, tt.expected)
			}
		})
	}
}

func TestSpan_ShiftRight(t *testing.T) {
	got := Span{File: 2, Start: 100, End: 150}.ShiftRight(1)
	want := Span{File: 2, Start: 101, End: 151}
	if got != want {
		t.Fatalf("ShiftRight() = %+v, want %+v", got, want)
	}
}

func TestSpan_Intersects(t *testing.T) {
	tests := []struct {
		name string
		a, b Span
		want bool
	}{
		{"disjoint", Span{Start: 0, End: 3}, Span{Start: 3, End: 5}, false},
		{"overlap", Span{Start: 0, End: 4}, Span{Start: 3, End: 5}, true},
		{"nested", Span{Start: 0, End: 10}, Span{Start: 3, End: 5}, true},
		{"empty inside", Span{Start: 4, End: 4}, Span{Start: 3, End: 5}, true},
		{"empty at end", Span{Start: 5, End: 5}, Span{Start: 3, End: 5}, false},
		{"both empty same", Span{Start: 5, End: 5}, Span{Start: 5, End: 5}, true},
		{"different files", Span{File: 1, Start: 0, End: 4}, Span{File: 2, Start: 0, End: 4}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersects(tt.b); got != tt.want {
				t.Errorf("%v.Intersects(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if got := tt.b.Intersects(tt.a); got != tt.want {
				t.Errorf("%v.Intersects(%v) = %v, want %v", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestSpan_CoverAndContains(t *testing.T) {
	a := Span{File: 1, Start: 10, End: 20}
	b := Span{File: 1, Start: 5, End: 12}

	cover := a.Cover(b)
	if cover != (Span{File: 1, Start: 5, End: 20}) {
		t.Fatalf("Cover() = %+v", cover)
	}
	if !cover.Contains(a) || !cover.Contains(b) {
		t.Fatalf("cover %v must contain both inputs", cover)
	}
	if a.Contains(b) {
		t.Fatalf("%v must not contain %v", a, b)
	}
	if got := a.Cover(Span{File: 2, Start: 0, End: 100}); got != a {
		t.Fatalf("Cover across files changed span: %+v", got)
	}
}
