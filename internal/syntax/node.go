package syntax

import (
	"github.com/rbrovko/SwiftLint/internal/source"
)

// Extent is an offset/length pair in bytes.
type Extent struct {
	Offset uint32
	Length uint32
}

// End returns the exclusive end offset.
func (e Extent) End() uint32 {
	return e.Offset + e.Length
}

// Span returns the extent as a span of file.
func (e Extent) Span(file source.FileID) source.Span {
	return source.Span{File: file, Start: e.Offset, End: e.End()}
}

// Node is one element of the structural tree produced by the front end.
// Optional extents are nil when the front end did not report them. The engine
// only reads nodes.
type Node struct {
	Kind     Kind
	RawKind  string
	Range    *Extent
	Name     *Extent
	Body     *Extent
	Children []*Node
}

// NameEnd returns the end of the name extent.
func (n *Node) NameEnd() (uint32, bool) {
	if n == nil || n.Name == nil {
		return 0, false
	}
	return n.Name.End(), true
}

// Offset returns the start of the node's own range.
func (n *Node) Offset() (uint32, bool) {
	if n == nil || n.Range == nil {
		return 0, false
	}
	return n.Range.Offset, true
}

// HasBody reports whether the node carries a non-empty body.
func (n *Node) HasBody() bool {
	return n != nil && n.Body != nil && n.Body.Length > 0
}
