package syntax

import "fmt"

// Validate checks that every extent of the tree lies within fileLen and that
// every child range lies within its parent's range. Nodes without a range
// inherit the nearest enclosing one.
func Validate(root *Node, fileLen uint32) error {
	if root == nil {
		return nil
	}
	return validate(root, Extent{Offset: 0, Length: fileLen}, fileLen, "/")
}

func validate(n *Node, outer Extent, fileLen uint32, path string) error {
	for _, e := range []struct {
		what string
		ext  *Extent
	}{{"range", n.Range}, {"name", n.Name}, {"body", n.Body}} {
		if e.ext != nil && e.ext.End() > fileLen {
			return fmt.Errorf("%w: node %s (%s): %s [%d,%d) beyond content length %d",
				ErrMalformedTree, path, n.RawKind, e.what, e.ext.Offset, e.ext.End(), fileLen)
		}
	}
	if n.Range != nil {
		if n.Range.Offset < outer.Offset || n.Range.End() > outer.End() {
			return fmt.Errorf("%w: node %s (%s): range [%d,%d) outside parent [%d,%d)",
				ErrMalformedTree, path, n.RawKind, n.Range.Offset, n.Range.End(), outer.Offset, outer.End())
		}
		outer = *n.Range
	}
	for i, child := range n.Children {
		if child == nil {
			return fmt.Errorf("%w: node %s: nil child %d", ErrMalformedTree, path, i)
		}
		if err := validate(child, outer, fileLen, fmt.Sprintf("%s%d/", path, i)); err != nil {
			return err
		}
	}
	return nil
}
