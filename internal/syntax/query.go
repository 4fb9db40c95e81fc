package syntax

// Query searches a subtree for nodes of kind Target. Per child of the node
// being searched: a Target child is recorded and not descended into; a child
// whose kind is in Transparent is descended into without being recorded;
// every other child is skipped together with its subtree.
type Query struct {
	Target      Kind
	Transparent KindSet
}

// Find runs the query below n and returns matches in document order.
func (q Query) Find(n *Node) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	q.collect(n, &out)
	return out
}

func (q Query) collect(n *Node, out *[]*Node) {
	for _, child := range n.Children {
		if child == nil {
			continue
		}
		switch {
		case child.Kind == q.Target:
			*out = append(*out, child)
		case q.Transparent.Has(child.Kind):
			q.collect(child, out)
		}
	}
}
