package syntax

// Walk visits root and every descendant in pre-order together with its
// parent (nil for root). Returning false from visit skips the node's subtree.
func Walk(root *Node, visit func(n, parent *Node) bool) {
	if root == nil {
		return
	}
	walk(root, nil, visit)
}

func walk(n, parent *Node, visit func(n, parent *Node) bool) {
	if !visit(n, parent) {
		return
	}
	for _, child := range n.Children {
		if child != nil {
			walk(child, n, visit)
		}
	}
}
