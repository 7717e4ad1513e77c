package layer

// Walk visits layers in pre-order, depth first, left to right: a node is
// visited before its children, and all of its descendants before its next
// sibling. depth is 0 for roots. Returning false from fn stops the walk;
// Walk reports whether it ran to completion.
func Walk(layers []*Node, fn func(n *Node, depth int) bool) bool {
	return walk(layers, 0, fn)
}

func walk(layers []*Node, depth int, fn func(n *Node, depth int) bool) bool {
	for _, n := range layers {
		if n == nil {
			continue
		}
		if !fn(n, depth) {
			return false
		}
		if !walk(n.Children(), depth+1, fn) {
			return false
		}
	}
	return true
}

// Count returns the total number of nodes in layers, at any depth.
func Count(layers []*Node) int {
	count := 0
	Walk(layers, func(*Node, int) bool {
		count++
		return true
	})
	return count
}

// IDs returns the ids of all nodes in pre-order.
func IDs(layers []*Node) []string {
	var ids []string
	Walk(layers, func(n *Node, _ int) bool {
		ids = append(ids, n.ID)
		return true
	})
	return ids
}
