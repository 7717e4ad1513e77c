package tree

import "github.com/chazu/strata/pkg/layer"

// Append is the index that places an inserted node after the existing
// children of a group.
const Append = -1

// InsertIntoGroup places n among the children of the first group whose id
// is groupID, so that n ends up at position index. An index that is
// negative or beyond the current child count appends. Nodes with groupID
// that are not groups are skipped. inserted is false, and layers is
// returned as is, when there is no such group.
func InsertIntoGroup(layers []*layer.Node, groupID string, n *layer.Node, index int) (out []*layer.Node, inserted bool) {
	if groupID == "" {
		return layers, false
	}
	isGroup := func(l *layer.Node) bool { return l.ID == groupID && l.IsGroup() }
	return rewrite(layers, isGroup, func(siblings []*layer.Node, i int) []*layer.Node {
		g := siblings[i]
		kids := g.Children()
		at := index
		if at < 0 || at > len(kids) {
			at = len(kids)
		}
		return replaceAt(siblings, i, g.WithChildren(insertAt(kids, at, n)))
	})
}

// InsertBefore places n immediately before the first node whose id is
// targetID, in that node's sibling list (the roots for a root target).
func InsertBefore(layers []*layer.Node, targetID string, n *layer.Node) (out []*layer.Node, inserted bool) {
	if targetID == "" {
		return layers, false
	}
	return rewrite(layers, hasID(targetID), func(siblings []*layer.Node, i int) []*layer.Node {
		return insertAt(siblings, i, n)
	})
}

// InsertAfter places n immediately after the first node whose id is
// targetID, in that node's sibling list.
func InsertAfter(layers []*layer.Node, targetID string, n *layer.Node) (out []*layer.Node, inserted bool) {
	if targetID == "" {
		return layers, false
	}
	return rewrite(layers, hasID(targetID), func(siblings []*layer.Node, i int) []*layer.Node {
		return insertAt(siblings, i+1, n)
	})
}
