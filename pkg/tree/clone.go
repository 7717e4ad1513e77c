package tree

import "github.com/chazu/strata/pkg/layer"

// CloneOffsetX and CloneOffsetY are added to the position of a cloned node
// so the copy does not sit exactly on top of its source.
const (
	CloneOffsetX = 10
	CloneOffsetY = 10
)

// CopySuffix is appended to the name of a cloned node.
const CopySuffix = " copy"

// Clone returns an independent deep copy of n in which every node, the
// copy's descendants included, carries a fresh id from newID. Only the top
// of the copy is renamed and offset by (CloneOffsetX, CloneOffsetY);
// descendants keep their names and positions. A nil newID mints UUIDs.
func Clone(n *layer.Node, newID layer.IDFunc) *layer.Node {
	if newID == nil {
		newID = layer.NewUUID
	}
	c := n.Copy()
	reassignIDs(c, newID)
	c.Name = n.Name + CopySuffix
	c.Position = n.Position.Add(layer.Vec2{X: CloneOffsetX, Y: CloneOffsetY})
	return c
}

// reassignIDs gives every node under n, n included, a new id. n must be a
// fresh copy that no tree references yet.
func reassignIDs(n *layer.Node, newID layer.IDFunc) {
	n.ID = newID()
	for _, c := range n.Children() {
		reassignIDs(c, newID)
	}
}

// Duplicate clones the node with id and inserts the clone right after it.
// It returns the clone's id; ok is false when id is not in layers.
func Duplicate(layers []*layer.Node, id string, newID layer.IDFunc) (out []*layer.Node, cloneID string, ok bool) {
	src := Find(layers, id)
	if src == nil {
		return layers, "", false
	}
	c := Clone(src, newID)
	out, ok = InsertAfter(layers, id, c)
	return out, c.ID, ok
}
