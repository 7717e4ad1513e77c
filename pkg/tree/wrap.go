package tree

import "github.com/chazu/strata/pkg/layer"

// anchorTolerance is how far an anchor may sit from the center and still
// count as centered.
const anchorTolerance = 1e-6

// Wrap replaces the first node with id by a new group that holds it as its
// only child. The group takes over the node's name, position, size and
// transform (anchor, opacity, rotations, flip) and records the node's kind
// as its display kind. The child keeps its id and is re-centred in the
// group's local space: rotation zero, no X/Y rotation, anchor at the
// center, positioned at the middle of the group. The result renders the
// same as before.
//
// Wrapping a group, or a missing id, is a no-op and returns ok false.
func Wrap(layers []*layer.Node, id string, newID layer.IDFunc) (out []*layer.Node, groupID string, ok bool) {
	target := Find(layers, id)
	if target == nil || target.IsGroup() {
		return layers, "", false
	}
	if newID == nil {
		newID = layer.NewUUID
	}
	groupID = newID()
	out, ok = rewrite(layers, hasID(id), func(siblings []*layer.Node, i int) []*layer.Node {
		return replaceAt(siblings, i, wrapNode(siblings[i], groupID))
	})
	return out, groupID, ok
}

func wrapNode(n *layer.Node, groupID string) *layer.Node {
	display := n.Kind()

	child := n.Copy()
	child.Rotation = layer.Ptr(0.0)
	child.RotationX = nil
	child.RotationY = nil
	if child.AnchorPoint == nil || !child.AnchorPoint.Near(layer.CenterAnchor, anchorTolerance) {
		child.AnchorPoint = layer.Ptr(layer.CenterAnchor)
	}
	child.Position = n.Size.Center()

	return &layer.Node{
		ID:              groupID,
		Name:            n.Name,
		Position:        n.Position,
		Size:            n.Size,
		AnchorPoint:     copyPtr(n.AnchorPoint),
		Opacity:         copyPtr(n.Opacity),
		Rotation:        copyPtr(n.Rotation),
		RotationX:       copyPtr(n.RotationX),
		RotationY:       copyPtr(n.RotationY),
		GeometryFlipped: copyPtr(n.GeometryFlipped),
		Data: layer.GroupData{
			Children:    []*layer.Node{child},
			DisplayKind: &display,
		},
	}
}
