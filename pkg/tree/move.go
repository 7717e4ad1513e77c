package tree

import (
	"fmt"

	"github.com/chazu/strata/pkg/layer"
)

// Placement says where Move puts a node relative to its target.
type Placement int

const (
	Before Placement = iota // sibling immediately before the target
	After                   // sibling immediately after the target
	Inside                  // child of the target group
)

var placementNames = [...]string{Before: "before", After: "after", Inside: "inside"}

func (p Placement) String() string {
	if p >= 0 && int(p) < len(placementNames) {
		return placementNames[p]
	}
	return fmt.Sprintf("Placement(%d)", int(p))
}

// ParsePlacement maps "before", "after" or "inside" to a Placement.
func ParsePlacement(s string) (Placement, bool) {
	for i, name := range placementNames {
		if name == s {
			return Placement(i), true
		}
	}
	return 0, false
}

// Move re-parents the node with id next to, or into, the node with
// targetID. For Inside, index positions the node among the target's
// children as in InsertIntoGroup. The node keeps its id and geometry.
//
// Move refuses, returning layers and false, when either id is missing,
// when the target is the node itself or one of its descendants, or when
// Inside names a target that is not a group.
func Move(layers []*layer.Node, id, targetID string, where Placement, index int) ([]*layer.Node, bool) {
	n := Find(layers, id)
	target := Find(layers, targetID)
	if n == nil || target == nil || Contains([]*layer.Node{n}, targetID) {
		return layers, false
	}
	if where == Inside && !target.IsGroup() {
		return layers, false
	}
	rest, _ := Remove(layers, id)
	var (
		out []*layer.Node
		ok  bool
	)
	switch where {
	case Before:
		out, ok = InsertBefore(rest, targetID, n)
	case After:
		out, ok = InsertAfter(rest, targetID, n)
	case Inside:
		out, ok = InsertIntoGroup(rest, targetID, n, index)
	}
	if !ok {
		return layers, false
	}
	return out, true
}
