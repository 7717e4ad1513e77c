package tree

import "github.com/chazu/strata/pkg/layer"

// Remove excises the first node whose id is id, together with its subtree,
// and returns it. removed is the node from layers itself, not a copy; it is
// nil when nothing matched.
func Remove(layers []*layer.Node, id string) (out []*layer.Node, removed *layer.Node) {
	if id == "" {
		return layers, nil
	}
	out, _ = rewrite(layers, hasID(id), func(siblings []*layer.Node, i int) []*layer.Node {
		removed = siblings[i]
		return removeAt(siblings, i)
	})
	return out, removed
}

// Delete is Remove without the excised node. Deleting a missing id is a
// no-op.
func Delete(layers []*layer.Node, id string) []*layer.Node {
	out, _ := Remove(layers, id)
	return out
}
