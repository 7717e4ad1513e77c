package tree

import "github.com/chazu/strata/pkg/layer"

// Update replaces the first node whose id is id with p applied to it.
// Sibling subtrees keep their identity. A missing id returns layers.
func Update(layers []*layer.Node, id string, p layer.Patch) []*layer.Node {
	if id == "" {
		return layers
	}
	out, _ := rewrite(layers, hasID(id), func(siblings []*layer.Node, i int) []*layer.Node {
		return replaceAt(siblings, i, p.Apply(siblings[i]))
	})
	return out
}
