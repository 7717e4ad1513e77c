package tree

import "github.com/chazu/strata/pkg/layer"

// rewrite finds the first node in pre-order for which match returns true
// and replaces the sibling slice holding it by fn(siblings, i). The groups
// on the path from the roots to that slice are copied with their new
// children; everything else is shared with layers. fn must not modify
// siblings.
func rewrite(
	layers []*layer.Node,
	match func(*layer.Node) bool,
	fn func(siblings []*layer.Node, i int) []*layer.Node,
) ([]*layer.Node, bool) {
	for i, n := range layers {
		if n == nil {
			continue
		}
		if match(n) {
			return fn(layers, i), true
		}
		if !n.IsGroup() {
			continue
		}
		if children, ok := rewrite(n.Children(), match, fn); ok {
			return replaceAt(layers, i, n.WithChildren(children)), true
		}
	}
	return layers, false
}

func hasID(id string) func(*layer.Node) bool {
	return func(n *layer.Node) bool { return n.ID == id }
}

// replaceAt returns a copy of s with s[i] set to n.
func replaceAt(s []*layer.Node, i int, n *layer.Node) []*layer.Node {
	out := make([]*layer.Node, len(s))
	copy(out, s)
	out[i] = n
	return out
}

// insertAt returns a copy of s with n placed at index i, 0 <= i <= len(s).
func insertAt(s []*layer.Node, i int, n *layer.Node) []*layer.Node {
	out := make([]*layer.Node, 0, len(s)+1)
	out = append(out, s[:i]...)
	out = append(out, n)
	return append(out, s[i:]...)
}

// removeAt returns a copy of s without s[i].
func removeAt(s []*layer.Node, i int) []*layer.Node {
	out := make([]*layer.Node, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...)
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
