package tree

import "github.com/chazu/strata/pkg/layer"

// Find returns the first node in pre-order whose id is id, or nil.
// An empty id never matches.
func Find(layers []*layer.Node, id string) *layer.Node {
	if id == "" {
		return nil
	}
	return find(layers, id)
}

func find(layers []*layer.Node, id string) *layer.Node {
	for _, n := range layers {
		if n == nil {
			continue
		}
		if n.ID == id {
			return n
		}
		if found := find(n.Children(), id); found != nil {
			return found
		}
	}
	return nil
}

// Contains reports whether a node with id exists anywhere in layers.
// It agrees with Find for every input.
func Contains(layers []*layer.Node, id string) bool {
	return Find(layers, id) != nil
}

// Path returns the ids from a root down to the node with id, inclusive,
// or nil if there is no such node.
func Path(layers []*layer.Node, id string) []string {
	if id == "" {
		return nil
	}
	var path []string
	var visit func(layers []*layer.Node) bool
	visit = func(layers []*layer.Node) bool {
		for _, n := range layers {
			if n == nil {
				continue
			}
			path = append(path, n.ID)
			if n.ID == id || visit(n.Children()) {
				return true
			}
			path = path[:len(path)-1]
		}
		return false
	}
	if !visit(layers) {
		return nil
	}
	return path
}

// Parent returns the group holding the node with id. found is false when
// there is no such node; a root has a nil parent and found set.
func Parent(layers []*layer.Node, id string) (parent *layer.Node, found bool) {
	path := Path(layers, id)
	switch len(path) {
	case 0:
		return nil, false
	case 1:
		return nil, true
	}
	return Find(layers, path[len(path)-2]), true
}
