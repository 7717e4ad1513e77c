package tree

import (
	"github.com/chazu/strata/pkg/layer"
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// CheckInsert reports why n cannot be added to layers without breaking id
// uniqueness: n's own subtree fails validation (an empty or repeated id),
// or one of its ids is already in layers. It returns nil when n fits.
func CheckInsert(layers []*layer.Node, n *layer.Node) error {
	if n == nil {
		return errors.New("nil layer")
	}
	isError := func(v layer.ValidationError) bool { return v.Severity == layer.SeverityError }
	if v, ok := lo.Find(layer.Validate([]*layer.Node{n}), isError); ok {
		return v
	}
	for _, id := range layer.IDs([]*layer.Node{n}) {
		if Contains(layers, id) {
			return errors.Newf("id %q is already in the document", id)
		}
	}
	return nil
}
