package engine

import (
	"fmt"

	"github.com/chazu/strata/pkg/layer"
	"github.com/chazu/strata/pkg/tree"
)

// session is the document a script edits. Builtins replace layers with
// the result of each tree operation; the base document passed to
// Evaluate is shared, never modified.
type session struct {
	layers   []*layer.Node
	newID    layer.IDFunc
	warnings []EvalWarning
}

func (s *session) warnf(nodeID, format string, args ...any) {
	s.warnings = append(s.warnings, EvalWarning{
		Message: fmt.Sprintf(format, args...),
		NodeID:  nodeID,
	})
}

// checkNew rejects a layer that would break id uniqueness once added to
// the document.
func (s *session) checkNew(n *layer.Node) error {
	return tree.CheckInsert(s.layers, n)
}

// document returns the edited layers together with the warnings raised
// by the script and by validating the result.
func (s *session) document() *Document {
	doc := &Document{Layers: s.layers, Warnings: s.warnings}
	if doc.Layers == nil {
		doc.Layers = []*layer.Node{}
	}
	for _, v := range layer.Validate(s.layers) {
		doc.Warnings = append(doc.Warnings, EvalWarning{
			Message: fmt.Sprintf("[%s] %s", v.Severity, v.Message),
			NodeID:  v.NodeID,
		})
	}
	return doc
}
