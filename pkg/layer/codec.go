package layer

import (
	"bytes"
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// wireNode holds the fields every variant shares on the wire. Variant
// fields are flattened into the same JSON object.
type wireNode struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Type            string   `json:"type"`
	Position        Vec2     `json:"position"`
	Size            Size     `json:"size"`
	AnchorPoint     *Vec2    `json:"anchorPoint,omitempty"`
	Opacity         *float64 `json:"opacity,omitempty"`
	Rotation        *float64 `json:"rotation,omitempty"`
	RotationX       *float64 `json:"rotationX,omitempty"`
	RotationY       *float64 `json:"rotationY,omitempty"`
	GeometryFlipped *bool    `json:"geometryFlipped,omitempty"`
	Hidden          bool     `json:"hidden,omitempty"`
	Children        *[]*Node `json:"children,omitempty"`
	DisplayType     string   `json:"_displayType,omitempty"`
}

// MarshalJSON encodes n in the flattened wire format. Groups always carry
// a "children" array, other variants never do.
func (n *Node) MarshalJSON() ([]byte, error) {
	w := wireNode{
		ID:              n.ID,
		Name:            n.Name,
		Type:            n.Kind().String(),
		Position:        n.Position,
		Size:            n.Size,
		AnchorPoint:     n.AnchorPoint,
		Opacity:         n.Opacity,
		Rotation:        n.Rotation,
		RotationX:       n.RotationX,
		RotationY:       n.RotationY,
		GeometryFlipped: n.GeometryFlipped,
		Hidden:          n.Hidden,
	}
	if g, ok := n.Data.(GroupData); ok {
		children := g.Children
		if children == nil {
			children = []*Node{}
		}
		w.Children = &children
		if g.DisplayKind != nil {
			w.DisplayType = g.DisplayKind.String()
		}
	}
	head, err := json.Marshal(w)
	if err != nil {
		return nil, err
	}
	if n.Data == nil || n.IsGroup() {
		return head, nil
	}
	body, err := json.Marshal(n.Data)
	if err != nil {
		return nil, errors.Wrapf(err, "encoding %s payload of %q", n.Kind(), n.ID)
	}
	return mergeObjects(head, body), nil
}

// mergeObjects joins two encoded JSON objects into one.
func mergeObjects(head, body []byte) []byte {
	body = bytes.TrimSpace(body)
	if len(body) <= 2 {
		return head
	}
	out := make([]byte, 0, len(head)+len(body))
	out = append(out, head[:len(head)-1]...)
	out = append(out, ',')
	return append(out, body[1:]...)
}

// UnmarshalJSON decodes the flattened wire format. A missing type tag
// decodes as a basic layer.
func (n *Node) UnmarshalJSON(raw []byte) error {
	var w wireNode
	if err := json.Unmarshal(raw, &w); err != nil {
		return err
	}
	kind := KindBasic
	if w.Type != "" {
		k, ok := ParseKind(w.Type)
		if !ok {
			return errors.Newf("layer %q: unknown type %q", w.ID, w.Type)
		}
		kind = k
	}

	*n = Node{
		ID:              w.ID,
		Name:            w.Name,
		Position:        w.Position,
		Size:            w.Size,
		AnchorPoint:     w.AnchorPoint,
		Opacity:         w.Opacity,
		Rotation:        w.Rotation,
		RotationX:       w.RotationX,
		RotationY:       w.RotationY,
		GeometryFlipped: w.GeometryFlipped,
		Hidden:          w.Hidden,
	}

	if kind == KindGroup {
		g := GroupData{Children: []*Node{}}
		if w.Children != nil {
			for i, c := range *w.Children {
				if c == nil {
					return errors.Newf("group %q: child %d is null", w.ID, i)
				}
			}
			g.Children = append(g.Children, *w.Children...)
		}
		if w.DisplayType != "" {
			if dk, ok := ParseKind(w.DisplayType); ok {
				g.DisplayKind = &dk
			}
		}
		n.Data = g
		return nil
	}

	if w.Children != nil && len(*w.Children) > 0 {
		return errors.Newf("%s layer %q has children", kind, w.ID)
	}
	d, err := decodeData(kind, raw)
	if err != nil {
		return errors.Wrapf(err, "layer %q", w.ID)
	}
	n.Data = d
	return nil
}

// EmptyData returns the zero payload of kind.
func EmptyData(kind Kind) Data {
	switch kind {
	case KindText:
		return TextData{}
	case KindImage:
		return ImageData{}
	case KindShape:
		return ShapeData{}
	case KindGradient:
		return GradientData{}
	case KindGroup:
		return GroupData{Children: []*Node{}}
	default:
		return BasicData{}
	}
}

// decodeData reads the payload fields of a non-group kind from raw.
func decodeData(kind Kind, raw []byte) (Data, error) {
	var (
		d   Data
		err error
	)
	switch kind {
	case KindBasic:
		var v BasicData
		err = json.Unmarshal(raw, &v)
		d = v
	case KindText:
		var v TextData
		err = json.Unmarshal(raw, &v)
		d = v
	case KindImage:
		var v ImageData
		err = json.Unmarshal(raw, &v)
		d = v
	case KindShape:
		var v ShapeData
		err = json.Unmarshal(raw, &v)
		d = v
	case KindGradient:
		var v GradientData
		err = json.Unmarshal(raw, &v)
		d = v
	default:
		return nil, errors.Newf("cannot decode %s payload", kind)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s payload", kind)
	}
	return d, nil
}

// DecodeTree parses a document: a JSON array of root layers.
func DecodeTree(raw []byte) ([]*Node, error) {
	var layers []*Node
	if err := json.Unmarshal(raw, &layers); err != nil {
		return nil, errors.Wrap(err, "decoding layer tree")
	}
	for i, n := range layers {
		if n == nil {
			return nil, errors.Newf("decoding layer tree: root %d is null", i)
		}
	}
	if layers == nil {
		layers = []*Node{}
	}
	return layers, nil
}

// EncodeTree renders a document as a JSON array, indented when indent is set.
func EncodeTree(layers []*Node, indent bool) ([]byte, error) {
	if layers == nil {
		layers = []*Node{}
	}
	if indent {
		return json.MarshalIndent(layers, "", "  ")
	}
	return json.Marshal(layers)
}
