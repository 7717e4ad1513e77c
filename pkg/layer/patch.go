package layer

import (
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Patch is a partial update of a layer. Nil fields are left alone.
//
// The identity of a layer is not patchable. Data replaces the payload only
// when it has the same kind as the patched layer; DataFields overlays
// individual payload fields by their wire names (for example "text" or
// "fontSize") and is how partial payload edits from the frontend arrive.
// Neither applies to groups, whose children change through the tree
// operations instead.
type Patch struct {
	Name            *string
	Position        *Vec2
	Size            *Size
	AnchorPoint     *Vec2
	Opacity         *float64
	Rotation        *float64
	RotationX       *float64
	RotationY       *float64
	GeometryFlipped *bool
	Hidden          *bool

	Data       Data
	DataFields map[string]json.RawMessage
}

// IsEmpty reports whether applying p would change nothing.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Position == nil && p.Size == nil &&
		p.AnchorPoint == nil && p.Opacity == nil && p.Rotation == nil &&
		p.RotationX == nil && p.RotationY == nil && p.GeometryFlipped == nil &&
		p.Hidden == nil && p.Data == nil && len(p.DataFields) == 0
}

// Apply returns a new node holding the fields of n overridden by the fields
// present in p. n is not modified. Group children are shared with n.
// DataFields that do not fit the payload of n are skipped.
func (p Patch) Apply(n *Node) *Node {
	out, _ := p.apply(n, false)
	return out
}

// ApplyStrict is Apply, except that DataFields which do not decode into
// the payload of n are reported instead of skipped.
func (p Patch) ApplyStrict(n *Node) (*Node, error) {
	return p.apply(n, true)
}

func (p Patch) apply(n *Node, strict bool) (*Node, error) {
	out := *n
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Position != nil {
		out.Position = *p.Position
	}
	if p.Size != nil {
		out.Size = *p.Size
	}
	if p.AnchorPoint != nil {
		out.AnchorPoint = clonePtr(p.AnchorPoint)
	}
	if p.Opacity != nil {
		out.Opacity = clonePtr(p.Opacity)
	}
	if p.Rotation != nil {
		out.Rotation = clonePtr(p.Rotation)
	}
	if p.RotationX != nil {
		out.RotationX = clonePtr(p.RotationX)
	}
	if p.RotationY != nil {
		out.RotationY = clonePtr(p.RotationY)
	}
	if p.GeometryFlipped != nil {
		out.GeometryFlipped = clonePtr(p.GeometryFlipped)
	}
	if p.Hidden != nil {
		out.Hidden = *p.Hidden
	}
	if n.IsGroup() {
		return &out, nil
	}
	if p.Data != nil && p.Data.Kind() == n.Kind() {
		out.Data = p.Data.copyData()
	}
	if len(p.DataFields) > 0 {
		d, err := overlayData(out.Kind(), out.Data, p.DataFields)
		switch {
		case err == nil:
			out.Data = d
		case strict:
			return nil, errors.Wrapf(err, "patching %s layer %q", n.Kind(), n.ID)
		}
	}
	return &out, nil
}

// overlayData writes fields over the wire form of d and decodes the result
// back into a payload of the same kind.
func overlayData(kind Kind, d Data, fields map[string]json.RawMessage) (Data, error) {
	if d == nil {
		d = EmptyData(kind)
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	for key, value := range fields {
		if !simpleKey(key) {
			continue
		}
		raw, err = sjson.SetRawBytes(raw, key, value)
		if err != nil {
			return nil, errors.Wrapf(err, "setting %q", key)
		}
	}
	return decodeData(kind, raw)
}

// simpleKey rejects keys that sjson would read as a path expression.
func simpleKey(key string) bool {
	return key != "" && !strings.ContainsAny(key, ".*?|#@\\")
}

// ParsePatch reads a patch from a JSON object in the layer wire format.
// Only the keys present in the object end up in the patch. Keys that are
// not common layer fields are kept as DataFields.
func ParsePatch(raw []byte) (Patch, error) {
	var p Patch
	if !gjson.ValidBytes(raw) {
		return p, errors.New("patch: invalid JSON")
	}
	obj := gjson.ParseBytes(raw)
	if !obj.IsObject() {
		return p, errors.Newf("patch: expected object, got %s", obj.Type)
	}

	var err error
	obj.ForEach(func(key, value gjson.Result) bool {
		k := key.String()
		switch k {
		case "id", "type", "children", "_displayType":
			// structural, never patched
		case "name":
			if value.Type != gjson.String {
				err = errors.Newf("patch: name: expected string, got %s", value.Type)
				return false
			}
			p.Name = Ptr(value.String())
		case "position", "anchorPoint":
			var v Vec2
			if v, err = parseVec2(k, value); err != nil {
				return false
			}
			if k == "position" {
				p.Position = &v
			} else {
				p.AnchorPoint = &v
			}
		case "size":
			var s Size
			if s, err = parseSize(value); err != nil {
				return false
			}
			p.Size = &s
		case "opacity", "rotation", "rotationX", "rotationY":
			if value.Type != gjson.Number {
				err = errors.Newf("patch: %s: expected number, got %s", k, value.Type)
				return false
			}
			f := value.Float()
			switch k {
			case "opacity":
				p.Opacity = &f
			case "rotation":
				p.Rotation = &f
			case "rotationX":
				p.RotationX = &f
			case "rotationY":
				p.RotationY = &f
			}
		case "geometryFlipped", "hidden":
			if !value.IsBool() {
				err = errors.Newf("patch: %s: expected bool, got %s", k, value.Type)
				return false
			}
			b := value.Bool()
			if k == "hidden" {
				p.Hidden = &b
			} else {
				p.GeometryFlipped = &b
			}
		default:
			if p.DataFields == nil {
				p.DataFields = make(map[string]json.RawMessage)
			}
			p.DataFields[k] = json.RawMessage(value.Raw)
		}
		return true
	})
	return p, err
}

func parseVec2(field string, r gjson.Result) (Vec2, error) {
	x, y := r.Get("x"), r.Get("y")
	if !r.IsObject() || x.Type != gjson.Number || y.Type != gjson.Number {
		return Vec2{}, errors.Newf("patch: %s: expected {x, y} numbers", field)
	}
	return Vec2{X: x.Float(), Y: y.Float()}, nil
}

func parseSize(r gjson.Result) (Size, error) {
	w, h := r.Get("w"), r.Get("h")
	if !r.IsObject() || w.Type != gjson.Number || h.Type != gjson.Number {
		return Size{}, errors.New("patch: size: expected {w, h} numbers")
	}
	return Size{W: w.Float(), H: h.Float()}, nil
}
