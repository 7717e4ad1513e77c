package engine

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/chazu/strata/pkg/layer"
	"github.com/chazu/strata/pkg/tree"
	zygo "github.com/glycerine/zygomys/zygo"
)

// payloadFields maps the payload keywords of each layer kind to their wire
// field names.
var payloadFields = map[layer.Kind]map[string]string{
	layer.KindBasic: {
		"background":    "backgroundColor",
		"border-color":  "borderColor",
		"border-width":  "borderWidth",
		"corner-radius": "cornerRadius",
	},
	layer.KindText: {
		"text":        "text",
		"font-family": "fontFamily",
		"font-size":   "fontSize",
		"color":       "color",
		"align":       "align",
		"wrapped":     "wrapped",
	},
	layer.KindImage: {
		"src": "src",
		"fit": "fit",
	},
	layer.KindShape: {
		"path":         "path",
		"fill":         "fillColor",
		"stroke":       "strokeColor",
		"stroke-width": "lineWidth",
	},
	layer.KindGradient: {
		"gradient-type": "gradientType",
		"stops":         "colors",
		"start":         "startPoint",
		"end":           "endPoint",
	},
}

// buildPatch turns the keyword arguments of op into a patch for a layer of
// kind. Keywords listed in skip belong to op itself and are left out.
func buildPatch(op string, kind layer.Kind, pa kwArgs, skip ...string) (layer.Patch, error) {
	var p layer.Patch
	for _, key := range pa.keys {
		if slices.Contains(skip, key) {
			continue
		}
		v := pa.kw[key]
		var err error
		switch key {
		case "name":
			var s string
			if s, err = toString(v); err == nil {
				p.Name = &s
			}
		case "position", "anchor":
			var vec layer.Vec2
			if vec, err = toVec2(v); err == nil {
				if key == "position" {
					p.Position = &vec
				} else {
					p.AnchorPoint = &vec
				}
			}
		case "size":
			var size layer.Size
			if size, err = toSize(v); err == nil {
				p.Size = &size
			}
		case "opacity", "rotation", "rotation-x", "rotation-y":
			var f float64
			if f, err = toFloat64(v); err == nil {
				switch key {
				case "opacity":
					p.Opacity = &f
				case "rotation":
					p.Rotation = &f
				case "rotation-x":
					p.RotationX = &f
				case "rotation-y":
					p.RotationY = &f
				}
			}
		case "flipped", "hidden":
			var b bool
			if b, err = toBool(v); err == nil {
				if key == "hidden" {
					p.Hidden = &b
				} else {
					p.GeometryFlipped = &b
				}
			}
		default:
			wire, ok := payloadFields[kind][key]
			if !ok {
				return p, fmt.Errorf("%s: unknown keyword :%s for %s layer", op, key, kind)
			}
			var raw json.RawMessage
			if raw, err = toJSON(v); err == nil {
				if p.DataFields == nil {
					p.DataFields = make(map[string]json.RawMessage)
				}
				p.DataFields[wire] = raw
			}
		}
		if err != nil {
			return p, fmt.Errorf("%s: %s: %w", op, key, err)
		}
	}
	return p, nil
}

// newNode builds a layer of kind from keyword arguments, minting an id
// unless :id is given.
func (s *session) newNode(op string, kind layer.Kind, pa kwArgs) (*layer.Node, error) {
	n := &layer.Node{Data: layer.EmptyData(kind)}
	if v, ok := pa.kw["id"]; ok {
		id, err := toString(v)
		if err != nil {
			return nil, fmt.Errorf("%s: id: %w", op, err)
		}
		n.ID = id
	} else {
		n.ID = s.newID()
	}
	p, err := buildPatch(op, kind, pa, "id", "type")
	if err != nil {
		return nil, err
	}
	if n, err = p.ApplyStrict(n); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// targetArgs reads a target id followed by a layer value, as taken by the
// insert builtins.
func targetArgs(op string, pa kwArgs) (string, *layer.Node, error) {
	if len(pa.positional) != 2 {
		return "", nil, fmt.Errorf("%s requires a target and a layer, got %d arguments", op, len(pa.positional))
	}
	target, err := toLayerID(pa.positional[0])
	if err != nil {
		return "", nil, fmt.Errorf("%s: target: %w", op, err)
	}
	n, err := toLayer(pa.positional[1])
	if err != nil {
		return "", nil, fmt.Errorf("%s: layer: %w", op, err)
	}
	return target, n, nil
}

// singleID reads the one id argument of op.
func singleID(op string, args []zygo.Sexp) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%s requires exactly 1 argument, got %d", op, len(args))
	}
	id, err := toLayerID(args[0])
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// registerBuiltins installs the strata builtins into a zygomys environment.
// Layer constructors return layer values; editing builtins apply a tree
// operation to the session document and return its outcome.
//
// Source code must be preprocessed with preprocessSource() so that
// :keyword tokens and kebab-case names are in the form registered here.
func registerBuiltins(env *zygo.Zlisp, s *session) {

	// -----------------------------------------------------------------------
	// (vec2 10 20), (size 100 40), (stop "#fff" 0.5)
	// -----------------------------------------------------------------------
	env.AddFunction("vec2", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		x, y, err := twoNumbers("vec2", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpVec2{vec: layer.Vec2{X: x, Y: y}}, nil
	})
	env.AddFunction("size", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		w, h, err := twoNumbers("size", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSize{size: layer.Size{W: w, H: h}}, nil
	})
	env.AddFunction("stop", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("stop requires a color and a location, got %d arguments", len(args))
		}
		color, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("stop: color: %w", err)
		}
		loc, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("stop: location: %w", err)
		}
		return &sexpStop{stop: layer.GradientStop{Color: color, Location: loc}}, nil
	})

	// -----------------------------------------------------------------------
	// (layer :type :text :id "title" :name "Title" :position (vec2 0 0)
	//        :size (size 100 20) :text "Hello" :font-size 14)
	// -----------------------------------------------------------------------
	env.AddFunction("layer", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) > 0 {
			return zygo.SexpNull, fmt.Errorf("layer takes keyword arguments only")
		}
		kind := layer.KindBasic
		if v, ok := pa.kw["type"]; ok {
			tag, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("layer: type: %w", err)
			}
			k, ok := layer.ParseKind(tag)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("layer: unknown type %q", tag)
			}
			if k == layer.KindGroup {
				return zygo.SexpNull, fmt.Errorf("layer: use (group ...) to build groups")
			}
			kind = k
		}
		n, err := s.newNode("layer", kind, pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpLayer{node: n}, nil
	})

	// -----------------------------------------------------------------------
	// (group :id "card" :size (size 300 200) child child ...)
	// -----------------------------------------------------------------------
	env.AddFunction("group", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		children := make([]*layer.Node, 0, len(pa.positional))
		for i, arg := range pa.positional {
			c, err := toLayer(arg)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("group: child %d: %w", i, err)
			}
			children = append(children, c)
		}
		n, err := s.newNode("group", layer.KindGroup, pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpLayer{node: n.WithChildren(children)}, nil
	})

	// -----------------------------------------------------------------------
	// (add-layer L) appends L to the top level of the document.
	// -----------------------------------------------------------------------
	env.AddFunction("add_layer", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("add-layer requires exactly 1 argument, got %d", len(args))
		}
		n, err := toLayer(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("add-layer: %w", err)
		}
		if err := s.checkNew(n); err != nil {
			return zygo.SexpNull, fmt.Errorf("add-layer: %w", err)
		}
		out := make([]*layer.Node, len(s.layers), len(s.layers)+1)
		copy(out, s.layers)
		s.layers = append(out, n)
		return &zygo.SexpStr{S: n.ID}, nil
	})

	// -----------------------------------------------------------------------
	// (insert-into "group" L :index 0)
	// -----------------------------------------------------------------------
	env.AddFunction("insert_into", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		target, n, err := targetArgs("insert-into", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		index := tree.Append
		if v, ok := pa.kw["index"]; ok {
			if index, err = toInt(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("insert-into: index: %w", err)
			}
		}
		if err := s.checkNew(n); err != nil {
			return zygo.SexpNull, fmt.Errorf("insert-into: %w", err)
		}
		var ok bool
		s.layers, ok = tree.InsertIntoGroup(s.layers, target, n, index)
		if !ok {
			s.warnf(target, "insert-into: no group with this id")
		}
		return boolSexp(ok), nil
	})

	// -----------------------------------------------------------------------
	// (insert-before "sibling" L), (insert-after "sibling" L)
	// -----------------------------------------------------------------------
	for _, op := range []struct {
		name   string
		insert func([]*layer.Node, string, *layer.Node) ([]*layer.Node, bool)
	}{
		{"insert-before", tree.InsertBefore},
		{"insert-after", tree.InsertAfter},
	} {
		env.AddFunction(strings.ReplaceAll(op.name, "-", "_"), func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			target, n, err := targetArgs(op.name, parseArgs(args))
			if err != nil {
				return zygo.SexpNull, err
			}
			if err := s.checkNew(n); err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", op.name, err)
			}
			var ok bool
			s.layers, ok = op.insert(s.layers, target, n)
			if !ok {
				s.warnf(target, "%s: no layer with this id", op.name)
			}
			return boolSexp(ok), nil
		})
	}

	// -----------------------------------------------------------------------
	// (remove-layer "id") returns the removed layer, or nil.
	// -----------------------------------------------------------------------
	env.AddFunction("remove_layer", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		id, err := singleID("remove-layer", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		var removed *layer.Node
		s.layers, removed = tree.Remove(s.layers, id)
		if removed == nil {
			s.warnf(id, "remove-layer: no layer with this id")
			return zygo.SexpNull, nil
		}
		return &sexpLayer{node: removed}, nil
	})

	// -----------------------------------------------------------------------
	// (delete-layer "id")
	// -----------------------------------------------------------------------
	env.AddFunction("delete_layer", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		id, err := singleID("delete-layer", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		found := tree.Contains(s.layers, id)
		if !found {
			s.warnf(id, "delete-layer: no layer with this id")
		}
		s.layers = tree.Delete(s.layers, id)
		return boolSexp(found), nil
	})

	// -----------------------------------------------------------------------
	// (update-layer "id" :opacity 0.5 :text "Bye")
	// -----------------------------------------------------------------------
	env.AddFunction("update_layer", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("update-layer requires a layer id")
		}
		id, err := toLayerID(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("update-layer: %w", err)
		}
		n := tree.Find(s.layers, id)
		if n == nil {
			s.warnf(id, "update-layer: no layer with this id")
			return boolSexp(false), nil
		}
		if _, ok := pa.kw["id"]; ok {
			return zygo.SexpNull, fmt.Errorf("update-layer: a layer id cannot be changed")
		}
		p, err := buildPatch("update-layer", n.Kind(), pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		if _, err := p.ApplyStrict(n); err != nil {
			return zygo.SexpNull, fmt.Errorf("update-layer: %w", err)
		}
		s.layers = tree.Update(s.layers, id, p)
		return boolSexp(true), nil
	})

	// -----------------------------------------------------------------------
	// (clone-layer "id") or (clone-layer L) returns a copy with fresh ids,
	// not yet part of the document.
	// -----------------------------------------------------------------------
	env.AddFunction("clone_layer", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("clone-layer requires exactly 1 argument, got %d", len(args))
		}
		src, ok := args[0].(*sexpLayer)
		if ok {
			return &sexpLayer{node: tree.Clone(src.node, s.newID)}, nil
		}
		id, err := toLayerID(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("clone-layer: %w", err)
		}
		n := tree.Find(s.layers, id)
		if n == nil {
			return zygo.SexpNull, fmt.Errorf("clone-layer: no layer %q", id)
		}
		return &sexpLayer{node: tree.Clone(n, s.newID)}, nil
	})

	// -----------------------------------------------------------------------
	// (duplicate-layer "id") returns the id of the copy, or nil.
	// -----------------------------------------------------------------------
	env.AddFunction("duplicate_layer", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		id, err := singleID("duplicate-layer", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		var cloneID string
		s.layers, cloneID, _ = tree.Duplicate(s.layers, id, s.newID)
		if cloneID == "" {
			s.warnf(id, "duplicate-layer: no layer with this id")
		}
		return idOrNull(cloneID), nil
	})

	// -----------------------------------------------------------------------
	// (move-layer "id" :before "x"), :after "x", or :into "group" :index 0
	// -----------------------------------------------------------------------
	env.AddFunction("move_layer", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("move-layer requires a layer id")
		}
		id, err := toLayerID(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("move-layer: %w", err)
		}
		var (
			where  tree.Placement
			target string
			given  int
		)
		for key, p := range map[string]tree.Placement{"before": tree.Before, "after": tree.After, "into": tree.Inside} {
			if v, ok := pa.kw[key]; ok {
				if target, err = toLayerID(v); err != nil {
					return zygo.SexpNull, fmt.Errorf("move-layer: %s: %w", key, err)
				}
				where = p
				given++
			}
		}
		if given != 1 {
			return zygo.SexpNull, fmt.Errorf("move-layer requires exactly one of :before, :after or :into")
		}
		index := tree.Append
		if v, ok := pa.kw["index"]; ok {
			if index, err = toInt(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("move-layer: index: %w", err)
			}
		}
		var ok bool
		s.layers, ok = tree.Move(s.layers, id, target, where, index)
		if !ok {
			s.warnf(id, "move-layer: cannot move %s %q", where, target)
		}
		return boolSexp(ok), nil
	})

	// -----------------------------------------------------------------------
	// (wrap-group "id") returns the id of the new group, or nil.
	// -----------------------------------------------------------------------
	env.AddFunction("wrap_group", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		id, err := singleID("wrap-group", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		var groupID string
		s.layers, groupID, _ = tree.Wrap(s.layers, id, s.newID)
		if groupID == "" {
			s.warnf(id, "wrap-group: no layer with this id, or it is already a group")
		}
		return idOrNull(groupID), nil
	})

	// -----------------------------------------------------------------------
	// (find-layer "id"), (has-layer "id"), (layer-id L), (layer-count)
	// -----------------------------------------------------------------------
	env.AddFunction("find_layer", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		id, err := singleID("find-layer", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		if n := tree.Find(s.layers, id); n != nil {
			return &sexpLayer{node: n}, nil
		}
		return zygo.SexpNull, nil
	})
	env.AddFunction("has_layer", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		id, err := singleID("has-layer", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		return boolSexp(tree.Contains(s.layers, id)), nil
	})
	env.AddFunction("layer_id", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("layer-id requires exactly 1 argument, got %d", len(args))
		}
		n, err := toLayer(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("layer-id: %w", err)
		}
		return &zygo.SexpStr{S: n.ID}, nil
	})
	env.AddFunction("layer_count", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return &zygo.SexpInt{Val: int64(layer.Count(s.layers))}, nil
	})
}

func twoNumbers(op string, args []zygo.Sexp) (float64, float64, error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("%s requires exactly 2 arguments, got %d", op, len(args))
	}
	a, err := toFloat64(args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", op, err)
	}
	b, err := toFloat64(args[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", op, err)
	}
	return a, b, nil
}
