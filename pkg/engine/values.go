package engine

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/chazu/strata/pkg/layer"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpLayer carries a layer between builtins. The node is never modified
// once wrapped; edits produce new nodes.
type sexpLayer struct {
	node *layer.Node
}

func (l *sexpLayer) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(layer :%s %q)", l.node.Kind(), l.node.ID)
}
func (l *sexpLayer) Type() *zygo.RegisteredType { return nil }

type sexpVec2 struct {
	vec layer.Vec2
}

func (v *sexpVec2) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec2 %g %g)", v.vec.X, v.vec.Y)
}
func (v *sexpVec2) Type() *zygo.RegisteredType { return nil }

type sexpSize struct {
	size layer.Size
}

func (s *sexpSize) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(size %g %g)", s.size.W, s.size.H)
}
func (s *sexpSize) Type() *zygo.RegisteredType { return nil }

// sexpStop is one gradient color stop.
type sexpStop struct {
	stop layer.GradientStop
}

func (s *sexpStop) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(stop %q %g)", s.stop.Color, s.stop.Location)
}
func (s *sexpStop) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW reports whether s is a keyword rewritten by preprocessSource and
// returns its name.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

// kwArgs holds a mixed positional and keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	keys       []string // keyword names in source order
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// A keyword at the end of the list has the value nil.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if _, seen := result.kw[name]; !seen {
			result.keys = append(result.keys, name)
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_text) and plain strings ("text").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	return strings.TrimPrefix(str.S, kwPrefix), nil
}

func toBool(s zygo.Sexp) (bool, error) {
	if b, ok := s.(*zygo.SexpBool); ok {
		return b.Val, nil
	}
	return false, fmt.Errorf("expected boolean, got %T (%s)", s, s.SexpString(nil))
}

func toVec2(s zygo.Sexp) (layer.Vec2, error) {
	if v, ok := s.(*sexpVec2); ok {
		return v.vec, nil
	}
	return layer.Vec2{}, fmt.Errorf("expected vec2, got %T (%s)", s, s.SexpString(nil))
}

func toSize(s zygo.Sexp) (layer.Size, error) {
	switch v := s.(type) {
	case *sexpSize:
		return v.size, nil
	case *sexpVec2:
		return layer.Size{W: v.vec.X, H: v.vec.Y}, nil
	}
	return layer.Size{}, fmt.Errorf("expected size, got %T (%s)", s, s.SexpString(nil))
}

func toLayer(s zygo.Sexp) (*layer.Node, error) {
	if l, ok := s.(*sexpLayer); ok {
		return l.node, nil
	}
	return nil, fmt.Errorf("expected layer, got %T (%s)", s, s.SexpString(nil))
}

// toLayerID accepts either a layer value or its id string.
func toLayerID(s zygo.Sexp) (string, error) {
	switch v := s.(type) {
	case *sexpLayer:
		return v.node.ID, nil
	case *zygo.SexpStr:
		return v.S, nil
	}
	return "", fmt.Errorf("expected layer or id, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// toJSON renders a script value in the layer wire format, for payload
// fields that are applied through layer.Patch.DataFields.
func toJSON(s zygo.Sexp) (json.RawMessage, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return json.RawMessage(strconv.FormatInt(v.Val, 10)), nil
	case *zygo.SexpFloat:
		return json.Marshal(v.Val)
	case *zygo.SexpStr:
		return json.Marshal(strings.TrimPrefix(v.S, kwPrefix))
	case *zygo.SexpBool:
		return json.Marshal(v.Val)
	case *sexpVec2:
		return json.Marshal(v.vec)
	case *sexpStop:
		return json.Marshal(v.stop)
	case *zygo.SexpPair, *zygo.SexpArray:
		items, err := sexpListToSlice(s)
		if err != nil {
			return nil, err
		}
		parts := make([]json.RawMessage, len(items))
		for i, item := range items {
			if parts[i], err = toJSON(item); err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
		}
		return json.Marshal(parts)
	}
	return nil, fmt.Errorf("unsupported value %T (%s)", s, s.SexpString(nil))
}

func boolSexp(b bool) zygo.Sexp {
	return &zygo.SexpBool{Val: b}
}

// idOrNull returns id as a string, or nil when id is empty.
func idOrNull(id string) zygo.Sexp {
	if id == "" {
		return zygo.SexpNull
	}
	return &zygo.SexpStr{S: id}
}
