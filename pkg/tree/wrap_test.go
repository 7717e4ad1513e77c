package tree

import (
	"testing"

	"github.com/chazu/strata/pkg/layer"
)

func TestWrap(t *testing.T) {
	target := &layer.Node{
		ID:              "T",
		Name:            "Title",
		Position:        layer.Vec2{X: 50, Y: 50},
		Size:            layer.Size{W: 100, H: 100},
		AnchorPoint:     layer.Ptr(layer.Vec2{X: 0.2, Y: 0.8}),
		Opacity:         layer.Ptr(0.75),
		Rotation:        layer.Ptr(30.0),
		RotationX:       layer.Ptr(10.0),
		RotationY:       layer.Ptr(-5.0),
		GeometryFlipped: layer.Ptr(true),
		Data:            layer.TextData{Text: "hello", FontSize: 14},
	}
	in := []*layer.Node{leaf("A"), target}

	out, gid, ok := Wrap(in, "T", layer.Sequence("grp"))
	if !ok || gid != "grp1" {
		t.Fatalf("Wrap = %q, %v", gid, ok)
	}
	if got := ids(out); got != "A grp1[T]" {
		t.Fatalf("tree = %s", got)
	}

	g := out[1]
	if g.Name != "Title" {
		t.Errorf("group name = %q", g.Name)
	}
	if g.Position != target.Position || g.Size != target.Size {
		t.Errorf("group geometry = %v %v", g.Position, g.Size)
	}
	if *g.AnchorPoint != (layer.Vec2{X: 0.2, Y: 0.8}) || *g.Rotation != 30 ||
		*g.RotationX != 10 || *g.RotationY != -5 || *g.Opacity != 0.75 || !*g.GeometryFlipped {
		t.Errorf("group transform not copied: %+v", g)
	}
	if g.AnchorPoint == target.AnchorPoint || g.Rotation == target.Rotation {
		t.Error("group shares transform storage with the target")
	}
	dk := g.Data.(layer.GroupData).DisplayKind
	if dk == nil || *dk != layer.KindText {
		t.Errorf("display kind = %v, want text", dk)
	}

	c := g.Children()[0]
	if c.ID != "T" {
		t.Errorf("child id = %q, want the original id", c.ID)
	}
	if c.Position != (layer.Vec2{X: 50, Y: 50}) {
		t.Errorf("child position = %v, want group center", c.Position)
	}
	if c.Rotation == nil || *c.Rotation != 0 {
		t.Errorf("child rotation = %v, want 0", c.Rotation)
	}
	if c.RotationX != nil || c.RotationY != nil {
		t.Error("child axis rotations should be cleared")
	}
	if *c.AnchorPoint != layer.CenterAnchor {
		t.Errorf("child anchor = %v, want center", *c.AnchorPoint)
	}
	if c.Data.(layer.TextData).Text != "hello" {
		t.Error("child payload lost")
	}

	// The input is untouched.
	if in[1] != target || *target.Rotation != 30 || target.Position != (layer.Vec2{X: 50, Y: 50}) {
		t.Error("wrap mutated its input")
	}
}

func TestWrapKeepsNearCenterAnchor(t *testing.T) {
	n := leaf("A")
	n.AnchorPoint = layer.Ptr(layer.Vec2{X: 0.5 + 1e-9, Y: 0.5})
	out, _, ok := Wrap([]*layer.Node{n}, "A", layer.Sequence("g"))
	if !ok {
		t.Fatal("wrap failed")
	}
	if got := *out[0].Children()[0].AnchorPoint; got != *n.AnchorPoint {
		t.Errorf("anchor within tolerance should be kept, got %v", got)
	}
}

func TestWrapNested(t *testing.T) {
	out, gid, ok := Wrap(sampleTree(), "C", layer.Sequence("w"))
	if !ok {
		t.Fatal("wrap failed")
	}
	if got := ids(out); got != "A g1[B "+gid+"[C]]" {
		t.Errorf("tree = %s", got)
	}
}

func TestWrapNoop(t *testing.T) {
	for _, id := range []string{"g1", "nope", ""} {
		in := sampleTree()
		out, gid, ok := Wrap(in, id, layer.Sequence("w"))
		if ok || gid != "" {
			t.Errorf("Wrap(%q) = %q, %v, want no-op", id, gid, ok)
		}
		if &out[0] != &in[0] {
			t.Errorf("Wrap(%q) should return the input slice", id)
		}
	}
}
