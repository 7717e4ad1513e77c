// Package bounds computes where layers land on the canvas.
//
// Every layer is a w x h rectangle in its own local space. Its local
// transform maps that rectangle into its parent's local space (the canvas
// for roots):
//
//	translate(position) * rotate(rotation) * translate(-anchor * size)
//
// A group's children are laid out in the group's local space, so the
// transforms compose down the tree. The 3D rotations and geometryFlipped
// do not change the 2D footprint and are ignored.
package bounds

import (
	"github.com/chazu/strata/pkg/layer"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Frame is the placement of one layer in canvas coordinates.
type Frame struct {
	ID    string
	Name  string
	Depth int

	// Corners of the layer rectangle in canvas space: the images of
	// (0,0), (w,0), (w,h) and (0,h) in local space.
	Corners [4]v2.Vec
	// Box is the axis-aligned box around Corners.
	Box sdf.Box2

	hidden   bool
	toCanvas sdf.M33
	size     layer.Size
}

// Contains reports whether the canvas point p falls on the layer.
func (f Frame) Contains(p v2.Vec) bool {
	q := f.toCanvas.Inverse().MulPosition(p)
	return q.X >= 0 && q.Y >= 0 && q.X <= f.size.W && q.Y <= f.size.H
}

// Local returns the transform from n's local space to its parent's.
func Local(n *layer.Node) sdf.M33 {
	anchor := layer.CenterAnchor
	if n.AnchorPoint != nil {
		anchor = *n.AnchorPoint
	}
	rot := 0.0
	if n.Rotation != nil {
		rot = *n.Rotation
	}
	m := sdf.Translate2d(v2.Vec{X: n.Position.X, Y: n.Position.Y})
	if rot != 0 {
		m = m.Mul(sdf.Rotate2d(sdf.DtoR(rot)))
	}
	return m.Mul(sdf.Translate2d(v2.Vec{X: -anchor.X * n.Size.W, Y: -anchor.Y * n.Size.H}))
}

// transformStack accumulates group transforms during the walk.
type transformStack struct {
	frames []sdf.M33
}

func (ts *transformStack) top() sdf.M33 {
	if len(ts.frames) == 0 {
		return sdf.Identity2d()
	}
	return ts.frames[len(ts.frames)-1]
}

func (ts *transformStack) push(m sdf.M33) {
	ts.frames = append(ts.frames, ts.top().Mul(m))
}

func (ts *transformStack) pop() {
	if len(ts.frames) > 0 {
		ts.frames = ts.frames[:len(ts.frames)-1]
	}
}

// Compute returns a frame for every layer, in pre-order.
func Compute(layers []*layer.Node) []Frame {
	var (
		frames []Frame
		ts     transformStack
	)
	var walk func(layers []*layer.Node, depth int, hidden bool)
	walk = func(layers []*layer.Node, depth int, hidden bool) {
		for _, n := range layers {
			if n == nil {
				continue
			}
			ts.push(Local(n))
			frames = append(frames, newFrame(n, depth, ts.top(), hidden || n.Hidden))
			walk(n.Children(), depth+1, hidden || n.Hidden)
			ts.pop()
		}
	}
	walk(layers, 0, false)
	return frames
}

func newFrame(n *layer.Node, depth int, m sdf.M33, hidden bool) Frame {
	f := Frame{
		ID:       n.ID,
		Name:     n.Name,
		Depth:    depth,
		hidden:   hidden,
		toCanvas: m,
		size:     n.Size,
	}
	local := [4]v2.Vec{
		{X: 0, Y: 0},
		{X: n.Size.W, Y: 0},
		{X: n.Size.W, Y: n.Size.H},
		{X: 0, Y: n.Size.H},
	}
	for i, p := range local {
		f.Corners[i] = m.MulPosition(p)
	}
	f.Box = boxAround(f.Corners[:])
	return f
}

func boxAround(pts []v2.Vec) sdf.Box2 {
	b := sdf.Box2{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		b.Min.X = min(b.Min.X, p.X)
		b.Min.Y = min(b.Min.Y, p.Y)
		b.Max.X = max(b.Max.X, p.X)
		b.Max.Y = max(b.Max.Y, p.Y)
	}
	return b
}

// Of returns the frame of the layer with id.
func Of(layers []*layer.Node, id string) (Frame, bool) {
	for _, f := range Compute(layers) {
		if f.ID == id {
			return f, true
		}
	}
	return Frame{}, false
}

// Union returns the smallest box holding every frame. ok is false when
// frames is empty.
func Union(frames []Frame) (box sdf.Box2, ok bool) {
	for i, f := range frames {
		if i == 0 {
			box = f.Box
			continue
		}
		box = box.Extend(f.Box)
	}
	return box, len(frames) > 0
}

// HitTest returns the id of the topmost visible layer under the canvas
// point p, or "" if there is none. Later siblings and children paint over
// earlier layers, so the last frame in pre-order that contains p wins.
func HitTest(layers []*layer.Node, p v2.Vec) string {
	frames := Compute(layers)
	for i := len(frames) - 1; i >= 0; i-- {
		if !frames[i].hidden && frames[i].Contains(p) {
			return frames[i].ID
		}
	}
	return ""
}
