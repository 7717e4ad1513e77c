package layer

import (
	"fmt"
	"math"
)

// Vec2 is a 2D point or vector.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Near reports whether v and o differ by at most eps on both axes.
func (v Vec2) Near(o Vec2, eps float64) bool {
	return math.Abs(v.X-o.X) <= eps && math.Abs(v.Y-o.Y) <= eps
}

func (v Vec2) String() string {
	return fmt.Sprintf("(%g, %g)", v.X, v.Y)
}

// Size is a width and height in points.
type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Center returns the center of a box of this size anchored at the origin.
func (s Size) Center() Vec2 {
	return Vec2{s.W / 2, s.H / 2}
}

func (s Size) String() string {
	return fmt.Sprintf("%gx%g", s.W, s.H)
}

// CenterAnchor is the anchor point at the middle of a layer.
var CenterAnchor = Vec2{0.5, 0.5}
