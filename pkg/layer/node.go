package layer

import "fmt"

// Kind enumerates the layer variants.
type Kind int

const (
	KindBasic    Kind = iota // plain rectangle (background, border)
	KindText                 // text run
	KindImage                // bitmap reference
	KindShape                // vector path
	KindGradient             // gradient fill
	KindGroup                // ordered container of child layers
)

var kindNames = [...]string{
	KindBasic:    "basic",
	KindText:     "text",
	KindImage:    "image",
	KindShape:    "shape",
	KindGradient: "gradient",
	KindGroup:    "group",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind maps a wire type tag to a Kind.
func ParseKind(s string) (Kind, bool) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), true
		}
	}
	return 0, false
}

// Node is one element of the layer tree.
//
// Position is where the anchor point of the layer sits in its parent's
// coordinate space. The optional transform fields are nil when the layer
// does not set them.
type Node struct {
	ID       string
	Name     string
	Position Vec2
	Size     Size

	AnchorPoint     *Vec2    // unit coordinates, (0.5, 0.5) is the center
	Opacity         *float64 // 0..1
	Rotation        *float64 // degrees around Z
	RotationX       *float64 // degrees around X
	RotationY       *float64 // degrees around Y
	GeometryFlipped *bool

	Hidden bool

	Data Data
}

// Data is the interface for kind-specific layer payloads.
type Data interface {
	Kind() Kind
	copyData() Data // also restricts implementations to this package
}

// Kind returns the variant of n, derived from its payload.
// A node without a payload is treated as a basic layer.
func (n *Node) Kind() Kind {
	if n.Data == nil {
		return KindBasic
	}
	return n.Data.Kind()
}

// IsGroup reports whether n is a group.
func (n *Node) IsGroup() bool {
	_, ok := n.Data.(GroupData)
	return ok
}

// Children returns the ordered children of a group, or nil for any other
// variant. The returned slice is shared with n and must not be modified.
func (n *Node) Children() []*Node {
	if g, ok := n.Data.(GroupData); ok {
		return g.Children
	}
	return nil
}

// WithChildren returns a shallow copy of the group n holding children.
// It panics if n is not a group.
func (n *Node) WithChildren(children []*Node) *Node {
	g, ok := n.Data.(GroupData)
	if !ok {
		panic(fmt.Sprintf("layer: WithChildren on %s layer %q", n.Kind(), n.ID))
	}
	g.Children = children
	out := *n
	out.Data = g
	return &out
}

// Copy returns a deep copy of n. Group children are copied recursively and
// every optional field gets its own storage, so nothing is shared with n.
func (n *Node) Copy() *Node {
	if n == nil {
		return nil
	}
	out := *n
	out.AnchorPoint = clonePtr(n.AnchorPoint)
	out.Opacity = clonePtr(n.Opacity)
	out.Rotation = clonePtr(n.Rotation)
	out.RotationX = clonePtr(n.RotationX)
	out.RotationY = clonePtr(n.RotationY)
	out.GeometryFlipped = clonePtr(n.GeometryFlipped)
	if n.Data != nil {
		out.Data = n.Data.copyData()
	}
	return &out
}

func (n *Node) String() string {
	return fmt.Sprintf("%s %q (%s)", n.Kind(), n.Name, n.ID)
}

// Ptr returns a pointer to a copy of v. It is a convenience for filling
// the optional fields of Node and Patch.
func Ptr[T any](v T) *T {
	return &v
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
