package layer

import "slices"

// ---------------------------------------------------------------------------
// Basic
// ---------------------------------------------------------------------------

// BasicData is a plain rectangle.
type BasicData struct {
	Background   string  `json:"backgroundColor,omitempty"`
	BorderColor  string  `json:"borderColor,omitempty"`
	BorderWidth  float64 `json:"borderWidth,omitempty"`
	CornerRadius float64 `json:"cornerRadius,omitempty"`
}

func (BasicData) Kind() Kind       { return KindBasic }
func (d BasicData) copyData() Data { return d }

// ---------------------------------------------------------------------------
// Text
// ---------------------------------------------------------------------------

// TextAlign is the horizontal alignment of a text layer.
type TextAlign string

const (
	AlignLeft    TextAlign = "left"
	AlignCenter  TextAlign = "center"
	AlignRight   TextAlign = "right"
	AlignJustify TextAlign = "justified"
)

// TextData is a run of text.
type TextData struct {
	Text       string    `json:"text"`
	FontFamily string    `json:"fontFamily,omitempty"`
	FontSize   float64   `json:"fontSize,omitempty"`
	Color      string    `json:"color,omitempty"`
	Align      TextAlign `json:"align,omitempty"`
	Wrapped    bool      `json:"wrapped,omitempty"`
}

func (TextData) Kind() Kind       { return KindText }
func (d TextData) copyData() Data { return d }

// ---------------------------------------------------------------------------
// Image
// ---------------------------------------------------------------------------

// ImageFit controls how an image fills its bounds.
type ImageFit string

const (
	FitFill    ImageFit = "fill"
	FitContain ImageFit = "contain"
	FitCover   ImageFit = "cover"
)

// ImageData references a bitmap asset by its source path.
type ImageData struct {
	Src string   `json:"src"`
	Fit ImageFit `json:"fit,omitempty"`
}

func (ImageData) Kind() Kind       { return KindImage }
func (d ImageData) copyData() Data { return d }

// ---------------------------------------------------------------------------
// Shape
// ---------------------------------------------------------------------------

// ShapeData is a vector path in SVG path syntax, in the layer's local space.
type ShapeData struct {
	Path        string  `json:"path"`
	Fill        string  `json:"fillColor,omitempty"`
	Stroke      string  `json:"strokeColor,omitempty"`
	StrokeWidth float64 `json:"lineWidth,omitempty"`
}

func (ShapeData) Kind() Kind       { return KindShape }
func (d ShapeData) copyData() Data { return d }

// ---------------------------------------------------------------------------
// Gradient
// ---------------------------------------------------------------------------

// GradientType is the interpolation shape of a gradient.
type GradientType string

const (
	GradientLinear GradientType = "axial"
	GradientRadial GradientType = "radial"
	GradientConic  GradientType = "conic"
)

// GradientStop is one color stop, Location in 0..1.
type GradientStop struct {
	Color    string  `json:"color"`
	Location float64 `json:"location"`
}

// GradientData fills the layer bounds with a gradient between two unit points.
type GradientData struct {
	Type       GradientType   `json:"gradientType,omitempty"`
	Stops      []GradientStop `json:"colors"`
	StartPoint Vec2           `json:"startPoint"`
	EndPoint   Vec2           `json:"endPoint"`
}

func (GradientData) Kind() Kind { return KindGradient }

func (d GradientData) copyData() Data {
	d.Stops = slices.Clone(d.Stops)
	return d
}

// ---------------------------------------------------------------------------
// Group
// ---------------------------------------------------------------------------

// GroupData is the recursive variant: an ordered list of children, painted
// and traversed in slice order.
type GroupData struct {
	Children []*Node

	// DisplayKind records the variant of the layer a group was wrapped
	// around, so the group can stand in for that content in layer lists.
	DisplayKind *Kind
}

func (GroupData) Kind() Kind { return KindGroup }

func (d GroupData) copyData() Data {
	children := make([]*Node, len(d.Children))
	for i, c := range d.Children {
		children[i] = c.Copy()
	}
	d.Children = children
	d.DisplayKind = clonePtr(d.DisplayKind)
	return d
}
