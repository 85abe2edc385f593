package svg

import (
	"github.com/gogpu/gg"

	"github.com/gogpu/svgview"
)

// Rect is an axis-aligned rectangle in user units.
type Rect struct {
	X, Y, W, H float64
}

// Document is a parsed SVG document.
type Document struct {
	// Width and Height are the intrinsic size of the document.
	Width, Height float64

	// ViewBox is the user coordinate system mapped onto Width x Height.
	// It equals (0, 0, Width, Height) when the root has no viewBox.
	ViewBox Rect

	// Root holds the content. Its transform maps the viewBox onto the
	// intrinsic size.
	Root *Group

	Title       string
	Description string
}

// Size returns the intrinsic size of the document.
func (d *Document) Size() svgview.Size {
	return svgview.Size{Width: d.Width, Height: d.Height}
}

// Node is an element of the document tree: *Group, *Shape or *Text.
type Node interface {
	node()
}

// Group is a container with its own transform and opacity.
type Group struct {
	ID        string
	Transform gg.Matrix
	Opacity   float64
	Children  []Node
}

// Shape is a filled and/or stroked path.
// Fill or Stroke is nil when the corresponding paint is none.
type Shape struct {
	ID        string
	Transform gg.Matrix
	Path      *Path
	Fill      *Fill
	Stroke    *Stroke
}

// Text is a single run of text anchored at (X, Y) on the baseline.
type Text struct {
	ID        string
	Transform gg.Matrix
	X, Y      float64
	Content   string
	FontSize  float64
	Anchor    TextAnchor
	Fill      *Fill
}

func (*Group) node() {}
func (*Shape) node() {}
func (*Text) node()  {}

// TextAnchor is the horizontal alignment of a text run.
type TextAnchor uint8

const (
	AnchorStart TextAnchor = iota
	AnchorMiddle
	AnchorEnd
)

// PaintKind selects which field of a Paint is meaningful.
type PaintKind uint8

const (
	PaintColor PaintKind = iota
	PaintGradient
)

// Paint is a resolved solid color or gradient.
type Paint struct {
	Kind     PaintKind
	Color    gg.RGBA
	Gradient *Gradient
}

// Fill describes how the interior of a shape is painted.
type Fill struct {
	Paint   Paint
	Rule    gg.FillRule
	Opacity float64
}

// Stroke describes how the outline of a shape is painted.
type Stroke struct {
	Paint      Paint
	Opacity    float64
	Width      float64
	Cap        gg.LineCap
	Join       gg.LineJoin
	MiterLimit float64
	Dash       []float64
	DashOffset float64
}

// GradientKind distinguishes linear and radial gradients.
type GradientKind uint8

const (
	LinearGradient GradientKind = iota
	RadialGradient
)

// Units selects the coordinate system of gradient geometry.
type Units uint8

const (
	ObjectBoundingBox Units = iota
	UserSpaceOnUse
)

// Stop is a gradient color stop. Color carries stop-opacity in its alpha.
type Stop struct {
	Offset float64
	Color  gg.RGBA
}

// Gradient is a resolved gradient paint server.
type Gradient struct {
	ID   string
	Kind GradientKind

	// Linear geometry.
	X1, Y1, X2, Y2 float64

	// Radial geometry.
	CX, CY, R, FX, FY float64

	Units     Units
	Transform gg.Matrix
	Spread    gg.ExtendMode
	Stops     []Stop
}

// WalkFunc receives each leaf node together with its current transformation
// matrix and the product of all enclosing group opacities.
type WalkFunc func(n Node, ctm gg.Matrix, opacity float64)

// Walk visits every *Shape and *Text in paint order.
func (d *Document) Walk(fn WalkFunc) {
	if d.Root == nil {
		return
	}
	walkGroup(d.Root, gg.Identity(), 1, fn)
}

// WalkWith is like Walk but starts from the base matrix m, typically the
// fit transform of the viewer.
func (d *Document) WalkWith(m gg.Matrix, fn WalkFunc) {
	if d.Root == nil {
		return
	}
	walkGroup(d.Root, m, 1, fn)
}

func walkGroup(g *Group, parent gg.Matrix, opacity float64, fn WalkFunc) {
	ctm := parent.Multiply(g.Transform)
	opacity *= g.Opacity
	if opacity <= 0 {
		return
	}
	for _, child := range g.Children {
		switch n := child.(type) {
		case *Group:
			walkGroup(n, ctm, opacity, fn)
		case *Shape:
			fn(n, ctm.Multiply(n.Transform), opacity)
		case *Text:
			fn(n, ctm.Multiply(n.Transform), opacity)
		}
	}
}

// Count returns the number of leaf nodes in the document.
func (d *Document) Count() int {
	n := 0
	d.Walk(func(Node, gg.Matrix, float64) { n++ })
	return n
}
