// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"math"

	"github.com/gogpu/gg"

	"github.com/gogpu/svgview/svg"
)

// BuildScene records doc into a new Scene, mapping document coordinates
// through m.
//
// Transforms are baked into the geometry: path points, gradient geometry,
// stroke widths and font sizes are all in surface pixels. Group and paint
// opacities are folded into brush alpha.
func BuildScene(doc *svg.Document, m gg.Matrix) *Scene {
	s := NewScene()
	if doc == nil {
		return s
	}
	doc.WalkWith(m, func(n svg.Node, ctm gg.Matrix, opacity float64) {
		switch n := n.(type) {
		case *svg.Shape:
			s.addShape(n, ctm, opacity)
		case *svg.Text:
			s.addText(n, ctm, opacity)
		}
	})
	return s
}

func (s *Scene) addShape(sh *svg.Shape, ctm gg.Matrix, opacity float64) {
	if sh.Path == nil || sh.Path.IsEmpty() {
		return
	}
	bbox := sh.Path.Bounds()
	path := sh.Path.Transform(ctm)

	if f := sh.Fill; f != nil {
		if b := paintBrush(f.Paint, ctm, bbox, opacity*f.Opacity); b != nil {
			s.SetFillBrush(b)
			s.SetFillRule(f.Rule)
			s.appendPath(path)
			s.Fill()
		}
	}

	if st := sh.Stroke; st != nil && st.Width > 0 {
		if b := paintBrush(st.Paint, ctm, bbox, opacity*st.Opacity); b != nil {
			k := matrixScale(ctm)
			style := StrokeStyle{
				Width:      st.Width * k,
				Cap:        st.Cap,
				Join:       st.Join,
				MiterLimit: st.MiterLimit,
				DashOffset: st.DashOffset * k,
			}
			for _, d := range st.Dash {
				style.Dash = append(style.Dash, d*k)
			}
			s.SetStrokeBrush(b)
			s.SetStrokeStyle(style)
			s.appendPath(path)
			s.Stroke()
		}
	}
}

func (s *Scene) addText(t *svg.Text, ctm gg.Matrix, opacity float64) {
	if t.Fill == nil {
		return
	}
	// Text has no path to measure, so objectBoundingBox gradients use
	// an em square at the anchor.
	bbox := svg.Rect{X: t.X, Y: t.Y - t.FontSize, W: t.FontSize, H: t.FontSize}
	b := paintBrush(t.Fill.Paint, ctm, bbox, opacity*t.Fill.Opacity)
	if b == nil {
		return
	}
	p := ctm.TransformPoint(gg.Point{X: t.X, Y: t.Y})

	var align float64
	switch t.Anchor {
	case svg.AnchorMiddle:
		align = 0.5
	case svg.AnchorEnd:
		align = 1
	}
	s.SetFillBrush(b)
	s.Text(t.Content, p.X, p.Y, t.FontSize*matrixScale(ctm), align)
}

func (s *Scene) appendPath(p *svg.Path) {
	p.Segments(func(v svg.Verb, pts []gg.Point) {
		switch v {
		case svg.VerbMoveTo:
			s.MoveTo(pts[0].X, pts[0].Y)
		case svg.VerbLineTo:
			s.LineTo(pts[0].X, pts[0].Y)
		case svg.VerbQuadTo:
			s.QuadTo(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y)
		case svg.VerbCubicTo:
			s.CubicTo(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, pts[2].X, pts[2].Y)
		case svg.VerbClose:
			s.ClosePath()
		}
	})
}

// paintBrush converts a document paint to a brush in surface space.
// It returns nil when nothing would be visible.
func paintBrush(p svg.Paint, ctm gg.Matrix, bbox svg.Rect, opacity float64) gg.Brush {
	if opacity <= 0 {
		return nil
	}
	switch p.Kind {
	case svg.PaintColor:
		c := p.Color
		c.A *= opacity
		if c.A <= 0 {
			return nil
		}
		return gg.Solid(c)
	case svg.PaintGradient:
		return gradientBrush(p.Gradient, ctm, bbox, opacity)
	}
	return nil
}

func gradientBrush(g *svg.Gradient, ctm gg.Matrix, bbox svg.Rect, opacity float64) gg.Brush {
	if g == nil || len(g.Stops) == 0 {
		return nil
	}
	m := ctm
	if g.Units == svg.ObjectBoundingBox {
		m = m.Multiply(gg.Translate(bbox.X, bbox.Y)).Multiply(gg.Scale(bbox.W, bbox.H))
	}
	m = m.Multiply(g.Transform)

	switch g.Kind {
	case svg.LinearGradient:
		p0 := m.TransformPoint(gg.Point{X: g.X1, Y: g.Y1})
		p1 := m.TransformPoint(gg.Point{X: g.X2, Y: g.Y2})
		b := gg.NewLinearGradientBrush(p0.X, p0.Y, p1.X, p1.Y).SetExtend(g.Spread)
		for _, st := range g.Stops {
			b.AddColorStop(st.Offset, fade(st.Color, opacity))
		}
		return b
	case svg.RadialGradient:
		c := m.TransformPoint(gg.Point{X: g.CX, Y: g.CY})
		f := m.TransformPoint(gg.Point{X: g.FX, Y: g.FY})
		b := gg.NewRadialGradientBrush(c.X, c.Y, 0, g.R*matrixScale(m)).
			SetFocus(f.X, f.Y).
			SetExtend(g.Spread)
		for _, st := range g.Stops {
			b.AddColorStop(st.Offset, fade(st.Color, opacity))
		}
		return b
	}
	return nil
}

func fade(c gg.RGBA, opacity float64) gg.RGBA {
	c.A *= opacity
	return c
}

// matrixScale returns the uniform scale factor of m, the square root of
// the absolute determinant of its linear part.
func matrixScale(m gg.Matrix) float64 {
	return math.Sqrt(math.Abs(m.A*m.E - m.B*m.D))
}
