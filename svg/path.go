package svg

import (
	"math"

	"github.com/gogpu/gg"
)

// Verb is a path construction command.
type Verb uint8

const (
	VerbMoveTo Verb = iota
	VerbLineTo
	VerbQuadTo
	VerbCubicTo
	VerbClose
)

// pointCount returns the number of points consumed by the verb.
func (v Verb) pointCount() int {
	switch v {
	case VerbMoveTo, VerbLineTo:
		return 1
	case VerbQuadTo:
		return 2
	case VerbCubicTo:
		return 3
	default:
		return 0
	}
}

// Path is a sequence of absolute path commands in user units.
type Path struct {
	Verbs  []Verb
	Points []gg.Point
}

// MoveTo starts a new subpath.
func (p *Path) MoveTo(x, y float64) {
	p.Verbs = append(p.Verbs, VerbMoveTo)
	p.Points = append(p.Points, gg.Point{X: x, Y: y})
}

// LineTo adds a straight segment.
func (p *Path) LineTo(x, y float64) {
	p.Verbs = append(p.Verbs, VerbLineTo)
	p.Points = append(p.Points, gg.Point{X: x, Y: y})
}

// QuadTo adds a quadratic Bezier segment.
func (p *Path) QuadTo(cx, cy, x, y float64) {
	p.Verbs = append(p.Verbs, VerbQuadTo)
	p.Points = append(p.Points, gg.Point{X: cx, Y: cy}, gg.Point{X: x, Y: y})
}

// CubicTo adds a cubic Bezier segment.
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	p.Verbs = append(p.Verbs, VerbCubicTo)
	p.Points = append(p.Points, gg.Point{X: c1x, Y: c1y}, gg.Point{X: c2x, Y: c2y}, gg.Point{X: x, Y: y})
}

// Close closes the current subpath.
func (p *Path) Close() {
	p.Verbs = append(p.Verbs, VerbClose)
}

// IsEmpty reports whether the path draws nothing.
func (p *Path) IsEmpty() bool {
	for _, v := range p.Verbs {
		if v != VerbMoveTo {
			return false
		}
	}
	return true
}

// Bounds returns the bounding box of the path's points, control points
// included.
func (p *Path) Bounds() Rect {
	if len(p.Points) == 0 {
		return Rect{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, pt := range p.Points {
		minX = math.Min(minX, pt.X)
		minY = math.Min(minY, pt.Y)
		maxX = math.Max(maxX, pt.X)
		maxY = math.Max(maxY, pt.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Transform returns a copy of the path with every point mapped through m.
func (p *Path) Transform(m gg.Matrix) *Path {
	out := &Path{
		Verbs:  append([]Verb(nil), p.Verbs...),
		Points: make([]gg.Point, len(p.Points)),
	}
	for i, pt := range p.Points {
		out.Points[i] = m.TransformPoint(pt)
	}
	return out
}

// Segments calls fn for each verb with the points it consumes.
func (p *Path) Segments(fn func(v Verb, pts []gg.Point)) {
	i := 0
	for _, v := range p.Verbs {
		n := v.pointCount()
		fn(v, p.Points[i:i+n])
		i += n
	}
}

// kappa is the cubic control distance for a quarter circle of radius 1.
const kappa = 0.5522847498307936

func (p *Path) ellipse(cx, cy, rx, ry float64) {
	kx, ky := rx*kappa, ry*kappa
	p.MoveTo(cx+rx, cy)
	p.CubicTo(cx+rx, cy+ky, cx+kx, cy+ry, cx, cy+ry)
	p.CubicTo(cx-kx, cy+ry, cx-rx, cy+ky, cx-rx, cy)
	p.CubicTo(cx-rx, cy-ky, cx-kx, cy-ry, cx, cy-ry)
	p.CubicTo(cx+kx, cy-ry, cx+rx, cy-ky, cx+rx, cy)
	p.Close()
}

func (p *Path) roundedRect(x, y, w, h, rx, ry float64) {
	if rx <= 0 || ry <= 0 {
		p.MoveTo(x, y)
		p.LineTo(x+w, y)
		p.LineTo(x+w, y+h)
		p.LineTo(x, y+h)
		p.Close()
		return
	}
	kx, ky := rx*kappa, ry*kappa
	p.MoveTo(x+rx, y)
	p.LineTo(x+w-rx, y)
	p.CubicTo(x+w-rx+kx, y, x+w, y+ry-ky, x+w, y+ry)
	p.LineTo(x+w, y+h-ry)
	p.CubicTo(x+w, y+h-ry+ky, x+w-rx+kx, y+h, x+w-rx, y+h)
	p.LineTo(x+rx, y+h)
	p.CubicTo(x+rx-kx, y+h, x, y+h-ry+ky, x, y+h-ry)
	p.LineTo(x, y+ry)
	p.CubicTo(x, y+ry-ky, x+rx-kx, y, x+rx, y)
	p.Close()
}

// arcTo appends an elliptical arc from (x0, y0) to (x, y) as cubic
// segments of at most a quarter turn each. Parameters follow the SVG arc
// command.
func (p *Path) arcTo(x0, y0, rx, ry, rotation float64, large, sweep bool, x, y float64) {
	if x0 == x && y0 == y {
		return
	}
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx == 0 || ry == 0 {
		p.LineTo(x, y)
		return
	}

	phi := rotation * math.Pi / 180
	sinPhi, cosPhi := math.Sincos(phi)

	// Endpoint to center parameterization.
	dx2, dy2 := (x0-x)/2, (y0-y)/2
	x1p := cosPhi*dx2 + sinPhi*dy2
	y1p := -sinPhi*dx2 + cosPhi*dy2

	lambda := (x1p*x1p)/(rx*rx) + (y1p*y1p)/(ry*ry)
	if lambda > 1 {
		s := math.Sqrt(lambda)
		rx *= s
		ry *= s
	}

	num := rx*rx*ry*ry - rx*rx*y1p*y1p - ry*ry*x1p*x1p
	den := rx*rx*y1p*y1p + ry*ry*x1p*x1p
	coef := 0.0
	if den != 0 && num > 0 {
		coef = math.Sqrt(num / den)
	}
	if large == sweep {
		coef = -coef
	}
	cxp := coef * rx * y1p / ry
	cyp := -coef * ry * x1p / rx

	cx := cosPhi*cxp - sinPhi*cyp + (x0+x)/2
	cy := sinPhi*cxp + cosPhi*cyp + (y0+y)/2

	theta1 := vectorAngle(1, 0, (x1p-cxp)/rx, (y1p-cyp)/ry)
	delta := vectorAngle((x1p-cxp)/rx, (y1p-cyp)/ry, (-x1p-cxp)/rx, (-y1p-cyp)/ry)
	if !sweep && delta > 0 {
		delta -= 2 * math.Pi
	} else if sweep && delta < 0 {
		delta += 2 * math.Pi
	}

	segments := int(math.Ceil(math.Abs(delta) / (math.Pi / 2)))
	if segments == 0 {
		return
	}
	step := delta / float64(segments)
	t := 4.0 / 3.0 * math.Tan(step/4)

	point := func(angle float64) (float64, float64) {
		sin, cos := math.Sincos(angle)
		return cx + rx*cos*cosPhi - ry*sin*sinPhi, cy + rx*cos*sinPhi + ry*sin*cosPhi
	}
	deriv := func(angle float64) (float64, float64) {
		sin, cos := math.Sincos(angle)
		return -rx*sin*cosPhi - ry*cos*sinPhi, -rx*sin*sinPhi + ry*cos*cosPhi
	}

	a := theta1
	for i := 0; i < segments; i++ {
		b := a + step
		ax, ay := point(a)
		bx, by := point(b)
		dax, day := deriv(a)
		dbx, dby := deriv(b)
		if i == segments-1 {
			bx, by = x, y
		}
		p.CubicTo(ax+t*dax, ay+t*day, bx-t*dbx, by-t*dby, bx, by)
		a = b
	}
}

func vectorAngle(ux, uy, vx, vy float64) float64 {
	return math.Atan2(ux*vy-uy*vx, ux*vx+uy*vy)
}
