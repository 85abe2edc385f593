package svg

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gogpu/gg"
)

var errParamMismatch = errors.New("wrong number of parameters")

// splitNumbers splits on commas and whitespace.
func splitNumbers(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
}

// parseNumbers parses a list of numbers, tolerating compact forms such as
// "1-2" or "0.5.5" the same way path data does.
func parseNumbers(s string) ([]float64, error) {
	sc := &pathScanner{s: s}
	var out []float64
	for !sc.done() {
		v, err := sc.number()
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}

// axis selects the reference for percentage lengths.
type axis uint8

const (
	axisX axis = iota
	axisY
	axisOther
)

// lengthContext resolves units against the current viewport and font.
type lengthContext struct {
	dpi      float64
	fontSize float64
	viewport Rect
}

func (lc lengthContext) percentBase(a axis) float64 {
	switch a {
	case axisX:
		return lc.viewport.W
	case axisY:
		return lc.viewport.H
	default:
		w, h := lc.viewport.W, lc.viewport.H
		return math.Sqrt((w*w + h*h) / 2)
	}
}

// parseLength converts a length with an optional unit into user units.
func (lc lengthContext) parseLength(s string, a axis) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty length")
	}
	unit := ""
	num := s
	switch {
	case strings.HasSuffix(s, "%"):
		unit, num = "%", s[:len(s)-1]
	case len(s) > 2 && isUnitSuffix(s[len(s)-2:]):
		unit, num = s[len(s)-2:], s[:len(s)-2]
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid length %q", s)
	}
	switch unit {
	case "", "px":
		return v, nil
	case "%":
		return v / 100 * lc.percentBase(a), nil
	case "in":
		return v * lc.dpi, nil
	case "cm":
		return v * lc.dpi / 2.54, nil
	case "mm":
		return v * lc.dpi / 25.4, nil
	case "pt":
		return v * lc.dpi / 72, nil
	case "pc":
		return v * lc.dpi / 6, nil
	case "em":
		return v * lc.fontSize, nil
	case "ex":
		return v * lc.fontSize / 2, nil
	}
	return 0, fmt.Errorf("invalid length %q", s)
}

func isUnitSuffix(u string) bool {
	switch u {
	case "px", "in", "cm", "mm", "pt", "pc", "em", "ex":
		return true
	}
	return false
}

// parseTransform parses an SVG transform list into a matrix.
func parseTransform(v string) (gg.Matrix, error) {
	m := gg.Identity()
	for _, t := range strings.Split(v, ")") {
		t = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(t), ","))
		if t == "" {
			continue
		}
		name, params, ok := strings.Cut(t, "(")
		if !ok {
			return m, fmt.Errorf("malformed transform %q", t)
		}
		p, err := parseNumbers(params)
		if err != nil {
			return m, err
		}
		next, err := transformFunc(strings.ToLower(strings.TrimSpace(name)), p)
		if err != nil {
			return m, fmt.Errorf("%s: %w", strings.TrimSpace(name), err)
		}
		m = m.Multiply(next)
	}
	return m, nil
}

func transformFunc(name string, p []float64) (gg.Matrix, error) {
	deg := func(a float64) float64 { return a * math.Pi / 180 }
	switch name {
	case "matrix":
		if len(p) != 6 {
			return gg.Matrix{}, errParamMismatch
		}
		return gg.Matrix{A: p[0], B: p[2], C: p[4], D: p[1], E: p[3], F: p[5]}, nil
	case "translate":
		switch len(p) {
		case 1:
			return gg.Translate(p[0], 0), nil
		case 2:
			return gg.Translate(p[0], p[1]), nil
		}
	case "scale":
		switch len(p) {
		case 1:
			return gg.Scale(p[0], p[0]), nil
		case 2:
			return gg.Scale(p[0], p[1]), nil
		}
	case "rotate":
		switch len(p) {
		case 1:
			return gg.Rotate(deg(p[0])), nil
		case 3:
			return gg.Translate(p[1], p[2]).
				Multiply(gg.Rotate(deg(p[0]))).
				Multiply(gg.Translate(-p[1], -p[2])), nil
		}
	case "skewx":
		if len(p) == 1 {
			return gg.Matrix{A: 1, B: math.Tan(deg(p[0])), E: 1}, nil
		}
	case "skewy":
		if len(p) == 1 {
			return gg.Matrix{A: 1, D: math.Tan(deg(p[0])), E: 1}, nil
		}
	default:
		return gg.Matrix{}, fmt.Errorf("unknown transform %q", name)
	}
	return gg.Matrix{}, errParamMismatch
}

// parseViewBox parses "min-x min-y width height".
func parseViewBox(v string) (Rect, error) {
	p, err := parseNumbers(v)
	if err != nil {
		return Rect{}, err
	}
	if len(p) != 4 {
		return Rect{}, errParamMismatch
	}
	return Rect{X: p[0], Y: p[1], W: p[2], H: p[3]}, nil
}

// aspectRatio is a parsed preserveAspectRatio attribute.
type aspectRatio struct {
	none   bool
	alignX float64 // 0 min, 0.5 mid, 1 max
	alignY float64
	slice  bool
}

func parseAspectRatio(v string) aspectRatio {
	ar := aspectRatio{alignX: 0.5, alignY: 0.5}
	fields := strings.Fields(v)
	if len(fields) == 0 {
		return ar
	}
	if fields[0] == "defer" {
		fields = fields[1:]
	}
	if len(fields) > 0 {
		align := fields[0]
		if align == "none" {
			ar.none = true
		} else if len(align) == 8 {
			ar.alignX = alignFraction(align[1:4])
			ar.alignY = alignFraction(align[5:8])
		}
	}
	if len(fields) > 1 && fields[1] == "slice" {
		ar.slice = true
	}
	return ar
}

func alignFraction(s string) float64 {
	switch s {
	case "Min":
		return 0
	case "Max":
		return 1
	}
	return 0.5
}

// viewBoxTransform maps vb onto a width x height viewport.
func viewBoxTransform(vb Rect, ar aspectRatio, width, height float64) gg.Matrix {
	sx, sy := width/vb.W, height/vb.H
	if ar.none {
		return gg.Scale(sx, sy).Multiply(gg.Translate(-vb.X, -vb.Y))
	}
	s := math.Min(sx, sy)
	if ar.slice {
		s = math.Max(sx, sy)
	}
	tx := (width-vb.W*s)*ar.alignX - vb.X*s
	ty := (height-vb.H*s)*ar.alignY - vb.Y*s
	return gg.Translate(tx, ty).Multiply(gg.Scale(s, s))
}
