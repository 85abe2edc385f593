package svg

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/gg"
)

// style holds the inherited presentation state while walking the tree.
type style struct {
	fill        paintSpec
	fillOpacity float64
	fillRule    gg.FillRule

	stroke        paintSpec
	strokeOpacity float64
	strokeWidth   float64
	lineCap       gg.LineCap
	lineJoin      gg.LineJoin
	miterLimit    float64
	dash          []float64
	dashOffset    float64

	color    gg.RGBA
	fontSize float64
	anchor   TextAnchor
	visible  bool
}

func defaultStyle(fontSize float64) style {
	return style{
		fill:          blackPaint,
		fillOpacity:   1,
		fillRule:      gg.FillRuleNonZero,
		stroke:        paintSpec{none: true},
		strokeOpacity: 1,
		strokeWidth:   1,
		lineCap:       gg.LineCapButt,
		lineJoin:      gg.LineJoinMiter,
		miterLimit:    4,
		color:         gg.Black,
		fontSize:      fontSize,
		visible:       true,
	}
}

// presentation collects an element's own presentation properties,
// attributes first and the style attribute on top.
func presentation(el *element) map[string]string {
	props := make(map[string]string, len(el.attrs))
	for k, v := range el.attrs {
		if isPresentationProperty(k) {
			props[k] = v
		}
	}
	for _, decl := range strings.Split(el.attrs["style"], ";") {
		k, v, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		v = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), "!important"))
		if isPresentationProperty(k) {
			props[k] = v
		}
	}
	return props
}

func isPresentationProperty(k string) bool {
	switch k {
	case "fill", "fill-opacity", "fill-rule", "stroke", "stroke-opacity",
		"stroke-width", "stroke-linecap", "stroke-linejoin", "stroke-miterlimit",
		"stroke-dasharray", "stroke-dashoffset", "color", "font-size",
		"text-anchor", "visibility", "display", "opacity", "stop-color", "stop-opacity":
		return true
	}
	return false
}

// apply returns the style of a child given its own presentation properties.
// Malformed values are reported to bad and otherwise ignored.
func (s style) apply(props map[string]string, lc lengthContext, bad func(error)) style {
	// color must be resolved first so currentColor sees the element's value.
	if v, ok := props["color"]; ok && v != "inherit" {
		if c, err := parseColor(v); err == nil {
			s.color = c
		} else {
			bad(err)
		}
	}
	if v, ok := props["font-size"]; ok && v != "inherit" {
		fl := lc
		fl.fontSize = s.fontSize
		if f, err := fl.parseLength(v, axisOther); err == nil && f > 0 {
			s.fontSize = f
		} else if err != nil {
			bad(err)
		}
	}
	lc.fontSize = s.fontSize

	for k, v := range props {
		if v == "inherit" {
			continue
		}
		var err error
		switch k {
		case "fill":
			s.fill, err = parsePaint(v)
		case "stroke":
			s.stroke, err = parsePaint(v)
		case "fill-opacity":
			s.fillOpacity, err = parseOpacity(v)
		case "stroke-opacity":
			s.strokeOpacity, err = parseOpacity(v)
		case "fill-rule":
			switch v {
			case "evenodd":
				s.fillRule = gg.FillRuleEvenOdd
			case "nonzero":
				s.fillRule = gg.FillRuleNonZero
			default:
				err = fmt.Errorf("invalid fill-rule %q", v)
			}
		case "stroke-width":
			var w float64
			if w, err = lc.parseLength(v, axisOther); err == nil {
				if w < 0 {
					err = fmt.Errorf("negative stroke-width %q", v)
				} else {
					s.strokeWidth = w
				}
			}
		case "stroke-linecap":
			switch v {
			case "butt":
				s.lineCap = gg.LineCapButt
			case "round":
				s.lineCap = gg.LineCapRound
			case "square":
				s.lineCap = gg.LineCapSquare
			default:
				err = fmt.Errorf("invalid stroke-linecap %q", v)
			}
		case "stroke-linejoin":
			switch v {
			case "miter", "miter-clip", "arcs":
				s.lineJoin = gg.LineJoinMiter
			case "round":
				s.lineJoin = gg.LineJoinRound
			case "bevel":
				s.lineJoin = gg.LineJoinBevel
			default:
				err = fmt.Errorf("invalid stroke-linejoin %q", v)
			}
		case "stroke-miterlimit":
			var f float64
			if f, err = strconv.ParseFloat(v, 64); err == nil && f >= 1 {
				s.miterLimit = f
			}
		case "stroke-dasharray":
			s.dash, err = parseDashArray(v, lc)
		case "stroke-dashoffset":
			s.dashOffset, err = lc.parseLength(v, axisOther)
		case "text-anchor":
			switch v {
			case "start":
				s.anchor = AnchorStart
			case "middle":
				s.anchor = AnchorMiddle
			case "end":
				s.anchor = AnchorEnd
			}
		case "visibility":
			s.visible = v == "visible"
		}
		if err != nil {
			bad(err)
		}
	}
	return s
}

// parseDashArray returns nil for "none", for all-zero arrays and for
// arrays with negative values, which all mean a solid line.
func parseDashArray(v string, lc lengthContext) ([]float64, error) {
	if v == "none" {
		return nil, nil
	}
	parts := splitNumbers(v)
	dash := make([]float64, 0, len(parts))
	sum := 0.0
	for _, p := range parts {
		f, err := lc.parseLength(p, axisOther)
		if err != nil {
			return nil, err
		}
		if f < 0 {
			return nil, fmt.Errorf("negative dash length %q", p)
		}
		sum += f
		dash = append(dash, f)
	}
	if sum == 0 {
		return nil, nil
	}
	if len(dash)%2 == 1 {
		dash = append(dash, dash...)
	}
	return dash, nil
}
