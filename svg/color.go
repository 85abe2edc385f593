package svg

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/gg"
	"golang.org/x/image/colornames"
)

// paintSpec is an unresolved fill or stroke value.
type paintSpec struct {
	none     bool
	current  bool // currentColor
	color    gg.RGBA
	ref      string     // gradient id for url(#id)
	fallback *paintSpec // used when ref does not resolve
}

var blackPaint = paintSpec{color: gg.Black}

func parsePaint(v string) (paintSpec, error) {
	v = strings.TrimSpace(v)
	switch v {
	case "none":
		return paintSpec{none: true}, nil
	case "currentColor":
		return paintSpec{current: true}, nil
	}
	if strings.HasPrefix(v, "url(") {
		end := strings.IndexByte(v, ')')
		if end < 0 {
			return paintSpec{}, fmt.Errorf("malformed paint %q", v)
		}
		ref := strings.Trim(strings.TrimSpace(v[4:end]), `'"`)
		ps := paintSpec{ref: strings.TrimPrefix(ref, "#")}
		if rest := strings.TrimSpace(v[end+1:]); rest != "" {
			fb, err := parsePaint(rest)
			if err != nil {
				return paintSpec{}, err
			}
			ps.fallback = &fb
		}
		return ps, nil
	}
	c, err := parseColor(v)
	if err != nil {
		return paintSpec{}, err
	}
	return paintSpec{color: c}, nil
}

// parseColor parses hex, rgb()/rgba() and named colors.
func parseColor(v string) (gg.RGBA, error) {
	v = strings.TrimSpace(v)
	lower := strings.ToLower(v)
	switch {
	case strings.HasPrefix(v, "#"):
		switch len(v) {
		case 4, 5, 7, 9:
			if _, err := strconv.ParseUint(v[1:], 16, 32); err != nil {
				return gg.RGBA{}, fmt.Errorf("invalid color %q", v)
			}
			return gg.Hex(v), nil
		}
		return gg.RGBA{}, fmt.Errorf("invalid color %q", v)
	case strings.HasPrefix(lower, "rgb(") || strings.HasPrefix(lower, "rgba("):
		return parseRGBFunc(v)
	case lower == "transparent":
		return gg.RGBA{}, nil
	}
	if c, ok := colornames.Map[lower]; ok {
		return gg.FromColor(c), nil
	}
	return gg.RGBA{}, fmt.Errorf("unknown color %q", v)
}

func parseRGBFunc(v string) (gg.RGBA, error) {
	open := strings.IndexByte(v, '(')
	closing := strings.LastIndexByte(v, ')')
	if open < 0 || closing < open {
		return gg.RGBA{}, fmt.Errorf("malformed color %q", v)
	}
	parts := strings.FieldsFunc(v[open+1:closing], func(r rune) bool {
		return r == ',' || r == ' ' || r == '/'
	})
	if len(parts) != 3 && len(parts) != 4 {
		return gg.RGBA{}, fmt.Errorf("malformed color %q", v)
	}
	var ch [4]float64
	ch[3] = 1
	for i, p := range parts {
		pct := strings.HasSuffix(p, "%")
		f, err := strconv.ParseFloat(strings.TrimSuffix(p, "%"), 64)
		if err != nil {
			return gg.RGBA{}, fmt.Errorf("malformed color %q", v)
		}
		switch {
		case pct:
			f /= 100
		case i < 3:
			f /= 255
		}
		ch[i] = clamp01(f)
	}
	return gg.RGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}

// parseOpacity parses a number or percentage clamped to [0, 1].
func parseOpacity(v string) (float64, error) {
	v = strings.TrimSpace(v)
	pct := strings.HasSuffix(v, "%")
	f, err := strconv.ParseFloat(strings.TrimSuffix(v, "%"), 64)
	if err != nil {
		return 1, fmt.Errorf("invalid opacity %q", v)
	}
	if pct {
		f /= 100
	}
	return clamp01(f), nil
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
