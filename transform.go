package svgview

import (
	"math"

	"github.com/gogpu/gg"
)

// Size is a width/height pair in user units or pixels.
type Size struct {
	Width, Height float64
}

// FitAndCenter returns the transform that scales content uniformly to fit
// entirely inside viewport and centers it along the axis with slack.
//
// The scale is min(vw/cw, vh/ch). When the content is taller than wide the
// horizontal slack is split evenly; otherwise the vertical slack is. The
// returned matrix scales first, then translates:
//
//	x' = scale*x + dx
//	y' = scale*y + dy
//
// Zero content dimensions are not special-cased; callers are expected to
// pass sizes produced by a successful parse.
func FitAndCenter(content, viewport Size) gg.Matrix {
	scale := math.Min(viewport.Width/content.Width, viewport.Height/content.Height)

	var dx, dy float64
	if content.Width < content.Height {
		dx = math.Abs(viewport.Width-content.Width*scale) / 2
	} else {
		dy = math.Abs(viewport.Height-content.Height*scale) / 2
	}

	return gg.Translate(dx, dy).Multiply(gg.Scale(scale, scale))
}
