package svg

import "github.com/gogpu/svgview"

// Options controls how document text is interpreted.
type Options struct {
	// DPI converts absolute units (in, cm, mm, pt, pc) to user units.
	DPI float64

	// DefaultSize is used when the root element has neither width/height
	// nor a viewBox.
	DefaultSize svgview.Size

	// FontSize is the initial font size; em and ex units resolve against it.
	FontSize float64

	// Strict turns unsupported elements and malformed attribute values into
	// parse errors instead of skipping them.
	Strict bool
}

// DefaultOptions returns the options used when nothing else is configured.
func DefaultOptions() Options {
	return Options{
		DPI:         96,
		DefaultSize: svgview.Size{Width: 100, Height: 100},
		FontSize:    12,
	}
}

func (o Options) normalized() Options {
	def := DefaultOptions()
	if o.DPI <= 0 {
		o.DPI = def.DPI
	}
	if o.DefaultSize.Width <= 0 || o.DefaultSize.Height <= 0 {
		o.DefaultSize = def.DefaultSize
	}
	if o.FontSize <= 0 {
		o.FontSize = def.FontSize
	}
	return o
}
