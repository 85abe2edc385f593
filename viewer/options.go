package viewer

import (
	"time"

	"github.com/gogpu/gg"

	"github.com/gogpu/svgview/loader"
	"github.com/gogpu/svgview/render"
	"github.com/gogpu/svgview/svg"
)

// Default surface settings.
const (
	DefaultContainer = "canvas_holster"
	DefaultWidth     = 400
	DefaultHeight    = 400
)

// ErrorHandler receives failures of requests started by SetAddress.
type ErrorHandler func(address string, err error)

type options struct {
	container     string
	width, height int
	background    gg.RGBA
	loader        *loader.Loader
	fetcher       loader.Fetcher
	parse         svg.Options
	timeout       time.Duration
	font          *render.Font
	onError       ErrorHandler
}

func defaultOptions() options {
	return options{
		container:  DefaultContainer,
		width:      DefaultWidth,
		height:     DefaultHeight,
		background: gg.White,
		parse:      svg.DefaultOptions(),
	}
}

// Option configures a Viewer.
type Option func(*options)

// WithSize sets the surface size in pixels. Non-positive sizes are ignored.
func WithSize(width, height int) Option {
	return func(o *options) {
		if width > 0 && height > 0 {
			o.width, o.height = width, height
		}
	}
}

// WithContainer sets the name of the container the surface is attached to.
func WithContainer(name string) Option {
	return func(o *options) {
		if name != "" {
			o.container = name
		}
	}
}

// WithBackground sets the color behind the document. Alpha is ignored.
func WithBackground(c gg.RGBA) Option {
	return func(o *options) {
		o.background = c
	}
}

// WithLoader sets the loader used by Load. It takes precedence over
// WithFetcher and WithParseOptions.
func WithLoader(l *loader.Loader) Option {
	return func(o *options) {
		o.loader = l
	}
}

// WithFetcher sets how documents are retrieved. The default is
// loader.NewHTTPFetcher().
func WithFetcher(f loader.Fetcher) Option {
	return func(o *options) {
		o.fetcher = f
	}
}

// WithParseOptions sets the options used to parse documents.
func WithParseOptions(opts svg.Options) Option {
	return func(o *options) {
		o.parse = opts
	}
}

// WithRequestTimeout bounds each fetch and parse. Zero, the default, means
// no timeout.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.timeout = d
		}
	}
}

// WithFont sets the font used for text elements. Without a font, text is
// not drawn.
func WithFont(f *render.Font) Option {
	return func(o *options) {
		o.font = f
	}
}

// WithErrorHandler sets the function called when a request started by
// SetAddress fails. Superseded requests are not reported.
func WithErrorHandler(fn ErrorHandler) Option {
	return func(o *options) {
		o.onError = fn
	}
}
