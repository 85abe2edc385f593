package loader

import (
	"context"
	"errors"
	"time"

	"github.com/gogpu/svgview"
	"github.com/gogpu/svgview/svg"
)

// Loader fetches and parses documents.
// A Loader is safe for concurrent use if its Fetcher is.
type Loader struct {
	fetcher   Fetcher
	parseOpts svg.Options
}

// Option configures a Loader.
type Option func(*Loader)

// WithParseOptions sets the options passed to svg.Parse.
func WithParseOptions(opts svg.Options) Option {
	return func(l *Loader) {
		l.parseOpts = opts
	}
}

// New creates a Loader. A nil fetcher selects NewHTTPFetcher().
func New(f Fetcher, opts ...Option) *Loader {
	if f == nil {
		f = NewHTTPFetcher()
	}
	l := &Loader{fetcher: f, parseOpts: svg.DefaultOptions()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadAndParse fetches address and parses the result.
//
// Retrieval failures are returned as *NetworkError and malformed documents
// as *svg.ParseError. If ctx is done after the fetch completes, ctx.Err()
// is returned and nothing is parsed.
func (l *Loader) LoadAndParse(ctx context.Context, address string) (*svg.Document, error) {
	log := svgview.Logger()
	start := time.Now()

	text, err := l.fetcher.Fetch(ctx, address)
	if err != nil {
		if !errors.Is(err, ErrNetwork) {
			err = &NetworkError{Address: address, Err: err}
		}
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := svg.Parse(text, l.parseOpts)
	if err != nil {
		return nil, err
	}
	log.Info("loader: document loaded",
		"address", address,
		"width", doc.Width, "height", doc.Height,
		"elapsed", time.Since(start))
	return doc, nil
}

var defaultLoader = New(nil)

// LoadAndParse fetches and parses address with the default HTTP fetcher
// and default parse options.
func LoadAndParse(ctx context.Context, address string) (*svg.Document, error) {
	return defaultLoader.LoadAndParse(ctx, address)
}
