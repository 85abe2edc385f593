// Package loader fetches vector documents by address and parses them.
//
// A [Fetcher] turns an address into document text. [HTTPFetcher] handles
// http and https URLs, file URLs and bare filesystem paths, and decodes the
// body to UTF-8 using the charset from the Content-Type header, the XML
// declaration or a byte order mark.
//
// [Loader.LoadAndParse] combines fetching and parsing and keeps the two
// failure kinds apart: retrieval problems are reported as *NetworkError,
// malformed text as *svg.ParseError.
//
//	l := loader.New(loader.NewHTTPFetcher())
//	doc, err := l.LoadAndParse(ctx, "https://example.com/tiger.svg")
//	switch {
//	case errors.Is(err, loader.ErrNetwork):
//	    // retry later
//	case errors.Is(err, svg.ErrParse):
//	    // bad document
//	}
package loader
