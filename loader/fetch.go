package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/svgview"
)

// DefaultMaxBytes is the default limit on the size of a fetched document.
const DefaultMaxBytes = 32 << 20

// Fetcher retrieves document text by address.
//
// Implementations must honor ctx cancellation and should report retrieval
// failures as *NetworkError.
type Fetcher interface {
	Fetch(ctx context.Context, address string) (string, error)
}

// FetcherFunc adapts an ordinary function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, address string) (string, error)

// Fetch calls f(ctx, address).
func (f FetcherFunc) Fetch(ctx context.Context, address string) (string, error) {
	return f(ctx, address)
}

// HTTPFetcher fetches documents over http(s) and from the local filesystem.
// It imposes no timeout of its own; bound requests with ctx.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
}

// FetchOption configures an HTTPFetcher.
type FetchOption func(*HTTPFetcher)

// WithHTTPClient sets the client used for http and https addresses.
func WithHTTPClient(c *http.Client) FetchOption {
	return func(f *HTTPFetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithUserAgent sets the User-Agent request header.
func WithUserAgent(ua string) FetchOption {
	return func(f *HTTPFetcher) {
		f.userAgent = ua
	}
}

// WithMaxBytes limits the size of a fetched document.
// Larger documents fail with a *NetworkError.
func WithMaxBytes(n int64) FetchOption {
	return func(f *HTTPFetcher) {
		if n > 0 {
			f.maxBytes = n
		}
	}
}

// NewHTTPFetcher creates a fetcher with the given options.
func NewHTTPFetcher(opts ...FetchOption) *HTTPFetcher {
	f := &HTTPFetcher{
		client:    &http.Client{},
		userAgent: "svgview",
		maxBytes:  DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves address and decodes it to text.
//
// Supported forms are http:// and https:// URLs, file:// URLs and plain
// filesystem paths.
func (f *HTTPFetcher) Fetch(ctx context.Context, address string) (string, error) {
	u, err := url.Parse(address)
	if err != nil || len(u.Scheme) <= 1 {
		// Not a URL, or a Windows drive letter.
		return f.fetchFile(ctx, address, filepath.FromSlash(address))
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return f.fetchHTTP(ctx, address)
	case "file":
		return f.fetchFile(ctx, address, filepath.FromSlash(u.Path))
	}
	return "", &NetworkError{Address: address, Err: fmt.Errorf("unsupported scheme %q", u.Scheme)}
}

func (f *HTTPFetcher) fetchHTTP(ctx context.Context, address string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, address, http.NoBody)
	if err != nil {
		return "", &NetworkError{Address: address, Err: err}
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "image/svg+xml, application/xml;q=0.9, */*;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &NetworkError{Address: address, Err: err}
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			svgview.Logger().Warn("loader: close response body", "address", address, "err", cerr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &NetworkError{Address: address, StatusCode: resp.StatusCode}
	}

	body, err := f.readLimited(resp.Body)
	if err != nil {
		return "", &NetworkError{Address: address, Err: err}
	}
	text, err := decodeText(body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", &NetworkError{Address: address, Err: err}
	}
	svgview.Logger().Debug("loader: fetched", "address", address, "bytes", len(body))
	return text, nil
}

func (f *HTTPFetcher) fetchFile(ctx context.Context, address, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &NetworkError{Address: address, Err: err}
	}
	file, err := os.Open(path)
	if err != nil {
		return "", &NetworkError{Address: address, Err: err}
	}
	defer file.Close()

	body, err := f.readLimited(file)
	if err != nil {
		return "", &NetworkError{Address: address, Err: err}
	}
	text, err := decodeText(body, "")
	if err != nil {
		return "", &NetworkError{Address: address, Err: err}
	}
	svgview.Logger().Debug("loader: read file", "path", path, "bytes", len(body))
	return text, nil
}

func (f *HTTPFetcher) readLimited(r io.Reader) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, f.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("document exceeds %d bytes", f.maxBytes)
	}
	return body, nil
}
