package loader

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/encoding/unicode"

	"github.com/gogpu/svgview/svg"
)

const wideDoc = `<svg xmlns="http://www.w3.org/2000/svg" width="200" height="100"><title>café</title><rect width="200" height="100"/></svg>`

func serve(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestLoadAndParse(t *testing.T) {
	var gotUA string
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "image/svg+xml")
		io.WriteString(w, wideDoc)
	})

	l := New(NewHTTPFetcher(WithUserAgent("svgview-test")))
	doc, err := l.LoadAndParse(context.Background(), srv.URL+"/wide.svg")
	if err != nil {
		t.Fatalf("LoadAndParse() error = %v", err)
	}
	if doc.Width != 200 || doc.Height != 100 {
		t.Errorf("size = %vx%v, want 200x100", doc.Width, doc.Height)
	}
	if doc.Title != "café" {
		t.Errorf("Title = %q", doc.Title)
	}
	if gotUA != "svgview-test" {
		t.Errorf("User-Agent = %q", gotUA)
	}
}

func TestLoadAndParseStatus(t *testing.T) {
	for _, code := range []int{http.StatusNotFound, http.StatusInternalServerError, http.StatusForbidden} {
		srv := serve(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(code)
			io.WriteString(w, wideDoc)
		})

		_, err := New(nil).LoadAndParse(context.Background(), srv.URL)
		if !errors.Is(err, ErrNetwork) {
			t.Fatalf("status %d: error = %v, want ErrNetwork", code, err)
		}
		var nerr *NetworkError
		if !errors.As(err, &nerr) || nerr.StatusCode != code {
			t.Errorf("status %d: NetworkError = %+v", code, nerr)
		}
		if errors.Is(err, svg.ErrParse) {
			t.Errorf("status %d: network failure must not look like a parse error", code)
		}
	}
}

func TestLoadAndParseUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	_, err := New(nil).LoadAndParse(context.Background(), addr)
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("error = %v, want ErrNetwork", err)
	}
}

func TestLoadAndParseMalformed(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, "<html><body>not a vector image</body></html>")
	})

	_, err := New(nil).LoadAndParse(context.Background(), srv.URL)
	if !errors.Is(err, svg.ErrParse) {
		t.Fatalf("error = %v, want svg.ErrParse", err)
	}
	if errors.Is(err, ErrNetwork) {
		t.Error("parse failure must not look like a network error")
	}
}

func TestLoadAndParseCanceled(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, wideDoc)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(nil).LoadAndParse(ctx, srv.URL)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestLoadAndParseCanceledAfterFetch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fetch := FetcherFunc(func(context.Context, string) (string, error) {
		cancel()
		return "garbage that would fail to parse", nil
	})

	_, err := New(fetch).LoadAndParse(ctx, "anything")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if errors.Is(err, svg.ErrParse) {
		t.Error("canceled requests must not be parsed")
	}
}

func TestLoadAndParseWrapsFetcherErrors(t *testing.T) {
	boom := errors.New("boom")
	fetch := FetcherFunc(func(context.Context, string) (string, error) { return "", boom })

	_, err := New(fetch).LoadAndParse(context.Background(), "x.svg")
	if !errors.Is(err, ErrNetwork) || !errors.Is(err, boom) {
		t.Errorf("error = %v, want ErrNetwork wrapping boom", err)
	}
}

func TestLoadAndParseParseOptions(t *testing.T) {
	fetch := FetcherFunc(func(context.Context, string) (string, error) {
		return `<svg xmlns="http://www.w3.org/2000/svg"/>`, nil
	})
	opts := svg.DefaultOptions()
	opts.DefaultSize.Width, opts.DefaultSize.Height = 300, 150

	doc, err := New(fetch, WithParseOptions(opts)).LoadAndParse(context.Background(), "x.svg")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Width != 300 || doc.Height != 150 {
		t.Errorf("size = %vx%v, want 300x150", doc.Width, doc.Height)
	}
}

func TestHTTPFetcherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wide.svg")
	if err := os.WriteFile(path, []byte(wideDoc), 0o600); err != nil {
		t.Fatal(err)
	}

	f := NewHTTPFetcher()
	for _, address := range []string{path, "file://" + filepath.ToSlash(path)} {
		text, err := f.Fetch(context.Background(), address)
		if err != nil {
			t.Errorf("Fetch(%q) error = %v", address, err)
			continue
		}
		if text != wideDoc {
			t.Errorf("Fetch(%q) = %q", address, text)
		}
	}

	_, err := f.Fetch(context.Background(), filepath.Join(dir, "missing.svg"))
	if !errors.Is(err, ErrNetwork) || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v", err)
	}
}

func TestHTTPFetcherUnsupportedScheme(t *testing.T) {
	_, err := NewHTTPFetcher().Fetch(context.Background(), "ftp://example.com/a.svg")
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("error = %v, want ErrNetwork", err)
	}
}

func TestHTTPFetcherMaxBytes(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, wideDoc)
	})

	_, err := NewHTTPFetcher(WithMaxBytes(16)).Fetch(context.Background(), srv.URL)
	if !errors.Is(err, ErrNetwork) || !strings.Contains(err.Error(), "exceeds") {
		t.Errorf("error = %v, want size limit NetworkError", err)
	}
}

func TestDecodeText(t *testing.T) {
	utf16, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String("<svg>é</svg>")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name        string
		body        string
		contentType string
		want        string
	}{
		{"plain utf-8", "<svg>é</svg>", "", "<svg>é</svg>"},
		{"utf-8 bom stripped", "\xEF\xBB\xBF<svg/>", "", "<svg/>"},
		{"utf-16 bom", utf16, "", "<svg>é</svg>"},
		{"header charset", "<svg>\xe9</svg>", "image/svg+xml; charset=ISO-8859-1", "<svg>é</svg>"},
		{"header utf-8", "<svg>é</svg>", "text/xml; charset=utf-8", "<svg>é</svg>"},
		{
			"declared encoding",
			"<?xml version=\"1.0\" encoding=\"windows-1252\"?><svg>\xe9</svg>",
			"",
			"<?xml version=\"1.0\" encoding=\"windows-1252\"?><svg>é</svg>",
		},
		{"bom beats header", "\xEF\xBB\xBF<svg>é</svg>", "text/xml; charset=ISO-8859-1", "<svg>é</svg>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeText([]byte(tt.body), tt.contentType)
			if err != nil {
				t.Fatalf("decodeText() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("decodeText() = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := decodeText([]byte("<svg/>"), "text/xml; charset=klingon"); err == nil {
		t.Error("unknown charset should fail")
	}
}

func TestLoadAndParseHeaderCharset(t *testing.T) {
	latin1 := strings.Replace(wideDoc, "é", "\xe9", 1)
	srv := serve(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/svg+xml; charset=iso-8859-1")
		io.WriteString(w, latin1)
	})

	doc, err := New(nil).LoadAndParse(context.Background(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Title != "café" {
		t.Errorf("Title = %q, want café", doc.Title)
	}
}
