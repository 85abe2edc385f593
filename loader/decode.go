package loader

import (
	"bytes"
	"fmt"
	"mime"
	"regexp"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// xmlEncodingRe matches the encoding pseudo-attribute of an XML declaration.
var xmlEncodingRe = regexp.MustCompile(`^\s*<\?xml[^>]*?\sencoding\s*=\s*["']([A-Za-z0-9._:-]+)["']`)

// decodeText converts a document body to UTF-8.
//
// A byte order mark wins; otherwise the charset parameter of contentType
// is used, then the XML declaration, and finally UTF-8.
func decodeText(body []byte, contentType string) (string, error) {
	if !hasBOM(body) {
		label := ""
		if contentType != "" {
			if _, params, err := mime.ParseMediaType(contentType); err == nil {
				label = params["charset"]
			}
		}
		if label == "" {
			label = declaredEncoding(body)
		}
		if label != "" {
			enc, name := charset.Lookup(label)
			if enc == nil {
				return "", fmt.Errorf("unsupported charset %q", label)
			}
			if name != "utf-8" {
				out, err := enc.NewDecoder().Bytes(body)
				if err != nil {
					return "", fmt.Errorf("decode %s: %w", name, err)
				}
				return string(out), nil
			}
		}
	}

	// UTF-8 by default; a BOM switches to UTF-16 and is stripped.
	out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), body)
	if err != nil {
		return "", fmt.Errorf("decode utf-8: %w", err)
	}
	return string(out), nil
}

func hasBOM(b []byte) bool {
	return bytes.HasPrefix(b, []byte{0xEF, 0xBB, 0xBF}) ||
		bytes.HasPrefix(b, []byte{0xFE, 0xFF}) ||
		bytes.HasPrefix(b, []byte{0xFF, 0xFE})
}

func declaredEncoding(body []byte) string {
	head := body
	if len(head) > 1024 {
		head = head[:1024]
	}
	m := xmlEncodingRe.FindSubmatch(head)
	if m == nil {
		return ""
	}
	return string(m[1])
}
