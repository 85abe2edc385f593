package svg

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/gogpu/svgview"
)

const (
	nsSVG   = "http://www.w3.org/2000/svg"
	nsXLink = "http://www.w3.org/1999/xlink"
)

// element is a raw XML element of the document.
type element struct {
	name     string
	attrs    map[string]string
	children []*element
	text     strings.Builder
	line     int
	foreign  bool // element from a non-SVG namespace
}

// Parse parses document text. The text is already decoded; any encoding
// named in the XML declaration is ignored.
func Parse(text string, opts Options) (*Document, error) {
	return parse(strings.NewReader(text), func(_ string, r io.Reader) (io.Reader, error) {
		return r, nil
	}, opts)
}

// ParseReader parses raw document bytes, honoring the encoding declared in
// the XML prolog.
func ParseReader(r io.Reader, opts Options) (*Document, error) {
	return parse(r, charset.NewReaderLabel, opts)
}

func parse(r io.Reader, charsetReader func(string, io.Reader) (io.Reader, error), opts Options) (*Document, error) {
	opts = opts.normalized()

	root, err := readTree(r, charsetReader)
	if err != nil {
		return nil, err
	}

	b := newBuilder(root, opts)
	doc, err := b.document()
	if err != nil {
		return nil, err
	}
	svgview.Logger().Debug("svg: parsed document",
		"width", doc.Width, "height", doc.Height, "nodes", doc.Count())
	return doc, nil
}

// readTree decodes the XML token stream into an element tree rooted at the
// outermost <svg> element.
func readTree(r io.Reader, charsetReader func(string, io.Reader) (io.Reader, error)) (*element, error) {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charsetReader
	decoder.Strict = true

	var (
		root  *element
		stack []*element
	)
	for {
		line, _ := decoder.InputPos()
		t, err := decoder.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			perr := &ParseError{Reason: "malformed XML", Err: err}
			var syn *xml.SyntaxError
			if errors.As(err, &syn) {
				perr.Line = syn.Line
				perr.Err = errors.New(syn.Msg)
			}
			return nil, perr
		}

		switch se := t.(type) {
		case xml.StartElement:
			el := &element{
				name:    se.Name.Local,
				attrs:   make(map[string]string, len(se.Attr)),
				line:    line,
				foreign: se.Name.Space != "" && se.Name.Space != nsSVG,
			}
			for _, a := range se.Attr {
				switch a.Name.Space {
				case "", nsSVG, nsXLink, "xlink":
					el.attrs[a.Name.Local] = a.Value
				}
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, parseErrorf(line, "multiple root elements")
				}
				if el.name != "svg" || el.foreign {
					return nil, parseErrorf(line, "root element is <%s>, not <svg>", se.Name.Local)
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			parent := stack[len(stack)-1]
			switch parent.name {
			case "text", "tspan", "title", "desc":
				txt := &element{name: "#text"}
				txt.text.Write(se)
				parent.children = append(parent.children, txt)
			}
		}
	}
	if root == nil {
		return nil, &ParseError{Reason: "no <svg> element"}
	}
	return root, nil
}
