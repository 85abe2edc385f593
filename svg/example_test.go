package svg_test

import (
	"errors"
	"fmt"

	"github.com/gogpu/gg"

	"github.com/gogpu/svgview/svg"
)

func ExampleParse() {
	doc, err := svg.Parse(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 200 100">
		<rect width="200" height="100" fill="teal"/>
		<circle cx="100" cy="50" r="40" fill="white" stroke="black" stroke-width="2"/>
	</svg>`, svg.DefaultOptions())
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(doc.Size())
	doc.Walk(func(n svg.Node, _ gg.Matrix, _ float64) {
		s := n.(*svg.Shape)
		fmt.Println(s.Fill != nil, s.Stroke != nil)
	})
	// Output:
	// {200 100}
	// true false
	// true true
}

func ExampleParseError() {
	_, err := svg.Parse("<svg><g></svg>", svg.DefaultOptions())

	var perr *svg.ParseError
	if errors.As(err, &perr) {
		fmt.Println(perr.Reason, perr.Line)
	}
	fmt.Println(errors.Is(err, svg.ErrParse))
	// Output:
	// malformed XML 1
	// true
}
