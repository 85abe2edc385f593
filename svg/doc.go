// Package svg parses SVG document text into a drawable tree.
//
// The parser covers the static subset that matters for presentation:
// basic shapes, paths, groups, <use> references, solid and gradient paint,
// stroke styling, simple <text>, transforms and the viewBox mapping.
// Everything is resolved at parse time: styles are cascaded, references
// are followed and lengths are converted to user units, so consumers only
// walk a tree of shapes with final paint and geometry.
//
// Basic usage:
//
//	doc, err := svg.Parse(text, svg.DefaultOptions())
//	if err != nil {
//	    var perr *svg.ParseError
//	    if errors.As(err, &perr) {
//	        log.Printf("bad document: %s", perr.Reason)
//	    }
//	    return err
//	}
//	size := doc.Size()
//	doc.Walk(func(n svg.Node, ctm gg.Matrix, opacity float64) { ... })
package svg
