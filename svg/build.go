package svg

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gogpu/gg"

	"github.com/gogpu/svgview"
)

// maxRefDepth bounds <use> nesting and gradient href chains.
const maxRefDepth = 16

// builder turns the raw element tree into a Document.
type builder struct {
	opts      Options
	root      *element
	ids       map[string]*element
	gradients map[string]*Gradient
	using     map[*element]bool
	lc        lengthContext
	err       *ParseError
}

func newBuilder(root *element, opts Options) *builder {
	b := &builder{
		opts:      opts,
		root:      root,
		ids:       make(map[string]*element),
		gradients: make(map[string]*Gradient),
		using:     make(map[*element]bool),
	}
	b.index(root)
	return b
}

func (b *builder) index(el *element) {
	if id := el.attrs["id"]; id != "" {
		if _, dup := b.ids[id]; !dup {
			b.ids[id] = el
		}
	}
	for _, c := range el.children {
		b.index(c)
	}
}

// bad records a malformed value. In strict mode the first one becomes the
// parse error; otherwise it is logged and the value ignored.
func (b *builder) bad(el *element, err error) {
	if b.opts.Strict {
		if b.err == nil {
			b.err = &ParseError{Reason: fmt.Sprintf("<%s>: %v", el.name, err), Line: el.line}
		}
		return
	}
	svgview.Logger().Debug("svg: ignoring invalid value", "element", el.name, "line", el.line, "err", err)
}

func (b *builder) unsupported(el *element) {
	b.bad(el, fmt.Errorf("unsupported element"))
}

func (b *builder) document() (*Document, error) {
	root := b.root
	def := b.opts.DefaultSize
	b.lc = lengthContext{
		dpi:      b.opts.DPI,
		fontSize: b.opts.FontSize,
		viewport: Rect{W: def.Width, H: def.Height},
	}

	var vb Rect
	hasViewBox := false
	if v, ok := root.attrs["viewBox"]; ok {
		r, err := parseViewBox(v)
		if err != nil || r.W <= 0 || r.H <= 0 {
			return nil, &ParseError{Reason: fmt.Sprintf("invalid viewBox %q", v), Line: root.line}
		}
		vb, hasViewBox = r, true
		b.lc.viewport = vb
	}

	width, wok := b.rootLength(root, "width", axisX)
	height, hok := b.rootLength(root, "height", axisY)
	switch {
	case wok && hok:
	case hasViewBox && wok:
		height = width * vb.H / vb.W
	case hasViewBox && hok:
		width = height * vb.W / vb.H
	case hasViewBox:
		width, height = vb.W, vb.H
	default:
		if !wok {
			width = def.Width
		}
		if !hok {
			height = def.Height
		}
	}
	if !(width > 0) || !(height > 0) || math.IsInf(width, 0) || math.IsInf(height, 0) {
		return nil, &ParseError{Reason: fmt.Sprintf("invalid size %gx%g", width, height), Line: root.line}
	}
	if !hasViewBox {
		vb = Rect{W: width, H: height}
		b.lc.viewport = vb
	}

	doc := &Document{Width: width, Height: height, ViewBox: vb}

	props := presentation(root)
	st := defaultStyle(b.opts.FontSize).apply(props, b.lc, func(err error) { b.bad(root, err) })
	rootT := viewBoxTransform(vb, parseAspectRatio(root.attrs["preserveAspectRatio"]), width, height)
	if t, ok := root.attrs["transform"]; ok {
		m, err := parseTransform(t)
		if err != nil {
			b.bad(root, err)
		} else {
			rootT = rootT.Multiply(m)
		}
	}
	doc.Root = &Group{
		ID:        root.attrs["id"],
		Transform: rootT,
		Opacity:   b.opacity(root, props),
	}
	if props["display"] != "none" {
		doc.Root.Children = b.children(root, st)
	}

	for _, c := range root.children {
		switch c.name {
		case "title":
			if doc.Title == "" {
				doc.Title = flattenText(c)
			}
		case "desc":
			if doc.Description == "" {
				doc.Description = flattenText(c)
			}
		}
	}

	if b.err != nil {
		return nil, b.err
	}
	return doc, nil
}

// rootLength parses width or height of the outermost element, where
// percentages and "auto" defer to the viewBox.
func (b *builder) rootLength(el *element, name string, a axis) (float64, bool) {
	v, ok := el.attrs[name]
	if !ok || v == "auto" || strings.HasSuffix(strings.TrimSpace(v), "%") {
		return 0, false
	}
	f, err := b.lc.parseLength(v, a)
	if err != nil {
		b.bad(el, err)
		return 0, false
	}
	return f, true
}

func (b *builder) children(el *element, st style) []Node {
	var nodes []Node
	for _, c := range el.children {
		if n := b.node(c, st); n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

func (b *builder) node(el *element, parent style) Node {
	if el.foreign || el.name == "#text" {
		return nil
	}
	props := presentation(el)
	if props["display"] == "none" {
		return nil
	}

	switch el.name {
	case "defs", "title", "desc", "metadata", "linearGradient", "radialGradient",
		"stop", "symbol", "clipPath", "mask", "pattern", "marker", "filter":
		return nil
	case "style", "image", "foreignObject", "script":
		b.unsupported(el)
		return nil
	}

	st := parent.apply(props, b.lc, func(err error) { b.bad(el, err) })
	m := b.transform(el)

	switch el.name {
	case "g", "a", "switch":
		g := &Group{ID: el.attrs["id"], Transform: m, Opacity: b.opacity(el, props)}
		g.Children = b.children(el, st)
		if len(g.Children) == 0 {
			return nil
		}
		return g
	case "svg":
		return b.nestedSVG(el, st, m, props)
	case "use":
		return b.use(el, st, m, props)
	case "text":
		return b.text(el, st, m)
	case "path", "rect", "circle", "ellipse", "line", "polyline", "polygon":
		return b.shape(el, st, m, props)
	}
	b.unsupported(el)
	return nil
}

func (b *builder) transform(el *element) gg.Matrix {
	v, ok := el.attrs["transform"]
	if !ok {
		return gg.Identity()
	}
	m, err := parseTransform(v)
	if err != nil {
		b.bad(el, err)
		return gg.Identity()
	}
	return m
}

func (b *builder) opacity(el *element, props map[string]string) float64 {
	v, ok := props["opacity"]
	if !ok {
		return 1
	}
	o, err := parseOpacity(v)
	if err != nil {
		b.bad(el, err)
		return 1
	}
	return o
}

// length parses a coordinate attribute, returning def when it is absent.
func (b *builder) length(el *element, name string, a axis, def float64) float64 {
	v, ok := el.attrs[name]
	if !ok {
		return def
	}
	// x and y on text may hold lists; only the first value is used.
	if f := strings.Fields(strings.ReplaceAll(v, ",", " ")); len(f) > 1 {
		v = f[0]
	}
	f, err := b.lc.parseLength(v, a)
	if err != nil {
		b.bad(el, err)
		return def
	}
	return f
}

func (b *builder) nestedSVG(el *element, st style, m gg.Matrix, props map[string]string) Node {
	x := b.length(el, "x", axisX, 0)
	y := b.length(el, "y", axisY, 0)
	w := b.length(el, "width", axisX, b.lc.viewport.W)
	h := b.length(el, "height", axisY, b.lc.viewport.H)
	if w <= 0 || h <= 0 {
		return nil
	}

	m = m.Multiply(gg.Translate(x, y))
	saved := b.lc.viewport
	b.lc.viewport = Rect{W: w, H: h}
	if v, ok := el.attrs["viewBox"]; ok {
		vb, err := parseViewBox(v)
		if err != nil || vb.W <= 0 || vb.H <= 0 {
			b.bad(el, fmt.Errorf("invalid viewBox %q", v))
		} else {
			m = m.Multiply(viewBoxTransform(vb, parseAspectRatio(el.attrs["preserveAspectRatio"]), w, h))
			b.lc.viewport = vb
		}
	}
	children := b.children(el, st)
	b.lc.viewport = saved
	if len(children) == 0 {
		return nil
	}
	return &Group{ID: el.attrs["id"], Transform: m, Opacity: b.opacity(el, props), Children: children}
}

func (b *builder) use(el *element, st style, m gg.Matrix, props map[string]string) Node {
	ref := strings.TrimPrefix(strings.TrimSpace(el.attrs["href"]), "#")
	target, ok := b.ids[ref]
	if !ok || ref == "" {
		b.bad(el, fmt.Errorf("unresolved reference %q", ref))
		return nil
	}
	if b.using[target] || len(b.using) >= maxRefDepth {
		b.bad(el, fmt.Errorf("recursive reference %q", ref))
		return nil
	}
	b.using[target] = true
	defer delete(b.using, target)

	m = m.Multiply(gg.Translate(b.length(el, "x", axisX, 0), b.length(el, "y", axisY, 0)))

	var children []Node
	if target.name == "symbol" {
		tprops := presentation(target)
		if tprops["display"] == "none" {
			return nil
		}
		tst := st.apply(tprops, b.lc, func(err error) { b.bad(target, err) })
		children = b.children(target, tst)
	} else if n := b.node(target, st); n != nil {
		children = []Node{n}
	}
	if len(children) == 0 {
		return nil
	}
	return &Group{ID: el.attrs["id"], Transform: m, Opacity: b.opacity(el, props), Children: children}
}

func (b *builder) shape(el *element, st style, m gg.Matrix, props map[string]string) Node {
	if !st.visible {
		return nil
	}
	p := b.geometry(el)
	if p == nil || p.IsEmpty() {
		return nil
	}

	s := &Shape{ID: el.attrs["id"], Transform: m, Path: p}
	bbox := p.Bounds()
	if paint, ok := b.resolvePaint(el, st.fill, st, bbox); ok {
		s.Fill = &Fill{Paint: paint, Rule: st.fillRule, Opacity: st.fillOpacity}
	}
	if st.strokeWidth > 0 {
		if paint, ok := b.resolvePaint(el, st.stroke, st, bbox); ok {
			s.Stroke = &Stroke{
				Paint:      paint,
				Opacity:    st.strokeOpacity,
				Width:      st.strokeWidth,
				Cap:        st.lineCap,
				Join:       st.lineJoin,
				MiterLimit: st.miterLimit,
				Dash:       st.dash,
				DashOffset: st.dashOffset,
			}
		}
	}
	if s.Fill == nil && s.Stroke == nil {
		return nil
	}

	// Element opacity on a leaf folds into both paints.
	if o := b.opacity(el, props); o < 1 {
		return &Group{Transform: gg.Identity(), Opacity: o, Children: []Node{s}}
	}
	return s
}

// geometry builds the path of a basic shape or path element.
// It returns nil when the element draws nothing.
func (b *builder) geometry(el *element) *Path {
	p := &Path{}
	switch el.name {
	case "path":
		d, err := parsePathData(el.attrs["d"])
		if err != nil {
			b.bad(el, fmt.Errorf("invalid path data: %w", err))
		}
		return d
	case "rect":
		x := b.length(el, "x", axisX, 0)
		y := b.length(el, "y", axisY, 0)
		w := b.length(el, "width", axisX, 0)
		h := b.length(el, "height", axisY, 0)
		if w <= 0 || h <= 0 {
			return nil
		}
		rx, rxok := b.optLength(el, "rx", axisX)
		ry, ryok := b.optLength(el, "ry", axisY)
		switch {
		case rxok && !ryok:
			ry = rx
		case ryok && !rxok:
			rx = ry
		}
		p.roundedRect(x, y, w, h, math.Min(math.Max(rx, 0), w/2), math.Min(math.Max(ry, 0), h/2))
	case "circle":
		r := b.length(el, "r", axisOther, 0)
		if r <= 0 {
			return nil
		}
		p.ellipse(b.length(el, "cx", axisX, 0), b.length(el, "cy", axisY, 0), r, r)
	case "ellipse":
		rx, rxok := b.optLength(el, "rx", axisX)
		ry, ryok := b.optLength(el, "ry", axisY)
		switch {
		case rxok && !ryok:
			ry = rx
		case ryok && !rxok:
			rx = ry
		}
		if rx <= 0 || ry <= 0 {
			return nil
		}
		p.ellipse(b.length(el, "cx", axisX, 0), b.length(el, "cy", axisY, 0), rx, ry)
	case "line":
		p.MoveTo(b.length(el, "x1", axisX, 0), b.length(el, "y1", axisY, 0))
		p.LineTo(b.length(el, "x2", axisX, 0), b.length(el, "y2", axisY, 0))
	case "polyline", "polygon":
		pts, err := parseNumbers(el.attrs["points"])
		if err != nil {
			b.bad(el, fmt.Errorf("invalid points: %w", err))
		}
		if len(pts) < 4 {
			return nil
		}
		p.MoveTo(pts[0], pts[1])
		for i := 2; i+1 < len(pts); i += 2 {
			p.LineTo(pts[i], pts[i+1])
		}
		if el.name == "polygon" {
			p.Close()
		}
	}
	return p
}

func (b *builder) optLength(el *element, name string, a axis) (float64, bool) {
	v, ok := el.attrs[name]
	if !ok || v == "auto" {
		return 0, false
	}
	f, err := b.lc.parseLength(v, a)
	if err != nil {
		b.bad(el, err)
		return 0, false
	}
	return f, true
}

func (b *builder) text(el *element, st style, m gg.Matrix) Node {
	if !st.visible {
		return nil
	}
	content := flattenText(el)
	if content == "" {
		return nil
	}
	paint, ok := b.resolvePaint(el, st.fill, st, Rect{})
	if !ok {
		return nil
	}
	return &Text{
		ID:        el.attrs["id"],
		Transform: m,
		X:         b.length(el, "x", axisX, 0),
		Y:         b.length(el, "y", axisY, 0),
		Content:   content,
		FontSize:  st.fontSize,
		Anchor:    st.anchor,
		Fill:      &Fill{Paint: paint, Rule: gg.FillRuleNonZero, Opacity: st.fillOpacity},
	}
}

// flattenText concatenates character data of el and its tspans with
// whitespace collapsed.
func flattenText(el *element) string {
	var sb strings.Builder
	var collect func(e *element)
	collect = func(e *element) {
		for _, c := range e.children {
			switch c.name {
			case "#text":
				sb.WriteString(c.text.String())
			case "tspan":
				collect(c)
			}
		}
	}
	collect(el)
	return strings.Join(strings.Fields(sb.String()), " ")
}

// resolvePaint turns a paint spec into a final paint.
// The second result is false when nothing should be painted.
func (b *builder) resolvePaint(el *element, ps paintSpec, st style, bbox Rect) (Paint, bool) {
	switch {
	case ps.none:
		return Paint{}, false
	case ps.current:
		return Paint{Kind: PaintColor, Color: st.color}, true
	case ps.ref != "":
		g := b.gradient(ps.ref)
		if g == nil {
			if ps.fallback != nil {
				return b.resolvePaint(el, *ps.fallback, st, bbox)
			}
			b.bad(el, fmt.Errorf("unresolved paint server %q", ps.ref))
			return Paint{}, false
		}
		switch len(g.Stops) {
		case 0:
			return Paint{}, false
		case 1:
			return Paint{Kind: PaintColor, Color: g.Stops[0].Color}, true
		}
		if g.Units == ObjectBoundingBox && (bbox.W == 0 || bbox.H == 0) {
			// A degenerate box cannot host a bounding-box gradient.
			return Paint{}, false
		}
		return Paint{Kind: PaintGradient, Gradient: g}, true
	}
	return Paint{Kind: PaintColor, Color: ps.color}, true
}

// gradient resolves a gradient by id, following href chains for
// attributes and stops.
func (b *builder) gradient(id string) *Gradient {
	if g, ok := b.gradients[id]; ok {
		return g
	}
	el, ok := b.ids[id]
	if !ok || (el.name != "linearGradient" && el.name != "radialGradient") {
		return nil
	}

	chain := []*element{el}
	for cur := el; len(chain) < maxRefDepth; {
		ref := strings.TrimPrefix(cur.attrs["href"], "#")
		next, ok := b.ids[ref]
		if !ok || ref == "" || (next.name != "linearGradient" && next.name != "radialGradient") {
			break
		}
		chain = append(chain, next)
		cur = next
	}
	attr := func(name string) (string, bool) {
		for _, e := range chain {
			if v, ok := e.attrs[name]; ok {
				return v, true
			}
		}
		return "", false
	}

	g := &Gradient{ID: id, Transform: gg.Identity(), Spread: gg.ExtendPad}
	if el.name == "radialGradient" {
		g.Kind = RadialGradient
	}
	if v, _ := attr("gradientUnits"); v == "userSpaceOnUse" {
		g.Units = UserSpaceOnUse
	}
	if v, ok := attr("gradientTransform"); ok {
		m, err := parseTransform(v)
		if err != nil {
			b.bad(el, err)
		} else {
			g.Transform = m
		}
	}
	switch v, _ := attr("spreadMethod"); v {
	case "reflect":
		g.Spread = gg.ExtendReflect
	case "repeat":
		g.Spread = gg.ExtendRepeat
	}

	coord := func(name string, a axis, def string) float64 {
		v, ok := attr(name)
		if !ok {
			v = def
		}
		if g.Units == ObjectBoundingBox {
			f, err := parseFraction(v)
			if err != nil {
				b.bad(el, err)
			}
			return f
		}
		f, err := b.lc.parseLength(v, a)
		if err != nil {
			b.bad(el, err)
		}
		return f
	}
	if g.Kind == LinearGradient {
		g.X1 = coord("x1", axisX, "0%")
		g.Y1 = coord("y1", axisY, "0%")
		g.X2 = coord("x2", axisX, "100%")
		g.Y2 = coord("y2", axisY, "0%")
	} else {
		g.CX = coord("cx", axisX, "50%")
		g.CY = coord("cy", axisY, "50%")
		g.R = coord("r", axisOther, "50%")
		g.FX, g.FY = g.CX, g.CY
		if _, ok := attr("fx"); ok {
			g.FX = coord("fx", axisX, "50%")
		}
		if _, ok := attr("fy"); ok {
			g.FY = coord("fy", axisY, "50%")
		}
	}

	for _, e := range chain {
		if stops := b.stops(e); len(stops) > 0 {
			g.Stops = stops
			break
		}
	}
	b.gradients[id] = g
	return g
}

func (b *builder) stops(el *element) []Stop {
	var stops []Stop
	prev := 0.0
	for _, c := range el.children {
		if c.name != "stop" {
			continue
		}
		offset, err := parseFraction(c.attrs["offset"])
		if err != nil && c.attrs["offset"] != "" {
			b.bad(c, err)
		}
		offset = math.Max(clamp01(offset), prev)
		prev = offset

		props := presentation(c)
		col := gg.Black
		if v, ok := props["stop-color"]; ok {
			if v == "currentColor" {
				if cc, ok := props["color"]; ok {
					v = cc
				} else {
					v = "black"
				}
			}
			if parsed, err := parseColor(v); err == nil {
				col = parsed
			} else {
				b.bad(c, err)
			}
		}
		if v, ok := props["stop-opacity"]; ok {
			o, err := parseOpacity(v)
			if err != nil {
				b.bad(c, err)
			}
			col.A *= o
		}
		stops = append(stops, Stop{Offset: offset, Color: col})
	}
	return stops
}

// parseFraction parses a number or a percentage into a fraction.
func parseFraction(v string) (float64, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, nil
	}
	if strings.HasSuffix(v, "%") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(v, "%"), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid fraction %q", v)
		}
		return f / 100, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid fraction %q", v)
	}
	return f, nil
}
