// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"github.com/gogpu/gg"
)

// Scene is a recorded list of drawing commands in surface pixels.
//
// A Scene is built once per frame and replayed by a SceneRenderer:
//
//	scene := render.NewScene()
//	scene.SetFillBrush(gg.Solid(gg.Hex("#ff0000")))
//	scene.MoveTo(100, 50)
//	scene.LineTo(150, 150)
//	scene.LineTo(50, 150)
//	scene.ClosePath()
//	scene.Fill()
//
// Setters affect only commands recorded after them. Fill and Stroke
// consume the current path.
type Scene struct {
	commands []drawCommand

	currentPath   pathBuilder
	currentFill   gg.Brush
	currentStroke gg.Brush
	currentRule   gg.FillRule
	currentStyle  StrokeStyle
}

// StrokeStyle describes how a path outline is drawn.
type StrokeStyle struct {
	Width      float64
	Cap        gg.LineCap
	Join       gg.LineJoin
	MiterLimit float64
	Dash       []float64
	DashOffset float64
}

// DefaultStrokeStyle returns a 1px butt-capped, miter-joined style.
func DefaultStrokeStyle() StrokeStyle {
	return StrokeStyle{
		Width:      1,
		Cap:        gg.LineCapButt,
		Join:       gg.LineJoinMiter,
		MiterLimit: 4,
	}
}

// drawOp is the type of drawing operation.
type drawOp uint8

const (
	opFill drawOp = iota
	opStroke
	opText
	opClear
)

// drawCommand is a single recorded operation.
type drawCommand struct {
	op       drawOp
	path     *pathBuilder // snapshot at record time
	brush    gg.Brush
	fillRule gg.FillRule
	stroke   StrokeStyle
	text     *textRun
	color    gg.RGBA // opClear
}

// textRun is a positioned run of text.
type textRun struct {
	content string
	x, y    float64 // anchor point on the baseline
	size    float64
	align   float64 // 0 start, 0.5 middle, 1 end
}

type pathVerb uint8

const (
	verbMoveTo pathVerb = iota
	verbLineTo
	verbQuadTo
	verbCubicTo
	verbClose
)

// pathBuilder accumulates path construction commands.
type pathBuilder struct {
	verbs  []pathVerb
	points []float64
}

// NewScene creates an empty Scene.
func NewScene() *Scene {
	s := &Scene{commands: make([]drawCommand, 0, 16)}
	s.resetState()
	return s
}

func (s *Scene) resetState() {
	s.currentFill = gg.Solid(gg.Black)
	s.currentStroke = gg.Solid(gg.Black)
	s.currentRule = gg.FillRuleNonZero
	s.currentStyle = DefaultStrokeStyle()
}

// SetFillBrush sets the brush for subsequent fills and text.
func (s *Scene) SetFillBrush(b gg.Brush) {
	s.currentFill = b
}

// SetStrokeBrush sets the brush for subsequent strokes.
func (s *Scene) SetStrokeBrush(b gg.Brush) {
	s.currentStroke = b
}

// SetFillRule sets the fill rule for subsequent fills.
func (s *Scene) SetFillRule(rule gg.FillRule) {
	s.currentRule = rule
}

// SetStrokeStyle sets the outline style for subsequent strokes.
func (s *Scene) SetStrokeStyle(style StrokeStyle) {
	if len(style.Dash) > 0 {
		style.Dash = append([]float64(nil), style.Dash...)
	}
	s.currentStyle = style
}

// MoveTo starts a new subpath at the given point.
func (s *Scene) MoveTo(x, y float64) {
	s.currentPath.verbs = append(s.currentPath.verbs, verbMoveTo)
	s.currentPath.points = append(s.currentPath.points, x, y)
}

// LineTo draws a line from the current point to the given point.
func (s *Scene) LineTo(x, y float64) {
	s.currentPath.verbs = append(s.currentPath.verbs, verbLineTo)
	s.currentPath.points = append(s.currentPath.points, x, y)
}

// QuadTo draws a quadratic Bezier curve.
func (s *Scene) QuadTo(cx, cy, x, y float64) {
	s.currentPath.verbs = append(s.currentPath.verbs, verbQuadTo)
	s.currentPath.points = append(s.currentPath.points, cx, cy, x, y)
}

// CubicTo draws a cubic Bezier curve.
func (s *Scene) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	s.currentPath.verbs = append(s.currentPath.verbs, verbCubicTo)
	s.currentPath.points = append(s.currentPath.points, c1x, c1y, c2x, c2y, x, y)
}

// ClosePath closes the current subpath.
func (s *Scene) ClosePath() {
	s.currentPath.verbs = append(s.currentPath.verbs, verbClose)
}

// Fill fills the current path and clears it.
func (s *Scene) Fill() {
	path := s.takePath()
	if path == nil {
		return
	}
	s.commands = append(s.commands, drawCommand{
		op:       opFill,
		path:     path,
		brush:    s.currentFill,
		fillRule: s.currentRule,
	})
}

// Stroke strokes the current path and clears it.
func (s *Scene) Stroke() {
	path := s.takePath()
	if path == nil {
		return
	}
	s.commands = append(s.commands, drawCommand{
		op:     opStroke,
		path:   path,
		brush:  s.currentStroke,
		stroke: s.currentStyle,
	})
}

// Text records a run of text with the fill brush. (x, y) is on the
// baseline; align moves the run left by align times its width.
func (s *Scene) Text(content string, x, y, size, align float64) {
	if content == "" || size <= 0 {
		return
	}
	s.commands = append(s.commands, drawCommand{
		op:    opText,
		brush: s.currentFill,
		text:  &textRun{content: content, x: x, y: y, size: size, align: align},
	})
}

// Clear records a fill of the whole target with c.
func (s *Scene) Clear(c gg.RGBA) {
	s.commands = append(s.commands, drawCommand{op: opClear, color: c})
}

// takePath returns the current path and starts a new one.
func (s *Scene) takePath() *pathBuilder {
	if len(s.currentPath.verbs) == 0 {
		return nil
	}
	path := &pathBuilder{
		verbs:  make([]pathVerb, len(s.currentPath.verbs)),
		points: make([]float64, len(s.currentPath.points)),
	}
	copy(path.verbs, s.currentPath.verbs)
	copy(path.points, s.currentPath.points)
	s.currentPath.verbs = s.currentPath.verbs[:0]
	s.currentPath.points = s.currentPath.points[:0]
	return path
}

// IsEmpty returns true if the scene has no commands.
func (s *Scene) IsEmpty() bool {
	return len(s.commands) == 0
}

// CommandCount returns the number of drawing commands in the scene.
func (s *Scene) CommandCount() int {
	return len(s.commands)
}

// appendTo replays the path onto cc.
func (p *pathBuilder) appendTo(cc *gg.Context) {
	pts := p.points
	for _, v := range p.verbs {
		switch v {
		case verbMoveTo:
			cc.MoveTo(pts[0], pts[1])
			pts = pts[2:]
		case verbLineTo:
			cc.LineTo(pts[0], pts[1])
			pts = pts[2:]
		case verbQuadTo:
			cc.QuadraticTo(pts[0], pts[1], pts[2], pts[3])
			pts = pts[4:]
		case verbCubicTo:
			cc.CubicTo(pts[0], pts[1], pts[2], pts[3], pts[4], pts[5])
			pts = pts[6:]
		case verbClose:
			cc.ClosePath()
		}
	}
}
