// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"fmt"

	"github.com/gogpu/gg"
)

// Draw replays the scene onto cc.
//
// The target is first cleared to params.BaseColor and the rasterizer is
// chosen from params.Antialiasing. font may be nil, in which case text
// runs are skipped. Draw keeps going after a failed command and returns
// all failures joined.
func (s *Scene) Draw(cc *gg.Context, params RenderParams, font *Font) error {
	if s == nil {
		return ErrNilScene
	}
	cc.SetRasterizerMode(params.Antialiasing.rasterizer())
	cc.Identity()
	cc.ClearPath()
	cc.ClearWithColor(params.BaseColor)

	var errs []error
	for i := range s.commands {
		cmd := &s.commands[i]
		if err := cmd.draw(cc, font); err != nil {
			errs = append(errs, fmt.Errorf("command %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

func (cmd *drawCommand) draw(cc *gg.Context, font *Font) error {
	switch cmd.op {
	case opClear:
		cc.ClearWithColor(cmd.color)
		return nil

	case opFill:
		cc.SetFillRule(cmd.fillRule)
		cc.SetFillBrush(cmd.brush)
		cmd.path.appendTo(cc)
		return cc.Fill()

	case opStroke:
		st := cmd.stroke
		cc.SetStrokeBrush(cmd.brush)
		cc.SetLineWidth(st.Width)
		cc.SetLineCap(st.Cap)
		cc.SetLineJoin(st.Join)
		cc.SetMiterLimit(st.MiterLimit)
		cc.SetDash(st.Dash...)
		cc.SetDashOffset(st.DashOffset)
		cmd.path.appendTo(cc)
		return cc.Stroke()

	case opText:
		if font == nil {
			return nil
		}
		run := cmd.text
		cc.SetFont(font.Face(run.size))
		cc.SetColor(brushColor(cmd.brush, run.x, run.y).Color())
		x := run.x
		if run.align != 0 {
			w, _ := cc.MeasureString(run.content)
			x -= w * run.align
		}
		cc.DrawString(run.content, x, run.y)
		return nil
	}
	return fmt.Errorf("unknown draw op %d", cmd.op)
}

// brushColor samples b at (x, y). Text is drawn with a single color.
func brushColor(b gg.Brush, x, y float64) gg.RGBA {
	if b == nil {
		return gg.Black
	}
	return b.ColorAt(x, y)
}
