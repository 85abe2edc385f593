package gogpu

import (
	"context"
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/svgview"
	"github.com/gogpu/svgview/render"
)

// drawTarget is the part of a gogpu draw context the backend needs.
// *gogpu.Context satisfies it.
type drawTarget interface {
	Width() int
	Height() int
}

// windowSurface is the surface of a host window. Frames can only be
// acquired while a draw callback is running.
type windowSurface struct {
	host          *Host
	container     string
	width, height int
	format        gputypes.TextureFormat
}

func (s *windowSurface) Width() int                     { return s.width }
func (s *windowSurface) Height() int                    { return s.height }
func (s *windowSurface) Format() gputypes.TextureFormat { return s.format }

func (s *windowSurface) AcquireFrame(ctx context.Context) (render.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t := s.host.target()
	if t == nil {
		return nil, ErrNoFrame
	}
	if t.Width() <= 0 || t.Height() <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrZeroSize, t.Width(), t.Height())
	}
	return &windowFrame{surface: s, target: t}, nil
}

// Reconfigure checks that the window is still open. The window owns the
// swapchain and reconfigures it itself on the next draw.
func (s *windowSurface) Reconfigure() error {
	if s.host.isClosed() {
		return ErrClosed
	}
	svgview.Logger().Debug("gogpu: surface reconfigure", "container", s.container)
	return nil
}

// windowFrame is the window texture of the running draw callback.
// It is shown when the callback returns.
type windowFrame struct {
	surface   *windowSurface
	target    drawTarget
	presented bool
}

func (f *windowFrame) Width() int  { return f.target.Width() }
func (f *windowFrame) Height() int { return f.target.Height() }

func (f *windowFrame) Present() error {
	if f.presented {
		return ErrFramePresented
	}
	f.presented = true
	f.surface.host.markPresented()
	return nil
}
