// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/gg"

	"github.com/gogpu/svgview"
	"github.com/gogpu/svgview/svg"
)

// Presenter draws scenes onto the surface of a State.
type Presenter struct {
	state      *State
	exec       Executor
	background gg.RGBA
	aa         AAConfig
}

// PresenterOption configures a Presenter.
type PresenterOption func(*Presenter)

// WithBackground sets the color every frame is cleared to.
// The alpha channel is ignored; frames are always opaque.
func WithBackground(c gg.RGBA) PresenterOption {
	return func(p *Presenter) {
		c.A = 1
		p.background = c
	}
}

// WithAntialiasing sets the anti-aliasing method. The default is AAArea.
func WithAntialiasing(a AAConfig) PresenterOption {
	return func(p *Presenter) {
		p.aa = a
	}
}

// NewPresenter creates a Presenter that runs GPU work on exec.
func NewPresenter(state *State, exec Executor, opts ...PresenterOption) *Presenter {
	p := &Presenter{
		state:      state,
		exec:       exec,
		background: gg.White,
		aa:         AAArea,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Viewport returns the configured size of the surface.
func (p *Presenter) Viewport() svgview.Size {
	if p.state == nil {
		return svgview.Size{}
	}
	s := p.state.Surface()
	return svgview.Size{Width: float64(s.Width()), Height: float64(s.Height())}
}

// RenderFrame builds a scene from doc under m and presents it.
func (p *Presenter) RenderFrame(ctx context.Context, doc *svg.Document, m gg.Matrix) error {
	return p.Present(ctx, BuildScene(doc, m))
}

// Present draws scene into the next surface frame and shows it.
//
// If no frame can be acquired the surface is reconfigured and acquisition
// is retried once; a second failure returns ErrSurfaceAcquire. Drawing or
// presentation failures return ErrRender.
func (p *Presenter) Present(ctx context.Context, scene *Scene) error {
	if p.state == nil {
		return ErrNotInitialized
	}
	if scene == nil {
		return ErrNilScene
	}
	log := svgview.Logger()
	surface := p.state.Surface()

	return p.exec.Do(ctx, func() error {
		start := time.Now()

		frame, err := acquire(ctx, surface)
		if err != nil {
			return err
		}

		params := RenderParams{
			BaseColor:    p.background,
			Width:        surface.Width(),
			Height:       surface.Height(),
			Antialiasing: p.aa,
		}
		if err := p.state.Renderer().RenderToFrame(scene, frame, params); err != nil {
			return fmt.Errorf("%w: %w", ErrRender, err)
		}
		if err := frame.Present(); err != nil {
			return fmt.Errorf("%w: present: %w", ErrRender, err)
		}

		log.Debug("render: frame presented",
			"commands", scene.CommandCount(),
			"width", params.Width, "height", params.Height,
			"aa", params.Antialiasing.String(),
			"elapsed", time.Since(start))
		return nil
	})
}

// acquire gets a frame, reconfiguring the surface and retrying once.
func acquire(ctx context.Context, surface Surface) (Frame, error) {
	frame, err := surface.AcquireFrame(ctx)
	if err == nil {
		return frame, nil
	}
	svgview.Logger().Warn("render: acquire failed, reconfiguring surface", "err", err)

	if rerr := surface.Reconfigure(); rerr != nil {
		return nil, fmt.Errorf("%w: %w", ErrSurfaceAcquire, errors.Join(err, rerr))
	}
	frame, err = surface.AcquireFrame(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSurfaceAcquire, err)
	}
	return frame, nil
}
