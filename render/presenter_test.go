// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"context"
	"errors"
	"image/color"
	"testing"

	"github.com/gogpu/gg"

	"github.com/gogpu/svgview"
)

func newTestPresenter(t *testing.T, surface *mockSurface, renderer *mockRenderer, opts ...PresenterOption) *Presenter {
	t.Helper()
	state, err := NewState(mockProvider{}, surface, renderer)
	if err != nil {
		t.Fatal(err)
	}
	return NewPresenter(state, InlineExecutor{}, opts...)
}

func TestPresenterRenderFrame(t *testing.T) {
	surface := newMockSurface(400, 400)
	renderer := &mockRenderer{}
	p := newTestPresenter(t, surface, renderer)

	doc := mustParse(t, `<svg xmlns="http://www.w3.org/2000/svg" width="200" height="100">
		<rect width="200" height="100" fill="red"/>
	</svg>`)
	m := svgview.FitAndCenter(doc.Size(), p.Viewport())
	if err := p.RenderFrame(context.Background(), doc, m); err != nil {
		t.Fatalf("RenderFrame() error = %v", err)
	}

	if surface.acquires != 1 || surface.reconfigures != 0 || surface.presented != 1 {
		t.Errorf("acquires=%d reconfigures=%d presented=%d, want 1 0 1",
			surface.acquires, surface.reconfigures, surface.presented)
	}
	want := RenderParams{BaseColor: gg.White, Width: 400, Height: 400, Antialiasing: AAArea}
	if renderer.params != want {
		t.Errorf("params = %+v, want %+v", renderer.params, want)
	}

	// Letterboxed: the band above the document keeps the background.
	if got := pixel(renderer.last, 200, 50); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("letterbox = %v, want white", got)
	}
	if got := pixel(renderer.last, 200, 200); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("content = %v, want red", got)
	}
}

func TestPresenterViewport(t *testing.T) {
	p := newTestPresenter(t, newMockSurface(640, 480), &mockRenderer{})
	if got := p.Viewport(); got != (svgview.Size{Width: 640, Height: 480}) {
		t.Errorf("Viewport() = %+v", got)
	}
	if got := NewPresenter(nil, InlineExecutor{}).Viewport(); got != (svgview.Size{}) {
		t.Errorf("Viewport() without state = %+v", got)
	}
}

func TestPresenterRetriesAcquireOnce(t *testing.T) {
	surface := newMockSurface(10, 10)
	surface.acquireFailures = 1
	renderer := &mockRenderer{}
	p := newTestPresenter(t, surface, renderer)

	if err := p.Present(context.Background(), NewScene()); err != nil {
		t.Fatalf("Present() error = %v", err)
	}
	if surface.acquires != 2 || surface.reconfigures != 1 || surface.presented != 1 {
		t.Errorf("acquires=%d reconfigures=%d presented=%d, want 2 1 1",
			surface.acquires, surface.reconfigures, surface.presented)
	}
}

func TestPresenterAcquireFails(t *testing.T) {
	surface := newMockSurface(10, 10)
	surface.acquireFailures = 2
	renderer := &mockRenderer{}
	p := newTestPresenter(t, surface, renderer)

	err := p.Present(context.Background(), NewScene())
	if !errors.Is(err, ErrSurfaceAcquire) {
		t.Fatalf("Present() error = %v, want ErrSurfaceAcquire", err)
	}
	if surface.acquires != 2 {
		t.Errorf("acquires = %d, want exactly 2", surface.acquires)
	}
	if renderer.calls != 0 || surface.presented != 0 {
		t.Error("nothing may be rendered without a frame")
	}
}

func TestPresenterReconfigureFails(t *testing.T) {
	surface := newMockSurface(10, 10)
	surface.acquireFailures = 1
	surface.reconfigureErr = errors.New("lost")
	p := newTestPresenter(t, surface, &mockRenderer{})

	err := p.Present(context.Background(), NewScene())
	if !errors.Is(err, ErrSurfaceAcquire) || !errors.Is(err, surface.reconfigureErr) {
		t.Errorf("Present() error = %v", err)
	}
	if surface.acquires != 1 {
		t.Errorf("acquires = %d, want 1", surface.acquires)
	}
}

func TestPresenterRenderErrors(t *testing.T) {
	t.Run("renderer", func(t *testing.T) {
		surface := newMockSurface(10, 10)
		p := newTestPresenter(t, surface, &mockRenderer{err: errInjected})
		err := p.Present(context.Background(), NewScene())
		if !errors.Is(err, ErrRender) || !errors.Is(err, errInjected) {
			t.Errorf("Present() error = %v, want ErrRender", err)
		}
		if surface.presented != 0 {
			t.Error("a failed frame must not be presented")
		}
	})
	t.Run("present", func(t *testing.T) {
		surface := newMockSurface(10, 10)
		surface.presentErr = errInjected
		p := newTestPresenter(t, surface, &mockRenderer{})
		if err := p.Present(context.Background(), NewScene()); !errors.Is(err, ErrRender) {
			t.Errorf("Present() error = %v, want ErrRender", err)
		}
	})
}

func TestPresenterNotInitialized(t *testing.T) {
	p := NewPresenter(nil, InlineExecutor{})
	if err := p.Present(context.Background(), NewScene()); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Present() error = %v, want ErrNotInitialized", err)
	}
	p = newTestPresenter(t, newMockSurface(1, 1), &mockRenderer{})
	if err := p.Present(context.Background(), nil); !errors.Is(err, ErrNilScene) {
		t.Errorf("Present(nil) error = %v, want ErrNilScene", err)
	}
}

func TestPresenterBackgroundIsOpaque(t *testing.T) {
	renderer := &mockRenderer{}
	p := newTestPresenter(t, newMockSurface(4, 4), renderer,
		WithBackground(gg.RGBA{R: 0.2, G: 0.4, B: 0.6, A: 0.1}),
		WithAntialiasing(AAMSAA8))

	if err := p.Present(context.Background(), NewScene()); err != nil {
		t.Fatal(err)
	}
	if renderer.params.BaseColor.A != 1 {
		t.Errorf("background alpha = %v, want 1", renderer.params.BaseColor.A)
	}
	if renderer.params.Antialiasing != AAMSAA8 {
		t.Errorf("antialiasing = %v, want msaa8", renderer.params.Antialiasing)
	}
}
