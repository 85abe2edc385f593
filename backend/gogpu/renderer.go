package gogpu

import (
	"fmt"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/integration/ggcanvas"
	gogpuapp "github.com/gogpu/gogpu"

	"github.com/gogpu/svgview/render"
)

// blitFunc composites a canvas onto a draw target.
type blitFunc func(c *ggcanvas.Canvas, t drawTarget) error

// blitTexture uploads the canvas and draws it at the window origin.
func blitTexture(c *ggcanvas.Canvas, t drawTarget) error {
	dc, ok := t.(*gogpuapp.Context)
	if !ok {
		return fmt.Errorf("gogpu: unsupported draw target %T", t)
	}
	return c.RenderTo(dc.AsTextureDrawer())
}

// canvasRenderer draws scenes with gg into a ggcanvas texture and
// composites it onto window frames.
type canvasRenderer struct {
	provider render.DeviceHandle
	opts     render.RendererOptions
	blit     blitFunc

	canvas *ggcanvas.Canvas
}

func newCanvasRenderer(provider render.DeviceHandle, opts render.RendererOptions, blit blitFunc) *canvasRenderer {
	return &canvasRenderer{provider: provider, opts: opts, blit: blit}
}

func (r *canvasRenderer) RenderToFrame(scene *render.Scene, frame render.Frame, params render.RenderParams) error {
	f, ok := frame.(*windowFrame)
	if !ok {
		return fmt.Errorf("gogpu: unsupported frame %T", frame)
	}
	if !r.opts.AntialiasingSupport.Supports(params.Antialiasing) {
		return fmt.Errorf("gogpu: anti-aliasing %s not enabled", params.Antialiasing)
	}
	if err := r.ensureCanvas(params.Width, params.Height); err != nil {
		return err
	}

	var drawErr error
	err := r.canvas.Draw(func(cc *gg.Context) {
		cc.SetPipelineMode(r.opts.Pipeline)
		drawErr = scene.Draw(cc, params, r.opts.Font)
	})
	if err != nil {
		return fmt.Errorf("gogpu: canvas draw: %w", err)
	}
	if drawErr != nil {
		return drawErr
	}
	return r.blit(r.canvas, f.target)
}

// redraw composites the last rendered canvas again, for draw callbacks
// without new content.
func (r *canvasRenderer) redraw(t drawTarget) error {
	if r.canvas == nil {
		return nil
	}
	return r.blit(r.canvas, t)
}

func (r *canvasRenderer) ensureCanvas(w, h int) error {
	if r.canvas == nil {
		c, err := ggcanvas.New(r.provider, w, h)
		if err != nil {
			return fmt.Errorf("gogpu: create canvas: %w", err)
		}
		r.canvas = c
		return nil
	}
	if cw, ch := r.canvas.Size(); cw != w || ch != h {
		if err := r.canvas.Resize(w, h); err != nil {
			return fmt.Errorf("gogpu: resize canvas: %w", err)
		}
	}
	return nil
}

func (r *canvasRenderer) close() {
	if r.canvas != nil {
		_ = r.canvas.Close()
		r.canvas = nil
	}
}
