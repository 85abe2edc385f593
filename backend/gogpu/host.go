package gogpu

import (
	"context"
	"fmt"
	"sync"

	"github.com/gogpu/gg"
	_ "github.com/gogpu/gg/gpu" // Register GPU accelerator
	gogpuapp "github.com/gogpu/gogpu"

	"github.com/gogpu/svgview"
	"github.com/gogpu/svgview/render"
)

// Host is a render.Backend backed by a gogpu window.
//
// GPU work submitted through Do is queued and run inside the window's
// draw callback, on the goroutine that owns the device. Run must be
// called from the main goroutine; all other methods are safe for
// concurrent use.
//
// Rendering is event driven: the window only draws while work is queued,
// and otherwise shows the last presented frame.
type Host struct {
	cfg   hostConfig
	app   *gogpuapp.App
	queue jobQueue

	mu        sync.Mutex
	anim      *gogpuapp.AnimationToken
	current   drawTarget // set while the draw callback runs
	presented bool       // a frame was presented in the current callback
	renderer  *canvasRenderer
	adapter   AdapterInfo

	probeOnce sync.Once
	probeErr  error

	closed    chan struct{}
	closeOnce sync.Once
}

type hostConfig struct {
	title         string
	width, height int
	continuous    bool
	probe         bool
}

// Option configures a Host.
type Option func(*hostConfig)

// WithTitle sets the window title. The title also names the surface
// container.
func WithTitle(title string) Option {
	return func(c *hostConfig) {
		if title != "" {
			c.title = title
		}
	}
}

// WithSize sets the initial window size in pixels.
func WithSize(width, height int) Option {
	return func(c *hostConfig) {
		if width > 0 && height > 0 {
			c.width, c.height = width, height
		}
	}
}

// WithContinuousRender makes the window redraw at every vsync instead of
// only while work is queued.
func WithContinuousRender(enabled bool) Option {
	return func(c *hostConfig) {
		c.continuous = enabled
	}
}

// WithAdapterProbe enables or disables the adapter check performed before
// the device is handed out. It is enabled by default.
func WithAdapterProbe(enabled bool) Option {
	return func(c *hostConfig) {
		c.probe = enabled
	}
}

// NewHost creates a window host. The window opens when Run is called.
func NewHost(opts ...Option) *Host {
	cfg := hostConfig{title: "svgview", width: 400, height: 400, probe: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	h := &Host{
		cfg:    cfg,
		closed: make(chan struct{}),
		app: gogpuapp.NewApp(gogpuapp.DefaultConfig().
			WithTitle(cfg.title).
			WithSize(cfg.width, cfg.height).
			WithContinuousRender(cfg.continuous)),
	}
	h.app.OnDraw(func(dc *gogpuapp.Context) { h.draw(dc) })
	h.app.OnClose(h.shutdown)
	return h
}

// Run opens the window and blocks until it is closed.
func (h *Host) Run() error {
	svgview.Logger().Info("gogpu: opening window", "title", h.cfg.title,
		"width", h.cfg.width, "height", h.cfg.height)
	err := h.app.Run()
	h.shutdown()
	return err
}

// Adapter returns the adapter found by the probe, if it ran.
func (h *Host) Adapter() AdapterInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.adapter
}

// Do queues fn for the next draw callback and waits for it.
// If ctx is done before fn starts, fn is dropped.
func (h *Host) Do(ctx context.Context, fn func() error) error {
	if h.isClosed() {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	j := newJob(fn)
	if err := h.queue.push(j); err != nil {
		return err
	}
	h.wake()

	select {
	case err := <-j.result:
		return err
	case <-ctx.Done():
		if h.queue.cancel(j) {
			return ctx.Err()
		}
		return <-j.result
	}
}

// RequestDevice returns the window's GPU device.
func (h *Host) RequestDevice(context.Context) (render.DeviceHandle, error) {
	if h.cfg.probe {
		h.probeOnce.Do(func() {
			info, err := probeAdapter()
			if err != nil {
				h.probeErr = err
				return
			}
			h.mu.Lock()
			h.adapter = info
			h.mu.Unlock()
			svgview.Logger().Info("gogpu: adapter", "gpu", info.String())
		})
		if h.probeErr != nil {
			return nil, h.probeErr
		}
	}

	provider := h.app.GPUContextProvider()
	if provider == nil {
		return nil, ErrNoProvider
	}
	return provider, nil
}

// CreateSurface returns the window surface. The container name is the
// window; a name other than the window title is recorded for logging.
func (h *Host) CreateSurface(_ context.Context, dev render.DeviceHandle, spec render.SurfaceSpec) (render.Surface, error) {
	if spec.Width <= 0 || spec.Height <= 0 {
		return nil, fmt.Errorf("gogpu: invalid surface size %dx%d", spec.Width, spec.Height)
	}
	s := &windowSurface{
		host:      h,
		container: spec.Container,
		width:     spec.Width,
		height:    spec.Height,
		format:    dev.SurfaceFormat(),
	}
	svgview.Logger().Debug("gogpu: surface created", "container", spec.Container,
		"width", spec.Width, "height", spec.Height, "format", s.format)
	return s, nil
}

// NewRenderer creates a renderer that draws through a ggcanvas.
func (h *Host) NewRenderer(dev render.DeviceHandle, surface render.Surface, opts render.RendererOptions) (render.SceneRenderer, error) {
	if _, ok := surface.(*windowSurface); !ok {
		return nil, fmt.Errorf("gogpu: unsupported surface %T", surface)
	}
	r := newCanvasRenderer(dev, opts, blitTexture)
	h.mu.Lock()
	if h.renderer != nil {
		h.renderer.close()
	}
	h.renderer = r
	h.mu.Unlock()
	return r, nil
}

// Close closes the host. Queued and later work fails with ErrClosed.
func (h *Host) Close() {
	h.shutdown()
}

// draw is the window's draw callback.
func (h *Host) draw(t drawTarget) {
	h.mu.Lock()
	h.current = t
	h.presented = false
	h.mu.Unlock()

	ran := h.queue.drain()

	h.mu.Lock()
	h.current = nil
	presented := h.presented
	renderer := h.renderer
	h.mu.Unlock()

	// The window shows nothing unless something is drawn every callback.
	if !presented && renderer != nil && t.Width() > 0 && t.Height() > 0 {
		if err := renderer.redraw(t); err != nil {
			svgview.Logger().Warn("gogpu: redraw failed", "err", err)
		}
	}
	if ran > 0 {
		svgview.Logger().Debug("gogpu: draw callback", "jobs", ran)
	}
	h.idle()
}

// wake makes the window draw until the queue is empty.
func (h *Host) wake() {
	if h.cfg.continuous || h.app == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.anim == nil {
		h.anim = h.app.StartAnimation()
	}
}

// idle stops drawing once no work is queued.
func (h *Host) idle() {
	if !h.queue.empty() {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.anim != nil {
		h.anim.Stop()
		h.anim = nil
	}
}

func (h *Host) target() drawTarget {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

func (h *Host) markPresented() {
	h.mu.Lock()
	h.presented = true
	h.mu.Unlock()
}

func (h *Host) isClosed() bool {
	select {
	case <-h.closed:
		return true
	default:
		return false
	}
}

func (h *Host) shutdown() {
	h.closeOnce.Do(func() {
		close(h.closed)
		h.queue.fail(ErrClosed)

		h.mu.Lock()
		if h.anim != nil {
			h.anim.Stop()
			h.anim = nil
		}
		if h.renderer != nil {
			h.renderer.close()
		}
		h.mu.Unlock()

		// Drains the GPU queue while the device is still alive.
		gg.CloseAccelerator()
		svgview.Logger().Info("gogpu: host closed")
	})
}

var _ render.Backend = (*Host)(nil)
