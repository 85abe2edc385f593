package gogpu

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/integration/ggcanvas"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/svgview/backend"
	"github.com/gogpu/svgview/render"
)

// mockDevice implements gpucontext.Device for tests.
type mockDevice struct{}

func (mockDevice) Poll(_ bool) {}
func (mockDevice) Destroy()    {}

type mockQueue struct{}
type mockAdapter struct{}

// mockProvider implements gpucontext.DeviceProvider for tests.
type mockProvider struct{}

func (mockProvider) Device() gpucontext.Device   { return mockDevice{} }
func (mockProvider) Queue() gpucontext.Queue     { return mockQueue{} }
func (mockProvider) Adapter() gpucontext.Adapter { return mockAdapter{} }
func (mockProvider) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Type: gpucontext.AdapterTypeUnknown}
}
func (mockProvider) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatBGRA8Unorm
}

// fakeTarget stands in for a gogpu draw context.
type fakeTarget struct{ w, h int }

func (t fakeTarget) Width() int  { return t.w }
func (t fakeTarget) Height() int { return t.h }

// newTestHost returns a Host without a window.
func newTestHost() *Host {
	return &Host{
		cfg:    hostConfig{title: "test", width: 40, height: 30},
		closed: make(chan struct{}),
	}
}

// runDraws calls h.draw until stop is closed, like a window at vsync.
func runDraws(h *Host, t drawTarget, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		default:
		}
		h.draw(t)
		time.Sleep(time.Millisecond)
	}
}

func TestBackendRegistration(t *testing.T) {
	if !backend.IsRegistered(backend.BackendGoGPU) {
		t.Error("gogpu backend should be registered")
	}
}

func TestJobQueue(t *testing.T) {
	var q jobQueue
	var order []int
	for i := range 3 {
		_ = q.push(newJob(func() error { order = append(order, i); return nil }))
	}
	canceled := newJob(func() error { t.Error("canceled job ran"); return nil })
	_ = q.push(canceled)
	if !q.cancel(canceled) {
		t.Error("cancel() of a queued job should succeed")
	}

	if n := q.drain(); n != 3 {
		t.Errorf("drain() = %d, want 3", n)
	}
	if len(order) != 3 || order[0] != 0 || order[2] != 2 {
		t.Errorf("order = %v", order)
	}
	if !q.empty() {
		t.Error("queue should be empty after drain")
	}
	if q.cancel(canceled) {
		t.Error("cancel() of a removed job should fail")
	}
}

func TestJobQueueFail(t *testing.T) {
	var q jobQueue
	j := newJob(func() error { return nil })
	if err := q.push(j); err != nil {
		t.Fatal(err)
	}
	q.fail(ErrClosed)

	if err := <-j.result; !errors.Is(err, ErrClosed) {
		t.Errorf("result = %v, want ErrClosed", err)
	}
	if q.cancel(j) {
		t.Error("a failed job cannot be canceled")
	}

	// A push that loses the race with fail must not be stranded.
	late := newJob(func() error { t.Error("job ran after fail"); return nil })
	if err := q.push(late); !errors.Is(err, ErrClosed) {
		t.Errorf("push() after fail = %v, want ErrClosed", err)
	}
	if !q.empty() {
		t.Error("rejected job left in queue")
	}
}

func TestHostDoAfterShutdownRace(t *testing.T) {
	h := newTestHost()
	// Shutdown has failed the queue but the closed channel is not yet
	// visible to Do.
	h.queue.fail(ErrClosed)

	done := make(chan error, 1)
	go func() { done <- h.Do(context.Background(), func() error { return nil }) }()
	select {
	case err := <-done:
		if !errors.Is(err, ErrClosed) {
			t.Errorf("Do() = %v, want ErrClosed", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Do() blocked on a closed queue")
	}
}

func TestHostDoRunsInDrawCallback(t *testing.T) {
	h := newTestHost()
	stop := make(chan struct{})
	defer close(stop)
	target := fakeTarget{40, 30}
	go runDraws(h, target, stop)

	var seen drawTarget
	err := h.Do(context.Background(), func() error {
		seen = h.target()
		return nil
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if seen != target {
		t.Errorf("target inside job = %v, want %v", seen, target)
	}
	if h.target() != nil {
		t.Error("target must be cleared after the callback")
	}
}

func TestHostDoCanceledBeforeDraw(t *testing.T) {
	h := newTestHost()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := h.Do(ctx, func() error {
		t.Error("job ran without a draw callback")
		return nil
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Do() error = %v, want DeadlineExceeded", err)
	}
	if !h.queue.empty() {
		t.Error("canceled job left in queue")
	}
}

func TestHostClose(t *testing.T) {
	h := newTestHost()

	var wg sync.WaitGroup
	wg.Add(1)
	var pending error
	go func() {
		defer wg.Done()
		pending = h.Do(context.Background(), func() error { return nil })
	}()
	for h.queue.empty() {
		time.Sleep(time.Millisecond)
	}

	h.Close()
	h.Close()
	wg.Wait()

	if !errors.Is(pending, ErrClosed) {
		t.Errorf("pending Do() = %v, want ErrClosed", pending)
	}
	if err := h.Do(context.Background(), func() error { return nil }); !errors.Is(err, ErrClosed) {
		t.Errorf("Do() after Close = %v, want ErrClosed", err)
	}
}

func TestWindowSurfaceFrames(t *testing.T) {
	h := newTestHost()
	s, err := h.CreateSurface(context.Background(), mockProvider{}, render.SurfaceSpec{Container: "canvas_holster", Width: 40, Height: 30})
	if err != nil {
		t.Fatalf("CreateSurface() error = %v", err)
	}
	if s.Format() != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("Format() = %v", s.Format())
	}

	// Outside a draw callback there is no frame.
	if _, err := s.AcquireFrame(context.Background()); !errors.Is(err, ErrNoFrame) {
		t.Errorf("AcquireFrame() error = %v, want ErrNoFrame", err)
	}

	h.current = fakeTarget{0, 0}
	if _, err := s.AcquireFrame(context.Background()); !errors.Is(err, ErrZeroSize) {
		t.Errorf("AcquireFrame() error = %v, want ErrZeroSize", err)
	}

	h.current = fakeTarget{40, 30}
	f, err := s.AcquireFrame(context.Background())
	if err != nil {
		t.Fatalf("AcquireFrame() error = %v", err)
	}
	if f.Width() != 40 || f.Height() != 30 {
		t.Errorf("frame = %dx%d", f.Width(), f.Height())
	}
	if err := f.Present(); err != nil {
		t.Fatal(err)
	}
	if !h.presented {
		t.Error("Present() should mark the callback as presented")
	}
	if err := f.Present(); !errors.Is(err, ErrFramePresented) {
		t.Errorf("second Present() = %v", err)
	}

	if err := s.Reconfigure(); err != nil {
		t.Errorf("Reconfigure() error = %v", err)
	}
	h.Close()
	if err := s.Reconfigure(); !errors.Is(err, ErrClosed) {
		t.Errorf("Reconfigure() after close = %v, want ErrClosed", err)
	}
}

func TestCreateSurfaceInvalidSize(t *testing.T) {
	h := newTestHost()
	if _, err := h.CreateSurface(context.Background(), mockProvider{}, render.SurfaceSpec{Width: 0, Height: 10}); err == nil {
		t.Error("CreateSurface() with zero width should fail")
	}
}

func TestCanvasRendererRenderToFrame(t *testing.T) {
	h := newTestHost()
	surface, err := h.CreateSurface(context.Background(), mockProvider{}, render.SurfaceSpec{Width: 20, Height: 10})
	if err != nil {
		t.Fatal(err)
	}

	var blits int
	var last *ggcanvas.Canvas
	r := newCanvasRenderer(mockProvider{}, render.RendererOptions{AntialiasingSupport: render.AreaOnly()},
		func(c *ggcanvas.Canvas, _ drawTarget) error {
			blits++
			last = c
			return nil
		})
	defer r.close()

	h.current = fakeTarget{20, 10}
	frame, err := surface.AcquireFrame(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	scene := render.NewScene()
	scene.SetFillBrush(gg.Solid(gg.RGB(1, 0, 0)))
	scene.MoveTo(0, 0)
	scene.LineTo(20, 0)
	scene.LineTo(20, 10)
	scene.LineTo(0, 10)
	scene.ClosePath()
	scene.Fill()

	params := render.RenderParams{BaseColor: gg.White, Width: 20, Height: 10, Antialiasing: render.AAArea}
	if err := r.RenderToFrame(scene, frame, params); err != nil {
		t.Fatalf("RenderToFrame() error = %v", err)
	}
	if blits != 1 || last == nil {
		t.Fatalf("blits = %d, want 1", blits)
	}
	if w, hh := last.Size(); w != 20 || hh != 10 {
		t.Errorf("canvas size = %dx%d, want 20x10", w, hh)
	}

	if err := r.redraw(fakeTarget{20, 10}); err != nil || blits != 2 {
		t.Errorf("redraw() = %v, blits = %d", err, blits)
	}

	params.Antialiasing = render.AAMSAA16
	if err := r.RenderToFrame(scene, frame, params); err == nil {
		t.Error("RenderToFrame() with an AA mode that was not enabled should fail")
	}
}

func TestHostNewRendererRejectsForeignSurface(t *testing.T) {
	h := newTestHost()
	if _, err := h.NewRenderer(mockProvider{}, nil, render.RendererOptions{}); err == nil {
		t.Error("NewRenderer() with a foreign surface should fail")
	}
}

func TestAdapterInfoString(t *testing.T) {
	if got := (AdapterInfo{}).String(); got != "unknown adapter" {
		t.Errorf("String() = %q", got)
	}
	if got := (AdapterInfo{Name: "GPU", Backend: "Vulkan"}).String(); got != "GPU (Vulkan)" {
		t.Errorf("String() = %q", got)
	}
}
