package backend

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/svgview/render"
)

// init registers the software backend on package import.
func init() {
	Register(BackendSoftware, func(Config) (render.Backend, error) {
		return NewSoftwareBackend(), nil
	})
}

// SoftwareBackend is a headless CPU backend. Scenes are drawn on one
// goroutine locked to its OS thread, as a GPU backend would.
//
// Its surface is an in-memory image and its device is a
// render.NullDeviceHandle. It suits tests, batch conversion and hosts
// without a GPU. SoftwareBackend is safe for concurrent use.
type SoftwareBackend struct {
	exec *render.LoopExecutor

	mu        sync.Mutex
	surface   *ImageSurface
	onPresent func(image.Image)

	done      chan struct{}
	closeOnce sync.Once
}

// SoftwareOption configures a SoftwareBackend.
type SoftwareOption func(*SoftwareBackend)

// WithPresentHook sets a function called with every presented frame.
// It runs on the goroutine that presents and must not block for long.
func WithPresentHook(fn func(image.Image)) SoftwareOption {
	return func(b *SoftwareBackend) {
		b.onPresent = fn
	}
}

// NewSoftwareBackend creates a new software backend.
func NewSoftwareBackend(opts ...SoftwareOption) *SoftwareBackend {
	b := &SoftwareBackend{
		exec: render.NewLoopExecutor(),
		done: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Do runs fn on the backend's render thread.
func (b *SoftwareBackend) Do(ctx context.Context, fn func() error) error {
	select {
	case <-b.done:
		return ErrClosed
	default:
	}
	err := b.exec.Do(ctx, fn)
	if errors.Is(err, render.ErrExecutorClosed) {
		return ErrClosed
	}
	return err
}

// RequestDevice returns a device handle without a GPU device.
func (b *SoftwareBackend) RequestDevice(context.Context) (render.DeviceHandle, error) {
	return render.NullDeviceHandle{}, nil
}

// CreateSurface creates an in-memory surface. The container name is
// recorded but has no meaning for a headless host.
func (b *SoftwareBackend) CreateSurface(_ context.Context, _ render.DeviceHandle, spec render.SurfaceSpec) (render.Surface, error) {
	if spec.Width <= 0 || spec.Height <= 0 {
		return nil, fmt.Errorf("software: invalid surface size %dx%d", spec.Width, spec.Height)
	}
	s := &ImageSurface{
		container: spec.Container,
		width:     spec.Width,
		height:    spec.Height,
		onPresent: b.onPresent,
	}
	b.mu.Lock()
	b.surface = s
	b.mu.Unlock()
	return s, nil
}

// NewRenderer creates a renderer that draws frames of s on the CPU.
func (b *SoftwareBackend) NewRenderer(_ render.DeviceHandle, s render.Surface, opts render.RendererOptions) (render.SceneRenderer, error) {
	if _, ok := s.(*ImageSurface); !ok {
		return nil, fmt.Errorf("software: unsupported surface %T", s)
	}
	return &softwareRenderer{font: opts.Font}, nil
}

// Surface returns the most recently created surface, or nil.
func (b *SoftwareBackend) Surface() *ImageSurface {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.surface
}

// Run blocks until Close is called.
func (b *SoftwareBackend) Run() error {
	<-b.done
	return nil
}

// Close stops the backend. Later Do calls return ErrClosed.
func (b *SoftwareBackend) Close() {
	b.closeOnce.Do(func() {
		close(b.done)
		b.exec.Close()
	})
}

// ImageSurface is the in-memory surface of a SoftwareBackend.
type ImageSurface struct {
	container     string
	width, height int
	onPresent     func(image.Image)

	mu     sync.Mutex
	last   *gg.Context
	frames int
}

// Container returns the name of the container the surface was created in.
func (s *ImageSurface) Container() string { return s.container }

// Width returns the configured width in pixels.
func (s *ImageSurface) Width() int { return s.width }

// Height returns the configured height in pixels.
func (s *ImageSurface) Height() int { return s.height }

// Format returns RGBA8Unorm, the layout of gg images.
func (s *ImageSurface) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// AcquireFrame returns a blank frame of the surface size.
func (s *ImageSurface) AcquireFrame(ctx context.Context) (render.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &imageFrame{surface: s, cc: gg.NewContext(s.width, s.height)}, nil
}

// Reconfigure is a no-op; an image surface cannot be lost.
func (s *ImageSurface) Reconfigure() error { return nil }

// Image returns the last presented frame, or nil.
func (s *ImageSurface) Image() image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return nil
	}
	return s.last.Image()
}

// Frames returns the number of presented frames.
func (s *ImageSurface) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// SavePNG writes the last presented frame to path.
func (s *ImageSurface) SavePNG(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return errors.New("software: no frame presented")
	}
	return s.last.SavePNG(path)
}

type imageFrame struct {
	surface   *ImageSurface
	cc        *gg.Context
	presented bool
}

func (f *imageFrame) Width() int  { return f.cc.Width() }
func (f *imageFrame) Height() int { return f.cc.Height() }

func (f *imageFrame) Present() error {
	if f.presented {
		return errors.New("software: frame already presented")
	}
	f.presented = true

	s := f.surface
	s.mu.Lock()
	s.last = f.cc
	s.frames++
	s.mu.Unlock()

	if s.onPresent != nil {
		s.onPresent(f.cc.Image())
	}
	return nil
}

type softwareRenderer struct {
	font *render.Font
}

func (r *softwareRenderer) RenderToFrame(scene *render.Scene, frame render.Frame, params render.RenderParams) error {
	f, ok := frame.(*imageFrame)
	if !ok {
		return fmt.Errorf("software: unsupported frame %T", frame)
	}
	return scene.Draw(f.cc, params, r.font)
}

var (
	_ render.Backend = (*SoftwareBackend)(nil)
	_ render.Surface = (*ImageSurface)(nil)
	_ Runner         = (*SoftwareBackend)(nil)
	_ Closer         = (*SoftwareBackend)(nil)
)
