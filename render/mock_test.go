// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"context"
	"errors"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
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

var errInjected = errors.New("injected failure")

// mockSurface records calls and fails the first acquireFailures acquires.
type mockSurface struct {
	mu              sync.Mutex
	width, height   int
	acquireFailures int
	reconfigureErr  error
	presentErr      error

	acquires     int
	reconfigures int
	presented    int
}

func newMockSurface(w, h int) *mockSurface {
	return &mockSurface{width: w, height: h}
}

func (s *mockSurface) Width() int                     { return s.width }
func (s *mockSurface) Height() int                    { return s.height }
func (s *mockSurface) Format() gputypes.TextureFormat { return gputypes.TextureFormatBGRA8Unorm }

func (s *mockSurface) AcquireFrame(context.Context) (Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.acquires++
	if s.acquires <= s.acquireFailures {
		return nil, errInjected
	}
	return &mockFrame{surface: s}, nil
}

func (s *mockSurface) Reconfigure() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reconfigures++
	return s.reconfigureErr
}

type mockFrame struct {
	surface *mockSurface
}

func (f *mockFrame) Width() int  { return f.surface.width }
func (f *mockFrame) Height() int { return f.surface.height }

func (f *mockFrame) Present() error {
	f.surface.mu.Lock()
	defer f.surface.mu.Unlock()
	if f.surface.presentErr != nil {
		return f.surface.presentErr
	}
	f.surface.presented++
	return nil
}

// mockRenderer replays scenes onto a CPU context of the frame size.
type mockRenderer struct {
	mu     sync.Mutex
	err    error
	calls  int
	params RenderParams
	last   *gg.Context
}

func (r *mockRenderer) RenderToFrame(scene *Scene, frame Frame, params RenderParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.params = params
	if r.err != nil {
		return r.err
	}
	cc := gg.NewContext(frame.Width(), frame.Height())
	r.last = cc
	return scene.Draw(cc, params, nil)
}

// mockBackend builds a State from mocks, optionally failing a step.
type mockBackend struct {
	InlineExecutor
	deviceErr   error
	surfaceErr  error
	rendererErr error

	surface  *mockSurface
	renderer *mockRenderer
	spec     SurfaceSpec
}

func (b *mockBackend) RequestDevice(context.Context) (DeviceHandle, error) {
	if b.deviceErr != nil {
		return nil, b.deviceErr
	}
	return mockProvider{}, nil
}

func (b *mockBackend) CreateSurface(_ context.Context, _ DeviceHandle, spec SurfaceSpec) (Surface, error) {
	if b.surfaceErr != nil {
		return nil, b.surfaceErr
	}
	b.spec = spec
	b.surface = newMockSurface(spec.Width, spec.Height)
	return b.surface, nil
}

func (b *mockBackend) NewRenderer(DeviceHandle, Surface, RendererOptions) (SceneRenderer, error) {
	if b.rendererErr != nil {
		return nil, b.rendererErr
	}
	b.renderer = &mockRenderer{}
	return b.renderer, nil
}

var (
	_ DeviceHandle = mockProvider{}
	_ Surface      = (*mockSurface)(nil)
	_ Backend      = (*mockBackend)(nil)
)
