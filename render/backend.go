// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"context"

	"github.com/gogpu/gg"
	"github.com/gogpu/gputypes"
)

// Backend creates the GPU objects that make up a State.
//
// All methods except Do may touch the graphics driver and must be called
// through Do. Implementations decide which goroutine or OS thread runs
// the submitted functions.
type Backend interface {
	Executor

	// RequestDevice returns the device to render with.
	RequestDevice(ctx context.Context) (DeviceHandle, error)

	// CreateSurface creates a presentable surface in the container named
	// by spec.
	CreateSurface(ctx context.Context, dev DeviceHandle, spec SurfaceSpec) (Surface, error)

	// NewRenderer creates a renderer for surfaces of dev.
	NewRenderer(dev DeviceHandle, surface Surface, opts RendererOptions) (SceneRenderer, error)
}

// SurfaceSpec describes the surface to create.
type SurfaceSpec struct {
	// Container names the host element (a window or canvas holder)
	// the surface is attached to.
	Container string

	// Width and Height are the configured size in pixels.
	Width, Height int
}

// Surface is a configured presentation surface.
type Surface interface {
	// Width returns the configured width in pixels.
	Width() int

	// Height returns the configured height in pixels.
	Height() int

	// Format returns the texture format of acquired frames.
	Format() gputypes.TextureFormat

	// AcquireFrame returns the next frame to draw into.
	AcquireFrame(ctx context.Context) (Frame, error)

	// Reconfigure re-applies the surface configuration, typically after
	// the surface was lost or became outdated.
	Reconfigure() error
}

// Frame is a surface texture acquired for one presentation.
type Frame interface {
	Width() int
	Height() int

	// Present shows the frame. A frame must not be used after Present.
	Present() error
}

// SceneRenderer draws a Scene into a Frame.
type SceneRenderer interface {
	RenderToFrame(scene *Scene, frame Frame, params RenderParams) error
}

// AAConfig selects the anti-aliasing method for a render call.
type AAConfig uint8

const (
	// AAArea computes analytic pixel coverage. It needs no multisampled
	// targets.
	AAArea AAConfig = iota

	// AAMSAA8 uses 8x multisampling.
	AAMSAA8

	// AAMSAA16 uses 16x multisampling.
	AAMSAA16
)

// String returns the name of the method.
func (a AAConfig) String() string {
	switch a {
	case AAArea:
		return "area"
	case AAMSAA8:
		return "msaa8"
	case AAMSAA16:
		return "msaa16"
	}
	return "unknown"
}

// rasterizer returns the gg rasterizer that implements a.
func (a AAConfig) rasterizer() gg.RasterizerMode {
	if a == AAArea {
		return gg.RasterizerAnalytic
	}
	return gg.RasterizerAuto
}

// AASupport lists the anti-aliasing methods a renderer prepares for.
type AASupport struct {
	Area   bool
	MSAA8  bool
	MSAA16 bool
}

// AreaOnly enables area anti-aliasing and nothing else.
func AreaOnly() AASupport {
	return AASupport{Area: true}
}

// Supports reports whether a was enabled.
func (s AASupport) Supports(a AAConfig) bool {
	switch a {
	case AAArea:
		return s.Area
	case AAMSAA8:
		return s.MSAA8
	case AAMSAA16:
		return s.MSAA16
	}
	return false
}

// RendererOptions configures a SceneRenderer.
type RendererOptions struct {
	// AntialiasingSupport lists the methods the renderer must support.
	AntialiasingSupport AASupport

	// Pipeline selects the gg pipeline used by gg-based renderers.
	Pipeline gg.PipelineMode

	// Font is used for text runs. Text is skipped when it is nil.
	Font *Font
}

// RenderParams are the per-call render parameters.
type RenderParams struct {
	// BaseColor fills the frame before the scene is drawn.
	BaseColor gg.RGBA

	// Width and Height are the render size in pixels.
	Width, Height int

	// Antialiasing selects the anti-aliasing method.
	Antialiasing AAConfig
}
