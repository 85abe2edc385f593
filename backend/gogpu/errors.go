// Package gogpu provides a windowed GPU backend using the gogpu/gogpu
// framework.
//
// The window is the named container of the surface. Documents are drawn
// with gg into a ggcanvas texture that is composited onto the window
// surface, so gg's GPU accelerator shares the window's device.
//
// Importing the package registers the backend:
//
//	import _ "github.com/gogpu/svgview/backend/gogpu"
//
// Before handing out the device the host probes for a high-performance
// adapter with the pure Go wgpu implementation. Build with -tags rust to
// probe through wgpu-native instead.
package gogpu

import "errors"

// Package errors for the gogpu backend.
var (
	// ErrClosed is returned when the window has been closed.
	ErrClosed = errors.New("gogpu: host closed")

	// ErrNoProvider is returned when the window has no GPU device yet.
	ErrNoProvider = errors.New("gogpu: GPU context not available")

	// ErrNoFrame is returned when a frame is requested outside of a draw
	// callback.
	ErrNoFrame = errors.New("gogpu: no frame in flight")

	// ErrZeroSize is returned when the window surface has no area,
	// typically while minimized.
	ErrZeroSize = errors.New("gogpu: surface has zero size")

	// ErrFramePresented is returned when a frame is presented twice.
	ErrFramePresented = errors.New("gogpu: frame already presented")
)
