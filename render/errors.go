// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import "errors"

// Package errors.
var (
	// ErrDeviceInit is returned when the adapter, device or surface
	// cannot be created.
	ErrDeviceInit = errors.New("render: device initialization failed")

	// ErrSurfaceAcquire is returned when no frame could be obtained from
	// the surface, even after reconfiguring it once.
	ErrSurfaceAcquire = errors.New("render: surface acquire failed")

	// ErrRender is returned when drawing into or presenting a frame fails.
	ErrRender = errors.New("render: render failed")

	// ErrNotInitialized is returned when a frame is requested before the
	// render state exists.
	ErrNotInitialized = errors.New("render: not initialized")

	// ErrNilScene is returned when a nil scene is presented.
	ErrNilScene = errors.New("render: nil scene")
)
