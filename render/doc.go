// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package render turns parsed documents into frames on a GPU surface.
//
// The package defines the seams between the viewer and a windowing
// backend. A Backend creates the device, the surface and the renderer;
// the three are bundled into a State, which only exists when all of them
// were created successfully.
//
// # Key Principle
//
// The renderer RECEIVES its device from the host application and never
// creates one. Every GPU call runs on the executor supplied by the
// backend, so the host decides which OS thread talks to the driver.
//
// # Frames
//
// A Presenter draws one document per frame:
//
//	scene := render.BuildScene(doc, m)           // backend independent
//	err := presenter.Present(ctx, scene)         // acquire, render, present
//
// BuildScene bakes the viewport transform into the geometry, so a Scene
// is already in surface pixels. Scene.Draw replays it onto a gg.Context
// and is shared by every backend that draws through gg.
//
// # Anti-aliasing
//
// Surfaces are rendered with area coverage (AAArea). Multisampled modes
// are described by AASupport but are not requested by the viewer.
//
// # Thread Safety
//
// Scene is not safe for concurrent mutation; a built Scene may be read by
// one renderer at a time. Presenter serializes its work on the executor.
package render
