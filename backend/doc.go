// Package backend provides a registry of pluggable display backends.
//
// A backend creates the device, surface and renderer a viewer draws with
// (see render.Backend). Backends register a factory from an init function
// and are selected at runtime by name. The software backend is always
// registered:
//
//	import _ "github.com/gogpu/svgview/backend"
//
// The GPU backend registers itself when its package is imported:
//
//	import _ "github.com/gogpu/svgview/backend/gogpu"
//
// # Backend Selection
//
// Use Default to get the best available backend, or Get to request one by
// name:
//
//	b, err := backend.Default(backend.Config{Width: 400, Height: 400})
//
//	b, err := backend.Get("software", cfg)
//
// Backends that own an event loop also implement Runner. The loop must run
// on the main goroutine:
//
//	if r, ok := b.(backend.Runner); ok {
//		err = r.Run()
//	}
package backend
