// Package svgview presents vector documents on a GPU surface.
//
// The pipeline is split into small packages:
//
//   - svg parses document text into a drawable tree with an intrinsic size.
//   - loader fetches a document by address and parses it.
//   - render owns the GPU state (device, surface, renderer), the per-frame
//     scene and the presenter that submits and presents frames.
//   - backend/gogpu binds render to a gogpu window.
//   - viewer ties everything together behind one explicit context object.
//
// This root package holds what the others share: the logger and the
// contain-and-center transform used to fit a document into the surface.
//
// # Quick Start
//
//	host := gogpu.NewHost(gogpu.WithSize(400, 400))
//	v := viewer.New(host)
//	go func() {
//	    if err := v.Load(ctx, "https://example.com/tiger.svg"); err != nil {
//	        log.Print(err)
//	    }
//	}()
//	if err := host.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// Without a window, backend.NewSoftwareBackend renders into memory.
//
// # Logging
//
// svgview produces no log output by default. Call [SetLogger] to enable
// structured logging via log/slog. The logger is also handed to gg, so
// GPU engine diagnostics share the same handler.
package svgview
