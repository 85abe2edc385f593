package gogpu

import (
	"github.com/gogpu/svgview/backend"
	"github.com/gogpu/svgview/render"
)

// init registers the gogpu backend on package import.
// This enables automatic backend selection when using backend.Default().
//
// To use the gogpu backend, import this package:
//
//	import _ "github.com/gogpu/svgview/backend/gogpu"
func init() {
	backend.Register(backend.BackendGoGPU, func(cfg backend.Config) (render.Backend, error) {
		return NewHost(WithTitle(cfg.Title), WithSize(cfg.Width, cfg.Height)), nil
	})
}
