package backend

import (
	"errors"

	"github.com/gogpu/svgview/render"
)

// Backend name constants.
const (
	// BackendGoGPU is the name of the windowed GPU backend.
	BackendGoGPU = "gogpu"
	// BackendSoftware is the name of the headless CPU backend.
	BackendSoftware = "software"
)

// Package errors.
var (
	// ErrBackendNotAvailable is returned when no backend with the requested
	// name is registered, or none could be created.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrClosed is returned by operations on a closed backend.
	ErrClosed = errors.New("backend: closed")
)

// Config carries host settings known before the backend is created.
type Config struct {
	// Title is the window title, for backends that open a window.
	Title string

	// Width and Height are the initial host size in pixels.
	Width, Height int
}

// Factory creates a backend instance.
type Factory func(cfg Config) (render.Backend, error)

// Runner is implemented by backends that own an event loop.
// Run blocks until the host is closed.
type Runner interface {
	Run() error
}

// Closer is implemented by backends that hold resources.
type Closer interface {
	Close()
}
