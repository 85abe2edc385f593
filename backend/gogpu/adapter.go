package gogpu

import "fmt"

// AdapterInfo describes the GPU adapter found by the startup probe.
type AdapterInfo struct {
	// Name is the GPU name (e.g., "NVIDIA GeForce RTX 3080").
	Name string
	// Backend is the graphics API in use (Vulkan, Metal, DX12).
	Backend string
}

// String returns a human-readable description of the adapter.
func (a AdapterInfo) String() string {
	if a.Name == "" {
		return "unknown adapter"
	}
	return fmt.Sprintf("%s (%s)", a.Name, a.Backend)
}
