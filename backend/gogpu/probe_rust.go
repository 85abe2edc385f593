//go:build rust

package gogpu

import (
	"fmt"

	"github.com/go-webgpu/webgpu/wgpu"
)

// probeAdapter asks wgpu-native for a high-performance adapter.
// Build with -tags rust to probe through the Rust implementation instead
// of the pure Go one; rendering still goes through the window's device.
func probeAdapter() (AdapterInfo, error) {
	if err := wgpu.Init(); err != nil {
		return AdapterInfo{}, fmt.Errorf("wgpu-native not found: %w", err)
	}
	instance, err := wgpu.CreateInstance(nil)
	if err != nil {
		return AdapterInfo{}, fmt.Errorf("create instance: %w", err)
	}
	defer instance.Release()

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return AdapterInfo{}, fmt.Errorf("request adapter: %w", err)
	}
	defer adapter.Release()

	info, err := adapter.GetInfo()
	if err != nil {
		return AdapterInfo{}, fmt.Errorf("adapter info: %w", err)
	}
	return AdapterInfo{Name: info.Device, Backend: backendName(info.BackendType)}, nil
}

func backendName(bt wgpu.BackendType) string {
	switch bt {
	case wgpu.BackendTypeNull:
		return "Null"
	case wgpu.BackendTypeWebGPU:
		return "WebGPU"
	case wgpu.BackendTypeD3D11:
		return "D3D11"
	case wgpu.BackendTypeD3D12:
		return "D3D12"
	case wgpu.BackendTypeMetal:
		return "Metal"
	case wgpu.BackendTypeVulkan:
		return "Vulkan"
	case wgpu.BackendTypeOpenGL:
		return "OpenGL"
	case wgpu.BackendTypeOpenGLES:
		return "OpenGLES"
	default:
		return "Unknown"
	}
}
