//go:build rust

package gogpu

import (
	"testing"

	"github.com/go-webgpu/webgpu/wgpu"
)

func TestBackendName(t *testing.T) {
	tests := []struct {
		bt   wgpu.BackendType
		want string
	}{
		{wgpu.BackendTypeVulkan, "Vulkan"},
		{wgpu.BackendTypeMetal, "Metal"},
		{wgpu.BackendTypeD3D12, "D3D12"},
		{wgpu.BackendType(0xFF), "Unknown"},
	}
	for _, tt := range tests {
		if got := backendName(tt.bt); got != tt.want {
			t.Errorf("backendName(%v) = %q, want %q", tt.bt, got, tt.want)
		}
	}
}
