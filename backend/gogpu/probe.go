//go:build !rust

package gogpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/core"
)

// probeAdapter checks that a high-performance adapter exists and reports
// what it is. The adapter is released again; the window owns the device
// used for rendering.
func probeAdapter() (AdapterInfo, error) {
	instance := core.NewInstance(&gputypes.InstanceDescriptor{
		Backends: gputypes.BackendsPrimary,
	})
	adapterID, err := instance.RequestAdapter(&gputypes.RequestAdapterOptions{
		PowerPreference: gputypes.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return AdapterInfo{}, fmt.Errorf("request adapter: %w", err)
	}
	defer func() {
		_ = core.AdapterDrop(adapterID)
	}()

	info, err := core.GetAdapterInfo(adapterID)
	if err != nil {
		return AdapterInfo{}, fmt.Errorf("adapter info: %w", err)
	}
	return AdapterInfo{Name: info.Name, Backend: fmt.Sprint(info.Backend)}, nil
}
