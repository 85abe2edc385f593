// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"context"
	"errors"
	"fmt"
)

// State bundles the device, surface and renderer of one display.
//
// A State is either complete or does not exist: NewState rejects missing
// members and there is no way to clear one afterwards.
type State struct {
	device   DeviceHandle
	surface  Surface
	renderer SceneRenderer
}

// NewState bundles the three objects into a State.
func NewState(dev DeviceHandle, surface Surface, renderer SceneRenderer) (*State, error) {
	switch {
	case dev == nil:
		return nil, fmt.Errorf("%w: nil device", ErrDeviceInit)
	case surface == nil:
		return nil, fmt.Errorf("%w: nil surface", ErrDeviceInit)
	case renderer == nil:
		return nil, fmt.Errorf("%w: nil renderer", ErrDeviceInit)
	}
	return &State{device: dev, surface: surface, renderer: renderer}, nil
}

// Device returns the device handle.
func (s *State) Device() DeviceHandle { return s.device }

// Surface returns the presentation surface.
func (s *State) Surface() Surface { return s.surface }

// Renderer returns the scene renderer.
func (s *State) Renderer() SceneRenderer { return s.renderer }

// Setup creates a complete State with b.
//
// Every step runs on the backend's executor. Any failure is returned
// wrapped in ErrDeviceInit and nothing is kept.
func Setup(ctx context.Context, b Backend, spec SurfaceSpec, opts RendererOptions) (*State, error) {
	var state *State
	err := b.Do(ctx, func() error {
		dev, err := b.RequestDevice(ctx)
		if err != nil {
			return wrapDeviceInit("request device", err)
		}
		surface, err := b.CreateSurface(ctx, dev, spec)
		if err != nil {
			return wrapDeviceInit("create surface", err)
		}
		renderer, err := b.NewRenderer(dev, surface, opts)
		if err != nil {
			return wrapDeviceInit("create renderer", err)
		}
		state, err = NewState(dev, surface, renderer)
		return err
	})
	if err != nil {
		return nil, wrapDeviceInit("setup", err)
	}
	return state, nil
}

func wrapDeviceInit(step string, err error) error {
	if errors.Is(err, ErrDeviceInit) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrDeviceInit, step, err)
}
