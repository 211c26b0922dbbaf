// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpupool

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// DeviceHandle provides GPU device access from the host application.
//
// The pool RECEIVES the device from the host; only OpenHeadless creates one,
// on the noop backend. Hosts such as gogpu.App implement DeviceHandle and additionally expose their
// HAL device through a HalDevice() any method, which NewFactoryFromProvider
// uses to build a HALFactory on the shared device.
//
// DeviceHandle is an alias for gpucontext.DeviceProvider.
type DeviceHandle = gpucontext.DeviceProvider

// halProvider is implemented by device providers that expose their HAL
// device.
type halProvider interface {
	HalDevice() any
}

// NewFactoryFromProvider returns a HALFactory on the HAL device shared by
// provider.
//
// Example:
//
//	factory, err := gpupool.NewFactoryFromProvider(app.DeviceProvider())
//	if err != nil {
//	    return err
//	}
//	pool := gpupool.New(factory)
func NewFactoryFromProvider(provider DeviceHandle) (*HALFactory, error) {
	if provider == nil {
		return nil, ErrNilDevice
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, fmt.Errorf("%w: %T has no HalDevice method", ErrNoHALDevice, provider)
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice of %T is not a hal.Device", ErrNoHALDevice, provider)
	}
	return NewHALFactory(device)
}

// HeadlessDevice is a DeviceHandle backed by the noop HAL backend. Images and
// buffers created on it hold no memory, which lets tools and tests drive a
// Pool without a GPU. It exposes its HAL device like a windowed host does, so
// NewFactoryFromProvider accepts it.
type HeadlessDevice struct {
	instance hal.Instance
	device   hal.Device
	name     string
}

// OpenHeadless opens the first noop adapter. Close releases it.
func OpenHeadless() (*HeadlessDevice, error) {
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		return nil, fmt.Errorf("gpupool: headless instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}
	opened, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("gpupool: headless device: %w", err)
	}
	Logger().Debug("gpupool: headless device opened", "adapter", adapters[0].Info.Name)
	return &HeadlessDevice{instance: instance, device: opened.Device, name: adapters[0].Info.Name}, nil
}

// HalDevice returns the noop HAL device, or nil after Close.
func (h *HeadlessDevice) HalDevice() any {
	if h.device == nil {
		return nil
	}
	return h.device
}

// Device returns nil: the noop backend has no gpucontext device.
func (h *HeadlessDevice) Device() gpucontext.Device { return nil }

// Queue returns nil.
func (h *HeadlessDevice) Queue() gpucontext.Queue { return nil }

// Adapter returns nil.
func (h *HeadlessDevice) Adapter() gpucontext.Adapter { return nil }

// AdapterInfo reports the noop adapter as a software adapter.
func (h *HeadlessDevice) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: h.name, Type: gpucontext.AdapterTypeSoftware}
}

// SurfaceFormat returns TextureFormatUndefined; a headless device has no
// surface.
func (h *HeadlessDevice) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// Close destroys the device and its instance. Pools built on the device must
// be closed first. Close is idempotent.
func (h *HeadlessDevice) Close() {
	if h.device == nil {
		return
	}
	h.device.Destroy()
	h.instance.Destroy()
	h.device, h.instance = nil, nil
}

var _ DeviceHandle = (*HeadlessDevice)(nil)
