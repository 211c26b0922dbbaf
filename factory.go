// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpupool

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/gpupool/subresource"
)

// Factory creates and destroys the GPU objects behind pooled resources.
//
// The pool calls a Factory only from the goroutine using the pool.
// HALFactory is the implementation over a HAL device; tests substitute
// their own to inject failures.
type Factory interface {
	// CreateImage creates a texture for the descriptor.
	CreateImage(desc *ImageDescriptor) (hal.Texture, error)

	// CreateRenderTargetView creates an attachment view of the first face
	// and mip level of tex.
	CreateRenderTargetView(tex hal.Texture, desc *ImageDescriptor) (hal.TextureView, error)

	// CreateBuffer creates a storage buffer for the descriptor.
	CreateBuffer(desc *BufferDescriptor) (hal.Buffer, error)

	DestroyImage(tex hal.Texture)
	DestroyView(view hal.TextureView)
	DestroyBuffer(buf hal.Buffer)
}

// copyBufferAlignment is the size granularity of buffers that take part in
// copies.
const copyBufferAlignment uint64 = 4

// storageBufferUsage is the usage of every pooled buffer: readable and
// writable from shaders and usable on both ends of a copy.
const storageBufferUsage = gputypes.BufferUsageStorage |
	gputypes.BufferUsageCopySrc |
	gputypes.BufferUsageCopyDst

// HALFactory creates pooled resources on a hal.Device.
type HALFactory struct {
	device hal.Device
}

// NewHALFactory returns a factory creating resources on device.
func NewHALFactory(device hal.Device) (*HALFactory, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	return &HALFactory{device: device}, nil
}

// Device returns the device the factory creates resources on.
func (f *HALFactory) Device() hal.Device {
	return f.device
}

// CreateImage creates a texture for desc. Cube images become 2D textures with
// six layers per cube.
func (f *HALFactory) CreateImage(desc *ImageDescriptor) (hal.Texture, error) {
	if err := desc.validate(); err != nil {
		return nil, err
	}

	dimension := gputypes.TextureDimension2D
	depthOrLayers := desc.layerCount()
	if desc.Type == ImageType3D {
		dimension = gputypes.TextureDimension3D
		depthOrLayers = desc.Depth
	}

	tex, err := f.device.CreateTexture(&hal.TextureDescriptor{
		Label: desc.Label,
		Size: hal.Extent3D{
			Width:              desc.Width,
			Height:             desc.Height,
			DepthOrArrayLayers: depthOrLayers,
		},
		MipLevelCount: max(desc.MipLevelCount, 1),
		SampleCount:   max(desc.SampleCount, 1),
		Dimension:     dimension,
		Format:        desc.textureFormat(),
		Usage:         desc.Usage.TextureUsage(),
	})
	if err != nil {
		return nil, fmt.Errorf("gpupool: create texture %q: %w", desc.Label, err)
	}
	return tex, nil
}

// CreateRenderTargetView creates a single-subresource view of layer 0,
// mip 0 of tex.
func (f *HALFactory) CreateRenderTargetView(tex hal.Texture, desc *ImageDescriptor) (hal.TextureView, error) {
	vd := subresource.Whole(1, 1).ViewDescriptor(desc.Label + "_rt")
	vd.Format = desc.textureFormat()
	vd.Dimension = gputypes.TextureViewDimension2D
	if desc.Type == ImageType3D {
		vd.Dimension = gputypes.TextureViewDimension3D
	}
	view, err := f.device.CreateTextureView(tex, vd)
	if err != nil {
		return nil, fmt.Errorf("gpupool: create render target view %q: %w", vd.Label, err)
	}
	return view, nil
}

// CreateBuffer creates a storage buffer for desc, rounding the size up to
// the copy alignment.
func (f *HALFactory) CreateBuffer(desc *BufferDescriptor) (hal.Buffer, error) {
	if err := desc.validate(); err != nil {
		return nil, err
	}
	size := alignedBufferSize(desc.ByteSize())
	buf, err := f.device.CreateBuffer(&hal.BufferDescriptor{
		Label: desc.Label,
		Size:  size,
		Usage: storageBufferUsage,
	})
	if err != nil {
		return nil, fmt.Errorf("gpupool: create buffer %q (%d bytes): %w", desc.Label, size, err)
	}
	return buf, nil
}

// DestroyImage destroys a texture created by CreateImage.
func (f *HALFactory) DestroyImage(tex hal.Texture) {
	if tex != nil {
		f.device.DestroyTexture(tex)
	}
}

// DestroyView destroys a view created by CreateRenderTargetView.
func (f *HALFactory) DestroyView(view hal.TextureView) {
	if view != nil {
		f.device.DestroyTextureView(view)
	}
}

// DestroyBuffer destroys a buffer created by CreateBuffer.
func (f *HALFactory) DestroyBuffer(buf hal.Buffer) {
	if buf != nil {
		f.device.DestroyBuffer(buf)
	}
}

func alignedBufferSize(n uint64) uint64 {
	return (n + copyBufferAlignment - 1) &^ (copyBufferAlignment - 1)
}
