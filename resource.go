package gpupool

import (
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/gpupool/subresource"
)

// PooledImage is an image lent out by a Pool.
//
// The holder has exclusive use of the image between Pool.AcquireImage and
// Pool.ReleaseImage. The wrapper keeps no reference to the pool.
type PooledImage struct {
	texture hal.Texture
	view    hal.TextureView
	desc    ImageDescriptor
	factory Factory

	inUse bool
}

// Texture returns the underlying texture, or nil once destroyed.
func (img *PooledImage) Texture() hal.Texture { return img.texture }

// RenderTargetView returns the attachment view of layer 0, mip 0. It is nil
// unless the image was created with UsageRenderTarget or UsageDepthStencil.
func (img *PooledImage) RenderTargetView() hal.TextureView { return img.view }

// Descriptor returns the descriptor the image was created with.
func (img *PooledImage) Descriptor() ImageDescriptor { return img.desc }

// InUse reports whether the image is currently lent out.
func (img *PooledImage) InUse() bool { return img.inUse }

// Subresources returns the range covering every layer and mip of the image.
// Cube faces count as separate layers.
func (img *PooledImage) Subresources() subresource.Range {
	return subresource.Whole(img.desc.layerCount(), img.desc.MipLevelCount)
}

// Destroy frees the GPU objects of an image the holder kept after the pool
// was closed. On an image still owned by a pool, Destroy leaves an entry the
// pool skips until Trim or Close removes it. Destroy is idempotent.
func (img *PooledImage) Destroy() {
	if img.view != nil {
		img.factory.DestroyView(img.view)
		img.view = nil
	}
	if img.texture != nil {
		img.factory.DestroyImage(img.texture)
		img.texture = nil
	}
}

// PooledBuffer is a storage buffer lent out by a Pool.
type PooledBuffer struct {
	buffer  hal.Buffer
	desc    BufferDescriptor
	factory Factory

	inUse bool
}

// Buffer returns the underlying buffer, or nil once destroyed.
func (b *PooledBuffer) Buffer() hal.Buffer { return b.buffer }

// Descriptor returns the descriptor the buffer was created with.
func (b *PooledBuffer) Descriptor() BufferDescriptor { return b.desc }

// InUse reports whether the buffer is currently lent out.
func (b *PooledBuffer) InUse() bool { return b.inUse }

// Destroy frees the GPU buffer. See PooledImage.Destroy.
func (b *PooledBuffer) Destroy() {
	if b.buffer != nil {
		b.factory.DestroyBuffer(b.buffer)
		b.buffer = nil
	}
}
