// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package subresource

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Range is a rectangle in (array layer × mip level) space of a single image.
//
// The layer axis is [BaseArrayLayer, BaseArrayLayer+ArrayLayerCount) and the
// mip axis is [BaseMipLevel, BaseMipLevel+MipLevelCount). Ends are computed in
// uint64, so a range reaching past MaxUint32 does not wrap. Field names match
// hal.TextureViewDescriptor so a Range converts to a view without renaming.
//
// Range is a plain value; copy it freely.
type Range struct {
	BaseArrayLayer  uint32
	ArrayLayerCount uint32
	BaseMipLevel    uint32
	MipLevelCount   uint32
}

// Whole returns the range covering every layer and mip of an image with the
// given layer and mip counts.
func Whole(layers, mips uint32) Range {
	return Range{ArrayLayerCount: layers, MipLevelCount: mips}
}

// Empty reports whether the range addresses no subresources.
func (r Range) Empty() bool {
	return r.ArrayLayerCount == 0 || r.MipLevelCount == 0
}

// EndArrayLayer returns one past the last layer in the range.
func (r Range) EndArrayLayer() uint64 {
	return uint64(r.BaseArrayLayer) + uint64(r.ArrayLayerCount)
}

// EndMipLevel returns one past the last mip level in the range.
func (r Range) EndMipLevel() uint64 {
	return uint64(r.BaseMipLevel) + uint64(r.MipLevelCount)
}

// Subresources returns the number of (layer, mip) pairs in the range.
func (r Range) Subresources() int {
	return int(r.ArrayLayerCount) * int(r.MipLevelCount)
}

// Contains reports whether o lies entirely inside r.
// An empty o is contained in any range.
func (r Range) Contains(o Range) bool {
	if o.Empty() {
		return true
	}
	return o.BaseArrayLayer >= r.BaseArrayLayer && o.EndArrayLayer() <= r.EndArrayLayer() &&
		o.BaseMipLevel >= r.BaseMipLevel && o.EndMipLevel() <= r.EndMipLevel()
}

// ContainsSubresource reports whether the (layer, mip) pair is inside r.
func (r Range) ContainsSubresource(layer, mip uint32) bool {
	return layer >= r.BaseArrayLayer && uint64(layer) < r.EndArrayLayer() &&
		mip >= r.BaseMipLevel && uint64(mip) < r.EndMipLevel()
}

// Intersect returns the overlap of r and o. The second result is false when
// the ranges do not overlap, in which case the returned Range is zero.
func (r Range) Intersect(o Range) (Range, bool) {
	if !Overlaps(r, o) {
		return Range{}, false
	}
	base := max(r.BaseArrayLayer, o.BaseArrayLayer)
	mip := max(r.BaseMipLevel, o.BaseMipLevel)
	return Range{
		BaseArrayLayer:  base,
		ArrayLayerCount: uint32(min(r.EndArrayLayer(), o.EndArrayLayer()) - uint64(base)),
		BaseMipLevel:    mip,
		MipLevelCount:   uint32(min(r.EndMipLevel(), o.EndMipLevel()) - uint64(mip)),
	}, true
}

// String returns the range as "layers[a,b) mips[c,d)".
func (r Range) String() string {
	return fmt.Sprintf("layers[%d,%d) mips[%d,%d)",
		r.BaseArrayLayer, r.EndArrayLayer(), r.BaseMipLevel, r.EndMipLevel())
}

// ViewDescriptor returns a texture view descriptor restricted to the range.
// Format and dimension are left undefined so the view inherits them from the
// texture.
func (r Range) ViewDescriptor(label string) *hal.TextureViewDescriptor {
	return &hal.TextureViewDescriptor{
		Label:           label,
		Format:          gputypes.TextureFormatUndefined,
		Aspect:          gputypes.TextureAspectAll,
		BaseMipLevel:    r.BaseMipLevel,
		MipLevelCount:   r.MipLevelCount,
		BaseArrayLayer:  r.BaseArrayLayer,
		ArrayLayerCount: r.ArrayLayerCount,
	}
}
