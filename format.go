package gpupool

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// BufferFormat is the element format of a standard buffer.
type BufferFormat uint8

// Buffer element formats.
const (
	BufferFormatUnknown BufferFormat = iota
	BufferFormatR32Float
	BufferFormatRG32Float
	BufferFormatRGB32Float
	BufferFormatRGBA32Float
	BufferFormatR32Uint
	BufferFormatRG32Uint
	BufferFormatRGBA32Uint
	BufferFormatR32Sint
	BufferFormatRGBA32Sint
	BufferFormatR16Float
	BufferFormatRGBA16Float
	BufferFormatRGBA8Unorm
	bufferFormatCount
)

var bufferFormatInfo = [bufferFormatCount]struct {
	name string
	size uint32
}{
	BufferFormatUnknown:     {"Unknown", 0},
	BufferFormatR32Float:    {"R32Float", 4},
	BufferFormatRG32Float:   {"RG32Float", 8},
	BufferFormatRGB32Float:  {"RGB32Float", 12},
	BufferFormatRGBA32Float: {"RGBA32Float", 16},
	BufferFormatR32Uint:     {"R32Uint", 4},
	BufferFormatRG32Uint:    {"RG32Uint", 8},
	BufferFormatRGBA32Uint:  {"RGBA32Uint", 16},
	BufferFormatR32Sint:     {"R32Sint", 4},
	BufferFormatRGBA32Sint:  {"RGBA32Sint", 16},
	BufferFormatR16Float:    {"R16Float", 2},
	BufferFormatRGBA16Float: {"RGBA16Float", 8},
	BufferFormatRGBA8Unorm:  {"RGBA8Unorm", 4},
}

// Size returns the element size in bytes, or 0 for unknown formats.
func (f BufferFormat) Size() uint32 {
	if f >= bufferFormatCount {
		return 0
	}
	return bufferFormatInfo[f].size
}

// String returns the format name.
func (f BufferFormat) String() string {
	if f >= bufferFormatCount {
		return fmt.Sprintf("BufferFormat(%d)", f)
	}
	return bufferFormatInfo[f].name
}

// ParseBufferFormat returns the format with the given name.
func ParseBufferFormat(name string) (BufferFormat, bool) {
	for f := BufferFormatR32Float; f < bufferFormatCount; f++ {
		if bufferFormatInfo[f].name == name {
			return f, true
		}
	}
	return BufferFormatUnknown, false
}

// texelSizes holds bytes per texel for the uncompressed formats the pool
// estimates memory for. Formats missing here count as 4 bytes.
var texelSizes = map[gputypes.TextureFormat]uint64{
	gputypes.TextureFormatR8Unorm:             1,
	gputypes.TextureFormatRG8Unorm:            2,
	gputypes.TextureFormatR16Float:            2,
	gputypes.TextureFormatR32Float:            4,
	gputypes.TextureFormatRG16Float:           4,
	gputypes.TextureFormatRGBA8Unorm:          4,
	gputypes.TextureFormatRGBA8UnormSrgb:      4,
	gputypes.TextureFormatBGRA8Unorm:          4,
	gputypes.TextureFormatBGRA8UnormSrgb:      4,
	gputypes.TextureFormatRGB10A2Unorm:        4,
	gputypes.TextureFormatRG11B10Ufloat:       4,
	gputypes.TextureFormatRG32Float:           8,
	gputypes.TextureFormatRGBA16Float:         8,
	gputypes.TextureFormatRGBA32Float:         16,
	gputypes.TextureFormatDepth16Unorm:        2,
	gputypes.TextureFormatDepth24Plus:         4,
	gputypes.TextureFormatDepth24PlusStencil8: 4,
	gputypes.TextureFormatDepth32Float:        4,
}

// TexelSize returns the estimated bytes per texel of format.
func TexelSize(format gputypes.TextureFormat) uint64 {
	if n, ok := texelSizes[format]; ok {
		return n
	}
	return 4
}

// srgbFormats maps linear formats to their gamma-corrected variants.
var srgbFormats = map[gputypes.TextureFormat]gputypes.TextureFormat{
	gputypes.TextureFormatRGBA8Unorm: gputypes.TextureFormatRGBA8UnormSrgb,
	gputypes.TextureFormatBGRA8Unorm: gputypes.TextureFormatBGRA8UnormSrgb,
}

// textureFormat returns the device format for d, switching to the sRGB
// variant when Gamma is set and one exists.
func (d *ImageDescriptor) textureFormat() gputypes.TextureFormat {
	if d.Gamma {
		if f, ok := srgbFormats[d.Format]; ok {
			return f
		}
	}
	return d.Format
}

// usageFlags maps each ImageUsage flag to device texture usage.
var usageFlags = [...]struct {
	flag  ImageUsage
	usage gputypes.TextureUsage
}{
	{UsageSampled, gputypes.TextureUsageTextureBinding},
	{UsageRenderTarget, gputypes.TextureUsageRenderAttachment},
	{UsageDepthStencil, gputypes.TextureUsageRenderAttachment},
	{UsageLoadStore, gputypes.TextureUsageStorageBinding},
	{UsageCopySrc, gputypes.TextureUsageCopySrc},
	{UsageCopyDst, gputypes.TextureUsageCopyDst},
}

// TextureUsage converts u to device texture usage. Every pooled image can be
// sampled, so TextureBinding is always set.
func (u ImageUsage) TextureUsage() gputypes.TextureUsage {
	out := gputypes.TextureUsageTextureBinding
	for _, m := range usageFlags {
		if u&m.flag != 0 {
			out |= m.usage
		}
	}
	return out
}

// ByteSize estimates the memory of one image described by d, including every
// mip level, layer and sample.
func (d ImageDescriptor) ByteSize() uint64 {
	texel := TexelSize(d.Format)
	w, h, depth := uint64(d.Width), uint64(d.Height), uint64(max(d.Depth, 1))
	var total uint64
	for range max(d.MipLevelCount, 1) {
		total += w * h * depth * texel
		w, h = max(w/2, 1), max(h/2, 1)
		if d.Type == ImageType3D {
			depth = max(depth/2, 1)
		}
	}
	return total * uint64(d.layerCount()) * uint64(max(d.SampleCount, 1))
}

// layerCount returns the number of device array layers, counting each cube
// face as one layer.
func (d *ImageDescriptor) layerCount() uint32 {
	layers := max(d.ArrayLayerCount, 1)
	if d.Type == ImageTypeCube {
		return 6 * layers
	}
	return layers
}
