package gpupool

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"
)

// ImageType is the shape of a pooled image.
type ImageType uint8

const (
	// ImageType2D is a two-dimensional image, optionally multisampled.
	ImageType2D ImageType = iota
	// ImageType3D is a volume image.
	ImageType3D
	// ImageTypeCube is a six-face cube map.
	ImageTypeCube
)

// String returns a human-readable name for the image type.
func (t ImageType) String() string {
	switch t {
	case ImageType2D:
		return "2D"
	case ImageType3D:
		return "3D"
	case ImageTypeCube:
		return "Cube"
	default:
		return fmt.Sprintf("ImageType(%d)", t)
	}
}

// ImageUsage is a set of capabilities requested for an image.
//
// A pooled image satisfies a request when its usage is a superset of the
// requested usage.
type ImageUsage uint16

const (
	// UsageSampled allows the image to be bound for sampling in shaders.
	UsageSampled ImageUsage = 1 << iota
	// UsageRenderTarget allows the image to be a color attachment.
	UsageRenderTarget
	// UsageDepthStencil allows the image to be a depth/stencil attachment.
	UsageDepthStencil
	// UsageLoadStore allows random read/write access from shaders.
	UsageLoadStore
	// UsageCopySrc allows the image to be the source of a copy.
	UsageCopySrc
	// UsageCopyDst allows the image to be the destination of a copy.
	UsageCopyDst
)

var usageNames = [...]struct {
	flag ImageUsage
	name string
}{
	{UsageSampled, "Sampled"},
	{UsageRenderTarget, "RenderTarget"},
	{UsageDepthStencil, "DepthStencil"},
	{UsageLoadStore, "LoadStore"},
	{UsageCopySrc, "CopySrc"},
	{UsageCopyDst, "CopyDst"},
}

// Has reports whether every flag in want is set in u.
func (u ImageUsage) Has(want ImageUsage) bool {
	return u&want == want
}

// NeedsAttachmentView reports whether images with this usage get a
// render-target view at creation.
func (u ImageUsage) NeedsAttachmentView() bool {
	return u&(UsageRenderTarget|UsageDepthStencil) != 0
}

// String returns the set flags joined with "|".
func (u ImageUsage) String() string {
	if u == 0 {
		return "None"
	}
	var parts []string
	for _, n := range usageNames {
		if u&n.flag != 0 {
			parts = append(parts, n.name)
			u &^= n.flag
		}
	}
	if u != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", uint16(u)))
	}
	return strings.Join(parts, "|")
}

// ImageDescriptor describes a pooled image.
//
// Two descriptors describe interchangeable images when Matches reports true;
// Label is informational and never compared.
type ImageDescriptor struct {
	Type   ImageType
	Width  uint32
	Height uint32
	// Depth is the volume depth of 3D images. It is 1 for 2D and cube images.
	Depth  uint32
	Format gputypes.TextureFormat
	Usage  ImageUsage

	// SampleCount and Gamma only apply to 2D images.
	SampleCount uint32
	Gamma       bool

	// MipLevelCount and ArrayLayerCount default to 1. For cube images
	// ArrayLayerCount counts cubes, not faces.
	MipLevelCount   uint32
	ArrayLayerCount uint32

	Label string
}

// Image2D describes a 2D image. A sample count of 0 means 1.
func Image2D(format gputypes.TextureFormat, width, height uint32, usage ImageUsage, samples uint32, gamma bool) ImageDescriptor {
	return ImageDescriptor{
		Type:        ImageType2D,
		Width:       width,
		Height:      height,
		Depth:       1,
		Format:      format,
		Usage:       usage,
		SampleCount: samples,
		Gamma:       gamma,
	}.normalized()
}

// Image3D describes a volume image.
func Image3D(format gputypes.TextureFormat, width, height, depth uint32, usage ImageUsage) ImageDescriptor {
	return ImageDescriptor{
		Type:   ImageType3D,
		Width:  width,
		Height: height,
		Depth:  depth,
		Format: format,
		Usage:  usage,
	}.normalized()
}

// ImageCube describes a cube map.
func ImageCube(format gputypes.TextureFormat, width, height uint32, usage ImageUsage) ImageDescriptor {
	return ImageDescriptor{
		Type:   ImageTypeCube,
		Width:  width,
		Height: height,
		Depth:  1,
		Format: format,
		Usage:  usage,
	}.normalized()
}

// normalized fills defaults and clears the fields that do not apply to the
// image type, so that descriptors built by hand match those built by the
// constructors.
func (d ImageDescriptor) normalized() ImageDescriptor {
	if d.MipLevelCount == 0 {
		d.MipLevelCount = 1
	}
	if d.ArrayLayerCount == 0 {
		d.ArrayLayerCount = 1
	}
	switch d.Type {
	case ImageType2D:
		d.Depth = 1
		if d.SampleCount == 0 {
			d.SampleCount = 1
		}
	case ImageType3D:
		d.SampleCount = 1
		d.Gamma = false
		d.ArrayLayerCount = 1
	case ImageTypeCube:
		d.Depth = 1
		d.SampleCount = 1
		d.Gamma = false
	}
	return d
}

// validate reports why the descriptor cannot be created, if it cannot.
func (d *ImageDescriptor) validate() error {
	switch {
	case d.Type > ImageTypeCube:
		return fmt.Errorf("%w: unknown image type %d", ErrInvalidDescriptor, d.Type)
	case d.Width == 0 || d.Height == 0:
		return fmt.Errorf("%w: image size %dx%d", ErrInvalidDescriptor, d.Width, d.Height)
	case d.Type == ImageType3D && d.Depth == 0:
		return fmt.Errorf("%w: 3D image depth 0", ErrInvalidDescriptor)
	case d.Type == ImageTypeCube && d.Width != d.Height:
		return fmt.Errorf("%w: cube faces must be square, got %dx%d", ErrInvalidDescriptor, d.Width, d.Height)
	case d.Format == gputypes.TextureFormatUndefined:
		return fmt.Errorf("%w: undefined format", ErrInvalidDescriptor)
	case d.SampleCount > 1 && d.MipLevelCount > 1:
		return fmt.Errorf("%w: multisampled images cannot have mips", ErrInvalidDescriptor)
	}
	return nil
}

// String returns a compact description such as "2D 256x256 RGBA8Unorm RenderTarget".
func (d ImageDescriptor) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %dx%d", d.Type, d.Width, d.Height)
	if d.Type == ImageType3D {
		fmt.Fprintf(&b, "x%d", d.Depth)
	}
	fmt.Fprintf(&b, " %s %s", d.Format, d.Usage)
	if d.SampleCount > 1 {
		fmt.Fprintf(&b, " x%d", d.SampleCount)
	}
	if d.Gamma {
		b.WriteString(" srgb")
	}
	if d.MipLevelCount > 1 {
		fmt.Fprintf(&b, " mips=%d", d.MipLevelCount)
	}
	if d.ArrayLayerCount > 1 {
		fmt.Fprintf(&b, " layers=%d", d.ArrayLayerCount)
	}
	return b.String()
}

// BufferType selects how buffer elements are described.
type BufferType uint8

const (
	// BufferStandard holds elements of a BufferFormat.
	BufferStandard BufferType = iota
	// BufferStructured holds elements of an arbitrary byte size.
	BufferStructured
)

// String returns a human-readable name for the buffer type.
func (t BufferType) String() string {
	switch t {
	case BufferStandard:
		return "Standard"
	case BufferStructured:
		return "Structured"
	default:
		return fmt.Sprintf("BufferType(%d)", t)
	}
}

// BufferDescriptor describes a pooled storage buffer.
type BufferDescriptor struct {
	Type         BufferType
	ElementCount uint32

	// Format applies to standard buffers.
	Format BufferFormat
	// ElementSize applies to structured buffers.
	ElementSize uint32

	Label string
}

// StandardBuffer describes a buffer of count elements of format.
func StandardBuffer(format BufferFormat, count uint32) BufferDescriptor {
	return BufferDescriptor{Type: BufferStandard, ElementCount: count, Format: format}
}

// StructuredBuffer describes a buffer of count elements of elementSize bytes.
func StructuredBuffer(elementSize, count uint32) BufferDescriptor {
	return BufferDescriptor{Type: BufferStructured, ElementCount: count, ElementSize: elementSize}
}

// Stride returns the element size in bytes.
func (d BufferDescriptor) Stride() uint32 {
	if d.Type == BufferStructured {
		return d.ElementSize
	}
	return d.Format.Size()
}

// ByteSize returns the buffer size in bytes before alignment.
func (d BufferDescriptor) ByteSize() uint64 {
	return uint64(d.ElementCount) * uint64(d.Stride())
}

func (d *BufferDescriptor) validate() error {
	switch {
	case d.Type > BufferStructured:
		return fmt.Errorf("%w: unknown buffer type %d", ErrInvalidDescriptor, d.Type)
	case d.ElementCount == 0:
		return fmt.Errorf("%w: zero element count", ErrInvalidDescriptor)
	case d.Type == BufferStandard && d.Format.Size() == 0:
		return fmt.Errorf("%w: standard buffer format %s", ErrInvalidDescriptor, d.Format)
	case d.Type == BufferStructured && d.ElementSize == 0:
		return fmt.Errorf("%w: structured buffer element size 0", ErrInvalidDescriptor)
	}
	return nil
}

// String returns a compact description such as "Structured 1024x16B".
func (d BufferDescriptor) String() string {
	if d.Type == BufferStructured {
		return fmt.Sprintf("%s %dx%dB", d.Type, d.ElementCount, d.ElementSize)
	}
	return fmt.Sprintf("%s %dx%s", d.Type, d.ElementCount, d.Format)
}
