// Package sim replays frame workloads against a gpupool.Pool.
//
// A workload lists render passes. Each pass acquires the images and buffers
// it declares, transitions image subresources between named states and
// releases everything when the pass ends. Replaying several frames shows how
// often the pool reuses resources and how many barriers the subresource
// trackers emit.
package sim

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/gpupool"
	"github.com/gogpu/gpupool/subresource"
)

// Errors returned while loading or replaying a workload.
var (
	ErrNoPasses       = errors.New("sim: workload has no passes")
	ErrUnknownFormat  = errors.New("sim: unknown format")
	ErrUnknownUsage   = errors.New("sim: unknown usage")
	ErrUnknownType    = errors.New("sim: unknown resource type")
	ErrUnknownImage   = errors.New("sim: transition names an image not acquired by the pass")
	ErrDuplicateImage = errors.New("sim: image declared twice in one pass")
)

// Workload is the decoded form of a workload TOML file.
type Workload struct {
	// Name labels the pool's resources.
	Name string `toml:"name"`

	// Frames is the default number of frames to replay.
	Frames int `toml:"frames"`

	Passes []Pass `toml:"pass"`
}

// Pass is one render or compute pass.
type Pass struct {
	Name        string       `toml:"name"`
	Images      []Image      `toml:"image"`
	Buffers     []Buffer     `toml:"buffer"`
	Transitions []Transition `toml:"transition"`
}

// Image declares an image acquired for the duration of a pass.
type Image struct {
	Name    string   `toml:"name"`
	Type    string   `toml:"type"`
	Format  string   `toml:"format"`
	Width   uint32   `toml:"width"`
	Height  uint32   `toml:"height"`
	Depth   uint32   `toml:"depth"`
	Usage   []string `toml:"usage"`
	Samples uint32   `toml:"samples"`
	Gamma   bool     `toml:"gamma"`
	Mips    uint32   `toml:"mips"`
	Layers  uint32   `toml:"layers"`
}

// Buffer declares a storage buffer acquired for the duration of a pass.
type Buffer struct {
	Name        string `toml:"name"`
	Type        string `toml:"type"`
	Format      string `toml:"format"`
	ElementSize uint32 `toml:"element_size"`
	Count       uint32 `toml:"count"`
}

// Transition moves a subresource range of a pass image to State. Zero
// counts select every remaining layer or mip.
type Transition struct {
	Image     string `toml:"image"`
	State     string `toml:"state"`
	BaseLayer uint32 `toml:"base_layer"`
	Layers    uint32 `toml:"layers"`
	BaseMip   uint32 `toml:"base_mip"`
	Mips      uint32 `toml:"mips"`
}

// LoadWorkload reads and validates a workload file.
func LoadWorkload(path string) (*Workload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sim: read workload: %w", err)
	}
	w, err := DecodeWorkload(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return w, nil
}

// DecodeWorkload decodes and validates a workload. Unknown keys are errors.
func DecodeWorkload(r io.Reader) (*Workload, error) {
	var w Workload
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&w); err != nil {
		return nil, fmt.Errorf("sim: decode workload: %w", err)
	}
	if err := w.validate(); err != nil {
		return nil, err
	}
	return &w, nil
}

func (w *Workload) validate() error {
	if len(w.Passes) == 0 {
		return ErrNoPasses
	}
	if w.Frames <= 0 {
		w.Frames = 1
	}
	for i := range w.Passes {
		p := &w.Passes[i]
		if p.Name == "" {
			p.Name = fmt.Sprintf("pass%d", i)
		}
		names := make(map[string]bool, len(p.Images))
		for _, img := range p.Images {
			if names[img.Name] {
				return fmt.Errorf("pass %q: %w: %q", p.Name, ErrDuplicateImage, img.Name)
			}
			if _, err := img.Descriptor(); err != nil {
				return fmt.Errorf("pass %q image %q: %w", p.Name, img.Name, err)
			}
			names[img.Name] = true
		}
		for _, b := range p.Buffers {
			if _, err := b.Descriptor(); err != nil {
				return fmt.Errorf("pass %q buffer %q: %w", p.Name, b.Name, err)
			}
		}
		for _, t := range p.Transitions {
			if !names[t.Image] {
				return fmt.Errorf("pass %q: %w: %q", p.Name, ErrUnknownImage, t.Image)
			}
		}
	}
	return nil
}

// Descriptor converts the declaration to a pool descriptor.
func (img *Image) Descriptor() (gpupool.ImageDescriptor, error) {
	format, err := ParseTextureFormat(img.Format)
	if err != nil {
		return gpupool.ImageDescriptor{}, err
	}
	usage, err := ParseUsage(img.Usage)
	if err != nil {
		return gpupool.ImageDescriptor{}, err
	}

	var d gpupool.ImageDescriptor
	switch strings.ToLower(img.Type) {
	case "", "2d":
		d = gpupool.Image2D(format, img.Width, img.Height, usage, img.Samples, img.Gamma)
	case "3d":
		d = gpupool.Image3D(format, img.Width, img.Height, img.Depth, usage)
	case "cube":
		d = gpupool.ImageCube(format, img.Width, img.Height, usage)
	default:
		return d, fmt.Errorf("%w %q", ErrUnknownType, img.Type)
	}
	if img.Mips > 0 {
		d.MipLevelCount = img.Mips
	}
	if img.Layers > 0 && d.Type != gpupool.ImageType3D {
		d.ArrayLayerCount = img.Layers
	}
	return d, nil
}

// Descriptor converts the declaration to a pool descriptor.
func (b *Buffer) Descriptor() (gpupool.BufferDescriptor, error) {
	switch strings.ToLower(b.Type) {
	case "", "standard":
		f, ok := gpupool.ParseBufferFormat(b.Format)
		if !ok {
			return gpupool.BufferDescriptor{}, fmt.Errorf("%w %q", ErrUnknownFormat, b.Format)
		}
		return gpupool.StandardBuffer(f, b.Count), nil
	case "structured":
		return gpupool.StructuredBuffer(b.ElementSize, b.Count), nil
	default:
		return gpupool.BufferDescriptor{}, fmt.Errorf("%w %q", ErrUnknownType, b.Type)
	}
}

// Range returns the subresource range selected by t within whole.
func (t *Transition) Range(whole subresource.Range) subresource.Range {
	r := subresource.Range{
		BaseArrayLayer:  t.BaseLayer,
		ArrayLayerCount: t.Layers,
		BaseMipLevel:    t.BaseMip,
		MipLevelCount:   t.Mips,
	}
	if r.ArrayLayerCount == 0 && uint64(r.BaseArrayLayer) < whole.EndArrayLayer() {
		r.ArrayLayerCount = uint32(whole.EndArrayLayer() - uint64(r.BaseArrayLayer))
	}
	if r.MipLevelCount == 0 && uint64(r.BaseMipLevel) < whole.EndMipLevel() {
		r.MipLevelCount = uint32(whole.EndMipLevel() - uint64(r.BaseMipLevel))
	}
	return r
}

// lastTextureFormat is the highest TextureFormat value ParseTextureFormat
// searches.
const lastTextureFormat = gputypes.TextureFormatASTC12x12UnormSrgb

// ParseTextureFormat returns the texture format with the given name,
// ignoring case ("rgba8unorm", "Depth24PlusStencil8").
func ParseTextureFormat(name string) (gputypes.TextureFormat, error) {
	for f := gputypes.TextureFormatR8Unorm; f <= lastTextureFormat; f++ {
		if strings.EqualFold(f.String(), name) {
			return f, nil
		}
	}
	return gputypes.TextureFormatUndefined, fmt.Errorf("%w %q", ErrUnknownFormat, name)
}

var usageByName = map[string]gpupool.ImageUsage{
	"sampled":       gpupool.UsageSampled,
	"render_target": gpupool.UsageRenderTarget,
	"depth_stencil": gpupool.UsageDepthStencil,
	"load_store":    gpupool.UsageLoadStore,
	"copy_src":      gpupool.UsageCopySrc,
	"copy_dst":      gpupool.UsageCopyDst,
}

// ParseUsage combines usage names such as "render_target" and "sampled".
func ParseUsage(names []string) (gpupool.ImageUsage, error) {
	var u gpupool.ImageUsage
	for _, n := range names {
		flag, ok := usageByName[strings.ToLower(n)]
		if !ok {
			return 0, fmt.Errorf("%w %q", ErrUnknownUsage, n)
		}
		u |= flag
	}
	return u, nil
}
