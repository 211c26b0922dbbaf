package gpupool

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// createNoopDevice opens a device on the noop HAL backend.
func createNoopDevice(tb testing.TB) hal.Device {
	tb.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		tb.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		tb.Fatalf("Open failed: %v", err)
	}
	tb.Cleanup(func() {
		openDev.Device.Destroy()
		instance.Destroy()
	})
	return openDev.Device
}

// newTestFactory returns a counting factory over a noop device.
func newTestFactory(t *testing.T) *countingFactory {
	t.Helper()
	f, err := NewHALFactory(createNoopDevice(t))
	if err != nil {
		t.Fatalf("NewHALFactory failed: %v", err)
	}
	return &countingFactory{Factory: f}
}

// countingFactory records how many objects were created and destroyed.
type countingFactory struct {
	Factory

	images, views, buffers int

	destroyedImages, destroyedViews, destroyedBuffers int
}

func (f *countingFactory) CreateImage(desc *ImageDescriptor) (hal.Texture, error) {
	tex, err := f.Factory.CreateImage(desc)
	if err == nil {
		f.images++
	}
	return tex, err
}

func (f *countingFactory) CreateRenderTargetView(tex hal.Texture, desc *ImageDescriptor) (hal.TextureView, error) {
	view, err := f.Factory.CreateRenderTargetView(tex, desc)
	if err == nil {
		f.views++
	}
	return view, err
}

func (f *countingFactory) CreateBuffer(desc *BufferDescriptor) (hal.Buffer, error) {
	buf, err := f.Factory.CreateBuffer(desc)
	if err == nil {
		f.buffers++
	}
	return buf, err
}

func (f *countingFactory) DestroyImage(tex hal.Texture) {
	f.destroyedImages++
	f.Factory.DestroyImage(tex)
}

func (f *countingFactory) DestroyView(view hal.TextureView) {
	f.destroyedViews++
	f.Factory.DestroyView(view)
}

func (f *countingFactory) DestroyBuffer(buf hal.Buffer) {
	f.destroyedBuffers++
	f.Factory.DestroyBuffer(buf)
}

var errDeviceLost = errors.New("device lost")

// failingDevice wraps a device and fails the selected creation calls.
type failingDevice struct {
	hal.Device

	failTexture, failView, failBuffer bool

	lastTexture *hal.TextureDescriptor
	lastView    *hal.TextureViewDescriptor
	lastBuffer  *hal.BufferDescriptor
}

func (d *failingDevice) CreateTexture(desc *hal.TextureDescriptor) (hal.Texture, error) {
	d.lastTexture = desc
	if d.failTexture {
		return nil, errDeviceLost
	}
	return d.Device.CreateTexture(desc)
}

func (d *failingDevice) CreateTextureView(tex hal.Texture, desc *hal.TextureViewDescriptor) (hal.TextureView, error) {
	d.lastView = desc
	if d.failView {
		return nil, errDeviceLost
	}
	return d.Device.CreateTextureView(tex, desc)
}

func (d *failingDevice) CreateBuffer(desc *hal.BufferDescriptor) (hal.Buffer, error) {
	d.lastBuffer = desc
	if d.failBuffer {
		return nil, errDeviceLost
	}
	return d.Device.CreateBuffer(desc)
}

// newFailingFactory returns a counting factory over a failingDevice.
func newFailingFactory(t *testing.T) (*countingFactory, *failingDevice) {
	t.Helper()
	dev := &failingDevice{Device: createNoopDevice(t)}
	f, err := NewHALFactory(dev)
	if err != nil {
		t.Fatalf("NewHALFactory failed: %v", err)
	}
	return &countingFactory{Factory: f}, dev
}

func rt256() ImageDescriptor {
	return Image2D(gputypes.TextureFormatRGBA8Unorm, 256, 256, UsageRenderTarget, 1, false)
}
