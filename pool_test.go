package gpupool

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestPoolReuseAfterRelease(t *testing.T) {
	f := newTestFactory(t)
	p := New(f)
	defer p.Close()

	a, err := p.AcquireImage(rt256())
	if err != nil {
		t.Fatalf("AcquireImage() error = %v", err)
	}
	if a.Texture() == nil || a.RenderTargetView() == nil {
		t.Fatal("render target image missing texture or view")
	}
	if err := p.ReleaseImage(a); err != nil {
		t.Fatalf("ReleaseImage() error = %v", err)
	}

	b, err := p.AcquireImage(rt256())
	if err != nil {
		t.Fatalf("AcquireImage() error = %v", err)
	}
	if a != b {
		t.Error("released image was not reused")
	}
	if f.images != 1 || f.views != 1 {
		t.Errorf("created %d images, %d views; want 1, 1", f.images, f.views)
	}
	if s := p.Stats(); s.Hits != 1 || s.Misses != 1 {
		t.Errorf("Stats() = %+v, want 1 hit 1 miss", s)
	}
}

func TestPoolInUseNeverShared(t *testing.T) {
	f := newTestFactory(t)
	p := New(f)
	defer p.Close()

	a, _ := p.AcquireImage(rt256())
	b, err := p.AcquireImage(rt256())
	if err != nil {
		t.Fatalf("AcquireImage() error = %v", err)
	}
	if a == b {
		t.Fatal("image lent to two holders")
	}
	if f.images != 2 {
		t.Errorf("created %d images, want 2", f.images)
	}
}

func TestPoolFirstMatchInRegistrationOrder(t *testing.T) {
	p := New(newTestFactory(t))
	defer p.Close()

	a, _ := p.AcquireImage(rt256())
	b, _ := p.AcquireImage(rt256())
	_ = p.ReleaseImage(b)
	_ = p.ReleaseImage(a)

	got, _ := p.AcquireImage(rt256())
	if got != a {
		t.Error("reuse did not pick the first registered free image")
	}
}

func TestPoolUsageSuperset(t *testing.T) {
	f := newTestFactory(t)
	p := New(f)
	defer p.Close()

	rtSampled := Image2D(gputypes.TextureFormatRGBA8Unorm, 256, 256, UsageRenderTarget|UsageSampled, 1, false)

	wide, _ := p.AcquireImage(rtSampled)
	_ = p.ReleaseImage(wide)
	narrow, _ := p.AcquireImage(rt256())
	if narrow != wide {
		t.Error("image with superset usage did not satisfy a narrower request")
	}
	_ = p.ReleaseImage(narrow)

	// The other direction: the pool holds only render-target images and
	// a request for more usage must create a new image.
	p2 := New(f)
	defer p2.Close()
	only, _ := p2.AcquireImage(rt256())
	_ = p2.ReleaseImage(only)
	more, err := p2.AcquireImage(rtSampled)
	if err != nil {
		t.Fatalf("AcquireImage() error = %v", err)
	}
	if more == only {
		t.Error("image with subset usage satisfied a wider request")
	}
}

func TestPoolRenderTargetServesSampledRequest(t *testing.T) {
	p := New(newTestFactory(t))
	defer p.Close()

	target := Image2D(gputypes.TextureFormatRGBA16Float, 64, 64, UsageRenderTarget|UsageSampled, 1, false)
	sampled := Image2D(gputypes.TextureFormatRGBA16Float, 64, 64, UsageSampled, 1, false)

	rt, err := p.AcquireImage(target)
	if err != nil {
		t.Fatalf("AcquireImage() error = %v", err)
	}
	_ = p.ReleaseImage(rt)

	got, err := p.AcquireImage(sampled)
	if err != nil {
		t.Fatalf("AcquireImage() error = %v", err)
	}
	if got != rt {
		t.Error("render-target image did not serve a sampled-only request")
	}
	if s := p.Stats(); s.Misses != 1 || s.Hits != 1 {
		t.Errorf("misses %d hits %d, want 1 and 1", s.Misses, s.Hits)
	}
}

func TestPoolIncompatibleDescriptors(t *testing.T) {
	base := Image2D(gputypes.TextureFormatRGBA8Unorm, 128, 128, UsageRenderTarget, 1, false)
	tests := []struct {
		name string
		want ImageDescriptor
	}{
		{"format", Image2D(gputypes.TextureFormatBGRA8Unorm, 128, 128, UsageRenderTarget, 1, false)},
		{"width", Image2D(gputypes.TextureFormatRGBA8Unorm, 64, 128, UsageRenderTarget, 1, false)},
		{"height", Image2D(gputypes.TextureFormatRGBA8Unorm, 128, 64, UsageRenderTarget, 1, false)},
		{"samples", Image2D(gputypes.TextureFormatRGBA8Unorm, 128, 128, UsageRenderTarget, 4, false)},
		{"gamma", Image2D(gputypes.TextureFormatRGBA8Unorm, 128, 128, UsageRenderTarget, 1, true)},
		{"type", ImageCube(gputypes.TextureFormatRGBA8Unorm, 128, 128, UsageRenderTarget)},
		{"depth stencil", Image2D(gputypes.TextureFormatRGBA8Unorm, 128, 128, UsageDepthStencil, 1, false)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(newTestFactory(t))
			defer p.Close()

			a, _ := p.AcquireImage(base)
			_ = p.ReleaseImage(a)
			b, err := p.AcquireImage(tt.want)
			if err != nil {
				t.Fatalf("AcquireImage(%s) error = %v", tt.want, err)
			}
			if a == b {
				t.Errorf("%s image served request for %s", a.Descriptor(), tt.want)
			}
		})
	}
}

func TestPoolImageTypes(t *testing.T) {
	f := newTestFactory(t)
	p := New(f)
	defer p.Close()

	vol := Image3D(gputypes.TextureFormatRGBA16Float, 32, 32, 32, UsageLoadStore|UsageSampled)
	a, err := p.AcquireImage(vol)
	if err != nil {
		t.Fatalf("AcquireImage(3D) error = %v", err)
	}
	if a.RenderTargetView() != nil {
		t.Error("load/store volume got a render target view")
	}
	_ = p.ReleaseImage(a)

	if b, _ := p.AcquireImage(Image3D(gputypes.TextureFormatRGBA16Float, 32, 32, 16, UsageLoadStore)); b == a {
		t.Error("3D image with different depth was reused")
	}
	if c, _ := p.AcquireImage(vol); c != a {
		t.Error("matching 3D image was not reused")
	}

	cube := ImageCube(gputypes.TextureFormatRGBA8Unorm, 64, 64, UsageRenderTarget|UsageSampled)
	d, err := p.AcquireImage(cube)
	if err != nil {
		t.Fatalf("AcquireImage(cube) error = %v", err)
	}
	if got := d.Subresources().ArrayLayerCount; got != 6 {
		t.Errorf("cube subresources span %d layers, want 6", got)
	}
	_ = p.ReleaseImage(d)
	if e, _ := p.AcquireImage(cube); e != d {
		t.Error("matching cube image was not reused")
	}
}

func TestPoolBuffers(t *testing.T) {
	f := newTestFactory(t)
	p := New(f)
	defer p.Close()

	a, err := p.AcquireBuffer(StructuredBuffer(16, 1024))
	if err != nil {
		t.Fatalf("AcquireBuffer() error = %v", err)
	}
	_ = p.ReleaseBuffer(a)

	if b, _ := p.AcquireBuffer(StructuredBuffer(32, 1024)); b == a {
		t.Error("structured buffer with different element size was reused")
	}
	if c, _ := p.AcquireBuffer(StructuredBuffer(16, 512)); c == a {
		t.Error("buffer with different element count was reused")
	}
	if d, _ := p.AcquireBuffer(StandardBuffer(BufferFormatRGBA32Float, 1024)); d == a {
		t.Error("standard buffer served a structured request")
	}
	if e, _ := p.AcquireBuffer(StructuredBuffer(16, 1024)); e != a {
		t.Error("matching structured buffer was not reused")
	}

	std, _ := p.AcquireBuffer(StandardBuffer(BufferFormatR32Float, 64))
	_ = p.ReleaseBuffer(std)
	if g, _ := p.AcquireBuffer(StandardBuffer(BufferFormatR32Uint, 64)); g == std {
		t.Error("standard buffer with different format was reused")
	}
	if h, _ := p.AcquireBuffer(StandardBuffer(BufferFormatR32Float, 64)); h != std {
		t.Error("matching standard buffer was not reused")
	}
	if f.buffers != 6 {
		t.Errorf("created %d buffers, want 6", f.buffers)
	}
}

func TestPoolReleaseErrors(t *testing.T) {
	p := New(newTestFactory(t))
	defer p.Close()
	other := New(newTestFactory(t))
	defer other.Close()

	img, _ := p.AcquireImage(rt256())
	foreign, _ := other.AcquireImage(rt256())
	buf, _ := p.AcquireBuffer(StructuredBuffer(4, 4))

	if err := p.ReleaseImage(foreign); !errors.Is(err, ErrForeignResource) {
		t.Errorf("ReleaseImage(foreign) = %v, want ErrForeignResource", err)
	}
	if err := p.ReleaseImage(&PooledImage{}); !errors.Is(err, ErrForeignResource) {
		t.Errorf("ReleaseImage(unregistered) = %v, want ErrForeignResource", err)
	}
	if err := p.ReleaseImage(nil); !errors.Is(err, ErrForeignResource) {
		t.Errorf("ReleaseImage(nil) = %v, want ErrForeignResource", err)
	}
	if err := p.ReleaseImage(img); err != nil {
		t.Fatalf("ReleaseImage() error = %v", err)
	}
	if err := p.ReleaseImage(img); !errors.Is(err, ErrAlreadyReleased) {
		t.Errorf("second ReleaseImage() = %v, want ErrAlreadyReleased", err)
	}
	if err := p.ReleaseBuffer(buf); err != nil {
		t.Fatalf("ReleaseBuffer() error = %v", err)
	}
	if err := p.ReleaseBuffer(buf); !errors.Is(err, ErrAlreadyReleased) {
		t.Errorf("second ReleaseBuffer() = %v, want ErrAlreadyReleased", err)
	}
	if !foreign.InUse() {
		t.Error("failed release changed the foreign image's state")
	}
}

func TestPoolReleaseLogsViolation(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	p := New(newTestFactory(t), WithLogger(logger))
	defer p.Close()

	_ = p.ReleaseBuffer(&PooledBuffer{})
	if !strings.Contains(buf.String(), "foreign buffer") {
		t.Errorf("expected warning, got: %s", buf.String())
	}
}

func TestPoolClose(t *testing.T) {
	f := newTestFactory(t)
	p := New(f)

	held, _ := p.AcquireImage(rt256())
	free, _ := p.AcquireImage(rt256())
	heldBuf, _ := p.AcquireBuffer(StructuredBuffer(8, 8))
	_ = p.ReleaseImage(free)

	p.Close()

	if free.Texture() != nil || free.RenderTargetView() != nil {
		t.Error("free image not destroyed by Close")
	}
	if held.Texture() == nil || heldBuf.Buffer() == nil {
		t.Fatal("in-use resources destroyed by Close")
	}
	if f.destroyedImages != 1 || f.destroyedViews != 1 || f.destroyedBuffers != 0 {
		t.Errorf("Close destroyed %d images, %d views, %d buffers; want 1, 1, 0",
			f.destroyedImages, f.destroyedViews, f.destroyedBuffers)
	}

	// Releases after Close are no-ops, even repeated ones.
	for range 2 {
		if err := p.ReleaseImage(held); err != nil {
			t.Errorf("ReleaseImage after Close = %v, want nil", err)
		}
		if err := p.ReleaseBuffer(heldBuf); err != nil {
			t.Errorf("ReleaseBuffer after Close = %v, want nil", err)
		}
	}

	if _, err := p.AcquireImage(rt256()); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("AcquireImage after Close = %v, want ErrPoolClosed", err)
	}
	if _, err := p.AcquireBuffer(StructuredBuffer(8, 8)); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("AcquireBuffer after Close = %v, want ErrPoolClosed", err)
	}

	p.Close()
	if !p.Closed() {
		t.Error("Closed() = false")
	}

	held.Destroy()
	held.Destroy()
	heldBuf.Destroy()
	if f.destroyedImages != 2 || f.destroyedViews != 2 || f.destroyedBuffers != 1 {
		t.Errorf("holder Destroy: %d images, %d views, %d buffers destroyed; want 2, 2, 1",
			f.destroyedImages, f.destroyedViews, f.destroyedBuffers)
	}
}

func TestPoolCreationFailure(t *testing.T) {
	t.Run("texture", func(t *testing.T) {
		f, dev := newFailingFactory(t)
		p := New(f)
		defer p.Close()

		dev.failTexture = true
		img, err := p.AcquireImage(rt256())
		if !errors.Is(err, errDeviceLost) || img != nil {
			t.Fatalf("AcquireImage() = %v, %v; want nil, errDeviceLost", img, err)
		}
		if s := p.Stats(); s.Images != 0 {
			t.Errorf("failed creation registered %d images", s.Images)
		}

		dev.failTexture = false
		if _, err := p.AcquireImage(rt256()); err != nil {
			t.Errorf("AcquireImage after recovery error = %v", err)
		}
	})

	t.Run("view", func(t *testing.T) {
		f, dev := newFailingFactory(t)
		p := New(f)
		defer p.Close()

		dev.failView = true
		if _, err := p.AcquireImage(rt256()); !errors.Is(err, errDeviceLost) {
			t.Fatalf("AcquireImage() error = %v, want errDeviceLost", err)
		}
		if f.destroyedImages != 1 {
			t.Errorf("texture of failed view destroyed %d times, want 1", f.destroyedImages)
		}
		if s := p.Stats(); s.Images != 0 {
			t.Errorf("failed creation registered %d images", s.Images)
		}
	})

	t.Run("buffer", func(t *testing.T) {
		f, dev := newFailingFactory(t)
		p := New(f)
		defer p.Close()

		dev.failBuffer = true
		if _, err := p.AcquireBuffer(StructuredBuffer(4, 4)); !errors.Is(err, errDeviceLost) {
			t.Fatalf("AcquireBuffer() error = %v, want errDeviceLost", err)
		}
		if s := p.Stats(); s.Buffers != 0 {
			t.Errorf("failed creation registered %d buffers", s.Buffers)
		}
	})
}

func TestPoolInvalidDescriptor(t *testing.T) {
	f := newTestFactory(t)
	p := New(f)
	defer p.Close()

	bad := []ImageDescriptor{
		Image2D(gputypes.TextureFormatRGBA8Unorm, 0, 16, UsageSampled, 1, false),
		Image2D(gputypes.TextureFormatUndefined, 16, 16, UsageSampled, 1, false),
		Image3D(gputypes.TextureFormatRGBA8Unorm, 16, 16, 0, UsageSampled),
		ImageCube(gputypes.TextureFormatRGBA8Unorm, 16, 32, UsageSampled),
	}
	for _, d := range bad {
		if _, err := p.AcquireImage(d); !errors.Is(err, ErrInvalidDescriptor) {
			t.Errorf("AcquireImage(%s) = %v, want ErrInvalidDescriptor", d, err)
		}
	}
	if _, err := p.AcquireBuffer(StandardBuffer(BufferFormatUnknown, 4)); !errors.Is(err, ErrInvalidDescriptor) {
		t.Errorf("AcquireBuffer(unknown format) = %v, want ErrInvalidDescriptor", err)
	}
	if _, err := p.AcquireBuffer(StructuredBuffer(4, 0)); !errors.Is(err, ErrInvalidDescriptor) {
		t.Errorf("AcquireBuffer(zero count) = %v, want ErrInvalidDescriptor", err)
	}
	if f.images != 0 || f.buffers != 0 {
		t.Error("invalid descriptors reached the factory")
	}
}

func TestPoolTrim(t *testing.T) {
	f := newTestFactory(t)
	p := New(f)
	defer p.Close()

	held, _ := p.AcquireImage(rt256())
	free, _ := p.AcquireImage(rt256())
	buf, _ := p.AcquireBuffer(StructuredBuffer(4, 16))
	_ = p.ReleaseImage(free)
	_ = p.ReleaseBuffer(buf)

	if n := p.Trim(); n != 2 {
		t.Errorf("Trim() = %d, want 2", n)
	}
	s := p.Stats()
	if s.Images != 1 || s.ImagesInUse != 1 || s.Buffers != 0 {
		t.Errorf("Stats after Trim = %+v", s)
	}
	if err := p.ReleaseImage(free); !errors.Is(err, ErrForeignResource) {
		t.Errorf("release of trimmed image = %v, want ErrForeignResource", err)
	}
	if err := p.ReleaseImage(held); err != nil {
		t.Errorf("ReleaseImage(held) error = %v", err)
	}
	if n := p.Trim(); n != 1 {
		t.Errorf("second Trim() = %d, want 1", n)
	}
}

func TestPoolSkipsDestroyedEntries(t *testing.T) {
	f := newTestFactory(t)
	p := New(f)
	defer p.Close()

	a, _ := p.AcquireImage(rt256())
	a.Destroy()
	if err := p.ReleaseImage(a); err != nil {
		t.Fatalf("ReleaseImage() error = %v", err)
	}
	b, err := p.AcquireImage(rt256())
	if err != nil {
		t.Fatalf("AcquireImage() error = %v", err)
	}
	if b == a {
		t.Error("destroyed image was reused")
	}
	if s := p.Stats(); s.Images != 2 {
		t.Errorf("Stats().Images = %d, want stale entry kept until Trim", s.Images)
	}
	if n := p.Trim(); n != 1 {
		t.Errorf("Trim() = %d, want 1", n)
	}
}

func TestPoolLabels(t *testing.T) {
	p := New(newTestFactory(t), WithLabel("bloom"))
	defer p.Close()

	a, _ := p.AcquireImage(rt256())
	if got := a.Descriptor().Label; got != "bloom_image_1" {
		t.Errorf("Label = %q, want bloom_image_1", got)
	}
	d := rt256()
	d.Label = "hdr"
	b, _ := p.AcquireImage(d)
	if got := b.Descriptor().Label; got != "hdr" {
		t.Errorf("Label = %q, want hdr", got)
	}
	c, _ := p.AcquireBuffer(StructuredBuffer(4, 4))
	if got := c.Descriptor().Label; got != "bloom_buffer_2" {
		t.Errorf("Label = %q, want bloom_buffer_2", got)
	}
}

func TestPoolStats(t *testing.T) {
	p := New(newTestFactory(t))
	defer p.Close()

	a, _ := p.AcquireImage(Image2D(gputypes.TextureFormatRGBA8Unorm, 1024, 1024, UsageRenderTarget, 1, false))
	_, _ = p.AcquireBuffer(StructuredBuffer(16, 1024))
	_ = p.ReleaseImage(a)

	s := p.Stats()
	if s.Images != 1 || s.ImagesInUse != 0 || s.Buffers != 1 || s.BuffersInUse != 1 {
		t.Errorf("Stats() = %+v", s)
	}
	const imageBytes = 1024 * 1024 * 4
	if s.IdleBytes != imageBytes {
		t.Errorf("IdleBytes = %d, want %d", s.IdleBytes, imageBytes)
	}
	if s.TotalBytes != imageBytes+16*1024 {
		t.Errorf("TotalBytes = %d, want %d", s.TotalBytes, imageBytes+16*1024)
	}
	if s.HitRate() != 0 {
		t.Errorf("HitRate() = %v, want 0", s.HitRate())
	}
	if !strings.Contains(s.String(), "images 0/1 in use") {
		t.Errorf("String() = %q", s.String())
	}
}

func BenchmarkPoolAcquireRelease(b *testing.B) {
	f, err := NewHALFactory(createNoopDevice(b))
	if err != nil {
		b.Fatal(err)
	}
	p := New(f)
	defer p.Close()

	descs := []ImageDescriptor{
		Image2D(gputypes.TextureFormatRGBA8Unorm, 256, 256, UsageRenderTarget, 1, false),
		Image2D(gputypes.TextureFormatRGBA16Float, 512, 512, UsageRenderTarget|UsageSampled, 1, false),
		Image2D(gputypes.TextureFormatDepth24PlusStencil8, 256, 256, UsageDepthStencil, 1, false),
	}
	b.ReportAllocs()
	for b.Loop() {
		for _, d := range descs {
			img, _ := p.AcquireImage(d)
			_ = p.ReleaseImage(img)
		}
	}
}
