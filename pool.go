package gpupool

import (
	"fmt"
	"log/slog"
)

// Pool lends out transient images and storage buffers and reuses them once
// released.
//
// Acquire scans the registered resources in creation order and returns the
// first free one whose descriptor matches; only when none matches is a new
// resource created. A resource is never lent to two holders at once.
//
// Pool is not safe for concurrent use. Use one pool per goroutine, or provide
// external synchronization.
type Pool struct {
	factory Factory
	opts    poolOptions

	// Registration order drives the reuse scan; the maps answer ownership.
	images    []*PooledImage
	imageSet  map[*PooledImage]struct{}
	buffers   []*PooledBuffer
	bufferSet map[*PooledBuffer]struct{}

	created uint64
	hits    uint64
	misses  uint64
	closed  bool
}

// New creates an empty pool that creates resources through factory.
func New(factory Factory, opts ...Option) *Pool {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Pool{
		factory:   factory,
		opts:      o,
		imageSet:  make(map[*PooledImage]struct{}),
		bufferSet: make(map[*PooledBuffer]struct{}),
	}
}

func (p *Pool) log() *slog.Logger {
	if p.opts.logger != nil {
		return p.opts.logger
	}
	return Logger()
}

func (p *Pool) nextLabel(kind string) string {
	p.created++
	return fmt.Sprintf("%s_%s_%d", p.opts.label, kind, p.created)
}

// AcquireImage returns a free image matching desc, creating one if needed.
// The image stays in use until ReleaseImage.
//
// Images whose usage includes UsageRenderTarget or UsageDepthStencil come
// with a render-target view of layer 0, mip 0. If creation fails the error
// is returned and nothing is registered.
func (p *Pool) AcquireImage(desc ImageDescriptor) (*PooledImage, error) {
	if p.closed {
		return nil, ErrPoolClosed
	}
	desc = desc.normalized()
	if err := desc.validate(); err != nil {
		return nil, err
	}

	for _, img := range p.images {
		if img.inUse || img.texture == nil {
			continue
		}
		if img.desc.Matches(&desc) {
			img.inUse = true
			p.hits++
			p.log().Debug("gpupool: image reused", "label", img.desc.Label, "desc", desc.String())
			return img, nil
		}
	}
	p.misses++

	if desc.Label == "" {
		desc.Label = p.nextLabel("image")
	}
	tex, err := p.factory.CreateImage(&desc)
	if err != nil {
		p.log().Warn("gpupool: image creation failed", "desc", desc.String(), "err", err)
		return nil, fmt.Errorf("gpupool: acquire image %s: %w", desc, err)
	}

	img := &PooledImage{texture: tex, desc: desc, factory: p.factory, inUse: true}
	if desc.Usage.NeedsAttachmentView() {
		view, err := p.factory.CreateRenderTargetView(tex, &desc)
		if err != nil {
			p.factory.DestroyImage(tex)
			p.log().Warn("gpupool: render target view creation failed", "desc", desc.String(), "err", err)
			return nil, fmt.Errorf("gpupool: acquire image %s: %w", desc, err)
		}
		img.view = view
	}

	p.images = append(p.images, img)
	p.imageSet[img] = struct{}{}
	p.log().Debug("gpupool: image created", "label", desc.Label, "desc", desc.String(), "bytes", desc.ByteSize())
	return img, nil
}

// AcquireBuffer returns a free buffer matching desc, creating one if needed.
// The buffer stays in use until ReleaseBuffer.
func (p *Pool) AcquireBuffer(desc BufferDescriptor) (*PooledBuffer, error) {
	if p.closed {
		return nil, ErrPoolClosed
	}
	if err := desc.validate(); err != nil {
		return nil, err
	}

	for _, b := range p.buffers {
		if b.inUse || b.buffer == nil {
			continue
		}
		if b.desc.Matches(&desc) {
			b.inUse = true
			p.hits++
			p.log().Debug("gpupool: buffer reused", "label", b.desc.Label, "desc", desc.String())
			return b, nil
		}
	}
	p.misses++

	if desc.Label == "" {
		desc.Label = p.nextLabel("buffer")
	}
	buf, err := p.factory.CreateBuffer(&desc)
	if err != nil {
		p.log().Warn("gpupool: buffer creation failed", "desc", desc.String(), "err", err)
		return nil, fmt.Errorf("gpupool: acquire buffer %s: %w", desc, err)
	}

	b := &PooledBuffer{buffer: buf, desc: desc, factory: p.factory, inUse: true}
	p.buffers = append(p.buffers, b)
	p.bufferSet[b] = struct{}{}
	p.log().Debug("gpupool: buffer created", "label", desc.Label, "desc", desc.String(), "bytes", desc.ByteSize())
	return b, nil
}

// ReleaseImage returns img to the pool for reuse.
//
// It returns ErrForeignResource if img was not acquired from this pool and
// ErrAlreadyReleased if img is already free. After Close it does nothing.
func (p *Pool) ReleaseImage(img *PooledImage) error {
	if p.closed {
		return nil
	}
	if _, ok := p.imageSet[img]; !ok {
		p.log().Warn("gpupool: release of foreign image")
		return ErrForeignResource
	}
	if !img.inUse {
		p.log().Warn("gpupool: image released twice", "label", img.desc.Label)
		return fmt.Errorf("%w: image %q", ErrAlreadyReleased, img.desc.Label)
	}
	img.inUse = false
	return nil
}

// ReleaseBuffer returns b to the pool for reuse. Errors as for ReleaseImage.
func (p *Pool) ReleaseBuffer(b *PooledBuffer) error {
	if p.closed {
		return nil
	}
	if _, ok := p.bufferSet[b]; !ok {
		p.log().Warn("gpupool: release of foreign buffer")
		return ErrForeignResource
	}
	if !b.inUse {
		p.log().Warn("gpupool: buffer released twice", "label", b.desc.Label)
		return fmt.Errorf("%w: buffer %q", ErrAlreadyReleased, b.desc.Label)
	}
	b.inUse = false
	return nil
}

// Trim destroys every free resource and returns how many were removed.
// Entries whose GPU objects were destroyed by their holder are dropped too.
func (p *Pool) Trim() int {
	if p.closed {
		return 0
	}
	n := 0
	images := p.images[:0]
	for _, img := range p.images {
		if img.inUse {
			images = append(images, img)
			continue
		}
		img.Destroy()
		delete(p.imageSet, img)
		n++
	}
	clear(p.images[len(images):])
	p.images = images

	buffers := p.buffers[:0]
	for _, b := range p.buffers {
		if b.inUse {
			buffers = append(buffers, b)
			continue
		}
		b.Destroy()
		delete(p.bufferSet, b)
		n++
	}
	clear(p.buffers[len(buffers):])
	p.buffers = buffers

	if n > 0 {
		p.log().Debug("gpupool: trimmed", "removed", n)
	}
	return n
}

// Close tears the pool down. Free resources are destroyed. Resources still
// in use are detached and become the holder's to Destroy; releasing them
// afterwards does nothing. Acquire returns ErrPoolClosed after Close.
// Close is idempotent.
func (p *Pool) Close() {
	if p.closed {
		return
	}
	stats := p.Stats()
	detached := 0
	for _, img := range p.images {
		if img.inUse {
			detached++
			continue
		}
		img.Destroy()
	}
	for _, b := range p.buffers {
		if b.inUse {
			detached++
			continue
		}
		b.Destroy()
	}
	p.images, p.imageSet = nil, nil
	p.buffers, p.bufferSet = nil, nil
	p.closed = true
	p.log().Info("gpupool: closed", "stats", stats.String(), "detached", detached)
}

// Closed reports whether Close has been called.
func (p *Pool) Closed() bool { return p.closed }
