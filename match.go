package gpupool

// Matches reports whether an image created for d can serve a request for
// want. Type, format and size must be equal and d's usage must include every
// usage want asks for. 2D images also compare gamma and sample count, 3D
// images compare depth. Mip and layer counts must be equal.
func (d *ImageDescriptor) Matches(want *ImageDescriptor) bool {
	if d.Type != want.Type ||
		d.Format != want.Format ||
		d.Width != want.Width ||
		d.Height != want.Height ||
		d.MipLevelCount != want.MipLevelCount ||
		d.ArrayLayerCount != want.ArrayLayerCount ||
		!d.Usage.Has(want.Usage) {
		return false
	}

	switch d.Type {
	case ImageType2D:
		return d.Gamma == want.Gamma && d.SampleCount == want.SampleCount
	case ImageType3D:
		return d.Depth == want.Depth
	default:
		return true
	}
}

// Matches reports whether a buffer created for d can serve a request for
// want. Type and element count must be equal; standard buffers also compare
// the format, structured buffers the element size.
func (d *BufferDescriptor) Matches(want *BufferDescriptor) bool {
	if d.Type != want.Type || d.ElementCount != want.ElementCount {
		return false
	}
	if d.Type == BufferStandard {
		return d.Format == want.Format
	}
	return d.ElementSize == want.ElementSize
}
