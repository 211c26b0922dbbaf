// Package gpupool provides a reuse pool for transient GPU images and storage
// buffers built on the gogpu WebGPU HAL.
//
// # Overview
//
// Render passes that need scratch render targets or compute buffers every
// frame acquire them from a Pool and release them when done. A released
// resource is handed to the next request with a compatible descriptor instead
// of being destroyed and recreated.
//
// # Quick Start
//
//	factory, err := gpupool.NewHALFactory(device)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pool := gpupool.New(factory)
//	defer pool.Close()
//
//	rt, err := pool.AcquireImage(gpupool.Image2D(
//	    gputypes.TextureFormatRGBA8Unorm, 256, 256,
//	    gpupool.UsageRenderTarget|gpupool.UsageSampled, 1, false))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// ... render into rt.RenderTargetView() ...
//	if err := pool.ReleaseImage(rt); err != nil {
//	    log.Fatal(err)
//	}
//
// Hosts that share their device through gpucontext pass the provider to
// NewFactoryFromProvider instead. OpenHeadless returns such a provider on the
// noop backend for tools and tests that run without a GPU.
//
// # Matching
//
// A free image serves a request when type, format and size are equal and its
// usage includes every requested usage. 2D images also compare gamma and
// sample count, 3D images compare depth. Buffers compare type and element
// count, plus format (standard buffers) or element size (structured buffers).
//
// # Lifetime
//
// Pool.Close destroys free resources. Resources still lent out are detached:
// releasing them is a no-op and the holder frees them with Destroy.
//
// # Subresources
//
// Package subresource partitions the (array layer × mip level) space of an
// image and tracks per-subresource state for barrier generation.
//
// # Logging
//
// gpupool logs through log/slog and is silent by default. Call SetLogger or
// pass WithLogger to New to enable output.
package gpupool

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
