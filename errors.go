package gpupool

import "errors"

// Sentinel errors returned by Pool and HALFactory.
var (
	// ErrPoolClosed is returned by Acquire after Close.
	ErrPoolClosed = errors.New("gpupool: pool is closed")

	// ErrForeignResource is returned when releasing a wrapper this pool never
	// registered.
	ErrForeignResource = errors.New("gpupool: resource does not belong to this pool")

	// ErrAlreadyReleased is returned when releasing a wrapper that is already
	// free.
	ErrAlreadyReleased = errors.New("gpupool: resource already released")

	// ErrInvalidDescriptor is returned for descriptors that cannot describe
	// a GPU resource (zero size, missing format, unknown element type).
	ErrInvalidDescriptor = errors.New("gpupool: invalid descriptor")

	// ErrNilDevice is returned when a factory is built without a device.
	ErrNilDevice = errors.New("gpupool: nil device")

	// ErrNoHALDevice is returned when a device provider does not expose a
	// HAL device.
	ErrNoHALDevice = errors.New("gpupool: provider does not expose a HAL device")

	// ErrNoAdapter is returned by OpenHeadless when the noop backend
	// reports no adapter.
	ErrNoAdapter = errors.New("gpupool: no adapter")
)
