package gpupool

import "log/slog"

// Option configures a Pool during creation.
// Use functional options to customize Pool behavior.
//
// Example:
//
//	// Default pool, logs through gpupool.Logger()
//	p := gpupool.New(factory)
//
//	// Labelled pool with its own logger
//	p := gpupool.New(factory,
//	    gpupool.WithLabel("shadow"),
//	    gpupool.WithLogger(slog.Default()))
type Option func(*poolOptions)

// poolOptions holds optional configuration for Pool creation.
type poolOptions struct {
	logger *slog.Logger
	label  string
}

// defaultOptions returns the default pool options.
func defaultOptions() poolOptions {
	return poolOptions{
		logger: nil, // Falls back to the package logger at call time
		label:  "pool",
	}
}

// WithLogger sets a logger for this pool only, overriding SetLogger.
// Passing nil keeps the package logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *poolOptions) {
		o.logger = l
	}
}

// WithLabel sets the prefix for debug labels of resources created by the
// pool. Descriptors that carry their own Label keep it.
//
// Example:
//
//	p := gpupool.New(factory, gpupool.WithLabel("bloom"))
//	// textures are labelled "bloom_image_1", "bloom_image_2", ...
func WithLabel(label string) Option {
	return func(o *poolOptions) {
		if label != "" {
			o.label = label
		}
	}
}
