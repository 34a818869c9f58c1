package vectorpipe

// BuilderOption configures a Builder during creation.
// Use functional options to inject custom collaborators.
//
// Example:
//
//	// Default clippers and projection handling
//	b, err := vectorpipe.NewBuilder(area, dst, paint, src, 1.0)
//
//	// Custom clipper (dependency injection)
//	b, err := vectorpipe.NewBuilder(area, dst, paint, src, 1.0,
//		vectorpipe.WithClipper(myClipper))
type BuilderOption func(*builderOptions)

// builderOptions holds optional configuration for Builder creation.
type builderOptions struct {
	primary  Clipper
	fallback Clipper

	handler    *ProjectionHandler
	handlerSet bool
}

// defaultBuilderOptions returns the default builder options.
func defaultBuilderOptions() builderOptions {
	return builderOptions{
		primary:  RobustClipper{},
		fallback: FallbackClipper{},
	}
}

// WithClipper sets the primary clipper used by clip stages and the
// projection handler. The default is the robust orb-backed clipper.
func WithClipper(c Clipper) BuilderOption {
	return func(o *builderOptions) {
		if c != nil {
			o.primary = c
		}
	}
}

// WithFallbackClipper sets the clipper retried once when the primary
// clipper fails.
func WithFallbackClipper(c Clipper) BuilderOption {
	return func(o *builderOptions) {
		if c != nil {
			o.fallback = c
		}
	}
}

// WithProjectionHandler overrides projection-handler lookup with the given
// handler. Pass nil to disable pre-processing entirely, even for pairings
// that would normally get a handler.
func WithProjectionHandler(h *ProjectionHandler) BuilderOption {
	return func(o *builderOptions) {
		o.handler = h
		o.handlerSet = true
	}
}
