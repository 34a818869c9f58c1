package vectorpipe

import (
	"errors"
	"fmt"
)

// Sentinel errors reported during pipeline construction. Match with errors.Is.
var (
	// ErrNoTransformPath indicates no coordinate transform could be built
	// between the source and target reference systems.
	ErrNoTransformPath = errors.New("vectorpipe: no transform path between reference systems")

	// ErrNonInvertible indicates a transform required in both directions is
	// singular (for example a zero-area rendering request).
	ErrNonInvertible = errors.New("vectorpipe: transform is not invertible")

	// ErrUnknownCRS indicates a reference system code absent from the registry.
	ErrUnknownCRS = errors.New("vectorpipe: unknown coordinate reference system")
)

// SetupError wraps any failure during Context derivation. No partial pipeline
// is usable after a SetupError; the caller must abort the request or fall back
// to an unprocessed rendering path.
type SetupError struct {
	Err error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("vectorpipe: pipeline setup: %v", e.Err)
}

func (e *SetupError) Unwrap() error { return e.Err }

// TransformError reports that a specific geometry failed reprojection, for
// example a point at a projection singularity. It is raised per input
// geometry and never retried; sibling geometries in the same request are
// unaffected.
type TransformError struct {
	Err error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("vectorpipe: geometry transform: %v", e.Err)
}

func (e *TransformError) Unwrap() error { return e.Err }
