// Package vectorpipe shapes source-CRS vector geometries into simplified,
// clipped, screen- or target-CRS geometries suitable for tiled map rendering.
//
// # Overview
//
// vectorpipe composes the numerically delicate steps of vector tile
// production (coordinate reprojection, sub-pixel generalization, robust
// clipping, and topology-preserving simplification) into a single ordered,
// reusable stage chain. Geometries are orb types; reprojection is backed by
// proj4 definitions via ctessum/geom/proj.
//
// # Quick Start
//
//	import (
//		"github.com/paulmach/orb"
//		"github.com/sunrereck/vectorpipe"
//	)
//
//	src, _ := vectorpipe.LookupCRS("EPSG:4326")
//	dst, _ := vectorpipe.LookupCRS("EPSG:3857")
//
//	area := orb.Bound{Min: orb.Point{-2e6, -2e6}, Max: orb.Point{2e6, 2e6}}
//	paint := vectorpipe.Rect{Width: 256, Height: 256}
//
//	b, err := vectorpipe.NewBuilder(area, dst, paint, src, 1.0)
//	if err != nil {
//		// no transform path, or a singular transform
//	}
//	p := b.Preprocess().Transform(true).Simplify(true).Clip(true, true).
//		CollapseCollections().Build()
//
//	for _, g := range features {
//		out, err := p.Run(g)
//		// out == nil means "emit nothing for this feature"
//	}
//
// # Architecture
//
// The library is organized into:
//   - Public API: Builder, Context, Pipeline, Transform, CRS, ScreenMap
//   - Internal: clip (fallback rectangle clipper), simplify
//     (topology-preserving Douglas-Peucker)
//
// A Builder derives an immutable Context once per render request, then the
// caller opts into stages in any order. The resulting Pipeline is invoked once
// per input geometry. A stage returning nil or an empty geometry
// short-circuits the remaining stages for that geometry.
//
// # Coordinate System
//
// Screen space uses standard map-to-screen conventions: origin at the top-left
// of the paint area, x increases right, y increases down.
//
// # Concurrency
//
// A Context and its Pipeline serve exactly one rendering request on one
// goroutine. Independent requests use independent Contexts and need no
// coordination.
package vectorpipe
