package vectorpipe

import "github.com/paulmach/orb"

// webMercatorMaxLat is the latitude at which the web-mercator projection's
// square world ends; coordinates beyond it do not reproject.
const webMercatorMaxLat = 85.0511287798066

// ProjectionHandler pre-clips geometry to the validity area of a
// source/target projection pairing before reprojection, so coordinates the
// target projection is undefined at never reach the transform. Wraparound
// (antimeridian duplication) is out of its scope; it only runs with wrapping
// disabled.
type ProjectionHandler struct {
	// ValidArea bounds, in source coordinates, the region the target
	// projection can represent.
	ValidArea orb.Bound

	primary  Clipper
	fallback Clipper
}

// FindProjectionHandler returns the handler for reprojecting sourceCRS data
// into the rendering area's reference system, or nil when the pairing needs
// no pre-processing. Only geographic sources carry validity limits here:
// a web-mercator target cuts the polar caps, any other target is limited to
// the globe's coordinate range.
func FindProjectionHandler(renderingArea orb.Bound, renderingCRS, sourceCRS CRS, wrapEnabled bool) *ProjectionHandler {
	_ = renderingArea // reserved for handlers that depend on the request extent
	if wrapEnabled {
		// Wrapping handlers are not provided; the pipeline always asks with
		// wrapping disabled.
		return nil
	}
	if !sourceCRS.IsGeographic() {
		return nil
	}

	maxLat := 90.0
	if renderingCRS.projectionFamily() == "merc" {
		maxLat = webMercatorMaxLat
	}
	return &ProjectionHandler{
		ValidArea: orb.Bound{
			Min: orb.Point{-180, -maxLat},
			Max: orb.Point{180, maxLat},
		},
		primary:  RobustClipper{},
		fallback: FallbackClipper{},
	}
}

// PreProcess clips g to the validity area. It returns nil when the geometry
// lies entirely outside, and the geometry unchanged when entirely inside.
func (h *ProjectionHandler) PreProcess(g orb.Geometry) (orb.Geometry, error) {
	if g == nil {
		return nil, nil
	}

	env := g.Bound()
	if !env.Intersects(h.ValidArea) {
		return nil, nil
	}
	if boundContainsBound(h.ValidArea, env) {
		return g, nil
	}

	primary, fallback := h.primary, h.fallback
	if primary == nil {
		primary = RobustClipper{}
	}
	if fallback == nil {
		fallback = FallbackClipper{}
	}
	return baseClip(g, h.ValidArea, primary, fallback)
}

func boundContainsBound(outer, inner orb.Bound) bool {
	return inner.Min[0] >= outer.Min[0] && inner.Max[0] <= outer.Max[0] &&
		inner.Min[1] >= outer.Min[1] && inner.Max[1] <= outer.Max[1]
}
