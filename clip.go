package vectorpipe

import (
	"fmt"

	"github.com/paulmach/orb"
	orbclip "github.com/paulmach/orb/clip"
	"github.com/paulmach/orb/planar"

	fallbackclip "github.com/sunrereck/vectorpipe/internal/clip"
)

// Clipper clips a geometry against a rectangular envelope, returning nil
// when nothing remains inside.
type Clipper interface {
	Clip(g orb.Geometry, env orb.Bound) (orb.Geometry, error)
}

// RobustClipper is the default primary clipper, backed by orb/clip. Any
// panic from the clipping algorithm is converted into an error so the
// pipeline can fall back to the degraded clipper.
type RobustClipper struct{}

func (RobustClipper) Clip(g orb.Geometry, env orb.Bound) (out orb.Geometry, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("robust clip: %v", r)
		}
	}()
	return orbclip.Geometry(env, g), nil
}

// FallbackClipper is the degraded-precision clipper used when the robust
// path fails.
type FallbackClipper struct{}

func (FallbackClipper) Clip(g orb.Geometry, env orb.Bound) (out orb.Geometry, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("fallback clip: %v", r)
		}
	}()
	return fallbackclip.Geometry(env, g), nil
}

// baseClip runs the primary clipper and, on failure, retries exactly once
// with the fallback clipper. A fallback failure propagates per geometry.
func baseClip(g orb.Geometry, env orb.Bound, primary, fallback Clipper) (orb.Geometry, error) {
	out, err := primary.Clip(g, env)
	if err == nil {
		return out, nil
	}
	Logger().Warn("robust clip failed, using fallback clipper", "error", err)
	out, err = fallback.Clip(g, env)
	if err != nil {
		return nil, fmt.Errorf("vectorpipe: clip: %w", err)
	}
	return out, nil
}

// clipRemoveDegenerate clips g and removes clip artifacts that fall outside
// the input's geometric family. Clipping a polygon can legitimately produce
// multiple disjoint pieces, lower-dimension slivers, or point artifacts from
// edge touching; only pieces of the input's own family survive. For a
// heterogeneous collection each member is handled individually and the
// survivors are re-wrapped.
func clipRemoveDegenerate(g orb.Geometry, env orb.Bound, primary, fallback Clipper) (orb.Geometry, error) {
	if geomEmpty(g) {
		return nil, nil
	}

	if c, ok := g.(orb.Collection); ok {
		var out orb.Collection
		for _, member := range c {
			clipped, err := clipRemoveDegenerate(member, env, primary, fallback)
			if err != nil {
				return nil, err
			}
			if clipped != nil && !geomEmpty(clipped) {
				out = append(out, clipped)
			}
		}
		if len(out) == 0 {
			return nil, nil
		}
		return out, nil
	}

	result, err := baseClip(g, env, primary, fallback)
	if err != nil {
		return nil, err
	}
	if geomEmpty(result) {
		return nil, nil
	}

	switch g.(type) {
	case orb.Point, orb.MultiPoint:
		return onlyPoints(result), nil
	case orb.LineString, orb.MultiLineString:
		return onlyLines(result), nil
	case orb.Polygon, orb.MultiPolygon, orb.Ring:
		return onlyPolygons(result), nil
	}
	return result, nil
}

// onlyPoints keeps the point pieces of a clip result.
func onlyPoints(result orb.Geometry) orb.Geometry {
	pts := collectPoints(result, nil)
	switch len(pts) {
	case 0:
		return nil
	case 1:
		return pts[0]
	default:
		return orb.MultiPoint(pts)
	}
}

// onlyLines keeps the line pieces of a clip result. Zero-length lines are
// artifacts of clipping at an envelope corner and are dropped.
func onlyLines(result orb.Geometry) orb.Geometry {
	lines := collectLines(result, nil)
	switch len(lines) {
	case 0:
		return nil
	case 1:
		return lines[0]
	default:
		return orb.MultiLineString(lines)
	}
}

// onlyPolygons keeps the areal pieces of a clip result. Zero-area polygons
// are boundary-only survivors and are dropped. Multiple survivors go into a
// MultiPolygon directly: that can violate strict polygon-adjacency rules,
// but validity repair is expensive and consumers tolerate the rare invalid
// case, so none is attempted.
func onlyPolygons(result orb.Geometry) orb.Geometry {
	polys := collectPolygons(result, nil)
	switch len(polys) {
	case 0:
		return nil
	case 1:
		return polys[0]
	default:
		return orb.MultiPolygon(polys)
	}
}

func collectPoints(g orb.Geometry, acc []orb.Point) []orb.Point {
	switch g := g.(type) {
	case orb.Point:
		acc = append(acc, g)
	case orb.MultiPoint:
		acc = append(acc, g...)
	case orb.Collection:
		for _, member := range g {
			acc = collectPoints(member, acc)
		}
	}
	return acc
}

func collectLines(g orb.Geometry, acc []orb.LineString) []orb.LineString {
	switch g := g.(type) {
	case orb.LineString:
		if len(g) >= 2 && planar.Length(g) > 0 {
			acc = append(acc, g)
		}
	case orb.MultiLineString:
		for _, ls := range g {
			acc = collectLines(ls, acc)
		}
	case orb.Collection:
		for _, member := range g {
			acc = collectLines(member, acc)
		}
	}
	return acc
}

func collectPolygons(g orb.Geometry, acc []orb.Polygon) []orb.Polygon {
	switch g := g.(type) {
	case orb.Ring:
		acc = collectPolygons(orb.Polygon{g}, acc)
	case orb.Polygon:
		if !geomEmpty(g) && planar.Area(g) != 0 {
			acc = append(acc, g)
		}
	case orb.MultiPolygon:
		for _, p := range g {
			acc = collectPolygons(p, acc)
		}
	case orb.Collection:
		for _, member := range g {
			acc = collectPolygons(member, acc)
		}
	}
	return acc
}
