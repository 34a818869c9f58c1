package vectorpipe

import (
	"fmt"

	"github.com/ctessum/geom/proj"
	"github.com/paulmach/orb"
)

// Transform maps coordinate pairs from one space into another. It is the
// composable unit the pipeline is built from: a reprojection between two
// reference systems, an affine world-to-screen mapping, or a concatenation
// of both.
type Transform interface {
	// Apply transforms a single coordinate pair. It fails for coordinates
	// the transform is undefined at (e.g. a projection singularity).
	Apply(x, y float64) (float64, float64, error)

	// Inverse returns the reverse transform, or ErrNonInvertible.
	Inverse() (Transform, error)
}

// BuildTransform constructs the coordinate transform from src to dst.
// Both directions are resolved up front so the result is always invertible
// when construction succeeds. Identical reference systems yield an identity
// transform without touching the projection machinery.
func BuildTransform(src, dst CRS) (Transform, error) {
	if src.equalTo(dst) {
		return identityTransform{}, nil
	}

	srcSR, err := proj.Parse(src.Def)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %q: %v", ErrNoTransformPath, src.Code, err)
	}
	dstSR, err := proj.Parse(dst.Def)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %q: %v", ErrNoTransformPath, dst.Code, err)
	}

	fwd, err := srcSR.NewTransform(dstSR)
	if err != nil {
		return nil, fmt.Errorf("%w: %s -> %s: %v", ErrNoTransformPath, src.Code, dst.Code, err)
	}
	inv, err := dstSR.NewTransform(srcSR)
	if err != nil {
		return nil, fmt.Errorf("%w: %s -> %s: %v", ErrNoTransformPath, dst.Code, src.Code, err)
	}

	return &projTransform{forward: fwd, reverse: inv}, nil
}

// NewMatrixTransform wraps an affine matrix as a Transform.
func NewMatrixTransform(m Matrix) Transform {
	return matrixTransform{m: m}
}

// Concatenate returns a Transform applying first, then second.
// Two affine transforms collapse into a single matrix.
func Concatenate(first, second Transform) Transform {
	if _, ok := first.(identityTransform); ok {
		return second
	}
	if _, ok := second.(identityTransform); ok {
		return first
	}
	fm, fok := first.(matrixTransform)
	sm, sok := second.(matrixTransform)
	if fok && sok {
		return matrixTransform{m: sm.m.Multiply(fm.m)}
	}
	return concatTransform{first: first, second: second}
}

type identityTransform struct{}

func (identityTransform) Apply(x, y float64) (float64, float64, error) { return x, y, nil }
func (identityTransform) Inverse() (Transform, error)                  { return identityTransform{}, nil }

type matrixTransform struct {
	m Matrix
}

func (t matrixTransform) Apply(x, y float64) (float64, float64, error) {
	ox, oy := t.m.Apply(x, y)
	return ox, oy, nil
}

func (t matrixTransform) Inverse() (Transform, error) {
	inv, err := t.m.TryInvert()
	if err != nil {
		return nil, err
	}
	return matrixTransform{m: inv}, nil
}

// projTransform is a reprojection between two reference systems. The reverse
// transformer is resolved at construction time, so Inverse never fails.
type projTransform struct {
	forward proj.Transformer
	reverse proj.Transformer
}

func (t *projTransform) Apply(x, y float64) (float64, float64, error) {
	return t.forward(x, y)
}

func (t *projTransform) Inverse() (Transform, error) {
	return &projTransform{forward: t.reverse, reverse: t.forward}, nil
}

type concatTransform struct {
	first, second Transform
}

func (t concatTransform) Apply(x, y float64) (float64, float64, error) {
	mx, my, err := t.first.Apply(x, y)
	if err != nil {
		return 0, 0, err
	}
	return t.second.Apply(mx, my)
}

func (t concatTransform) Inverse() (Transform, error) {
	fi, err := t.first.Inverse()
	if err != nil {
		return nil, err
	}
	si, err := t.second.Inverse()
	if err != nil {
		return nil, err
	}
	return concatTransform{first: si, second: fi}, nil
}

// TransformGeometry applies t to every coordinate of g, returning a new
// geometry and leaving g untouched. Any coordinate failure aborts the whole
// geometry with a TransformError; no partially transformed geometry is ever
// returned.
func TransformGeometry(g orb.Geometry, t Transform) (orb.Geometry, error) {
	out, err := applyTransform(g, t)
	if err != nil {
		return nil, &TransformError{Err: err}
	}
	return out, nil
}

func applyTransform(g orb.Geometry, t Transform) (orb.Geometry, error) {
	switch g := g.(type) {
	case orb.Point:
		return transformPoint(g, t)
	case orb.MultiPoint:
		out := make(orb.MultiPoint, len(g))
		for i, p := range g {
			tp, err := transformPoint(p, t)
			if err != nil {
				return nil, err
			}
			out[i] = tp
		}
		return out, nil
	case orb.LineString:
		out, err := transformLine(g, t)
		if err != nil {
			return nil, err
		}
		return out, nil
	case orb.MultiLineString:
		out := make(orb.MultiLineString, len(g))
		for i, ls := range g {
			tl, err := transformLine(ls, t)
			if err != nil {
				return nil, err
			}
			out[i] = tl
		}
		return out, nil
	case orb.Ring:
		out, err := transformRing(g, t)
		if err != nil {
			return nil, err
		}
		return out, nil
	case orb.Polygon:
		out, err := transformPolygon(g, t)
		if err != nil {
			return nil, err
		}
		return out, nil
	case orb.MultiPolygon:
		out := make(orb.MultiPolygon, len(g))
		for i, p := range g {
			tp, err := transformPolygon(p, t)
			if err != nil {
				return nil, err
			}
			out[i] = tp
		}
		return out, nil
	case orb.Collection:
		out := make(orb.Collection, len(g))
		for i, member := range g {
			tm, err := applyTransform(member, t)
			if err != nil {
				return nil, err
			}
			out[i] = tm
		}
		return out, nil
	case orb.Bound:
		return applyTransform(g.ToPolygon(), t)
	default:
		return nil, fmt.Errorf("unsupported geometry type %T", g)
	}
}

func transformPoint(p orb.Point, t Transform) (orb.Point, error) {
	x, y, err := t.Apply(p[0], p[1])
	if err != nil {
		return orb.Point{}, err
	}
	return orb.Point{x, y}, nil
}

func transformLine(ls orb.LineString, t Transform) (orb.LineString, error) {
	out := make(orb.LineString, len(ls))
	for i, p := range ls {
		tp, err := transformPoint(p, t)
		if err != nil {
			return nil, err
		}
		out[i] = tp
	}
	return out, nil
}

func transformRing(r orb.Ring, t Transform) (orb.Ring, error) {
	out := make(orb.Ring, len(r))
	for i, p := range r {
		tp, err := transformPoint(p, t)
		if err != nil {
			return nil, err
		}
		out[i] = tp
	}
	return out, nil
}

func transformPolygon(p orb.Polygon, t Transform) (orb.Polygon, error) {
	out := make(orb.Polygon, len(p))
	for i, r := range p {
		tr, err := transformRing(r, t)
		if err != nil {
			return nil, err
		}
		out[i] = tr
	}
	return out, nil
}
