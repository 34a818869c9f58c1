package vectorpipe

import (
	"math"

	"github.com/paulmach/orb"
)

// ScreenMap tracks which screen cells already received a sub-pixel feature.
// Geometries whose envelope is below one pixel per axis "can simplify": the
// first one landing in a cell is replaced by a coarse representative shape,
// later ones in the same cell are dropped outright. State accumulates across
// all geometries of one rendering request and is never reset in between,
// which is what makes the cross-geometry deduplication work.
//
// A ScreenMap is owned by one Context and is not safe for concurrent use.
type ScreenMap struct {
	minX, minY    int
	width, height int

	// Minimum feature size, per axis, in the coordinate space geometries are
	// in when they meet the preprocess stage (source CRS units).
	spanX, spanY float64

	// Maps those coordinates onto the pixel grid.
	tx Transform

	bits []uint64
}

// NewScreenMap creates a tracker over the pixel rectangle (x, y, w, h).
func NewScreenMap(x, y, w, h int) *ScreenMap {
	return &ScreenMap{
		minX:   x,
		minY:   y,
		width:  w,
		height: h,
		bits:   make([]uint64, (w*h+63)/64),
	}
}

// SetSpans sets the per-axis minimum visible feature size, in the coordinate
// units geometries carry when they are checked.
func (s *ScreenMap) SetSpans(dx, dy float64) {
	s.spanX = dx
	s.spanY = dy
}

// SetTransform sets the transform from geometry coordinates to screen pixels.
func (s *ScreenMap) SetTransform(t Transform) {
	s.tx = t
}

// CanSimplify reports whether a geometry with envelope b is too small to
// affect more than one pixel on either axis.
func (s *ScreenMap) CanSimplify(b orb.Bound) bool {
	return b.Max[0]-b.Min[0] < s.spanX && b.Max[1]-b.Min[1] < s.spanY
}

// CheckAndSet marks the screen cell covering b's midpoint and reports whether
// it was already marked. Envelopes that are not sub-pixel, fall outside the
// grid, or cannot be transformed are never treated as seen, so their
// geometries pass through untouched.
func (s *ScreenMap) CheckAndSet(b orb.Bound) bool {
	if !s.CanSimplify(b) {
		return false
	}

	midX := (b.Min[0] + b.Max[0]) / 2
	midY := (b.Min[1] + b.Max[1]) / 2
	if s.tx != nil {
		var err error
		midX, midY, err = s.tx.Apply(midX, midY)
		if err != nil {
			return false
		}
	}

	c := int(math.Floor(midX)) - s.minX
	r := int(math.Floor(midY)) - s.minY
	if c < 0 || r < 0 || c >= s.width || r >= s.height {
		return false
	}

	idx := r*s.width + c
	mask := uint64(1) << (idx % 64)
	if s.bits[idx/64]&mask != 0 {
		return true
	}
	s.bits[idx/64] |= mask
	return false
}

// SimplifiedShape returns the coarse representative for a sub-pixel envelope,
// sized to the given envelope and shaped like hint's geometry family: the
// midpoint for point-like hints, the envelope diagonal for line-like hints,
// and the envelope rectangle otherwise. Multi-variants of each family stay
// multi so downstream type handling is undisturbed.
func (s *ScreenMap) SimplifiedShape(minX, minY, maxX, maxY float64, hint orb.Geometry) orb.Geometry {
	switch hint.(type) {
	case orb.Point:
		return orb.Point{(minX + maxX) / 2, (minY + maxY) / 2}
	case orb.MultiPoint:
		return orb.MultiPoint{{(minX + maxX) / 2, (minY + maxY) / 2}}
	case orb.LineString:
		return orb.LineString{{minX, minY}, {maxX, maxY}}
	case orb.MultiLineString:
		return orb.MultiLineString{{{minX, minY}, {maxX, maxY}}}
	case orb.MultiPolygon:
		return orb.MultiPolygon{envelopePolygon(minX, minY, maxX, maxY)}
	default:
		return envelopePolygon(minX, minY, maxX, maxY)
	}
}

func envelopePolygon(minX, minY, maxX, maxY float64) orb.Polygon {
	return orb.Polygon{orb.Ring{
		{minX, minY},
		{maxX, minY},
		{maxX, maxY},
		{minX, maxY},
		{minX, minY},
	}}
}
