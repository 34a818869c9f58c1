package vectorpipe

import "github.com/paulmach/orb"

// geomEmpty reports whether g carries no coordinates at all. orb has no
// notion of an empty Point, so a bare Point is never empty; everything else
// is empty when its coordinate slices are, recursively for collections.
func geomEmpty(g orb.Geometry) bool {
	switch g := g.(type) {
	case nil:
		return true
	case orb.Point:
		return false
	case orb.MultiPoint:
		return len(g) == 0
	case orb.LineString:
		return len(g) == 0
	case orb.MultiLineString:
		for _, ls := range g {
			if len(ls) > 0 {
				return false
			}
		}
		return true
	case orb.Ring:
		return len(g) == 0
	case orb.Polygon:
		for _, r := range g {
			if len(r) > 0 {
				return false
			}
		}
		return true
	case orb.MultiPolygon:
		for _, p := range g {
			if !geomEmpty(p) {
				return false
			}
		}
		return true
	case orb.Collection:
		for _, member := range g {
			if !geomEmpty(member) {
				return false
			}
		}
		return true
	case orb.Bound:
		return false
	default:
		return false
	}
}
