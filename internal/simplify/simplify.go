// Package simplify implements topology-preserving point reduction for orb
// geometries. It runs Douglas-Peucker per line or ring, then verifies the
// reduced component did not acquire a self-intersection it did not already
// have; offending components revert to their original coordinates. Rings
// additionally keep a floor of four points so they can never collapse.
package simplify

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Geometry simplifies g with the given distance threshold, returning a new
// geometry. Point-like geometries pass through unchanged. The input is never
// modified.
func Geometry(g orb.Geometry, threshold float64) orb.Geometry {
	switch g := g.(type) {
	case nil:
		return nil
	case orb.Point, orb.MultiPoint:
		return g
	case orb.LineString:
		return LineString(g, threshold)
	case orb.MultiLineString:
		out := make(orb.MultiLineString, len(g))
		for i, ls := range g {
			out[i] = LineString(ls, threshold)
		}
		return out
	case orb.Ring:
		return Ring(g, threshold)
	case orb.Polygon:
		return Polygon(g, threshold)
	case orb.MultiPolygon:
		out := make(orb.MultiPolygon, len(g))
		for i, p := range g {
			out[i] = Polygon(p, threshold)
		}
		return out
	case orb.Collection:
		out := make(orb.Collection, len(g))
		for i, member := range g {
			out[i] = Geometry(member, threshold)
		}
		return out
	case orb.Bound:
		return g
	default:
		return g
	}
}

// LineString simplifies a line, keeping both endpoints.
func LineString(ls orb.LineString, threshold float64) orb.LineString {
	if len(ls) <= 2 {
		return cloneLine(ls)
	}

	reduced := orb.LineString(reduce(ls, threshold, 2))
	if selfIntersects(reduced, false) && !selfIntersects(ls, false) {
		return cloneLine(ls)
	}
	return reduced
}

// Ring simplifies a closed ring, keeping at least four points (a closed
// triangle) so the ring cannot degenerate.
func Ring(r orb.Ring, threshold float64) orb.Ring {
	if len(r) <= 4 {
		return orb.Ring(cloneLine(orb.LineString(r)))
	}

	reduced := orb.Ring(reduce(orb.LineString(r), threshold, 4))
	if len(reduced) < 4 {
		return orb.Ring(cloneLine(orb.LineString(r)))
	}
	if selfIntersects(orb.LineString(reduced), true) && !selfIntersects(orb.LineString(r), true) {
		return orb.Ring(cloneLine(orb.LineString(r)))
	}
	return reduced
}

// Polygon simplifies every ring of a polygon independently.
func Polygon(p orb.Polygon, threshold float64) orb.Polygon {
	out := make(orb.Polygon, len(p))
	for i, r := range p {
		out[i] = Ring(r, threshold)
	}
	return out
}

// reduce runs the Douglas-Peucker mask pass over the points, always keeping
// the two endpoints, and re-adding interior points until minPoints survive.
func reduce(ls orb.LineString, threshold float64, minPoints int) orb.LineString {
	mask := make([]byte, len(ls))
	mask[0] = 1
	mask[len(mask)-1] = 1

	kept := dpWorker(ls, threshold, mask)

	// Too few survivors for the caller's floor: keep interior points in
	// order until the floor is met. This only triggers for tiny rings.
	for i := 1; kept < minPoints && i < len(mask)-1; i++ {
		if mask[i] == 0 {
			mask[i] = 1
			kept++
		}
	}

	out := make(orb.LineString, 0, kept)
	for i, v := range mask {
		if v == 1 {
			out = append(out, ls[i])
		}
	}
	return out
}

// dpWorker does the recursive threshold checks using an explicit stack.
func dpWorker(ls orb.LineString, threshold float64, mask []byte) int {
	found := 2

	var stack []int
	stack = append(stack, 0, len(ls)-1)

	for len(stack) > 0 {
		start := stack[len(stack)-2]
		end := stack[len(stack)-1]

		maxDist := 0.0
		maxIndex := 0

		for i := start + 1; i < end; i++ {
			dist := planar.DistanceFromSegmentSquared(ls[start], ls[end], ls[i])
			if dist > maxDist {
				maxDist = dist
				maxIndex = i
			}
		}

		if maxDist > threshold*threshold {
			found++
			mask[maxIndex] = 1

			stack[len(stack)-1] = maxIndex
			stack = append(stack, maxIndex, end)
		} else {
			stack = stack[:len(stack)-2]
		}
	}

	return found
}

// selfIntersects reports whether any two non-adjacent segments of the line
// (closed as a ring when closed is true) properly cross. Quadratic, but the
// lines reaching it have already been reduced.
func selfIntersects(ls orb.LineString, closed bool) bool {
	n := len(ls) - 1 // segment count
	if n < 2 {
		return false
	}

	for i := 0; i < n; i++ {
		for j := i + 2; j < n; j++ {
			// First and last segment of a ring are adjacent too.
			if closed && i == 0 && j == n-1 {
				continue
			}
			if segmentsCross(ls[i], ls[i+1], ls[j], ls[j+1]) {
				return true
			}
		}
	}
	return false
}

// segmentsCross reports a proper crossing between segments a0-a1 and b0-b1.
// Shared endpoints and collinear touches do not count.
func segmentsCross(a0, a1, b0, b1 orb.Point) bool {
	d1 := cross(b0, b1, a0)
	d2 := cross(b0, b1, a1)
	d3 := cross(a0, a1, b0)
	d4 := cross(a0, a1, b1)

	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

func cross(o, a, b orb.Point) float64 {
	return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
}

func cloneLine(ls orb.LineString) orb.LineString {
	out := make(orb.LineString, len(ls))
	copy(out, ls)
	return out
}
