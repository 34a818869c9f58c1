// Package clip provides a plain rectangle clipper for orb geometries.
// It trades robustness for simplicity: lines are clipped with
// Cohen-Sutherland, rings with Sutherland-Hodgman. The pipeline uses it as
// the degraded-precision fallback when the robust clipper fails.
package clip

import "github.com/paulmach/orb"

// Outcode constants for the Cohen-Sutherland algorithm.
const (
	outcodeInside = 0
	outcodeLeft   = 1
	outcodeRight  = 2
	outcodeBottom = 4
	outcodeTop    = 8
)

func outcode(b orb.Bound, p orb.Point) int {
	code := outcodeInside

	if p[0] < b.Min[0] {
		code |= outcodeLeft
	} else if p[0] > b.Max[0] {
		code |= outcodeRight
	}

	if p[1] < b.Min[1] {
		code |= outcodeBottom
	} else if p[1] > b.Max[1] {
		code |= outcodeTop
	}

	return code
}

// Segment clips the segment p0-p1 against b. The returned bool is false when
// the segment lies entirely outside.
func Segment(b orb.Bound, p0, p1 orb.Point) (orb.Point, orb.Point, bool) {
	c0 := outcode(b, p0)
	c1 := outcode(b, p1)

	for {
		if c0|c1 == 0 {
			return p0, p1, true
		}
		if c0&c1 != 0 {
			return p0, p1, false
		}

		// Pick an endpoint outside the rectangle and move it to the border.
		out := c0
		if out == 0 {
			out = c1
		}

		var p orb.Point
		switch {
		case out&outcodeTop != 0:
			p[0] = p0[0] + (p1[0]-p0[0])*(b.Max[1]-p0[1])/(p1[1]-p0[1])
			p[1] = b.Max[1]
		case out&outcodeBottom != 0:
			p[0] = p0[0] + (p1[0]-p0[0])*(b.Min[1]-p0[1])/(p1[1]-p0[1])
			p[1] = b.Min[1]
		case out&outcodeRight != 0:
			p[1] = p0[1] + (p1[1]-p0[1])*(b.Max[0]-p0[0])/(p1[0]-p0[0])
			p[0] = b.Max[0]
		default:
			p[1] = p0[1] + (p1[1]-p0[1])*(b.Min[0]-p0[0])/(p1[0]-p0[0])
			p[0] = b.Min[0]
		}

		if out == c0 {
			p0 = p
			c0 = outcode(b, p0)
		} else {
			p1 = p
			c1 = outcode(b, p1)
		}
	}
}

// LineString clips ls against b, splitting it where it leaves the rectangle.
func LineString(b orb.Bound, ls orb.LineString) orb.MultiLineString {
	var out orb.MultiLineString
	var current orb.LineString

	for i := 0; i+1 < len(ls); i++ {
		q0, q1, ok := Segment(b, ls[i], ls[i+1])
		if !ok {
			if len(current) >= 2 {
				out = append(out, current)
			}
			current = nil
			continue
		}

		if len(current) == 0 || current[len(current)-1] != q0 {
			if len(current) >= 2 {
				out = append(out, current)
			}
			current = orb.LineString{q0}
		}
		current = append(current, q1)
	}
	if len(current) >= 2 {
		out = append(out, current)
	}
	return out
}

// Ring clips a closed ring against b with one Sutherland-Hodgman pass per
// rectangle edge. The result is closed, and may be empty.
func Ring(b orb.Bound, r orb.Ring) orb.Ring {
	pts := []orb.Point(r)
	if len(pts) > 1 && pts[0] == pts[len(pts)-1] {
		pts = pts[:len(pts)-1]
	}

	for edge := 0; edge < 4 && len(pts) > 0; edge++ {
		pts = clipRingEdge(b, edge, pts)
	}
	if len(pts) < 3 {
		return nil
	}

	out := make(orb.Ring, 0, len(pts)+1)
	out = append(out, pts...)
	out = append(out, pts[0])
	return out
}

// clipRingEdge keeps the half-plane on the inner side of one rectangle edge:
// 0=left, 1=right, 2=bottom, 3=top.
func clipRingEdge(b orb.Bound, edge int, pts []orb.Point) []orb.Point {
	inside := func(p orb.Point) bool {
		switch edge {
		case 0:
			return p[0] >= b.Min[0]
		case 1:
			return p[0] <= b.Max[0]
		case 2:
			return p[1] >= b.Min[1]
		default:
			return p[1] <= b.Max[1]
		}
	}

	intersect := func(p, q orb.Point) orb.Point {
		switch edge {
		case 0:
			return orb.Point{b.Min[0], p[1] + (q[1]-p[1])*(b.Min[0]-p[0])/(q[0]-p[0])}
		case 1:
			return orb.Point{b.Max[0], p[1] + (q[1]-p[1])*(b.Max[0]-p[0])/(q[0]-p[0])}
		case 2:
			return orb.Point{p[0] + (q[0]-p[0])*(b.Min[1]-p[1])/(q[1]-p[1]), b.Min[1]}
		default:
			return orb.Point{p[0] + (q[0]-p[0])*(b.Max[1]-p[1])/(q[1]-p[1]), b.Max[1]}
		}
	}

	var out []orb.Point
	for i := range pts {
		cur := pts[i]
		prev := pts[(i+len(pts)-1)%len(pts)]

		curIn := inside(cur)
		prevIn := inside(prev)

		switch {
		case curIn && prevIn:
			out = append(out, cur)
		case curIn && !prevIn:
			out = append(out, intersect(prev, cur), cur)
		case !curIn && prevIn:
			out = append(out, intersect(prev, cur))
		}
	}
	return out
}

// Geometry clips any orb geometry against b. It returns nil when nothing
// remains inside the rectangle.
func Geometry(b orb.Bound, g orb.Geometry) orb.Geometry {
	switch g := g.(type) {
	case nil:
		return nil
	case orb.Point:
		if b.Contains(g) {
			return g
		}
		return nil
	case orb.MultiPoint:
		var out orb.MultiPoint
		for _, p := range g {
			if b.Contains(p) {
				out = append(out, p)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	case orb.LineString:
		mls := LineString(b, g)
		switch len(mls) {
		case 0:
			return nil
		case 1:
			return mls[0]
		default:
			return mls
		}
	case orb.MultiLineString:
		var out orb.MultiLineString
		for _, ls := range g {
			out = append(out, LineString(b, ls)...)
		}
		if len(out) == 0 {
			return nil
		}
		return out
	case orb.Ring:
		r := Ring(b, g)
		if r == nil {
			return nil
		}
		return r
	case orb.Polygon:
		p := polygon(b, g)
		if p == nil {
			return nil
		}
		return p
	case orb.MultiPolygon:
		var out orb.MultiPolygon
		for _, p := range g {
			if cp := polygon(b, p); cp != nil {
				out = append(out, cp)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	case orb.Collection:
		var out orb.Collection
		for _, member := range g {
			if cm := Geometry(b, member); cm != nil {
				out = append(out, cm)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	case orb.Bound:
		return Geometry(b, g.ToPolygon())
	default:
		return nil
	}
}

func polygon(b orb.Bound, p orb.Polygon) orb.Polygon {
	if len(p) == 0 {
		return nil
	}
	outer := Ring(b, p[0])
	if outer == nil {
		return nil
	}
	out := orb.Polygon{outer}
	for _, hole := range p[1:] {
		if ch := Ring(b, hole); ch != nil {
			out = append(out, ch)
		}
	}
	return out
}
