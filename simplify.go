package vectorpipe

import (
	"github.com/paulmach/orb"

	"github.com/sunrereck/vectorpipe/internal/simplify"
)

// simplifyTopology reduces the points of g with the given distance
// tolerance while preserving topology: no new self-intersections, no
// collapsed rings.
func simplifyTopology(g orb.Geometry, tolerance float64) orb.Geometry {
	return simplify.Geometry(g, tolerance)
}
