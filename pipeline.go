package vectorpipe

import "github.com/paulmach/orb"

// stageKind enumerates the closed set of pipeline stages. The set is fixed
// and known at build time, so stages are tagged variants executed by a
// switch rather than an interface hierarchy.
type stageKind int

const (
	stageEnd stageKind = iota
	stagePreprocess
	stageTransform
	stageSimplify
	stageClip
	stageCollapse
)

func (k stageKind) String() string {
	switch k {
	case stageEnd:
		return "end"
	case stagePreprocess:
		return "preprocess"
	case stageTransform:
		return "transform"
	case stageSimplify:
		return "simplify"
	case stageClip:
		return "clip"
	case stageCollapse:
		return "collapse"
	default:
		return "unknown"
	}
}

// stage is one link of the chain. Exactly the fields for its kind are set.
type stage struct {
	kind stageKind
	next *stage

	// stageTransform
	tx Transform

	// stageSimplify
	tolerance float64

	// stageClip
	clipEnv  orb.Bound
	primary  Clipper
	fallback Clipper

	// stagePreprocess
	handler *ProjectionHandler
	screen  *ScreenMap
}

// endStage terminates every chain. It carries no state, so sharing the
// sentinel between pipelines is safe.
var endStage = &stage{kind: stageEnd}

// Pipeline is an executable chain of geometry stages produced by a Builder.
// Run it once per input geometry of the rendering request it was built for.
type Pipeline struct {
	first *stage
}

// Empty reports whether the pipeline has no stages. An empty pipeline
// passes geometries through unchanged.
func (p *Pipeline) Empty() bool {
	return p.first == endStage
}

// Run threads g through the stage chain. A nil result with a nil error means
// the feature was fully eliminated and nothing should be emitted for it.
// An error aborts this geometry only; the pipeline remains valid for
// sibling geometries of the same request.
func (p *Pipeline) Run(g orb.Geometry) (orb.Geometry, error) {
	if g == nil || geomEmpty(g) {
		return nil, nil
	}

	for st := p.first; st.kind != stageEnd; st = st.next {
		var err error
		g, err = st.run(g)
		if err != nil {
			return nil, err
		}
		if g == nil || geomEmpty(g) {
			Logger().Debug("geometry eliminated", "stage", st.kind.String())
			return nil, nil
		}
		Logger().Debug("stage applied", "stage", st.kind.String(), "geometry", g.GeoJSONType())
	}
	return g, nil
}

func (st *stage) run(g orb.Geometry) (orb.Geometry, error) {
	switch st.kind {
	case stagePreprocess:
		return st.preprocess(g)
	case stageTransform:
		return TransformGeometry(g, st.tx)
	case stageSimplify:
		return st.simplify(g), nil
	case stageClip:
		return clipRemoveDegenerate(g, st.clipEnv, st.primary, st.fallback)
	case stageCollapse:
		if c, ok := g.(orb.Collection); ok && len(c) == 1 {
			return c[0], nil
		}
		return g, nil
	default:
		return g, nil
	}
}

// preprocess applies the optional projection handler, then collapses
// sub-pixel geometry through the screen map: the first geometry in a screen
// cell is replaced with a coarse representative shape, later ones in the
// same cell are dropped. Point-like geometry is never collapsed.
func (st *stage) preprocess(g orb.Geometry) (orb.Geometry, error) {
	pre := g
	if st.handler != nil {
		var err error
		pre, err = st.handler.PreProcess(g)
		if err != nil {
			return nil, err
		}
	}
	if pre == nil || geomEmpty(pre) {
		return nil, nil
	}

	if pre.Dimensions() > 0 && st.screen != nil {
		env := pre.Bound()
		if st.screen.CanSimplify(env) {
			if st.screen.CheckAndSet(env) {
				return nil, nil
			}
			pre = st.screen.SimplifiedShape(env.Min[0], env.Min[1], env.Max[0], env.Max[1], pre)
		}
	}
	return pre, nil
}

func (st *stage) simplify(g orb.Geometry) orb.Geometry {
	if g.Dimensions() == 0 {
		// Points cannot be simplified.
		return g
	}
	return simplifyTopology(g, st.tolerance)
}
