package vectorpipe

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// When clipping, the clipping box is expanded by a bit so that the client
// (i.e. OpenLayers) doesn't draw the clip lines created when the polygon is
// clipped to the request BBOX.
const clipMarginPixels = 12

// Per-pixel fractions for generalization distances. The source-CRS side is
// kept slightly under one pixel so generalization before reprojection never
// makes visible changes.
const (
	sourcePerPixel = 0.8
	targetPerPixel = 1.0
)

// Context is the immutable per-request configuration every stage reads:
// transforms, clip envelopes, simplification tolerances, and the shared
// screen map. It is derived once by NewBuilder and discarded with the
// request. The ScreenMap is the single intentionally mutable member; it
// accumulates degeneracy state across all geometries of the request.
type Context struct {
	SourceCRS     CRS
	RenderingArea orb.Bound // request bounding box, in RenderingCRS
	RenderingCRS  CRS       // final map (target) CRS
	PaintArea     Rect      // output image rectangle

	WorldToScreen Matrix

	SourceToTargetCRS Transform
	TargetToScreen    Transform
	SourceToScreen    Transform // TargetToScreen after SourceToTargetCRS

	ProjectionHandler *ProjectionHandler // may be nil
	ScreenMap         *ScreenMap

	// Simplification tolerance when geometries are in target CRS space.
	TargetCRSSimplificationDistance float64
	// Simplification tolerance when geometries are in screen space.
	ScreenSimplificationDistance float64
	// Approximate size of a pixel in the target CRS; sizes clip margins.
	PixelSizeInTargetCRS float64
}

// Builder derives a Context from raw render parameters and assembles the
// stage chain through its fluent API. Stages run in the order they are
// added; Build materializes the chain.
//
//	b, err := vectorpipe.NewBuilder(area, dst, paint, src, 1.0)
//	p := b.Preprocess().Transform(true).Simplify(true).Clip(true, true).Build()
type Builder struct {
	ctx *Context

	first, last *stage

	primary  Clipper
	fallback Clipper
}

// NewBuilder validates the render parameters and derives all Context values.
// renderingArea is the request bounding box in renderingCRS; paintArea is the
// output pixel rectangle; sourceCRS is the data's reference system.
// overSampleFactor must be positive; values above 1 tighten simplification
// tolerances to retain more detail.
//
// Any transform-construction failure surfaces as a *SetupError and no
// builder is returned.
func NewBuilder(renderingArea orb.Bound, renderingCRS CRS, paintArea Rect, sourceCRS CRS, overSampleFactor float64, opts ...BuilderOption) (*Builder, error) {
	ctx, err := createContext(renderingArea, renderingCRS, paintArea, sourceCRS, overSampleFactor, opts...)
	if err != nil {
		return nil, &SetupError{Err: err}
	}

	o := defaultBuilderOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Builder{
		ctx:      ctx,
		first:    endStage,
		last:     endStage,
		primary:  o.primary,
		fallback: o.fallback,
	}, nil
}

func createContext(renderingArea orb.Bound, renderingCRS CRS, paintArea Rect, sourceCRS CRS, overSampleFactor float64, opts ...BuilderOption) (*Context, error) {
	if overSampleFactor <= 0 {
		return nil, fmt.Errorf("over-sample factor must be positive, got %v", overSampleFactor)
	}
	if paintArea.Width <= 0 || paintArea.Height <= 0 {
		return nil, fmt.Errorf("invalid paint area: width=%d, height=%d (both must be > 0)", paintArea.Width, paintArea.Height)
	}

	o := defaultBuilderOptions()
	for _, opt := range opts {
		opt(&o)
	}

	ctx := &Context{
		SourceCRS:     sourceCRS,
		RenderingArea: renderingArea,
		RenderingCRS:  renderingCRS,
		PaintArea:     paintArea,
	}

	ctx.WorldToScreen = MapToScreen(
		renderingArea.Min[0], renderingArea.Min[1],
		renderingArea.Max[0], renderingArea.Max[1],
		paintArea,
	)

	if o.handlerSet {
		ctx.ProjectionHandler = o.handler
	} else {
		const wrap = false
		ctx.ProjectionHandler = FindProjectionHandler(renderingArea, renderingCRS, sourceCRS, wrap)
	}
	// Injected handlers cannot set the clipper fields themselves.
	if ctx.ProjectionHandler != nil {
		ctx.ProjectionHandler.primary = o.primary
		ctx.ProjectionHandler.fallback = o.fallback
	}

	var err error
	ctx.SourceToTargetCRS, err = BuildTransform(sourceCRS, renderingCRS)
	if err != nil {
		return nil, err
	}
	ctx.TargetToScreen = NewMatrixTransform(ctx.WorldToScreen)
	ctx.SourceToScreen = Concatenate(ctx.SourceToTargetCRS, ctx.TargetToScreen)

	screenToWorld, err := ctx.SourceToScreen.Inverse()
	if err != nil {
		return nil, err
	}
	srcSpanX, srcSpanY, err := generalizationDistances(screenToWorld, paintArea, sourcePerPixel)
	if err != nil {
		return nil, err
	}

	screenToTarget, err := ctx.TargetToScreen.Inverse()
	if err != nil {
		return nil, err
	}
	tgtSpanX, tgtSpanY, err := generalizationDistances(screenToTarget, paintArea, targetPerPixel)
	if err != nil {
		return nil, err
	}

	// Clipping pads the request BBOX by a number of pixels, so take the
	// larger span to get at least that many pixels on both axes.
	ctx.PixelSizeInTargetCRS = math.Max(tgtSpanX, tgtSpanY)

	ctx.ScreenSimplificationDistance = 0.25 / overSampleFactor
	// Use min so generalization is never more aggressive than the tighter
	// axis when pixels aren't square in target units.
	ctx.TargetCRSSimplificationDistance = math.Min(tgtSpanX, tgtSpanY) / overSampleFactor

	ctx.ScreenMap = NewScreenMap(paintArea.X, paintArea.Y, paintArea.Width, paintArea.Height)
	ctx.ScreenMap.SetSpans(srcSpanX/overSampleFactor, srcSpanY/overSampleFactor)
	ctx.ScreenMap.SetTransform(ctx.SourceToScreen)

	return ctx, nil
}

// Context returns the derived per-request configuration.
func (b *Builder) Context() *Context {
	return b.ctx
}

// Preprocess appends the stage that applies projection-handler
// pre-processing and collapses sub-pixel geometry through the screen map.
func (b *Builder) Preprocess() *Builder {
	b.addLast(&stage{
		kind:    stagePreprocess,
		handler: b.ctx.ProjectionHandler,
		screen:  b.ctx.ScreenMap,
	})
	return b
}

// Transform appends the reprojection stage. With toScreen true geometries go
// all the way to screen space; otherwise they stop in the target CRS.
func (b *Builder) Transform(toScreen bool) *Builder {
	tx := b.ctx.SourceToTargetCRS
	if toScreen {
		tx = b.ctx.SourceToScreen
	}
	b.addLast(&stage{kind: stageTransform, tx: tx})
	return b
}

// Simplify appends the topology-preserving simplification stage, with the
// tolerance matching the coordinate space geometries are in at this point
// of the chain (screen or target CRS).
func (b *Builder) Simplify(toScreen bool) *Builder {
	tolerance := b.ctx.TargetCRSSimplificationDistance
	if toScreen {
		tolerance = b.ctx.ScreenSimplificationDistance
	}
	b.addLast(&stage{kind: stageSimplify, tolerance: tolerance})
	return b
}

// Clip appends the degenerate-removing clip stage when clipToMapBounds is
// true; toScreen selects the clip envelope's coordinate space. The envelope
// carries a margin (clipMarginPixels, scaled to target units for target-CRS
// clipping) so clip seams stay invisible at the client.
func (b *Builder) Clip(clipToMapBounds, toScreen bool) *Builder {
	if !clipToMapBounds {
		return b
	}

	var env orb.Bound
	if toScreen {
		env = expandBound(orb.Bound{
			Min: orb.Point{float64(b.ctx.PaintArea.X), float64(b.ctx.PaintArea.Y)},
			Max: orb.Point{
				float64(b.ctx.PaintArea.X + b.ctx.PaintArea.Width),
				float64(b.ctx.PaintArea.Y + b.ctx.PaintArea.Height),
			},
		}, clipMarginPixels)
	} else {
		env = expandBound(b.ctx.RenderingArea, clipMarginPixels*b.ctx.PixelSizeInTargetCRS)
	}

	b.addLast(&stage{
		kind:     stageClip,
		clipEnv:  env,
		primary:  b.primary,
		fallback: b.fallback,
	})
	return b
}

// CollapseCollections appends the stage unwrapping single-member
// heterogeneous collections.
func (b *Builder) CollapseCollections() *Builder {
	b.addLast(&stage{kind: stageCollapse})
	return b
}

// Build materializes the chain. The builder must not be reconfigured after
// Build; the returned pipeline is ready to run.
func (b *Builder) Build() *Pipeline {
	return &Pipeline{first: b.first}
}

func (b *Builder) addLast(st *stage) {
	st.next = endStage
	if b.first == endStage {
		b.first = st
		b.last = st
	} else {
		b.last.next = st
		b.last = st
	}
}

func expandBound(b orb.Bound, d float64) orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.Min[0] - d, b.Min[1] - d},
		Max: orb.Point{b.Max[0] + d, b.Max[1] + d},
	}
}
