package vectorpipe

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func mustCRS(t *testing.T, code string) CRS {
	t.Helper()
	c, err := LookupCRS(code)
	if err != nil {
		t.Fatalf("LookupCRS(%q) error = %v", code, err)
	}
	return c
}

// relClose compares within relative tolerance, the guarantee the pipeline
// gives for transform round trips.
func relClose(a, b, rel float64) bool {
	return math.Abs(a-b) <= rel*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func TestBuildTransformIdentity(t *testing.T) {
	c := mustCRS(t, "EPSG:3857")
	tx, err := BuildTransform(c, c)
	if err != nil {
		t.Fatalf("BuildTransform error = %v", err)
	}
	x, y, err := tx.Apply(1234.5, -6789.25)
	if err != nil {
		t.Fatalf("Apply error = %v", err)
	}
	if x != 1234.5 || y != -6789.25 {
		t.Errorf("identity Apply = (%v, %v), want input back", x, y)
	}
}

func TestBuildTransformNoPath(t *testing.T) {
	src := CRS{Code: "TEST:1", Def: "+proj=doesnotexist +no_defs"}
	dst := mustCRS(t, "EPSG:3857")
	if _, err := BuildTransform(src, dst); !errors.Is(err, ErrNoTransformPath) {
		t.Errorf("BuildTransform error = %v, want ErrNoTransformPath", err)
	}
}

func TestReprojectionRoundTrip(t *testing.T) {
	src := mustCRS(t, "EPSG:4326")
	dst := mustCRS(t, "EPSG:3857")

	fwd, err := BuildTransform(src, dst)
	if err != nil {
		t.Fatalf("BuildTransform error = %v", err)
	}
	inv, err := fwd.Inverse()
	if err != nil {
		t.Fatalf("Inverse error = %v", err)
	}

	tests := []struct {
		name     string
		lon, lat float64
	}{
		{"equator", 0, 0},
		{"mid latitude", 10, 45},
		{"southern hemisphere", -58.4, -34.6},
		{"high latitude", 24.9, 60.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, err := fwd.Apply(tt.lon, tt.lat)
			if err != nil {
				t.Fatalf("forward Apply error = %v", err)
			}
			lon, lat, err := inv.Apply(x, y)
			if err != nil {
				t.Fatalf("inverse Apply error = %v", err)
			}
			if !relClose(lon, tt.lon, 1e-9) || !relClose(lat, tt.lat, 1e-9) {
				t.Errorf("round trip = (%v, %v), want (%v, %v)", lon, lat, tt.lon, tt.lat)
			}
		})
	}
}

func TestConcatenateCollapsesMatrices(t *testing.T) {
	a := NewMatrixTransform(Scale(2, 2))
	b := NewMatrixTransform(Translate(5, -5))

	c := Concatenate(a, b)
	if _, ok := c.(matrixTransform); !ok {
		t.Fatalf("Concatenate of two affine transforms = %T, want matrixTransform", c)
	}

	x, y, err := c.Apply(3, 4)
	if err != nil {
		t.Fatalf("Apply error = %v", err)
	}
	if x != 11 || y != 3 {
		t.Errorf("Apply(3, 4) = (%v, %v), want (11, 3)", x, y)
	}
}

func TestConcatenateIdentityElision(t *testing.T) {
	m := NewMatrixTransform(Scale(2, 2))
	if got := Concatenate(identityTransform{}, m); got != m {
		t.Errorf("Concatenate(identity, m) = %v, want m", got)
	}
	if got := Concatenate(m, identityTransform{}); got != m {
		t.Errorf("Concatenate(m, identity) = %v, want m", got)
	}
}

// errTransform fails on every coordinate.
type errTransform struct{}

func (errTransform) Apply(x, y float64) (float64, float64, error) {
	return 0, 0, errors.New("singularity")
}
func (errTransform) Inverse() (Transform, error) { return errTransform{}, nil }

func TestTransformGeometryError(t *testing.T) {
	_, err := TransformGeometry(orb.LineString{{0, 0}, {1, 1}}, errTransform{})
	var te *TransformError
	if !errors.As(err, &te) {
		t.Fatalf("TransformGeometry error = %v, want *TransformError", err)
	}
}

func TestTransformGeometryLeavesInputUntouched(t *testing.T) {
	in := orb.LineString{{0, 0}, {10, 10}}
	out, err := TransformGeometry(in, NewMatrixTransform(Translate(5, 5)))
	if err != nil {
		t.Fatalf("TransformGeometry error = %v", err)
	}
	if in[0] != (orb.Point{0, 0}) || in[1] != (orb.Point{10, 10}) {
		t.Errorf("input mutated: %v", in)
	}
	ls, ok := out.(orb.LineString)
	if !ok {
		t.Fatalf("result = %T, want LineString", out)
	}
	if ls[0] != (orb.Point{5, 5}) || ls[1] != (orb.Point{15, 15}) {
		t.Errorf("result = %v, want translated line", ls)
	}
}

func TestTransformGeometryAllTypes(t *testing.T) {
	shift := NewMatrixTransform(Translate(1, 1))

	tests := []struct {
		name string
		g    orb.Geometry
	}{
		{"point", orb.Point{1, 2}},
		{"multipoint", orb.MultiPoint{{1, 2}, {3, 4}}},
		{"linestring", orb.LineString{{0, 0}, {1, 1}}},
		{"multilinestring", orb.MultiLineString{{{0, 0}, {1, 1}}, {{2, 2}, {3, 3}}}},
		{"polygon", orb.Polygon{{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}}}},
		{"multipolygon", orb.MultiPolygon{{{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}}}}},
		{"collection", orb.Collection{orb.Point{0, 0}, orb.LineString{{0, 0}, {1, 1}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := TransformGeometry(tt.g, shift)
			if err != nil {
				t.Fatalf("TransformGeometry error = %v", err)
			}
			if out.GeoJSONType() != tt.g.GeoJSONType() {
				t.Errorf("result type = %v, want %v", out.GeoJSONType(), tt.g.GeoJSONType())
			}
			wantMin := tt.g.Bound().Min
			gotMin := out.Bound().Min
			if gotMin[0] != wantMin[0]+1 || gotMin[1] != wantMin[1]+1 {
				t.Errorf("result bound min = %v, want %v shifted by (1, 1)", gotMin, wantMin)
			}
		})
	}
}
