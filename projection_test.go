package vectorpipe

import (
	"reflect"
	"testing"

	"github.com/paulmach/orb"
)

func TestFindProjectionHandler(t *testing.T) {
	area := orb.Bound{Min: orb.Point{-2e6, -2e6}, Max: orb.Point{2e6, 2e6}}
	mercator := mustCRS(t, "EPSG:3857")
	geographic := mustCRS(t, "EPSG:4326")
	utm := mustCRS(t, "EPSG:32633")

	tests := []struct {
		name       string
		rendering  CRS
		source     CRS
		wrap       bool
		wantNil    bool
		wantMaxLat float64
	}{
		{"geographic source, mercator target", mercator, geographic, false, false, webMercatorMaxLat},
		{"geographic source, utm target", utm, geographic, false, false, 90},
		{"geographic source, geographic target", geographic, geographic, false, false, 90},
		{"projected source", mercator, utm, false, true, 0},
		{"wrapping requested", mercator, geographic, true, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := FindProjectionHandler(area, tt.rendering, tt.source, tt.wrap)
			if tt.wantNil {
				if h != nil {
					t.Fatalf("handler = %+v, want nil", h)
				}
				return
			}
			if h == nil {
				t.Fatal("handler = nil, want one")
			}
			if h.ValidArea.Max[1] != tt.wantMaxLat {
				t.Errorf("valid area max lat = %v, want %v", h.ValidArea.Max[1], tt.wantMaxLat)
			}
		})
	}
}

func TestProjectionHandlerPreProcess(t *testing.T) {
	area := orb.Bound{Min: orb.Point{-2e6, -2e6}, Max: orb.Point{2e6, 2e6}}
	h := FindProjectionHandler(area, mustCRS(t, "EPSG:3857"), mustCRS(t, "EPSG:4326"), false)
	if h == nil {
		t.Fatal("handler = nil, want one")
	}

	t.Run("inside passes through untouched", func(t *testing.T) {
		in := orb.Polygon{{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}}
		out, err := h.PreProcess(in)
		if err != nil {
			t.Fatalf("PreProcess error = %v", err)
		}
		if !reflect.DeepEqual(out, in) {
			t.Errorf("PreProcess = %v, want unchanged", out)
		}
	})

	t.Run("outside validity area eliminated", func(t *testing.T) {
		in := orb.Polygon{{{10, 87}, {20, 87}, {20, 89}, {10, 89}, {10, 87}}}
		out, err := h.PreProcess(in)
		if err != nil {
			t.Fatalf("PreProcess error = %v", err)
		}
		if out != nil {
			t.Errorf("PreProcess = %v, want nil", out)
		}
	})

	t.Run("straddling polar cap gets cut", func(t *testing.T) {
		in := orb.Polygon{{{10, 80}, {20, 80}, {20, 89}, {10, 89}, {10, 80}}}
		out, err := h.PreProcess(in)
		if err != nil {
			t.Fatalf("PreProcess error = %v", err)
		}
		if out == nil {
			t.Fatal("PreProcess = nil, want clipped polygon")
		}
		if maxLat := out.Bound().Max[1]; maxLat > webMercatorMaxLat {
			t.Errorf("clipped max lat = %v, want <= %v", maxLat, webMercatorMaxLat)
		}
	})

	t.Run("nil geometry", func(t *testing.T) {
		out, err := h.PreProcess(nil)
		if err != nil {
			t.Fatalf("PreProcess error = %v", err)
		}
		if out != nil {
			t.Errorf("PreProcess(nil) = %v, want nil", out)
		}
	})
}

func TestBuilderWiresProjectionHandler(t *testing.T) {
	src := mustCRS(t, "EPSG:4326")
	dst := mustCRS(t, "EPSG:3857")
	area := orb.Bound{Min: orb.Point{-2e6, -2e6}, Max: orb.Point{2e6, 2e6}}

	b, err := NewBuilder(area, dst, Rect{Width: 256, Height: 256}, src, 1.0)
	if err != nil {
		t.Fatalf("NewBuilder error = %v", err)
	}
	if b.Context().ProjectionHandler == nil {
		t.Error("ProjectionHandler = nil for geographic source, want one")
	}

	// The override disables lookup entirely.
	b2, err := NewBuilder(area, dst, Rect{Width: 256, Height: 256}, src, 1.0, WithProjectionHandler(nil))
	if err != nil {
		t.Fatalf("NewBuilder error = %v", err)
	}
	if b2.Context().ProjectionHandler != nil {
		t.Error("ProjectionHandler override ignored, want nil")
	}
}

// An injected handler carries only a validity area; the builder must supply
// the clippers so a straddling geometry still clips instead of crashing.
func TestInjectedProjectionHandlerClipsStraddling(t *testing.T) {
	src := mustCRS(t, "EPSG:4326")
	dst := mustCRS(t, "EPSG:3857")
	area := orb.Bound{Min: orb.Point{-2e6, -2e6}, Max: orb.Point{2e6, 2e6}}
	valid := orb.Bound{Min: orb.Point{-10, -10}, Max: orb.Point{10, 10}}

	b, err := NewBuilder(area, dst, Rect{Width: 256, Height: 256}, src, 1.0,
		WithProjectionHandler(&ProjectionHandler{ValidArea: valid}))
	if err != nil {
		t.Fatalf("NewBuilder error = %v", err)
	}
	p := b.Preprocess().Build()

	straddle := orb.Polygon{{{5, 5}, {15, 5}, {15, 8}, {5, 8}, {5, 5}}}
	out, err := p.Run(straddle)
	if err != nil {
		t.Fatalf("Run error = %v", err)
	}
	if out == nil {
		t.Fatal("Run = nil, want clipped polygon")
	}
	if maxX := out.Bound().Max[0]; maxX > valid.Max[0] {
		t.Errorf("clipped max lon = %v, want <= %v", maxX, valid.Max[0])
	}
}

// PreProcess on a bare handler value must fall back to the default clippers.
func TestBareProjectionHandlerPreProcess(t *testing.T) {
	h := &ProjectionHandler{
		ValidArea: orb.Bound{Min: orb.Point{-10, -10}, Max: orb.Point{10, 10}},
	}
	in := orb.Polygon{{{5, 5}, {15, 5}, {15, 8}, {5, 8}, {5, 5}}}
	out, err := h.PreProcess(in)
	if err != nil {
		t.Fatalf("PreProcess error = %v", err)
	}
	if out == nil {
		t.Fatal("PreProcess = nil, want clipped polygon")
	}
	if maxX := out.Bound().Max[0]; maxX > 10 {
		t.Errorf("clipped max lon = %v, want <= 10", maxX)
	}
}
