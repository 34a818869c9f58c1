package vectorpipe

import (
	"errors"
	"math"
	"testing"
)

const matrixEpsilon = 1e-12

func TestMapToScreen(t *testing.T) {
	paint := Rect{X: 0, Y: 0, Width: 256, Height: 256}
	m := MapToScreen(0, 0, 1024, 1024, paint)

	tests := []struct {
		name         string
		x, y         float64
		wantX, wantY float64
	}{
		{"world min maps to bottom-left pixel corner", 0, 0, 0, 256},
		{"world max maps to top-right pixel corner", 1024, 1024, 256, 0},
		{"world top-left maps to origin", 0, 1024, 0, 0},
		{"center maps to center", 512, 512, 128, 128},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotX, gotY := m.Apply(tt.x, tt.y)
			if math.Abs(gotX-tt.wantX) > matrixEpsilon || math.Abs(gotY-tt.wantY) > matrixEpsilon {
				t.Errorf("Apply(%v, %v) = (%v, %v), want (%v, %v)", tt.x, tt.y, gotX, gotY, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestMapToScreenOffsetPaintArea(t *testing.T) {
	paint := Rect{X: 100, Y: 50, Width: 200, Height: 100}
	m := MapToScreen(-10, -5, 10, 5, paint)

	gotX, gotY := m.Apply(-10, 5)
	if math.Abs(gotX-100) > matrixEpsilon || math.Abs(gotY-50) > matrixEpsilon {
		t.Errorf("top-left world corner = (%v, %v), want (100, 50)", gotX, gotY)
	}
	gotX, gotY = m.Apply(10, -5)
	if math.Abs(gotX-300) > matrixEpsilon || math.Abs(gotY-150) > matrixEpsilon {
		t.Errorf("bottom-right world corner = (%v, %v), want (300, 150)", gotX, gotY)
	}
}

func TestTryInvertRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
	}{
		{"identity", Identity()},
		{"translation", Translate(10, -20)},
		{"scale", Scale(2, 0.5)},
		{"map to screen", MapToScreen(0, 0, 4096, 4096, Rect{Width: 256, Height: 256})},
		{"scale and translate", Scale(3, -3).Multiply(Translate(7, 11))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := tt.m.TryInvert()
			if err != nil {
				t.Fatalf("TryInvert() error = %v", err)
			}
			x, y := tt.m.Apply(12.5, -3.25)
			gotX, gotY := inv.Apply(x, y)
			if math.Abs(gotX-12.5) > 1e-9 || math.Abs(gotY+3.25) > 1e-9 {
				t.Errorf("round trip = (%v, %v), want (12.5, -3.25)", gotX, gotY)
			}
		})
	}
}

func TestTryInvertSingular(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
	}{
		{"zero matrix", Matrix{}},
		{"zero x scale", Scale(0, 1)},
		{"zero y scale", Scale(1, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.m.TryInvert(); !errors.Is(err, ErrNonInvertible) {
				t.Errorf("TryInvert() error = %v, want ErrNonInvertible", err)
			}
		})
	}
}

func TestMultiplyOrder(t *testing.T) {
	// Scale(2).Multiply(Translate(10)) applies the translation first.
	m := Scale(2, 2).Multiply(Translate(10, 0))
	gotX, gotY := m.Apply(1, 1)
	if gotX != 22 || gotY != 2 {
		t.Errorf("Apply(1, 1) = (%v, %v), want (22, 2)", gotX, gotY)
	}
}
