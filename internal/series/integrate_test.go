package series

import (
	"math"
	"testing"

	"github.com/hfcfd/meshbench/internal/bench"
)

func TestIntegralConstant(t *testing.T) {
	// The integral of a constant c over [0,T] is c*T, uniform grid or not.
	tests := []struct {
		name string
		time []float64
		c    float64
		want float64
	}{
		{"uniform", []float64{0, 0.25, 0.5, 0.75, 1}, 3.5, 3.5},
		{"non-uniform", []float64{0, 0.1, 0.4, 0.45, 2}, -1.25, -2.5},
		{"three samples", []float64{0, 19, 40}, 0.5, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := make([]float64, len(tt.time))
			for i := range values {
				values[i] = tt.c
			}
			got, err := Integral(tt.time, values)
			if err != nil {
				t.Fatalf("Integral failed: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Integral = %.15g, want %.15g", got, tt.want)
			}
		})
	}
}

func TestIntegralQuadratic(t *testing.T) {
	// Simpson quadrature is exact for polynomials up to degree three on a
	// uniform grid: int(t^2) over [0,1] is 1/3.
	time := []float64{0, 0.25, 0.5, 0.75, 1}
	values := make([]float64, len(time))
	for i, x := range time {
		values[i] = x * x
	}
	got, err := Integral(time, values)
	if err != nil {
		t.Fatalf("Integral failed: %v", err)
	}
	if math.Abs(got-1.0/3.0) > 1e-12 {
		t.Errorf("Integral = %.15g, want 1/3", got)
	}
}

func TestIntegralRejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		time   []float64
		values []float64
	}{
		{"too short", []float64{0, 1}, []float64{1, 1}},
		{"length mismatch", []float64{0, 1, 2}, []float64{1, 1}},
		{"decreasing", []float64{0, 2, 1}, []float64{1, 1, 1}},
		{"repeated time", []float64{0, 1, 1}, []float64{1, 1, 1}},
		{"nan time", []float64{0, math.NaN(), 1}, []float64{1, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Integral(tt.time, tt.values); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestIntegrate(t *testing.T) {
	ts := &TimeSeries{
		Time:   []float64{0, 0.5, 1},
		YForce: []float64{2, 2, 2},
		Work:   []float64{1, 1, 1},
		Mass:   []float64{0.785, 0.785, 0.785},
	}

	got, err := Integrate(ts, bench.Cylinder)
	if err != nil {
		t.Fatalf("Integrate failed: %v", err)
	}
	if math.Abs(got[QuantityYForce]-2) > 1e-12 {
		t.Errorf("y-force integral = %g, want 2", got[QuantityYForce])
	}
	if math.Abs(got[QuantityWork]-1) > 1e-12 {
		t.Errorf("work integral = %g, want 1", got[QuantityWork])
	}
	if math.Abs(got[QuantityMass]-0.785) > 1e-12 {
		t.Errorf("mass integral = %g, want 0.785", got[QuantityMass])
	}
}

func TestIntegrateAirfoilSkipsMass(t *testing.T) {
	ts := &TimeSeries{
		Time:   []float64{0, 1, 2},
		YForce: []float64{1, 1, 1},
		Work:   []float64{1, 1, 1},
		Mass:   nanColumn(3),
	}

	got, err := Integrate(ts, bench.Airfoil)
	if err != nil {
		t.Fatalf("Integrate failed: %v", err)
	}
	if _, present := got[QuantityMass]; present {
		t.Error("mass must not be integrated for a geometry without mass semantics")
	}
}

func TestIntegrateNaNColumn(t *testing.T) {
	ts := &TimeSeries{
		Time:   []float64{0, 0.5, 1},
		YForce: []float64{1, 1, 1},
		Work:   []float64{1, 1, 1},
		Mass:   nanColumn(3),
	}

	got, err := Integrate(ts, bench.Cylinder)
	if err != nil {
		t.Fatalf("Integrate failed: %v", err)
	}
	if !math.IsNaN(got[QuantityMass]) {
		t.Errorf("mass integral over a NaN column = %g, want NaN", got[QuantityMass])
	}
}
