package convergence

import (
	"math"
	"testing"

	"github.com/hfcfd/meshbench/internal/bench"
	"github.com/hfcfd/meshbench/internal/series"
)

// sliceFixture builds a single-group MotionResult with a y-force tensor
// populated on the h ladder {h0, h2, h4} at (p3, t4).
func sliceFixture(ix *bench.Index) (*MotionResult, *GroupMotion) {
	rec := &GroupRecord{
		Group:   "UM",
		Color:   "#d62728",
		HLabels: []bench.Label{"h0", "h2", "h4"},
		PLabels: []bench.Label{"p3"},
		DOF:     NewDOFGrid(ix),
	}
	rec.DOF.Set(0, 3, 2700)
	rec.DOF.Set(2, 3, 10800)
	rec.DOF.Set(4, 3, 43200)

	gm := &GroupMotion{
		GroupRecord: rec,
		TconvMax:    "t4",
		Errors:      map[string]*Tensor{series.QuantityYForce: NewTensor(ix)},
	}
	res := &MotionResult{Geometry: bench.Cylinder, Motion: bench.M1, Groups: []*GroupMotion{gm}}
	return res, gm
}

func TestReducePrimarySlice(t *testing.T) {
	ix := bench.DefaultIndex()
	res, gm := sliceFixture(ix)
	tensor := gm.Errors[series.QuantityYForce]
	tensor.Set(0, 3, 4, 0.5)
	tensor.Set(2, 3, 4, 0.125)
	tensor.Set(4, 3, 4, 0.03125)

	slices := Reduce(ix, res, series.QuantityYForce, false)
	if len(slices) != 1 {
		t.Fatalf("got %d slices, want 1", len(slices))
	}
	s := slices[0]
	if s.Group != "UM" || s.P != "p3" || s.T != "t4" || s.Weight != 1 {
		t.Errorf("slice header = %+v", s)
	}
	if len(s.X) != 3 {
		t.Fatalf("got %d pairs, want 3", len(s.X))
	}
	// Coarsest h first, largest x first.
	if !(s.X[0] > s.X[1] && s.X[1] > s.X[2]) {
		t.Errorf("x not ordered coarsest first: %v", s.X)
	}
	want := 1 / math.Sqrt(10800)
	if math.Abs(s.X[1]-want) > 1e-15 {
		t.Errorf("x[1] = %g, want %g", s.X[1], want)
	}
	if s.Y[1] != 0.125 {
		t.Errorf("y[1] = %g, want 0.125", s.Y[1])
	}
}

func TestReduceDropsUndefinedCells(t *testing.T) {
	ix := bench.DefaultIndex()
	res, gm := sliceFixture(ix)
	tensor := gm.Errors[series.QuantityYForce]
	tensor.Set(0, 3, 4, 0.5)
	tensor.Set(2, 3, 4, 0.125)
	// h4 left undefined.

	slices := Reduce(ix, res, series.QuantityYForce, false)
	if len(slices) != 1 {
		t.Fatalf("got %d slices, want 1", len(slices))
	}
	if len(slices[0].X) != 2 {
		t.Errorf("got %d pairs, want 2 with the undefined cell dropped", len(slices[0].X))
	}
}

func TestReduceEmptyTensor(t *testing.T) {
	ix := bench.DefaultIndex()
	res, _ := sliceFixture(ix)

	if slices := Reduce(ix, res, series.QuantityYForce, false); len(slices) != 0 {
		t.Errorf("got %d slices from an empty tensor, want none", len(slices))
	}
	if slices := Reduce(ix, res, series.QuantityWork, false); len(slices) != 0 {
		t.Errorf("got %d slices for an untracked quantity, want none", len(slices))
	}
}

func TestReduceTimeOpacity(t *testing.T) {
	ix := bench.DefaultIndex()
	res, gm := sliceFixture(ix)
	tensor := gm.Errors[series.QuantityYForce]
	tensor.Set(0, 3, 2, 0.9)
	tensor.Set(0, 3, 3, 0.7)
	tensor.Set(0, 3, 4, 0.5)

	slices := Reduce(ix, res, series.QuantityYForce, true)
	if len(slices) != 3 {
		t.Fatalf("got %d slices, want 3 populated time levels", len(slices))
	}

	wantWeights := map[bench.Label]float64{
		"t2": minSliceWeight + (1-minSliceWeight)*2.0/4.0,
		"t3": minSliceWeight + (1-minSliceWeight)*3.0/4.0,
		"t4": 1,
	}
	for _, s := range slices {
		want, ok := wantWeights[s.T]
		if !ok {
			t.Errorf("unexpected slice at %s", s.T)
			continue
		}
		if math.Abs(s.Weight-want) > 1e-12 {
			t.Errorf("weight at %s = %g, want %g", s.T, s.Weight, want)
		}
	}
}

func TestObservedOrder(t *testing.T) {
	// Errors following err = c*x^2 exactly fit slope 2 in log-log space.
	xs := []float64{0.1, 0.02, 0.004}
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = 3 * x * x
	}
	s := Slice{X: xs, Y: ys}

	order, ok := ObservedOrder(s)
	if !ok {
		t.Fatal("ObservedOrder reported no fit")
	}
	if math.Abs(order-2) > 1e-10 {
		t.Errorf("order = %g, want 2", order)
	}
}

func TestObservedOrderDegenerate(t *testing.T) {
	tests := []struct {
		name string
		s    Slice
	}{
		{"single point", Slice{X: []float64{0.1}, Y: []float64{0.5}}},
		{"zero error", Slice{X: []float64{0.1, 0.02}, Y: []float64{0, 0.5}}},
		{"empty", Slice{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := ObservedOrder(tt.s); ok {
				t.Error("expected no fit from fewer than two positive pairs")
			}
		})
	}
}
