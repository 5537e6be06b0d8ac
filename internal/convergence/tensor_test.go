package convergence

import (
	"math"
	"testing"

	"github.com/hfcfd/meshbench/internal/bench"
)

func TestTensorDefaultsUndefined(t *testing.T) {
	ix := bench.DefaultIndex()
	tensor := NewTensor(ix)

	nh, np, nt := tensor.Dims()
	if nh != 6 || np != 7 || nt != 10 {
		t.Fatalf("Dims = %dx%dx%d, want 6x7x10", nh, np, nt)
	}
	if !math.IsNaN(tensor.At(0, 0, 0)) || !math.IsNaN(tensor.At(5, 6, 9)) {
		t.Error("fresh cells must be NaN")
	}
	if tensor.Defined(2, 3, 4) {
		t.Error("fresh cell reported as defined")
	}
}

func TestTensorSetAt(t *testing.T) {
	tensor := NewTensor(bench.DefaultIndex())

	tensor.Set(2, 3, 4, 0.125)
	if got := tensor.At(2, 3, 4); got != 0.125 {
		t.Errorf("At = %g, want 0.125", got)
	}
	if !tensor.Defined(2, 3, 4) {
		t.Error("cell must be defined after Set")
	}
	// Neighbouring cells are untouched.
	if tensor.Defined(2, 3, 5) || tensor.Defined(2, 4, 4) || tensor.Defined(3, 3, 4) {
		t.Error("Set leaked into a neighbouring cell")
	}
}

func TestDOFGrid(t *testing.T) {
	g := NewDOFGrid(bench.DefaultIndex())

	if !math.IsNaN(g.At(2, 3)) {
		t.Error("fresh pair must be NaN")
	}
	g.Set(2, 3, 10800)
	if got := g.At(2, 3); got != 10800 {
		t.Errorf("At = %g, want 10800", got)
	}

	want := 1 / math.Sqrt(10800)
	if got := g.InverseSqrt(2, 3); math.Abs(got-want) > 1e-15 {
		t.Errorf("InverseSqrt = %g, want %g", got, want)
	}
	if !math.IsNaN(g.InverseSqrt(0, 0)) {
		t.Error("InverseSqrt of an undeclared pair must be NaN")
	}
}
