package convergence

import (
	"fmt"
	"math"

	"github.com/hfcfd/meshbench/internal/bench"
)

// Tensor is a dense 3-axis array over (h, p, t) ordinals for one tracked
// quantity. Cells default to NaN, meaning no validated submission exists at
// that resolution triple.
type Tensor struct {
	nh, np, nt int
	cells      []float64
}

// NewTensor returns a tensor sized to the canonical axis lengths with every
// cell undefined.
func NewTensor(ix *bench.Index) *Tensor {
	t := &Tensor{
		nh: ix.Len(bench.AxisH),
		np: ix.Len(bench.AxisP),
		nt: ix.Len(bench.AxisT),
	}
	t.cells = make([]float64, t.nh*t.np*t.nt)
	for i := range t.cells {
		t.cells[i] = math.NaN()
	}
	return t
}

// Dims returns the axis lengths.
func (t *Tensor) Dims() (nh, np, nt int) { return t.nh, t.np, t.nt }

func (t *Tensor) index(h, p, tt int) int {
	if h < 0 || h >= t.nh || p < 0 || p >= t.np || tt < 0 || tt >= t.nt {
		panic(fmt.Sprintf("convergence: tensor index (%d,%d,%d) out of range %dx%dx%d",
			h, p, tt, t.nh, t.np, t.nt))
	}
	return (h*t.np+p)*t.nt + tt
}

// At returns the cell value; NaN means undefined.
func (t *Tensor) At(h, p, tt int) float64 { return t.cells[t.index(h, p, tt)] }

// Set stores a value at the cell.
func (t *Tensor) Set(h, p, tt int, v float64) { t.cells[t.index(h, p, tt)] = v }

// Defined reports whether the cell holds a value.
func (t *Tensor) Defined(h, p, tt int) bool { return !math.IsNaN(t.At(h, p, tt)) }

// DOFGrid holds declared degrees of freedom per (h, p) ordinal: element
// count at h times dof-per-element at p. NaN marks pairs the group did not
// declare.
type DOFGrid struct {
	nh, np int
	cells  []float64
}

// NewDOFGrid returns a grid sized to the canonical h and p axis lengths with
// every pair undeclared.
func NewDOFGrid(ix *bench.Index) *DOFGrid {
	g := &DOFGrid{nh: ix.Len(bench.AxisH), np: ix.Len(bench.AxisP)}
	g.cells = make([]float64, g.nh*g.np)
	for i := range g.cells {
		g.cells[i] = math.NaN()
	}
	return g
}

func (g *DOFGrid) index(h, p int) int {
	if h < 0 || h >= g.nh || p < 0 || p >= g.np {
		panic(fmt.Sprintf("convergence: dof index (%d,%d) out of range %dx%d", h, p, g.nh, g.np))
	}
	return h*g.np + p
}

// At returns the declared degrees of freedom, NaN if undeclared.
func (g *DOFGrid) At(h, p int) float64 { return g.cells[g.index(h, p)] }

// Set stores the degrees of freedom for the pair.
func (g *DOFGrid) Set(h, p int, v float64) { g.cells[g.index(h, p)] = v }

// InverseSqrt returns the x-axis transform 1/sqrt(dof) for the pair, NaN if
// the pair is undeclared.
func (g *DOFGrid) InverseSqrt(h, p int) float64 {
	v := g.At(h, p)
	if v > 0 {
		return 1 / math.Sqrt(v)
	}
	return math.NaN()
}
