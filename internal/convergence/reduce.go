package convergence

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/hfcfd/meshbench/internal/bench"
)

// minSliceWeight is the presentation weight of the coarsest time slice in
// time-opacity mode; the primary slice always carries 1.0.
const minSliceWeight = 0.25

// Slice is one plottable convergence series: for a fixed group, p label and
// time label, X is 1/sqrt(dof) across the declared h ladder and Y is the
// tracked-quantity value at that cell. Only finite pairs are carried.
type Slice struct {
	Group  string
	Color  string
	P      bench.Label
	T      bench.Label
	Weight float64
	X, Y   []float64
}

// Reduce flattens one quantity's tensors into plottable slices, one per
// (group, p) pair in the primary mode, or one per (group, p, t) with fading
// weights when timeOpacity is set. Slices with no finite pairs are dropped.
// This reduction is the only path from tensors to the presentation layer.
func Reduce(ix *bench.Index, res *MotionResult, quantity string, timeOpacity bool) []Slice {
	tLabels := ix.Labels(bench.AxisT)

	var out []Slice
	for _, gm := range res.Groups {
		tensor := gm.Errors[quantity]
		if tensor == nil {
			continue
		}
		for _, p := range gm.PLabels {
			ip, ok := ix.Ordinal(bench.AxisP, p)
			if !ok {
				continue
			}
			tconv, ok := ix.Ordinal(bench.AxisT, gm.TconvMax)
			if !ok {
				tconv = ix.Len(bench.AxisT) - 1
			}

			if !timeOpacity {
				if s, ok := buildSlice(ix, gm, tensor, p, ip, tconv, tLabels[tconv], 1); ok {
					out = append(out, s)
				}
				continue
			}
			for it := 0; it <= tconv; it++ {
				weight := 1.0
				if tconv > 0 {
					weight = minSliceWeight + (1-minSliceWeight)*float64(it)/float64(tconv)
				}
				if s, ok := buildSlice(ix, gm, tensor, p, ip, it, tLabels[it], weight); ok {
					out = append(out, s)
				}
			}
		}
	}
	return out
}

// buildSlice walks the group's h ladder at fixed (p, t) ordinals and emits
// the finite (1/sqrt(dof), value) pairs, coarsest h first.
func buildSlice(ix *bench.Index, gm *GroupMotion, tensor *Tensor, p bench.Label, ip, it int, tLabel bench.Label, weight float64) (Slice, bool) {
	var xs, ys []float64
	for _, h := range gm.HLabels {
		ih, ok := ix.Ordinal(bench.AxisH, h)
		if !ok {
			continue
		}
		x := gm.DOF.InverseSqrt(ih, ip)
		y := tensor.At(ih, ip, it)
		if !finite(x) || !finite(y) {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	if len(xs) == 0 {
		return Slice{}, false
	}
	return Slice{
		Group:  gm.Group,
		Color:  gm.Color,
		P:      p,
		T:      tLabel,
		Weight: weight,
		X:      xs,
		Y:      ys,
	}, true
}

// ObservedOrder fits the observed convergence rate of a slice: the slope of
// log10 error against log10 of the dof transform. ok is false when fewer
// than two positive pairs exist.
func ObservedOrder(s Slice) (float64, bool) {
	var lx, ly []float64
	for i := range s.X {
		if s.X[i] > 0 && s.Y[i] > 0 {
			lx = append(lx, math.Log10(s.X[i]))
			ly = append(ly, math.Log10(s.Y[i]))
		}
	}
	if len(lx) < 2 {
		return 0, false
	}
	_, slope := stat.LinearRegression(lx, ly, nil, false)
	return slope, true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
