// Package bench defines the fixed vocabulary of the mesh-motion verification
// benchmark: the canonical resolution label sequences (h, p, t), the benchmark
// geometries and prescribed motions, and the per-case constants (terminal
// times, conserved quantities) that the rest of the pipeline validates
// against. Everything here is decided at process start and never mutated.
package bench

// Label is an opaque resolution token such as "h2", "p3" or "t4". Labels are
// ordered by their position in the canonical sequence they belong to, not by
// lexical comparison.
type Label string

// Axis identifies one of the three resolution axes.
type Axis int

const (
	// AxisH is spatial grid refinement, coarsest to finest.
	AxisH Axis = iota
	// AxisP is solution/interpolation order, lowest to highest.
	AxisP
	// AxisT is temporal refinement, coarsest to finest.
	AxisT
)

// String returns the single-letter axis name used in filenames and logs.
func (a Axis) String() string {
	switch a {
	case AxisH:
		return "h"
	case AxisP:
		return "p"
	case AxisT:
		return "t"
	}
	return "?"
}

// Canonical label sequences. The workshop data format allows six grid levels,
// seven polynomial orders and ten time-step levels; submissions use a sparse
// subset of each.
var (
	hSequence = []Label{"h0", "h1", "h2", "h3", "h4", "h5"}
	pSequence = []Label{"p0", "p1", "p2", "p3", "p4", "p5", "p6"}
	tSequence = []Label{"t0", "t1", "t2", "t3", "t4", "t5", "t6", "t7", "t8", "t9"}
)

// Index holds the three canonical label sequences and answers O(1) ordinal
// lookups. Construct one with DefaultIndex at startup and pass it by
// reference; an Index is immutable after construction.
type Index struct {
	seqs [3][]Label
	pos  [3]map[Label]int
}

// DefaultIndex returns the canonical benchmark index.
func DefaultIndex() *Index {
	ix := &Index{}
	ix.seqs[AxisH] = hSequence
	ix.seqs[AxisP] = pSequence
	ix.seqs[AxisT] = tSequence
	for a := AxisH; a <= AxisT; a++ {
		ix.pos[a] = make(map[Label]int, len(ix.seqs[a]))
		for i, l := range ix.seqs[a] {
			ix.pos[a][l] = i
		}
	}
	return ix
}

// Labels returns a copy of the canonical sequence for the axis, coarsest
// first.
func (ix *Index) Labels(a Axis) []Label {
	out := make([]Label, len(ix.seqs[a]))
	copy(out, ix.seqs[a])
	return out
}

// Len returns the number of labels on the axis.
func (ix *Index) Len(a Axis) int { return len(ix.seqs[a]) }

// Ordinal returns the position of a label within its axis sequence.
// ok is false if the label is not part of the canonical sequence.
func (ix *Index) Ordinal(a Axis, l Label) (int, bool) {
	i, ok := ix.pos[a][l]
	return i, ok
}

// Contains reports whether the label belongs to the axis sequence.
func (ix *Index) Contains(a Axis, l Label) bool {
	_, ok := ix.pos[a][l]
	return ok
}

// Coarsest returns the index-0 label of the axis.
func (ix *Index) Coarsest(a Axis) Label { return ix.seqs[a][0] }

// Finest returns the last label of the axis.
func (ix *Index) Finest(a Axis) Label { return ix.seqs[a][len(ix.seqs[a])-1] }

// MoreRefined reports whether a is strictly more refined than b on the given
// axis, i.e. has the higher sequence ordinal. Labels outside the sequence are
// never more refined than anything.
func (ix *Index) MoreRefined(axis Axis, a, b Label) bool {
	ia, oka := ix.pos[axis][a]
	ib, okb := ix.pos[axis][b]
	if !oka {
		return false
	}
	if !okb {
		return true
	}
	return ia > ib
}
