package bench

import "math"

// Geometry is a benchmark test geometry.
type Geometry string

// Motion is a prescribed mesh motion within a geometry.
type Motion string

// Benchmark geometries.
const (
	Cylinder Geometry = "Cylinder"
	Airfoil  Geometry = "Airfoil"
)

// Prescribed motions. Not every geometry defines every motion; see
// TerminalTime.
const (
	M1 Motion = "M1"
	M2 Motion = "M2"
	M3 Motion = "M3"
	M4 Motion = "M4"
)

// Geometric constants for the closed cylinder cross-section. The benchmark is
// non-dimensionalised: unit diameter, unit density.
const (
	cylinderRadius = 0.5
	fluidDensity   = 1.0
)

// terminalTimes fixes the required end time of every (geometry, motion) data
// set. A single table, keyed by both, so the validation cannot drift between
// geometries.
var terminalTimes = map[Geometry]map[Motion]float64{
	Cylinder: {
		M1: 1,
		M2: 40,
		M3: 1,
		M4: 2,
	},
	Airfoil: {
		M1: 2,
		M2: 40,
	},
}

// rigidMotions marks the motions that move the mesh rigidly, without
// deformation. Mass inside a closed rigid boundary is conserved exactly,
// which is what permits the analytic mass reference.
var rigidMotions = map[Geometry]map[Motion]bool{
	Cylinder: {M1: true, M2: true},
}

// Geometries returns the benchmark geometries in presentation order.
func Geometries() []Geometry { return []Geometry{Cylinder, Airfoil} }

// Motions returns the motions defined for the geometry, in canonical order.
func Motions(g Geometry) []Motion {
	table := terminalTimes[g]
	var out []Motion
	for _, m := range []Motion{M1, M2, M3, M4} {
		if _, ok := table[m]; ok {
			out = append(out, m)
		}
	}
	return out
}

// TerminalTime returns the required end time for the (geometry, motion) pair.
// ok is false when the pair is not part of the benchmark.
func TerminalTime(g Geometry, m Motion) (float64, bool) {
	t, ok := terminalTimes[g][m]
	return t, ok
}

// HasMass reports whether the geometry defines the mass and mass-error
// outputs. The airfoil suite does not; its submissions carry NaN in those
// columns and no mass error is tracked.
func HasMass(g Geometry) bool { return g == Cylinder }

// ConservedMass returns the analytic mass enclosed by the geometry's closed
// cross-section (area times density). ok is false for geometries without mass
// semantics.
func ConservedMass(g Geometry) (float64, bool) {
	if g != Cylinder {
		return 0, false
	}
	return fluidDensity * math.Pi * cylinderRadius * cylinderRadius, true
}

// AnalyticMassIntegral returns the exact time integral of the conserved mass
// over [0, T] for rigid closed-section motions: conserved mass times the
// terminal time. The data-derived reference carries discretisation error, so
// the convergence engine substitutes this value where it is defined.
func AnalyticMassIntegral(g Geometry, m Motion) (float64, bool) {
	if !rigidMotions[g][m] {
		return 0, false
	}
	mass, ok := ConservedMass(g)
	if !ok {
		return 0, false
	}
	tEnd, ok := TerminalTime(g, m)
	if !ok {
		return 0, false
	}
	return mass * tEnd, true
}
