// Package series turns raw numeric tables into validated time-domain series
// and computes the definite time-integrals that the convergence analysis
// compares across resolutions. Validation never fails hard: every defect is
// reported as a diagnostic plus a skip flag, and the caller decides what to
// do with the series.
package series

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/hfcfd/meshbench/internal/bench"
	"github.com/hfcfd/meshbench/internal/diag"
)

// Quantity names as they appear in reports and participant-declared totals.
const (
	QuantityYForce    = "Y-Force"
	QuantityWork      = "Work"
	QuantityMass      = "Mass"
	QuantityMassError = "Mass error"
)

// Temporal validation tolerances. The start of the series is held to a tight
// absolute bound; terminal time and step uniformity use the usual
// absolute-or-relative closeness.
const (
	startTimeTol = 1e-4
	closeAbsTol  = 1e-8
	closeRelTol  = 1e-5
)

// TimeSeries holds the named columns of one case, time-ordered. Mass and
// MassError are NaN throughout for geometries without mass semantics, and
// for submissions that omit the optional columns.
type TimeSeries struct {
	Time      []float64
	YForce    []float64
	Work      []float64
	Mass      []float64
	MassError []float64
}

// Len returns the number of samples.
func (ts *TimeSeries) Len() int { return len(ts.Time) }

// StartupForce returns the magnitude of the first y-force sample, a
// diagnostic of the startup transient.
func (ts *TimeSeries) StartupForce() float64 {
	if len(ts.YForce) == 0 {
		return math.NaN()
	}
	return math.Abs(ts.YForce[0])
}

// ParticipantIntegrals carries totals a group computed themselves, declared
// in a sentinel final row whose time is non-finite. Only finite entries are
// kept; nil means the table carried no sentinel row.
type ParticipantIntegrals map[string]float64

// Options control the optional validations in Process.
type Options struct {
	// EnforceUniformStep requires consecutive time deltas to match within
	// the closeness tolerances.
	EnforceUniformStep bool
}

// Process splits a raw table into named series for one case and validates
// its time domain against the motion's terminal time. The returned skip flag
// reports that the series failed validation and must not contribute
// integrals; the series itself is still returned so callers can display it.
//
// Validation order: sentinel-row extraction, column split, start-time bound,
// optional step uniformity, terminal time. A uniformity violation stops the
// remaining checks for this call.
func Process(geom bench.Geometry, motion bench.Motion, table [][]float64, opts Options) (*TimeSeries, ParticipantIntegrals, bool) {
	label := string(geom) + " " + string(motion)

	if len(table) == 0 {
		diag.Logf("series: %s: empty table", label)
		return &TimeSeries{}, nil, true
	}
	width := len(table[0])
	for _, row := range table {
		if len(row) != width {
			diag.Logf("series: %s: ragged table (row width %d vs %d)", label, len(row), width)
			return &TimeSeries{}, nil, true
		}
	}
	if width < 3 {
		diag.Logf("series: %s: table has %d columns, need time, y-force, work", label, width)
		return &TimeSeries{}, nil, true
	}

	table, totals := extractTotals(geom, table, width)
	if len(table) == 0 {
		diag.Logf("series: %s: no samples besides the totals row", label)
		return &TimeSeries{}, totals, true
	}

	ts := splitColumns(geom, table, width)
	skip := false

	if !scalar.EqualWithinAbs(ts.Time[0], 0, startTimeTol) {
		diag.Logf("series: %s: starts at t=%g, expected 0", label, ts.Time[0])
		skip = true
	}

	if opts.EnforceUniformStep {
		for i := 1; i < len(ts.Time)-1; i++ {
			prev := ts.Time[i] - ts.Time[i-1]
			next := ts.Time[i+1] - ts.Time[i]
			if !scalar.EqualWithinAbsOrRel(prev, next, closeAbsTol, closeRelTol) {
				diag.Logf("series: %s: non-uniform step at t=%g (dt %g then %g)", label, ts.Time[i], prev, next)
				return ts, totals, true
			}
		}
	}

	end := ts.Time[len(ts.Time)-1]
	terminal, ok := bench.TerminalTime(geom, motion)
	if !ok {
		diag.Logf("series: %s: no terminal time defined", label)
		return ts, totals, true
	}
	if !scalar.EqualWithinAbsOrRel(end, terminal, closeAbsTol, closeRelTol) {
		diag.Logf("series: %s: ends at t=%g, expected %g", label, end, terminal)
		skip = true
	}

	return ts, totals, skip
}

// extractTotals peels off a sentinel final row with non-finite time and
// records its finite quantity values. Mass quantities are recorded only for
// geometries that define them.
func extractTotals(geom bench.Geometry, table [][]float64, width int) ([][]float64, ParticipantIntegrals) {
	last := table[len(table)-1]
	if isFinite(last[0]) {
		return table, nil
	}

	totals := make(ParticipantIntegrals)
	record := func(name string, col int) {
		if col < width && isFinite(last[col]) {
			totals[name] = last[col]
		}
	}
	record(QuantityYForce, 1)
	record(QuantityWork, 2)
	if bench.HasMass(geom) {
		record(QuantityMass, 3)
		record(QuantityMassError, 4)
	}
	return table[:len(table)-1], totals
}

// splitColumns maps table columns onto the named series. Geometries without
// mass semantics get NaN mass columns regardless of the submitted width.
func splitColumns(geom bench.Geometry, table [][]float64, width int) *TimeSeries {
	n := len(table)
	ts := &TimeSeries{
		Time:   column(table, 0),
		YForce: column(table, 1),
		Work:   column(table, 2),
	}
	if bench.HasMass(geom) && width > 3 {
		ts.Mass = column(table, 3)
	} else {
		ts.Mass = nanColumn(n)
	}
	if bench.HasMass(geom) && width > 4 {
		ts.MassError = column(table, 4)
	} else {
		ts.MassError = nanColumn(n)
	}
	return ts
}

func column(table [][]float64, i int) []float64 {
	out := make([]float64, len(table))
	for r, row := range table {
		out[r] = row[i]
	}
	return out
}

func nanColumn(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
