package series

import (
	"fmt"

	"gonum.org/v1/gonum/integrate"

	"github.com/hfcfd/meshbench/internal/bench"
)

// Integral computes the composite Simpson integral of values over time.
// Simpson quadrature over the submitted sample times is the quantity of
// record for convergence comparison; it needs at least three samples and a
// strictly increasing time axis.
func Integral(time, values []float64) (float64, error) {
	if len(time) != len(values) {
		return 0, fmt.Errorf("length mismatch: %d times for %d values", len(time), len(values))
	}
	if len(time) < 3 {
		return 0, fmt.Errorf("quadrature needs at least 3 samples, have %d", len(time))
	}
	for i := 1; i < len(time); i++ {
		if !(time[i] > time[i-1]) {
			return 0, fmt.Errorf("time not strictly increasing at sample %d (%g then %g)", i, time[i-1], time[i])
		}
	}
	return integrate.Simpsons(time, values), nil
}

type quantityColumn struct {
	name   string
	values []float64
}

// Integrate computes the definite time-integral of every quantity the
// geometry defines. A NaN-filled column integrates to NaN, which downstream
// treats as an undefined value rather than an error.
func Integrate(ts *TimeSeries, geom bench.Geometry) (map[string]float64, error) {
	quantities := []quantityColumn{
		{QuantityYForce, ts.YForce},
		{QuantityWork, ts.Work},
	}
	if bench.HasMass(geom) {
		quantities = append(quantities, quantityColumn{QuantityMass, ts.Mass})
	}

	out := make(map[string]float64, len(quantities))
	for _, q := range quantities {
		v, err := Integral(ts.Time, q.values)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", q.name, err)
		}
		out[q.name] = v
	}
	return out, nil
}
