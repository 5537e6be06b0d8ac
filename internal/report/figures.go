package report

import (
	"fmt"
	"math"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/hfcfd/meshbench/internal/bench"
	"github.com/hfcfd/meshbench/internal/convergence"
	"github.com/hfcfd/meshbench/internal/series"
)

const tileCols = 2

// ConvergencePNG renders the tiled log-log convergence figure for one
// (geometry, motion) pair, one tile per tracked quantity, and returns the
// written path.
func (r *Renderer) ConvergencePNG(res *convergence.MotionResult) (string, error) {
	if err := r.ensureOutDir(); err != nil {
		return "", err
	}

	quantities := convergence.TrackedQuantities(res.Geometry)
	plots := make([]*plot.Plot, 0, len(quantities))
	for _, q := range quantities {
		p := plot.New()
		p.Title.Text = fmt.Sprintf("%s %s: %s", res.Geometry, res.Motion, q)
		p.X.Label.Text = "1/sqrt(DOF)"
		p.Y.Label.Text = quantityAxis(q)

		added := 0
		for _, s := range convergence.Reduce(r.Index, res, q, r.TimeOpacity) {
			pts := positiveXYs(s.X, s.Y)
			if len(pts) == 0 {
				continue
			}
			line, points, err := plotter.NewLinePoints(pts)
			if err != nil {
				return "", fmt.Errorf("%s %s: %w", q, s.Group, err)
			}
			c := fade(groupColor(s.Color), s.Weight)
			line.Color = c
			line.Width = vg.Points(1)
			line.Dashes = dashPattern(r.dashed(s.Group))
			points.Shape = draw.CircleGlyph{}
			points.Color = c
			p.Add(line, points)
			// Only primary slices get legend entries; faded time slices
			// would drown the legend.
			if s.Weight >= 1 {
				p.Legend.Add(sliceLabel(s), line)
			}
			added++
		}

		// A log axis cannot normalize an empty range, so empty tiles stay
		// linear.
		if added > 0 {
			p.X.Scale = plot.LogScale{}
			p.X.Tick.Marker = plot.LogTicks{Prec: -1}
			p.Y.Scale = plot.LogScale{}
			p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
		}
		p.Legend.Top = true
		p.Legend.Left = false
		p.Legend.XOffs = -10
		p.Legend.YOffs = -10

		plots = append(plots, p)
	}

	path := r.figurePath(res.Geometry, res.Motion, "Convergence")
	if err := saveTiled(plots, path); err != nil {
		return "", err
	}
	return path, nil
}

// HistoriesPNG renders the tiled time-history figure for one (geometry,
// motion) pair: each group's most refined submission, one tile per
// quantity.
func (r *Renderer) HistoriesPNG(res *convergence.MotionResult) (string, error) {
	if err := r.ensureOutDir(); err != nil {
		return "", err
	}

	quantities := historyQuantities(res.Geometry)
	plots := make([]*plot.Plot, 0, len(quantities))
	for _, q := range quantities {
		p := plot.New()
		p.Title.Text = fmt.Sprintf("%s %s: %s history", res.Geometry, res.Motion, q)
		p.X.Label.Text = "Time"
		p.Y.Label.Text = q

		for _, gm := range res.Groups {
			if gm.History == nil {
				continue
			}
			pts := finiteXYs(gm.History.Time, historySeries(gm.History, q))
			if len(pts) == 0 {
				continue
			}
			line, err := plotter.NewLine(pts)
			if err != nil {
				return "", fmt.Errorf("%s %s: %w", q, gm.Group, err)
			}
			line.Color = groupColor(gm.Color)
			line.Width = vg.Points(1)
			line.Dashes = dashPattern(r.dashed(gm.Group))
			p.Add(line)
			k := gm.HistoryKey
			p.Legend.Add(fmt.Sprintf("%s %s-%s-%s", gm.Group, k.H, k.P, k.T), line)
		}

		p.Legend.Top = true
		p.Legend.Left = false
		p.Legend.XOffs = -10
		p.Legend.YOffs = -10

		plots = append(plots, p)
	}

	path := r.figurePath(res.Geometry, res.Motion, "Histories")
	if err := saveTiled(plots, path); err != nil {
		return "", err
	}
	return path, nil
}

// saveTiled lays the plots out on a fixed-width grid and writes one PNG.
func saveTiled(plots []*plot.Plot, path string) error {
	rows := (len(plots) + tileCols - 1) / tileCols
	if rows == 0 {
		rows = 1
	}
	grid := make([][]*plot.Plot, rows)
	for i := range grid {
		grid[i] = make([]*plot.Plot, tileCols)
	}
	for i, p := range plots {
		grid[i/tileCols][i%tileCols] = p
	}

	img := vgimg.New(14*vg.Inch, 5*vg.Inch*vg.Length(rows))
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: rows, Cols: tileCols,
		PadX: vg.Millimeter * 2, PadY: vg.Millimeter * 2,
		PadTop: vg.Millimeter * 2, PadBottom: vg.Millimeter * 2,
		PadLeft: vg.Millimeter * 2, PadRight: vg.Millimeter * 2,
	}
	canvases := plot.Align(grid, tiles, dc)
	for row := range grid {
		for col := range grid[row] {
			if grid[row][col] != nil {
				grid[row][col].Draw(canvases[row][col])
			}
		}
	}

	w, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create figure: %w", err)
	}
	defer w.Close()
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(w); err != nil {
		return fmt.Errorf("write figure: %w", err)
	}
	return nil
}

// positiveXYs keeps strictly positive pairs, the only ones a log-log axis
// can show.
func positiveXYs(xs, ys []float64) plotter.XYs {
	pts := make(plotter.XYs, 0, len(xs))
	for i := range xs {
		if xs[i] > 0 && ys[i] > 0 {
			pts = append(pts, plotter.XY{X: xs[i], Y: ys[i]})
		}
	}
	return pts
}

// finiteXYs keeps pairs whose y value is finite; NaN columns (a geometry
// without mass, an omitted optional output) drop out entirely.
func finiteXYs(xs, ys []float64) plotter.XYs {
	pts := make(plotter.XYs, 0, len(xs))
	for i := range xs {
		if i < len(ys) && !math.IsNaN(ys[i]) && !math.IsInf(ys[i], 0) {
			pts = append(pts, plotter.XY{X: xs[i], Y: ys[i]})
		}
	}
	return pts
}

// sliceLabel names a slice in the legend, with the observed convergence
// order when a fit exists.
func sliceLabel(s convergence.Slice) string {
	if order, ok := convergence.ObservedOrder(s); ok {
		return fmt.Sprintf("%s %s (order %.2f)", s.Group, s.P, order)
	}
	return fmt.Sprintf("%s %s", s.Group, s.P)
}

func quantityAxis(q string) string {
	if q == convergence.InitialForce {
		return "|Y-Force| at t=0"
	}
	return "Absolute error"
}

// historyQuantities lists the time-history tiles for a geometry.
func historyQuantities(geom bench.Geometry) []string {
	q := []string{series.QuantityYForce, series.QuantityWork}
	if bench.HasMass(geom) {
		q = append(q, series.QuantityMass, series.QuantityMassError)
	}
	return q
}

// historySeries selects the named column of a series.
func historySeries(ts *series.TimeSeries, q string) []float64 {
	switch q {
	case series.QuantityYForce:
		return ts.YForce
	case series.QuantityWork:
		return ts.Work
	case series.QuantityMass:
		return ts.Mass
	case series.QuantityMassError:
		return ts.MassError
	}
	return nil
}
