package report

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/hfcfd/meshbench/internal/bench"
	"github.com/hfcfd/meshbench/internal/convergence"
	"github.com/hfcfd/meshbench/internal/series"
)

// maxChartPoints bounds the per-series payload of the HTML page; longer
// histories are strided down to it.
const maxChartPoints = 2000

// GeometryHTML writes one self-contained interactive page for a geometry:
// a log-log convergence chart per (motion, quantity) and one history chart
// per motion. Returns the written path.
func (r *Renderer) GeometryHTML(geom bench.Geometry, results []*convergence.MotionResult) (string, error) {
	if err := r.ensureOutDir(); err != nil {
		return "", err
	}

	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("%s convergence report", geom)
	for _, res := range results {
		for _, q := range convergence.TrackedQuantities(res.Geometry) {
			if c := r.convergenceChart(res, q); c != nil {
				page.AddCharts(c)
			}
		}
		if c := r.historyChart(res); c != nil {
			page.AddCharts(c)
		}
	}

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return "", fmt.Errorf("render %s page: %w", geom, err)
	}

	path := r.pagePath(geom)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write %s page: %w", geom, err)
	}
	return path, nil
}

// convergenceChart builds the interactive log-log chart for one quantity,
// or nil when no slice has plottable points. The HTML view carries primary
// slices only; the interactive legend already lets readers isolate series,
// so the faded time sweep would just add noise.
func (r *Renderer) convergenceChart(res *convergence.MotionResult, quantity string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s %s: %s", res.Geometry, res.Motion, quantity),
			Subtitle: fmt.Sprintf("run=%s groups=%d", r.RunID, len(res.Groups)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "log", Name: "1/sqrt(DOF)", NameLocation: "middle", NameGap: 30}),
		charts.WithYAxisOpts(opts.YAxis{Type: "log", Name: quantityAxis(quantity), NameLocation: "middle", NameGap: 45}),
	)

	added := 0
	for _, s := range convergence.Reduce(r.Index, res, quantity, false) {
		data := make([]opts.LineData, 0, len(s.X))
		for i := range s.X {
			if s.X[i] > 0 && s.Y[i] > 0 {
				data = append(data, opts.LineData{Value: []interface{}{s.X[i], s.Y[i]}})
			}
		}
		if len(data) == 0 {
			continue
		}
		line.AddSeries(sliceLabel(s), data, r.lineSeriesOpts(s.Group, s.Color, true)...)
		added++
	}
	if added == 0 {
		return nil
	}
	return line
}

// historyChart builds the per-motion force history chart, one strided line
// per group's most refined submission, or nil when nothing is plottable.
func (r *Renderer) historyChart(res *convergence.MotionResult) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s %s: %s history", res.Geometry, res.Motion, series.QuantityYForce),
			Subtitle: fmt.Sprintf("run=%s max_points=%d", r.RunID, maxChartPoints),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "Time", NameLocation: "middle", NameGap: 30}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: series.QuantityYForce, NameLocation: "middle", NameGap: 45}),
	)

	added := 0
	for _, gm := range res.Groups {
		if gm.History == nil {
			continue
		}
		ts := gm.History

		// Downsample by stride to stay within maxChartPoints
		stride := 1
		if ts.Len() > maxChartPoints {
			stride = int(math.Ceil(float64(ts.Len()) / float64(maxChartPoints)))
		}
		data := make([]opts.LineData, 0, ts.Len()/stride+1)
		for i := 0; i < ts.Len(); i += stride {
			if math.IsNaN(ts.YForce[i]) {
				continue
			}
			data = append(data, opts.LineData{Value: []interface{}{ts.Time[i], ts.YForce[i]}})
		}
		if len(data) == 0 {
			continue
		}
		k := gm.HistoryKey
		name := fmt.Sprintf("%s %s-%s-%s", gm.Group, k.H, k.P, k.T)
		line.AddSeries(name, data, r.lineSeriesOpts(gm.Group, gm.Color, false)...)
		added++
	}
	if added == 0 {
		return nil
	}
	return line
}

// lineSeriesOpts styles one series: group color when configured, dash
// pattern from the run config, symbols only on the sparse convergence
// charts.
func (r *Renderer) lineSeriesOpts(group, color string, symbols bool) []charts.SeriesOpts {
	style := opts.LineStyle{Type: "solid"}
	if r.dashed(group) {
		style.Type = "dashed"
	}
	if color != "" {
		style.Color = color
	}
	so := []charts.SeriesOpts{
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(symbols)}),
		charts.WithLineStyleOpts(style),
	}
	if color != "" {
		so = append(so, charts.WithItemStyleOpts(opts.ItemStyle{Color: color}))
	}
	return so
}
