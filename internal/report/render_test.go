package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hfcfd/meshbench/internal/bench"
	"github.com/hfcfd/meshbench/internal/convergence"
	"github.com/hfcfd/meshbench/internal/series"
)

// motionFixture builds a single-group Cylinder M1 result with a populated
// cell ladder, the shape RunGeometry produces.
func motionFixture(t *testing.T, ix *bench.Index) *convergence.MotionResult {
	t.Helper()

	rec := &convergence.GroupRecord{
		Group:   "UM",
		Color:   "#bfbf00",
		HLabels: []bench.Label{"h0", "h2", "h4"},
		PLabels: []bench.Label{"p3"},
		HMax:    "h4",
		PMax:    "p3",
		DOF:     convergence.NewDOFGrid(ix),
	}

	ords := func(axis bench.Axis, l bench.Label) int {
		i, ok := ix.Ordinal(axis, l)
		require.True(t, ok, "no ordinal for %s", l)
		return i
	}
	ih := []int{ords(bench.AxisH, "h0"), ords(bench.AxisH, "h2"), ords(bench.AxisH, "h4")}
	ip := ords(bench.AxisP, "p3")
	it := ords(bench.AxisT, "t4")

	rec.DOF.Set(ih[0], ip, 2700)
	rec.DOF.Set(ih[1], ip, 10800)
	rec.DOF.Set(ih[2], ip, 43200)

	gm := &convergence.GroupMotion{
		GroupRecord: rec,
		Errors:      map[string]*convergence.Tensor{},
		TconvMax:    "t4",
		HistoryKey:  bench.CaseKey{Group: "UM", Geometry: bench.Cylinder, Motion: bench.M1, H: "h4", P: "p3", T: "t4"},
		History: &series.TimeSeries{
			Time:      []float64{0, 0.25, 0.5, 0.75, 1},
			YForce:    []float64{2, 2.1, 1.9, 2.05, 2},
			Work:      []float64{0, 0.5, 1, 1.5, 2},
			Mass:      []float64{0.785, 0.785, 0.785, 0.785, 0.785},
			MassError: []float64{0, 1e-9, 2e-9, 1e-9, 0},
		},
	}
	for _, q := range convergence.TrackedQuantities(bench.Cylinder) {
		tensor := convergence.NewTensor(ix)
		tensor.Set(ih[0], ip, it, 0.5)
		tensor.Set(ih[1], ip, it, 0.125)
		tensor.Set(ih[2], ip, it, 0.03125)
		gm.Errors[q] = tensor
	}

	return &convergence.MotionResult{
		Geometry: bench.Cylinder,
		Motion:   bench.M1,
		Groups:   []*convergence.GroupMotion{gm},
	}
}

func requirePNG(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, len(data) > 8, "file too short to be a PNG")
	assert.Equal(t, "\x89PNG", string(data[:4]), "missing PNG magic header")
}

func TestConvergencePNG(t *testing.T) {
	ix := bench.DefaultIndex()
	r := NewRenderer(t.TempDir(), ix)
	r.Dashes = map[string]bool{"UM": true}

	path, err := r.ConvergencePNG(motionFixture(t, ix))
	require.NoError(t, err)
	assert.Equal(t, "Cylinder_M1_Convergence.png", filepath.Base(path))
	requirePNG(t, path)
}

func TestConvergencePNGTimeOpacity(t *testing.T) {
	ix := bench.DefaultIndex()
	r := NewRenderer(t.TempDir(), ix)
	r.TimeOpacity = true

	path, err := r.ConvergencePNG(motionFixture(t, ix))
	require.NoError(t, err)
	requirePNG(t, path)
}

func TestHistoriesPNG(t *testing.T) {
	ix := bench.DefaultIndex()
	r := NewRenderer(t.TempDir(), ix)

	path, err := r.HistoriesPNG(motionFixture(t, ix))
	require.NoError(t, err)
	assert.Equal(t, "Cylinder_M1_Histories.png", filepath.Base(path))
	requirePNG(t, path)
}

func TestHistoriesPNGSkipsMissingHistory(t *testing.T) {
	ix := bench.DefaultIndex()
	r := NewRenderer(t.TempDir(), ix)

	res := motionFixture(t, ix)
	res.Groups[0].History = nil
	path, err := r.HistoriesPNG(res)
	require.NoError(t, err, "empty result must still render an empty figure")
	requirePNG(t, path)
}

func TestGeometryHTML(t *testing.T) {
	ix := bench.DefaultIndex()
	r := NewRenderer(t.TempDir(), ix)
	r.RunID = "test-run"

	res := motionFixture(t, ix)
	path, err := r.GeometryHTML(bench.Cylinder, []*convergence.MotionResult{res})
	require.NoError(t, err)
	assert.Equal(t, "Cylinder_report.html", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	page := string(data)
	assert.Contains(t, page, "echarts")
	assert.Contains(t, page, "run=test-run")
	assert.Contains(t, page, "UM p3")
}
