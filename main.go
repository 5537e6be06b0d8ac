// Command meshbench aggregates mesh-motion verification benchmark
// submissions into convergence figures and reports. It scans a results
// directory laid out as {Group}/{Geometry}-{Motion}-{h}-{p}-{t}.{txt,csv,dat}
// with per-geometry JSON descriptors, integrates every usable series,
// compares the integrals against each group's reference resolution and
// renders per-motion convergence and history figures.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/hfcfd/meshbench/internal/bench"
	"github.com/hfcfd/meshbench/internal/config"
	"github.com/hfcfd/meshbench/internal/convergence"
	"github.com/hfcfd/meshbench/internal/diag"
	"github.com/hfcfd/meshbench/internal/fsutil"
	"github.com/hfcfd/meshbench/internal/report"
	"github.com/hfcfd/meshbench/internal/series"
	"github.com/hfcfd/meshbench/internal/submission"
	"github.com/hfcfd/meshbench/internal/version"
)

// cliConfig holds the parsed command line.
type cliConfig struct {
	ResultsDir  string
	ConfigPath  string
	Groups      string
	Geometries  string
	Motions     string
	Orders      string
	CommonRef   bool
	UniformDT   bool
	TimeOpacity bool
	OutDir      string
	Plots       bool
	HTML        bool
	Quiet       bool
}

func parseFlags() cliConfig {
	cfg := cliConfig{}

	flag.StringVar(&cfg.ResultsDir, "results", "results", "Directory holding the group submissions")
	flag.StringVar(&cfg.ConfigPath, "config", "", "Run configuration file (JSON); defaults built in")
	flag.StringVar(&cfg.Groups, "groups", "", "Comma-separated group list (overrides the run config)")
	flag.StringVar(&cfg.Geometries, "geometries", "", "Comma-separated geometry list (default: all)")
	flag.StringVar(&cfg.Motions, "motions", "", "Comma-separated motion list (default: all per geometry)")
	flag.StringVar(&cfg.Orders, "orders", "", "Comma-separated p-label allow-list (default: all declared)")
	flag.BoolVar(&cfg.CommonRef, "common-ref", false, "Compare every group against the configured shared reference")
	flag.BoolVar(&cfg.UniformDT, "uniform-dt", false, "Require uniform time steps during validation")
	flag.BoolVar(&cfg.TimeOpacity, "time-opacity", false, "Draw coarser time slices with fading opacity")
	flag.StringVar(&cfg.OutDir, "save", "figures", "Output directory for figures and reports")
	flag.BoolVar(&cfg.Plots, "plots", true, "Render the PNG figures")
	flag.BoolVar(&cfg.HTML, "html", false, "Write an interactive HTML report per geometry")
	flag.BoolVar(&cfg.Quiet, "quiet", false, "Suppress per-case diagnostics")

	flag.Parse()

	return cfg
}

func main() {
	cfg := parseFlags()

	if cfg.Quiet {
		diag.SetLogger(nil)
	}

	runCfg := config.Default()
	if cfg.ConfigPath != "" {
		var err error
		runCfg, err = config.Load(cfg.ConfigPath)
		if err != nil {
			log.Fatalf("Failed to load run config: %v", err)
		}
	}

	groups := runCfg.GroupNames()
	if cfg.Groups != "" {
		groups = splitList(cfg.Groups)
	}
	if len(groups) == 0 {
		log.Fatal("No groups selected")
	}

	if _, err := os.Stat(cfg.ResultsDir); err != nil {
		log.Fatalf("Results directory not usable: %v", err)
	}

	ix := bench.DefaultIndex()
	geometries := selectGeometries(cfg.Geometries)
	motions := selectMotions(cfg.Motions)
	orders := selectOrders(cfg.Orders, ix)

	runID := uuid.New().String()
	diag.Logf("meshbench %s run %s: results=%s groups=%s", version.String(), runID, cfg.ResultsDir, strings.Join(groups, ","))

	corpus := submission.NewCorpus(fsutil.OSFileSystem{}, cfg.ResultsDir, ix)
	engine := convergence.NewEngine(corpus, convergence.Options{
		Groups:             groups,
		Colors:             runCfg.Colors(),
		Motions:            motions,
		POrders:            orders,
		UseCommonReference: cfg.CommonRef,
		CommonReference:    runCfg.CommonReference(),
		EnforceUniformStep: cfg.UniformDT,
	})

	renderer := report.NewRenderer(cfg.OutDir, ix)
	renderer.Dashes = runCfg.Dashes()
	renderer.TimeOpacity = cfg.TimeOpacity
	renderer.RunID = runID

	for _, geom := range geometries {
		results, err := engine.RunGeometry(geom)
		if err != nil {
			log.Fatalf("%s: %v", geom, err)
		}

		printSummary(ix, geom, results)

		if cfg.Plots {
			for _, res := range results {
				path, err := renderer.ConvergencePNG(res)
				if err != nil {
					log.Fatalf("Failed to render %s %s convergence: %v", res.Geometry, res.Motion, err)
				}
				diag.Logf("wrote %s", path)

				path, err = renderer.HistoriesPNG(res)
				if err != nil {
					log.Fatalf("Failed to render %s %s histories: %v", res.Geometry, res.Motion, err)
				}
				diag.Logf("wrote %s", path)
			}
		}
		if cfg.HTML {
			path, err := renderer.GeometryHTML(geom, results)
			if err != nil {
				log.Fatalf("Failed to render %s report: %v", geom, err)
			}
			diag.Logf("wrote %s", path)
		}
	}
}

// printSummary writes the per-motion run summary: the reference integrals
// each group was compared against, the integrals of its most refined
// submission next to the participant-declared totals, and the observed
// convergence order of every primary slice.
func printSummary(ix *bench.Index, geom bench.Geometry, results []*convergence.MotionResult) {
	fmt.Printf("\n=== %s ===\n", geom)
	for _, res := range results {
		fmt.Printf("\n--- %s %s ---\n", res.Geometry, res.Motion)
		for _, gm := range res.Groups {
			fmt.Printf("%s:\n", gm.Group)

			if gm.Reference != nil {
				fmt.Printf("  reference %s (tconv %s):%s\n", gm.RefKey, gm.TconvMax, formatIntegrals(gm.Reference))
			} else {
				fmt.Printf("  no usable reference\n")
			}

			if gm.History != nil {
				k := gm.HistoryKey
				fmt.Printf("  history %s-%s-%s (%d samples)\n", k.H, k.P, k.T, gm.History.Len())
				if vals, err := series.Integrate(gm.History, geom); err == nil {
					fmt.Printf("    integrated:%s\n", formatIntegrals(vals))
				}
				if len(gm.Totals) > 0 {
					fmt.Printf("    declared:  %s\n", formatTotals(gm.Totals))
				}
			}

			for _, q := range convergence.TrackedQuantities(geom) {
				for _, s := range convergence.Reduce(ix, res, q, false) {
					if s.Group != gm.Group {
						continue
					}
					if order, ok := convergence.ObservedOrder(s); ok {
						fmt.Printf("  order %s %s: %.2f\n", q, s.P, order)
					}
				}
			}
		}
	}
}

// formatIntegrals renders an integral map in canonical quantity order.
func formatIntegrals(vals map[string]float64) string {
	var b strings.Builder
	for _, q := range []string{series.QuantityYForce, series.QuantityWork, series.QuantityMass} {
		if v, ok := vals[q]; ok {
			fmt.Fprintf(&b, " %s=%.6g", q, v)
		}
	}
	return b.String()
}

// formatTotals renders participant-declared totals, which may carry any
// subset of the quantities.
func formatTotals(totals series.ParticipantIntegrals) string {
	var b strings.Builder
	for _, q := range []string{series.QuantityYForce, series.QuantityWork, series.QuantityMass, series.QuantityMassError} {
		if v, ok := totals[q]; ok {
			fmt.Fprintf(&b, " %s=%.6g", q, v)
		}
	}
	return strings.TrimSpace(b.String())
}

// selectGeometries parses the -geometries list; empty selects every
// benchmark geometry.
func selectGeometries(list string) []bench.Geometry {
	if list == "" {
		return bench.Geometries()
	}
	known := make(map[bench.Geometry]bool)
	for _, g := range bench.Geometries() {
		known[g] = true
	}
	var out []bench.Geometry
	for _, name := range splitList(list) {
		g := bench.Geometry(name)
		if !known[g] {
			log.Fatalf("Unknown geometry %q", name)
		}
		out = append(out, g)
	}
	return out
}

// selectMotions parses the -motions list; empty means every motion the
// geometry defines, decided later per geometry.
func selectMotions(list string) []bench.Motion {
	if list == "" {
		return nil
	}
	known := map[bench.Motion]bool{bench.M1: true, bench.M2: true, bench.M3: true, bench.M4: true}
	var out []bench.Motion
	for _, name := range splitList(list) {
		m := bench.Motion(name)
		if !known[m] {
			log.Fatalf("Unknown motion %q", name)
		}
		out = append(out, m)
	}
	return out
}

// selectOrders parses the -orders allow-list against the canonical p
// sequence.
func selectOrders(list string, ix *bench.Index) []bench.Label {
	if list == "" {
		return nil
	}
	var out []bench.Label
	for _, name := range splitList(list) {
		l := bench.Label(name)
		if !ix.Contains(bench.AxisP, l) {
			log.Fatalf("Unknown p label %q", name)
		}
		out = append(out, l)
	}
	return out
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
