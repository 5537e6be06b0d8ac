// Command gen-submission writes a synthetic benchmark submission for demos
// and manual testing: the per-geometry JSON descriptor plus data files
// across a small resolution grid. Each series deviates from the smooth base
// solution by an amount that shrinks with resolution, so a generated corpus
// produces real convergence curves.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"path/filepath"
	"strings"

	"github.com/hfcfd/meshbench/internal/bench"
	"github.com/hfcfd/meshbench/internal/fsutil"
)

var (
	hLevels = []bench.Label{"h0", "h2", "h4"}
	pLevels = []bench.Label{"p1", "p3"}
	tLevels = []bench.Label{"t2", "t4"}

	hElems = map[bench.Label]int{"h0": 300, "h2": 1200, "h4": 4800}
	pDOF   = map[bench.Label]int{"p1": 8, "p3": 27}
	// Coarser time integration doubles the deviation amplitude.
	tScale = map[bench.Label]float64{"t2": 2, "t4": 1}
)

func main() {
	outDir := flag.String("o", "results", "results directory to write into")
	group := flag.String("group", "UM", "group name")
	geometry := flag.String("geometry", "Cylinder", "benchmark geometry")
	samples := flag.Int("n", 201, "samples per series")
	flag.Parse()

	geom := bench.Geometry(*geometry)
	motions := bench.Motions(geom)
	if len(motions) == 0 {
		log.Fatalf("unknown geometry %q", *geometry)
	}
	if *samples < 5 {
		log.Fatalf("need at least 5 samples, got %d", *samples)
	}

	fsys := fsutil.OSFileSystem{}
	dir := filepath.Join(*outDir, *group)
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		log.Fatalf("failed to create %s: %v", dir, err)
	}

	if err := writeDescriptor(fsys, dir, geom, motions); err != nil {
		log.Fatalf("failed to write descriptor: %v", err)
	}

	written := 0
	for _, m := range motions {
		for _, h := range hLevels {
			for _, p := range pLevels {
				for _, tl := range tLevels {
					name := fmt.Sprintf("%s-%s-%s-%s-%s.csv", geom, m, h, p, tl)
					data := renderSeries(geom, m, h, p, tl, *samples)
					if err := fsys.WriteFile(filepath.Join(dir, name), []byte(data), 0644); err != nil {
						log.Fatalf("failed to write %s: %v", name, err)
					}
					written++
				}
			}
		}
		log.Printf("%s %s: %d files", geom, m, len(hLevels)*len(pLevels)*len(tLevels))
	}
	log.Printf("✓ Created %d case files under %s", written, dir)
}

// writeDescriptor emits {dir}/{Geometry}.json declaring the generated grid
// and pointing every motion's reference at the finest case.
func writeDescriptor(fsys fsutil.FileSystem, dir string, geom bench.Geometry, motions []bench.Motion) error {
	doc := make(map[string]interface{})
	for _, h := range hLevels {
		doc[string(h)] = hElems[h]
	}
	for _, p := range pLevels {
		doc[string(p)] = pDOF[p]
	}

	refH := hLevels[len(hLevels)-1]
	refP := pLevels[len(pLevels)-1]
	refT := tLevels[len(tLevels)-1]
	refs := make(map[string]interface{}, len(motions))
	for _, m := range motions {
		refs[string(m)] = map[string]string{
			"h":         string(refH),
			"p":         string(refP),
			"t":         string(refT),
			"tconv_max": string(refT),
		}
	}
	doc["reference"] = refs

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(dir, fmt.Sprintf("%s.json", geom))
	return fsys.WriteFile(path, append(data, '\n'), 0644)
}

// renderSeries produces one data file: header row, n sample rows, then the
// participant-totals row marked by a non-finite time. Totals are trapezoid
// sums of the written samples.
func renderSeries(geom bench.Geometry, m bench.Motion, h, p, tl bench.Label, n int) string {
	tEnd, _ := bench.TerminalTime(geom, m)
	dof := float64(hElems[h] * pDOF[p])
	amp := tScale[tl] * 20 / dof
	mass, hasMass := bench.ConservedMass(geom)

	var b strings.Builder
	if hasMass {
		b.WriteString("time,y_force,work_integrand,mass,mass_error\n")
	} else {
		b.WriteString("time,y_force,work_integrand\n")
	}

	var sumY, sumW, sumM float64
	var prevT, prevY, prevW, prevM float64
	for i := 0; i < n; i++ {
		t := tEnd * float64(i) / float64(n-1)
		phase := 2 * math.Pi * t / tEnd
		y := 2 + 0.3*math.Sin(phase) + amp*math.Cos(phase)
		w := 0.5*math.Cos(phase) + amp*math.Sin(phase)

		if hasMass {
			mv := mass + amp*0.01*math.Sin(phase)
			me := math.Abs(mv - mass)
			fmt.Fprintf(&b, "%.8g,%.8g,%.8g,%.8g,%.8g\n", t, y, w, mv, me)
			if i > 0 {
				sumM += 0.5 * (mv + prevM) * (t - prevT)
			}
			prevM = mv
		} else {
			fmt.Fprintf(&b, "%.8g,%.8g,%.8g\n", t, y, w)
		}

		if i > 0 {
			sumY += 0.5 * (y + prevY) * (t - prevT)
			sumW += 0.5 * (w + prevW) * (t - prevT)
		}
		prevT, prevY, prevW = t, y, w
	}

	if hasMass {
		fmt.Fprintf(&b, "nan,%.8g,%.8g,%.8g,nan\n", sumY, sumW, sumM)
	} else {
		fmt.Fprintf(&b, "nan,%.8g,%.8g\n", sumY, sumW)
	}
	return b.String()
}
