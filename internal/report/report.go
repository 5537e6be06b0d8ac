// Package report renders the computed convergence tensors and history
// series into figures: tiled PNG figures for the workshop report and a
// self-contained HTML page per geometry for browsing. It consumes only the
// engine's reduction output and makes no analysis decisions of its own.
package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hfcfd/meshbench/internal/bench"
)

// Renderer writes report artifacts for one run.
type Renderer struct {
	// OutDir receives every artifact; it is created on first use.
	OutDir string
	// Dashes selects dashed strokes per group.
	Dashes map[string]bool
	// TimeOpacity draws progressively coarser time slices with fading
	// opacity instead of only the primary slice.
	TimeOpacity bool
	// RunID stamps the HTML pages so outputs from different runs can be
	// told apart.
	RunID string
	Index *bench.Index
}

// NewRenderer returns a renderer writing into outDir.
func NewRenderer(outDir string, ix *bench.Index) *Renderer {
	return &Renderer{OutDir: outDir, Index: ix}
}

func (r *Renderer) ensureOutDir() error {
	if err := os.MkdirAll(r.OutDir, 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	return nil
}

// figurePath names a per-motion PNG artifact, e.g.
// "Cylinder_M1_Convergence.png".
func (r *Renderer) figurePath(geom bench.Geometry, motion bench.Motion, kind string) string {
	return filepath.Join(r.OutDir, fmt.Sprintf("%s_%s_%s.png", geom, motion, kind))
}

// pagePath names the per-geometry HTML report.
func (r *Renderer) pagePath(geom bench.Geometry) string {
	return filepath.Join(r.OutDir, fmt.Sprintf("%s_report.html", geom))
}

func (r *Renderer) dashed(group string) bool {
	if r.Dashes == nil {
		return false
	}
	return r.Dashes[group]
}
