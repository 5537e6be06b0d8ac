// Package convergence implements the aggregation engine. For each geometry
// and motion it resolves a truth resolution per group, integrates the truth
// series, then sweeps every declared (h, p) pair and every submitted time
// variant, populating error tensors against the reference values. Per-case
// failures are contained here as logged holes in the tensors; the only
// fatal condition is a descriptor that declares no labels on a whole axis.
package convergence

import (
	"errors"
	"fmt"
	"math"

	"github.com/hfcfd/meshbench/internal/bench"
	"github.com/hfcfd/meshbench/internal/diag"
	"github.com/hfcfd/meshbench/internal/series"
	"github.com/hfcfd/meshbench/internal/submission"
)

// InitialForce is the fourth tracked quantity: the magnitude of the first
// y-force sample. It is a startup-transient diagnostic, not an error
// against the reference.
const InitialForce = "Initial Y-Force"

// degenerateTol marks a cell as indistinguishable from the reference. Below
// it the comparison is almost certainly the reference against itself and
// the cell is left undefined instead of reporting a spurious exact match.
const degenerateTol = 1e-10

// TrackedQuantities returns the tensor keys for a geometry in presentation
// order.
func TrackedQuantities(geom bench.Geometry) []string {
	q := []string{series.QuantityYForce, series.QuantityWork}
	if bench.HasMass(geom) {
		q = append(q, series.QuantityMass)
	}
	return append(q, InitialForce)
}

// Options select what the engine processes and how.
type Options struct {
	// Groups lists participating groups in presentation order.
	Groups []string
	// Colors maps a group to its display color.
	Colors map[string]string
	// Motions restricts processing to these motions; empty means every
	// motion the geometry defines.
	Motions []bench.Motion
	// POrders restricts the sweep to these p labels; empty means every
	// declared label.
	POrders []bench.Label
	// UseCommonReference compares every group against the reference
	// designated in CommonReference instead of each group's own.
	UseCommonReference bool
	// CommonReference maps a motion to the group whose declared reference
	// serves as the shared truth for that motion.
	CommonReference map[bench.Motion]string
	// EnforceUniformStep requires uniform time steps during validation.
	EnforceUniformStep bool
}

// Engine drives the sweep over one corpus.
type Engine struct {
	corpus *submission.Corpus
	ix     *bench.Index
	opts   Options
}

// NewEngine returns an engine over the corpus.
func NewEngine(corpus *submission.Corpus, opts Options) *Engine {
	return &Engine{corpus: corpus, ix: corpus.Index, opts: opts}
}

// GroupRecord is one group's state for a single geometry pass: display
// color, parsed descriptor, declared axis labels and degrees of freedom.
// Records are built fresh for every geometry so nothing leaks between
// passes.
type GroupRecord struct {
	Group   string
	Color   string
	Config  *submission.Config
	HLabels []bench.Label
	PLabels []bench.Label
	// HMax and PMax are the most refined declared labels, used for the
	// history series. PMax ignores the POrders restriction.
	HMax bench.Label
	PMax bench.Label
	DOF  *DOFGrid
}

// GroupMotion is one group's computed output for a single (geometry,
// motion) pair.
type GroupMotion struct {
	*GroupRecord
	// Errors maps a tracked quantity to its tensor. Tensors exist even
	// when no cell could be populated.
	Errors map[string]*Tensor
	// Reference holds the integrated truth values this group was compared
	// against; nil when no usable reference existed.
	Reference map[string]float64
	RefKey    bench.CaseKey
	// TconvMax is the time label of the primary convergence slice.
	TconvMax bench.Label
	// History is the series at the group's most refined submission, kept
	// even when it failed validation; nil when nothing loaded.
	History    *series.TimeSeries
	HistoryKey bench.CaseKey
	// Totals are participant-declared integrals from the history file.
	Totals series.ParticipantIntegrals
}

// MotionResult is everything the presentation layer consumes for one
// (geometry, motion) pair.
type MotionResult struct {
	Geometry bench.Geometry
	Motion   bench.Motion
	Groups   []*GroupMotion
}

// RunGeometry processes every requested motion of the geometry for every
// group. A group whose descriptor is missing or unreadable is skipped with
// a diagnostic; a descriptor that declares no labels on an axis aborts the
// run, because all downstream indexing depends on the declarations.
func (e *Engine) RunGeometry(geom bench.Geometry) ([]*MotionResult, error) {
	var records []*GroupRecord
	byName := make(map[string]*GroupRecord)
	for _, group := range e.opts.Groups {
		rec, err := e.buildRecord(group, geom)
		if err != nil {
			if errors.Is(err, submission.ErrNoDeclaredLabels) {
				return nil, fmt.Errorf("%s/%s: %w", group, geom, err)
			}
			diag.Logf("convergence: skipping %s for %s: %v", group, geom, err)
			continue
		}
		records = append(records, rec)
		byName[group] = rec
	}

	var results []*MotionResult
	for _, motion := range e.motions(geom) {
		res := &MotionResult{Geometry: geom, Motion: motion}
		for _, rec := range records {
			res.Groups = append(res.Groups, e.runMotion(rec, byName, geom, motion))
		}
		results = append(results, res)
	}
	return results, nil
}

// buildRecord loads and checks the group's descriptor and derives the
// declared label sets and degrees of freedom.
func (e *Engine) buildRecord(group string, geom bench.Geometry) (*GroupRecord, error) {
	cfg, err := e.corpus.LoadConfig(group, geom)
	if err != nil {
		return nil, err
	}

	hs, err := cfg.DeclaredLabels(e.ix, bench.AxisH)
	if err != nil {
		return nil, err
	}
	ps, err := cfg.DeclaredLabels(e.ix, bench.AxisP)
	if err != nil {
		return nil, err
	}

	rec := &GroupRecord{
		Group:   group,
		Color:   e.opts.Colors[group],
		Config:  cfg,
		HLabels: hs,
		PLabels: e.allowedOrders(ps),
		HMax:    hs[len(hs)-1],
		PMax:    ps[len(ps)-1],
		DOF:     NewDOFGrid(e.ix),
	}
	for _, h := range hs {
		elems, _ := cfg.Count(h)
		ih, _ := e.ix.Ordinal(bench.AxisH, h)
		for _, p := range ps {
			per, _ := cfg.Count(p)
			ip, _ := e.ix.Ordinal(bench.AxisP, p)
			rec.DOF.Set(ih, ip, float64(elems*per))
		}
	}
	return rec, nil
}

// allowedOrders filters declared p labels against the run's allow-list.
func (e *Engine) allowedOrders(declared []bench.Label) []bench.Label {
	if len(e.opts.POrders) == 0 {
		return declared
	}
	allow := make(map[bench.Label]bool, len(e.opts.POrders))
	for _, p := range e.opts.POrders {
		allow[p] = true
	}
	var out []bench.Label
	for _, p := range declared {
		if allow[p] {
			out = append(out, p)
		}
	}
	return out
}

// motions returns the requested motions the geometry actually defines.
func (e *Engine) motions(geom bench.Geometry) []bench.Motion {
	defined := bench.Motions(geom)
	if len(e.opts.Motions) == 0 {
		return defined
	}
	want := make(map[bench.Motion]bool, len(e.opts.Motions))
	for _, m := range e.opts.Motions {
		want[m] = true
	}
	var out []bench.Motion
	for _, m := range defined {
		if want[m] {
			out = append(out, m)
		}
	}
	return out
}

func (e *Engine) runMotion(rec *GroupRecord, byName map[string]*GroupRecord, geom bench.Geometry, motion bench.Motion) *GroupMotion {
	gm := &GroupMotion{GroupRecord: rec}
	gm.Errors = make(map[string]*Tensor)
	for _, q := range TrackedQuantities(geom) {
		gm.Errors[q] = NewTensor(e.ix)
	}

	key, tconv, ok := e.resolveReference(rec, byName, geom, motion)
	gm.TconvMax = tconv
	if ok {
		gm.RefKey = key
		if ref := e.loadReference(key, geom, motion); ref != nil {
			// The analytic value is exact where it exists; the
			// data-derived one carries discretization error.
			if analytic, has := bench.AnalyticMassIntegral(geom, motion); has {
				ref[series.QuantityMass] = analytic
			}
			gm.Reference = ref
			e.sweep(gm, geom, motion, ref)
		}
	} else {
		diag.Logf("convergence: %s: no reference declared for %s %s", rec.Group, geom, motion)
	}

	e.loadHistory(gm, geom, motion)
	return gm
}

// resolveReference picks the truth resolution for the group and motion, and
// the time label of the group's primary convergence slice. Under the common
// reference policy the designated group's declaration locates the truth
// series for everyone; each group still displays at its own tconv_max when
// it declares one.
func (e *Engine) resolveReference(rec *GroupRecord, byName map[string]*GroupRecord, geom bench.Geometry, motion bench.Motion) (bench.CaseKey, bench.Label, bool) {
	refGroup := rec.Group
	refCfg := rec.Config
	if e.opts.UseCommonReference {
		if name, ok := e.opts.CommonReference[motion]; ok {
			if other, ok := byName[name]; ok {
				refGroup, refCfg = other.Group, other.Config
			} else {
				diag.Logf("convergence: common reference group %s unavailable for %s %s, using own", name, geom, motion)
			}
		}
	}

	var tconv bench.Label
	if own, ok := rec.Config.ReferenceFor(motion); ok {
		tconv = own.TconvMax
	}

	ref, ok := refCfg.ReferenceFor(motion)
	if !ok {
		if tconv == "" {
			tconv = e.corpus.MaxSubmittedTime(rec.Group, geom, motion)
		}
		return bench.CaseKey{}, tconv, false
	}
	if tconv == "" {
		tconv = ref.TconvMax
	}
	if tconv == "" {
		tconv = e.corpus.MaxSubmittedTime(rec.Group, geom, motion)
		diag.Logf("convergence: %s declares no tconv_max for %s %s, using %s", rec.Group, geom, motion, tconv)
	}

	key := bench.CaseKey{
		Group:    refGroup,
		Geometry: geom,
		Motion:   motion,
		H:        ref.H,
		P:        ref.P,
		T:        ref.T,
	}
	return key, tconv, true
}

// loadReference loads, validates and integrates the truth series. Any
// failure is logged and yields nil; the group's tensors then stay undefined
// for the motion.
func (e *Engine) loadReference(key bench.CaseKey, geom bench.Geometry, motion bench.Motion) map[string]float64 {
	table, status := e.corpus.Load(key)
	if status != submission.Loaded {
		diag.Logf("convergence: reference %s: %s", key, status)
		return nil
	}
	ts, _, skip := series.Process(geom, motion, table, e.processOptions())
	if skip {
		diag.Logf("convergence: reference %s failed validation", key)
		return nil
	}
	ref, err := series.Integrate(ts, geom)
	if err != nil {
		diag.Logf("convergence: reference %s: %v", key, err)
		return nil
	}
	return ref
}

// sweep visits every declared (h, p) pair and every submitted time variant,
// populating the error tensors. Absent files and parse failures were
// already logged by the loader and simply leave cells undefined.
func (e *Engine) sweep(gm *GroupMotion, geom bench.Geometry, motion bench.Motion, ref map[string]float64) {
	for _, h := range gm.HLabels {
		ih, _ := e.ix.Ordinal(bench.AxisH, h)
		for _, p := range gm.PLabels {
			ip, _ := e.ix.Ordinal(bench.AxisP, p)
			for _, t := range e.corpus.TimeVariants(gm.Group, geom, motion, h, p) {
				it, _ := e.ix.Ordinal(bench.AxisT, t)
				key := bench.CaseKey{Group: gm.Group, Geometry: geom, Motion: motion, H: h, P: p, T: t}

				table, status := e.corpus.Load(key)
				if status != submission.Loaded {
					continue
				}
				ts, _, skip := series.Process(geom, motion, table, e.processOptions())
				if skip {
					continue
				}
				vals, err := series.Integrate(ts, geom)
				if err != nil {
					diag.Logf("convergence: %s: %v", key, err)
					continue
				}

				errY := math.Abs(vals[series.QuantityYForce] - ref[series.QuantityYForce])
				if errY < degenerateTol {
					// Indistinguishable from the reference; leave the
					// whole cell undefined.
					continue
				}
				gm.Errors[series.QuantityYForce].Set(ih, ip, it, errY)
				gm.Errors[series.QuantityWork].Set(ih, ip, it, math.Abs(vals[series.QuantityWork]-ref[series.QuantityWork]))
				if bench.HasMass(geom) {
					gm.Errors[series.QuantityMass].Set(ih, ip, it, math.Abs(vals[series.QuantityMass]-ref[series.QuantityMass]))
				}
				gm.Errors[InitialForce].Set(ih, ip, it, ts.StartupForce())
			}
		}
	}
}

// loadHistory loads the group's most refined submission for display: most
// refined declared h and p, most refined submitted time label. The series
// is kept even when validation fails, since history plots show the raw
// submission.
func (e *Engine) loadHistory(gm *GroupMotion, geom bench.Geometry, motion bench.Motion) {
	t := e.corpus.MaxSubmittedTime(gm.Group, geom, motion)
	key := bench.CaseKey{Group: gm.Group, Geometry: geom, Motion: motion, H: gm.HMax, P: gm.PMax, T: t}

	table, status := e.corpus.Load(key)
	if status != submission.Loaded {
		return
	}
	ts, totals, skip := series.Process(geom, motion, table, e.processOptions())
	if skip {
		diag.Logf("convergence: history %s failed validation, showing anyway", key)
	}
	gm.History, gm.HistoryKey, gm.Totals = ts, key, totals
}

func (e *Engine) processOptions() series.Options {
	return series.Options{EnforceUniformStep: e.opts.EnforceUniformStep}
}
