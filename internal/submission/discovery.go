// Package submission reads one group's corner of the results corpus: the
// per-geometry resolution descriptor, the set of data files the group
// actually submitted, and the files' numeric contents. Submissions are
// sparse by design, so "file not there" is an answer here, not an error.
package submission

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hfcfd/meshbench/internal/bench"
	"github.com/hfcfd/meshbench/internal/diag"
	"github.com/hfcfd/meshbench/internal/fsutil"
)

// DataExtensions are the recognised data-file extensions, in the order the
// loader tries them.
var DataExtensions = []string{".txt", ".csv", ".dat"}

// Corpus provides discovery and loading over a results directory tree laid
// out as {Root}/{Group}/{Geometry}-{Motion}-{h}-{p}-{t}.<ext>. Directory
// listings are read fresh per query; the corpus is assumed static for the
// duration of a run.
type Corpus struct {
	FS    fsutil.FileSystem
	Root  string
	Index *bench.Index
}

// NewCorpus returns a Corpus over the given results root.
func NewCorpus(fsys fsutil.FileSystem, root string, ix *bench.Index) *Corpus {
	return &Corpus{FS: fsys, Root: root, Index: ix}
}

// LoadConfig reads and parses a group's descriptor for the geometry. A
// missing or unreadable descriptor is reported as an error so the caller can
// skip the group for this geometry; it is never fatal to the run.
func (c *Corpus) LoadConfig(group string, geom bench.Geometry) (*Config, error) {
	path := ConfigPath(c.Root, group, geom)
	info, err := c.FS.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat descriptor: %w", err)
	}
	if info.Size() > maxConfigBytes {
		return nil, fmt.Errorf("descriptor too large: %d bytes", info.Size())
	}
	data, err := c.FS.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read descriptor: %w", err)
	}
	cfg, err := parseConfig(data)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// caseFileName is one decomposed data-file name.
type caseFileName struct {
	geom   bench.Geometry
	motion bench.Motion
	h      bench.Label
	p      bench.Label
	t      bench.Label
}

// parseCaseFileName decomposes a file name against the naming grammar
// {Geometry}-{Motion}-{h}-{p}-{t}.<ext>. Decomposition is exact and
// token-delimited, so "M1" never matches inside "M10" and stray files in a
// submission directory are simply not case files.
func parseCaseFileName(name string, ix *bench.Index) (caseFileName, bool) {
	ext := filepath.Ext(name)
	recognised := false
	for _, e := range DataExtensions {
		if ext == e {
			recognised = true
			break
		}
	}
	if !recognised {
		return caseFileName{}, false
	}

	parts := strings.Split(strings.TrimSuffix(name, ext), "-")
	if len(parts) != 5 {
		return caseFileName{}, false
	}
	fn := caseFileName{
		geom:   bench.Geometry(parts[0]),
		motion: bench.Motion(parts[1]),
		h:      bench.Label(parts[2]),
		p:      bench.Label(parts[3]),
		t:      bench.Label(parts[4]),
	}
	if !ix.Contains(bench.AxisH, fn.h) || !ix.Contains(bench.AxisP, fn.p) || !ix.Contains(bench.AxisT, fn.t) {
		return caseFileName{}, false
	}
	return fn, true
}

// listCaseFiles decomposes every recognisable data file in the group's
// directory. A missing or unreadable directory yields nothing; the caller
// decides whether that is worth a diagnostic.
func (c *Corpus) listCaseFiles(group string) []caseFileName {
	entries, err := c.FS.ReadDir(filepath.Join(c.Root, group))
	if err != nil {
		diag.Logf("submission: cannot list %s: %v", group, err)
		return nil
	}
	var out []caseFileName
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if fn, ok := parseCaseFileName(e.Name(), c.Index); ok {
			out = append(out, fn)
		}
	}
	return out
}

// TimeVariants returns every time label the group submitted for the exact
// (geometry, motion, h, p) combination, in canonical order. An empty result
// is the normal outcome of a sparse submission, not an error.
func (c *Corpus) TimeVariants(group string, geom bench.Geometry, motion bench.Motion, h, p bench.Label) []bench.Label {
	present := make(map[bench.Label]bool)
	for _, fn := range c.listCaseFiles(group) {
		if fn.geom == geom && fn.motion == motion && fn.h == h && fn.p == p {
			present[fn.t] = true
		}
	}
	var out []bench.Label
	for _, t := range c.Index.Labels(bench.AxisT) {
		if present[t] {
			out = append(out, t)
		}
	}
	return out
}

// MaxSubmittedTime returns the most refined time label the group submitted
// for the (geometry, motion) pair across any h/p, or the coarsest canonical
// label when nothing matches.
func (c *Corpus) MaxSubmittedTime(group string, geom bench.Geometry, motion bench.Motion) bench.Label {
	maxT := c.Index.Coarsest(bench.AxisT)
	for _, fn := range c.listCaseFiles(group) {
		if fn.geom == geom && fn.motion == motion && c.Index.MoreRefined(bench.AxisT, fn.t, maxT) {
			maxT = fn.t
		}
	}
	return maxT
}

// RankWithin returns the label from labels with the highest ordinal in the
// reference sequence, along with that ordinal. Calling it with no rankable
// labels is a caller error, reported as ErrEmptyRank.
func RankWithin(labels []bench.Label, seq []bench.Label) (bench.Label, int, error) {
	pos := make(map[bench.Label]int, len(seq))
	for i, l := range seq {
		pos[l] = i
	}

	best := -1
	var bestLabel bench.Label
	for _, l := range labels {
		if i, ok := pos[l]; ok && i > best {
			best = i
			bestLabel = l
		}
	}
	if best < 0 {
		return "", 0, ErrEmptyRank
	}
	return bestLabel, best, nil
}
