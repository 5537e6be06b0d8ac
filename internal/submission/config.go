package submission

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/hfcfd/meshbench/internal/bench"
)

// Sentinel errors. ErrNoDeclaredLabels is the one fatal precondition of a
// run: a submission descriptor that declares no resolutions on a consulted
// axis cannot be indexed, so the whole run aborts rather than limping on.
var (
	ErrNoDeclaredLabels = errors.New("no resolution labels declared for axis")
	ErrEmptyRank        = errors.New("rank of empty label list")
)

// maxConfigBytes caps descriptor reads; a resolution descriptor is a few
// hundred bytes, so anything near the cap is not one.
const maxConfigBytes = 1 << 20

// Config is a group's per-geometry submission descriptor, parsed from
// {Group}/{Geometry}.json. Resolution maps each declared h label to its
// element count and each declared p label to its per-element degrees of
// freedom. Reference carries the group's designated truth resolution per
// motion. A Config is replaced wholesale on reload, never patched.
type Config struct {
	Resolution map[bench.Label]int
	Reference  map[bench.Motion]Reference
}

// Reference is a group's declared truth resolution for one motion, plus the
// time label used for the primary convergence display.
type Reference struct {
	H        bench.Label `json:"h"`
	P        bench.Label `json:"p"`
	T        bench.Label `json:"t"`
	TconvMax bench.Label `json:"tconv_max"`
}

// ConfigPath returns the descriptor path for a (group, geometry) pair.
func ConfigPath(root, group string, geom bench.Geometry) string {
	return filepath.Join(root, group, string(geom)+".json")
}

// parseConfig decodes descriptor JSON. The top level mixes resolution keys
// ("h2": 400) with the "reference" object, so it is decoded in two passes.
func parseConfig(data []byte) (*Config, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse descriptor: %w", err)
	}

	cfg := &Config{
		Resolution: make(map[bench.Label]int),
		Reference:  make(map[bench.Motion]Reference),
	}
	for key, val := range raw {
		if key == "reference" {
			var refs map[bench.Motion]Reference
			if err := json.Unmarshal(val, &refs); err != nil {
				return nil, fmt.Errorf("parse reference block: %w", err)
			}
			cfg.Reference = refs
			continue
		}
		var n int
		if err := json.Unmarshal(val, &n); err != nil {
			return nil, fmt.Errorf("descriptor key %q: expected integer value: %w", key, err)
		}
		if n <= 0 {
			return nil, fmt.Errorf("descriptor key %q: value must be positive, got %d", key, n)
		}
		cfg.Resolution[bench.Label(key)] = n
	}
	return cfg, nil
}

// DeclaredLabels scans the canonical sequence of the axis and returns the
// labels present as keys in the descriptor, preserving sequence order.
// Returns ErrNoDeclaredLabels (wrapped) when the axis has none; for the axes
// the sweep consumes (h and p) that is a malformed submission, not a data
// gap, and aborts the run.
func (c *Config) DeclaredLabels(ix *bench.Index, axis bench.Axis) ([]bench.Label, error) {
	var out []bench.Label
	for _, l := range ix.Labels(axis) {
		if _, ok := c.Resolution[l]; ok {
			out = append(out, l)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w %q", ErrNoDeclaredLabels, axis)
	}
	return out, nil
}

// MaxDeclared returns the most refined declared label on the axis: the last
// canonical label present in the descriptor. Same failure policy as
// DeclaredLabels.
func (c *Config) MaxDeclared(ix *bench.Index, axis bench.Axis) (bench.Label, error) {
	labels, err := c.DeclaredLabels(ix, axis)
	if err != nil {
		return "", err
	}
	return labels[len(labels)-1], nil
}

// Count returns the declared integer for a label (element count for h,
// per-element dof for p).
func (c *Config) Count(l bench.Label) (int, bool) {
	n, ok := c.Resolution[l]
	return n, ok
}

// ReferenceFor returns the group's declared truth resolution for the motion.
func (c *Config) ReferenceFor(m bench.Motion) (Reference, bool) {
	r, ok := c.Reference[m]
	return r, ok
}
