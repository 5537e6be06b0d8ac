// Package config loads the run configuration: the participating groups with
// their display styles, and the per-motion designation of a common reference
// group. Everything is optional; omitted fields fall back to the workshop
// defaults so a bare invocation still produces a full report.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hfcfd/meshbench/internal/bench"
)

// GroupStyle names one participating group and how to draw it.
type GroupStyle struct {
	Name string `json:"name"`
	// Color is a hex color like "#1f77b4". Groups without a color are
	// assigned one from the fallback palette in declaration order.
	Color  string `json:"color,omitempty"`
	Dashed *bool  `json:"dashed,omitempty"`
}

// RunConfig is the root run configuration. Fields omitted from the JSON
// file retain their defaults, so partial configs are safe.
type RunConfig struct {
	Groups []GroupStyle `json:"groups,omitempty"`
	// ReferenceGroups maps a motion to the group whose declared reference
	// serves as the common truth for that motion.
	ReferenceGroups map[bench.Motion]string `json:"reference_groups,omitempty"`
}

func ptrBool(v bool) *bool { return &v }

// Workshop defaults, matching the historically submitted groups.
var defaultGroups = []GroupStyle{
	{Name: "UM", Color: "#bfbf00", Dashed: ptrBool(true)},
	{Name: "AFRL", Color: "#0000ff", Dashed: ptrBool(true)},
}

// fallbackPalette colors groups that declare none, cycling in order.
var fallbackPalette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// Default returns the configuration used when no file is given.
func Default() *RunConfig {
	groups := make([]GroupStyle, len(defaultGroups))
	copy(groups, defaultGroups)
	return &RunConfig{Groups: groups}
}

// Load reads a RunConfig from a JSON file. The file must have a .json
// extension and stay under the max file size.
func Load(path string) (*RunConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration values are usable.
func (c *RunConfig) Validate() error {
	seen := make(map[string]bool, len(c.Groups))
	for i, g := range c.Groups {
		if g.Name == "" {
			return fmt.Errorf("groups[%d] has no name", i)
		}
		if seen[g.Name] {
			return fmt.Errorf("group %q declared twice", g.Name)
		}
		seen[g.Name] = true
		if g.Color != "" && !validHexColor(g.Color) {
			return fmt.Errorf("group %q has invalid color %q", g.Name, g.Color)
		}
	}
	for motion, group := range c.ReferenceGroups {
		if group == "" {
			return fmt.Errorf("reference_groups[%s] names no group", motion)
		}
	}
	return nil
}

// GroupNames returns the configured group names in declaration order.
func (c *RunConfig) GroupNames() []string {
	out := make([]string, len(c.Groups))
	for i, g := range c.Groups {
		out[i] = g.Name
	}
	return out
}

// Colors returns each group's display color, filling gaps from the
// fallback palette.
func (c *RunConfig) Colors() map[string]string {
	out := make(map[string]string, len(c.Groups))
	next := 0
	for _, g := range c.Groups {
		color := g.Color
		if color == "" {
			color = fallbackPalette[next%len(fallbackPalette)]
			next++
		}
		out[g.Name] = color
	}
	return out
}

// Dashes reports whether each group draws with a dashed line. Groups that
// do not say are dashed, matching the workshop's historical style.
func (c *RunConfig) Dashes() map[string]bool {
	out := make(map[string]bool, len(c.Groups))
	for _, g := range c.Groups {
		if g.Dashed == nil {
			out[g.Name] = true
			continue
		}
		out[g.Name] = *g.Dashed
	}
	return out
}

// CommonReference returns the motion-to-group reference designations, nil
// when none are configured.
func (c *RunConfig) CommonReference() map[bench.Motion]string {
	if len(c.ReferenceGroups) == 0 {
		return nil
	}
	out := make(map[bench.Motion]string, len(c.ReferenceGroups))
	for m, g := range c.ReferenceGroups {
		out[m] = g
	}
	return out
}

func validHexColor(s string) bool {
	if len(s) != 4 && len(s) != 7 {
		return false
	}
	if s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
