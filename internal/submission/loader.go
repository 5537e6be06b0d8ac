package submission

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hfcfd/meshbench/internal/bench"
	"github.com/hfcfd/meshbench/internal/diag"
)

// LoadStatus classifies the outcome of a Load call.
type LoadStatus int

const (
	// Loaded means the table parsed and is usable.
	Loaded LoadStatus = iota
	// Missing means no file exists for the case. Normal for sparse
	// submissions; callers leave a hole and move on.
	Missing
	// Unparseable means a file exists but no delimiter convention parsed
	// it. Callers treat it exactly like Missing; it is logged distinctly
	// so operators can tell "missing" from "malformed".
	Unparseable
)

// String names the status for diagnostics.
func (s LoadStatus) String() string {
	switch s {
	case Loaded:
		return "loaded"
	case Missing:
		return "missing"
	case Unparseable:
		return "unparseable"
	}
	return "unknown"
}

// Load resolves the case key to a data file and parses it into a 2-D numeric
// table (rows of equal width). The delimiter conventions are tried in order:
// comma, strict single space, then any whitespace, each skipping one header
// row. Absence and parse failure are statuses, not errors: a sweep over a
// sparse corpus hits both routinely and must keep going.
func (c *Corpus) Load(key bench.CaseKey) ([][]float64, LoadStatus) {
	path := ""
	for _, ext := range DataExtensions {
		candidate := filepath.Join(c.Root, key.Group, key.Base()+ext)
		if c.FS.Exists(candidate) {
			path = candidate
			break
		}
	}
	if path == "" {
		diag.Logf("data not found: %s", key)
		return nil, Missing
	}

	data, err := c.FS.ReadFile(path)
	if err != nil {
		diag.Logf("cannot read %s: %v", path, err)
		return nil, Unparseable
	}

	for _, parse := range parseStrategies {
		table, err := parse(data)
		if err == nil {
			return table, Loaded
		}
	}
	diag.Logf("no delimiter convention parses %s", path)
	return nil, Unparseable
}

// Tried in order; the first success wins.
var parseStrategies = []func([]byte) ([][]float64, error){
	parseCommaTable,
	parseSpaceTable,
	parseWhitespaceTable,
}

// dropHeader removes the single header line every convention skips.
func dropHeader(data []byte) []byte {
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return data[i+1:]
	}
	return nil
}

// parseCommaTable parses a comma-delimited table via encoding/csv, which also
// enforces a consistent field count across rows.
func parseCommaTable(data []byte) ([][]float64, error) {
	r := csv.NewReader(bytes.NewReader(dropHeader(data)))
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	return recordsToFloats(records)
}

// parseSpaceTable parses a strictly single-space-delimited table. Runs of
// spaces produce empty tokens and fail the parse, pushing the file to the
// whitespace strategy.
func parseSpaceTable(data []byte) ([][]float64, error) {
	var records [][]string
	for _, line := range strings.Split(string(dropHeader(data)), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		records = append(records, strings.Split(line, " "))
	}
	return recordsToFloats(records)
}

// parseWhitespaceTable splits rows on any run of whitespace, the most
// permissive convention and the last resort.
func parseWhitespaceTable(data []byte) ([][]float64, error) {
	var records [][]string
	for _, line := range strings.Split(string(dropHeader(data)), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		records = append(records, strings.Fields(line))
	}
	return recordsToFloats(records)
}

// recordsToFloats converts string records into a numeric table, requiring at
// least one row, at least one column, a consistent width, and float-parseable
// cells (NaN and Inf included, as the format uses NaN for "not provided").
func recordsToFloats(records [][]string) ([][]float64, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("no data rows")
	}
	width := len(records[0])
	if width == 0 {
		return nil, fmt.Errorf("empty first row")
	}

	table := make([][]float64, len(records))
	for i, rec := range records {
		if len(rec) != width {
			return nil, fmt.Errorf("row %d has %d fields, want %d", i, len(rec), width)
		}
		row := make([]float64, width)
		for j, cell := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d field %d: %w", i, j, err)
			}
			row[j] = v
		}
		table[i] = row
	}
	return table, nil
}
