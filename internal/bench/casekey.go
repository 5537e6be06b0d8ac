package bench

import "fmt"

// CaseKey identifies exactly one candidate data file: one group's submission
// at one (h, p, t) resolution of one (geometry, motion) case. Keys are plain
// values; construct and copy freely.
type CaseKey struct {
	Group    string
	Geometry Geometry
	Motion   Motion
	H        Label
	P        Label
	T        Label
}

// String renders the key the way operators see it in diagnostics:
// "UM/Cylinder-M1-h2-p3-t4".
func (k CaseKey) String() string {
	return fmt.Sprintf("%s/%s-%s-%s-%s-%s", k.Group, k.Geometry, k.Motion, k.H, k.P, k.T)
}

// Base returns the file base name for the key, without extension:
// "Cylinder-M1-h2-p3-t4". The on-disk grammar is
// {Geometry}-{Motion}-{h}-{p}-{t}.<ext> inside the group's directory.
func (k CaseKey) Base() string {
	return fmt.Sprintf("%s-%s-%s-%s-%s", k.Geometry, k.Motion, k.H, k.P, k.T)
}
