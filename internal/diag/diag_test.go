package diag

import (
	"fmt"
	"testing"
)

func TestSetLogger(t *testing.T) {
	defer SetLogger(nil)

	var got string
	SetLogger(func(format string, v ...interface{}) {
		got = fmt.Sprintf(format, v...)
	})
	Logf("case %s: %d", "Cylinder-M1", 3)
	if got != "case Cylinder-M1: 3" {
		t.Errorf("Logf produced %q", got)
	}

	// nil installs a no-op, not a nil func
	SetLogger(nil)
	Logf("must not panic")
}
