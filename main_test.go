package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hfcfd/meshbench/internal/bench"
	"github.com/hfcfd/meshbench/internal/series"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"UM,AFRL", []string{"UM", "AFRL"}},
		{" UM , AFRL ", []string{"UM", "AFRL"}},
		{"UM,,AFRL,", []string{"UM", "AFRL"}},
		{"", nil},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, splitList(tt.in)); diff != "" {
			t.Errorf("splitList(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestSelectGeometries(t *testing.T) {
	got := selectGeometries("")
	want := []bench.Geometry{bench.Cylinder, bench.Airfoil}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Default geometry list mismatch (-want +got):\n%s", diff)
	}

	got = selectGeometries("Airfoil")
	if len(got) != 1 || got[0] != bench.Airfoil {
		t.Errorf("Expected [Airfoil], got %v", got)
	}
}

func TestSelectMotions(t *testing.T) {
	if got := selectMotions(""); got != nil {
		t.Errorf("Expected nil for an empty motion list, got %v", got)
	}
	got := selectMotions("M2,M1")
	want := []bench.Motion{bench.M2, bench.M1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Motion list mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectOrders(t *testing.T) {
	ix := bench.DefaultIndex()
	if got := selectOrders("", ix); got != nil {
		t.Errorf("Expected nil for an empty order list, got %v", got)
	}
	got := selectOrders("p3,p1", ix)
	want := []bench.Label{"p3", "p1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Order list mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatIntegrals(t *testing.T) {
	got := formatIntegrals(map[string]float64{
		series.QuantityWork:   2,
		series.QuantityYForce: 1.5,
	})
	want := " Y-Force=1.5 Work=2"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestFormatTotals(t *testing.T) {
	got := formatTotals(series.ParticipantIntegrals{
		series.QuantityMassError: 1e-9,
		series.QuantityYForce:    8.23,
	})
	want := "Y-Force=8.23 Mass error=1e-09"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
