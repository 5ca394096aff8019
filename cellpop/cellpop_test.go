package cellpop

import (
	"math"
	"testing"
)

func TestPercentage(t *testing.T) {
	for _, v := range []struct {
		Count, Total int
		Want         float64
	}{
		{50, 100, 50.00},
		{100, 200, 50.00},
		{20, 100, 20.00},
		{1, 3, 33.33},
		{2, 3, 66.67},
		{0, 100, 0.00},
	} {
		if got := Percentage(v.Count, v.Total); got != v.Want {
			t.Errorf("Percentage(%d, %d) = %v, expected %v", v.Count, v.Total, got, v.Want)
		}
	}
}

func TestPercentageZeroTotal(t *testing.T) {
	// 0/0 is a defined undefined value, not a zero and not a panic
	if got := Percentage(0, 0); !math.IsNaN(got) {
		t.Errorf("Percentage(0, 0) = %v, expected NaN", got)
	}
}

func TestLabels(t *testing.T) {
	if got := CD8TCell.Label(); got != "CD8 T Cell" {
		t.Errorf("CD8TCell label = %q", got)
	}
	if got := Population("platelet").Label(); got != "platelet" {
		t.Errorf("unknown population label = %q, expected passthrough", got)
	}
	if Population("platelet").Valid() {
		t.Error("platelet should not be a valid population")
	}

	if len(All) != 5 {
		t.Fatalf("expected 5 populations, got %d", len(All))
	}
	for _, p := range All {
		if !p.Valid() {
			t.Errorf("%s should be valid", p)
		}
	}
}

func TestResponseLabels(t *testing.T) {
	for _, v := range []struct{ In, Want string }{
		{ResponseYes, "Responder"},
		{ResponseNo, "Non-Responder"},
		{ResponseUnknown, "Unknown"},
		{"maybe", "maybe"},
	} {
		if got := ResponseLabel(v.In); got != v.Want {
			t.Errorf("ResponseLabel(%q) = %q, expected %q", v.In, got, v.Want)
		}
	}

	if ResponseColor(ResponseYes) == ResponseColor(ResponseNo) {
		t.Error("response categories must have distinct colors")
	}
}
