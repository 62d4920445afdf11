package metrics

import (
	"math"
	"testing"
)

func TestProportions(t *testing.T) {
	flow := [][]float64{
		{3, 1, 0, 4},
		{0, 0, 1, 0},
		{0, 2, 2, 2},
	}
	props := Proportions(flow)

	want := [][]float64{{75, 25}, {0, 0}, {0, 100}}
	for i := range want {
		for j := range want[i] {
			if math.Abs(props[i][j]-want[i][j]) > 1e-12 {
				t.Errorf("props[%d][%d] = %f, want %f", i, j, props[i][j], want[i][j])
			}
		}
	}
}

func TestProportionsNonFinite(t *testing.T) {
	flow := [][]float64{{math.Inf(1), 1, 0, math.Inf(1)}}
	props := Proportions(flow)
	if props[0][0] != 0 {
		t.Errorf("expected non-finite proportion to become 0, got %f", props[0][0])
	}
}

func TestProportionsZeroTotal(t *testing.T) {
	flow := [][]float64{{5, -5, 1, 0}}
	props := Proportions(flow)
	if props[0][0] != 0 || props[0][1] != 0 {
		t.Errorf("zero total should give zero proportions, got %v", props[0])
	}
}

func TestMassBalance(t *testing.T) {
	flow := [][]float64{
		{3, 1, 0, 4},
		{0, 2, 1, 2},
	}
	b := MassBalance(flow)
	if b.TotalInput != 6 || b.TotalOutput != 6 {
		t.Fatalf("expected 6 in and out, got %f/%f", b.TotalInput, b.TotalOutput)
	}
	if b.Error != 0 || b.ErrorPercent != 0 {
		t.Errorf("expected no error, got %f (%f%%)", b.Error, b.ErrorPercent)
	}

	flow[1][3] = 1
	b = MassBalance(flow)
	if b.Error != 1 {
		t.Errorf("expected error 1, got %f", b.Error)
	}
	if math.Abs(b.ErrorPercent-100.0/6) > 1e-9 {
		t.Errorf("unexpected error percent %f", b.ErrorPercent)
	}
}

func TestMassBalanceEmpty(t *testing.T) {
	b := MassBalance(nil)
	if b.ErrorPercent != 0 {
		t.Errorf("expected 0%% for empty table, got %f", b.ErrorPercent)
	}
}
