package analysis

import (
	"math"
	"testing"

	"github.com/san-kum/beltsim/internal/belt"
	"github.com/san-kum/beltsim/internal/sim"
)

func TestDominantPeriod(t *testing.T) {
	const dt = 0.5
	series := make([]float64, 64)
	for i := range series {
		series[i] = 10 + 3*math.Sin(2*math.Pi*float64(i)*dt/8)
	}

	spec := DischargeSpectrum(series, dt)
	period, ok := spec.DominantPeriod()
	if !ok {
		t.Fatal("expected a dominant period")
	}
	if math.Abs(period-8) > 1e-9 {
		t.Errorf("expected period 8, got %f", period)
	}
}

func TestSteadyFlowHasNoPeriod(t *testing.T) {
	series := make([]float64, 32)
	for i := range series {
		series[i] = 5
	}
	if _, ok := DischargeSpectrum(series, 1).DominantPeriod(); ok {
		t.Error("constant flow should have no dominant period")
	}
}

func TestShortSeries(t *testing.T) {
	spec := DischargeSpectrum([]float64{1, 2}, 1)
	if len(spec.Frequencies) != 0 {
		t.Error("expected empty spectrum")
	}
	if _, ok := spec.DominantPeriod(); ok {
		t.Error("empty spectrum has no period")
	}
}

func TestTransits(t *testing.T) {
	p := sim.Parameters{
		TotalTime:    20,
		BeltLength:   10,
		Resolution:   1,
		BeltVelocity: 1,
		Materials:    []string{"Ore", "Coke"},
		Sources: []belt.Source{
			{Capacity: 50, FlowRate: 10, BeltColumn: 0},
			{Capacity: 5, FlowRate: 1, MaterialRow: 1, BeltColumn: 6, StartTime: 18},
		},
	}
	tr := Transits(p)
	if len(tr) != 2 {
		t.Fatalf("expected 2 transits, got %d", len(tr))
	}
	if tr[0].TravelTime != 9 || tr[0].FirstArrival != 9 || tr[0].LastArrival != 14 {
		t.Errorf("unexpected transit %+v", tr[0])
	}
	if !tr[0].Arrives || tr[0].Material != "Ore" {
		t.Errorf("unexpected transit %+v", tr[0])
	}
	if tr[1].Arrives {
		t.Errorf("late source should not arrive: %+v", tr[1])
	}
}
