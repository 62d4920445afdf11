package optim

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/beltsim/internal/belt"
	"github.com/san-kum/beltsim/internal/sim"
)

func base() sim.Parameters {
	return sim.Parameters{
		TotalTime:    40,
		BeltLength:   20,
		Resolution:   1,
		BeltVelocity: 1,
		Materials:    []string{"Ore"},
		Sources: []belt.Source{
			{Material: "Ore", Capacity: 20, FlowRate: 2, BeltColumn: 2},
		},
	}
}

func engine() *sim.Engine {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return sim.New(sim.WithLogger(l))
}

func TestNewGridSearchRejects(t *testing.T) {
	tests := []struct {
		name string
		axes []Axis
	}{
		{"empty", nil},
		{"unknown", []Axis{{Param: "gravity", Values: []float64{1}}}},
		{"duplicate", []Axis{{Param: "resolution", Values: []float64{1}}, {Param: "resolution", Values: []float64{2}}}},
		{"no values", []Axis{{Param: "belt_velocity"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewGridSearch(tt.axes); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestPoints(t *testing.T) {
	g, err := NewGridSearch([]Axis{
		{Param: "belt_velocity", Values: []float64{1, 2}},
		{Param: "flow_scale", Values: []float64{1, 0.5, 2}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if g.Size() != 6 {
		t.Fatalf("size = %d", g.Size())
	}

	b := base()
	values, params := g.Points(b)
	if len(values) != 6 || len(params) != 6 {
		t.Fatalf("got %d points", len(params))
	}
	// last axis varies fastest
	if values[1]["belt_velocity"] != 1 || values[1]["flow_scale"] != 0.5 {
		t.Errorf("point 1 = %v", values[1])
	}
	if params[4].BeltVelocity != 2 || params[4].Sources[0].FlowRate != 1 {
		t.Errorf("point 4 params = %+v", params[4])
	}
	if b.Sources[0].FlowRate != 2 {
		t.Error("base parameters were modified")
	}
}

func TestRun(t *testing.T) {
	g, err := NewGridSearch([]Axis{
		{Param: "belt_velocity", Values: []float64{1, 2}},
		{Param: "resolution", Values: []float64{1, 50}},
	})
	if err != nil {
		t.Fatal(err)
	}

	sw, err := g.Run(context.Background(), engine(), 2, base())
	if err != nil {
		t.Fatal(err)
	}
	if len(sw.Rows) != 4 {
		t.Fatalf("rows = %d", len(sw.Rows))
	}
	for i, r := range sw.Rows {
		invalid := r.Values["resolution"] == 50
		if invalid != (r.Err != "") {
			t.Errorf("row %d: values %v err %q", i, r.Values, r.Err)
		}
		if !invalid && r.MassBalance.TotalOutput == 0 {
			t.Errorf("row %d discharged nothing", i)
		}
	}

	best, v, err := sw.Best("first_arrival", false)
	if err != nil {
		t.Fatal(err)
	}
	if best.Values["belt_velocity"] != 2 {
		t.Errorf("faster belt should arrive first, got %v (%v)", best.Values, v)
	}

	if _, _, err := sw.Best("fe_std", false); err == nil {
		t.Error("expected error for a metric no row reports")
	}

	var buf bytes.Buffer
	if err := sw.WriteTable(&buf, DefaultColumns()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "belt_velocity") || !strings.Contains(out, "invalid:") {
		t.Errorf("table:\n%s", out)
	}
}

func TestRunCancelled(t *testing.T) {
	g, _ := NewGridSearch([]Axis{{Param: "belt_velocity", Values: []float64{1, 2}}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := g.Run(ctx, engine(), 1, base()); err == nil {
		t.Error("expected error from cancelled context")
	}
}

func TestLoadSpec(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sweep.yaml")
	data := "axes:\n  - param: belt_velocity\n    values: [1, 1.5, 2]\nobjective: peak_flow\nmaximize: true\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := LoadSpec(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Axes) != 1 || len(s.Axes[0].Values) != 3 || !s.Maximize || s.Objective != "peak_flow" {
		t.Errorf("spec = %+v", s)
	}
	if len(s.Columns) == 0 {
		t.Error("default columns not applied")
	}

	bad := filepath.Join(dir, "bad.yaml")
	os.WriteFile(bad, []byte("axis: []\n"), 0644)
	if _, err := LoadSpec(bad); err == nil {
		t.Error("unknown key accepted")
	}
}

func TestParseValues(t *testing.T) {
	v, err := ParseValues("1, 2.5,,4")
	if err != nil {
		t.Fatal(err)
	}
	if len(v) != 3 || v[1] != 2.5 {
		t.Errorf("values = %v", v)
	}
	if _, err := ParseValues("1,x"); err == nil {
		t.Error("expected parse error")
	}
}
