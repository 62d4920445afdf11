package belt

import (
	"math"
	"testing"
)

func TestGrid_Shift(t *testing.T) {
	tests := []struct {
		name  string
		row   []float64
		k     int
		wants []float64
	}{
		{"by one", []float64{1, 2, 3, 4}, 1, []float64{0, 1, 2, 3}},
		{"by two", []float64{1, 2, 3, 4}, 2, []float64{0, 0, 1, 2}},
		{"by width", []float64{1, 2, 3, 4}, 4, []float64{0, 0, 0, 0}},
		{"past width", []float64{1, 2, 3, 4}, 7, []float64{0, 0, 0, 0}},
		{"zero", []float64{1, 2, 3, 4}, 0, []float64{1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGrid(1, len(tt.row))
			for c, v := range tt.row {
				g.Add(0, c, v)
			}
			g.Shift(tt.k)
			for c, want := range tt.wants {
				if got := g.At(0, c); got != want {
					t.Errorf("col %d = %v, want %v", c, got, want)
				}
			}
		})
	}
}

func TestGrid_ShiftKeepsRowsApart(t *testing.T) {
	g := NewGrid(2, 3)
	g.Add(0, 0, 5)
	g.Add(1, 1, 7)
	g.Shift(1)

	if g.At(0, 1) != 5 || g.At(0, 2) != 0 {
		t.Errorf("row 0 = [%v %v %v]", g.At(0, 0), g.At(0, 1), g.At(0, 2))
	}
	if g.At(1, 2) != 7 || g.At(1, 0) != 0 {
		t.Errorf("row 1 = [%v %v %v]", g.At(1, 0), g.At(1, 1), g.At(1, 2))
	}
}

func TestGrid_DischargeIsCopy(t *testing.T) {
	g := NewGrid(2, 2)
	g.Add(0, 1, 3)
	g.Add(1, 1, 4)

	out := g.Discharge(nil)
	if out[0] != 3 || out[1] != 4 {
		t.Fatalf("discharge = %v", out)
	}

	g.Shift(1)
	if out[0] != 3 || out[1] != 4 {
		t.Error("discharge slice aliased grid storage")
	}
}

func TestGrid_MatrixAndClone(t *testing.T) {
	g := NewGrid(2, 3)
	g.Add(1, 2, 9)

	m := g.Matrix()
	c := g.Clone()
	g.Reset()

	if m[1][2] != 9 {
		t.Errorf("matrix lost value: %v", m)
	}
	if c.At(1, 2) != 9 {
		t.Error("clone shares storage")
	}
	if g.Total() != 0 {
		t.Errorf("reset grid total = %v", g.Total())
	}
}

func TestGrid_IsValid(t *testing.T) {
	g := NewGrid(1, 2)
	if !g.IsValid() {
		t.Error("zero grid reported invalid")
	}
	g.Add(0, 1, math.NaN())
	if g.IsValid() {
		t.Error("NaN grid reported valid")
	}
}

func TestChemGrid_ShiftInLockstep(t *testing.T) {
	g := NewGrid(1, 3)
	cg := NewChemGrid(1, 3, 2)

	g.Add(0, 0, 10)
	cg.Add(0, 0, []float64{6, 1})

	for i := 0; i < 2; i++ {
		g.Shift(1)
		cg.Shift(1)
	}

	if g.At(0, 2) != 10 {
		t.Fatalf("mass not at discharge: %v", g.Matrix())
	}
	out := cg.Discharge(nil)
	if out[0] != 6 || out[1] != 1 {
		t.Errorf("chem discharge = %v, want [6 1]", out)
	}

	cg.Shift(1)
	if out := cg.Discharge(nil); out[0] != 0 || out[1] != 0 {
		t.Errorf("chem not dropped off the end: %v", out)
	}
}

func TestChemGrid_Tensor(t *testing.T) {
	cg := NewChemGrid(2, 2, 3)
	cg.Add(1, 0, []float64{1, 2, 3, 99})

	tensor := cg.Tensor()
	if len(tensor) != 2 || len(tensor[1]) != 2 || len(tensor[1][0]) != 3 {
		t.Fatalf("unexpected shape")
	}
	if tensor[1][0][2] != 3 {
		t.Errorf("tensor[1][0] = %v", tensor[1][0])
	}
}
