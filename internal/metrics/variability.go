package metrics

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Spread describes how steady one material's share of the blend is.
type Spread struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// Variability computes the spread of each material's proportion over the
// rows where anything was discharged. Materials get a zero Spread when no
// row carried flow.
func Variability(flow, proportions [][]float64) []Spread {
	if len(proportions) == 0 {
		return nil
	}
	n := len(proportions[0])
	series := make([][]float64, n)
	for i, row := range proportions {
		if i >= len(flow) || total(flow[i]) <= 0 {
			continue
		}
		for j := 0; j < n && j < len(row); j++ {
			series[j] = append(series[j], row[j])
		}
	}

	out := make([]Spread, n)
	for j, s := range series {
		if len(s) == 0 {
			continue
		}
		out[j].Mean, out[j].Std = stat.PopMeanStdDev(s, nil)
		out[j].Min = floats.Min(s)
		out[j].Max = floats.Max(s)
	}
	return out
}

// Discharged is the total mass recorded per material.
func Discharged(flow [][]float64) []float64 {
	if len(flow) == 0 || len(flow[0]) < 2 {
		return nil
	}
	n := len(flow[0]) - 2
	out := make([]float64, n)
	for _, row := range flow {
		floats.Add(out, row[:n])
	}
	return out
}
