package chem

import "strconv"

// FlowEpsilon is the total flow below which a time point carries no
// meaningful blend and is left out of a trend.
const FlowEpsilon = 1e-6

// Trend is the blended discharge chemistry over time. Only time points with
// flow are present, so Time may be shorter than the flow table.
type Trend struct {
	Time  []float64 `json:"time_points"`
	Fe    []float64 `json:"fe_trend"`
	SiO2  []float64 `json:"sio2_trend"`
	CaO   []float64 `json:"cao_trend"`
	MgO   []float64 `json:"mgo_trend"`
	Al2O3 []float64 `json:"al2o3_trend"`
	B2    []float64 `json:"basicity_trend"`
	B4    []float64 `json:"b4_trend"`
}

func (t *Trend) Len() int { return len(t.Time) }

// At returns the blended composition at index i.
func (t *Trend) At(i int) Composition {
	return Composition{Fe: t.Fe[i], SiO2: t.SiO2[i], CaO: t.CaO[i], MgO: t.MgO[i], Al2O3: t.Al2O3[i]}
}

func (t *Trend) append(time float64, c Composition) {
	t.Time = append(t.Time, time)
	t.Fe = append(t.Fe, c.Fe)
	t.SiO2 = append(t.SiO2, c.SiO2)
	t.CaO = append(t.CaO, c.CaO)
	t.MgO = append(t.MgO, c.MgO)
	t.Al2O3 = append(t.Al2O3, c.Al2O3)
	t.B2 = append(t.B2, c.BlendB2())
	t.B4 = append(t.B4, c.BlendB4())
}

// Blend weights each material's analysis by its share of total.
func Blend(flows []float64, total float64, materials []string, lib Library) Composition {
	var c Composition
	for i, name := range materials {
		if i >= len(flows) || flows[i] <= 0 {
			continue
		}
		m, ok := lib[name]
		if !ok {
			continue
		}
		c = c.Add(m.Chemistry.Scale(flows[i] / total))
	}
	return c
}

// Trends blends the discharge chemistry of each flow-table row. Rows are laid
// out as [material flows..., time, total]; rows with total <= FlowEpsilon are
// skipped.
func Trends(flow [][]float64, materials []string, lib Library) *Trend {
	tr := &Trend{}
	for _, row := range flow {
		n := len(row)
		if n < 3 {
			continue
		}
		total := row[n-1]
		if total <= FlowEpsilon {
			continue
		}
		tr.append(row[n-2], Blend(row[:n-2], total, materials, lib))
	}
	return tr
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
