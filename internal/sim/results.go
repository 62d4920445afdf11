package sim

import (
	"fmt"

	"github.com/san-kum/beltsim/internal/chem"
	"github.com/san-kum/beltsim/internal/metrics"
)

type Metadata struct {
	Steps            int                `json:"steps"`
	Dt               float64            `json:"dt"`
	CellsPerStep     int                `json:"cells_per_step"`
	Columns          int                `json:"columns"`
	FinalTime        float64            `json:"final_time"`
	MassBalance      metrics.Balance    `json:"mass_balance"`
	Metrics          map[string]float64 `json:"metrics"`
	Variability      []metrics.Spread   `json:"proportion_variability"`
	Warnings         []string           `json:"warnings,omitempty"`
	ChemistryTracked bool               `json:"chemistry_tracked"`
}

// Results is the complete output of one run. Callers own it; nothing in this
// package keeps a reference after Run returns.
type Results struct {
	Parameters  Parameters  `json:"parameters"`
	Flow        [][]float64 `json:"flow_data"`
	Proportions [][]float64 `json:"proportions"`
	FinalGrid   [][]float64 `json:"final_grid"`
	Metadata    Metadata    `json:"metadata"`

	ChemistryTrend *chem.Trend   `json:"chemistry_trend,omitempty"`
	ChemistryGrid  [][][]float64 `json:"chemistry_grid,omitempty"`
	Quality        *chem.Quality `json:"quality,omitempty"`
}

func (r *Results) Materials() []string { return r.Parameters.Materials }

// Times returns the time column.
func (r *Results) Times() []float64 {
	return r.column(len(r.Parameters.Materials))
}

// Totals returns the total discharge column.
func (r *Results) Totals() []float64 {
	return r.column(len(r.Parameters.Materials) + 1)
}

// Series returns the discharge of one material over time.
func (r *Results) Series(material string) ([]float64, error) {
	i := r.Parameters.MaterialIndex(material)
	if i < 0 {
		return nil, fmt.Errorf("unknown material %q", material)
	}
	return r.column(i), nil
}

// ProportionSeries returns one material's share of the blend over time.
func (r *Results) ProportionSeries(material string) ([]float64, error) {
	i := r.Parameters.MaterialIndex(material)
	if i < 0 {
		return nil, fmt.Errorf("unknown material %q", material)
	}
	out := make([]float64, len(r.Proportions))
	for t, row := range r.Proportions {
		out[t] = row[i]
	}
	return out, nil
}

// Discharged is the total mass recorded per material.
func (r *Results) Discharged() []float64 {
	return metrics.Discharged(r.Flow)
}

// Chemistry returns the blended trend, or ErrNoChemistry.
func (r *Results) Chemistry() (*chem.Trend, error) {
	if r.ChemistryTrend == nil {
		return nil, ErrNoChemistry
	}
	return r.ChemistryTrend, nil
}

func (r *Results) column(j int) []float64 {
	out := make([]float64, len(r.Flow))
	for i, row := range r.Flow {
		out[i] = row[j]
	}
	return out
}
