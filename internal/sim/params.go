package sim

import (
	"math"

	"github.com/san-kum/beltsim/internal/belt"
	"github.com/san-kum/beltsim/internal/chem"
)

// Parameters fully describes one simulation run.
type Parameters struct {
	TotalTime    float64       `json:"total_time" yaml:"total_time"`
	BeltLength   float64       `json:"belt_length" yaml:"belt_length"`
	Resolution   float64       `json:"resolution" yaml:"resolution"`
	BeltVelocity float64       `json:"belt_velocity" yaml:"belt_velocity"`
	Materials    []string      `json:"materials" yaml:"materials"`
	Sources      []belt.Source `json:"sources" yaml:"sources"`

	// MaterialChemistry enables chemistry tracking when non-empty.
	MaterialChemistry chem.Library `json:"material_chemistry,omitempty" yaml:"material_chemistry,omitempty"`
}

// Dt is the step length in seconds.
func (p Parameters) Dt() float64 {
	return p.Resolution / p.BeltVelocity
}

// Columns is the number of belt cells.
func (p Parameters) Columns() int {
	return int(math.Floor(p.BeltLength / p.Resolution))
}

// Steps is the number of whole steps in TotalTime. The flow table has one
// more row than this.
func (p Parameters) Steps() int {
	return int(math.Floor(p.TotalTime / p.Dt()))
}

// CellsPerStep is how far the belt moves per step, never less than one cell.
func (p Parameters) CellsPerStep() int {
	k := int(math.Round(p.BeltVelocity * p.Dt() / p.Resolution))
	if k < 1 {
		return 1
	}
	return k
}

// TracksChemistry reports whether the run carries the chemistry layer.
func (p Parameters) TracksChemistry() bool {
	return len(p.MaterialChemistry) > 0
}

// TravelTime is how long material placed at column takes to reach the
// discharge column.
func (p Parameters) TravelTime(column int) float64 {
	cols := p.Columns()
	k := p.CellsPerStep()
	steps := (cols - 1 - column + k - 1) / k
	return float64(steps) * p.Dt()
}

// MaterialIndex returns the row of the named material, or -1.
func (p Parameters) MaterialIndex(name string) int {
	for i, m := range p.Materials {
		if m == name {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy.
func (p Parameters) Clone() Parameters {
	c := p
	c.Materials = append([]string(nil), p.Materials...)
	c.Sources = append([]belt.Source(nil), p.Sources...)
	if p.MaterialChemistry != nil {
		c.MaterialChemistry = make(chem.Library, len(p.MaterialChemistry))
		for k, v := range p.MaterialChemistry {
			c.MaterialChemistry[k] = v
		}
	}
	return c
}

// Limits bounds the memory a single run may allocate.
type Limits struct {
	MaxColumns int `json:"max_columns" yaml:"max_columns"`
	MaxSteps   int `json:"max_steps" yaml:"max_steps"`
	MaxCells   int `json:"max_cells" yaml:"max_cells"`
}

func DefaultLimits() Limits {
	return Limits{
		MaxColumns: 1_000_000,
		MaxSteps:   10_000_000,
		MaxCells:   50_000_000,
	}
}

// withDefaults fills non-positive fields from DefaultLimits.
func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.MaxColumns <= 0 {
		l.MaxColumns = d.MaxColumns
	}
	if l.MaxSteps <= 0 {
		l.MaxSteps = d.MaxSteps
	}
	if l.MaxCells <= 0 {
		l.MaxCells = d.MaxCells
	}
	return l
}
