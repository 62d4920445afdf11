package bunker

import "github.com/san-kum/beltsim/internal/chem"

// MaterialLayer is one deposit in a bunker. Position is the height of its
// base above the bunker floor.
type MaterialLayer struct {
	Material    string           `json:"material"`
	Volume      float64          `json:"volume"`
	Height      float64          `json:"height"`
	Position    float64          `json:"position"`
	Timestamp   float64          `json:"timestamp"`
	Composition chem.Composition `json:"chemistry"`
}

// B2 is CaO/SiO2, zero without silica.
func (l MaterialLayer) B2() float64 { return l.Composition.B2() }

// B4 is (CaO+MgO)/(SiO2+Al2O3), zero without acid oxides.
func (l MaterialLayer) B4() float64 { return l.Composition.B4() }

func (l MaterialLayer) Top() float64 { return l.Position + l.Height }

// Analysis is the blended chemistry of a volume of material.
type Analysis struct {
	Volume    float64          `json:"volume"`
	Chemistry chem.Composition `json:"chemistry"`
	B2        float64          `json:"b2"`
	B4        float64          `json:"b4"`
}

// Portion is the part of a layer that leaves in one discharge.
type Portion struct {
	Layer  MaterialLayer
	Volume float64
}
